package arbor

import (
	"fmt"
	"log/slog"
)

// InterpolatorState is the scheduling state of a TransformInterpolator.
type InterpolatorState uint8

const (
	// InterpolatorUnarmed means no target or no alpha source; the behavior
	// polls passively and does no work.
	InterpolatorUnarmed InterpolatorState = iota
	// InterpolatorArmedOnAlphaChange means the alpha source is running and
	// the behavior wakes every frame the clock moves.
	InterpolatorArmedOnAlphaChange
	// InterpolatorArmedPassive means the alpha source is finished or paused;
	// the behavior polls once per frame for a restart without counting as
	// scene activity.
	InterpolatorArmedPassive
)

func (s InterpolatorState) String() string {
	switch s {
	case InterpolatorUnarmed:
		return "unarmed"
	case InterpolatorArmedOnAlphaChange:
		return "armed-on-alpha-change"
	case InterpolatorArmedPassive:
		return "armed-passive"
	default:
		return "unknown"
	}
}

// sampleKind distinguishes the three states of the last processed sample.
type sampleKind uint8

const (
	sampleNone     sampleKind = iota // nothing processed since arming
	sampleValue                      // a running or paused value
	sampleFinished                   // the terminal value has been applied
)

type alphaSample struct {
	kind  sampleKind
	value float64
}

// passiveWakeup is the low-frequency request used while the alpha source is
// finished, paused or missing.
var passiveWakeup = WakeupOnElapsedFrames(0, true)

// TransformInterpolator is the shared machinery of interpolator behaviors:
// it samples an alpha source when woken, asks its producer for a transform,
// and replaces the target's local transform with it.
//
// Concrete interpolators embed it and pass themselves to init as the
// TransformProducer.
type TransformInterpolator struct {
	host        *Node
	target      *Node
	alpha       AlphaSource
	axis        Transform
	axisInverse Transform
	last        alphaSample
	state       InterpolatorState
	producer    TransformProducer
}

func (ti *TransformInterpolator) init(producer TransformProducer, alpha AlphaSource, target *Node) {
	ti.producer = producer
	ti.alpha = alpha
	ti.target = target
	ti.axis = IdentityTransform
	ti.axisInverse = IdentityTransform
}

func (ti *TransformInterpolator) setHost(n *Node) {
	ti.host = n
}

// Host returns the behavior node this interpolator is attached to, if any.
func (ti *TransformInterpolator) Host() *Node {
	return ti.host
}

// SetTarget sets the node whose local transform is rewritten.
func (ti *TransformInterpolator) SetTarget(n *Node) {
	ti.target = n
}

// Target returns the node whose local transform is rewritten.
func (ti *TransformInterpolator) Target() *Node {
	return ti.target
}

// SetAlpha sets the alpha source. nil makes the interpolator inert.
func (ti *TransformInterpolator) SetAlpha(a AlphaSource) {
	ti.alpha = a
}

// Alpha returns the alpha source.
func (ti *TransformInterpolator) Alpha() AlphaSource {
	return ti.alpha
}

// SetTransformAxis sets the local frame the interpolation is performed in and
// recomputes its inverse. A singular axis returns an error wrapping
// ErrDegenerateAxis and leaves the current axis unchanged.
func (ti *TransformInterpolator) SetTransformAxis(axis Transform) error {
	inv, err := axis.Invert()
	if err != nil {
		return fmt.Errorf("set transform axis: %w", err)
	}
	ti.axis = axis
	ti.axisInverse = inv
	return nil
}

// TransformAxis returns the axis transform.
func (ti *TransformInterpolator) TransformAxis() Transform {
	return ti.axis
}

// State returns the current scheduling state.
func (ti *TransformInterpolator) State() InterpolatorState {
	return ti.state
}

// LastAlpha returns the most recently applied alpha value. ok is false if
// nothing has been applied since the behavior was armed.
func (ti *TransformInterpolator) LastAlpha() (value float64, ok bool) {
	return ti.last.value, ti.last.kind != sampleNone
}

// ArmInitial implements Behavior.
func (ti *TransformInterpolator) ArmInitial() Wakeup {
	ti.last = alphaSample{}
	if ti.alpha == nil || ti.target == nil {
		ti.state = InterpolatorUnarmed
		return passiveWakeup
	}
	ti.state = InterpolatorArmedOnAlphaChange
	return WakeupOnAlphaUpdate()
}

// OnWakeup implements Behavior. The target is written when the sampled value
// differs from the last applied one, and exactly once more when the source
// first reports AlphaFinished, even if the value did not change.
func (ti *TransformInterpolator) OnWakeup(fc FrameContext) Wakeup {
	if ti.alpha == nil || ti.target == nil {
		ti.transition(fc, InterpolatorUnarmed)
		return passiveWakeup
	}

	value, st := ti.alpha.Sample(fc.Now)
	if ti.changed(value, st) {
		ti.target.SetTransform(ti.producer.ComputeTransform(value))
		kind := sampleValue
		if st == AlphaFinished {
			kind = sampleFinished
		}
		ti.last = alphaSample{kind: kind, value: value}
	}

	if st == AlphaRunning {
		ti.transition(fc, InterpolatorArmedOnAlphaChange)
		return WakeupOnAlphaUpdate()
	}
	ti.transition(fc, InterpolatorArmedPassive)
	return passiveWakeup
}

// changed decides whether a sample needs to be applied.
func (ti *TransformInterpolator) changed(value float64, st AlphaState) bool {
	switch ti.last.kind {
	case sampleNone:
		return true
	case sampleFinished:
		return st != AlphaFinished || value != ti.last.value
	default:
		return st == AlphaFinished || value != ti.last.value
	}
}

func (ti *TransformInterpolator) transition(fc FrameContext, next InterpolatorState) {
	if ti.state == next {
		return
	}
	if fc.Logger != nil {
		fc.Logger.Debug("interpolator state",
			slog.String("node", nodeName(fc.Node)),
			slog.String("from", ti.state.String()),
			slog.String("to", next.String()),
			slog.Uint64("frame", fc.Frame))
	}
	ti.state = next
}

// duplicateFrom copies the shared interpolator configuration of original.
// The target reference is copied as-is and remapped later by
// UpdateNodeReferences.
func (ti *TransformInterpolator) duplicateFrom(original *TransformInterpolator, forceDuplicate bool) error {
	if original.host != nil && original.host.restricted() {
		return fmt.Errorf("duplicate %q: %w", original.host.Name, ErrRestrictedAccess)
	}
	ti.axis = original.axis
	ti.axisInverse = original.axisInverse
	ti.target = original.target
	ti.alpha = original.alpha
	if d, ok := original.alpha.(DuplicableAlpha); ok && (forceDuplicate || d.DuplicateOnCloneTree()) {
		ti.alpha = d.CloneAlpha()
	}
	return nil
}

// UpdateNodeReferences implements NodeReferenceUpdater: a target cloned in
// the same CloneTree call is replaced by its clone.
func (ti *TransformInterpolator) UpdateNodeReferences(table *NodeReferenceTable) {
	if ti.target != nil {
		ti.target = table.Lookup(ti.target)
	}
}

func nodeName(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Name
}
