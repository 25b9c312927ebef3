package arbor

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AlphaState reports whether an alpha source is still producing values.
type AlphaState uint8

const (
	AlphaRunning  AlphaState = iota // value follows the clock
	AlphaPaused                     // value frozen, may resume
	AlphaFinished                   // all loops done, value is final
)

func (s AlphaState) String() string {
	switch s {
	case AlphaRunning:
		return "running"
	case AlphaPaused:
		return "paused"
	case AlphaFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// AlphaSource maps scene time to a normalized progress value, nominally in
// [0, 1]. Sources are shared between behaviors and are never mutated by them.
type AlphaSource interface {
	Sample(now time.Duration) (float64, AlphaState)
}

// DuplicableAlpha is an alpha source that can be deep-copied when a subtree
// referencing it is cloned. Sources that do not implement it are always
// shared by clones.
type DuplicableAlpha interface {
	AlphaSource
	DuplicateOnCloneTree() bool
	CloneAlpha() AlphaSource
}

// AlphaMode selects which ramps an Alpha cycle contains.
type AlphaMode uint8

const (
	AlphaIncreasing AlphaMode = 1 << iota // 0 -> 1 ramp, then hold at one
	AlphaDecreasing                       // 1 -> 0 ramp, then hold at zero

	AlphaBoth = AlphaIncreasing | AlphaDecreasing
)

// Alpha is a looping alpha program. One cycle is
//
//	Increasing ramp -> AtOne hold -> Decreasing ramp -> AtZero hold
//
// with the phases of a mode not selected skipped. The program starts at
// TriggerTime+PhaseDelay on the scene clock and runs LoopCount cycles
// (-1 loops forever). Ease shapes both ramps; nil means linear.
type Alpha struct {
	LoopCount   int
	Mode        AlphaMode
	TriggerTime time.Duration
	PhaseDelay  time.Duration
	Increasing  time.Duration
	AtOne       time.Duration
	Decreasing  time.Duration
	AtZero      time.Duration
	Ease        ease.TweenFunc

	// DuplicateOnClone makes CloneTree give each clone its own copy of this
	// Alpha instead of sharing it.
	DuplicateOnClone bool

	paused   bool
	pausedAt time.Duration
	shift    time.Duration
}

// NewAlpha creates an increasing-only Alpha that ramps from 0 to 1 over
// increasing, loopCount times (-1 for forever), starting at scene time 0.
func NewAlpha(loopCount int, increasing time.Duration) *Alpha {
	return &Alpha{
		LoopCount:  loopCount,
		Mode:       AlphaIncreasing,
		Increasing: increasing,
	}
}

// Sample returns the value and state at scene time now.
func (a *Alpha) Sample(now time.Duration) (float64, AlphaState) {
	state := AlphaRunning
	if a.paused {
		now = a.pausedAt
		state = AlphaPaused
	}
	v, finished := a.valueAt(now)
	if finished {
		return v, AlphaFinished
	}
	return v, state
}

// Finished reports whether every loop has completed by scene time now.
func (a *Alpha) Finished(now time.Duration) bool {
	_, st := a.Sample(now)
	return st == AlphaFinished
}

// Pause freezes the value at scene time now until Resume.
func (a *Alpha) Pause(now time.Duration) {
	if a.paused {
		return
	}
	a.paused = true
	a.pausedAt = now
}

// Resume continues a paused Alpha from where it was frozen.
func (a *Alpha) Resume(now time.Duration) {
	if !a.paused {
		return
	}
	a.paused = false
	a.shift += now - a.pausedAt
}

// IsPaused reports whether the Alpha is paused.
func (a *Alpha) IsPaused() bool {
	return a.paused
}

// Restart starts the program over with its trigger at scene time now.
func (a *Alpha) Restart(now time.Duration) {
	a.TriggerTime = now
	a.shift = 0
	a.paused = false
}

// DuplicateOnCloneTree implements DuplicableAlpha.
func (a *Alpha) DuplicateOnCloneTree() bool {
	return a.DuplicateOnClone
}

// CloneAlpha implements DuplicableAlpha.
func (a *Alpha) CloneAlpha() AlphaSource {
	c := *a
	return &c
}

func (a *Alpha) period() time.Duration {
	var p time.Duration
	if a.Mode&AlphaIncreasing != 0 {
		p += a.Increasing + a.AtOne
	}
	if a.Mode&AlphaDecreasing != 0 {
		p += a.Decreasing + a.AtZero
	}
	return p
}

// restValue is the value before the trigger.
func (a *Alpha) restValue() float64 {
	if a.Mode&AlphaIncreasing != 0 {
		return 0
	}
	return 1
}

// finalValue is the value once all loops are done.
func (a *Alpha) finalValue() float64 {
	if a.Mode&AlphaDecreasing != 0 {
		return 0
	}
	return 1
}

func (a *Alpha) valueAt(now time.Duration) (float64, bool) {
	t := now - a.shift - a.TriggerTime - a.PhaseDelay
	if t < 0 {
		return a.restValue(), false
	}
	period := a.period()
	if period <= 0 {
		return a.finalValue(), true
	}
	if a.LoopCount >= 0 && t/period >= time.Duration(a.LoopCount) {
		return a.finalValue(), true
	}

	ct := t % period
	if a.Mode&AlphaIncreasing != 0 {
		if ct < a.Increasing {
			return a.ramp(ct, a.Increasing), false
		}
		ct -= a.Increasing
		if ct < a.AtOne {
			return 1, false
		}
		ct -= a.AtOne
	}
	if a.Mode&AlphaDecreasing != 0 && ct < a.Decreasing {
		return 1 - a.ramp(ct, a.Decreasing), false
	}
	return 0, false
}

func (a *Alpha) ramp(t, d time.Duration) float64 {
	if a.Ease == nil {
		return float64(t) / float64(d)
	}
	return float64(a.Ease(float32(t.Seconds()), 0, 1, float32(d.Seconds())))
}

// TweenAlpha is a one-shot alpha source backed by a gween tween from 0 to 1.
// It reports AlphaFinished once Duration has elapsed after Start.
type TweenAlpha struct {
	Start            time.Duration
	Duration         time.Duration
	DuplicateOnClone bool

	fn    ease.TweenFunc
	tween *gween.Tween
}

// NewTweenAlpha creates a tween alpha starting at scene time start. A nil fn
// uses ease.Linear.
func NewTweenAlpha(start, duration time.Duration, fn ease.TweenFunc) *TweenAlpha {
	if fn == nil {
		fn = ease.Linear
	}
	return &TweenAlpha{
		Start:    start,
		Duration: duration,
		fn:       fn,
		tween:    gween.New(0, 1, float32(duration.Seconds()), fn),
	}
}

// Sample implements AlphaSource.
func (a *TweenAlpha) Sample(now time.Duration) (float64, AlphaState) {
	t := now - a.Start
	if t < 0 {
		t = 0
	}
	if a.Duration <= 0 {
		if now < a.Start {
			return 0, AlphaRunning
		}
		return 1, AlphaFinished
	}
	v, finished := a.tween.Set(float32(t.Seconds()))
	if finished {
		return float64(v), AlphaFinished
	}
	return float64(v), AlphaRunning
}

// Restart replays the tween from scene time now.
func (a *TweenAlpha) Restart(now time.Duration) {
	a.Start = now
}

// DuplicateOnCloneTree implements DuplicableAlpha.
func (a *TweenAlpha) DuplicateOnCloneTree() bool {
	return a.DuplicateOnClone
}

// CloneAlpha implements DuplicableAlpha.
func (a *TweenAlpha) CloneAlpha() AlphaSource {
	c := NewTweenAlpha(a.Start, a.Duration, a.fn)
	c.DuplicateOnClone = a.DuplicateOnClone
	return c
}
