package arbor

import "fmt"

// ScaleInterpolator varies its target's uniform scale between MinimumScale
// (alpha 0) and MaximumScale (alpha 1). The scale is applied about the origin
// of the transform axis:
//
//	target = axis * Scale(s) * axis⁻¹
//
// Alpha values outside [0, 1] extrapolate, and MinimumScale may exceed
// MaximumScale to run the animation in reverse.
type ScaleInterpolator struct {
	TransformInterpolator

	minScale float64
	maxScale float64
}

// NewScaleInterpolator creates a scale interpolator with an identity axis,
// a minimum scale of 0.1 and a maximum scale of 1.0.
func NewScaleInterpolator(alpha AlphaSource, target *Node) *ScaleInterpolator {
	si := &ScaleInterpolator{minScale: 0.1, maxScale: 1.0}
	si.init(si, alpha, target)
	return si
}

// NewScaleInterpolatorWithAxis creates a scale interpolator operating in the
// given axis frame. A singular axis returns an error wrapping ErrDegenerateAxis.
func NewScaleInterpolatorWithAxis(alpha AlphaSource, target *Node, axis Transform, minScale, maxScale float64) (*ScaleInterpolator, error) {
	si := &ScaleInterpolator{minScale: minScale, maxScale: maxScale}
	si.init(si, alpha, target)
	if err := si.SetTransformAxis(axis); err != nil {
		return nil, err
	}
	return si, nil
}

// newScaleInterpolatorTemplate returns an unattached instance for CloneNode to
// fill in.
func newScaleInterpolatorTemplate() *ScaleInterpolator {
	si := &ScaleInterpolator{}
	si.init(si, nil, nil)
	return si
}

// SetMinimumScale sets the scale applied at alpha 0.
func (si *ScaleInterpolator) SetMinimumScale(s float64) {
	si.minScale = s
}

// MinimumScale returns the scale applied at alpha 0.
func (si *ScaleInterpolator) MinimumScale() float64 {
	return si.minScale
}

// SetMaximumScale sets the scale applied at alpha 1.
func (si *ScaleInterpolator) SetMaximumScale(s float64) {
	si.maxScale = s
}

// MaximumScale returns the scale applied at alpha 1.
func (si *ScaleInterpolator) MaximumScale() float64 {
	return si.maxScale
}

// SetAxisOfScale is SetTransformAxis under its scale-specific name.
func (si *ScaleInterpolator) SetAxisOfScale(axis Transform) error {
	return si.SetTransformAxis(axis)
}

// AxisOfScale is TransformAxis under its scale-specific name.
func (si *ScaleInterpolator) AxisOfScale() Transform {
	return si.TransformAxis()
}

// ScaleAt returns the interpolated scale for alpha, without clamping.
func (si *ScaleInterpolator) ScaleAt(alpha float64) float64 {
	return (1-alpha)*si.minScale + alpha*si.maxScale
}

// ComputeTransform implements TransformProducer.
func (si *ScaleInterpolator) ComputeTransform(alpha float64) Transform {
	return si.axis.Mul(ScaleTransform(si.ScaleAt(alpha))).Mul(si.axisInverse)
}

// CloneNode implements SceneNode.
func (si *ScaleInterpolator) CloneNode(forceDuplicate bool) (SceneNode, error) {
	c := newScaleInterpolatorTemplate()
	if err := c.DuplicateAttributes(si, forceDuplicate); err != nil {
		return nil, err
	}
	return c, nil
}

// DuplicateAttributes implements SceneNode. original must be a
// *ScaleInterpolator.
func (si *ScaleInterpolator) DuplicateAttributes(original SceneNode, forceDuplicate bool) error {
	o, ok := original.(*ScaleInterpolator)
	if !ok || o == nil {
		return fmt.Errorf("duplicate scale interpolator from %T: %w", original, ErrInvalidCloneSource)
	}
	if err := si.duplicateFrom(&o.TransformInterpolator, forceDuplicate); err != nil {
		return err
	}
	si.SetMinimumScale(o.MinimumScale())
	si.SetMaximumScale(o.MaximumScale())
	return nil
}
