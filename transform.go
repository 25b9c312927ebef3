package arbor

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Transform is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Transform [6]float64

// IdentityTransform is the identity affine matrix.
var IdentityTransform = Transform{1, 0, 0, 1, 0, 0}

// ScaleTransform returns a uniform scale about the origin.
func ScaleTransform(s float64) Transform {
	return Transform{s, 0, 0, s, 0, 0}
}

// TranslateTransform returns a translation by (x, y).
func TranslateTransform(x, y float64) Transform {
	return Transform{1, 0, 0, 1, x, y}
}

// RotateTransform returns a rotation by r radians about the origin.
func RotateTransform(r float64) Transform {
	sin, cos := math.Sincos(r)
	return Transform{cos, sin, -sin, cos, 0, 0}
}

// Mul returns m * o, i.e. o is applied first.
func (m Transform) Mul(o Transform) Transform {
	return Transform{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Determinant returns the determinant of the linear part.
func (m Transform) Determinant() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// Invert returns the exact inverse of m. A singular matrix, or one whose
// entries or inverse are not finite, yields an error wrapping
// ErrDegenerateAxis. Ill-conditioned but invertible matrices are accepted.
func (m Transform) Invert() (Transform, error) {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return IdentityTransform, fmt.Errorf("%w: determinant %v", ErrDegenerateAxis, det)
	}
	a := mat.NewDense(3, 3, []float64{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
		0, 0, 1,
	})
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return IdentityTransform, fmt.Errorf("%w: determinant %v: %v", ErrDegenerateAxis, det, err)
		}
	}
	out := Transform{
		inv.At(0, 0), inv.At(1, 0),
		inv.At(0, 1), inv.At(1, 1),
		inv.At(0, 2), inv.At(1, 2),
	}
	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return IdentityTransform, fmt.Errorf("%w: inverse of determinant %v is not finite", ErrDegenerateAxis, det)
		}
	}
	return out, nil
}

// Apply transforms the point (x, y).
func (m Transform) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// invertOrIdentity is the lenient inverse used for coordinate conversion,
// where a collapsed node maps everything to the identity instead of failing.
func invertOrIdentity(m Transform) Transform {
	det := m.Determinant()
	if det > -1e-12 && det < 1e-12 {
		return IdentityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Transform{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// computeLocalTransform returns the node's local matrix. A transform written
// with SetTransform replaces the decomposed fields entirely; otherwise the
// matrix is built in the order
//
//	Translate(-PivotX, -PivotY) -> Scale -> Skew -> Rotate -> Translate(X, Y)
func computeLocalTransform(n *Node) Transform {
	if n.hasTransform {
		return n.transform
	}

	sx := n.ScaleX
	sy := n.ScaleY

	sin, cos := math.Sincos(n.Rotation)

	var tanSkewX, tanSkewY float64
	if n.SkewX != 0 {
		tanSkewX = math.Tan(n.SkewX)
	}
	if n.SkewY != 0 {
		tanSkewY = math.Tan(n.SkewY)
	}

	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	px := n.PivotX
	py := n.PivotY
	preTx := -px*sx - tanSkewX*py*sy
	preTy := -tanSkewY*px*sx - py*sy

	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	return Transform{ra, rb, rc, rd, rtx + n.X, rty + n.Y}
}

// updateWorldTransform recomputes a node's worldTransform and worldAlpha.
// parentRecomputed forces recomputation of clean nodes under a moved parent.
func updateWorldTransform(n *Node, parentTransform Transform, parentAlpha float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldTransform = parentTransform.Mul(computeLocalTransform(n))
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldAlpha, recompute)
	}
}

// --- Transform property setters ---

// SetTransform replaces the node's entire local transform. Until
// ClearTransform is called the decomposed fields (X, ScaleX, Rotation, ...)
// are ignored.
func (n *Node) SetTransform(t Transform) {
	n.transform = t
	n.hasTransform = true
	n.transformDirty = true
	n.transformWrites++
}

// Transform returns the node's current local transform.
func (n *Node) Transform() Transform {
	return computeLocalTransform(n)
}

// ClearTransform discards a transform set with SetTransform and returns the
// node to its decomposed fields.
func (n *Node) ClearTransform() {
	n.hasTransform = false
	n.transformDirty = true
}

// TransformWrites returns how many times SetTransform has been called.
func (n *Node) TransformWrites() uint64 {
	return n.transformWrites
}

// SetPosition sets the node's local X and Y and marks it dirty.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.transformDirty = true
}

// SetScale sets the node's ScaleX and ScaleY and marks it dirty.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
	n.transformDirty = true
}

// SetRotation sets the node's rotation (in radians) and marks it dirty.
func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.transformDirty = true
}

// SetPivot sets the node's PivotX and PivotY and marks it dirty.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX = px
	n.PivotY = py
	n.transformDirty = true
}

// SetAlpha sets the node's alpha and marks it dirty.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty forces recomputation of the world transform on the next frame.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// WorldTransform returns the world matrix computed during the last frame.
func (n *Node) WorldTransform() Transform {
	return n.worldTransform
}

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return invertOrIdentity(n.worldTransform).Apply(wx, wy)
}

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return n.worldTransform.Apply(lx, ly)
}
