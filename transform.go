package mapcanvas

import "math"

// Transform is an immutable 2D affine map.
//
//	| ScaleX  SkewX   TranslateX |
//	| SkewY   ScaleY  TranslateY |
//	| 0       0       1          |
//
// Applying it to (x, y) yields
//
//	x' = ScaleX*x + SkewX*y + TranslateX
//	y' = SkewY*x + ScaleY*y + TranslateY
type Transform struct {
	ScaleX, SkewX, SkewY, ScaleY float64
	TranslateX, TranslateY       float64
}

// Identity is the neutral element of Mul.
var Identity = Transform{ScaleX: 1, ScaleY: 1}

// Scale returns a scaling transform. Zero factors are accepted and collapse
// geometry.
func Scale(sx, sy float64) Transform {
	return Transform{ScaleX: sx, ScaleY: sy}
}

// Translate returns a translation transform.
func Translate(tx, ty float64) Transform {
	return Transform{ScaleX: 1, ScaleY: 1, TranslateX: tx, TranslateY: ty}
}

// Rotate returns a clockwise rotation (Y down) by angle radians.
func Rotate(angle float64) Transform {
	sin, cos := math.Sincos(angle)
	return Transform{ScaleX: cos, SkewX: -sin, SkewY: sin, ScaleY: cos}
}

// Mul composes t with o so that t.Mul(o).Apply(p) == t.Apply(o.Apply(p)):
// o is applied first, then t.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		ScaleX:     t.ScaleX*o.ScaleX + t.SkewX*o.SkewY,
		SkewX:      t.ScaleX*o.SkewX + t.SkewX*o.ScaleY,
		SkewY:      t.SkewY*o.ScaleX + t.ScaleY*o.SkewY,
		ScaleY:     t.SkewY*o.SkewX + t.ScaleY*o.ScaleY,
		TranslateX: t.ScaleX*o.TranslateX + t.SkewX*o.TranslateY + t.TranslateX,
		TranslateY: t.SkewY*o.TranslateX + t.ScaleY*o.TranslateY + t.TranslateY,
	}
}

// Apply maps a point through t.
func (t Transform) Apply(p Vec2) Vec2 {
	x, y := t.ApplyXY(p.X, p.Y)
	return Vec2{x, y}
}

// ApplyXY maps (x, y) through t.
func (t Transform) ApplyXY(x, y float64) (float64, float64) {
	return t.ScaleX*x + t.SkewX*y + t.TranslateX, t.SkewY*x + t.ScaleY*y + t.TranslateY
}

// Invert returns the inverse of t.
// Returns Identity if t is singular (determinant ≈ 0).
func (t Transform) Invert() Transform {
	det := t.ScaleX*t.ScaleY - t.SkewX*t.SkewY
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := t.ScaleY * invDet
	b := -t.SkewX * invDet
	c := -t.SkewY * invDet
	d := t.ScaleX * invDet
	return Transform{
		ScaleX:     a,
		SkewX:      b,
		SkewY:      c,
		ScaleY:     d,
		TranslateX: -(a*t.TranslateX + b*t.TranslateY),
		TranslateY: -(c*t.TranslateX + d*t.TranslateY),
	}
}

// Equal reports whether every coefficient of t and o differs by at most eps.
func (t Transform) Equal(o Transform, eps float64) bool {
	a, b := t.Elements(), o.Elements()
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Elements returns the coefficients in the order
// ScaleX, SkewY, SkewX, ScaleY, TranslateX, TranslateY (column-major, the
// layout most GPU matrix types expect).
func (t Transform) Elements() [6]float64 {
	return [6]float64{t.ScaleX, t.SkewY, t.SkewX, t.ScaleY, t.TranslateX, t.TranslateY}
}

// IsIdentity reports whether t is exactly Identity.
func (t Transform) IsIdentity() bool {
	return t == Identity
}
