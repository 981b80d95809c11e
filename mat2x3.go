package animation2d

import "math"

// identityDeterminantEpsilon is the determinant magnitude below which a
// Mat2x3 is treated as non-invertible and Invert substitutes identity.
const identityDeterminantEpsilon = 1e-5

// degenerateLengthSquaredEpsilon guards vector-length normalization against
// division by (near) zero.
const degenerateLengthSquaredEpsilon = 1e-4

// Mat2x3 is a 2x3 affine transform:
//
//	[ M00 M01 TX ]
//	[ M10 M11 TY ]
//
// applied to a column vector (x, y, 1). This is the "skinning palette" entry
// type: one per bone, in world space, after PoseSkinningPalette runs.
type Mat2x3 struct {
	M00, M01 float64
	M10, M11 float64
	TX, TY   float64
}

// IdentityMat2x3 returns the identity transform.
func IdentityMat2x3() Mat2x3 {
	return Mat2x3{M00: 1, M11: 1}
}

// Multiply returns p * c — applying c first, then p (p is the parent, c is
// the child, matching the teacher's multiplyAffine convention).
func (p Mat2x3) Multiply(c Mat2x3) Mat2x3 {
	return Mat2x3{
		M00: p.M00*c.M00 + p.M01*c.M10,
		M01: p.M00*c.M01 + p.M01*c.M11,
		M10: p.M10*c.M00 + p.M11*c.M10,
		M11: p.M10*c.M01 + p.M11*c.M11,
		TX:  p.M00*c.TX + p.M01*c.TY + p.TX,
		TY:  p.M10*c.TX + p.M11*c.TY + p.TY,
	}
}

// TransformPoint applies the transform to (x, y).
func (m Mat2x3) TransformPoint(x, y float64) (float64, float64) {
	return m.M00*x + m.M01*y + m.TX, m.M10*x + m.M11*y + m.TY
}

// DeterminantUpper2x2 returns the determinant of the upper-left 2x2 block,
// whose sign indicates whether the basis is mirrored.
func (m Mat2x3) DeterminantUpper2x2() float64 {
	return m.M00*m.M11 - m.M01*m.M10
}

// Invert returns the inverse transform. If the determinant's magnitude is at
// or below identityDeterminantEpsilon, it returns the identity transform
// rather than dividing by (near) zero.
func (m Mat2x3) Invert() Mat2x3 {
	det := m.DeterminantUpper2x2()
	if det > -identityDeterminantEpsilon && det < identityDeterminantEpsilon {
		return IdentityMat2x3()
	}
	invDet := 1.0 / det
	m00 := m.M11 * invDet
	m01 := -m.M01 * invDet
	m10 := -m.M10 * invDet
	m11 := m.M00 * invDet
	return Mat2x3{
		M00: m00, M01: m01,
		M10: m10, M11: m11,
		TX: -(m00*m.TX + m01*m.TY),
		TY: -(m10*m.TX + m11*m.TY),
	}
}

// GetColumn0 returns the first basis column (M00, M10).
func (m Mat2x3) GetColumn0() (float64, float64) { return m.M00, m.M10 }

// GetColumn1 returns the second basis column (M01, M11).
func (m Mat2x3) GetColumn1() (float64, float64) { return m.M01, m.M11 }

// SetColumn0 returns a copy with the first basis column replaced.
func (m Mat2x3) SetColumn0(x, y float64) Mat2x3 { m.M00, m.M10 = x, y; return m }

// SetColumn1 returns a copy with the second basis column replaced.
func (m Mat2x3) SetColumn1(x, y float64) Mat2x3 { m.M01, m.M11 = x, y; return m }

// boneLocalBasis builds the Normal-mode local rotation+scale 2x2 block from
// rotation (degrees), scale, and shear (degrees), matching
// BoneInstance::ComputeWorldTransform in the reference implementation:
// column 0 uses angle (rot+shearX), column 1 uses angle (rot+90+shearY).
func boneLocalBasis(rotationDeg, scaleX, scaleY, shearXDeg, shearYDeg float64) (m00, m01, m10, m11 float64) {
	rad0 := degreesToRadians(rotationDeg + shearXDeg)
	rad1 := degreesToRadians(rotationDeg + 90 + shearYDeg)
	m00 = math.Cos(rad0) * scaleX
	m01 = math.Cos(rad1) * scaleY
	m10 = math.Sin(rad0) * scaleX
	m11 = math.Sin(rad1) * scaleY
	return
}

func degreesToRadians(d float64) float64 { return d * math.Pi / 180 }
func radiansToDegrees(r float64) float64 { return r * 180 / math.Pi }

// clampDegrees wraps an angle to (-180, 180].
func clampDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// lerpDegrees interpolates the shortest arc from a to b by t.
func lerpDegrees(a, b, t float64) float64 {
	delta := clampDegrees(b - a)
	return a + delta*t
}

// normalizeLengthSquared returns the vector scaled to unit length, or the
// original vector unchanged if its length-squared is at or below
// degenerateLengthSquaredEpsilon.
func normalizeLengthSquared(x, y float64) (float64, float64, bool) {
	lenSq := x*x + y*y
	if lenSq <= degenerateLengthSquaredEpsilon {
		return x, y, false
	}
	inv := 1.0 / math.Sqrt(lenSq)
	return x * inv, y * inv, true
}
