package animation2d

import "math"

// TransformMode selects which parts of a bone's parent transform propagate
// into its own world transform, matching Spine's bone inheritance modes.
type TransformMode uint8

const (
	// TransformNormal inherits the parent's full rotation and scale.
	TransformNormal TransformMode = iota
	// TransformOnlyTranslation inherits only the parent's translation; the
	// bone's own local rotation/scale/shear form a detached 2x2 basis.
	TransformOnlyTranslation
	// TransformNoRotationOrReflection strips rotation and reflection from
	// the parent basis before composing.
	TransformNoRotationOrReflection
	// TransformNoScale normalizes the parent basis to unit scale, flipping
	// column 1's sign if the parent's determinant is negative.
	TransformNoScale
	// TransformNoScaleOrReflection normalizes the parent basis to unit
	// scale without the reflection-preserving flip.
	TransformNoScaleOrReflection
)

// BoneDefinition is the immutable setup-pose description of one bone.
// ParentIdx is -1 for the root; Idx 0 is always the root by convention.
type BoneDefinition struct {
	Name      NameId
	ParentIdx int16
	Length    float64

	X, Y                 float64
	Rotation             float64
	ScaleX, ScaleY       float64
	ShearX, ShearY       float64
	TransformMode        TransformMode
}

// DefaultBoneDefinition returns a bone at the identity setup pose.
func DefaultBoneDefinition(name NameId, parentIdx int16) BoneDefinition {
	return BoneDefinition{
		Name:      name,
		ParentIdx: parentIdx,
		ScaleX:    1,
		ScaleY:    1,
	}
}

// BoneState is the mutable per-instance local pose of one bone, seeded from
// its BoneDefinition and mutated by clip deltas, IK, and constraints.
type BoneState struct {
	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64
	ShearX, ShearY float64

	// scaleWeight tracks accumulated blend weight for the current frame's
	// scale delta so repeated partial-weight applications are idempotent
	// (see accumulator.go AccumScale).
	scaleWeight float64
}

// ResetToSetup restores a BoneState to the definition's setup pose,
// clearing any accumulated scale-blend weight.
func (s *BoneState) ResetToSetup(def *BoneDefinition) {
	s.X, s.Y = def.X, def.Y
	s.Rotation = def.Rotation
	s.ScaleX, s.ScaleY = def.ScaleX, def.ScaleY
	s.ShearX, s.ShearY = def.ShearX, def.ShearY
	s.scaleWeight = 0
}

// computeWorldTransform implements the five TransformMode variants of
// §4.7: given this bone's local pose and its parent's world transform, it
// returns the bone's own world transform.
func computeWorldTransform(local BoneState, mode TransformMode, parentWorld Mat2x3, parentValid bool) Mat2x3 {
	if !parentValid {
		m00, m01, m10, m11 := boneLocalBasis(local.Rotation, local.ScaleX, local.ScaleY, local.ShearX, local.ShearY)
		return Mat2x3{M00: m00, M01: m01, M10: m10, M11: m11, TX: local.X, TY: local.Y}
	}

	switch mode {
	case TransformOnlyTranslation:
		m00, m01, m10, m11 := boneLocalBasis(local.Rotation, local.ScaleX, local.ScaleY, local.ShearX, local.ShearY)
		tx, ty := parentWorld.TransformPoint(local.X, local.Y)
		return Mat2x3{M00: m00, M01: m01, M10: m10, M11: m11, TX: tx, TY: ty}

	case TransformNoRotationOrReflection:
		p := parentWorld
		sx, sy, det := decomposeParentScale(p)
		var s2x float64
		if det < 0 {
			s2x = -sx
		} else {
			s2x = sx
		}
		strippedParent := Mat2x3{
			M00: s2x, M01: 0,
			M10: 0, M11: sy,
			TX: p.TX, TY: p.TY,
		}
		local2x2 := localMat2x3(local)
		return strippedParent.Multiply(local2x2)

	case TransformNoScale, TransformNoScaleOrReflection:
		p := parentWorld
		c0x, c0y := p.GetColumn0()
		c1x, c1y := p.GetColumn1()
		n0x, n0y, ok0 := normalizeLengthSquared(c0x, c0y)
		n1x, n1y, ok1 := normalizeLengthSquared(c1x, c1y)
		if !ok0 {
			n0x, n0y = 1, 0
		}
		if !ok1 {
			n1x, n1y = 0, 1
		}
		normalized := p.SetColumn0(n0x, n0y).SetColumn1(n1x, n1y)
		if mode == TransformNoScale && normalized.DeterminantUpper2x2() < 0 {
			normalized = normalized.SetColumn1(-n1x, -n1y)
		}
		local2x2 := localMat2x3(local)
		return normalized.Multiply(local2x2)

	default: // TransformNormal
		local2x2 := localMat2x3(local)
		return parentWorld.Multiply(local2x2)
	}
}

func localMat2x3(local BoneState) Mat2x3 {
	m00, m01, m10, m11 := boneLocalBasis(local.Rotation, local.ScaleX, local.ScaleY, local.ShearX, local.ShearY)
	return Mat2x3{M00: m00, M01: m01, M10: m10, M11: m11, TX: local.X, TY: local.Y}
}

// decomposeParentScale returns the lengths of the parent's two basis
// columns and the signed determinant, used by NoRotationOrReflection.
func decomposeParentScale(p Mat2x3) (sx, sy, det float64) {
	c0x, c0y := p.GetColumn0()
	c1x, c1y := p.GetColumn1()
	sx = vectorLength(c0x, c0y)
	sy = vectorLength(c1x, c1y)
	det = p.DeterminantUpper2x2()
	return
}

func vectorLength(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}
