package animation2d

import "math"

// TransformConstraintDefinition is an immutable transform constraint: each
// Chain bone copies a fraction of TargetBoneIdx's transform, per the four
// (Local, Relative) variants of §4.6.
type TransformConstraintDefinition struct {
	Name          NameId
	Chain         []int16
	TargetBoneIdx int16
	Order         int32

	Local    bool
	Relative bool

	DeltaX, DeltaY   float64
	DeltaRotation    float64
	DeltaScaleX, DeltaScaleY float64
	DeltaShearY      float64

	MixPos, MixRotation, MixScale, MixShear float64
}

// TransformConstraintState is the mutable per-instance parameter set for
// one transform constraint.
type TransformConstraintState struct {
	MixPos, MixRotation, MixScale, MixShear float64
}

// ResetToSetup restores a TransformConstraintState to the definition's
// setup values.
func (s *TransformConstraintState) ResetToSetup(def *TransformConstraintDefinition) {
	s.MixPos = def.MixPos
	s.MixRotation = def.MixRotation
	s.MixScale = def.MixScale
	s.MixShear = def.MixShear
}

// applyTransformConstraint implements the four variants of §4.6: it
// returns the chain bone's local state after blending toward the target's
// transform (targetLocal for the local variants, targetWorld for the world
// variants) by the constraint's mix factors. The world variants apply
// MixRotation and MixPos only; MixScale and MixShear are not applied there.
func applyTransformConstraint(def *TransformConstraintDefinition, state *TransformConstraintState,
	bone BoneState, targetLocal BoneState, targetWorld Mat2x3, mirrored bool) BoneState {

	sign := 1.0
	if mirrored {
		sign = -1.0
	}

	out := bone

	if def.Local {
		// Absolute-local / relative-local: blend local TRS+shear toward
		// the target's local values; world transform is recomputed by the
		// caller via computeWorldTransform afterward.
		if def.Relative {
			out.X = bone.X + (targetLocal.X+def.DeltaX)*state.MixPos
			out.Y = bone.Y + (targetLocal.Y+def.DeltaY)*state.MixPos
			out.Rotation = bone.Rotation + (targetLocal.Rotation+def.DeltaRotation)*state.MixRotation
			out.ScaleX = bone.ScaleX + (targetLocal.ScaleX-1+def.DeltaScaleX)*state.MixScale
			out.ScaleY = bone.ScaleY + (targetLocal.ScaleY-1+def.DeltaScaleY)*state.MixScale
			out.ShearY = bone.ShearY + (targetLocal.ShearY+def.DeltaShearY)*state.MixShear
		} else {
			out.X = bone.X + (targetLocal.X+def.DeltaX-bone.X)*state.MixPos
			out.Y = bone.Y + (targetLocal.Y+def.DeltaY-bone.Y)*state.MixPos
			out.Rotation = bone.Rotation + clampDegrees(targetLocal.Rotation+def.DeltaRotation-bone.Rotation)*state.MixRotation
			out.ScaleX = bone.ScaleX + (targetLocal.ScaleX+def.DeltaScaleX-bone.ScaleX)*state.MixScale
			out.ScaleY = bone.ScaleY + (targetLocal.ScaleY+def.DeltaScaleY-bone.ScaleY)*state.MixScale
			out.ShearY = bone.ShearY + (targetLocal.ShearY+def.DeltaShearY-bone.ShearY)*state.MixShear
		}
		return out
	}

	// Absolute-world / relative-world: operate directly on the world
	// basis, with a sign flip on rotation mixing when the target is
	// mirrored; scale and shear are left unchanged.
	boneWorld := localMat2x3(bone)
	targetRotation := matRotationDegrees(targetWorld) * sign

	if def.Relative {
		out.Rotation = bone.Rotation + (targetRotation+def.DeltaRotation)*state.MixRotation
	} else {
		current := matRotationDegrees(boneWorld)
		out.Rotation = bone.Rotation + clampDegrees(targetRotation+def.DeltaRotation-current)*state.MixRotation
	}
	tx, ty := targetWorld.TX, targetWorld.TY
	if def.Relative {
		out.X = bone.X + (tx+def.DeltaX)*state.MixPos
		out.Y = bone.Y + (ty+def.DeltaY)*state.MixPos
	} else {
		out.X = bone.X + (tx+def.DeltaX-boneWorld.TX)*state.MixPos
		out.Y = bone.Y + (ty+def.DeltaY-boneWorld.TY)*state.MixPos
	}
	return out
}

// matRotationDegrees extracts the rotation angle (degrees) of a matrix's
// first basis column.
func matRotationDegrees(m Mat2x3) float64 {
	x, y := m.GetColumn0()
	return radiansToDegrees(math.Atan2(y, x))
}
