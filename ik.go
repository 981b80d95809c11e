package animation2d

import "math"

// IkDefinition is an immutable IK constraint: 1 or 2 bones in Chain rotate
// toward TargetBoneIdx's world position.
type IkDefinition struct {
	Name         NameId
	Chain        []int16 // length 1 or 2, parent-to-child order
	TargetBoneIdx int16
	Order        int32

	Mix          float64
	Softness     float64
	BendPositive bool
	Compress     bool
	Stretch      bool
	Uniform      bool
}

// IkState is the mutable per-instance parameter set for one IK constraint.
type IkState struct {
	Mix          float64
	Softness     float64
	BendPositive bool
	Compress     bool
	Stretch      bool
}

// ResetToSetup restores an IkState to the definition's setup values.
func (s *IkState) ResetToSetup(def *IkDefinition) {
	s.Mix = def.Mix
	s.Softness = def.Softness
	s.BendPositive = def.BendPositive
	s.Compress = def.Compress
	s.Stretch = def.Stretch
}

// solveIk1 rotates the parent bone toward targetWorldX/Y in parent-local
// space, optionally rescaling it to compress/stretch to reach, per §4.6.
// parentParentWorld is the world transform of parent's own parent (identity
// if parent is the root); parentParentValid reports whether that parent exists.
func solveIk1(local BoneState, mode TransformMode, parentParentWorld Mat2x3, parentParentValid bool,
	targetWorldX, targetWorldY float64, alpha float64, compress, stretch, uniform bool) BoneState {

	if mode == TransformOnlyTranslation {
		return local
	}

	// Transform target into parent-local space using the grandparent's
	// world transform (mirrors InternalPoseIk1's use of parent.parent).
	var lx, ly float64
	if parentParentValid {
		inv := parentParentWorld.Invert()
		lx, ly = inv.TransformPoint(targetWorldX, targetWorldY)
	} else {
		lx, ly = targetWorldX, targetWorldY
	}

	px, py := lx-local.X, ly-local.Y

	rotationDeg := local.Rotation
	shearX := local.ShearX
	if mode == TransformNoRotationOrReflection {
		shearX = 0
	}

	sx, sy := local.ScaleX, local.ScaleY

	targetAngle := radiansToDegrees(math.Atan2(py, px))
	delta := clampDegrees(targetAngle - rotationDeg - shearX)

	out := local
	out.Rotation = rotationDeg + delta*alpha

	if compress || stretch {
		dist := vectorLength(px, py)
		boneLen := sx
		if boneLen > degenerateLengthSquaredEpsilon {
			ratio := dist / boneLen
			if (stretch && ratio > 1) || (compress && ratio < 1) {
				scale := 1 + (ratio-1)*alpha
				out.ScaleX = sx * scale
				if uniform {
					out.ScaleY = sy * scale
				}
			}
		}
	}

	return out
}

// ikAnisotropyEpsilon is the |psx-psy| threshold below which the parent's
// world scale is treated as isotropic, taking the plain law-of-cosines
// branch instead of the quartic/quadratic anisotropic solve (§4.6).
const ikAnisotropyEpsilon = 1e-4

// ikDegenerateReachEpsilon is the l1 (parent-to-child, grandparent-local)
// length below which the chain is treated as collapsed and the solve falls
// back to a 1-bone IK on the parent alone.
const ikDegenerateReachEpsilon = 1e-4

// ikTwoBoneResult is the solved local pose for the parent and child bones
// of a 2-bone IK chain, per InternalPoseIk2's negative-scale-aware,
// quartic-anisotropic solve.
type ikTwoBoneResult struct {
	// Degenerate reports whether the parent-to-child reach collapsed to
	// ~0, in which case ParentRotation/ParentScaleX came from a 1-bone IK
	// fallback rather than the two-bone solve.
	Degenerate bool

	ParentRotation float64
	ParentScaleX   float64
	ParentScaleY   float64
	ParentShearX   float64
	ParentShearY   float64

	ChildY        float64
	ChildRotation float64
	ChildScaleX   float64
	ChildScaleY   float64
	ChildShearX   float64
	ChildShearY   float64
}

// solveIk2 is the closed-form two-bone reach solver from §4.6, translated
// from InternalPoseIk2 (itself derived from Spine's IkConstraint.c):
// negative parent/child scale is handled via a sign+180°-offset reflection
// rather than feeding signed scale into the trig solve, a degenerate
// (near-zero) reach falls back to a 1-bone IK on the parent, and an
// anisotropic parent scale is solved via the quartic/quadratic discriminant
// with nearest/furthest valid root selection rather than the isotropic
// law-of-cosines shortcut. parentLen/childLen are the setup bone lengths;
// parentMode is the parent bone's transform_mode (used only by the
// degenerate fallback's inner solveIk1 call); parentWorld is the parent's
// current world transform (before this solve); grandWorld/grandValid are
// the parent's own parent's world transform, or the identity if the parent
// is the root.
func solveIk2(parentLocal, childLocal BoneState, parentMode TransformMode, parentWorld Mat2x3,
	grandWorld Mat2x3, grandValid bool, parentLen, childLen float64,
	targetWorldX, targetWorldY float64, bendPositive bool, alpha, softness float64, stretch bool) ikTwoBoneResult {

	bendDir := 1.0
	if !bendPositive {
		bendDir = -1
	}

	px, py := parentLocal.X, parentLocal.Y

	sx := parentLocal.ScaleX
	psx := sx
	os1 := 0.0
	s2 := 1.0
	if psx < 0 {
		psx = -psx
		os1 = 180
		s2 = -1
	}
	psy := parentLocal.ScaleY
	if psy < 0 {
		psy = -psy
		s2 = -s2
	}
	csx := childLocal.ScaleX
	os2 := 0.0
	if csx < 0 {
		csx = -csx
		os2 = 180
	}

	isotropic := math.Abs(psx-psy) <= ikAnisotropyEpsilon

	cx := childLocal.X
	cy := 0.0
	if isotropic {
		cy = childLocal.Y
	}
	cwx, cwy := parentWorld.TransformPoint(cx, cy)

	gw := grandWorld
	if !grandValid {
		gw = IdentityMat2x3()
	}
	inv := gw.Invert()

	dpx, dpy := inv.TransformPoint(cwx, cwy)
	dx, dy := dpx-px, dpy-py
	l1 := vectorLength(dx, dy)
	l2 := childLen * csx

	if l1 < ikDegenerateReachEpsilon {
		// The parent-to-child reach has collapsed; fall back to resolving
		// the parent alone via 1-bone IK, and reset the child's local
		// rotation to zero (InternalPoseIk2's l1<0.0001 branch).
		newParent := solveIk1(parentLocal, parentMode, grandWorld, grandValid,
			targetWorldX, targetWorldY, alpha, false, stretch, false)
		return ikTwoBoneResult{
			Degenerate:     true,
			ParentRotation: newParent.Rotation,
			ParentScaleX:   newParent.ScaleX,
			ParentScaleY:   newParent.ScaleY,
			ParentShearX:   parentLocal.ShearX,
			ParentShearY:   parentLocal.ShearY,
			ChildY:         cy,
			ChildRotation:  0,
			ChildScaleX:    childLocal.ScaleX,
			ChildScaleY:    childLocal.ScaleY,
			ChildShearX:    childLocal.ShearX,
			ChildShearY:    childLocal.ShearY,
		}
	}

	tpx, tpy := inv.TransformPoint(targetWorldX, targetWorldY)
	tx, ty := tpx-px, tpy-py
	dd := tx*tx + ty*ty

	if softness != 0 {
		soft := softness * (psx * (csx + 1)) / 2
		td := math.Sqrt(dd)
		sd := td - l1 - l2*psx + soft
		if sd > 0 {
			p := math.Min(1, sd/(soft*2)) - 1
			p = (sd - soft*(1-p*p)) / td
			tx -= p * tx
			ty -= p * ty
			dd = tx*tx + ty*ty
		}
	}

	var a1, a2 float64
	if isotropic {
		ll2 := l2 * psx
		cosA2 := (dd - l1*l1 - ll2*ll2) / (2 * l1 * ll2)
		if cosA2 < -1 {
			cosA2 = -1
		} else if cosA2 > 1 {
			cosA2 = 1
			if stretch {
				sx *= (math.Sqrt(dd)/(l1+ll2) - 1) * alpha + 1
			}
		}
		a2 = math.Acos(cosA2) * bendDir
		k1 := l1 + ll2*cosA2
		k2 := ll2 * math.Sin(a2)
		a1 = math.Atan2(ty*k1-tx*k2, tx*k1+ty*k2)
	} else {
		// Anisotropic branch: parent scale differs per axis, so the reach
		// traces an ellipse rather than a circle; solve the quartic for the
		// child's radial root, picking the nearest/furthest valid root if
		// no root lands within reach.
		aLen := psx * l2
		bLen := psy * l2
		aa := aLen * aLen
		bb := bLen * bLen
		ta := math.Atan2(ty, tx)
		cc := bb*l1*l1 + aa*dd - aa*bb
		c1 := -2 * bb * l1
		c2 := bb - aa
		disc := c1*c1 - 4*c2*cc

		solved := false
		if disc >= 0 {
			q := math.Sqrt(disc)
			if c1 < 0 {
				q = -q
			}
			q = -(c1 + q) / 2
			r0 := q / c2
			r1 := cc / q
			r := r0
			if math.Abs(r1) < math.Abs(r0) {
				r = r1
			}
			if r*r <= dd {
				yy := math.Sqrt(dd-r*r) * bendDir
				a1 = ta - math.Atan2(yy, r)
				a2 = math.Atan2(yy/psy, (r-l1)/psx)
				solved = true
			}
		}
		if !solved {
			minAngle, minDist, minX, minY := math.Pi, (l1-aLen)*(l1-aLen), l1-aLen, 0.0
			maxAngle, maxDist, maxX, maxY := 0.0, (l1+aLen)*(l1+aLen), l1+aLen, 0.0
			if cw := -aLen * l1 / (aa - bb); cw >= -1 && cw <= 1 {
				ang := math.Acos(cw)
				xx := aLen*math.Cos(ang) + l1
				yy := bLen * math.Sin(ang)
				dSq := xx*xx + yy*yy
				if dSq < minDist {
					minAngle, minDist, minX, minY = ang, dSq, xx, yy
				}
				if dSq > maxDist {
					maxAngle, maxDist, maxX, maxY = ang, dSq, xx, yy
				}
			}
			if dd <= (minDist+maxDist)/2 {
				a1 = ta - math.Atan2(minY*bendDir, minX)
				a2 = minAngle * bendDir
			} else {
				a1 = ta - math.Atan2(maxY*bendDir, maxX)
				a2 = maxAngle * bendDir
			}
		}
	}

	os := math.Atan2(cy, cx) * s2
	parentRotation := parentLocal.Rotation
	a1deg := clampDegrees(radiansToDegrees(a1-os) + os1 - parentRotation)

	childRotation := childLocal.Rotation
	a2deg := clampDegrees((radiansToDegrees(a2+os)-childLocal.ShearX)*s2 + os2 - childRotation)

	return ikTwoBoneResult{
		ParentRotation: parentRotation + a1deg*alpha,
		ParentScaleX:   sx,
		ParentScaleY:   parentLocal.ScaleY,
		ParentShearX:   0,
		ParentShearY:   0,
		ChildY:         cy,
		ChildRotation:  childRotation + a2deg*alpha,
		ChildScaleX:    childLocal.ScaleX,
		ChildScaleY:    childLocal.ScaleY,
		ChildShearX:    childLocal.ShearX,
		ChildShearY:    childLocal.ShearY,
	}
}
