package animation2d

import (
	"math"
	"testing"
)

// straightPathDefinition builds a rig with a two-bone chain driven by a path
// constraint following a single straight cubic-Bezier segment from (0,0) to
// (pathLen,0), so the expected tangent/segment direction is always +X
// (rotation 0deg) regardless of rotation mode.
func straightPathDefinition(t *testing.T, mode PathRotationMode, pathLen float64) *Definition {
	t.Helper()
	root := DefaultBoneDefinition(NewNameId("root"), -1)
	a := DefaultBoneDefinition(NewNameId("a"), 0)
	a.Length = 10
	b := DefaultBoneDefinition(NewNameId("b"), 1)
	b.Length = 10

	pathAttachment := &Attachment{
		Type: AttachmentPath,
		Name: NewNameId("line"),
		Vertices: []float64{
			0, 0,
			pathLen / 3, 0,
			2 * pathLen / 3, 0,
			pathLen, 0,
		},
		ConstantSpeed: true,
	}

	def := &Definition{
		Bones: []BoneDefinition{root, a, b},
		Slots: []SlotDefinition{
			{Name: NewNameId("chain"), BoneIdx: 2, Color: WhiteColor()},
			{Name: NewNameId("pathslot"), BoneIdx: 0, Color: WhiteColor(), AttachmentName: NewNameId("line")},
		},
		Skins: []Skin{{
			Name: NewNameId(DefaultSkinName),
			Slots: map[NameId]map[NameId]*Attachment{
				NewNameId("pathslot"): {NewNameId("line"): pathAttachment},
			},
		}},
		Paths: []PathDefinition{{
			Name:          NewNameId("follow"),
			Chain:         []int16{1, 2},
			TargetSlotIdx: 1,
			SpacingMode:   PathSpacingLength,
			RotationMode:  mode,
			Mix:           1,
			Spacing:       1,
			Rotation:      1,
		}},
		Clips: map[NameId]*Clip{},
	}
	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return def
}

// A straight path's tangent and its look-ahead segment direction coincide,
// so Tangent and Chain rotation modes must agree on a straight path.
func TestPosePathTangentAndChainAgreeOnStraightPath(t *testing.T) {
	for _, mode := range []PathRotationMode{PathRotationTangent, PathRotationChain} {
		def := straightPathDefinition(t, mode, 40)
		inst := NewInstance(def, nil)
		inst.Tick(1.0 / 60.0)

		world := inst.SkinningPalette()[1]
		angle := radiansToDegrees(math.Atan2(world.M10, world.M00))
		assertFloatClose(t, angle, 0, 1e-2, "bone a world rotation along straight path")
	}
}

// cornerPathDefinition builds a single-bone chain driven by a path
// constraint following an L-shaped, non-constant-speed path: a 10-unit leg
// along +X from (0,0) to (10,0), then a 10-unit leg along +Y from (10,0) to
// (10,10). The bone's setup length (15) and spacing make its placement
// step land 5 units past the corner, so the straight-line chord it travels
// is shorter than the 15 units of path it walked — ChainScale must shrink
// the bone's ScaleX by that chord/length ratio.
func cornerPathDefinition(t *testing.T) *Definition {
	t.Helper()
	root := DefaultBoneDefinition(NewNameId("root"), -1)
	a := DefaultBoneDefinition(NewNameId("a"), 0)
	a.Length = 15

	pathAttachment := &Attachment{
		Type: AttachmentPath,
		Name: NewNameId("corner"),
		// 7 control points = 2 cubic segments; each segment's interior
		// control handles are irrelevant since ConstantSpeed is false and
		// Lengths supplies the authored arc length directly (only the
		// corner anchors at stride 3 are read).
		Vertices: []float64{
			0, 0, 0, 0, 0, 0,
			10, 0, 10, 0, 10, 0,
			10, 10,
		},
		ConstantSpeed: false,
		Lengths:       []float64{10, 10},
	}

	def := &Definition{
		Bones: []BoneDefinition{root, a},
		Slots: []SlotDefinition{
			{Name: NewNameId("chain"), BoneIdx: 1, Color: WhiteColor()},
			{Name: NewNameId("pathslot"), BoneIdx: 0, Color: WhiteColor(), AttachmentName: NewNameId("corner")},
		},
		Skins: []Skin{{
			Name: NewNameId(DefaultSkinName),
			Slots: map[NameId]map[NameId]*Attachment{
				NewNameId("pathslot"): {NewNameId("corner"): pathAttachment},
			},
		}},
		Paths: []PathDefinition{{
			Name:          NewNameId("follow"),
			Chain:         []int16{1},
			TargetSlotIdx: 1,
			SpacingMode:   PathSpacingLength,
			RotationMode:  PathRotationChainScale,
			Mix:           1,
			Spacing:       1,
			Rotation:      1,
		}},
		Clips: map[NameId]*Clip{},
	}
	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return def
}

// ChainScale must rescale a chain bone's local ScaleX by the ratio of the
// straight-line chord it travels to its setup length (§4.6 step 4); walking
// around a corner makes that chord shorter than the arc-length step taken.
func TestPosePathChainScaleRescalesBoneLength(t *testing.T) {
	def := cornerPathDefinition(t)
	inst := NewInstance(def, nil)
	inst.Tick(1.0 / 60.0)

	// spacing = setup length = 15, landing 5 units past the (10,0) corner
	// at (10,5); chord from (0,0) is sqrt(10^2+5^2) = sqrt(125) = 5*sqrt(5).
	wantScaleX := math.Sqrt(125) / 15
	assertFloatClose(t, inst.bones[1].ScaleX, wantScaleX, 1e-4, "bone a ScaleX after ChainScale")
}
