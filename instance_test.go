package animation2d

import (
	"math"
	"testing"
)

func simpleChainDefinition(t *testing.T) *Definition {
	t.Helper()
	root := DefaultBoneDefinition(NewNameId("root"), -1)
	a := DefaultBoneDefinition(NewNameId("a"), 0)
	a.Length = 10
	b := DefaultBoneDefinition(NewNameId("b"), 1)
	b.Length = 10
	b.X = 10

	def := &Definition{
		Bones: []BoneDefinition{root, a, b},
		Slots: []SlotDefinition{{Name: NewNameId("slot0"), BoneIdx: 2, Color: WhiteColor()}},
		Skins: []Skin{{Name: NewNameId(DefaultSkinName), Slots: map[NameId]map[NameId]*Attachment{}}},
		Clips: map[NameId]*Clip{},
	}
	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return def
}

// S1: a plain two-bone chain with no constraints. Rotating the parent bone
// must carry the child bone's world position along with it.
func TestInstanceS1ChainRotationCarriesChild(t *testing.T) {
	def := simpleChainDefinition(t)
	inst := NewInstance(def, nil)

	before := inst.SkinningPalette()[2]
	assertFloatClose(t, before.TX, 10, 1e-6, "child world x before rotation")
	assertFloatClose(t, before.TY, 0, 1e-6, "child world y before rotation")

	inst.Cache().AccumRotation(1, 90)
	inst.Tick(1.0 / 60.0)

	after := inst.SkinningPalette()[2]
	// Rotating bone 1 by 90deg around the root swings bone 2's origin from
	// (10,0) to (0,10).
	assertFloatClose(t, after.TX, 0, 1e-6, "child world x after parent rotation")
	assertFloatClose(t, after.TY, 10, 1e-6, "child world y after parent rotation")
}

// S2: a 1-bone IK constraint should rotate its single chain bone to point
// at the target.
func TestInstanceS2Ik1PointsAtTarget(t *testing.T) {
	root := DefaultBoneDefinition(NewNameId("root"), -1)
	arm := DefaultBoneDefinition(NewNameId("arm"), 0)
	arm.Length = 10
	target := DefaultBoneDefinition(NewNameId("target"), 0)
	target.X, target.Y = 0, 10 // straight up from the root

	def := &Definition{
		Bones: []BoneDefinition{root, arm, target},
		Slots: []SlotDefinition{{Name: NewNameId("slot0"), BoneIdx: 1, Color: WhiteColor()}},
		Skins: []Skin{{Name: NewNameId(DefaultSkinName), Slots: map[NameId]map[NameId]*Attachment{}}},
		Ik: []IkDefinition{
			{Name: NewNameId("reach"), Chain: []int16{1}, TargetBoneIdx: 2, Mix: 1},
		},
		Clips: map[NameId]*Clip{},
	}
	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	inst := NewInstance(def, nil)

	tip := inst.SkinningPalette()[1]
	// The arm bone's tip (its local +X axis rotated by its world rotation)
	// should point toward (0,10), i.e. its world rotation should be ~90deg.
	angle := radiansToDegrees(math.Atan2(tip.M10, tip.M00))
	assertFloatClose(t, angle, 90, 1e-3, "IK1 arm world rotation")
}

// S3: a 2-bone IK chain should reach a target within arm's length, placing
// the child bone's tip at the target position.
func TestInstanceS3Ik2ReachesTarget(t *testing.T) {
	root := DefaultBoneDefinition(NewNameId("root"), -1)
	upper := DefaultBoneDefinition(NewNameId("upper"), 0)
	upper.Length = 10
	lower := DefaultBoneDefinition(NewNameId("lower"), 1)
	lower.Length = 10
	lower.X = 10
	target := DefaultBoneDefinition(NewNameId("target"), 0)
	target.X, target.Y = 14, 0 // within reach of a 10+10 chain

	def := &Definition{
		Bones: []BoneDefinition{root, upper, lower, target},
		Slots: []SlotDefinition{{Name: NewNameId("slot0"), BoneIdx: 2, Color: WhiteColor()}},
		Skins: []Skin{{Name: NewNameId(DefaultSkinName), Slots: map[NameId]map[NameId]*Attachment{}}},
		Ik: []IkDefinition{
			{Name: NewNameId("reach"), Chain: []int16{1, 2}, TargetBoneIdx: 3, Mix: 1, BendPositive: true},
		},
		Clips: map[NameId]*Clip{},
	}
	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	inst := NewInstance(def, nil)

	// skinningPalette[2] is the lower bone's origin (the elbow), not the
	// chain's reach point — the reach point is the lower bone's tip, one
	// more bone-length along its own local x-axis.
	lowerWorld := inst.SkinningPalette()[2]
	tipX, tipY := lowerWorld.TransformPoint(lower.Length, 0)
	assertFloatClose(t, tipX, 14, 1e-2, "IK2 chain tip x")
	assertFloatClose(t, tipY, 0, 1e-2, "IK2 chain tip y")
}

// Invariant: Cache.Clear leaves the cache ready for reuse with no residue
// affecting the next ApplyCache.
func TestInstanceApplyCacheThenClearIsIdempotent(t *testing.T) {
	def := simpleChainDefinition(t)
	inst := NewInstance(def, nil)

	inst.Cache().AccumRotation(1, 45)
	inst.Tick(1.0 / 60.0)
	rot1 := inst.bones[1].Rotation

	// No further accumulation: a second Tick must not re-apply the old delta.
	inst.Tick(1.0 / 60.0)
	rot2 := inst.bones[1].Rotation

	assertFloatClose(t, rot1, 45, 1e-6, "rotation after first tick")
	assertFloatClose(t, rot2, 45, 1e-6, "rotation unchanged after second tick with empty cache")
}

// Invariant: the highest-alpha attachment cluster wins; slots only present
// in a losing cluster are restored to their setup attachment.
func TestInstanceApplyCacheAttachmentHighestAlphaWins(t *testing.T) {
	def := simpleChainDefinition(t)
	inst := NewInstance(def, nil)

	inst.Cache().PushAttachment(0, NewNameId("low"), 0.3)
	inst.Cache().PushAttachment(0, NewNameId("high"), 0.9)
	inst.Tick(1.0 / 60.0)

	if got := inst.Slots()[0].AttachmentName; got != NewNameId("high") {
		t.Errorf("AttachmentName = %v, want %q (highest alpha)", got, "high")
	}
}

// Invariant: Clone produces an independent copy whose mutation does not
// affect the original.
func TestInstanceCloneIsIndependent(t *testing.T) {
	def := simpleChainDefinition(t)
	inst := NewInstance(def, nil)
	clone := inst.Clone()

	clone.Cache().AccumRotation(1, 30)
	clone.Tick(1.0 / 60.0)

	if inst.bones[1].Rotation == clone.bones[1].Rotation {
		t.Fatalf("mutating the clone must not affect the original instance")
	}
}
