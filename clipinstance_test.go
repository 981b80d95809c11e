package animation2d

import "testing"

func oneBoneClipDef(t *testing.T) *Definition {
	t.Helper()
	def := &Definition{
		Bones: []BoneDefinition{
			DefaultBoneDefinition(NewNameId("root"), -1),
		},
		Skins: []Skin{
			{Name: NewNameId(DefaultSkinName), Slots: map[NameId]map[NameId]*Attachment{}},
		},
		Clips: map[NameId]*Clip{},
	}
	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return def
}

func TestClipInstanceEvaluateAccumulatesRotationDelta(t *testing.T) {
	def := oneBoneClipDef(t)
	clip := &Clip{
		Name: NewNameId("spin"),
		Bones: []BoneKeyFrames{
			{
				BoneIdx: 0,
				Rotation: []KeyFrameRotation{
					{BaseKeyFrame: BaseKeyFrame{Time: 0}, Rotation: 0},
					{BaseKeyFrame: BaseKeyFrame{Time: 1}, Rotation: 90},
				},
			},
		},
	}

	ci := NewClipInstance(clip, def, nil)
	if got := ci.GetMaxTime(); got != 1 {
		t.Fatalf("GetMaxTime() = %v, want 1", got)
	}

	cache := NewCache()
	ci.Evaluate(0.5, 1.0, true, cache)

	got, ok := cache.rotationDelta[0]
	if !ok {
		t.Fatal("expected a rotation delta for bone 0")
	}
	assertFloatClose(t, got, 45, 1e-4, "half-way rotation delta")
}

func TestClipInstanceEvaluateScalesDeltaByWeight(t *testing.T) {
	def := oneBoneClipDef(t)
	clip := &Clip{
		Bones: []BoneKeyFrames{
			{
				BoneIdx: 0,
				Rotation: []KeyFrameRotation{
					{BaseKeyFrame: BaseKeyFrame{Time: 0}, Rotation: 0},
					{BaseKeyFrame: BaseKeyFrame{Time: 1}, Rotation: 90},
				},
			},
		},
	}

	ci := NewClipInstance(clip, def, nil)
	cache := NewCache()
	ci.Evaluate(1, 0.5, true, cache)

	got := cache.rotationDelta[0]
	assertFloatClose(t, got, 45, 1e-4, "half-weight rotation delta at full time")
}

func TestClipInstanceEventRangeAndNextEventTime(t *testing.T) {
	def := oneBoneClipDef(t)
	jump := NewNameId("jump")
	clip := &Clip{
		Events: []KeyFrameEvent{
			{BaseKeyFrame: BaseKeyFrame{Time: 0.25}, EventName: jump, IntValue: 1},
			{BaseKeyFrame: BaseKeyFrame{Time: 0.75}, EventName: jump, IntValue: 2},
		},
	}
	ci := NewClipInstance(clip, def, nil)

	var fired []int32
	sink := EventSinkFunc(func(name NameId, i int32, f float32, s string) {
		fired = append(fired, i)
	})
	ci.EvaluateRange(0, 1, 1.0, sink)

	if len(fired) != 2 || fired[0] != 1 || fired[1] != 2 {
		t.Fatalf("expected both events to fire in order, got %v", fired)
	}

	next, ok := ci.GetNextEventTime(jump, 0.25)
	if !ok {
		t.Fatal("expected a next event after t=0.25")
	}
	assertFloatClose(t, float64(next), 0.75, 1e-6, "next event time after first")

	if _, ok := ci.GetNextEventTime(jump, 0.75); ok {
		t.Error("expected no further event after the last one")
	}
}

func TestClipInstanceEvaluateSkipsEmptyTimelines(t *testing.T) {
	def := oneBoneClipDef(t)
	clip := &Clip{}
	ci := NewClipInstance(clip, def, nil)

	cache := NewCache()
	ci.Evaluate(0.5, 1.0, true, cache)

	if len(cache.rotationDelta) != 0 {
		t.Error("an empty clip must not populate any deltas")
	}
	if _, ok := ci.GetNextEventTime(NewNameId("anything"), 0); ok {
		t.Error("a clip with no events must report no next event")
	}
}
