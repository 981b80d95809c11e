package animation2d

import (
	"testing"

	"github.com/phanxgames/animation2d/codec"
)

// sampleRigDefinition builds a small but structurally complete rig: two
// bones, an ik constraint, a path constraint driven by an unweighted Path
// attachment, a transform constraint, a region and a mesh attachment, an
// event, and a clip touching several keyframe kinds including a bezier
// curve — enough to exercise every §6.1 field in one round trip.
func sampleRigDefinition(t *testing.T) *Definition {
	t.Helper()
	root := DefaultBoneDefinition(NewNameId("root"), -1)
	a := DefaultBoneDefinition(NewNameId("a"), 0)
	a.Length = 10
	a.Rotation = 5

	region := &Attachment{
		Type:      AttachmentRegion,
		Name:      NewNameId("img"),
		ImagePath: "skins/hero.png",
		Color:     WhiteColor(),
		Width:     32,
		Height:    32,
	}
	mesh := &Attachment{
		Type:       AttachmentMesh,
		Name:       NewNameId("mesh"),
		ImagePath:  "skins/hero-mesh.png",
		Color:      WhiteColor(),
		Vertices:   []float64{0, 0, 1, 0, 1, 1, 0, 1},
		Indices:    []uint16{0, 1, 2, 0, 2, 3},
		UVs:        []float64{0, 0, 1, 0, 1, 1, 0, 1},
		VertexCount: 4,
	}
	pathAttachment := &Attachment{
		Type: AttachmentPath,
		Name: NewNameId("line"),
		Vertices: []float64{
			0, 0,
			10, 0,
			20, 0,
			30, 0,
		},
		ConstantSpeed: true,
	}

	def := &Definition{
		Bones: []BoneDefinition{root, a},
		Slots: []SlotDefinition{
			{Name: NewNameId("body"), BoneIdx: 1, AttachmentName: NewNameId("img"), Color: WhiteColor()},
			{Name: NewNameId("pathslot"), BoneIdx: 0, Color: WhiteColor(), AttachmentName: NewNameId("line")},
		},
		Skins: []Skin{{
			Name: NewNameId(DefaultSkinName),
			Slots: map[NameId]map[NameId]*Attachment{
				NewNameId("body"):     {NewNameId("img"): region, NewNameId("mesh"): mesh},
				NewNameId("pathslot"): {NewNameId("line"): pathAttachment},
			},
		}},
		Ik: []IkDefinition{{
			Name:          NewNameId("ik0"),
			Chain:         []int16{1},
			TargetBoneIdx: 0,
			Mix:           1,
			Softness:      0.5,
			Stretch:       true,
		}},
		Paths: []PathDefinition{{
			Name:          NewNameId("follow"),
			Chain:         []int16{1},
			TargetSlotIdx: 1,
			SpacingMode:   PathSpacingLength,
			RotationMode:  PathRotationTangent,
			Mix:           1,
			Spacing:       1,
			Rotation:      1,
		}},
		Transforms: []TransformConstraintDefinition{{
			Name:          NewNameId("xform0"),
			Chain:         []int16{1},
			TargetBoneIdx: 0,
			MixPos:        1,
			MixRotation:   1,
			MixScale:      1,
			MixShear:      1,
		}},
		Events: []EventDefinition{{
			Name:        NewNameId("footstep"),
			IntValue:    1,
			FloatValue:  0.5,
			StringValue: "left",
		}},
		Metadata: Metadata{FPS: 30, Width: 100, Height: 200},
	}

	clip := &Clip{
		Name: NewNameId("walk"),
		Bones: []BoneKeyFrames{{
			BoneIdx: 1,
			Rotation: []KeyFrameRotation{
				{BaseKeyFrame: BaseKeyFrame{Time: 0, Curve: CurveLinear}, Rotation: 0},
				{BaseKeyFrame: BaseKeyFrame{Time: 1, Curve: CurveBezier, Bezier: NewBezierCurve(0.25, 0.1, 0.75, 0.9)}, Rotation: 90},
			},
			Translation: []KeyFrame2D{
				{BaseKeyFrame: BaseKeyFrame{Time: 0, Curve: CurveStepped}, X: 0, Y: 0},
			},
		}},
		Slots: []SlotKeyFrames{{
			SlotIdx: 0,
			Attachment: []KeyFrameAttachment{
				{BaseKeyFrame: BaseKeyFrame{Time: 0}, AttachmentName: NewNameId("img")},
			},
		}},
		Events: []KeyFrameEvent{
			{BaseKeyFrame: BaseKeyFrame{Time: 0.5}, EventName: NewNameId("footstep"), IntValue: 2, FloatValue: 1.5, StringValue: "right"},
		},
	}
	def.Clips = map[NameId]*Clip{NewNameId("walk"): clip}

	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return def
}

func encodeDecodeRig(t *testing.T, def *Definition) *Definition {
	t.Helper()
	w := codec.NewWriter(codec.PlatformPC, "hero.bin")
	if err := def.WriteAll(w); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	raw, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	r, err := codec.NewReader(raw, "hero.bin")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := ReadDefinition(r)
	if err != nil {
		t.Fatalf("ReadDefinition: %v", err)
	}
	return got
}

func TestCodecRoundTripStructuralCounts(t *testing.T) {
	def := sampleRigDefinition(t)
	got := encodeDecodeRig(t, def)

	if len(got.Bones) != len(def.Bones) {
		t.Errorf("bones: got %d, want %d", len(got.Bones), len(def.Bones))
	}
	if len(got.Slots) != len(def.Slots) {
		t.Errorf("slots: got %d, want %d", len(got.Slots), len(def.Slots))
	}
	if len(got.Skins) != len(def.Skins) {
		t.Errorf("skins: got %d, want %d", len(got.Skins), len(def.Skins))
	}
	if len(got.Ik) != len(def.Ik) {
		t.Errorf("ik: got %d, want %d", len(got.Ik), len(def.Ik))
	}
	if len(got.Paths) != len(def.Paths) {
		t.Errorf("paths: got %d, want %d", len(got.Paths), len(def.Paths))
	}
	if len(got.Transforms) != len(def.Transforms) {
		t.Errorf("transforms: got %d, want %d", len(got.Transforms), len(def.Transforms))
	}
	if len(got.Events) != len(def.Events) {
		t.Errorf("events: got %d, want %d", len(got.Events), len(def.Events))
	}
	if len(got.Clips) != len(def.Clips) {
		t.Errorf("clips: got %d, want %d", len(got.Clips), len(def.Clips))
	}
	if len(got.PoseTasks) != len(def.PoseTasks) {
		t.Errorf("pose tasks: got %d, want %d", len(got.PoseTasks), len(def.PoseTasks))
	}
}

func TestCodecRoundTripBoneFields(t *testing.T) {
	def := sampleRigDefinition(t)
	got := encodeDecodeRig(t, def)

	wantBone := def.Bones[1]
	gotBone := got.Bones[1]
	if gotBone.Name != wantBone.Name {
		t.Errorf("bone name: got %q, want %q", gotBone.Name, wantBone.Name)
	}
	if gotBone.ParentIdx != wantBone.ParentIdx {
		t.Errorf("bone parent idx: got %d, want %d", gotBone.ParentIdx, wantBone.ParentIdx)
	}
	assertFloatClose(t, gotBone.Length, wantBone.Length, 1e-5, "bone length")
	assertFloatClose(t, gotBone.Rotation, wantBone.Rotation, 1e-5, "bone rotation")
}

func TestCodecRoundTripMetadata(t *testing.T) {
	def := sampleRigDefinition(t)
	got := encodeDecodeRig(t, def)

	assertFloatClose(t, got.Metadata.FPS, def.Metadata.FPS, 1e-5, "metadata FPS")
	assertFloatClose(t, got.Metadata.Width, def.Metadata.Width, 1e-5, "metadata width")
	assertFloatClose(t, got.Metadata.Height, def.Metadata.Height, 1e-5, "metadata height")
}

func TestCodecRoundTripRegionAttachment(t *testing.T) {
	def := sampleRigDefinition(t)
	got := encodeDecodeRig(t, def)

	a, ok := got.Attachment(NameId{}, NewNameId("body"), NewNameId("img"))
	if !ok {
		t.Fatal("region attachment missing after round trip")
	}
	if a.ImagePath != "skins/hero.png" {
		t.Errorf("region image path: got %q", a.ImagePath)
	}
	assertFloatClose(t, a.Width, 32, 1e-5, "region width")
	assertFloatClose(t, a.Height, 32, 1e-5, "region height")
}

func TestCodecRoundTripMeshAttachmentDerivesEdges(t *testing.T) {
	def := sampleRigDefinition(t)
	got := encodeDecodeRig(t, def)

	a, ok := got.Attachment(NameId{}, NewNameId("body"), NewNameId("mesh"))
	if !ok {
		t.Fatal("mesh attachment missing after round trip")
	}
	if len(a.Indices) != 6 {
		t.Errorf("mesh indices: got %d, want 6", len(a.Indices))
	}
	if len(a.Edges) == 0 {
		t.Error("mesh edges were not recomputed by Finalize after round trip")
	}
}

func TestCodecRoundTripClipKeyframes(t *testing.T) {
	def := sampleRigDefinition(t)
	got := encodeDecodeRig(t, def)

	clip := got.Clips[NewNameId("walk")]
	if clip == nil {
		t.Fatal("clip missing after round trip")
	}
	if len(clip.Bones) != 1 || len(clip.Bones[0].Rotation) != 2 {
		t.Fatalf("bone rotation keyframes not preserved: %+v", clip.Bones)
	}
	bezierKey := clip.Bones[0].Rotation[1]
	if bezierKey.Curve != CurveBezier {
		t.Fatalf("expected bezier curve kind, got %v", bezierKey.Curve)
	}
	wantAlpha := NewBezierCurve(0.25, 0.1, 0.75, 0.9).GetBezierCurveAlpha(0.5)
	gotAlpha := bezierKey.Bezier.GetBezierCurveAlpha(0.5)
	assertFloatClose(t, float64(gotAlpha), float64(wantAlpha), 1e-5, "bezier curve sample survives round trip")

	if len(clip.Events) != 1 || clip.Events[0].StringValue != "right" {
		t.Fatalf("event keyframe not preserved: %+v", clip.Events)
	}
}
