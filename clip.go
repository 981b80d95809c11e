package animation2d

// BaseKeyFrame is embedded in every concrete keyframe type: time plus the
// curve that interpolates toward the next keyframe.
type BaseKeyFrame struct {
	Time   float32
	Curve  CurveKind
	Bezier BezierCurve // only meaningful when Curve == CurveBezier
}

// Base returns b. Embedding BaseKeyFrame gives every concrete keyframe
// type this method for free, which is how KeyFrameEvaluator's generic
// cursor logic reaches (time, curve) without per-type boilerplate.
func (b BaseKeyFrame) Base() BaseKeyFrame { return b }

// KeyFrame2D is a 2-component (x, y) keyframe, used for translation.
type KeyFrame2D struct {
	BaseKeyFrame
	X, Y float32
}

// KeyFrameRotation is a single-angle (degrees) keyframe.
type KeyFrameRotation struct {
	BaseKeyFrame
	Rotation float32
}

// KeyFrameScale is a 2-component scale keyframe.
type KeyFrameScale struct {
	BaseKeyFrame
	ScaleX, ScaleY float32
}

// KeyFrameColor is an RGBA color keyframe.
type KeyFrameColor struct {
	BaseKeyFrame
	Color Color
}

// KeyFrameTwoColor is a light+dark RGBA pair keyframe (Spine's two-color
// tinting).
type KeyFrameTwoColor struct {
	BaseKeyFrame
	Light, Dark Color
}

// KeyFrameDeform holds per-vertex offsets from the attachment's setup
// vertices at this time; an absent entry for a vertex means zero offset.
type KeyFrameDeform struct {
	BaseKeyFrame
	Offset int32
	Deltas []float32
}

// KeyFrameAttachment switches a slot's active attachment at this time.
type KeyFrameAttachment struct {
	BaseKeyFrame
	AttachmentName NameId
}

// DrawOrderOffset moves one slot to a new rank within the draw order at a
// KeyFrameDrawOrder's time.
type DrawOrderOffset struct {
	SlotIdx int16
	Offset  int32
}

// KeyFrameDrawOrder overrides the draw-order permutation at this time.
type KeyFrameDrawOrder struct {
	BaseKeyFrame
	Offsets []DrawOrderOffset
}

// KeyFrameEvent fires a named event, with per-instance payload overrides.
type KeyFrameEvent struct {
	BaseKeyFrame
	EventName   NameId
	IntValue    int32
	FloatValue  float32
	StringValue string
}

// KeyFrameIk carries one IK constraint's parameter set at this time.
type KeyFrameIk struct {
	BaseKeyFrame
	Mix          float32
	Softness     float32
	BendPositive float32 // accumulated as a scored bool, resolved by the 0.5 rule
	Compress     float32
	Stretch      float32
}

// KeyFramePathMix carries a path constraint's Mix at this time.
type KeyFramePathMix struct {
	BaseKeyFrame
	Mix float32
}

// KeyFramePathPosition carries a path constraint's Position at this time.
type KeyFramePathPosition struct {
	BaseKeyFrame
	Position float32
}

// KeyFramePathSpacing carries a path constraint's Spacing at this time.
type KeyFramePathSpacing struct {
	BaseKeyFrame
	Spacing float32
}

// KeyFrameTransform carries a transform constraint's four mix factors at
// this time.
type KeyFrameTransform struct {
	BaseKeyFrame
	MixPos, MixRotation, MixScale, MixShear float32
}

// BoneKeyFrames groups every timeline that targets one bone.
type BoneKeyFrames struct {
	BoneIdx     int16
	Rotation    []KeyFrameRotation
	Translation []KeyFrame2D
	Scale       []KeyFrameScale
	Shear       []KeyFrame2D
}

// SlotKeyFrames groups every timeline that targets one slot.
type SlotKeyFrames struct {
	SlotIdx    int16
	Color      []KeyFrameColor
	TwoColor   []KeyFrameTwoColor
	Attachment []KeyFrameAttachment
}

// PathKeyFrames groups every timeline that targets one path constraint.
type PathKeyFrames struct {
	PathIdx  int16
	Mix      []KeyFramePathMix
	Position []KeyFramePathPosition
	Spacing  []KeyFramePathSpacing
}

// DeformKeyFrames groups the deform timeline for one (skin, slot,
// attachment) triple.
type DeformKeyFrames struct {
	SkinName, SlotName, AttachmentName NameId
	SlotIdx                            int16
	Keys                               []KeyFrameDeform
}

// IkKeyFrames groups the IK timeline for one IK constraint.
type IkKeyFrames struct {
	IkIdx int16
	Keys  []KeyFrameIk
}

// TransformKeyFrames groups the transform-constraint timeline for one
// transform constraint.
type TransformKeyFrames struct {
	TransformIdx int16
	Keys         []KeyFrameTransform
}

// Clip is an immutable, keyed timeline bundle. Sampling it (via a
// ClipInstance) produces additive deltas against the Definition's setup
// pose.
type Clip struct {
	Name NameId

	Bones      []BoneKeyFrames
	Slots      []SlotKeyFrames
	Paths      []PathKeyFrames
	Deforms    []DeformKeyFrames
	Ik         []IkKeyFrames
	Transforms []TransformKeyFrames

	DrawOrder []KeyFrameDrawOrder
	Events    []KeyFrameEvent
}

// Duration returns the time of the clip's last keyframe across every
// timeline, or 0 for an empty clip.
func (c *Clip) Duration() float32 {
	var max float32
	consider := func(t float32) {
		if t > max {
			max = t
		}
	}
	for _, b := range c.Bones {
		for _, k := range b.Rotation {
			consider(k.Time)
		}
		for _, k := range b.Translation {
			consider(k.Time)
		}
		for _, k := range b.Scale {
			consider(k.Time)
		}
		for _, k := range b.Shear {
			consider(k.Time)
		}
	}
	for _, s := range c.Slots {
		for _, k := range s.Color {
			consider(k.Time)
		}
		for _, k := range s.TwoColor {
			consider(k.Time)
		}
		for _, k := range s.Attachment {
			consider(k.Time)
		}
	}
	for _, p := range c.Paths {
		for _, k := range p.Mix {
			consider(k.Time)
		}
		for _, k := range p.Position {
			consider(k.Time)
		}
		for _, k := range p.Spacing {
			consider(k.Time)
		}
	}
	for _, d := range c.Deforms {
		for _, k := range d.Keys {
			consider(k.Time)
		}
	}
	for _, ik := range c.Ik {
		for _, k := range ik.Keys {
			consider(k.Time)
		}
	}
	for _, tr := range c.Transforms {
		for _, k := range tr.Keys {
			consider(k.Time)
		}
	}
	for _, k := range c.DrawOrder {
		consider(k.Time)
	}
	for _, k := range c.Events {
		consider(k.Time)
	}
	return max
}

// quantizeTime rounds a clip time to 1e-4 precision, matching authoring
// precision so discrete frames (stepped, attachment, event) trigger on the
// intended frame boundary (§4.5).
func quantizeTime(t float32) float32 {
	const scale = 10000.0
	return float32(roundHalfAwayFromZero(float64(t)*scale)) / scale
}

func roundHalfAwayFromZero(x float64) float64 {
	if x >= 0 {
		return float64(int64(x + 0.5))
	}
	return float64(int64(x - 0.5))
}
