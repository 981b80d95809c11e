package animation2d

// BlendMode selects the compositing mode a renderer should use for a slot's
// attachment. The engine only carries the tag; it performs no blending
// itself (rendering is out of scope).
type BlendMode uint8

const (
	BlendAlpha BlendMode = iota
	BlendAdditive
	BlendMultiply
	BlendScreen
)

// Color is a straight (non-premultiplied) RGBA color in [0,1].
type Color struct {
	R, G, B, A float64
}

// WhiteColor is the default, fully-opaque slot color.
func WhiteColor() Color { return Color{R: 1, G: 1, B: 1, A: 1} }

// SlotDefinition is the immutable setup-pose description of one slot: a
// named socket bound to a bone, with a default attachment and color.
type SlotDefinition struct {
	Name           NameId
	BoneIdx        int16
	AttachmentName NameId
	Color          Color
	DarkColor      *Color
	BlendMode      BlendMode
}

// SlotState is the mutable per-instance state of one slot.
type SlotState struct {
	AttachmentName NameId
	Color          Color
	DarkColor      *Color
}

// ResetToSetup restores a SlotState to the definition's setup pose.
func (s *SlotState) ResetToSetup(def *SlotDefinition) {
	s.AttachmentName = def.AttachmentName
	s.Color = def.Color
	if def.DarkColor != nil {
		dc := *def.DarkColor
		s.DarkColor = &dc
	} else {
		s.DarkColor = nil
	}
}
