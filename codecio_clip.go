package animation2d

import (
	"bytes"
	"encoding/binary"

	"github.com/phanxgames/animation2d/codec"
)

// writeFloat32Slice writes a length-prefixed []float32 verbatim (no
// truncation needed, unlike writeFloat64Slice). Used by KeyFrameDeform's
// per-vertex deltas.
func writeFloat32Slice(buf *bytes.Buffer, v []float32) error {
	if err := writeU32(buf, uint32(len(v))); err != nil {
		return err
	}
	for _, f := range v {
		if err := binary.Write(buf, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readFloat32Slice(r *bytes.Reader) ([]float32, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]float32, n)
	for i := range out {
		if err := binary.Read(r, binary.LittleEndian, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// writeBaseKeyFrame writes a keyframe's time and curve. When the curve is
// CurveBezier, the forward-differenced BezierCurve table is written
// inline with the keyframe rather than through a shared, index-referenced
// table (see the WriteAll doc comment in codecio.go for why).
func writeBaseKeyFrame(buf *bytes.Buffer, b BaseKeyFrame) error {
	if err := writeF32(buf, float64(b.Time)); err != nil {
		return err
	}
	if err := writeU8(buf, uint8(b.Curve)); err != nil {
		return err
	}
	if b.Curve == CurveBezier {
		if err := binary.Write(buf, binary.LittleEndian, b.Bezier.points); err != nil {
			return err
		}
	}
	return nil
}

func readBaseKeyFrame(body *bytes.Reader) (BaseKeyFrame, error) {
	var b BaseKeyFrame
	t, err := readF32(body)
	if err != nil {
		return b, err
	}
	b.Time = float32(t)
	curveByte, err := readU8(body)
	if err != nil {
		return b, err
	}
	b.Curve = CurveKind(curveByte)
	if b.Curve == CurveBezier {
		if err := binary.Read(body, binary.LittleEndian, &b.Bezier.points); err != nil {
			return b, err
		}
	}
	return b, nil
}

func writeKeyFrame2D(buf *bytes.Buffer, k KeyFrame2D) error {
	if err := writeF32(buf, float64(k.X)); err != nil {
		return err
	}
	if err := writeF32(buf, float64(k.Y)); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrame2D(body *bytes.Reader) (KeyFrame2D, error) {
	var k KeyFrame2D
	x, err := readF32(body)
	if err != nil {
		return k, err
	}
	y, err := readF32(body)
	if err != nil {
		return k, err
	}
	k.X, k.Y = float32(x), float32(y)
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFrameRotation(buf *bytes.Buffer, k KeyFrameRotation) error {
	if err := writeF32(buf, float64(k.Rotation)); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrameRotation(body *bytes.Reader) (KeyFrameRotation, error) {
	var k KeyFrameRotation
	v, err := readF32(body)
	if err != nil {
		return k, err
	}
	k.Rotation = float32(v)
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFrameScale(buf *bytes.Buffer, k KeyFrameScale) error {
	if err := writeF32(buf, float64(k.ScaleX)); err != nil {
		return err
	}
	if err := writeF32(buf, float64(k.ScaleY)); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrameScale(body *bytes.Reader) (KeyFrameScale, error) {
	var k KeyFrameScale
	x, err := readF32(body)
	if err != nil {
		return k, err
	}
	y, err := readF32(body)
	if err != nil {
		return k, err
	}
	k.ScaleX, k.ScaleY = float32(x), float32(y)
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFrameColor(buf *bytes.Buffer, k KeyFrameColor) error {
	if err := writeColor(buf, k.Color); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrameColor(body *bytes.Reader) (KeyFrameColor, error) {
	var k KeyFrameColor
	var err error
	if k.Color, err = readColor(body); err != nil {
		return k, err
	}
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFrameTwoColor(buf *bytes.Buffer, k KeyFrameTwoColor) error {
	if err := writeColor(buf, k.Light); err != nil {
		return err
	}
	if err := writeColor(buf, k.Dark); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrameTwoColor(body *bytes.Reader) (KeyFrameTwoColor, error) {
	var k KeyFrameTwoColor
	var err error
	if k.Light, err = readColor(body); err != nil {
		return k, err
	}
	if k.Dark, err = readColor(body); err != nil {
		return k, err
	}
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFrameDeform(buf *bytes.Buffer, k KeyFrameDeform) error {
	if err := writeI32(buf, k.Offset); err != nil {
		return err
	}
	if err := writeFloat32Slice(buf, k.Deltas); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrameDeform(body *bytes.Reader) (KeyFrameDeform, error) {
	var k KeyFrameDeform
	var err error
	if k.Offset, err = readI32(body); err != nil {
		return k, err
	}
	if k.Deltas, err = readFloat32Slice(body); err != nil {
		return k, err
	}
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFrameAttachment(w *codec.Writer, buf *bytes.Buffer, k KeyFrameAttachment) error {
	if err := writeName(w, buf, k.AttachmentName); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrameAttachment(r *codec.Reader, body *bytes.Reader) (KeyFrameAttachment, error) {
	var k KeyFrameAttachment
	var err error
	if k.AttachmentName, err = readName(r, body); err != nil {
		return k, err
	}
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeDrawOrderOffset(buf *bytes.Buffer, o DrawOrderOffset) error {
	if err := writeI16(buf, o.SlotIdx); err != nil {
		return err
	}
	return writeI32(buf, o.Offset)
}

func readDrawOrderOffset(body *bytes.Reader) (DrawOrderOffset, error) {
	var o DrawOrderOffset
	var err error
	if o.SlotIdx, err = readI16(body); err != nil {
		return o, err
	}
	o.Offset, err = readI32(body)
	return o, err
}

func writeKeyFrameDrawOrder(buf *bytes.Buffer, k KeyFrameDrawOrder) error {
	if err := writeU32(buf, uint32(len(k.Offsets))); err != nil {
		return err
	}
	for _, o := range k.Offsets {
		if err := writeDrawOrderOffset(buf, o); err != nil {
			return err
		}
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrameDrawOrder(body *bytes.Reader) (KeyFrameDrawOrder, error) {
	var k KeyFrameDrawOrder
	n, err := readU32(body)
	if err != nil {
		return k, err
	}
	k.Offsets = make([]DrawOrderOffset, n)
	for i := range k.Offsets {
		if k.Offsets[i], err = readDrawOrderOffset(body); err != nil {
			return k, err
		}
	}
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFrameEvent(w *codec.Writer, buf *bytes.Buffer, k KeyFrameEvent) error {
	if err := writeName(w, buf, k.EventName); err != nil {
		return err
	}
	if err := writeI32(buf, k.IntValue); err != nil {
		return err
	}
	if err := writeF32(buf, float64(k.FloatValue)); err != nil {
		return err
	}
	if err := writeStr(buf, k.StringValue); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrameEvent(r *codec.Reader, body *bytes.Reader) (KeyFrameEvent, error) {
	var k KeyFrameEvent
	var err error
	if k.EventName, err = readName(r, body); err != nil {
		return k, err
	}
	if k.IntValue, err = readI32(body); err != nil {
		return k, err
	}
	f, err := readF32(body)
	if err != nil {
		return k, err
	}
	k.FloatValue = float32(f)
	if k.StringValue, err = readStr(body); err != nil {
		return k, err
	}
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFrameIk(buf *bytes.Buffer, k KeyFrameIk) error {
	vals := [5]float64{float64(k.Mix), float64(k.Softness), float64(k.BendPositive), float64(k.Compress), float64(k.Stretch)}
	for _, v := range vals {
		if err := writeF32(buf, v); err != nil {
			return err
		}
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrameIk(body *bytes.Reader) (KeyFrameIk, error) {
	var k KeyFrameIk
	fields := [5]*float32{&k.Mix, &k.Softness, &k.BendPositive, &k.Compress, &k.Stretch}
	for _, f := range fields {
		v, err := readF32(body)
		if err != nil {
			return k, err
		}
		*f = float32(v)
	}
	var err error
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFramePathMix(buf *bytes.Buffer, k KeyFramePathMix) error {
	if err := writeF32(buf, float64(k.Mix)); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFramePathMix(body *bytes.Reader) (KeyFramePathMix, error) {
	var k KeyFramePathMix
	v, err := readF32(body)
	if err != nil {
		return k, err
	}
	k.Mix = float32(v)
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFramePathPosition(buf *bytes.Buffer, k KeyFramePathPosition) error {
	if err := writeF32(buf, float64(k.Position)); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFramePathPosition(body *bytes.Reader) (KeyFramePathPosition, error) {
	var k KeyFramePathPosition
	v, err := readF32(body)
	if err != nil {
		return k, err
	}
	k.Position = float32(v)
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFramePathSpacing(buf *bytes.Buffer, k KeyFramePathSpacing) error {
	if err := writeF32(buf, float64(k.Spacing)); err != nil {
		return err
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFramePathSpacing(body *bytes.Reader) (KeyFramePathSpacing, error) {
	var k KeyFramePathSpacing
	v, err := readF32(body)
	if err != nil {
		return k, err
	}
	k.Spacing = float32(v)
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeKeyFrameTransform(buf *bytes.Buffer, k KeyFrameTransform) error {
	vals := [4]float64{float64(k.MixPos), float64(k.MixRotation), float64(k.MixScale), float64(k.MixShear)}
	for _, v := range vals {
		if err := writeF32(buf, v); err != nil {
			return err
		}
	}
	return writeBaseKeyFrame(buf, k.BaseKeyFrame)
}

func readKeyFrameTransform(body *bytes.Reader) (KeyFrameTransform, error) {
	var k KeyFrameTransform
	fields := [4]*float32{&k.MixPos, &k.MixRotation, &k.MixScale, &k.MixShear}
	for _, f := range fields {
		v, err := readF32(body)
		if err != nil {
			return k, err
		}
		*f = float32(v)
	}
	var err error
	k.BaseKeyFrame, err = readBaseKeyFrame(body)
	return k, err
}

func writeBoneKeyFrames(buf *bytes.Buffer, b BoneKeyFrames) error {
	if err := writeI16(buf, b.BoneIdx); err != nil {
		return err
	}
	if err := writeU32(buf, uint32(len(b.Rotation))); err != nil {
		return err
	}
	for _, k := range b.Rotation {
		if err := writeKeyFrameRotation(buf, k); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(b.Translation))); err != nil {
		return err
	}
	for _, k := range b.Translation {
		if err := writeKeyFrame2D(buf, k); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(b.Scale))); err != nil {
		return err
	}
	for _, k := range b.Scale {
		if err := writeKeyFrameScale(buf, k); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(b.Shear))); err != nil {
		return err
	}
	for _, k := range b.Shear {
		if err := writeKeyFrame2D(buf, k); err != nil {
			return err
		}
	}
	return nil
}

func readBoneKeyFrames(body *bytes.Reader) (BoneKeyFrames, error) {
	var b BoneKeyFrames
	var err error
	if b.BoneIdx, err = readI16(body); err != nil {
		return b, err
	}
	n, err := readU32(body)
	if err != nil {
		return b, err
	}
	b.Rotation = make([]KeyFrameRotation, n)
	for i := range b.Rotation {
		if b.Rotation[i], err = readKeyFrameRotation(body); err != nil {
			return b, err
		}
	}
	if n, err = readU32(body); err != nil {
		return b, err
	}
	b.Translation = make([]KeyFrame2D, n)
	for i := range b.Translation {
		if b.Translation[i], err = readKeyFrame2D(body); err != nil {
			return b, err
		}
	}
	if n, err = readU32(body); err != nil {
		return b, err
	}
	b.Scale = make([]KeyFrameScale, n)
	for i := range b.Scale {
		if b.Scale[i], err = readKeyFrameScale(body); err != nil {
			return b, err
		}
	}
	if n, err = readU32(body); err != nil {
		return b, err
	}
	b.Shear = make([]KeyFrame2D, n)
	for i := range b.Shear {
		if b.Shear[i], err = readKeyFrame2D(body); err != nil {
			return b, err
		}
	}
	return b, nil
}

func writeSlotKeyFrames(w *codec.Writer, buf *bytes.Buffer, s SlotKeyFrames) error {
	if err := writeI16(buf, s.SlotIdx); err != nil {
		return err
	}
	if err := writeU32(buf, uint32(len(s.Color))); err != nil {
		return err
	}
	for _, k := range s.Color {
		if err := writeKeyFrameColor(buf, k); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(s.TwoColor))); err != nil {
		return err
	}
	for _, k := range s.TwoColor {
		if err := writeKeyFrameTwoColor(buf, k); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(s.Attachment))); err != nil {
		return err
	}
	for _, k := range s.Attachment {
		if err := writeKeyFrameAttachment(w, buf, k); err != nil {
			return err
		}
	}
	return nil
}

func readSlotKeyFrames(r *codec.Reader, body *bytes.Reader) (SlotKeyFrames, error) {
	var s SlotKeyFrames
	var err error
	if s.SlotIdx, err = readI16(body); err != nil {
		return s, err
	}
	n, err := readU32(body)
	if err != nil {
		return s, err
	}
	s.Color = make([]KeyFrameColor, n)
	for i := range s.Color {
		if s.Color[i], err = readKeyFrameColor(body); err != nil {
			return s, err
		}
	}
	if n, err = readU32(body); err != nil {
		return s, err
	}
	s.TwoColor = make([]KeyFrameTwoColor, n)
	for i := range s.TwoColor {
		if s.TwoColor[i], err = readKeyFrameTwoColor(body); err != nil {
			return s, err
		}
	}
	if n, err = readU32(body); err != nil {
		return s, err
	}
	s.Attachment = make([]KeyFrameAttachment, n)
	for i := range s.Attachment {
		if s.Attachment[i], err = readKeyFrameAttachment(r, body); err != nil {
			return s, err
		}
	}
	return s, nil
}

func writePathKeyFrames(buf *bytes.Buffer, p PathKeyFrames) error {
	if err := writeI16(buf, p.PathIdx); err != nil {
		return err
	}
	if err := writeU32(buf, uint32(len(p.Mix))); err != nil {
		return err
	}
	for _, k := range p.Mix {
		if err := writeKeyFramePathMix(buf, k); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(p.Position))); err != nil {
		return err
	}
	for _, k := range p.Position {
		if err := writeKeyFramePathPosition(buf, k); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(p.Spacing))); err != nil {
		return err
	}
	for _, k := range p.Spacing {
		if err := writeKeyFramePathSpacing(buf, k); err != nil {
			return err
		}
	}
	return nil
}

func readPathKeyFrames(body *bytes.Reader) (PathKeyFrames, error) {
	var p PathKeyFrames
	var err error
	if p.PathIdx, err = readI16(body); err != nil {
		return p, err
	}
	n, err := readU32(body)
	if err != nil {
		return p, err
	}
	p.Mix = make([]KeyFramePathMix, n)
	for i := range p.Mix {
		if p.Mix[i], err = readKeyFramePathMix(body); err != nil {
			return p, err
		}
	}
	if n, err = readU32(body); err != nil {
		return p, err
	}
	p.Position = make([]KeyFramePathPosition, n)
	for i := range p.Position {
		if p.Position[i], err = readKeyFramePathPosition(body); err != nil {
			return p, err
		}
	}
	if n, err = readU32(body); err != nil {
		return p, err
	}
	p.Spacing = make([]KeyFramePathSpacing, n)
	for i := range p.Spacing {
		if p.Spacing[i], err = readKeyFramePathSpacing(body); err != nil {
			return p, err
		}
	}
	return p, nil
}

func writeDeformKeyFrames(w *codec.Writer, buf *bytes.Buffer, d DeformKeyFrames) error {
	if err := writeName(w, buf, d.SkinName); err != nil {
		return err
	}
	if err := writeName(w, buf, d.SlotName); err != nil {
		return err
	}
	if err := writeName(w, buf, d.AttachmentName); err != nil {
		return err
	}
	if err := writeI16(buf, d.SlotIdx); err != nil {
		return err
	}
	if err := writeU32(buf, uint32(len(d.Keys))); err != nil {
		return err
	}
	for _, k := range d.Keys {
		if err := writeKeyFrameDeform(buf, k); err != nil {
			return err
		}
	}
	return nil
}

func readDeformKeyFrames(r *codec.Reader, body *bytes.Reader) (DeformKeyFrames, error) {
	var d DeformKeyFrames
	var err error
	if d.SkinName, err = readName(r, body); err != nil {
		return d, err
	}
	if d.SlotName, err = readName(r, body); err != nil {
		return d, err
	}
	if d.AttachmentName, err = readName(r, body); err != nil {
		return d, err
	}
	if d.SlotIdx, err = readI16(body); err != nil {
		return d, err
	}
	n, err := readU32(body)
	if err != nil {
		return d, err
	}
	d.Keys = make([]KeyFrameDeform, n)
	for i := range d.Keys {
		if d.Keys[i], err = readKeyFrameDeform(body); err != nil {
			return d, err
		}
	}
	return d, nil
}

func writeIkKeyFrames(buf *bytes.Buffer, k IkKeyFrames) error {
	if err := writeI16(buf, k.IkIdx); err != nil {
		return err
	}
	if err := writeU32(buf, uint32(len(k.Keys))); err != nil {
		return err
	}
	for _, f := range k.Keys {
		if err := writeKeyFrameIk(buf, f); err != nil {
			return err
		}
	}
	return nil
}

func readIkKeyFrames(body *bytes.Reader) (IkKeyFrames, error) {
	var k IkKeyFrames
	var err error
	if k.IkIdx, err = readI16(body); err != nil {
		return k, err
	}
	n, err := readU32(body)
	if err != nil {
		return k, err
	}
	k.Keys = make([]KeyFrameIk, n)
	for i := range k.Keys {
		if k.Keys[i], err = readKeyFrameIk(body); err != nil {
			return k, err
		}
	}
	return k, nil
}

func writeTransformKeyFrames(buf *bytes.Buffer, t TransformKeyFrames) error {
	if err := writeI16(buf, t.TransformIdx); err != nil {
		return err
	}
	if err := writeU32(buf, uint32(len(t.Keys))); err != nil {
		return err
	}
	for _, k := range t.Keys {
		if err := writeKeyFrameTransform(buf, k); err != nil {
			return err
		}
	}
	return nil
}

func readTransformKeyFrames(body *bytes.Reader) (TransformKeyFrames, error) {
	var t TransformKeyFrames
	var err error
	if t.TransformIdx, err = readI16(body); err != nil {
		return t, err
	}
	n, err := readU32(body)
	if err != nil {
		return t, err
	}
	t.Keys = make([]KeyFrameTransform, n)
	for i := range t.Keys {
		if t.Keys[i], err = readKeyFrameTransform(body); err != nil {
			return t, err
		}
	}
	return t, nil
}

func writeClip(w *codec.Writer, buf *bytes.Buffer, c *Clip) error {
	if err := writeU32(buf, uint32(len(c.Bones))); err != nil {
		return err
	}
	for _, b := range c.Bones {
		if err := writeBoneKeyFrames(buf, b); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(c.Slots))); err != nil {
		return err
	}
	for _, s := range c.Slots {
		if err := writeSlotKeyFrames(w, buf, s); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(c.Paths))); err != nil {
		return err
	}
	for _, p := range c.Paths {
		if err := writePathKeyFrames(buf, p); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(c.Deforms))); err != nil {
		return err
	}
	for _, d := range c.Deforms {
		if err := writeDeformKeyFrames(w, buf, d); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(c.Ik))); err != nil {
		return err
	}
	for _, k := range c.Ik {
		if err := writeIkKeyFrames(buf, k); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(c.Transforms))); err != nil {
		return err
	}
	for _, t := range c.Transforms {
		if err := writeTransformKeyFrames(buf, t); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(c.DrawOrder))); err != nil {
		return err
	}
	for _, k := range c.DrawOrder {
		if err := writeKeyFrameDrawOrder(buf, k); err != nil {
			return err
		}
	}
	if err := writeU32(buf, uint32(len(c.Events))); err != nil {
		return err
	}
	for _, k := range c.Events {
		if err := writeKeyFrameEvent(w, buf, k); err != nil {
			return err
		}
	}
	return nil
}

func readClip(r *codec.Reader, body *bytes.Reader, name NameId) (*Clip, error) {
	c := &Clip{Name: name}
	n, err := readU32(body)
	if err != nil {
		return nil, err
	}
	c.Bones = make([]BoneKeyFrames, n)
	for i := range c.Bones {
		if c.Bones[i], err = readBoneKeyFrames(body); err != nil {
			return nil, err
		}
	}
	if n, err = readU32(body); err != nil {
		return nil, err
	}
	c.Slots = make([]SlotKeyFrames, n)
	for i := range c.Slots {
		if c.Slots[i], err = readSlotKeyFrames(r, body); err != nil {
			return nil, err
		}
	}
	if n, err = readU32(body); err != nil {
		return nil, err
	}
	c.Paths = make([]PathKeyFrames, n)
	for i := range c.Paths {
		if c.Paths[i], err = readPathKeyFrames(body); err != nil {
			return nil, err
		}
	}
	if n, err = readU32(body); err != nil {
		return nil, err
	}
	c.Deforms = make([]DeformKeyFrames, n)
	for i := range c.Deforms {
		if c.Deforms[i], err = readDeformKeyFrames(r, body); err != nil {
			return nil, err
		}
	}
	if n, err = readU32(body); err != nil {
		return nil, err
	}
	c.Ik = make([]IkKeyFrames, n)
	for i := range c.Ik {
		if c.Ik[i], err = readIkKeyFrames(body); err != nil {
			return nil, err
		}
	}
	if n, err = readU32(body); err != nil {
		return nil, err
	}
	c.Transforms = make([]TransformKeyFrames, n)
	for i := range c.Transforms {
		if c.Transforms[i], err = readTransformKeyFrames(body); err != nil {
			return nil, err
		}
	}
	if n, err = readU32(body); err != nil {
		return nil, err
	}
	c.DrawOrder = make([]KeyFrameDrawOrder, n)
	for i := range c.DrawOrder {
		if c.DrawOrder[i], err = readKeyFrameDrawOrder(body); err != nil {
			return nil, err
		}
	}
	if n, err = readU32(body); err != nil {
		return nil, err
	}
	c.Events = make([]KeyFrameEvent, n)
	for i := range c.Events {
		if c.Events[i], err = readKeyFrameEvent(r, body); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// writeClips serializes the Clips hash table: a u32 count followed by
// (name, clip) pairs, per §6.1's hash-table convention.
func writeClips(w *codec.Writer, buf *bytes.Buffer, clips map[NameId]*Clip) error {
	if err := writeU32(buf, uint32(len(clips))); err != nil {
		return err
	}
	for name, c := range clips {
		if err := writeName(w, buf, name); err != nil {
			return err
		}
		if err := writeClip(w, buf, c); err != nil {
			return err
		}
	}
	return nil
}

func readClips(r *codec.Reader, body *bytes.Reader) (map[NameId]*Clip, error) {
	count, err := readU32(body)
	if err != nil {
		return nil, formatErrorf("animation2d: read clip count: %v", err)
	}
	clips := make(map[NameId]*Clip, count)
	for i := uint32(0); i < count; i++ {
		name, err := readName(r, body)
		if err != nil {
			return nil, formatErrorf("animation2d: read clip %d name: %v", i, err)
		}
		c, err := readClip(r, body, name)
		if err != nil {
			return nil, formatErrorf("animation2d: read clip %q: %v", name, err)
		}
		clips[name] = c
	}
	return clips, nil
}
