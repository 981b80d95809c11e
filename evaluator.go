package animation2d

// baseKeyFramer is satisfied by every concrete keyframe type via the
// promoted BaseKeyFrame.Base method.
type baseKeyFramer interface {
	Base() BaseKeyFrame
}

// KeyFrameEvaluator walks one timeline's keyframes with a per-evaluator
// monotonic cursor (§4.5, §9: "the monotonic cursor must be per-evaluator,
// not shared"). T is a concrete keyframe type such as KeyFrameRotation.
type KeyFrameEvaluator[T baseKeyFramer] struct {
	keys   []T
	cursor int
}

// NewKeyFrameEvaluator wraps keys (assumed ordered by time ascending) in a
// fresh evaluator with its cursor at the start.
func NewKeyFrameEvaluator[T baseKeyFramer](keys []T) KeyFrameEvaluator[T] {
	return KeyFrameEvaluator[T]{keys: keys}
}

// Reset rewinds the cursor to the start, for when playback time jumps
// backward (e.g. a clip loop).
func (e *KeyFrameEvaluator[T]) Reset() { e.cursor = 0 }

// Len reports the number of keyframes.
func (e *KeyFrameEvaluator[T]) Len() int { return len(e.keys) }

// LastTime returns the time of the final keyframe, or 0 if empty.
func (e *KeyFrameEvaluator[T]) LastTime() float32 {
	if len(e.keys) == 0 {
		return 0
	}
	return e.keys[len(e.keys)-1].Base().Time
}

// locate advances the cursor (monotonically, except for a backward-time
// rewind) to bracket time between k0 and k1, and returns the blend alpha
// to use between their values.
func (e *KeyFrameEvaluator[T]) locate(time float32) (k0, k1 T, alpha float32, ok bool) {
	n := len(e.keys)
	if n == 0 {
		ok = false
		return
	}
	if n == 1 {
		k0 = e.keys[0]
		k1 = e.keys[0]
		return k0, k1, 0, true
	}

	if e.cursor > 0 && e.keys[e.cursor].Base().Time > time {
		// Playback moved backward; a shared-cursor forward-only scan
		// would miss this, so rewind and re-scan from the start.
		e.cursor = 0
	}

	for e.cursor < n-1 && e.keys[e.cursor+1].Base().Time <= time {
		e.cursor++
	}

	if e.cursor >= n-1 {
		last := e.keys[n-1]
		return last, last, 0, true
	}

	k0 = e.keys[e.cursor]
	k1 = e.keys[e.cursor+1]

	b0 := k0.Base()
	span := k1.Base().Time - b0.Time
	var u float32
	if span > 0 {
		u = clampf32((time-b0.Time)/span, 0, 1)
	}

	switch b0.Curve {
	case CurveStepped:
		alpha = 0
	case CurveBezier:
		alpha = b0.Bezier.GetBezierCurveAlpha(u)
	default:
		alpha = u
	}
	return k0, k1, alpha, true
}

func clampf32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func lerpf32(a, b, alpha float32) float32 { return a + (b-a)*alpha }

func lerpDegreesf32(a, b, alpha float32) float32 {
	return float32(lerpDegrees(float64(a), float64(b), float64(alpha)))
}

// RotationEvaluator samples a bone's rotation timeline and accumulates the
// delta against the bone's setup rotation into the Cache.
type RotationEvaluator struct {
	eval    KeyFrameEvaluator[KeyFrameRotation]
	boneIdx int16
	setup   float64
}

// NewRotationEvaluator builds an evaluator for one bone's rotation
// timeline.
func NewRotationEvaluator(keys []KeyFrameRotation, boneIdx int16, setupRotation float64) *RotationEvaluator {
	return &RotationEvaluator{eval: NewKeyFrameEvaluator(keys), boneIdx: boneIdx, setup: setupRotation}
}

// Sample evaluates the timeline at time and accumulates weight*delta into
// cache.
func (r *RotationEvaluator) Sample(time float32, weight float64, cache *Cache) {
	k0, k1, alpha, ok := r.eval.locate(quantizeTime(time))
	if !ok {
		return
	}
	value := float64(lerpDegreesf32(k0.Rotation, k1.Rotation, alpha))
	delta := clampDegrees(value - r.setup)
	cache.AccumRotation(r.boneIdx, delta*weight)
}

// TranslationEvaluator samples a bone's translation timeline.
type TranslationEvaluator struct {
	eval    KeyFrameEvaluator[KeyFrame2D]
	boneIdx int16
	setupX, setupY float64
}

// NewTranslationEvaluator builds an evaluator for one bone's translation
// timeline.
func NewTranslationEvaluator(keys []KeyFrame2D, boneIdx int16, setupX, setupY float64) *TranslationEvaluator {
	return &TranslationEvaluator{eval: NewKeyFrameEvaluator(keys), boneIdx: boneIdx, setupX: setupX, setupY: setupY}
}

// Sample evaluates the timeline at time and accumulates the weighted
// positional delta into cache.
func (t *TranslationEvaluator) Sample(time float32, weight float64, cache *Cache) {
	k0, k1, alpha, ok := t.eval.locate(quantizeTime(time))
	if !ok {
		return
	}
	x := float64(lerpf32(k0.X, k1.X, alpha))
	y := float64(lerpf32(k0.Y, k1.Y, alpha))
	cache.AccumPosition(t.boneIdx, (x-t.setupX)*weight, (y-t.setupY)*weight)
}

// ShearEvaluator samples a bone's shear timeline.
type ShearEvaluator struct {
	eval    KeyFrameEvaluator[KeyFrame2D]
	boneIdx int16
	setupX, setupY float64
}

// NewShearEvaluator builds an evaluator for one bone's shear timeline.
func NewShearEvaluator(keys []KeyFrame2D, boneIdx int16, setupX, setupY float64) *ShearEvaluator {
	return &ShearEvaluator{eval: NewKeyFrameEvaluator(keys), boneIdx: boneIdx, setupX: setupX, setupY: setupY}
}

// Sample evaluates the timeline at time and accumulates the weighted
// shear delta into cache.
func (s *ShearEvaluator) Sample(time float32, weight float64, cache *Cache) {
	k0, k1, alpha, ok := s.eval.locate(quantizeTime(time))
	if !ok {
		return
	}
	x := float64(lerpf32(k0.X, k1.X, alpha))
	y := float64(lerpf32(k0.Y, k1.Y, alpha))
	cache.AccumShear(s.boneIdx, (x-s.setupX)*weight, (y-s.setupY)*weight)
}

// ScaleEvaluator samples a bone's scale timeline, accumulating both the
// value delta and the blend weight so repeated partial applications stay
// idempotent (§3 invariant 6).
type ScaleEvaluator struct {
	eval    KeyFrameEvaluator[KeyFrameScale]
	boneIdx int16
	setupX, setupY float64
}

// NewScaleEvaluator builds an evaluator for one bone's scale timeline.
func NewScaleEvaluator(keys []KeyFrameScale, boneIdx int16, setupX, setupY float64) *ScaleEvaluator {
	return &ScaleEvaluator{eval: NewKeyFrameEvaluator(keys), boneIdx: boneIdx, setupX: setupX, setupY: setupY}
}

// Sample evaluates the timeline at time and accumulates the weighted
// scale ratio and blend weight into cache.
func (s *ScaleEvaluator) Sample(time float32, weight float64, cache *Cache) {
	k0, k1, alpha, ok := s.eval.locate(quantizeTime(time))
	if !ok {
		return
	}
	x := float64(lerpf32(k0.ScaleX, k1.ScaleX, alpha))
	y := float64(lerpf32(k0.ScaleY, k1.ScaleY, alpha))
	var rx, ry float64
	if s.setupX != 0 {
		rx = x / s.setupX
	}
	if s.setupY != 0 {
		ry = y / s.setupY
	}
	cache.AccumScale(s.boneIdx, rx*weight, ry*weight, weight)
}

// applyIdempotentScale resolves a Cache scale entry into a final setup-
// relative scale factor using `out = base*(prod*blend + (1-blend))`.
func applyIdempotentScale(base float64, ratioTimesWeight, weight float64) float64 {
	if weight <= 0 {
		return base
	}
	prod := ratioTimesWeight / weight
	return base * (prod*weight + (1 - weight))
}

// SlotColorEvaluator samples a slot's RGBA color timeline.
type SlotColorEvaluator struct {
	eval    KeyFrameEvaluator[KeyFrameColor]
	slotIdx int16
	setup   Color
}

// NewSlotColorEvaluator builds an evaluator for one slot's color timeline.
func NewSlotColorEvaluator(keys []KeyFrameColor, slotIdx int16, setup Color) *SlotColorEvaluator {
	return &SlotColorEvaluator{eval: NewKeyFrameEvaluator(keys), slotIdx: slotIdx, setup: setup}
}

// Sample evaluates the timeline at time and accumulates the weighted color
// delta into cache.
func (s *SlotColorEvaluator) Sample(time float32, weight float64, cache *Cache) {
	k0, k1, alpha, ok := s.eval.locate(quantizeTime(time))
	if !ok {
		return
	}
	r := float64(lerpf32(float32(k0.Color.R), float32(k1.Color.R), alpha))
	g := float64(lerpf32(float32(k0.Color.G), float32(k1.Color.G), alpha))
	b := float64(lerpf32(float32(k0.Color.B), float32(k1.Color.B), alpha))
	a := float64(lerpf32(float32(k0.Color.A), float32(k1.Color.A), alpha))
	cache.AccumSlotColor(s.slotIdx, (r-s.setup.R)*weight, (g-s.setup.G)*weight, (b-s.setup.B)*weight, (a-s.setup.A)*weight)
}

// TwoColorEvaluator samples a slot's light+dark two-color tint timeline
// (Spine's two-color tinting).
type TwoColorEvaluator struct {
	eval    KeyFrameEvaluator[KeyFrameTwoColor]
	slotIdx int16
	setupLight, setupDark Color
}

// NewTwoColorEvaluator builds an evaluator for one slot's two-color
// timeline. setupDark is the slot's setup dark color, or black if the slot
// carries no dark color (Spine's two-color default).
func NewTwoColorEvaluator(keys []KeyFrameTwoColor, slotIdx int16, setupLight Color, setupDark *Color) *TwoColorEvaluator {
	dark := Color{}
	if setupDark != nil {
		dark = *setupDark
	}
	return &TwoColorEvaluator{eval: NewKeyFrameEvaluator(keys), slotIdx: slotIdx, setupLight: setupLight, setupDark: dark}
}

// Sample evaluates the timeline at time and accumulates the weighted
// light/dark color deltas into cache.
func (tc *TwoColorEvaluator) Sample(time float32, weight float64, cache *Cache) {
	k0, k1, alpha, ok := tc.eval.locate(quantizeTime(time))
	if !ok {
		return
	}
	lr := float64(lerpf32(float32(k0.Light.R), float32(k1.Light.R), alpha))
	lg := float64(lerpf32(float32(k0.Light.G), float32(k1.Light.G), alpha))
	lb := float64(lerpf32(float32(k0.Light.B), float32(k1.Light.B), alpha))
	la := float64(lerpf32(float32(k0.Light.A), float32(k1.Light.A), alpha))
	dr := float64(lerpf32(float32(k0.Dark.R), float32(k1.Dark.R), alpha))
	dg := float64(lerpf32(float32(k0.Dark.G), float32(k1.Dark.G), alpha))
	db := float64(lerpf32(float32(k0.Dark.B), float32(k1.Dark.B), alpha))
	da := float64(lerpf32(float32(k0.Dark.A), float32(k1.Dark.A), alpha))
	cache.AccumSlotTwoColor(tc.slotIdx,
		(lr-tc.setupLight.R)*weight, (lg-tc.setupLight.G)*weight, (lb-tc.setupLight.B)*weight, (la-tc.setupLight.A)*weight,
		(dr-tc.setupDark.R)*weight, (dg-tc.setupDark.G)*weight, (db-tc.setupDark.B)*weight, (da-tc.setupDark.A)*weight)
}

// IkEvaluator samples one IK constraint's parameter timeline.
type IkEvaluator struct {
	eval  KeyFrameEvaluator[KeyFrameIk]
	ikIdx int16
	setup IkDefinition
}

// NewIkEvaluator builds an evaluator for one IK constraint's timeline.
func NewIkEvaluator(keys []KeyFrameIk, ikIdx int16, setup IkDefinition) *IkEvaluator {
	return &IkEvaluator{eval: NewKeyFrameEvaluator(keys), ikIdx: ikIdx, setup: setup}
}

// Sample evaluates the timeline at time and accumulates the weighted IK
// parameter delta into cache.
func (ie *IkEvaluator) Sample(time float32, weight float64, cache *Cache) {
	k0, k1, alpha, ok := ie.eval.locate(quantizeTime(time))
	if !ok {
		return
	}
	mix := float64(lerpf32(k0.Mix, k1.Mix, alpha))
	softness := float64(lerpf32(k0.Softness, k1.Softness, alpha))
	bend := float64(lerpf32(k0.BendPositive, k1.BendPositive, alpha))
	compress := float64(lerpf32(k0.Compress, k1.Compress, alpha))
	stretch := float64(lerpf32(k0.Stretch, k1.Stretch, alpha))

	bendBase := 0.0
	if ie.setup.BendPositive {
		bendBase = 1
	}
	compressBase := 0.0
	if ie.setup.Compress {
		compressBase = 1
	}
	stretchBase := 0.0
	if ie.setup.Stretch {
		stretchBase = 1
	}

	cache.AccumIk(ie.ikIdx,
		(mix-ie.setup.Mix)*weight,
		(softness-ie.setup.Softness)*weight,
		(bend-bendBase)*weight,
		(compress-compressBase)*weight,
		(stretch-stretchBase)*weight)
}

// PathMixEvaluator samples one path constraint's mix timeline.
type PathMixEvaluator struct {
	eval   KeyFrameEvaluator[KeyFramePathMix]
	pathIdx int16
	setup  float64
}

// NewPathMixEvaluator builds an evaluator for one path constraint's mix
// timeline.
func NewPathMixEvaluator(keys []KeyFramePathMix, pathIdx int16, setup float64) *PathMixEvaluator {
	return &PathMixEvaluator{eval: NewKeyFrameEvaluator(keys), pathIdx: pathIdx, setup: setup}
}

// Sample evaluates the timeline at time and accumulates the weighted mix
// delta into cache.
func (p *PathMixEvaluator) Sample(time float32, weight float64, cache *Cache) {
	k0, k1, alpha, ok := p.eval.locate(quantizeTime(time))
	if !ok {
		return
	}
	v := float64(lerpf32(k0.Mix, k1.Mix, alpha))
	cache.AccumPathMix(p.pathIdx, (v-p.setup)*weight)
}

// TransformMixEvaluator samples one transform constraint's four mix
// factors.
type TransformMixEvaluator struct {
	eval          KeyFrameEvaluator[KeyFrameTransform]
	transformIdx  int16
	setup         TransformConstraintDefinition
}

// NewTransformMixEvaluator builds an evaluator for one transform
// constraint's mix timeline.
func NewTransformMixEvaluator(keys []KeyFrameTransform, transformIdx int16, setup TransformConstraintDefinition) *TransformMixEvaluator {
	return &TransformMixEvaluator{eval: NewKeyFrameEvaluator(keys), transformIdx: transformIdx, setup: setup}
}

// Sample evaluates the timeline at time and accumulates the weighted mix
// deltas into cache.
func (t *TransformMixEvaluator) Sample(time float32, weight float64, cache *Cache) {
	k0, k1, alpha, ok := t.eval.locate(quantizeTime(time))
	if !ok {
		return
	}
	pos := float64(lerpf32(k0.MixPos, k1.MixPos, alpha))
	rot := float64(lerpf32(k0.MixRotation, k1.MixRotation, alpha))
	scl := float64(lerpf32(k0.MixScale, k1.MixScale, alpha))
	shr := float64(lerpf32(k0.MixShear, k1.MixShear, alpha))
	cache.AccumTransform(t.transformIdx,
		(pos-t.setup.MixPos)*weight,
		(rot-t.setup.MixRotation)*weight,
		(scl-t.setup.MixScale)*weight,
		(shr-t.setup.MixShear)*weight)
}

// SlotAttachmentEvaluator samples a slot's discrete attachment-switch
// timeline. Discrete channels only apply at full weight unless the caller
// explicitly requests blending (§4.5).
type SlotAttachmentEvaluator struct {
	eval    KeyFrameEvaluator[KeyFrameAttachment]
	slotIdx int16
}

// NewSlotAttachmentEvaluator builds an evaluator for one slot's attachment
// timeline.
func NewSlotAttachmentEvaluator(keys []KeyFrameAttachment, slotIdx int16) *SlotAttachmentEvaluator {
	return &SlotAttachmentEvaluator{eval: NewKeyFrameEvaluator(keys), slotIdx: slotIdx}
}

// Sample evaluates the discrete attachment at time and, if alpha is 1 or
// blendDiscrete is set, pushes a candidate change into cache.
func (s *SlotAttachmentEvaluator) Sample(time float32, alpha float64, blendDiscrete bool, cache *Cache) {
	if s.eval.Len() == 0 {
		return
	}
	k0, _, _, ok := s.eval.locate(quantizeTime(time))
	if !ok {
		return
	}
	if alpha == 1 || blendDiscrete {
		cache.PushAttachment(s.slotIdx, k0.AttachmentName, alpha)
	}
}

// DrawOrderEvaluator samples the draw-order override timeline.
//
// Unlike every other evaluator, this one intentionally performs a
// forward-only linear scan per sample rather than using the shared
// monotonic-cursor KeyFrameEvaluator: the reference implementation does
// this (DrawOrderEvaluator never rewinds), and preserving that quirk keeps
// draw-order behavior bit-identical to a rig authored against it, at the
// cost of not detecting backward time jumps.
type DrawOrderEvaluator struct {
	keys    []KeyFrameDrawOrder
	slotIdx int16
	cursor  int
	baseOrder []int16 // setup-pose slot order; Sample copies it before applying offsets
}

// NewDrawOrderEvaluator builds an evaluator for the clip's draw-order
// timeline.
func NewDrawOrderEvaluator(keys []KeyFrameDrawOrder, baseOrder []int16) *DrawOrderEvaluator {
	return &DrawOrderEvaluator{keys: keys, baseOrder: baseOrder}
}

// Sample scans forward from the last position reached for the last
// keyframe with time <= time, and if found, applies its slot offsets onto
// a copy of the base order before pushing it as the frame's override.
func (d *DrawOrderEvaluator) Sample(time float32, alpha float64, blendDiscrete bool, cache *Cache) {
	if len(d.keys) == 0 {
		return
	}
	t := quantizeTime(time)
	for d.cursor < len(d.keys)-1 && d.keys[d.cursor+1].Time <= t {
		d.cursor++
	}
	if d.keys[d.cursor].Time > t {
		return
	}
	if alpha != 1 && !blendDiscrete {
		return
	}
	order := append([]int16(nil), d.baseOrder...)
	for _, off := range d.keys[d.cursor].Offsets {
		applyDrawOrderOffset(order, off)
	}
	cache.SetDrawOrderOverride(order)
}

func applyDrawOrderOffset(order []int16, off DrawOrderOffset) {
	pos := -1
	for i, s := range order {
		if s == off.SlotIdx {
			pos = i
			break
		}
	}
	if pos < 0 {
		return
	}
	target := pos + int(off.Offset)
	if target < 0 {
		target = 0
	}
	if target >= len(order) {
		target = len(order) - 1
	}
	if target == pos {
		return
	}
	v := order[pos]
	if target > pos {
		copy(order[pos:target], order[pos+1:target+1])
	} else {
		copy(order[target+1:pos+1], order[target:pos])
	}
	order[target] = v
}

// EventEvaluator samples the clip's event timeline. EvaluateRange, not
// Sample, is its entry point (events are range-dispatched, not point-
// sampled).
type EventEvaluator struct {
	keys []KeyFrameEvent
}

// NewEventEvaluator builds an evaluator for the clip's event timeline.
func NewEventEvaluator(keys []KeyFrameEvent) *EventEvaluator {
	return &EventEvaluator{keys: keys}
}

// eventMixThreshold is the minimum clip weight below which event
// dispatch is suppressed (§4.5).
const eventMixThreshold = 0.0

// EvaluateRange dispatches every event key with t0 < t <= t1 (the special
// case t0 == 0 && first key time == 0 is closed on the low end), skipping
// dispatch entirely if alpha is below eventMixThreshold.
func (ee *EventEvaluator) EvaluateRange(t0, t1 float32, alpha float64, sink EventSink) {
	if sink == nil || alpha < eventMixThreshold {
		return
	}
	t0, t1 = quantizeTime(t0), quantizeTime(t1)
	for _, k := range ee.keys {
		t := quantizeTime(k.Time)
		inRange := t > t0 && t <= t1
		if t0 == 0 && len(ee.keys) > 0 && quantizeTime(ee.keys[0].Time) == 0 && t == 0 {
			inRange = true
		}
		if inRange {
			sink.Dispatch(k.EventName, k.IntValue, k.FloatValue, k.StringValue)
		}
	}
}

// DeformEvaluator samples one attachment's vertex-deform timeline,
// maintaining a refcounted lease on the instance's absolute deform buffer
// per §4.5.
type DeformEvaluator struct {
	eval    KeyFrameEvaluator[KeyFrameDeform]
	key     DeformKey
	acquired bool
}

// DeformKey identifies one deform buffer in an Instance's deform map.
type DeformKey struct {
	Skin, Slot, Attachment NameId
}

// NewDeformEvaluator builds an evaluator for one attachment's deform
// timeline.
func NewDeformEvaluator(keys []KeyFrameDeform, key DeformKey) *DeformEvaluator {
	return &DeformEvaluator{eval: NewKeyFrameEvaluator(keys), key: key}
}

// Sample evaluates the deform timeline at time: on first evaluation at or
// past the first key's time it acquires the instance's deform buffer
// (sized to setupVertexCount), then lerps and either overwrites (alpha==1)
// or blends the buffer toward the sampled values by alpha.
func (de *DeformEvaluator) Sample(time float32, alpha float64, setupVertexCount int, inst *Instance) {
	if de.eval.Len() == 0 {
		return
	}
	t := quantizeTime(time)
	if t < de.eval.keys[0].Time {
		if de.acquired {
			inst.releaseDeform(de.key)
			de.acquired = false
		}
		return
	}
	if !de.acquired {
		inst.acquireDeform(de.key, setupVertexCount)
		de.acquired = true
	}
	k0, k1, u, ok := de.eval.locate(t)
	if !ok {
		return
	}
	buf := inst.deformBuffer(de.key)
	for i := range buf {
		v0 := deformValueAt(k0, i)
		v1 := deformValueAt(k1, i)
		lerped := float64(lerpf32(v0, v1, u))
		if alpha >= 1 {
			buf[i] = lerped
		} else {
			buf[i] += (lerped - buf[i]) * alpha
		}
	}
}

// Release drops this evaluator's lease on its deform buffer, if held,
// freeing the buffer if it was the last reference.
func (de *DeformEvaluator) Release(inst *Instance) {
	if de.acquired {
		inst.releaseDeform(de.key)
		de.acquired = false
	}
}

func deformValueAt(k KeyFrameDeform, vertexIdx int) float32 {
	local := vertexIdx - int(k.Offset)
	if local < 0 || local >= len(k.Deltas) {
		return 0
	}
	return k.Deltas[local]
}
