package animation2d

// ClipInstance owns the timeline evaluators for one clip bound to one
// Instance's Definition, plus each evaluator's monotonic cursor. A host
// creates one per (instance, active clip) pair it wants blended this
// frame. Path constraints get an evaluator for their Mix timeline only; a
// clip's path Position and Spacing timelines are not sampled.
type ClipInstance struct {
	clip *Clip
	def  *Definition

	rotations    []*RotationEvaluator
	translations []*TranslationEvaluator
	shears       []*ShearEvaluator
	scales       []*ScaleEvaluator

	slotColors      []*SlotColorEvaluator
	twoColors       []*TwoColorEvaluator
	slotAttachments []*SlotAttachmentEvaluator

	iks        []*IkEvaluator
	pathMixes  []*PathMixEvaluator
	transforms []*TransformMixEvaluator

	drawOrder *DrawOrderEvaluator
	events    *EventEvaluator
	deforms   []*DeformEvaluator
	deformVertexCounts []int
}

// NewClipInstance constructs every timeline evaluator for clip, reading
// setup-pose values from def to compute deltas against.
func NewClipInstance(clip *Clip, def *Definition, baseSlotOrder []int16) *ClipInstance {
	ci := &ClipInstance{clip: clip, def: def}

	for _, bk := range clip.Bones {
		setup := def.Bones[bk.BoneIdx]
		if len(bk.Rotation) > 0 {
			ci.rotations = append(ci.rotations, NewRotationEvaluator(bk.Rotation, bk.BoneIdx, setup.Rotation))
		}
		if len(bk.Translation) > 0 {
			ci.translations = append(ci.translations, NewTranslationEvaluator(bk.Translation, bk.BoneIdx, setup.X, setup.Y))
		}
		if len(bk.Shear) > 0 {
			ci.shears = append(ci.shears, NewShearEvaluator(bk.Shear, bk.BoneIdx, setup.ShearX, setup.ShearY))
		}
		if len(bk.Scale) > 0 {
			ci.scales = append(ci.scales, NewScaleEvaluator(bk.Scale, bk.BoneIdx, setup.ScaleX, setup.ScaleY))
		}
	}

	for _, sk := range clip.Slots {
		setup := def.Slots[sk.SlotIdx]
		if len(sk.Color) > 0 {
			ci.slotColors = append(ci.slotColors, NewSlotColorEvaluator(sk.Color, sk.SlotIdx, setup.Color))
		}
		if len(sk.TwoColor) > 0 {
			ci.twoColors = append(ci.twoColors, NewTwoColorEvaluator(sk.TwoColor, sk.SlotIdx, setup.Color, setup.DarkColor))
		}
		if len(sk.Attachment) > 0 {
			ci.slotAttachments = append(ci.slotAttachments, NewSlotAttachmentEvaluator(sk.Attachment, sk.SlotIdx))
		}
	}

	for _, ik := range clip.Ik {
		if len(ik.Keys) > 0 {
			ci.iks = append(ci.iks, NewIkEvaluator(ik.Keys, ik.IkIdx, def.Ik[ik.IkIdx]))
		}
	}

	for _, p := range clip.Paths {
		if len(p.Mix) > 0 {
			ci.pathMixes = append(ci.pathMixes, NewPathMixEvaluator(p.Mix, p.PathIdx, def.Paths[p.PathIdx].Mix))
		}
	}

	for _, tr := range clip.Transforms {
		if len(tr.Keys) > 0 {
			ci.transforms = append(ci.transforms, NewTransformMixEvaluator(tr.Keys, tr.TransformIdx, def.Transforms[tr.TransformIdx]))
		}
	}

	if len(clip.DrawOrder) > 0 {
		ci.drawOrder = NewDrawOrderEvaluator(clip.DrawOrder, baseSlotOrder)
	}
	if len(clip.Events) > 0 {
		ci.events = NewEventEvaluator(clip.Events)
	}

	for _, dk := range clip.Deforms {
		a, ok := def.Attachment(dk.SkinName, dk.SlotName, dk.AttachmentName)
		vc := 0
		if ok && a != nil {
			vc = len(a.Vertices) / 2
		}
		key := DeformKey{Skin: dk.SkinName, Slot: dk.SlotName, Attachment: dk.AttachmentName}
		ci.deforms = append(ci.deforms, NewDeformEvaluator(dk.Keys, key))
		ci.deformVertexCounts = append(ci.deformVertexCounts, vc)
	}

	return ci
}

// GetMaxTime returns the clip's duration.
func (ci *ClipInstance) GetMaxTime() float32 { return ci.clip.Duration() }

// Evaluate samples every non-event timeline that has an evaluator (path
// Position and Spacing timelines have none) at time with blend weight
// alpha, accumulating deltas into cache. blendDiscrete controls whether
// discrete channels (slot attachment, draw order) apply below full alpha.
func (ci *ClipInstance) Evaluate(time float32, alpha float64, blendDiscrete bool, cache *Cache) {
	for _, e := range ci.rotations {
		e.Sample(time, alpha, cache)
	}
	for _, e := range ci.translations {
		e.Sample(time, alpha, cache)
	}
	for _, e := range ci.shears {
		e.Sample(time, alpha, cache)
	}
	for _, e := range ci.scales {
		e.Sample(time, alpha, cache)
	}
	for _, e := range ci.slotColors {
		e.Sample(time, alpha, cache)
	}
	for _, e := range ci.twoColors {
		e.Sample(time, alpha, cache)
	}
	for _, e := range ci.slotAttachments {
		e.Sample(time, alpha, blendDiscrete, cache)
	}
	for _, e := range ci.iks {
		e.Sample(time, alpha, cache)
	}
	for _, e := range ci.pathMixes {
		e.Sample(time, alpha, cache)
	}
	for _, e := range ci.transforms {
		e.Sample(time, alpha, cache)
	}
	if ci.drawOrder != nil {
		ci.drawOrder.Sample(time, alpha, blendDiscrete, cache)
	}
}

// EvaluateDeforms samples every deform timeline at time against inst,
// lerping or blending into the instance's deform buffers directly
// (deforms bypass the Cache since they are buffer-sized, not scalar).
func (ci *ClipInstance) EvaluateDeforms(time float32, alpha float64, inst *Instance) {
	for i, e := range ci.deforms {
		e.Sample(time, alpha, ci.deformVertexCounts[i], inst)
	}
}

// EvaluateRange dispatches every event in (t0, t1] (or [0,t1] per the
// zero-start special case) through sink, scaled by alpha against
// eventMixThreshold.
func (ci *ClipInstance) EvaluateRange(t0, t1 float32, alpha float64, sink EventSink) {
	if ci.events == nil {
		return
	}
	ci.events.EvaluateRange(t0, t1, alpha, sink)
}

// GetNextEventTime returns the time of the first event named name with
// time > startTime, or (0, false) if none remains.
func (ci *ClipInstance) GetNextEventTime(name NameId, startTime float32) (float32, bool) {
	if ci.events == nil {
		return 0, false
	}
	best := float32(0)
	found := false
	for _, k := range ci.events.keys {
		if k.EventName != name {
			continue
		}
		if k.Time <= startTime {
			continue
		}
		if !found || k.Time < best {
			best = k.Time
			found = true
		}
	}
	return best, found
}

// ReleaseDeforms drops every deform evaluator's buffer lease, for use when
// a ClipInstance is being torn down mid-clip.
func (ci *ClipInstance) ReleaseDeforms(inst *Instance) {
	for _, e := range ci.deforms {
		e.Release(inst)
	}
}
