package animation2d

import (
	"log"
	"math"
	"sort"
)

// deformEntry is one instance's absolute vertex buffer for a (skin, slot,
// attachment) triple, plus a refcount of the evaluators currently leasing
// it (§9: "use an intrusive counter in a side table rather than per-
// evaluator strong pointers").
type deformEntry struct {
	buf      []float64
	refcount int
}

// SlotInstanceState is the read-only-to-hosts snapshot of one slot after
// posing: its resolved id, color, and active attachment.
type SlotInstanceState struct {
	SlotIdx        int16
	AttachmentName NameId
	Color          Color
	DarkColor      *Color
}

// Instance is a mutable, per-character pose: it borrows a shared
// Definition for its entire lifetime and owns all of its own current
// state. The pose engine is single-threaded per Instance (§5); only the
// Manager's live-instance bookkeeping needs a mutex.
type Instance struct {
	Def *Definition

	// Logger receives warnings for non-fatal runtime conditions (missing
	// skin for a path constraint, mismatched transform_mode); defaults to
	// log.Default() if nil at first use.
	Logger *log.Logger

	EventSink EventSink

	bones      []BoneState
	ikStates   []IkState
	pathStates []PathState
	transformStates []TransformConstraintState
	slots      []SlotInstanceState

	skinningPalette []Mat2x3

	drawOrder []int16

	activeSkin NameId

	deforms map[DeformKey]*deformEntry

	cache *Cache

	// pathScratch is reused across frames to keep the hot path
	// allocation-free (§5).
	pathScratch pathScratchBuffers
}

type pathScratchBuffers struct {
	spaces    []float64
	positions []float64
	world     []float64
}

// NewInstance creates an Instance bound to def, seeded at the setup pose.
// eventSink may be nil if the host does not care about discrete events.
func NewInstance(def *Definition, eventSink EventSink) *Instance {
	inst := &Instance{
		Def:        def,
		EventSink:  eventSink,
		bones:      make([]BoneState, len(def.Bones)),
		ikStates:   make([]IkState, len(def.Ik)),
		pathStates: make([]PathState, len(def.Paths)),
		transformStates: make([]TransformConstraintState, len(def.Transforms)),
		slots:      make([]SlotInstanceState, len(def.Slots)),
		skinningPalette: make([]Mat2x3, len(def.Bones)),
		drawOrder:  make([]int16, len(def.Slots)),
		activeSkin: NewNameId(DefaultSkinName),
		deforms:    make(map[DeformKey]*deformEntry),
		cache:      NewCache(),
	}
	inst.resetToSetup()
	inst.PoseSkinningPalette()
	return inst
}

func (inst *Instance) resetToSetup() {
	for i := range inst.bones {
		inst.bones[i].ResetToSetup(&inst.Def.Bones[i])
	}
	for i := range inst.ikStates {
		inst.ikStates[i].ResetToSetup(&inst.Def.Ik[i])
	}
	for i := range inst.pathStates {
		inst.pathStates[i].ResetToSetup(&inst.Def.Paths[i])
	}
	for i := range inst.transformStates {
		inst.transformStates[i].ResetToSetup(&inst.Def.Transforms[i])
	}
	for i := range inst.slots {
		inst.slots[i].SlotIdx = int16(i)
		inst.slots[i].ResetToSetup(&inst.Def.Slots[i])
	}
	for i := range inst.drawOrder {
		inst.drawOrder[i] = int16(i)
	}
}

func (inst *Instance) logger() *log.Logger {
	if inst.Logger != nil {
		return inst.Logger
	}
	return log.Default()
}

// Cache returns the instance's Frame Accumulator, for evaluators to
// accumulate deltas into before ApplyCache.
func (inst *Instance) Cache() *Cache { return inst.cache }

// BaseSlotOrder returns the setup-pose slot order, used by
// NewClipInstance to seed its DrawOrderEvaluator scratch.
func (inst *Instance) BaseSlotOrder() []int16 {
	order := make([]int16, len(inst.Def.Slots))
	for i := range order {
		order[i] = int16(i)
	}
	return order
}

// Tick advances the instance by dt: per §5, within one call the order is
// strictly (1) sample active clips [left to the host via ClipInstance.
// Evaluate, already accumulated into inst.Cache() before Tick runs] →
// (2) ApplyCache → (3) PoseSkinningPalette.
func (inst *Instance) Tick(dt float32) {
	_ = dt
	inst.ApplyCache()
	inst.PoseSkinningPalette()
}

// ApplyCache folds every accumulated delta in the instance's Cache onto
// its mutable state, in the order: draw order, attachments, color, IK,
// path, transforms, bones — then clears the Cache for the next frame.
func (inst *Instance) ApplyCache() {
	c := inst.cache

	if len(c.drawOrderOverride) == len(inst.drawOrder) {
		copy(inst.drawOrder, c.drawOrderOverride)
	} else {
		for i := range inst.drawOrder {
			inst.drawOrder[i] = int16(i)
		}
	}

	inst.applyAttachmentEntries(c.attachmentEntries)

	for idx, d := range c.slotColorDelta {
		s := &inst.slots[idx]
		base := inst.Def.Slots[idx].Color
		s.Color = Color{
			R: base.R + d.R,
			G: base.G + d.G,
			B: base.B + d.B,
			A: base.A + d.A,
		}
	}

	for idx, pair := range c.slotTwoColorDelta {
		s := &inst.slots[idx]
		baseLight := inst.Def.Slots[idx].Color
		var baseDark Color
		if inst.Def.Slots[idx].DarkColor != nil {
			baseDark = *inst.Def.Slots[idx].DarkColor
		}
		light := pair[0]
		dark := pair[1]
		s.Color = Color{
			R: baseLight.R + light.R,
			G: baseLight.G + light.G,
			B: baseLight.B + light.B,
			A: baseLight.A + light.A,
		}
		s.DarkColor = &Color{
			R: baseDark.R + dark.R,
			G: baseDark.G + dark.G,
			B: baseDark.B + dark.B,
			A: baseDark.A + dark.A,
		}
	}

	for idx, d := range c.ikDelta {
		setup := inst.Def.Ik[idx]
		st := &inst.ikStates[idx]
		st.Mix = setup.Mix + d.Mix
		st.Softness = setup.Softness + d.Softness
		st.BendPositive = resolveBool(setup.BendPositive, d.BendPositiveScore)
		st.Compress = resolveBool(setup.Compress, d.CompressScore)
		st.Stretch = resolveBool(setup.Stretch, d.StretchScore)
	}

	for idx, d := range c.pathMixDelta {
		inst.pathStates[idx].Mix = inst.Def.Paths[idx].Mix + d
	}
	for idx, d := range c.pathPositionDelta {
		inst.pathStates[idx].Position = inst.Def.Paths[idx].Position + d
	}
	for idx, d := range c.pathSpacingDelta {
		inst.pathStates[idx].Spacing = inst.Def.Paths[idx].Spacing + d
	}

	for idx, d := range c.transformDelta {
		setup := inst.Def.Transforms[idx]
		st := &inst.transformStates[idx]
		st.MixPos = setup.MixPos + d.MixPos
		st.MixRotation = setup.MixRotation + d.MixRotation
		st.MixScale = setup.MixScale + d.MixScale
		st.MixShear = setup.MixShear + d.MixShear
	}

	for idx, d := range c.positionDelta {
		def := inst.Def.Bones[idx]
		inst.bones[idx].X = def.X + d.X
		inst.bones[idx].Y = def.Y + d.Y
	}
	for idx, d := range c.rotationDelta {
		def := inst.Def.Bones[idx]
		inst.bones[idx].Rotation = clampDegrees(def.Rotation + d)
	}
	for idx, d := range c.shearDelta {
		def := inst.Def.Bones[idx]
		inst.bones[idx].ShearX = def.ShearX + d.X
		inst.bones[idx].ShearY = def.ShearY + d.Y
	}
	for idx, d := range c.scaleDelta {
		def := inst.Def.Bones[idx]
		inst.bones[idx].ScaleX = applyIdempotentScale(def.ScaleX, d.X, d.Weight)
		inst.bones[idx].ScaleY = applyIdempotentScale(def.ScaleY, d.Y, d.Weight)
	}

	c.Clear()
}

func (inst *Instance) applyAttachmentEntries(entries []attachmentEntry) {
	if len(entries) == 0 {
		return
	}
	maxAlpha := entries[0].Alpha
	for _, e := range entries[1:] {
		if e.Alpha > maxAlpha {
			maxAlpha = e.Alpha
		}
	}
	touched := make(map[int16]bool, len(entries))
	for _, e := range entries {
		if e.Alpha == maxAlpha {
			inst.slots[e.SlotIdx].AttachmentName = e.Name
			touched[e.SlotIdx] = true
		}
	}
	// Slots absent from every entry keep their current value; slots that
	// appear only in losing entries are restored to setup.
	for _, e := range entries {
		if !touched[e.SlotIdx] {
			inst.slots[e.SlotIdx].AttachmentName = inst.Def.Slots[e.SlotIdx].AttachmentName
			touched[e.SlotIdx] = true
		}
	}
}

// sortEntriesByAlpha is retained for callers that need the accumulator's
// ascending-alpha ordering directly (§3).
func sortEntriesByAlpha(entries []attachmentEntry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Alpha < entries[j].Alpha })
}

// SkinningPalette returns the current per-bone world transforms, valid
// until the next PoseSkinningPalette call.
func (inst *Instance) SkinningPalette() []Mat2x3 { return inst.skinningPalette }

// Slots returns the current per-slot state.
func (inst *Instance) Slots() []SlotInstanceState { return inst.slots }

// DrawOrder returns the current slot-index permutation.
func (inst *Instance) DrawOrder() []int16 { return inst.drawOrder }

// PoseSkinningPalette walks the Definition's finalized pose-task list,
// evaluating bones and constraints in order and writing the resulting
// world transforms into the skinning palette.
func (inst *Instance) PoseSkinningPalette() {
	if len(inst.bones) == 0 {
		return
	}

	// Bone 0 (root) is always evaluated first, with no parent.
	inst.skinningPalette[0] = computeWorldTransform(inst.bones[0], TransformNormal, Mat2x3{}, false)

	for _, task := range inst.Def.PoseTasks {
		switch task.Kind {
		case PoseTaskBone:
			inst.poseBone(int(task.Index))
		case PoseTaskIk:
			inst.poseIk(int(task.Index))
		case PoseTaskPath:
			inst.posePath(int(task.Index))
		case PoseTaskTransform:
			inst.poseTransform(int(task.Index))
		}
	}
}

func (inst *Instance) poseBone(i int) {
	def := inst.Def.Bones[i]
	parent := def.ParentIdx
	parentWorld := inst.skinningPalette[parent]
	inst.skinningPalette[i] = computeWorldTransform(inst.bones[i], def.TransformMode, parentWorld, true)
}

func (inst *Instance) poseIk(i int) {
	ik := inst.Def.Ik[i]
	st := inst.ikStates[i]
	if st.Mix <= 0 {
		return
	}

	targetWorld := inst.skinningPalette[ik.TargetBoneIdx]
	targetX, targetY := targetWorld.TX, targetWorld.TY

	if len(ik.Chain) == 1 {
		parentIdx := ik.Chain[0]
		def := inst.Def.Bones[parentIdx]
		grandIdx := def.ParentIdx
		var grandWorld Mat2x3
		grandValid := grandIdx >= 0
		if grandValid {
			grandWorld = inst.skinningPalette[grandIdx]
		}
		newLocal := solveIk1(inst.bones[parentIdx], def.TransformMode, grandWorld, grandValid,
			targetX, targetY, st.Mix, st.Compress, st.Stretch, ik.Uniform)
		inst.bones[parentIdx] = newLocal
		inst.poseBoneFrom(int(parentIdx), grandWorld, grandValid)
		return
	}

	parentIdx, childIdx := ik.Chain[0], ik.Chain[1]
	parentDef := inst.Def.Bones[parentIdx]
	childDef := inst.Def.Bones[childIdx]

	grandIdx := parentDef.ParentIdx
	var grandWorld Mat2x3
	grandValid := grandIdx >= 0
	if grandValid {
		grandWorld = inst.skinningPalette[grandIdx]
	}
	parentWorldBefore := computeWorldTransform(inst.bones[parentIdx], parentDef.TransformMode, grandWorld, grandValid)

	res := solveIk2(inst.bones[parentIdx], inst.bones[childIdx], parentDef.TransformMode, parentWorldBefore,
		grandWorld, grandValid, parentDef.Length, childDef.Length, targetX, targetY,
		st.BendPositive, st.Mix, st.Softness, st.Stretch)

	inst.bones[parentIdx].Rotation = clampDegrees(res.ParentRotation)
	inst.bones[parentIdx].ScaleX = res.ParentScaleX
	inst.bones[parentIdx].ScaleY = res.ParentScaleY
	inst.bones[parentIdx].ShearX = res.ParentShearX
	inst.bones[parentIdx].ShearY = res.ParentShearY

	inst.bones[childIdx].Y = res.ChildY
	inst.bones[childIdx].Rotation = clampDegrees(res.ChildRotation)
	inst.bones[childIdx].ScaleX = res.ChildScaleX
	inst.bones[childIdx].ScaleY = res.ChildScaleY
	inst.bones[childIdx].ShearX = res.ChildShearX
	inst.bones[childIdx].ShearY = res.ChildShearY

	inst.poseBoneFrom(int(parentIdx), grandWorld, grandValid)
	childParentWorld := inst.skinningPalette[parentIdx]
	inst.poseBoneFrom(int(childIdx), childParentWorld, true)
}

func (inst *Instance) poseBoneFrom(i int, parentWorld Mat2x3, parentValid bool) {
	def := inst.Def.Bones[i]
	inst.skinningPalette[i] = computeWorldTransform(inst.bones[i], def.TransformMode, parentWorld, parentValid)
}

func (inst *Instance) poseTransform(i int) {
	def := inst.Def.Transforms[i]
	st := inst.transformStates[i]
	if st.MixPos == 0 && st.MixRotation == 0 && st.MixScale == 0 && st.MixShear == 0 {
		return
	}

	targetWorld := inst.skinningPalette[def.TargetBoneIdx]
	targetLocal := inst.bones[def.TargetBoneIdx]
	mirrored := targetWorld.DeterminantUpper2x2() < 0

	for _, b := range def.Chain {
		boneDef := inst.Def.Bones[b]
		newLocal := applyTransformConstraint(&def, &st, inst.bones[b], targetLocal, targetWorld, mirrored)
		inst.bones[b] = newLocal

		parentIdx := boneDef.ParentIdx
		var parentWorld Mat2x3
		parentValid := parentIdx >= 0
		if parentValid {
			parentWorld = inst.skinningPalette[parentIdx]
		}
		inst.poseBoneFrom(int(b), parentWorld, parentValid)
	}
}

func (inst *Instance) posePath(i int) {
	def := inst.Def.Paths[i]
	st := inst.pathStates[i]
	if st.Mix <= 0 {
		return
	}

	slot := inst.Def.Slots[def.TargetSlotIdx]
	attachName := inst.slots[def.TargetSlotIdx].AttachmentName
	a, ok := inst.Def.Attachment(inst.activeSkin, slot.Name, attachName)
	if !ok || a == nil || a.Type != AttachmentPath {
		inst.logger().Printf("animation2d: path constraint %q: target slot %q has no active Path attachment", def.Name, slot.Name)
		return
	}

	worldVerts := inst.pathWorldVertices(a)
	samples := buildPathSamples(a, worldVerts, inst.pathScratch.positions)
	inst.pathScratch.positions = samples

	spaces := computePathSpacing(def, st, inst.Def.Bones, samples, inst.pathScratch.spaces)
	inst.pathScratch.spaces = spaces

	// curX/curY/curTangent* track the sample point this bone is placed at;
	// nextX/nextY (looked up one spacing ahead, mirroring the source's
	// pfPoints look-ahead) supply the segment direction the Chain and
	// ChainScale rotation modes rotate toward, and the travelled distance
	// ChainScale rescales bone length against (§4.6 step 4).
	pos := st.Position
	curX, curY, curTangentX, curTangentY := samplePathAt(samples, a.Closed, pos)

	for ci, b := range def.Chain {
		boneDef := inst.Def.Bones[b]

		parentIdx := boneDef.ParentIdx
		var parentWorld Mat2x3
		parentValid := parentIdx >= 0
		if parentValid {
			parentWorld = inst.skinningPalette[parentIdx]
		}
		local := inst.bones[b]
		worldBefore := computeWorldTransform(local, boneDef.TransformMode, parentWorld, parentValid)

		newTX := worldBefore.TX + (curX-worldBefore.TX)*st.Mix
		newTY := worldBefore.TY + (curY-worldBefore.TY)*st.Mix

		nextPos := pos
		if ci < len(spaces) {
			nextPos += spaces[ci]
		}
		nextX, nextY, nextTangentX, nextTangentY := samplePathAt(samples, a.Closed, nextPos)
		segDx, segDy := nextX-curX, nextY-curY

		if def.RotationMode == PathRotationChainScale && boneDef.Length > pathLengthEpsilon {
			travelled := vectorLength(segDx, segDy)
			s := ((travelled/boneDef.Length)-1)*st.Rotation + 1
			local.ScaleX *= s
		}

		if st.Rotation > 0 {
			var angle float64
			switch def.RotationMode {
			case PathRotationTangent:
				if curTangentX != 0 || curTangentY != 0 {
					angle = radiansToDegrees(math.Atan2(curTangentY, curTangentX))
				} else {
					angle = local.Rotation
				}
			default: // Chain, ChainScale: rotate toward the next bone's sample point.
				if segDx != 0 || segDy != 0 {
					angle = radiansToDegrees(math.Atan2(segDy, segDx))
				} else {
					angle = local.Rotation
				}
			}
			delta := clampDegrees(angle - local.Rotation)
			local.Rotation = clampDegrees(local.Rotation + delta*st.Rotation*st.Mix)
		}

		if parentValid {
			inv := parentWorld.Invert()
			local.X, local.Y = inv.TransformPoint(newTX, newTY)
		} else {
			local.X, local.Y = newTX, newTY
		}
		inst.bones[b] = local
		inst.poseBoneFrom(int(b), parentWorld, parentValid)

		pos = nextPos
		curX, curY, curTangentX, curTangentY = nextX, nextY, nextTangentX, nextTangentY
	}
}

// growFloatSlice returns scratch resized to exactly n elements, reusing its
// backing array when it already has enough capacity instead of allocating.
func growFloatSlice(scratch []float64, n int) []float64 {
	if cap(scratch) >= n {
		return scratch[:n]
	}
	return make([]float64, n)
}

// pathWorldVertices transforms a Path attachment's control-point vertices
// into world space, blending bone weights if skinned (§4.6 step 2). It
// reuses inst.pathScratch.world across calls to stay allocation-free (§5).
func (inst *Instance) pathWorldVertices(a *Attachment) []float64 {
	n := len(a.Vertices) / 2
	out := growFloatSlice(inst.pathScratch.world, n*2)
	if !a.IsSkinned() {
		for i := 0; i < n; i++ {
			copy(out[i*2:i*2+2], a.Vertices[i*2:i*2+2])
		}
		inst.pathScratch.world = out
		return out
	}
	vi := 0
	wi := 0
	for i := 0; i < n; i++ {
		count := int(a.BoneCounts[i])
		var wx, wy float64
		for k := 0; k < count; k++ {
			boneIdx := a.Bones[wi]
			lx, ly := a.Vertices[vi], a.Vertices[vi+1]
			weight := a.Weights[wi]
			wx2, wy2 := inst.skinningPalette[boneIdx].TransformPoint(lx, ly)
			wx += wx2 * weight
			wy += wy2 * weight
			vi += 2
			wi++
		}
		out[i*2], out[i*2+1] = wx, wy
	}
	inst.pathScratch.world = out
	return out
}

// acquireDeform creates (if absent) the absolute vertex buffer for key,
// sized to vertexCount*2 floats seeded from zero, and increments its
// refcount.
func (inst *Instance) acquireDeform(key DeformKey, vertexCount int) {
	e, ok := inst.deforms[key]
	if !ok {
		e = &deformEntry{buf: make([]float64, vertexCount*2)}
		inst.deforms[key] = e
	}
	e.refcount++
}

// releaseDeform decrements key's refcount, freeing the buffer entirely
// when the last evaluator releases it.
func (inst *Instance) releaseDeform(key DeformKey) {
	e, ok := inst.deforms[key]
	if !ok {
		return
	}
	e.refcount--
	if e.refcount <= 0 {
		delete(inst.deforms, key)
	}
}

// deformBuffer returns the absolute vertex buffer for key, or nil if not
// currently acquired.
func (inst *Instance) deformBuffer(key DeformKey) []float64 {
	e, ok := inst.deforms[key]
	if !ok {
		return nil
	}
	return e.buf
}

// GetNextEventTime is a per-instance convenience that simply forwards to
// the active ClipInstance's own GetNextEventTime (§6.3); hosts driving
// multiple blended clips call this per clip.
func (inst *Instance) GetNextEventTime(ci *ClipInstance, name NameId, startTime float32) (float32, bool) {
	if ci == nil {
		return 0, false
	}
	return ci.GetNextEventTime(name, startTime)
}

// Clone deep-copies the instance's mutable state (including the deform
// buffers) against the same shared Definition, per §3's clone contract.
func (inst *Instance) Clone() *Instance {
	out := &Instance{
		Def:        inst.Def,
		Logger:     inst.Logger,
		EventSink:  inst.EventSink,
		bones:      append([]BoneState(nil), inst.bones...),
		ikStates:   append([]IkState(nil), inst.ikStates...),
		pathStates: append([]PathState(nil), inst.pathStates...),
		transformStates: append([]TransformConstraintState(nil), inst.transformStates...),
		slots:      append([]SlotInstanceState(nil), inst.slots...),
		skinningPalette: append([]Mat2x3(nil), inst.skinningPalette...),
		drawOrder:  append([]int16(nil), inst.drawOrder...),
		activeSkin: inst.activeSkin,
		deforms:    make(map[DeformKey]*deformEntry, len(inst.deforms)),
		cache:      NewCache(),
	}
	for i := range out.slots {
		if inst.slots[i].DarkColor != nil {
			dc := *inst.slots[i].DarkColor
			out.slots[i].DarkColor = &dc
		}
	}
	for k, e := range inst.deforms {
		out.deforms[k] = &deformEntry{buf: append([]float64(nil), e.buf...), refcount: e.refcount}
	}
	return out
}
