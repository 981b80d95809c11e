package animation2d

// boolResolveThreshold is the cutoff the 0.5 rule uses to turn an
// accumulated boolean score back into a bool: final = (base + delta) >= 0.5.
const boolResolveThreshold = 0.5

// vec2Delta is an accumulated (x, y) delta.
type vec2Delta struct{ X, Y float64 }

// scaleDelta is an accumulated scale delta with a tracked blend weight, so
// that `out = base*(prod*blend + (1-blend))` stays idempotent across
// repeated partial-weight applications (§3, invariant 6).
type scaleDelta struct {
	X, Y, Weight float64
}

// ikDelta is an accumulated IK parameter delta; BendPositive/Compress/
// Stretch are scored floats resolved by the 0.5 rule during apply.
type ikDelta struct {
	Mix, Softness                       float64
	BendPositiveScore                   float64
	CompressScore, StretchScore         float64
}

// transformDelta is an accumulated transform-constraint mix delta.
type transformDelta struct {
	MixPos, MixRotation, MixScale, MixShear float64
}

// attachmentEntry is one pending discrete attachment change, kept until
// apply so the highest-alpha cluster can be selected (§3/§4.5).
type attachmentEntry struct {
	SlotIdx int16
	Name    NameId
	Alpha   float64
}

// colorDelta is an accumulated RGBA delta.
type colorDelta struct{ R, G, B, A float64 }

// Cache is the transient per-frame Frame Accumulator: every active clip
// evaluator pushes additive deltas into it; ApplyCache folds the result
// onto a pose Instance's mutable state, then Clear resets it for the next
// frame. It is owned by one Instance and is never shared across threads.
type Cache struct {
	positionDelta  map[int16]*vec2Delta
	rotationDelta  map[int16]float64
	scaleDelta     map[int16]*scaleDelta
	shearDelta     map[int16]*vec2Delta

	slotColorDelta    map[int16]*colorDelta
	slotTwoColorDelta map[int16][2]*colorDelta // [0]=light [1]=dark

	ikDelta map[int16]*ikDelta

	pathMixDelta     map[int16]float64
	pathPositionDelta map[int16]float64
	pathSpacingDelta map[int16]float64

	transformDelta map[int16]*transformDelta

	attachmentEntries []attachmentEntry
	drawOrderOverride []int16
}

// NewCache allocates an empty Frame Accumulator.
func NewCache() *Cache {
	return &Cache{
		positionDelta:     make(map[int16]*vec2Delta),
		rotationDelta:     make(map[int16]float64),
		scaleDelta:        make(map[int16]*scaleDelta),
		shearDelta:        make(map[int16]*vec2Delta),
		slotColorDelta:    make(map[int16]*colorDelta),
		slotTwoColorDelta: make(map[int16][2]*colorDelta),
		ikDelta:           make(map[int16]*ikDelta),
		pathMixDelta:      make(map[int16]float64),
		pathPositionDelta: make(map[int16]float64),
		pathSpacingDelta:  make(map[int16]float64),
		transformDelta:    make(map[int16]*transformDelta),
	}
}

// Clear resets every delta map and slice to empty without deallocating
// their backing storage, so hot-path frames do not reallocate (§5).
func (c *Cache) Clear() {
	for k := range c.positionDelta {
		delete(c.positionDelta, k)
	}
	for k := range c.rotationDelta {
		delete(c.rotationDelta, k)
	}
	for k := range c.scaleDelta {
		delete(c.scaleDelta, k)
	}
	for k := range c.shearDelta {
		delete(c.shearDelta, k)
	}
	for k := range c.slotColorDelta {
		delete(c.slotColorDelta, k)
	}
	for k := range c.slotTwoColorDelta {
		delete(c.slotTwoColorDelta, k)
	}
	for k := range c.ikDelta {
		delete(c.ikDelta, k)
	}
	for k := range c.pathMixDelta {
		delete(c.pathMixDelta, k)
	}
	for k := range c.pathPositionDelta {
		delete(c.pathPositionDelta, k)
	}
	for k := range c.pathSpacingDelta {
		delete(c.pathSpacingDelta, k)
	}
	for k := range c.transformDelta {
		delete(c.transformDelta, k)
	}
	c.attachmentEntries = c.attachmentEntries[:0]
	c.drawOrderOverride = c.drawOrderOverride[:0]
}

// AccumPosition adds (dx, dy) into bone i's accumulated position delta.
func (c *Cache) AccumPosition(i int16, dx, dy float64) {
	e, ok := c.positionDelta[i]
	if !ok {
		e = &vec2Delta{}
		c.positionDelta[i] = e
	}
	e.X += dx
	e.Y += dy
}

// AccumRotation adds dRot (degrees) into bone i's accumulated rotation
// delta.
func (c *Cache) AccumRotation(i int16, dRot float64) {
	c.rotationDelta[i] += dRot
}

// AccumScale adds a scale contribution for bone i with the given blend
// weight, tracking the running weight so repeated partial applications
// remain idempotent.
func (c *Cache) AccumScale(i int16, dx, dy, weight float64) {
	e, ok := c.scaleDelta[i]
	if !ok {
		e = &scaleDelta{}
		c.scaleDelta[i] = e
	}
	e.X += dx
	e.Y += dy
	e.Weight += weight
}

// AccumShear adds (dx, dy) into bone i's accumulated shear delta.
func (c *Cache) AccumShear(i int16, dx, dy float64) {
	e, ok := c.shearDelta[i]
	if !ok {
		e = &vec2Delta{}
		c.shearDelta[i] = e
	}
	e.X += dx
	e.Y += dy
}

// AccumSlotColor adds an RGBA delta for slot i's primary color.
func (c *Cache) AccumSlotColor(i int16, dr, dg, db, da float64) {
	e, ok := c.slotColorDelta[i]
	if !ok {
		e = &colorDelta{}
		c.slotColorDelta[i] = e
	}
	e.R += dr
	e.G += dg
	e.B += db
	e.A += da
}

// AccumSlotTwoColor adds an RGBA delta for slot i's light and dark tint
// colors (Spine's two-color tinting).
func (c *Cache) AccumSlotTwoColor(i int16, dlr, dlg, dlb, dla, ddr, ddg, ddb, dda float64) {
	pair, ok := c.slotTwoColorDelta[i]
	if !ok {
		pair = [2]*colorDelta{{}, {}}
		c.slotTwoColorDelta[i] = pair
	}
	pair[0].R += dlr
	pair[0].G += dlg
	pair[0].B += dlb
	pair[0].A += dla
	pair[1].R += ddr
	pair[1].G += ddg
	pair[1].B += ddb
	pair[1].A += dda
}

// AccumIk adds a delta for IK constraint i's parameter set. The boolean
// channels accumulate as scored floats, resolved at apply time.
func (c *Cache) AccumIk(i int16, mix, softness, bendScore, compressScore, stretchScore float64) {
	e, ok := c.ikDelta[i]
	if !ok {
		e = &ikDelta{}
		c.ikDelta[i] = e
	}
	e.Mix += mix
	e.Softness += softness
	e.BendPositiveScore += bendScore
	e.CompressScore += compressScore
	e.StretchScore += stretchScore
}

// AccumPathMix adds a delta for path constraint i's Mix.
func (c *Cache) AccumPathMix(i int16, d float64) { c.pathMixDelta[i] += d }

// AccumPathPosition adds a delta for path constraint i's Position.
func (c *Cache) AccumPathPosition(i int16, d float64) { c.pathPositionDelta[i] += d }

// AccumPathSpacing adds a delta for path constraint i's Spacing.
func (c *Cache) AccumPathSpacing(i int16, d float64) { c.pathSpacingDelta[i] += d }

// AccumTransform adds a delta for transform constraint i's four mix
// factors.
func (c *Cache) AccumTransform(i int16, dPos, dRot, dScale, dShear float64) {
	e, ok := c.transformDelta[i]
	if !ok {
		e = &transformDelta{}
		c.transformDelta[i] = e
	}
	e.MixPos += dPos
	e.MixRotation += dRot
	e.MixScale += dScale
	e.MixShear += dShear
}

// PushAttachment records a candidate attachment change for slot i at the
// given alpha; ApplyCache later commits only the highest-alpha cluster.
func (c *Cache) PushAttachment(slotIdx int16, name NameId, alpha float64) {
	c.attachmentEntries = append(c.attachmentEntries, attachmentEntry{SlotIdx: slotIdx, Name: name, Alpha: alpha})
}

// SetDrawOrderOverride replaces the pending draw-order permutation
// override for this frame.
func (c *Cache) SetDrawOrderOverride(order []int16) {
	c.drawOrderOverride = append(c.drawOrderOverride[:0], order...)
}

// resolveBool applies the 0.5 rule: final = (base?1:0 + delta) >= 0.5.
func resolveBool(base bool, delta float64) bool {
	b := 0.0
	if base {
		b = 1.0
	}
	return b+delta >= boolResolveThreshold
}
