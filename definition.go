package animation2d

// Skin is a named choice of (slot -> attachment) mappings. The name
// "default" is reserved for the base skin and is always present.
type Skin struct {
	Name  NameId
	Slots map[NameId]map[NameId]*Attachment // slot name -> attachment name -> attachment
}

// Definition is the immutable, fully-resolved
// description of a rigged character: bones, slots, skins, constraints,
// events, and clips. It is produced by codec decoding followed by
// Finalize, and is safe to share by reference across many Instances.
type Definition struct {
	Bones      []BoneDefinition
	Slots      []SlotDefinition
	Skins      []Skin
	Ik         []IkDefinition
	Paths      []PathDefinition
	Transforms []TransformConstraintDefinition
	Events     []EventDefinition
	Clips      map[NameId]*Clip
	Metadata   Metadata

	PoseTasks []PoseTask

	boneByName      map[NameId]int16
	slotByName      map[NameId]int16
	ikByName        map[NameId]int16
	pathByName      map[NameId]int16
	transformByName map[NameId]int16
	skinByName      map[NameId]int16

	finalized bool
}

// DefaultSkinName is the reserved name of the always-present base skin.
const DefaultSkinName = "default"

// BoneIndex returns the index of the named bone, or (-1, false) if absent.
func (d *Definition) BoneIndex(name NameId) (int16, bool) {
	i, ok := d.boneByName[name]
	if !ok {
		return -1, false
	}
	return i, ok
}

// SlotIndex returns the index of the named slot, or (-1, false) if absent.
func (d *Definition) SlotIndex(name NameId) (int16, bool) {
	i, ok := d.slotByName[name]
	if !ok {
		return -1, false
	}
	return i, ok
}

// Skin returns the named skin, or nil if absent.
func (d *Definition) Skin(name NameId) *Skin {
	i, ok := d.skinByName[name]
	if !ok {
		return nil
	}
	return &d.Skins[i]
}

// DefaultSkin returns the always-present base skin.
func (d *Definition) DefaultSkin() *Skin {
	return d.Skin(NewNameId(DefaultSkinName))
}

// Attachment looks up an attachment by (skin, slot, name), falling back to
// the default skin if skin is empty.
func (d *Definition) Attachment(skin, slot, name NameId) (*Attachment, bool) {
	if skin.IsEmpty() {
		skin = NewNameId(DefaultSkinName)
	}
	s := d.Skin(skin)
	if s == nil {
		return nil, false
	}
	bySlot, ok := s.Slots[slot]
	if !ok {
		return nil, false
	}
	a, ok := bySlot[name]
	return a, ok
}

// Finalize runs the seven ordered resolution steps of §4.3, converting
// name references into indices and building the pose-task schedule. It
// returns the first error encountered; no partial Definition is left
// usable on failure (the caller should discard d).
func (d *Definition) Finalize() error {
	if d.finalized {
		return nil
	}
	if err := d.finalizeBones(); err != nil {
		return err
	}
	if err := d.finalizeIk(); err != nil {
		return err
	}
	if err := d.finalizeSkins(); err != nil {
		return err
	}
	if err := d.finalizeSlots(); err != nil {
		return err
	}
	if err := d.finalizePaths(); err != nil { // must come after finalizeSlots
		return err
	}
	if err := d.finalizeTransforms(); err != nil {
		return err
	}
	if err := d.finalizePoseTasks(); err != nil { // must be last
		return err
	}
	d.finalized = true
	return nil
}

func (d *Definition) finalizeBones() error {
	d.boneByName = make(map[NameId]int16, len(d.Bones))
	for i, b := range d.Bones {
		if _, dup := d.boneByName[b.Name]; dup {
			return formatErrorf("animation2d: duplicate bone name %q", b.Name)
		}
		d.boneByName[b.Name] = int16(i)
		if i == 0 {
			if b.ParentIdx != -1 {
				return shapeErrorf("animation2d: bone 0 must be the root (parent_idx == -1)")
			}
			continue
		}
		if b.ParentIdx < 0 || int(b.ParentIdx) >= i {
			return shapeErrorf("animation2d: bone %q (index %d): parent_idx %d violates topological order", b.Name, i, b.ParentIdx)
		}
	}
	return nil
}

func (d *Definition) finalizeIk() error {
	d.ikByName = make(map[NameId]int16, len(d.Ik))
	for i, c := range d.Ik {
		d.ikByName[c.Name] = int16(i)
		if len(c.Chain) < 1 || len(c.Chain) > 2 {
			return shapeErrorf("animation2d: ik %q: chain length must be 1 or 2, got %d", c.Name, len(c.Chain))
		}
		for _, b := range c.Chain {
			if int(b) < 0 || int(b) >= len(d.Bones) {
				return referenceErrorf("animation2d: ik %q: chain bone index %d out of range", c.Name, b)
			}
		}
		if int(c.TargetBoneIdx) < 0 || int(c.TargetBoneIdx) >= len(d.Bones) {
			return referenceErrorf("animation2d: ik %q: target bone index %d out of range", c.Name, c.TargetBoneIdx)
		}
	}
	return nil
}

func (d *Definition) finalizeSkins() error {
	d.skinByName = make(map[NameId]int16, len(d.Skins))
	hasDefault := false
	for i, s := range d.Skins {
		d.skinByName[s.Name] = int16(i)
		if s.Name.String() == DefaultSkinName {
			hasDefault = true
		}
	}
	if !hasDefault {
		return formatErrorf("animation2d: missing required %q skin", DefaultSkinName)
	}

	lookup := func(skin, slot, name NameId) (*Attachment, bool) {
		a, ok := d.Attachment(skin, slot, name)
		return a, ok
	}

	for si := range d.Skins {
		for slotName, bySlot := range d.Skins[si].Slots {
			for attName, a := range bySlot {
				switch a.Type {
				case AttachmentMesh:
					a.ComputeMeshEdges()
				case AttachmentLinkedMesh:
					if err := a.ResolveLinkedMeshParent(lookup); err != nil {
						return err
					}
				case AttachmentPath:
					a.NormalizePathOrClipping()
					// Stamp the path attachment with its owning (skin,
					// slot) so a path constraint's target slot can find it.
					a.ParentSkin = d.Skins[si].Name
					a.ParentName = slotName
					_ = attName
				case AttachmentClipping:
					a.NormalizePathOrClipping()
				}
			}
		}
	}
	return nil
}

func (d *Definition) finalizeSlots() error {
	d.slotByName = make(map[NameId]int16, len(d.Slots))
	for i, s := range d.Slots {
		d.slotByName[s.Name] = int16(i)
		if int(s.BoneIdx) < 0 || int(s.BoneIdx) >= len(d.Bones) {
			return referenceErrorf("animation2d: slot %q: bone index %d out of range", s.Name, s.BoneIdx)
		}
	}
	return nil
}

func (d *Definition) finalizePaths() error {
	d.pathByName = make(map[NameId]int16, len(d.Paths))
	for i, p := range d.Paths {
		d.pathByName[p.Name] = int16(i)
		if int(p.TargetSlotIdx) < 0 || int(p.TargetSlotIdx) >= len(d.Slots) {
			return referenceErrorf("animation2d: path %q: target slot index %d out of range", p.Name, p.TargetSlotIdx)
		}
		for _, b := range p.Chain {
			if int(b) < 0 || int(b) >= len(d.Bones) {
				return referenceErrorf("animation2d: path %q: chain bone index %d out of range", p.Name, b)
			}
		}
	}
	return nil
}

func (d *Definition) finalizeTransforms() error {
	d.transformByName = make(map[NameId]int16, len(d.Transforms))
	for i, t := range d.Transforms {
		d.transformByName[t.Name] = int16(i)
		if int(t.TargetBoneIdx) < 0 || int(t.TargetBoneIdx) >= len(d.Bones) {
			return referenceErrorf("animation2d: transform %q: target bone index %d out of range", t.Name, t.TargetBoneIdx)
		}
		for _, b := range t.Chain {
			if int(b) < 0 || int(b) >= len(d.Bones) {
				return referenceErrorf("animation2d: transform %q: chain bone index %d out of range", t.Name, b)
			}
		}
	}
	return nil
}

func (d *Definition) finalizePoseTasks() error {
	pathBoneWeightRefs := func(pathIdx int) []int16 {
		p := d.Paths[pathIdx]
		slot := d.Slots[p.TargetSlotIdx]
		a, ok := d.Attachment(NewNameId(DefaultSkinName), slot.Name, slot.AttachmentName)
		if !ok || a == nil || a.Type != AttachmentPath || !a.IsSkinned() {
			return nil
		}
		seen := make(map[int16]bool)
		var refs []int16
		for _, b := range a.Bones {
			bi := int16(b)
			if !seen[bi] {
				seen[bi] = true
				refs = append(refs, bi)
			}
		}
		return refs
	}
	d.PoseTasks = buildPoseTasks(d.Bones, d.Ik, d.Paths, d.Transforms, pathBoneWeightRefs)
	return nil
}
