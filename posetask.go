package animation2d

import "sort"

// PoseTaskKind tags the kind of work one PoseTask performs during
// pose_skinning_palette.
type PoseTaskKind uint8

const (
	PoseTaskBone PoseTaskKind = iota
	PoseTaskIk
	PoseTaskPath
	PoseTaskTransform
)

// PoseTask is one entry of the flat, deterministic evaluation order
// computed at finalization (§4.4).
type PoseTask struct {
	Kind  PoseTaskKind
	Index int16
}

// poseTaskDeepRigThreshold is the bone count above which the scheduler's
// eval_bone recursion switches to an explicit stack, per the Design Notes
// guard against call-stack overflow on deep rigs.
const poseTaskDeepRigThreshold = 64

// buildPoseTasks computes the pose-task list for a finalized Definition,
// implementing the algorithm of §4.4: constraints are visited in `order`
// (stable) ascending, each pulling in the bones it depends on via
// eval_bone/reset_children bookkeeping; any bone left undone afterward
// gets a trailing Bone task.
func buildPoseTasks(bones []BoneDefinition, iks []IkDefinition, paths []PathDefinition,
	transforms []TransformConstraintDefinition, pathBoneWeightRefs func(pathIdx int) []int16) []PoseTask {

	n := len(bones)
	done := make([]bool, n)
	if n > 0 {
		done[0] = true // root is always current; scheduler emits no Bone(0) task.
	}

	children := make([][]int16, n)
	for i := 1; i < n; i++ {
		p := bones[i].ParentIdx
		if p >= 0 {
			children[p] = append(children[p], int16(i))
		}
	}

	var tasks []PoseTask

	s := &poseScheduler{
		bones:    bones,
		children: children,
		done:     done,
		tasks:    &tasks,
	}

	type constraintRef struct {
		kind  PoseTaskKind
		order int32
		index int
	}
	var refs []constraintRef
	for i, c := range iks {
		refs = append(refs, constraintRef{PoseTaskIk, c.Order, i})
	}
	for i, c := range paths {
		refs = append(refs, constraintRef{PoseTaskPath, c.Order, i})
	}
	for i, c := range transforms {
		refs = append(refs, constraintRef{PoseTaskTransform, c.Order, i})
	}
	sort.SliceStable(refs, func(a, b int) bool { return refs[a].order < refs[b].order })

	for _, r := range refs {
		switch r.kind {
		case PoseTaskIk:
			c := iks[r.index]
			s.evalBone(int(c.TargetBoneIdx))
			s.evalBone(int(c.Chain[0]))
			appendTask(&tasks, PoseTaskIk, int16(r.index))
			s.resetChildren(int(c.Chain[0]))
			done[c.Chain[len(c.Chain)-1]] = true

		case PoseTaskPath:
			c := paths[r.index]
			if pathBoneWeightRefs != nil {
				for _, b := range pathBoneWeightRefs(r.index) {
					s.evalBone(int(b))
				}
			}
			for _, b := range c.Chain {
				s.evalBone(int(b))
			}
			appendTask(&tasks, PoseTaskPath, int16(r.index))
			for _, b := range c.Chain {
				s.resetChildren(int(b))
				done[b] = true
			}

		case PoseTaskTransform:
			c := transforms[r.index]
			s.evalBone(int(c.TargetBoneIdx))
			for _, b := range c.Chain {
				if c.Local {
					p := bones[b].ParentIdx
					if p >= 0 {
						s.evalBone(int(p))
					}
				}
				s.evalBone(int(b))
			}
			appendTask(&tasks, PoseTaskTransform, int16(r.index))
			for _, b := range c.Chain {
				s.resetChildren(int(b))
				done[b] = true
			}
		}
	}

	for i := 1; i < n; i++ {
		if !done[i] {
			appendTask(&tasks, PoseTaskBone, int16(i))
			done[i] = true
		}
	}

	s.tasks = &tasks
	return tasks
}

func appendTask(tasks *[]PoseTask, kind PoseTaskKind, index int16) {
	*tasks = append(*tasks, PoseTask{Kind: kind, Index: index})
}

// poseScheduler carries the mutable done[] bookkeeping and bone hierarchy
// used by buildPoseTasks. Bone counts above poseTaskDeepRigThreshold use
// an explicit stack for evalBone instead of Go call-stack recursion.
type poseScheduler struct {
	bones    []BoneDefinition
	children [][]int16
	done     []bool
	tasks    *[]PoseTask
}

// evalBone ensures bone b's world transform will be current by the time
// its task runs: it recurses to the parent first, then appends a Bone
// task for b itself (skipping bone 0, which is handled specially).
func (s *poseScheduler) evalBone(b int) {
	if len(s.bones) > poseTaskDeepRigThreshold {
		s.evalBoneIterative(b)
		return
	}
	s.evalBoneRecursive(b)
}

func (s *poseScheduler) evalBoneRecursive(b int) {
	if s.done[b] {
		return
	}
	p := s.bones[b].ParentIdx
	if p >= 0 {
		s.evalBoneRecursive(int(p))
	}
	if b != 0 {
		appendTask(s.tasks, PoseTaskBone, int16(b))
	}
	s.done[b] = true
}

// evalBoneIterative is the explicit-stack equivalent of evalBoneRecursive,
// used for rigs with more bones than poseTaskDeepRigThreshold to avoid
// unbounded Go call-stack growth.
func (s *poseScheduler) evalBoneIterative(b int) {
	var stack []int
	cur := b
	for !s.done[cur] {
		stack = append(stack, cur)
		p := s.bones[cur].ParentIdx
		if p < 0 {
			break
		}
		cur = int(p)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		bi := stack[i]
		if s.done[bi] {
			continue
		}
		if bi != 0 {
			appendTask(s.tasks, PoseTaskBone, int16(bi))
		}
		s.done[bi] = true
	}
}

// resetChildren recursively marks every descendant of p as not-current,
// forcing its world transform to be recomputed by a later task.
func (s *poseScheduler) resetChildren(p int) {
	for _, c := range s.children[p] {
		s.done[c] = false
		s.resetChildren(int(c))
	}
}
