package animation2d

import "testing"

func linearChainBones(n int) []BoneDefinition {
	bones := make([]BoneDefinition, n)
	bones[0] = DefaultBoneDefinition(NewNameId("b0"), -1)
	for i := 1; i < n; i++ {
		bones[i] = DefaultBoneDefinition(NewNameId("b"), int16(i-1))
	}
	return bones
}

func TestBuildPoseTasksPlainChainCoversEveryBoneOnce(t *testing.T) {
	bones := linearChainBones(5)
	tasks := buildPoseTasks(bones, nil, nil, nil, nil)

	seen := make(map[int16]int)
	for _, tk := range tasks {
		if tk.Kind != PoseTaskBone {
			t.Fatalf("unexpected non-bone task in a constraint-free rig: %+v", tk)
		}
		seen[tk.Index]++
	}
	for i := int16(1); i < 5; i++ {
		if seen[i] != 1 {
			t.Errorf("bone %d appeared %d times, want exactly 1", i, seen[i])
		}
	}
	if seen[0] != 0 {
		t.Errorf("root bone must never get its own task")
	}
}

func TestBuildPoseTasksRespectsParentBeforeChildOrder(t *testing.T) {
	bones := linearChainBones(4)
	tasks := buildPoseTasks(bones, nil, nil, nil, nil)

	pos := make(map[int16]int)
	for i, tk := range tasks {
		pos[tk.Index] = i
	}
	if pos[1] >= pos[2] || pos[2] >= pos[3] {
		t.Fatalf("expected strictly increasing task order 1,2,3; got positions %v", pos)
	}
}

func TestBuildPoseTasksIkChainSkipsTrailingBoneTask(t *testing.T) {
	// root(0) -> upper(1) -> lower(2); target(3) is a child of root.
	bones := []BoneDefinition{
		DefaultBoneDefinition(NewNameId("root"), -1),
		DefaultBoneDefinition(NewNameId("upper"), 0),
		DefaultBoneDefinition(NewNameId("lower"), 1),
		DefaultBoneDefinition(NewNameId("target"), 0),
	}
	iks := []IkDefinition{
		{Name: NewNameId("reach"), Chain: []int16{1, 2}, TargetBoneIdx: 3, Mix: 1},
	}
	tasks := buildPoseTasks(bones, iks, nil, nil, nil)

	var ikPos = -1
	boneSeen := make(map[int16]int)
	for i, tk := range tasks {
		if tk.Kind == PoseTaskIk {
			if ikPos != -1 {
				t.Fatalf("expected exactly one IK task, found a second at %d", i)
			}
			ikPos = i
		} else {
			boneSeen[tk.Index]++
		}
	}
	if ikPos == -1 {
		t.Fatal("expected an IK task in the schedule")
	}
	if boneSeen[2] != 0 {
		t.Errorf("IK's second chain bone (lower) must not get its own trailing Bone task, solveIk2 computes it; got %d Bone(2) tasks", boneSeen[2])
	}
	if boneSeen[1] != 1 {
		t.Errorf("IK's first chain bone (upper) must be posed before the IK task runs; got %d Bone(1) tasks", boneSeen[1])
	}
	if boneSeen[3] != 1 {
		t.Errorf("IK target bone must be posed before the IK task runs; got %d Bone(3) tasks", boneSeen[3])
	}
	for idx, n := range boneSeen {
		pos := -1
		for i, tk := range tasks {
			if tk.Kind == PoseTaskBone && tk.Index == idx {
				pos = i
			}
		}
		if (idx == 1 || idx == 3) && pos > ikPos {
			t.Errorf("bone %d task must precede the IK task it feeds", idx)
		}
		_ = n
	}
}

func TestBuildPoseTasksDeepRigUsesIterativeEval(t *testing.T) {
	n := poseTaskDeepRigThreshold + 10
	bones := linearChainBones(n)
	tasks := buildPoseTasks(bones, nil, nil, nil, nil)
	if len(tasks) != n-1 {
		t.Fatalf("expected %d bone tasks for a %d-bone chain, got %d", n-1, n, len(tasks))
	}
	pos := make(map[int16]int)
	for i, tk := range tasks {
		pos[tk.Index] = i
	}
	for i := int16(2); i < int16(n); i++ {
		if pos[i-1] >= pos[i] {
			t.Fatalf("deep rig ordering broken at bone %d", i)
		}
	}

	// A constraint-free rig reaches every bone through the trailing loop,
	// so drive evalBone directly to cover the explicit-stack path.
	var direct []PoseTask
	s := &poseScheduler{bones: bones, children: make([][]int16, n), done: make([]bool, n), tasks: &direct}
	s.done[0] = true
	s.evalBone(n - 1)
	if len(direct) != n-1 {
		t.Fatalf("evalBone on the deepest bone emitted %d tasks, want %d", len(direct), n-1)
	}
	for i, tk := range direct {
		if tk.Kind != PoseTaskBone || tk.Index != int16(i+1) {
			t.Fatalf("evalBone task %d = %+v, want Bone(%d)", i, tk, i+1)
		}
	}
}
