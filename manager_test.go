package animation2d

import (
	"context"
	"testing"
)

func TestManagerCreateInstanceTracksAndReleases(t *testing.T) {
	def := oneBoneClipDef(t)
	m := NewManager()

	a := m.CreateInstance(def, nil)
	b := m.CreateInstance(def, nil)

	if got := m.Instances(); len(got) != 2 {
		t.Fatalf("expected 2 tracked instances, got %d", len(got))
	}

	m.Release(a)
	got := m.Instances()
	if len(got) != 1 || got[0] != b {
		t.Fatalf("expected only b to remain tracked, got %v", got)
	}

	// Releasing an already-released instance must be a no-op, not a panic.
	m.Release(a)
	if len(m.Instances()) != 1 {
		t.Fatal("re-releasing an untracked instance must not change the tracked set")
	}
}

func TestManagerTickAdvancesEveryTrackedInstance(t *testing.T) {
	def := oneBoneClipDef(t)
	m := NewManager()
	inst := m.CreateInstance(def, nil)
	inst.Cache().AccumPosition(0, 5, 0)

	m.Tick(1.0 / 60.0)

	if inst.SkinningPalette()[0].TX != 5 {
		t.Errorf("expected Tick to apply the accumulated delta, got TX=%v", inst.SkinningPalette()[0].TX)
	}
}

func TestManagerTickAllAdvancesEveryTrackedInstanceConcurrently(t *testing.T) {
	def := oneBoneClipDef(t)
	m := NewManager()
	insts := make([]*Instance, 8)
	for i := range insts {
		insts[i] = m.CreateInstance(def, nil)
		insts[i].Cache().AccumPosition(0, float64(i), 0)
	}

	if err := m.TickAll(context.Background(), 1.0/60.0); err != nil {
		t.Fatalf("TickAll: %v", err)
	}

	for i, inst := range insts {
		if got := inst.SkinningPalette()[0].TX; got != float64(i) {
			t.Errorf("instance %d: TX = %v, want %v", i, got, i)
		}
	}
}
