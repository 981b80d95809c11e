package animation2d

import "testing"

func TestCacheAccumRotationAdds(t *testing.T) {
	c := NewCache()
	c.AccumRotation(2, 10)
	c.AccumRotation(2, 15)
	if got := c.rotationDelta[2]; got != 25 {
		t.Errorf("rotationDelta[2] = %v, want 25", got)
	}
}

func TestCacheAccumScaleIdempotentBlend(t *testing.T) {
	// Invariant 6: accumulating the same scale delta N times with weights
	// summing to 1 yields the same result as one application with weight 1.
	c1 := NewCache()
	c1.AccumScale(0, 2.0, 2.0, 1.0)
	d1 := c1.scaleDelta[0]

	c2 := NewCache()
	c2.AccumScale(0, 2.0*0.25, 2.0*0.25, 0.25)
	c2.AccumScale(0, 2.0*0.25, 2.0*0.25, 0.25)
	c2.AccumScale(0, 2.0*0.5, 2.0*0.5, 0.5)
	d2 := c2.scaleDelta[0]

	base := 1.0
	out1 := applyIdempotentScale(base, d1.X, d1.Weight)
	out2 := applyIdempotentScale(base, d2.X, d2.Weight)
	assertFloatClose(t, out1, out2, 1e-9, "idempotent scale blend")
	assertFloatClose(t, out1, 2.0, 1e-9, "full-weight scale result")
}

func TestCacheClearResetsWithoutReallocating(t *testing.T) {
	c := NewCache()
	c.AccumPosition(1, 5, 5)
	c.PushAttachment(0, NewNameId("a"), 1)
	c.SetDrawOrderOverride([]int16{1, 0})

	c.Clear()

	if len(c.positionDelta) != 0 {
		t.Errorf("positionDelta not cleared")
	}
	if len(c.attachmentEntries) != 0 {
		t.Errorf("attachmentEntries not cleared")
	}
	if len(c.drawOrderOverride) != 0 {
		t.Errorf("drawOrderOverride not cleared")
	}
	if cap(c.attachmentEntries) == 0 || cap(c.drawOrderOverride) == 0 {
		t.Errorf("Clear dropped the backing storage of attachmentEntries or drawOrderOverride")
	}
}

func TestResolveBoolThresholdRule(t *testing.T) {
	cases := []struct {
		base  bool
		delta float64
		want  bool
	}{
		{false, 0.4, false},
		{false, 0.5, true},
		{true, -0.5, true},
		{true, -0.51, false},
	}
	for _, c := range cases {
		got := resolveBool(c.base, c.delta)
		if got != c.want {
			t.Errorf("resolveBool(%v, %v) = %v, want %v", c.base, c.delta, got, c.want)
		}
	}
}

func TestSortEntriesByAlphaAscending(t *testing.T) {
	entries := []attachmentEntry{
		{SlotIdx: 0, Alpha: 0.6},
		{SlotIdx: 1, Alpha: 0.2},
		{SlotIdx: 2, Alpha: 0.9},
	}
	sortEntriesByAlpha(entries)
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Alpha > entries[i].Alpha {
			t.Fatalf("entries not sorted ascending: %+v", entries)
		}
	}
}
