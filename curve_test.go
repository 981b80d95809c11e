package animation2d

import "testing"

func TestBezierCurveAlphaEndpoints(t *testing.T) {
	c := NewBezierCurve(0.25, 0.25, 0.75, 0.75)
	if got := c.GetBezierCurveAlpha(0); got != 0 {
		t.Errorf("alpha(0) = %v, want 0", got)
	}
	if got := c.GetBezierCurveAlpha(1); got != 1 {
		t.Errorf("alpha(1) = %v, want 1", got)
	}
}

func TestBezierCurveAlphaMonotonic(t *testing.T) {
	c := NewBezierCurve(0.1, 0.9, 0.9, 0.1)
	prev := float32(-1)
	for i := 0; i <= 20; i++ {
		t32 := float32(i) / 20
		got := c.GetBezierCurveAlpha(t32)
		if got < prev {
			t.Fatalf("alpha regressed at t=%v: %v < %v", t32, got, prev)
		}
		prev = got
	}
}

func TestBezierCurveLinearApproximatesIdentity(t *testing.T) {
	// Control points on the diagonal approximate a linear curve.
	c := NewBezierCurve(0.25, 0.25, 0.75, 0.75)
	for _, u := range []float32{0.1, 0.5, 0.9} {
		got := c.GetBezierCurveAlpha(u)
		diff := got - u
		if diff < 0 {
			diff = -diff
		}
		if diff > 0.05 {
			t.Errorf("GetBezierCurveAlpha(%v) = %v, want close to %v", u, got, u)
		}
	}
}
