package animation2d

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenFloatsReachesTarget(t *testing.T) {
	x, y := 10.0, 20.0

	g := TweenFloats(ease.Linear, 1.0, []*float64{&x, &y}, []float64{100, 200})

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(x-100) > 0.5 {
		t.Errorf("x = %f, want ~100", x)
	}
	if math.Abs(y-200) > 0.5 {
		t.Errorf("y = %f, want ~200", y)
	}
}

func TestTweenFloatInterpolates(t *testing.T) {
	alpha := 1.0

	tw := TweenFloat(&alpha, 0.0, 1.0, ease.Linear)

	tw.Update(0.5)
	if tw.Done {
		t.Fatal("should not be done at halfway")
	}
	if math.Abs(alpha-0.5) > 0.05 {
		t.Errorf("alpha = %f, want ~0.5 at halfway", alpha)
	}

	tw.Update(0.5)
	if !tw.Done {
		t.Fatal("should be done after full duration")
	}
	if math.Abs(alpha-0.0) > 0.01 {
		t.Errorf("alpha = %f, want ~0.0", alpha)
	}
}

func TestTweenGroupDoneFlagTransition(t *testing.T) {
	x, y := 0.0, 0.0
	g := TweenFloats(ease.Linear, 0.5, []*float64{&x, &y}, []float64{50, 50})

	if g.Done {
		t.Fatal("should not be Done at start")
	}

	g.Update(0.25)
	if g.Done {
		t.Fatal("should not be Done partway through")
	}

	g.Update(0.25)
	if !g.Done {
		t.Fatal("should be Done after full duration")
	}

	// Update after done — should be a no-op, not panic.
	g.Update(0.1)
	if !g.Done {
		t.Fatal("should remain Done")
	}
}

func TestTweenGroupOnUpdateCalled(t *testing.T) {
	x := 0.0
	calls := 0

	g := TweenFloat(&x, 100, 1.0, ease.Linear)
	g.OnUpdate = func() { calls++ }

	g.Update(0.1)
	if calls != 1 {
		t.Fatalf("OnUpdate calls = %d, want 1", calls)
	}
}

func TestTweenGroupInvalidTargetStops(t *testing.T) {
	x, y := 10.0, 20.0
	valid := true

	g := TweenFloats(ease.Linear, 1.0, []*float64{&x, &y}, []float64{100, 200})
	g.Valid = func() bool { return valid }

	valid = false
	g.Update(0.1)

	if !g.Done {
		t.Fatal("expected Done once Valid reports false")
	}
	if x != 10 || y != 20 {
		t.Errorf("fields changed after target became invalid: x=%f y=%f", x, y)
	}
}

func TestTweenGroupInvalidMidAnimation(t *testing.T) {
	x := 0.0
	valid := true

	g := TweenFloat(&x, 100, 1.0, ease.Linear)
	g.Valid = func() bool { return valid }

	g.Update(0.1)
	g.Update(0.1)
	if g.Done {
		t.Fatal("should not be Done yet")
	}

	valid = false
	saved := x

	g.Update(0.1)
	if !g.Done {
		t.Fatal("expected Done after target invalidated mid-animation")
	}
	if x != saved {
		t.Error("field should not change after target invalidated")
	}
}

func TestTweenEasingFunctionsProduceDifferentCurves(t *testing.T) {
	xLinear, xCubic := 100.0, 100.0

	gL := TweenFloat(&xLinear, 0, 1.0, ease.Linear)
	gC := TweenFloat(&xCubic, 0, 1.0, ease.OutCubic)

	gL.Update(0.5)
	gC.Update(0.5)

	if math.Abs(xLinear-xCubic) < 1.0 {
		t.Errorf("easing curves should produce different values at midpoint: linear=%f cubic=%f", xLinear, xCubic)
	}
}

func TestTweenFloatsPanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched fields/to length")
		}
	}()
	x := 0.0
	TweenFloats(ease.Linear, 1.0, []*float64{&x}, []float64{1, 2})
}

func TestTweenGroupUpdateZeroAlloc(t *testing.T) {
	x, y := 0.0, 0.0
	g := TweenFloats(ease.Linear, 1.0, []*float64{&x, &y}, []float64{100, 100})

	// Warm up — first call might differ.
	g.Update(0.01)

	result := testing.AllocsPerRun(100, func() {
		g.Update(0.001)
	})
	if result > 0 {
		t.Errorf("TweenGroup.Update allocated %f times per run, want 0", result)
	}
}
