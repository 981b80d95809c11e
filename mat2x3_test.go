package animation2d

import "testing"

func assertFloatClose(t *testing.T, got, want, tolerance float64, msg string) {
	t.Helper()
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		t.Errorf("%s: got %v, want %v (tolerance %v)", msg, got, want, tolerance)
	}
}

func TestIdentityMat2x3TransformsPointUnchanged(t *testing.T) {
	m := IdentityMat2x3()
	x, y := m.TransformPoint(3, 4)
	assertFloatClose(t, x, 3, 1e-9, "x")
	assertFloatClose(t, y, 4, 1e-9, "y")
}

func TestMat2x3MultiplyComposesTranslation(t *testing.T) {
	parent := Mat2x3{M00: 1, M11: 1, TX: 10, TY: 0}
	child := Mat2x3{M00: 1, M11: 1, TX: 5, TY: 0}
	out := parent.Multiply(child)
	assertFloatClose(t, out.TX, 15, 1e-9, "tx")
	assertFloatClose(t, out.TY, 0, 1e-9, "ty")
}

func TestMat2x3InvertRoundTrips(t *testing.T) {
	m := Mat2x3{M00: 2, M01: 0, M10: 0, M11: 0.5, TX: 10, TY: -5}
	inv := m.Invert()
	x, y := m.TransformPoint(3, 4)
	rx, ry := inv.TransformPoint(x, y)
	assertFloatClose(t, rx, 3, 1e-6, "round-trip x")
	assertFloatClose(t, ry, 4, 1e-6, "round-trip y")
}

func TestMat2x3InvertDegenerateReturnsIdentity(t *testing.T) {
	m := Mat2x3{} // all zero: determinant 0
	inv := m.Invert()
	if inv != IdentityMat2x3() {
		t.Errorf("expected identity substitution for degenerate matrix, got %+v", inv)
	}
}

func TestClampDegreesWrapsToShortestArc(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{181, -179},
		{-181, 179},
		{360, 0},
		{720 + 45, 45},
	}
	for _, c := range cases {
		got := clampDegrees(c.in)
		assertFloatClose(t, got, c.want, 1e-9, "clampDegrees(%v)")
	}
}

func TestLerpDegreesTakesShortestPath(t *testing.T) {
	got := lerpDegrees(170, -170, 0.5)
	assertFloatClose(t, got, 180, 1e-6, "lerpDegrees across wraparound")
}

func TestNormalizeLengthSquaredDegenerate(t *testing.T) {
	x, y, ok := normalizeLengthSquared(0, 0)
	if ok {
		t.Fatalf("expected ok=false for zero vector")
	}
	assertFloatClose(t, x, 0, 1e-9, "x")
	assertFloatClose(t, y, 0, 1e-9, "y")
}
