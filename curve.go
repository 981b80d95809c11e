package animation2d

// CurveKind selects how a keyframe interpolates toward the next keyframe's
// value.
type CurveKind uint8

const (
	// CurveLinear interpolates the value linearly across the segment.
	CurveLinear CurveKind = iota
	// CurveStepped holds the keyframe's value for the whole segment; the
	// next keyframe's value only takes effect once its own time is reached.
	CurveStepped
	// CurveBezier interpolates alpha (not the value directly) through a
	// cubic Bezier curve sampled by BezierCurve.
	CurveBezier
)

// bezierSamples is the number of forward-difference points baked into a
// BezierCurve, matching the reference implementation's fixed 10-segment
// (11-point, 18-float after dropping the implicit endpoints) table.
const bezierSamples = 10

// BezierCurve is a piecewise-linear approximation of a cubic Bezier curve
// (cx1, cy1)-(cx2, cy2) over the unit square, built once at clip-load time
// by forward differencing so that per-frame evaluation is a table walk
// rather than a cubic solve.
//
// points holds bezierSamples-1 interior (x, y) pairs; GetBezierCurveAlpha
// walks them to convert a segment-local time fraction into a value-blend
// alpha.
type BezierCurve struct {
	points [2 * (bezierSamples - 1)]float32
}

// NewBezierCurve forward-differences the cubic Bezier control points
// (cx1,cy1)-(cx2,cy2) (with implicit endpoints (0,0) and (1,1)) into a
// bezierSamples-1-point table, following the constant-step forward
// difference used by the reference Animation2D curve baking.
func NewBezierCurve(cx1, cy1, cx2, cy2 float32) BezierCurve {
	var c BezierCurve

	subdiv := float32(1.0 / bezierSamples)
	subdiv2 := subdiv * subdiv
	subdiv3 := subdiv2 * subdiv

	pre1 := 3 * subdiv
	pre2 := 3 * subdiv2
	pre4 := 6 * subdiv2
	pre5 := 6 * subdiv3

	tmp1x := -cx1*2 + cx2
	tmp1y := -cy1*2 + cy2
	tmp2x := (cx1-cx2)*3 + 1
	tmp2y := (cy1-cy2)*3 + 1

	dfx := cx1*pre1 + tmp1x*pre2 + tmp2x*subdiv3
	dfy := cy1*pre1 + tmp1y*pre2 + tmp2y*subdiv3
	ddfx := tmp1x*pre4 + tmp2x*pre5
	ddfy := tmp1y*pre4 + tmp2y*pre5
	dddfx := tmp2x * pre5
	dddfy := tmp2y * pre5

	x, y := dfx, dfy
	for i := 0; i < bezierSamples-1; i++ {
		c.points[i*2] = x
		c.points[i*2+1] = y
		dfx += ddfx
		dfy += ddfy
		ddfx += dddfx
		ddfy += dddfy
		x += dfx
		y += dfy
	}
	return c
}

// GetBezierCurveAlpha converts t, a fraction of the segment duration in
// [0, 1], into a value-blend alpha by walking the forward-difference table
// and linearly interpolating between the two bracketing samples.
func (c BezierCurve) GetBezierCurveAlpha(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	n := len(c.points)
	var prevX, prevY float32
	for i := 0; i < n; i += 2 {
		x := c.points[i]
		if x >= t {
			var span, before float32
			if i == 0 {
				span = x
				before = 0
			} else {
				span = x - prevX
				before = prevY
			}
			if span <= 0 {
				return before
			}
			y := c.points[i+1]
			return before + (y-before)*((t-prevX)/span)
		}
		prevX = x
		prevY = c.points[i+1]
	}
	// t fell past the last sample before reaching 1; extrapolate from the
	// last segment to (1, 1).
	span := 1 - prevX
	if span <= 0 {
		return 1
	}
	return prevY + (1-prevY)*((t-prevX)/span)
}
