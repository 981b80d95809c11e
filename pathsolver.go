package animation2d

import "math"

// pathSample is one entry of a sampled path: cumulative arc length from
// the path's start, world position, and local tangent direction.
type pathSample struct {
	Length       float64
	X, Y         float64
	TangentX, TangentY float64
}

// buildPathSamples sample the Path attachment's world-space control
// polygon into an arc-length-parameterized table (§4.6 step 3). Cubic
// segments are grouped in the Spine convention: curve i consumes control
// points [3i, 3i+1, 3i+2, 3i+3] of worldVerts (each point an (x,y) pair),
// so a path with n points has (n-1)/3 curves.
//
// Non-constant-speed paths use the attachment's authored per-segment
// Lengths directly instead of resampling; constant-speed paths evaluate
// each curve at pathCurveAdaptiveSegments evenly spaced parameter values.
func buildPathSamples(a *Attachment, worldVerts []float64, scratch []float64) []float64 {
	n := len(worldVerts) / 2
	if n < 2 {
		return scratch[:0]
	}

	var samples []pathSample
	samples = append(samples, pathSample{Length: 0, X: worldVerts[0], Y: worldVerts[1]})

	if !a.ConstantSpeed && len(a.Lengths) > 0 {
		cum := 0.0
		curveCount := len(a.Lengths)
		for ci := 0; ci < curveCount; ci++ {
			cum += a.Lengths[ci]
			idx := (ci + 1) * 3
			if idx >= n {
				idx = n - 1
			}
			x, y := worldVerts[idx*2], worldVerts[idx*2+1]
			samples = appendPathSample(samples, cum, x, y)
		}
	} else {
		curveCount := (n - 1) / 3
		cum := 0.0
		for ci := 0; ci < curveCount; ci++ {
			p0x, p0y := worldVerts[ci*6], worldVerts[ci*6+1]
			p1x, p1y := worldVerts[ci*6+2], worldVerts[ci*6+3]
			p2x, p2y := worldVerts[ci*6+4], worldVerts[ci*6+5]
			p3x, p3y := worldVerts[ci*6+6], worldVerts[ci*6+7]

			prevX, prevY := p0x, p0y
			for s := 1; s <= pathCurveAdaptiveSegments; s++ {
				t := float64(s) / float64(pathCurveAdaptiveSegments)
				x, y := cubicBezierPoint(p0x, p0y, p1x, p1y, p2x, p2y, p3x, p3y, t)
				cum += vectorLength(x-prevX, y-prevY)
				samples = appendPathSample(samples, cum, x, y)
				prevX, prevY = x, y
			}
		}
	}

	computeSampleTangents(samples)

	out := scratch[:0]
	for _, s := range samples {
		out = append(out, s.Length, s.X, s.Y, s.TangentX, s.TangentY)
	}
	return out
}

func appendPathSample(samples []pathSample, cum, x, y float64) []pathSample {
	return append(samples, pathSample{Length: cum, X: x, Y: y})
}

func computeSampleTangents(samples []pathSample) {
	for i := range samples {
		var dx, dy float64
		switch {
		case i == 0 && len(samples) > 1:
			dx, dy = samples[1].X-samples[0].X, samples[1].Y-samples[0].Y
		case i == len(samples)-1:
			dx, dy = samples[i].X-samples[i-1].X, samples[i].Y-samples[i-1].Y
		default:
			dx, dy = samples[i+1].X-samples[i-1].X, samples[i+1].Y-samples[i-1].Y
		}
		nx, ny, ok := normalizeLengthSquared(dx, dy)
		if ok {
			samples[i].TangentX, samples[i].TangentY = nx, ny
		}
	}
}

func cubicBezierPoint(p0x, p0y, p1x, p1y, p2x, p2y, p3x, p3y, t float64) (float64, float64) {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	x := a*p0x + b*p1x + c*p2x + d*p3x
	y := a*p0y + b*p1y + c*p2y + d*p3y
	return x, y
}

// pathSampleEntries interprets the flattened (length,x,y,tx,ty)*N table
// built by buildPathSamples.
func pathSampleEntries(flat []float64) []pathSample {
	n := len(flat) / 5
	out := make([]pathSample, n)
	for i := 0; i < n; i++ {
		out[i] = pathSample{
			Length: flat[i*5], X: flat[i*5+1], Y: flat[i*5+2],
			TangentX: flat[i*5+3], TangentY: flat[i*5+4],
		}
	}
	return out
}

// samplePathAt resolves world position and tangent at arc-length position
// pos along the sampled path. Closed paths wrap via mod total length;
// open paths linearly extend past either end (§4.6 step 3).
func samplePathAt(flat []float64, closed bool, pos float64) (x, y, tangentX, tangentY float64) {
	samples := pathSampleEntries(flat)
	if len(samples) == 0 {
		return 0, 0, 0, 0
	}
	if len(samples) == 1 {
		s := samples[0]
		return s.X, s.Y, s.TangentX, s.TangentY
	}

	total := samples[len(samples)-1].Length
	p := pos
	if closed && total > 0 {
		p = math.Mod(p, total)
		if p < 0 {
			p += total
		}
	}

	if p <= samples[0].Length {
		s0, s1 := samples[0], samples[1]
		span := s1.Length - s0.Length
		if span <= 0 {
			return s0.X, s0.Y, s0.TangentX, s0.TangentY
		}
		u := (p - s0.Length) / span // negative when underflowing: linear pre-extension
		return lerpPath(s0, s1, u)
	}
	if p >= total {
		last, prev := samples[len(samples)-1], samples[len(samples)-2]
		span := last.Length - prev.Length
		if span <= 0 {
			return last.X, last.Y, last.TangentX, last.TangentY
		}
		u := 1 + (p-total)/span // >1 when overflowing: linear post-extension
		return lerpPath(prev, last, u)
	}

	for i := 0; i < len(samples)-1; i++ {
		s0, s1 := samples[i], samples[i+1]
		if p >= s0.Length && p <= s1.Length {
			span := s1.Length - s0.Length
			if span <= 0 {
				return s0.X, s0.Y, s0.TangentX, s0.TangentY
			}
			u := (p - s0.Length) / span
			return lerpPath(s0, s1, u)
		}
	}
	last := samples[len(samples)-1]
	return last.X, last.Y, last.TangentX, last.TangentY
}

func lerpPath(a, b pathSample, u float64) (x, y, tx, ty float64) {
	x = a.X + (b.X-a.X)*u
	y = a.Y + (b.Y-a.Y)*u
	tx = a.TangentX + (b.TangentX-a.TangentX)*u
	ty = a.TangentY + (b.TangentY-a.TangentY)*u
	return
}

// computePathSpacing builds the per-chain-bone spacing array from the
// constraint's SpacingMode (§4.6 step 1): Length uses setup bone lengths
// scaled by the constraint's Spacing parameter, Fixed uses Spacing
// directly, Percent uses Spacing as a fraction of the sampled path's
// total length. scratch is reused across calls to stay allocation-free
// (§5).
func computePathSpacing(def PathDefinition, st PathState, bones []BoneDefinition, flatSamples []float64, scratch []float64) []float64 {
	spaces := growFloatSlice(scratch, len(def.Chain))
	total := 0.0
	if n := len(flatSamples); n >= 5 {
		total = flatSamples[n-5] // Length of the last (length,x,y,tx,ty) entry
	}
	for i, b := range def.Chain {
		switch def.SpacingMode {
		case PathSpacingFixed:
			spaces[i] = st.Spacing
		case PathSpacingPercent:
			spaces[i] = st.Spacing * total
		default: // PathSpacingLength
			spaces[i] = bones[b].Length * st.Spacing
		}
	}
	return spaces
}
