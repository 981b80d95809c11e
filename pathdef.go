package animation2d

// PathPositionMode selects how the Position parameter is interpreted.
type PathPositionMode uint8

const (
	PathPositionFixed PathPositionMode = iota
	PathPositionPercent
)

// PathSpacingMode selects how successive chain bones are spaced along the
// path.
type PathSpacingMode uint8

const (
	PathSpacingLength PathSpacingMode = iota
	PathSpacingFixed
	PathSpacingPercent
)

// PathRotationMode selects how chain bones are reoriented as they travel
// along the path.
type PathRotationMode uint8

const (
	PathRotationTangent PathRotationMode = iota
	PathRotationChain
	PathRotationChainScale
)

// PathDefinition is an immutable path constraint: Chain bones are placed
// along the cubic-Bezier curve carried by TargetSlotIdx's active Path
// attachment.
type PathDefinition struct {
	Name         NameId
	Chain        []int16
	TargetSlotIdx int16
	Order        int32

	PositionMode PathPositionMode
	SpacingMode  PathSpacingMode
	RotationMode PathRotationMode

	Mix      float64
	Position float64
	Spacing  float64
	Rotation float64
}

// PathState is the mutable per-instance parameter set for one path
// constraint.
type PathState struct {
	Mix      float64
	Position float64
	Spacing  float64
	Rotation float64
}

// ResetToSetup restores a PathState to the definition's setup values.
func (s *PathState) ResetToSetup(def *PathDefinition) {
	s.Mix = def.Mix
	s.Position = def.Position
	s.Spacing = def.Spacing
	s.Rotation = def.Rotation
}

// pathCurveAdaptiveSegments is the number of evenly spaced parameter steps
// used when sampling a constant-speed path curve finely (§4.6 step 3).
const pathCurveAdaptiveSegments = 10

// pathLengthEpsilon guards setup-bone-length and spacing comparisons in the
// path solver against division by (near-)zero.
const pathLengthEpsilon = 1e-5
