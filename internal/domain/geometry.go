package domain

import "math"

// Layout is the geometric arrangement mode used to place player markers.
type Layout string

const (
	LayoutVersus   Layout = "versus"
	LayoutCircular Layout = "circular"
)

// PositionAssignment is one player's computed spot. Coordinates are
// percentages of the play area, kept within [5,95] so markers stay visible.
type PositionAssignment struct {
	PlayerID      string  `json:"playerId"`
	Angle         float64 `json:"angle"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	OverlapFactor float64 `json:"overlapFactor"`
	Layout        Layout  `json:"layout"`
}

const (
	versusBandStart = 15.0
	versusBandEnd   = 75.0
	versusRadius    = 35.0
	circularRadius  = 30.0
)

// Hand-tuned angle tables for small parties. Larger counts interpolate.
var versusAngleTables = map[int][]float64{
	1: {45},
	2: {30, 60},
	3: {15, 45, 75},
	4: {15, 35, 55, 75},
}

var circularAngleTables = map[int][]float64{
	1: {0},
	2: {0, 180},
	3: {0, 120, 240},
	4: {0, 90, 180, 270},
}

// ComputePositions derives deterministic marker positions for the given
// players under the layout. Must be re-invoked on every join, leave or
// layout change.
func ComputePositions(playerIDs []string, layout Layout) []PositionAssignment {
	n := len(playerIDs)
	if n == 0 {
		return nil
	}

	angles := layoutAngles(n, layout)
	radius := circularRadius
	if layout == LayoutVersus {
		radius = versusRadius
	}

	out := make([]PositionAssignment, n)
	for i, id := range playerIDs {
		theta := angles[i] * math.Pi / 180
		out[i] = PositionAssignment{
			PlayerID:      id,
			Angle:         angles[i],
			X:             clampPercent(50 + radius*math.Cos(theta)),
			Y:             clampPercent(50 + radius*math.Sin(theta)),
			OverlapFactor: OverlapFactor(angles[i], angles),
			Layout:        layout,
		}
	}
	return out
}

func layoutAngles(n int, layout Layout) []float64 {
	if layout == LayoutVersus {
		if table, ok := versusAngleTables[n]; ok {
			return table
		}
		angles := make([]float64, n)
		step := (versusBandEnd - versusBandStart) / float64(n-1)
		for i := range angles {
			angles[i] = versusBandStart + float64(i)*step
		}
		return angles
	}

	if table, ok := circularAngleTables[n]; ok {
		return table
	}
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = float64(i) * 360 / float64(n)
	}
	return angles
}

// OverlapFactor is a display hint in [0,1]: 0 when the nearest neighbour is
// at least 60° away, approaching 1 as markers collide. Angular distance
// accounts for 360° wraparound.
func OverlapFactor(angle float64, allAngles []float64) float64 {
	minDist := math.MaxFloat64
	for _, other := range allAngles {
		if other == angle {
			continue
		}
		d := math.Abs(angle - other)
		if d > 180 {
			d = 360 - d
		}
		if d < minDist {
			minDist = d
		}
	}
	if minDist == math.MaxFloat64 {
		return 0
	}
	f := 1 - minDist/60
	if f < 0 {
		return 0
	}
	return f
}

// BossPosition returns the fixed boss marker spot for a layout: top-center
// for versus, dead-center for circular.
func BossPosition(layout Layout) (x, y float64) {
	if layout == LayoutVersus {
		return 50, 10
	}
	return 50, 50
}

func clampPercent(v float64) float64 {
	if v < 5 {
		return 5
	}
	if v > 95 {
		return 95
	}
	return v
}
