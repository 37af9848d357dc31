package domain

import (
	"math"
	"testing"
)

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

func TestComputePositionsVersusTables(t *testing.T) {
	tests := []struct {
		count  int
		angles []float64
	}{
		{1, []float64{45}},
		{2, []float64{30, 60}},
		{3, []float64{15, 45, 75}},
		{4, []float64{15, 35, 55, 75}},
	}

	for _, tt := range tests {
		positions := ComputePositions(ids(tt.count), LayoutVersus)
		if len(positions) != tt.count {
			t.Fatalf("count %d: got %d positions", tt.count, len(positions))
		}
		for i, p := range positions {
			if p.Angle != tt.angles[i] {
				t.Errorf("count %d slot %d: angle = %v, want %v", tt.count, i, p.Angle, tt.angles[i])
			}
		}
	}
}

func TestComputePositionsBoundsAllLayouts(t *testing.T) {
	for _, layout := range []Layout{LayoutVersus, LayoutCircular} {
		for n := 1; n <= 8; n++ {
			for _, p := range ComputePositions(ids(n), layout) {
				if p.X < 5 || p.X > 95 || p.Y < 5 || p.Y > 95 {
					t.Errorf("%s n=%d: coordinates (%v,%v) out of [5,95]", layout, n, p.X, p.Y)
				}
				if layout == LayoutVersus && (p.Angle < 15 || p.Angle > 75) {
					t.Errorf("versus n=%d: angle %v outside band [15,75]", n, p.Angle)
				}
				if p.Angle < 0 || p.Angle >= 360 {
					t.Errorf("%s n=%d: angle %v outside [0,360)", layout, n, p.Angle)
				}
				if p.OverlapFactor < 0 || p.OverlapFactor > 1 {
					t.Errorf("%s n=%d: overlap %v outside [0,1]", layout, n, p.OverlapFactor)
				}
			}
		}
	}
}

func TestComputePositionsInterpolatesBeyondTables(t *testing.T) {
	positions := ComputePositions(ids(5), LayoutVersus)
	if positions[0].Angle != 15 || positions[4].Angle != 75 {
		t.Fatalf("band endpoints = %v, %v, want 15, 75", positions[0].Angle, positions[4].Angle)
	}
	step := positions[1].Angle - positions[0].Angle
	if math.Abs(step-15) > 1e-9 {
		t.Fatalf("interpolation step = %v, want 15", step)
	}
}

func TestOverlapFactorWraparound(t *testing.T) {
	// 350° and 10° are 20° apart across the wrap.
	got := OverlapFactor(350, []float64{350, 10})
	want := 1 - 20.0/60
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("overlap = %v, want %v", got, want)
	}

	if got := OverlapFactor(0, []float64{0, 180}); got != 0 {
		t.Fatalf("opposed markers overlap = %v, want 0", got)
	}
}

func TestBossPosition(t *testing.T) {
	if x, y := BossPosition(LayoutVersus); x != 50 || y != 10 {
		t.Fatalf("versus boss at (%v,%v), want (50,10)", x, y)
	}
	if x, y := BossPosition(LayoutCircular); x != 50 || y != 50 {
		t.Fatalf("circular boss at (%v,%v), want (50,50)", x, y)
	}
}
