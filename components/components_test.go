package components

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestBoundsClamp(t *testing.T) {
	b := Bounds{Max: r2.Vec{X: 100, Y: 50}}

	tests := []struct {
		name string
		in   r2.Vec
		want r2.Vec
	}{
		{"inside", r2.Vec{X: 10, Y: 20}, r2.Vec{X: 10, Y: 20}},
		{"left", r2.Vec{X: -3, Y: 20}, r2.Vec{X: 0, Y: 20}},
		{"bottom right", r2.Vec{X: 140, Y: 90}, r2.Vec{X: 100, Y: 50}},
		{"top", r2.Vec{X: 50, Y: -0.5}, r2.Vec{X: 50, Y: 0}},
		{"on edge", r2.Vec{X: 100, Y: 0}, r2.Vec{X: 100, Y: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Clamp(tc.in); got != tc.want {
				t.Errorf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCrowdingRatio(t *testing.T) {
	tests := []struct {
		neighbors, limit int
		want             float64
	}{
		{0, 8, 0},
		{4, 8, 0.5},
		{8, 8, 1},
		{20, 8, 1},
		{3, 0, 0},
	}
	for _, tc := range tests {
		got := Crowding{Neighbors: tc.neighbors}.Ratio(tc.limit)
		if got != tc.want {
			t.Errorf("Ratio(%d/%d) = %v, want %v", tc.neighbors, tc.limit, got, tc.want)
		}
	}
}
