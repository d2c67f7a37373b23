package game

import (
	"math"
	"testing"
)

func TestCheckCollision(t *testing.T) {
	// Overlapping circles
	if !CheckCollision(0, 0, 10, 15, 0, 10) {
		t.Error("circles should collide (overlapping)")
	}

	// Touching circles
	if !CheckCollision(0, 0, 10, 20, 0, 10) {
		t.Error("circles should collide (touching)")
	}

	// Non-overlapping circles
	if CheckCollision(0, 0, 10, 25, 0, 10) {
		t.Error("circles should not collide")
	}

	// Same position
	if !CheckCollision(5, 5, 1, 5, 5, 1) {
		t.Error("same position should collide")
	}
}

func TestClampToMap(t *testing.T) {
	x, y := ClampToMap(-50, 9000, 20, 7200, 5400)
	if x != 20 || y != 5380 {
		t.Errorf("expected (20, 5380), got (%v, %v)", x, y)
	}
	x, y = ClampToMap(300, 400, 20, 7200, 5400)
	if x != 300 || y != 400 {
		t.Errorf("in-bounds point moved to (%v, %v)", x, y)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{3 * math.Pi, math.Pi},
		{-3 * math.Pi, -math.Pi},
		{math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAngleTo(t *testing.T) {
	if got := AngleTo(0, 0, 0, 10); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("expected pi/2, got %v", got)
	}
}
