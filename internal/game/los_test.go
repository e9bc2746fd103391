package game

import (
	"math"
	"testing"
)

func TestLOS_ClearLine(t *testing.T) {
	if !HasLineOfSight(Point{0, 0}, Point{100, 100}, nil) {
		t.Fatal("expected clear LOS with no buildings")
	}
}

func TestLOS_BlockedByBuilding(t *testing.T) {
	buildings := []Rect{{X: 40, Y: 0, W: 20, H: 200}}
	if HasLineOfSight(Point{0, 100}, Point{200, 100}, buildings) {
		t.Fatal("expected LOS blocked by building")
	}
}

func TestLOS_AdjacentBuilding_NotBlocked(t *testing.T) {
	buildings := []Rect{{X: 300, Y: 0, W: 64, H: 64}}
	if !HasLineOfSight(Point{0, 32}, Point{200, 32}, buildings) {
		t.Fatal("building beyond endpoint should not block LOS")
	}
}

func TestLOS_VerticalRay(t *testing.T) {
	buildings := []Rect{{X: 0, Y: 50, W: 20, H: 20}}
	if HasLineOfSight(Point{10, 0}, Point{10, 100}, buildings) {
		t.Fatal("vertical ray through building should be blocked")
	}
	if !HasLineOfSight(Point{30, 0}, Point{30, 100}, buildings) {
		t.Fatal("vertical ray beside building should be clear")
	}
}

func TestFirstObstacleHit_Nearest(t *testing.T) {
	buildings := []Rect{
		{X: 150, Y: 0, W: 10, H: 100},
		{X: 50, Y: 0, W: 10, H: 100},
	}
	tHit, ok := firstObstacleHit(Point{0, 50}, Point{200, 50}, buildings)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(tHit-0.25) > 1e-9 {
		t.Fatalf("nearest obstacle entry should be t=0.25, got %.4f", tHit)
	}
}
