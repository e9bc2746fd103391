package game

import "testing"

func TestTileDistance_Chebyshev(t *testing.T) {
	cases := []struct {
		a, b TilePoint
		want int
	}{
		{TilePoint{0, 0}, TilePoint{0, 0}, 0},
		{TilePoint{0, 0}, TilePoint{3, 1}, 3},
		{TilePoint{5, 5}, TilePoint{2, 9}, 4},
		{TilePoint{-1, 0}, TilePoint{1, -2}, 2},
	}
	for _, c := range cases {
		if got := TileDistance(c.a, c.b); got != c.want {
			t.Errorf("TileDistance(%v,%v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestTileOf_RoundTrip(t *testing.T) {
	tp := TileOf(Point{40, 17})
	if tp != (TilePoint{2, 1}) {
		t.Fatalf("TileOf = %v", tp)
	}
	if c := tp.Center(); c != (Point{40, 24}) {
		t.Fatalf("Center = %v", c)
	}
}

func TestRect_FromPointsAndIntersects(t *testing.T) {
	r := RectFromPoints(Point{50, 10}, Point{10, 50})
	if r != (Rect{X: 10, Y: 10, W: 40, H: 40}) {
		t.Fatalf("RectFromPoints = %v", r)
	}
	if !r.Intersects(Rect{X: 50, Y: 50, W: 5, H: 5}) {
		t.Fatal("touching rects should intersect")
	}
	if r.Intersects(Rect{X: 51, Y: 10, W: 5, H: 5}) {
		t.Fatal("disjoint rects intersect")
	}
	if !r.Contains(Point{10, 50}) || r.Contains(Point{9, 50}) {
		t.Fatal("Contains edge handling")
	}
}

func TestDirectionOf_EightWay(t *testing.T) {
	cases := []struct {
		dx, dy float64
		want   Direction
	}{
		{1, 0, DirEast},
		{1, -1, DirNorthEast},
		{0, -1, DirNorth},
		{-1, -1, DirNorthWest},
		{-1, 0, DirWest},
		{-1, 1, DirSouthWest},
		{0, 1, DirSouth},
		{1, 1, DirSouthEast},
		{10, 1, DirEast},
		{0, 0, DirNone},
	}
	for _, c := range cases {
		if got := DirectionOf(c.dx, c.dy); got != c.want {
			t.Errorf("DirectionOf(%v,%v) = %s, want %s", c.dx, c.dy, got, c.want)
		}
	}
	if x, y := DirSouthWest.Vector(); x != -1 || y != 1 {
		t.Fatalf("SW vector = (%d,%d)", x, y)
	}
}
