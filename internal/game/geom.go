package game

import "math"

// tileSize is the edge length of one navigation tile in world pixels.
const tileSize = 16

// TileSize exports tileSize for front-ends.
const TileSize = tileSize

// Point is a continuous world (or screen) position in pixels.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// TilePoint is a discrete grid coordinate used by the pathfinding service.
type TilePoint struct {
	X, Y int
}

// Center returns the world position of the tile centre.
func (t TilePoint) Center() Point {
	wx, wy := CellToWorld(t.X, t.Y)
	return Point{wx, wy}
}

// TileOf returns the tile containing world position p.
func TileOf(p Point) TilePoint {
	cx, cy := WorldToCell(p.X, p.Y)
	return TilePoint{cx, cy}
}

// TileDistance is the Chebyshev distance between two tiles, the number of
// 8-way steps between them on an open grid.
func TileDistance(a, b TilePoint) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y, W, H float64
}

// RectFromPoints builds the rectangle spanned by two corners in any order.
func RectFromPoints(a, b Point) Rect {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Offset translates the rectangle by d.
func (r Rect) Offset(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Center returns the rectangle centre.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Intersects reports whether r and o overlap or touch.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.W && o.X <= r.X+r.W && r.Y <= o.Y+o.H && o.Y <= r.Y+r.H
}

// boundingRect returns the smallest rectangle containing every point.
func boundingRect(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// distToSegment returns the distance from p to segment ab and the segment
// parameter t in [0,1] of the closest point.
func distToSegment(p, a, b Point) (float64, float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 < 1e-12 {
		return p.Dist(a), 0
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	c := Point{a.X + dx*t, a.Y + dy*t}
	return p.Dist(c), t
}
