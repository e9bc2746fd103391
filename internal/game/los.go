package game

import "math"

// HasLineOfSight returns true if a straight line from a to b does not
// intersect any obstacle rectangle. Uses simple ray-vs-AABB tests.
func HasLineOfSight(a, b Point, obstacles []Rect) bool {
	_, blocked := firstObstacleHit(a, b, obstacles)
	return !blocked
}

// firstObstacleHit returns the smallest segment parameter t where the segment
// a->b enters an obstacle.
func firstObstacleHit(a, b Point, obstacles []Rect) (float64, bool) {
	best := math.Inf(1)
	hit := false
	for _, o := range obstacles {
		t, ok := rayAABBHitT(a.X, a.Y, b.X, b.Y, o.X, o.Y, o.X+o.W, o.Y+o.H)
		if ok && t < best {
			best = t
			hit = true
		}
	}
	return best, hit
}

// rayAABBHitT returns the first segment parameter t in [0,1] where the line
// from (ox,oy)->(ex,ey) enters the AABB. The bool is false when no hit exists.
func rayAABBHitT(ox, oy, ex, ey, minX, minY, maxX, maxY float64) (float64, bool) {
	dx := ex - ox
	dy := ey - oy

	tMin := 0.0
	tMax := 1.0

	// Check X slab
	if math.Abs(dx) < 1e-12 {
		if ox < minX || ox > maxX {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (minX - ox) * invD
		t2 := (maxX - ox) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Check Y slab
	if math.Abs(dy) < 1e-12 {
		if oy < minY || oy > maxY {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (minY - oy) * invD
		t2 := (maxY - oy) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return math.Max(tMin, 0), true
}
