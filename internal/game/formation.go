package game

import (
	"fmt"
	"math"
)

// FormationType identifies the slot shape used when a group has no spatial
// footprint of its own (every member standing on one tile).
type FormationType int

const (
	FormationLine   FormationType = iota // side-by-side perpendicular to heading
	FormationWedge                       // V-shape, first unit at point
	FormationColumn                      // single file behind the first unit
)

func (ft FormationType) String() string {
	switch ft {
	case FormationWedge:
		return "wedge"
	case FormationColumn:
		return "column"
	default:
		return "line"
	}
}

// ParseFormation maps a config name to a FormationType.
func ParseFormation(s string) (FormationType, error) {
	switch s {
	case "", "line":
		return FormationLine, nil
	case "wedge":
		return FormationWedge, nil
	case "column":
		return FormationColumn, nil
	}
	return FormationLine, fmt.Errorf("unknown formation %q", s)
}

// slotSpacing is the pixel gap between adjacent formation slots: one tile,
// so neighbouring slots never share a destination tile.
const slotSpacing = float64(tileSize)

// formationOffsets returns the local (forward, right) offsets for each slot
// in a formation of `count` members (slot 0 sits on the destination).
// Forward is along the movement direction; right is 90° clockwise.
func formationOffsets(ft FormationType, count int) [][2]float64 {
	offsets := make([][2]float64, count)
	if count == 0 {
		return offsets
	}

	switch ft {
	case FormationLine:
		// Spread symmetrically: ...-2,-1,0,+1,+2,...
		for i := 1; i < count; i++ {
			side := float64((i+1)/2) * slotSpacing
			if i%2 == 1 {
				side = -side
			}
			offsets[i] = [2]float64{0, side}
		}

	case FormationWedge:
		for i := 1; i < count; i++ {
			depth := float64((i+1)/2) * slotSpacing
			side := depth
			if i%2 == 1 {
				side = -side
			}
			offsets[i] = [2]float64{-depth, side}
		}

	case FormationColumn:
		for i := 1; i < count; i++ {
			offsets[i] = [2]float64{-float64(i) * slotSpacing, 0}
		}
	}
	return offsets
}

// SlotWorld converts a local (forward, right) offset into a world position
// given the anchor position and heading in radians.
func SlotWorld(anchorX, anchorY, heading, fwd, right float64) (float64, float64) {
	fx := math.Cos(heading)
	fy := math.Sin(heading)
	// Right unit vector (90° clockwise from forward in screen space).
	rx := -fy
	ry := fx

	wx := anchorX + fx*fwd + rx*right
	wy := anchorY + fy*fwd + ry*right
	return wx, wy
}

// groupMove is the computed footprint of one move order.
type groupMove struct {
	From  Rect        // bounding rectangle of the movers (move_rec)
	To    Rect        // destination rectangle centred on the order point
	Tiles []TilePoint // one destination tile per mover, in input order
}

// planGroupMove maps every start position into a destination tile around dst.
// Relative positions inside the group's bounding rectangle are scaled into a
// destination rectangle of the same size, clamped to maxSpan tiles per axis.
// A group standing on a single tile is laid out with formation slots instead.
// Duplicate or unwalkable tiles are pushed to the nearest free walkable tile.
func planGroupMove(starts []Point, dst Point, ft FormationType, maxSpan int, walkable func(TilePoint) bool) groupMove {
	gm := groupMove{Tiles: make([]TilePoint, len(starts))}
	if len(starts) == 0 {
		return gm
	}
	gm.From = boundingRect(starts)
	span := float64(maxSpan * tileSize)
	w := math.Min(gm.From.W, span)
	h := math.Min(gm.From.H, span)
	gm.To = Rect{X: dst.X - w/2, Y: dst.Y - h/2, W: w, H: h}

	degenerate := true
	first := TileOf(starts[0])
	for _, p := range starts[1:] {
		if TileOf(p) != first {
			degenerate = false
			break
		}
	}

	raw := make([]TilePoint, len(starts))
	if degenerate {
		c := gm.From.Center()
		heading := math.Atan2(dst.Y-c.Y, dst.X-c.X)
		for i, off := range formationOffsets(ft, len(starts)) {
			wx, wy := SlotWorld(dst.X, dst.Y, heading, off[0], off[1])
			raw[i] = TileOf(Point{wx, wy})
		}
	} else {
		for i, p := range starts {
			rx, ry := 0.5, 0.5
			if gm.From.W > 0 {
				rx = (p.X - gm.From.X) / gm.From.W
			}
			if gm.From.H > 0 {
				ry = (p.Y - gm.From.Y) / gm.From.H
			}
			raw[i] = TileOf(Point{gm.To.X + rx*gm.To.W, gm.To.Y + ry*gm.To.H})
		}
	}

	used := make(map[TilePoint]bool, len(raw))
	limit := maxSpan + len(starts)
	for i, t := range raw {
		if used[t] || !walkable(t) {
			if free, ok := nearestFreeTile(t, limit, used, walkable); ok {
				t = free
			}
		}
		used[t] = true
		gm.Tiles[i] = t
	}
	return gm
}

// nearestFreeTile searches square rings of growing radius around t for a
// walkable tile not yet claimed. Rings are scanned row by row for
// deterministic results.
func nearestFreeTile(t TilePoint, limit int, used map[TilePoint]bool, walkable func(TilePoint) bool) (TilePoint, bool) {
	for r := 1; r <= limit; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(iabs(dx), iabs(dy)) != r {
					continue
				}
				c := TilePoint{t.X + dx, t.Y + dy}
				if !used[c] && walkable(c) {
					return c, true
				}
			}
		}
	}
	return t, false
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
