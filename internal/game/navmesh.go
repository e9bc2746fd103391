package game

import (
	"container/heap"
	"math"
)

// Pathfinder is the pathfinding collaborator consumed by the entity manager.
// FindPath returns the ordered tiles from origin to destination, both
// included, or ok=false when the destination is unreachable. Implementations
// must be synchronous and free of side effects.
type Pathfinder interface {
	FindPath(from, to TilePoint) ([]TilePoint, bool)
}

// NavGrid is a 2D walkability grid where true = blocked.
type NavGrid struct {
	cols    int
	rows    int
	blocked []bool
}

// NewNavGrid builds a walkability grid from the map dimensions and obstacles.
// Each cell that overlaps an obstacle (with padding for the unit radius) is
// blocked.
func NewNavGrid(mapW, mapH int, obstacles []Rect, pad int) *NavGrid {
	cols := mapW / tileSize
	rows := mapH / tileSize
	ng := &NavGrid{
		cols:    cols,
		rows:    rows,
		blocked: make([]bool, cols*rows),
	}

	for _, b := range obstacles {
		// Expand bounds by the pad so paths keep clearance.
		bx0 := int(b.X) - pad
		by0 := int(b.Y) - pad
		bx1 := int(b.X+b.W) + pad
		by1 := int(b.Y+b.H) + pad

		cMinX := max(0, bx0/tileSize)
		cMinY := max(0, by0/tileSize)
		cMaxX := min(cols-1, (bx1-1)/tileSize)
		cMaxY := min(rows-1, (by1-1)/tileSize)

		for cy := cMinY; cy <= cMaxY; cy++ {
			for cx := cMinX; cx <= cMaxX; cx++ {
				ng.blocked[cy*cols+cx] = true
			}
		}
	}
	return ng
}

// Size returns the grid dimensions in tiles.
func (ng *NavGrid) Size() (int, int) { return ng.cols, ng.rows }

// IsBlocked returns true if the cell at (cx, cy) is not walkable.
func (ng *NavGrid) IsBlocked(cx, cy int) bool {
	if cx < 0 || cy < 0 || cx >= ng.cols || cy >= ng.rows {
		return true
	}
	return ng.blocked[cy*ng.cols+cx]
}

// Walkable reports whether t is inside the grid and unblocked.
func (ng *NavGrid) Walkable(t TilePoint) bool { return !ng.IsBlocked(t.X, t.Y) }

// WorldToCell converts world pixel coordinates to grid cell coordinates.
func WorldToCell(wx, wy float64) (int, int) {
	return int(math.Floor(wx / tileSize)), int(math.Floor(wy / tileSize))
}

// CellToWorld converts grid cell coordinates to world pixel center.
func CellToWorld(cx, cy int) (float64, float64) {
	return float64(cx*tileSize) + float64(tileSize)/2, float64(cy*tileSize) + float64(tileSize)/2
}

// --- A* pathfinding ---

type pathNode struct {
	cx, cy int
	g, h   float64
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return (ol[i].g + ol[i].h) < (ol[j].g + ol[j].h) }
func (ol openList) Swap(i, j int)      { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x any)        { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath implements Pathfinder with 8-connected A* and no diagonal
// corner-cutting.
func (ng *NavGrid) FindPath(from, to TilePoint) ([]TilePoint, bool) {
	if ng.IsBlocked(from.X, from.Y) || ng.IsBlocked(to.X, to.Y) {
		return nil, false
	}
	if from == to {
		return []TilePoint{from}, true
	}

	key := func(cx, cy int) int { return cy*ng.cols + cx }
	heuristic := func(ax, ay, bx, by int) float64 {
		dx := math.Abs(float64(ax - bx))
		dy := math.Abs(float64(ay - by))
		return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
	}

	start := &pathNode{cx: from.X, cy: from.Y, h: heuristic(from.X, from.Y, to.X, to.Y)}
	ol := &openList{start}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := make(map[int]*pathNode)
	best[key(from.X, from.Y)] = start

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cx == to.X && cur.cy == to.Y {
			return buildPath(cur), true
		}
		k := key(cur.cx, cur.cy)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range dirs {
			nx, ny := cur.cx+d[0], cur.cy+d[1]
			if ng.IsBlocked(nx, ny) {
				continue
			}
			// Prevent diagonal corner-cutting through blocked cells.
			if d[0] != 0 && d[1] != 0 {
				if ng.IsBlocked(cur.cx+d[0], cur.cy) || ng.IsBlocked(cur.cx, cur.cy+d[1]) {
					continue
				}
			}
			nk := key(nx, ny)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			g := cur.g + cost
			if prev, ok := best[nk]; ok && g >= prev.g {
				continue
			}
			node := &pathNode{cx: nx, cy: ny, g: g, h: heuristic(nx, ny, to.X, to.Y), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil, false
}

func buildPath(end *pathNode) []TilePoint {
	var cells []TilePoint
	for n := end; n != nil; n = n.parent {
		cells = append(cells, TilePoint{n.cx, n.cy})
	}
	// Reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
