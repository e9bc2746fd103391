package game

import "testing"

func TestNavGrid_UnblockedByDefault(t *testing.T) {
	ng := NewNavGrid(640, 480, nil, 0)
	if ng.IsBlocked(0, 0) {
		t.Fatal("empty grid should have no blocked cells")
	}
	cols, rows := ng.Size()
	if ng.IsBlocked(cols-1, rows-1) {
		t.Fatal("corner cell should not be blocked")
	}
}

func TestNavGrid_BuildingBlocksCells(t *testing.T) {
	// Building at pixel (64,64) size 64×64 covers cells (4,4)-(7,7).
	ng := NewNavGrid(640, 480, []Rect{{X: 64, Y: 64, W: 64, H: 64}}, 0)
	if !ng.IsBlocked(4, 4) || !ng.IsBlocked(7, 7) {
		t.Fatal("cells inside building should be blocked")
	}
	if ng.IsBlocked(8, 8) {
		t.Fatal("cell just past building should be open")
	}
}

func TestNavGrid_PaddingBlocksAdjacentCells(t *testing.T) {
	// Building starts at x=64, pad=8 → padded start at x=56 → cell 3.
	ng := NewNavGrid(640, 480, []Rect{{X: 64, Y: 64, W: 64, H: 64}}, 8)
	if !ng.IsBlocked(3, 4) {
		t.Fatal("cell within unit-radius padding should be blocked")
	}
}

func TestNavGrid_OOB_IsBlocked(t *testing.T) {
	ng := NewNavGrid(640, 480, nil, 0)
	cols, _ := ng.Size()
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {cols, 0}} {
		if !ng.IsBlocked(c[0], c[1]) {
			t.Fatalf("out-of-bounds cell %v should be blocked", c)
		}
	}
	if ng.Walkable(TilePoint{-1, 0}) {
		t.Fatal("out-of-bounds tile should not be walkable")
	}
}

func TestWorldToCell(t *testing.T) {
	cx, cy := WorldToCell(24, 40)
	if cx != 1 || cy != 2 {
		t.Fatalf("expected (1,2) got (%d,%d)", cx, cy)
	}
	cx, cy = WorldToCell(-1, -1)
	if cx != -1 || cy != -1 {
		t.Fatalf("negative coordinates should floor to (-1,-1), got (%d,%d)", cx, cy)
	}
}

func TestCellToWorld(t *testing.T) {
	wx, wy := CellToWorld(2, 3)
	if wx != 40 || wy != 56 {
		t.Fatalf("expected (40,56) got (%.0f,%.0f)", wx, wy)
	}
}

func TestNavGrid_FindPath_Straight(t *testing.T) {
	ng := NewNavGrid(640, 480, nil, 0)
	path, ok := ng.FindPath(TilePoint{0, 0}, TilePoint{10, 0})
	if !ok {
		t.Fatal("expected a path on open grid")
	}
	if len(path) != 11 {
		t.Fatalf("straight path should visit 11 tiles, got %d", len(path))
	}
	if path[0] != (TilePoint{0, 0}) || path[len(path)-1] != (TilePoint{10, 0}) {
		t.Fatalf("path should include both ends, got %v .. %v", path[0], path[len(path)-1])
	}
}

func TestNavGrid_FindPath_Diagonal(t *testing.T) {
	ng := NewNavGrid(640, 480, nil, 0)
	path, ok := ng.FindPath(TilePoint{0, 0}, TilePoint{5, 5})
	if !ok || len(path) != 6 {
		t.Fatalf("diagonal path should take 6 tiles, got %d (ok=%v)", len(path), ok)
	}
}

func TestNavGrid_FindPath_AroundBuilding(t *testing.T) {
	// Wall from the top edge down to y=300 leaves a gap at the bottom.
	ng := NewNavGrid(640, 480, []Rect{{X: 200, Y: 0, W: 32, H: 300}}, 0)
	path, ok := ng.FindPath(TilePoint{1, 6}, TilePoint{37, 6})
	if !ok {
		t.Fatal("expected a path routing around the building")
	}
	for _, p := range path {
		if ng.IsBlocked(p.X, p.Y) {
			t.Fatalf("path crosses blocked tile %v", p)
		}
	}
}

func TestNavGrid_FindPath_NoPath(t *testing.T) {
	// Top row blocked: start is inside the obstacle.
	ng := NewNavGrid(640, 480, []Rect{{X: 0, Y: 0, W: 640, H: 16}}, 0)
	if path, ok := ng.FindPath(TilePoint{0, 0}, TilePoint{0, 20}); ok || path != nil {
		t.Fatal("expected unreachable when start is blocked")
	}
}

func TestNavGrid_FindPath_EnclosedGoal(t *testing.T) {
	// Ring of walls around tile (10,10).
	walls := []Rect{
		{X: 144, Y: 144, W: 48, H: 16},
		{X: 144, Y: 176, W: 48, H: 16},
		{X: 144, Y: 160, W: 16, H: 16},
		{X: 176, Y: 160, W: 16, H: 16},
	}
	ng := NewNavGrid(640, 480, walls, 0)
	if _, ok := ng.FindPath(TilePoint{0, 0}, TilePoint{10, 10}); ok {
		t.Fatal("goal enclosed by walls should be unreachable")
	}
}

func TestNavGrid_FindPath_StartEqualsGoal(t *testing.T) {
	ng := NewNavGrid(640, 480, nil, 0)
	path, ok := ng.FindPath(TilePoint{6, 6}, TilePoint{6, 6})
	if !ok || len(path) != 1 || path[0] != (TilePoint{6, 6}) {
		t.Fatalf("trivial path should be the single tile, got %v ok=%v", path, ok)
	}
}

func TestNavGrid_FindPath_Deterministic(t *testing.T) {
	ng := NewNavGrid(640, 480, []Rect{{X: 100, Y: 100, W: 64, H: 64}}, 0)
	p1, _ := ng.FindPath(TilePoint{0, 0}, TilePoint{30, 25})
	p2, _ := ng.FindPath(TilePoint{0, 0}, TilePoint{30, 25})
	if len(p1) != len(p2) {
		t.Fatalf("path lengths differ between identical calls: %d vs %d", len(p1), len(p2))
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("paths diverge at %d: %v vs %v", i, p1[i], p2[i])
		}
	}
}
