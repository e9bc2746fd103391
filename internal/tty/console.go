// Package tty is a terminal front-end for the simulation: one character cell
// per tile, mouse selection and orders, and save/load through a store.
package tty

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Field-Command/internal/game"
	"github.com/Garsondee/Field-Command/internal/store"
)

const (
	headerRows = 1
	footerRows = 5 // status line plus feed
	feedLines  = footerRows - 1
	statusLife = 120
)

// cellPos is a screen cell.
type cellPos struct{ X, Y int }

// Options configures a Console.
type Options struct {
	Nav      *game.NavGrid
	Store    store.Store // nil disables save and load
	SaveName string
}

// Console drives a Manager from terminal events. All methods run on the
// goroutine that calls Run.
type Console struct {
	m      *game.Manager
	screen tcell.Screen
	opts   Options
	dt     float64

	camX, camY int // tile shown in the top-left map cell

	cursor    cellPos
	leftDown  bool
	rightDown bool
	dragStart cellPos
	pending   game.FrameInput

	paused      bool
	stepOnce    bool
	selected    int
	cursorState game.CursorState

	feed        []string
	status      string
	statusTimer int
}

// New wires m to a console on screen. The console installs itself as m's UI
// bridge and event sink.
func New(m *game.Manager, screen tcell.Screen, opts Options) *Console {
	if opts.SaveName == "" {
		opts.SaveName = "quicksave"
	}
	c := &Console{m: m, screen: screen, opts: opts, dt: m.Config().TickDT()}
	m.SetUIBridge(c)
	m.SetEventSink(c)
	return c
}

// Run polls terminal events and steps the simulation every period until ctx
// is done or the user quits.
func (c *Console) Run(ctx context.Context, period time.Duration) error {
	c.screen.EnableMouse()
	c.screen.Clear()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !c.handle(ev) {
				return nil
			}
		case <-ticker.C:
			c.tick()
			c.draw()
		}
	}
}

// mapSize is the number of map cells visible.
func (c *Console) mapSize() (int, int) {
	w, h := c.screen.Size()
	return w, max(0, h-headerRows-footerRows)
}

// cellWorld returns the centre of a map cell in viewport space.
func cellWorld(p cellPos) game.Point {
	return game.Point{
		X: (float64(p.X) + 0.5) * game.TileSize,
		Y: (float64(p.Y-headerRows) + 0.5) * game.TileSize,
	}
}

func (c *Console) camera() game.Point {
	return game.Point{X: float64(c.camX) * game.TileSize, Y: float64(c.camY) * game.TileSize}
}

// cellTile maps a screen cell to the tile it shows.
func (c *Console) cellTile(p cellPos) game.TilePoint {
	return game.TilePoint{X: p.X + c.camX, Y: p.Y - headerRows + c.camY}
}

// tick turns the input gathered since the last tick into one frame.
func (c *Console) tick() {
	if c.statusTimer > 0 {
		c.statusTimer--
	}
	in := c.pending
	in.Cursor = cellWorld(c.cursor)
	in.Camera = c.camera()
	c.pending = game.FrameInput{}

	if c.paused && !c.stepOnce {
		c.m.PreUpdate(in)
		return
	}
	c.stepOnce = false
	c.m.Frame(in, c.dt)
}

// selectCells selects every friendly unit touching the cells between a and b.
func (c *Console) selectCells(a, b cellPos) {
	ta, tb := c.cellTile(a), c.cellTile(b)
	x0, x1 := min(ta.X, tb.X), max(ta.X, tb.X)+1
	y0, y1 := min(ta.Y, tb.Y), max(ta.Y, tb.Y)+1
	r := game.Rect{
		X: float64(x0) * game.TileSize, Y: float64(y0) * game.TileSize,
		W: float64(x1-x0) * game.TileSize, H: float64(y1-y0) * game.TileSize,
	}
	var ids []game.UnitID
	for _, u := range c.m.Units(game.SideFriendly) {
		if u.Alive() && u.Bounds().Intersects(r) {
			ids = append(ids, u.ID())
		}
	}
	c.m.Select(ids...)
}

func (c *Console) pan(dx, dy int) {
	cols, rows := 0, 0
	if c.opts.Nav != nil {
		cols, rows = c.opts.Nav.Size()
	}
	w, h := c.mapSize()
	c.camX = clamp(c.camX+dx, 0, max(0, cols-w))
	c.camY = clamp(c.camY+dy, 0, max(0, rows-h))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (c *Console) setStatus(format string, args ...any) {
	c.status = fmt.Sprintf(format, args...)
	c.statusTimer = statusLife
	log.Print(c.status)
}

func (c *Console) save() {
	if c.opts.Store == nil {
		c.setStatus("no store configured")
		return
	}
	if err := c.opts.Store.Save(context.Background(), c.opts.SaveName, c.m.Snapshot()); err != nil {
		c.setStatus("save: %v", err)
		return
	}
	c.setStatus("saved %q at tick %d", c.opts.SaveName, c.m.CurrentTick())
}

func (c *Console) load() {
	if c.opts.Store == nil {
		c.setStatus("no store configured")
		return
	}
	s, err := c.opts.Store.Load(context.Background(), c.opts.SaveName)
	if err != nil {
		c.setStatus("load: %v", err)
		return
	}
	if err := c.m.Restore(s); err != nil {
		c.setStatus("restore: %v", err)
		return
	}
	c.setStatus("loaded %q at tick %d", c.opts.SaveName, s.Tick)
}

// SelectionChanged implements game.UIBridge.
func (c *Console) SelectionChanged(_ game.Rect, _ bool, selected []game.UnitID) {
	c.selected = len(selected)
}

// CursorChanged implements game.UIBridge.
func (c *Console) CursorChanged(s game.CursorState) { c.cursorState = s }

// UnitBars implements game.UIBridge. Bars are drawn straight from the
// manager, so there is nothing to keep.
func (c *Console) UnitBars(game.UnitBars) {}

// UnitRemoved implements game.UIBridge.
func (c *Console) UnitRemoved(game.UnitID) {}

// Notify implements game.EventSink.
func (c *Console) Notify(e game.Event) {
	msg, ok := e.Headline()
	if !ok {
		return
	}
	c.feed = append(c.feed, fmt.Sprintf("%5d [%s] %s", e.Tick, e.Label, msg))
	if len(c.feed) > feedLines {
		c.feed = c.feed[len(c.feed)-feedLines:]
	}
}
