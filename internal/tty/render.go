package tty

import (
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Field-Command/internal/game"
)

var (
	styleGround   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(60, 80, 60))
	styleBlocked  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(120, 110, 90))
	styleFriendly = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true)
	styleEnemy    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBullet   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleHeader   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(20, 40, 20))
)

type cell struct {
	ch    rune
	style tcell.Style
}

// grid is an off-screen frame. Rendering into a grid keeps drawing
// independent of the terminal.
type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i] = cell{' ', tcell.StyleDefault}
	}
	return g
}

func (g *grid) set(x, y int, ch rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = cell{ch, style}
}

func (g *grid) at(x, y int) cell {
	return g.cells[y*g.w+x]
}

func (g *grid) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		g.set(x, y, r, style)
		x++
	}
}

// row returns the runes of line y, for tests and logging.
func (g *grid) row(y int) string {
	rs := make([]rune, g.w)
	for x := range rs {
		rs[x] = g.at(x, y).ch
	}
	return string(rs)
}

// glyph is the unit's map character: the first letter of its type,
// upper-case for friendlies.
func glyph(u *game.Unit) rune {
	r := 'u'
	for _, c := range u.Type() {
		r = c
		break
	}
	if u.Side() == game.SideFriendly {
		return unicode.ToUpper(r)
	}
	return unicode.ToLower(r)
}

// render draws the current battle into a w by h grid.
func (c *Console) render(w, h int) *grid {
	g := newGrid(w, h)
	mapH := max(0, h-headerRows-footerRows)

	for y := 0; y < mapH; y++ {
		for x := 0; x < w; x++ {
			t := c.cellTile(cellPos{x, y + headerRows})
			if c.opts.Nav != nil {
				cols, rows := c.opts.Nav.Size()
				if t.X >= cols || t.Y >= rows {
					continue
				}
				if c.opts.Nav.IsBlocked(t.X, t.Y) {
					g.set(x, y+headerRows, '#', styleBlocked)
					continue
				}
			}
			g.set(x, y+headerRows, '.', styleGround)
		}
	}

	toCell := func(t game.TilePoint) (int, int, bool) {
		x, y := t.X-c.camX, t.Y-c.camY+headerRows
		return x, y, x >= 0 && x < w && y >= headerRows && y < headerRows+mapH
	}

	if start, end, dragging := c.drag(); dragging {
		x0, x1 := min(start.X, end.X), max(start.X, end.X)
		y0, y1 := min(start.Y, end.Y), max(start.Y, end.Y)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				cur := g.at(clamp(x, 0, w-1), clamp(y, 0, h-1))
				g.set(x, y, cur.ch, cur.style.Background(tcell.NewRGBColor(20, 60, 20)))
			}
		}
	}

	selected := map[game.UnitID]bool{}
	for _, id := range c.m.Selected() {
		selected[id] = true
	}
	for _, e := range c.m.Entities() {
		if e.Marked() {
			continue
		}
		x, y, ok := toCell(e.Tile())
		if !ok {
			continue
		}
		switch e := e.(type) {
		case *game.Bullet:
			g.set(x, y, '*', styleBullet)
		case *game.Unit:
			g.set(x, y, glyph(e), unitStyle(e, selected[e.ID()]))
		}
	}

	c.renderHeader(g)
	c.renderFooter(g, headerRows+mapH)
	return g
}

func unitStyle(u *game.Unit, selected bool) tcell.Style {
	style := styleEnemy
	if u.Side() == game.SideFriendly {
		style = styleFriendly
	}
	switch {
	case u.State() == game.StateDie:
		style = style.Dim(true)
	case u.Invisible():
		style = style.Italic(true).Dim(true)
	}
	if selected {
		style = style.Reverse(true)
	}
	if u.Sniping() {
		style = style.Underline(true)
	}
	return style
}

func (c *Console) renderHeader(g *grid) {
	for x := 0; x < g.w; x++ {
		g.set(x, 0, ' ', styleHeader)
	}
	state := "running"
	if c.paused {
		state = "paused"
	}
	pool := c.m.Pool()
	g.text(1, 0, fmt.Sprintf("tick %d  %s  friendly %d  enemy %d  selected %d  pool %.0f/%.0f  cursor %s",
		c.m.CurrentTick(), state,
		c.m.AliveCount(game.SideFriendly), c.m.AliveCount(game.SideEnemy),
		c.selected, pool.Level(), pool.Capacity(), c.cursorState), styleHeader)
}

func (c *Console) renderFooter(g *grid, top int) {
	status := "drag:select  rclick:move/engage  q/e/r:ability  Q/E/R:stop  space:pause  n:step  F5/F9:save/load  esc:quit"
	if c.statusTimer > 0 {
		status = c.status
	}
	g.text(0, top, status, styleText)
	for i, line := range c.feed {
		g.text(0, top+1+i, line, styleText)
	}
}

// draw renders a frame and pushes it to the terminal.
func (c *Console) draw() {
	w, h := c.screen.Size()
	g := c.render(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cl := g.at(x, y)
			c.screen.SetContent(x, y, cl.ch, nil, cl.style)
		}
	}
	c.screen.Show()
}
