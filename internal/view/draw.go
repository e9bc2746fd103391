package view

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Field-Command/internal/game"
)

var (
	groundColor   = color.RGBA{R: 28, G: 42, B: 28, A: 255}
	gridColor     = color.RGBA{R: 36, G: 52, B: 36, A: 255}
	blockedColor  = color.RGBA{R: 44, G: 38, B: 30, A: 255}
	buildingColor = color.RGBA{R: 70, G: 66, B: 58, A: 255}
	buildingEdge  = color.RGBA{R: 110, G: 104, B: 90, A: 255}
	panelBorder   = color.RGBA{R: 55, G: 80, B: 55, A: 255}
	selectColor   = color.RGBA{R: 120, G: 255, B: 120, A: 255}
	dragColor     = color.RGBA{R: 120, G: 255, B: 120, A: 90}
	hpColor       = color.RGBA{R: 70, G: 200, B: 70, A: 255}
	manaColor     = color.RGBA{R: 80, G: 120, B: 230, A: 255}
	barBackColor  = color.RGBA{R: 20, G: 20, B: 20, A: 200}
)

func sideColor(s game.Side) color.RGBA {
	if s == game.SideEnemy {
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	}
	return color.RGBA{R: 70, G: 110, B: 210, A: 255}
}

// toScreen maps a world position into window pixels.
func (g *Game) toScreen(p game.Point) (float32, float32) {
	return float32(p.X - g.camX + float64(g.offX)), float32(p.Y - g.camY + float64(g.offY))
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	vp := screen.SubImage(image.Rect(g.offX, g.offY, g.offX+g.viewW, g.offY+g.viewH)).(*ebiten.Image)
	ox, oy := float32(g.offX), float32(g.offY)
	vector.FillRect(vp, ox, oy, float32(g.viewW), float32(g.viewH), groundColor, false)

	g.drawGrid(vp)
	for _, r := range g.m.Obstacles() {
		x, y := g.toScreen(game.Point{X: r.X, Y: r.Y})
		vector.FillRect(vp, x, y, float32(r.W), float32(r.H), buildingColor, false)
		vector.StrokeRect(vp, x, y, float32(r.W), float32(r.H), 1.5, buildingEdge, false)
	}

	g.drawMoveOrder(vp)
	for _, u := range g.m.AllUnits() {
		if u.Alive() {
			g.drawUnit(vp, u)
		}
	}
	for _, b := range g.m.Bullets() {
		g.drawBullet(vp, b)
	}
	if r, dragging := g.overlay.Drag(); dragging {
		x, y := g.toScreen(game.Point{X: r.X, Y: r.Y})
		vector.FillRect(vp, x, y, float32(r.W), float32(r.H), color.RGBA{R: 60, G: 160, B: 60, A: 40}, false)
		vector.StrokeRect(vp, x, y, float32(r.W), float32(r.H), 1, dragColor, false)
	}
}

// drawGrid draws tile lines and shades blocked tiles.
func (g *Game) drawGrid(screen *ebiten.Image) {
	ts := game.TileSize
	c0, r0 := int(g.camX)/ts, int(g.camY)/ts
	c1, r1 := (int(g.camX)+g.viewW)/ts+1, (int(g.camY)+g.viewH)/ts+1
	if g.opts.Nav != nil {
		for cy := r0; cy <= r1; cy++ {
			for cx := c0; cx <= c1; cx++ {
				if !g.opts.Nav.IsBlocked(cx, cy) {
					continue
				}
				x, y := g.toScreen(game.Point{X: float64(cx * ts), Y: float64(cy * ts)})
				vector.FillRect(screen, x, y, float32(ts), float32(ts), blockedColor, false)
			}
		}
	}
	for cx := c0; cx <= c1; cx++ {
		x, _ := g.toScreen(game.Point{X: float64(cx * ts)})
		vector.StrokeLine(screen, x, float32(g.offY), x, float32(g.offY+g.viewH), 1, gridColor, false)
	}
	for cy := r0; cy <= r1; cy++ {
		_, y := g.toScreen(game.Point{Y: float64(cy * ts)})
		vector.StrokeLine(screen, float32(g.offX), y, float32(g.offX+g.viewW), y, 1, gridColor, false)
	}
}

// drawMoveOrder outlines the last group move: the group's bounds and the
// destination spread.
func (g *Game) drawMoveOrder(screen *ebiten.Image) {
	from, to := g.m.MoveRect()
	if to.W == 0 && to.H == 0 {
		return
	}
	for _, r := range []game.Rect{from, to} {
		x, y := g.toScreen(game.Point{X: r.X, Y: r.Y})
		vector.StrokeRect(screen, x, y, float32(r.W), float32(r.H), 1, color.RGBA{R: 200, G: 200, B: 120, A: 60}, false)
	}
	for _, id := range g.overlay.Selected() {
		u, ok := g.m.Unit(id)
		if !ok || !u.HasDestination() {
			continue
		}
		sx, sy := g.toScreen(u.Position())
		dx, dy := g.toScreen(u.Destination().Center())
		vector.StrokeLine(screen, sx, sy, dx, dy, 1, color.RGBA{R: 120, G: 220, B: 120, A: 60}, false)
		vector.StrokeCircle(screen, dx, dy, 3, 1, color.RGBA{R: 120, G: 220, B: 120, A: 140}, false)
	}
}

func (g *Game) drawUnit(screen *ebiten.Image, u *game.Unit) {
	x, y := g.toScreen(u.Position())
	r := float32(g.m.Config().UnitRadius)
	col := sideColor(u.Side())
	if u.Invisible() {
		col.A = 90
	}
	if g.overlay.IsSelected(u.ID()) {
		vector.StrokeCircle(screen, x, y, r+3, 1.5, selectColor, true)
	}
	if u.ID() == g.m.Hovered() {
		vector.StrokeCircle(screen, x, y, r+5, 1, color.RGBA{R: 255, G: 255, B: 255, A: 120}, true)
	}
	vector.FillCircle(screen, x, y, r, col, true)

	// Heading tick.
	dx, dy := u.Direction().Vector()
	vector.StrokeLine(screen, x, y, x+float32(dx)*r*1.4, y+float32(dy)*r*1.4, 1.5, color.White, true)

	if u.Sniping() {
		vector.StrokeCircle(screen, x, y, r+1, 1, color.RGBA{R: 255, G: 220, B: 80, A: 220}, true)
	}
	if t, ok := g.m.Unit(u.Target()); ok && u.State() == game.StateAttack {
		tx, ty := g.toScreen(t.Position())
		vector.StrokeLine(screen, x, y, tx, ty, 1, color.RGBA{R: col.R, G: col.G, B: col.B, A: 50}, false)
	}

	if b, ok := g.overlay.Bars(u.ID()); ok {
		g.drawBars(screen, b, x, y-r-7)
	}
	text.Draw(screen, u.Label(), basicfont.Face7x13, int(x)-7, int(y+r)+12, color.RGBA{R: 200, G: 210, B: 200, A: 200})
}

// drawBars draws the HP bar and, for casters, the mana bar above a unit.
func (g *Game) drawBars(screen *ebiten.Image, b game.UnitBars, cx, top float32) {
	const w, h = 18, 3
	x := cx - w/2
	vector.FillRect(screen, x, top, w, h, barBackColor, false)
	if b.MaxHP > 0 {
		vector.FillRect(screen, x, top, float32(w*b.HP/b.MaxHP), h, hpColor, false)
	}
	if b.MaxMana > 0 {
		vector.FillRect(screen, x, top+h+1, w, h-1, barBackColor, false)
		vector.FillRect(screen, x, top+h+1, float32(w*b.Mana/b.MaxMana), h-1, manaColor, false)
	}
}

func (g *Game) drawBullet(screen *ebiten.Image, b *game.Bullet) {
	if b.Kind() == game.BulletSniper {
		ox, oy := g.toScreen(b.Origin())
		ax, ay := g.toScreen(b.Aim())
		vector.StrokeLine(screen, ox, oy, ax, ay, 1, color.RGBA{R: 255, G: 230, B: 120, A: 200}, true)
		return
	}
	x, y := g.toScreen(b.Position())
	vector.FillCircle(screen, x, y, 1.5, color.RGBA{R: 255, G: 240, B: 180, A: 255}, false)
}

// drawFrame draws the battlefield border.
func (g *Game) drawFrame(screen *ebiten.Image) {
	ox, oy := float32(g.offX), float32(g.offY)
	w, h := float32(g.viewW), float32(g.viewH)
	vector.StrokeRect(screen, ox-1, oy-1, w+2, h+2, 2.0, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)
	vector.StrokeRect(screen, ox-3, oy-3, w+6, h+6, 1.0, color.RGBA{R: 40, G: 65, B: 40, A: 100}, false)
}

func (g *Game) speedLabel() string {
	switch g.simSpeed {
	case 0:
		return "PAUSED"
	case 1:
		return "1x"
	default:
		return fmt.Sprintf("%gx", g.simSpeed)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	pool := g.m.Pool()
	stats := g.m.Stats()
	lines := []string{
		fmt.Sprintf("tick %d  SIM: %s  P=pause  ,/. speed", g.m.CurrentTick(), g.speedLabel()),
		fmt.Sprintf("friendly %d  enemy %d  cursor: %s", g.m.AliveCount(game.SideFriendly), g.m.AliveCount(game.SideEnemy), g.overlay.Cursor()),
		fmt.Sprintf("sniper pool %.0f/%.0f", pool.Level(), pool.Capacity()),
		fmt.Sprintf("shots %d  hits %d  acc %.0f%%", stats.Shots, stats.Hits, stats.Accuracy()*100),
		"LMB drag=select  RMB=move/engage",
		"Q cloak  E sniper  R heal  (shift=stop)",
		"F2 copy snapshot  F3 copy report",
		"F5 save  F9 load  H hud  arrows=pan",
	}
	if g.statusTimer > 0 {
		lines = append(lines, "> "+g.status)
	}

	const lineH, charW, padX, padY = 16, 6, 6, 4
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(g.offX + 4)
	by := float32(g.offY+g.viewH) - boxH - 4

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(bx)+padX, int(by)+padY+i*lineH)
	}
}

// inspected picks the unit shown in the inspector: the hovered unit, else the
// first selected one.
func (g *Game) inspected() (*game.Unit, bool) {
	if u, ok := g.m.Unit(g.m.Hovered()); ok && u.Alive() {
		return u, true
	}
	for _, id := range g.overlay.Selected() {
		if u, ok := g.m.Unit(id); ok && u.Alive() {
			return u, true
		}
	}
	return nil, false
}

// drawInspector renders details of one unit in the top-right corner of the
// playfield. I toggles the raw log view.
func (g *Game) drawInspector(screen *ebiten.Image) {
	u, ok := g.inspected()
	if !ok {
		return
	}
	lines := []string{fmt.Sprintf("[ %s %s %s ]", u.Side(), u.Label(), u.Type())}
	if g.rawView {
		entries := g.m.Log().FilterUnit(u.Label())
		if len(entries) > 12 {
			entries = entries[len(entries)-12:]
		}
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("%d %s/%s %s", e.Tick, e.Category, e.Key, e.Value))
		}
	} else {
		lines = append(lines,
			fmt.Sprintf("state: %s  facing %s", u.State(), u.Direction()),
			fmt.Sprintf("hp %.0f/%.0f  mana %.0f/%.0f", u.HP(), u.MaxHP(), u.Mana(), u.MaxMana()),
			fmt.Sprintf("tile %v  cooldown %.2f", u.Tile(), u.AttackCooldown()),
		)
		if t, ok := g.m.Unit(u.Target()); ok {
			lines = append(lines, fmt.Sprintf("target: %s (%d tiles)", t.Label(), game.TileDistance(u.Tile(), t.Tile())))
		}
		if n := len(u.Attackers()); n > 0 {
			lines = append(lines, fmt.Sprintf("attackers: %d", n))
		}
		if u.HasDestination() {
			lines = append(lines, fmt.Sprintf("dest %v  %d waypoints", u.Destination(), len(u.Path())))
		}
		for _, a := range u.Abilities().List() {
			st := "ready"
			if u.Active(a) {
				st = "ACTIVE"
			} else if cd := u.AbilityCooldown(a); cd > 0 {
				st = fmt.Sprintf("cd %.1fs", cd)
			}
			lines = append(lines, fmt.Sprintf("%-12s %s", a, st))
		}
		if anim := u.Animation(); anim != "" {
			lines = append(lines, "anim: "+anim)
		}
	}

	const lineH, charW, pad = 14, 6, 5
	w := 0
	for _, l := range lines {
		w = max(w, len(l)*charW)
	}
	bw, bh := float32(w+pad*2), float32(len(lines)*lineH+pad*2)
	bx := float32(g.offX+g.viewW) - bw - 6
	by := float32(g.offY + 6)
	vector.FillRect(screen, bx, by, bw, bh, color.RGBA{R: 14, G: 16, B: 14, A: 230}, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 1.0, panelBorder, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, int(bx)+pad, int(by)+pad+i*lineH)
	}
}
