// Package view is the desktop front-end: an ebiten.Game that feeds mouse and
// keyboard input to the manager and draws the battlefield, bars and feed.
package view

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Field-Command/internal/game"
	"github.com/Garsondee/Field-Command/internal/store"
)

// borderWidth is the pixel gap between the window edge and the battlefield.
const borderWidth = 24

const (
	maxViewW   = 1280
	maxViewH   = 720
	panSpeed   = 8.0
	statusLife = 180 // frames a status line stays on screen
)

var speeds = []float64{0, 0.5, 1, 2, 4}

// Options configures a Game.
type Options struct {
	MapWidth  int
	MapHeight int
	Nav       *game.NavGrid

	// Store persists quick saves; nil disables F5/F9.
	Store    store.Store
	SaveName string

	// Sinks receive every event alongside the feed.
	Sinks []game.EventSink
}

// Game drives a Manager from ebiten's update loop.
type Game struct {
	m       *game.Manager
	opts    Options
	overlay *Overlay
	feed    *Feed

	width, height int // window
	viewW, viewH  int // playfield viewport
	offX, offY    int

	camX, camY float64 // world position of the viewport's top-left corner
	dt         float64

	simSpeed  float64
	tickAccum float64
	showHUD   bool
	rawView   bool

	status      string
	statusTimer int
}

// New wires m to a new view. The view installs itself as m's UI bridge and
// event sink.
func New(m *game.Manager, opts Options) *Game {
	if opts.SaveName == "" {
		opts.SaveName = "quicksave"
	}
	g := &Game{
		m:        m,
		opts:     opts,
		overlay:  NewOverlay(),
		feed:     NewFeed(),
		viewW:    min(opts.MapWidth, maxViewW),
		viewH:    min(opts.MapHeight, maxViewH),
		offX:     borderWidth,
		offY:     borderWidth,
		dt:       m.Config().TickDT(),
		simSpeed: 1,
		showHUD:  true,
	}
	g.width = borderWidth + g.viewW + borderWidth + feedPanelWidth
	g.height = borderWidth + g.viewH + borderWidth

	m.SetUIBridge(g.overlay)
	sinks := game.MultiSink{g.feed}
	sinks = append(sinks, opts.Sinks...)
	m.SetEventSink(sinks)
	return g
}

// WindowSize returns the window size the view lays out for.
func (g *Game) WindowSize() (int, int) { return g.width, g.height }

// Feed returns the battle feed.
func (g *Game) Feed() *Feed { return g.feed }

func (g *Game) Update() error {
	in := decodeInput(readRawInput(), game.Point{X: float64(g.offX), Y: float64(g.offY)}, game.Point{X: g.camX, Y: g.camY})
	g.handleKeys()

	if g.statusTimer > 0 {
		g.statusTimer--
	}

	if g.simSpeed <= 0 {
		// Selection and orders still work while paused.
		g.m.PreUpdate(in)
		return nil
	}
	g.tickAccum += g.simSpeed
	first := true
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		if first {
			g.m.Frame(in, g.dt)
			first = false
		} else {
			g.m.Frame(carry(in), g.dt)
		}
	}
	if first {
		g.m.PreUpdate(in)
	}
	return nil
}

// handleKeys processes camera, speed and tool keys.
func (g *Game) handleKeys() {
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camY -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camY += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camX -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camX += panSpeed
	}
	g.camX = clampCamera(g.camX, g.opts.MapWidth, g.viewW)
	g.camY = clampCamera(g.camY, g.opts.MapHeight, g.viewH)

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		g.simSpeed = stepSpeed(g.simSpeed, -1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.simSpeed = stepSpeed(g.simSpeed, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.rawView = !g.rawView
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.copySnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.copyReport()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.quickSave()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		g.quickLoad()
	}
}

func clampCamera(v float64, mapSize, view int) float64 {
	return math.Max(0, math.Min(v, float64(mapSize-view)))
}

// stepSpeed moves one notch along speeds in direction dir.
func stepSpeed(cur float64, dir int) float64 {
	i := 0
	for i < len(speeds)-1 && speeds[i] < cur {
		i++
	}
	i += dir
	if i < 0 {
		i = 0
	}
	if i >= len(speeds) {
		i = len(speeds) - 1
	}
	return speeds[i]
}

func (g *Game) setStatus(format string, args ...any) {
	g.status = fmt.Sprintf(format, args...)
	g.statusTimer = statusLife
	log.Print(g.status)
}

func (g *Game) copySnapshot() {
	data, err := g.m.Snapshot().YAML()
	if err != nil {
		g.setStatus("snapshot: %v", err)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		g.setStatus("clipboard: %v", err)
		return
	}
	g.setStatus("snapshot copied (%d bytes)", len(data))
}

func (g *Game) copyReport() {
	report := g.m.Log().Summary(g.m) + "\n" + g.m.Stats().String()
	if err := clipboard.WriteAll(report); err != nil {
		g.setStatus("clipboard: %v", err)
		return
	}
	g.setStatus("report copied")
}

func (g *Game) quickSave() {
	if g.opts.Store == nil {
		g.setStatus("no store configured")
		return
	}
	if err := g.opts.Store.Save(context.Background(), g.opts.SaveName, g.m.Snapshot()); err != nil {
		g.setStatus("save: %v", err)
		return
	}
	g.setStatus("saved %q at tick %d", g.opts.SaveName, g.m.CurrentTick())
}

func (g *Game) quickLoad() {
	if g.opts.Store == nil {
		g.setStatus("no store configured")
		return
	}
	s, err := g.opts.Store.Load(context.Background(), g.opts.SaveName)
	if err != nil {
		g.setStatus("load: %v", err)
		return
	}
	if err := g.m.Restore(s); err != nil {
		g.setStatus("restore: %v", err)
		return
	}
	g.setStatus("loaded %q at tick %d", g.opts.SaveName, s.Tick)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})
	g.drawWorld(screen)
	g.drawFrame(screen)
	g.feed.Draw(screen, g.offX+g.viewW+g.offX, g.height)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawInspector(screen)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
