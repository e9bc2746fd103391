package tty

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Field-Command/internal/game"
)

// abilityRunes binds ability keys. The upper-case rune stops the ability.
var abilityRunes = map[rune]game.AbilityID{
	'q': game.AbilityInvisibility,
	'e': game.AbilitySniper,
	'r': game.AbilityHeal,
}

// handle applies one terminal event. It reports false when the user quits.
func (c *Console) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return c.handleKey(ev)
	case *tcell.EventMouse:
		x, y := ev.Position()
		c.handleMouse(cellPos{x, y}, ev.Buttons())
	case *tcell.EventResize:
		c.screen.Sync()
		c.pan(0, 0)
	}
	return true
}

func (c *Console) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		c.pan(0, -1)
	case tcell.KeyDown:
		c.pan(0, 1)
	case tcell.KeyLeft:
		c.pan(-1, 0)
	case tcell.KeyRight:
		c.pan(1, 0)
	case tcell.KeyF5:
		c.save()
	case tcell.KeyF9:
		c.load()
	case tcell.KeyRune:
		c.handleRune(ev.Rune())
	}
	return true
}

func (c *Console) handleRune(r rune) {
	if a, ok := abilityRunes[r]; ok {
		c.pending.Ability = a
		return
	}
	if a, ok := abilityRunes[r+('a'-'A')]; ok && r >= 'A' && r <= 'Z' {
		c.pending.StopAbility = a
		return
	}
	switch r {
	case ' ':
		c.paused = !c.paused
	case 'n':
		if c.paused {
			c.stepOnce = true
		}
	case 'h':
		c.pan(-4, 0)
	case 'l':
		c.pan(4, 0)
	case 'k':
		c.pan(0, -4)
	case 'j':
		c.pan(0, 4)
	}
}

// handleMouse tracks the left button for drag selection and turns a right
// click into a move or engage order.
func (c *Console) handleMouse(p cellPos, buttons tcell.ButtonMask) {
	_, h := c.mapSize()
	if p.Y < headerRows || p.Y >= headerRows+h {
		return
	}
	c.cursor = p

	left := buttons&tcell.Button1 != 0
	switch {
	case left && !c.leftDown:
		c.dragStart = p
	case !left && c.leftDown:
		c.selectCells(c.dragStart, p)
	}
	c.leftDown = left

	right := buttons&tcell.Button2 != 0
	if right && !c.rightDown {
		c.pending.MoveOrder = true
	}
	c.rightDown = right
}

// drag returns the cells of the selection drag in progress.
func (c *Console) drag() (cellPos, cellPos, bool) {
	return c.dragStart, c.cursor, c.leftDown
}
