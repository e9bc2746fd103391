package view

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Field-Command/internal/game"
)

// abilityKeys binds ability hotkeys. Shift plus the key stops the ability.
var abilityKeys = []struct {
	key     ebiten.Key
	ability game.AbilityID
}{
	{ebiten.KeyQ, game.AbilityInvisibility},
	{ebiten.KeyE, game.AbilitySniper},
	{ebiten.KeyR, game.AbilityHeal},
}

// rawInput is one frame of device state, screen space.
type rawInput struct {
	cursorX, cursorY int
	leftPressed      bool
	leftHeld         bool
	leftReleased     bool
	rightPressed     bool
	shift            bool
	ability          game.AbilityID
}

func readRawInput() rawInput {
	var r rawInput
	r.cursorX, r.cursorY = ebiten.CursorPosition()
	r.leftPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	r.leftHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	r.leftReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	r.rightPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	r.shift = ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, b := range abilityKeys {
		if inpututil.IsKeyJustPressed(b.key) {
			r.ability = b.ability
			break
		}
	}
	return r
}

// decodeInput turns device state into a FrameInput. origin is the screen
// position of the playfield's top-left corner; camera is the world position
// shown there.
func decodeInput(r rawInput, origin, camera game.Point) game.FrameInput {
	in := game.FrameInput{
		Cursor:         game.Point{X: float64(r.cursorX) - origin.X, Y: float64(r.cursorY) - origin.Y},
		Camera:         camera,
		SelectPressed:  r.leftPressed,
		SelectHeld:     r.leftHeld,
		SelectReleased: r.leftReleased,
		MoveOrder:      r.rightPressed,
	}
	if r.ability != game.AbilityNone {
		if r.shift {
			in.StopAbility = r.ability
		} else {
			in.Ability = r.ability
		}
	}
	return in
}

// carry keeps the continuous part of in for extra ticks run in the same
// frame, so edge-triggered input is applied once.
func carry(in game.FrameInput) game.FrameInput {
	return game.FrameInput{
		Cursor:     in.Cursor,
		Camera:     in.Camera,
		SelectHeld: in.SelectHeld,
	}
}
