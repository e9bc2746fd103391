package spectate

import (
	"fmt"

	"github.com/Garsondee/Field-Command/internal/game"
)

// UnitView is the wire form of game.UnitBars.
type UnitView struct {
	ID      uint64  `json:"id"`
	Label   string  `json:"label"`
	Type    string  `json:"type"`
	Side    string  `json:"side"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	HP      float64 `json:"hp"`
	MaxHP   float64 `json:"max_hp"`
	Mana    float64 `json:"mana"`
	MaxMana float64 `json:"max_mana"`
	State   string  `json:"state"`
}

func unitView(b game.UnitBars) UnitView {
	return UnitView{
		ID:      uint64(b.ID),
		Label:   b.Label,
		Type:    b.Type,
		Side:    b.Side.String(),
		X:       b.Pos.X,
		Y:       b.Pos.Y,
		HP:      b.HP,
		MaxHP:   b.MaxHP,
		Mana:    b.Mana,
		MaxMana: b.MaxMana,
		State:   b.State.String(),
	}
}

// EventView is the wire form of game.Event.
type EventView struct {
	Kind    string  `json:"kind"`
	Tick    int     `json:"tick"`
	Unit    uint64  `json:"unit,omitempty"`
	Other   uint64  `json:"other,omitempty"`
	Label   string  `json:"label,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Ability string  `json:"ability,omitempty"`
	Active  bool    `json:"active,omitempty"`
	Amount  float64 `json:"amount,omitempty"`
	Outcome string  `json:"outcome,omitempty"`
}

func eventView(e game.Event) EventView {
	v := EventView{
		Kind:   e.Kind.String(),
		Tick:   e.Tick,
		Unit:   uint64(e.Unit),
		Other:  uint64(e.Other),
		Label:  e.Label,
		X:      e.Pos.X,
		Y:      e.Pos.Y,
		Active: e.Active,
		Amount: e.Amount,
	}
	if e.Ability != game.AbilityNone {
		v.Ability = e.Ability.String()
	}
	if e.Kind == game.EventBulletResolved {
		v.Outcome = e.Outcome.String()
	}
	return v
}

// SelectionView is the drag rectangle and current selection.
type SelectionView struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	W        float64  `json:"w"`
	H        float64  `json:"h"`
	Dragging bool     `json:"dragging"`
	Selected []uint64 `json:"selected"`
}

// Message is one server-to-client frame.
type Message struct {
	Type      string         `json:"type"`
	Client    string         `json:"client,omitempty"`
	Tick      int            `json:"tick"`
	Units     []UnitView     `json:"units,omitempty"`
	Removed   []uint64       `json:"removed,omitempty"`
	Events    []EventView    `json:"events,omitempty"`
	Selection *SelectionView `json:"selection,omitempty"`
	Cursor    string         `json:"cursor,omitempty"`
}

// Command is a client order. Coordinates are world pixels.
type Command struct {
	Client  string  `json:"-"`
	Type    string  `json:"type"` // select, move, engage, ability, stop
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Target  uint64  `json:"target"`
	Ability string  `json:"ability"`
}

// Apply executes c against m. It must run on the goroutine that steps m.
func (c Command) Apply(m *game.Manager) error {
	switch c.Type {
	case "select":
		r := game.RectFromPoints(game.Point{X: c.X, Y: c.Y}, game.Point{X: c.X2, Y: c.Y2})
		var ids []game.UnitID
		for _, u := range m.Units(game.SideFriendly) {
			if u.Bounds().Intersects(r) {
				ids = append(ids, u.ID())
			}
		}
		m.Select(ids...)
	case "move":
		m.IssueMove(game.Point{X: c.X, Y: c.Y})
	case "engage":
		if !m.Engage(game.UnitID(c.Target)) {
			return fmt.Errorf("engage: %d is not a live enemy", c.Target)
		}
	case "ability", "stop":
		a, ok := game.ParseAbility(c.Ability)
		if !ok {
			return fmt.Errorf("%s: unknown ability %q", c.Type, c.Ability)
		}
		if c.Type == "ability" {
			m.IssueAbility(a)
		} else {
			m.IssueStop(a)
		}
	default:
		return fmt.Errorf("unknown command %q", c.Type)
	}
	return nil
}
