package game

import "fmt"

// CursorState is the hover feedback reported to the UI.
type CursorState int

const (
	CursorStandard CursorState = iota
	CursorOnFriendly
	CursorOnEnemy
	CursorDrag
)

func (c CursorState) String() string {
	switch c {
	case CursorOnFriendly:
		return "friendly"
	case CursorOnEnemy:
		return "enemy"
	case CursorDrag:
		return "drag"
	default:
		return "standard"
	}
}

// UnitBars is the per-unit HP/mana bar state pushed to the UI.
type UnitBars struct {
	ID      UnitID
	Label   string
	Type    string
	Side    Side
	Pos     Point
	HP      float64
	MaxHP   float64
	Mana    float64
	MaxMana float64
	State   UnitState
}

// UIBridge receives observational UI updates. Implementations must not call
// back into the manager.
type UIBridge interface {
	SelectionChanged(rect Rect, dragging bool, selected []UnitID)
	CursorChanged(c CursorState)
	UnitBars(b UnitBars)
	UnitRemoved(id UnitID)
}

// NopBridge discards every update.
type NopBridge struct{}

func (NopBridge) SelectionChanged(Rect, bool, []UnitID) {}
func (NopBridge) CursorChanged(CursorState)             {}
func (NopBridge) UnitBars(UnitBars)                     {}
func (NopBridge) UnitRemoved(UnitID)                    {}

// EventKind tags fire-and-forget notifications.
type EventKind int

const (
	EventShoot EventKind = iota
	EventHit
	EventUnitDied
	EventSniperToggled
	EventInvisibilityToggled
	EventHeal
	EventBulletResolved
)

func (k EventKind) String() string {
	switch k {
	case EventShoot:
		return "shoot"
	case EventHit:
		return "hit"
	case EventUnitDied:
		return "unit_died"
	case EventSniperToggled:
		return "sniper_toggled"
	case EventInvisibilityToggled:
		return "invisibility_toggled"
	case EventHeal:
		return "heal"
	case EventBulletResolved:
		return "bullet_resolved"
	default:
		return "unknown"
	}
}

// Event is a notification about something that happened this tick.
type Event struct {
	Kind    EventKind
	Tick    int
	Unit    UnitID // actor
	Other   UnitID // target, victim or killer
	Side    Side
	Pos     Point
	Ability AbilityID
	Active  bool
	Amount  float64
	Outcome Outcome
	Label   string
}

// EventSink receives events. Notify must not block or call back into the
// manager.
type EventSink interface {
	Notify(e Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Notify(e Event) { f(e) }

// MultiSink fans an event out to several sinks in order.
type MultiSink []EventSink

func (ms MultiSink) Notify(e Event) {
	for _, s := range ms {
		if s != nil {
			s.Notify(e)
		}
	}
}

// Headline is the short feed line for e. Shots and bullet outcomes are too
// frequent for a feed and report false.
func (e Event) Headline() (string, bool) {
	switch e.Kind {
	case EventHit:
		return fmt.Sprintf("hit for %.0f", e.Amount), true
	case EventUnitDied:
		return "down", true
	case EventSniperToggled:
		return "sniper " + onOff(e.Active), true
	case EventInvisibilityToggled:
		return "cloak " + onOff(e.Active), true
	case EventHeal:
		return fmt.Sprintf("heals +%.0f", e.Amount), true
	default:
		return "", false
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
