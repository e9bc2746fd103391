package game

import "fmt"

// Side distinguishes the player's force from the opposing force.
type Side int

const (
	SideFriendly Side = iota
	SideEnemy
)

func (s Side) String() string {
	if s == SideEnemy {
		return "enemy"
	}
	return "friendly"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideEnemy {
		return SideFriendly
	}
	return SideEnemy
}

// ParseSide maps "friendly"/"enemy" to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "friendly":
		return SideFriendly, nil
	case "enemy":
		return SideEnemy, nil
	}
	return SideFriendly, fmt.Errorf("unknown side %q", s)
}

// UnitID is a generational handle to a unit. The zero value means none.
type UnitID Handle

// BulletID is a generational handle to a bullet. The zero value means none.
type BulletID Handle

// UnitState is the high-level behaviour state of a unit.
type UnitState int

const (
	StateIdle   UnitState = iota // initial
	StateMove                    // consuming the movement queue
	StateAttack                  // engaging a target in range
	StateDie                     // terminal, awaiting the sweep
)

func (s UnitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMove:
		return "move"
	case StateAttack:
		return "attack"
	case StateDie:
		return "die"
	default:
		return "unknown"
	}
}

// ParseUnitState maps a state name back to a UnitState.
func ParseUnitState(s string) (UnitState, error) {
	for _, st := range []UnitState{StateIdle, StateMove, StateAttack, StateDie} {
		if st.String() == s {
			return st, nil
		}
	}
	return StateIdle, fmt.Errorf("unknown unit state %q", s)
}

// Entity is the positional identity shared by units and bullets.
type Entity interface {
	Position() Point
	Tile() TilePoint
	Marked() bool
}

// Unit is a single controllable entity cloned from a Prototype. All cross
// references to other units are handles resolved through the manager.
type Unit struct {
	id    UnitID
	proto *Prototype
	side  Side
	label string
	m     *Manager

	pos       Point
	hp        float64
	maxHP     float64
	mana      float64
	maxMana   float64
	manaRegen float64

	// Movement queue, consumed from the front.
	path           []TilePoint
	hasDestination bool
	dest           TilePoint
	forcedMove     bool
	dir            Direction

	state     UnitState
	target    UnitID
	attackers []UnitID

	attackCooldown float64
	abilities      AbilitySet
	invisible      bool
	sniping        bool
	abilityCD      [abilityCount]float64

	resolving bool
	marked    bool

	// Last values pushed to the UI bridge.
	barHP, barMana float64
	barTile        TilePoint
	barPushed      bool
}

func newUnit(id UnitID, p *Prototype, side Side, label string, pos Point, m *Manager) *Unit {
	return &Unit{
		id:        id,
		proto:     p,
		side:      side,
		label:     label,
		m:         m,
		pos:       pos,
		hp:        p.HP,
		maxHP:     p.HP,
		mana:      p.Mana,
		maxMana:   p.MaxMana,
		manaRegen: p.ManaRegen,
		abilities: p.Abilities,
		state:     StateIdle,
	}
}

func (u *Unit) ID() UnitID              { return u.id }
func (u *Unit) Type() string            { return u.proto.Type }
func (u *Unit) Prototype() *Prototype   { return u.proto }
func (u *Unit) Side() Side              { return u.side }
func (u *Unit) Label() string           { return u.label }
func (u *Unit) Position() Point         { return u.pos }
func (u *Unit) Tile() TilePoint         { return TileOf(u.pos) }
func (u *Unit) HP() float64             { return u.hp }
func (u *Unit) MaxHP() float64          { return u.maxHP }
func (u *Unit) Mana() float64           { return u.mana }
func (u *Unit) MaxMana() float64        { return u.maxMana }
func (u *Unit) State() UnitState        { return u.state }
func (u *Unit) Direction() Direction    { return u.dir }
func (u *Unit) Target() UnitID          { return u.target }
func (u *Unit) Invisible() bool         { return u.invisible }
func (u *Unit) Sniping() bool           { return u.sniping }
func (u *Unit) Abilities() AbilitySet   { return u.abilities }
func (u *Unit) Marked() bool            { return u.marked }
func (u *Unit) HasDestination() bool    { return u.hasDestination }
func (u *Unit) Destination() TilePoint  { return u.dest }
func (u *Unit) AttackCooldown() float64 { return u.attackCooldown }
func (u *Unit) Alive() bool             { return u.state != StateDie && !u.marked }
func (u *Unit) Animation() string       { return u.proto.Animations[u.state.String()] }
func (u *Unit) AbilityCooldown(id AbilityID) float64 {
	if id <= AbilityNone || id >= abilityCount {
		return 0
	}
	return u.abilityCD[id]
}

// Attackers returns a copy of the units currently targeting u.
func (u *Unit) Attackers() []UnitID {
	return append([]UnitID(nil), u.attackers...)
}

// Path returns a copy of the remaining movement queue.
func (u *Unit) Path() []TilePoint {
	return append([]TilePoint(nil), u.path...)
}

// Bounds is the selection/hover box of the unit.
func (u *Unit) Bounds() Rect {
	r := u.m.cfg.UnitRadius
	return Rect{X: u.pos.X - r, Y: u.pos.Y - r, W: 2 * r, H: 2 * r}
}

// setState performs a transition. Die is terminal; while the unit is
// resolving a peer interaction only the transition to Die is allowed.
func (u *Unit) setState(s UnitState) bool {
	if u.state == s {
		return true
	}
	if u.state == StateDie {
		return false
	}
	if u.resolving && s != StateDie {
		return false
	}
	u.m.logf(u, "state", "transition", 0, "%s -> %s", u.state, s)
	u.state = s
	return true
}

// Update runs the per-tick state machine.
func (u *Unit) Update(dt float64) {
	if u.state == StateDie || u.marked {
		return
	}
	u.tickAbilities(dt)

	if u.target != 0 && !u.m.validTarget(u, u.target) {
		u.DiscardTarget()
	}
	if u.target == 0 && !u.forcedMove {
		if t, ok := u.m.nearestVisibleEnemy(u); ok {
			u.SetTarget(t.id)
		}
	}

	switch u.state {
	case StateIdle:
		u.updateIdle()
	case StateMove:
		u.updateMove(dt)
	case StateAttack:
		u.updateAttack(dt)
	}
	u.m.log.AddVerbose(u.m.tick, u.label, u.side.String(), "move", "position",
		fmt.Sprintf("(%.1f,%.1f)", u.pos.X, u.pos.Y), 0)
}

func (u *Unit) updateIdle() {
	if len(u.path) > 0 {
		u.setState(StateMove)
		return
	}
	if u.target == 0 {
		return
	}
	if t, ok := u.m.liveUnit(u.target); ok && u.inRange(t) {
		u.setState(StateAttack)
		return
	}
	// Idle units do not chase.
	u.DiscardTarget()
}

func (u *Unit) updateMove(dt float64) {
	if u.target != 0 {
		if t, ok := u.m.liveUnit(u.target); ok && u.inRange(t) {
			u.setState(StateAttack)
			return
		}
	}

	step := u.proto.Speed * dt
	for step > 0 && len(u.path) > 0 {
		c := u.path[0].Center()
		d := u.pos.Dist(c)
		if d <= step {
			u.pos = c
			step -= d
			u.path = u.path[1:]
			if len(u.path) > 0 {
				next := u.path[0].Center()
				u.dir = DirectionOf(next.X-u.pos.X, next.Y-u.pos.Y)
			}
			continue
		}
		u.pos = Point{u.pos.X + (c.X-u.pos.X)/d*step, u.pos.Y + (c.Y-u.pos.Y)/d*step}
		step = 0
	}
	if len(u.path) > 0 {
		return
	}

	u.hasDestination = false
	u.forcedMove = false
	u.m.logf(u, "move", "arrived", 0, "tile (%d,%d)", u.dest.X, u.dest.Y)
	if u.target == 0 {
		if t, ok := u.m.nearestVisibleEnemy(u); ok {
			u.SetTarget(t.id)
		}
	}
	if t, ok := u.m.liveUnit(u.target); ok && u.inRange(t) {
		u.setState(StateAttack)
		return
	}
	u.unlinkTarget()
	u.setState(StateIdle)
}

func (u *Unit) updateAttack(dt float64) {
	t, ok := u.m.liveUnit(u.target)
	if !ok {
		u.unlinkTarget()
		u.fallBack()
		return
	}
	if !u.inRange(t) {
		u.m.logf(u, "combat", "out_of_range", float64(TileDistance(u.Tile(), t.Tile())), "%s", t.label)
		u.DiscardTarget()
		return
	}
	u.dir = DirectionOf(t.pos.X-u.pos.X, t.pos.Y-u.pos.Y)
	u.attackCooldown -= dt
	if u.attackCooldown > 0 {
		return
	}
	u.fire(t)
	u.attackCooldown = u.proto.AttackPeriod
}

// SetPath replaces the movement queue. A leading point equal to the current
// tile is dropped. A non-empty queue moves an idle unit into Move.
func (u *Unit) SetPath(path []TilePoint) bool {
	if !u.Alive() || len(path) == 0 {
		return false
	}
	if path[0] == u.Tile() {
		path = path[1:]
	}
	u.path = append(u.path[:0:0], path...)
	if len(u.path) == 0 {
		u.hasDestination = false
		return true
	}
	u.hasDestination = true
	u.dest = u.path[len(u.path)-1]
	next := u.path[0].Center()
	u.dir = DirectionOf(next.X-u.pos.X, next.Y-u.pos.Y)
	if u.state == StateIdle {
		u.setState(StateMove)
	}
	return true
}

// ClearPath drops the remaining movement queue.
func (u *Unit) ClearPath() {
	u.path = nil
	u.hasDestination = false
	u.forcedMove = false
}
