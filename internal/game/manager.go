package game

import (
	"fmt"
	"slices"
)

// Manager owns every unit and bullet and runs the per-frame phases:
// PreUpdate (input), Update (commands, pool, units, bullets) and PostUpdate
// (deferred destruction).
type Manager struct {
	cfg       Config
	registry  *Registry
	paths     Pathfinder
	obstacles []Rect
	formation FormationType

	units       *Arena[*Unit]
	bullets     *Arena[*Bullet]
	friendly    []UnitID
	enemy       []UnitID
	selected    []UnitID
	bulletOrder []BulletID

	unitsToRemove   []UnitID
	bulletsToRemove []BulletID

	pool *SniperPool

	input   inputState
	pending pendingCommands

	// Footprint of the last group move.
	moveRect Rect
	destRect Rect

	ui     UIBridge
	events EventSink
	log    *SimLog

	tick      int
	nextLabel [2]int
	stats     Stats
}

// NewManager creates an empty manager. cfg is assumed validated.
func NewManager(reg *Registry, paths Pathfinder, obstacles []Rect, cfg Config) *Manager {
	ft, _ := ParseFormation(cfg.Formation)
	return &Manager{
		cfg:       cfg,
		registry:  reg,
		paths:     paths,
		obstacles: obstacles,
		formation: ft,
		units:     NewArena[*Unit](64),
		bullets:   NewArena[*Bullet](128),
		pool:      NewSniperPool(cfg.SniperPool),
		ui:        NopBridge{},
		log:       NewSimLog(false),
	}
}

// SetUIBridge installs the UI collaborator and sends it the bars of every
// live unit. nil restores the no-op bridge.
func (m *Manager) SetUIBridge(b UIBridge) {
	if b == nil {
		b = NopBridge{}
	}
	m.ui = b
	for _, u := range m.AllUnits() {
		if !u.marked {
			u.barPushed = false
			m.pushBars(u)
		}
	}
}

// SetEventSink installs the event collaborator.
func (m *Manager) SetEventSink(s EventSink) { m.events = s }

// SetLog replaces the simulation log.
func (m *Manager) SetLog(l *SimLog) { m.log = l }

func (m *Manager) Log() *SimLog           { return m.log }
func (m *Manager) Config() Config         { return m.cfg }
func (m *Manager) Registry() *Registry    { return m.registry }
func (m *Manager) Obstacles() []Rect      { return m.obstacles }
func (m *Manager) Pool() *SniperPool      { return m.pool }
func (m *Manager) Stats() Stats           { return m.stats }
func (m *Manager) CurrentTick() int       { return m.tick }
func (m *Manager) MoveRect() (Rect, Rect) { return m.moveRect, m.destRect }

// CreateUnit clones the prototype typ at (x, y) onto a side. An unknown type
// returns the zero handle and false.
func (m *Manager) CreateUnit(typ string, x, y float64, isEnemy bool) (UnitID, bool) {
	p, ok := m.registry.Lookup(typ)
	if !ok {
		m.log.Add(m.tick, "--", "--", "lifecycle", "unknown_type", typ, 0)
		return 0, false
	}
	side := SideFriendly
	prefix := "F"
	if isEnemy {
		side, prefix = SideEnemy, "E"
	}
	label := fmt.Sprintf("%s%d", prefix, m.nextLabel[side])
	m.nextLabel[side]++

	u := newUnit(0, p, side, label, Point{x, y}, m)
	u.id = UnitID(m.units.Insert(u))
	if side == SideEnemy {
		m.enemy = append(m.enemy, u.id)
	} else {
		m.friendly = append(m.friendly, u.id)
	}
	m.stats.UnitsCreated[side]++
	m.logf(u, "lifecycle", "created", u.hp, "%s at (%.0f,%.0f)", typ, x, y)
	m.pushBars(u)
	return u.id, true
}

// RemoveUnit marks a unit for destruction at the next PostUpdate. Marking an
// already marked unit is a no-op, and no link is touched until the sweep.
func (m *Manager) RemoveUnit(id UnitID) {
	u, ok := m.units.Get(Handle(id))
	if !ok || u.marked {
		return
	}
	u.marked = true
	m.unitsToRemove = append(m.unitsToRemove, id)
	m.logf(u, "lifecycle", "marked", 0, "%s", u.state)
}

// RemoveBullet marks a bullet for destruction at the next PostUpdate.
func (m *Manager) RemoveBullet(id BulletID) {
	b, ok := m.bullets.Get(Handle(id))
	if !ok || b.marked {
		return
	}
	b.marked = true
	m.bulletsToRemove = append(m.bulletsToRemove, id)
}

// Disband removes a live friendly unit on player request.
func (m *Manager) Disband(id UnitID) bool {
	u, ok := m.liveUnit(id)
	if !ok || u.side != SideFriendly {
		return false
	}
	m.logf(u, "lifecycle", "disband", 0, "")
	m.RemoveUnit(id)
	return true
}

// Unit resolves a handle. Marked units still resolve until the sweep.
func (m *Manager) Unit(id UnitID) (*Unit, bool) {
	return m.units.Get(Handle(id))
}

// liveUnit resolves a handle to a unit that may still take part in combat.
func (m *Manager) liveUnit(id UnitID) (*Unit, bool) {
	u, ok := m.units.Get(Handle(id))
	if !ok || !u.Alive() {
		return nil, false
	}
	return u, true
}

// Bullet resolves a bullet handle.
func (m *Manager) Bullet(id BulletID) (*Bullet, bool) {
	return m.bullets.Get(Handle(id))
}

func (m *Manager) sideList(s Side) []UnitID {
	if s == SideEnemy {
		return m.enemy
	}
	return m.friendly
}

// Units returns the units of a side in update order, marked ones included.
func (m *Manager) Units(s Side) []*Unit {
	ids := m.sideList(s)
	out := make([]*Unit, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.units.Get(Handle(id)); ok {
			out = append(out, u)
		}
	}
	return out
}

// AllUnits returns friendly then enemy units.
func (m *Manager) AllUnits() []*Unit {
	return append(m.Units(SideFriendly), m.Units(SideEnemy)...)
}

// Bullets returns the bullets in spawn order.
func (m *Manager) Bullets() []*Bullet {
	out := make([]*Bullet, 0, len(m.bulletOrder))
	for _, id := range m.bulletOrder {
		if b, ok := m.bullets.Get(Handle(id)); ok {
			out = append(out, b)
		}
	}
	return out
}

// Entities returns every bullet and unit still in the arenas, bullets
// first so a renderer walking the slice draws units on top.
func (m *Manager) Entities() []Entity {
	var out []Entity
	for _, b := range m.Bullets() {
		out = append(out, b)
	}
	for _, u := range m.AllUnits() {
		out = append(out, u)
	}
	return out
}

// AliveCount returns the live units of a side.
func (m *Manager) AliveCount(s Side) int {
	n := 0
	for _, id := range m.sideList(s) {
		if _, ok := m.liveUnit(id); ok {
			n++
		}
	}
	return n
}

// Frame runs the three phases of one frame.
func (m *Manager) Frame(in FrameInput, dt float64) {
	m.PreUpdate(in)
	m.Update(dt)
	m.PostUpdate()
}

// Update dispatches pending commands, drains the sniper pool once, ticks
// every unit in side-list order and every bullet in spawn order, then pushes
// bar changes. dt is scaled while a friendly unit snipes.
func (m *Manager) Update(dt float64) {
	m.tick++
	if m.friendlySniping() {
		dt *= m.cfg.BulletTime
	}
	m.dispatch()
	m.drainSniperPool(dt)

	for _, side := range []Side{SideFriendly, SideEnemy} {
		for _, id := range m.sideList(side) {
			u, ok := m.units.Get(Handle(id))
			if !ok || u.marked {
				continue
			}
			u.Update(dt)
		}
	}
	for _, id := range m.bulletOrder {
		b, ok := m.bullets.Get(Handle(id))
		if !ok || b.marked {
			continue
		}
		b.Update(m, dt)
	}
	for _, u := range m.AllUnits() {
		if !u.marked {
			m.pushBars(u)
		}
	}
}

// PostUpdate sweeps the deferred removal queues. Every link to a removed
// unit is cleared before its slot is released.
func (m *Manager) PostUpdate() {
	selectionChanged := false
	for _, id := range m.unitsToRemove {
		u, ok := m.units.Get(Handle(id))
		if !ok {
			continue
		}
		u.unlinkTarget()
		for _, a := range u.Attackers() {
			if au, ok := m.units.Get(Handle(a)); ok && au.target == id {
				au.DiscardTarget()
			}
		}
		for _, side := range []Side{SideFriendly, SideEnemy} {
			for _, pid := range m.sideList(side) {
				if p, ok := m.units.Get(Handle(pid)); ok && p.target == id {
					p.DiscardTarget()
				}
			}
		}
		if u.side == SideEnemy {
			m.enemy = slices.DeleteFunc(m.enemy, func(x UnitID) bool { return x == id })
		} else {
			m.friendly = slices.DeleteFunc(m.friendly, func(x UnitID) bool { return x == id })
		}
		if i := slices.Index(m.selected, id); i >= 0 {
			m.selected = slices.Delete(m.selected, i, i+1)
			selectionChanged = true
		}
		if m.input.hovered == id {
			m.input.hovered = 0
		}
		m.ui.UnitRemoved(id)
		m.log.Add(m.tick, u.label, u.side.String(), "lifecycle", "removed", u.Type(), 0)
		m.units.Release(Handle(id))
	}
	m.unitsToRemove = m.unitsToRemove[:0]

	for _, id := range m.bulletsToRemove {
		m.bulletOrder = slices.DeleteFunc(m.bulletOrder, func(x BulletID) bool { return x == id })
		m.bullets.Release(Handle(id))
	}
	m.bulletsToRemove = m.bulletsToRemove[:0]

	if selectionChanged {
		m.ui.SelectionChanged(m.input.rect, m.input.dragging, m.Selected())
	}
}

func (m *Manager) friendlySniping() bool {
	for _, id := range m.friendly {
		if u, ok := m.liveUnit(id); ok && u.sniping {
			return true
		}
	}
	return false
}

// pushBars forwards HP, mana or tile changes to the UI bridge.
func (m *Manager) pushBars(u *Unit) {
	tile := u.Tile()
	if u.barPushed && u.barHP == u.hp && int(u.barMana) == int(u.mana) && u.barTile == tile {
		return
	}
	u.barPushed = true
	u.barHP, u.barMana, u.barTile = u.hp, u.mana, tile
	m.ui.UnitBars(UnitBars{
		ID: u.id, Label: u.label, Type: u.Type(), Side: u.side, Pos: u.pos,
		HP: u.hp, MaxHP: u.maxHP, Mana: u.mana, MaxMana: u.maxMana, State: u.state,
	})
}

func (m *Manager) notify(e Event) {
	if m.events == nil {
		return
	}
	e.Tick = m.tick
	m.events.Notify(e)
}

// logf records an entry for u, or a global entry when u is nil.
func (m *Manager) logf(u *Unit, category, key string, num float64, format string, args ...any) {
	label, side := "--", "--"
	if u != nil {
		label, side = u.label, u.side.String()
	}
	m.log.Add(m.tick, label, side, category, key, fmt.Sprintf(format, args...), num)
}

func (m *Manager) labelOf(id UnitID) string {
	if u, ok := m.units.Get(Handle(id)); ok {
		return u.label
	}
	return "--"
}
