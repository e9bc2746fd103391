package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SnapshotRecordName names the entity manager's save record.
const SnapshotRecordName = "entity_manager"

// ErrInvalidSnapshot is returned by Restore when a snapshot fails validation.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the saved state of the entity manager.
type Snapshot struct {
	Record    string       `yaml:"record" msgpack:"record"`
	ID        string       `yaml:"id" msgpack:"id"`
	Tick      int          `yaml:"tick" msgpack:"tick"`
	PoolLevel float64      `yaml:"sniper_pool" msgpack:"sniper_pool"`
	Units     []UnitRecord `yaml:"units" msgpack:"units"`
}

// UnitRecord is one saved unit. Target is an index into Snapshot.Units, or -1.
type UnitRecord struct {
	Type           string      `yaml:"type" msgpack:"type"`
	Side           string      `yaml:"side" msgpack:"side"`
	X              float64     `yaml:"x" msgpack:"x"`
	Y              float64     `yaml:"y" msgpack:"y"`
	HP             float64     `yaml:"hp" msgpack:"hp"`
	Mana           float64     `yaml:"mana" msgpack:"mana"`
	State          string      `yaml:"state" msgpack:"state"`
	Target         int         `yaml:"target" msgpack:"target"`
	Active         []string    `yaml:"active,omitempty" msgpack:"active"`
	Path           []TilePoint `yaml:"path,omitempty" msgpack:"path"`
	ForcedMove     bool        `yaml:"forced_move,omitempty" msgpack:"forced_move"`
	AttackCooldown float64     `yaml:"attack_cooldown,omitempty" msgpack:"attack_cooldown"`
}

// Snapshot captures every live unit in side-list order. Marked units and
// bullets in flight are not saved.
func (m *Manager) Snapshot() Snapshot {
	s := Snapshot{
		Record:    SnapshotRecordName,
		ID:        uuid.NewString(),
		Tick:      m.tick,
		PoolLevel: m.pool.Level(),
	}
	index := make(map[UnitID]int)
	var live []*Unit
	for _, u := range m.AllUnits() {
		if !u.Alive() {
			continue
		}
		index[u.id] = len(live)
		live = append(live, u)
	}
	for _, u := range live {
		rec := UnitRecord{
			Type:           u.Type(),
			Side:           u.side.String(),
			X:              u.pos.X,
			Y:              u.pos.Y,
			HP:             u.hp,
			Mana:           u.mana,
			State:          u.state.String(),
			Target:         -1,
			Path:           u.Path(),
			ForcedMove:     u.forcedMove,
			AttackCooldown: u.attackCooldown,
		}
		if i, ok := index[u.target]; ok {
			rec.Target = i
		}
		for _, a := range []AbilityID{AbilityInvisibility, AbilitySniper} {
			if u.Active(a) {
				rec.Active = append(rec.Active, a.String())
			}
		}
		s.Units = append(s.Units, rec)
	}
	m.logf(nil, "save", "snapshot", float64(len(s.Units)), "%s", s.ID)
	return s
}

// YAML renders the snapshot as a YAML document.
func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

type restoredUnit struct {
	proto  *Prototype
	side   Side
	state  UnitState
	active AbilitySet
}

// Restore replaces all manager state with s. The snapshot is validated in
// full first; on error nothing is changed.
func (m *Manager) Restore(s Snapshot) error {
	if s.Record != SnapshotRecordName {
		return fmt.Errorf("%w: record %q", ErrInvalidSnapshot, s.Record)
	}
	if s.PoolLevel < 0 || s.PoolLevel > m.pool.Capacity() {
		return fmt.Errorf("%w: sniper pool %.1f outside [0,%.1f]", ErrInvalidSnapshot, s.PoolLevel, m.pool.Capacity())
	}
	checked := make([]restoredUnit, len(s.Units))
	for i, r := range s.Units {
		p, ok := m.registry.Lookup(r.Type)
		if !ok {
			return fmt.Errorf("%w: unit %d: %w %q", ErrInvalidSnapshot, i, ErrUnknownUnitType, r.Type)
		}
		side, err := ParseSide(r.Side)
		if err != nil {
			return fmt.Errorf("%w: unit %d: %v", ErrInvalidSnapshot, i, err)
		}
		st, err := ParseUnitState(r.State)
		if err != nil || st == StateDie {
			return fmt.Errorf("%w: unit %d: bad state %q", ErrInvalidSnapshot, i, r.State)
		}
		if r.HP <= 0 || r.HP > p.HP {
			return fmt.Errorf("%w: unit %d: hp %.1f outside (0,%.1f]", ErrInvalidSnapshot, i, r.HP, p.HP)
		}
		if r.Mana < 0 || r.Mana > p.MaxMana {
			return fmt.Errorf("%w: unit %d: mana %.1f outside [0,%.1f]", ErrInvalidSnapshot, i, r.Mana, p.MaxMana)
		}
		var active AbilitySet
		for _, name := range r.Active {
			a, ok := ParseAbility(name)
			if !ok || !a.continuous() || !p.Abilities.Has(a) {
				return fmt.Errorf("%w: unit %d: ability %q cannot be active", ErrInvalidSnapshot, i, name)
			}
			active = active.With(a)
		}
		checked[i] = restoredUnit{proto: p, side: side, state: st, active: active}
	}
	for i, r := range s.Units {
		if r.Target == -1 {
			continue
		}
		if r.Target < 0 || r.Target >= len(s.Units) || r.Target == i {
			return fmt.Errorf("%w: unit %d: target index %d", ErrInvalidSnapshot, i, r.Target)
		}
		if checked[r.Target].side == checked[i].side {
			return fmt.Errorf("%w: unit %d: targets its own side", ErrInvalidSnapshot, i)
		}
	}

	m.reset()
	ids := make([]UnitID, len(s.Units))
	for i, r := range s.Units {
		c := checked[i]
		id, _ := m.CreateUnit(c.proto.Type, r.X, r.Y, c.side == SideEnemy)
		ids[i] = id
		u, _ := m.units.Get(Handle(id))
		u.hp = r.HP
		u.mana = r.Mana
		u.attackCooldown = r.AttackCooldown
		u.path = append([]TilePoint(nil), r.Path...)
		if len(u.path) > 0 {
			u.hasDestination = true
			u.dest = u.path[len(u.path)-1]
			next := u.path[0].Center()
			u.dir = DirectionOf(next.X-u.pos.X, next.Y-u.pos.Y)
		}
		u.forcedMove = r.ForcedMove && u.hasDestination
		u.state = c.state
		u.invisible = c.active.Has(AbilityInvisibility)
		u.sniping = c.active.Has(AbilitySniper)
	}
	for i, r := range s.Units {
		if r.Target >= 0 {
			u, _ := m.units.Get(Handle(ids[i]))
			u.SetTarget(ids[r.Target])
		}
	}
	m.pool.SetLevel(s.PoolLevel)
	m.tick = s.Tick
	m.logf(nil, "save", "restore", float64(len(s.Units)), "%s", s.ID)
	return nil
}

// reset drops every unit and bullet and all input state.
func (m *Manager) reset() {
	for _, u := range m.AllUnits() {
		m.ui.UnitRemoved(u.id)
	}
	m.units.Reset()
	m.bullets.Reset()
	m.friendly = m.friendly[:0]
	m.enemy = m.enemy[:0]
	m.selected = m.selected[:0]
	m.bulletOrder = m.bulletOrder[:0]
	m.unitsToRemove = m.unitsToRemove[:0]
	m.bulletsToRemove = m.bulletsToRemove[:0]
	m.input = inputState{}
	m.pending = pendingCommands{}
	m.nextLabel = [2]int{}
	m.stats = Stats{}
	m.ui.SelectionChanged(Rect{}, false, nil)
}
