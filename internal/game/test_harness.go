package game

import "fmt"

// TestSim is a headless simulation harness used by tests and the headless
// report. It wires a Manager to a NavGrid, a SimLog and an event recorder
// and steps it at a fixed timestep.
type TestSim struct {
	Width     int
	Height    int
	buildings []Rect
	cfg       Config
	registry  *Registry
	paths     Pathfinder
	NavGrid   *NavGrid
	Manager   *Manager
	SimLog    *SimLog
	Events    []Event
	Bars      map[UnitID]UnitBars
	Removed   []UnitID

	spawns []spawn
}

type spawn struct {
	typ   string
	x, y  float64
	enemy bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // map size, buildings, config, verbose
	simOptUnit                       // units, placed after the manager exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithMapSize sets the playfield dimensions.
func WithMapSize(w, h int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Width = w
		ts.Height = h
	}}
}

// WithBuilding adds an obstacle.
func WithBuilding(x, y, w, h float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.buildings = append(ts.buildings, Rect{X: x, Y: y, W: w, H: h})
	}}
}

// WithConfig edits the engine config before the manager is built.
func WithConfig(edit func(*Config)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		edit(&ts.cfg)
	}}
}

// WithRegistry replaces the embedded unit registry.
func WithRegistry(r *Registry) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.registry = r
	}}
}

// WithPathfinder replaces the nav grid as the manager's pathfinder.
func WithPathfinder(p Pathfinder) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.paths = p
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithFriendly places a friendly unit of type typ.
func WithFriendly(typ string, x, y float64) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.spawns = append(ts.spawns, spawn{typ, x, y, false})
	}}
}

// WithEnemy places an enemy unit of type typ.
func WithEnemy(typ string, x, y float64) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.spawns = append(ts.spawns, spawn{typ, x, y, true})
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (map size, buildings, config, verbose)
//  2. NavGrid and Manager
//  3. Units
//
// It panics when a unit type is unknown, which is a broken test.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Width:  640,
		Height: 480,
		cfg:    DefaultConfig(),
		SimLog: NewSimLog(false),
		Bars:   make(map[UnitID]UnitBars),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	if ts.registry == nil {
		reg, err := DefaultRegistry()
		if err != nil {
			panic(fmt.Sprintf("embedded unit registry: %v", err))
		}
		ts.registry = reg
	}
	ts.NavGrid = NewNavGrid(ts.Width, ts.Height, ts.buildings, 0)
	if ts.paths == nil {
		ts.paths = ts.NavGrid
	}
	ts.Manager = NewManager(ts.registry, ts.paths, ts.buildings, ts.cfg)
	ts.Manager.SetLog(ts.SimLog)
	ts.Manager.SetUIBridge(ts)
	ts.Manager.SetEventSink(SinkFunc(func(e Event) { ts.Events = append(ts.Events, e) }))

	for _, o := range opts {
		if o.kind == simOptUnit {
			o.fn(ts)
		}
	}
	for _, s := range ts.spawns {
		if _, ok := ts.Manager.CreateUnit(s.typ, s.x, s.y, s.enemy); !ok {
			panic(fmt.Sprintf("unknown unit type %q", s.typ))
		}
	}
	return ts
}

// SelectionChanged implements UIBridge.
func (ts *TestSim) SelectionChanged(Rect, bool, []UnitID) {}

// CursorChanged implements UIBridge.
func (ts *TestSim) CursorChanged(CursorState) {}

// UnitBars implements UIBridge.
func (ts *TestSim) UnitBars(b UnitBars) { ts.Bars[b.ID] = b }

// UnitRemoved implements UIBridge.
func (ts *TestSim) UnitRemoved(id UnitID) {
	delete(ts.Bars, id)
	ts.Removed = append(ts.Removed, id)
}

// Step runs one frame with the given input at the fixed timestep.
func (ts *TestSim) Step(in FrameInput) {
	ts.Manager.Frame(in, ts.cfg.TickDT())
}

// RunTicks advances the simulation n frames with no input.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Step(FrameInput{})
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Step(FrameInput{})
		if predicate(ts) {
			return ts.Manager.CurrentTick()
		}
	}
	return -1
}

// Unit returns the unit with the given label, e.g. "F0" or "E2".
func (ts *TestSim) Unit(label string) *Unit {
	for _, u := range ts.Manager.AllUnits() {
		if u.label == label {
			return u
		}
	}
	return nil
}

// ID returns the handle of the unit with the given label, or zero.
func (ts *TestSim) ID(label string) UnitID {
	if u := ts.Unit(label); u != nil {
		return u.id
	}
	return 0
}

// CountEvents returns how many recorded events have kind k.
func (ts *TestSim) CountEvents(k EventKind) int {
	n := 0
	for _, e := range ts.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// CheckLinks verifies that target and attacker links are mutual and that no
// live unit references a released one.
func (m *Manager) CheckLinks() error {
	for _, u := range m.AllUnits() {
		if u.target != 0 {
			t, ok := m.units.Get(Handle(u.target))
			if !ok {
				return fmt.Errorf("%s targets a released unit", u.label)
			}
			if !containsID(t.attackers, u.id) {
				return fmt.Errorf("%s targets %s but is not in its attackers", u.label, t.label)
			}
		}
		for _, a := range u.attackers {
			au, ok := m.units.Get(Handle(a))
			if !ok {
				return fmt.Errorf("%s lists a released attacker", u.label)
			}
			if au.target != u.id {
				return fmt.Errorf("%s lists %s as attacker but its target differs", u.label, au.label)
			}
		}
	}
	for _, id := range m.selected {
		u, ok := m.units.Get(Handle(id))
		if !ok || u.side != SideFriendly {
			return fmt.Errorf("selection holds a non-friendly or released unit")
		}
	}
	return nil
}
