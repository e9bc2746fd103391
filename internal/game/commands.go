package game

// FrameInput is one frame of pointer and keyboard intent, already decoded by
// the front-end. Cursor is in screen space; Camera is the world position of
// the screen origin.
type FrameInput struct {
	Cursor         Point
	Camera         Point
	SelectPressed  bool
	SelectHeld     bool
	SelectReleased bool
	MoveOrder      bool
	Ability        AbilityID
	StopAbility    AbilityID
}

// pendingCommands holds at most one command of each kind for the selection.
// A newer command of a kind replaces the older one.
type pendingCommands struct {
	move    bool
	dst     Point
	engage  UnitID
	ability AbilityID
	stop    AbilityID
}

// IssueMove queues a group move of the selection to dst.
func (m *Manager) IssueMove(dst Point) {
	m.pending.move = true
	m.pending.dst = dst
	m.pending.engage = 0
}

// Engage queues a move of the selection onto an enemy with that enemy as the
// explicit target.
func (m *Manager) Engage(target UnitID) bool {
	t, ok := m.liveUnit(target)
	if !ok || t.side != SideEnemy {
		return false
	}
	m.pending.move = true
	m.pending.dst = t.pos
	m.pending.engage = target
	return true
}

// IssueAbility queues an ability activation for every selected unit.
func (m *Manager) IssueAbility(a AbilityID) { m.pending.ability = a }

// IssueStop queues a deactivation of a continuous ability for the selection.
func (m *Manager) IssueStop(a AbilityID) { m.pending.stop = a }

// dispatch applies the pending commands to the current selection.
func (m *Manager) dispatch() {
	p := m.pending
	m.pending = pendingCommands{}

	var movers []*Unit
	for _, id := range m.selected {
		if u, ok := m.liveUnit(id); ok {
			movers = append(movers, u)
		}
	}
	if p.move && len(movers) > 0 {
		m.assignGroupPath(movers, p.dst, p.engage)
	}
	if p.ability != AbilityNone {
		for _, u := range movers {
			u.UseAbility(p.ability)
		}
	}
	if p.stop != AbilityNone {
		for _, u := range movers {
			u.StopAbility(p.stop)
		}
	}
}

// MoveUnits sends the given units as one group to dst immediately.
func (m *Manager) MoveUnits(ids []UnitID, dst Point) {
	var movers []*Unit
	for _, id := range ids {
		if u, ok := m.liveUnit(id); ok {
			movers = append(movers, u)
		}
	}
	m.assignGroupPath(movers, dst, 0)
}

// assignGroupPath spreads the group over a destination footprint and paths
// each unit on its own. A unit whose request fails keeps its previous orders.
func (m *Manager) assignGroupPath(units []*Unit, dst Point, engage UnitID) {
	if len(units) == 0 {
		return
	}
	starts := make([]Point, len(units))
	for i, u := range units {
		starts[i] = u.pos
	}
	gm := planGroupMove(starts, dst, m.formation, m.cfg.FormationMaxSpan, m.walkable)
	m.moveRect, m.destRect = gm.From, gm.To

	for i, u := range units {
		path, ok := m.paths.FindPath(u.Tile(), gm.Tiles[i])
		if !ok {
			m.stats.PathsFailed++
			m.logf(u, "move", "unreachable", 0, "(%d,%d)", gm.Tiles[i].X, gm.Tiles[i].Y)
			continue
		}
		u.DiscardTarget()
		u.SetPath(path)
		u.forcedMove = u.hasDestination
		m.logf(u, "move", "ordered", float64(len(path)), "(%d,%d)", gm.Tiles[i].X, gm.Tiles[i].Y)
		if engage != 0 {
			u.SetTarget(engage)
		}
	}
}

// walkable consults the pathfinder when it exposes tile walkability.
func (m *Manager) walkable(t TilePoint) bool {
	if w, ok := m.paths.(interface{ Walkable(TilePoint) bool }); ok {
		return w.Walkable(t)
	}
	return true
}
