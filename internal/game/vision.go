package game

// sideHasDetector reports whether side fields a live detector unit.
func (m *Manager) sideHasDetector(side Side) bool {
	for _, id := range m.sideList(side) {
		if u, ok := m.liveUnit(id); ok && u.proto.Detector {
			return true
		}
	}
	return false
}

// visibleTo is the targeting and hover predicate: an invisible unit is hidden
// from the other side unless that side has a detector.
func (m *Manager) visibleTo(u *Unit, observer Side) bool {
	if u.side == observer || !u.invisible {
		return true
	}
	return m.sideHasDetector(observer)
}

// validTarget reports whether u may keep engaging id.
func (m *Manager) validTarget(u *Unit, id UnitID) bool {
	t, ok := m.liveUnit(id)
	if !ok || t.side == u.side {
		return false
	}
	return m.visibleTo(t, u.side)
}

// VisibleEnemies returns the opposing units u can currently see: live,
// within vision range, not hidden by invisibility, with clear line of sight.
func (m *Manager) VisibleEnemies(u *Unit) []*Unit {
	var out []*Unit
	detector := m.sideHasDetector(u.side)
	from := u.Tile()
	for _, id := range m.sideList(u.side.Opponent()) {
		t, ok := m.liveUnit(id)
		if !ok {
			continue
		}
		if t.invisible && !detector {
			continue
		}
		if TileDistance(from, t.Tile()) > max(u.proto.Vision, u.effectiveRange()) {
			continue
		}
		if !HasLineOfSight(u.pos, t.pos, m.obstacles) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// nearestVisibleEnemy picks the closest visible opposing unit inside the
// effective attack range. Ties go to side-list order.
func (m *Manager) nearestVisibleEnemy(u *Unit) (*Unit, bool) {
	var best *Unit
	bestDist := 0.0
	rng := u.effectiveRange()
	for _, t := range m.VisibleEnemies(u) {
		if TileDistance(u.Tile(), t.Tile()) > rng {
			continue
		}
		d := u.pos.Dist(t.pos)
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, best != nil
}

// unitAt returns the unit whose bounds contain world point p and that the
// friendly side can see. Friendly units win over enemies.
func (m *Manager) unitAt(p Point) (*Unit, bool) {
	for _, side := range []Side{SideFriendly, SideEnemy} {
		for _, id := range m.sideList(side) {
			u, ok := m.liveUnit(id)
			if !ok || !m.visibleTo(u, SideFriendly) {
				continue
			}
			if u.Bounds().Contains(p) {
				return u, true
			}
		}
	}
	return nil, false
}
