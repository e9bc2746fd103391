package game

// SniperPool is the one resource shared by every active sniper of both sides.
// It is debited once per tick by the manager before any unit acts.
type SniperPool struct {
	level    float64
	capacity float64
	drain    float64
	regen    float64
}

// NewSniperPool creates a full pool.
func NewSniperPool(c SniperPoolConfig) *SniperPool {
	return &SniperPool{level: c.Capacity, capacity: c.Capacity, drain: c.Drain, regen: c.Regen}
}

func (p *SniperPool) Level() float64    { return p.level }
func (p *SniperPool) Capacity() float64 { return p.capacity }

// SetLevel clamps and stores a level, e.g. from a snapshot.
func (p *SniperPool) SetLevel(v float64) {
	p.level = max(0, min(p.capacity, v))
}

// CanActivate reports whether the pool can pay one sniper's drain over a
// step of dt seconds.
func (p *SniperPool) CanActivate(dt float64) bool {
	return p.level > 0 && p.level >= p.drain*dt
}

// Drain applies dt seconds of demand for active snipers. When the demand would
// take the pool to zero or below, the pool is emptied and depleted is true:
// every active sniper must then be switched off. With no active sniper the
// pool regenerates.
func (p *SniperPool) Drain(active int, dt float64) (depleted bool) {
	if active == 0 {
		p.level = min(p.capacity, p.level+p.regen*dt)
		return false
	}
	demand := p.drain * float64(active) * dt
	if p.level > demand {
		p.level -= demand
		return false
	}
	p.level = 0
	return true
}

// drainSniperPool is the single per-tick debit of the shared pool.
func (m *Manager) drainSniperPool(dt float64) {
	var active []*Unit
	for _, side := range []Side{SideFriendly, SideEnemy} {
		for _, id := range m.sideList(side) {
			if u, ok := m.liveUnit(id); ok && u.sniping {
				active = append(active, u)
			}
		}
	}
	if !m.pool.Drain(len(active), dt) {
		return
	}
	m.logf(nil, "pool", "depleted", float64(len(active)), "%d snipers deactivated", len(active))
	for _, u := range active {
		u.setSniping(false)
	}
}
