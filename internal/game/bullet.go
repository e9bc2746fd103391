package game

// BulletKind selects the travel model of a bullet.
type BulletKind int

const (
	BulletBallistic BulletKind = iota // travels at bullet speed
	BulletSniper                      // resolves on its first tick
)

func (k BulletKind) String() string {
	if k == BulletSniper {
		return "sniper"
	}
	return "ballistic"
}

// Outcome is the single resolution of a bullet.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeHit
	OutcomeMiss
	OutcomeOutOfRange
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	case OutcomeOutOfRange:
		return "out_of_range"
	default:
		return "pending"
	}
}

// Bullet is a short-lived projectile spawned by a ranged attack.
type Bullet struct {
	id     BulletID
	source UnitID
	target UnitID
	side   Side
	kind   BulletKind

	origin    Point
	aim       Point
	pos       Point
	dir       Point // unit travel vector
	speed     float64
	damage    float64
	travelled float64
	maxRange  float64 // px for ballistic bullets
	rangeT    int     // tiles for sniper bullets

	outcome Outcome
	struck  UnitID
	marked  bool
}

func (b *Bullet) ID() BulletID       { return b.id }
func (b *Bullet) Source() UnitID     { return b.source }
func (b *Bullet) Side() Side         { return b.side }
func (b *Bullet) Kind() BulletKind   { return b.kind }
func (b *Bullet) Position() Point    { return b.pos }
func (b *Bullet) Tile() TilePoint    { return TileOf(b.pos) }
func (b *Bullet) Origin() Point      { return b.origin }
func (b *Bullet) Aim() Point         { return b.aim }
func (b *Bullet) Outcome() Outcome   { return b.outcome }
func (b *Bullet) Struck() UnitID     { return b.struck }
func (b *Bullet) Marked() bool       { return b.marked }
func (b *Bullet) Travelled() float64 { return b.travelled }

// spawnBullet fires a bullet from u at t's current position.
func (m *Manager) spawnBullet(u, t *Unit, kind BulletKind, damage float64) BulletID {
	b := &Bullet{
		source:   u.id,
		target:   t.id,
		side:     u.side,
		kind:     kind,
		origin:   u.pos,
		aim:      t.pos,
		pos:      u.pos,
		speed:    m.cfg.BulletSpeed,
		damage:   damage,
		maxRange: float64(u.effectiveRange()*tileSize) * m.cfg.BulletRangeScale,
		rangeT:   u.effectiveRange(),
	}
	if d := u.pos.Dist(t.pos); d > 1e-9 {
		b.dir = Point{(t.pos.X - u.pos.X) / d, (t.pos.Y - u.pos.Y) / d}
	}
	b.id = BulletID(m.bullets.Insert(b))
	m.bulletOrder = append(m.bulletOrder, b.id)
	m.logf(u, "bullet", "spawn", damage, "%s at %s", kind, t.label)
	return b.id
}

// Update advances the bullet and resolves it at most once.
func (b *Bullet) Update(m *Manager, dt float64) {
	if b.outcome != OutcomePending || b.marked {
		return
	}
	if b.kind == BulletSniper {
		b.resolveSniper(m)
		return
	}

	toAim := b.pos.Dist(b.aim)
	step := b.speed * dt
	reachedAim := false
	if step >= toAim {
		step, reachedAim = toAim, true
	}
	if left := b.maxRange - b.travelled; step >= left {
		step = max(left, 0)
		if step < toAim {
			reachedAim = false
		}
	}
	next := Point{b.pos.X + b.dir.X*step, b.pos.Y + b.dir.Y*step}

	tObs, hitObs := firstObstacleHit(b.pos, next, m.obstacles)
	victim, tUnit, hitUnit := m.firstUnitOnSegment(b.pos, next, b.side.Opponent())
	switch {
	case hitUnit && (!hitObs || tUnit <= tObs):
		b.advance(next, tUnit, step)
		b.resolve(m, OutcomeHit, victim)
		return
	case hitObs:
		b.advance(next, tObs, step)
		b.resolve(m, OutcomeMiss, nil)
		return
	}

	b.advance(next, 1, step)
	switch {
	case reachedAim:
		b.resolve(m, OutcomeMiss, nil)
	case b.travelled >= b.maxRange-1e-9:
		b.resolve(m, OutcomeOutOfRange, nil)
	}
}

// advance moves to parameter t of the segment pos->next.
func (b *Bullet) advance(next Point, t, step float64) {
	b.pos = Point{b.pos.X + (next.X-b.pos.X)*t, b.pos.Y + (next.Y-b.pos.Y)*t}
	b.travelled += step * t
}

// resolveSniper checks line of sight first, then range.
func (b *Bullet) resolveSniper(m *Manager) {
	t, ok := m.liveUnit(b.target)
	switch {
	case !ok:
		b.resolve(m, OutcomeMiss, nil)
	case !HasLineOfSight(b.origin, t.pos, m.obstacles):
		b.resolve(m, OutcomeMiss, nil)
	case TileDistance(TileOf(b.origin), t.Tile()) > b.rangeT:
		b.resolve(m, OutcomeOutOfRange, nil)
	default:
		b.pos = t.pos
		b.travelled = b.origin.Dist(t.pos)
		b.resolve(m, OutcomeHit, t)
	}
}

func (b *Bullet) resolve(m *Manager, o Outcome, victim *Unit) {
	b.outcome = o
	switch o {
	case OutcomeHit:
		m.stats.Hits++
	case OutcomeMiss:
		m.stats.Misses++
	case OutcomeOutOfRange:
		m.stats.OutOfRange++
	}
	label := "--"
	if victim != nil {
		b.struck = victim.id
		label = victim.label
	}
	m.log.Add(m.tick, m.labelOf(b.source), b.side.String(), "bullet", o.String(), label, b.damage)
	m.notify(Event{Kind: EventBulletResolved, Unit: b.source, Other: b.struck, Side: b.side, Pos: b.pos, Outcome: o, Amount: b.damage})
	if victim != nil {
		m.notify(Event{Kind: EventHit, Unit: b.source, Other: victim.id, Side: b.side, Pos: victim.pos, Amount: b.damage, Label: victim.label})
		victim.ApplyDamage(b.damage, b.source)
	}
	m.RemoveBullet(b.id)
}

// firstUnitOnSegment returns the live unit of side whose centre lies within
// the hit radius of segment a->b, nearest to a.
func (m *Manager) firstUnitOnSegment(a, b Point, side Side) (*Unit, float64, bool) {
	var best *Unit
	bestT := 0.0
	for _, id := range m.sideList(side) {
		u, ok := m.liveUnit(id)
		if !ok {
			continue
		}
		d, t := distToSegment(u.pos, a, b)
		if d > m.cfg.BulletHitRadius {
			continue
		}
		if best == nil || t < bestT {
			best, bestT = u, t
		}
	}
	return best, bestT, best != nil
}
