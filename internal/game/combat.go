package game

// effectiveRange is the attack range in tiles, widened while sniping.
func (u *Unit) effectiveRange() int {
	if u.sniping {
		if def, ok := u.m.registry.Ability(AbilitySniper); ok && def.Range > 0 {
			return def.Range
		}
	}
	return u.proto.Range
}

// inRange compares the Chebyshev tile distance to t against the effective
// range.
func (u *Unit) inRange(t *Unit) bool {
	return TileDistance(u.Tile(), t.Tile()) <= u.effectiveRange()
}

// SetTarget links u to the opposing unit id, replacing any previous target.
// Both ends of the link are updated together. Units without a damaging
// attack never take a target.
func (u *Unit) SetTarget(id UnitID) bool {
	if !u.Alive() || id == 0 || id == u.id || u.proto.Damage <= 0 {
		return false
	}
	if id == u.target {
		return true
	}
	t, ok := u.m.liveUnit(id)
	if !ok || t.side == u.side {
		return false
	}
	u.unlinkTarget()
	u.target = id
	t.addAttacker(u.id)
	u.m.logf(u, "combat", "target", 0, "%s", t.label)
	return true
}

// DiscardTarget clears the target link. An attacking unit falls back to Move
// when a path remains, otherwise to Idle. Safe to call without a target.
func (u *Unit) DiscardTarget() {
	if u.target == 0 {
		return
	}
	u.unlinkTarget()
	if u.state == StateAttack {
		u.fallBack()
	}
}

// fallBack leaves Attack for Move when a path remains, otherwise for Idle.
func (u *Unit) fallBack() {
	if len(u.path) > 0 {
		u.setState(StateMove)
	} else {
		u.setState(StateIdle)
	}
}

// unlinkTarget clears both ends of the target link without a state change.
func (u *Unit) unlinkTarget() {
	if u.target == 0 {
		return
	}
	if t, ok := u.m.units.Get(Handle(u.target)); ok {
		t.removeAttacker(u.id)
	}
	u.target = 0
}

func (u *Unit) addAttacker(id UnitID) {
	for _, a := range u.attackers {
		if a == id {
			return
		}
	}
	u.attackers = append(u.attackers, id)
}

func (u *Unit) removeAttacker(id UnitID) {
	for i, a := range u.attackers {
		if a == id {
			u.attackers = append(u.attackers[:i], u.attackers[i+1:]...)
			return
		}
	}
}

// fire resolves one attack against t.
func (u *Unit) fire(t *Unit) {
	u.m.stats.Shots++
	u.m.notify(Event{Kind: EventShoot, Unit: u.id, Other: t.id, Side: u.side, Pos: u.pos, Label: u.label})
	switch {
	case u.sniping:
		dmg := u.proto.Damage
		if def, ok := u.m.registry.Ability(AbilitySniper); ok && def.Amount > 0 {
			dmg = def.Amount
		}
		u.m.spawnBullet(u, t, BulletSniper, dmg)
	case u.proto.Attack == AttackRanged:
		u.m.spawnBullet(u, t, BulletBallistic, u.proto.Damage)
	default:
		u.m.logf(u, "combat", "melee", u.proto.Damage, "%s", t.label)
		t.ApplyDamage(u.proto.Damage, u.id)
	}
}

// ApplyDamage subtracts amount from HP, floored at zero. A live source that
// targets u is registered as an attacker. An untargeted survivor that is not
// under a move order links back to a visible source; its state change waits
// for its own tick. At zero HP the unit dies.
func (u *Unit) ApplyDamage(amount float64, source UnitID) {
	if !u.Alive() || amount < 0 {
		return
	}
	u.resolving = true
	defer func() { u.resolving = false }()

	u.hp -= amount
	if u.hp < 0 {
		u.hp = 0
	}
	u.m.logf(u, "combat", "damage", amount, "hp %.0f/%.0f", u.hp, u.maxHP)

	src, srcOK := u.m.liveUnit(source)
	if srcOK && src.target == u.id {
		u.addAttacker(source)
	}
	if u.hp == 0 {
		u.die(source)
		return
	}
	if u.target == 0 && !u.forcedMove && srcOK && src.side != u.side && u.m.visibleTo(src, u.side) {
		u.SetTarget(source)
	}
}

// Heal restores amount HP, capped at max.
func (u *Unit) Heal(amount float64) float64 {
	if !u.Alive() || amount <= 0 {
		return 0
	}
	before := u.hp
	u.hp = min(u.maxHP, u.hp+amount)
	return u.hp - before
}

// die enters the terminal state and clears every link touching u. The unit
// stays addressable until the sweep.
func (u *Unit) die(killer UnitID) {
	u.setState(StateDie)
	u.unlinkTarget()
	for _, a := range u.Attackers() {
		if au, ok := u.m.units.Get(Handle(a)); ok && au.target == u.id {
			au.DiscardTarget()
		}
	}
	u.attackers = nil
	u.ClearPath()
	u.invisible = false
	if u.sniping {
		u.setSniping(false)
	}
	u.m.stats.UnitsDied[u.side]++
	u.m.logf(u, "lifecycle", "died", 0, "killed by %s", u.m.labelOf(killer))
	u.m.notify(Event{Kind: EventUnitDied, Unit: u.id, Other: killer, Side: u.side, Pos: u.pos, Label: u.label})
	u.m.RemoveUnit(u.id)
}
