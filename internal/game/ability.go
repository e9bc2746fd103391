package game

import "strings"

// AbilityID names an ability class.
type AbilityID int

const (
	AbilityNone AbilityID = iota
	AbilityInvisibility
	AbilitySniper
	AbilityHeal
	abilityCount
)

func (a AbilityID) String() string {
	switch a {
	case AbilityInvisibility:
		return "invisibility"
	case AbilitySniper:
		return "sniper"
	case AbilityHeal:
		return "heal"
	default:
		return "none"
	}
}

// ParseAbility maps an ability name to its id.
func ParseAbility(s string) (AbilityID, bool) {
	for a := AbilityInvisibility; a < abilityCount; a++ {
		if a.String() == s {
			return a, true
		}
	}
	return AbilityNone, false
}

// continuous reports whether the ability stays active until stopped.
func (a AbilityID) continuous() bool {
	return a == AbilityInvisibility || a == AbilitySniper
}

// AbilitySet is a bit set of ability ids.
type AbilitySet uint8

func (s AbilitySet) Has(a AbilityID) bool { return a > AbilityNone && s&(1<<a) != 0 }

func (s AbilitySet) With(a AbilityID) AbilitySet { return s | 1<<a }

// List returns the members in id order.
func (s AbilitySet) List() []AbilityID {
	var out []AbilityID
	for a := AbilityInvisibility; a < abilityCount; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s AbilitySet) String() string {
	names := make([]string, 0, 3)
	for _, a := range s.List() {
		names = append(names, a.String())
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

// Active reports whether a continuous ability is currently on.
func (u *Unit) Active(a AbilityID) bool {
	switch a {
	case AbilityInvisibility:
		return u.invisible
	case AbilitySniper:
		return u.sniping
	}
	return false
}

// UseAbility activates a, choosing a target automatically where one is
// needed. It fails without any state change when the unit lacks the ability,
// is dead, the ability is already active or cooling down, or mana is below
// the cost.
func (u *Unit) UseAbility(a AbilityID) bool {
	return u.useAbility(a, 0)
}

// UseAbilityOn activates a against an explicit target.
func (u *Unit) UseAbilityOn(a AbilityID, target UnitID) bool {
	return u.useAbility(a, target)
}

func (u *Unit) useAbility(a AbilityID, target UnitID) bool {
	def, defined := u.m.registry.Ability(a)
	reason := ""
	switch {
	case !defined || !u.abilities.Has(a):
		reason = "not available"
	case !u.Alive():
		reason = "dead"
	case u.Active(a):
		reason = "already active"
	case u.abilityCD[a] > 0:
		reason = "cooldown"
	case u.mana < def.Cost:
		reason = "insufficient mana"
	case a == AbilitySniper && !u.m.pool.CanActivate(u.m.cfg.TickDT()):
		reason = "sniper pool empty"
	}

	var healTarget *Unit
	if reason == "" && a == AbilityHeal {
		var ok bool
		healTarget, ok = u.healTarget(def, target)
		if !ok {
			reason = "no heal target"
		}
	}
	if reason != "" {
		u.m.stats.AbilitiesDenied++
		u.m.logf(u, "ability", "denied", u.mana, "%s: %s", a, reason)
		return false
	}

	u.mana -= def.Cost
	u.abilityCD[a] = def.Cooldown
	u.m.stats.AbilitiesUsed++
	u.m.logf(u, "ability", "used", def.Cost, "%s", a)

	switch a {
	case AbilityInvisibility:
		u.setInvisible(true)
	case AbilitySniper:
		u.setSniping(true)
	case AbilityHeal:
		restored := healTarget.Heal(def.Amount)
		u.m.logf(u, "ability", "heal", restored, "%s +%.0f", healTarget.label, restored)
		u.m.notify(Event{Kind: EventHeal, Unit: u.id, Other: healTarget.id, Side: u.side, Pos: healTarget.pos, Amount: restored, Label: u.label})
	}
	return true
}

// healTarget resolves the unit to heal: an explicit same-side target within
// range, or else the most injured live friendly in range (self included).
func (u *Unit) healTarget(def AbilityDef, explicit UnitID) (*Unit, bool) {
	inReach := func(t *Unit) bool {
		return t.side == u.side && TileDistance(u.Tile(), t.Tile()) <= def.Range
	}
	if explicit != 0 {
		t, ok := u.m.liveUnit(explicit)
		if !ok || !inReach(t) || t.hp >= t.maxHP {
			return nil, false
		}
		return t, true
	}
	var best *Unit
	bestRatio := 1.0
	for _, id := range u.m.sideList(u.side) {
		t, ok := u.m.liveUnit(id)
		if !ok || !inReach(t) {
			continue
		}
		if r := t.hp / t.maxHP; r < bestRatio {
			best, bestRatio = t, r
		}
	}
	return best, best != nil
}

// StopAbility switches a continuous ability off. Stopping an inactive
// ability is a no-op.
func (u *Unit) StopAbility(a AbilityID) bool {
	if !u.Active(a) {
		return false
	}
	switch a {
	case AbilityInvisibility:
		u.setInvisible(false)
	case AbilitySniper:
		u.setSniping(false)
	}
	return true
}

func (u *Unit) setInvisible(on bool) {
	if u.invisible == on {
		return
	}
	u.invisible = on
	u.m.logf(u, "ability", "invisibility", u.mana, "%t", on)
	u.m.notify(Event{Kind: EventInvisibilityToggled, Unit: u.id, Side: u.side, Pos: u.pos, Ability: AbilityInvisibility, Active: on, Label: u.label})
}

func (u *Unit) setSniping(on bool) {
	if u.sniping == on {
		return
	}
	u.sniping = on
	u.m.logf(u, "ability", "sniper", 0, "%t", on)
	u.m.notify(Event{Kind: EventSniperToggled, Unit: u.id, Side: u.side, Pos: u.pos, Ability: AbilitySniper, Active: on, Label: u.label})
}

// tickAbilities runs cooldowns, mana regeneration and invisibility drain.
// Regeneration pauses while invisible.
func (u *Unit) tickAbilities(dt float64) {
	for a := range u.abilityCD {
		if u.abilityCD[a] > 0 {
			u.abilityCD[a] = max(0, u.abilityCD[a]-dt)
		}
	}
	if !u.invisible {
		if u.mana < u.maxMana {
			u.mana = min(u.maxMana, u.mana+u.manaRegen*dt)
		}
		return
	}
	def, _ := u.m.registry.Ability(AbilityInvisibility)
	u.mana -= def.Drain * dt
	if u.mana <= 0 {
		u.mana = 0
		u.setInvisible(false)
	}
}
