package game

import "testing"

func TestAbility_ManaGate(t *testing.T) {
	ts := newSim(t, WithFriendly("spook", 40, 40))
	u := ts.Unit("F0")

	u.mana = 5
	if u.UseAbility(AbilityInvisibility) {
		t.Fatal("activated with 5 mana against a cost of 10")
	}
	if u.Mana() != 5 || u.Invisible() {
		t.Fatalf("failed activation changed state: mana=%v invisible=%t", u.Mana(), u.Invisible())
	}
	if !ts.SimLog.HasEntry("ability", "denied", "insufficient mana") {
		t.Fatalf("denial not logged:\n%s", ts.SimLog.Format())
	}

	u.mana = 10
	if !u.UseAbility(AbilityInvisibility) {
		t.Fatal("activation with exact mana refused")
	}
	if u.Mana() != 0 || !u.Invisible() {
		t.Fatalf("mana=%v invisible=%t, want 0 and true", u.Mana(), u.Invisible())
	}
	if st := ts.Manager.Stats(); st.AbilitiesUsed != 1 || st.AbilitiesDenied != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestAbility_Refusals(t *testing.T) {
	ts := newSim(t,
		WithFriendly("spook", 40, 40),
		WithFriendly("rifle", 56, 40),
	)
	u, r := ts.Unit("F0"), ts.Unit("F1")
	u.mana = 100

	if !u.UseAbility(AbilityInvisibility) {
		t.Fatal("first activation refused")
	}
	if u.UseAbility(AbilityInvisibility) {
		t.Fatal("activated twice")
	}
	if !ts.SimLog.HasEntry("ability", "denied", "already active") {
		t.Fatal("already-active denial not logged")
	}

	u.StopAbility(AbilityInvisibility)
	if u.UseAbility(AbilityInvisibility) {
		t.Fatal("reactivated during cooldown")
	}
	if !ts.SimLog.HasEntry("ability", "denied", "cooldown") {
		t.Fatal("cooldown denial not logged")
	}
	if u.StopAbility(AbilityInvisibility) {
		t.Fatal("stopping an inactive ability reported success")
	}

	if r.UseAbility(AbilitySniper) {
		t.Fatal("unit used an ability it does not have")
	}
	if !ts.SimLog.HasEntry("ability", "denied", "not available") {
		t.Fatal("missing-ability denial not logged")
	}
}

func TestAbility_InvisibilityDrainsMana(t *testing.T) {
	ts := newSim(t, WithFriendly("spook", 40, 40))
	u := ts.Unit("F0")
	u.mana = 20
	u.UseAbility(AbilityInvisibility)

	tick := ts.RunUntil(func(*TestSim) bool { return !u.Invisible() }, 400)
	if tick < 290 || tick > 310 {
		t.Fatalf("invisibility ended at tick %d, want about 300", tick)
	}
	if u.Mana() != 0 {
		t.Fatalf("mana = %v after drain", u.Mana())
	}
	if ts.CountEvents(EventInvisibilityToggled) != 2 {
		t.Fatalf("toggle events = %d", ts.CountEvents(EventInvisibilityToggled))
	}
}

func TestAbility_InvisibleHiddenWithoutDetector(t *testing.T) {
	ts := newSim(t,
		WithFriendly("spook", 40, 40),
		WithEnemy("rifle", 104, 40),
	)
	f, e := ts.Unit("F0"), ts.Unit("E0")
	f.mana = 100

	ts.RunTicks(1)
	if e.Target() != f.ID() {
		t.Fatalf("enemy did not acquire the visible unit, target=%v", e.Target())
	}

	f.UseAbility(AbilityInvisibility)
	ts.RunTicks(1)
	if e.Target() != 0 {
		t.Fatal("enemy kept targeting an invisible unit")
	}
	if containsID(f.Attackers(), e.ID()) {
		t.Fatal("stale attacker link on the invisible unit")
	}
	mustLinks(t, ts)

	ts.RunTicks(30)
	if e.Target() != 0 {
		t.Fatal("enemy re-acquired an invisible unit")
	}

	if _, ok := ts.Manager.CreateUnit("scout", 120, 40, true); !ok {
		t.Fatal("create scout")
	}
	ts.RunTicks(1)
	if e.Target() != f.ID() {
		t.Fatal("detector did not reveal the invisible unit")
	}
	mustLinks(t, ts)
}

func TestAbility_HealMostInjured(t *testing.T) {
	ts := newSim(t,
		WithFriendly("medic", 40, 40),
		WithFriendly("rifle", 56, 40),
		WithFriendly("rifle", 72, 40),
	)
	med, a, b := ts.Unit("F0"), ts.Unit("F1"), ts.Unit("F2")
	a.hp = 40
	b.hp = 20

	if !med.UseAbility(AbilityHeal) {
		t.Fatal("heal refused")
	}
	if b.HP() != 45 || a.HP() != 40 {
		t.Fatalf("hp a=%v b=%v, want the most injured healed", a.HP(), b.HP())
	}
	if med.Mana() != 40 {
		t.Fatalf("mana = %v, want 40", med.Mana())
	}
	if med.UseAbility(AbilityHeal) {
		t.Fatal("heal ignored its cooldown")
	}

	ts.RunTicks(61)
	if !med.UseAbility(AbilityHeal) {
		t.Fatal("second heal refused")
	}
	if a.HP() != 50 || b.HP() != 45 {
		t.Fatalf("hp a=%v b=%v, want a healed and capped at 50", a.HP(), b.HP())
	}
	if ts.CountEvents(EventHeal) != 2 {
		t.Fatalf("heal events = %d", ts.CountEvents(EventHeal))
	}
}

func TestAbility_HealTargets(t *testing.T) {
	ts := newSim(t,
		WithFriendly("medic", 40, 40),
		WithFriendly("rifle", 300, 300),
		WithEnemy("dummy", 56, 56),
	)
	med, far, e := ts.Unit("F0"), ts.Unit("F1"), ts.Unit("E0")
	far.hp = 10
	e.hp = 10

	if med.UseAbility(AbilityHeal) {
		t.Fatal("healed with nobody injured in range")
	}
	if !ts.SimLog.HasEntry("ability", "denied", "no heal target") {
		t.Fatal("denial not logged")
	}
	if med.UseAbilityOn(AbilityHeal, e.ID()) {
		t.Fatal("healed an enemy")
	}
	if med.UseAbilityOn(AbilityHeal, far.ID()) {
		t.Fatal("healed out of range")
	}

	med.hp = 30
	if !med.UseAbility(AbilityHeal) || med.HP() != 50 {
		t.Fatalf("self heal failed, hp=%v", med.HP())
	}
	if med.Mana() != 40 {
		t.Fatalf("denied attempts spent mana: %v", med.Mana())
	}
}

func TestAbility_SelectionDispatch(t *testing.T) {
	ts := newSim(t,
		WithFriendly("spook", 40, 40),
		WithFriendly("rifle", 56, 40),
	)
	s, r := ts.Unit("F0"), ts.Unit("F1")
	ts.Manager.Select(s.ID(), r.ID())

	ts.Step(FrameInput{Ability: AbilityInvisibility})
	if !s.Invisible() {
		t.Fatal("selected spook did not turn invisible")
	}
	if ts.Manager.Stats().AbilitiesDenied != 1 {
		t.Fatalf("rifle denial not counted: %+v", ts.Manager.Stats())
	}

	ts.Step(FrameInput{StopAbility: AbilityInvisibility})
	if s.Invisible() {
		t.Fatal("stop command ignored")
	}
}

func TestAbilitySet(t *testing.T) {
	var s AbilitySet
	if s.String() != "-" || s.Has(AbilityNone) {
		t.Fatalf("empty set = %q", s)
	}
	s = s.With(AbilitySniper).With(AbilityInvisibility)
	if !s.Has(AbilitySniper) || s.Has(AbilityHeal) {
		t.Fatalf("membership wrong: %s", s)
	}
	if s.String() != "invisibility,sniper" {
		t.Fatalf("String = %q", s)
	}
	if a, ok := ParseAbility("heal"); !ok || a != AbilityHeal {
		t.Fatal("ParseAbility(heal)")
	}
	if _, ok := ParseAbility("teleport"); ok {
		t.Fatal("unknown ability parsed")
	}
}
