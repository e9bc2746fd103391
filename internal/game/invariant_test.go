package game

import (
	"fmt"
	"testing"

	"github.com/Garsondee/Field-Command/assets"
)

// checkInvariants verifies the per-frame guarantees of the manager after a
// full PreUpdate/Update/PostUpdate cycle.
func checkInvariants(m *Manager) error {
	if err := m.CheckLinks(); err != nil {
		return err
	}
	for _, u := range m.AllUnits() {
		if !u.Alive() {
			return fmt.Errorf("%s survived the sweep in state %s", u.label, u.state)
		}
		if u.hp <= 0 || u.hp > u.maxHP {
			return fmt.Errorf("%s hp %.2f outside (0,%.0f]", u.label, u.hp, u.maxHP)
		}
		if u.mana < 0 || u.mana > u.maxMana {
			return fmt.Errorf("%s mana %.2f outside [0,%.0f]", u.label, u.mana, u.maxMana)
		}
		if u.state == StateAttack && u.target == 0 {
			return fmt.Errorf("%s attacking without a target", u.label)
		}
		if u.sniping && !u.abilities.Has(AbilitySniper) {
			return fmt.Errorf("%s sniping without the ability", u.label)
		}
	}
	if l := m.pool.Level(); l < 0 || l > m.pool.Capacity() {
		return fmt.Errorf("sniper pool %.2f outside [0,%.0f]", l, m.pool.Capacity())
	}
	for _, side := range []Side{SideFriendly, SideEnemy} {
		if died, made, alive := m.stats.UnitsDied[side], m.stats.UnitsCreated[side], m.AliveCount(side); made-died != alive {
			return fmt.Errorf("%s: created %d died %d but %d alive", side, made, died, alive)
		}
	}
	if len(m.unitsToRemove) != 0 || len(m.bulletsToRemove) != 0 {
		return fmt.Errorf("removal queues not drained")
	}
	return nil
}

func TestInvariant_CrossroadsBattle(t *testing.T) {
	sc, err := ParseScenario(assets.Scenario)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := DefaultRegistry()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := ParseConfig(assets.Engine)
	if err != nil {
		t.Fatal(err)
	}
	m, _, err := sc.Build(reg, cfg)
	if err != nil {
		t.Fatal(err)
	}

	var friendly []UnitID
	for _, u := range m.Units(SideFriendly) {
		friendly = append(friendly, u.id)
	}
	m.Select(friendly...)
	m.IssueMove(Point{1000, 340})
	m.IssueAbility(AbilitySniper)

	dt := cfg.TickDT()
	for tick := 0; tick < 4000; tick++ {
		m.Frame(FrameInput{}, dt)
		if err := checkInvariants(m); err != nil {
			t.Fatalf("tick %d: %v\n%s", m.CurrentTick(), err, m.Log().FormatRange(m.CurrentTick()-5, m.CurrentTick()))
		}
		if m.AliveCount(SideFriendly) == 0 || m.AliveCount(SideEnemy) == 0 {
			break
		}
	}
	r := DetermineBattleOutcome(m)
	t.Logf("outcome %s (%s) after %d ticks\n%s", r.Outcome, r.Description, m.CurrentTick(), m.Stats())
	if m.Stats().Shots == 0 {
		t.Fatal("the sides never exchanged fire")
	}
}

func TestInvariant_SkirmishWithAbilities(t *testing.T) {
	ts := newSim(t,
		WithBuilding(200, 120, 48, 96),
		WithFriendly("rifle", 60, 140),
		WithFriendly("brawler", 60, 170),
		WithFriendly("spook", 40, 200),
		WithFriendly("medic", 40, 160),
		WithEnemy("rifle", 420, 150),
		WithEnemy("brawler", 420, 190),
		WithEnemy("spook", 440, 230),
		WithEnemy("scout", 460, 200),
	)
	for _, u := range ts.Manager.AllUnits() {
		u.mana = u.maxMana
	}
	ts.Unit("F2").UseAbility(AbilitySniper)
	ts.Unit("E2").UseAbility(AbilityInvisibility)

	ts.Manager.Select(ts.ID("F0"), ts.ID("F1"), ts.ID("F3"))
	ts.Manager.Engage(ts.ID("E0"))

	for i := 0; i < 3000; i++ {
		ts.RunTicks(1)
		if err := checkInvariants(ts.Manager); err != nil {
			t.Fatalf("tick %d: %v", ts.Manager.CurrentTick(), err)
		}
		if med := ts.Unit("F3"); med != nil && i%90 == 0 {
			med.UseAbility(AbilityHeal)
		}
	}
	if ts.Manager.Stats().Shots == 0 {
		t.Fatal("no shots fired")
	}
}
