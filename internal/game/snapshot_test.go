package game

import (
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func snapshotSim(t *testing.T) *TestSim {
	t.Helper()
	ts := newSim(t,
		WithFriendly("rifle", 40, 40),
		WithFriendly("spook", 56, 56),
		WithEnemy("rifle", 104, 40),
		WithEnemy("dummy", 400, 400),
	)
	ts.Unit("F1").mana = 100
	ts.Unit("F1").UseAbility(AbilityInvisibility)
	ts.RunTicks(1)
	ts.Manager.Pool().SetLevel(123)
	return ts
}

func TestSnapshot_RoundTrip(t *testing.T) {
	ts := snapshotSim(t)
	if ts.Unit("F0").Target() != ts.ID("E0") {
		t.Fatal("setup: F0 not engaged")
	}
	s := ts.Manager.Snapshot()
	data, err := s.YAML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "record: entity_manager") {
		t.Fatalf("record name missing:\n%s", data)
	}
	var decoded Snapshot
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	fresh := newSim(t)
	if err := fresh.Manager.Restore(decoded); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n := len(fresh.Manager.AllUnits()); n != 4 {
		t.Fatalf("restored %d units, want 4", n)
	}
	for _, label := range []string{"F0", "F1", "E0", "E1"} {
		a, b := ts.Unit(label), fresh.Unit(label)
		if b == nil {
			t.Fatalf("%s missing after restore", label)
		}
		if a.Type() != b.Type() || a.Position() != b.Position() || a.HP() != b.HP() ||
			a.Mana() != b.Mana() || a.State() != b.State() || a.Invisible() != b.Invisible() {
			t.Fatalf("%s differs after restore", label)
		}
	}
	if fresh.Unit("F0").Target() != fresh.ID("E0") {
		t.Fatal("target link not rebuilt")
	}
	if !fresh.Unit("F1").Invisible() {
		t.Fatal("active ability not restored")
	}
	if fresh.Manager.Pool().Level() != 123 || fresh.Manager.CurrentTick() != ts.Manager.CurrentTick() {
		t.Fatal("pool level or tick not restored")
	}
	mustLinks(t, fresh)
}

func TestSnapshot_ExcludesMarked(t *testing.T) {
	ts := snapshotSim(t)
	ts.Unit("E1").ApplyDamage(1000, 0)
	s := ts.Manager.Snapshot()
	if len(s.Units) != 3 {
		t.Fatalf("snapshot holds %d units, want 3", len(s.Units))
	}
}

func TestRestore_InvalidLeavesStateUntouched(t *testing.T) {
	ts := snapshotSim(t)
	before := ts.Manager.Snapshot()

	bad := before
	bad.Units = append([]UnitRecord(nil), before.Units...)
	bad.Units[1].Type = "zealot"
	err := ts.Manager.Restore(bad)
	if !errors.Is(err, ErrInvalidSnapshot) || !errors.Is(err, ErrUnknownUnitType) {
		t.Fatalf("err = %v", err)
	}

	cases := map[string]func(*Snapshot){
		"record":   func(s *Snapshot) { s.Record = "tilemap" },
		"pool":     func(s *Snapshot) { s.PoolLevel = -1 },
		"side":     func(s *Snapshot) { s.Units[0].Side = "neutral" },
		"dead":     func(s *Snapshot) { s.Units[0].State = "die" },
		"hp":       func(s *Snapshot) { s.Units[0].HP = 1e6 },
		"mana":     func(s *Snapshot) { s.Units[1].Mana = -3 },
		"ability":  func(s *Snapshot) { s.Units[0].Active = []string{"sniper"} },
		"target":   func(s *Snapshot) { s.Units[0].Target = 99 },
		"own side": func(s *Snapshot) { s.Units[0].Target = 1 },
		"self":     func(s *Snapshot) { s.Units[2].Target = 2 },
	}
	for name, edit := range cases {
		s := before
		s.Units = append([]UnitRecord(nil), before.Units...)
		edit(&s)
		if err := ts.Manager.Restore(s); !errors.Is(err, ErrInvalidSnapshot) {
			t.Errorf("%s: err = %v, want ErrInvalidSnapshot", name, err)
		}
	}

	if len(ts.Manager.AllUnits()) != 4 || ts.Manager.Pool().Level() != 123 {
		t.Fatal("failed restore changed the manager")
	}
	if ts.Unit("F0").Target() != ts.ID("E0") {
		t.Fatal("failed restore dropped links")
	}
	mustLinks(t, ts)
}
