package game

import (
	"testing"

	"github.com/Garsondee/Field-Command/assets"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

func TestScenario_Crossroads(t *testing.T) {
	sc, err := ParseScenario(assets.Scenario)
	if err != nil {
		t.Fatal(err)
	}
	reg, _ := DefaultRegistry()
	m, ng, err := sc.Build(reg, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if m.AliveCount(SideFriendly) != 8 || m.AliveCount(SideEnemy) != 8 {
		t.Fatalf("alive %d/%d, want 8/8", m.AliveCount(SideFriendly), m.AliveCount(SideEnemy))
	}
	if cols, rows := ng.Size(); cols != 80 || rows != 45 {
		t.Fatalf("grid %dx%d", cols, rows)
	}
	if len(m.Obstacles()) != 4 {
		t.Fatalf("%d obstacles", len(m.Obstacles()))
	}
	for _, u := range m.AllUnits() {
		if !ng.Walkable(u.Tile()) {
			t.Errorf("%s starts on a blocked tile %v", u.Label(), u.Tile())
		}
	}
}

func TestLoadSetup_Defaults(t *testing.T) {
	s, err := LoadSetup("", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if s.Scenario.Name != "crossroads" {
		t.Fatalf("scenario = %q", s.Scenario.Name)
	}
	if _, ok := s.Registry.Lookup("medic"); !ok {
		t.Fatal("default registry has no medic")
	}
	m, _, err := s.Build()
	if err != nil {
		t.Fatal(err)
	}
	if m.Config().TPS != s.Config.TPS {
		t.Fatalf("manager tps %d, setup tps %d", m.Config().TPS, s.Config.TPS)
	}
	if _, err := LoadSetup("", "/nonexistent/units.yaml", ""); err == nil {
		t.Fatal("missing units file loaded")
	}
}

func TestParseScenario_Strict(t *testing.T) {
	cases := map[string]string{
		"unknown key": "name: x\nmap: {width: 64, height: 64}\nweather: rain\n",
		"tiny map":    "name: x\nmap: {width: 8, height: 64}\n",
		"bad side":    "name: x\nmap: {width: 64, height: 64}\nunits:\n  - {type: marine, side: neutral, x: 1, y: 1}\n",
	}
	for name, doc := range cases {
		if _, err := ParseScenario([]byte(doc)); err == nil {
			t.Errorf("%s: parsed without error", name)
		}
	}
}

func TestScenario_EngagementRuns(t *testing.T) {
	ts := newSim(t,
		WithFriendly("rifle", 60, 200),
		WithFriendly("rifle", 60, 240),
		WithEnemy("rifle", 400, 220),
	)
	ts.Manager.Select(ts.ID("F0"), ts.ID("F1"))
	ts.Manager.Engage(ts.ID("E0"))

	tick := ts.RunUntil(func(ts *TestSim) bool { return ts.Manager.AliveCount(SideEnemy) == 0 }, 3000)
	if tick < 0 {
		dumpLog(t, ts)
		t.Fatal("two rifles failed to kill one")
	}
	r := DetermineBattleOutcome(ts.Manager)
	if r.Outcome != BattleFriendlyVictory {
		t.Fatalf("outcome = %+v", r)
	}
	t.Log(ts.SimLog.Summary(ts.Manager))
}
