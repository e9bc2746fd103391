package game

import "testing"

func labels(units []*Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Label()
	}
	return out
}

func TestVisibleEnemies_RangeAndLOS(t *testing.T) {
	ts := newSim(t,
		WithBuilding(0, 80, 80, 20),
		WithFriendly("rifle", 40, 40),
		WithEnemy("dummy", 150, 40), // 7 tiles, clear
		WithEnemy("dummy", 200, 40), // 10 tiles, beyond vision
		WithEnemy("dummy", 40, 150), // 7 tiles, behind the wall
	)
	got := labels(ts.Manager.VisibleEnemies(ts.Unit("F0")))
	if len(got) != 1 || got[0] != "E0" {
		t.Fatalf("visible = %v, want [E0]", got)
	}
	if _, ok := ts.Manager.nearestVisibleEnemy(ts.Unit("F0")); ok {
		t.Fatal("acquired a target beyond attack range")
	}
}

func TestNearestVisibleEnemy(t *testing.T) {
	ts := newSim(t,
		WithFriendly("rifle", 40, 40),
		WithEnemy("dummy", 104, 40),
		WithEnemy("dummy", 40, 104),
		WithEnemy("dummy", 88, 72),
	)
	f := ts.Unit("F0")
	u, ok := ts.Manager.nearestVisibleEnemy(f)
	if !ok || u.Label() != "E2" {
		t.Fatalf("nearest = %v, want E2", u)
	}

	ts.Unit("E2").ApplyDamage(1000, 0)
	u, _ = ts.Manager.nearestVisibleEnemy(f)
	if u.Label() != "E0" {
		t.Fatalf("tie went to %s, want side-list order (E0)", u.Label())
	}
}

func TestVisibleTo_Detector(t *testing.T) {
	ts := newSim(t,
		WithFriendly("spook", 40, 40),
		WithEnemy("rifle", 104, 40),
	)
	f := ts.Unit("F0")
	f.invisible = true
	if !ts.Manager.visibleTo(f, SideFriendly) {
		t.Fatal("own side cannot see an invisible ally")
	}
	if ts.Manager.visibleTo(f, SideEnemy) {
		t.Fatal("invisible unit visible without a detector")
	}
	if len(ts.Manager.VisibleEnemies(ts.Unit("E0"))) != 0 {
		t.Fatal("VisibleEnemies lists an invisible unit")
	}

	sid, _ := ts.Manager.CreateUnit("scout", 300, 300, true)
	if !ts.Manager.visibleTo(f, SideEnemy) {
		t.Fatal("detector did not reveal")
	}
	s, _ := ts.Manager.Unit(sid)
	s.ApplyDamage(1000, 0)
	if ts.Manager.visibleTo(f, SideEnemy) {
		t.Fatal("dead detector still reveals")
	}
}
