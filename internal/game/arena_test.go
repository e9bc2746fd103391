package game

import "testing"

func TestArena_StaleHandle(t *testing.T) {
	a := NewArena[string](2)
	h1 := a.Insert("one")
	h2 := a.Insert("two")
	if v, ok := a.Get(h1); !ok || v != "one" {
		t.Fatalf("Get(h1) = %q, %t", v, ok)
	}
	if !a.Release(h1) {
		t.Fatal("release failed")
	}
	if a.Release(h1) {
		t.Fatal("double release succeeded")
	}

	h3 := a.Insert("three")
	if h3.index() != h1.index() {
		t.Fatalf("slot not reused: %d vs %d", h3.index(), h1.index())
	}
	if h3 == h1 {
		t.Fatal("reused slot kept its generation")
	}
	if _, ok := a.Get(h1); ok {
		t.Fatal("stale handle resolved to the new occupant")
	}
	if v, _ := a.Get(h2); v != "two" {
		t.Fatalf("Get(h2) = %q", v)
	}
	if a.Len() != 2 {
		t.Fatalf("Len = %d", a.Len())
	}
}

func TestArena_ZeroAndReset(t *testing.T) {
	a := NewArena[int](0)
	if _, ok := a.Get(0); ok {
		t.Fatal("zero handle resolved")
	}
	h := a.Insert(7)
	a.Reset()
	if _, ok := a.Get(h); ok {
		t.Fatal("handle survived reset")
	}
	if a.Len() != 0 {
		t.Fatalf("Len after reset = %d", a.Len())
	}
	if h2 := a.Insert(8); h2 == h {
		t.Fatal("handle reissued after reset")
	}
}

func TestManager_DeferredDestruction(t *testing.T) {
	ts := newSim(t,
		WithFriendly("rifle", 40, 40),
		WithEnemy("rifle", 104, 40),
	)
	f, e := ts.Unit("F0"), ts.Unit("E0")
	ts.RunTicks(1)
	if f.Target() != e.ID() || e.Target() != f.ID() {
		t.Fatal("units did not engage each other")
	}

	ts.Manager.RemoveUnit(e.ID())
	ts.Manager.RemoveUnit(e.ID())
	if len(ts.Manager.unitsToRemove) != 1 {
		t.Fatalf("unit queued %d times", len(ts.Manager.unitsToRemove))
	}
	if _, ok := ts.Manager.Unit(e.ID()); !ok {
		t.Fatal("marked unit released before the sweep")
	}
	if f.Target() != e.ID() {
		t.Fatal("links touched before the sweep")
	}
	mustLinks(t, ts)

	ts.Manager.Update(ts.Manager.Config().TickDT())
	if f.Target() != 0 {
		t.Fatal("peer kept targeting a marked unit")
	}
	ts.Manager.PostUpdate()
	if _, ok := ts.Manager.Unit(e.ID()); ok {
		t.Fatal("unit not released by the sweep")
	}
	if len(f.Attackers()) != 0 {
		t.Fatalf("dangling attacker %v", f.Attackers())
	}
	mustLinks(t, ts)

	id, _ := ts.Manager.CreateUnit("rifle", 300, 300, true)
	if Handle(id).index() != Handle(e.ID()).index() {
		t.Fatal("released slot not reused")
	}
	if _, ok := ts.Manager.Unit(e.ID()); ok {
		t.Fatal("stale unit handle resolved after reuse")
	}
}

func TestManager_KillSweepsEveryLink(t *testing.T) {
	ts := newSim(t,
		WithFriendly("rifle", 40, 40),
		WithFriendly("rifle", 40, 72),
		WithEnemy("dummy", 104, 56),
	)
	e := ts.Unit("E0")
	tick := ts.RunUntil(func(ts *TestSim) bool {
		if err := ts.Manager.CheckLinks(); err != nil {
			t.Fatalf("tick %d: %v", ts.Manager.CurrentTick(), err)
		}
		return ts.Manager.AliveCount(SideEnemy) == 0
	}, 2000)
	if tick < 0 {
		t.Fatalf("target survived, hp=%v", e.HP())
	}
	ts.RunTicks(1)
	if ts.Unit("E0") != nil {
		t.Fatal("dead unit still listed")
	}
	for _, f := range ts.Manager.Units(SideFriendly) {
		if f.Target() != 0 || f.State() != StateIdle {
			t.Fatalf("%s state=%s target=%v", f.Label(), f.State(), f.Target())
		}
	}
	if ts.CountEvents(EventUnitDied) != 1 {
		t.Fatalf("died events = %d", ts.CountEvents(EventUnitDied))
	}
}
