package game

import (
	"math"
	"testing"
)

func TestSniperPool_Drain(t *testing.T) {
	p := NewSniperPool(SniperPoolConfig{Capacity: 3, Drain: 2, Regen: 60})
	if p.Drain(2, 0.5) {
		t.Fatal("depleted with level above demand")
	}
	if p.Level() != 1 {
		t.Fatalf("level = %v, want 1", p.Level())
	}
	if !p.Drain(2, 0.5) {
		t.Fatal("demand above level did not deplete")
	}
	if p.Level() != 0 || p.CanActivate(0.5) {
		t.Fatalf("level = %v, CanActivate = %t", p.Level(), p.CanActivate(0.5))
	}

	for i := 0; i < 2; i++ {
		p.Drain(0, 1.0/60)
	}
	if math.Abs(p.Level()-2) > 1e-9 {
		t.Fatalf("regen level = %v, want 2", p.Level())
	}
	for i := 0; i < 10; i++ {
		p.Drain(0, 1.0/60)
	}
	if p.Level() != 3 {
		t.Fatalf("regen overshot capacity: %v", p.Level())
	}

	p.SetLevel(-4)
	if p.Level() != 0 {
		t.Fatalf("SetLevel did not clamp: %v", p.Level())
	}
}

func TestSniperPool_DrainScalesWithStep(t *testing.T) {
	p := NewSniperPool(SniperPoolConfig{Capacity: 100, Drain: 10})
	p.Drain(1, 0.5)
	if p.Level() != 95 {
		t.Fatalf("half second of one sniper: level = %v, want 95", p.Level())
	}
	p.Drain(2, 0.25)
	if p.Level() != 90 {
		t.Fatalf("quarter second of two snipers: level = %v, want 90", p.Level())
	}

	p.SetLevel(4)
	if !p.CanActivate(0.25) || p.CanActivate(0.5) {
		t.Fatalf("CanActivate at level 4: 0.25s=%t 0.5s=%t", p.CanActivate(0.25), p.CanActivate(0.5))
	}
}

func TestSniperPool_ExactDemandDepletes(t *testing.T) {
	p := NewSniperPool(SniperPoolConfig{Capacity: 1, Drain: 1})
	if !p.CanActivate(1) {
		t.Fatal("full pool refuses activation")
	}
	if !p.Drain(1, 1) {
		t.Fatal("demand equal to level did not deplete")
	}
}

func TestSniperPool_DepletionDeactivatesAll(t *testing.T) {
	ts := newSim(t,
		WithConfig(func(c *Config) { c.SniperPool = SniperPoolConfig{Capacity: 1.5, Drain: 60} }),
		WithFriendly("spook", 40, 40),
		WithFriendly("spook", 56, 40),
	)
	a, b := ts.Unit("F0"), ts.Unit("F1")
	if !a.UseAbility(AbilitySniper) || !b.UseAbility(AbilitySniper) {
		t.Fatal("sniper activation refused")
	}

	ts.RunTicks(1)
	if a.Sniping() || b.Sniping() {
		t.Fatalf("sniping a=%t b=%t after depletion", a.Sniping(), b.Sniping())
	}
	if ts.Manager.Pool().Level() != 0 {
		t.Fatalf("pool = %v", ts.Manager.Pool().Level())
	}
	if !ts.SimLog.HasEntry("pool", "depleted", "2 snipers") {
		t.Fatalf("depletion not logged:\n%s", ts.SimLog.Format())
	}
	if n := ts.CountEvents(EventSniperToggled); n != 4 {
		t.Fatalf("toggle events = %d, want 4", n)
	}

	if a.UseAbility(AbilitySniper) {
		t.Fatal("activated against an empty pool")
	}
	if !ts.SimLog.HasEntry("ability", "denied", "sniper pool empty") {
		t.Fatal("empty-pool denial not logged")
	}
}

func TestSniperPool_DrainedOncePerTick(t *testing.T) {
	ts := newSim(t,
		WithConfig(func(c *Config) { c.SniperPool = SniperPoolConfig{Capacity: 3, Drain: 60} }),
		WithFriendly("spook", 40, 40),
		WithEnemy("spook", 600, 400),
	)
	a, b := ts.Unit("F0"), ts.Unit("E0")
	a.UseAbility(AbilitySniper)
	b.UseAbility(AbilitySniper)

	ts.RunTicks(1)
	if !a.Sniping() || !b.Sniping() || math.Abs(ts.Manager.Pool().Level()-1) > 1e-9 {
		t.Fatalf("after one tick: a=%t b=%t pool=%v", a.Sniping(), b.Sniping(), ts.Manager.Pool().Level())
	}
	ts.RunTicks(1)
	if a.Sniping() || b.Sniping() {
		t.Fatal("snipers of both sides should share the depletion")
	}
}

func TestSniper_LongRangeShot(t *testing.T) {
	ts := newSim(t,
		WithFriendly("spook", 40, 40),
		WithEnemy("dummy", 232, 40),
	)
	f, e := ts.Unit("F0"), ts.Unit("E0")
	ts.RunTicks(1)
	if f.Target() != 0 {
		t.Fatal("acquired beyond normal range")
	}

	f.UseAbility(AbilitySniper)
	tick := ts.RunUntil(func(*TestSim) bool { return e.HP() < 100 }, 10)
	if tick < 0 {
		t.Fatalf("sniper never hit:\n%s", ts.SimLog.Format())
	}
	if e.HP() != 50 {
		t.Fatalf("hp = %v, want sniper damage of 50", e.HP())
	}
	if !ts.SimLog.HasEntry("bullet", "spawn", "sniper") {
		t.Fatal("shot was not a sniper bullet")
	}
}

func TestSniper_BulletTimeScalesStep(t *testing.T) {
	ts := newSim(t,
		WithConfig(func(c *Config) { c.BulletTime = 0.5 }),
		WithFriendly("spook", 40, 40),
		WithFriendly("dummy", 40, 200),
	)
	s, d := ts.Unit("F0"), ts.Unit("F1")
	path, _ := ts.NavGrid.FindPath(d.Tile(), TilePoint{20, 12})
	d.SetPath(path)

	ts.RunTicks(1)
	full := 64.0 / 60
	if got := d.Position().X - 40; math.Abs(got-full) > 1e-9 {
		t.Fatalf("normal step = %v, want %v", got, full)
	}

	s.UseAbility(AbilitySniper)
	x := d.Position().X
	ts.RunTicks(1)
	if got := d.Position().X - x; math.Abs(got-full/2) > 1e-9 {
		t.Fatalf("bullet-time step = %v, want %v", got, full/2)
	}
}
