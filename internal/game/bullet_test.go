package game

import (
	"math"
	"testing"
)

func TestBullet_RangedHit(t *testing.T) {
	ts := newSim(t,
		WithFriendly("rifle", 40, 40),
		WithEnemy("dummy", 104, 40),
	)
	e := ts.Unit("E0")
	tick := ts.RunUntil(func(ts *TestSim) bool { return e.HP() < 100 }, 120)
	if tick < 0 {
		t.Fatalf("target never damaged:\n%s", ts.SimLog.Format())
	}
	if e.HP() != 90 {
		t.Fatalf("hp = %v, want 90", e.HP())
	}
	st := ts.Manager.Stats()
	if st.Shots < 1 || st.Hits != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if ts.CountEvents(EventShoot) < 1 || ts.CountEvents(EventHit) != 1 {
		t.Fatalf("events: shoot=%d hit=%d", ts.CountEvents(EventShoot), ts.CountEvents(EventHit))
	}
	if len(ts.Manager.Bullets()) > 1 {
		t.Fatalf("resolved bullet not swept, %d in flight", len(ts.Manager.Bullets()))
	}
}

func TestBullet_MeleeAppliesDirectly(t *testing.T) {
	ts := newSim(t,
		WithFriendly("brawler", 40, 40),
		WithEnemy("dummy", 56, 40),
	)
	ts.RunTicks(2)
	if hp := ts.Unit("E0").HP(); hp != 80 {
		t.Fatalf("hp = %v, want 80", hp)
	}
	if len(ts.Manager.Bullets()) != 0 {
		t.Fatal("melee attack spawned a bullet")
	}
}

func TestBullet_ObstacleMiss(t *testing.T) {
	ts := newSim(t,
		WithBuilding(72, 0, 16, 80),
		WithFriendly("rifle", 40, 40),
		WithEnemy("dummy", 120, 40),
	)
	f, e := ts.Unit("F0"), ts.Unit("E0")
	ts.RunTicks(1)
	if f.Target() != 0 {
		t.Fatal("acquired a target through a wall")
	}
	if !f.SetTarget(e.ID()) {
		t.Fatal("explicit target refused")
	}
	ts.RunUntil(func(ts *TestSim) bool { return ts.Manager.Stats().Misses > 0 }, 60)
	if ts.Manager.Stats().Misses != 1 {
		t.Fatalf("stats = %+v", ts.Manager.Stats())
	}
	if e.HP() != 100 {
		t.Fatalf("bullet passed through the building, hp=%v", e.HP())
	}
}

func TestBullet_OutOfRange(t *testing.T) {
	ts := newSim(t,
		WithFriendly("rifle", 40, 40),
		WithEnemy("dummy", 300, 40),
	)
	f, e := ts.Unit("F0"), ts.Unit("E0")
	id := ts.Manager.spawnBullet(f, e, BulletBallistic, 10)
	b, ok := ts.Manager.Bullet(id)
	if !ok {
		t.Fatal("bullet not stored")
	}
	ts.RunUntil(func(*TestSim) bool { return b.Outcome() != OutcomePending }, 120)
	if b.Outcome() != OutcomeOutOfRange {
		t.Fatalf("outcome = %s, want out_of_range", b.Outcome())
	}
	if want := 5 * 16 * 1.5; math.Abs(b.Travelled()-want) > 1e-6 {
		t.Fatalf("travelled %.3f, want %.1f", b.Travelled(), want)
	}
	if e.HP() != 100 {
		t.Fatal("out-of-range bullet dealt damage")
	}
	if _, ok := ts.Manager.Bullet(id); ok {
		t.Fatal("bullet not released after resolution")
	}
}

func TestBullet_ResolvesOnce(t *testing.T) {
	ts := newSim(t,
		WithFriendly("rifle", 40, 40),
		WithEnemy("dummy", 48, 40),
	)
	f, e := ts.Unit("F0"), ts.Unit("E0")
	id := ts.Manager.spawnBullet(f, e, BulletBallistic, 10)
	b, _ := ts.Manager.Bullet(id)

	b.Update(ts.Manager, 1.0/60)
	if b.Outcome() != OutcomeHit || b.Struck() != e.ID() {
		t.Fatalf("outcome=%s struck=%v", b.Outcome(), b.Struck())
	}
	b.Update(ts.Manager, 1.0/60)
	ts.Manager.RemoveBullet(id)
	if e.HP() != 90 {
		t.Fatalf("hp = %v, want a single hit", e.HP())
	}
	if len(ts.Manager.bulletsToRemove) != 1 {
		t.Fatalf("bullet queued %d times", len(ts.Manager.bulletsToRemove))
	}
}

func TestBullet_MissesAtAimPoint(t *testing.T) {
	ts := newSim(t,
		WithFriendly("rifle", 40, 40),
		WithEnemy("dummy", 104, 40),
	)
	f, e := ts.Unit("F0"), ts.Unit("E0")
	id := ts.Manager.spawnBullet(f, e, BulletBallistic, 10)
	b, _ := ts.Manager.Bullet(id)
	e.pos = Point{104, 120}

	for i := 0; i < 60 && b.Outcome() == OutcomePending; i++ {
		b.Update(ts.Manager, 1.0/60)
	}
	if b.Outcome() != OutcomeMiss {
		t.Fatalf("outcome = %s, want miss at the aim point", b.Outcome())
	}
	if b.Position().Dist(b.Aim()) > 1e-6 {
		t.Fatalf("bullet stopped at %v, aim %v", b.Position(), b.Aim())
	}
}

func TestBullet_SniperHitAndBlocked(t *testing.T) {
	ts := newSim(t,
		WithFriendly("spook", 40, 40),
		WithEnemy("dummy", 232, 40),
		WithEnemy("dummy", 232, 200),
		WithBuilding(120, 120, 32, 32),
	)
	f, e0, e1 := ts.Unit("F0"), ts.Unit("E0"), ts.Unit("E1")
	f.sniping = true

	id := ts.Manager.spawnBullet(f, e0, BulletSniper, 50)
	b, _ := ts.Manager.Bullet(id)
	b.Update(ts.Manager, 1.0/60)
	if b.Outcome() != OutcomeHit || e0.HP() != 50 {
		t.Fatalf("clear shot: outcome=%s hp=%v", b.Outcome(), e0.HP())
	}

	id = ts.Manager.spawnBullet(f, e1, BulletSniper, 50)
	b, _ = ts.Manager.Bullet(id)
	b.Update(ts.Manager, 1.0/60)
	if b.Outcome() != OutcomeMiss || e1.HP() != 100 {
		t.Fatalf("blocked shot: outcome=%s hp=%v", b.Outcome(), e1.HP())
	}
}

func TestBullet_SniperOutOfRange(t *testing.T) {
	ts := newSim(t,
		WithFriendly("spook", 40, 40),
		WithEnemy("dummy", 600, 40),
	)
	f, e := ts.Unit("F0"), ts.Unit("E0")
	f.sniping = true
	id := ts.Manager.spawnBullet(f, e, BulletSniper, 50)
	b, _ := ts.Manager.Bullet(id)
	b.Update(ts.Manager, 1.0/60)
	if b.Outcome() != OutcomeOutOfRange || e.HP() != 100 {
		t.Fatalf("outcome=%s hp=%v", b.Outcome(), e.HP())
	}
}
