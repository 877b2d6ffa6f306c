package combat

import (
	"context"
	"testing"

	"cinderhold/server/catalog"
	"cinderhold/server/internal/events"
	"cinderhold/server/internal/state"
	"cinderhold/server/logging"
	loggingcombat "cinderhold/server/logging/combat"
)

type fakeTicks uint64

func (f fakeTicks) CurrentTick() uint64 { return uint64(f) }

type capturePublisher struct {
	events []logging.Event
}

func (p *capturePublisher) Publish(_ context.Context, event logging.Event) {
	p.events = append(p.events, event)
}

type fakeStatus struct {
	multiplier float64
	applied    []string
}

func (s *fakeStatus) DamageMultiplier(*state.RuntimeData) float64 { return s.multiplier }

func (s *fakeStatus) ApplyEffect(_ *state.RuntimeData, effectID string, _ float64) bool {
	s.applied = append(s.applied, effectID)
	return true
}

type recordingMover struct {
	ids      []string
	impulses []events.Vec2
}

func (m *recordingMover) ApplyImpulse(id string, impulse events.Vec2) {
	m.ids = append(m.ids, id)
	m.impulses = append(m.impulses, impulse)
}

type fixture struct {
	bus     *events.Bus
	index   *state.Index
	mover   *recordingMover
	pub     *capturePublisher
	status  *fakeStatus
	system  *System
	applied []events.DamageApplied
}

func newFixture(t *testing.T, multiplier float64) *fixture {
	t.Helper()
	f := &fixture{
		bus:    events.NewBus(),
		index:  state.NewIndex(),
		mover:  &recordingMover{},
		pub:    &capturePublisher{},
		status: &fakeStatus{multiplier: multiplier},
	}
	f.system = NewSystem(f.bus, f.index, f.status, f.mover, f.pub, fakeTicks(3))
	f.system.Attach()
	events.Subscribe(f.bus, func(ev events.DamageApplied) { f.applied = append(f.applied, ev) })
	return f
}

func (f *fixture) spawn(def *catalog.EntityDefinition) *state.RuntimeData {
	return f.index.Spawn(def)
}

func plainTarget() *catalog.EntityDefinition {
	return &catalog.EntityDefinition{EntityID: "rat", MaxHealth: 100}
}

func TestHitProducesMultipliedDamage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3.0) // e.g. active multipliers 1.5 and 2.0
	target := f.spawn(plainTarget())

	events.Publish(f.bus, events.Hit{TargetID: target.InstanceID, SourceID: "attacker-1", BaseDamage: 10})

	if len(f.applied) != 1 {
		t.Fatalf("expected one DamageApplied, got %d", len(f.applied))
	}
	if f.applied[0].FinalDamage != 30 {
		t.Fatalf("final damage %f want 30", f.applied[0].FinalDamage)
	}
	if f.applied[0].SourceID != "attacker-1" {
		t.Fatalf("source lost: %q", f.applied[0].SourceID)
	}
}

func TestHitOnUnresolvableTargetNoops(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1.0)

	// Doors, triggers, and despawned entities share this path: the id
	// does not resolve to damageable runtime state.
	events.Publish(f.bus, events.Hit{TargetID: "door-7", BaseDamage: 10})

	if len(f.applied) != 0 {
		t.Fatalf("expected no DamageApplied, got %d", len(f.applied))
	}
	ignored := journalOfType(f.pub, loggingcombat.EventHitIgnored)
	if len(ignored) != 1 {
		t.Fatalf("expected one hit_ignored journal event, got %d", len(ignored))
	}
}

func TestHitOnDeadTargetNoops(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1.0)
	target := f.spawn(plainTarget())
	target.MarkDead()

	events.Publish(f.bus, events.Hit{TargetID: target.InstanceID, BaseDamage: 10})

	if len(f.applied) != 0 {
		t.Fatalf("expected no DamageApplied, got %d", len(f.applied))
	}
}

func TestKnockbackScaledByResistance(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1.0)
	target := f.spawn(&catalog.EntityDefinition{
		EntityID:            "golem",
		MaxHealth:           400,
		KnockbackResistance: 0.75,
	})

	projectile := &catalog.ProjectileDefinition{ProjectileID: "fireball", Damage: 20, Speed: 320, Knockback: 100}
	events.Publish(f.bus, events.Hit{
		TargetID:   target.InstanceID,
		SourceID:   "attacker-1",
		BaseDamage: 20,
		Direction:  events.Vec2{X: 1, Y: 0},
		Projectile: projectile,
	})

	if len(f.mover.impulses) != 1 {
		t.Fatalf("expected one impulse, got %d", len(f.mover.impulses))
	}
	got := f.mover.impulses[0]
	if got.X != 25 || got.Y != 0 {
		t.Fatalf("impulse %+v want {25 0}", got)
	}
	if f.mover.ids[0] != target.InstanceID {
		t.Fatalf("impulse target %q", f.mover.ids[0])
	}
}

func TestZeroDirectionHitProducesNoKnockback(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1.0)
	target := f.spawn(plainTarget())

	// Hazard hits carry a zero direction.
	events.Publish(f.bus, events.Hit{TargetID: target.InstanceID, BaseDamage: 10})

	if len(f.mover.impulses) != 0 {
		t.Fatalf("expected no impulses, got %d", len(f.mover.impulses))
	}
	if len(f.applied) != 1 {
		t.Fatalf("damage should still apply, got %d events", len(f.applied))
	}
}

func TestPlayerInvincibilityWindow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1.0)
	player := f.spawn(&catalog.EntityDefinition{
		EntityID:  "adventurer",
		MaxHealth: 100,
		Player:    &catalog.PlayerFields{InvincibilitySeconds: 0.5},
	})

	events.Publish(f.bus, events.Hit{TargetID: player.InstanceID, SourceID: "rat-1", BaseDamage: 10})
	if player.Invulnerability != 0.5 {
		t.Fatalf("invulnerability %f want 0.5", player.Invulnerability)
	}

	// A second hit inside the window is ignored entirely.
	events.Publish(f.bus, events.Hit{TargetID: player.InstanceID, SourceID: "rat-1", BaseDamage: 10})
	if len(f.applied) != 1 {
		t.Fatalf("expected one DamageApplied, got %d", len(f.applied))
	}
}

func TestProjectilePayloadAppliesEffect(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1.0)
	target := f.spawn(plainTarget())

	sting := &catalog.ProjectileDefinition{ProjectileID: "sting", Damage: 6, AppliesID: "poison"}
	events.Publish(f.bus, events.Hit{
		TargetID:   target.InstanceID,
		SourceID:   "rat-1",
		BaseDamage: 6,
		Projectile: sting,
	})

	if len(f.status.applied) != 1 || f.status.applied[0] != "poison" {
		t.Fatalf("applied effects %v want [poison]", f.status.applied)
	}
	if len(f.applied) != 1 {
		t.Fatalf("expected one DamageApplied, got %d", len(f.applied))
	}
}

func TestProjectilePayloadSkippedOnIgnoredHit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1.0)
	target := f.spawn(plainTarget())
	target.MarkDead()

	sting := &catalog.ProjectileDefinition{ProjectileID: "sting", Damage: 6, AppliesID: "poison"}
	events.Publish(f.bus, events.Hit{TargetID: target.InstanceID, BaseDamage: 6, Projectile: sting})

	if len(f.status.applied) != 0 {
		t.Fatalf("dead target received effects: %v", f.status.applied)
	}

	// Zero-damage hits do not deliver the payload either.
	live := f.spawn(plainTarget())
	events.Publish(f.bus, events.Hit{TargetID: live.InstanceID, BaseDamage: 0, Projectile: sting})
	if len(f.status.applied) != 0 {
		t.Fatalf("no-damage hit delivered effects: %v", f.status.applied)
	}
}

func TestZeroDamageHitPublishesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1.0)
	target := f.spawn(plainTarget())

	events.Publish(f.bus, events.Hit{TargetID: target.InstanceID, BaseDamage: 0})

	if len(f.applied) != 0 {
		t.Fatalf("expected no DamageApplied, got %d", len(f.applied))
	}
}

func TestHitResolvedJournalPayload(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1.5)
	target := f.spawn(plainTarget())

	events.Publish(f.bus, events.Hit{
		TargetID:   target.InstanceID,
		SourceID:   "attacker-1",
		BaseDamage: 10,
		Projectile: &catalog.ProjectileDefinition{ProjectileID: "fireball"},
	})

	resolved := journalOfType(f.pub, loggingcombat.EventHitResolved)
	if len(resolved) != 1 {
		t.Fatalf("expected one hit_resolved event, got %d", len(resolved))
	}
	payload, ok := resolved[0].Payload.(loggingcombat.HitResolvedPayload)
	if !ok {
		t.Fatalf("payload type %T", resolved[0].Payload)
	}
	if payload.BaseDamage != 10 || payload.Multiplier != 1.5 || payload.FinalDamage != 15 {
		t.Fatalf("payload %+v", payload)
	}
	if payload.Projectile != "fireball" {
		t.Fatalf("projectile %q", payload.Projectile)
	}
	if resolved[0].Tick != 3 {
		t.Fatalf("tick %d want 3", resolved[0].Tick)
	}
}

func journalOfType(pub *capturePublisher, eventType logging.EventType) []logging.Event {
	var matched []logging.Event
	for _, event := range pub.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
