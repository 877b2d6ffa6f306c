package health

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"cinderhold/server/catalog"
	"cinderhold/server/internal/events"
	"cinderhold/server/internal/state"
	"cinderhold/server/logging"
	logginglifecycle "cinderhold/server/logging/lifecycle"
)

type fakeTicks uint64

func (f fakeTicks) CurrentTick() uint64 { return uint64(f) }

type capturePublisher struct {
	events []logging.Event
}

func (p *capturePublisher) Publish(_ context.Context, event logging.Event) {
	p.events = append(p.events, event)
}

func newFixture(t *testing.T, def *catalog.EntityDefinition) (*System, *events.Bus, *state.Index, *state.RuntimeData, *capturePublisher) {
	t.Helper()
	bus := events.NewBus()
	index := state.NewIndex()
	pub := &capturePublisher{}
	system := NewSystem(bus, index, pub, fakeTicks(7), rand.New(rand.NewSource(1)))
	system.Attach()
	runtime := index.Spawn(def)
	if runtime == nil {
		t.Fatal("spawn failed")
	}
	return system, bus, index, runtime, pub
}

func ratDefinition() *catalog.EntityDefinition {
	return &catalog.EntityDefinition{
		EntityID:  "rat",
		MaxHealth: 100,
		Enemy: &catalog.EnemyFields{
			DropTable: []catalog.DropRule{{ItemID: "gold", Chance: 1, Count: 3}},
		},
	}
}

func TestDamageAppliedReducesHealth(t *testing.T) {
	t.Parallel()

	_, bus, _, runtime, _ := newFixture(t, ratDefinition())

	events.Publish(bus, events.DamageApplied{TargetID: runtime.InstanceID, SourceID: "attacker-1", FinalDamage: 40})

	if runtime.CurrentHealth != 60 {
		t.Fatalf("health=%f want 60", runtime.CurrentHealth)
	}
	if !runtime.Alive() {
		t.Fatal("runtime should still be alive")
	}
}

func TestMissingTargetIsSilentNoop(t *testing.T) {
	t.Parallel()

	_, bus, _, _, pub := newFixture(t, ratDefinition())

	events.Publish(bus, events.DamageApplied{TargetID: "despawned", FinalDamage: 40})

	if len(pub.events) != 0 {
		t.Fatalf("expected no journal events, got %d", len(pub.events))
	}
}

func TestDeathPublishesEntityDiedExactlyOnce(t *testing.T) {
	t.Parallel()

	_, bus, _, runtime, pub := newFixture(t, ratDefinition())

	var deaths []events.EntityDied
	events.Subscribe(bus, func(ev events.EntityDied) { deaths = append(deaths, ev) })

	for i := 0; i < 4; i++ {
		events.Publish(bus, events.DamageApplied{TargetID: runtime.InstanceID, SourceID: "attacker-1", FinalDamage: 40})
	}

	if runtime.CurrentHealth != 0 {
		t.Fatalf("health=%f want 0", runtime.CurrentHealth)
	}
	if len(deaths) != 1 {
		t.Fatalf("expected exactly one EntityDied, got %d", len(deaths))
	}
	if deaths[0].EntityID != runtime.InstanceID || deaths[0].KillerID != "attacker-1" {
		t.Fatalf("death attribution wrong: %+v", deaths[0])
	}

	died := journalOfType(pub, logginglifecycle.EventDied)
	if len(died) != 1 {
		t.Fatalf("expected one lifecycle.died journal event, got %d", len(died))
	}
	payload, ok := died[0].Payload.(logginglifecycle.DiedPayload)
	if !ok {
		t.Fatalf("payload type %T", died[0].Payload)
	}
	if payload.KillerID != "attacker-1" {
		t.Fatalf("journal killer %q", payload.KillerID)
	}
	if len(payload.Drops) != 1 || payload.Drops[0] != "gold" {
		t.Fatalf("drops %v", payload.Drops)
	}
}

func TestSubEpsilonResidueStillDies(t *testing.T) {
	t.Parallel()

	system, bus, _, runtime, _ := newFixture(t, ratDefinition())

	var deaths []events.EntityDied
	events.Subscribe(bus, func(ev events.EntityDied) { deaths = append(deaths, ev) })

	// Leave a residue smaller than the clamp epsilon, then hit lethally.
	system.ApplyDamage(runtime, 99.9999995, "attacker-1")
	system.ApplyDamage(runtime, 40, "attacker-1")

	if runtime.CurrentHealth != 0 {
		t.Fatalf("health=%g want 0", runtime.CurrentHealth)
	}
	if runtime.Alive() {
		t.Fatal("runtime should be dead")
	}
	if len(deaths) != 1 {
		t.Fatalf("expected exactly one EntityDied, got %d", len(deaths))
	}

	system.ApplyDamage(runtime, 1000, "attacker-1")
	if len(deaths) != 1 {
		t.Fatalf("death fired again: %d", len(deaths))
	}
}

func TestEnvironmentalDeathHasNoKiller(t *testing.T) {
	t.Parallel()

	_, bus, _, runtime, _ := newFixture(t, ratDefinition())

	var deaths []events.EntityDied
	events.Subscribe(bus, func(ev events.EntityDied) { deaths = append(deaths, ev) })

	events.Publish(bus, events.DamageApplied{TargetID: runtime.InstanceID, SourceID: events.EnvironmentSource, FinalDamage: 500})

	if len(deaths) != 1 {
		t.Fatalf("expected one death, got %d", len(deaths))
	}
	if deaths[0].KillerID != "" {
		t.Fatalf("environmental kill should have empty killer, got %q", deaths[0].KillerID)
	}
}

func TestApplyDamageRejectsBadAmounts(t *testing.T) {
	t.Parallel()

	system, _, _, runtime, _ := newFixture(t, ratDefinition())

	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		system.ApplyDamage(runtime, amount, "attacker-1")
	}
	if runtime.CurrentHealth != 100 {
		t.Fatalf("health=%f want 100", runtime.CurrentHealth)
	}
}

func TestDetachStopsHandling(t *testing.T) {
	t.Parallel()

	system, bus, _, runtime, _ := newFixture(t, ratDefinition())
	system.Detach()

	events.Publish(bus, events.DamageApplied{TargetID: runtime.InstanceID, FinalDamage: 40})

	if runtime.CurrentHealth != 100 {
		t.Fatalf("detached system still applied damage: %f", runtime.CurrentHealth)
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
