// Package health owns every mutation of an entity's current health and
// is the single authority for detecting death.
package health

import (
	"context"
	"math"
	"math/rand"

	"cinderhold/server/internal/events"
	"cinderhold/server/internal/state"
	"cinderhold/server/logging"
	logginglifecycle "cinderhold/server/logging/lifecycle"
)

// Lookup resolves instance ids to live runtime state. A failed lookup
// means the target despawned between event production and consumption
// and the handler no-ops.
type Lookup interface {
	Resolve(instanceID string) (*state.RuntimeData, bool)
}

// TickSource reports the current simulation tick for journal events.
type TickSource interface {
	CurrentTick() uint64
}

// System applies finalized damage to runtime health and publishes
// EntityDied exactly once per life.
type System struct {
	bus       *events.Bus
	lookup    Lookup
	publisher logging.Publisher
	ticks     TickSource
	rng       *rand.Rand

	sub events.Subscription
}

// NewSystem wires a health system. The bus subscription is created by
// Attach so construction order between systems stays flexible.
func NewSystem(bus *events.Bus, lookup Lookup, publisher logging.Publisher, ticks TickSource, rng *rand.Rand) *System {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &System{
		bus:       bus,
		lookup:    lookup,
		publisher: publisher,
		ticks:     ticks,
		rng:       rng,
	}
}

// Attach subscribes the system to DamageApplied events.
func (s *System) Attach() {
	if s == nil || s.bus == nil {
		return
	}
	s.sub = events.Subscribe(s.bus, s.handleDamageApplied)
}

// Detach removes the bus subscription.
func (s *System) Detach() {
	if s == nil {
		return
	}
	s.sub.Unsubscribe()
}

func (s *System) handleDamageApplied(ev events.DamageApplied) {
	target, ok := s.lookup.Resolve(ev.TargetID)
	if !ok {
		return
	}
	s.ApplyDamage(target, ev.FinalDamage, ev.SourceID)
}

// ApplyDamage subtracts amount from the target's health, clamping at
// zero, and publishes EntityDied the first time health reaches zero.
// Already-dead targets absorb further damage without a second death.
//
// Status-effect tick damage calls this directly, bypassing the
// Hit/DamageApplied chain: periodic self-damage has no source to
// attribute and no multiplier to apply to itself.
func (s *System) ApplyDamage(target *state.RuntimeData, amount float64, sourceID string) {
	if s == nil || target == nil || !target.Alive() {
		return
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return
	}

	target.ApplyHealthDelta(-amount)
	if target.CurrentHealth > 0 {
		return
	}
	if !target.MarkDead() {
		return
	}

	drops := s.rollDrops(target)
	logginglifecycle.Died(
		context.Background(),
		s.publisher,
		s.currentTick(),
		state.RefByID(sourceID),
		state.Ref(target),
		logginglifecycle.DiedPayload{KillerID: sourceID, Drops: drops},
	)
	events.Publish(s.bus, events.EntityDied{EntityID: target.InstanceID, KillerID: sourceID})
}

func (s *System) rollDrops(target *state.RuntimeData) []string {
	if target == nil || target.Definition == nil || target.Definition.Enemy == nil || s.rng == nil {
		return nil
	}
	var drops []string
	for _, rule := range target.Definition.Enemy.DropTable {
		if rule.Chance <= 0 {
			continue
		}
		if rule.Chance >= 1 || s.rng.Float64() < rule.Chance {
			drops = append(drops, rule.ItemID)
		}
	}
	return drops
}

func (s *System) currentTick() uint64 {
	if s == nil || s.ticks == nil {
		return 0
	}
	return s.ticks.CurrentTick()
}
