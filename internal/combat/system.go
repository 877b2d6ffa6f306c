// Package combat is the sole authority for turning a raw Hit into a
// finalized DamageApplied amount.
package combat

import (
	"context"

	"cinderhold/server/internal/events"
	"cinderhold/server/internal/state"
	"cinderhold/server/logging"
	loggingcombat "cinderhold/server/logging/combat"
)

// defaultHitKnockback is the impulse magnitude used when the hit
// carries no projectile template of its own.
const defaultHitKnockback = 40.0

// Lookup resolves instance ids to damageable runtime state. Hits whose
// target does not resolve (doors, triggers, despawned entities) are
// ignored here; other subscribers handle those for their own purposes.
type Lookup interface {
	Resolve(instanceID string) (*state.RuntimeData, bool)
}

// StatusAccess is the slice of the status resolver combat needs:
// multiplier lookup when finalizing damage, and effect application for
// projectile payloads. DamageMultiplier must be a pure query.
type StatusAccess interface {
	DamageMultiplier(target *state.RuntimeData) float64
	ApplyEffect(target *state.RuntimeData, effectID string, duration float64) bool
}

// Mover applies knockback impulses to the physics integrator.
// Knockback is a single-consumer physical effect and deliberately does
// not travel over the event bus.
type Mover interface {
	ApplyImpulse(instanceID string, impulse events.Vec2)
}

// TickSource reports the current simulation tick for journal events.
type TickSource interface {
	CurrentTick() uint64
}

// System converts hits into damage.
type System struct {
	bus       *events.Bus
	lookup    Lookup
	effects   StatusAccess
	mover     Mover
	publisher logging.Publisher
	ticks     TickSource

	sub events.Subscription
}

// NewSystem wires a combat system. mover may be nil when no physics
// integrator is attached; knockback is then skipped.
func NewSystem(bus *events.Bus, lookup Lookup, effects StatusAccess, mover Mover, publisher logging.Publisher, ticks TickSource) *System {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &System{
		bus:       bus,
		lookup:    lookup,
		effects:   effects,
		mover:     mover,
		publisher: publisher,
		ticks:     ticks,
	}
}

// Attach subscribes the system to Hit events.
func (s *System) Attach() {
	if s == nil || s.bus == nil {
		return
	}
	s.sub = events.Subscribe(s.bus, s.handleHit)
}

// Detach removes the bus subscription.
func (s *System) Detach() {
	if s == nil {
		return
	}
	s.sub.Unsubscribe()
}

func (s *System) handleHit(hit events.Hit) {
	target, ok := s.lookup.Resolve(hit.TargetID)
	if !ok {
		loggingcombat.HitIgnored(context.Background(), s.publisher, s.currentTick(), state.RefByID(hit.SourceID), hit.TargetID, "missing-target")
		return
	}
	if !target.Alive() {
		loggingcombat.HitIgnored(context.Background(), s.publisher, s.currentTick(), state.RefByID(hit.SourceID), hit.TargetID, "dead")
		return
	}
	if target.Invulnerability > 0 {
		loggingcombat.HitIgnored(context.Background(), s.publisher, s.currentTick(), state.RefByID(hit.SourceID), hit.TargetID, "invulnerable")
		return
	}

	multiplier := 1.0
	if s.effects != nil {
		multiplier = s.effects.DamageMultiplier(target)
	}
	finalDamage := hit.BaseDamage * multiplier

	s.applyKnockback(hit, target)

	if finalDamage <= 0 {
		loggingcombat.HitIgnored(context.Background(), s.publisher, s.currentTick(), state.RefByID(hit.SourceID), hit.TargetID, "no-damage")
		return
	}

	if target.IsPlayer() && target.Definition.Player.InvincibilitySeconds > 0 {
		target.Invulnerability = target.Definition.Player.InvincibilitySeconds
	}

	payload := loggingcombat.HitResolvedPayload{
		BaseDamage:  hit.BaseDamage,
		Multiplier:  multiplier,
		FinalDamage: finalDamage,
	}
	if hit.Projectile != nil {
		payload.Projectile = hit.Projectile.ProjectileID
	}
	loggingcombat.HitResolved(context.Background(), s.publisher, s.currentTick(), state.RefByID(hit.SourceID), state.Ref(target), payload)

	// Projectile payload effects attach before the damage lands so a
	// lethal hit does not apply them to a corpse. The multiplier above
	// was read first, so the fresh effect never scales its own hit.
	if s.effects != nil && hit.Projectile != nil && hit.Projectile.AppliesID != "" {
		s.effects.ApplyEffect(target, hit.Projectile.AppliesID, 0)
	}

	events.Publish(s.bus, events.DamageApplied{
		TargetID:    hit.TargetID,
		SourceID:    hit.SourceID,
		FinalDamage: finalDamage,
	})
}

// applyKnockback shoves the target away from the hit, scaled by its
// knockback resistance. Zero-direction hits (hazards) produce none.
func (s *System) applyKnockback(hit events.Hit, target *state.RuntimeData) {
	if s.mover == nil || hit.Direction.Zero() || target.Definition == nil {
		return
	}
	magnitude := defaultHitKnockback
	if hit.Projectile != nil {
		magnitude = hit.Projectile.Knockback
	}
	if magnitude <= 0 {
		return
	}
	scale := 1 - target.Definition.KnockbackResistance
	if scale <= 0 {
		return
	}
	s.mover.ApplyImpulse(target.InstanceID, hit.Direction.Scale(magnitude*scale))
}

func (s *System) currentTick() uint64 {
	if s == nil || s.ticks == nil {
		return 0
	}
	return s.ticks.CurrentTick()
}
