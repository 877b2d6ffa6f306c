// Package status owns the lifecycle of timed effects on entities and
// supplies the multipliers combat resolution reads.
package status

import (
	"context"

	"cinderhold/server/catalog"
	"cinderhold/server/internal/events"
	"cinderhold/server/internal/state"
	"cinderhold/server/logging"
	loggingstatus "cinderhold/server/logging/status_effects"
)

// Table looks up status effect templates by id. Backed by the catalog
// registry in production.
type Table interface {
	StatusEffect(effectID string) (*catalog.StatusEffectDefinition, bool)
}

// DamageSink receives periodic tick damage. Routed to the health
// system directly rather than through the Hit/DamageApplied chain:
// self-damage has no source to attribute and no multiplier to apply to
// itself, and the direct call keeps death detection single-owner.
type DamageSink interface {
	ApplyDamage(target *state.RuntimeData, amount float64, sourceID string)
}

// TickSource reports the current simulation tick for journal events.
type TickSource interface {
	CurrentTick() uint64
}

// System applies, refreshes, stacks, ticks, and expires status effects.
type System struct {
	bus       *events.Bus
	table     Table
	damage    DamageSink
	publisher logging.Publisher
	ticks     TickSource
}

// NewSystem wires a status system. It holds no bus subscription of its
// own: application and ticking are driven by direct calls from combat
// collaborators and the tick driver.
func NewSystem(bus *events.Bus, table Table, damage DamageSink, publisher logging.Publisher, ticks TickSource) *System {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &System{
		bus:       bus,
		table:     table,
		damage:    damage,
		publisher: publisher,
		ticks:     ticks,
	}
}

// ApplyEffect attaches effectID to the target for duration seconds,
// falling back to the template default when duration <= 0.
//
// A fresh instance publishes StatusEffectApplied. Re-applying a
// stackable effect below its stack ceiling adds a stack and refreshes
// the duration. Any other re-application silently refreshes the
// duration only. Returns true when a new instance was created.
func (s *System) ApplyEffect(target *state.RuntimeData, effectID string, duration float64) bool {
	if s == nil || target == nil || effectID == "" {
		return false
	}
	def, ok := s.tableLookup(effectID)
	if !ok {
		loggingstatus.Unknown(context.Background(), s.publisher, s.currentTick(), state.Ref(target), effectID)
		return false
	}
	if duration <= 0 {
		duration = def.DefaultDuration
	}

	inst, exists := target.FindEffect(effectID)
	if !exists {
		inst = &state.ActiveStatusEffect{
			EffectID:          effectID,
			RemainingDuration: duration,
			TickTimer:         def.TickInterval,
			CurrentStacks:     1,
			Definition:        def,
		}
		target.Effects = append(target.Effects, inst)
		loggingstatus.Applied(
			context.Background(),
			s.publisher,
			s.currentTick(),
			logging.EntityRef{Kind: logging.EntityKindWorld},
			state.Ref(target),
			loggingstatus.AppliedPayload{EffectID: effectID, DurationSeconds: duration, Stacks: 1},
		)
		events.Publish(s.bus, events.StatusEffectApplied{TargetID: target.InstanceID, EffectID: effectID})
		return true
	}

	inst.RemainingDuration = duration
	if def.Stackable && inst.CurrentStacks < def.EffectiveMaxStacks() {
		inst.CurrentStacks++
	}
	loggingstatus.Refreshed(
		context.Background(),
		s.publisher,
		s.currentTick(),
		logging.EntityRef{Kind: logging.EntityKindWorld},
		state.Ref(target),
		loggingstatus.AppliedPayload{EffectID: effectID, DurationSeconds: duration, Stacks: inst.CurrentStacks},
	)
	return false
}

// RemoveEffect deletes the active instance of effectID, if present,
// and publishes StatusEffectRemoved.
func (s *System) RemoveEffect(target *state.RuntimeData, effectID string) bool {
	if s == nil || target == nil {
		return false
	}
	if !target.RemoveEffect(effectID) {
		return false
	}
	s.publishRemoved(target, effectID, false)
	return true
}

// HasEffect reports whether the target carries an active instance of
// effectID. Pure query.
func (s *System) HasEffect(target *state.RuntimeData, effectID string) bool {
	if target == nil {
		return false
	}
	_, ok := target.FindEffect(effectID)
	return ok
}

// Tick advances every active effect on the target by dt seconds:
// durations run down, periodic damage fires per elapsed interval
// scaled by stack count, and expired effects are removed with a
// StatusEffectRemoved publication.
func (s *System) Tick(target *state.RuntimeData, dt float64) {
	if s == nil || target == nil || dt <= 0 || len(target.Effects) == 0 {
		return
	}

	for _, inst := range target.Effects {
		if inst == nil || inst.Definition == nil {
			continue
		}
		inst.RemainingDuration -= dt
		interval := inst.Definition.TickInterval
		if interval <= 0 {
			continue
		}
		inst.TickTimer -= dt
		for inst.TickTimer <= 0 {
			s.applyTickDamage(target, inst)
			inst.TickTimer += interval
		}
	}

	// Removal runs after all ticking so an expiring effect still
	// delivers its final interval.
	var expired []string
	for _, inst := range target.Effects {
		if inst != nil && inst.RemainingDuration <= 0 {
			expired = append(expired, inst.EffectID)
		}
	}
	for _, effectID := range expired {
		if target.RemoveEffect(effectID) {
			s.publishRemoved(target, effectID, true)
		}
	}
}

// DamageMultiplier returns the product of damage multipliers across
// the target's active effects. Stack count does not re-multiply; only
// tick damage scales with stacks. Pure query.
func (s *System) DamageMultiplier(target *state.RuntimeData) float64 {
	return multiplierProduct(target, func(def *catalog.StatusEffectDefinition) float64 {
		return def.DamageMultiplier
	})
}

// SpeedMultiplier returns the product of movement speed multipliers
// across the target's active effects, consumed by the movement
// integrator. Pure query.
func (s *System) SpeedMultiplier(target *state.RuntimeData) float64 {
	return multiplierProduct(target, func(def *catalog.StatusEffectDefinition) float64 {
		return def.SpeedMultiplier
	})
}

func multiplierProduct(target *state.RuntimeData, pick func(*catalog.StatusEffectDefinition) float64) float64 {
	product := 1.0
	if target == nil {
		return product
	}
	for _, inst := range target.Effects {
		if inst == nil || inst.Definition == nil {
			continue
		}
		// Templates that leave a multiplier unset decode as zero;
		// treat non-positive values as neutral.
		if m := pick(inst.Definition); m > 0 {
			product *= m
		}
	}
	return product
}

func (s *System) applyTickDamage(target *state.RuntimeData, inst *state.ActiveStatusEffect) {
	if s.damage == nil || inst.Definition.TickDamage <= 0 {
		return
	}
	stacks := inst.CurrentStacks
	if stacks < 1 {
		stacks = 1
	}
	s.damage.ApplyDamage(target, inst.Definition.TickDamage*float64(stacks), events.EnvironmentSource)
}

func (s *System) publishRemoved(target *state.RuntimeData, effectID string, expired bool) {
	loggingstatus.Removed(
		context.Background(),
		s.publisher,
		s.currentTick(),
		state.Ref(target),
		loggingstatus.RemovedPayload{EffectID: effectID, Expired: expired},
	)
	events.Publish(s.bus, events.StatusEffectRemoved{TargetID: target.InstanceID, EffectID: effectID})
}

func (s *System) tableLookup(effectID string) (*catalog.StatusEffectDefinition, bool) {
	if s.table == nil {
		return nil, false
	}
	return s.table.StatusEffect(effectID)
}

func (s *System) currentTick() uint64 {
	if s == nil || s.ticks == nil {
		return 0
	}
	return s.ticks.CurrentTick()
}
