package state

import (
	"math"

	"github.com/google/uuid"

	"cinderhold/server/catalog"
)

// healthEpsilon is the tolerance used when comparing health values.
const healthEpsilon = 1e-6

// ActiveStatusEffect is one live effect instance attached to an entity.
// Created and mutated exclusively by the status resolver.
type ActiveStatusEffect struct {
	EffectID          string
	RemainingDuration float64
	TickTimer         float64
	CurrentStacks     int
	Definition        *catalog.StatusEffectDefinition
}

// RuntimeData is the mutable per-instance state of one live entity.
// The entity owns it; resolvers read and mutate it by reference and
// never copy-and-store it.
type RuntimeData struct {
	EntityID      string
	InstanceID    string
	CurrentHealth float64
	MaxHealth     float64
	Definition    *catalog.EntityDefinition

	// Effects preserves application order; the order is observable
	// through tick and removal event sequences.
	Effects []*ActiveStatusEffect

	// Invulnerability is the remaining post-hit grace window in
	// seconds; ticked down by the engine each step.
	Invulnerability float64

	alive bool
}

// NewRuntimeData spawns runtime state for one instance of def, with
// health initialized to the template maximum and a fresh process-wide
// unique instance id.
func NewRuntimeData(def *catalog.EntityDefinition) *RuntimeData {
	if def == nil {
		return nil
	}
	return &RuntimeData{
		EntityID:      def.EntityID,
		InstanceID:    uuid.NewString(),
		CurrentHealth: def.MaxHealth,
		MaxHealth:     def.MaxHealth,
		Definition:    def,
		alive:         true,
	}
}

// Alive reports whether the entity has not yet died. The flag flips
// exactly once, in MarkDead.
func (r *RuntimeData) Alive() bool {
	return r != nil && r.alive
}

// MarkDead flips the liveness flag. It returns true only on the first
// call so death notifications fire exactly once per life.
func (r *RuntimeData) MarkDead() bool {
	if r == nil || !r.alive {
		return false
	}
	r.alive = false
	return true
}

// ApplyHealthDelta shifts current health by delta and clamps the
// result to [0, MaxHealth]. It returns true when the stored value
// actually changed. NaN and infinite deltas are rejected.
func (r *RuntimeData) ApplyHealthDelta(delta float64) bool {
	if r == nil || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return false
	}
	next := r.CurrentHealth + delta
	if next < 0 {
		next = 0
	}
	if next > r.MaxHealth {
		next = r.MaxHealth
	}
	if next == r.CurrentHealth {
		return false
	}
	// Writes landing on a bound always commit; suppressing them would
	// strand a sub-epsilon residue that never reaches zero or full.
	if next > 0 && next < r.MaxHealth && math.Abs(next-r.CurrentHealth) < healthEpsilon {
		return false
	}
	r.CurrentHealth = next
	return true
}

// FindEffect returns the active instance of effectID, if any.
func (r *RuntimeData) FindEffect(effectID string) (*ActiveStatusEffect, bool) {
	if r == nil {
		return nil, false
	}
	for _, inst := range r.Effects {
		if inst != nil && inst.EffectID == effectID {
			return inst, true
		}
	}
	return nil, false
}

// RemoveEffect deletes the active instance of effectID, preserving the
// order of the remaining effects. It returns true when an instance was
// removed.
func (r *RuntimeData) RemoveEffect(effectID string) bool {
	if r == nil {
		return false
	}
	for i, inst := range r.Effects {
		if inst == nil || inst.EffectID != effectID {
			continue
		}
		r.Effects = append(r.Effects[:i], r.Effects[i+1:]...)
		return true
	}
	return false
}

// IsPlayer reports whether the backing definition is a player class.
func (r *RuntimeData) IsPlayer() bool {
	return r != nil && r.Definition != nil && r.Definition.Player != nil
}

// IsEnemy reports whether the backing definition is an enemy class.
func (r *RuntimeData) IsEnemy() bool {
	return r != nil && r.Definition != nil && r.Definition.Enemy != nil
}
