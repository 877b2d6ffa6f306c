package sim

import (
	"context"
	"fmt"

	"cinderhold/server/catalog"
	"cinderhold/server/internal/combat"
	"cinderhold/server/internal/events"
	"cinderhold/server/internal/hazard"
	"cinderhold/server/internal/health"
	"cinderhold/server/internal/state"
	"cinderhold/server/internal/status"
	logginglifecycle "cinderhold/server/logging/lifecycle"
)

// Engine owns the event bus, the entity index, and the four resolution
// systems, and advances them one fixed tick at a time. All methods run
// on the simulation goroutine.
type Engine struct {
	deps     Deps
	registry *catalog.Registry
	bus      *events.Bus
	index    *state.Index

	combat *combat.System
	health *health.System
	hazard *hazard.System
	status *status.System

	currentTick uint64
}

// NewEngine wires an engine over the loaded registry. mover may be nil
// when no physics integrator is attached.
func NewEngine(registry *catalog.Registry, deps Deps, mover combat.Mover) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("sim: registry must not be nil")
	}
	deps = deps.normalized()

	engine := &Engine{
		deps:     deps,
		registry: registry,
		bus:      events.NewBus(),
		index:    state.NewIndex(),
	}

	engine.health = health.NewSystem(engine.bus, engine.index, deps.Publisher, engine, deps.RNG)
	engine.status = status.NewSystem(engine.bus, registry, engine.health, deps.Publisher, engine)
	engine.combat = combat.NewSystem(engine.bus, engine.index, engine.status, mover, deps.Publisher, engine)
	engine.hazard = hazard.NewSystem(engine.bus, registry, deps.Publisher, engine)

	// Core systems attach before any external collaborator so they run
	// first for their event types.
	engine.hazard.Attach()
	engine.combat.Attach()
	engine.health.Attach()

	return engine, nil
}

// CurrentTick reports the tick counter; satisfies the TickSource
// interfaces of the resolution systems.
func (e *Engine) CurrentTick() uint64 {
	if e == nil {
		return 0
	}
	return e.currentTick
}

// Bus exposes the event bus to external collaborators (UI, audio, AI,
// persistence), which may subscribe without coordination with the core.
func (e *Engine) Bus() *events.Bus {
	if e == nil {
		return nil
	}
	return e.bus
}

// Index exposes the live entity index.
func (e *Engine) Index() *state.Index {
	if e == nil {
		return nil
	}
	return e.index
}

// Status exposes the status resolver for collaborators that apply and
// query effects (abilities, movement integrator).
func (e *Engine) Status() *status.System {
	if e == nil {
		return nil
	}
	return e.status
}

// Health exposes the health resolver's direct damage entry point.
func (e *Engine) Health() *health.System {
	if e == nil {
		return nil
	}
	return e.health
}

// Spawn creates runtime state for one instance of the entity class.
func (e *Engine) Spawn(entityID string) (*state.RuntimeData, error) {
	if e == nil {
		return nil, fmt.Errorf("sim: engine is nil")
	}
	def, ok := e.registry.Entity(entityID)
	if !ok {
		return nil, fmt.Errorf("sim: unknown entity id %q", entityID)
	}
	runtime := e.index.Spawn(def)
	logginglifecycle.Spawned(
		context.Background(),
		e.deps.Publisher,
		e.currentTick,
		state.Ref(runtime),
		logginglifecycle.SpawnedPayload{EntityID: entityID, MaxHealth: def.MaxHealth},
	)
	return runtime, nil
}

// Despawn removes the instance from the world. Events still in flight
// that name the id resolve to nothing and no-op.
func (e *Engine) Despawn(instanceID string) {
	if e == nil {
		return
	}
	e.index.Despawn(instanceID)
}

// ReportContact converts an enemy body-contact report from the physics
// integrator into a Hit carrying the enemy's contact damage.
func (e *Engine) ReportContact(enemyID, targetID string, direction, position events.Vec2) {
	if e == nil {
		return
	}
	enemy, ok := e.index.Resolve(enemyID)
	if !ok || !enemy.Alive() || !enemy.IsEnemy() {
		return
	}
	damage := enemy.Definition.Enemy.ContactDamage
	if damage <= 0 {
		return
	}
	events.Publish(e.bus, events.Hit{
		TargetID:   targetID,
		SourceID:   enemyID,
		BaseDamage: damage,
		Direction:  direction,
		Position:   position,
	})
}

// Step advances the simulation one tick. Deferred events enqueued
// during the previous tick drain first, in FIFO order, before any
// other per-tick work.
func (e *Engine) Step(dt float64) {
	if e == nil || dt <= 0 {
		return
	}
	e.currentTick++
	e.bus.Drain()
	e.index.ForEach(func(runtime *state.RuntimeData) {
		if runtime.Invulnerability > 0 {
			runtime.Invulnerability -= dt
			if runtime.Invulnerability < 0 {
				runtime.Invulnerability = 0
			}
		}
		e.status.Tick(runtime, dt)
	})
}
