// Package hazard translates environmental contact into the generic hit
// vocabulary consumed by combat resolution.
package hazard

import (
	"context"

	"cinderhold/server/catalog"
	"cinderhold/server/internal/events"
	"cinderhold/server/internal/state"
	"cinderhold/server/logging"
	logginghazards "cinderhold/server/logging/hazards"
)

// Table looks up hazard damage by hazard type. Backed by the catalog
// registry in production.
type Table interface {
	Hazard(hazardType string) (*catalog.HazardDefinition, bool)
}

// TickSource reports the current simulation tick for journal events.
type TickSource interface {
	CurrentTick() uint64
}

// System converts HazardContact events into Hits.
type System struct {
	bus       *events.Bus
	table     Table
	publisher logging.Publisher
	ticks     TickSource

	sub events.Subscription
}

// NewSystem wires a hazard system over the given damage table.
func NewSystem(bus *events.Bus, table Table, publisher logging.Publisher, ticks TickSource) *System {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &System{
		bus:       bus,
		table:     table,
		publisher: publisher,
		ticks:     ticks,
	}
}

// Attach subscribes the system to HazardContact events.
func (s *System) Attach() {
	if s == nil || s.bus == nil {
		return
	}
	s.sub = events.Subscribe(s.bus, s.handleContact)
}

// Detach removes the bus subscription.
func (s *System) Detach() {
	if s == nil {
		return
	}
	s.sub.Unsubscribe()
}

func (s *System) handleContact(contact events.HazardContact) {
	if s.table == nil {
		return
	}
	def, ok := s.table.Hazard(contact.HazardType)
	if !ok {
		logginghazards.Unknown(context.Background(), s.publisher, s.currentTick(), state.RefByID(contact.EntityID), contact.HazardType)
		return
	}
	// Hazards with no configured damage are legal and inert.
	if def.Damage <= 0 {
		return
	}

	logginghazards.Triggered(context.Background(), s.publisher, s.currentTick(), state.RefByID(contact.EntityID), logginghazards.TriggeredPayload{
		HazardType: contact.HazardType,
		Damage:     def.Damage,
	})
	events.Publish(s.bus, events.Hit{
		TargetID:   contact.EntityID,
		SourceID:   events.EnvironmentSource,
		BaseDamage: def.Damage,
		Direction:  events.Vec2{},
		Position:   contact.Position,
	})
}

func (s *System) currentTick() uint64 {
	if s == nil || s.ticks == nil {
		return 0
	}
	return s.ticks.CurrentTick()
}
