package lifecycle

import (
	"context"

	"cinderhold/server/logging"
)

const (
	// EventSpawned is emitted when runtime state is created for an
	// entity instance.
	EventSpawned logging.EventType = "lifecycle.spawned"
	// EventDied is emitted exactly once per life when health reaches
	// zero.
	EventDied logging.EventType = "lifecycle.died"
)

// SpawnedPayload captures a spawn.
type SpawnedPayload struct {
	EntityID  string  `json:"entityId"`
	MaxHealth float64 `json:"maxHealth"`
}

// Spawned publishes a spawn journal event.
func Spawned(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload SpawnedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSpawned,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// DiedPayload captures a death and any drop-table rolls.
type DiedPayload struct {
	KillerID string   `json:"killerId,omitempty"`
	Drops    []string `json:"drops,omitempty"`
}

// Died publishes a death journal event.
func Died(ctx context.Context, pub logging.Publisher, tick uint64, killer, target logging.EntityRef, payload DiedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDied,
		Tick:     tick,
		Actor:    killer,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
