package status_effects

import (
	"context"

	"cinderhold/server/logging"
)

const (
	// EventApplied is emitted when a new status effect instance
	// attaches to an actor. Refreshes do not re-emit it.
	EventApplied logging.EventType = "status_effects.applied"
	// EventRefreshed is emitted when an existing instance has its
	// duration refreshed or gains a stack.
	EventRefreshed logging.EventType = "status_effects.refreshed"
	// EventRemoved is emitted on expiry or explicit removal.
	EventRemoved logging.EventType = "status_effects.removed"
	// EventUnknown is emitted when an apply names an effect id with no
	// registry entry; the operation is skipped.
	EventUnknown logging.EventType = "status_effects.unknown_definition"
)

// AppliedPayload captures details about a status effect application.
type AppliedPayload struct {
	EffectID        string  `json:"effectId"`
	SourceID        string  `json:"sourceId,omitempty"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
	Stacks          int     `json:"stacks,omitempty"`
}

// Applied publishes a status effect application event.
func Applied(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload AppliedPayload) {
	publish(ctx, pub, EventApplied, tick, actor, target, logging.SeverityInfo, payload)
}

// Refreshed publishes a duration-refresh or stack-gain event.
func Refreshed(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload AppliedPayload) {
	publish(ctx, pub, EventRefreshed, tick, actor, target, logging.SeverityDebug, payload)
}

// RemovedPayload captures a status effect removal.
type RemovedPayload struct {
	EffectID string `json:"effectId"`
	Expired  bool   `json:"expired"`
}

// Removed publishes a status effect removal event.
func Removed(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload RemovedPayload) {
	publish(ctx, pub, EventRemoved, tick, logging.EntityRef{Kind: logging.EntityKindWorld}, target, logging.SeverityInfo, payload)
}

// UnknownPayload names the unresolvable effect id.
type UnknownPayload struct {
	EffectID string `json:"effectId"`
}

// Unknown publishes a missing-definition warning.
func Unknown(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, effectID string) {
	publish(ctx, pub, EventUnknown, tick, logging.EntityRef{Kind: logging.EntityKindWorld}, target, logging.SeverityWarn, UnknownPayload{EffectID: effectID})
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor, target logging.EntityRef, severity logging.Severity, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: severity,
		Category: logging.CategoryStatusEffects,
		Payload:  payload,
	})
}
