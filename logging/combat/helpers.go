package combat

import (
	"context"

	"cinderhold/server/logging"
)

const (
	// EventHitResolved is emitted when combat resolution finalizes
	// damage for a hit.
	EventHitResolved logging.EventType = "combat.hit_resolved"
	// EventHitIgnored is emitted when a hit targets something combat
	// resolution does not damage (despawned, dead, or invulnerable).
	EventHitIgnored logging.EventType = "combat.hit_ignored"
)

// HitResolvedPayload captures the damage pipeline for one hit.
type HitResolvedPayload struct {
	BaseDamage  float64 `json:"baseDamage"`
	Multiplier  float64 `json:"multiplier"`
	FinalDamage float64 `json:"finalDamage"`
	Projectile  string  `json:"projectile,omitempty"`
}

// HitResolved publishes a finalized-damage journal event.
func HitResolved(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload HitResolvedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHitResolved,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// HitIgnoredPayload explains why a hit produced no damage.
type HitIgnoredPayload struct {
	Reason string `json:"reason"`
}

// HitIgnored publishes a no-op hit journal event at debug severity.
func HitIgnored(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, targetID string, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHitIgnored,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{{ID: targetID, Kind: logging.EntityKindUnknown}},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  HitIgnoredPayload{Reason: reason},
	})
}
