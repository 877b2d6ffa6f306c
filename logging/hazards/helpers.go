package hazards

import (
	"context"

	"cinderhold/server/logging"
)

const (
	// EventTriggered is emitted when a hazard contact converts into a
	// hit.
	EventTriggered logging.EventType = "hazard.triggered"
	// EventUnknown is emitted when a contact names a hazard type with
	// no registry entry; the contact is skipped.
	EventUnknown logging.EventType = "hazard.unknown_definition"
)

// TriggeredPayload captures the hazard-to-hit conversion.
type TriggeredPayload struct {
	HazardType string  `json:"hazardType"`
	Damage     float64 `json:"damage"`
}

// Triggered publishes a hazard trigger event.
func Triggered(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload TriggeredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTriggered,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindHazard, ID: payload.HazardType},
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryHazard,
		Payload:  payload,
	})
}

// UnknownPayload names the unresolvable hazard type.
type UnknownPayload struct {
	HazardType string `json:"hazardType"`
}

// Unknown publishes a missing-definition warning.
func Unknown(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, hazardType string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventUnknown,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindHazard, ID: hazardType},
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryHazard,
		Payload:  UnknownPayload{HazardType: hazardType},
	})
}
