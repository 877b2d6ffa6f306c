package events

import "cinderhold/server/catalog"

// EnvironmentSource is the SourceID carried by hits that have no
// attributable attacker, e.g. hazard damage.
const EnvironmentSource = ""

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Zero reports whether both components are exactly zero.
func (v Vec2) Zero() bool {
	return v.X == 0 && v.Y == 0
}

// Scale returns v multiplied by factor.
func (v Vec2) Scale(factor float64) Vec2 {
	return Vec2{X: v.X * factor, Y: v.Y * factor}
}

// Hit is the generic "something struck an entity" event. Producers are
// the physics integrator (projectile and melee overlap checks) and the
// hazard resolver. Combat resolution is the sole consumer that turns a
// Hit into damage; other collaborators may subscribe for their own
// purposes (doors, triggers, audio).
type Hit struct {
	TargetID   string
	SourceID   string
	BaseDamage float64
	Direction  Vec2
	Position   Vec2
	Projectile *catalog.ProjectileDefinition
}

// DamageApplied carries the finalized damage for a target after status
// multipliers. SourceID preserves the originating Hit attribution so
// death events can name a killer.
type DamageApplied struct {
	TargetID    string
	SourceID    string
	FinalDamage float64
}

// EntityDied is published exactly once per life when an entity's
// health reaches zero. KillerID is empty for environmental deaths.
type EntityDied struct {
	EntityID string
	KillerID string
}

// HazardContact reports that an entity touched an environmental hazard.
type HazardContact struct {
	EntityID   string
	HazardType string
	Position   Vec2
}

// StatusEffectApplied is published when a new effect instance attaches
// to a target. Refreshes and stack increments do not re-publish it.
type StatusEffectApplied struct {
	TargetID string
	EffectID string
}

// StatusEffectRemoved is published when an effect expires or is
// explicitly removed.
type StatusEffectRemoved struct {
	TargetID string
	EffectID string
}
