package catalog

// PersistenceMode describes how much of an entity's runtime state
// survives a save.
type PersistenceMode string

const (
	PersistenceNone      PersistenceMode = "none"
	PersistenceFlagsOnly PersistenceMode = "flags-only"
	PersistenceFull      PersistenceMode = "full"
)

// Valid reports whether the mode is one of the three known values. The
// empty string is accepted and treated as PersistenceNone.
func (m PersistenceMode) Valid() bool {
	switch m {
	case "", PersistenceNone, PersistenceFlagsOnly, PersistenceFull:
		return true
	default:
		return false
	}
}

// EntityDefinition is the immutable template shared by every live
// instance of an entity class. Loaded once, never mutated afterwards.
type EntityDefinition struct {
	EntityID            string          `json:"entityId" yaml:"entityId" jsonschema:"title=Entity id,pattern=^[a-z0-9\\-]+$,minLength=1,required"`
	MaxHealth           float64         `json:"maxHealth" yaml:"maxHealth" jsonschema:"title=Maximum health,minimum=1,required"`
	MoveSpeed           float64         `json:"moveSpeed" yaml:"moveSpeed" jsonschema:"title=Base move speed in units per second"`
	KnockbackResistance float64         `json:"knockbackResistance,omitempty" yaml:"knockbackResistance" jsonschema:"title=Knockback resistance,minimum=0,maximum=1"`
	Mass                float64         `json:"mass,omitempty" yaml:"mass" jsonschema:"title=Mass used by the physics integrator"`
	Persistence         PersistenceMode `json:"persistence,omitempty" yaml:"persistence" jsonschema:"title=Save persistence mode,enum=none,enum=flags-only,enum=full"`

	Player *PlayerFields `json:"player,omitempty" yaml:"player" jsonschema:"title=Player-only fields"`
	Enemy  *EnemyFields  `json:"enemy,omitempty" yaml:"enemy" jsonschema:"title=Enemy-only fields"`
}

// PlayerFields extends EntityDefinition for player-controlled classes.
type PlayerFields struct {
	InvincibilitySeconds float64 `json:"invincibilitySeconds" yaml:"invincibilitySeconds" jsonschema:"title=Post-hit invincibility window in seconds,minimum=0"`
}

// EnemyFields extends EntityDefinition for hostile classes.
type EnemyFields struct {
	ContactDamage float64    `json:"contactDamage,omitempty" yaml:"contactDamage" jsonschema:"title=Damage dealt on body contact"`
	AggroRange    float64    `json:"aggroRange,omitempty" yaml:"aggroRange" jsonschema:"title=Aggro radius in world units"`
	Boss          bool       `json:"boss,omitempty" yaml:"boss" jsonschema:"title=Boss flag"`
	DropTable     []DropRule `json:"dropTable,omitempty" yaml:"dropTable" jsonschema:"title=Loot rolled on defeat"`
}

// DropRule is one row of an enemy drop table.
type DropRule struct {
	ItemID string  `json:"itemId" yaml:"itemId" jsonschema:"title=Item id,minLength=1,required"`
	Chance float64 `json:"chance" yaml:"chance" jsonschema:"title=Roll chance,minimum=0,maximum=1,required"`
	Count  int     `json:"count,omitempty" yaml:"count" jsonschema:"title=Quantity dropped,minimum=1"`
}

// StatusEffectDefinition templates a timed modifier. DamageMultiplier
// and SpeedMultiplier apply once regardless of stack count; TickDamage
// scales with stacks.
type StatusEffectDefinition struct {
	EffectID         string  `json:"effectId" yaml:"effectId" jsonschema:"title=Effect id,pattern=^[a-z0-9\\-]+$,minLength=1,required"`
	DefaultDuration  float64 `json:"defaultDuration" yaml:"defaultDuration" jsonschema:"title=Default duration in seconds,minimum=0,required"`
	Stackable        bool    `json:"stackable,omitempty" yaml:"stackable" jsonschema:"title=Whether repeat applications add stacks"`
	MaxStacks        int     `json:"maxStacks,omitempty" yaml:"maxStacks" jsonschema:"title=Stack ceiling,minimum=1"`
	TickInterval     float64 `json:"tickInterval,omitempty" yaml:"tickInterval" jsonschema:"title=Seconds between periodic ticks; 0 disables ticking,minimum=0"`
	TickDamage       float64 `json:"tickDamage,omitempty" yaml:"tickDamage" jsonschema:"title=Damage per periodic tick per stack"`
	SpeedMultiplier  float64 `json:"speedMultiplier,omitempty" yaml:"speedMultiplier" jsonschema:"title=Movement speed multiplier while active,minimum=0"`
	DamageMultiplier float64 `json:"damageMultiplier,omitempty" yaml:"damageMultiplier" jsonschema:"title=Incoming damage multiplier while active,minimum=0"`
}

// EffectiveMaxStacks normalizes the stack ceiling: non-stackable
// effects always cap at one.
func (d *StatusEffectDefinition) EffectiveMaxStacks() int {
	if d == nil || !d.Stackable {
		return 1
	}
	if d.MaxStacks < 1 {
		return 1
	}
	return d.MaxStacks
}

// HazardDefinition maps an environmental hazard type to the damage it
// deals on contact. Zero-damage hazards are legal and inert.
type HazardDefinition struct {
	HazardType string  `json:"hazardType" yaml:"hazardType" jsonschema:"title=Hazard type,pattern=^[a-z0-9\\-]+$,minLength=1,required"`
	Damage     float64 `json:"damage" yaml:"damage" jsonschema:"title=Contact damage; 0 or less is inert"`
}

// WeaponDefinition templates a held weapon.
type WeaponDefinition struct {
	WeaponID  string  `json:"weaponId" yaml:"weaponId" jsonschema:"title=Weapon id,pattern=^[a-z0-9\\-]+$,minLength=1,required"`
	Damage    float64 `json:"damage" yaml:"damage" jsonschema:"title=Base damage per hit,required"`
	Knockback float64 `json:"knockback,omitempty" yaml:"knockback" jsonschema:"title=Impulse magnitude on hit"`
	Cooldown  float64 `json:"cooldown,omitempty" yaml:"cooldown" jsonschema:"title=Seconds between swings,minimum=0"`
}

// ProjectileDefinition templates a traveling or instantaneous ranged
// effect. There is exactly one projectile shape: Speed == 0 is the
// sentinel for hitscan.
type ProjectileDefinition struct {
	ProjectileID string  `json:"projectileId" yaml:"projectileId" jsonschema:"title=Projectile id,pattern=^[a-z0-9\\-]+$,minLength=1,required"`
	Damage       float64 `json:"damage" yaml:"damage" jsonschema:"title=Base damage on impact,required"`
	Speed        float64 `json:"speed" yaml:"speed" jsonschema:"title=Travel speed; 0 means hitscan,minimum=0"`
	Knockback    float64 `json:"knockback,omitempty" yaml:"knockback" jsonschema:"title=Impulse magnitude on impact"`
	Radius       float64 `json:"radius,omitempty" yaml:"radius" jsonschema:"title=Collision radius in world units,minimum=0"`
	AppliesID    string  `json:"applies,omitempty" yaml:"applies" jsonschema:"title=Status effect id applied on impact"`
}

// Hitscan reports whether the projectile resolves instantaneously.
func (d *ProjectileDefinition) Hitscan() bool {
	return d != nil && d.Speed == 0
}
