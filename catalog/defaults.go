package catalog

// DefaultRegistry returns the built-in template set used when no
// catalog directory is configured. It mirrors what a minimal content
// drop would ship and keeps the server bootable without assets.
func DefaultRegistry() *Registry {
	registry := NewRegistry()

	doc := Document{
		Entities: []*EntityDefinition{
			{
				EntityID:            "adventurer",
				MaxHealth:           100,
				MoveSpeed:           160,
				KnockbackResistance: 0.1,
				Mass:                70,
				Persistence:         PersistenceFull,
				Player:              &PlayerFields{InvincibilitySeconds: 0.5},
			},
			{
				EntityID:    "cave-rat",
				MaxHealth:   30,
				MoveSpeed:   120,
				Mass:        8,
				Persistence: PersistenceNone,
				Enemy: &EnemyFields{
					ContactDamage: 4,
					AggroRange:    220,
					DropTable: []DropRule{
						{ItemID: "gold", Chance: 0.6, Count: 3},
					},
				},
			},
			{
				EntityID:            "ember-golem",
				MaxHealth:           400,
				MoveSpeed:           70,
				KnockbackResistance: 0.85,
				Mass:                600,
				Persistence:         PersistenceFlagsOnly,
				Enemy: &EnemyFields{
					ContactDamage: 18,
					AggroRange:    400,
					Boss:          true,
					DropTable: []DropRule{
						{ItemID: "ember-core", Chance: 1, Count: 1},
					},
				},
			},
		},
		Effects: []*StatusEffectDefinition{
			{
				EffectID:         "poison",
				DefaultDuration:  5,
				Stackable:        true,
				MaxStacks:        3,
				TickInterval:     1,
				TickDamage:       5,
				SpeedMultiplier:  1,
				DamageMultiplier: 1,
			},
			{
				EffectID:         "slow",
				DefaultDuration:  3,
				SpeedMultiplier:  0.5,
				DamageMultiplier: 1,
			},
			{
				EffectID:         "vulnerable",
				DefaultDuration:  4,
				SpeedMultiplier:  1,
				DamageMultiplier: 1.5,
			},
		},
		Hazards: []*HazardDefinition{
			{HazardType: "lava", Damage: 10},
			{HazardType: "spikes", Damage: 15},
			{HazardType: "mud", Damage: 0},
		},
		Weapons: []*WeaponDefinition{
			{WeaponID: "shortsword", Damage: 12, Knockback: 40, Cooldown: 0.4},
		},
		Projectiles: []*ProjectileDefinition{
			{ProjectileID: "fireball", Damage: 20, Speed: 320, Knockback: 60, Radius: 10},
			{ProjectileID: "sting", Damage: 6, Speed: 0, AppliesID: "poison"},
		},
	}

	if err := registry.Merge(doc); err != nil {
		// Built-in templates are fixed at compile time; a merge failure
		// here is a programming error.
		panic(err)
	}
	if err := registry.Validate(); err != nil {
		panic(err)
	}
	return registry
}
