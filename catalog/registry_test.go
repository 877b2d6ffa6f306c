package catalog

import (
	"strings"
	"testing"
)

func TestRegistryRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	if err := registry.AddEntity(&EntityDefinition{EntityID: "rat", MaxHealth: 10}); err != nil {
		t.Fatalf("first entity: %v", err)
	}
	if err := registry.AddEntity(&EntityDefinition{EntityID: "rat", MaxHealth: 20}); err == nil {
		t.Fatal("expected duplicate entity id error")
	}

	if err := registry.AddStatusEffect(&StatusEffectDefinition{EffectID: "poison", DefaultDuration: 5}); err != nil {
		t.Fatalf("first effect: %v", err)
	}
	if err := registry.AddStatusEffect(&StatusEffectDefinition{EffectID: "poison", DefaultDuration: 3}); err == nil {
		t.Fatal("expected duplicate effect id error")
	}

	if err := registry.AddHazard(&HazardDefinition{HazardType: "lava", Damage: 10}); err != nil {
		t.Fatalf("first hazard: %v", err)
	}
	if err := registry.AddHazard(&HazardDefinition{HazardType: "lava", Damage: 5}); err == nil {
		t.Fatal("expected duplicate hazard type error")
	}

	if err := registry.AddWeapon(&WeaponDefinition{WeaponID: "sword", Damage: 5}); err != nil {
		t.Fatalf("first weapon: %v", err)
	}
	if err := registry.AddWeapon(&WeaponDefinition{WeaponID: "sword", Damage: 6}); err == nil {
		t.Fatal("expected duplicate weapon id error")
	}

	if err := registry.AddProjectile(&ProjectileDefinition{ProjectileID: "arrow", Damage: 4, Speed: 200}); err != nil {
		t.Fatalf("first projectile: %v", err)
	}
	if err := registry.AddProjectile(&ProjectileDefinition{ProjectileID: "arrow", Damage: 4, Speed: 100}); err == nil {
		t.Fatal("expected duplicate projectile id error")
	}
}

func TestRegistryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		add     func(*Registry) error
		wantErr string
	}{
		{
			name:    "empty entity id",
			add:     func(r *Registry) error { return r.AddEntity(&EntityDefinition{MaxHealth: 10}) },
			wantErr: "entity id",
		},
		{
			name:    "non-positive max health",
			add:     func(r *Registry) error { return r.AddEntity(&EntityDefinition{EntityID: "x", MaxHealth: 0}) },
			wantErr: "max health",
		},
		{
			name: "unknown persistence mode",
			add: func(r *Registry) error {
				return r.AddEntity(&EntityDefinition{EntityID: "x", MaxHealth: 1, Persistence: "sometimes"})
			},
			wantErr: "persistence",
		},
		{
			name: "non-positive default duration",
			add: func(r *Registry) error {
				return r.AddStatusEffect(&StatusEffectDefinition{EffectID: "x"})
			},
			wantErr: "duration",
		},
		{
			name: "stackable without max stacks",
			add: func(r *Registry) error {
				return r.AddStatusEffect(&StatusEffectDefinition{EffectID: "x", DefaultDuration: 1, Stackable: true})
			},
			wantErr: "maxStacks",
		},
		{
			name: "negative projectile speed",
			add: func(r *Registry) error {
				return r.AddProjectile(&ProjectileDefinition{ProjectileID: "x", Damage: 1, Speed: -1})
			},
			wantErr: "speed",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.add(NewRegistry())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateCrossReferences(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	if err := registry.AddProjectile(&ProjectileDefinition{ProjectileID: "sting", Damage: 6, AppliesID: "poison"}); err != nil {
		t.Fatalf("add projectile: %v", err)
	}
	if err := registry.Validate(); err == nil {
		t.Fatal("expected unknown effect reference error")
	}

	if err := registry.AddStatusEffect(&StatusEffectDefinition{EffectID: "poison", DefaultDuration: 5}); err != nil {
		t.Fatalf("add effect: %v", err)
	}
	if err := registry.Validate(); err != nil {
		t.Fatalf("validate after adding effect: %v", err)
	}
}

func TestEffectiveMaxStacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  *StatusEffectDefinition
		want int
	}{
		{"nil", nil, 1},
		{"non-stackable", &StatusEffectDefinition{MaxStacks: 5}, 1},
		{"stackable", &StatusEffectDefinition{Stackable: true, MaxStacks: 3}, 3},
		{"stackable without ceiling", &StatusEffectDefinition{Stackable: true}, 1},
	}
	for _, tc := range tests {
		if got := tc.def.EffectiveMaxStacks(); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestProjectileHitscanSentinel(t *testing.T) {
	t.Parallel()

	traveling := &ProjectileDefinition{ProjectileID: "fireball", Speed: 320}
	if traveling.Hitscan() {
		t.Fatal("traveling projectile reported hitscan")
	}
	instant := &ProjectileDefinition{ProjectileID: "sting", Speed: 0}
	if !instant.Hitscan() {
		t.Fatal("zero-speed projectile did not report hitscan")
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()
	if _, ok := registry.Entity("adventurer"); !ok {
		t.Fatal("default registry missing adventurer")
	}
	if _, ok := registry.StatusEffect("poison"); !ok {
		t.Fatal("default registry missing poison")
	}
	if _, ok := registry.Hazard("lava"); !ok {
		t.Fatal("default registry missing lava")
	}
}
