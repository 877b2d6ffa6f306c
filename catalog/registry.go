package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errEmptyEntityID     = errors.New("entity id must not be empty")
	errEmptyEffectID     = errors.New("effect id must not be empty")
	errEmptyHazardType   = errors.New("hazard type must not be empty")
	errEmptyWeaponID     = errors.New("weapon id must not be empty")
	errEmptyProjectileID = errors.New("projectile id must not be empty")
)

// Registry holds every loaded definition keyed by id. It is populated
// before the simulation starts and read-only afterwards; duplicate ids
// are a load-time error, never a runtime one.
type Registry struct {
	entities    map[string]*EntityDefinition
	effects     map[string]*StatusEffectDefinition
	hazards     map[string]*HazardDefinition
	weapons     map[string]*WeaponDefinition
	projectiles map[string]*ProjectileDefinition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities:    make(map[string]*EntityDefinition),
		effects:     make(map[string]*StatusEffectDefinition),
		hazards:     make(map[string]*HazardDefinition),
		weapons:     make(map[string]*WeaponDefinition),
		projectiles: make(map[string]*ProjectileDefinition),
	}
}

// AddEntity registers an entity definition, rejecting duplicates.
func (r *Registry) AddEntity(def *EntityDefinition) error {
	if def == nil || strings.TrimSpace(def.EntityID) == "" {
		return fmt.Errorf("catalog: %w", errEmptyEntityID)
	}
	if !def.Persistence.Valid() {
		return fmt.Errorf("catalog: entity %q: unknown persistence mode %q", def.EntityID, def.Persistence)
	}
	if def.MaxHealth <= 0 {
		return fmt.Errorf("catalog: entity %q: max health must be positive", def.EntityID)
	}
	if _, exists := r.entities[def.EntityID]; exists {
		return fmt.Errorf("catalog: duplicate entity id %q", def.EntityID)
	}
	r.entities[def.EntityID] = def
	return nil
}

// AddStatusEffect registers a status effect definition, rejecting duplicates.
func (r *Registry) AddStatusEffect(def *StatusEffectDefinition) error {
	if def == nil || strings.TrimSpace(def.EffectID) == "" {
		return fmt.Errorf("catalog: %w", errEmptyEffectID)
	}
	if def.DefaultDuration <= 0 {
		return fmt.Errorf("catalog: effect %q: default duration must be positive", def.EffectID)
	}
	if def.Stackable && def.MaxStacks < 1 {
		return fmt.Errorf("catalog: effect %q: stackable effects need maxStacks >= 1", def.EffectID)
	}
	if _, exists := r.effects[def.EffectID]; exists {
		return fmt.Errorf("catalog: duplicate effect id %q", def.EffectID)
	}
	r.effects[def.EffectID] = def
	return nil
}

// AddHazard registers a hazard definition, rejecting duplicates.
func (r *Registry) AddHazard(def *HazardDefinition) error {
	if def == nil || strings.TrimSpace(def.HazardType) == "" {
		return fmt.Errorf("catalog: %w", errEmptyHazardType)
	}
	if _, exists := r.hazards[def.HazardType]; exists {
		return fmt.Errorf("catalog: duplicate hazard type %q", def.HazardType)
	}
	r.hazards[def.HazardType] = def
	return nil
}

// AddWeapon registers a weapon definition, rejecting duplicates.
func (r *Registry) AddWeapon(def *WeaponDefinition) error {
	if def == nil || strings.TrimSpace(def.WeaponID) == "" {
		return fmt.Errorf("catalog: %w", errEmptyWeaponID)
	}
	if _, exists := r.weapons[def.WeaponID]; exists {
		return fmt.Errorf("catalog: duplicate weapon id %q", def.WeaponID)
	}
	r.weapons[def.WeaponID] = def
	return nil
}

// AddProjectile registers a projectile definition, rejecting duplicates.
func (r *Registry) AddProjectile(def *ProjectileDefinition) error {
	if def == nil || strings.TrimSpace(def.ProjectileID) == "" {
		return fmt.Errorf("catalog: %w", errEmptyProjectileID)
	}
	if def.Speed < 0 {
		return fmt.Errorf("catalog: projectile %q: speed must not be negative", def.ProjectileID)
	}
	if _, exists := r.projectiles[def.ProjectileID]; exists {
		return fmt.Errorf("catalog: duplicate projectile id %q", def.ProjectileID)
	}
	r.projectiles[def.ProjectileID] = def
	return nil
}

// Entity looks up an entity definition by id.
func (r *Registry) Entity(id string) (*EntityDefinition, bool) {
	def, ok := r.entities[id]
	return def, ok
}

// StatusEffect looks up a status effect definition by id.
func (r *Registry) StatusEffect(id string) (*StatusEffectDefinition, bool) {
	def, ok := r.effects[id]
	return def, ok
}

// Hazard looks up a hazard definition by type.
func (r *Registry) Hazard(hazardType string) (*HazardDefinition, bool) {
	def, ok := r.hazards[hazardType]
	return def, ok
}

// Weapon looks up a weapon definition by id.
func (r *Registry) Weapon(id string) (*WeaponDefinition, bool) {
	def, ok := r.weapons[id]
	return def, ok
}

// Projectile looks up a projectile definition by id.
func (r *Registry) Projectile(id string) (*ProjectileDefinition, bool) {
	def, ok := r.projectiles[id]
	return def, ok
}

// Validate runs cross-definition checks that individual Add calls
// cannot perform, e.g. projectiles referencing unknown status effects.
func (r *Registry) Validate() error {
	for id, proj := range r.projectiles {
		if proj.AppliesID == "" {
			continue
		}
		if _, ok := r.effects[proj.AppliesID]; !ok {
			return fmt.Errorf("catalog: projectile %q applies unknown effect %q", id, proj.AppliesID)
		}
	}
	return nil
}
