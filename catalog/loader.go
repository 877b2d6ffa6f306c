package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of one catalog file. A file may carry
// any mix of sections; the loader merges every document in a directory
// into a single registry.
type Document struct {
	Entities    []*EntityDefinition       `json:"entities,omitempty" yaml:"entities" jsonschema:"title=Entity templates"`
	Effects     []*StatusEffectDefinition `json:"effects,omitempty" yaml:"effects" jsonschema:"title=Status effect templates"`
	Hazards     []*HazardDefinition       `json:"hazards,omitempty" yaml:"hazards" jsonschema:"title=Hazard damage table"`
	Weapons     []*WeaponDefinition       `json:"weapons,omitempty" yaml:"weapons" jsonschema:"title=Weapon templates"`
	Projectiles []*ProjectileDefinition   `json:"projectiles,omitempty" yaml:"projectiles" jsonschema:"title=Projectile templates"`
}

// Merge adds every definition in the document to the registry.
func (r *Registry) Merge(doc Document) error {
	for _, def := range doc.Entities {
		if err := r.AddEntity(def); err != nil {
			return err
		}
	}
	for _, def := range doc.Effects {
		if err := r.AddStatusEffect(def); err != nil {
			return err
		}
	}
	for _, def := range doc.Hazards {
		if err := r.AddHazard(def); err != nil {
			return err
		}
	}
	for _, def := range doc.Weapons {
		if err := r.AddWeapon(def); err != nil {
			return err
		}
	}
	for _, def := range doc.Projectiles {
		if err := r.AddProjectile(def); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile parses a single YAML catalog document into the registry.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if err := r.Merge(doc); err != nil {
		return fmt.Errorf("catalog: %s: %w", path, err)
	}
	return nil
}

// LoadDir loads every .yaml/.yml file directly under dir, in lexical
// order so duplicate-id errors are deterministic, then validates the
// merged registry.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	registry := NewRegistry()
	for _, name := range names {
		if err := registry.LoadFile(filepath.Join(dir, name)); err != nil {
			return nil, err
		}
	}
	if err := registry.Validate(); err != nil {
		return nil, err
	}
	return registry, nil
}

// LoadFS mirrors LoadDir over an fs.FS, used by tests and embedded
// defaults.
func LoadFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	registry := NewRegistry()
	for _, name := range names {
		data, err := fs.ReadFile(fsys, filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
		var doc Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", name, err)
		}
		if err := registry.Merge(doc); err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", name, err)
		}
	}
	if err := registry.Validate(); err != nil {
		return nil, err
	}
	return registry, nil
}
