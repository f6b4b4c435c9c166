// Package themes holds the read-only registry of storefront templates.
// Themes ship with the binary as a YAML manifest; shops reference them by
// key and the shops service validates the key against this registry.
package themes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Theme describes one storefront template.
type Theme struct {
	Key          string `yaml:"key" json:"key"`
	Name         string `yaml:"name" json:"name"`
	Description  string `yaml:"description" json:"description"`
	PreviewImage string `yaml:"previewImage" json:"previewImage"`
}

type manifest struct {
	Themes []Theme `yaml:"themes"`
}

// Registry is the immutable set of available themes. Safe for concurrent
// reads; never mutated after Load.
type Registry struct {
	themes []Theme
	byKey  map[string]Theme
}

// Load parses the YAML manifest at path.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read themes manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse themes manifest: %w", err)
	}
	if len(m.Themes) == 0 {
		return nil, fmt.Errorf("themes manifest %s defines no themes", path)
	}

	byKey := make(map[string]Theme, len(m.Themes))
	for _, t := range m.Themes {
		if t.Key == "" {
			return nil, fmt.Errorf("themes manifest %s contains a theme without a key", path)
		}
		if _, dup := byKey[t.Key]; dup {
			return nil, fmt.Errorf("themes manifest %s defines theme %q twice", path, t.Key)
		}
		byKey[t.Key] = t
	}

	return &Registry{themes: m.Themes, byKey: byKey}, nil
}

// List returns all themes in manifest order.
func (r *Registry) List() []Theme {
	out := make([]Theme, len(r.themes))
	copy(out, r.themes)
	return out
}

// Get returns the theme for a key.
func (r *Registry) Get(key string) (Theme, bool) {
	t, ok := r.byKey[key]
	return t, ok
}

// Exists reports whether a theme key is defined.
func (r *Registry) Exists(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// DefaultKey returns the first theme in the manifest, used for new shops
// that do not pick one.
func (r *Registry) DefaultKey() string {
	return r.themes[0].Key
}
