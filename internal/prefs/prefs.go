// Package prefs persists the user's presentation preference (light or dark
// theme) between runs. Nothing in the addenda pipeline reads it.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme is the presentation preference.
type Theme string

const (
	// Dark is the default.
	Dark  Theme = "oscuro"
	Light Theme = "claro"
)

// ParseTheme accepts "oscuro" or "claro" in any case.
func ParseTheme(value string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(value))) {
	case Dark:
		return Dark, nil
	case Light:
		return Light, nil
	}
	return "", fmt.Errorf("unknown theme %q (expected %q or %q)", value, Dark, Light)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Preferences is the stored preference file.
type Preferences struct {
	Theme Theme `yaml:"theme"`
}

// Store reads and writes Preferences at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the preferences file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the preferences. A missing file, or an unknown theme in it,
// yields the default.
func (s *Store) Load() (Preferences, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Preferences{Theme: Dark}, nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	if t, err := ParseTheme(string(p.Theme)); err == nil {
		p.Theme = t
	} else {
		p.Theme = Dark
	}
	return p, nil
}

// Save writes the preferences, creating the parent directory.
func (s *Store) Save(p Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for preferences: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// SetTheme stores t and returns it.
func (s *Store) SetTheme(t Theme) (Theme, error) {
	p, err := s.Load()
	if err != nil {
		return "", err
	}
	p.Theme = t
	return t, s.Save(p)
}

// ToggleTheme flips the stored theme and returns the new value.
func (s *Store) ToggleTheme() (Theme, error) {
	p, err := s.Load()
	if err != nil {
		return "", err
	}
	return s.SetTheme(p.Theme.Toggle())
}
