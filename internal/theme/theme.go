// Package theme stores the light/dark display preference under the
// "themeMode" key and maps it to a colour palette.
package theme

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// StorageKey is the persisted key for the mode.
const StorageKey = "themeMode"

// Mode is a display mode.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Toggled returns the other mode.
func (m Mode) Toggled() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Palette is the set of colours for a mode.
type Palette struct {
	Background lipgloss.Color
	Text       lipgloss.Color
	Heading    lipgloss.Color
	Toggle     lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Danger     lipgloss.Color
}

var palettes = map[Mode]Palette{
	Light: {
		Background: lipgloss.Color("#ffffff"),
		Text:       lipgloss.Color("#000000"),
		Heading:    lipgloss.Color("#0ea5e9"),
		Toggle:     lipgloss.Color("#0ea5e9"),
		Muted:      lipgloss.Color("#666666"),
		Success:    lipgloss.Color("#15803d"),
		Warning:    lipgloss.Color("#b45309"),
		Danger:     lipgloss.Color("#dc2626"),
	},
	Dark: {
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Heading:    lipgloss.Color("#3abff8"),
		Toggle:     lipgloss.Color("#3abff8"),
		Muted:      lipgloss.Color("#9ca3af"),
		Success:    lipgloss.Color("#4ade80"),
		Warning:    lipgloss.Color("#facc15"),
		Danger:     lipgloss.Color("#f87171"),
	},
}

// PaletteFor returns the palette of m. Unknown modes use the light palette.
func PaletteFor(m Mode) Palette {
	if p, ok := palettes[m]; ok {
		return p
	}
	return palettes[Light]
}

// KV is the persisted key/value area.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store holds the current mode and persists every change.
type Store struct {
	kv KV

	mu   sync.RWMutex
	mode Mode
}

// Load reads the persisted mode. Missing, unreadable, or unknown values
// yield Light.
func Load(kv KV) *Store {
	s := &Store{kv: kv, mode: Light}
	if v, ok, err := kv.Get(StorageKey); err == nil && ok {
		if m, err := ParseMode(v); err == nil {
			s.mode = m
		}
	}
	return s
}

// Mode returns the current mode.
func (s *Store) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Palette returns the palette of the current mode.
func (s *Store) Palette() Palette {
	return PaletteFor(s.Mode())
}

// Set switches to m and persists it.
func (s *Store) Set(m Mode) error {
	if m != Light && m != Dark {
		return fmt.Errorf("unknown theme %q", m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(StorageKey, string(m)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	s.mode = m
	return nil
}

// Toggle flips the mode, persists it, and returns the new mode.
func (s *Store) Toggle() (Mode, error) {
	next := s.Mode().Toggled()
	if err := s.Set(next); err != nil {
		return s.Mode(), err
	}
	return next, nil
}
