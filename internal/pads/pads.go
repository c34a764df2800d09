// Package pads maps selected sample files onto trigger keys.
package pads

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ShotaTanemura/TermiGroove/internal/audio"
)

// defaultKeys is the QWERTY row-first pad layout; the first 8 selections
// land on Q W E R T Y U I.
var defaultKeys = []rune("qwertyuiopasdfghjkl;zxcvbnm,./")

// ErrNoSelection reports that a mapping was requested with no files picked.
var ErrNoSelection = errors.New("pads: no files selected")

// Slot binds one pad key to one sample file.
type Slot struct {
	Key  rune
	Path string
	Name string
}

// Mapping is the ordered key-to-sample assignment for one pads session. It
// is built once from the selection and read-only afterwards.
type Mapping struct {
	slots []Slot
	byKey map[rune]Slot
}

// NewMapping assigns the selected files to pad keys in selection order.
// Only .wav files are accepted; selections beyond the available keys are
// ignored.
func NewMapping(paths []string) (*Mapping, error) {
	if len(paths) == 0 {
		return nil, ErrNoSelection
	}
	for _, p := range paths {
		if !IsWav(p) {
			return nil, fmt.Errorf("pads: unsupported file (only .wav): %s", filepath.Base(p))
		}
	}

	m := &Mapping{byKey: make(map[rune]Slot)}
	for i, p := range paths {
		if i >= len(defaultKeys) {
			break
		}
		slot := Slot{Key: defaultKeys[i], Path: p, Name: filepath.Base(p)}
		m.slots = append(m.slots, slot)
		m.byKey[slot.Key] = slot
	}
	return m, nil
}

// Slot looks a pad key up.
func (m *Mapping) Slot(key rune) (Slot, bool) {
	s, ok := m.byKey[key]
	return s, ok
}

// Slots returns the assignments in key order.
func (m *Mapping) Slots() []Slot {
	return m.slots
}

// Len returns the number of mapped pads.
func (m *Mapping) Len() int {
	return len(m.slots)
}

// Preload pushes one preload command per mapped pad so the audio side has
// every sample decoded before the first trigger.
func (m *Mapping) Preload(bus audio.Bus) error {
	for _, s := range m.slots {
		if err := bus.Send(audio.Preload(s.Key, s.Path)); err != nil {
			return fmt.Errorf("preloading %s: %w", s.Name, err)
		}
	}
	return nil
}

// IsWav reports whether the path has a .wav extension, case-insensitively.
func IsWav(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}
