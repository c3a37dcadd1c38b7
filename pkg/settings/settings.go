// Package settings persists the display toggles that affect rendering only.
package settings

import (
	"fmt"
	"strconv"

	"github.com/devicelab-dev/casesheet/pkg/store"
)

// Store keys. Values are the strings "true" and "false".
const (
	KeyShowStepNumbers = "showStepNumbers"
	KeyCompactView     = "compactView"
)

// Display holds the two presentation flags.
type Display struct {
	ShowStepNumbers bool `json:"showStepNumbers"`
	CompactView     bool `json:"compactView"`
}

// Load reads the display flags. Missing keys read as false.
func Load(s store.Store) (Display, error) {
	var d Display
	var err error
	if d.ShowStepNumbers, err = loadFlag(s, KeyShowStepNumbers); err != nil {
		return Display{}, err
	}
	if d.CompactView, err = loadFlag(s, KeyCompactView); err != nil {
		return Display{}, err
	}
	return d, nil
}

// Save writes both flags.
func Save(s store.Store, d Display) error {
	if err := s.Set(KeyShowStepNumbers, strconv.FormatBool(d.ShowStepNumbers)); err != nil {
		return fmt.Errorf("save %s: %w", KeyShowStepNumbers, err)
	}
	if err := s.Set(KeyCompactView, strconv.FormatBool(d.CompactView)); err != nil {
		return fmt.Errorf("save %s: %w", KeyCompactView, err)
	}
	return nil
}

func loadFlag(s store.Store, key string) (bool, error) {
	v, _, err := s.Get(key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	// Only the exact string "true" enables a flag.
	return v == "true", nil
}
