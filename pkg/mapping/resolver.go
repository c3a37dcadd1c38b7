package mapping

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/devicelab-dev/casesheet/pkg/core"
	"github.com/devicelab-dev/casesheet/pkg/logger"
	"github.com/devicelab-dev/casesheet/pkg/store"
)

// StoreKey is where the active mapping is persisted.
const StoreKey = "testToolColumnMapping"

// ErrUnresolved means neither the persisted nor the default mapping fits
// the sheet. It is not fatal: the caller should open the mapping editor.
var ErrUnresolved = errors.New("no column mapping matches the sheet headers")

// Source tells where a resolved mapping came from.
type Source string

const (
	SourcePersisted Source = "persisted"
	SourceDefault   Source = "default"
)

// Resolver picks the active mapping for a sheet and persists edits.
type Resolver struct {
	store    store.Store
	fallback Mapping
}

// NewResolver creates a Resolver using the built-in default mapping.
func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s, fallback: Default()}
}

// Resolve returns the mapping to apply to a sheet with the given headers.
//
// Resolution order:
//  1. the persisted mapping, if every non-empty header it names is present
//  2. the default mapping, if every header it names is present
//
// An empty header set fails with core.ErrNoColumns; no fitting mapping
// fails with ErrUnresolved.
func (r *Resolver) Resolve(headers []string) (Mapping, Source, error) {
	if len(headers) == 0 {
		return nil, "", core.ErrNoColumns
	}

	saved, ok, err := r.Load()
	if err != nil {
		// An unreadable saved mapping must not block the import.
		logger.Warn("ignoring persisted mapping: %v", err)
	}
	if ok && saved.ResolvableIn(headers) {
		return saved, SourcePersisted, nil
	}

	if r.fallback.completeIn(headers) {
		return r.fallback.Clone(), SourceDefault, nil
	}

	return nil, "", ErrUnresolved
}

// Load returns the persisted mapping, if one exists.
func (r *Resolver) Load() (Mapping, bool, error) {
	raw, ok, err := r.store.Get(StoreKey)
	if err != nil {
		return nil, false, fmt.Errorf("load mapping: %w", err)
	}
	if !ok || raw == "" {
		return nil, false, nil
	}
	var m Mapping
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, false, core.ErrInvalidMapping.WithCause(err)
	}
	return m, true, nil
}

// Save persists m, replacing any previous mapping.
func (r *Resolver) Save(m Mapping) error {
	if m == nil {
		m = Mapping{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := r.store.Set(StoreKey, string(data)); err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}
	logger.Info("saved column mapping with %d fields", len(m))
	return nil
}

// Forget removes the persisted mapping so the default applies again.
func (r *Resolver) Forget() error {
	if err := r.store.Delete(StoreKey); err != nil {
		return fmt.Errorf("forget mapping: %w", err)
	}
	return nil
}

// Current returns the persisted mapping, or the default when none is saved.
func (r *Resolver) Current() (Mapping, Source, error) {
	m, ok, err := r.Load()
	if err != nil {
		return nil, "", err
	}
	if ok {
		return m, SourcePersisted, nil
	}
	return r.fallback.Clone(), SourceDefault, nil
}
