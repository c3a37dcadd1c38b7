// Package mapping resolves which spreadsheet column supplies each logical
// test-case field.
//
// A Mapping is an ordered list of (field, header) pairs. Field names are
// free-form so sheets with any schema can be imported; the order of the
// pairs is the column order of the rendered table and the exported report.
package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/devicelab-dev/casesheet/pkg/core"
)

// Pair associates a logical field with the sheet header that supplies it.
// An empty Header means the field is mapped to nothing.
type Pair struct {
	Field  string
	Header string
}

// Mapping is an ordered set of pairs with unique field names.
type Mapping []Pair

// Default is the built-in mapping for a common qTest export.
func Default() Mapping {
	fields := []string{
		"Test Case ID",
		"Name",
		"Description",
		"Preconditions",
		"Priority",
		"Type",
		"Status",
		"Test Steps",
		"Expected Results",
	}
	m := make(Mapping, len(fields))
	for i, f := range fields {
		m[i] = Pair{Field: f, Header: f}
	}
	return m
}

// IsStepField reports whether a field holds the free-text step block.
func IsStepField(field string) bool {
	return strings.Contains(strings.ToLower(field), "step")
}

// Fields returns the field names in order.
func (m Mapping) Fields() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Field
	}
	return out
}

// CaseFields returns the fields rendered as flat case columns: every field
// except the ones that name a step column.
func (m Mapping) CaseFields() []string {
	var out []string
	for _, p := range m {
		if !IsStepField(p.Field) {
			out = append(out, p.Field)
		}
	}
	return out
}

// StepField returns the first field that names a step column.
func (m Mapping) StepField() (Pair, bool) {
	for _, p := range m {
		if IsStepField(p.Field) {
			return p, true
		}
	}
	return Pair{}, false
}

// Header returns the header mapped to field.
func (m Mapping) Header(field string) (string, bool) {
	for _, p := range m {
		if p.Field == field {
			return p.Header, true
		}
	}
	return "", false
}

// With returns a copy with field mapped to header. A new field is appended.
func (m Mapping) With(field, header string) Mapping {
	out := m.Clone()
	for i := range out {
		if out[i].Field == field {
			out[i].Header = header
			return out
		}
	}
	return append(out, Pair{Field: field, Header: header})
}

// Without returns a copy with field removed.
func (m Mapping) Without(field string) Mapping {
	out := make(Mapping, 0, len(m))
	for _, p := range m {
		if p.Field != field {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns an independent copy.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return nil
	}
	out := make(Mapping, len(m))
	copy(out, m)
	return out
}

// Equal reports whether both mappings hold the same pairs in the same order.
func (m Mapping) Equal(other Mapping) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i] != other[i] {
			return false
		}
	}
	return true
}

// Headers returns the distinct non-empty headers in order.
func (m Mapping) Headers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range m {
		if p.Header == "" || seen[p.Header] {
			continue
		}
		seen[p.Header] = true
		out = append(out, p.Header)
	}
	return out
}

// ResolvableIn reports whether m can be applied automatically to a sheet
// with the given headers: it must have at least one pair and every
// non-empty header must exist in the sheet.
func (m Mapping) ResolvableIn(headers []string) bool {
	if len(m) == 0 {
		return false
	}
	present := headerSet(headers)
	for _, p := range m {
		if p.Header != "" && !present[p.Header] {
			return false
		}
	}
	return true
}

// completeIn is the stricter check used for the built-in default: every
// pair must name a header that exists in the sheet.
func (m Mapping) completeIn(headers []string) bool {
	if len(m) == 0 {
		return false
	}
	present := headerSet(headers)
	for _, p := range m {
		if !present[p.Header] {
			return false
		}
	}
	return true
}

// Normalize trims field names, drops blank ones and keeps the first pair
// for each duplicated name.
func (m Mapping) Normalize() Mapping {
	out := make(Mapping, 0, len(m))
	seen := make(map[string]bool)
	for _, p := range m {
		field := strings.TrimSpace(p.Field)
		if field == "" || seen[field] {
			continue
		}
		seen[field] = true
		out = append(out, Pair{Field: field, Header: p.Header})
	}
	return out
}

// MarshalJSON encodes the mapping as a JSON object whose key order is the
// pair order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	return m.ordered().MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping key order. Values must be
// strings or null. A repeated key keeps its first position and last value.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("mapping must be a JSON object")
	}
	om := orderedmap.New[string, string]()
	if err := om.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("mapping must be a JSON object of strings: %w", err)
	}
	out := make(Mapping, 0, om.Len())
	for p := om.Oldest(); p != nil; p = p.Next() {
		out = append(out, Pair{Field: p.Key, Header: p.Value})
	}
	*m = out
	return nil
}

func (m Mapping) ordered() *orderedmap.OrderedMap[string, string] {
	om := orderedmap.New[string, string]()
	for _, p := range m {
		om.Set(p.Field, p.Header)
	}
	return om
}

// ParseRaw parses a mapping edited by hand as a JSON object.
func ParseRaw(text string) (Mapping, error) {
	var m Mapping
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, core.ErrInvalidMapping.WithCause(err)
	}
	return m.Normalize(), nil
}

// Raw renders the mapping as indented JSON for hand editing.
func (m Mapping) Raw() string {
	if m == nil {
		m = Mapping{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func headerSet(headers []string) map[string]bool {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[h] = true
	}
	return set
}
