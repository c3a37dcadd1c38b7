package mapping

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/casesheet/pkg/core"
)

// Row is one line of the mapping editor.
type Row struct {
	Field  string
	Header string
}

// Editor holds an in-progress mapping edit against a fixed header set.
// Rows may temporarily have blank or duplicate field names; Mapping
// cleans them up.
type Editor struct {
	headers []string
	rows    []Row
}

// NewEditor starts editing m against the headers of the current sheet.
// Without a sheet, the headers m already refers to are offered instead.
// Rows whose header is not on offer start out unmapped.
func NewEditor(m Mapping, headers []string) *Editor {
	if len(headers) == 0 {
		headers = m.Headers()
	}
	e := &Editor{headers: dedupe(headers)}
	offered := headerSet(e.headers)
	for _, p := range m {
		row := Row{Field: p.Field, Header: p.Header}
		if !offered[row.Header] {
			row.Header = ""
		}
		e.rows = append(e.rows, row)
	}
	return e
}

// Headers returns the headers that can be chosen.
func (e *Editor) Headers() []string {
	return append([]string(nil), e.headers...)
}

// Options returns the choices for every row: "" (none) then each header.
func (e *Editor) Options() []string {
	return append([]string{""}, e.headers...)
}

// Rows returns a copy of the current rows.
func (e *Editor) Rows() []Row {
	return append([]Row(nil), e.rows...)
}

// AddField appends an unmapped row.
func (e *Editor) AddField(name string) {
	e.rows = append(e.rows, Row{Field: name})
}

// RemoveField deletes row i.
func (e *Editor) RemoveField(i int) error {
	if err := e.check(i); err != nil {
		return err
	}
	e.rows = append(e.rows[:i], e.rows[i+1:]...)
	return nil
}

// RenameField changes the field name of row i.
func (e *Editor) RenameField(i int, name string) error {
	if err := e.check(i); err != nil {
		return err
	}
	e.rows[i].Field = name
	return nil
}

// Choose maps row i to header, which must be "" or an offered header.
func (e *Editor) Choose(i int, header string) error {
	if err := e.check(i); err != nil {
		return err
	}
	if header != "" && !headerSet(e.headers)[header] {
		return core.ErrUnknownHeader.WithDetails(map[string]interface{}{"header": header})
	}
	e.rows[i].Header = header
	return nil
}

// Mapping returns the edited mapping.
func (e *Editor) Mapping() Mapping {
	m := make(Mapping, 0, len(e.rows))
	for _, r := range e.rows {
		m = append(m, Pair{Field: strings.TrimSpace(r.Field), Header: r.Header})
	}
	return m.Normalize()
}

func (e *Editor) check(i int) error {
	if i < 0 || i >= len(e.rows) {
		return fmt.Errorf("mapping row %d out of range (%d rows)", i, len(e.rows))
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
