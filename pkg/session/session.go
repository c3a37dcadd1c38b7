// Package session holds the state of one operator's run: the imported
// workbook, the active mapping, the parsed test cases and the display
// settings. Every method is safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/devicelab-dev/casesheet/pkg/core"
	"github.com/devicelab-dev/casesheet/pkg/logger"
	"github.com/devicelab-dev/casesheet/pkg/mapping"
	"github.com/devicelab-dev/casesheet/pkg/settings"
	"github.com/devicelab-dev/casesheet/pkg/store"
	"github.com/devicelab-dev/casesheet/pkg/testcase"
	"github.com/devicelab-dev/casesheet/pkg/workbook"
)

// Phase is the stage the operator is at.
type Phase string

const (
	PhaseEmpty         Phase = "empty"
	PhaseChoosingSheet Phase = "choosing-sheet"
	PhaseMapping       Phase = "mapping"
	PhaseLoaded        Phase = "loaded"
)

// Session is the in-memory state behind the controls surface.
type Session struct {
	mu       sync.Mutex
	store    store.Store
	resolver *mapping.Resolver

	phase   Phase
	token   string
	book    *workbook.Workbook // source of the loaded cases
	sheet   *workbook.Sheet
	active  mapping.Mapping
	cases   []testcase.TestCase
	draft   []mapping.Row
	display settings.Display

	// An import waiting for a sheet choice or a mapping. It replaces
	// book and sheet only once its cases load.
	pendingBook  *workbook.Workbook
	pendingSheet *workbook.Sheet
}

// New creates an empty session backed by s for the persisted mapping and
// display settings.
func New(s store.Store) (*Session, error) {
	d, err := settings.Load(s)
	if err != nil {
		return nil, err
	}
	return &Session{
		store:    s,
		resolver: mapping.NewResolver(s),
		phase:    PhaseEmpty,
		token:    uuid.NewString(),
		display:  d,
	}, nil
}

// Resolver exposes the mapping resolver that shares this session's store.
func (s *Session) Resolver() *mapping.Resolver {
	return s.resolver
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Token identifies the currently loaded case set. It changes whenever the
// cases are replaced or cleared.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Loaded reports whether test cases are available.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cases != nil
}

// Import reads a spreadsheet. A single-sheet file is loaded straight away;
// with several sheets the session waits for SelectSheet. On error the
// previous state is kept.
func (s *Session) Import(name string, r io.Reader) error {
	book, err := workbook.Read(name, r)
	if err != nil {
		logger.Warn("import %q failed: %v", name, err)
		return err
	}
	if len(book.Sheets) == 0 {
		return core.ErrEmptySheet
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("imported %q with %d sheet(s)", name, len(book.Sheets))
	if len(book.Sheets) == 1 {
		return s.selectSheetLocked(book, book.Sheets[0].Name)
	}
	s.pendingBook = book
	s.pendingSheet = nil
	s.draft = nil
	s.phase = PhaseChoosingSheet
	return nil
}

// SheetNames lists the sheets of the pending or current workbook.
func (s *Session) SheetNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.workbookLocked(); b != nil {
		return b.SheetNames()
	}
	return nil
}

func (s *Session) workbookLocked() *workbook.Workbook {
	if s.pendingBook != nil {
		return s.pendingBook
	}
	return s.book
}

func (s *Session) sheetLocked() *workbook.Sheet {
	if s.pendingSheet != nil {
		return s.pendingSheet
	}
	return s.sheet
}

// SelectSheet loads a sheet of the imported workbook. When no mapping fits
// its headers the session moves to PhaseMapping and returns nil; the
// operator then completes the mapping in the editor.
func (s *Session) SelectSheet(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	book := s.workbookLocked()
	if book == nil {
		return core.ErrSheetNotFound.WithDetails(map[string]interface{}{"sheet": name})
	}
	return s.selectSheetLocked(book, name)
}

func (s *Session) selectSheetLocked(book *workbook.Workbook, name string) error {
	sheet, err := book.Sheet(name)
	if err != nil {
		return err
	}
	if len(sheet.Rows) == 0 {
		s.abortLocked(book)
		return core.ErrEmptySheet.WithDetails(map[string]interface{}{"sheet": name})
	}

	m, src, err := s.resolver.Resolve(sheet.Headers)
	switch {
	case errors.Is(err, mapping.ErrUnresolved):
		logger.Info("no mapping fits sheet %q, opening editor", name)
		s.pendingBook = book
		s.pendingSheet = sheet
		s.draft = nil
		s.phase = PhaseMapping
		return nil
	case err != nil:
		s.abortLocked(book)
		return err
	}

	logger.Info("sheet %q resolved with %s mapping", name, src)
	s.loadLocked(book, sheet, m)
	return nil
}

// abortLocked drops a failed import. A multi-sheet workbook stays pending
// so another sheet can be picked.
func (s *Session) abortLocked(book *workbook.Workbook) {
	s.pendingSheet = nil
	if len(book.Sheets) > 1 {
		s.pendingBook = book
		s.phase = PhaseChoosingSheet
		return
	}
	s.settleLocked()
}

// settleLocked drops any pending import and returns to the phase implied
// by the loaded cases.
func (s *Session) settleLocked() {
	s.pendingBook = nil
	s.pendingSheet = nil
	s.draft = nil
	if s.cases != nil {
		s.phase = PhaseLoaded
	} else {
		s.phase = PhaseEmpty
	}
}

func (s *Session) loadLocked(book *workbook.Workbook, sheet *workbook.Sheet, m mapping.Mapping) {
	s.pendingBook = nil
	s.pendingSheet = nil
	s.book = book
	s.sheet = sheet
	s.active = m.Clone()
	s.cases = testcase.Build(sheet.Rows, m)
	s.draft = nil
	s.phase = PhaseLoaded
	s.token = uuid.NewString()
	logger.Info("loaded %d test case(s) from sheet %q", len(s.cases), sheet.Name)
}

// Headers returns the headers of the pending or current sheet.
func (s *Session) Headers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sheet := s.sheetLocked()
	if sheet == nil {
		return nil
	}
	return append([]string(nil), sheet.Headers...)
}

// Mapping returns the mapping the current cases were built with, or the
// persisted/default one when nothing is loaded.
func (s *Session) Mapping() mapping.Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentMappingLocked()
}

func (s *Session) currentMappingLocked() mapping.Mapping {
	if s.active != nil {
		return s.active.Clone()
	}
	m, _, err := s.resolver.Current()
	if err != nil {
		logger.Warn("reading persisted mapping: %v", err)
		return mapping.Default()
	}
	return m
}

// CloseEditor drops unsaved editor rows. An import still waiting for a
// mapping is dropped too, leaving any loaded cases as they were.
func (s *Session) CloseEditor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	if s.phase != PhaseMapping {
		return
	}
	s.settleLocked()
}

// Editor returns a fresh editor over the current draft (or mapping) and the
// headers of the pending or current sheet. The caller owns it.
func (s *Session) Editor() *mapping.Editor {
	s.mu.Lock()
	defer s.mu.Unlock()

	var headers []string
	if sheet := s.sheetLocked(); sheet != nil {
		headers = sheet.Headers
	}
	if s.draft == nil {
		return mapping.NewEditor(s.currentMappingLocked(), headers)
	}

	if len(headers) == 0 {
		headers = rowHeaders(s.draft)
	}
	e := mapping.NewEditor(nil, headers)
	for i, r := range s.draft {
		e.AddField(r.Field)
		// Headers that are no longer offered fall back to unmapped.
		_ = e.Choose(i, r.Header)
	}
	return e
}

// SetDraft keeps unsaved editor rows between requests.
func (s *Session) SetDraft(rows []mapping.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = append([]mapping.Row{}, rows...)
}

// ApplyMapping persists m unconditionally and rebuilds the cases from the
// sheet waiting for a mapping, else from the loaded sheet, if any.
func (s *Session) ApplyMapping(m mapping.Mapping) error {
	m = m.Normalize()
	if err := s.resolver.Save(m); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.pendingSheet != nil:
		s.loadLocked(s.pendingBook, s.pendingSheet, m)
	case s.sheet != nil:
		s.loadLocked(s.book, s.sheet, m)
	default:
		s.active = nil
		s.settleLocked()
	}
	return nil
}

// ApplyRawMapping parses a hand-edited JSON mapping and applies it. A parse
// failure leaves the stored mapping untouched.
func (s *Session) ApplyRawMapping(text string) error {
	m, err := mapping.ParseRaw(text)
	if err != nil {
		return err
	}
	return s.ApplyMapping(m)
}

// SetActual records the actual result text of a step.
func (s *Session) SetActual(token string, ci, si int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	step, err := s.stepLocked(token, ci, si)
	if err != nil {
		return err
	}
	step.Actual = text
	return nil
}

// SetResult records the selected result of a step.
func (s *Session) SetResult(token string, ci, si int, r core.StepResult) error {
	if !r.Valid() {
		return fmt.Errorf("unknown step result %q", r)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	step, err := s.stepLocked(token, ci, si)
	if err != nil {
		return err
	}
	step.Result = r
	return nil
}

// SetScreenshot attaches a pasted image, given as a base64 data URL.
// Anything that is not an image fails with core.ErrNotImage and changes
// nothing.
func (s *Session) SetScreenshot(token string, ci, si int, dataURL string) error {
	shot, err := core.ParseDataURL(dataURL)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	step, err := s.stepLocked(token, ci, si)
	if err != nil {
		return err
	}
	step.Screenshot = shot.DataURL()
	logger.Debug("screenshot attached to case %d step %d (%s, %d bytes)", ci, si, shot.ContentType, len(shot.Body))
	return nil
}

func (s *Session) stepLocked(token string, ci, si int) (*testcase.Step, error) {
	stale := core.ErrStaleTarget.WithDetails(map[string]interface{}{"case": ci, "step": si})
	if token != s.token {
		return nil, stale
	}
	if ci < 0 || ci >= len(s.cases) {
		return nil, stale
	}
	steps := s.cases[ci].Steps
	if si < 0 || si >= len(steps) {
		return nil, stale
	}
	return &steps[si], nil
}

// Reset clears everything imported. The persisted mapping and display
// settings are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.book = nil
	s.sheet = nil
	s.pendingBook = nil
	s.pendingSheet = nil
	s.active = nil
	s.cases = nil
	s.draft = nil
	s.phase = PhaseEmpty
	s.token = uuid.NewString()
	logger.Info("session reset")
}

// Display returns the display settings.
func (s *Session) Display() settings.Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// SetDisplay persists and applies new display settings.
func (s *Session) SetDisplay(d settings.Display) error {
	if err := settings.Save(s.store, d); err != nil {
		return err
	}
	s.mu.Lock()
	s.display = d
	s.mu.Unlock()
	return nil
}

// Snapshot is a consistent, deep-copied view of the session. Source and
// SheetName describe the loaded cases; SheetNames the workbook a sheet is
// being chosen from, or else the loaded one.
type Snapshot struct {
	Phase      Phase
	Token      string
	Source     string
	SheetNames []string
	SheetName  string
	Mapping    mapping.Mapping
	Fields     []string
	Cases      []testcase.TestCase
	Display    settings.Display
}

// Loaded reports whether the snapshot holds test cases.
func (v Snapshot) Loaded() bool {
	return v.Cases != nil
}

// Snapshot copies the current state for rendering or export.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.currentMappingLocked()
	v := Snapshot{
		Phase:   s.phase,
		Token:   s.token,
		Mapping: m,
		Fields:  m.CaseFields(),
		Cases:   testcase.CloneAll(s.cases),
		Display: s.display,
	}
	if s.book != nil {
		v.Source = s.book.Name
	}
	if b := s.workbookLocked(); b != nil {
		v.SheetNames = b.SheetNames()
	}
	if s.sheet != nil {
		v.SheetName = s.sheet.Name
	}
	return v
}

func rowHeaders(rows []mapping.Row) []string {
	var out []string
	for _, r := range rows {
		if r.Header != "" {
			out = append(out, r.Header)
		}
	}
	return out
}
