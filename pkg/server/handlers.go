package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/devicelab-dev/casesheet/pkg/core"
	"github.com/devicelab-dev/casesheet/pkg/logger"
	"github.com/devicelab-dev/casesheet/pkg/mapping"
	"github.com/devicelab-dev/casesheet/pkg/render"
	"github.com/devicelab-dev/casesheet/pkg/report"
	"github.com/devicelab-dev/casesheet/pkg/session"
	"github.com/devicelab-dev/casesheet/pkg/settings"
)

const (
	pathHome  = "/"
	pathAdmin = "/?admin=1"
)

// Notice kinds besides the error categories.
const (
	noticeInfo  = "info"
	noticeError = "error"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	n := s.takeNotice()
	v := render.View{
		Notice:     n.msg,
		NoticeKind: n.kind,
		Token:      snap.Token,
		Loaded:     snap.Loaded(),
		Fields:     snap.Fields,
		Cases:      snap.Cases,
		Display:    snap.Display,
	}
	if snap.Phase == session.PhaseChoosingSheet {
		v.SheetNames = snap.SheetNames
	}
	if r.URL.Query().Get("admin") == "1" || snap.Phase == session.PhaseMapping {
		v.Editor = s.session.Editor()
		v.RawMapping = v.Editor.Mapping().Raw()
	}

	page, err := render.Render(render.Page(v))
	if err != nil {
		logger.Error("render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(page))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, http.ErrMissingFile):
		s.fail(core.ErrNoFile)
	case errors.As(err, &tooLarge):
		s.fail(core.ErrUnreadableWorkbook.
			WithMessage(fmt.Sprintf("file is larger than the upload limit of %d bytes", tooLarge.Limit)).
			WithCause(err))
	case err != nil:
		s.fail(core.ErrUnreadableWorkbook.WithCause(err))
	default:
		defer file.Close()
		if err := s.session.Import(header.Filename, file); err != nil {
			s.fail(err)
		}
	}
	redirect(w, r, pathHome)
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	if err := s.session.SelectSheet(r.PostFormValue("sheet")); err != nil {
		s.fail(err)
	}
	redirect(w, r, pathHome)
}

func (s *Server) handleMapping(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows := formRows(r.PostForm["field"], r.PostForm["header"])
	action := r.PostFormValue("action")

	switch {
	case action == render.ActionAdd:
		s.session.SetDraft(append(rows, mapping.Row{}))
		redirect(w, r, pathAdmin)

	case strings.HasPrefix(action, render.ActionRemove):
		i, err := strconv.Atoi(strings.TrimPrefix(action, render.ActionRemove))
		if err == nil && i >= 0 && i < len(rows) {
			rows = append(rows[:i], rows[i+1:]...)
		}
		s.session.SetDraft(rows)
		redirect(w, r, pathAdmin)

	case action == render.ActionCancel:
		s.session.CloseEditor()
		redirect(w, r, pathHome)

	default:
		s.session.SetDraft(rows)
		m := s.session.Editor().Mapping()
		if err := s.session.ApplyMapping(m); err != nil {
			s.fail(err)
			redirect(w, r, pathAdmin)
			return
		}
		s.flash("Mapping saved.", noticeInfo)
		redirect(w, r, pathHome)
	}
}

func (s *Server) handleRawMapping(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ApplyRawMapping(r.PostFormValue("raw")); err != nil {
		s.fail(err)
		redirect(w, r, pathAdmin)
		return
	}
	s.flash("Mapping saved.", noticeInfo)
	redirect(w, r, pathHome)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	d := settings.Display{
		ShowStepNumbers: r.PostFormValue(settings.KeyShowStepNumbers) == "true",
		CompactView:     r.PostFormValue(settings.KeyCompactView) == "true",
	}
	if err := s.session.SetDisplay(d); err != nil {
		s.fail(err)
	}
	redirect(w, r, pathAdmin)
}

func (s *Server) handleActual(w http.ResponseWriter, r *http.Request) {
	ci, si, ok := stepTarget(w, r)
	if !ok {
		return
	}
	err := s.session.SetActual(r.PostFormValue("token"), ci, si, r.PostFormValue("value"))
	writeStepResult(w, err)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	ci, si, ok := stepTarget(w, r)
	if !ok {
		return
	}
	result, err := core.ParseStepResult(r.PostFormValue("value"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = s.session.SetResult(r.PostFormValue("token"), ci, si, result)
	writeStepResult(w, err)
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	ci, si, ok := stepTarget(w, r)
	if !ok {
		return
	}
	err := s.session.SetScreenshot(r.PostFormValue("token"), ci, si, r.PostFormValue("image"))
	if errors.Is(err, core.ErrNotImage) {
		// Pasting something that is not an image is ignored.
		logger.Debug("ignored non-image paste on case %d step %d", ci, si)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeStepResult(w, err)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if !snap.Loaded() {
		http.Error(w, core.ErrNotLoaded.Message, http.StatusNotFound)
		return
	}
	data := report.Data{
		Source:  snap.Source,
		Sheet:   snap.SheetName,
		Mapping: snap.Mapping,
		Cases:   snap.Cases,
	}
	html, err := report.GenerateHTML(data, report.HTMLConfig{Title: s.opts.ReportTitle})
	if err != nil {
		logger.Error("generate report: %v", err)
		http.Error(w, "failed to generate report", http.StatusInternalServerError)
		return
	}
	logger.Info("report generated for %d test case(s)", len(snap.Cases))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.opts.ReportFileName))
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	redirect(w, r, pathHome)
}

// fail logs err and shows its user-facing message on the next page,
// styled by its error category.
func (s *Server) fail(err error) {
	cat := core.CategoryOf(err)
	logger.Warn("request failed (%s): %v", cat, err)
	kind := noticeError
	if cat != core.ErrCategoryNone {
		kind = cat.String()
	}
	var e *core.Error
	if errors.As(err, &e) {
		s.flash(e.Message, kind)
		return
	}
	s.flash(err.Error(), kind)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// formRows pairs the posted field and header arrays.
func formRows(fields, headers []string) []mapping.Row {
	rows := make([]mapping.Row, len(fields))
	for i, f := range fields {
		rows[i].Field = f
		if i < len(headers) {
			rows[i].Header = headers[i]
		}
	}
	return rows
}

func stepTarget(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	ci, err := strconv.Atoi(chi.URLParam(r, "case"))
	if err != nil {
		http.Error(w, "invalid case index", http.StatusBadRequest)
		return 0, 0, false
	}
	si, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		http.Error(w, "invalid step index", http.StatusBadRequest)
		return 0, 0, false
	}
	return ci, si, true
}

func writeStepResult(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, core.ErrStaleTarget):
		logger.Debug("stale step update: %v", err)
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
