package server

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/casesheet/pkg/core"
	"github.com/devicelab-dev/casesheet/pkg/mapping"
	"github.com/devicelab-dev/casesheet/pkg/session"
	"github.com/devicelab-dev/casesheet/pkg/settings"
	"github.com/devicelab-dev/casesheet/pkg/store"
)

const casesCSV = "Test Case ID,Name,Description,Preconditions,Priority,Type,Status,Test Steps,Expected Results\n" +
	"TC-1,Login,,,,,,\"1) Open app\nExpected Result: App opens\n2) Log in\",\n" +
	"TC-2,Logout,,,,,,Press logout,\n"

type fixture struct {
	t     *testing.T
	srv   *Server
	sess  *session.Session
	store store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemory()
	sess, err := session.New(st)
	require.NoError(t, err)
	return &fixture{t: t, srv: New(sess, Options{}), sess: sess, store: st}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func (f *fixture) upload(name, content string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if name != "" {
		part, err := w.CreateFormFile("file", name)
		require.NoError(f.t, err)
		_, err = part.Write([]byte(content))
		require.NoError(f.t, err)
	}
	require.NoError(f.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return f.do(req)
}

func (f *fixture) page(path string) *goquery.Document {
	rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(f.t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(f.t, err)
	return doc
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestIndex_Empty(t *testing.T) {
	f := newFixture(t)
	doc := f.page("/")

	assert.Equal(t, 1, doc.Find("#fileInput").Length())
	assert.Equal(t, 0, doc.Find("#generateReportBtn").Length())
	assert.Equal(t, 0, doc.Find("#resetBtn").Length())
	assert.Equal(t, 0, doc.Find("#testCasesTable").Length())
	assert.Equal(t, 0, doc.Find("#adminPanel").Length())
}

func TestImport_LoadsTable(t *testing.T) {
	f := newFixture(t)

	rec := f.upload("cases.csv", casesCSV)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	doc := f.page("/")
	assert.Equal(t, 2, doc.Find("#testCasesTable > tbody > tr").Length())
	assert.Equal(t, 1, doc.Find("#generateReportBtn").Length())
	assert.Equal(t, 1, doc.Find("#resetBtn").Length())
	token, _ := doc.Find("body").Attr("data-token")
	assert.Equal(t, f.sess.Token(), token)
}

func TestImport_NoFileNotice(t *testing.T) {
	f := newFixture(t)
	f.upload("", "")

	doc := f.page("/")
	assert.Equal(t, core.ErrNoFile.Message, doc.Find(".notice.notice-input").Text())

	// Notices are shown once.
	assert.Equal(t, 0, f.page("/").Find(".notice").Length())
}

func TestImport_UnreadableKeepsState(t *testing.T) {
	f := newFixture(t)
	f.upload("cases.csv", casesCSV)
	f.upload("broken.xlsx", "not a workbook")

	doc := f.page("/")
	assert.Equal(t, core.ErrUnreadableWorkbook.Message, doc.Find(".notice.notice-data").Text())
	assert.Equal(t, 2, doc.Find("#testCasesTable > tbody > tr").Length())
}

func TestImport_OversizedUpload(t *testing.T) {
	st := store.NewMemory()
	sess, err := session.New(st)
	require.NoError(t, err)
	f := &fixture{t: t, srv: New(sess, Options{MaxUploadBytes: 1024}), sess: sess, store: st}
	f.upload("cases.csv", casesCSV)
	require.True(t, sess.Loaded())

	f.upload("big.csv", casesCSV+strings.Repeat("TC-X,Filler,,,,,,Step,\n", 64))

	doc := f.page("/")
	notice := doc.Find(".notice")
	assert.NotEqual(t, core.ErrNoFile.Message, notice.Text())
	assert.True(t, notice.HasClass("notice-data"))
	assert.Equal(t, 2, doc.Find("#testCasesTable > tbody > tr").Length())
}

func TestImport_EmptySheetNotice(t *testing.T) {
	f := newFixture(t)
	f.upload("empty.csv", "Test Case ID,Name\n")
	doc := f.page("/")
	assert.Equal(t, core.ErrEmptySheet.Message, doc.Find(".notice").Text())
	assert.Equal(t, 0, doc.Find("#testCasesTable").Length())
}

func TestMappingFlow(t *testing.T) {
	f := newFixture(t)
	f.upload("custom.csv", "Key,Summary,Script\nA-1,First,1) Do it\n")
	require.Equal(t, session.PhaseMapping, f.sess.Phase())

	doc := f.page("/")
	require.Equal(t, 1, doc.Find("#adminPanel #mappingEditor").Length(), "unresolved mapping opens the editor")

	rec := f.postForm("/mapping", url.Values{
		"field":  {"ID", "Steps"},
		"header": {"Key", "Script"},
		"action": {"add"},
	})
	assert.Equal(t, "/?admin=1", rec.Header().Get("Location"))
	doc = f.page("/?admin=1")
	assert.Equal(t, 3, doc.Find("input.colKeyInput").Length())

	f.postForm("/mapping", url.Values{
		"field":  {"ID", "Steps", ""},
		"header": {"Key", "Script", ""},
		"action": {"remove:2"},
	})
	assert.Len(t, f.sess.Editor().Rows(), 2)

	rec = f.postForm("/mapping", url.Values{
		"field":  {"ID", "Steps"},
		"header": {"Key", "Script"},
		"action": {"save"},
	})
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, session.PhaseLoaded, f.sess.Phase())

	raw, ok, err := f.store.Get(mapping.StoreKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"ID":"Key","Steps":"Script"}`, raw)

	doc = f.page("/")
	assert.Equal(t, "Mapping saved.", doc.Find(".notice.notice-info").Text())
	assert.Equal(t, "A-1", doc.Find("#testCasesTable > tbody > tr > td").First().Text())
}

func TestMapping_Cancel(t *testing.T) {
	f := newFixture(t)
	f.upload("custom.csv", "Key\nA-1\n")
	f.postForm("/mapping", url.Values{"action": {"cancel"}})
	assert.Equal(t, session.PhaseEmpty, f.sess.Phase())
}

func TestRawMapping(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set(mapping.StoreKey, `{"A":"B"}`))

	rec := f.postForm("/mapping/raw", url.Values{"raw": {"{not json"}})
	assert.Equal(t, "/?admin=1", rec.Header().Get("Location"))
	raw, _, _ := f.store.Get(mapping.StoreKey)
	assert.Equal(t, `{"A":"B"}`, raw)
	assert.Equal(t, core.ErrInvalidMapping.Message, f.page("/?admin=1").Find(".notice").Text())

	f.postForm("/mapping/raw", url.Values{"raw": {`{"ID": "Key", "Steps": "Script"}`}})
	raw, _, _ = f.store.Get(mapping.StoreKey)
	assert.Equal(t, `{"ID":"Key","Steps":"Script"}`, raw)
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	f.upload("cases.csv", casesCSV)

	f.postForm("/settings", url.Values{settings.KeyShowStepNumbers: {"true"}})
	v, _, _ := f.store.Get(settings.KeyShowStepNumbers)
	assert.Equal(t, "true", v)
	v, _, _ = f.store.Get(settings.KeyCompactView)
	assert.Equal(t, "false", v)

	doc := f.page("/")
	assert.Equal(t, 3, doc.Find(".step-number").Length())
	_, checked := f.page("/?admin=1").Find("#showStepNumbers").Attr("checked")
	assert.True(t, checked)
}

func TestStepEdits(t *testing.T) {
	f := newFixture(t)
	f.upload("cases.csv", casesCSV)
	token := f.sess.Token()

	rec := f.postForm("/cases/0/steps/1/actual", url.Values{"token": {token}, "value": {"Logged in"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.postForm("/cases/0/steps/1/result", url.Values{"token": {token}, "value": {"failed"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.postForm("/cases/1/steps/0/screenshot", url.Values{"token": {token}, "image": {pngDataURL(t)}})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	doc := f.page("/")
	rows := doc.Find("#testCasesTable > tbody > tr")
	assert.Equal(t, "failed", rows.Eq(0).AttrOr("class", ""))
	assert.Equal(t, "passed", rows.Eq(1).AttrOr("class", ""))
	assert.Equal(t, "Logged in", rows.Eq(0).Find("input.actual").Eq(1).AttrOr("value", ""))
	assert.Equal(t, 1, rows.Eq(1).Find(".screenshot-cell img").Length())
}

func TestStepEdits_Rejected(t *testing.T) {
	f := newFixture(t)
	f.upload("cases.csv", casesCSV)
	token := f.sess.Token()

	tests := []struct {
		name string
		path string
		form url.Values
		code int
	}{
		{"stale token", "/cases/0/steps/0/actual", url.Values{"token": {"old"}, "value": {"x"}}, http.StatusConflict},
		{"case out of range", "/cases/9/steps/0/actual", url.Values{"token": {token}, "value": {"x"}}, http.StatusConflict},
		{"step out of range", "/cases/1/steps/4/result", url.Values{"token": {token}, "value": {"passed"}}, http.StatusConflict},
		{"bad index", "/cases/x/steps/0/actual", url.Values{"token": {token}}, http.StatusBadRequest},
		{"bad result", "/cases/0/steps/0/result", url.Values{"token": {token}, "value": {"maybe"}}, http.StatusBadRequest},
		{"not an image", "/cases/0/steps/0/screenshot", url.Values{"token": {token}, "image": {"data:text/plain;base64,aGk="}}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.postForm(tt.path, tt.form)
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	for _, c := range f.sess.Snapshot().Cases {
		for _, st := range c.Steps {
			assert.Empty(t, st.Actual)
			assert.Empty(t, st.Screenshot)
			assert.Equal(t, core.ResultUnset, st.Result)
		}
	}
}

func TestReport(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/report", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.upload("cases.csv", casesCSV)
	token := f.sess.Token()
	f.postForm("/cases/0/steps/0/result", url.Values{"token": {token}, "value": {"skipped"}})

	rec = f.do(httptest.NewRequest(http.MethodGet, "/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="TestExecutionReport.html"`, rec.Header().Get("Content-Disposition"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Test Execution Report", doc.Find("title").Text())
	rows := doc.Find("body > table > tbody > tr")
	assert.Equal(t, 2, rows.Length())
	assert.Equal(t, "skipped", rows.Eq(0).AttrOr("class", ""))
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	f.upload("cases.csv", casesCSV)
	f.postForm("/settings", url.Values{settings.KeyCompactView: {"true"}})
	require.NoError(t, f.sess.ApplyMapping(mapping.Default()))
	token := f.sess.Token()

	rec := f.postForm("/reset", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	doc := f.page("/")
	assert.Equal(t, 0, doc.Find("#testCasesTable").Length())
	assert.Equal(t, 0, doc.Find("#resetBtn").Length())

	rec = f.postForm("/cases/0/steps/0/actual", url.Values{"token": {token}, "value": {"x"}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	_, ok, _ := f.store.Get(mapping.StoreKey)
	assert.True(t, ok)
	v, _, _ := f.store.Get(settings.KeyCompactView)
	assert.Equal(t, "true", v)
}

func TestMultiSheetChooser(t *testing.T) {
	f := newFixture(t)
	// CSV never has several sheets; drive the chooser through the session.
	f.upload("cases.csv", casesCSV)
	rec := f.postForm("/sheet", url.Values{"sheet": {"Nope"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, core.ErrSheetNotFound.Message, f.page("/").Find(".notice").Text())
	assert.Equal(t, session.PhaseLoaded, f.sess.Phase())
}
