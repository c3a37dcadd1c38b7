package render

import (
	"golang.org/x/net/html"

	"github.com/devicelab-dev/casesheet/pkg/mapping"
	"github.com/devicelab-dev/casesheet/pkg/settings"
	"github.com/devicelab-dev/casesheet/pkg/testcase"
)

// DefaultTitle is the page heading.
const DefaultTitle = "Test Case Runner"

// View is everything the page shows.
type View struct {
	Title      string
	Notice     string
	NoticeKind string // info, or the error category of a failure
	Token      string
	Loaded     bool
	SheetNames []string        // set while a sheet must be chosen
	Editor     *mapping.Editor // set to show the admin panel
	RawMapping string
	Fields     []string
	Cases      []testcase.TestCase
	Display    settings.Display
}

// Page builds the full document.
func Page(v View) *html.Node {
	title := v.Title
	if title == "" {
		title = DefaultTitle
	}

	doc := &html.Node{Type: html.DocumentNode}
	add(doc, &html.Node{Type: html.DoctypeNode, Data: "html"})

	head := add(el("head"),
		el("meta", "charset", "utf-8"),
		textEl("title", title),
		textEl("style", pageCSS),
	)

	body := el("body", "data-token", v.Token)
	add(body, textEl("h2", title), Controls(v.Loaded), Notice(v.Notice, v.NoticeKind))
	if len(v.SheetNames) > 0 {
		add(body, SheetChooser(v.SheetNames))
	}
	if v.Editor != nil {
		panel := el("div", "id", "adminPanel")
		add(panel, textEl("h3", "Admin Settings"), MappingEditor(v.Editor, v.RawMapping), SettingsPanel(v.Display))
		add(body, panel)
	}
	if v.Loaded {
		add(body, Table(v.Cases, v.Fields, v.Display))
	}
	add(body, textEl("script", pageJS))

	return add(doc, add(el("html", "lang", "en"), head, body))
}

const pageCSS = `
body { font-family: Arial, sans-serif; margin: 20px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px; vertical-align: top; text-align: left; }
.compactView th, .compactView td { padding: 2px; font-size: 12px; }
tr.passed { background: #d4edda; }
tr.failed { background: #f8d7da; }
tr.skipped { background: #fff3cd; }
.steps-table { margin: 0; }
.screenshot-cell { min-width: 120px; min-height: 40px; border: 1px dashed #999; cursor: pointer; }
.screenshot-cell img { max-width: 200px; max-height: 120px; }
.paste-hint { color: #888; font-size: 12px; }
.notice { padding: 8px; margin: 10px 0; background: #fff3cd; border: 1px solid #e0c97f; }
.notice-info { background: #d4edda; border-color: #8fc79a; }
.notice-data, .notice-mapping, .notice-error { background: #f8d7da; border-color: #e0a1a8; }
#controls { margin-bottom: 12px; }
#adminPanel { border: 1px solid #999; padding: 10px; margin: 10px 0; background: #f9f9f9; }
form.inline { display: inline; }
a.button { display: inline-block; padding: 2px 8px; border: 1px solid #888; text-decoration: none; color: #000; background: #eee; }
`

// pageJS posts edits back to the server. Every request carries the indices
// of the element it came from, captured when the event fired, and the
// token of the case set the page was rendered for.
const pageJS = `
(function () {
  var token = document.body.getAttribute('data-token');
  function stepURL(el, what) {
    return '/cases/' + el.dataset.idx + '/steps/' + el.dataset.stepidx + '/' + what;
  }
  function post(url, form, reload) {
    form.append('token', token);
    return fetch(url, { method: 'POST', body: form }).then(function (res) {
      if (reload || res.status === 409) { location.reload(); }
    });
  }
  document.addEventListener('change', function (e) {
    var el = e.target, f = new FormData();
    if (el.classList.contains('actual')) {
      f.append('value', el.value);
      post(stepURL(el, 'actual'), f, false);
    } else if (el.classList.contains('step-result')) {
      f.append('value', el.value);
      post(stepURL(el, 'result'), f, true);
    } else if (el.classList.contains('auto-submit')) {
      el.form.submit();
    }
  });
  document.addEventListener('paste', function (e) {
    var cell = e.target.closest ? e.target.closest('.screenshot-cell') : null;
    if (!cell || !e.clipboardData) { return; }
    var items = e.clipboardData.items;
    for (var i = 0; i < items.length; i++) {
      if (items[i].type.indexOf('image/') !== 0) { continue; }
      var url = stepURL(cell, 'screenshot');
      var reader = new FileReader();
      reader.onload = function (ev) {
        var f = new FormData();
        f.append('image', ev.target.result);
        post(url, f, true);
      };
      reader.readAsDataURL(items[i].getAsFile());
      e.preventDefault();
      return;
    }
  });
  document.addEventListener('click', function (e) {
    var img = e.target;
    if (img.tagName !== 'IMG' || !img.closest('.screenshot-cell')) { return; }
    var w = window.open('');
    if (w) { w.document.write('<img src="' + img.src + '">'); }
  });
})();
`
