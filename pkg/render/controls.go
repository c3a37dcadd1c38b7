package render

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/devicelab-dev/casesheet/pkg/mapping"
	"github.com/devicelab-dev/casesheet/pkg/settings"
)

// Mapping editor actions posted with the form.
const (
	ActionAdd    = "add"
	ActionRemove = "remove:"
	ActionSave   = "save"
	ActionCancel = "cancel"
)

// Controls builds the toolbar. The report and reset controls only appear
// once cases are loaded.
func Controls(loaded bool) *html.Node {
	bar := el("div", "id", "controls")
	form := el("form", "method", "post", "action", "/import", "enctype", "multipart/form-data", "class", "inline")
	add(form,
		el("input", "type", "file", "name", "file", "id", "fileInput", "accept", ".xlsx,.xls,.csv"),
		button("Import", "id", "importBtn"),
	)
	add(bar, form)

	if loaded {
		add(bar, textEl("a", "Generate Report", "href", "/report", "id", "generateReportBtn", "class", "button", "download", ""))
		reset := el("form", "method", "post", "action", "/reset", "class", "inline")
		add(bar, add(reset, button("Reset", "id", "resetBtn")))
	}
	add(bar, textEl("a", "Admin/Settings", "href", "/?admin=1", "id", "adminBtn", "class", "button"))
	return bar
}

// Notice is a one-off message shown above the table. An empty message
// gives no node; a non-empty kind adds a notice-<kind> class.
func Notice(msg, kind string) *html.Node {
	if msg == "" {
		return nil
	}
	class := "notice"
	if kind != "" {
		class += " notice-" + kind
	}
	return textEl("div", msg, "class", class, "role", "alert")
}

// SheetChooser lets the operator pick one sheet of a multi-sheet workbook.
func SheetChooser(names []string) *html.Node {
	div := el("div", "id", "sheetSelector")
	add(div, textEl("p", "Select a sheet to load:"))
	for _, name := range names {
		form := el("form", "method", "post", "action", "/sheet", "class", "inline")
		add(form, hidden("sheet", name), button(name, "class", "sheetBtn"))
		add(div, form)
	}
	return div
}

// MappingEditor builds the column mapping form and the raw JSON form.
func MappingEditor(e *mapping.Editor, raw string) *html.Node {
	div := el("div", "id", "mappingEditor")
	add(div, textEl("h4", "Column Mapping"))

	form := el("form", "method", "post", "action", "/mapping")
	table := el("table", "class", "mapping-table")
	add(table, add(el("tr"), textEl("th", "Field"), textEl("th", "Excel Column"), el("th")))
	options := e.Options()
	for i, r := range e.Rows() {
		sel := el("select", "name", "header", "class", "colValSelect")
		for _, o := range options {
			label := o
			if o == "" {
				label = "(none)"
			}
			opt := textEl("option", label, "value", o)
			if o == r.Header {
				setAttr(opt, "selected", "selected")
			}
			add(sel, opt)
		}
		add(table, add(el("tr"),
			add(el("td"), el("input", "type", "text", "name", "field", "class", "colKeyInput", "value", r.Field)),
			add(el("td"), sel),
			add(el("td"), button("Remove", "name", "action", "value", ActionRemove+strconv.Itoa(i), "class", "removeColBtn")),
		))
	}
	add(form, table,
		button("Add Column", "name", "action", "value", ActionAdd, "id", "addColBtn"),
		button("Save Mapping", "name", "action", "value", ActionSave, "id", "saveMappingBtn"),
		button("Close", "name", "action", "value", ActionCancel, "id", "closeAdminBtn"),
	)
	add(div, form)

	rawForm := el("form", "method", "post", "action", "/mapping/raw")
	add(rawForm,
		textEl("h4", "Edit Mapping JSON"),
		textEl("textarea", raw, "name", "raw", "rows", "10", "cols", "60", "id", "rawMapping"),
		el("br"),
		button("Save JSON", "id", "editRawMappingBtn"),
	)
	return add(div, rawForm)
}

// SettingsPanel builds the display toggles.
func SettingsPanel(d settings.Display) *html.Node {
	form := el("form", "method", "post", "action", "/settings", "id", "settingsPanel")
	add(form, textEl("h4", "Display"))
	add(form, checkbox(settings.KeyShowStepNumbers, "Show Step Numbers", d.ShowStepNumbers), el("br"))
	add(form, checkbox(settings.KeyCompactView, "Compact Table View", d.CompactView), el("br"))
	return form
}

func checkbox(name, label string, checked bool) *html.Node {
	box := el("input", "type", "checkbox", "name", name, "id", name, "value", "true", "class", "auto-submit")
	if checked {
		setAttr(box, "checked", "checked")
	}
	return add(el("label"), box, text(" "+label))
}
