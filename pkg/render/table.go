package render

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/devicelab-dev/casesheet/pkg/core"
	"github.com/devicelab-dev/casesheet/pkg/settings"
	"github.com/devicelab-dev/casesheet/pkg/testcase"
)

// Column titles of the nested steps table.
const (
	StepsColumn      = "Test Steps"
	stepNumberColumn = "#"
)

var stepColumns = []string{"Step", "Expected Result", "Actual Result", "Screenshot", "Step Result"}

// Table builds the results table: one row per case with a column per
// field, then a nested steps table. Each case row's class is its overall
// status; each step row's class is its result.
func Table(cases []testcase.TestCase, fields []string, d settings.Display) *html.Node {
	compact := ""
	if d.CompactView {
		compact = "compactView"
	}

	table := el("table", "id", "testCasesTable", "class", classes("cases-table", compact))
	head := el("tr")
	for _, f := range fields {
		add(head, textEl("th", f))
	}
	add(head, textEl("th", StepsColumn))
	add(table, add(el("thead"), head))

	body := el("tbody")
	for ci := range cases {
		tc := &cases[ci]
		row := el("tr", "class", tc.Status().String(), "data-idx", strconv.Itoa(ci))
		for _, f := range fields {
			add(row, textEl("td", tc.Value(f)))
		}
		add(row, add(el("td"), stepsTable(ci, tc.Steps, d, compact)))
		add(body, row)
	}
	return add(table, body)
}

func stepsTable(ci int, steps []testcase.Step, d settings.Display, compact string) *html.Node {
	table := el("table", "class", classes("steps-table", compact))
	head := el("tr")
	if d.ShowStepNumbers {
		add(head, textEl("th", stepNumberColumn))
	}
	for _, c := range stepColumns {
		add(head, textEl("th", c))
	}
	add(table, add(el("thead"), head))

	body := el("tbody")
	for si, s := range steps {
		row := indexed(el("tr"), ci, si)
		if s.Result != core.ResultUnset {
			setAttr(row, "class", string(s.Result))
		}
		if d.ShowStepNumbers {
			add(row, textEl("td", strconv.Itoa(si+1), "class", "step-number"))
		}
		add(row,
			textEl("td", s.Text, "class", "step-text"),
			textEl("td", s.Expected, "class", "step-expected"),
			add(el("td"), indexed(el("input", "type", "text", "class", "actual", "value", s.Actual), ci, si)),
			add(el("td"), screenshotCell(ci, si, s)),
			add(el("td"), resultSelect(ci, si, s.Result)),
		)
		add(body, row)
	}
	return add(table, body)
}

func screenshotCell(ci, si int, s testcase.Step) *html.Node {
	cell := indexed(el("div", "class", "screenshot-cell", "tabindex", "0"), ci, si)
	if s.HasScreenshot() && core.IsImageDataURL(s.Screenshot) {
		return add(cell, el("img", "src", s.Screenshot, "alt", "Screenshot"))
	}
	return add(cell, textEl("span", "Paste Image", "class", "paste-hint"))
}

func resultSelect(ci, si int, current core.StepResult) *html.Node {
	sel := indexed(el("select", "class", "step-result"), ci, si)
	for _, r := range core.StepResults {
		opt := textEl("option", r.Label(), "value", string(r))
		if r == current {
			setAttr(opt, "selected", "selected")
		}
		add(sel, opt)
	}
	return sel
}
