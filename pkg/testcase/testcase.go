// Package testcase holds the imported test cases and the parser that turns
// a free-text steps cell into structured steps.
package testcase

import (
	"github.com/devicelab-dev/casesheet/pkg/core"
	"github.com/devicelab-dev/casesheet/pkg/mapping"
	"github.com/devicelab-dev/casesheet/pkg/workbook"
)

// Field is one case-level value, named by its logical field.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TestCase is one imported row.
type TestCase struct {
	Fields []Field `json:"fields"`
	Steps  []Step  `json:"steps"`
}

// Value returns the value of the named field, or "" if there is none.
func (tc *TestCase) Value(name string) string {
	for _, f := range tc.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Status derives the overall status from the step results.
func (tc *TestCase) Status() core.CaseStatus {
	results := make([]core.StepResult, len(tc.Steps))
	for i, s := range tc.Steps {
		results[i] = s.Result
	}
	return core.Rollup(results)
}

// Clone returns a deep copy.
func (tc TestCase) Clone() TestCase {
	out := TestCase{
		Fields: append([]Field(nil), tc.Fields...),
		Steps:  append([]Step(nil), tc.Steps...),
	}
	return out
}

// CloneAll deep-copies a collection.
func CloneAll(cases []TestCase) []TestCase {
	if cases == nil {
		return nil
	}
	out := make([]TestCase, len(cases))
	for i, tc := range cases {
		out[i] = tc.Clone()
	}
	return out
}

// Build converts sheet rows into test cases using m.
// The first step field supplies the steps block; every other field becomes
// a case field ("" when unmapped or absent from the row).
func Build(rows []workbook.Row, m mapping.Mapping) []TestCase {
	stepPair, hasSteps := m.StepField()
	cases := make([]TestCase, 0, len(rows))
	for _, row := range rows {
		tc := TestCase{}
		for _, p := range m {
			if mapping.IsStepField(p.Field) {
				continue
			}
			tc.Fields = append(tc.Fields, Field{Name: p.Field, Value: cell(row, p.Header)})
		}
		if hasSteps {
			tc.Steps = ParseSteps(cell(row, stepPair.Header))
		}
		cases = append(cases, tc)
	}
	return cases
}

func cell(row workbook.Row, header string) string {
	if header == "" {
		return ""
	}
	return row[header]
}

// Summary counts cases by overall status.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Summarize counts the overall status of every case.
func Summarize(cases []TestCase) Summary {
	s := Summary{Total: len(cases)}
	for i := range cases {
		switch cases[i].Status() {
		case core.CaseFailed:
			s.Failed++
		case core.CaseSkipped:
			s.Skipped++
		default:
			s.Passed++
		}
	}
	return s
}
