package core

import "fmt"

// StepResult is the outcome a tester records for a single step.
// The zero value means no result has been selected yet.
type StepResult string

const (
	ResultUnset   StepResult = ""
	ResultPassed  StepResult = "passed"
	ResultFailed  StepResult = "failed"
	ResultSkipped StepResult = "skipped"
)

// StepResults lists every selectable result in display order.
var StepResults = []StepResult{ResultUnset, ResultPassed, ResultFailed, ResultSkipped}

// ParseStepResult converts a submitted value into a StepResult.
func ParseStepResult(s string) (StepResult, error) {
	r := StepResult(s)
	if !r.Valid() {
		return ResultUnset, fmt.Errorf("unknown step result %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known results.
func (r StepResult) Valid() bool {
	switch r {
	case ResultUnset, ResultPassed, ResultFailed, ResultSkipped:
		return true
	default:
		return false
	}
}

// Label returns the human-readable option text.
func (r StepResult) Label() string {
	switch r {
	case ResultPassed:
		return "Passed"
	case ResultFailed:
		return "Failed"
	case ResultSkipped:
		return "Skipped"
	default:
		return "Select"
	}
}

// CaseStatus is the derived overall status of a test case.
type CaseStatus string

const (
	CasePassed  CaseStatus = "passed"
	CaseFailed  CaseStatus = "failed"
	CaseSkipped CaseStatus = "skipped"
)

// String returns the string representation of CaseStatus
func (s CaseStatus) String() string {
	return string(s)
}

// Rollup derives a case status from its step results.
// Any failure wins, then any skip; otherwise the case counts as passed,
// including when no step has a result yet.
func Rollup(results []StepResult) CaseStatus {
	skipped := false
	for _, r := range results {
		switch r {
		case ResultFailed:
			return CaseFailed
		case ResultSkipped:
			skipped = true
		}
	}
	if skipped {
		return CaseSkipped
	}
	return CasePassed
}
