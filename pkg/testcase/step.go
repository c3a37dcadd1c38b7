package testcase

import "github.com/devicelab-dev/casesheet/pkg/core"

// Step is one parsed unit of a test case procedure.
type Step struct {
	Text       string          `json:"step"`
	Expected   string          `json:"expected"`
	Actual     string          `json:"actual"`
	Screenshot string          `json:"screenshot,omitempty"` // inline data URL
	Result     core.StepResult `json:"result"`
}

// HasScreenshot reports whether a screenshot has been pasted.
func (s Step) HasScreenshot() bool {
	return s.Screenshot != ""
}
