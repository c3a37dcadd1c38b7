package core

import "testing"

func TestRollup(t *testing.T) {
	tests := []struct {
		name    string
		results []StepResult
		want    CaseStatus
	}{
		{"no steps", nil, CasePassed},
		{"all unset", []StepResult{ResultUnset, ResultUnset}, CasePassed},
		{"passed and unset", []StepResult{ResultPassed, ResultUnset}, CasePassed},
		{"passed and failed", []StepResult{ResultPassed, ResultFailed}, CaseFailed},
		{"skipped and passed", []StepResult{ResultSkipped, ResultPassed}, CaseSkipped},
		{"failed beats skipped", []StepResult{ResultSkipped, ResultFailed}, CaseFailed},
		{"failed first", []StepResult{ResultFailed, ResultSkipped, ResultPassed}, CaseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rollup(tt.results); got != tt.want {
				t.Errorf("Rollup(%v) = %q, want %q", tt.results, got, tt.want)
			}
		})
	}
}

func TestParseStepResult(t *testing.T) {
	for _, r := range StepResults {
		got, err := ParseStepResult(string(r))
		if err != nil {
			t.Errorf("ParseStepResult(%q) unexpected error: %v", r, err)
		}
		if got != r {
			t.Errorf("ParseStepResult(%q) = %q", r, got)
		}
	}

	if _, err := ParseStepResult("errored"); err == nil {
		t.Error("expected error for unknown result")
	}
}

func TestStepResult_Label(t *testing.T) {
	tests := []struct {
		result StepResult
		want   string
	}{
		{ResultUnset, "Select"},
		{ResultPassed, "Passed"},
		{ResultFailed, "Failed"},
		{ResultSkipped, "Skipped"},
	}

	for _, tt := range tests {
		if got := tt.result.Label(); got != tt.want {
			t.Errorf("StepResult(%q).Label() = %q, want %q", tt.result, got, tt.want)
		}
	}
}
