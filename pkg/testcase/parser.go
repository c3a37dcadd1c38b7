package testcase

import (
	"regexp"
	"strings"
)

var (
	// A new step starts on a line beginning with "N)".
	stepMarker = regexp.MustCompile(`^\s*\d+\)`)
	// Accepts the ASCII and the full-width colon.
	expectedPrefix = regexp.MustCompile(`(?i)^expected result[:：]`)
)

// ParseSteps splits a free-text steps cell into steps.
//
// Blocks start at each line beginning with a number and ")"; text before
// the first marker forms an implicit first block. Within a block, lines
// starting with "Expected result:" make up the expected result and all
// other lines the step text, each joined with single spaces. Blocks
// without step text are dropped.
func ParseSteps(raw string) []Step {
	var steps []Step
	for _, block := range splitBlocks(raw) {
		if s, ok := parseBlock(block); ok {
			steps = append(steps, s)
		}
	}
	return steps
}

func splitBlocks(raw string) [][]string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var blocks [][]string
	var current []string
	for _, line := range strings.Split(raw, "\n") {
		if loc := stepMarker.FindStringIndex(line); loc != nil {
			if len(current) > 0 {
				blocks = append(blocks, current)
			}
			current = []string{line[loc[1]:]}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func parseBlock(lines []string) (Step, bool) {
	var text, expected []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if loc := expectedPrefix.FindStringIndex(line); loc != nil {
			if rest := strings.TrimSpace(line[loc[1]:]); rest != "" {
				expected = append(expected, rest)
			}
			continue
		}
		text = append(text, line)
	}
	if len(text) == 0 {
		return Step{}, false
	}
	return Step{
		Text:     strings.Join(text, " "),
		Expected: strings.Join(expected, " "),
	}, true
}
