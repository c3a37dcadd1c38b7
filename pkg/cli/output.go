package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/devicelab-dev/casesheet/pkg/testcase"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

func printSuccess(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", green("✓"), fmt.Sprintf(format, a...))
}

func printInfo(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", cyan("ℹ"), fmt.Sprintf(format, a...))
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", red("Error:"), err)
}

// printSummary prints the case counts by overall status.
func printSummary(w io.Writer, s testcase.Summary) {
	fmt.Fprintf(w, "  %s %d   %s %d   %s %d   %s %d\n",
		bold("Total:"), s.Total,
		green("Passed:"), s.Passed,
		red("Failed:"), s.Failed,
		yellow("Skipped:"), s.Skipped,
	)
}
