package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/casesheet/pkg/workbook"
)

var sheetsCommand = &cli.Command{
	Name:      "sheets",
	Usage:     "List the sheets of a spreadsheet and their headers",
	ArgsUsage: "<file.xlsx|file.csv>",
	Action:    runSheets,
}

func runSheets(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one spreadsheet file is required")
	}
	book, err := readWorkbook(c.Args().First())
	if err != nil {
		return err
	}

	w := outWriter(c)
	for _, s := range book.Sheets {
		fmt.Fprintf(w, "%s %s\n", bold(s.Name), dim(fmt.Sprintf("(%d rows)", len(s.Rows))))
		if len(s.Headers) > 0 {
			fmt.Fprintf(w, "  %s\n", strings.Join(s.Headers, ", "))
		}
	}
	return nil
}

func readWorkbook(path string) (*workbook.Workbook, error) {
	f, err := os.Open(path) //#nosec G304 -- user-provided spreadsheet
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return workbook.Read(path, f)
}
