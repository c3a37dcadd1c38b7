// Command casesheet imports spreadsheet test cases, serves a local page to
// execute them and exports an HTML report.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/devicelab-dev/casesheet/pkg/cli"
)

func main() {
	// CASESHEET_* variables may live in a .env file next to the workbooks.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}
	cli.Execute()
}
