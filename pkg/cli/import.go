package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/casesheet/pkg/report"
	"github.com/devicelab-dev/casesheet/pkg/session"
	"github.com/devicelab-dev/casesheet/pkg/testcase"
)

// DefaultSnapshotFile is where import writes the parsed cases.
const DefaultSnapshotFile = "session.json"

var importCommand = &cli.Command{
	Name:      "import",
	Usage:     "Parse a spreadsheet into a session snapshot",
	ArgsUsage: "<file.xlsx|file.csv>",
	Description: `Import test cases without the browser. The persisted or default column
mapping must fit the sheet; otherwise the sheet headers are listed so a
mapping can be set with 'casesheet mapping set'.

Examples:
  casesheet import cases.xlsx
  casesheet import --sheet Regression --output run.json cases.xlsx`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "sheet",
			Aliases: []string{"s"},
			Usage:   "Sheet to load (required when the file has several)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Snapshot file to write",
			Value:   DefaultSnapshotFile,
		},
	},
	Action: runImport,
}

func runImport(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one spreadsheet file is required")
	}
	path := c.Args().First()

	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	sess, err := session.New(e.store)
	if err != nil {
		return err
	}

	f, err := os.Open(path) //#nosec G304 -- user-provided spreadsheet
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := sess.Import(filepath.Base(path), f); err != nil {
		return err
	}

	sheet := c.String("sheet")
	if sess.Phase() == session.PhaseChoosingSheet && sheet == "" {
		return fmt.Errorf("%s has several sheets, choose one with --sheet: %s",
			path, strings.Join(sess.SheetNames(), ", "))
	}
	if sheet != "" && sheet != sess.Snapshot().SheetName {
		if err := sess.SelectSheet(sheet); err != nil {
			return err
		}
	}
	if sess.Phase() == session.PhaseMapping {
		return fmt.Errorf("no column mapping fits the sheet headers: %s",
			strings.Join(sess.Headers(), ", "))
	}

	snap := sess.Snapshot()
	data := report.Data{
		Source:  snap.Source,
		Sheet:   snap.SheetName,
		Mapping: snap.Mapping,
		Cases:   snap.Cases,
	}
	out := c.String("output")
	if err := report.WriteJSON(out, data); err != nil {
		return err
	}

	w := outWriter(c)
	printSuccess(w, "Imported %d test case(s) with %d step(s) from %s",
		len(snap.Cases), countSteps(snap.Cases), bold(snap.SheetName))
	printInfo(w, "Snapshot written to %s", out)
	return nil
}

func countSteps(cases []testcase.TestCase) int {
	n := 0
	for _, tc := range cases {
		n += len(tc.Steps)
	}
	return n
}
