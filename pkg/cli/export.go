package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/casesheet/pkg/report"
	"github.com/devicelab-dev/casesheet/pkg/testcase"
)

var reportCommand = &cli.Command{
	Name:      "report",
	Usage:     "Export a session snapshot as an HTML report",
	ArgsUsage: "<session.json>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Report file (default from config: TestExecutionReport.html)",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "Report title (default from config: Test Execution Report)",
		},
	},
	Action: runReport,
}

func runReport(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one snapshot file is required")
	}

	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	data, err := report.ReadJSON(c.Args().First())
	if err != nil {
		return err
	}

	out := e.cfg.Report.FileName
	if o := c.String("output"); o != "" {
		out = o
	}
	title := e.cfg.Report.Title
	if t := c.String("title"); t != "" {
		title = t
	}

	if err := report.WriteHTML(out, *data, report.HTMLConfig{Title: title}); err != nil {
		return err
	}

	w := outWriter(c)
	printSuccess(w, "Report written to %s", bold(out))
	printSummary(w, testcase.Summarize(data.Cases))
	return nil
}
