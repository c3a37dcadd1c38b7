// Package cli provides the command-line interface for casesheet.
package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config.yaml (default: <home>/config.yaml)",
		EnvVars: []string{"CASESHEET_CONFIG"},
	},
	&cli.StringFlag{
		Name:  "home",
		Usage: "Home directory for config, store and log",
	},
	&cli.StringFlag{
		Name:    "store-backend",
		Usage:   "Key-value store backend (file, badger, memory)",
		EnvVars: []string{"CASESHEET_STORE"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable verbose logging",
		EnvVars: []string{"CASESHEET_VERBOSE"},
	},
	&cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable ANSI colors",
	},
}

// NewApp builds the command tree.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "casesheet",
		Usage:   "Import spreadsheet test cases, execute them in the browser, export an HTML report",
		Version: Version,
		Description: `casesheet reads test cases from xlsx/csv exports, serves a local page
where each step can be executed (actual result, pasted screenshot,
pass/fail/skip) and exports a self-contained HTML report.

Examples:
  casesheet serve
  casesheet sheets cases.xlsx
  casesheet import --sheet Regression --output run.json cases.xlsx
  casesheet report --output TestExecutionReport.html run.json
  casesheet mapping set "Test Case ID=Key" "Test Steps=Steps"`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") || os.Getenv("NO_COLOR") != "" {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand,
			sheetsCommand,
			importCommand,
			reportCommand,
			mappingCommand,
			settingsCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
