package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/casesheet/pkg/settings"
)

var settingsCommand = &cli.Command{
	Name:  "settings",
	Usage: "Show or change the display settings",
	Subcommands: []*cli.Command{
		{
			Name:   "show",
			Usage:  "Print the display settings",
			Action: runSettingsShow,
		},
		{
			Name:  "set",
			Usage: "Change display settings; unspecified flags keep their value",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "show-step-numbers", Usage: "Number the steps of each case"},
				&cli.BoolFlag{Name: "compact-view", Usage: "Use the compact table layout"},
			},
			Action: runSettingsSet,
		},
	},
}

func runSettingsShow(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := settings.Load(e.store)
	if err != nil {
		return err
	}
	printDisplay(c, d)
	return nil
}

func runSettingsSet(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := settings.Load(e.store)
	if err != nil {
		return err
	}
	if c.IsSet("show-step-numbers") {
		d.ShowStepNumbers = c.Bool("show-step-numbers")
	}
	if c.IsSet("compact-view") {
		d.CompactView = c.Bool("compact-view")
	}
	if err := settings.Save(e.store, d); err != nil {
		return err
	}
	printDisplay(c, d)
	return nil
}

func printDisplay(c *cli.Context, d settings.Display) {
	w := outWriter(c)
	fmt.Fprintf(w, "%s: %t\n", settings.KeyShowStepNumbers, d.ShowStepNumbers)
	fmt.Fprintf(w, "%s: %t\n", settings.KeyCompactView, d.CompactView)
}
