package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/casesheet/pkg/mapping"
)

var mappingCommand = &cli.Command{
	Name:  "mapping",
	Usage: "Show or change the persisted column mapping",
	Description: `The column mapping links logical fields to spreadsheet headers. Fields
whose name contains "step" hold the numbered steps block.

Examples:
  casesheet mapping show
  casesheet mapping set "Test Case ID=Key" "Name=Summary" "Test Steps=Script"
  casesheet mapping add Owner=Assignee
  casesheet mapping remove Owner
  casesheet mapping edit mapping.json
  casesheet mapping reset`,
	Subcommands: []*cli.Command{
		{
			Name:   "show",
			Usage:  "Print the active mapping as JSON",
			Action: runMappingShow,
		},
		{
			Name:      "set",
			Usage:     "Replace the mapping with the given pairs, in order",
			ArgsUsage: "FIELD=HEADER...",
			Action:    runMappingSet,
		},
		{
			Name:      "add",
			Usage:     "Add a field, or change the header of an existing one",
			ArgsUsage: "FIELD[=HEADER]",
			Action:    runMappingAdd,
		},
		{
			Name:      "remove",
			Usage:     "Remove a field",
			ArgsUsage: "FIELD",
			Action:    runMappingRemove,
		},
		{
			Name:      "edit",
			Usage:     "Replace the mapping with a JSON object read from a file or stdin",
			ArgsUsage: "[file]",
			Action:    runMappingEdit,
		},
		{
			Name:   "reset",
			Usage:  "Forget the persisted mapping and use the default",
			Action: runMappingReset,
		},
	},
}

func runMappingShow(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	m, src, err := mapping.NewResolver(e.store).Current()
	if err != nil {
		return err
	}
	w := outWriter(c)
	fmt.Fprintln(w, dim(fmt.Sprintf("# %s mapping", src)))
	fmt.Fprintln(w, m.Raw())
	return nil
}

func runMappingSet(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one FIELD=HEADER pair is required")
	}
	var m mapping.Mapping
	for _, arg := range c.Args().Slice() {
		field, header, err := parsePair(arg)
		if err != nil {
			return err
		}
		m = m.With(field, header)
	}
	return saveMapping(c, func(mapping.Mapping) mapping.Mapping { return m })
}

func runMappingAdd(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one FIELD[=HEADER] is required")
	}
	field, header, err := parsePair(c.Args().First())
	if err != nil {
		return err
	}
	return saveMapping(c, func(cur mapping.Mapping) mapping.Mapping {
		return cur.With(field, header)
	})
}

func runMappingRemove(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one FIELD is required")
	}
	field := strings.TrimSpace(c.Args().First())
	return saveMapping(c, func(cur mapping.Mapping) mapping.Mapping {
		return cur.Without(field)
	})
}

func runMappingEdit(c *cli.Context) error {
	var r io.Reader = os.Stdin
	if c.NArg() > 0 {
		f, err := os.Open(c.Args().First()) //#nosec G304 -- user-provided mapping file
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	} else if c.App.Reader != nil {
		r = c.App.Reader
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read mapping: %w", err)
	}
	m, err := mapping.ParseRaw(string(raw))
	if err != nil {
		return err
	}
	return saveMapping(c, func(mapping.Mapping) mapping.Mapping { return m })
}

func runMappingReset(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := mapping.NewResolver(e.store).Forget(); err != nil {
		return err
	}
	printSuccess(outWriter(c), "Mapping reset to the default")
	return nil
}

// saveMapping applies change to the current mapping and persists the result.
func saveMapping(c *cli.Context, change func(mapping.Mapping) mapping.Mapping) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	r := mapping.NewResolver(e.store)
	cur, _, err := r.Current()
	if err != nil {
		return err
	}
	next := change(cur).Normalize()
	if err := r.Save(next); err != nil {
		return err
	}
	w := outWriter(c)
	printSuccess(w, "Mapping saved (%d fields)", len(next))
	fmt.Fprintln(w, next.Raw())
	return nil
}

// parsePair splits FIELD=HEADER. A missing "=HEADER" leaves the field
// unmapped.
func parsePair(arg string) (string, string, error) {
	field, header, _ := strings.Cut(arg, "=")
	field = strings.TrimSpace(field)
	if field == "" {
		return "", "", fmt.Errorf("invalid pair %q: field name is empty", arg)
	}
	return field, strings.TrimSpace(header), nil
}
