package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/casesheet/pkg/server"
	"github.com/devicelab-dev/casesheet/pkg/session"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Serve the test execution page on localhost",
	Description: `Start the local page for importing, executing and reporting test cases.
Stops on Ctrl+C.

Examples:
  casesheet serve
  casesheet serve --listen 127.0.0.1:9000`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "Address to listen on (default from config: 127.0.0.1:8765)",
			EnvVars: []string{"CASESHEET_LISTEN"},
		},
	},
	Action: runServe,
}

func runServe(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	addr := e.cfg.Listen
	if l := c.String("listen"); l != "" {
		addr = l
	}

	sess, err := session.New(e.store)
	if err != nil {
		return err
	}
	srv := server.New(sess, server.Options{
		ReportTitle:    e.cfg.Report.Title,
		ReportFileName: e.cfg.Report.FileName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := outWriter(c)
	printSuccess(w, "Serving on %s", bold("http://"+addr+"/"))
	printInfo(w, "Press Ctrl+C to stop")
	return srv.Run(ctx, addr)
}
