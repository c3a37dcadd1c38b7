package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/casesheet/pkg/config"
	"github.com/devicelab-dev/casesheet/pkg/logger"
	"github.com/devicelab-dev/casesheet/pkg/store"
)

// env is what a command needs besides its arguments.
type env struct {
	home  string
	cfg   *config.Config
	store store.Store
}

// setup resolves home and config, starts logging and opens the store.
// Callers must Close the result.
func setup(c *cli.Context) (*env, error) {
	if h := c.String("home"); h != "" {
		config.SetHome(h)
	}
	home := config.GetHome()

	var cfg *config.Config
	var err error
	if p := c.String("config"); p != "" {
		cfg, err = config.Load(p)
	} else {
		cfg, err = config.LoadFromDir(home)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if b := c.String("store-backend"); b != "" {
		cfg.Store.Backend = b
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--store-backend: %w", err)
		}
	}

	var mirror io.Writer
	if c.Bool("verbose") {
		mirror = errWriter(c)
		logger.SetDebug(true)
	}
	if err := logger.Init(cfg.LogPath(home), mirror); err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store.Backend, cfg.StorePath(home))
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("home=%s store=%s (%s)", home, cfg.StorePath(home), cfg.Store.Backend)
	return &env{home: home, cfg: cfg, store: st}, nil
}

// Close releases the store and the log file.
func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		logger.Warn("close store: %v", err)
	}
	logger.Close()
}

func outWriter(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}
