package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lexfrei/plugcheck/internal/config"
	"github.com/lexfrei/plugcheck/pkg/inventory"
	"github.com/lexfrei/plugcheck/pkg/requirement"
)

// cli carries settings shared by every command.
type cli struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func newRootCommand(cfg config.Config, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{cfg: cfg, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "plugcheck",
		Short: "Check plugin compatibility with a host application",
		Long: `plugcheck decides whether a plugin can be installed into a host
application of a given version, based on the version range and blacklist
in its descriptor and the plugins the host already knows about.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := c.cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid configuration")
			}

			c.logger = config.SetupLogging(c.stderr, c.cfg.LogLevel, c.cfg.LogFormat)

			return nil
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&c.cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json, text)")
	flags.StringVar(&c.cfg.HostName, "host-name", cfg.HostName, "Host product name used in messages")
	flags.StringVar(&c.cfg.DBPath, "db", cfg.DBPath, "SQLite inventory database")
	flags.StringVar(&c.cfg.InventoryPath, "inventory", cfg.InventoryPath, "YAML inventory file")

	root.AddCommand(
		newValidateCommand(c),
		newPlanCommand(c),
		newInventoryCommand(c),
		newServeCommand(c),
		newVersionCommand(c),
	)

	return root
}

// openSource resolves the configured inventory. Without --db or --inventory
// the host knows no plugins. The returned close function is never nil.
func (c *cli) openSource() (inventory.Source, string, func() error, error) {
	switch {
	case c.cfg.DBPath != "":
		store, err := inventory.Open(c.cfg.DBPath)
		if err != nil {
			return nil, "", nil, err
		}

		return store, "sqlite", store.Close, nil
	case c.cfg.InventoryPath != "":
		return inventory.NewFileSource(c.cfg.InventoryPath), "file", func() error { return nil }, nil
	default:
		return inventory.Static(requirement.MapFinder{}), "static", func() error { return nil }, nil
	}
}

// snapshot loads the configured inventory once.
func (c *cli) snapshot(ctx context.Context) (requirement.MapFinder, error) {
	source, name, closeFn, err := c.openSource()
	if err != nil {
		return nil, err
	}

	defer func() { _ = closeFn() }()

	snapshot, err := source.Snapshot(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s inventory", name)
	}

	c.logger.Debug("Loaded inventory", "source", name, "plugins", len(snapshot))

	return snapshot, nil
}
