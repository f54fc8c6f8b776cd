package main

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/lexfrei/plugcheck/pkg/api"
	"github.com/lexfrei/plugcheck/pkg/inventory"
	"github.com/lexfrei/plugcheck/pkg/requirement"
)

func newInventoryCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Manage the plugins known to the host",
	}

	cmd.AddCommand(
		newInventoryImportCommand(c),
		newInventoryListCommand(c),
		newInventoryRemoveCommand(c),
	)

	return cmd
}

func newInventoryImportCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <inventory.yaml>",
		Short: "Import a YAML inventory into the database",
		Long: `Import every plugin of a YAML inventory file into the SQLite database
given by --db. Existing rows with the same name are replaced. The import
is all or nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}

			defer func() { _ = store.Close() }()

			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "failed to open inventory file")
			}

			defer func() { _ = f.Close() }()

			plugins, err := inventory.Decode(f)
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", args[0])
			}

			if err := store.Import(cmd.Context(), plugins); err != nil {
				return err
			}

			c.logger.Info("Imported inventory", "file", args[0], "plugins", len(plugins))

			return nil
		},
	}
}

func newInventoryRemoveCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>...",
		Short: "Remove plugins from the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}

			defer func() { _ = store.Close() }()

			for _, name := range args {
				if err := store.Delete(cmd.Context(), name); err != nil {
					return errors.Wrapf(err, "failed to remove %s", name)
				}
			}

			return nil
		},
	}
}

func newInventoryListCommand(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the plugins known to the host",
		Long: `List the plugins of the configured inventory. The yaml output can be
fed back to "inventory import".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := c.snapshot(cmd.Context())
			if err != nil {
				return err
			}

			plugins := snapshot.Plugins()

			switch output {
			case outputTable:
				c.printInventoryTable(plugins)

				return nil
			case outputYAML:
				return inventory.Encode(c.stdout, plugins)
			case outputJSON:
				out := make([]api.Plugin, 0, len(plugins))
				for _, p := range plugins {
					out = append(out, api.Plugin{
						Name:        p.Name,
						Version:     p.Version.String(),
						Active:      p.Active,
						Installed:   p.Installed(),
						InstalledAt: p.InstalledAt,
					})
				}

				return writeJSON(c.stdout, out)
			default:
				return errors.Newf("unsupported output %q", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, yaml, json)")

	return cmd
}

func (c *cli) openStore() (*inventory.Store, error) {
	if c.cfg.DBPath == "" {
		return nil, errors.New("--db is required")
	}

	return inventory.Open(c.cfg.DBPath)
}

func (c *cli) printInventoryTable(plugins []requirement.KnownPlugin) {
	if len(plugins) == 0 {
		_, _ = c.stdout.Write([]byte(text.FgYellow.Sprint("No plugins found") + "\n"))

		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("NAME"),
		text.FgHiCyan.Sprint("VERSION"),
		text.FgHiCyan.Sprint("ACTIVE"),
		text.FgHiCyan.Sprint("INSTALLED"),
	})

	for _, p := range plugins {
		installed := "-"
		if p.InstalledAt != nil {
			installed = p.InstalledAt.UTC().Format(time.RFC3339)
		}

		t.AppendRow(table.Row{p.Name, p.Version.String(), p.Active, installed})
	}

	t.Render()
}
