package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/lexfrei/plugcheck/pkg/api"
	"github.com/lexfrei/plugcheck/pkg/descriptor"
	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/solver"
	"github.com/lexfrei/plugcheck/pkg/version"
)

func newPlanCommand(c *cli) *cobra.Command {
	var (
		hostVersions []string
		output       string
	)

	cmd := &cobra.Command{
		Use:   "plan <plugin.xml>...",
		Short: "Find the highest host version all plugins support",
		Long: `Find the highest candidate host version every given plugin accepts.
When none fits, the plugins blocking the highest candidate are listed and
the command exits with status 2.`,
		Example: `  plugcheck plan A/plugin.xml B/plugin.xml --host-version 5.1.6 --host-version 5.2.0`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputJSON {
				return errors.Newf("unsupported output %q", output)
			}

			plugins := make([]requirement.Metadata, 0, len(args))

			for _, path := range args {
				meta, err := descriptor.ReadFile(path)
				if err != nil {
					return err
				}

				plugins = append(plugins, meta)
			}

			candidates, err := version.ParseList(hostVersions)
			if err != nil {
				return errors.Wrap(err, "invalid --host-version")
			}

			snapshot, err := c.snapshot(cmd.Context())
			if err != nil {
				return err
			}

			s := solver.NewSimpleSolver(nil)

			best, err := s.FindBestHostVersion(cmd.Context(), plugins, candidates, snapshot)
			if errors.Is(err, solver.ErrNoSolution) {
				highest := version.Max(candidates)
				if perr := c.printBlockers(output, highest, s.Blockers(plugins, highest, snapshot)); perr != nil {
					return perr
				}

				return errors.Mark(err, errIncompatible)
			}

			if err != nil {
				return err
			}

			compatible, err := s.CompatibleHostVersions(cmd.Context(), plugins, candidates, snapshot)
			if err != nil {
				return err
			}

			return c.printPlan(output, best, compatible)
		},
	}

	cmd.Flags().StringSliceVar(&hostVersions, "host-version", nil, "Candidate host version (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text, json)")
	_ = cmd.MarkFlagRequired("host-version")

	return cmd
}

func (c *cli) printPlan(output string, best version.Version, compatible []version.Version) error {
	resp := api.PlanResponse{
		HostVersion: best.String(),
		Compatible:  make([]string, 0, len(compatible)),
	}

	for _, v := range compatible {
		resp.Compatible = append(resp.Compatible, v.String())
	}

	if output == outputJSON {
		return writeJSON(c.stdout, resp)
	}

	_, err := fmt.Fprintf(c.stdout, "Highest compatible %s version: %s\nAll compatible: %v\n",
		c.cfg.HostName, resp.HostVersion, resp.Compatible)

	return errors.Wrap(err, "failed to write output")
}

func (c *cli) printBlockers(output string, candidate version.Version, blockers []solver.Blocker) error {
	if output == outputJSON {
		conflict := api.PlanConflict{
			Error:     solver.ErrNoSolution.Error(),
			Code:      api.CodeNoSolution,
			Candidate: candidate.String(),
		}

		for _, b := range blockers {
			conflict.Blockers = append(conflict.Blockers, api.Blocker{Plugin: b.Plugin, Violation: c.violation(b.Err)})
		}

		return writeJSON(c.stdout, conflict)
	}

	if _, err := fmt.Fprintf(c.stdout, "No %s version fits every plugin. Blocking %s %s:\n",
		c.cfg.HostName, c.cfg.HostName, candidate); err != nil {
		return errors.Wrap(err, "failed to write output")
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("PLUGIN"),
		text.FgHiCyan.Sprint("KIND"),
		text.FgHiCyan.Sprint("REASON"),
	})

	for _, b := range blockers {
		v := c.violation(b.Err)
		t.AppendRow(table.Row{b.Plugin, v.Kind, v.Message})
	}

	t.Render()

	return nil
}

// violation renders ve with the configured host name.
func (c *cli) violation(ve *requirement.ValidationError) api.Violation {
	named := *ve
	named.Host = c.cfg.HostName

	return api.NewViolation(&named)
}
