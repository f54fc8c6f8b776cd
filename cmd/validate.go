package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lexfrei/plugcheck/pkg/api"
	"github.com/lexfrei/plugcheck/pkg/descriptor"
	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/version"
)

const (
	outputText  = "text"
	outputJSON  = "json"
	outputTable = "table"
	outputYAML  = "yaml"
)

func newValidateCommand(c *cli) *cobra.Command {
	var (
		hostVersion string
		all         bool
		output      string
	)

	cmd := &cobra.Command{
		Use:   "validate <plugin.xml>",
		Short: "Check a plugin descriptor against a host version",
		Long: `Check a plugin descriptor against a host version and the configured
inventory. Exits with status 2 when the plugin is not compatible.`,
		Example: `  plugcheck validate SwagExample/plugin.xml --host-version 5.2.0
  plugcheck validate plugin.xml --host-version 5.2 --db inventory.db --all -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputJSON {
				return errors.Newf("unsupported output %q", output)
			}

			meta, err := descriptor.ReadFile(args[0])
			if err != nil {
				return err
			}

			host, err := version.Parse(hostVersion)
			if err != nil {
				return errors.Wrap(err, "invalid --host-version")
			}

			snapshot, err := c.snapshot(cmd.Context())
			if err != nil {
				return err
			}

			validator := requirement.NewValidator(snapshot,
				requirement.WithHostName(c.cfg.HostName),
				requirement.WithLogger(c.logger),
			)

			var violations []*requirement.ValidationError

			if all {
				violations = validator.ValidateAll(meta, host)
			} else {
				var ve *requirement.ValidationError
				if errors.As(validator.Validate(meta, host), &ve) {
					violations = append(violations, ve)
				}
			}

			if err := c.printValidation(output, meta, host, violations); err != nil {
				return err
			}

			if len(violations) > 0 {
				return errIncompatible
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&hostVersion, "host-version", "", "Host version to check against")
	cmd.Flags().BoolVar(&all, "all", false, "Report every violated requirement instead of the first")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text, json)")
	_ = cmd.MarkFlagRequired("host-version")

	return cmd
}

func (c *cli) printValidation(
	output string,
	meta requirement.Metadata,
	host version.Version,
	violations []*requirement.ValidationError,
) error {
	if output == outputJSON {
		resp := api.ValidateResponse{
			Plugin:     meta.Name,
			Compatible: len(violations) == 0,
			Violations: make([]api.Violation, 0, len(violations)),
		}

		for _, ve := range violations {
			resp.Violations = append(resp.Violations, api.NewViolation(ve))
		}

		return writeJSON(c.stdout, resp)
	}

	if len(violations) == 0 {
		_, err := fmt.Fprintf(c.stdout, "%s is compatible with %s %s\n", pluginTitle(meta), c.cfg.HostName, host)

		return errors.Wrap(err, "failed to write output")
	}

	if _, err := fmt.Fprintf(c.stdout, "%s is not compatible with %s %s:\n",
		pluginTitle(meta), c.cfg.HostName, host); err != nil {
		return errors.Wrap(err, "failed to write output")
	}

	for _, ve := range violations {
		if _, err := fmt.Fprintf(c.stdout, "  - %s: %s\n", ve.Kind, ve.Error()); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}

	return nil
}

// pluginTitle names a plugin with its version when the descriptor has one.
func pluginTitle(meta requirement.Metadata) string {
	if meta.Version.IsZero() {
		return meta.Name
	}

	return meta.Name + " " + meta.Version.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(v), "failed to encode output")
}
