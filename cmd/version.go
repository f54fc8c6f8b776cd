package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(c.stdout, "plugcheck version %s (commit %s, built %s, %s)\n",
				buildVersion, buildCommit, buildDate, runtime.Version())

			return err
		},
	}
}
