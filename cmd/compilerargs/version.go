package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Populated at link time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "compilerargs %s (commit %s, built %s)\n", version, commit, date)
			return err
		},
	}
}
