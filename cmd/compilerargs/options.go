package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/TheGrizzlyDev/compilerargs/internal/pkg/cli"
	"github.com/TheGrizzlyDev/compilerargs/internal/pkg/compiler"
	"github.com/spf13/cobra"
)

func newOptionsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options <tool>",
		Short: "List a tool's options in the order they are rendered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arguments, err := compiler.New(args[0])
			if err != nil {
				return err
			}
			table, err := cli.TableOf(arguments)
			if err != nil {
				return err
			}
			a.log.WithField("options", len(table.Options)).Debug("loaded option table")

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FLAG\tKIND\tFORM\tDESCRIPTION")
			for _, o := range table.Options {
				form := "flag value"
				switch {
				case o.Kind == cli.KindBool:
					form = "flag"
				case o.Advanced:
					form = "flag=value"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Flag, o.Kind, form, o.Description)
			}
			return tw.Flush()
		},
	}
}
