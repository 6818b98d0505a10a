package main

import (
	"fmt"

	"github.com/TheGrizzlyDev/compilerargs/internal/pkg/cli"
	"github.com/TheGrizzlyDev/compilerargs/internal/pkg/compiler"
	"github.com/spf13/cobra"
)

func newSchemaCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <tool>",
		Short: "Print the JSON schema of a tool's arguments document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arguments, err := compiler.New(args[0])
			if err != nil {
				return err
			}
			schema, err := cli.SchemaOf(arguments)
			if err != nil {
				return err
			}
			a.log.WithField("tool", args[0]).Debug("generated schema")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return err
		},
	}
}
