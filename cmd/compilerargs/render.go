package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/TheGrizzlyDev/compilerargs/internal/pkg/cli"
	"github.com/TheGrizzlyDev/compilerargs/internal/pkg/compiler"
	"github.com/TheGrizzlyDev/compilerargs/internal/pkg/process"
	"github.com/containerd/errdefs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	formatLines      = "lines"
	formatNUL        = "nul"
	formatJSON       = "json"
	formatOCIProcess = "oci-process"
)

func newRenderCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <tool> [document]",
		Short: "Render a JSON arguments document as argv tokens",
		Long: "Reads a JSON arguments document for <tool> from the given file, or from\n" +
			"stdin when the file is omitted or \"-\", and prints the tokens.",
		Args: cobra.RangeArgs(1, 2),
		RunE: a.render,
	}
	flags := cmd.Flags()
	flags.String("format", formatLines, "Output format: lines, nul, json or oci-process")
	flags.String("executable", "", "Compiler executable (oci-process format)")
	flags.String("cwd", "", "Working directory (oci-process format)")
	flags.String("user", "", "uid[:gid] to run as (oci-process format)")
	flags.StringArray("env", nil, "Environment entry KEY=VALUE (oci-process format, repeatable)")
	for _, name := range []string{"format", "executable", "cwd", "user"} {
		_ = a.config.BindPFlag(name, flags.Lookup(name))
	}
	return cmd
}

func (a *app) render(cmd *cobra.Command, args []string) error {
	tool := args[0]
	doc, err := readDocument(cmd, args[1:])
	if err != nil {
		return err
	}

	arguments, err := compiler.Decode(tool, doc)
	if err != nil {
		return err
	}
	argv, err := cli.ConvertToCmdline(arguments)
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"tool":   tool,
		"tokens": len(argv),
		"free":   len(arguments.FreeArguments()),
	}).Debug("rendered arguments")

	// viper splits StringArray values on commas.
	env, _ := cmd.Flags().GetStringArray("env")
	if len(env) == 0 {
		env = a.config.GetStringSlice("env")
	}
	return a.write(cmd.OutOrStdout(), argv, env)
}

func readDocument(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		doc, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return doc, nil
	}
	doc, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return doc, nil
}

func (a *app) write(w io.Writer, argv, env []string) error {
	switch format := a.config.GetString("format"); format {
	case formatLines, "":
		for _, tok := range argv {
			if _, err := fmt.Fprintln(w, tok); err != nil {
				return err
			}
		}
		return nil
	case formatNUL:
		for _, tok := range argv {
			if _, err := io.WriteString(w, tok+"\x00"); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		if argv == nil {
			argv = []string{}
		}
		return json.NewEncoder(w).Encode(argv)
	case formatOCIProcess:
		p, err := process.New(process.Options{
			Executable: a.config.GetString("executable"),
			Cwd:        a.config.GetString("cwd"),
			User:       a.config.GetString("user"),
			Env:        env,
		}, argv)
		if err != nil {
			return fmt.Errorf("%w: %w", errdefs.ErrInvalidArgument, err)
		}
		return process.Write(w, p)
	default:
		return fmt.Errorf("unknown format %q: %w", format, errdefs.ErrInvalidArgument)
	}
}
