package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by every subcommand.
type app struct {
	config *viper.Viper
	log    *logrus.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{
		config: viper.New(),
		log:    logrus.New(),
	}

	cmd := &cobra.Command{
		Use:   "compilerargs",
		Short: "Render compiler arguments as command-line tokens",
		Long: "Turns a JSON description of compiler arguments into the argv a compiler\n" +
			"process would have to receive to reproduce it. Only options that differ\n" +
			"from their defaults are emitted.",
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	cmd.PersistentFlags().String("config", "", "Path to a config file (json, yaml or toml)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (panic, fatal, error, warn, info, debug, trace)")
	_ = a.config.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	_ = a.config.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(
		newRenderCommand(a),
		newSchemaCommand(a),
		newOptionsCommand(a),
		newVersionCommand(),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	a.config.SetEnvPrefix("compilerargs")
	a.config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.config.AutomaticEnv()

	if path := a.config.GetString("config"); path != "" {
		a.config.SetConfigFile(path)
		if err := a.config.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	level, err := logrus.ParseLevel(a.config.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.log.SetLevel(level)
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if used := a.config.ConfigFileUsed(); used != "" {
		a.log.WithField("config", used).Debug("loaded config file")
	}
	return nil
}
