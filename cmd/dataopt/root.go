package main

import (
	"context"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vmprov/dataopt"
	"github.com/vmprov/dataopt/codec"
	"github.com/vmprov/dataopt/config"
	"github.com/vmprov/dataopt/logger"
	"github.com/vmprov/dataopt/schema"
)

// errReported marks failures whose details were already printed as a report.
var errReported = errors.New("failure reported")

type rootFlags struct {
	configFile string
	logLevel   string
	logJSON    bool
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}
	root := &cobra.Command{
		Use:           "dataopt",
		Short:         "Normalize, validate and re-serialize VM resource records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&rf.configFile, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&rf.logLevel, "log-level", "info", "log level: debug, info, warn, error, disabled")
	root.PersistentFlags().BoolVar(&rf.logJSON, "log-json", false, "emit logs as JSON")

	root.AddCommand(
		newRunCmd(rf),
		newValidateCmd(rf),
		newSchemasCmd(),
	)
	return root
}

// pipeline loads configuration from the file, environment and flags of cmd
// and builds a Pipeline logging to the command's stderr.
func (rf *rootFlags) pipeline(cmd *cobra.Command) (*dataopt.Pipeline, context.Context, error) {
	log := logger.New(&logger.Config{
		Level:      logger.ParseLevel(rf.logLevel),
		Output:     cmd.ErrOrStderr(),
		JSON:       rf.logJSON,
		TimeFormat: "15:04:05",
	})
	loaded, err := config.Load(config.Options{File: rf.configFile, Env: true, Flags: cmd.Flags()})
	if err != nil {
		return nil, nil, err
	}
	log.Debug("Configuration loaded", "sources", loaded.Sources)
	p, err := dataopt.New(loaded.Config, dataopt.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	return p, logger.ContextWithLogger(cmd.Context(), log), nil
}

func checkDataType(reg *schema.Registry, name string) error {
	if name == "" || slices.Contains(reg.Names(), name) {
		return nil
	}
	return errors.Errorf("invalid --data-type %q: choose one of %s", name, strings.Join(reg.Names(), ", "))
}

// parseInline decodes --data as JSON, then YAML, and otherwise keeps it as
// text.
func parseInline(s string) any {
	if v, err := codec.DecodeJSON([]byte(s), codec.DecodeOptions{}); err == nil {
		return v
	}
	if v, err := codec.DecodeYAML([]byte(s)); err == nil && v != nil {
		return v
	}
	return s
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := codec.EncodeJSON(v, true)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(append(b, '\n'))
	return err
}
