package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/skosovsky/toolcall"
	"github.com/skosovsky/toolcall/builtin"
	"github.com/skosovsky/toolcall/config"
)

// app is the state shared by subcommands, built once per invocation.
type app struct {
	cfgFile      string
	logLevel     string
	answerPrefix string

	cfg    *config.Config
	logger *slog.Logger
	reg    *toolcall.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "toolcall",
		Short:         "Classify model replies and dispatch their tool calls",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Path to a YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.answerPrefix, "answer-prefix", "", "Marker of a direct answer (overrides config)")

	root.AddCommand(
		newClassifyCmd(a),
		newToolsCmd(a),
		newPromptCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.cfgFile != "" {
		cfg, err = config.Load(a.cfgFile)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("answer-prefix") {
		cfg.AnswerPrefix = a.answerPrefix
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if rp := cfg.Dispatch.RecoverPanics; rp != nil && !*rp {
		a.logger.Warn("panic recovery disabled: a panicking tool will crash the process")
	}
	a.reg = toolcall.NewRegistry(cfg.RegistryOptions()...)
	if err := builtin.Register(a.reg, cfg.Tools...); err != nil {
		return err
	}
	a.reg.Use(cfg.Middlewares(a.logger)...)
	return nil
}
