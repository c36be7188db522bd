// Package commands implements the rodcut command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
	"github.com/piwi3910/RodCut/internal/telemetry"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

const maxRecentProjects = 10

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v        *viper.Viper
	cfg      model.AppConfig
	cfgPath  string
	invPath  string
	logger   *slog.Logger
	shutdown func(context.Context) error
}

func Execute() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// run executes one command line and flushes telemetry afterwards.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{v: viper.New()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.shutdown != nil {
		if serr := a.shutdown(context.WithoutCancel(ctx)); serr != nil {
			err = errors.Join(err, fmt.Errorf("failed to flush traces: %w", serr))
		}
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "rodcut",
		Short: "One-dimensional cutting stock optimizer",
		Long: `RodCut - cutting plans for rebar and other bar stock

Reads a bar bending schedule (CSV or Excel), finds the cutting
patterns that use the fewest stock rods and writes the plan.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config file (default ~/.rodcut/config.json)")
	pf.StringVar(&a.invPath, "inventory", "", "stock preset file (default ~/.rodcut/inventory.json)")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.Bool("trace", false, "print pipeline spans to stderr")
	pf.String("otlp-endpoint", "", "send pipeline spans to an OTLP/HTTP endpoint")

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	root.AddCommand(
		newSolveCmd(a),
		newCompareCmd(a),
		newEstimateCmd(a),
		newConfigCmd(a),
		newPresetsCmd(a),
	)
	return root
}

// init loads the app config, layers environment and flags over it and
// sets up logging and tracing.
func (a *app) init(cmd *cobra.Command) error {
	if a.cfgPath == "" {
		a.cfgPath = project.DefaultConfigPath()
	}
	if a.invPath == "" {
		a.invPath = project.DefaultInventoryPath()
	}

	cfg, err := project.LoadAppConfig(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Precedence: flag, RODCUT_* environment, config file, built-in default.
	a.v.SetDefault("stock-length", cfg.DefaultStockLength)
	a.v.SetDefault("stock-label", cfg.DefaultStockLabel)
	a.v.SetDefault("algorithm", string(cfg.DefaultAlgorithm))
	a.v.SetDefault("time-limit", cfg.DefaultTimeLimitSeconds)
	a.v.SetDefault("symmetry-breaking", cfg.DefaultSymmetryBreaking)
	a.v.SetDefault("cutoff", cfg.DefaultCutoff)
	a.v.SetDefault("rod-price", cfg.DefaultRodPrice)
	a.v.SetDefault("min-offcut", cfg.DefaultMinOffcutLength)
	a.v.SetDefault("output-dir", cfg.OutputDir)
	a.v.SetDefault("log-format", cfg.LogFormat)
	a.v.SetDefault("log-level", cfg.LogLevel)

	a.v.SetEnvPrefix("RODCUT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	a.logger, err = newLogger(cmd.ErrOrStderr(), a.v.GetString("log-format"), a.v.GetString("log-level"))
	if err != nil {
		return err
	}

	opts := telemetry.Options{
		ServiceName:    "rodcut",
		ServiceVersion: Version,
		Endpoint:       a.v.GetString("otlp-endpoint"),
	}
	if a.v.GetBool("trace") {
		opts.Stdout = cmd.ErrOrStderr()
	}
	a.shutdown, err = telemetry.Init(cmd.Context(), opts)
	return err
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

// saveConfig writes the app config back to the file it was loaded from.
func (a *app) saveConfig() error {
	return project.SaveAppConfig(a.cfgPath, a.cfg)
}
