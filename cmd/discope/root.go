package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sghaida/odiscope/di"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

// settings are the global options after flags, environment and config file
// have been merged.
type settings struct {
	LogLevel string
	MaxDepth int
	NoColor  bool
}

// app holds what every subcommand needs once the root command has loaded its
// settings.
type app struct {
	v        *viper.Viper
	settings settings
	logger   *slog.Logger
	styles   styles
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// newRootCmd builds the command tree. Each call returns an independent tree,
// so tests can run commands in parallel.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "discope",
		Short: "Plan and trace scoped dependency injection runs",
		Long: `discope reads a YAML plan file describing a target and the providers it
depends on, and shows how they are resolved: the leaf-first entry order, the
reverse teardown order, and how errors unwind through every open resource.

Examples:
  discope plan plan.yaml          Show entry and teardown order
  discope run plan.yaml           Simulate one invocation
  discope run plan.yaml --raise x Simulate a target failing with "x"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML config file with log-level, max-depth and no-color")
	flags.String("log-level", "warn", "log level: debug|info|warn|error")
	flags.Int("max-depth", di.DefaultMaxDepth, "planning depth bound")
	flags.Bool("no-color", false, "disable colored output")

	a.v.SetEnvPrefix("DISCOPE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	for _, name := range []string{"config", "log-level", "max-depth", "no-color"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newPlanCmd(a), newRunCmd(a), newVersionCmd())
	return root
}

// load merges the settings and builds the logger and styles.
func (a *app) load(stderr io.Writer) error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	a.settings = settings{
		LogLevel: a.v.GetString("log-level"),
		MaxDepth: a.v.GetInt("max-depth"),
		NoColor:  a.v.GetBool("no-color"),
	}
	if a.settings.MaxDepth < 1 {
		return fmt.Errorf("max-depth must be > 0, got %d", a.settings.MaxDepth)
	}

	level, err := log.ParseLevel(a.settings.LogLevel)
	if err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	handler := log.NewWithOptions(stderr, log.Options{
		Level:  level,
		Prefix: "discope",
	})
	a.logger = slog.New(handler)
	a.styles = newStyles(a.settings.NoColor)
	return nil
}

// options returns the di options derived from the settings.
func (a *app) options(extra ...di.Option) []di.Option {
	return append([]di.Option{
		di.WithLogger(a.logger),
		di.WithMaxDepth(a.settings.MaxDepth),
	}, extra...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "discope", getVersionString())
		},
	}
}
