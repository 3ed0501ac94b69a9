// Package commands implements the CLI commands for rcache.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/rcache/internal/app"
	"go.trai.ch/rcache/internal/build"
)

// CLI represents the command line interface for rcache.
type CLI struct {
	app     Application
	logger  FormatSwitcher
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Resolve(ctx context.Context, paths []string, opts app.ResolveOptions) error
	Watch(ctx context.Context, paths []string, opts app.WatchOptions) error
}

// FormatSwitcher is implemented by loggers that can switch to JSON output.
type FormatSwitcher interface {
	SetJSON(enable bool)
}

// Option configures a CLI.
type Option func(*CLI)

// WithFormatSwitcher lets the --json flag reconfigure the given logger.
func WithFormatSwitcher(l FormatSwitcher) Option {
	return func(c *CLI) {
		c.logger = l
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "rcache",
		Short:         "Resolve generic class hierarchies with a weakly keyed cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "Maximum concurrent resolutions (0 means one per CPU)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.logger == nil {
			return
		}
		if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
			c.logger.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func resolveOptions(cmd *cobra.Command) app.ResolveOptions {
	classes, _ := cmd.Flags().GetStringSlice("class")
	workers, _ := cmd.Flags().GetInt("workers")
	stats, _ := cmd.Flags().GetBool("stats")
	return app.ResolveOptions{
		Classes: classes,
		Workers: workers,
		Stats:   stats,
	}
}
