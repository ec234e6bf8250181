// Package commands implements the CLI commands for the mbuild firmware build tool.
package commands

import (
	"context"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.trai.ch/mbuild/internal/adapters/config"
	"go.trai.ch/mbuild/internal/adapters/detector"
	"go.trai.ch/mbuild/internal/app"
	"go.trai.ch/mbuild/internal/build"
	"go.trai.ch/mbuild/internal/engine/toolchain"
	"go.trai.ch/zerr"
)

var errInvalidOutputMode = zerr.New("invalid output mode: want auto, color, plain or ci")

// CLI represents the command line interface for mbuild.
type CLI struct {
	app      Application
	settings *config.Settings
	console  Console
	logs     LogSink
	detect   func() detector.OutputMode
	rootCmd  *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) (*app.BuildResult, error)
	Scan(ctx context.Context, opts app.ScanOptions) (*app.ScanResult, error)
	Watch(ctx context.Context, opts app.BuildOptions) error
	Toolchains() []toolchain.Availability
	Targets() ([]string, error)
}

// Console is the event renderer the global flags tune.
type Console interface {
	SetVerbose(enable bool)
	SetProfile(profile termenv.Profile)
}

// LogSink is the logger the global flags tune.
type LogSink interface {
	SetJSON(enable bool)
}

// Options carries the optional collaborators of the CLI.
type Options struct {
	// Settings are the environment defaults flags are layered over.
	Settings *config.Settings
	Console  Console
	Logs     LogSink
	// Detect overrides output-mode detection. Used for testing.
	Detect func() detector.OutputMode
}

// New creates a new CLI instance with the given app.
func New(a Application, opts Options) *CLI {
	settings := opts.Settings
	if settings == nil {
		settings = &config.Settings{Timeout: config.DefaultTimeout}
	}
	detect := opts.Detect
	if detect == nil {
		detect = detector.DetectEnvironment
	}

	rootCmd := &cobra.Command{
		Use:           "mbuild",
		Short:         "Incremental firmware builds for microcontroller targets",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	// Persistent flags go first so -v belongs to --verbose, not --version.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug events")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write log records as JSON")
	rootCmd.PersistentFlags().StringP("output", "o", "auto", "Output mode: auto, color, plain or ci")

	rootCmd.SetVersionTemplate(versionLine("{{.Version}}") + "\n")
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:      a,
		settings: settings,
		console:  opts.Console,
		logs:     opts.Logs,
		detect:   detect,
		rootCmd:  rootCmd,
	}
	rootCmd.PersistentPreRunE = c.applyGlobalFlags

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newScanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newToolchainsCmd())
	rootCmd.AddCommand(c.newTargetsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) applyGlobalFlags(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	output, _ := cmd.Flags().GetString("output")

	switch output {
	case "auto", "color", "plain", "ci":
	default:
		return zerr.With(errInvalidOutputMode, "output", output)
	}

	if c.console != nil {
		profile := termenv.ANSI
		if detector.ResolveMode(c.detect(), output) == detector.ModePlain {
			profile = termenv.Ascii
		}
		c.console.SetProfile(profile)
		c.console.SetVerbose(verbose)
	}
	if c.logs != nil && jsonLogs {
		c.logs.SetJSON(true)
	}
	return nil
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
