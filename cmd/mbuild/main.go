// Package main is the entry point for the mbuild firmware build tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/mbuild/cmd/mbuild/commands"
	"go.trai.ch/mbuild/internal/app"
	"go.trai.ch/mbuild/internal/core/domain"
	_ "go.trai.ch/mbuild/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	if cleanup != nil {
		defer cleanup()
	}

	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cliOpts := commands.Options{Settings: components.Settings}
	if console, ok := components.Notifier.(commands.Console); ok {
		cliOpts.Console = console
	}
	if sink, ok := components.Logger.(commands.LogSink); ok {
		cliOpts.Logs = sink
	}

	cli := commands.New(components.App, cliOpts)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		// Compiler diagnostics were already rendered by the notifier.
		if errors.Is(err, domain.ErrBuildFailure) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
