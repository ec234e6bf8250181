package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mbuild/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mbuild/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mbuild/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mbuild/internal/adapters/report"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mbuild/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/mbuild/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/mbuild/internal/engine/finalize"
	"go.trai.ch/mbuild/internal/engine/hooks"
	"go.trai.ch/mbuild/internal/engine/scanner"
	"go.trai.ch/mbuild/internal/engine/scheduler"
	"go.trai.ch/mbuild/internal/engine/toolchain"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components is everything the entrypoint needs from the graph.
type Components struct {
	App      *App
	Logger   ports.Logger
	Notifier ports.Notifier
	Settings *config.Settings
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.TargetsNodeID,
			toolchain.NodeID,
			scanner.NodeID,
			scheduler.NodeID,
			finalize.NodeID,
			hooks.NodeID,
			report.NodeID,
			linear.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
			watcher.WatcherNodeID,
			watcher.FingerprintsNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			linear.NodeID,
			config.SettingsNodeID,
		},
		Run: runComponentsNode,
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	targets, err := graft.Dep[ports.TargetRepository](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[*toolchain.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	scan, err := graft.Dep[*scanner.Scanner](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	finalizer, err := graft.Dep[*finalize.Finalizer](ctx)
	if err != nil {
		return nil, err
	}

	registry, err := graft.Dep[*hooks.Registry](ctx)
	if err != nil {
		return nil, err
	}

	reports, err := graft.Dep[ports.ReportWriter](ctx)
	if err != nil {
		return nil, err
	}

	notifier, err := graft.Dep[ports.Notifier](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	factory, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}

	fingerprints, err := graft.Dep[*watcher.Fingerprints](ctx)
	if err != nil {
		return nil, err
	}

	a := New(targets, resolver, scan, sched, finalizer, registry, reports, notifier, tracer, log)
	return a.WithWatcher(factory, fingerprints), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	notifier, err := graft.Dep[ports.Notifier](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[*config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      a,
		Logger:   log,
		Notifier: notifier,
		Settings: settings,
	}, nil
}
