package finalize

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mbuild/internal/adapters/linear"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mbuild/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mbuild/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/mbuild/internal/engine/hooks"
)

// NodeID is the unique identifier for the finalizer Graft node.
const NodeID graft.ID = "engine.finalize"

func init() {
	graft.Register(graft.Node[*Finalizer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			hooks.NodeID,
			linear.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Finalizer, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			registry, err := graft.Dep[*hooks.Registry](ctx)
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

			return NewFinalizer(executor, registry, notifier, tracer), nil
		},
	})
}
