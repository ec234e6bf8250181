package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mbuild/internal/adapters/config"
	"go.trai.ch/mbuild/internal/adapters/linear"
	"go.trai.ch/mbuild/internal/core/ports"
)

// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// InstrumentationName names the tracer spans are recorded under.
const InstrumentationName = "mbuild"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, linear.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}

			notifier, err := graft.Dep[ports.Notifier](ctx)
			if err != nil {
				return nil, err
			}

			if !settings.Trace {
				return NewNoOpTracer(), nil
			}
			return NewOTelTracer(NewProvider(notifier), InstrumentationName), nil
		},
	})
}
