package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mbuild/internal/adapters/logger"
	"go.trai.ch/mbuild/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the executor Graft node.
	NodeID graft.ID = "adapter.executor"
	// ProbeNodeID is the unique identifier for the tool probe Graft node.
	ProbeNodeID graft.ID = "adapter.tool_probe"
)

func init() {
	graft.Register(graft.Node[ports.Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Executor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log), nil
		},
	})

	graft.Register(graft.Node[ports.ToolProbe]{
		ID:        ProbeNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ToolProbe, error) {
			return NewProbe(), nil
		},
	})
}
