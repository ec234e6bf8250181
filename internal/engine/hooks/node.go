package hooks

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the hook registry Graft node.
const NodeID graft.ID = "engine.hooks"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Registry, error) {
			return NewDefaultRegistry(), nil
		},
	})
}
