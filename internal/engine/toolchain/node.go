package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mbuild/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mbuild/internal/adapters/shell"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain resolver Graft node.
const NodeID graft.ID = "engine.toolchain"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.CatalogNodeID,
			config.SettingsNodeID,
			shell.ProbeNodeID,
		},
		Run: func(ctx context.Context) (*Resolver, error) {
			catalog, err := graft.Dep[*domain.ToolchainCatalog](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}

			probe, err := graft.Dep[ports.ToolProbe](ctx)
			if err != nil {
				return nil, err
			}

			return NewResolver(catalog, probe, PolicyFromSettings(settings)), nil
		},
	})
}

// PolicyFromSettings derives the resolution policy from environment settings.
func PolicyFromSettings(s *config.Settings) Policy {
	p := DefaultPolicy()
	p.PinLegacy = s.PinLegacy
	p.StdLibFallback = !s.NoStdLibFallback
	p.SearchPaths = s.SearchPaths()
	return p
}
