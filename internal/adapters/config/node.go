package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// SettingsNodeID is the unique identifier for the environment settings Graft node.
	SettingsNodeID graft.ID = "adapter.config.settings"
	// CatalogNodeID is the unique identifier for the toolchain catalog Graft node.
	CatalogNodeID graft.ID = "adapter.config.catalog"
	// TargetsNodeID is the unique identifier for the target repository Graft node.
	TargetsNodeID graft.ID = "adapter.config.targets"
)

func init() {
	graft.Register(graft.Node[*Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Settings, error) {
			return ParseSettings(os.Environ())
		},
	})

	graft.Register(graft.Node[*domain.ToolchainCatalog]{
		ID:        CatalogNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{SettingsNodeID},
		Run: func(ctx context.Context) (*domain.ToolchainCatalog, error) {
			settings, err := graft.Dep[*Settings](ctx)
			if err != nil {
				return nil, err
			}
			return LoadCatalog(settings.ToolchainsFile)
		},
	})

	graft.Register(graft.Node[ports.TargetRepository]{
		ID:        TargetsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{SettingsNodeID},
		Run: func(ctx context.Context) (ports.TargetRepository, error) {
			settings, err := graft.Dep[*Settings](ctx)
			if err != nil {
				return nil, err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return nil, zerr.Wrap(err, "failed to get working directory")
			}
			return NewTargetRepository(settings.TargetsFile, cwd), nil
		},
	})
}
