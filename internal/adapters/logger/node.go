package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mbuild/internal/adapters/config"
	"go.trai.ch/mbuild/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return FromSettings(settings), nil
		},
	})
}

// FromSettings creates a Logger configured from the environment settings.
func FromSettings(settings *config.Settings) *Logger {
	l := New().(*Logger)
	if settings != nil && settings.LogJSON {
		l.SetJSON(true)
	}
	return l
}
