package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mbuild/internal/adapters/fs"
	"go.trai.ch/mbuild/internal/adapters/logger"
	"go.trai.ch/mbuild/internal/core/ports"
)

const (
	// WatcherNodeID is the unique identifier for the file watcher Graft node.
	WatcherNodeID graft.ID = "adapter.watcher"
	// FingerprintsNodeID is the unique identifier for the content fingerprint Graft node.
	FingerprintsNodeID graft.ID = "adapter.watcher.fingerprints"
)

// Factory opens a new Watcher. The watch command opens one per session, so
// the graph hands out a constructor instead of an open fsnotify handle.
type Factory func() (ports.Watcher, error)

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        WatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func() (ports.Watcher, error) {
				w, err := NewWatcher(log)
				if err != nil {
					return nil, err
				}
				return w, nil
			}, nil
		},
	})

	graft.Register(graft.Node[*Fingerprints]{
		ID:        FingerprintsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (*Fingerprints, error) {
			hasher, err := graft.Dep[*fs.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewFingerprints(hasher), nil
		},
	})
}
