package ports

import (
	"context"

	"go.trai.ch/mbuild/internal/core/domain"
)

// PostBinaryHook transforms the raw binary after linking.
//
//go:generate mockgen -source=hook.go -destination=mocks/mock_hook.go -package=mocks
type PostBinaryHook interface {
	// ID is the identifier targets use to request the hook.
	ID() string
	// Apply transforms in.Artifact and returns the path of the resulting
	// artifact, which may be the same path.
	Apply(ctx context.Context, in domain.HookInput) (string, error)
}
