package ports

import (
	"context"

	"go.trai.ch/mbuild/internal/core/domain"
)

// Executor runs external tools.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run starts cmd and waits for it. A nonzero exit code is reported in the
	// result, not as an error; the error is reserved for failures to run at all.
	Run(ctx context.Context, cmd domain.Command) (domain.ProcessResult, error)
}
