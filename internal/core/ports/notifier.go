package ports

import "go.trai.ch/mbuild/internal/core/domain"

// Notifier consumes the build event stream.
//
//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type Notifier interface {
	Notify(event domain.Event)
}
