package ports

import "go.trai.ch/mbuild/internal/core/domain"

// TargetRepository provides flattened target descriptors.
//
//go:generate mockgen -source=targets.go -destination=mocks/mock_targets.go -package=mocks
type TargetRepository interface {
	// Target returns the descriptor for name.
	Target(name string) (*domain.TargetDescriptor, error)
	// Names returns every known target name, sorted.
	Names() ([]string, error)
}
