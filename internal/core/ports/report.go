package ports

import "go.trai.ch/mbuild/internal/core/domain"

// ReportWriter persists a build report.
//
//go:generate mockgen -source=report.go -destination=mocks/mock_report.go -package=mocks
type ReportWriter interface {
	// Write stores report under buildDir and returns the file written.
	Write(buildDir string, report domain.BuildReport) (string, error)
}
