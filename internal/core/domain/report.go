package domain

import "time"

// FileReport is the per-source entry of a BuildReport.
type FileReport struct {
	Source      string       `json:"source"`
	Object      string       `json:"object"`
	Status      string       `json:"status"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// File statuses used in FileReport.Status.
const (
	FileCompiled = "compiled"
	FileUpToDate = "up_to_date"
	FileFailed   = "failed"
)

// BuildReport is the machine-readable summary of one build invocation.
type BuildReport struct {
	BuildID   string          `json:"build_id"`
	Target    string          `json:"target"`
	Toolchain string          `json:"toolchain"`
	CLib      string          `json:"clib"`
	Started   time.Time       `json:"started"`
	Duration  time.Duration   `json:"duration_ns"`
	Warnings  []string        `json:"warnings,omitempty"`
	Resources ResourceSummary `json:"resources"`
	Files     []FileReport    `json:"files"`
	Artifact  string          `json:"artifact,omitempty"`
	Digest    string          `json:"digest,omitempty"`
	Error     string          `json:"error,omitempty"`
}
