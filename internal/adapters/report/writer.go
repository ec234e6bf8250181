// Package report persists machine-readable build reports.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Digester computes a content digest of a file.
type Digester interface {
	Digest(path string) (string, error)
}

// Writer implements ports.ReportWriter as an indented JSON file.
type Writer struct {
	digester Digester
}

// NewWriter creates a Writer. When digester is set, reports naming an
// artifact without a digest get one filled in.
func NewWriter(digester Digester) *Writer {
	return &Writer{digester: digester}
}

// Write stores rep as build_report.json under buildDir and returns the path.
// The file is replaced atomically so a reader never sees a partial report.
func (w *Writer) Write(buildDir string, rep domain.BuildReport) (string, error) {
	if rep.Digest == "" && rep.Artifact != "" && w.digester != nil {
		digest, err := w.digester.Digest(rep.Artifact)
		if err != nil {
			return "", zerr.Wrap(err, domain.ErrReportWriteFailed.Error())
		}
		rep.Digest = digest
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrReportWriteFailed.Error())
	}
	data = append(data, '\n')

	if err := os.MkdirAll(buildDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrReportWriteFailed.Error()), "dir", buildDir)
	}

	path := domain.ReportPath(buildDir)
	tmp, err := os.CreateTemp(buildDir, ".report-*")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrReportWriteFailed.Error()), "dir", buildDir)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", zerr.With(zerr.Wrap(err, domain.ErrReportWriteFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrReportWriteFailed.Error()), "path", path)
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrReportWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrReportWriteFailed.Error()), "path", path)
	}

	return path, nil
}

// Read loads a report previously written by Write.
func Read(path string) (domain.BuildReport, error) {
	var rep domain.BuildReport

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return rep, zerr.With(zerr.Wrap(err, "failed to read build report"), "path", path)
	}
	if err := json.Unmarshal(data, &rep); err != nil {
		return rep, zerr.With(zerr.Wrap(err, "failed to unmarshal build report"), "path", path)
	}
	return rep, nil
}
