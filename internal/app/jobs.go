package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// locate returns the root src was scanned from and the object path it
// compiles to. A single root is mirrored below buildDir; with several roots
// each one gets its own numbered subdirectory so equal relative paths from
// different roots never share an object.
func locate(buildDir string, roots []string, src string) (root, object string) {
	for i, r := range roots {
		rel, err := filepath.Rel(r, src)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if len(roots) > 1 {
			rel = filepath.Join(fmt.Sprintf("%d_%s", i, filepath.Base(r)), rel)
		}
		return r, filepath.Join(buildDir, rel+domain.ObjectExt)
	}
	return filepath.Dir(src), filepath.Join(buildDir, "_external", filepath.Base(src)+domain.ObjectExt)
}

// depFilePath returns the dependency file written next to object.
func depFilePath(object string) string {
	return strings.TrimSuffix(object, domain.ObjectExt) + domain.DepFileExt
}

type jobPlan struct {
	target       *domain.TargetDescriptor
	toolchain    *domain.ResolvedToolchain
	resources    *domain.ResourceSet
	roots        []string
	buildDir     string
	injectConfig bool
}

// compileJobs turns every translation unit of the plan's resources into a
// CompilationJob: assembly first, then C, then C++.
func compileJobs(p jobPlan) ([]domain.CompilationJob, error) {
	res, tc := p.resources, p.toolchain

	var preinclude []string
	if p.injectConfig && res.HasConfig && tc.Definition.PreincludeFlag != "" {
		preinclude = []string{tc.Definition.PreincludeFlag, res.ConfigHeader}
	}

	groups := []struct {
		step    domain.Step
		sources []string
	}{
		{domain.StepAssemble, res.AsmSources},
		{domain.StepCompileC, res.CSources},
		{domain.StepCompileCPP, res.CppSources},
	}

	jobs := make([]domain.CompilationJob, 0, len(res.Sources()))
	for _, g := range groups {
		for _, src := range g.sources {
			root, object := locate(p.buildDir, p.roots, src)
			depFile := depFilePath(object)
			args, err := tc.Command(g.step, domain.TemplateVars{
				"source":       domain.Scalar(src),
				"object":       domain.Scalar(object),
				"dep_file":     domain.Scalar(depFile),
				"include_dirs": res.IncludeDirs,
				"macros":       p.target.Macros,
				"preinclude":   preinclude,
			})
			if err != nil {
				return nil, zerr.With(err, "source", src)
			}
			jobs = append(jobs, domain.CompilationJob{
				Source:     src,
				Object:     object,
				Command:    args,
				WorkingDir: root,
				DepFile:    depFile,
				Format:     tc.Definition.DiagnosticFormat,
			})
		}
	}
	return jobs, nil
}

// fileReports summarises every job for the build report.
func fileReports(fresh []domain.CompilationJob, results []domain.CompilationResult) []domain.FileReport {
	files := make([]domain.FileReport, 0, len(fresh)+len(results))
	for _, r := range results {
		status := domain.FileCompiled
		if r.Failed() {
			status = domain.FileFailed
		}
		files = append(files, domain.FileReport{
			Source:      r.Job.Source,
			Object:      r.Job.Object,
			Status:      status,
			Diagnostics: r.Diagnostics,
		})
	}
	for _, j := range fresh {
		files = append(files, domain.FileReport{
			Source: j.Source,
			Object: j.Object,
			Status: domain.FileUpToDate,
		})
	}
	return files
}
