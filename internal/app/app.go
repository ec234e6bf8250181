// Package app implements the application layer for mbuild.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/mbuild/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/mbuild/internal/engine/finalize"
	"go.trai.ch/mbuild/internal/engine/hooks"
	"go.trai.ch/mbuild/internal/engine/scanner"
	"go.trai.ch/mbuild/internal/engine/scheduler"
	"go.trai.ch/mbuild/internal/engine/staleness"
	"go.trai.ch/mbuild/internal/engine/toolchain"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	targets   ports.TargetRepository
	resolver  *toolchain.Resolver
	scanner   *scanner.Scanner
	scheduler *scheduler.Scheduler
	finalizer *finalize.Finalizer
	hooks     *hooks.Registry
	reports   ports.ReportWriter
	notifier  ports.Notifier
	tracer    ports.Tracer
	logger    ports.Logger

	watchers       watcher.Factory
	fingerprints   *watcher.Fingerprints
	debounceWindow time.Duration

	now   func() time.Time
	newID func() string
}

// New creates a new App instance.
func New(
	targets ports.TargetRepository,
	resolver *toolchain.Resolver,
	scan *scanner.Scanner,
	sched *scheduler.Scheduler,
	finalizer *finalize.Finalizer,
	registry *hooks.Registry,
	reports ports.ReportWriter,
	notifier ports.Notifier,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		targets:        targets,
		resolver:       resolver,
		scanner:        scan,
		scheduler:      sched,
		finalizer:      finalizer,
		hooks:          registry,
		reports:        reports,
		notifier:       notifier,
		tracer:         tracer,
		logger:         log,
		debounceWindow: watcher.DefaultDebounceWindow,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// WithWatcher enables Watch.
func (a *App) WithWatcher(factory watcher.Factory, fingerprints *watcher.Fingerprints) *App {
	a.watchers = factory
	a.fingerprints = fingerprints
	return a
}

// WithDebounceWindow overrides how long Watch waits for a burst of changes to settle.
func (a *App) WithDebounceWindow(window time.Duration) *App {
	a.debounceWindow = window
	return a
}

// WithClock replaces the clock used for events and reports.
// This is primarily used for testing.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// WithIDGenerator replaces the build identifier generator.
// This is primarily used for testing.
func (a *App) WithIDGenerator(newID func() string) *App {
	a.newID = newID
	return a
}

// BuildOptions configures one Build call.
type BuildOptions struct {
	Target string
	// Toolchain is a concrete toolchain or a family. Empty means the
	// target's first supported toolchain.
	Toolchain string
	Roots     []string
	// BuildDir defaults to BUILD/<target>/<toolchain>.
	BuildDir string
	// Name is the artifact base name. It defaults to the first root's directory name.
	Name         string
	Jobs         int
	Timeout      time.Duration
	Force        bool
	InjectConfig bool
	// Report writes build_report.json into the build directory.
	Report bool
	// Policy overrides the resolver's configured policy when set.
	Policy *toolchain.Policy
}

// BuildResult describes a finished build.
type BuildResult struct {
	BuildID   string
	Target    string
	Toolchain string
	BuildDir  string
	Artifact  string
	Warnings  []string
	Compiled  int
	UpToDate  int
	Linked    bool
	// ReportPath is set when a report was written.
	ReportPath string
	Resources  domain.ResourceSummary
	// Inputs are every source and header the scan found.
	Inputs []string
}

// session is the state of one build invocation.
type session struct {
	id        string
	started   time.Time
	target    *domain.TargetDescriptor
	toolchain *domain.ResolvedToolchain
	roots     []string
	buildDir  string
	resources *domain.ResourceSet
	warnings  []string
}

func (s *session) toolchainName() string {
	if s.toolchain == nil {
		return ""
	}
	return s.toolchain.Name()
}

// Build resolves the toolchain, scans the roots, compiles stale translation
// units and links the final artifact.
//
//nolint:cyclop,funlen // orchestration function
func (a *App) Build(ctx context.Context, opts BuildOptions) (res *BuildResult, err error) {
	if opts.Target == "" {
		return nil, domain.ErrNoTargetSpecified
	}
	if len(opts.Roots) == 0 {
		return nil, domain.ErrNoSourceRoots
	}

	s := &session{id: a.newID(), started: a.now()}
	res = &BuildResult{BuildID: s.id, Target: opts.Target}

	ctx, span := a.tracer.Start(ctx, "build",
		ports.WithAttribute("mbuild.target", opts.Target),
		ports.WithAttribute("mbuild.build_id", s.id))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	if err := a.prepare(ctx, s, opts); err != nil {
		return res, err
	}
	res.Toolchain = s.toolchainName()
	res.BuildDir = s.buildDir
	res.Warnings = s.warnings

	var (
		fresh   []domain.CompilationJob
		outcome scheduler.Outcome
	)
	if opts.Report {
		defer func() {
			path, werr := a.writeReport(s, fresh, outcome, res.Artifact, err)
			if werr != nil {
				err = errors.Join(err, werr)
				return
			}
			res.ReportPath = path
		}()
	}

	if err := a.scan(ctx, s); err != nil {
		return res, err
	}
	res.Resources = s.resources.Summary()
	res.Inputs = append(s.resources.Sources(), s.resources.Headers...)

	jobs, err := compileJobs(jobPlan{
		target:       s.target,
		toolchain:    s.toolchain,
		resources:    s.resources,
		roots:        s.roots,
		buildDir:     s.buildDir,
		injectConfig: opts.InjectConfig,
	})
	if err != nil {
		return res, a.scoped(err, s)
	}

	tracker := staleness.NewTracker(staleness.NewStatCache(nil))
	stale, fresh := tracker.Partition(jobs, s.resources, opts.Force)
	res.UpToDate = len(fresh)
	a.emit(s, domain.DebugEvent(fmt.Sprintf("%d of %d translation unit(s) up to date", len(fresh), len(jobs))))

	outcome, err = a.scheduler.CompileAll(ctx, stale, scheduler.Options{
		Workers:   opts.Jobs,
		Timeout:   opts.Timeout,
		Target:    s.target.Name,
		Toolchain: s.toolchainName(),
		BuildID:   s.id,
	})
	res.Compiled = len(outcome.Objects)
	tracker.Cache().Invalidate(outcome.Objects...)
	if err != nil {
		return res, a.scoped(err, s)
	}

	objects := make([]string, 0, len(jobs)+len(s.resources.Objects))
	for _, j := range jobs {
		objects = append(objects, j.Object)
	}
	objects = append(objects, s.resources.Objects...)

	name := opts.Name
	if name == "" {
		name = filepath.Base(s.roots[0])
	}

	// Directory mtimes move when a source is added or removed, and ignore
	// files move when a source is excluded, so either one forces a relink.
	linkDeps := slices.Concat(objects, s.resources.Libraries, s.resources.IncludeDirs, s.resources.IgnoreFiles)
	if s.resources.LinkerScript != "" {
		linkDeps = append(linkDeps, s.resources.LinkerScript)
	}
	skipLink := len(stale) == 0 && !tracker.IsStale(finalize.ElfPath(s.buildDir, name), linkDeps, opts.Force)
	res.Linked = !skipLink

	artifact, err := a.finalizer.LinkAndFinalize(ctx, finalize.LinkRequest{
		Objects:      objects,
		Libraries:    s.resources.Libraries,
		LibDirs:      s.resources.LibDirs,
		LinkerScript: s.resources.LinkerScript,
		Target:       s.target,
		Toolchain:    s.toolchain,
		BuildDir:     s.buildDir,
		Name:         name,
		SkipLink:     skipLink,
		Roots:        s.roots,
		BuildID:      s.id,
	})
	if err != nil {
		return res, a.scoped(err, s)
	}
	res.Artifact = artifact
	return res, nil
}

// prepare loads the target, resolves its toolchain and fixes the build
// directory. Unknown hooks are rejected here so nothing is compiled for a
// build that could never finish.
func (a *App) prepare(ctx context.Context, s *session, opts BuildOptions) error {
	target, err := a.targets.Target(opts.Target)
	if err != nil {
		return err
	}
	s.target = target

	for _, r := range opts.Roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve source root"), "root", r)
		}
		s.roots = append(s.roots, abs)
	}

	tc, warnings, err := a.resolve(ctx, target, opts.Toolchain, opts.Policy)
	s.warnings = warnings
	for _, w := range warnings {
		a.logger.Warn(w)
		a.emit(s, domain.InfoEvent("warning: "+w))
	}
	if err != nil {
		return err
	}
	s.toolchain = tc

	if _, err := a.hooks.Resolve(target); err != nil {
		var he *domain.HookError
		if errors.As(err, &he) {
			he.Toolchain = tc.Name()
		}
		return err
	}

	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = domain.DefaultBuildPath(target.Name, tc.Name())
	}
	abs, err := filepath.Abs(buildDir)
	if err != nil {
		return a.scoped(zerr.With(zerr.Wrap(err, "failed to resolve build directory"), "path", buildDir), s)
	}
	s.buildDir = abs

	a.emit(s, domain.InfoEvent(fmt.Sprintf("Building %s with %s", target.Name, tc.Name())))
	return nil
}

func (a *App) resolve(
	ctx context.Context,
	target *domain.TargetDescriptor,
	requested string,
	policy *toolchain.Policy,
) (*domain.ResolvedToolchain, []string, error) {
	if requested == "" {
		requested = target.SupportedToolchains[0]
	}

	ctx, span := a.tracer.Start(ctx, "resolve", ports.WithAttribute("mbuild.toolchain.requested", requested))
	defer span.End()

	resolver := a.resolver
	if policy != nil {
		resolver = resolver.WithPolicy(*policy)
	}
	tc, warnings, err := resolver.Resolve(ctx, target, requested)
	if err != nil {
		span.RecordError(err)
		return nil, warnings, err
	}
	span.SetAttribute("mbuild.toolchain", tc.Name())
	span.SetAttribute("mbuild.clib", tc.CLib)
	return tc, warnings, nil
}

func (a *App) scan(ctx context.Context, s *session) error {
	ctx, span := a.tracer.Start(ctx, "scan", ports.WithAttribute("mbuild.roots", len(s.roots)))
	defer span.End()

	res, err := a.scanner.Scan(ctx, s.roots, s.target.LabelSet(s.toolchain),
		scanner.WithExcludedDirs(s.buildDir),
		scanner.WithLinkerScriptExtensions(s.toolchain.Definition.LinkerScriptExts),
	)
	if err != nil {
		span.RecordError(err)
		return a.scoped(err, s)
	}
	span.SetAttribute("mbuild.sources", len(res.Sources()))
	s.resources = res
	return nil
}

// ScanOptions configures one Scan call.
type ScanOptions struct {
	Target    string
	Toolchain string
	Roots     []string
	BuildDir  string
	Policy    *toolchain.Policy
}

// ScanResult is the outcome of Scan.
type ScanResult struct {
	Target    string
	Toolchain string
	Warnings  []string
	Resources *domain.ResourceSet
}

// Scan resolves the toolchain and classifies the roots without compiling.
func (a *App) Scan(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	if opts.Target == "" {
		return nil, domain.ErrNoTargetSpecified
	}
	if len(opts.Roots) == 0 {
		return nil, domain.ErrNoSourceRoots
	}

	s := &session{id: a.newID(), started: a.now()}
	if err := a.prepare(ctx, s, BuildOptions{
		Target:    opts.Target,
		Toolchain: opts.Toolchain,
		Roots:     opts.Roots,
		BuildDir:  opts.BuildDir,
		Policy:    opts.Policy,
	}); err != nil {
		return nil, err
	}
	if err := a.scan(ctx, s); err != nil {
		return nil, err
	}
	return &ScanResult{
		Target:    s.target.Name,
		Toolchain: s.toolchainName(),
		Warnings:  s.warnings,
		Resources: s.resources,
	}, nil
}

// Toolchains reports every catalog toolchain and whether it is installed.
func (a *App) Toolchains() []toolchain.Availability {
	return a.resolver.Available()
}

// Targets returns every target name the repository knows.
func (a *App) Targets() ([]string, error) {
	return a.targets.Names()
}

func (a *App) writeReport(
	s *session,
	fresh []domain.CompilationJob,
	outcome scheduler.Outcome,
	artifact string,
	buildErr error,
) (string, error) {
	rep := domain.BuildReport{
		BuildID:   s.id,
		Target:    s.target.Name,
		Toolchain: s.toolchainName(),
		Started:   s.started,
		Duration:  a.now().Sub(s.started),
		Warnings:  s.warnings,
		Files:     fileReports(fresh, outcome.Results),
		Artifact:  artifact,
	}
	if s.toolchain != nil {
		rep.CLib = s.toolchain.CLib
	}
	if s.resources != nil {
		rep.Resources = s.resources.Summary()
	}
	if buildErr != nil {
		rep.Error = buildErr.Error()
	}
	return a.reports.Write(s.buildDir, rep)
}

// scoped attaches the build's target and toolchain to an error that does not
// already carry them.
func (a *App) scoped(err error, s *session) error {
	if hasScope(err) {
		return err
	}
	err = zerr.With(err, "target", s.target.Name)
	if name := s.toolchainName(); name != "" {
		err = zerr.With(err, "toolchain", name)
	}
	return err
}

func hasScope(err error) bool {
	var (
		buildFailure *domain.BuildFailure
		linkErr      *domain.LinkError
		hookErr      *domain.HookError
		timeoutErr   *domain.SchedulerTimeoutError
		crashErr     *domain.WorkerCrashError
	)
	return errors.As(err, &buildFailure) ||
		errors.As(err, &linkErr) ||
		errors.As(err, &hookErr) ||
		errors.As(err, &timeoutErr) ||
		errors.As(err, &crashErr) ||
		errors.Is(err, domain.ErrNoLinkerScript)
}

func (a *App) emit(s *session, ev domain.Event) {
	if a.notifier == nil {
		return
	}
	ev.BuildID = s.id
	ev.Time = a.now()
	a.notifier.Notify(ev)
}
