// Package scheduler compiles translation units across a fixed pool of workers.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/mbuild/internal/engine/diagnostics"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options tune a single CompileAll batch.
type Options struct {
	// Workers bounds concurrent compiler processes. Zero means runtime.NumCPU.
	Workers int
	// Timeout is the wall-clock ceiling for the whole batch. Zero disables it.
	Timeout time.Duration
	// Target and Toolchain scope the errors returned by the batch.
	Target    string
	Toolchain string
	// BuildID is stamped on every emitted event.
	BuildID string
}

// Outcome is everything a batch produced, including partial progress when
// the batch ended early.
type Outcome struct {
	// Objects are the object files of the jobs that succeeded.
	Objects []string
	// Results holds one entry per finished job in completion order.
	Results []domain.CompilationResult
	// Failures are the jobs whose compiler exited nonzero.
	Failures []domain.CompilationResult
	// Crashes are the jobs that could not be run at all.
	Crashes []domain.CompilationResult
}

// Scheduler runs compilation jobs and reports their progress.
type Scheduler struct {
	executor ports.Executor
	notifier ports.Notifier
	tracer   ports.Tracer
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(executor ports.Executor, notifier ports.Notifier, tracer ports.Tracer) *Scheduler {
	return &Scheduler{
		executor: executor,
		notifier: notifier,
		tracer:   tracer,
	}
}

// Partition deals jobs round-robin into at most workers slices.
func Partition(jobs []domain.CompilationJob, workers int) [][]domain.CompilationJob {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	parts := make([][]domain.CompilationJob, workers)
	for i, job := range jobs {
		parts[i%workers] = append(parts[i%workers], job)
	}
	return parts
}

// CompileAll runs every job and waits for all of them. A failing compiler
// does not stop its siblings; all failures are collected into one
// BuildFailure. Exceeding the timeout terminates every worker and returns a
// SchedulerTimeoutError. Jobs that could not be run at all produce a
// WorkerCrashError.
func (s *Scheduler) CompileAll(ctx context.Context, jobs []domain.CompilationJob, opts Options) (Outcome, error) {
	var out Outcome
	total := len(jobs)
	if total == 0 {
		return out, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	parts := Partition(jobs, workers)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan domain.CompilationResult, len(parts))
	g, gctx := errgroup.WithContext(runCtx)
	for _, part := range parts {
		g.Go(func() error {
			for _, job := range part {
				res := s.runJob(gctx, job)
				select {
				case results <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	// stop terminates the batch and returns once every worker has exited, so
	// no compiler outlives CompileAll and writes into the next build.
	stop := func() {
		cancel()
		for range results {
		}
	}

	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	completed := 0
	for completed < total {
		select {
		case res, ok := <-results:
			if !ok {
				return out, s.missingResults(ctx, jobs, out, opts)
			}
			completed++
			s.record(&out, res, completed, total, opts)
		case <-timeout:
			stop()
			return out, &domain.SchedulerTimeoutError{
				Target:    opts.Target,
				Toolchain: opts.Toolchain,
				Timeout:   opts.Timeout,
				Completed: completed,
				Total:     total,
			}
		case <-ctx.Done():
			stop()
			return out, zerr.Wrap(ctx.Err(), "compilation cancelled")
		}
	}

	if err := ctx.Err(); err != nil {
		return out, zerr.Wrap(err, "compilation cancelled")
	}
	if len(out.Crashes) > 0 {
		return out, &domain.WorkerCrashError{Target: opts.Target, Toolchain: opts.Toolchain, Crashes: out.Crashes}
	}
	if len(out.Failures) > 0 {
		return out, &domain.BuildFailure{Target: opts.Target, Toolchain: opts.Toolchain, Failures: out.Failures}
	}
	return out, nil
}

// runJob runs one compiler invocation. A panic is turned into a crashed result
// so the coordinator always receives exactly one result per job.
func (s *Scheduler) runJob(ctx context.Context, job domain.CompilationJob) (res domain.CompilationResult) {
	res.Job = job

	ctx, span := s.tracer.Start(ctx, "compile "+filepath.Base(job.Source),
		ports.WithAttribute("mbuild.source", job.Source))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			res.ReturnCode = -1
			res.Err = zerr.With(zerr.New(fmt.Sprintf("worker panicked: %v", r)), "panic", fmt.Sprint(r))
			span.RecordError(res.Err)
		}
	}()

	if len(job.Command) == 0 {
		res.ReturnCode = -1
		res.Err = zerr.With(zerr.New("empty compile command"), "source", job.Source)
		return res
	}

	if err := os.MkdirAll(filepath.Dir(job.Object), domain.DirPerm); err != nil {
		res.ReturnCode = -1
		res.Err = zerr.With(zerr.Wrap(err, "failed to create object directory"), "object", job.Object)
		span.RecordError(res.Err)
		return res
	}

	pr, err := s.executor.Run(ctx, domain.Command{Args: job.Command, Dir: job.WorkingDir})
	res.ReturnCode = pr.ExitCode
	res.Stderr = string(pr.Stderr)
	if err != nil {
		res.Err = err
		span.RecordError(err)
	}
	span.SetAttribute("mbuild.exit_code", pr.ExitCode)
	return res
}

// record folds one result into out and emits its events: progress first,
// then the diagnostics it carried.
func (s *Scheduler) record(out *Outcome, res domain.CompilationResult, completed, total int, opts Options) {
	res.Diagnostics = diagnostics.Parse(res.Job.Format, res.Stderr)

	s.emit(opts, domain.ProgressEvent(action(res.Job.Source), res.Job.Source, completed, total))
	for _, d := range res.Diagnostics {
		s.emit(opts, domain.DiagnosticEvent(d))
	}

	switch {
	case res.Err != nil:
		out.Crashes = append(out.Crashes, res)
		s.emit(opts, domain.ToolErrorEvent(toolName(res.Job), res.ReturnCode, res.Err.Error()))
	case res.ReturnCode != 0:
		out.Failures = append(out.Failures, res)
		if len(res.Diagnostics) == 0 {
			s.emit(opts, domain.ToolErrorEvent(toolName(res.Job), res.ReturnCode, res.Stderr))
		}
	default:
		out.Objects = append(out.Objects, res.Job.Object)
	}
	out.Results = append(out.Results, res)
}

// missingResults reports jobs that never produced a result.
func (s *Scheduler) missingResults(ctx context.Context, jobs []domain.CompilationJob, out Outcome, opts Options) error {
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, "compilation cancelled")
	}
	done := make(map[string]struct{}, len(out.Results))
	for _, r := range out.Results {
		done[r.Job.Object] = struct{}{}
	}
	crashes := append([]domain.CompilationResult(nil), out.Crashes...)
	for _, job := range jobs {
		if _, ok := done[job.Object]; !ok {
			crashes = append(crashes, domain.CompilationResult{
				Job:        job,
				ReturnCode: -1,
				Err:        zerr.New("worker exited without a result"),
			})
		}
	}
	return &domain.WorkerCrashError{Target: opts.Target, Toolchain: opts.Toolchain, Crashes: crashes}
}

func (s *Scheduler) emit(opts Options, ev domain.Event) {
	if s.notifier == nil {
		return
	}
	ev.BuildID = opts.BuildID
	ev.Time = time.Now()
	s.notifier.Notify(ev)
}

func action(source string) string {
	if domain.Classify(source, nil) == domain.CategoryAsm {
		return "Assemble"
	}
	return "Compile"
}

func toolName(job domain.CompilationJob) string {
	if len(job.Command) == 0 {
		return ""
	}
	return filepath.Base(job.Command[0])
}
