package domain

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// BuildFailure aggregates every translation unit that failed in one batch.
type BuildFailure struct {
	Target    string
	Toolchain string
	Failures  []CompilationResult
}

func (e *BuildFailure) Error() string {
	files := e.Files()
	msg := fmt.Sprintf("build failed: %d file(s) failed to compile: %s", len(files), strings.Join(files, ", "))
	return msg + scope(e.Target, e.Toolchain)
}

func (e *BuildFailure) Unwrap() error { return ErrBuildFailure }

// Files returns the failing sources in the order they completed.
func (e *BuildFailure) Files() []string {
	files := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		files[i] = f.Job.Source
	}
	return files
}

// Stderr returns the captured error streams of every failing job.
func (e *BuildFailure) Stderr() string {
	var b strings.Builder
	for _, f := range e.Failures {
		if f.Stderr == "" {
			continue
		}
		b.WriteString(f.Stderr)
		if !strings.HasSuffix(f.Stderr, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ToolchainCandidate is one concrete toolchain the resolver tried.
type ToolchainCandidate struct {
	Name       string
	Compiler   string
	SearchPath []string
}

// ToolchainUnavailableError reports that no candidate had an executable compiler.
type ToolchainUnavailableError struct {
	Target    string
	Requested string
	Attempted []ToolchainCandidate
	Warnings  []string
}

func (e *ToolchainUnavailableError) Error() string {
	last := e.LastCandidate()
	msg := fmt.Sprintf("no usable toolchain found for %q", e.Requested)
	if last.Name != "" {
		msg += fmt.Sprintf(": last tried %s (%s) in [%s]", last.Name, last.Compiler, strings.Join(last.SearchPath, string(os.PathListSeparator)))
	}
	return msg + scope(e.Target, "")
}

func (e *ToolchainUnavailableError) Unwrap() error { return ErrToolchainUnavailable }

// LastCandidate returns the final toolchain attempted, or a zero value if none was probed.
func (e *ToolchainUnavailableError) LastCandidate() ToolchainCandidate {
	if len(e.Attempted) == 0 {
		return ToolchainCandidate{}
	}
	return e.Attempted[len(e.Attempted)-1]
}

// UnsupportedToolchainError reports an explicit rejection of a toolchain for a target.
type UnsupportedToolchainError struct {
	Target    string
	Toolchain string
	Requested string
	Reason    string
	Warnings  []string
}

func (e *UnsupportedToolchainError) Error() string {
	msg := fmt.Sprintf("toolchain %s is not supported for target %s", e.Toolchain, e.Target)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *UnsupportedToolchainError) Unwrap() error { return ErrUnsupportedToolchainForTarget }

// LinkError reports a failed link or objcopy invocation.
type LinkError struct {
	Target    string
	Toolchain string
	Step      Step
	Output    string
	ExitCode  int
	Stderr    string
	Err       error
}

func (e *LinkError) Error() string {
	msg := fmt.Sprintf("%s failed for %s", e.Step, e.Output)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	return msg + scope(e.Target, e.Toolchain)
}

func (e *LinkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrLinkFailed}
	}
	return []error{ErrLinkFailed, e.Err}
}

// HookError reports a failing post-binary hook, tagged with its identity.
type HookError struct {
	Target    string
	Toolchain string
	Hook      string
	Index     int
	Artifact  string
	Err       error
}

func (e *HookError) Error() string {
	msg := fmt.Sprintf("post-binary hook %s (#%d) failed", e.Hook, e.Index)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg + scope(e.Target, e.Toolchain)
}

func (e *HookError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrHook}
	}
	return []error{ErrHook, e.Err}
}

// SchedulerTimeoutError reports that a batch exceeded its wall-clock ceiling.
type SchedulerTimeoutError struct {
	Target    string
	Toolchain string
	Timeout   time.Duration
	Completed int
	Total     int
}

func (e *SchedulerTimeoutError) Error() string {
	msg := fmt.Sprintf("compilation timed out after %s with %d of %d job(s) complete", e.Timeout, e.Completed, e.Total)
	return msg + scope(e.Target, e.Toolchain)
}

func (e *SchedulerTimeoutError) Unwrap() error { return ErrSchedulerTimeout }

// WorkerCrashError reports jobs whose worker failed outside the compiler.
type WorkerCrashError struct {
	Target    string
	Toolchain string
	Crashes   []CompilationResult
}

func (e *WorkerCrashError) Error() string {
	parts := make([]string, len(e.Crashes))
	for i, c := range e.Crashes {
		parts[i] = fmt.Sprintf("%s: %v", c.Job.Source, c.Err)
	}
	msg := fmt.Sprintf("compilation worker crashed on %d job(s): %s", len(e.Crashes), strings.Join(parts, "; "))
	return msg + scope(e.Target, e.Toolchain)
}

func (e *WorkerCrashError) Unwrap() error { return ErrWorkerCrashed }

func scope(target, toolchain string) string {
	switch {
	case target != "" && toolchain != "":
		return fmt.Sprintf(" [target %s, toolchain %s]", target, toolchain)
	case target != "":
		return fmt.Sprintf(" [target %s]", target)
	case toolchain != "":
		return fmt.Sprintf(" [toolchain %s]", toolchain)
	default:
		return ""
	}
}
