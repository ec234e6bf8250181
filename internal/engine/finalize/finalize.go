// Package finalize links objects into an image and runs the post-binary hook chain.
package finalize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/mbuild/internal/engine/hooks"
	"go.trai.ch/zerr"
)

// LinkRequest is the input of LinkAndFinalize.
type LinkRequest struct {
	Objects      []string
	Libraries    []string
	LibDirs      []string
	LinkerScript string

	Target    *domain.TargetDescriptor
	Toolchain *domain.ResolvedToolchain

	BuildDir string
	// Name is the artifact base name, usually the project directory name.
	Name string
	// SkipLink reuses an up-to-date ELF. Objcopy and hooks still run.
	SkipLink bool
	// Roots are the source roots, passed on to hooks.
	Roots   []string
	BuildID string
}

// Finalizer links and post-processes firmware images.
type Finalizer struct {
	executor ports.Executor
	registry *hooks.Registry
	notifier ports.Notifier
	tracer   ports.Tracer
}

// NewFinalizer creates a new Finalizer.
func NewFinalizer(executor ports.Executor, registry *hooks.Registry, notifier ports.Notifier, tracer ports.Tracer) *Finalizer {
	return &Finalizer{
		executor: executor,
		registry: registry,
		notifier: notifier,
		tracer:   tracer,
	}
}

// ElfPath returns where the linked image of name is written.
func ElfPath(buildDir, name string) string {
	return filepath.Join(buildDir, name+domain.ElfExt)
}

// ArtifactPath returns the final artifact location for target. Targets with
// legacy naming get an 8.3 file name.
func ArtifactPath(buildDir, name string, target *domain.TargetDescriptor) string {
	ext := target.ArtifactExtension()
	if target.LegacyNaming {
		if len(name) > 8 {
			name = name[:8]
		}
		if len(ext) > 3 {
			ext = ext[:3]
		}
	}
	return filepath.Join(buildDir, name+"."+ext)
}

// LinkAndFinalize links req.Objects into an ELF, converts it to the target's
// artifact format and applies the target's hooks in declared order. It
// returns the final artifact path, which the last hook may have moved.
func (f *Finalizer) LinkAndFinalize(ctx context.Context, req LinkRequest) (string, error) {
	target, tc := req.Target, req.Toolchain

	if req.LinkerScript == "" {
		err := zerr.With(domain.ErrNoLinkerScript, "target", target.Name)
		return "", zerr.With(err, "toolchain", tc.Name())
	}

	chain, err := f.registry.Resolve(target)
	if err != nil {
		return "", withToolchain(err, tc.Name())
	}

	if err := os.MkdirAll(req.BuildDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create build directory"), "path", req.BuildDir)
	}

	elf := ElfPath(req.BuildDir, req.Name)
	if req.SkipLink {
		f.emit(req, domain.DebugEvent("link skipped: "+filepath.Base(elf)+" is up to date"))
	} else {
		vars := domain.TemplateVars{
			"objects":       req.Objects,
			"libraries":     req.Libraries,
			"lib_dirs":      req.LibDirs,
			"linker_script": domain.Scalar(req.LinkerScript),
			"output":        domain.Scalar(elf),
			"map_file":      domain.Scalar(strings.TrimSuffix(elf, domain.ElfExt) + ".map"),
		}
		f.emit(req, domain.ProgressEvent("Link", filepath.Base(elf), 0, 0))
		if err := f.run(ctx, req, domain.StepLink, elf, vars); err != nil {
			return "", err
		}
	}

	artifact := ArtifactPath(req.BuildDir, req.Name, target)
	vars := domain.TemplateVars{
		"input":  domain.Scalar(elf),
		"output": domain.Scalar(artifact),
		"format": domain.Scalar(tc.Definition.ObjcopyFormat(target.ArtifactExtension())),
	}
	f.emit(req, domain.ProgressEvent("Elf2Bin", filepath.Base(artifact), 0, 0))
	if err := f.run(ctx, req, domain.StepObjcopy, artifact, vars); err != nil {
		return "", err
	}

	for _, b := range chain {
		next, err := f.applyHook(ctx, req, b, artifact)
		if err != nil {
			return "", err
		}
		artifact = next
	}

	f.emit(req, domain.InfoEvent("Image: "+artifact))
	return artifact, nil
}

func (f *Finalizer) run(ctx context.Context, req LinkRequest, step domain.Step, output string, vars domain.TemplateVars) error {
	target, tc := req.Target, req.Toolchain

	ctx, span := f.tracer.Start(ctx, string(step), ports.WithAttribute("mbuild.output", output))
	defer span.End()

	args, err := tc.Command(step, vars)
	if err != nil {
		span.RecordError(err)
		return &domain.LinkError{Target: target.Name, Toolchain: tc.Name(), Step: step, Output: output, Err: err}
	}

	res, err := f.executor.Run(ctx, domain.Command{Args: args, Dir: req.BuildDir})
	if err != nil {
		span.RecordError(err)
		return &domain.LinkError{
			Target:    target.Name,
			Toolchain: tc.Name(),
			Step:      step,
			Output:    output,
			ExitCode:  res.ExitCode,
			Stderr:    string(res.Stderr),
			Err:       err,
		}
	}
	span.SetAttribute("mbuild.exit_code", res.ExitCode)
	if res.ExitCode != 0 {
		f.emit(req, domain.ToolErrorEvent(filepath.Base(args[0]), res.ExitCode, string(res.Stderr)))
		return &domain.LinkError{
			Target:    target.Name,
			Toolchain: tc.Name(),
			Step:      step,
			Output:    output,
			ExitCode:  res.ExitCode,
			Stderr:    string(res.Stderr),
		}
	}
	return nil
}

func (f *Finalizer) applyHook(ctx context.Context, req LinkRequest, b hooks.Bound, artifact string) (string, error) {
	ctx, span := f.tracer.Start(ctx, "hook "+b.Spec.ID, ports.WithAttribute("mbuild.hook.index", b.Index))
	defer span.End()

	f.emit(req, domain.DebugEvent("applying post-binary hook "+b.Spec.ID))
	next, err := b.Hook.Apply(ctx, domain.HookInput{
		Artifact: artifact,
		Target:   req.Target,
		Args:     b.Spec.Args,
		BuildDir: req.BuildDir,
		Roots:    req.Roots,
	})
	if err != nil {
		span.RecordError(err)
		return "", &domain.HookError{
			Target:    req.Target.Name,
			Toolchain: req.Toolchain.Name(),
			Hook:      b.Spec.ID,
			Index:     b.Index,
			Artifact:  artifact,
			Err:       err,
		}
	}
	if next == "" {
		next = artifact
	}
	return next, nil
}

func (f *Finalizer) emit(req LinkRequest, ev domain.Event) {
	if f.notifier == nil {
		return
	}
	ev.BuildID = req.BuildID
	ev.Time = time.Now()
	f.notifier.Notify(ev)
}

func withToolchain(err error, toolchain string) error {
	if he, ok := err.(*domain.HookError); ok { //nolint:errorlint // Resolve returns the concrete type
		he.Toolchain = toolchain
		return he
	}
	return err
}
