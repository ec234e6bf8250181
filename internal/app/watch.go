package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/mbuild/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ErrWatchUnavailable is returned by Watch when the App has no watcher.
var ErrWatchUnavailable = zerr.New("file watching is not available")

// Watch builds once and then rebuilds whenever a source, header, linker
// script or ignore file below the roots changes content. Build errors are
// reported and the watch goes on; Watch returns when ctx is done.
func (a *App) Watch(ctx context.Context, opts BuildOptions) error {
	if a.watchers == nil || a.fingerprints == nil {
		return ErrWatchUnavailable
	}
	if opts.Target == "" {
		return domain.ErrNoTargetSpecified
	}
	if len(opts.Roots) == 0 {
		return domain.ErrNoSourceRoots
	}

	w, err := a.watchers()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	if err := w.Start(ctx, opts.Roots...); err != nil {
		return err
	}

	buildDir := a.rebuild(ctx, opts)
	opts.Force = false

	batches := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(a.debounceWindow, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for ev := range w.Events() {
			if !relevant(ev.Path, buildDir) {
				continue
			}
			debouncer.Add(ev.Path)
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case paths := <-batches:
				changed := a.fingerprints.Changed(paths)
				if len(changed) == 0 {
					continue
				}
				a.logger.Info(fmt.Sprintf("%d file(s) changed, rebuilding", len(changed)))
				a.rebuild(gctx, opts)
			}
		}
	})
	return g.Wait()
}

// rebuild runs one build for Watch and returns its build directory. The
// build's inputs are fingerprinted so later saves that leave them unchanged
// are ignored.
func (a *App) rebuild(ctx context.Context, opts BuildOptions) string {
	res, err := a.Build(ctx, opts)
	if res != nil && len(res.Inputs) > 0 {
		a.fingerprints.Seed(res.Inputs)
	}
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
	case errors.Is(err, domain.ErrBuildFailure):
		a.logger.Warn("build failed, waiting for changes")
	default:
		a.logger.Error(err)
	}
	if res == nil {
		return ""
	}
	return res.BuildDir
}

// relevant reports whether a change at path can affect the build.
func relevant(path, buildDir string) bool {
	if buildDir != "" {
		if rel, err := filepath.Rel(buildDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return false
		}
	}
	if filepath.Base(path) == domain.IgnoreFileName {
		return true
	}
	return domain.Classify(path, nil) != domain.CategoryNone
}
