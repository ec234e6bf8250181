// Package scanner classifies the files of a conditionally structured source tree.
package scanner

import (
	"context"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scanner walks source roots and builds a ResourceSet for one label set.
type Scanner struct {
	walker ports.Walker
}

// New creates a Scanner backed by walker.
func New(walker ports.Walker) *Scanner {
	return &Scanner{walker: walker}
}

type scanConfig struct {
	excluded   map[domain.Path]struct{}
	linkerExts []string
}

// Option configures a single Scan call.
type Option func(*scanConfig)

// WithExcludedDirs keeps the scan out of dirs, typically the build directory.
func WithExcludedDirs(dirs ...string) Option {
	return func(c *scanConfig) {
		for _, d := range dirs {
			if d == "" {
				continue
			}
			if abs, err := filepath.Abs(d); err == nil {
				d = abs
			}
			c.excluded[domain.NewPath(d)] = struct{}{}
		}
	}
}

// WithLinkerScriptExtensions restricts which extensions are linker scripts.
// The active toolchain usually supplies these.
func WithLinkerScriptExtensions(exts []string) Option {
	return func(c *scanConfig) {
		if len(exts) > 0 {
			c.linkerExts = exts
		}
	}
}

// Scan walks every root and classifies what it finds. Directories carrying a
// TARGET_, TOOLCHAIN_, FEATURE_ or COMPONENT_ prefix are only entered when the
// label is active. Every entered directory becomes an include directory.
// A root that does not exist is fatal; unknown extensions are skipped.
func (s *Scanner) Scan(ctx context.Context, roots []string, labels domain.LabelSet, opts ...Option) (*domain.ResourceSet, error) {
	cfg := scanConfig{excluded: make(map[domain.Path]struct{})}
	for _, opt := range opts {
		opt(&cfg)
	}

	res := domain.NewResourceSet()
	for _, root := range roots {
		if err := s.scanRoot(ctx, root, labels, &cfg, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *Scanner) scanRoot(
	ctx context.Context,
	root string,
	labels domain.LabelSet,
	cfg *scanConfig,
	res *domain.ResourceSet,
) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve source root"), "root", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return zerr.With(domain.ErrScanRootMissing, "root", root)
		}
		return zerr.With(zerr.Wrap(err, "failed to stat source root"), "root", root)
	}
	if !info.IsDir() {
		return zerr.With(domain.ErrScanRootNotDir, "root", root)
	}

	ign := newIgnoreTree(abs)
	enter := func(dir string) bool {
		if ctx.Err() != nil {
			return false
		}
		if dir != abs {
			if !labels.Admits(filepath.Base(dir)) {
				return false
			}
			if _, skip := cfg.excluded[domain.NewPath(dir)]; skip {
				return false
			}
			if ign.ignored(dir, true) {
				return false
			}
		}
		if file := ign.load(dir); file != "" {
			res.AddIgnoreFile(file)
		}
		res.AddIncludeDir(dir)
		return true
	}

	for path := range s.walker.Walk(abs, enter) {
		if ctx.Err() != nil {
			break
		}
		if filepath.Base(path) == domain.IgnoreFileName || ign.ignored(path, false) {
			continue
		}
		res.AddFile(path, domain.Classify(path, cfg.linkerExts))
	}

	if err := ctx.Err(); err != nil {
		return zerr.With(zerr.Wrap(err, "scan interrupted"), "root", root)
	}
	return nil
}

// ignoreTree holds the compiled .mbuildignore file of every directory entered so far.
type ignoreTree struct {
	root     string
	matchers map[string]*ignore.GitIgnore
}

func newIgnoreTree(root string) *ignoreTree {
	return &ignoreTree{root: root, matchers: make(map[string]*ignore.GitIgnore)}
}

// load compiles dir's ignore file and returns its path, or "" when dir has none.
// The file uses gitignore syntax: # comments, ** globs, ! negation, a leading
// / anchors to dir and a trailing / matches directories only.
func (t *ignoreTree) load(dir string) string {
	path := filepath.Join(dir, domain.IgnoreFileName)
	m, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return ""
	}
	t.matchers[dir] = m
	return path
}

// ignored reports whether the ignore file of any ancestor directory matches
// path, taken relative to the directory declaring the file.
func (t *ignoreTree) ignored(path string, isDir bool) bool {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if m, ok := t.matchers[dir]; ok {
			if rel, err := filepath.Rel(dir, path); err == nil {
				rel = filepath.ToSlash(rel)
				if isDir {
					rel += "/"
				}
				if m.MatchesPath(rel) {
					return true
				}
			}
		}
		if dir == t.root || dir == filepath.Dir(dir) {
			return false
		}
	}
}
