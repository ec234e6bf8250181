// Package fs provides file system adapters for walking and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/mbuild/internal/core/ports"
)

var _ ports.Walker = (*Walker)(nil)

// skippedDirs are never descended into, whatever the caller decides.
var skippedDirs = map[string]struct{}{
	".git": {},
	".hg":  {},
	".svn": {},
	".jj":  {},
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields all files below root in lexical order. enter is consulted for
// every directory, root included; returning false prunes it. Version control
// metadata directories are always skipped. Unreadable entries are skipped.
func (w *Walker) Walk(root string, enter func(dir string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if _, skip := skippedDirs[d.Name()]; skip && path != root {
					return filepath.SkipDir
				}
				if enter != nil && !enter(path) {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
