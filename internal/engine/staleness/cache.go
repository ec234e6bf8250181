// Package staleness decides which build outputs are out of date.
package staleness

import (
	"os"
	"time"

	"go.trai.ch/mbuild/internal/core/domain"
)

// StatFunc returns the modification time of path.
type StatFunc func(path string) (time.Time, error)

// OSStat is the StatFunc backed by os.Stat.
func OSStat(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

type statEntry struct {
	mtime time.Time
	ok    bool
}

// StatCache memoizes modification times for one build invocation.
// Each unique path is stat'ed at most once until it is invalidated.
// It is not safe for concurrent use; the coordinator owns it.
type StatCache struct {
	stat    StatFunc
	entries map[domain.Path]statEntry
	calls   int
}

// NewStatCache creates an empty cache. A nil stat uses OSStat.
func NewStatCache(stat StatFunc) *StatCache {
	if stat == nil {
		stat = OSStat
	}
	return &StatCache{
		stat:    stat,
		entries: make(map[domain.Path]statEntry),
	}
}

// ModTime returns the cached modification time of path. ok is false when
// the path could not be stat'ed.
func (c *StatCache) ModTime(path string) (time.Time, bool) {
	key := domain.NewPath(path)
	if e, hit := c.entries[key]; hit {
		return e.mtime, e.ok
	}
	c.calls++
	mtime, err := c.stat(path)
	e := statEntry{mtime: mtime, ok: err == nil}
	c.entries[key] = e
	return e.mtime, e.ok
}

// Invalidate forgets paths, typically outputs that were just rewritten.
func (c *StatCache) Invalidate(paths ...string) {
	for _, p := range paths {
		delete(c.entries, domain.NewPath(p))
	}
}

// Calls returns how many times the underlying StatFunc ran.
func (c *StatCache) Calls() int {
	return c.calls
}
