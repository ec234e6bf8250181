package staleness_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/engine/staleness"
)

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

// fakeStat serves fixed mtimes and counts calls per path.
type fakeStat struct {
	times map[string]time.Time
	calls map[string]int
}

func newFakeStat(times map[string]time.Time) *fakeStat {
	return &fakeStat{times: times, calls: make(map[string]int)}
}

func (f *fakeStat) stat(path string) (time.Time, error) {
	f.calls[path]++
	if mt, ok := f.times[path]; ok {
		return mt, nil
	}
	return time.Time{}, errors.New("no such file")
}

func TestIsStale(t *testing.T) {
	times := map[string]time.Time{
		"new.o":   base.Add(time.Hour),
		"old.o":   base.Add(-time.Hour),
		"same.o":  base,
		"main.c":  base,
		"util.h":  base.Add(-2 * time.Hour),
		"fresh.h": base.Add(30 * time.Minute),
	}

	tests := []struct {
		name   string
		output string
		deps   []string
		force  bool
		want   bool
	}{
		{name: "output newer than deps", output: "new.o", deps: []string{"main.c", "util.h"}, want: false},
		{name: "dep newer than output", output: "old.o", deps: []string{"main.c"}, want: true},
		{name: "several older deps", output: "new.o", deps: []string{"util.h", "fresh.h", "main.c"}, want: false},
		{name: "equal mtime is stale", output: "same.o", deps: []string{"main.c"}, want: true},
		{name: "missing output", output: "missing.o", deps: []string{"main.c"}, want: true},
		{name: "missing dependency", output: "new.o", deps: []string{"main.c", "gone.h"}, want: true},
		{name: "force", output: "new.o", deps: []string{"util.h"}, force: true, want: true},
		{name: "no deps", output: "new.o", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := staleness.NewTracker(staleness.NewStatCache(newFakeStat(times).stat))
			assert.Equal(t, tt.want, tracker.IsStale(tt.output, tt.deps, tt.force))
		})
	}
}

func TestIsStale_SharedHeaderStatOnce(t *testing.T) {
	times := map[string]time.Time{"shared.h": base}
	var outputs []string
	for i := range 50 {
		name := "obj" + string(rune('a'+i%26)) + strings.Repeat("x", i/26) + ".o"
		times[name] = base.Add(time.Minute)
		outputs = append(outputs, name)
	}
	fs := newFakeStat(times)
	tracker := staleness.NewTracker(staleness.NewStatCache(fs.stat))

	for _, out := range outputs {
		assert.False(t, tracker.IsStale(out, []string{"shared.h"}, false))
	}

	assert.Equal(t, 1, fs.calls["shared.h"])
	assert.Equal(t, len(outputs)+1, tracker.Cache().Calls())
}

func TestIsStale_Idempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	obj := filepath.Join(dir, "main.o")
	touch(t, src, base)
	touch(t, obj, base.Add(time.Second))

	tracker := staleness.NewTracker(nil)
	first := tracker.IsStale(obj, []string{src}, false)
	for range 3 {
		assert.Equal(t, first, tracker.IsStale(obj, []string{src}, false))
	}

	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	objInfo, err := os.Stat(obj)
	require.NoError(t, err)
	assert.Equal(t, !objInfo.ModTime().After(srcInfo.ModTime()), first)
}

func TestStatCache_Invalidate(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "main.o")
	touch(t, obj, base)

	cache := staleness.NewStatCache(nil)
	mt, ok := cache.ModTime(obj)
	require.True(t, ok)
	assert.True(t, mt.Equal(base))

	touch(t, obj, base.Add(time.Hour))
	mt, _ = cache.ModTime(obj)
	assert.True(t, mt.Equal(base), "cached value is kept until invalidated")

	cache.Invalidate(obj)
	mt, _ = cache.ModTime(obj)
	assert.True(t, mt.Equal(base.Add(time.Hour)))
	assert.Equal(t, 2, cache.Calls())
}

func TestPartition_ScenarioA(t *testing.T) {
	dir := t.TempDir()
	staleSrc := filepath.Join(dir, "stale.c")
	freshSrc := filepath.Join(dir, "fresh.c")
	touch(t, staleSrc, base.Add(time.Hour))
	touch(t, filepath.Join(dir, "stale.o"), base)
	touch(t, freshSrc, base)
	touch(t, filepath.Join(dir, "fresh.o"), base.Add(time.Hour))

	jobs := []domain.CompilationJob{
		{Source: staleSrc, Object: filepath.Join(dir, "stale.o")},
		{Source: freshSrc, Object: filepath.Join(dir, "fresh.o")},
	}

	stale, fresh := staleness.NewTracker(nil).Partition(jobs, domain.NewResourceSet(), false)

	require.Len(t, stale, 1)
	assert.Equal(t, staleSrc, stale[0].Source)
	require.Len(t, fresh, 1)
	assert.Equal(t, freshSrc, fresh[0].Source)
}

func TestPartition_Force(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	touch(t, src, base)
	touch(t, filepath.Join(dir, "main.o"), base.Add(time.Hour))

	jobs := []domain.CompilationJob{{Source: src, Object: filepath.Join(dir, "main.o")}}
	stale, fresh := staleness.NewTracker(nil).Partition(jobs, nil, true)

	assert.Len(t, stale, 1)
	assert.Empty(t, fresh)
}

func TestDependencies_FallbackUsesAllHeaders(t *testing.T) {
	res := domain.NewResourceSet()
	res.AddFile("/src/a.h", domain.CategoryHeader)
	res.AddFile("/src/mbuild_config.h", domain.CategoryHeader)

	job := domain.CompilationJob{Source: "/src/main.c", DepFile: "/does/not/exist.d"}
	deps := staleness.NewTracker(nil).Dependencies(job, res)

	assert.Equal(t, []string{"/src/main.c", "/src/a.h", "/src/mbuild_config.h"}, deps)
}

func TestDependencies_HeaderChangeViaDepFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	used := filepath.Join(dir, "used.h")
	unused := filepath.Join(dir, "unused.h")
	obj := filepath.Join(dir, "main.o")
	depFile := filepath.Join(dir, "main.d")

	touch(t, src, base)
	touch(t, used, base)
	touch(t, unused, base.Add(2*time.Hour))
	touch(t, obj, base.Add(time.Hour))
	require.NoError(t, os.WriteFile(depFile, []byte("main.o: main.c \\\n used.h\n"), 0o600))

	res := domain.NewResourceSet()
	res.AddFile(used, domain.CategoryHeader)
	res.AddFile(unused, domain.CategoryHeader)

	tracker := staleness.NewTracker(nil)
	job := domain.CompilationJob{Source: src, Object: obj, DepFile: depFile, WorkingDir: dir}

	deps := tracker.Dependencies(job, res)
	assert.Equal(t, []string{src, used}, deps)
	assert.False(t, tracker.IsStale(obj, deps, false), "unused header must not trigger a rebuild")

	touch(t, used, base.Add(3*time.Hour))
	tracker = staleness.NewTracker(nil)
	assert.True(t, tracker.IsStale(obj, tracker.Dependencies(job, res), false))
}
