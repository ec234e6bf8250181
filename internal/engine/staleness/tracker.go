package staleness

import (
	"slices"

	"go.trai.ch/mbuild/internal/core/domain"
)

// Tracker answers staleness questions against a StatCache.
type Tracker struct {
	cache *StatCache
}

// NewTracker creates a Tracker. A nil cache gets a fresh OSStat-backed one.
func NewTracker(cache *StatCache) *Tracker {
	if cache == nil {
		cache = NewStatCache(nil)
	}
	return &Tracker{cache: cache}
}

// Cache returns the tracker's StatCache.
func (t *Tracker) Cache() *StatCache {
	return t.cache
}

// IsStale reports whether output must be rebuilt from deps. It never fails:
// a missing output, a dependency that cannot be stat'ed, or a dependency not
// strictly older than the output all count as stale.
func (t *Tracker) IsStale(output string, deps []string, force bool) bool {
	if force {
		return true
	}
	outTime, ok := t.cache.ModTime(output)
	if !ok {
		return true
	}
	for _, d := range deps {
		depTime, ok := t.cache.ModTime(d)
		if !ok || !outTime.After(depTime) {
			return true
		}
	}
	return false
}

// Dependencies returns the inputs of job. The compiler's dependency file is
// used when it can be read; otherwise every header of res is assumed,
// so a missing dependency file never hides a change.
func (t *Tracker) Dependencies(job domain.CompilationJob, res *domain.ResourceSet) []string {
	if job.DepFile != "" {
		if deps, err := ReadDepFile(job.DepFile, job.WorkingDir); err == nil && len(deps) > 0 {
			if !slices.Contains(deps, job.Source) {
				deps = append([]string{job.Source}, deps...)
			}
			return deps
		}
	}

	deps := []string{job.Source}
	if res == nil {
		return deps
	}
	deps = append(deps, res.Headers...)
	if res.ConfigHeader != "" && !slices.Contains(res.Headers, res.ConfigHeader) {
		deps = append(deps, res.ConfigHeader)
	}
	return deps
}

// Partition splits jobs into those that need compiling and those whose
// object is up to date. Input order is preserved in both slices.
func (t *Tracker) Partition(
	jobs []domain.CompilationJob,
	res *domain.ResourceSet,
	force bool,
) (stale, fresh []domain.CompilationJob) {
	for _, job := range jobs {
		if t.IsStale(job.Object, t.Dependencies(job, res), force) {
			stale = append(stale, job)
		} else {
			fresh = append(fresh, job)
		}
	}
	return stale, fresh
}
