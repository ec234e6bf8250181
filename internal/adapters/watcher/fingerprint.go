package watcher

import (
	"sync"
	"unique"
)

// Hasher computes a content hash of a file.
type Hasher interface {
	ComputeFileHash(path string) (uint64, error)
}

// Fingerprints remembers the content hash of every file seen so far, so that
// saves which leave a file byte-identical do not trigger a rebuild.
type Fingerprints struct {
	mu     sync.Mutex
	hasher Hasher
	sums   map[unique.Handle[string]]uint64
}

// NewFingerprints creates an empty fingerprint set.
func NewFingerprints(hasher Hasher) *Fingerprints {
	return &Fingerprints{
		hasher: hasher,
		sums:   make(map[unique.Handle[string]]uint64),
	}
}

// Changed returns the paths whose content differs from the last call.
// A path seen for the first time, a path that can no longer be read and a
// path that becomes readable again all count as changed.
func (f *Fingerprints) Changed(paths []string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var changed []string
	for _, p := range paths {
		key := unique.Make(p)
		prev, known := f.sums[key]

		sum, err := f.hasher.ComputeFileHash(p)
		if err != nil {
			delete(f.sums, key)
			changed = append(changed, p)
			continue
		}

		f.sums[key] = sum
		if !known || prev != sum {
			changed = append(changed, p)
		}
	}
	return changed
}

// Seed records the current content of paths without reporting them.
func (f *Fingerprints) Seed(paths []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range paths {
		if sum, err := f.hasher.ComputeFileHash(p); err == nil {
			f.sums[unique.Make(p)] = sum
		}
	}
}
