// Package hooks holds the typed registry of post-binary hooks and the built-in hooks.
package hooks

import (
	"sort"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry maps hook identifiers to implementations.
type Registry struct {
	hooks map[string]ports.PostBinaryHook
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string]ports.PostBinaryHook)}
}

// NewDefaultRegistry returns a registry holding every built-in hook.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, h := range []ports.PostBinaryHook{Pad{}, Checksum{}, Merge{}, Collapse{}} {
		// Built-in identifiers are distinct.
		_ = r.Register(h)
	}
	return r
}

// Register adds h. Identifiers must be unique.
func (r *Registry) Register(h ports.PostBinaryHook) error {
	id := h.ID()
	if _, exists := r.hooks[id]; exists {
		return zerr.With(domain.ErrHookAlreadyRegistered, "hook", id)
	}
	r.hooks[id] = h
	return nil
}

// Lookup returns the hook registered under id.
func (r *Registry) Lookup(id string) (ports.PostBinaryHook, bool) {
	h, ok := r.hooks[id]
	return h, ok
}

// IDs returns the registered identifiers, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.hooks))
	for id := range r.hooks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Bound is a hook resolved for one position in a target's chain.
type Bound struct {
	Index int
	Spec  domain.HookSpec
	Hook  ports.PostBinaryHook
}

// Resolve binds every hook target declares, in declared order. An unknown
// identifier yields a HookError wrapping ErrHookNotRegistered.
func (r *Registry) Resolve(target *domain.TargetDescriptor) ([]Bound, error) {
	chain := make([]Bound, 0, len(target.PostBinaryHooks))
	for i, spec := range target.PostBinaryHooks {
		h, ok := r.hooks[spec.ID]
		if !ok {
			return nil, &domain.HookError{
				Target: target.Name,
				Hook:   spec.ID,
				Index:  i,
				Err:    domain.ErrHookNotRegistered,
			}
		}
		chain = append(chain, Bound{Index: i, Spec: spec, Hook: h})
	}
	return chain, nil
}
