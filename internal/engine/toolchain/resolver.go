// Package toolchain maps a requested toolchain name to an installed, concrete toolchain.
package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Policy controls the choices the resolver makes when more than one answer is possible.
type Policy struct {
	// PinLegacy tries family members oldest generation first instead of in
	// declared preference order.
	PinLegacy bool
	// StdLibFallback substitutes the standard C library when the requested
	// variant is unavailable for the chosen toolchain. When false the
	// mismatch is an error.
	StdLibFallback bool
	// SearchPaths lists directories probed before PATH, per concrete toolchain.
	SearchPaths map[string][]string
}

// DefaultPolicy keeps the declared family order and allows C library substitution.
func DefaultPolicy() Policy {
	return Policy{StdLibFallback: true}
}

// Resolver resolves toolchains against a catalog and a tool probe.
type Resolver struct {
	catalog *domain.ToolchainCatalog
	probe   ports.ToolProbe
	policy  Policy
}

// NewResolver creates a Resolver.
func NewResolver(catalog *domain.ToolchainCatalog, probe ports.ToolProbe, policy Policy) *Resolver {
	return &Resolver{catalog: catalog, probe: probe, policy: policy}
}

// WithPolicy returns a copy of the resolver that applies p.
func (r *Resolver) WithPolicy(p Policy) *Resolver {
	cp := *r
	cp.policy = p
	return &cp
}

// Policy returns the policy in effect.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// Catalog returns the catalog the resolver was built with.
func (r *Resolver) Catalog() *domain.ToolchainCatalog {
	return r.catalog
}

// Resolve picks the concrete toolchain for target. A family name is expanded
// into its members, narrowed to what target supports and probed in order;
// the first member whose compiler is installed wins. Reaching a deprecated
// member rejects the request outright. The returned warnings are also stored
// on the ResolvedToolchain.
func (r *Resolver) Resolve(
	ctx context.Context,
	target *domain.TargetDescriptor,
	requested string,
) (*domain.ResolvedToolchain, []string, error) {
	members, err := r.catalog.Expand(requested)
	if err != nil {
		return nil, nil, zerr.With(err, "target", target.Name)
	}

	candidates := r.candidates(target, members)
	if len(candidates) == 0 {
		return nil, nil, &domain.UnsupportedToolchainError{
			Target:    target.Name,
			Toolchain: requested,
			Requested: requested,
			Reason:    "target supports " + strings.Join(target.SupportedToolchains, ", "),
		}
	}

	var (
		warnings  []string
		attempted []domain.ToolchainCandidate
	)
	for _, def := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, warnings, zerr.Wrap(err, "toolchain resolution interrupted")
		}

		if def.Deprecated {
			return nil, warnings, &domain.UnsupportedToolchainError{
				Target:    target.Name,
				Toolchain: def.Name,
				Requested: requested,
				Reason:    "toolchain is deprecated",
				Warnings:  warnings,
			}
		}

		extra := r.policy.SearchPaths[def.Name]
		compiler, lookErr := r.probe.LookPath(def.Compiler, extra)
		if lookErr != nil {
			attempted = append(attempted, domain.ToolchainCandidate{
				Name:       def.Name,
				Compiler:   def.Compiler,
				SearchPath: r.probe.SearchPath(extra),
			})
			warnings = append(warnings, fmt.Sprintf("toolchain %s skipped: %s not found", def.Name, def.Compiler))
			continue
		}

		clib, clibWarning, err := r.resolveCLib(target, def)
		if err != nil {
			return nil, warnings, err
		}
		if clibWarning != "" {
			warnings = append(warnings, clibWarning)
		}

		return &domain.ResolvedToolchain{
			Definition: def,
			Requested:  requested,
			BinDir:     filepath.Dir(compiler),
			CLib:       clib,
			Warnings:   slices.Clone(warnings),
		}, warnings, nil
	}

	return nil, warnings, &domain.ToolchainUnavailableError{
		Target:    target.Name,
		Requested: requested,
		Attempted: attempted,
		Warnings:  warnings,
	}
}

// candidates returns the supported members in probing order.
func (r *Resolver) candidates(target *domain.TargetDescriptor, members []string) []domain.ToolchainDefinition {
	out := make([]domain.ToolchainDefinition, 0, len(members))
	for _, name := range members {
		def, ok := r.catalog.Lookup(name)
		if !ok || !target.Supports(name) {
			continue
		}
		out = append(out, def)
	}
	if r.policy.PinLegacy {
		slices.SortStableFunc(out, func(a, b domain.ToolchainDefinition) int {
			return a.Generation - b.Generation
		})
	}
	return out
}

func (r *Resolver) resolveCLib(target *domain.TargetDescriptor, def domain.ToolchainDefinition) (string, string, error) {
	want := target.RequestedCLib()
	if supportsCLib(target, def, want) {
		return want, "", nil
	}

	if want != domain.CLibStd && r.policy.StdLibFallback && supportsCLib(target, def, domain.CLibStd) {
		return domain.CLibStd, fmt.Sprintf(
			"%s C library is not supported by %s for target %s; using %s",
			want, def.Name, target.Name, domain.CLibStd,
		), nil
	}

	err := zerr.With(domain.ErrUnsupportedCLib, "clib", want)
	err = zerr.With(err, "toolchain", def.Name)
	return "", "", zerr.With(err, "target", target.Name)
}

func supportsCLib(target *domain.TargetDescriptor, def domain.ToolchainDefinition, lib string) bool {
	if libs, ok := target.CLibsFor(def.Name); ok {
		return slices.Contains(libs, lib)
	}
	return def.SupportsCLib(lib)
}

// Availability describes whether a catalog toolchain is installed.
type Availability struct {
	Name       string
	Family     string
	Deprecated bool
	Compiler   string
	// Path is the located compiler, empty when it was not found.
	Path string
}

// Available probes every catalog toolchain in name order.
func (r *Resolver) Available() []Availability {
	names := r.catalog.Names()
	out := make([]Availability, 0, len(names))
	for _, name := range names {
		def, _ := r.catalog.Lookup(name)
		a := Availability{
			Name:       def.Name,
			Family:     def.Family,
			Deprecated: def.Deprecated,
			Compiler:   def.Compiler,
		}
		if path, err := r.probe.LookPath(def.Compiler, r.policy.SearchPaths[name]); err == nil {
			a.Path = path
		}
		out = append(out, a)
	}
	return out
}
