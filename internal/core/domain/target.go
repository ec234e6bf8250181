package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// CLibStd is the standard C library variant.
	CLibStd = "std"
	// CLibSmall is the reduced-footprint C library variant.
	CLibSmall = "small"
)

// HookSpec names a post-binary hook and its arguments as declared by a target.
type HookSpec struct {
	ID   string
	Args map[string]string
}

// TargetDescriptor describes the build-relevant properties of one board or MCU.
// It is flat: inheritance has already been resolved by whoever produced it.
// It must not be mutated once a build has started.
type TargetDescriptor struct {
	Name                string
	Core                string
	SupportedToolchains []string
	Labels              map[LabelKind][]string
	Macros              []string
	PostBinaryHooks     []HookSpec

	// OutputExtension is the final artifact extension without a leading dot.
	OutputExtension string
	// LegacyNaming truncates the artifact name to 8.3.
	LegacyNaming bool

	// CLib is the requested C library variant.
	CLib string
	// CLibSupport lists the C library variants each toolchain can provide for
	// this target. A toolchain missing from the map falls back to its own
	// catalog entry.
	CLibSupport map[string][]string
}

// Validate checks the fields every build needs.
func (t *TargetDescriptor) Validate() error {
	if t.Name == "" {
		return zerr.With(ErrInvalidTarget, "reason", "missing name")
	}
	if len(t.SupportedToolchains) == 0 {
		return zerr.With(zerr.With(ErrInvalidTarget, "reason", "no supported toolchains"), "target", t.Name)
	}
	for _, h := range t.PostBinaryHooks {
		if h.ID == "" {
			return zerr.With(zerr.With(ErrInvalidTarget, "reason", "hook without id"), "target", t.Name)
		}
	}
	return nil
}

// Supports reports whether the target lists toolchain as supported.
func (t *TargetDescriptor) Supports(toolchain string) bool {
	return slices.Contains(t.SupportedToolchains, toolchain)
}

// RequestedCLib returns the requested C library variant, defaulting to std.
func (t *TargetDescriptor) RequestedCLib() string {
	if t.CLib == "" {
		return CLibStd
	}
	return t.CLib
}

// CLibsFor returns the C library variants the target declares for toolchain.
// ok is false when the target does not constrain that toolchain.
func (t *TargetDescriptor) CLibsFor(toolchain string) (libs []string, ok bool) {
	libs, ok = t.CLibSupport[toolchain]
	return libs, ok
}

// ArtifactExtension returns the final artifact extension without a leading dot.
func (t *TargetDescriptor) ArtifactExtension() string {
	if t.OutputExtension == "" {
		return DefaultArtifactExt
	}
	return strings.TrimPrefix(t.OutputExtension, ".")
}

// LabelSet returns the active labels for building this target with tc.
// The target name and its core are implicit TARGET labels; the toolchain
// contributes its TOOLCHAIN labels.
func (t *TargetDescriptor) LabelSet(tc *ResolvedToolchain) LabelSet {
	ls := NewLabelSet(t.Labels).With(LabelTarget, t.Name)
	if t.Core != "" {
		ls = ls.With(LabelTarget, CoreLabel(t.Core))
	}
	if tc != nil {
		ls = ls.With(LabelToolchain, tc.Definition.Labels...)
	}
	return ls
}

// CoreLabel turns a core identifier such as "Cortex-M4F" into a label ("CORTEX_M4F").
func CoreLabel(core string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(core))
}
