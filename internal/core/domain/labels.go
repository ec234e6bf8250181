package domain

import (
	"slices"
	"strings"
)

// LabelKind names a conditional directory prefix family.
type LabelKind string

const (
	// LabelTarget scopes a directory to a target or one of its ancestors (TARGET_K64F).
	LabelTarget LabelKind = "TARGET"
	// LabelToolchain scopes a directory to a toolchain (TOOLCHAIN_GCC_ARM).
	LabelToolchain LabelKind = "TOOLCHAIN"
	// LabelFeature scopes a directory to an enabled feature (FEATURE_BLE).
	LabelFeature LabelKind = "FEATURE"
	// LabelComponent scopes a directory to an enabled component (COMPONENT_SD).
	LabelComponent LabelKind = "COMPONENT"
)

// LabelKinds lists every conditional prefix family in a stable order.
var LabelKinds = []LabelKind{LabelTarget, LabelToolchain, LabelFeature, LabelComponent}

// LabelSet is the active label set for one (target, toolchain) pair.
// A zero LabelSet admits no conditional directory.
type LabelSet struct {
	labels map[LabelKind]map[string]struct{}
}

// NewLabelSet builds a LabelSet from per-kind label lists.
func NewLabelSet(labels map[LabelKind][]string) LabelSet {
	ls := LabelSet{labels: make(map[LabelKind]map[string]struct{}, len(labels))}
	for kind, values := range labels {
		ls = ls.With(kind, values...)
	}
	return ls
}

// With returns a copy of the set with values added under kind.
func (l LabelSet) With(kind LabelKind, values ...string) LabelSet {
	out := LabelSet{labels: make(map[LabelKind]map[string]struct{}, len(l.labels)+1)}
	for k, set := range l.labels {
		cp := make(map[string]struct{}, len(set))
		for v := range set {
			cp[v] = struct{}{}
		}
		out.labels[k] = cp
	}
	if len(values) == 0 {
		return out
	}
	set, ok := out.labels[kind]
	if !ok {
		set = make(map[string]struct{}, len(values))
		out.labels[kind] = set
	}
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return out
}

// Has reports whether value is active under kind.
func (l LabelSet) Has(kind LabelKind, value string) bool {
	_, ok := l.labels[kind][value]
	return ok
}

// Values returns the sorted labels active under kind.
func (l LabelSet) Values(kind LabelKind) []string {
	set := l.labels[kind]
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Admits reports whether a directory with the given base name may be descended into.
// Names without a conditional prefix are always admitted.
func (l LabelSet) Admits(dirName string) bool {
	kind, value, ok := ParseConditionalDir(dirName)
	if !ok {
		return true
	}
	return l.Has(kind, value)
}

// ParseConditionalDir splits a conditional directory name such as TARGET_K64F
// into its kind and label. ok is false for ordinary directory names.
func ParseConditionalDir(name string) (kind LabelKind, value string, ok bool) {
	for _, k := range LabelKinds {
		prefix := string(k) + "_"
		if rest, found := strings.CutPrefix(name, prefix); found && rest != "" {
			return k, rest, true
		}
	}
	return "", "", false
}
