package domain

import (
	"path/filepath"
	"unique"
)

// Path is an interned, lexically cleaned filesystem path.
// Scans and stat lookups touch the same header paths thousands of times, so
// comparisons and map lookups work on the handle instead of the string.
type Path struct {
	h unique.Handle[string]
}

// NewPath cleans p and interns it.
func NewPath(p string) Path {
	return Path{h: unique.Make(filepath.Clean(p))}
}

// String returns the cleaned path.
func (p Path) String() string {
	var zero unique.Handle[string]
	if p.h == zero {
		return ""
	}
	return p.h.Value()
}

// IsZero reports whether p was never assigned.
func (p Path) IsZero() bool {
	var zero unique.Handle[string]
	return p.h == zero
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	*p = NewPath(string(text))
	return nil
}
