package ports

import "iter"

// Walker walks source trees.
//
//go:generate mockgen -source=walker.go -destination=mocks/mock_walker.go -package=mocks
type Walker interface {
	// Walk yields every file below root in lexical order. enter is called for
	// each directory, root included, before its contents are visited; returning
	// false prunes the directory.
	Walk(root string, enter func(dir string) bool) iter.Seq[string]
}
