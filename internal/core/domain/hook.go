package domain

// HookInput is everything a post-binary hook may read. Hooks must not keep it
// beyond the call.
type HookInput struct {
	// Artifact is the current artifact path, a file or, for multi-region
	// images, a directory.
	Artifact string
	Target   *TargetDescriptor
	Args     map[string]string
	BuildDir string
	// Roots are the source roots, used to resolve relative hook arguments.
	Roots []string
}

// Arg returns the named argument or def when it is absent.
func (in HookInput) Arg(name, def string) string {
	if v, ok := in.Args[name]; ok && v != "" {
		return v
	}
	return def
}
