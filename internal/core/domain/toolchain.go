package domain

import (
	"path/filepath"
	"slices"
	"sort"

	"go.trai.ch/zerr"
)

// Step is one kind of toolchain invocation.
type Step string

const (
	StepAssemble   Step = "assemble"
	StepCompileC   Step = "compile_c"
	StepCompileCPP Step = "compile_cpp"
	StepArchive    Step = "archive"
	StepLink       Step = "link"
	StepObjcopy    Step = "objcopy"
)

// DiagnosticFormat selects the parser applied to a compiler's stderr.
type DiagnosticFormat string

const (
	// FormatGCC covers GCC and Clang based compilers (file:line:col: severity: msg).
	FormatGCC DiagnosticFormat = "gcc"
	// FormatARMCC covers ARM Compiler 5 ("file", line N: Severity: msg).
	FormatARMCC DiagnosticFormat = "armcc"
	// FormatIAR covers IAR EWARM ("file",N  Severity[code]: msg).
	FormatIAR DiagnosticFormat = "iar"
)

// ToolchainDefinition is the catalog entry for one concrete toolchain.
type ToolchainDefinition struct {
	Name       string
	Family     string
	Generation int
	Deprecated bool

	// Compiler is the executable probed to decide availability.
	Compiler string
	// Labels are added to the active TOOLCHAIN labels.
	Labels []string
	// LinkerScriptExts restricts which files the scanner treats as linker scripts.
	LinkerScriptExts []string
	// CLibs lists the C library variants the toolchain can provide.
	CLibs []string
	// CLibFlags are spliced into compile and link commands through {clib_flags}.
	CLibFlags map[string][]string
	// PreincludeFlag forces a header into every translation unit (e.g. "-include").
	PreincludeFlag string

	DiagnosticFormat DiagnosticFormat
	// ObjcopyFormats maps an artifact extension to the {format} value for objcopy.
	ObjcopyFormats map[string]string
	Templates      map[Step]CommandTemplate
}

// SupportsCLib reports whether lib is one of the toolchain's C library variants.
func (d ToolchainDefinition) SupportsCLib(lib string) bool {
	if len(d.CLibs) == 0 {
		return lib == CLibStd
	}
	return slices.Contains(d.CLibs, lib)
}

// Template returns the command template for step.
func (d ToolchainDefinition) Template(step Step) (CommandTemplate, error) {
	t, ok := d.Templates[step]
	if !ok || len(t) == 0 {
		return nil, zerr.With(zerr.With(ErrMissingTemplate, "step", string(step)), "toolchain", d.Name)
	}
	return t, nil
}

// ObjcopyFormat returns the {format} value used to produce an artifact with ext.
func (d ToolchainDefinition) ObjcopyFormat(ext string) string {
	if f, ok := d.ObjcopyFormats[ext]; ok {
		return f
	}
	if ext == "hex" {
		return "ihex"
	}
	return "binary"
}

// ToolchainCatalog holds every known toolchain and the families grouping them.
type ToolchainCatalog struct {
	// Families maps a generic name to concrete members in preference order.
	Families   map[string][]string
	Toolchains map[string]ToolchainDefinition
}

// Expand returns the concrete toolchains a name stands for. A concrete name expands to itself.
func (c *ToolchainCatalog) Expand(name string) ([]string, error) {
	if members, ok := c.Families[name]; ok {
		return append([]string(nil), members...), nil
	}
	if _, ok := c.Toolchains[name]; ok {
		return []string{name}, nil
	}
	return nil, zerr.With(ErrUnknownToolchain, "toolchain", name)
}

// Lookup returns the definition for a concrete toolchain.
func (c *ToolchainCatalog) Lookup(name string) (ToolchainDefinition, bool) {
	d, ok := c.Toolchains[name]
	return d, ok
}

// Names returns every concrete toolchain name, sorted.
func (c *ToolchainCatalog) Names() []string {
	names := make([]string, 0, len(c.Toolchains))
	for n := range c.Toolchains {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ResolvedToolchain is the concrete, installed toolchain chosen for a build.
// It is shared read-only by every compilation worker.
type ResolvedToolchain struct {
	Definition ToolchainDefinition
	// Requested is the name the caller asked for, possibly a family.
	Requested string
	// BinDir is where the compiler was found. Tool names are resolved against it.
	BinDir string
	// CLib is the C library variant in effect after any substitution.
	CLib     string
	Warnings []string
}

// Name returns the concrete toolchain name.
func (r *ResolvedToolchain) Name() string {
	return r.Definition.Name
}

// Command expands the template for step with vars. The resolved C library
// flags are always available as {clib_flags}.
func (r *ResolvedToolchain) Command(step Step, vars TemplateVars) ([]string, error) {
	tmpl, err := r.Definition.Template(step)
	if err != nil {
		return nil, err
	}
	merged := make(TemplateVars, len(vars)+1)
	for k, v := range vars {
		merged[k] = v
	}
	if _, ok := merged["clib_flags"]; !ok {
		merged["clib_flags"] = r.Definition.CLibFlags[r.CLib]
	}
	args, err := tmpl.Expand(merged)
	if err != nil {
		return nil, zerr.With(zerr.With(err, "step", string(step)), "toolchain", r.Name())
	}
	if r.BinDir != "" && !filepath.IsAbs(args[0]) {
		args[0] = filepath.Join(r.BinDir, args[0])
	}
	return args, nil
}
