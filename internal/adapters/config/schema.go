package config

// TargetsFile is the structure of targets.yaml.
type TargetsFile struct {
	Version string                `yaml:"version"`
	Targets map[string]*TargetDTO `yaml:"targets"`
}

// TargetDTO is one flat target entry.
type TargetDTO struct {
	Core                string              `yaml:"core"`
	SupportedToolchains []string            `yaml:"supported_toolchains"`
	Labels              map[string][]string `yaml:"labels"`
	Macros              []string            `yaml:"macros"`
	PostBinaryHooks     []HookDTO           `yaml:"post_binary_hooks"`
	OutputExtension     string              `yaml:"output_extension"`
	LegacyNaming        bool                `yaml:"legacy_naming"`
	CLib                string              `yaml:"c_lib"`
	CLibSupport         map[string][]string `yaml:"c_lib_support"`
}

// HookDTO names a post-binary hook and its arguments.
type HookDTO struct {
	ID   string            `yaml:"id"`
	Args map[string]string `yaml:"args"`
}

// CatalogFile is the structure of a toolchain catalog.
type CatalogFile struct {
	Families   map[string][]string      `yaml:"families"`
	Toolchains map[string]*ToolchainDTO `yaml:"toolchains"`
}

// ToolchainDTO is one concrete toolchain definition.
type ToolchainDTO struct {
	Family           string              `yaml:"family"`
	Generation       int                 `yaml:"generation"`
	Deprecated       bool                `yaml:"deprecated"`
	Compiler         string              `yaml:"compiler"`
	Labels           []string            `yaml:"labels"`
	LinkerScriptExts []string            `yaml:"linker_script_exts"`
	CLibs            []string            `yaml:"c_libs"`
	CLibFlags        map[string][]string `yaml:"c_lib_flags"`
	PreincludeFlag   string              `yaml:"preinclude_flag"`
	DiagnosticFormat string              `yaml:"diagnostic_format"`
	ObjcopyFormats   map[string]string   `yaml:"objcopy_formats"`
	Templates        map[string][]string `yaml:"templates"`
}
