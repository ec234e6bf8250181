package domain

import (
	"path/filepath"
	"strings"
)

// Category classifies a scanned file.
type Category int

const (
	// CategoryNone marks files the build ignores.
	CategoryNone Category = iota
	CategoryAsm
	CategoryC
	CategoryCpp
	CategoryHeader
	CategoryObject
	CategoryLibrary
	CategoryLinkerScript
	CategoryHex
	CategoryBin
)

var categoryNames = map[Category]string{
	CategoryNone:         "none",
	CategoryAsm:          "asm",
	CategoryC:            "c",
	CategoryCpp:          "cpp",
	CategoryHeader:       "header",
	CategoryObject:       "object",
	CategoryLibrary:      "library",
	CategoryLinkerScript: "linker_script",
	CategoryHex:          "hex",
	CategoryBin:          "bin",
}

// String returns the lowercase category name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// DefaultLinkerScriptExts are accepted when the toolchain does not narrow them down.
var DefaultLinkerScriptExts = []string{".ld", ".sct", ".icf"}

var extensionCategories = map[string]Category{
	".s":   CategoryAsm,
	".c":   CategoryC,
	".cpp": CategoryCpp,
	".cc":  CategoryCpp,
	".cxx": CategoryCpp,
	".h":   CategoryHeader,
	".hpp": CategoryHeader,
	".hh":  CategoryHeader,
	".inc": CategoryHeader,
	".o":   CategoryObject,
	".a":   CategoryLibrary,
	".ar":  CategoryLibrary,
	".hex": CategoryHex,
	".bin": CategoryBin,
}

// Classify maps a file path to its category by extension.
// linkerExts restricts which extensions count as linker scripts; nil means DefaultLinkerScriptExts.
func Classify(path string, linkerExts []string) Category {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return CategoryNone
	}
	if linkerExts == nil {
		linkerExts = DefaultLinkerScriptExts
	}
	for _, le := range linkerExts {
		if strings.EqualFold(ext, le) {
			return CategoryLinkerScript
		}
	}
	return extensionCategories[ext]
}

// ResourceSet is the classified result of scanning a set of roots under one label set.
// Every file belongs to exactly one category and include dirs keep first-seen order.
type ResourceSet struct {
	IncludeDirs  []string
	AsmSources   []string
	CSources     []string
	CppSources   []string
	Headers      []string
	Objects      []string
	Libraries    []string
	LibDirs      []string
	LinkerScript string
	HexFiles     []string
	BinFiles     []string
	HasConfig    bool
	ConfigHeader string
	// IgnoreFiles are the ignore files that shaped the scan.
	IgnoreFiles []string

	files   map[Path]Category
	dirs    map[Path]struct{}
	libDirs map[Path]struct{}
}

// NewResourceSet returns an empty ResourceSet.
func NewResourceSet() *ResourceSet {
	r := &ResourceSet{}
	r.init()
	return r
}

func (r *ResourceSet) init() {
	if r.files == nil {
		r.files = make(map[Path]Category)
	}
	if r.dirs == nil {
		r.dirs = make(map[Path]struct{})
	}
	if r.libDirs == nil {
		r.libDirs = make(map[Path]struct{})
	}
}

// identity returns the key a path is deduplicated under.
func identity(path string) Path {
	if abs, err := filepath.Abs(path); err == nil {
		return NewPath(abs)
	}
	return NewPath(path)
}

// AddFile records path under cat. It reports false when the path is already
// present (in any category) or cat is CategoryNone.
func (r *ResourceSet) AddFile(path string, cat Category) bool {
	if cat == CategoryNone {
		return false
	}
	r.init()
	key := identity(path)
	if _, seen := r.files[key]; seen {
		return false
	}
	r.files[key] = cat
	p := key.String()

	switch cat {
	case CategoryAsm:
		r.AsmSources = append(r.AsmSources, p)
	case CategoryC:
		r.CSources = append(r.CSources, p)
	case CategoryCpp:
		r.CppSources = append(r.CppSources, p)
	case CategoryHeader:
		r.Headers = append(r.Headers, p)
		if filepath.Base(p) == ConfigHeaderName {
			r.HasConfig = true
			if r.ConfigHeader == "" {
				r.ConfigHeader = p
			}
		}
	case CategoryObject:
		r.Objects = append(r.Objects, p)
	case CategoryLibrary:
		r.Libraries = append(r.Libraries, p)
		r.addLibDir(filepath.Dir(p))
	case CategoryLinkerScript:
		if r.LinkerScript == "" {
			r.LinkerScript = p
		}
	case CategoryHex:
		r.HexFiles = append(r.HexFiles, p)
	case CategoryBin:
		r.BinFiles = append(r.BinFiles, p)
	case CategoryNone:
	}
	return true
}

// AddIncludeDir appends dir unless it is already present.
func (r *ResourceSet) AddIncludeDir(dir string) bool {
	r.init()
	key := identity(dir)
	if _, seen := r.dirs[key]; seen {
		return false
	}
	r.dirs[key] = struct{}{}
	r.IncludeDirs = append(r.IncludeDirs, key.String())
	return true
}

// AddIgnoreFile records an ignore file consulted by the scan.
func (r *ResourceSet) AddIgnoreFile(path string) {
	p := identity(path).String()
	for _, f := range r.IgnoreFiles {
		if f == p {
			return
		}
	}
	r.IgnoreFiles = append(r.IgnoreFiles, p)
}

func (r *ResourceSet) addLibDir(dir string) {
	key := identity(dir)
	if _, seen := r.libDirs[key]; seen {
		return
	}
	r.libDirs[key] = struct{}{}
	r.LibDirs = append(r.LibDirs, key.String())
}

// Add merges other into r and returns r. List fields are concatenated without
// duplicates and the receiver's linker script is kept unless it has none.
func (r *ResourceSet) Add(other *ResourceSet) *ResourceSet {
	if other == nil {
		return r
	}
	r.init()
	for _, d := range other.IncludeDirs {
		r.AddIncludeDir(d)
	}

	receiverScript := r.LinkerScript
	lists := []struct {
		paths []string
		cat   Category
	}{
		{other.AsmSources, CategoryAsm},
		{other.CSources, CategoryC},
		{other.CppSources, CategoryCpp},
		{other.Headers, CategoryHeader},
		{other.Objects, CategoryObject},
		{other.Libraries, CategoryLibrary},
		{other.HexFiles, CategoryHex},
		{other.BinFiles, CategoryBin},
	}
	for _, l := range lists {
		for _, p := range l.paths {
			r.AddFile(p, l.cat)
		}
	}
	for _, d := range other.LibDirs {
		r.addLibDir(d)
	}
	for _, f := range other.IgnoreFiles {
		r.AddIgnoreFile(f)
	}

	if receiverScript == "" && other.LinkerScript != "" {
		r.LinkerScript = other.LinkerScript
		r.files[identity(other.LinkerScript)] = CategoryLinkerScript
	}
	if other.HasConfig {
		r.HasConfig = true
		if r.ConfigHeader == "" {
			r.ConfigHeader = other.ConfigHeader
		}
	}
	return r
}

// Sources returns every translation unit: assembly, then C, then C++.
func (r *ResourceSet) Sources() []string {
	out := make([]string, 0, len(r.AsmSources)+len(r.CSources)+len(r.CppSources))
	out = append(out, r.AsmSources...)
	out = append(out, r.CSources...)
	return append(out, r.CppSources...)
}

// ResourceSummary is the report-facing view of a ResourceSet.
type ResourceSummary struct {
	IncludeDirs  []string       `json:"include_dirs"`
	Counts       map[string]int `json:"counts"`
	LinkerScript string         `json:"linker_script,omitempty"`
	HasConfig    bool           `json:"has_config"`
}

// Summary returns per-category counts and the resolved include dirs.
func (r *ResourceSet) Summary() ResourceSummary {
	counts := map[string]int{
		CategoryAsm.String():     len(r.AsmSources),
		CategoryC.String():       len(r.CSources),
		CategoryCpp.String():     len(r.CppSources),
		CategoryHeader.String():  len(r.Headers),
		CategoryObject.String():  len(r.Objects),
		CategoryLibrary.String(): len(r.Libraries),
		CategoryHex.String():     len(r.HexFiles),
		CategoryBin.String():     len(r.BinFiles),
	}
	return ResourceSummary{
		IncludeDirs:  append([]string(nil), r.IncludeDirs...),
		Counts:       counts,
		LinkerScript: r.LinkerScript,
		HasConfig:    r.HasConfig,
	}
}
