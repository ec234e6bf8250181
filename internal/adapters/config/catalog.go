package config

import (
	_ "embed"
	"slices"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

//go:embed toolchains.yaml
var builtinCatalog []byte

// DefaultCatalog returns the embedded toolchain catalog.
func DefaultCatalog() (*domain.ToolchainCatalog, error) {
	return ParseCatalog("toolchains.yaml", builtinCatalog)
}

// LoadCatalog reads a catalog from path. An empty path selects the embedded catalog.
func LoadCatalog(path string) (*domain.ToolchainCatalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	var file CatalogFile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, err
	}
	return toCatalog(path, &file)
}

// ParseCatalog parses catalog YAML. name is only used in error metadata.
func ParseCatalog(name string, data []byte) (*domain.ToolchainCatalog, error) {
	var file CatalogFile
	if err := unmarshalYAML(name, data, &file); err != nil {
		return nil, err
	}
	return toCatalog(name, &file)
}

var knownSteps = []domain.Step{
	domain.StepAssemble,
	domain.StepCompileC,
	domain.StepCompileCPP,
	domain.StepArchive,
	domain.StepLink,
	domain.StepObjcopy,
}

var knownFormats = []domain.DiagnosticFormat{domain.FormatGCC, domain.FormatARMCC, domain.FormatIAR}

func toCatalog(name string, file *CatalogFile) (*domain.ToolchainCatalog, error) {
	cat := &domain.ToolchainCatalog{
		Families:   make(map[string][]string, len(file.Families)),
		Toolchains: make(map[string]domain.ToolchainDefinition, len(file.Toolchains)),
	}

	for tcName, dto := range file.Toolchains {
		if dto == nil || dto.Compiler == "" {
			return nil, zerr.With(zerr.With(zerr.New("toolchain has no compiler"), "toolchain", tcName), "file", name)
		}
		def, err := toDefinition(tcName, dto)
		if err != nil {
			return nil, zerr.With(err, "file", name)
		}
		cat.Toolchains[tcName] = def
	}

	for family, members := range file.Families {
		if _, clash := cat.Toolchains[family]; clash {
			return nil, zerr.With(zerr.With(zerr.New("family shadows a concrete toolchain"), "family", family), "file", name)
		}
		for _, m := range members {
			if _, ok := cat.Toolchains[m]; !ok {
				return nil, zerr.With(zerr.With(zerr.With(domain.ErrUnknownToolchain,
					"toolchain", m), "family", family), "file", name)
			}
		}
		cat.Families[family] = slices.Clone(members)
	}

	return cat, nil
}

func toDefinition(name string, dto *ToolchainDTO) (domain.ToolchainDefinition, error) {
	format := domain.DiagnosticFormat(dto.DiagnosticFormat)
	if format == "" {
		format = domain.FormatGCC
	}
	if !slices.Contains(knownFormats, format) {
		return domain.ToolchainDefinition{}, zerr.With(zerr.With(zerr.New("unknown diagnostic format"),
			"format", dto.DiagnosticFormat), "toolchain", name)
	}

	templates := make(map[domain.Step]domain.CommandTemplate, len(dto.Templates))
	for step, tmpl := range dto.Templates {
		s := domain.Step(step)
		if !slices.Contains(knownSteps, s) {
			return domain.ToolchainDefinition{}, zerr.With(zerr.With(zerr.New("unknown build step"),
				"step", step), "toolchain", name)
		}
		templates[s] = domain.CommandTemplate(tmpl)
	}

	return domain.ToolchainDefinition{
		Name:             name,
		Family:           dto.Family,
		Generation:       dto.Generation,
		Deprecated:       dto.Deprecated,
		Compiler:         dto.Compiler,
		Labels:           dto.Labels,
		LinkerScriptExts: dto.LinkerScriptExts,
		CLibs:            dto.CLibs,
		CLibFlags:        dto.CLibFlags,
		PreincludeFlag:   dto.PreincludeFlag,
		DiagnosticFormat: format,
		ObjcopyFormats:   dto.ObjcopyFormats,
		Templates:        templates,
	}, nil
}
