package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mbuild/internal/adapters/config"
	"go.trai.ch/mbuild/internal/core/domain"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := config.DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, []string{"ARMC5", "ARMC6", "GCC_ARM", "IAR"}, cat.Names())
	assert.Contains(t, cat.Families, "ARM")

	members, err := cat.Expand("ARM")
	require.NoError(t, err)
	assert.Equal(t, []string{"ARMC6", "ARMC5"}, members)

	armc5, ok := cat.Lookup("ARMC5")
	require.True(t, ok)
	assert.True(t, armc5.Deprecated)
	assert.Equal(t, domain.FormatARMCC, armc5.DiagnosticFormat)

	gcc, ok := cat.Lookup("GCC_ARM")
	require.True(t, ok)
	assert.Equal(t, "arm-none-eabi-gcc", gcc.Compiler)
	assert.True(t, gcc.SupportsCLib(domain.CLibSmall))
	assert.Equal(t, []string{".ld"}, gcc.LinkerScriptExts)
	assert.Equal(t, "ihex", gcc.ObjcopyFormat("hex"))
}

func TestDefaultCatalog_TemplatesExpand(t *testing.T) {
	cat, err := config.DefaultCatalog()
	require.NoError(t, err)

	compileVars := domain.TemplateVars{
		"source":       domain.Scalar("main.c"),
		"object":       domain.Scalar("main.o"),
		"dep_file":     domain.Scalar("main.d"),
		"include_dirs": {"inc", "drivers"},
		"macros":       {"NRF52"},
		"preinclude":   nil,
		"clib_flags":   nil,
	}
	linkVars := domain.TemplateVars{
		"objects":       {"a.o", "b.o"},
		"libraries":     nil,
		"lib_dirs":      nil,
		"linker_script": domain.Scalar("app.ld"),
		"output":        domain.Scalar("app.elf"),
		"map_file":      domain.Scalar("app.map"),
		"clib_flags":    nil,
	}
	objcopyVars := domain.TemplateVars{
		"input":  domain.Scalar("app.elf"),
		"output": domain.Scalar("app.bin"),
		"format": domain.Scalar("binary"),
	}
	archiveVars := domain.TemplateVars{
		"objects": {"a.o"},
		"output":  domain.Scalar("lib.a"),
	}

	for _, name := range cat.Names() {
		def, _ := cat.Lookup(name)
		for _, step := range []domain.Step{domain.StepAssemble, domain.StepCompileC, domain.StepCompileCPP} {
			tmpl, err := def.Template(step)
			require.NoError(t, err, "%s %s", name, step)
			_, err = tmpl.Expand(compileVars)
			require.NoError(t, err, "%s %s", name, step)
		}

		tmpl, err := def.Template(domain.StepLink)
		require.NoError(t, err, name)
		_, err = tmpl.Expand(linkVars)
		require.NoError(t, err, name)

		tmpl, err = def.Template(domain.StepObjcopy)
		require.NoError(t, err, name)
		_, err = tmpl.Expand(objcopyVars)
		require.NoError(t, err, name)

		tmpl, err = def.Template(domain.StepArchive)
		require.NoError(t, err, name)
		_, err = tmpl.Expand(archiveVars)
		require.NoError(t, err, name)
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "family member unknown",
			content: "families:\n  ARM: [ARMC9]\ntoolchains:\n  GCC_ARM:\n    compiler: gcc\n",
			want:    domain.ErrUnknownToolchain.Error(),
		},
		{
			name:    "missing compiler",
			content: "toolchains:\n  GCC_ARM:\n    family: GCC\n",
			want:    "toolchain has no compiler",
		},
		{
			name:    "unknown step",
			content: "toolchains:\n  GCC_ARM:\n    compiler: gcc\n    templates:\n      flash: [openocd]\n",
			want:    "unknown build step",
		},
		{
			name:    "unknown diagnostic format",
			content: "toolchains:\n  GCC_ARM:\n    compiler: gcc\n    diagnostic_format: msvc\n",
			want:    "unknown diagnostic format",
		},
		{
			name:    "family shadows toolchain",
			content: "families:\n  GCC_ARM: [GCC_ARM]\ntoolchains:\n  GCC_ARM:\n    compiler: gcc\n",
			want:    "family shadows a concrete toolchain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseCatalog("test.yaml", []byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolchains.yaml")
	writeFile(t, path, "toolchains:\n  CLANG:\n    compiler: clang\n    templates:\n      compile_c: [clang, -c, \"{source}\"]\n")

	cat, err := config.LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"CLANG"}, cat.Names())

	def, ok := cat.Lookup("CLANG")
	require.True(t, ok)
	assert.Equal(t, domain.FormatGCC, def.DiagnosticFormat)
}
