package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mbuild/internal/core/domain"
)

func TestCommandTemplate_Expand(t *testing.T) {
	tmpl := domain.CommandTemplate{"arm-none-eabi-gcc", "-c", "{flags}", "-D{macros}", "-I{include_dirs}", "-o", "{object}", "{source}"}

	args, err := tmpl.Expand(domain.TemplateVars{
		"flags":        {"-Os", "-g"},
		"macros":       {"TARGET_K64F", "NDEBUG"},
		"include_dirs": {},
		"object":       domain.Scalar("main.o"),
		"source":       domain.Scalar("main.c"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"arm-none-eabi-gcc", "-c", "-Os", "-g", "-DTARGET_K64F", "-DNDEBUG", "-o", "main.o", "main.c",
	}, args)
}

func TestCommandTemplate_Expand_MultiplePlaceholders(t *testing.T) {
	tmpl := domain.CommandTemplate{"tool", "-Wl,-Map={elf}.map,--cref={object}"}

	args, err := tmpl.Expand(domain.TemplateVars{"elf": {"app"}, "object": {"x"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"tool", "-Wl,-Map=app.map,--cref=x"}, args)

	_, err = tmpl.Expand(domain.TemplateVars{"elf": {"a", "b"}, "object": {"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid command template variable")
}

func TestCommandTemplate_Expand_UnknownVariable(t *testing.T) {
	_, err := domain.CommandTemplate{"cc", "{missing}"}.Expand(domain.TemplateVars{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid command template variable")
}

func TestCommandTemplate_Expand_EmptyCommand(t *testing.T) {
	_, err := domain.CommandTemplate{"{nothing}"}.Expand(domain.TemplateVars{"nothing": nil})
	require.Error(t, err)
}

func TestResolvedToolchain_Command(t *testing.T) {
	tc := &domain.ResolvedToolchain{
		Definition: domain.ToolchainDefinition{
			Name:      "GCC_ARM",
			CLibFlags: map[string][]string{domain.CLibSmall: {"--specs=nano.specs"}},
			Templates: map[domain.Step]domain.CommandTemplate{
				domain.StepCompileC: {"arm-none-eabi-gcc", "{clib_flags}", "{source}"},
			},
		},
		BinDir: "/opt/gcc/bin",
		CLib:   domain.CLibSmall,
	}

	args, err := tc.Command(domain.StepCompileC, domain.TemplateVars{"source": {"a.c"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/gcc/bin/arm-none-eabi-gcc", "--specs=nano.specs", "a.c"}, args)

	_, err = tc.Command(domain.StepLink, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing command template")
}

func TestToolchainCatalog_Expand(t *testing.T) {
	catalog := &domain.ToolchainCatalog{
		Families: map[string][]string{"ARM": {"ARMC6", "ARMC5"}},
		Toolchains: map[string]domain.ToolchainDefinition{
			"ARMC6":   {Name: "ARMC6"},
			"ARMC5":   {Name: "ARMC5"},
			"GCC_ARM": {Name: "GCC_ARM"},
		},
	}

	members, err := catalog.Expand("ARM")
	require.NoError(t, err)
	assert.Equal(t, []string{"ARMC6", "ARMC5"}, members)

	members, err = catalog.Expand("GCC_ARM")
	require.NoError(t, err)
	assert.Equal(t, []string{"GCC_ARM"}, members)

	_, err = catalog.Expand("TASKING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown toolchain")

	assert.Contains(t, catalog.Families, "ARM")
	assert.Equal(t, []string{"ARMC5", "ARMC6", "GCC_ARM"}, catalog.Names())
}
