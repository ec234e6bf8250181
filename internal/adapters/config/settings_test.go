package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mbuild/internal/adapters/config"
)

func TestParseSettings_Defaults(t *testing.T) {
	s, err := config.ParseSettings(nil)
	require.NoError(t, err)

	assert.Zero(t, s.Jobs)
	assert.Equal(t, config.DefaultTimeout, s.Timeout)
	assert.Empty(t, s.BuildDir)
	assert.False(t, s.PinLegacy)
	assert.False(t, s.NoStdLibFallback)
	assert.False(t, s.Trace)
	assert.False(t, s.LogJSON)
	assert.Nil(t, s.SearchPaths())
}

func TestParseSettings_FromEnvironment(t *testing.T) {
	s, err := config.ParseSettings([]string{
		"MBUILD_JOBS=3",
		"MBUILD_TIMEOUT=90s",
		"MBUILD_BUILD_DIR=out",
		"MBUILD_TARGETS_FILE=boards/targets.yaml",
		"MBUILD_TOOLCHAINS_FILE=tc.yaml",
		"MBUILD_TOOLCHAIN_PATHS=GCC_ARM=/opt/gcc/bin,ARMC6=/opt/armclang/bin",
		"MBUILD_PIN_LEGACY=true",
		"MBUILD_NO_STDLIB_FALLBACK=1",
		"MBUILD_TRACE=true",
		"MBUILD_LOG_JSON=true",
		"JOBS=99",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Jobs)
	assert.Equal(t, 90*time.Second, s.Timeout)
	assert.Equal(t, "out", s.BuildDir)
	assert.Equal(t, "boards/targets.yaml", s.TargetsFile)
	assert.Equal(t, "tc.yaml", s.ToolchainsFile)
	assert.True(t, s.PinLegacy)
	assert.True(t, s.NoStdLibFallback)
	assert.True(t, s.Trace)
	assert.True(t, s.LogJSON)
	assert.Equal(t, map[string][]string{
		"GCC_ARM": {"/opt/gcc/bin"},
		"ARMC6":   {"/opt/armclang/bin"},
	}, s.SearchPaths())
}

func TestParseSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
	}{
		{name: "jobs not a number", environ: []string{"MBUILD_JOBS=many"}},
		{name: "negative jobs", environ: []string{"MBUILD_JOBS=-2"}},
		{name: "bad duration", environ: []string{"MBUILD_TIMEOUT=soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseSettings(tt.environ)
			require.Error(t, err)
		})
	}
}
