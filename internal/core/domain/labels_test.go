package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mbuild/internal/core/domain"
)

func TestParseConditionalDir(t *testing.T) {
	tests := []struct {
		name      string
		dir       string
		wantKind  domain.LabelKind
		wantValue string
		wantOK    bool
	}{
		{name: "target", dir: "TARGET_K64F", wantKind: domain.LabelTarget, wantValue: "K64F", wantOK: true},
		{name: "toolchain", dir: "TOOLCHAIN_GCC_ARM", wantKind: domain.LabelToolchain, wantValue: "GCC_ARM", wantOK: true},
		{name: "feature", dir: "FEATURE_BLE", wantKind: domain.LabelFeature, wantValue: "BLE", wantOK: true},
		{name: "component", dir: "COMPONENT_SD", wantKind: domain.LabelComponent, wantValue: "SD", wantOK: true},
		{name: "plain", dir: "drivers", wantOK: false},
		{name: "prefix only", dir: "TARGET_", wantOK: false},
		{name: "lowercase prefix", dir: "target_K64F", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, value, ok := domain.ParseConditionalDir(tt.dir)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestLabelSet_Admits(t *testing.T) {
	ls := domain.NewLabelSet(map[domain.LabelKind][]string{
		domain.LabelTarget:  {"A", "CORTEX_M"},
		domain.LabelFeature: {"BLE"},
	}).With(domain.LabelToolchain, "GCC_ARM")

	assert.True(t, ls.Admits("src"))
	assert.True(t, ls.Admits("TARGET_A"))
	assert.False(t, ls.Admits("TARGET_B"))
	assert.True(t, ls.Admits("TARGET_CORTEX_M"))
	assert.True(t, ls.Admits("TOOLCHAIN_GCC_ARM"))
	assert.False(t, ls.Admits("TOOLCHAIN_IAR"))
	assert.True(t, ls.Admits("FEATURE_BLE"))
	assert.False(t, ls.Admits("COMPONENT_SD"))
}

func TestLabelSet_WithDoesNotMutateReceiver(t *testing.T) {
	base := domain.NewLabelSet(map[domain.LabelKind][]string{domain.LabelTarget: {"A"}})
	extended := base.With(domain.LabelTarget, "B")

	assert.False(t, base.Has(domain.LabelTarget, "B"))
	assert.True(t, extended.Has(domain.LabelTarget, "B"))
	assert.Equal(t, []string{"A", "B"}, extended.Values(domain.LabelTarget))
}

func TestLabelSet_ZeroValueAdmitsOnlyPlainDirs(t *testing.T) {
	var ls domain.LabelSet
	assert.True(t, ls.Admits("src"))
	assert.False(t, ls.Admits("TARGET_A"))
	assert.Empty(t, ls.Values(domain.LabelTarget))
}
