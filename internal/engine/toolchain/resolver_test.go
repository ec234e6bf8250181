package toolchain_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports/mocks"
	"go.trai.ch/mbuild/internal/engine/toolchain"
	"go.uber.org/mock/gomock"
)

func testCatalog() *domain.ToolchainCatalog {
	return &domain.ToolchainCatalog{
		Families: map[string][]string{
			"ARM": {"ARMC6", "ARMC5"},
			"GCC": {"GCC_ARM"},
		},
		Toolchains: map[string]domain.ToolchainDefinition{
			"ARMC6":   {Name: "ARMC6", Family: "ARM", Generation: 6, Compiler: "armclang", CLibs: []string{"std", "small"}},
			"ARMC5":   {Name: "ARMC5", Family: "ARM", Generation: 5, Compiler: "armcc", Deprecated: true},
			"GCC_ARM": {Name: "GCC_ARM", Family: "GCC", Generation: 1, Compiler: "arm-none-eabi-gcc", CLibs: []string{"std", "small"}},
			"IAR":     {Name: "IAR", Generation: 8, Compiler: "iccarm", CLibs: []string{"std"}},
			"LEGACY":  {Name: "LEGACY", Generation: 1, Compiler: "legacycc"},
		},
	}
}

// installedProbe returns a probe that finds exactly the given compilers under /opt/<name>/bin.
func installedProbe(t *testing.T, compilers ...string) *mocks.MockToolProbe {
	t.Helper()
	ctrl := gomock.NewController(t)
	probe := mocks.NewMockToolProbe(ctrl)

	installed := make(map[string]bool, len(compilers))
	for _, c := range compilers {
		installed[c] = true
	}
	probe.EXPECT().LookPath(gomock.Any(), gomock.Any()).DoAndReturn(
		func(name string, _ []string) (string, error) {
			if installed[name] {
				return "/opt/" + name + "/bin/" + name, nil
			}
			return "", exec.ErrNotFound
		},
	).AnyTimes()
	probe.EXPECT().SearchPath(gomock.Any()).DoAndReturn(
		func(extra []string) []string {
			return append(append([]string(nil), extra...), "/usr/bin")
		},
	).AnyTimes()
	return probe
}

func target(supported ...string) *domain.TargetDescriptor {
	return &domain.TargetDescriptor{Name: "K64F", Core: "Cortex-M4F", SupportedToolchains: supported}
}

func TestResolve_Concrete(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t, "arm-none-eabi-gcc"), toolchain.DefaultPolicy())

	tc, warnings, err := r.Resolve(context.Background(), target("GCC_ARM"), "GCC_ARM")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "GCC_ARM", tc.Name())
	assert.Equal(t, "/opt/arm-none-eabi-gcc/bin", tc.BinDir)
	assert.Equal(t, domain.CLibStd, tc.CLib)
}

func TestResolve_FamilyReachesDeprecatedMember(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t, "armcc", "arm-none-eabi-gcc"), toolchain.DefaultPolicy())

	_, warnings, err := r.Resolve(context.Background(), target("ARMC6", "ARMC5"), "ARM")

	// ARMC6 is missing, so the next member is ARMC5, which is deprecated.
	var unsupported *domain.UnsupportedToolchainError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "ARMC5", unsupported.Toolchain)
	assert.Equal(t, []string{"toolchain ARMC6 skipped: armclang not found"}, warnings)
	assert.Equal(t, warnings, unsupported.Warnings)
}

func TestResolve_FamilyFirstHitWins(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t, "armclang", "armcc"), toolchain.DefaultPolicy())

	tc, warnings, err := r.Resolve(context.Background(), target("ARMC6", "ARMC5"), "ARM")

	require.NoError(t, err)
	assert.Equal(t, "ARMC6", tc.Name())
	assert.Equal(t, "ARM", tc.Requested)
	assert.Empty(t, warnings)
}

func TestResolve_DeprecatedOnlyMemberIsRejected(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t, "armcc"), toolchain.DefaultPolicy())

	_, _, err := r.Resolve(context.Background(), target("ARMC5"), "ARM")

	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrUnsupportedToolchainForTarget)
	var unsupported *domain.UnsupportedToolchainError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "K64F", unsupported.Target)
	assert.Equal(t, "ARMC5", unsupported.Toolchain)
}

func TestResolve_NotSupportedByTarget(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t, "iccarm"), toolchain.DefaultPolicy())

	_, _, err := r.Resolve(context.Background(), target("GCC_ARM"), "IAR")

	require.ErrorIs(t, err, domain.ErrUnsupportedToolchainForTarget)
	assert.Contains(t, err.Error(), "target supports GCC_ARM")
}

func TestResolve_UnknownToolchain(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t), toolchain.DefaultPolicy())

	_, _, err := r.Resolve(context.Background(), target("GCC_ARM"), "TCC")

	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUnknownToolchain.Error())
}

func TestResolve_Unavailable(t *testing.T) {
	policy := toolchain.DefaultPolicy()
	policy.SearchPaths = map[string][]string{"GCC_ARM": {"/opt/gcc/bin"}}
	r := toolchain.NewResolver(testCatalog(), installedProbe(t), policy)

	_, warnings, err := r.Resolve(context.Background(), target("GCC_ARM"), "GCC")

	require.ErrorIs(t, err, domain.ErrToolchainUnavailable)
	var unavailable *domain.ToolchainUnavailableError
	require.ErrorAs(t, err, &unavailable)
	last := unavailable.LastCandidate()
	assert.Equal(t, "GCC_ARM", last.Name)
	assert.Equal(t, "arm-none-eabi-gcc", last.Compiler)
	assert.Equal(t, []string{"/opt/gcc/bin", "/usr/bin"}, last.SearchPath)
	assert.Equal(t, warnings, unavailable.Warnings)
}

func TestResolve_SmallCLibSubstitution(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t, "iccarm"), toolchain.DefaultPolicy())
	tgt := target("IAR")
	tgt.CLib = domain.CLibSmall

	tc, warnings, err := r.Resolve(context.Background(), tgt, "IAR")

	require.NoError(t, err)
	assert.Equal(t, domain.CLibStd, tc.CLib)
	require.Len(t, warnings, 1)
	assert.Equal(t, "small C library is not supported by IAR for target K64F; using std", warnings[0])
	assert.Equal(t, warnings, tc.Warnings)
}

func TestResolve_TargetRestrictsCLib(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t, "arm-none-eabi-gcc"), toolchain.DefaultPolicy())
	tgt := target("GCC_ARM")
	tgt.CLib = domain.CLibSmall
	tgt.CLibSupport = map[string][]string{"GCC_ARM": {"std"}}

	tc, warnings, err := r.Resolve(context.Background(), tgt, "GCC_ARM")

	require.NoError(t, err)
	assert.Equal(t, domain.CLibStd, tc.CLib)
	assert.Len(t, warnings, 1)
}

func TestResolve_SmallCLibSupported(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t, "arm-none-eabi-gcc"), toolchain.DefaultPolicy())
	tgt := target("GCC_ARM")
	tgt.CLib = domain.CLibSmall

	tc, warnings, err := r.Resolve(context.Background(), tgt, "GCC_ARM")

	require.NoError(t, err)
	assert.Equal(t, domain.CLibSmall, tc.CLib)
	assert.Empty(t, warnings)
}

func TestResolve_NoStdLibFallback(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t, "iccarm"), toolchain.Policy{})
	tgt := target("IAR")
	tgt.CLib = domain.CLibSmall

	_, _, err := r.Resolve(context.Background(), tgt, "IAR")

	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUnsupportedCLib.Error())
}

func TestResolve_PinLegacy(t *testing.T) {
	catalog := testCatalog()
	catalog.Families["MIXED"] = []string{"IAR", "LEGACY"}
	tgt := target("IAR", "LEGACY")

	preferNew := toolchain.NewResolver(catalog, installedProbe(t, "iccarm", "legacycc"), toolchain.DefaultPolicy())
	tc, _, err := preferNew.Resolve(context.Background(), tgt, "MIXED")
	require.NoError(t, err)
	assert.Equal(t, "IAR", tc.Name())

	policy := toolchain.DefaultPolicy()
	policy.PinLegacy = true
	pinned := toolchain.NewResolver(catalog, installedProbe(t, "iccarm", "legacycc"), policy)
	tc, _, err = pinned.Resolve(context.Background(), tgt, "MIXED")
	require.NoError(t, err)
	assert.Equal(t, "LEGACY", tc.Name())
}

func TestResolve_Deterministic(t *testing.T) {
	catalog := testCatalog()
	catalog.Families["ANY"] = []string{"ARMC6", "IAR", "GCC_ARM"}
	r := toolchain.NewResolver(catalog, installedProbe(t, "arm-none-eabi-gcc"), toolchain.DefaultPolicy())
	tgt := target("ARMC6", "IAR", "GCC_ARM")

	first, firstWarnings, err := r.Resolve(context.Background(), tgt, "ANY")
	require.NoError(t, err)

	for range 5 {
		tc, warnings, err := r.Resolve(context.Background(), tgt, "ANY")
		require.NoError(t, err)
		assert.Equal(t, first.Name(), tc.Name())
		assert.Equal(t, firstWarnings, warnings)
	}
	assert.Equal(t, "GCC_ARM", first.Name())
	assert.Equal(t, []string{
		"toolchain ARMC6 skipped: armclang not found",
		"toolchain IAR skipped: iccarm not found",
	}, firstWarnings)
}

func TestResolve_Cancelled(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t), toolchain.DefaultPolicy())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := r.Resolve(ctx, target("GCC_ARM"), "GCC_ARM")
	require.ErrorIs(t, err, context.Canceled)
}

func TestAvailable(t *testing.T) {
	r := toolchain.NewResolver(testCatalog(), installedProbe(t, "iccarm"), toolchain.DefaultPolicy())

	got := r.Available()

	require.Len(t, got, 5)
	assert.Equal(t, "ARMC5", got[0].Name)
	assert.True(t, got[0].Deprecated)
	for _, a := range got {
		if a.Name == "IAR" {
			assert.Equal(t, "/opt/iccarm/bin/iccarm", a.Path)
		} else {
			assert.Empty(t, a.Path, a.Name)
		}
	}
}
