package shell_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mbuild/internal/adapters/shell"
)

func writeTool(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), mode))
	return path
}

func TestProbe_LookPath_ExtraDirsFirst(t *testing.T) {
	extra := t.TempDir()
	onPath := t.TempDir()
	want := writeTool(t, extra, "arm-none-eabi-gcc", 0o755)
	writeTool(t, onPath, "arm-none-eabi-gcc", 0o755)
	t.Setenv("PATH", onPath)

	got, err := shell.NewProbe().LookPath("arm-none-eabi-gcc", []string{extra})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProbe_LookPath_FallsBackToPath(t *testing.T) {
	onPath := t.TempDir()
	want := writeTool(t, onPath, "iccarm", 0o755)
	t.Setenv("PATH", onPath)

	got, err := shell.NewProbe().LookPath("iccarm", []string{t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProbe_LookPath_SkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "armclang", 0o644)
	t.Setenv("PATH", "")

	_, err := shell.NewProbe().LookPath("armclang", []string{dir})
	require.Error(t, err)
}

func TestProbe_LookPath_Absolute(t *testing.T) {
	dir := t.TempDir()
	tool := writeTool(t, dir, "armcc", 0o755)

	got, err := shell.NewProbe().LookPath(tool, nil)
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = shell.NewProbe().LookPath(filepath.Join(dir, "missing"), nil)
	require.Error(t, err)
}

func TestProbe_SearchPath(t *testing.T) {
	t.Setenv("PATH", "/usr/bin"+string(os.PathListSeparator)+"/bin")

	got := shell.NewProbe().SearchPath([]string{"/opt/gcc/bin", ""})
	assert.Equal(t, []string{"/opt/gcc/bin", "/usr/bin", "/bin"}, got)
}
