package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mbuild/internal/adapters/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_Walk(t *testing.T) {
	// tmp/
	//   .git/config
	//   pruned/file.c
	//   src/main.c
	//   README.md
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config"), "git config")
	writeFile(t, filepath.Join(root, "pruned", "file.c"), "int x;")
	writeFile(t, filepath.Join(root, "src", "main.c"), "int main(void) { return 0; }")
	writeFile(t, filepath.Join(root, "README.md"), "# Readme")

	var entered []string
	enter := func(dir string) bool {
		entered = append(entered, dir)
		return filepath.Base(dir) != "pruned"
	}

	files := slices.Collect(fs.NewWalker().Walk(root, enter))

	assert.Equal(t, []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "src", "main.c"),
	}, files)
	assert.Equal(t, []string{root, filepath.Join(root, "pruned"), filepath.Join(root, "src")}, entered)
}

func TestWalker_Walk_RootPruned(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "")

	files := slices.Collect(fs.NewWalker().Walk(root, func(string) bool { return false }))
	assert.Empty(t, files)
}

func TestWalker_Walk_EarlyStop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "")
	writeFile(t, filepath.Join(root, "b.c"), "")

	var got []string
	for f := range fs.NewWalker().Walk(root, nil) {
		got = append(got, f)
		break
	}
	assert.Len(t, got, 1)
}

func TestHasher_Digest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firmware.bin")
	writeFile(t, path, "firmware")

	h := fs.NewHasher()
	sum, err := h.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64String("firmware"), sum)

	digest, err := h.Digest(path)
	require.NoError(t, err)
	assert.Len(t, digest, 16)

	_, err = h.Digest(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}
