//go:build e2e

package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var mbuildBinary string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "mbuild-e2e-*")
	if err != nil {
		panic(err)
	}

	mbuildBinary = filepath.Join(tmpDir, "mbuild")

	//nolint:gosec // Building binary with static arguments, not user input
	cmd := exec.Command("go", "build", "-o", mbuildBinary, "./cmd/mbuild")
	cmd.Dir = ".."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		panic("failed to build mbuild binary: " + err.Error())
	}

	exitCode := m.Run()

	_ = os.RemoveAll(tmpDir)

	os.Exit(exitCode)
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata",
		Setup: setupE2E,
	})
}

func setupE2E(env *testscript.Env) error {
	env.Setenv("NO_COLOR", "1")
	env.Setenv("CI", "true")

	// Fake toolchains live in $WORK/bin and shadow anything installed on the host.
	binDir := filepath.Dir(mbuildBinary)
	currentPath := env.Getenv("PATH")
	toolDir := filepath.Join(env.WorkDir, "bin")
	env.Setenv("PATH", toolDir+string(os.PathListSeparator)+binDir+string(os.PathListSeparator)+currentPath)

	homeDir := filepath.Join(env.WorkDir, ".home")
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	return nil
}
