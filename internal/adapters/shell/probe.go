package shell

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"go.trai.ch/mbuild/internal/core/ports"
)

var _ ports.ToolProbe = (*Probe)(nil)

// Probe implements ports.ToolProbe by searching extra directories, then PATH.
type Probe struct {
	getenv func(string) string
}

// NewProbe creates a Probe reading PATH from the process environment.
func NewProbe() *Probe {
	return &Probe{getenv: os.Getenv}
}

// SearchPath returns extra followed by the PATH entries, without empty entries.
func (p *Probe) SearchPath(extra []string) []string {
	dirs := make([]string, 0, len(extra))
	for _, d := range extra {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	for _, d := range filepath.SplitList(p.getenv("PATH")) {
		if d == "" {
			// Unix shell semantics: an empty PATH element means ".".
			d = "."
		}
		dirs = append(dirs, d)
	}
	return dirs
}

// LookPath returns the first executable called name in the search path.
func (p *Probe) LookPath(name string, extra []string) (string, error) {
	if filepath.IsAbs(name) {
		if err := findExecutable(name); err != nil {
			return "", err
		}
		return name, nil
	}

	joined := ""
	for i, d := range p.SearchPath(extra) {
		if i > 0 {
			joined += string(os.PathListSeparator)
		}
		joined += d
	}
	return lookPath(name, joined)
}

// lookPath searches the directories of a PATH-style list for an executable.
func lookPath(file, path string) (string, error) {
	if path == "" {
		return "", exec.ErrNotFound
	}

	candidates := []string{file}
	if runtime.GOOS == "windows" && filepath.Ext(file) == "" {
		candidates = append(candidates, file+".exe")
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		for _, c := range candidates {
			full := filepath.Join(dir, c)
			if err := findExecutable(full); err == nil {
				return full, nil
			}
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && (m&0o111 != 0 || runtime.GOOS == "windows") {
		return nil
	}
	return os.ErrPermission
}
