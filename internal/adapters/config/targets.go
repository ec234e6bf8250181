// Package config loads target descriptors, the toolchain catalog and environment settings.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// TargetRepository implements ports.TargetRepository over a YAML file.
// The file is located and parsed on first use so commands that never touch
// a target work without one.
type TargetRepository struct {
	path string
	cwd  string

	once    sync.Once
	targets map[string]*domain.TargetDescriptor
	err     error
}

// NewTargetRepository creates a repository reading path. An empty path
// searches for targets.yaml from cwd upward.
func NewTargetRepository(path, cwd string) *TargetRepository {
	return &TargetRepository{path: path, cwd: cwd}
}

// Target returns the descriptor for name.
func (r *TargetRepository) Target(name string) (*domain.TargetDescriptor, error) {
	if err := r.load(); err != nil {
		return nil, err
	}
	t, ok := r.targets[name]
	if !ok {
		return nil, zerr.With(zerr.With(domain.ErrTargetNotFound, "target", name), "file", r.path)
	}
	return t, nil
}

// Names returns every known target name, sorted.
func (r *TargetRepository) Names() ([]string, error) {
	if err := r.load(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(r.targets))
	for n := range r.targets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names, nil
}

// Path returns the targets file in use, empty until the first lookup.
func (r *TargetRepository) Path() string {
	return r.path
}

func (r *TargetRepository) load() error {
	r.once.Do(func() {
		if r.path == "" {
			r.path, r.err = FindTargetsFile(r.cwd)
			if r.err != nil {
				return
			}
		}
		r.targets, r.err = LoadTargets(r.path)
	})
	return r.err
}

// FindTargetsFile walks from dir towards the filesystem root and returns the
// first targets.yaml found.
func FindTargetsFile(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve working directory")
	}

	current := abs
	for {
		candidate := filepath.Join(current, domain.TargetsFileName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", zerr.With(domain.ErrTargetsFileNotFound, "cwd", abs)
}

// LoadTargets parses a targets file into validated descriptors.
func LoadTargets(path string) (map[string]*domain.TargetDescriptor, error) {
	var file TargetsFile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, err
	}

	out := make(map[string]*domain.TargetDescriptor, len(file.Targets))
	for name, dto := range file.Targets {
		if dto == nil {
			dto = &TargetDTO{}
		}
		t, err := toTarget(name, dto)
		if err != nil {
			return nil, zerr.With(err, "file", path)
		}
		out[name] = t
	}
	return out, nil
}

func toTarget(name string, dto *TargetDTO) (*domain.TargetDescriptor, error) {
	labels := make(map[domain.LabelKind][]string, len(dto.Labels))
	for key, values := range dto.Labels {
		kind := domain.LabelKind(strings.ToUpper(key))
		if !slices.Contains(domain.LabelKinds, kind) {
			return nil, zerr.With(zerr.With(zerr.With(domain.ErrInvalidTarget,
				"reason", "unknown label kind"), "label_kind", key), "target", name)
		}
		labels[kind] = append(labels[kind], values...)
	}

	hooks := make([]domain.HookSpec, 0, len(dto.PostBinaryHooks))
	for _, h := range dto.PostBinaryHooks {
		hooks = append(hooks, domain.HookSpec{ID: h.ID, Args: h.Args})
	}

	t := &domain.TargetDescriptor{
		Name:                name,
		Core:                dto.Core,
		SupportedToolchains: dto.SupportedToolchains,
		Labels:              labels,
		Macros:              dto.Macros,
		PostBinaryHooks:     hooks,
		OutputExtension:     dto.OutputExtension,
		LegacyNaming:        dto.LegacyNaming,
		CLib:                dto.CLib,
		CLibSupport:         dto.CLibSupport,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](path string, target *T) error {
	// #nosec G304 -- path comes from the user or the upward search
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read configuration file"), "file", path)
	}
	return unmarshalYAML(path, data, target)
}

func unmarshalYAML[T any](name string, data []byte, target *T) error {
	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to parse configuration file"), "file", name)
	}
	return nil
}
