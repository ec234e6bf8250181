package config

import (
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/zerr"
)

// EnvPrefix is prepended to every environment variable read into Settings.
const EnvPrefix = "MBUILD_"

// DefaultTimeout bounds one compilation batch when MBUILD_TIMEOUT is unset.
const DefaultTimeout = 30 * time.Minute

// Settings holds the build parameters taken from the environment. CLI flags
// are layered on top by the commands package.
type Settings struct {
	// Jobs is the worker count. Zero selects the host core count.
	Jobs    int           `env:"JOBS"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30m"`

	BuildDir       string `env:"BUILD_DIR"`
	TargetsFile    string `env:"TARGETS_FILE"`
	ToolchainsFile string `env:"TOOLCHAINS_FILE"`

	// ToolchainPaths maps a concrete toolchain to directories probed before
	// PATH, e.g. "GCC_ARM=/opt/gcc/bin,ARMC6=/opt/armclang/bin". Several
	// directories for one toolchain are joined with the OS list separator.
	ToolchainPaths map[string]string `env:"TOOLCHAIN_PATHS" envKeyValSeparator:"="`

	PinLegacy        bool `env:"PIN_LEGACY"`
	NoStdLibFallback bool `env:"NO_STDLIB_FALLBACK"`
	Trace            bool `env:"TRACE"`
	// LogJSON starts the logger in JSON mode, as --json-logs does.
	LogJSON bool `env:"LOG_JSON"`
}

// ParseSettings reads Settings from environ, a list of KEY=value pairs as
// returned by os.Environ.
func ParseSettings(environ []string) (*Settings, error) {
	var s Settings

	err := env.ParseWithOptions(&s, env.Options{
		Environment: env.ToMap(environ),
		Prefix:      EnvPrefix,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to parse environment settings")
	}
	if s.Jobs < 0 {
		return nil, zerr.With(zerr.New("worker count must not be negative"), "jobs", s.Jobs)
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}

	return &s, nil
}

// SearchPaths splits ToolchainPaths into per-toolchain directory lists.
func (s *Settings) SearchPaths() map[string][]string {
	if len(s.ToolchainPaths) == 0 {
		return nil
	}
	out := make(map[string][]string, len(s.ToolchainPaths))
	for name, dirs := range s.ToolchainPaths {
		for _, d := range filepath.SplitList(dirs) {
			if d != "" {
				out[name] = append(out[name], d)
			}
		}
	}
	return out
}
