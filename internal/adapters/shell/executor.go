// Package shell runs toolchain executables and locates them on disk.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// waitDelay bounds how long Run waits for output pipes after the process was killed.
const waitDelay = 2 * time.Second

// Executor implements ports.Executor using os/exec. Stdout and stderr are
// captured separately so compiler diagnostics can be parsed from stderr alone.
type Executor struct {
	logger  ports.Logger
	environ func() []string
}

// NewExecutor creates a new Executor. Tool stdout is forwarded line by line to logger.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger:  logger,
		environ: os.Environ,
	}
}

// Run starts cmd and waits for it to exit.
func (e *Executor) Run(ctx context.Context, cmd domain.Command) (domain.ProcessResult, error) {
	if len(cmd.Args) == 0 {
		return domain.ProcessResult{}, zerr.New("empty command")
	}

	name := cmd.Args[0]
	env := resolveEnvironment(e.environ(), cmd.Env)

	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, pathFromEnv(env)); err == nil {
			executable = lp
		}
	}

	var stdout, stderr bytes.Buffer
	stdoutLog := &logWriter{logger: e.logger}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // toolchain command from catalog
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = env
	c.Stdout = io.MultiWriter(&stdout, stdoutLog)
	c.Stderr = &stderr
	c.WaitDelay = waitDelay

	runErr := c.Run()
	_ = stdoutLog.Close()

	result := domain.ProcessResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if runErr == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, zerr.With(zerr.Wrap(ctxErr, "command interrupted"), "command", name)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	result.ExitCode = -1
	return result, zerr.With(zerr.Wrap(runErr, "failed to start command"), "command", name)
}

// logWriter forwards complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	if w.logger == nil {
		return
	}
	msg := strings.TrimSuffix(string(line), "\r")
	if msg != "" {
		w.logger.Info(msg)
	}
}

// allowListedEnvVars are the host variables a toolchain process inherits.
// Compilers need little beyond PATH and their license servers.
var allowListedEnvVars = map[string]struct{}{
	"HOME":                {},
	"TERM":                {},
	"USER":                {},
	"PATH":                {},
	"TMPDIR":              {},
	"TMP":                 {},
	"TEMP":                {},
	"LANG":                {},
	"SYSTEMROOT":          {},
	"ARMLMD_LICENSE_FILE": {},
	"ARM_PRODUCT_PATH":    {},
	"LM_LICENSE_FILE":     {},
}

// resolveEnvironment keeps allow-listed host variables and applies overrides on top.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[strings.ToUpper(k)]; allowed {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

func pathFromEnv(env []string) string {
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			return v
		}
	}
	return ""
}
