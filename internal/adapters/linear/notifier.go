// Package linear renders the build event stream as chronological, line-oriented text.
package linear

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/ui/output"
	"go.trai.ch/mbuild/internal/ui/style"
)

// Notifier implements ports.Notifier for terminals and CI logs alike.
// Events are written to a single stream as they arrive.
type Notifier struct {
	mu      sync.Mutex
	w       io.Writer
	output  *termenv.Output
	verbose bool
}

// NewNotifier creates a Notifier writing to w. A nil writer selects os.Stderr.
func NewNotifier(w io.Writer) *Notifier {
	return NewNotifierWithProfile(w, output.ColorProfileANSI())
}

// NewNotifierWithProfile creates a Notifier with a fixed color profile.
func NewNotifierWithProfile(w io.Writer, profile termenv.Profile) *Notifier {
	if w == nil {
		w = os.Stderr
	}
	return &Notifier{
		w:      w,
		output: termenv.NewOutput(w, termenv.WithProfile(profile)),
	}
}

// SetProfile changes the color profile, e.g. after output-mode detection.
func (n *Notifier) SetProfile(profile termenv.Profile) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.output = termenv.NewOutput(n.w, termenv.WithProfile(profile))
}

// SetVerbose enables rendering of debug events.
func (n *Notifier) SetVerbose(enable bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verbose = enable
}

// Notify renders one event.
func (n *Notifier) Notify(ev domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch ev.Type {
	case domain.EventInfo:
		n.printLocked(ev.Message)
	case domain.EventDebug:
		if n.verbose {
			n.printLocked(n.output.String(ev.Message).Faint().String())
		}
	case domain.EventCompileProgress:
		n.printLocked(n.progressLocked(ev))
	case domain.EventCompilerDiagnostic:
		if ev.Diagnostic != nil {
			n.printLocked(n.diagnosticLocked(*ev.Diagnostic))
		}
	case domain.EventToolError:
		n.toolErrorLocked(ev)
	default:
		if ev.Message != "" {
			n.printLocked(ev.Message)
		}
	}
}

func (n *Notifier) progressLocked(ev domain.Event) string {
	action := n.output.String(ev.Action).Bold().String()
	if ev.Total <= 0 {
		return fmt.Sprintf("%s: %s", action, ev.File)
	}
	pct := n.output.String(fmt.Sprintf("[%5.1f%%]", ev.Percent())).Faint().String()
	return fmt.Sprintf("%s %s: %s", action, pct, ev.File)
}

func (n *Notifier) diagnosticLocked(d domain.Diagnostic) string {
	label := "[" + severityLabel(d.Severity) + "]"
	styled := n.output.String(label)
	switch d.Severity {
	case domain.SeverityError:
		styled = styled.Foreground(termenv.ANSIRed)
	case domain.SeverityWarning:
		styled = styled.Foreground(termenv.ANSIYellow)
	default:
		styled = styled.Faint()
	}

	loc := d.File
	if d.Line > 0 {
		loc = fmt.Sprintf("%s@%d", loc, d.Line)
		if d.Column > 0 {
			loc = fmt.Sprintf("%s,%d", loc, d.Column)
		}
	}
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, d.Code)
	}
	return fmt.Sprintf("%s %s: %s", styled.String(), loc, msg)
}

func (n *Notifier) toolErrorLocked(ev domain.Event) {
	mark := n.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
	tool := ev.Tool
	if tool == "" {
		tool = "tool"
	}
	n.printLocked(fmt.Sprintf("%s %s exited with code %d", mark, tool, ev.ExitCode))
	for line := range strings.Lines(strings.TrimRight(ev.Stderr, "\n")) {
		n.printLocked("    " + strings.TrimRight(line, "\r\n"))
	}
}

func (n *Notifier) printLocked(line string) {
	_, _ = fmt.Fprintln(n.w, line)
}

func severityLabel(s domain.Severity) string {
	switch s {
	case domain.SeverityError:
		return "Error"
	case domain.SeverityWarning:
		return "Warning"
	default:
		return "Note"
	}
}
