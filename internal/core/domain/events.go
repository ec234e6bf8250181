package domain

import "time"

// EventType discriminates notification events.
type EventType string

const (
	EventInfo               EventType = "info"
	EventDebug              EventType = "debug"
	EventCompileProgress    EventType = "compile-progress"
	EventCompilerDiagnostic EventType = "compiler-diagnostic"
	EventToolError          EventType = "tool-error"
)

// Event is one structured notification. The core never renders text itself;
// a Notifier decides how each event is shown. Fields not relevant to Type are zero.
type Event struct {
	Type    EventType
	BuildID string
	Time    time.Time
	Message string

	// Action and File describe compile-progress events.
	Action    string
	File      string
	Completed int
	Total     int

	// Diagnostic is set for compiler-diagnostic events.
	Diagnostic *Diagnostic

	// Tool, ExitCode and Stderr describe tool-error events.
	Tool     string
	ExitCode int
	Stderr   string
}

// Percent returns progress as a percentage, or 0 when Total is unknown.
func (e Event) Percent() float64 {
	if e.Total <= 0 {
		return 0
	}
	return float64(e.Completed) * 100 / float64(e.Total)
}

// InfoEvent builds an info event.
func InfoEvent(msg string) Event {
	return Event{Type: EventInfo, Message: msg}
}

// DebugEvent builds a debug event.
func DebugEvent(msg string) Event {
	return Event{Type: EventDebug, Message: msg}
}

// ProgressEvent builds a compile-progress event.
func ProgressEvent(action, file string, completed, total int) Event {
	return Event{Type: EventCompileProgress, Action: action, File: file, Completed: completed, Total: total}
}

// DiagnosticEvent builds a compiler-diagnostic event.
func DiagnosticEvent(d Diagnostic) Event {
	return Event{Type: EventCompilerDiagnostic, File: d.File, Diagnostic: &d}
}

// ToolErrorEvent builds a tool-error event.
func ToolErrorEvent(tool string, exitCode int, stderr string) Event {
	return Event{Type: EventToolError, Tool: tool, ExitCode: exitCode, Stderr: stderr}
}
