package domain

// Command is one process invocation.
type Command struct {
	Args []string
	Dir  string
	Env  map[string]string
}

// ProcessResult is what the process left behind. A nonzero ExitCode is not an error.
type ProcessResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// CompilationJob compiles one translation unit into one object.
type CompilationJob struct {
	Source     string
	Object     string
	Command    []string
	WorkingDir string
	// DepFile is where the compiler writes Make-style dependencies for Object.
	DepFile string
	// Format selects the stderr parser for this job's compiler.
	Format DiagnosticFormat
}

// Severity of a parsed diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Diagnostic is one structured compiler message.
type Diagnostic struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column,omitempty"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code,omitempty"`
	Message  string   `json:"message"`
}

// CompilationResult is the outcome of one CompilationJob.
type CompilationResult struct {
	Job         CompilationJob
	ReturnCode  int
	Stderr      string
	Diagnostics []Diagnostic
	// Err is set when the job could not be run at all (infrastructure failure).
	Err error
}

// Failed reports whether the job produced no usable object.
func (r CompilationResult) Failed() bool {
	return r.ReturnCode != 0 || r.Err != nil
}
