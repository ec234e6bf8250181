package diagnostics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/engine/diagnostics"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		format domain.DiagnosticFormat
		stderr string
		want   []domain.Diagnostic
	}{
		{
			name:   "gcc",
			format: domain.FormatGCC,
			stderr: "In file included from src/main.c:1:\n" +
				"src/board.h:4:10: fatal error: missing.h: No such file or directory\n" +
				"    4 | #include \"missing.h\"\n" +
				"      |          ^~~~~~~~~~~\n" +
				"src/main.c:12:5: warning: unused variable 'x' [-Wunused-variable]\n" +
				"src/main.c:20: note: declared here\n",
			want: []domain.Diagnostic{
				{File: "src/board.h", Line: 4, Column: 10, Severity: domain.SeverityError, Message: "missing.h: No such file or directory"},
				{File: "src/main.c", Line: 12, Column: 5, Severity: domain.SeverityWarning, Message: "unused variable 'x' [-Wunused-variable]"},
				{File: "src/main.c", Line: 20, Severity: domain.SeverityNote, Message: "declared here"},
			},
		},
		{
			name:   "gcc windows path",
			format: domain.FormatGCC,
			stderr: "C:\\work\\main.c:3:1: error: expected ';'\r\n",
			want: []domain.Diagnostic{
				{File: "C:\\work\\main.c", Line: 3, Column: 1, Severity: domain.SeverityError, Message: "expected ';'"},
			},
		},
		{
			name:   "armcc",
			format: domain.FormatARMCC,
			stderr: "\"main.c\", line 12: Error:  #20: identifier \"x\" is undefined\n" +
				"\"main.c\", line 30 (column 7): Warning:  #177-D: variable \"y\" was declared but never referenced\n" +
				"main.c: 0 warnings, 1 error\n",
			want: []domain.Diagnostic{
				{File: "main.c", Line: 12, Severity: domain.SeverityError, Code: "#20", Message: "identifier \"x\" is undefined"},
				{File: "main.c", Line: 30, Column: 7, Severity: domain.SeverityWarning, Code: "#177-D", Message: "variable \"y\" was declared but never referenced"},
			},
		},
		{
			name:   "iar",
			format: domain.FormatIAR,
			stderr: "\"C:\\src\\main.c\",12  Error[Pe020]: identifier \"x\" is undefined\n" +
				"\"main.c\",3  Remark[Pa082]: undefined behavior\n" +
				"Errors: 1\n",
			want: []domain.Diagnostic{
				{File: "C:\\src\\main.c", Line: 12, Severity: domain.SeverityError, Code: "Pe020", Message: "identifier \"x\" is undefined"},
				{File: "main.c", Line: 3, Severity: domain.SeverityNote, Code: "Pa082", Message: "undefined behavior"},
			},
		},
		{
			name:   "unknown format uses gcc syntax",
			format: "tasking",
			stderr: "a.c:1:2: error: boom\n",
			want: []domain.Diagnostic{
				{File: "a.c", Line: 1, Column: 2, Severity: domain.SeverityError, Message: "boom"},
			},
		},
		{
			name:   "no diagnostics",
			format: domain.FormatGCC,
			stderr: "collect2: ld returned 1 exit status\n",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diagnostics.Parse(tt.format, tt.stderr))
		})
	}
}
