// Package diagnostics turns compiler error streams into structured diagnostics.
package diagnostics

import (
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/mbuild/internal/core/domain"
)

type lineParser struct {
	pattern *regexp.Regexp
	// group indexes; 0 means the format has no such field.
	file, line, column, severity, code, message int
}

var parsers = map[domain.DiagnosticFormat]lineParser{
	// main.c:12:5: error: 'x' undeclared
	domain.FormatGCC: {
		pattern: regexp.MustCompile(`^((?:[A-Za-z]:)?[^:\n]+):(\d+):(?:(\d+):)? (warning|error|fatal error|note): (.*)$`),
		file:    1, line: 2, column: 3, severity: 4, message: 5,
	},
	// "main.c", line 12: Error:  #20: identifier "x" is undefined
	domain.FormatARMCC: {
		pattern: regexp.MustCompile(`^"(.+)", line (\d+)(?: \(column (\d+)\))?: ([A-Za-z ]+?):\s+(?:(#\S+):\s+)?(.*)$`),
		file:    1, line: 2, column: 3, severity: 4, code: 5, message: 6,
	},
	// "main.c",12  Error[Pe020]: identifier "x" is undefined
	domain.FormatIAR: {
		pattern: regexp.MustCompile(`^"(.+)",(\d+)\s+(Error|Warning|Remark|Fatal error)\[(\w+)\]:\s*(.*)$`),
		file:    1, line: 2, severity: 3, code: 4, message: 5,
	},
}

// Parse extracts every diagnostic from stderr in completion-independent
// source order. Lines that are not diagnostics (context, carets, notes about
// inclusion) are ignored. An unknown format falls back to GCC syntax.
func Parse(format domain.DiagnosticFormat, stderr string) []domain.Diagnostic {
	p, ok := parsers[format]
	if !ok {
		p = parsers[domain.FormatGCC]
	}

	var out []domain.Diagnostic
	for _, raw := range strings.Split(stderr, "\n") {
		line := strings.TrimRight(raw, "\r")
		m := p.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d := domain.Diagnostic{
			File:     m[p.file],
			Line:     atoi(m[p.line]),
			Severity: severity(m[p.severity]),
			Message:  strings.TrimSpace(m[p.message]),
		}
		if p.column > 0 {
			d.Column = atoi(m[p.column])
		}
		if p.code > 0 {
			d.Code = m[p.code]
		}
		out = append(out, d)
	}
	return out
}

func severity(s string) domain.Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "fatal error", "internal fault", "internal error":
		return domain.SeverityError
	case "warning":
		return domain.SeverityWarning
	default:
		return domain.SeverityNote
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
