package staleness

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// ReadDepFile parses the Make-style dependency file at path. Relative
// prerequisites are resolved against dir.
func ReadDepFile(path, dir string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path derived from build dir
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open dependency file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only

	deps, err := ParseDepFile(f)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	for i, d := range deps {
		if !filepath.IsAbs(d) && dir != "" {
			deps[i] = filepath.Join(dir, d)
		}
	}
	return deps, nil
}

// ParseDepFile returns the prerequisites of every rule in a Make-style
// dependency file as emitted by -MD/-MMD. Duplicates are dropped.
func ParseDepFile(r io.Reader) ([]string, error) {
	var (
		logical []string
		line    strings.Builder
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		text := strings.TrimRight(sc.Text(), "\r")
		if cont, ok := strings.CutSuffix(text, "\\"); ok && !strings.HasSuffix(cont, "\\") {
			line.WriteString(cont)
			line.WriteByte(' ')
			continue
		}
		line.WriteString(text)
		logical = append(logical, line.String())
		line.Reset()
	}
	if err := sc.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read dependency file")
	}
	if line.Len() > 0 {
		logical = append(logical, line.String())
	}

	seen := make(map[string]struct{})
	var deps []string
	for _, l := range logical {
		_, prereqs, ok := splitRule(l)
		if !ok {
			continue
		}
		for _, d := range tokenize(prereqs) {
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			deps = append(deps, d)
		}
	}
	return deps, nil
}

// splitRule splits "targets: prereqs" at the rule colon. A colon followed
// by a path separator (C:\ or C:/) belongs to a drive letter.
func splitRule(line string) (targets, prereqs string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != ':' {
			continue
		}
		if i > 0 && line[i-1] == '\\' {
			continue
		}
		if i+1 < len(line) && (line[i+1] == '\\' || line[i+1] == '/') && i == 1 {
			continue
		}
		return line[:i], line[i+1:], true
	}
	return "", "", false
}

// tokenize splits on unescaped whitespace and undoes Make escaping.
func tokenize(s string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '#' || s[i+1] == ':'):
			cur.WriteByte(s[i+1])
			i++
		case c == '$' && i+1 < len(s) && s[i+1] == '$':
			cur.WriteByte('$')
			i++
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}
