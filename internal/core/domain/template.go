package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// CommandTemplate is a tokenized command line. A token holding exactly one
// {name} placeholder is repeated once per value bound to name, so list
// variables splice into the argument vector and an empty list drops the token.
// Tokens holding several placeholders require single-valued variables.
type CommandTemplate []string

// TemplateVars binds placeholder names to values.
type TemplateVars map[string][]string

// Scalar binds a single value.
func Scalar(v string) []string {
	return []string{v}
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// Expand substitutes vars into the template.
func (t CommandTemplate) Expand(vars TemplateVars) ([]string, error) {
	out := make([]string, 0, len(t))
	for _, tok := range t {
		matches := placeholderPattern.FindAllStringSubmatch(tok, -1)
		switch len(matches) {
		case 0:
			out = append(out, tok)
		case 1:
			name := matches[0][1]
			values, ok := vars[name]
			if !ok {
				return nil, zerr.With(ErrTemplateVariable, "variable", name)
			}
			for _, v := range values {
				out = append(out, strings.Replace(tok, matches[0][0], v, 1))
			}
		default:
			expanded := tok
			for _, m := range matches {
				values, ok := vars[m[1]]
				if !ok || len(values) != 1 {
					return nil, zerr.With(ErrTemplateVariable, "variable", m[1])
				}
				expanded = strings.ReplaceAll(expanded, m[0], values[0])
			}
			out = append(out, expanded)
		}
	}
	if len(out) == 0 {
		return nil, zerr.With(ErrTemplateVariable, "reason", "empty command")
	}
	return out, nil
}
