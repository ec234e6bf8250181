package hooks

import (
	"strconv"
	"strings"

	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// ParseSize parses a byte count such as 4096, 0x80000, 512K or 1M.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, zerr.With(domain.ErrInvalidHookArgument, "value", s)
	}

	mult := int64(1)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "0x") {
		switch {
		case strings.HasSuffix(lower, "k"):
			mult, lower = 1024, strings.TrimSuffix(lower, "k")
		case strings.HasSuffix(lower, "m"):
			mult, lower = 1024*1024, strings.TrimSuffix(lower, "m")
		}
	}

	n, err := strconv.ParseInt(lower, 0, 64)
	if err != nil || n < 0 {
		return 0, zerr.With(domain.ErrInvalidHookArgument, "value", s)
	}
	return n * mult, nil
}

// ParseFill parses a fill byte such as 0xFF or 0.
func ParseFill(s string) (byte, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, zerr.With(domain.ErrInvalidHookArgument, "fill", s)
	}
	return byte(n), nil
}

func argSize(in domain.HookInput, name, def string) (int64, error) {
	n, err := ParseSize(in.Arg(name, def))
	if err != nil {
		return 0, zerr.With(err, "argument", name)
	}
	return n, nil
}

func argFill(in domain.HookInput) (byte, error) {
	return ParseFill(in.Arg("fill", "0xFF"))
}
