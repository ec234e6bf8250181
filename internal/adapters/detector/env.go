// Package detector decides whether console output may use color.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for console output.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeColor renders with ANSI colors.
	ModeColor
	// ModePlain renders plain text, for CI logs and pipes.
	ModePlain
)

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeColor:
		return "color"
	case ModePlain:
		return "plain"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended output mode for stderr, where
// build events are written.
func DetectEnvironment() OutputMode {
	return Detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv) //nolint:gosec // Fd fits in int
}

// Detect picks a mode from whether the output is a terminal and the
// environment. NO_COLOR and CI=true|1 both force plain output.
func Detect(isTTY bool, getenv func(string) string) OutputMode {
	if getenv("NO_COLOR") != "" {
		return ModePlain
	}
	ci := getenv("CI")
	if !isTTY || ci == "true" || ci == "1" {
		return ModePlain
	}
	return ModeColor
}

// ResolveMode applies the user's --output flag to auto-detection.
// userFlag should be one of: "auto", "color", "plain", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "color":
		return ModeColor
	case "plain", "ci":
		return ModePlain
	default:
		return autoDetected
	}
}
