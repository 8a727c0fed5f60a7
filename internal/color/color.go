// Package color renders ANSI-colored terminal output for diagnostics and
// drift diffs. Coloring is best effort: it honors NO_COLOR and degrades to
// plain text on dumb terminals.
package color

import (
	"os"

	"github.com/typebridge/typebridge/internal/diag"
)

// ANSI color codes
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

// Color is a colorizer that can be enabled or disabled.
type Color struct {
	enabled bool
}

// New creates a colorizer. It stays disabled when the environment asks for
// plain output even if the caller requested color.
func New(enabled bool) *Color {
	return &Color{enabled: enabled && shouldEnableColor()}
}

func shouldEnableColor() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return false
	}
	return true
}

// Add colors a diff line that only exists in the freshly generated output.
func (c *Color) Add(text string) string {
	if !c.enabled {
		return text
	}
	return green + text + reset
}

// Remove colors a diff line that only exists in the file on disk.
func (c *Color) Remove(text string) string {
	if !c.enabled {
		return text
	}
	return red + text + reset
}

// Bold makes text bold.
func (c *Color) Bold(text string) string {
	if !c.enabled {
		return text
	}
	return bold + text + reset
}

// Header colors section headers and file names.
func (c *Color) Header(text string) string {
	if !c.enabled {
		return text
	}
	return cyan + text + reset
}

// Diagnostic colors a diagnostic by severity: errors red, warnings yellow.
func (c *Color) Diagnostic(d diag.Diagnostic) string {
	if !c.enabled {
		return d.String()
	}
	switch d.Severity {
	case diag.SeverityError:
		return red + d.String() + reset
	case diag.SeverityWarning:
		return yellow + d.String() + reset
	}
	return d.String()
}
