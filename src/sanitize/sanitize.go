// Package sanitize cleans test failure messages for MCP tool responses.
// It removes terminal escape sequences and cuts long messages to a display width.
// CSV output is written verbatim and does not go through this package.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Runs of blank lines left behind by stack traces
var blankLines = regexp.MustCompile(`\n{3,}`)

// StripANSI removes escape sequences: SGR colors, cursor movement, erase and OSC
// sequences such as hyperlinks. Printable text is kept.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Message strips escape sequences, normalizes line endings and truncates to maxWidth
// visual columns. A truncated message ends in "...".
func Message(s string, maxWidth int) string {
	s = StripANSI(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)

	if maxWidth <= 0 || runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth-3, "") + "..."
}
