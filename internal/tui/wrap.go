package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// wrapLines word-wraps s to width cells and keeps at most maxLines lines.
// Words longer than width are broken. When text is cut, the last kept line
// ends in an ellipsis.
func wrapLines(s string, width, maxLines int) []string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\t", " "))
	if s == "" || maxLines <= 0 {
		return nil
	}
	if width <= 0 {
		return []string{s}
	}
	wrapped := ansi.Wordwrap(s, width, "")
	wrapped = ansi.Hardwrap(wrapped, width, true)
	lines := splitLines(wrapped)
	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	last := lines[maxLines-1]
	if ansi.StringWidth(last) >= width {
		last = ansi.Truncate(last, width-1, "")
	}
	lines[maxLines-1] = last + "…"
	return lines
}

// splitLines splits on newline without the trailing empty element that
// strings.Split produces for a trailing newline.
func splitLines(s string) []string {
	lines := make([]string, 0, 4)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
