package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/xonecas/retest/internal/pipeline"
)

// renderStatusBar writes the outcome and counts on the left and the engine
// and theme on the right.
func (m Model) renderStatusBar(b *strings.Builder) {
	left := m.styles.Status.Render(" ") + m.outcomeText()
	if m.notice != "" {
		left += m.styles.Status.Render("  " + m.notice)
	}

	right := m.styles.Status.Render(m.pipeline.Engine()+" · "+m.theme) + m.styles.Status.Render(" ")

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	line := left + m.styles.Base.Render(strings.Repeat(" ", gap)) + right
	b.WriteString(ansi.Truncate(line, m.width, ""))
}

func (m Model) outcomeText() string {
	s := m.summary
	switch s.Outcome {
	case pipeline.OutcomeMatched:
		return m.styles.Accent.Render(countText(s.Lines, "line") + " · " + countText(s.Groups, "group"))
	case pipeline.OutcomeNoMatch:
		return m.styles.Status.Render("no match")
	case pipeline.OutcomeError:
		return m.styles.Error.Render("invalid pattern")
	}
	return m.styles.Status.Render("idle")
}

// countText formats n with thousands separators and a pluralized noun.
func countText(n int, noun string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, noun, "")
}
