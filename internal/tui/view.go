package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/xonecas/retest/internal/constants"
)

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() tea.View {
	content := m.renderContent()
	if m.picker != nil {
		content = m.picker.View(m.width, m.height)
	}
	v := tea.NewView(content)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.WindowTitle = constants.AppName
	return v
}

// renderContent produces the string content for the view.
func (m Model) renderContent() string {
	if m.width == 0 {
		return ""
	}
	ly := m.layout
	var b strings.Builder

	b.WriteString(m.styles.Label.Render(fit("re: ", labelWidth)))
	b.WriteString(m.pattern.View())
	b.WriteByte('\n')

	b.WriteString(m.separator("text", m.focus == focusText))
	b.WriteByte('\n')
	b.WriteString(m.text.View())
	b.WriteByte('\n')

	b.WriteString(m.separator("results", m.focus == focusResults))
	b.WriteByte('\n')
	b.WriteString(m.results.View(ly.results.Dx(), ly.results.Dy()))
	b.WriteByte('\n')

	m.renderErrorBar(&b)
	m.renderStatusBar(&b)
	b.WriteByte('\n')
	m.renderHelpBar(&b)
	return b.String()
}

// separator draws a horizontal rule with a pane title.
func (m Model) separator(title string, focused bool) string {
	label := m.styles.Dim.Render(" " + title + " ")
	if focused {
		label = m.styles.Label.Render(" " + title + " ")
	}
	lead := m.styles.Border.Render("──")
	rest := max(m.width-lipgloss.Width(lead)-lipgloss.Width(label), 0)
	line := lead + label + m.styles.Border.Render(strings.Repeat("─", rest))
	return ansi.Truncate(line, m.width, "")
}

// renderErrorBar writes errorRows lines holding the wrapped engine error.
func (m Model) renderErrorBar(b *strings.Builder) {
	lines := wrapLines(m.errMsg, m.width-2, errorRows)
	for i := 0; i < errorRows; i++ {
		text := ""
		if i < len(lines) {
			text = lines[i]
		}
		b.WriteString(m.styles.Error.Render(fit(" "+text, m.width)))
		b.WriteByte('\n')
	}
}

// renderHelpBar writes the key hints for the focused pane.
func (m Model) renderHelpBar(b *strings.Builder) {
	hints := m.help.ShortHelpView(m.keys.shortHelp(m.focus))
	hints = ansi.Truncate(m.styles.Base.Render(" ")+hints, m.width, "…")
	b.WriteString(hints)
	if pad := m.width - lipgloss.Width(hints); pad > 0 {
		b.WriteString(m.styles.Base.Render(strings.Repeat(" ", pad)))
	}
}

// fit truncates or right-pads plain text to exactly w cells.
func fit(s string, w int) string {
	s = ansi.Truncate(s, w, "…")
	if n := ansi.StringWidth(s); n < w {
		s += strings.Repeat(" ", w-n)
	}
	return s
}
