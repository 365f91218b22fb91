package editor

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/xonecas/retest/internal/highlight"
)

// selectionLayer paints above every highlight layer.
const selectionLayer = math.MaxInt

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	// Show placeholder when empty
	if len(m.lines) == 1 && len(m.lines[0]) == 0 && m.Placeholder != "" {
		return m.placeholderView()
	}

	tw := m.textWidth()
	base := m.TextStyle
	lineNumSty := m.LineNumStyle.Background(base.GetBackground())

	var b strings.Builder
	for vi := 0; vi < m.height; vi++ {
		row := m.scroll + vi
		if vi > 0 {
			b.WriteByte('\n')
		}

		if row >= len(m.lines) {
			// End-of-buffer: fill entire row with bg
			b.WriteString(base.Render(strings.Repeat(" ", m.width)))
			continue
		}

		// -- Gutter (line numbers) -------------------------------------------
		if m.gutterWidth > 0 {
			num := fmt.Sprintf("%*d ", m.gutterWidth-1, row+1)
			b.WriteString(lineNumSty.Render(num))
		}

		// -- Text content ----------------------------------------------------
		rendered := ansi.Cut(m.renderLine(row), m.hscroll, m.hscroll+tw)
		rw := lipgloss.Width(rendered)
		b.WriteString(rendered)
		if rw < tw {
			b.WriteString(base.Render(strings.Repeat(" ", tw-rw)))
		}
	}

	return b.String()
}

// renderLine paints a full buffer line in expanded-tab space: highlight
// spans, then the selection, then the cursor.
func (m Model) renderLine(row int) string {
	line := m.lines[row]
	cols := expandedCols(line)
	text := expandTabs(string(line))
	last := len(cols) - 1

	var spans []highlight.Span
	for _, s := range m.spans[row] {
		spans = append(spans, highlight.Span{
			Start: cols[clampMax(s.Start, last)],
			End:   cols[clampMax(s.End, last)],
			Layer: s.Layer,
		})
	}
	if m.HasSelection() {
		if start, end, ok := m.selectionOnRow(row); ok {
			spans = append(spans, highlight.Span{Start: cols[start], End: cols[end], Layer: selectionLayer})
		}
	}

	painted := highlight.Paint(text, spans, m.renderLayer, m.renderPlain)

	if !m.focus || row != m.row {
		return painted
	}

	// Cursor: cut the painted line around it so highlights stay intact.
	cc := cols[clampMax(m.col, last)]
	runes := []rune(text)
	cursorChar := " "
	if cc < len(runes) {
		cursorChar = string(runes[cc])
	}
	m.cursor.SetChar(cursorChar)
	m.cursor.TextStyle = m.TextStyle
	before := ansi.Cut(painted, 0, cc)
	after := ""
	if cc+1 <= len(runes) {
		after = ansi.Cut(painted, cc+1, len(runes))
	}
	return before + m.cursor.View() + after
}

func (m Model) renderLayer(layer int, text string) string {
	switch {
	case layer == selectionLayer:
		return m.SelectionStyle.Render(text)
	case m.HighlightStyle != nil:
		return m.HighlightStyle(layer).Render(text)
	}
	return m.TextStyle.Render(text)
}

func (m Model) renderPlain(text string) string { return m.TextStyle.Render(text) }

// selectionOnRow returns the selected buffer columns [start, end) on row.
func (m Model) selectionOnRow(row int) (start, end int, ok bool) {
	s, e := m.sel.ordered()
	if row < s.row || row > e.row {
		return 0, 0, false
	}
	n := len(m.lines[row])
	start, end = 0, n
	if row == s.row {
		start = clampMax(s.col, n)
	}
	if row == e.row {
		end = clampMax(e.col, n)
	}
	return start, end, start < end
}

// ---------------------------------------------------------------------------
// Placeholder view (shown when empty)
// ---------------------------------------------------------------------------

func (m Model) placeholderView() string {
	bg := m.TextStyle
	tw := m.textWidth()

	var b strings.Builder
	if m.gutterWidth > 0 {
		num := fmt.Sprintf("%*d ", m.gutterWidth-1, 1)
		b.WriteString(m.LineNumStyle.Background(bg.GetBackground()).Render(num))
	}

	ph := m.Placeholder
	if m.focus {
		// Render cursor on first character of placeholder
		phRunes := []rune(m.Placeholder)
		m.cursor.SetChar(string(phRunes[0]))
		m.cursor.TextStyle = m.PlaceholderSty
		ph = m.cursor.View() + m.PlaceholderSty.Render(string(phRunes[1:]))
	} else {
		ph = m.PlaceholderSty.Render(ph)
	}
	ph = ansi.Truncate(ph, tw, "…")
	b.WriteString(ph)
	if pw := lipgloss.Width(ph); pw < tw {
		b.WriteString(bg.Render(strings.Repeat(" ", tw-pw)))
	}

	// Remaining rows: empty with bg
	for vi := 1; vi < m.height; vi++ {
		b.WriteByte('\n')
		b.WriteString(bg.Render(strings.Repeat(" ", m.width)))
	}

	return b.String()
}
