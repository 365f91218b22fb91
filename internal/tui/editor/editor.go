// Package editor provides a minimal text editor component for bubbletea.
// Supports a single-line mode, optional line numbers, layered span
// highlights, shift and mouse selection, and horizontal scrolling.
package editor

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/cursor"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/xonecas/retest/internal/highlight"
	"github.com/xonecas/retest/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is a minimal text editor component.
type Model struct {
	// Public configuration, set before first Update/View.
	SingleLine      bool
	ShowLineNumbers bool
	Placeholder     string // Shown when empty

	// Styles, set by parent.
	TextStyle      lipgloss.Style // Base text and background
	LineNumStyle   lipgloss.Style // Line number gutter
	PlaceholderSty lipgloss.Style // Placeholder text
	SelectionStyle lipgloss.Style // Selected text

	// HighlightStyle resolves a highlight layer to its style. Nil disables
	// highlight rendering; spans are still tracked.
	HighlightStyle func(layer int) lipgloss.Style

	// Internal state
	lines   [][]rune // Backing store, one entry per line
	row     int      // Cursor row (0-indexed into lines)
	col     int      // Cursor column (0-indexed into line runes)
	scroll  int      // First visible row
	hscroll int      // First visible column, in expanded-tab space

	width  int // Viewport width (cells)
	height int // Viewport height (rows)

	focus  bool
	cursor cursor.Model

	sel      *selection
	dragging bool

	spans    map[int][]highlight.Span // Highlights by buffer row
	lastEdit pipeline.EditKind

	gutterWidth int // Width of line number gutter (0 if disabled)
}

type pos struct{ row, col int }

func (p pos) before(o pos) bool {
	return p.row < o.row || (p.row == o.row && p.col < o.col)
}

// selection tracks an anchored range; active follows the cursor.
type selection struct {
	anchor, active pos
}

func (s selection) ordered() (start, end pos) {
	if s.active.before(s.anchor) {
		return s.active, s.anchor
	}
	return s.anchor, s.active
}

func (s selection) empty() bool { return s.anchor == s.active }

// New creates a new editor with sensible defaults.
func New() Model {
	return Model{
		lines:  [][]rune{{}},
		cursor: cursor.New(),
		spans:  make(map[int][]highlight.Span),
	}
}

// ---------------------------------------------------------------------------
// Public methods called by parent
// ---------------------------------------------------------------------------

func (m *Model) SetWidth(w int)  { m.width = w; m.clampScroll() }
func (m *Model) SetHeight(h int) { m.height = h; m.clampScroll() }

// Focus gives the editor keyboard focus and starts the cursor blinking.
func (m *Model) Focus() tea.Cmd {
	m.focus = true
	return m.cursor.Focus()
}

func (m *Model) Blur() {
	m.focus = false
	m.dragging = false
	m.cursor.Blur()
}

func (m Model) Focused() bool { return m.focus }

// SetValue replaces the buffer. In single-line mode newlines are flattened
// to spaces. The cursor moves to the end of the text. A programmatic load is
// not a user edit: LastEdit reports EditReread until the next Update.
func (m *Model) SetValue(s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if m.SingleLine {
		s = strings.ReplaceAll(s, "\n", " ")
	}
	raw := strings.Split(s, "\n")
	m.lines = make([][]rune, len(raw))
	for i, l := range raw {
		m.lines[i] = []rune(l)
	}
	m.sel = nil
	m.row = len(m.lines) - 1
	m.col = len(m.lines[m.row])
	m.scroll = 0
	m.hscroll = 0
	m.lastEdit = pipeline.EditReread
	m.clampScroll()
}

func (m Model) Value() string {
	return strings.Join(m.Lines(), "\n")
}

// Lines returns a snapshot of the buffer, one string per line.
func (m Model) Lines() []string {
	out := make([]string, len(m.lines))
	for i, line := range m.lines {
		out[i] = string(line)
	}
	return out
}

// LineCount returns the number of buffer lines.
func (m Model) LineCount() int { return len(m.lines) }

// Cursor returns the cursor position as 0-indexed row and rune column.
func (m Model) Cursor() (row, col int) { return m.row, m.col }

func (m *Model) Reset() {
	m.lines = [][]rune{{}}
	m.row = 0
	m.col = 0
	m.scroll = 0
	m.hscroll = 0
	m.sel = nil
}

// LastEdit reports what the most recent Update did to the buffer.
func (m Model) LastEdit() pipeline.EditKind { return m.lastEdit }

// ClearHighlights removes every highlight span.
func (m *Model) ClearHighlights() {
	clear(m.spans)
}

// AddHighlight marks rune columns [start, end) of the 0-indexed buffer row
// with layer. Higher layers paint over lower ones.
func (m *Model) AddHighlight(row, start, end, layer int) {
	if m.spans == nil {
		m.spans = make(map[int][]highlight.Span)
	}
	m.spans[row] = append(m.spans[row], highlight.Span{Start: start, End: end, Layer: layer})
}

// Highlights returns the spans on a 0-indexed buffer row in insertion order.
func (m Model) Highlights(row int) []highlight.Span { return m.spans[row] }

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

func (m Model) HasSelection() bool { return m.sel != nil && !m.sel.empty() }

func (m *Model) ClearSelection() {
	m.sel = nil
	m.dragging = false
}

// SelectAll selects the whole buffer and moves the cursor to its end.
func (m *Model) SelectAll() {
	last := len(m.lines) - 1
	m.sel = &selection{anchor: pos{}, active: pos{row: last, col: len(m.lines[last])}}
	m.row, m.col = last, len(m.lines[last])
	m.clampScroll()
}

// SelectedText returns the selected text, or "" if there is no selection.
func (m Model) SelectedText() string {
	if !m.HasSelection() {
		return ""
	}
	s, e := m.sel.ordered()
	if s.row == e.row {
		line := m.lines[s.row]
		return string(line[clampMax(s.col, len(line)):clampMax(e.col, len(line))])
	}
	var sb strings.Builder
	first := m.lines[s.row]
	sb.WriteString(string(first[clampMax(s.col, len(first)):]))
	for r := s.row + 1; r < e.row; r++ {
		sb.WriteByte('\n')
		sb.WriteString(string(m.lines[r]))
	}
	sb.WriteByte('\n')
	last := m.lines[e.row]
	sb.WriteString(string(last[:clampMax(e.col, len(last))]))
	return sb.String()
}

func (m *Model) startOrExtendSelection() {
	if m.sel == nil {
		p := pos{m.row, m.col}
		m.sel = &selection{anchor: p, active: p}
	}
}

func (m *Model) updateSelectionActive() {
	if m.sel != nil {
		m.sel.active = pos{m.row, m.col}
	}
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (m *Model) currentLine() []rune { return m.lines[m.row] }

func (m *Model) clampCursor() {
	m.row = clampMax(m.row, len(m.lines)-1)
	m.col = clampMax(m.col, len(m.currentLine()))
}

func (m *Model) clampScroll() {
	if m.height <= 0 {
		return
	}
	// Ensure cursor is visible
	if m.row < m.scroll {
		m.scroll = m.row
	}
	if m.row >= m.scroll+m.height {
		m.scroll = m.row - m.height + 1
	}
	m.clampScrollBounds()

	if m.width <= 0 {
		return
	}
	tw := m.textWidth()
	cc := m.bufferColToExpandedCol(m.row, m.col)
	if cc < m.hscroll {
		m.hscroll = cc
	}
	if cc >= m.hscroll+tw {
		m.hscroll = cc - tw + 1
	}
}

// clampScrollBounds keeps the vertical scroll inside the content.
func (m *Model) clampScrollBounds() {
	maxScroll := max(len(m.lines)-m.height, 0)
	m.scroll = min(max(m.scroll, 0), maxScroll)
}

const tabWidth = 4

// expandTabs replaces tabs with spaces (tabWidth-aligned).
func expandTabs(s string) string {
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			spaces := tabWidth - (col % tabWidth)
			b.WriteString(strings.Repeat(" ", spaces))
			col += spaces
		} else {
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

// expandedCols maps each rune index of line (and one past the end) to its
// column after tab expansion.
func expandedCols(line []rune) []int {
	cols := make([]int, len(line)+1)
	c := 0
	for i, r := range line {
		cols[i] = c
		if r == '\t' {
			c += tabWidth - (c % tabWidth)
		} else {
			c++
		}
	}
	cols[len(line)] = c
	return cols
}

func (m *Model) bufferColToExpandedCol(row, col int) int {
	if row < 0 || row >= len(m.lines) {
		return 0
	}
	cols := expandedCols(m.lines[row])
	return cols[clampMax(col, len(cols)-1)]
}

// expandedColToBufferCol returns the buffer column whose expanded column is
// the last one not past ec.
func (m *Model) expandedColToBufferCol(row, ec int) int {
	cols := expandedCols(m.lines[row])
	for i := len(cols) - 1; i > 0; i-- {
		if cols[i] <= ec {
			return i
		}
	}
	return 0
}

// textWidth returns the width available for text content.
func (m *Model) textWidth() int {
	m.gutterWidth = 0
	if m.ShowLineNumbers && !m.SingleLine {
		digits := max(len(strconv.Itoa(len(m.lines))), 2)
		m.gutterWidth = digits + 1 // digits + 1 space
	}
	return max(m.width-m.gutterWidth, 1)
}

func clampMax(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
