// Package tree provides a two-level collapsible list for bubbletea views.
// Rows are added with an optional parent; top-level rows can be expanded or
// collapsed to show or hide their children.
package tree

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	markerExpanded  = "▾ "
	markerCollapsed = "▸ "
	markerLeaf      = "  "
	childIndent     = "    "
)

type node struct {
	id       string
	text     string
	style    int
	children []*node
	expanded bool
}

// Model holds the rows and the selection cursor.
type Model struct {
	// Style resolves a row style to its rendering. Nil renders plain text.
	Style       func(style int) lipgloss.Style
	CursorStyle lipgloss.Style
	TextStyle   lipgloss.Style

	roots  []*node
	byID   map[string]*node
	nextID int

	cursor int // Index into visible rows
	scroll int
	focus  bool
}

// New returns an empty tree.
func New() Model {
	return Model{byID: make(map[string]*node)}
}

// Add appends a row and returns its ID. An empty parentID adds a top-level
// row, expanded by default. An unknown parentID also adds a top-level row.
func (m *Model) Add(parentID, text string, style int) string {
	if m.byID == nil {
		m.byID = make(map[string]*node)
	}
	m.nextID++
	n := &node{id: "r" + strconv.Itoa(m.nextID), text: text, style: style, expanded: true}
	m.byID[n.id] = n

	if p, ok := m.byID[parentID]; ok && parentID != "" {
		p.children = append(p.children, n)
	} else {
		m.roots = append(m.roots, n)
	}
	return n.id
}

// Clear removes every row. IDs restart from r1.
func (m *Model) Clear() {
	m.roots = nil
	clear(m.byID)
	m.nextID = 0
	m.cursor = 0
	m.scroll = 0
}

// Len returns the number of rows, visible or not.
func (m Model) Len() int { return len(m.byID) }

// Text returns the text of the row with the given ID.
func (m Model) Text(id string) (string, bool) {
	n, ok := m.byID[id]
	if !ok {
		return "", false
	}
	return n.text, true
}

// Expanded reports whether the row with the given ID shows its children.
func (m Model) Expanded(id string) bool {
	n, ok := m.byID[id]
	return ok && n.expanded
}

func (m *Model) Focus()       { m.focus = true }
func (m *Model) Blur()        { m.focus = false }
func (m Model) Focused() bool { return m.focus }
func (m Model) Selected() int { return m.cursor }
func (m Model) Visible() int  { return len(m.visible()) }

// SelectedText returns the text of the row under the cursor.
func (m Model) SelectedText() string {
	rows := m.visible()
	if m.cursor < len(rows) {
		return rows[m.cursor].n.text
	}
	return ""
}

// Toggle expands or collapses the top-level row under the cursor, or the
// parent of a child row, moving the cursor onto that parent.
func (m *Model) Toggle() {
	rows := m.visible()
	if m.cursor >= len(rows) {
		return
	}
	r := rows[m.cursor]
	target := r.n
	if r.parent != nil {
		target = r.parent
	}
	if len(target.children) == 0 {
		return
	}
	target.expanded = !target.expanded
	for i, v := range m.visible() {
		if v.n == target {
			m.cursor = i
			break
		}
	}
}

// SetExpandedAll expands or collapses every top-level row.
func (m *Model) SetExpandedAll(expanded bool) {
	for _, n := range m.roots {
		n.expanded = expanded
	}
	m.cursor = min(m.cursor, max(len(m.visible())-1, 0))
}

// MoveUp moves the cursor one row up.
func (m *Model) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// MoveDown moves the cursor one row down.
func (m *Model) MoveDown() {
	if m.cursor < len(m.visible())-1 {
		m.cursor++
	}
}

// SelectAt moves the cursor to the row drawn at screen row y of a view
// height rows tall. Rows past the end select the last row.
func (m *Model) SelectAt(y, height int) {
	if y < 0 || height <= 0 {
		return
	}
	m.adjustScroll(len(m.visible()), height)
	m.cursor = min(m.scroll+y, max(len(m.visible())-1, 0))
}

// Update handles navigation keys while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || !m.focus {
		return m, nil
	}
	switch key.Keystroke() {
	case "up", "k":
		m.MoveUp()
	case "down", "j":
		m.MoveDown()
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.visible())-1, 0)
	case "enter", "space", "right", "left":
		m.Toggle()
	case "+":
		m.SetExpandedAll(true)
	case "-":
		m.SetExpandedAll(false)
	}
	return m, nil
}

type visibleRow struct {
	n      *node
	parent *node
}

func (m Model) visible() []visibleRow {
	var out []visibleRow
	for _, r := range m.roots {
		out = append(out, visibleRow{n: r})
		if r.expanded {
			for _, c := range r.children {
				out = append(out, visibleRow{n: c, parent: r})
			}
		}
	}
	return out
}

// View renders height rows of width cells, scrolled to keep the cursor in
// view.
func (m *Model) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	rows := m.visible()
	m.adjustScroll(len(rows), height)

	var b strings.Builder
	for i := 0; i < height; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		idx := m.scroll + i
		if idx >= len(rows) {
			b.WriteString(m.TextStyle.Render(strings.Repeat(" ", width)))
			continue
		}
		b.WriteString(m.renderRow(rows[idx], idx == m.cursor && m.focus, width))
	}
	return b.String()
}

// adjustScroll clamps the cursor to n rows and scrolls a window of height
// rows to keep it in view.
func (m *Model) adjustScroll(n, height int) {
	m.cursor = min(m.cursor, max(n-1, 0))
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+height {
		m.scroll = m.cursor - height + 1
	}
	m.scroll = max(min(m.scroll, n-height), 0)
}

func (m Model) renderRow(r visibleRow, selected bool, width int) string {
	prefix := markerLeaf
	switch {
	case r.parent != nil:
		prefix = childIndent
	case len(r.n.children) > 0 && r.n.expanded:
		prefix = markerExpanded
	case len(r.n.children) > 0:
		prefix = markerCollapsed
	}

	text := ansi.Truncate(r.n.text, max(width-lipgloss.Width(prefix), 0), "…")
	if m.Style != nil {
		text = m.Style(r.n.style).Render(text)
	}
	line := m.TextStyle.Render(prefix) + text
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += m.TextStyle.Render(strings.Repeat(" ", pad))
	}
	if selected {
		line = m.CursorStyle.Render(ansi.Strip(line))
	}
	return ansi.Truncate(line, width, "")
}
