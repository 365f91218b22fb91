package editor

import (
	tea "charm.land/bubbletea/v2"
	"github.com/xonecas/retest/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update handles a message and records its effect on the buffer, readable
// through LastEdit. Messages the editor ignores leave EditNone.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	m.lastEdit = pipeline.EditNone

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if !m.focus {
			break
		}
		m.lastEdit = m.handleKey(msg)
		if m.lastEdit != pipeline.EditNone {
			m.clampCursor()
			m.clampScroll()
		}

	case tea.PasteMsg:
		if !m.focus {
			break
		}
		m.lastEdit = m.InsertText(msg.Content)

	case tea.MouseClickMsg:
		if !m.focus || msg.Button != tea.MouseLeft {
			break
		}
		p := m.screenToPos(msg.X, msg.Y)
		m.dragging = true
		m.sel = &selection{anchor: p, active: p}
		m.row, m.col = p.row, p.col
		m.clampCursor()
		m.lastEdit = pipeline.EditMove

	case tea.MouseMotionMsg:
		if !m.focus || !m.dragging {
			break
		}
		p := m.screenToPos(msg.X, msg.Y)
		m.sel.active = p
		m.row, m.col = p.row, p.col
		m.clampCursor()
		m.clampScroll()
		m.lastEdit = pipeline.EditMove

	case tea.MouseReleaseMsg:
		if !m.focus {
			break
		}
		m.dragging = false
		if m.sel != nil && m.sel.empty() {
			m.ClearSelection()
		}

	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.scroll -= 3
		case tea.MouseWheelDown:
			m.scroll += 3
		}
		m.clampScrollBounds()
	}

	// Forward to cursor for blink handling
	var cmd tea.Cmd
	m.cursor, cmd = m.cursor.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey applies one key press and classifies it.
func (m *Model) handleKey(msg tea.KeyPressMsg) pipeline.EditKind {
	switch key := msg.Keystroke(); key {
	// --- Shift+navigation: extend selection ---
	case "shift+up", "shift+down", "shift+left", "shift+right",
		"shift+home", "shift+end", "shift+pgup", "shift+pgdown":
		m.startOrExtendSelection()
		m.move(key[len("shift+"):])
		m.clampCursor()
		m.updateSelectionActive()
		return pipeline.EditMove

	// --- Plain navigation: clear selection ---
	case "up", "down", "left", "right", "home", "end", "ctrl+a", "ctrl+e",
		"pgup", "pgdown", "ctrl+home", "ctrl+end":
		m.ClearSelection()
		m.move(key)
		return pipeline.EditMove

	// --- Editing: delete selection first ---
	case "backspace", "ctrl+h":
		if m.DeleteSelection() || m.deleteBack() {
			return pipeline.EditDelete
		}
	case "delete", "ctrl+d":
		if m.DeleteSelection() || m.deleteForward() {
			return pipeline.EditDelete
		}
	case "ctrl+k":
		if m.DeleteSelection() || m.killToEnd() {
			return pipeline.EditDelete
		}
	case "ctrl+u":
		if m.DeleteSelection() || m.killToStart() {
			return pipeline.EditDelete
		}
	case "enter":
		if m.SingleLine {
			return pipeline.EditNone
		}
		deleted := m.DeleteSelection()
		m.insertNewline()
		return editKind(true, deleted)

	default:
		if msg.Text != "" {
			return m.InsertText(msg.Text)
		}
	}
	return pipeline.EditNone
}

// move applies a navigation key without touching the selection.
func (m *Model) move(key string) {
	switch key {
	case "up":
		m.row--
		m.clampCursor()
	case "down":
		m.row++
		m.clampCursor()
	case "left":
		if m.col > 0 {
			m.col--
		} else if m.row > 0 {
			m.row--
			m.col = len(m.currentLine())
		}
	case "right":
		if m.col < len(m.currentLine()) {
			m.col++
		} else if m.row < len(m.lines)-1 {
			m.row++
			m.col = 0
		}
	case "home", "ctrl+a":
		m.col = 0
	case "end", "ctrl+e":
		m.col = len(m.currentLine())
	case "pgup":
		m.row -= max(m.height, 1)
		m.clampCursor()
	case "pgdown":
		m.row += max(m.height, 1)
		m.clampCursor()
	case "ctrl+home":
		m.row, m.col = 0, 0
	case "ctrl+end":
		m.row = len(m.lines) - 1
		m.col = len(m.currentLine())
	}
}

// screenToPos converts screen-relative x,y to a buffer row,col.
// x,y are relative to the editor component origin.
func (m *Model) screenToPos(x, y int) pos {
	row := clampMax(m.scroll+y, len(m.lines)-1)
	m.textWidth() // refresh gutterWidth
	ec := max(x-m.gutterWidth, 0) + m.hscroll
	return pos{row: row, col: m.expandedColToBufferCol(row, ec)}
}
