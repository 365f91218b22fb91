package editor

import "github.com/xonecas/retest/internal/pipeline"

// ---------------------------------------------------------------------------
// Editing operations
// ---------------------------------------------------------------------------

// InsertText inserts a multi-line string at the cursor, replacing any
// selection. In single-line mode newlines become spaces. It reports the
// kind of edit performed.
func (m *Model) InsertText(text string) pipeline.EditKind {
	replaced := m.DeleteSelection()
	inserted := false
	for _, r := range text {
		switch r {
		case '\r':
			// Skip carriage returns (normalize \r\n to \n)
		case '\n':
			if m.SingleLine {
				m.insertRune(' ')
			} else {
				m.insertNewline()
			}
			inserted = true
		default:
			m.insertRune(r)
			inserted = true
		}
	}
	m.clampScroll()
	return editKind(inserted, replaced)
}

// editKind classifies an operation that may have inserted text and may have
// deleted a range first.
func editKind(inserted, deleted bool) pipeline.EditKind {
	switch {
	case inserted && deleted:
		return pipeline.EditReplace
	case inserted:
		return pipeline.EditInsert
	case deleted:
		return pipeline.EditDelete
	}
	return pipeline.EditNone
}

func (m *Model) insertRune(r rune) {
	line := m.currentLine()
	newLine := make([]rune, 0, len(line)+1)
	newLine = append(newLine, line[:m.col]...)
	newLine = append(newLine, r)
	newLine = append(newLine, line[m.col:]...)
	m.lines[m.row] = newLine
	m.col++
}

func (m *Model) insertNewline() {
	line := m.currentLine()
	after := make([]rune, len(line[m.col:]))
	copy(after, line[m.col:])
	m.lines[m.row] = line[:m.col:m.col]
	newLines := make([][]rune, 0, len(m.lines)+1)
	newLines = append(newLines, m.lines[:m.row+1]...)
	newLines = append(newLines, after)
	newLines = append(newLines, m.lines[m.row+1:]...)
	m.lines = newLines
	m.row++
	m.col = 0
}

// deleteBack removes the rune before the cursor, merging lines at column 0.
// It reports whether anything was removed.
func (m *Model) deleteBack() bool {
	switch {
	case m.col > 0:
		line := m.currentLine()
		m.lines[m.row] = append(line[:m.col-1], line[m.col:]...)
		m.col--
	case m.row > 0:
		prev := m.lines[m.row-1]
		m.col = len(prev)
		m.lines[m.row-1] = append(prev, m.currentLine()...)
		m.lines = append(m.lines[:m.row], m.lines[m.row+1:]...)
		m.row--
	default:
		return false
	}
	return true
}

// deleteForward removes the rune under the cursor, merging the next line at
// end of line. It reports whether anything was removed.
func (m *Model) deleteForward() bool {
	line := m.currentLine()
	switch {
	case m.col < len(line):
		m.lines[m.row] = append(line[:m.col], line[m.col+1:]...)
	case m.row < len(m.lines)-1:
		m.lines[m.row] = append(line, m.lines[m.row+1]...)
		m.lines = append(m.lines[:m.row+1], m.lines[m.row+2:]...)
	default:
		return false
	}
	return true
}

// killToEnd deletes from the cursor to the end of the line.
func (m *Model) killToEnd() bool {
	line := m.currentLine()
	if m.col >= len(line) {
		return false
	}
	m.lines[m.row] = line[:m.col:m.col]
	return true
}

// killToStart deletes from the start of the line to the cursor.
func (m *Model) killToStart() bool {
	if m.col == 0 {
		return false
	}
	line := m.currentLine()
	m.lines[m.row] = append([]rune(nil), line[m.col:]...)
	m.col = 0
	return true
}

// DeleteSelection removes the selected text and places the cursor at the
// start of the removed range. It reports whether anything was removed.
func (m *Model) DeleteSelection() bool {
	if !m.HasSelection() {
		m.sel = nil
		return false
	}
	s, e := m.sel.ordered()
	m.sel = nil

	head := m.lines[s.row][:clampMax(s.col, len(m.lines[s.row]))]
	tail := m.lines[e.row][clampMax(e.col, len(m.lines[e.row])):]
	joined := make([]rune, 0, len(head)+len(tail))
	joined = append(joined, head...)
	joined = append(joined, tail...)

	newLines := make([][]rune, 0, len(m.lines)-(e.row-s.row))
	newLines = append(newLines, m.lines[:s.row]...)
	newLines = append(newLines, joined)
	newLines = append(newLines, m.lines[e.row+1:]...)
	m.lines = newLines
	m.row, m.col = s.row, s.col
	m.clampCursor()
	return true
}
