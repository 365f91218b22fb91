package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/xonecas/retest/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Mouse filter: throttle high-frequency events at program level.
// ---------------------------------------------------------------------------

var lastMouseEvent time.Time

// MouseEventFilter rate-limits wheel and motion events (15 ms).
// Pass to tea.WithFilter. Never drops clicks or releases.
func MouseEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	switch msg.(type) {
	case tea.MouseWheelMsg, tea.MouseMotionMsg:
		now := time.Now()
		if now.Sub(lastMouseEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseEvent = now
	}
	return msg
}

// ---------------------------------------------------------------------------
// Mouse handling: click focuses the pane under the pointer, wheel scrolls
// it, drags go to the focused editor.
// ---------------------------------------------------------------------------

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	x, y := mouse.X, mouse.Y

	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return m, nil
		}
		switch {
		case inRect(x, y, m.layout.pattern):
			cmd := tea.Batch(m.focusIfNeeded(focusPattern), m.forwardMouse(msg, focusPattern))
			return m, cmd
		case inRect(x, y, m.layout.text):
			cmd := tea.Batch(m.focusIfNeeded(focusText), m.forwardMouse(msg, focusText))
			return m, cmd
		case inRect(x, y, m.layout.results):
			m.focusIfNeeded(focusResults)
			m.results.SelectAt(y-m.layout.results.Min.Y, m.layout.results.Dy())
		}
		return m, nil

	case tea.MouseWheelMsg:
		switch {
		case inRect(x, y, m.layout.text):
			cmd := m.forwardMouse(msg, focusText)
			return m, cmd
		case inRect(x, y, m.layout.results):
			for range 3 {
				if msg.Button == tea.MouseWheelUp {
					m.results.MoveUp()
				} else {
					m.results.MoveDown()
				}
			}
		}
		return m, nil
	}

	// Motion and release continue a drag in the focused editor.
	cmd := m.forwardMouse(msg, m.focus)
	return m, cmd
}

func (m *Model) focusIfNeeded(f focusArea) tea.Cmd {
	if m.focus == f {
		return nil
	}
	return m.setFocus(f)
}

// forwardMouse translates msg into the coordinates of pane f and hands it to
// that pane's editor.
func (m *Model) forwardMouse(msg tea.MouseMsg, f focusArea) tea.Cmd {
	var cmd tea.Cmd
	switch f {
	case focusPattern:
		local := translateMouse(msg, m.layout.pattern.Min.X, m.layout.pattern.Min.Y)
		m.pattern, cmd = m.pattern.Update(local)
		m.afterEdit(pipeline.SourcePattern, m.pattern.LastEdit())
	case focusText:
		local := translateMouse(msg, m.layout.text.Min.X, m.layout.text.Min.Y)
		m.text, cmd = m.text.Update(local)
		m.afterEdit(pipeline.SourceText, m.text.LastEdit())
	}
	return cmd
}

// translateMouse shifts a mouse event into component-local coordinates.
func translateMouse(msg tea.MouseMsg, offX, offY int) tea.Msg {
	switch ev := msg.(type) {
	case tea.MouseClickMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	case tea.MouseMotionMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	case tea.MouseReleaseMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	case tea.MouseWheelMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	}
	return msg
}
