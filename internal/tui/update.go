package tui

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/retest/internal/match"
	"github.com/xonecas/retest/internal/pipeline"
	"github.com/xonecas/retest/internal/store"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.handleResize(ws)
		return m, nil
	}

	// An open picker takes every other message, its debounce ticks included.
	if m.picker != nil {
		return m.updatePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyPressMsg:
		if cmd, handled := m.handleKeyPress(msg); handled {
			return m, cmd
		}
	}
	return m.forward(msg)
}

// forward hands msg to the sub-models and feeds each editor's edit to the
// pipeline. Blurred components ignore input, so only the focused one can
// report an edit.
func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.pattern, cmd = m.pattern.Update(msg)
	cmds = append(cmds, cmd)
	m.afterEdit(pipeline.SourcePattern, m.pattern.LastEdit())

	m.text, cmd = m.text.Update(msg)
	cmds = append(cmds, cmd)
	m.afterEdit(pipeline.SourceText, m.text.LastEdit())

	m.results, cmd = m.results.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress processes application keys. Returns (cmd, true) if handled.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit(), true
	case key.Matches(msg, m.keys.NextPane):
		return m.cycleFocus(1), true
	case key.Matches(msg, m.keys.PrevPane):
		return m.cycleFocus(-1), true
	case key.Matches(msg, m.keys.History):
		m.openHistoryPicker()
		return nil, true
	case key.Matches(msg, m.keys.Theme):
		m.openThemePicker()
		return nil, true
	case key.Matches(msg, m.keys.Engine):
		m.toggleEngine()
		return nil, true
	case key.Matches(msg, m.keys.Copy):
		return m.copySelection(), true
	case key.Matches(msg, m.keys.Prev) && m.focus == focusPattern:
		m.recallHistory(true)
		return nil, true
	case key.Matches(msg, m.keys.Next) && m.focus == focusPattern:
		m.recallHistory(false)
		return nil, true
	}
	return nil, false
}

// quit saves the session and exits.
func (m *Model) quit() tea.Cmd {
	m.saveSession()
	return tea.Quit
}

// saveSession persists the inputs and remembers the pattern when it
// compiled.
func (m *Model) saveSession() {
	if m.store == nil {
		return
	}
	switch m.summary.Outcome {
	case pipeline.OutcomeMatched, pipeline.OutcomeNoMatch:
		m.store.Remember(m.pattern.Value())
	}
	if !m.restore {
		return
	}
	err := m.store.Save(store.Session{
		Pattern: m.pattern.Value(),
		Text:    m.text.Value(),
		Engine:  string(m.engine),
	})
	if err == nil {
		log.Debug().Msg("session saved")
	}
}

// toggleEngine switches between the RE2 and backtracking engines. The
// switch is not an edit, so it runs the pipeline directly.
func (m *Model) toggleEngine() {
	next := match.EngineBacktrack
	if m.engine == match.EngineBacktrack {
		next = match.EngineRE2
	}
	m.engine = next
	m.pipeline.SetResolver(m.newResolver(next))
	m.summary = m.pipeline.Run(m)
	m.notice = "engine: " + m.pipeline.Engine()
	log.Info().Str("engine", m.pipeline.Engine()).Msg("engine switched")
}

// copySelection copies the focused pane's selection to the clipboard. The
// pattern bar copies the whole pattern when nothing is selected.
func (m *Model) copySelection() tea.Cmd {
	var text string
	switch m.focus {
	case focusPattern:
		text = m.pattern.Value()
		if m.pattern.HasSelection() {
			text = m.pattern.SelectedText()
		}
	case focusText:
		text = m.text.SelectedText()
	case focusResults:
		text = m.results.SelectedText()
	}
	if text == "" {
		return nil
	}
	m.notice = "copied " + humanize.Bytes(uint64(len(text)))
	return tea.SetClipboard(text)
}

// recallHistory walks the pattern history: older moves back in time, and
// walking forward past the newest entry restores the pattern typed before
// the walk began.
func (m *Model) recallHistory(older bool) {
	if m.histPos == -1 {
		if !older {
			return
		}
		m.history = m.store.Recent(historyLimit)
		m.histDraft = m.pattern.Value()
	}

	pos := m.histPos - 1
	if older {
		pos = m.histPos + 1
		// Skip an entry identical to what is already in the bar.
		if pos < len(m.history) && m.history[pos] == m.pattern.Value() {
			pos++
		}
	}

	switch {
	case pos >= len(m.history):
		return
	case pos < 0:
		m.histPos = -1
		m.setPattern(m.histDraft)
		return
	}
	m.histPos = pos
	m.setPattern(m.history[pos])
}
