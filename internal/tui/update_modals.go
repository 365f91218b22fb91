package tui

import (
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/retest/internal/highlight"
	"github.com/xonecas/retest/internal/tui/modal"
)

func (m *Model) openHistoryPicker() {
	patterns := m.store.Recent(historyLimit)
	items := make([]modal.Item, len(patterns))
	for i, p := range patterns {
		items[i] = modal.Item{Name: p}
		if p == m.pattern.Value() {
			items[i].Desc = "current"
		}
	}
	md := modal.New("pattern history", modal.SubstringFilter(items), m.styles.modalColors())
	m.picker = &md
	m.pickerKind = pickHistory
}

func (m *Model) openThemePicker() {
	names := highlight.Themes()
	items := make([]modal.Item, len(names))
	for i, name := range names {
		items[i] = modal.Item{Name: name}
		if name == m.theme {
			items[i].Desc = "current"
		}
	}
	md := modal.New("theme", modal.SubstringFilter(items), m.styles.modalColors())
	m.picker = &md
	m.pickerKind = pickTheme
}

// updatePicker routes msg to the open picker and applies its action.
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, isMouse := msg.(tea.MouseMsg); isMouse {
		return m, nil
	}
	action, cmd := m.picker.HandleMsg(msg)
	switch a := action.(type) {
	case modal.ActionClose:
		m.picker = nil
		cmd = m.setFocus(m.focus)
		return m, cmd
	case modal.ActionSelect:
		m.picker = nil
		switch m.pickerKind {
		case pickHistory:
			m.histPos = -1
			m.setPattern(a.Item.Name)
			cmd = m.setFocus(focusPattern)
			return m, cmd
		case pickTheme:
			m.theme = a.Item.Name
			m.applyStyles()
			log.Info().Str("theme", m.theme).Msg("theme changed")
		}
		cmd = m.setFocus(m.focus)
		return m, cmd
	}
	return m, cmd
}
