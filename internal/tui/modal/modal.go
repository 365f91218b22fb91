// Package modal provides a filterable pick-list overlay: a one-line query
// input above a list of items, refreshed after a short debounce.
package modal

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Action is the result of handling a message. nil means no action.
type Action any

// ActionClose signals the modal should be dismissed.
type ActionClose struct{}

// ActionSelect signals an item was chosen.
type ActionSelect struct{ Item Item }

// Item is a single entry in the list.
type Item struct {
	Name string
	Desc string
}

// FilterFunc produces the items matching query.
type FilterFunc func(query string) []Item

// Colors holds the theme colors for the modal.
type Colors struct {
	Fg     string
	Bg     string
	Dim    string
	SelFg  string
	SelBg  string
	Border string
}

const debounceDelay = 150 * time.Millisecond

// debounceMsg is sent after the debounce timer fires.
type debounceMsg struct{ seq int }

// Model is a query input over a selectable list.
type Model struct {
	Title string

	query    []rune
	cursor   int
	items    []Item
	selected int

	filter FilterFunc
	seq    int // debounce sequence counter
	colors Colors
}

// New creates a modal listing filter("") initially.
func New(title string, filter FilterFunc, colors Colors) Model {
	return Model{
		Title:  title,
		filter: filter,
		colors: colors,
		items:  filter(""),
	}
}

// Items returns the currently listed items.
func (m Model) Items() []Item { return m.items }

// Query returns the current filter text.
func (m Model) Query() string { return string(m.query) }

// debounce schedules a refilter for the current query.
func (m *Model) debounce() tea.Cmd {
	m.seq++
	seq := m.seq
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// HandleMsg processes a tea.Msg and returns an optional Action plus a
// tea.Cmd the parent must dispatch.
func (m *Model) HandleMsg(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case tea.PasteMsg:
		m.insert(msg.Content)
		return nil, m.debounce()
	case debounceMsg:
		// Stale timers from earlier keystrokes are dropped.
		if msg.seq == m.seq {
			m.items = m.filter(string(m.query))
			m.selected = 0
		}
	}
	return nil, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (Action, tea.Cmd) {
	switch msg.Keystroke() {
	case "esc", "ctrl+c":
		return ActionClose{}, nil
	case "enter":
		if len(m.items) == 0 {
			return nil, nil
		}
		return ActionSelect{Item: m.items[min(m.selected, len(m.items)-1)]}, nil
	case "up", "ctrl+p":
		m.selected = max(m.selected-1, 0)
	case "down", "ctrl+n", "tab":
		m.selected = min(m.selected+1, max(len(m.items)-1, 0))
	case "left":
		m.cursor = max(m.cursor-1, 0)
	case "right":
		m.cursor = min(m.cursor+1, len(m.query))
	case "home", "ctrl+a":
		m.cursor = 0
	case "end", "ctrl+e":
		m.cursor = len(m.query)
	case "backspace":
		if m.cursor == 0 {
			return nil, nil
		}
		m.query = append(m.query[:m.cursor-1], m.query[m.cursor:]...)
		m.cursor--
		return nil, m.debounce()
	case "ctrl+u":
		m.query = m.query[m.cursor:]
		m.cursor = 0
		return nil, m.debounce()
	default:
		if msg.Text == "" {
			return nil, nil
		}
		m.insert(msg.Text)
		return nil, m.debounce()
	}
	return nil, nil
}

func (m *Model) insert(text string) {
	text = strings.ReplaceAll(text, "\n", " ")
	rs := []rune(text)
	q := make([]rune, 0, len(m.query)+len(rs))
	q = append(q, m.query[:m.cursor]...)
	q = append(q, rs...)
	q = append(q, m.query[m.cursor:]...)
	m.query = q
	m.cursor += len(rs)
}

// View renders the modal centered in an appWidth x appHeight area.
func (m Model) View(appWidth, appHeight int) string {
	w := max(appWidth*70/100, 30)
	h := max(appHeight*60/100, 8)
	innerW := max(w-4, 10) // border + padding

	bg := lipgloss.Color(m.colors.Bg)
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors.Fg)).Background(bg)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors.Dim)).Background(bg)
	sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors.SelFg)).Background(lipgloss.Color(m.colors.SelBg))

	lines := []string{
		dim.Render(fit(m.Title, innerW)),
		m.renderQuery(base, innerW),
		dim.Render(strings.Repeat("─", innerW)),
	}
	listH := max(h-2-len(lines), 1)

	scrollOff := max(m.selected-listH+1, 0)
	for i := scrollOff; i < len(m.items) && i-scrollOff < listH; i++ {
		it := m.items[i]
		if i == m.selected {
			lines = append(lines, sel.Render(fit(it.Name, innerW)))
			continue
		}
		name := ansi.Truncate(it.Name, innerW, "…")
		line := base.Render(name)
		if it.Desc != "" {
			if room := innerW - ansi.StringWidth(name) - 2; room > 0 {
				line += dim.Render("  " + ansi.Truncate(it.Desc, room, "…"))
			}
		}
		if pad := innerW - lipgloss.Width(line); pad > 0 {
			line += base.Render(strings.Repeat(" ", pad))
		}
		lines = append(lines, line)
	}
	if len(m.items) == 0 {
		lines = append(lines, dim.Render(fit("no matches", innerW)))
	}
	for len(lines) < h-2 {
		lines = append(lines, base.Render(strings.Repeat(" ", innerW)))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.colors.Border)).
		BorderBackground(bg).
		Background(bg).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(appWidth, appHeight, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceStyle(lipgloss.NewStyle().Background(bg)))
}

func (m Model) renderQuery(base lipgloss.Style, width int) string {
	before := string(m.query[:m.cursor])
	cursorChar := " "
	after := ""
	if m.cursor < len(m.query) {
		cursorChar = string(m.query[m.cursor])
		after = string(m.query[m.cursor+1:])
	}
	line := base.Render("> "+before) + base.Reverse(true).Render(cursorChar) + base.Render(after)
	line = ansi.Truncate(line, width, "")
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += base.Render(strings.Repeat(" ", pad))
	}
	return line
}

// fit truncates or right-pads plain text to exactly w cells.
func fit(s string, w int) string {
	s = ansi.Truncate(s, w, "…")
	if n := ansi.StringWidth(s); n < w {
		s += strings.Repeat(" ", w-n)
	}
	return s
}

// SubstringFilter returns a FilterFunc over items that keeps entries whose
// name contains the query, case-insensitively, in their original order.
func SubstringFilter(items []Item) FilterFunc {
	return func(query string) []Item {
		q := strings.ToLower(strings.TrimSpace(query))
		if q == "" {
			return items
		}
		var out []Item
		for _, it := range items {
			if strings.Contains(strings.ToLower(it.Name), q) {
				out = append(out, it)
			}
		}
		return out
	}
}
