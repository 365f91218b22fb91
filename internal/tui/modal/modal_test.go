package modal

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

var testColors = Colors{Fg: "#ccc", Bg: "#111", Dim: "#666", SelFg: "#fff", SelBg: "#444", Border: "#555"}

var history = []Item{
	{Name: `(\w+)=(\d+)`, Desc: "2 days ago"},
	{Name: `^\s*#`},
	{Name: `(?P<year>\d{4})-(?P<month>\d{2})`},
}

func key(ch rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: ch, Text: string(ch)}
}

func special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// typeQuery types s and fires the debounce for the final keystroke.
func typeQuery(m *Model, s string) {
	for _, r := range s {
		m.HandleMsg(key(r))
	}
	m.HandleMsg(debounceMsg{seq: m.seq})
}

func TestEscapeCloses(t *testing.T) {
	m := New("history", SubstringFilter(history), testColors)
	a, _ := m.HandleMsg(special(tea.KeyEscape))
	if _, ok := a.(ActionClose); !ok {
		t.Fatalf("expected ActionClose, got %T", a)
	}
}

func TestEnterSelectsFirst(t *testing.T) {
	m := New("history", SubstringFilter(history), testColors)
	a, _ := m.HandleMsg(special(tea.KeyEnter))
	sel, ok := a.(ActionSelect)
	if !ok {
		t.Fatalf("expected ActionSelect, got %T", a)
	}
	if sel.Item.Name != history[0].Name {
		t.Fatalf("selected %q", sel.Item.Name)
	}
}

func TestNavigationClamps(t *testing.T) {
	m := New("history", SubstringFilter(history), testColors)
	m.HandleMsg(special(tea.KeyUp))
	for i := 0; i < 5; i++ {
		m.HandleMsg(special(tea.KeyDown))
	}
	a, _ := m.HandleMsg(special(tea.KeyEnter))
	if sel := a.(ActionSelect); sel.Item.Name != history[2].Name {
		t.Fatalf("expected last item, got %q", sel.Item.Name)
	}
}

func TestFilterAfterDebounce(t *testing.T) {
	m := New("history", SubstringFilter(history), testColors)
	_, cmd := m.HandleMsg(key('Y'))
	if cmd == nil {
		t.Fatal("expected debounce cmd")
	}
	if len(m.Items()) != 3 {
		t.Fatal("items must not change before the debounce fires")
	}
	typeQuery(&m, "ear")
	if m.Query() != "Year" {
		t.Fatalf("query = %q", m.Query())
	}
	if len(m.Items()) != 1 || !strings.Contains(m.Items()[0].Name, "year") {
		t.Fatalf("filtered items = %v", m.Items())
	}
}

func TestStaleDebounceIgnored(t *testing.T) {
	calls := 0
	filter := func(q string) []Item {
		if q != "" {
			calls++
		}
		return nil
	}
	m := New("history", filter, testColors)
	m.HandleMsg(key('a'))
	stale := m.seq
	m.HandleMsg(key('b'))
	m.HandleMsg(debounceMsg{seq: stale})
	if calls != 0 {
		t.Fatalf("stale debounce ran the filter %d times", calls)
	}
}

func TestQueryEditing(t *testing.T) {
	m := New("history", SubstringFilter(history), testColors)
	typeQuery(&m, "abc")
	m.HandleMsg(special(tea.KeyLeft))
	m.HandleMsg(special(tea.KeyBackspace))
	if m.Query() != "ac" {
		t.Fatalf("after backspace: %q", m.Query())
	}
	m.HandleMsg(tea.PasteMsg{Content: "x\ny"})
	if m.Query() != "ax yc" {
		t.Fatalf("after paste: %q", m.Query())
	}
	m.HandleMsg(tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl})
	if m.Query() != "c" {
		t.Fatalf("after ctrl+u: %q", m.Query())
	}
}

func TestEmptyResultsEnterNoAction(t *testing.T) {
	m := New("themes", func(string) []Item { return nil }, testColors)
	a, _ := m.HandleMsg(special(tea.KeyEnter))
	if a != nil {
		t.Fatalf("expected nil action, got %T", a)
	}
	if !strings.Contains(ansi.Strip(m.View(60, 20)), "no matches") {
		t.Error("empty list should say so")
	}
}

func TestViewRenders(t *testing.T) {
	m := New("pattern history", SubstringFilter(history), testColors)
	v := ansi.Strip(m.View(80, 24))
	lines := strings.Split(v, "\n")
	if len(lines) != 24 {
		t.Fatalf("view has %d lines, want 24", len(lines))
	}
	for _, want := range []string{"pattern history", "> ", history[1].Name, "2 days ago"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
