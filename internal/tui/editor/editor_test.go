package editor

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/xonecas/retest/internal/pipeline"
)

func keyText(s string) tea.KeyPressMsg {
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func focused(value string) Model {
	ed := New()
	ed.SetWidth(40)
	ed.SetHeight(5)
	ed.SetValue(value)
	ed.Focus()
	return ed
}

func send(t *testing.T, ed Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		ed, _ = ed.Update(msg)
	}
	return ed
}

func TestEditKinds(t *testing.T) {
	tests := []struct {
		name  string
		value string
		msgs  []tea.Msg
		want  pipeline.EditKind
		text  string
	}{
		{"typing inserts", "", []tea.Msg{keyText("a")}, pipeline.EditInsert, "a"},
		{"space inserts", "a", []tea.Msg{tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}}, pipeline.EditInsert, "a "},
		{"arrow moves", "ab", []tea.Msg{tea.KeyPressMsg{Code: tea.KeyLeft}}, pipeline.EditMove, "ab"},
		{"backspace deletes", "ab", []tea.Msg{tea.KeyPressMsg{Code: tea.KeyBackspace}}, pipeline.EditDelete, "a"},
		{"backspace at start is a no-op", "", []tea.Msg{tea.KeyPressMsg{Code: tea.KeyBackspace}}, pipeline.EditNone, ""},
		{"delete at end is a no-op", "ab", []tea.Msg{tea.KeyPressMsg{Code: tea.KeyDelete}}, pipeline.EditNone, "ab"},
		{"enter splits", "ab", []tea.Msg{tea.KeyPressMsg{Code: tea.KeyLeft}, tea.KeyPressMsg{Code: tea.KeyEnter}}, pipeline.EditInsert, "a\nb"},
		{"kill to end", "abc", []tea.Msg{tea.KeyPressMsg{Code: tea.KeyHome}, tea.KeyPressMsg{Code: 'k', Mod: tea.ModCtrl}}, pipeline.EditDelete, ""},
		{"kill to start", "abc", []tea.Msg{tea.KeyPressMsg{Code: tea.KeyLeft}, tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl}}, pipeline.EditDelete, "c"},
		{
			"typing over a selection replaces", "abc",
			[]tea.Msg{
				tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModShift},
				tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModShift},
				keyText("X"),
			},
			pipeline.EditReplace, "aX",
		},
		{"paste inserts", "a", []tea.Msg{tea.PasteMsg{Content: "b\r\nc"}}, pipeline.EditInsert, "ab\nc"},
		{"empty paste does nothing", "a", []tea.Msg{tea.PasteMsg{}}, pipeline.EditNone, "a"},
		{"unhandled message", "a", []tea.Msg{tea.WindowSizeMsg{Width: 3}}, pipeline.EditNone, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := send(t, focused(tt.value), tt.msgs...)
			if got := ed.LastEdit(); got != tt.want {
				t.Errorf("LastEdit() = %v, want %v", got, tt.want)
			}
			if got := ed.Value(); got != tt.text {
				t.Errorf("Value() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestSetValueIsAReread(t *testing.T) {
	ed := New()
	ed.SetValue("abc")
	if got := ed.LastEdit(); got != pipeline.EditReread {
		t.Fatalf("LastEdit() after SetValue = %v, want reread", got)
	}
	if ed.LastEdit().Mutates() {
		t.Error("a programmatic load must not count as a content edit")
	}
	ed, _ = ed.Update(tea.WindowSizeMsg{Width: 3})
	if got := ed.LastEdit(); got != pipeline.EditNone {
		t.Errorf("LastEdit() after Update = %v, want none", got)
	}
}

func TestBlurredIgnoresKeys(t *testing.T) {
	ed := New()
	ed.SetValue("a")
	ed = send(t, ed, keyText("b"))
	if ed.Value() != "a" || ed.LastEdit() != pipeline.EditNone {
		t.Errorf("blurred editor changed: %q (%v)", ed.Value(), ed.LastEdit())
	}
}

func TestSingleLine(t *testing.T) {
	ed := New()
	ed.SingleLine = true
	ed.SetValue("a\nb")
	if ed.Value() != "a b" {
		t.Fatalf("SetValue should flatten newlines, got %q", ed.Value())
	}
	ed.Focus()

	ed = send(t, ed, tea.KeyPressMsg{Code: tea.KeyEnter})
	if ed.LastEdit() != pipeline.EditNone || ed.LineCount() != 1 {
		t.Errorf("enter must be ignored in single-line mode: %v, %d lines", ed.LastEdit(), ed.LineCount())
	}

	ed = send(t, ed, tea.PasteMsg{Content: "x\ny"})
	if ed.Value() != "a bx y" || ed.LastEdit() != pipeline.EditInsert {
		t.Errorf("paste = %q (%v)", ed.Value(), ed.LastEdit())
	}
}

func TestSelectionAcrossLines(t *testing.T) {
	ed := focused("ab\ncd\nef")
	ed = send(t, ed,
		tea.KeyPressMsg{Code: tea.KeyUp},
		tea.KeyPressMsg{Code: tea.KeyLeft},
		tea.KeyPressMsg{Code: tea.KeyDown, Mod: tea.ModShift},
	)
	if got := ed.SelectedText(); got != "d\ne" {
		t.Fatalf("SelectedText() = %q", got)
	}
	ed = send(t, ed, tea.KeyPressMsg{Code: tea.KeyBackspace})
	if ed.Value() != "ab\ncf" || ed.LastEdit() != pipeline.EditDelete {
		t.Errorf("after delete: %q (%v)", ed.Value(), ed.LastEdit())
	}
	if ed.HasSelection() {
		t.Error("selection should be gone")
	}

	ed.SelectAll()
	if ed.SelectedText() != "ab\ncf" {
		t.Errorf("SelectAll selected %q", ed.SelectedText())
	}
	if kind := ed.InsertText("z"); kind != pipeline.EditReplace || ed.Value() != "z" {
		t.Errorf("InsertText over selection = %v, %q", kind, ed.Value())
	}
}

func TestLinesSnapshot(t *testing.T) {
	ed := focused("one\n\nthree")
	lines := ed.Lines()
	if len(lines) != 3 || lines[1] != "" || lines[2] != "three" {
		t.Fatalf("Lines() = %q", lines)
	}
	lines[0] = "changed"
	if ed.Lines()[0] != "one" {
		t.Error("Lines must return a copy")
	}
}

func TestHighlights(t *testing.T) {
	ed := New()
	ed.SetWidth(20)
	ed.SetHeight(2)
	ed.SetValue("a=1\nb=2")
	ed.HighlightStyle = func(layer int) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true)
	}
	plain := ed.View()

	ed.AddHighlight(0, 0, 3, -1)
	ed.AddHighlight(0, 0, 1, 1)
	if got := len(ed.Highlights(0)); got != 2 {
		t.Fatalf("Highlights(0) has %d spans", got)
	}
	painted := ed.View()
	if painted == plain {
		t.Error("highlights did not change the rendering")
	}
	if ansi.Strip(painted) != ansi.Strip(plain) {
		t.Errorf("highlights must not change text:\n%q\n%q", ansi.Strip(painted), ansi.Strip(plain))
	}

	ed.ClearHighlights()
	if len(ed.Highlights(0)) != 0 || ed.View() != plain {
		t.Error("ClearHighlights should restore the plain rendering")
	}
}

func TestViewWidths(t *testing.T) {
	ed := New()
	ed.ShowLineNumbers = true
	ed.SetWidth(30)
	ed.SetHeight(6)
	ed.SetValue("\t\tkey = value\nhéllo wörld\n" + strings.Repeat("x", 60))
	ed.AddHighlight(0, 2, 5, 1)
	ed.AddHighlight(2, 10, 50, 2)
	ed.HighlightStyle = func(int) lipgloss.Style { return lipgloss.NewStyle().Reverse(true) }
	ed.Focus()

	for i, line := range strings.Split(ed.View(), "\n") {
		if w := lipgloss.Width(line); w != 30 {
			t.Errorf("line %d: width=%d (want 30)", i, w)
		}
	}
}

func TestViewGutterAndScroll(t *testing.T) {
	ed := New()
	ed.ShowLineNumbers = true
	ed.SetWidth(10)
	ed.SetHeight(2)
	ed.SetValue("a\nb\nc")

	got := strings.Split(ansi.Strip(ed.View()), "\n")
	want := []string{" 2 b      ", " 3 c      "}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("view = %q, want %q", got, want)
	}
}

func TestHorizontalScroll(t *testing.T) {
	ed := New()
	ed.SingleLine = true
	ed.SetWidth(5)
	ed.SetHeight(1)
	ed.SetValue("abcdefghij")

	if got := ansi.Strip(ed.View()); got != "ghij " {
		t.Errorf("view = %q, want %q", got, "ghij ")
	}

	ed.Focus()
	ed = send(t, ed, tea.KeyPressMsg{Code: tea.KeyHome})
	if got := ansi.Strip(ed.View()); got != "abcde" {
		t.Errorf("after home view = %q, want %q", got, "abcde")
	}
}

func TestPlaceholder(t *testing.T) {
	ed := New()
	ed.Placeholder = "type a regex"
	ed.SetWidth(8)
	ed.SetHeight(2)
	got := strings.Split(ansi.Strip(ed.View()), "\n")
	if got[0] != "type a …" || got[1] != "        " {
		t.Errorf("placeholder view = %q", got)
	}
}

func TestExpandTabs(t *testing.T) {
	cases := []struct {
		in   string
		want int // visual width (all chars are ASCII, so rune count = display width)
	}{
		{"\thello", 4 + 5},       // 1 tab (4 spaces) + "hello"
		{"\t\thello", 4 + 4 + 5}, // 2 tabs + "hello"
		{"ab\tc", 2 + 2 + 1},     // "ab" then tab to col 4, then "c"
		{"no tabs", 7},
	}
	for _, tc := range cases {
		got := expandTabs(tc.in)
		if w := len([]rune(got)); w != tc.want {
			t.Errorf("expandTabs(%q) width=%d, want %d (got %q)", tc.in, w, tc.want, got)
		}
		cols := expandedCols([]rune(tc.in))
		if cols[len(cols)-1] != tc.want {
			t.Errorf("expandedCols(%q) ends at %d, want %d", tc.in, cols[len(cols)-1], tc.want)
		}
	}
}

func TestMouseClickPlacesCursor(t *testing.T) {
	ed := focused("abc\n\tdef")
	ed = send(t, ed, tea.MouseClickMsg{X: 5, Y: 1, Button: tea.MouseLeft}, tea.MouseReleaseMsg{X: 5, Y: 1, Button: tea.MouseLeft})
	row, col := ed.Cursor()
	if row != 1 || col != 2 {
		t.Errorf("cursor = (%d, %d), want (1, 2)", row, col)
	}
	if ed.HasSelection() {
		t.Error("click without drag should not select")
	}
}
