package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"github.com/xonecas/retest/internal/match"
	"github.com/xonecas/retest/internal/pipeline"
	"github.com/xonecas/retest/internal/store"
)

const kvPattern = `(?P<key>\w+)=(\d+)`

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(opts)
	return update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func ctrl(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl} }

func typed(s string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range s {
		msgs = append(msgs, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return msgs
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "session.db"), store.HistoryTTL)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestNewRunsInitialCycle(t *testing.T) {
	m := newModel(t, Options{Pattern: kvPattern, Text: "a=1\nnope\nb=22"})

	s := m.Summary()
	if s.Outcome != pipeline.OutcomeMatched || s.Lines != 2 || s.Groups != 4 {
		t.Fatalf("summary = %+v", s)
	}
	if m.results.Len() != 6 {
		t.Errorf("results has %d rows, want 6", m.results.Len())
	}
	if got := len(m.text.Highlights(0)); got != 3 {
		t.Errorf("line 1 has %d highlights, want 3", got)
	}
	if got := len(m.text.Highlights(1)); got != 0 {
		t.Errorf("line 2 has %d highlights, want 0", got)
	}
	if txt, _ := m.results.Text("r2"); txt != `Group: 1 - (key): "a"` {
		t.Errorf("first group row = %q", txt)
	}	if got := m.pipeline.Detector().Fired(); got != 0 {
		t.Errorf("loading the inputs fired %d recomputes, want 0", got)
	}
}

func TestTypingRecomputes(t *testing.T) {
	m := newModel(t, Options{Text: "abc\nxbz"})
	if m.Summary().Outcome != pipeline.OutcomeIdle {
		t.Fatalf("empty pattern should be idle, got %v", m.Summary().Outcome)
	}

	fired := m.pipeline.Detector().Fired()
	m = update(t, m, typed("b")...)
	if got := m.pipeline.Detector().Fired(); got != fired+1 {
		t.Fatalf("one keystroke fired %d cycles", got-fired)
	}
	if s := m.Summary(); s.Outcome != pipeline.OutcomeMatched || s.Lines != 2 {
		t.Errorf("summary = %+v", s)
	}

	// Cursor movement is not a content change.
	fired = m.pipeline.Detector().Fired()
	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyLeft}, tea.KeyPressMsg{Code: tea.KeyRight})
	if got := m.pipeline.Detector().Fired(); got != fired {
		t.Errorf("cursor movement fired %d cycles", got-fired)
	}
}

func TestTextEditsRecompute(t *testing.T) {
	m := newModel(t, Options{Pattern: `\d+`, Text: "a"})
	if m.Summary().Outcome != pipeline.OutcomeNoMatch {
		t.Fatalf("outcome = %v", m.Summary().Outcome)
	}
	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != focusText {
		t.Fatalf("focus = %d", m.focus)
	}
	m = update(t, m, tea.PasteMsg{Content: "\n42"})
	if s := m.Summary(); s.Outcome != pipeline.OutcomeMatched || s.Lines != 1 {
		t.Errorf("after paste: %+v", s)
	}
	if got := m.text.Highlights(1); len(got) != 1 || got[0].Start != 0 || got[0].End != 2 {
		t.Errorf("highlights on line 2 = %+v", got)
	}
}

func TestErrorClearsResults(t *testing.T) {
	m := newModel(t, Options{Pattern: "a", Text: "a"})
	if m.results.Len() != 1 {
		t.Fatalf("rows = %d", m.results.Len())
	}
	m = update(t, m, typed("(")...)
	if m.Summary().Outcome != pipeline.OutcomeError || m.errMsg == "" {
		t.Fatalf("expected an error, got %+v (%q)", m.Summary(), m.errMsg)
	}
	if m.results.Len() != 0 || len(m.text.Highlights(0)) != 0 {
		t.Error("an error must leave no rows or highlights")
	}
	if !strings.Contains(ansi.Strip(m.renderContent()), "invalid pattern") {
		t.Error("status bar should report the error")
	}

	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	if m.errMsg != "" || m.Summary().Outcome != pipeline.OutcomeMatched {
		t.Errorf("fixing the pattern should clear the error: %q %v", m.errMsg, m.Summary().Outcome)
	}
}

func TestEngineToggle(t *testing.T) {
	m := newModel(t, Options{Pattern: `(a)\1`, Text: "aa"})
	if m.Summary().Outcome != pipeline.OutcomeError {
		t.Fatalf("re2 should reject backreferences, got %v", m.Summary().Outcome)
	}

	m = update(t, m, ctrl('g'))
	if m.Engine() != match.EngineBacktrack {
		t.Fatalf("engine = %s", m.Engine())
	}
	if s := m.Summary(); s.Outcome != pipeline.OutcomeMatched || s.Groups != 1 {
		t.Errorf("backtrack summary = %+v", s)
	}

	m = update(t, m, ctrl('g'))
	if m.Engine() != match.EngineRE2 || m.Summary().Outcome != pipeline.OutcomeError {
		t.Errorf("toggling back: %s %v", m.Engine(), m.Summary().Outcome)
	}
}

func TestEngineOption(t *testing.T) {
	m := New(Options{Pattern: `a(?=b)`, Text: "ab", Engine: match.EngineBacktrack})
	if m.Summary().Outcome != pipeline.OutcomeMatched {
		t.Errorf("lookahead under backtrack: %v", m.Summary().Outcome)
	}
}

func TestFocusCycle(t *testing.T) {
	m := newModel(t, Options{})
	want := []focusArea{focusText, focusResults, focusPattern}
	for _, f := range want {
		m = update(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
		if m.focus != f {
			t.Fatalf("focus = %d, want %d", m.focus, f)
		}
	}
	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if m.focus != focusResults || !m.results.Focused() || m.pattern.Focused() {
		t.Errorf("shift+tab: focus = %d", m.focus)
	}
}

func TestResultsToggle(t *testing.T) {
	m := newModel(t, Options{Pattern: `(a)`, Text: "a"})
	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyTab}, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.results.Visible() != 2 {
		t.Fatalf("visible = %d", m.results.Visible())
	}
	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.results.Visible() != 1 {
		t.Errorf("enter should collapse the line row, visible = %d", m.results.Visible())
	}
}

func TestHistoryRecall(t *testing.T) {
	st := openStore(t)
	st.Remember("a+")
	st.Remember("b+")

	m := newModel(t, Options{Store: st, Pattern: "draft", Text: "aab"})
	m = update(t, m, ctrl('p'))
	if m.pattern.Value() != "b+" {
		t.Fatalf("first recall = %q", m.pattern.Value())
	}
	if s := m.Summary(); s.Outcome != pipeline.OutcomeMatched {
		t.Errorf("recall should recompute, got %v", s.Outcome)
	}
	m = update(t, m, ctrl('p'), ctrl('p'))
	if m.pattern.Value() != "a+" {
		t.Fatalf("second recall = %q", m.pattern.Value())
	}
	m = update(t, m, ctrl('n'), ctrl('n'))
	if m.pattern.Value() != "draft" {
		t.Errorf("walking forward should restore the draft, got %q", m.pattern.Value())
	}
}

func TestHistoryPicker(t *testing.T) {
	st := openStore(t)
	st.Remember(`\d+`)
	st.Remember(`[a-z]+`)

	m := newModel(t, Options{Store: st, Text: "abc 123"})
	m = update(t, m, ctrl('r'))
	if m.picker == nil {
		t.Fatal("ctrl+r should open the picker")
	}
	if !strings.Contains(ansi.Strip(m.picker.View(60, 20)), "pattern history") {
		t.Error("picker not drawn")
	}
	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyDown}, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.picker != nil {
		t.Fatal("selecting should close the picker")
	}
	if m.pattern.Value() != `\d+` {
		t.Errorf("pattern = %q", m.pattern.Value())
	}
	if txt, _ := m.results.Text("r1"); txt != `Line: 1 - Full match: "123"` {
		t.Errorf("row = %q", txt)
	}

	// esc closes the picker without quitting.
	m = update(t, m, ctrl('t'))
	if m.picker == nil || m.pickerKind != pickTheme {
		t.Fatal("ctrl+t should open the theme picker")
	}
	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.picker != nil || m.pattern.Value() != `\d+` {
		t.Error("esc should close the theme picker and nothing else")
	}
}

func TestThemePicker(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, ctrl('t'))
	m = update(t, m, typed("monokai")...)
	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.picker != nil {
		t.Fatal("picker still open")
	}
	// Filtering is debounced, so enter picks from the unfiltered list.
	if m.theme == "vulcan" || m.theme == "" {
		t.Errorf("theme = %q", m.theme)
	}
	if m.styles.palette.Bg == "" {
		t.Error("styles not rebuilt")
	}
}

func TestQuitSavesSession(t *testing.T) {
	st := openStore(t)
	m := newModel(t, Options{Store: st, Restore: true, Pattern: "b", Text: "abc"})

	_, cmd := m.Update(ctrl('c'))
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}

	sess, ok := st.Load()
	require.True(t, ok)
	require.Equal(t, "b", sess.Pattern)
	require.Equal(t, "abc", sess.Text)
	require.Equal(t, "re2", sess.Engine)
	require.Equal(t, []string{"b"}, st.Recent(10))

	restored := New(Options{Store: st, Restore: true})
	if restored.pattern.Value() != "b" || restored.Summary().Outcome != pipeline.OutcomeMatched {
		t.Errorf("restored pattern %q outcome %v", restored.pattern.Value(), restored.Summary().Outcome)
	}
}

func TestQuitSkipsInvalidPatterns(t *testing.T) {
	st := openStore(t)
	m := newModel(t, Options{Store: st, Pattern: "(", Text: "x"})
	m.Update(ctrl('c'))
	if got := st.Recent(10); len(got) != 0 {
		t.Errorf("invalid pattern remembered: %q", got)
	}
	if _, ok := st.Load(); ok {
		t.Error("session saved without restore enabled")
	}
}

func TestCopy(t *testing.T) {
	m := newModel(t, Options{Pattern: "a+", Text: "caab"})
	next, cmd := m.Update(ctrl('y'))
	m = next.(Model)
	if cmd == nil || !strings.HasPrefix(m.notice, "copied") {
		t.Errorf("pattern copy: cmd=%v notice=%q", cmd != nil, m.notice)
	}

	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if _, cmd := m.Update(ctrl('y')); cmd != nil {
		t.Error("text pane without a selection has nothing to copy")
	}
}

func TestViewLayout(t *testing.T) {
	m := newModel(t, Options{Pattern: kvPattern, Text: "a=1\nnope\nb=22"})
	out := m.renderContent()
	lines := strings.Split(out, "\n")
	if len(lines) != 20 {
		t.Fatalf("view has %d lines, want 20", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 60 {
			t.Errorf("line %d: width=%d (want 60): %q", i, w, ansi.Strip(l))
		}
	}

	stripped := ansi.Strip(out)
	for _, want := range []string{"re: ", kvPattern, " text ", " results ", `▾ Line: 1 - Full match: "a=1"`, "2 lines · 4 groups", "re2"} {
		if !strings.Contains(stripped, want) {
			t.Errorf("view missing %q", want)
		}
	}

	v := m.View()
	if !v.AltScreen || v.WindowTitle != "retest" {
		t.Errorf("view flags: alt=%v title=%q", v.AltScreen, v.WindowTitle)
	}
}

func TestErrorBarWraps(t *testing.T) {
	m := newModel(t, Options{Pattern: "(", Text: "x"})
	m = update(t, m, tea.WindowSizeMsg{Width: 24, Height: 20})
	lines := strings.Split(ansi.Strip(m.renderContent()), "\n")
	bar := lines[m.layout.errBar : m.layout.errBar+errorRows]
	if strings.TrimSpace(bar[0]) == "" || strings.TrimSpace(bar[1]) == "" {
		t.Errorf("error should span both rows: %q", bar)
	}
}

func TestMouseClickFocuses(t *testing.T) {
	m := newModel(t, Options{Pattern: "x", Text: "one\ntwo"})
	y := m.layout.text.Min.Y + 1
	m = update(t, m,
		tea.MouseClickMsg{X: 5, Y: y, Button: tea.MouseLeft},
		tea.MouseReleaseMsg{X: 5, Y: y, Button: tea.MouseLeft},
	)
	if m.focus != focusText {
		t.Fatalf("focus = %d", m.focus)
	}
	if row, _ := m.text.Cursor(); row != 1 {
		t.Errorf("cursor row = %d", row)
	}

	m = update(t, m, tea.MouseClickMsg{X: 1, Y: m.layout.results.Min.Y, Button: tea.MouseLeft})
	if m.focus != focusResults {
		t.Errorf("click on results: focus = %d", m.focus)
	}
}
