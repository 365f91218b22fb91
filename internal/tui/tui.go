// Package tui is the interactive regex tester: a pattern bar, a test-text
// editor and a results tree, recomputed on every content edit.
package tui

import (
	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/retest/internal/config"
	"github.com/xonecas/retest/internal/match"
	"github.com/xonecas/retest/internal/pipeline"
	"github.com/xonecas/retest/internal/store"
	"github.com/xonecas/retest/internal/tui/editor"
	"github.com/xonecas/retest/internal/tui/modal"
	"github.com/xonecas/retest/internal/tui/tree"
)

type focusArea int

const (
	focusPattern focusArea = iota
	focusText
	focusResults
	focusCount
)

type pickerKind int

const (
	pickHistory pickerKind = iota
	pickTheme
)

// historyLimit caps the patterns offered by the picker and ctrl+p.
const historyLimit = 100

// Options configures a new Model.
type Options struct {
	Config *config.Config
	// Store persists the session and pattern history. Nil disables both.
	Store *store.Store
	// Restore loads the saved session when Pattern and Text are empty.
	Restore bool

	Pattern string
	Text    string
	// Engine overrides both the configured and the restored engine.
	Engine match.EngineKind
}

// Model is the application model.
type Model struct {
	width  int
	height int
	layout layout

	cfg      *config.Config
	store    *store.Store
	restore  bool
	pipeline *pipeline.Pipeline
	engine   match.EngineKind
	summary  pipeline.Summary

	pattern editor.Model
	text    editor.Model
	results tree.Model
	focus   focusArea

	errMsg string
	notice string

	theme  string
	styles styles
	keys   keyMap
	help   help.Model

	picker     *modal.Model
	pickerKind pickerKind

	// Pattern history walk: histPos is -1 when not walking.
	history   []string
	histPos   int
	histDraft string
}

var _ pipeline.Host = (*Model)(nil)

// New creates the model and runs one recompute over the initial inputs.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	m := Model{
		cfg:     cfg,
		store:   opts.Store,
		restore: opts.Restore,
		engine:  cfg.EngineKind(),
		theme:   cfg.UI.SyntaxThemeOrDefault(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		pattern: editor.New(),
		text:    editor.New(),
		results: tree.New(),
		histPos: -1,
	}

	pattern, text := opts.Pattern, opts.Text
	if opts.Restore && pattern == "" && text == "" {
		if sess, ok := m.store.Load(); ok {
			pattern, text = sess.Pattern, sess.Text
			if k, err := match.ParseEngine(sess.Engine); err == nil && sess.Engine != "" {
				m.engine = k
			}
			log.Info().Str("engine", string(m.engine)).Msg("session restored")
		}
	}

	if opts.Engine != "" {
		m.engine = opts.Engine
	}
	m.pipeline = pipeline.New(m.newResolver(m.engine), len(cfg.Palette.GroupColors))

	m.pattern.SingleLine = true
	m.pattern.Placeholder = "type a regular expression"
	m.text.ShowLineNumbers = cfg.UI.LineNumbers
	m.text.Placeholder = "test text, one subject per line"
	m.applyStyles()

	m.pattern.SetValue(pattern)
	m.text.SetValue(text)
	m.afterEdit(pipeline.SourcePattern, m.pattern.LastEdit())
	m.afterEdit(pipeline.SourceText, m.text.LastEdit())
	m.setFocus(focusPattern)
	m.summary = m.pipeline.Run(&m)
	return m
}

// newResolver builds a resolver for kind, falling back to RE2.
func (m *Model) newResolver(kind match.EngineKind) *match.Resolver {
	eng, err := match.NewEngine(kind, m.cfg.MatchTimeout())
	if err != nil {
		log.Warn().Err(err).Msg("engine unavailable, using re2")
		m.engine = match.EngineRE2
		eng = match.RE2()
	}
	return match.NewResolver(eng)
}

// applyStyles rebuilds styles for the current theme and pushes them to the
// sub-models.
func (m *Model) applyStyles() {
	m.styles = newStyles(m.cfg.Palette, m.theme)
	s := m.styles

	for _, ed := range []*editor.Model{&m.pattern, &m.text} {
		ed.TextStyle = s.Base
		ed.LineNumStyle = s.Dim
		ed.PlaceholderSty = s.Dim.Italic(true)
		ed.SelectionStyle = s.Selection
		ed.HighlightStyle = s.Annotation
	}
	m.results.TextStyle = s.Base
	m.results.CursorStyle = s.Cursor
	m.results.Style = s.Annotation

	m.help.Styles.ShortKey = s.Accent
	m.help.Styles.ShortDesc = s.Dim
	m.help.Styles.ShortSeparator = s.Border
	m.help.Styles.Ellipsis = s.Dim
}

// Init starts the cursor blinking in the focused editor.
func (m Model) Init() tea.Cmd {
	return m.setFocus(m.focus)
}

// setFocus moves keyboard focus to f.
func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.pattern.Blur()
	m.text.Blur()
	m.results.Blur()
	switch f {
	case focusPattern:
		return m.pattern.Focus()
	case focusText:
		return m.text.Focus()
	}
	m.results.Focus()
	return nil
}

// cycleFocus moves focus by delta panes, wrapping around.
func (m *Model) cycleFocus(delta int) tea.Cmd {
	next := (int(m.focus) + delta + int(focusCount)) % int(focusCount)
	return m.setFocus(focusArea(next))
}

// Summary returns the outcome of the latest recompute.
func (m Model) Summary() pipeline.Summary { return m.summary }

// Engine returns the engine in use.
func (m Model) Engine() match.EngineKind { return m.engine }
