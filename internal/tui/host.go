package tui

import (
	"github.com/xonecas/retest/internal/annotate"
	"github.com/xonecas/retest/internal/pipeline"
)

// The Model is the pipeline's host: it hands out snapshots of the two
// inputs and receives the rebuilt view state.

func (m *Model) PatternText() string { return m.pattern.Value() }
func (m *Model) TestLines() []string { return m.text.Lines() }

func (m *Model) ClearHighlights()   { m.text.ClearHighlights() }
func (m *Model) ClearResultRows()   { m.results.Clear() }
func (m *Model) ClearErrorMessage() { m.errMsg = "" }

func (m *Model) ShowErrorMessage(text string) { m.errMsg = text }

// AddHighlight paints a span of a 1-indexed text line.
func (m *Model) AddHighlight(line, startCol, endCol int, style annotate.Style) {
	m.text.AddHighlight(line-1, startCol, endCol, int(style))
}

func (m *Model) AddResultRow(parentID, text string, style annotate.Style) string {
	return m.results.Add(parentID, text, int(style))
}

// afterEdit reports an edit to the change detector, recomputing if it
// changed content.
func (m *Model) afterEdit(src pipeline.Source, kind pipeline.EditKind) {
	if src == pipeline.SourcePattern && kind.Mutates() {
		m.histPos = -1
	}
	if s, ok := m.pipeline.OnEdit(m, src, kind); ok {
		m.summary = s
		m.notice = ""
	}
}

// setPattern replaces the whole pattern, as a history recall does.
func (m *Model) setPattern(p string) {
	m.pattern.SetValue(p)
	if s, ok := m.pipeline.OnEdit(m, pipeline.SourcePattern, pipeline.EditReplace); ok {
		m.summary = s
	}
}
