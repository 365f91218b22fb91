// Package annotate projects resolved matches onto view instructions: inline
// highlight spans for the text view and parent/child rows for the results
// tree.
package annotate

import (
	"fmt"
	"strings"

	"github.com/xonecas/retest/internal/match"
)

// Highlight covers [Start, End) rune columns of a 1-indexed line.
// Zero-width highlights are legal and kept.
type Highlight struct {
	Line  int
	Start int
	End   int
	Style Style
}

// Row is a results tree entry. Parent is "" for top-level rows.
type Row struct {
	ID       string
	Parent   string
	Text     string
	Style    Style
	Expanded bool
}

// Plan holds the two instruction streams of one projection. Within each
// stream a line's full match precedes its groups, and groups ascend by index.
type Plan struct {
	Highlights []Highlight
	Rows       []Row
}

// Projector turns matches into a Plan.
type Projector struct {
	// PaletteSize is the number of group colors configured.
	PaletteSize int
}

// Project builds the instruction streams for matches. It is a pure
// function of its input and PaletteSize.
func (p Projector) Project(matches []match.LineMatch) Plan {
	var plan Plan
	for _, lm := range matches {
		parent := lineRowID(lm.Line)
		plan.Highlights = append(plan.Highlights, Highlight{
			Line: lm.Line, Start: lm.Span.Start, End: lm.Span.End, Style: StyleFull,
		})
		plan.Rows = append(plan.Rows, Row{
			ID:       parent,
			Text:     FullMatchText(lm.Line, lm.Text),
			Style:    StyleFull,
			Expanded: true,
		})

		for _, g := range lm.Groups {
			style := StyleFor(g.Index, p.PaletteSize)
			plan.Highlights = append(plan.Highlights, Highlight{
				Line: lm.Line, Start: g.Span.Start, End: g.Span.End, Style: style,
			})
			plan.Rows = append(plan.Rows, Row{
				ID:     groupRowID(lm.Line, g.Index),
				Parent: parent,
				Text:   GroupText(g.Index, g.Name, g.Text),
				Style:  style,
			})
		}
	}
	return plan
}

// FullMatchText formats a line's parent row.
func FullMatchText(line int, text string) string {
	return fmt.Sprintf("Line: %d - Full match: \"%s\"", line, text)
}

// GroupText formats a group's child row. name is a group name or
// match.Anonymous, which already carries its parentheses.
func GroupText(index int, name, text string) string {
	label := name
	if name != match.Anonymous {
		label = "(" + name + ")"
	}
	return fmt.Sprintf("Group: %d - %s: \"%s\"", index, label, text)
}

func lineRowID(line int) string { return fmt.Sprintf("L%d", line) }

func groupRowID(line, group int) string { return fmt.Sprintf("L%d.G%d", line, group) }

// Sink receives view instructions. The host UI implements it.
type Sink interface {
	AddHighlight(line, startCol, endCol int, style Style)
	// AddResultRow appends a row under parentID ("" for top level) and
	// returns the host's id for it.
	AddResultRow(parentID, text string, style Style) string
}

// Apply replays plan into sink, highlights first, then rows. Parent
// references are translated to the ids sink hands back.
func Apply(plan Plan, sink Sink) {
	for _, h := range plan.Highlights {
		sink.AddHighlight(h.Line, h.Start, h.End, h.Style)
	}
	ids := make(map[string]string, len(plan.Rows))
	for _, r := range plan.Rows {
		parent := ""
		if r.Parent != "" {
			parent = ids[r.Parent]
		}
		ids[r.ID] = sink.AddResultRow(parent, r.Text, r.Style)
	}
}

// Dump renders plan as text, one instruction per line.
func (p Plan) Dump() string {
	var b strings.Builder
	for _, h := range p.Highlights {
		fmt.Fprintf(&b, "highlight line=%d cols=[%d,%d) style=%s\n", h.Line, h.Start, h.End, h.Style)
	}
	for _, r := range p.Rows {
		parent := r.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(&b, "row id=%s parent=%s style=%s text=%s\n", r.ID, parent, r.Style, r.Text)
	}
	return b.String()
}

// Groups returns the number of group rows in the plan.
func (p Plan) Groups() int {
	n := 0
	for _, r := range p.Rows {
		if r.Parent != "" {
			n++
		}
	}
	return n
}
