// Package highlight paints layered column spans onto lines of text and
// derives UI colors from Chroma themes, decoupled from any specific TUI
// component.
package highlight

import (
	"sort"
)

// Span marks columns [Start, End) of a line with a paint layer. Columns are
// rune offsets. When spans overlap, the one with the higher Layer shows.
type Span struct {
	Start, End int
	Layer      int
}

// Run is a maximal stretch of columns sharing the same visible layer.
// Painted is false for stretches no span covers.
type Run struct {
	Start, End int
	Layer      int
	Painted    bool
}

// Runs splits a line of n columns into runs. Spans are clipped to [0, n);
// zero-width spans cover nothing. Among equal layers, the span added last
// wins, which matches how tag priorities stack in text widgets.
func Runs(n int, spans []Span) []Run {
	if n <= 0 {
		return nil
	}

	// Sweep over the cut points; at each stretch pick the top layer among
	// spans covering it.
	cuts := []int{0, n}
	for _, s := range spans {
		if s.Start < s.End {
			cuts = append(cuts, clamp(s.Start, 0, n), clamp(s.End, 0, n))
		}
	}
	sort.Ints(cuts)

	var out []Run
	for i := 0; i+1 < len(cuts); i++ {
		a, b := cuts[i], cuts[i+1]
		if a == b {
			continue
		}
		r := Run{Start: a, End: b}
		for _, s := range spans {
			if s.Start <= a && b <= s.End && (!r.Painted || s.Layer >= r.Layer) {
				r.Layer = s.Layer
				r.Painted = true
			}
		}
		if k := len(out) - 1; k >= 0 && out[k].Painted == r.Painted && out[k].Layer == r.Layer {
			out[k].End = b
			continue
		}
		out = append(out, r)
	}
	return out
}

// Paint renders line with spans applied. render is called once per run with
// the run's text; plain is called for unpainted stretches. Either may be nil,
// in which case the text passes through unchanged.
func Paint(line string, spans []Span, render func(layer int, text string) string, plain func(text string) string) string {
	runes := []rune(line)
	if len(runes) == 0 {
		return ""
	}
	var buf []byte
	for _, r := range Runs(len(runes), spans) {
		text := string(runes[r.Start:r.End])
		switch {
		case r.Painted && render != nil:
			text = render(r.Layer, text)
		case !r.Painted && plain != nil:
			text = plain(text)
		}
		buf = append(buf, text...)
	}
	return string(buf)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
