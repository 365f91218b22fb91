// Package pipeline wires change detection, match resolution and annotation
// projection into one synchronous recompute cycle against a host UI.
//
// Every cycle clears the host's error message, highlights and result rows
// and rebuilds them from a fresh snapshot of the inputs. Nothing is diffed
// against or cached from the previous cycle, which keeps repeated runs over
// the same input byte-identical.
package pipeline

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/retest/internal/annotate"
	"github.com/xonecas/retest/internal/match"
)

// Host is the UI surface a cycle reads from and writes to.
type Host interface {
	PatternText() string
	TestLines() []string

	ClearHighlights()
	ClearResultRows()
	ClearErrorMessage()
	ShowErrorMessage(text string)

	annotate.Sink
}

// Outcome classifies a finished cycle.
type Outcome int

const (
	OutcomeIdle    Outcome = iota // empty pattern, nothing to do
	OutcomeNoMatch                // pattern valid, no line matched
	OutcomeMatched                // at least one line matched
	OutcomeError                  // pattern failed to compile or evaluate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoMatch:
		return "no match"
	case OutcomeMatched:
		return "matched"
	case OutcomeError:
		return "error"
	}
	return "idle"
}

// Summary describes the result of one cycle.
type Summary struct {
	Outcome    Outcome
	Lines      int // lines with a match
	Groups     int // group rows emitted
	Highlights int
	Err        error
}

// Pipeline runs recompute cycles.
type Pipeline struct {
	resolver  *match.Resolver
	projector annotate.Projector
	detector  Detector
}

// New returns a Pipeline resolving with resolver and projecting onto a
// palette of paletteSize group colors.
func New(resolver *match.Resolver, paletteSize int) *Pipeline {
	if resolver == nil {
		resolver = match.NewResolver(nil)
	}
	return &Pipeline{
		resolver:  resolver,
		projector: annotate.Projector{PaletteSize: paletteSize},
	}
}

// Engine returns the name of the regex engine in use.
func (p *Pipeline) Engine() string { return p.resolver.Engine().Name() }

// SetResolver swaps the resolver used by later cycles.
func (p *Pipeline) SetResolver(r *match.Resolver) {
	if r != nil {
		p.resolver = r
	}
}

// Detector exposes the change detector.
func (p *Pipeline) Detector() *Detector { return &p.detector }

// OnEdit feeds an edit event to the change detector and runs a cycle if it
// fires. ok is false when the event did not change any content.
func (p *Pipeline) OnEdit(h Host, src Source, kind EditKind) (s Summary, ok bool) {
	if !p.detector.Notify(src, kind) {
		return Summary{}, false
	}
	return p.Run(h), true
}

// Run executes one full cycle: clear, snapshot, resolve, project, apply.
func (p *Pipeline) Run(h Host) Summary {
	h.ClearErrorMessage()
	h.ClearHighlights()
	h.ClearResultRows()

	pattern := h.PatternText()
	if pattern == "" {
		return Summary{Outcome: OutcomeIdle}
	}

	matches, err := p.resolver.Resolve(pattern, h.TestLines())
	if err != nil {
		h.ShowErrorMessage(err.Error())
		var perr *match.PatternError
		if errors.As(err, &perr) {
			log.Debug().Str("engine", perr.Engine).Str("pattern", pattern).Err(err).Msg("pattern rejected")
		}
		return Summary{Outcome: OutcomeError, Err: err}
	}

	plan := p.projector.Project(matches)
	annotate.Apply(plan, h)

	s := Summary{
		Outcome:    OutcomeNoMatch,
		Lines:      len(matches),
		Groups:     plan.Groups(),
		Highlights: len(plan.Highlights),
	}
	if s.Lines > 0 {
		s.Outcome = OutcomeMatched
	}
	log.Debug().
		Int("cycle", p.detector.Fired()).
		Stringer("source", p.detector.Last()).
		Stringer("outcome", s.Outcome).
		Int("lines", s.Lines).
		Int("groups", s.Groups).
		Msg("recompute")
	return s
}

// Plan resolves and projects without a host. It backs the one-shot CLI mode.
func (p *Pipeline) Plan(pattern string, lines []string) (annotate.Plan, error) {
	matches, err := p.resolver.Resolve(pattern, lines)
	if err != nil {
		return annotate.Plan{}, err
	}
	return p.projector.Project(matches), nil
}
