package match

// Resolver evaluates patterns with a fixed engine.
type Resolver struct {
	engine Engine
}

// NewResolver returns a Resolver that compiles with engine. A nil engine
// selects RE2.
func NewResolver(engine Engine) *Resolver {
	if engine == nil {
		engine = RE2()
	}
	return &Resolver{engine: engine}
}

// Engine returns the engine patterns are compiled with.
func (r *Resolver) Engine() Engine { return r.engine }

// Resolve compiles pattern once and returns the first match of every
// matching line, in line order. Line numbers are 1-indexed; lines without a
// match produce no entry.
//
// An empty pattern does no work and returns nil, nil. A compile or
// evaluation failure returns a *PatternError and no matches.
func (r *Resolver) Resolve(pattern string, lines []string) ([]LineMatch, error) {
	if pattern == "" {
		return nil, nil
	}
	prog, err := r.engine.Compile(pattern)
	if err != nil {
		return nil, r.patternError(pattern, err)
	}

	var out []LineMatch
	for i, line := range lines {
		sm, err := prog.FirstMatch(line)
		if err != nil {
			return nil, r.patternError(pattern, err)
		}
		if sm == nil {
			continue
		}
		out = append(out, LineMatch{
			Line: i + 1,
			Match: Match{
				Span:   sm.Span,
				Text:   sm.Text,
				Groups: ResolveNames(sm.Captures),
			},
		})
	}
	return out, nil
}

func (r *Resolver) patternError(pattern string, err error) *PatternError {
	return &PatternError{Engine: r.engine.Name(), Pattern: pattern, Err: err}
}
