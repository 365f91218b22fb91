package match

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// EngineKind names a regex engine.
type EngineKind string

const (
	// EngineRE2 is Go's regexp package: linear time, no backreferences.
	EngineRE2 EngineKind = "re2"
	// EngineBacktrack is regexp2: backreferences, lookaround, atomic groups.
	EngineBacktrack EngineKind = "backtrack"
)

// DefaultMatchTimeout bounds a single backtracking search.
const DefaultMatchTimeout = 250 * time.Millisecond

// ParseEngine maps a configuration value to an EngineKind.
func ParseEngine(s string) (EngineKind, error) {
	switch k := EngineKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", EngineRE2:
		return EngineRE2, nil
	case EngineBacktrack:
		return k, nil
	}
	return "", fmt.Errorf("unknown engine %q (want %q or %q)", s, EngineRE2, EngineBacktrack)
}

// Engine compiles patterns.
type Engine interface {
	Name() string
	Compile(pattern string) (Program, error)
}

// Program is a compiled pattern.
type Program interface {
	// FirstMatch searches line for the leftmost match. It returns nil when
	// the line does not match.
	FirstMatch(line string) (*Submatch, error)
}

// Submatch is an engine's raw report of one match. Spans are rune offsets.
type Submatch struct {
	Span     Span
	Text     string
	Captures []Capture // groups 1..n in index order
}

// NewEngine returns the engine for kind. timeout applies to the backtracking
// engine only; zero selects DefaultMatchTimeout.
func NewEngine(kind EngineKind, timeout time.Duration) (Engine, error) {
	switch kind {
	case "", EngineRE2:
		return RE2(), nil
	case EngineBacktrack:
		return Backtrack(timeout), nil
	}
	return nil, fmt.Errorf("unknown engine %q", kind)
}

// ---------------------------------------------------------------------------
// RE2 (regexp)
// ---------------------------------------------------------------------------

type re2Engine struct{}

// RE2 returns the engine backed by Go's regexp package.
func RE2() Engine { return re2Engine{} }

func (re2Engine) Name() string { return string(EngineRE2) }

func (re2Engine) Compile(pattern string) (Program, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &re2Program{re: re, names: re.SubexpNames()}, nil
}

type re2Program struct {
	re    *regexp.Regexp
	names []string
}

func (p *re2Program) FirstMatch(line string) (*Submatch, error) {
	loc := p.re.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil, nil
	}
	col := runeColumns(line)
	sm := &Submatch{
		Span: Span{Start: col(loc[0]), End: col(loc[1])},
		Text: line[loc[0]:loc[1]],
	}
	n := len(loc) / 2
	sm.Captures = make([]Capture, 0, n-1)
	for i := 1; i < n; i++ {
		c := Capture{Index: i, Name: p.names[i]}
		if start, end := loc[2*i], loc[2*i+1]; start >= 0 {
			c.Matched = true
			c.Span = Span{Start: col(start), End: col(end)}
			c.Text = line[start:end]
		}
		sm.Captures = append(sm.Captures, c)
	}
	return sm, nil
}

// runeColumns returns a byte offset to rune offset converter for line.
func runeColumns(line string) func(int) int {
	if utf8.RuneCountInString(line) == len(line) {
		return func(b int) int { return b }
	}
	return func(b int) int { return utf8.RuneCountInString(line[:b]) }
}

// ---------------------------------------------------------------------------
// Backtracking (regexp2)
// ---------------------------------------------------------------------------

type backtrackEngine struct {
	timeout time.Duration
}

// Backtrack returns the regexp2 engine in RE2-compatible syntax mode, so
// (?P<name>...) groups parse. regexp2 numbers unnamed groups before named
// ones; captures are renumbered by the position of their opening
// parenthesis so indices agree with the RE2 engine.
func Backtrack(timeout time.Duration) Engine {
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}
	return backtrackEngine{timeout: timeout}
}

func (backtrackEngine) Name() string { return string(EngineBacktrack) }

func (e backtrackEngine) Compile(pattern string) (Program, error) {
	re, err := regexp2.Compile(pattern, regexp2.RE2)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = e.timeout

	var nums []int
	for _, n := range re.GetGroupNumbers() {
		if n > 0 {
			nums = append(nums, n)
		}
	}
	slices.Sort(nums)

	prog := &backtrackProgram{re: re}
	if order, ok := leftToRight(re, pattern, nums); ok {
		prog.nums = order
	} else {
		// Syntax the scanner does not model (balancing groups, numbered
		// names): keep the engine's order.
		prog.nums = nums
	}
	prog.names = make([]string, len(prog.nums))
	for i, n := range prog.nums {
		// Unnamed groups are reported under their number.
		if name := re.GroupNameFromNumber(n); name != strconv.Itoa(n) {
			prog.names[i] = name
		}
	}
	return prog, nil
}

// leftToRight maps each capturing group, in the order its opening
// parenthesis appears in pattern, to its regexp2 group number. Unnamed groups
// take regexp2's unnamed numbers in ascending order; named groups are looked
// up by name. ok is false when the scan and the compiled groups disagree.
func leftToRight(re *regexp2.Regexp, pattern string, nums []int) (order []int, ok bool) {
	opens := captureOrder(pattern)
	if len(opens) != len(nums) {
		return nil, false
	}
	var unnamed []int
	for _, n := range nums {
		if re.GroupNameFromNumber(n) == strconv.Itoa(n) {
			unnamed = append(unnamed, n)
		}
	}

	used := make(map[int]bool, len(nums))
	order = make([]int, 0, len(opens))
	for _, name := range opens {
		var n int
		if name == "" {
			if len(unnamed) == 0 {
				return nil, false
			}
			n, unnamed = unnamed[0], unnamed[1:]
		} else if n = re.GroupNumberFromName(name); n <= 0 {
			return nil, false
		}
		if used[n] {
			return nil, false
		}
		used[n] = true
		order = append(order, n)
	}
	return order, true
}

// captureOrder lists the capturing groups of pattern by the position of their
// opening parenthesis. Unnamed groups are "". Escapes and character classes
// are skipped; lookaround, atomic, flag and non-capturing groups are not
// captures.
func captureOrder(pattern string) []string {
	var out []string
	inClass := false
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			// A ']' first in the class is a literal.
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				i++
			}
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				i++
			}
		case c == '(':
			rest := pattern[i+1:]
			if !strings.HasPrefix(rest, "?") {
				out = append(out, "")
			} else if name, ok := groupName(rest[1:]); ok {
				out = append(out, name)
			}
		}
	}
	return out
}

// groupName parses the name of a named group from the text after "(?".
func groupName(s string) (string, bool) {
	var end byte
	switch {
	case strings.HasPrefix(s, "P<"):
		s, end = s[2:], '>'
	case strings.HasPrefix(s, "<=") || strings.HasPrefix(s, "<!"):
		return "", false
	case strings.HasPrefix(s, "<"):
		s, end = s[1:], '>'
	case strings.HasPrefix(s, "'"):
		s, end = s[1:], '\''
	default:
		return "", false
	}
	i := strings.IndexByte(s, end)
	if i <= 0 {
		return "", false
	}
	return s[:i], true
}

type backtrackProgram struct {
	re    *regexp2.Regexp
	nums  []int // regexp2 group number per capture, left to right
	names []string
}

func (p *backtrackProgram) FirstMatch(line string) (*Submatch, error) {
	m, err := p.re.FindStringMatch(line)
	if err != nil || m == nil {
		return nil, err
	}
	sm := &Submatch{
		Span:     Span{Start: m.Index, End: m.Index + m.Length},
		Text:     m.String(),
		Captures: make([]Capture, 0, len(p.nums)),
	}
	for i, n := range p.nums {
		c := Capture{Index: i + 1, Name: p.names[i]}
		if g := m.GroupByNumber(n); g != nil && len(g.Captures) > 0 {
			c.Matched = true
			c.Span = Span{Start: g.Index, End: g.Index + g.Length}
			c.Text = g.String()
		}
		sm.Captures = append(sm.Captures, c)
	}
	return sm, nil
}
