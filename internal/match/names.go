package match

// Capture is a raw capture slot as reported by an engine, before any
// participation filtering or name resolution.
type Capture struct {
	Index   int
	Name    string // declared name, "" for unnamed groups
	Matched bool   // false when the group did not participate
	Span    Span
	Text    string
}

// Binding is a named capture and the span it captured for one match.
type Binding struct {
	Name string
	Span Span
}

// Bindings collects the participating named captures in declaration order.
// Engines report captures in index order and named groups are numbered in
// the order they are declared, so a single pass preserves that order.
func Bindings(caps []Capture) []Binding {
	var out []Binding
	for _, c := range caps {
		if c.Name == "" || !c.Matched {
			continue
		}
		out = append(out, Binding{Name: c.Name, Span: c.Span})
	}
	return out
}

// ResolveNames converts raw captures into participating groups and assigns
// each one a display name.
//
// Groups are visited in ascending index order. A group takes the name of the
// first binding in the pool whose span equals its own. The claim consumes
// that span: every binding with the same span leaves the pool, so a later
// group with a coincident span is Anonymous. For (?P<a>(?P<b>x)) group 1 is
// "a" and group 2 is Anonymous.
//
// Removing only the claimed name would leave "b" in the pool and label
// group 2 with it. Dropping the whole span instead is what keeps a name on at
// most one of several coincident groups.
func ResolveNames(caps []Capture) []Group {
	pool := Bindings(caps)
	groups := make([]Group, 0, len(caps))
	for _, c := range caps {
		if !c.Matched {
			continue
		}
		name := Anonymous
		for i, b := range pool {
			if b.Span == c.Span {
				name = b.Name
				pool = release(pool, i)
				break
			}
		}
		groups = append(groups, Group{Index: c.Index, Span: c.Span, Text: c.Text, Name: name})
	}
	return groups
}

// release drops the claimed binding at i and any later binding sharing its
// span. The result never aliases pool past i.
func release(pool []Binding, i int) []Binding {
	claimed := pool[i].Span
	out := pool[:i:i]
	for _, b := range pool[i+1:] {
		if b.Span != claimed {
			out = append(out, b)
		}
	}
	return out
}
