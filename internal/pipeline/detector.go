package pipeline

// Source is the input an edit came from.
type Source int

const (
	SourcePattern Source = iota
	SourceText
)

func (s Source) String() string {
	if s == SourcePattern {
		return "pattern"
	}
	return "text"
}

// EditKind classifies what a handled input event did to an input's content.
type EditKind int

const (
	EditNone    EditKind = iota // event had no effect
	EditMove                    // cursor or selection moved
	EditReread                  // content was loaded or read back by the program, not the user
	EditInsert                  // text inserted
	EditDelete                  // text deleted
	EditReplace                 // a range was replaced
)

// Mutates reports whether the edit changed content.
func (k EditKind) Mutates() bool { return k >= EditInsert }

func (k EditKind) String() string {
	switch k {
	case EditMove:
		return "move"
	case EditReread:
		return "reread"
	case EditInsert:
		return "insert"
	case EditDelete:
		return "delete"
	case EditReplace:
		return "replace"
	}
	return "none"
}

// Detector turns edit events into recompute signals: exactly one per
// content-changing edit, none for cursor movement or read-backs.
type Detector struct {
	fired int
	last  Source
}

// Notify records an edit and reports whether a recompute is due.
func (d *Detector) Notify(src Source, kind EditKind) bool {
	if !kind.Mutates() {
		return false
	}
	d.fired++
	d.last = src
	return true
}

// Fired returns how many recompute signals have been emitted.
func (d *Detector) Fired() int { return d.fired }

// Last returns the source of the most recent signal. Run logs it with each
// recompute.
func (d *Detector) Last() Source { return d.last }
