package annotate

import "strconv"

// Style identifies how an annotation is drawn. Values order by paint
// priority: where highlights overlap the larger Style is drawn on top.
type Style int

const (
	// StyleFull marks the whole match.
	StyleFull Style = -1
	// StyleOverflow marks groups past the end of the palette.
	StyleOverflow Style = 0
)

// GroupStyle returns the style of palette slot (1-based).
func GroupStyle(slot int) Style {
	if slot < 1 {
		return StyleOverflow
	}
	return Style(slot)
}

// StyleFor picks the style of a group. Indices 1..paletteSize map to their
// palette slot; anything past the palette shares the overflow style. No
// state is involved: the result depends only on the two arguments.
func StyleFor(groupIndex, paletteSize int) Style {
	if paletteSize <= 0 || groupIndex < 1 || groupIndex > paletteSize {
		return StyleOverflow
	}
	return GroupStyle(groupIndex)
}

// Slot returns the 1-based palette slot, or 0 for the full and overflow
// styles.
func (s Style) Slot() int {
	if s > 0 {
		return int(s)
	}
	return 0
}

func (s Style) String() string {
	switch {
	case s == StyleFull:
		return "full"
	case s == StyleOverflow:
		return "overflow"
	case s > 0:
		return "group_" + strconv.Itoa(int(s))
	}
	return "style(" + strconv.Itoa(int(s)) + ")"
}
