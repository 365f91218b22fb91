package tui

import (
	"image"

	tea "charm.land/bubbletea/v2"
)

const (
	labelWidth = 4 // "re: "
	errorRows  = 2
	chromeRows = 1 + 2 + errorRows + 1 + 1 // pattern, two separators, error, status, help
)

// layout holds the screen rectangles of the interactive panes and the rows
// of the fixed bars.
type layout struct {
	pattern image.Rectangle
	text    image.Rectangle
	results image.Rectangle

	textSep    int
	resultsSep int
	errBar     int
	status     int
	help       int
}

// generateLayout stacks the panes top to bottom. The results tree gets a
// third of the free rows, the text editor the rest.
func generateLayout(w, h int) layout {
	free := max(h-chromeRows, 2)
	resultsH := max(free/3, 1)
	textH := max(free-resultsH, 1)

	var ly layout
	ly.pattern = image.Rect(labelWidth, 0, max(w, labelWidth), 1)
	ly.textSep = 1
	ly.text = image.Rect(0, 2, w, 2+textH)
	ly.resultsSep = ly.text.Max.Y
	ly.results = image.Rect(0, ly.resultsSep+1, w, ly.resultsSep+1+resultsH)
	ly.errBar = ly.results.Max.Y
	ly.status = ly.errBar + errorRows
	ly.help = ly.status + 1
	return ly
}

// handleResize applies a window size change and re-derives layout.
func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	m.layout = generateLayout(m.width, m.height)
	m.updateComponentSizes()
}

// updateComponentSizes pushes layout dimensions to sub-models.
func (m *Model) updateComponentSizes() {
	m.pattern.SetWidth(m.layout.pattern.Dx())
	m.pattern.SetHeight(1)
	m.text.SetWidth(m.layout.text.Dx())
	m.text.SetHeight(m.layout.text.Dy())
}

func inRect(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}
