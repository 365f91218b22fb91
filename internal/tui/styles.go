package tui

import (
	"charm.land/lipgloss/v2"
	"github.com/xonecas/retest/internal/annotate"
	"github.com/xonecas/retest/internal/config"
	"github.com/xonecas/retest/internal/highlight"
	"github.com/xonecas/retest/internal/tui/modal"
)

// styles holds every lipgloss style the view uses. It is rebuilt whenever
// the theme changes.
type styles struct {
	palette highlight.Palette

	Base      lipgloss.Style // Pane text and background
	Label     lipgloss.Style // "re: " prompt and pane titles
	Border    lipgloss.Style // Separators
	Dim       lipgloss.Style // Gutter, placeholders, help descriptions
	Error     lipgloss.Style
	Status    lipgloss.Style
	Accent    lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style // Selected results row

	full     lipgloss.Style
	overflow lipgloss.Style
	groups   []lipgloss.Style
}

func newStyles(pc config.PaletteConfig, theme string) styles {
	p := highlight.ThemePalette(theme)
	bg := lipgloss.Color(p.Bg)
	base := lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Fg))

	s := styles{
		palette:   p,
		Base:      base,
		Label:     base.Foreground(lipgloss.Color(p.Accent)).Bold(true),
		Border:    base.Foreground(lipgloss.Color(p.Border)),
		Dim:       base.Foreground(lipgloss.Color(p.Dim)),
		Error:     base.Foreground(lipgloss.Color(p.Error)),
		Status:    base.Foreground(lipgloss.Color(p.Muted)),
		Accent:    base.Foreground(lipgloss.Color(p.Accent)),
		Selection: lipgloss.NewStyle().Background(lipgloss.Color(p.Fg)).Foreground(bg),
		Cursor:    lipgloss.NewStyle().Background(lipgloss.Color(p.Accent)).Foreground(lipgloss.Color(highlight.Readable(p.Accent))),

		full: lipgloss.NewStyle().
			Background(lipgloss.Color(pc.FullMatchColor)).
			Foreground(lipgloss.Color(highlight.Readable(pc.FullMatchColor))),
		overflow: lipgloss.NewStyle().
			Background(lipgloss.Color(pc.OverflowBackground)).
			Foreground(lipgloss.Color(pc.OverflowForeground)),
	}
	for _, c := range pc.GroupColors {
		s.groups = append(s.groups, lipgloss.NewStyle().
			Background(lipgloss.Color(c)).
			Foreground(lipgloss.Color(highlight.Readable(c))))
	}
	return s
}

// Annotation resolves an annotation style to its rendering. It serves both
// text highlights and results rows.
func (s styles) Annotation(layer int) lipgloss.Style {
	st := annotate.Style(layer)
	switch {
	case st == annotate.StyleFull:
		return s.full
	case st.Slot() > 0 && st.Slot() <= len(s.groups):
		return s.groups[st.Slot()-1]
	}
	return s.overflow
}

func (s styles) modalColors() modal.Colors {
	return modal.Colors{
		Fg:     s.palette.Fg,
		Bg:     s.palette.Bg,
		Dim:    s.palette.Dim,
		SelFg:  s.palette.Bg,
		SelBg:  s.palette.Fg,
		Border: s.palette.Border,
	}
}
