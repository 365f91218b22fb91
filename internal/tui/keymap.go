package tui

import "charm.land/bubbles/v2/key"

// keyMap holds the application-level bindings. Editing keys belong to the
// editors and the results tree.
type keyMap struct {
	NextPane key.Binding
	PrevPane key.Binding
	History  key.Binding
	Prev     key.Binding
	Next     key.Binding
	Theme    key.Binding
	Engine   key.Binding
	Copy     key.Binding
	Toggle   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev pane"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "history"),
		),
		Prev: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p/n", "recall"),
		),
		Next: key.NewBinding(
			key.WithKeys("ctrl+n"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		Engine: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "engine"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "space"),
			key.WithHelp("enter", "expand/collapse"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// shortHelp lists the bindings shown in the help bar for the focused pane.
func (k keyMap) shortHelp(f focusArea) []key.Binding {
	switch f {
	case focusPattern:
		return []key.Binding{k.NextPane, k.Prev, k.History, k.Engine, k.Theme, k.Copy, k.Quit}
	case focusResults:
		return []key.Binding{k.NextPane, k.Toggle, k.Copy, k.Engine, k.Quit}
	}
	return []key.Binding{k.NextPane, k.PrevPane, k.History, k.Engine, k.Copy, k.Quit}
}
