package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	pull      key.Binding
	fullPull  key.Binding
	copy      key.Binding
	buildInfo key.Binding
	help      key.Binding
	esc       key.Binding
	quit      key.Binding
}

var keys = keyMap{
	pull:      key.NewBinding(key.WithKeys("p", "enter"), key.WithHelp("p", "pull since watermark")),
	fullPull:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "full pull")),
	copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy watermark")),
	buildInfo: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "build info")),
	help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	esc:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.pull, k.fullPull, k.copy, k.help, k.quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.pull, k.fullPull, k.copy},
		{k.buildInfo, k.esc, k.help, k.quit},
	}
}
