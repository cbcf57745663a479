package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Save       key.Binding
	SwitchPane key.Binding
	ToggleHTML key.Binding
	External   key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		ToggleHTML: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "html/pretty")),
		External:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "$EDITOR")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.SwitchPane, k.ToggleHTML, k.External, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
