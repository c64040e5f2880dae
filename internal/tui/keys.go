package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Projects  key.Binding
	Templates key.Binding
	Select    key.Binding
	Record    key.Binding
	Delete    key.Binding
	Reminder  key.Binding
	Expand    key.Binding
	Theme     key.Binding
	Back      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Projects:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "projects")),
		Templates: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "templates")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Record:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "record progress")),
		Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Reminder:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle reminder")),
		Expand:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "materialize all")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle theme")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Record, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Projects, k.Templates, k.Select, k.Back},
		{k.Record, k.Delete, k.Reminder, k.Expand},
		{k.Theme, k.Help, k.Quit},
	}
}
