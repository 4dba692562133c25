package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Enter          key.Binding
	Space          key.Binding
	Tab            key.Binding
	Add            key.Binding
	Rename         key.Binding
	InlineEdit     key.Binding
	ExternalEdit   key.Binding
	Delete         key.Binding
	Priority       key.Binding
	NextStatus     key.Binding
	PrevStatus     key.Binding
	CategoryFilter key.Binding
	TagFilter      key.Binding
	SortField      key.Binding
	SortDirection  key.Binding
	Search         key.Binding
	ClearFilters   key.Binding
	Reload         key.Binding
	Sync           key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "toggle details"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle complete"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename task"),
		),
		InlineEdit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit description"),
		),
		ExternalEdit: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "$EDITOR"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle priority"),
		),
		NextStatus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "next status filter"),
		),
		PrevStatus: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "previous status filter"),
		),
		CategoryFilter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cycle category filter"),
		),
		TagFilter: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle tag filter"),
		),
		SortField: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "next sort field"),
		),
		SortDirection: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "flip sort direction"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Sync: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "git sync"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  space done  a add  e edit  p priority  f status  c/t filter  o/O sort  / search  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"enter", "Expand / collapse task details"},
		{"space", "Toggle complete"},
		{"tab", "Switch pane (list / details)"},
		{"a", "Add task"},
		{"r", "Rename task"},
		{"e", "Edit description inline"},
		{"E", "Edit task file in $EDITOR"},
		{"d", "Delete task (with confirmation)"},
		{"p", "Cycle priority"},
		{"f / F", "Next / previous status filter"},
		{"c", "Cycle category filter"},
		{"t", "Cycle tag filter"},
		{"o", "Next sort field"},
		{"O", "Flip sort direction"},
		{"/", "Search"},
		{"x", "Clear filters"},
		{"R", "Reload from disk"},
		{"g", "Git sync"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
