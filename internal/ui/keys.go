package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts for the application.
// Related bindings (Up/Down, Left/Right) share help text since they appear
// as a single row in the footer.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Space key.Binding
	Home  key.Binding
	End   key.Binding

	// Actions
	Enter     key.Binding
	Tab       key.Binding
	Refresh   key.Binding
	Copy      key.Binding
	Move      key.Binding
	MoveRoot  key.Binding
	ShiftUp   key.Binding
	ShiftDown key.Binding
	Before    key.Binding
	New       key.Binding
	NewRoot   key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Member    key.Binding
	Help      key.Binding
	Escape    key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓  j/k", "Move up/down"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↑/↓  j/k", "Move up/down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/→  h/l", "Collapse/Expand"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("←/→  h/l", "Collapse/Expand"),
		),
		Space: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("Space", "Toggle expand"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home  g", "Jump to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End   G", "Jump to bottom"),
		),

		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("⏎ (Enter)", "Toggle detail / confirm move"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("⇥ (Tab)", "Switch focus"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Copy ID"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Move group"),
		),
		MoveRoot: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "Move to top level"),
		),
		ShiftUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K/J", "Reorder among siblings"),
		),
		ShiftDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("K/J", "Reorder among siblings"),
		),
		Before: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Place before (while moving)"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New subgroup"),
		),
		NewRoot: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "New top-level group"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit group"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete group"),
		),
		Member: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add/remove member"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
	}
}

// footerBindings lists the bindings summarised in the footer line.
func (k KeyMap) footerBindings() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Enter, k.New, k.Edit, k.Delete, k.Move, k.ShiftUp, k.Help, k.Quit}
}

// helpBindings lists every distinct binding for the help pane.
func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Left, k.Space, k.Home, k.End,
		k.Enter, k.Tab, k.New, k.NewRoot, k.Edit, k.Delete, k.Member,
		k.Move, k.MoveRoot, k.Before, k.ShiftUp,
		k.Copy, k.Refresh, k.Escape, k.Help, k.Quit,
	}
}
