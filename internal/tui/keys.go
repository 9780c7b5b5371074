package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up       key.Binding // k - move up
	Down     key.Binding // j - move down
	NextPane key.Binding // tab - next list
	Select   key.Binding // Enter - configure option / select adapter
	Add      key.Binding // a - type an adapter location
	Delete   key.Binding // d - remove adapter
	Ping     key.Binding // p - ping adapter
	Play     key.Binding // v - switch between configuration and play view
	Navigate key.Binding // / - select adapter by port
	Refresh  key.Binding // r - re-fetch lists
	Dismiss  key.Binding // x - dismiss notification
	Help     key.Binding // ? - help
	Quit     key.Binding // q - quit
	Cancel   key.Binding // Esc - cancel
	Confirm  key.Binding // y - confirm
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next list"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "configure/select"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add location"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		Ping: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "ping"),
		),
		Play: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "play/config view"),
		),
		Navigate: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "go to port"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
	}
}

// ShortHelp returns short help text
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Select, k.Ping, k.Play, k.Help, k.Quit}
}

// FullHelp returns full help text
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPane, k.Select},
		{k.Add, k.Delete, k.Ping, k.Refresh},
		{k.Play, k.Navigate, k.Dismiss},
		{k.Help, k.Cancel, k.Quit},
	}
}
