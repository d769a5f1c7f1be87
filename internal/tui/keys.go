package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap groups bindings by where they apply. Global keys are handled by the
// App before a view sees the message.
type keyMap struct {
	// global
	Inbox  key.Binding
	Export key.Binding
	Next   key.Binding
	Help   key.Binding
	Quit   key.Binding
	Views  []key.Binding // one per viewState, digits 1..n

	// dashboard
	Record key.Binding
	Usage  key.Binding

	// focus
	Start key.Binding
	Stop  key.Binding
	Pause key.Binding

	// lists and goals
	New    key.Binding
	Delete key.Binding
	Toggle key.Binding
	More   key.Binding
	Less   key.Binding
	Win    key.Binding

	// navigation
	Enter key.Binding
	Back  key.Binding
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
}

func bind(help, desc string, ks ...string) key.Binding {
	return key.NewBinding(key.WithKeys(ks...), key.WithHelp(help, desc))
}

func viewBindings() []key.Binding {
	out := make([]key.Binding, len(viewNames))
	for i, name := range viewNames {
		digit := string(rune('1' + i))
		out[i] = bind(digit, name, digit)
	}
	return out
}

var keys = keyMap{
	Inbox:  bind("i", "inbox", "i"),
	Export: bind("e", "export", "e"),
	Next:   bind("tab", "next view", "tab"),
	Help:   bind("?", "help", "?"),
	Quit:   bind("q", "quit", "q", "ctrl+c"),
	Views:  viewBindings(),

	Record: bind("r", "record distraction", "r"),
	Usage:  bind("u", "log usage", "u"),

	Start: bind("s", "start focus", "s"),
	Stop:  bind("x", "stop", "x"),
	Pause: bind("space", "pause/resume", " "),

	New:    bind("n", "new", "n"),
	Delete: bind("d", "delete", "d"),
	Toggle: bind("c", "complete", "c"),
	More:   bind("+", "progress +10", "+", "="),
	Less:   bind("-", "progress -10", "-"),
	Win:    bind("w", "log win", "w"),

	Enter: bind("enter", "select", "enter"),
	Back:  bind("esc", "back", "esc"),
	Up:    bind("↑/k", "up", "up", "k"),
	Down:  bind("↓/j", "down", "down", "j"),
	Left:  bind("←/h", "switch chart", "left", "h"),
	Right: bind("→/l", "switch chart", "right", "l"),
}

// viewFor reports which view a digit key jumps to.
func (k keyMap) viewFor(msg tea.KeyMsg) (viewState, bool) {
	for i, b := range k.Views {
		if key.Matches(msg, b) {
			return viewState(i), true
		}
	}
	return 0, false
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Usage, k.Inbox, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Record, k.Usage, k.Inbox, k.Export},
		{k.Start, k.Stop, k.Pause},
		{k.New, k.Delete, k.Toggle, k.More, k.Less, k.Win},
		append([]key.Binding{k.Next}, k.Views...),
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}
