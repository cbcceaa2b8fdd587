package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Choose    key.Binding
	Transfer  key.Binding
	Wait      key.Binding
	Save      key.Binding
	Continue  key.Binding
	NewGame   key.Binding
	Scroll    key.Binding
	Cancel    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next menu"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab", "previous menu"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Transfer: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "transfer"),
		),
		Wait: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "wait"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Continue: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "continue saved game"),
		),
		NewGame: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new game"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("pgup", "pgdown"),
			key.WithHelp("pgup/pgdn", "scroll"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

func (k keyMap) selectHelp(canContinue bool) []key.Binding {
	if canContinue {
		return []key.Binding{k.Up, k.Down, k.Choose, k.Continue, k.Quit}
	}
	return []key.Binding{k.Up, k.Down, k.Choose, k.Quit}
}

func (k keyMap) playingHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Choose, k.Transfer, k.Wait, k.Save, k.Scroll, k.Quit}
}

func (k keyMap) endingHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NewGame, k.Quit}
}

func (k keyMap) promptHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Cancel}
}
