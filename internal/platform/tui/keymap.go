package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// GameKeyMap defines the in-game key bindings.
type GameKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Fire     key.Binding
	Lock     key.Binding
	Dodge    key.Binding
	Reload   key.Binding
	Grenade  key.Binding
	Interact key.Binding
	Slot1    key.Binding
	Slot2    key.Binding
	Item1    key.Binding
	Item2    key.Binding
	Item3    key.Binding
	Item4    key.Binding
	Pause    key.Binding
	Restart  key.Binding
	Back     key.Binding
	Help     key.Binding
	Shot     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fire, k.Dodge, k.Reload, k.Item1, k.Pause, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Fire, k.Lock, k.Dodge, k.Reload, k.Grenade},
		{k.Item1, k.Item2, k.Slot1, k.Slot2, k.Interact},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up: key.NewBinding(
			key.WithKeys("w", "up"),
			key.WithHelp("w/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("s", "down"),
			key.WithHelp("s/down", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("a", "left"),
			key.WithHelp("a/left", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d/right", "move right"),
		),
		Fire: key.NewBinding(
			key.WithKeys(" ", "f"),
			key.WithHelp("space", "fire"),
		),
		Lock: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "headshot lock"),
		),
		Dodge: key.NewBinding(
			key.WithKeys("x", "shift+up", "shift+down", "shift+left", "shift+right"),
			key.WithHelp("x", "dodge"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Grenade: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grenade"),
		),
		Interact: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "open cache"),
		),
		Slot1: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "primary"),
		),
		Slot2: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "secondary"),
		),
		Item1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "small bandage"),
		),
		Item2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "large bandage"),
		),
		Item3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "hotbar 3"),
		),
		Item4: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "hotbar 4"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "new run"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "menu"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "keys"),
		),
		Shot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(key string) MenuAction {
	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
