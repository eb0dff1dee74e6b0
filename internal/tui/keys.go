package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Block     key.Binding
	Unblock   key.Binding
	Notify    key.Binding
	Sticky    key.Binding
	Close     key.Binding
	Confirm   key.Binding
	Prompt    key.Binding
	HTTPError key.Binding
	Accept    key.Binding
	Dismiss   key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Block:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "block")),
		Unblock:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unblock")),
		Notify:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notify")),
		Sticky:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sticky")),
		Close:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close notice")),
		Confirm:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm")),
		Prompt:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prompt")),
		HTTPError: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "http error")),
		Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ok")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpLine renders the bindings usable in the current mode.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
