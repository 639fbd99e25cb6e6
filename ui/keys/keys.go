package keys

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the co-pilot's key bindings.
type KeyMap struct {
	Send      key.Binding
	View      key.Binding
	PinMap    key.Binding
	Reset     key.Binding
	Quit      key.Binding
	Backspace key.Binding
}

func NewKeyMap() KeyMap {
	return KeyMap{
		Send:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		View:      key.NewBinding(key.WithKeys("tab", "ctrl+t"), key.WithHelp("tab", "switch view")),
		PinMap:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "pin map")),
		Reset:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("ctrl+c", "quit")),
		Backspace: key.NewBinding(key.WithKeys("backspace")),
	}
}

var Default = NewKeyMap()

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.View, k.PinMap, k.Reset, k.Quit}
}

// HelpLine renders the short help as a single status-bar string.
func (k KeyMap) HelpLine() string {
	parts := make([]string, 0, len(k.ShortHelp()))
	for _, b := range k.ShortHelp() {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
