package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestBindingsMatchKeyMsgs(t *testing.T) {
	k := NewKeyMap()

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, k.Send))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyTab}, k.View))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlT}, k.View))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlP}, k.PinMap))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlR}, k.Reset))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEsc}, k.Quit))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")}, k.PinMap))
}

func TestHelpLine(t *testing.T) {
	assert.Equal(t,
		"enter send · tab switch view · ctrl+p pin map · ctrl+r reset · ctrl+c quit",
		NewKeyMap().HelpLine())
}
