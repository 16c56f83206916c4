package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

// stopKeys lists the hot-seat stop keys per slot. The digit keys work for
// everyone so a shared keyboard never needs chords.
var stopKeys = [core.MaxPlayers][]string{
	{" ", "1"},
	{"enter", "2"},
	{"l", "3"},
	{"a", "4"},
}

// StopKeyHelp returns the key hint for a slot, e.g. "space/1".
func StopKeyHelp(id core.PlayerID) string {
	switch id {
	case core.Player1:
		return "space/1"
	case core.Player2:
		return "enter/2"
	case core.Player3:
		return "l/3"
	case core.Player4:
		return "a/4"
	default:
		return ""
	}
}

// KeyMapper translates Bubble Tea key messages to round actions for the
// humans sitting at one keyboard.
type KeyMapper struct {
	humans int
}

// NewKeyMapper creates a key mapper for humans players (clamped to [1, 4]).
func NewKeyMapper(humans int) *KeyMapper {
	return &KeyMapper{humans: min(max(humans, 1), core.MaxPlayers)}
}

// Humans returns the number of mapped players.
func (km *KeyMapper) Humans() int {
	return km.humans
}

// MapKey translates a key message to an action and the slot it belongs to.
// Shared keys (pause, restart, quit) belong to Player1.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (slot core.PlayerID, action core.Action, isQuit bool) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return core.Player1, core.ActionQuit, true
	case "p", "esc":
		return core.Player1, core.ActionPause, false
	case "r":
		return core.Player1, core.ActionRestart, false
	case "b":
		return core.Player1, core.ActionBack, false
	}

	for i := range km.humans {
		for _, k := range stopKeys[i] {
			if k == key {
				return core.PlayerID(i), core.ActionStop, false
			}
		}
	}

	return core.Player1, core.ActionNone, false
}

// MapKeyToMultiFrame updates a multi-input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	slot, action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Press(slot, action)
	}
	return isQuit
}

// MapKeyToFrame maps a key for a single remote player: every stop key and
// every digit counts as that player's stop.
func MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	switch msg.String() {
	case "ctrl+c", "q":
		frame.Set(core.ActionQuit)
		return true
	case " ", "enter", "1", "2", "3", "4", "l", "a":
		frame.Set(core.ActionStop)
	}
	return false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "left", "h":
		return MenuActionLeft
	case "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
