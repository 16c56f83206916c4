// Package tui provides the Bubble Tea front end: local hot-seat rounds,
// the menu and scoreboard, online lobbies and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a round simulation tick.
type TickMsg time.Time

// tickCmd schedules the next tick at tickRate Hz (60 when unset).
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
