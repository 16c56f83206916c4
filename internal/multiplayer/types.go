// Package multiplayer runs online rounds: lobbies with join codes, an
// authoritative match loop per round, and transport-neutral session handles.
// Games plug in through OnlineGame and never see sessions.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

// PlayerID is an alias to core.PlayerID for convenience.
// The host always plays Player1; joiners take the next free slots.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1    = core.Player1
	Player2    = core.Player2
	Player3    = core.Player3
	Player4    = core.Player4
	MaxPlayers = core.MaxPlayers
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies one online round.
type MatchID string

// NewMatchID returns a fresh random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// MatchMode defines how a round is seated.
type MatchMode int

const (
	// MatchModeLocal is hot-seat play: every human shares one keyboard.
	MatchModeLocal MatchMode = iota

	// MatchModeOnline seats each human on their own SSH session.
	MatchModeOnline
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeLocal:
		return "Local"
	case MatchModeOnline:
		return "Online"
	default:
		return "Unknown"
	}
}

// Seats maps player slots to sessions. A nil entry is a computer player.
type Seats [MaxPlayers]SessionHandle

// Humans returns the number of seated sessions.
func (s Seats) Humans() int {
	n := 0
	for _, h := range s {
		if h != nil {
			n++
		}
	}
	return n
}

// SlotOf returns the slot of a session.
func (s Seats) SlotOf(id SessionID) (PlayerID, bool) {
	for i, h := range s {
		if h != nil && h.ID() == id {
			return PlayerID(i), true
		}
	}
	return 0, false
}

// SessionIDs returns the session id per slot, empty for computer players.
func (s Seats) SessionIDs() [MaxPlayers]string {
	var ids [MaxPlayers]string
	for i, h := range s {
		if h != nil {
			ids[i] = string(h.ID())
		}
	}
	return ids
}

// Broadcast sends evt to every seated session.
func (s Seats) Broadcast(evt SessionEvent) {
	for _, h := range s {
		if h != nil {
			h.Send(evt)
		}
	}
}
