package multiplayer

import "github.com/vovakirdan/chicken-arcade/internal/core"

// SessionEvent represents an event sent from the coordinator to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent when a lobby is successfully created.
type LobbyCreatedEvent struct {
	Code   string
	GameID string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby operation fails.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyUpdatedEvent is sent to everyone in a lobby when somebody joins or leaves.
type LobbyUpdatedEvent struct {
	Code    string
	Slot    PlayerID // The receiving session's slot
	Players int      // Seated humans, host included
	IsHost  bool
}

func (LobbyUpdatedEvent) sessionEvent() {}

// MatchStartedEvent is sent when the round begins.
type MatchStartedEvent struct {
	MatchID MatchID
	Slot    PlayerID
	Code    string // Keep code for display
	Humans  int
}

func (MatchStartedEvent) sessionEvent() {}

// MatchEndedEvent is sent when the round ends or the lobby closes.
type MatchEndedEvent struct {
	MatchID   MatchID
	Reason    MatchEndReason
	Winner    PlayerID
	HasWinner bool
	Scores    [MaxPlayers]int
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted MatchEndReason = iota // Round finished normally
	MatchEndReasonAbandoned                       // Every human left mid-round
	MatchEndReasonCancelled                       // Match was stopped by the server
	MatchEndReasonHostLeft                        // Host left the lobby
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Round completed"
	case MatchEndReasonAbandoned:
		return "Everyone left"
	case MatchEndReasonCancelled:
		return "Round cancelled"
	case MatchEndReasonHostLeft:
		return "Host left"
	default:
		return "Unknown"
	}
}

// SnapshotEvent carries a game state snapshot to sessions.
type SnapshotEvent struct {
	MatchID  MatchID
	Tick     uint64
	Snapshot GameSnapshot
}

func (SnapshotEvent) sessionEvent() {}

// GameSnapshot is the interface for game-specific snapshot data.
type GameSnapshot interface {
	IsGameSnapshot() // Marker method for type safety
}

// CoordinatorMessage represents a message from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg requests creation of a new lobby.
type CreateLobbyMsg struct {
	SessionID SessionID
	GameID    string
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg requests joining an existing lobby.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// StartLobbyMsg asks to start the round. Only the host may start it;
// empty slots are filled with computer players.
type StartLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (StartLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg requests cancellation of a hosted lobby.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg requests leaving a joined lobby.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg requests leaving an active match. The player's agent stops.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerInputMsg sends player input to a match.
type PlayerInputMsg struct {
	MatchID  MatchID
	Player   PlayerID
	TickHint uint64 // Optional client tick counter
	Input    core.InputFrame
}

func (PlayerInputMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session disconnects.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
