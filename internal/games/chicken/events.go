package chicken

import (
	"fmt"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

// EventKind identifies a cue emitted by the controller.
type EventKind int

const (
	EventRoundStarted        EventKind = iota // agents start walking
	EventPlayersCollided                      // a pair was eliminated
	EventPlayerReachedCenter                  // everyone settled, winner decided
	EventWinnerAnnounced                      // winner becomes visible
	EventRoundFinished                        // round over, outcome reported
	EventRoundAborted                         // a human quit mid-round
)

func (k EventKind) String() string {
	switch k {
	case EventRoundStarted:
		return "round_started"
	case EventPlayersCollided:
		return "players_collided"
	case EventPlayerReachedCenter:
		return "player_reached_center"
	case EventWinnerAnnounced:
		return "winner_announced"
	case EventRoundFinished:
		return "round_finished"
	case EventRoundAborted:
		return "round_aborted"
	default:
		return "unknown"
	}
}

// Event is a discrete signal for sound, logging and the host.
type Event struct {
	Kind      EventKind
	Tick      int
	Winner    core.PlayerID // PlayerReachedCenter, WinnerAnnounced, RoundFinished
	HasWinner bool
	Pair      Collision     // PlayersCollided
	Player    core.PlayerID // RoundAborted: who quit
}

func (e Event) String() string {
	switch e.Kind {
	case EventPlayersCollided:
		return fmt.Sprintf("%s %s+%s", e.Kind, e.Pair.First, e.Pair.Second)
	case EventRoundAborted:
		return fmt.Sprintf("%s by %s", e.Kind, e.Player)
	case EventPlayerReachedCenter, EventWinnerAnnounced, EventRoundFinished:
		if !e.HasWinner {
			return fmt.Sprintf("%s no winner", e.Kind)
		}
		return fmt.Sprintf("%s winner=%s", e.Kind, e.Winner)
	default:
		return e.Kind.String()
	}
}

// CueSink receives controller events, e.g. to play sounds.
type CueSink interface {
	Cue(Event)
}

// CueFunc adapts a function to CueSink.
type CueFunc func(Event)

// Cue implements CueSink.
func (f CueFunc) Cue(e Event) { f(e) }

// PlayerResult is one player's final state.
type PlayerResult struct {
	Slot     core.PlayerID
	Human    bool
	Alive    bool
	Stopped  bool
	Distance float64
}

// Outcome is the result of a round reported to the host.
type Outcome struct {
	Winner    core.PlayerID
	HasWinner bool
	Aborted   bool
	Ticks     int
	Elapsed   float64 // simulated seconds
	Players   [core.MaxPlayers]PlayerResult
}

// WinnerResult returns the winner's result, if any.
func (o Outcome) WinnerResult() (PlayerResult, bool) {
	if !o.HasWinner || !o.Winner.Valid() {
		return PlayerResult{}, false
	}
	return o.Players[o.Winner], true
}
