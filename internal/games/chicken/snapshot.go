package chicken

import (
	"math"

	"github.com/vovakirdan/chicken-arcade/internal/core"
	"github.com/vovakirdan/chicken-arcade/internal/multiplayer"
)

// AgentSnapshot is the presentation state of one agent.
type AgentSnapshot struct {
	Slot     int     `json:"slot"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Rotation float64 `json:"rotation"`
	Distance float64 `json:"distance"`
	Alive    bool    `json:"alive"`
	Stopped  bool    `json:"stopped"`
	Human    bool    `json:"human"`
}

// Snapshot is everything needed to draw a round. It holds only plain values
// so it can be sent to SSH sessions and serialized for spectators.
type Snapshot struct {
	Tick          uint64                         `json:"tick"`
	Phase         string                         `json:"phase"`
	Elapsed       float64                        `json:"elapsed"`
	GoDelay       float64                        `json:"go_delay"`
	Released      bool                           `json:"released"`
	EndTimer      float64                        `json:"end_timer"`
	Winner        int                            `json:"winner"` // -1 when absent or undecided
	WinnerVisible bool                           `json:"winner_visible"`
	Aborted       bool                           `json:"aborted"`
	Paused        bool                           `json:"paused"`
	HitRadius     float64                        `json:"hit_radius"`
	StartDistance float64                        `json:"start_distance"`
	Agents        [core.MaxPlayers]AgentSnapshot `json:"agents"`
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (Snapshot) IsGameSnapshot() {}

// Ensure Snapshot implements multiplayer.GameSnapshot
var _ multiplayer.GameSnapshot = Snapshot{}

// WinnerSlot returns the decided winner, if any.
func (s Snapshot) WinnerSlot() (core.PlayerID, bool) {
	if s.Winner < 0 || s.Winner >= core.MaxPlayers {
		return 0, false
	}
	return core.PlayerID(s.Winner), true
}

// Done reports whether the round is over.
func (s Snapshot) Done() bool {
	return s.Aborted || s.Phase == PhaseFinished.String()
}

// Snapshot captures the controller state for presentation.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:          uint64(max(0, c.ticks)), //nolint:gosec // ticks never goes negative
		Phase:         c.round.Phase().String(),
		Elapsed:       c.elapsed,
		GoDelay:       c.settings.GoDelay,
		Released:      c.released,
		EndTimer:      c.round.EndTimer(),
		Winner:        -1,
		WinnerVisible: c.round.WinnerVisible(),
		Aborted:       c.aborted,
		HitRadius:     c.settings.HitRadius,
		StartDistance: c.settings.StartDistance,
	}
	if w, ok := c.round.Winner(); ok {
		snap.Winner = int(w)
	}
	for i, a := range c.agents {
		snap.Agents[i] = AgentSnapshot{
			Slot:     int(a.Slot),
			X:        a.Pos.X,
			Z:        a.Pos.Z,
			Rotation: a.Rotation,
			Distance: a.Distance(c.settings.Target),
			Alive:    a.Alive(),
			Stopped:  a.Stopped(),
			Human:    a.Human(),
		}
	}
	return snap
}

// ScoreFor converts a winning distance into points: ten per unit walked.
func ScoreFor(distance, startDistance float64) int {
	return max(0, int(math.Round((startDistance-distance)*10)))
}
