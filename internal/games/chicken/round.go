package chicken

import "github.com/vovakirdan/chicken-arcade/internal/core"

// Phase is the stage of a round.
type Phase int

const (
	PhaseActive   Phase = iota // players walking
	PhaseEnding                // everyone settled, timer running to the result
	PhaseFinished              // terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseEnding:
		return "ending"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// RoundTick reports what happened during one Advance.
type RoundTick struct {
	Announced bool // winner became visible this tick
	Finished  bool // round finished this tick
}

// Round is the round state machine: Active -> Ending -> Finished.
// The winner is decided exactly once, on leaving Active, and may be absent.
type Round struct {
	phase     Phase
	endTimer  float64
	winner    core.PlayerID
	hasWinner bool
	announced bool

	winShowDelay float64
	winDelay     float64
}

// NewRound creates an Active round.
func NewRound(winShowDelay, winDelay float64) *Round {
	return &Round{
		winShowDelay: winShowDelay,
		winDelay:     winDelay,
	}
}

// Phase returns the current phase.
func (r *Round) Phase() Phase { return r.phase }

// EndTimer returns the seconds spent in Ending (and beyond).
func (r *Round) EndTimer() float64 { return r.endTimer }

// Decided reports whether the winner decision has been made.
func (r *Round) Decided() bool { return r.phase != PhaseActive }

// Winner returns the winning slot. ok is false while the round is Active
// or when nobody survived.
func (r *Round) Winner() (id core.PlayerID, ok bool) {
	return r.winner, r.hasWinner
}

// WinnerVisible reports whether the result should be on screen.
func (r *Round) WinnerVisible() bool {
	return r.phase != PhaseActive && r.endTimer >= r.winShowDelay
}

// AllSettled reports whether no agent has control left.
func AllSettled(agents []*Agent) bool {
	for _, a := range agents {
		if a.HasControl() {
			return false
		}
	}
	return true
}

// PickWinner returns the alive agent closest to target. Ties go to the
// lowest slot. ok is false when no agent is alive.
func PickWinner(agents []*Agent, target core.Vec3) (id core.PlayerID, ok bool) {
	best := 0.0
	for _, a := range agents {
		if !a.Alive() {
			continue
		}
		d := a.Distance(target)
		if !ok || d < best {
			id, best, ok = a.Slot, d, true
		}
	}
	return id, ok
}

// End moves an Active round to Ending and decides the winner.
// It returns false, and changes nothing, in any other phase.
func (r *Round) End(agents []*Agent, target core.Vec3) bool {
	if r.phase != PhaseActive {
		return false
	}
	r.winner, r.hasWinner = PickWinner(agents, target)
	r.phase = PhaseEnding
	r.endTimer = 0
	return true
}

// Advance runs the Ending timer by dt seconds. It is a no-op outside Ending.
func (r *Round) Advance(dt float64) RoundTick {
	var t RoundTick
	if r.phase != PhaseEnding {
		return t
	}
	r.endTimer += dt
	if !r.announced && r.endTimer >= r.winShowDelay {
		r.announced = true
		t.Announced = true
	}
	if r.endTimer > r.winDelay {
		r.phase = PhaseFinished
		t.Finished = true
	}
	return t
}
