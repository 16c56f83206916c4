package chicken

import (
	"math/rand"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

// Controller drives one round: pilots decide, agents move, collisions are
// resolved and the round state machine advances, once per fixed tick.
// It owns all round state; nothing is shared between rounds.
type Controller struct {
	settings Settings
	agents   []*Agent
	round    *Round

	goTimer  float64
	released bool
	started  bool
	aborted  bool
	quitter  core.PlayerID

	ticks   int
	elapsed float64

	cues    CueSink
	outcome *Outcome

	// OnOutcome is called once when the round finishes or is aborted.
	OnOutcome func(Outcome)
}

// NewController seats Humans human players in the first slots and AI
// players in the rest. Settings are assumed valid.
func NewController(s Settings, rng *rand.Rand) *Controller {
	poses := StartPoses(s.StartDistance, s.GroundY)
	agents := make([]*Agent, core.MaxPlayers)
	for i := range agents {
		slot := core.PlayerID(i)
		var p Pilot
		if i < s.Humans {
			p = NewHumanPilot()
		} else {
			p = NewAIPilot(slot, s, rng)
		}
		agents[i] = NewAgent(slot, poses[i], s.Speed, p)
	}
	return &Controller{
		settings: s,
		agents:   agents,
		round:    NewRound(s.WinShowDelay, s.WinDelay),
	}
}

// SetCueSink sets the receiver of controller events.
func (c *Controller) SetCueSink(sink CueSink) {
	c.cues = sink
}

// Settings returns the round constants.
func (c *Controller) Settings() Settings { return c.settings }

// Agents returns the agents in slot order.
func (c *Controller) Agents() []*Agent { return c.agents }

// Agent returns the agent in slot id, or nil for an invalid slot.
func (c *Controller) Agent(id core.PlayerID) *Agent {
	if !id.Valid() {
		return nil
	}
	return c.agents[id]
}

// Round returns the round state machine.
func (c *Controller) Round() *Round { return c.round }

// Released reports whether the go delay is over and agents walk.
func (c *Controller) Released() bool { return c.released }

// GoRemaining returns the seconds left before agents start walking.
func (c *Controller) GoRemaining() float64 {
	if c.released {
		return 0
	}
	return max(0, c.settings.GoDelay-c.goTimer)
}

// Ticks returns the number of ticks stepped.
func (c *Controller) Ticks() int { return c.ticks }

// Done reports whether the round has finished or been aborted.
func (c *Controller) Done() bool {
	return c.aborted || c.round.Phase() == PhaseFinished
}

// Aborted reports whether a human quit the round.
func (c *Controller) Aborted() bool { return c.aborted }

// Outcome returns the round result once Done.
func (c *Controller) Outcome() (Outcome, bool) {
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}

// ForceStop stops the agent in slot id as if its player pressed stop.
// Used when a remote player disconnects.
func (c *Controller) ForceStop(id core.PlayerID) bool {
	a := c.Agent(id)
	if a == nil || c.Done() {
		return false
	}
	return a.RequestStop()
}

// Step advances the round by dt seconds and returns the events it raised.
func (c *Controller) Step(dt float64, in core.MultiInputFrame) []Event {
	if c.Done() {
		return nil
	}
	var events []Event
	emit := func(e Event) {
		e.Tick = c.ticks
		events = append(events, e)
		if c.cues != nil {
			c.cues.Cue(e)
		}
	}

	controlBefore := c.leadHasControl()
	c.ticks++
	c.elapsed += dt

	if !c.released {
		c.goTimer += dt
		if c.goTimer >= c.settings.GoDelay {
			c.released = true
		}
	}

	target := c.settings.Target
	for _, a := range c.agents {
		switch a.pilot.Decide(a, in.Player(a.Slot), target) {
		case DecisionQuit:
			if !c.aborted {
				c.aborted = true
				c.quitter = a.Slot
			}
		case DecisionStop:
			if c.released {
				a.RequestStop()
			}
		}
	}
	if c.aborted {
		emit(Event{Kind: EventRoundAborted, Player: c.quitter})
		c.finish()
		return events
	}

	if c.released {
		for _, a := range c.agents {
			a.Move(dt, target)
		}
	}

	if !c.started && !controlBefore && c.leadHasControl() {
		c.started = true
		emit(Event{Kind: EventRoundStarted})
	}

	if c.round.Phase() == PhaseActive {
		for _, pair := range ResolveCollisions(c.agents, target, c.settings.HitRadius) {
			emit(Event{Kind: EventPlayersCollided, Pair: pair})
		}
		if AllSettled(c.agents) && c.round.End(c.agents, target) {
			w, ok := c.round.Winner()
			emit(Event{Kind: EventPlayerReachedCenter, Winner: w, HasWinner: ok})
		}
	} else {
		t := c.round.Advance(dt)
		w, ok := c.round.Winner()
		if t.Announced {
			emit(Event{Kind: EventWinnerAnnounced, Winner: w, HasWinner: ok})
		}
		if t.Finished {
			emit(Event{Kind: EventRoundFinished, Winner: w, HasWinner: ok})
			c.finish()
		}
	}
	return events
}

// leadHasControl is the round-start signal: slot 0 is walking.
func (c *Controller) leadHasControl() bool {
	return c.released && c.agents[core.Player1].HasControl()
}

func (c *Controller) finish() {
	out := Outcome{
		Aborted: c.aborted,
		Ticks:   c.ticks,
		Elapsed: c.elapsed,
	}
	if !c.aborted {
		out.Winner, out.HasWinner = c.round.Winner()
	}
	for i, a := range c.agents {
		out.Players[i] = PlayerResult{
			Slot:     a.Slot,
			Human:    a.Human(),
			Alive:    a.Alive(),
			Stopped:  a.Stopped(),
			Distance: a.Distance(c.settings.Target),
		}
	}
	c.outcome = &out
	if c.OnOutcome != nil {
		c.OnOutcome(out)
	}
}
