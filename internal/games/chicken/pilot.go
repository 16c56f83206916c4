package chicken

import (
	"math/rand"

	"github.com/vovakirdan/chicken-arcade/internal/config"
	"github.com/vovakirdan/chicken-arcade/internal/core"
)

// Decision is what a pilot wants its agent to do this tick.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionStop
	DecisionQuit
)

// Pilot decides, once per tick, whether its agent stops.
// The controller calls Decide every tick, including before the round is
// released, so pilots can track input edges; stops are only applied once
// the agents are walking.
type Pilot interface {
	Decide(a *Agent, in core.InputFrame, target core.Vec3) Decision
	Human() bool
}

// HumanPilot turns player input into decisions. A stop is edge-triggered:
// it fires on the first tick the stop action is present, not while it is
// held over consecutive ticks.
type HumanPilot struct {
	held bool
}

// NewHumanPilot creates a pilot for a human player.
func NewHumanPilot() *HumanPilot {
	return &HumanPilot{}
}

// Decide implements Pilot.
func (p *HumanPilot) Decide(a *Agent, in core.InputFrame, _ core.Vec3) Decision {
	pressed := in.Has(core.ActionStop)
	edge := pressed && !p.held
	p.held = pressed

	if in.Has(core.ActionQuit) {
		return DecisionQuit
	}
	if edge && a.HasControl() {
		return DecisionStop
	}
	return DecisionNone
}

// Human implements Pilot.
func (p *HumanPilot) Human() bool { return true }

// AIPilot drives a computer player.
//
// The passive policy never stops, so the agent walks into the center.
// The reactive policy picks a nerve distance when the round is created;
// once the agent is that close it waits ReactionTicks ticks and stops.
type AIPilot struct {
	policy        config.AIPolicy
	reactionTicks int
	targetPeer    core.PlayerID
	nerve         float64

	armed     bool
	countdown int
}

// NewAIPilot creates a pilot for slot. The reaction delay, watched peer and
// nerve distance are drawn from rng.
func NewAIPilot(slot core.PlayerID, s Settings, rng *rand.Rand) *AIPilot {
	return &AIPilot{
		policy:        s.AIPolicy,
		reactionTicks: config.ReactionTicks(s.AIDifficulty, rng),
		targetPeer:    core.PlayerID((int(slot) + 1 + rng.Intn(core.MaxPlayers-1)) % core.MaxPlayers),
		nerve:         config.NerveDistance(s.aiConfig(), s.HitRadius, rng),
	}
}

// ReactionTicks returns the delay between reaching the nerve distance and stopping.
func (p *AIPilot) ReactionTicks() int { return p.reactionTicks }

// TargetPeer returns the other player this AI watches. Decisions do not use it.
func (p *AIPilot) TargetPeer() core.PlayerID { return p.targetPeer }

// Nerve returns the distance at which a reactive AI starts reacting.
func (p *AIPilot) Nerve() float64 { return p.nerve }

// Decide implements Pilot. AI players never quit.
func (p *AIPilot) Decide(a *Agent, _ core.InputFrame, target core.Vec3) Decision {
	if p.policy != config.AIPolicyReactive || !a.HasControl() {
		return DecisionNone
	}
	if !p.armed {
		if a.Distance(target) > p.nerve {
			return DecisionNone
		}
		p.armed = true
		p.countdown = p.reactionTicks
	}
	if p.countdown > 0 {
		p.countdown--
		return DecisionNone
	}
	return DecisionStop
}

// Human implements Pilot.
func (p *AIPilot) Human() bool { return false }
