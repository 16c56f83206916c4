// Package chicken implements the round logic of the Chicken minigame:
// four players walk toward a shared center, anyone may stop, two players
// reaching the center zone together are eliminated, and the closest
// survivor wins.
package chicken

import (
	"math"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

// StartPose is a fixed start position and heading.
type StartPose struct {
	Pos      core.Vec3
	Rotation float64
}

// StartPoses returns the compass start table for a target at the origin.
// Every player faces the target.
func StartPoses(distance, groundY float64) [core.MaxPlayers]StartPose {
	return [core.MaxPlayers]StartPose{
		{Pos: core.V3(-distance, groundY, 0), Rotation: math.Pi / 2},
		{Pos: core.V3(0, groundY, -distance), Rotation: 0},
		{Pos: core.V3(distance, groundY, 0), Rotation: 3 * math.Pi / 2},
		{Pos: core.V3(0, groundY, distance), Rotation: math.Pi},
	}
}

// Agent is one player in a round.
// Alive only goes true->false and stopped only goes false->true;
// an eliminated agent is always stopped.
type Agent struct {
	Slot     core.PlayerID
	Pos      core.Vec3
	Rotation float64 // heading in radians, [0, 2π)

	alive   bool
	stopped bool
	speed   float64
	pilot   Pilot
}

// NewAgent places a walking agent at its start pose.
func NewAgent(slot core.PlayerID, pose StartPose, speed float64, pilot Pilot) *Agent {
	return &Agent{
		Slot:     slot,
		Pos:      pose.Pos,
		Rotation: pose.Rotation,
		alive:    true,
		speed:    speed,
		pilot:    pilot,
	}
}

// HasControl reports whether the agent can still move or stop.
func (a *Agent) HasControl() bool {
	return a.alive && !a.stopped
}

// Alive reports whether the agent has not been eliminated.
func (a *Agent) Alive() bool { return a.alive }

// Stopped reports whether the agent no longer moves.
func (a *Agent) Stopped() bool { return a.stopped }

// Speed returns the current speed magnitude; zero once stopped.
func (a *Agent) Speed() float64 { return a.speed }

// Human reports whether a person controls this agent.
func (a *Agent) Human() bool {
	return a.pilot != nil && a.pilot.Human()
}

// AIReactionTicks returns the AI reaction delay, or 0 for humans.
func (a *Agent) AIReactionTicks() int {
	if ai, ok := a.pilot.(*AIPilot); ok {
		return ai.ReactionTicks()
	}
	return 0
}

// AITarget returns the peer an AI agent watches. The second result is
// false for humans.
func (a *Agent) AITarget() (core.PlayerID, bool) {
	if ai, ok := a.pilot.(*AIPilot); ok {
		return ai.TargetPeer(), true
	}
	return 0, false
}

// Distance returns the distance from the agent to target.
func (a *Agent) Distance(target core.Vec3) float64 {
	return a.Pos.Distance(target)
}

// Move walks the agent toward target on the ground plane for dt seconds.
// A zero-length direction leaves the agent in place.
func (a *Agent) Move(dt float64, target core.Vec3) {
	if !a.HasControl() {
		return
	}
	dir, ok := target.Sub(a.Pos).Ground().Normalize()
	if !ok {
		return
	}
	a.Pos = a.Pos.Add(dir.Scale(a.speed * dt))
	a.Rotation = heading(dir)
}

// RequestStop stops a walking agent. It returns false, and does nothing,
// when the agent has already lost control.
func (a *Agent) RequestStop() bool {
	if !a.HasControl() {
		return false
	}
	a.stop()
	return true
}

func (a *Agent) stop() {
	a.stopped = true
	a.speed = 0
}

func (a *Agent) eliminate() {
	a.alive = false
	a.stop()
}

// heading converts a ground direction to a rotation in [0, 2π).
func heading(dir core.Vec3) float64 {
	r := math.Atan2(dir.X, dir.Z)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r
}
