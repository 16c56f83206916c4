package chicken

import (
	"math"
	"testing"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestStartPosesFaceTarget(t *testing.T) {
	poses := StartPoses(100, 0.15)
	for i, p := range poses {
		if d := p.Pos.Ground().Len(); !near(d, 100) {
			t.Errorf("slot %d starts %f from the target, expected 100", i, d)
		}
		if p.Pos.Y != 0.15 {
			t.Errorf("slot %d Y = %f, expected ground height", i, p.Pos.Y)
		}
		dir, _ := core.Vec3{}.Sub(p.Pos).Ground().Normalize()
		if h := heading(dir); !near(h, p.Rotation) {
			t.Errorf("slot %d heading %f does not face the target (%f)", i, p.Rotation, h)
		}
	}
}

func TestAgentMoveTowardTarget(t *testing.T) {
	a := NewAgent(core.Player1, StartPoses(100, 0.15)[0], 10, NewHumanPilot())

	a.Move(1, core.Vec3{})

	if !near(a.Pos.X, -90) || !near(a.Pos.Z, 0) {
		t.Errorf("after 1s at speed 10, pos = %+v, expected (-90, _, 0)", a.Pos)
	}
	if a.Pos.Y != 0.15 {
		t.Errorf("Move should keep the ground height, got Y=%f", a.Pos.Y)
	}
	if !near(a.Rotation, math.Pi/2) {
		t.Errorf("Rotation = %f, expected π/2", a.Rotation)
	}
}

func TestAgentMoveIgnoresHeightDifference(t *testing.T) {
	a := NewAgent(core.Player2, StartPose{Pos: core.V3(0, 5, -10)}, 10, NewHumanPilot())

	a.Move(0.5, core.Vec3{})

	if !near(a.Pos.Z, -5) || a.Pos.Y != 5 {
		t.Errorf("pos = %+v, expected ground-plane step to (0, 5, -5)", a.Pos)
	}
}

func TestAgentMoveZeroDirectionIsNoop(t *testing.T) {
	a := NewAgent(core.Player1, StartPose{Pos: core.V3(0, 0.15, 0), Rotation: 1}, 10, NewHumanPilot())

	a.Move(1, core.Vec3{})

	if a.Pos != core.V3(0, 0.15, 0) {
		t.Errorf("agent on the target should not move, got %+v", a.Pos)
	}
	if a.Rotation != 1 || math.IsNaN(a.Pos.X) {
		t.Errorf("zero direction should leave state untouched, got rot=%f pos=%+v", a.Rotation, a.Pos)
	}
}

func TestAgentRequestStop(t *testing.T) {
	a := NewAgent(core.Player1, StartPoses(100, 0)[0], 10, NewHumanPilot())

	if !a.RequestStop() {
		t.Fatal("first RequestStop should succeed")
	}
	if !a.Stopped() || a.HasControl() || a.Speed() != 0 {
		t.Errorf("stopped agent: stopped=%v control=%v speed=%f", a.Stopped(), a.HasControl(), a.Speed())
	}
	if a.RequestStop() {
		t.Error("second RequestStop should be a no-op")
	}

	before := a.Pos
	a.Move(1, core.Vec3{})
	if a.Pos != before {
		t.Error("stopped agent should not move")
	}
}

func TestAgentEliminateImpliesStopped(t *testing.T) {
	a := NewAgent(core.Player3, StartPoses(100, 0)[2], 10, NewHumanPilot())
	a.eliminate()

	if a.Alive() || !a.Stopped() || a.HasControl() {
		t.Errorf("eliminated agent: alive=%v stopped=%v control=%v", a.Alive(), a.Stopped(), a.HasControl())
	}
	if a.RequestStop() {
		t.Error("eliminated agent cannot be stopped again")
	}
}

func TestAgentPilotKinds(t *testing.T) {
	human := NewAgent(core.Player1, StartPose{}, 10, NewHumanPilot())
	if !human.Human() || human.AIReactionTicks() != 0 {
		t.Error("human agent should report Human and no reaction delay")
	}
	if _, ok := human.AITarget(); ok {
		t.Error("human agent has no AI target")
	}

	ai := NewAgent(core.Player2, StartPose{}, 10, &AIPilot{reactionTicks: 7, targetPeer: core.Player4})
	if ai.Human() {
		t.Error("AI agent should not report Human")
	}
	if ai.AIReactionTicks() != 7 {
		t.Errorf("AIReactionTicks = %d, expected 7", ai.AIReactionTicks())
	}
	if peer, ok := ai.AITarget(); !ok || peer != core.Player4 {
		t.Errorf("AITarget = %v, %v", peer, ok)
	}
}
