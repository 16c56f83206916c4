package chicken

import (
	"testing"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

func TestPickWinner(t *testing.T) {
	agents := agentsAt(30, 12, 12, 50)
	if w, ok := PickWinner(agents, core.Vec3{}); !ok || w != core.Player2 {
		t.Errorf("PickWinner = %v, %v; expected P2 (tie goes to the lowest slot)", w, ok)
	}

	agents[1].eliminate()
	if w, ok := PickWinner(agents, core.Vec3{}); !ok || w != core.Player3 {
		t.Errorf("PickWinner = %v, %v; expected closest alive P3", w, ok)
	}

	for _, a := range agents {
		a.eliminate()
	}
	if _, ok := PickWinner(agents, core.Vec3{}); ok {
		t.Error("no alive agents should mean no winner")
	}
}

func TestRoundEndDecidesOnce(t *testing.T) {
	r := NewRound(2, 5)
	agents := agentsAt(30, 20, 40, 50)
	for _, a := range agents {
		a.RequestStop()
	}

	if r.Decided() {
		t.Fatal("new round should be undecided")
	}
	if _, ok := r.Winner(); ok {
		t.Fatal("Active round should have no winner")
	}
	if !r.End(agents, core.Vec3{}) {
		t.Fatal("End from Active should succeed")
	}
	if w, ok := r.Winner(); !ok || w != core.Player2 {
		t.Errorf("winner = %v, %v; expected P2", w, ok)
	}

	agents[0].Pos = core.Vec3{}
	if r.End(agents, core.Vec3{}) {
		t.Error("End outside Active should fail")
	}
	if w, _ := r.Winner(); w != core.Player2 {
		t.Error("winner must not change after it is decided")
	}
}

func TestRoundAdvanceTimeline(t *testing.T) {
	r := NewRound(2, 5)
	if tick := r.Advance(1); tick != (RoundTick{}) || r.EndTimer() != 0 {
		t.Fatal("Advance should do nothing while Active")
	}

	r.End(agentsAt(10), core.Vec3{})

	const dt = 0.125
	announced := 0
	for i := 1; ; i++ {
		tick := r.Advance(dt)
		if tick.Announced {
			announced++
			if r.EndTimer() != 2.0 {
				t.Errorf("announced at %f, expected 2.0", r.EndTimer())
			}
		}
		if r.EndTimer() < 2 && r.WinnerVisible() {
			t.Errorf("winner visible early at %f", r.EndTimer())
		}
		if tick.Finished {
			if r.EndTimer() <= 5 {
				t.Errorf("finished at %f, expected > 5", r.EndTimer())
			}
			if i != 41 {
				t.Errorf("finished on advance %d, expected 41", i)
			}
			break
		}
		if r.Phase() != PhaseEnding {
			t.Fatalf("phase = %v before finishing", r.Phase())
		}
		if i > 100 {
			t.Fatal("round never finished")
		}
	}

	if announced != 1 {
		t.Errorf("announced %d times, expected once", announced)
	}
	if r.Phase() != PhaseFinished {
		t.Errorf("phase = %v, expected finished", r.Phase())
	}
	if tick := r.Advance(dt); tick != (RoundTick{}) || r.Phase() != PhaseFinished {
		t.Error("nothing leaves Finished")
	}
}

func TestAllSettled(t *testing.T) {
	agents := agentsAt(10, 20)
	if AllSettled(agents) {
		t.Error("walking agents are not settled")
	}
	agents[0].RequestStop()
	agents[1].eliminate()
	if !AllSettled(agents) {
		t.Error("stopped and eliminated agents are settled")
	}
}
