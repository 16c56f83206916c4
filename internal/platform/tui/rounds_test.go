package tui

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chicken-arcade/internal/core"
	"github.com/vovakirdan/chicken-arcade/internal/games/chicken"
	"github.com/vovakirdan/chicken-arcade/internal/storage"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRoundRecordWinner(t *testing.T) {
	o := chicken.Outcome{
		Winner:    core.Player2,
		HasWinner: true,
		Ticks:     420,
		Elapsed:   7,
	}
	for i := range o.Players {
		o.Players[i] = chicken.PlayerResult{Slot: core.PlayerID(i), Human: i < 2, Alive: true, Stopped: true, Distance: 20}
	}
	o.Players[1].Distance = 12.5

	rec := roundRecord("chicken-2p", 2, o, 275)
	if rec.WinnerSlot != 1 || !rec.HasWinner() {
		t.Errorf("WinnerSlot = %d, expected 1", rec.WinnerSlot)
	}
	if rec.Score != 275 || rec.Ticks != 420 || rec.Elapsed != 7 || rec.Humans != 2 {
		t.Errorf("unexpected record %+v", rec)
	}
	if len(rec.Players) != core.MaxPlayers {
		t.Fatalf("record has %d players", len(rec.Players))
	}
	if p := rec.Players[1]; !p.Human || p.Distance != 12.5 {
		t.Errorf("P2 = %+v", p)
	}
	if rec.Players[3].Human {
		t.Error("P4 should be a computer player")
	}
}

func TestRoundRecordWithoutWinner(t *testing.T) {
	rec := roundRecord("chicken-1p", 1, chicken.Outcome{Aborted: true}, 0)
	if rec.WinnerSlot != storage.NoWinner || rec.HasWinner() {
		t.Errorf("WinnerSlot = %d, expected none", rec.WinnerSlot)
	}
	if !rec.Aborted {
		t.Error("aborted flag lost")
	}
}

func TestCueBufferRingsOnAudibleEvents(t *testing.T) {
	var bell bytes.Buffer
	cues := &cueBuffer{}

	cues.Cue(chicken.Event{Kind: chicken.EventPlayersCollided})
	cues.drain(quietLogger(), &bell)
	if bell.Len() != 0 {
		t.Errorf("collision rang the bell: %q", bell.String())
	}

	cues.Cue(chicken.Event{Kind: chicken.EventRoundStarted})
	cues.Cue(chicken.Event{Kind: chicken.EventPlayerReachedCenter})
	cues.drain(quietLogger(), &bell)
	if bell.String() != "\a" {
		t.Errorf("bell = %q, expected one ring per drain", bell.String())
	}
	if len(cues.pending) != 0 {
		t.Error("drain should empty the buffer")
	}

	// A nil bell only logs.
	cues.Cue(chicken.Event{Kind: chicken.EventWinnerAnnounced})
	cues.drain(quietLogger(), nil)
}

func TestWinnerLabel(t *testing.T) {
	if got := winnerLabel(chicken.Outcome{}); got != "none" {
		t.Errorf("winnerLabel(no winner) = %q", got)
	}
	if got := winnerLabel(chicken.Outcome{Winner: core.Player4, HasWinner: true}); got != "P4" {
		t.Errorf("winnerLabel(P4) = %q", got)
	}
}
