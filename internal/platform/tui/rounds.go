package tui

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chicken-arcade/internal/core"
	"github.com/vovakirdan/chicken-arcade/internal/games/chicken"
	"github.com/vovakirdan/chicken-arcade/internal/storage"
)

// roundReporter is implemented by games that raise cues and report outcomes.
type roundReporter interface {
	SetCueSink(chicken.CueSink)
	SetOutcomeHandler(func(chicken.Outcome))
	Score(core.PlayerID) int
	Humans() int
}

// ringsBell reports whether an event is audible.
func ringsBell(kind chicken.EventKind) bool {
	switch kind {
	case chicken.EventRoundStarted, chicken.EventPlayerReachedCenter, chicken.EventWinnerAnnounced:
		return true
	default:
		return false
	}
}

// cueBuffer collects controller events between two Bubble Tea updates.
// It is shared by pointer because Bubble Tea models are copied.
type cueBuffer struct {
	pending []chicken.Event
}

// Cue implements chicken.CueSink.
func (b *cueBuffer) Cue(e chicken.Event) {
	b.pending = append(b.pending, e)
}

// drain logs the buffered events and rings the bell for audible ones.
func (b *cueBuffer) drain(logger *log.Logger, bell io.Writer) {
	ring := false
	for _, e := range b.pending {
		logger.Debug("cue", "event", e.String(), "tick", e.Tick)
		ring = ring || ringsBell(e.Kind)
	}
	b.pending = b.pending[:0]
	if ring && bell != nil {
		_, _ = io.WriteString(bell, "\a")
	}
}

// roundRecord converts a finished round for storage.
func roundRecord(gameID string, humans int, o chicken.Outcome, score int) storage.RoundRecord {
	rec := storage.RoundRecord{
		GameID:     gameID,
		Humans:     humans,
		WinnerSlot: storage.NoWinner,
		Aborted:    o.Aborted,
		Ticks:      o.Ticks,
		Elapsed:    o.Elapsed,
		Score:      score,
	}
	if o.HasWinner {
		rec.WinnerSlot = int(o.Winner)
	}
	for _, p := range o.Players {
		rec.Players = append(rec.Players, storage.RoundPlayer{
			Slot:     int(p.Slot),
			Human:    p.Human,
			Alive:    p.Alive,
			Stopped:  p.Stopped,
			Distance: p.Distance,
		})
	}
	return rec
}

// attachRound wires cues and outcome persistence into a game. It returns
// the cue buffer, or nil when the game does not report rounds.
func attachRound(game interface{ ID() string }, store *storage.Store, logger *log.Logger) *cueBuffer {
	r, ok := game.(roundReporter)
	if !ok {
		return nil
	}

	cues := &cueBuffer{}
	r.SetCueSink(cues)
	r.SetOutcomeHandler(func(o chicken.Outcome) {
		score := 0
		if o.HasWinner {
			score = r.Score(o.Winner)
		}
		logger.Info("round over",
			"game", game.ID(),
			"winner", winnerLabel(o),
			"aborted", o.Aborted,
			"score", score,
			"elapsed", o.Elapsed,
		)
		if store == nil {
			return
		}
		id, err := store.SaveRound(roundRecord(game.ID(), r.Humans(), o, score))
		if err != nil {
			logger.Warn("could not save round", "err", err)
			return
		}
		logger.Debug("round saved", "round", id)
	})
	return cues
}

func winnerLabel(o chicken.Outcome) string {
	if !o.HasWinner {
		return "none"
	}
	return o.Winner.String()
}
