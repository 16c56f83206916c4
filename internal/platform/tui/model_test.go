package tui

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/chicken-arcade/internal/core"
	"github.com/vovakirdan/chicken-arcade/internal/games/chicken"
	"github.com/vovakirdan/chicken-arcade/internal/storage"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
}

func newTestModel(t *testing.T, humans int, store *storage.Store, opts Options) Model {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	m := NewModel(chicken.New(humans), store, testConfig(), opts)
	if m.Init() == nil {
		t.Fatal("Init should start the tick loop")
	}
	return m
}

func sendKey(m Model, k string) Model {
	next, _ := m.Update(keyMsg(k))
	return next.(Model)
}

func tick(m Model) Model {
	next, _ := m.Update(TickMsg{})
	return next.(Model)
}

func TestModelRingsWhenPlayersStartWalking(t *testing.T) {
	var bell bytes.Buffer
	m := newTestModel(t, 1, nil, Options{Bell: &bell})

	// The go delay is one second at 60 ticks per second.
	for range 90 {
		m = tick(m)
	}
	if !strings.Contains(bell.String(), "\a") {
		t.Error("round start should ring the bell")
	}
	if m.State().GameOver {
		t.Error("round should still be running")
	}
}

func TestModelQuitRecordsAbortedRound(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "rounds.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, 1, store, Options{})
	m = tick(m)
	m = sendKey(m, "q")
	if m.IsQuitting() {
		t.Fatal("quit should wait for the next tick")
	}

	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	if !m.IsQuitting() || cmd == nil {
		t.Fatal("model should quit after the tick")
	}

	rounds, err := store.RecentRounds("", 10)
	if err != nil {
		t.Fatalf("RecentRounds: %v", err)
	}
	if len(rounds) != 1 {
		t.Fatalf("saved %d rounds, expected 1", len(rounds))
	}
	if r := rounds[0]; !r.Aborted || r.GameID != chicken.VariantID(1) || r.HasWinner() {
		t.Errorf("saved round = %+v", r)
	}
}

func TestModelRestartOnlyAfterRound(t *testing.T) {
	m := newTestModel(t, 1, nil, Options{})
	m = sendKey(m, "r")
	if m.input.Any(core.ActionRestart) {
		t.Error("restart should be ignored while the round runs")
	}
}

func TestModelBackNeedsPauseWhenEmbedded(t *testing.T) {
	m := newTestModel(t, 1, nil, Options{Embedded: true})

	m = sendKey(m, "b")
	if m.BackToMenu() {
		t.Fatal("back should be ignored mid-round")
	}

	m = sendKey(m, "p")
	m = tick(m)
	if !m.State().Paused {
		t.Fatal("p should pause the round")
	}
	m = sendKey(m, "b")
	if !m.BackToMenu() {
		t.Error("back should work while paused")
	}
}

func TestModelBackIgnoredStandalone(t *testing.T) {
	m := newTestModel(t, 1, nil, Options{})
	m = sendKey(m, "p")
	m = tick(m)
	m = sendKey(m, "b")
	if m.BackToMenu() {
		t.Error("standalone play has no menu to return to")
	}
}

func TestModelViewDrawsRound(t *testing.T) {
	m := newTestModel(t, 2, nil, Options{})
	m = tick(m)

	view := m.View()
	if got := strings.Count(view, "\n"); got != 23 {
		t.Errorf("view has %d line breaks, expected 23", got)
	}
	if !strings.Contains(view, "P2") {
		t.Error("view should label the second player")
	}
}
