package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vovakirdan/chicken-arcade/internal/core"
	"github.com/vovakirdan/chicken-arcade/internal/games/chicken"
	"github.com/vovakirdan/chicken-arcade/internal/multiplayer"
)

// newIdleCoordinator returns a coordinator that queues messages without
// processing them.
func newIdleCoordinator() *multiplayer.Coordinator {
	return multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), nil, multiplayer.NewSessionRegistry())
}

func lobbyKey(m OnlineLobbyModel, k string) OnlineLobbyModel {
	next, _ := m.Update(keyMsg(k))
	return next.(OnlineLobbyModel)
}

func TestLobbyJoinCodeInput(t *testing.T) {
	m := NewOnlineLobbyModel("s1", newIdleCoordinator(), nil, 80, 24)
	m = lobbyKey(m, "j")
	if m.State() != OnlineStateJoinEnterCode {
		t.Fatalf("state = %v, expected code entry", m.State())
	}

	for _, k := range []string{"a", "b", "1", "8", "c", "2", "7", "x", "y"} {
		m = lobbyKey(m, k)
	}
	// 1 and 8 are not base32; input stops at six characters.
	if m.joinCodeInput != "ABC27X" {
		t.Errorf("code = %q, expected ABC27X", m.joinCodeInput)
	}

	m = lobbyKey(m, "backspace")
	if m.joinCodeInput != "ABC27" {
		t.Errorf("after backspace code = %q", m.joinCodeInput)
	}

	m = lobbyKey(m, "esc")
	if m.State() != OnlineStateChooseMode {
		t.Error("esc should return to mode choice")
	}
}

func TestLobbyEvents(t *testing.T) {
	m := NewOnlineLobbyModel("s2", newIdleCoordinator(), nil, 80, 24)

	next, _ := m.Update(multiplayer.LobbyUpdatedEvent{Code: "ABCDEF", Slot: core.Player3, Players: 3})
	m = next.(OnlineLobbyModel)
	if m.State() != OnlineStateJoinWaiting || m.LobbyCode() != "ABCDEF" || m.Slot() != core.Player3 {
		t.Errorf("after join update: state %v code %q slot %v", m.State(), m.LobbyCode(), m.Slot())
	}

	next, _ = m.Update(multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonHostLeft})
	m = next.(OnlineLobbyModel)
	if m.State() != OnlineStateChooseMode {
		t.Error("host leaving should return to mode choice")
	}

	next, cmd := m.Update(multiplayer.MatchStartedEvent{MatchID: "m1", Slot: core.Player2, Humans: 2})
	m = next.(OnlineLobbyModel)
	if m.State() != OnlineStateInMatch || m.MatchID() != "m1" || m.Slot() != core.Player2 {
		t.Errorf("after start: state %v match %q slot %v", m.State(), m.MatchID(), m.Slot())
	}
	if cmd != nil {
		t.Error("lobby should stop reading events once the match starts")
	}
}

func TestLobbyHostCreatedEvent(t *testing.T) {
	m := NewOnlineLobbyModel("s3", newIdleCoordinator(), nil, 80, 24)
	next, _ := m.Update(multiplayer.LobbyCreatedEvent{Code: "QWERTY"})
	m = next.(OnlineLobbyModel)
	if m.State() != OnlineStateHostWaiting || m.LobbyCode() != "QWERTY" {
		t.Errorf("state %v code %q", m.State(), m.LobbyCode())
	}

	m = lobbyKey(m, "b")
	if !m.BackToMenu() {
		t.Error("b should leave the lobby")
	}
}

func TestOnlineMatchAppliesSnapshots(t *testing.T) {
	var bell bytes.Buffer
	m := NewOnlineMatchModel("s1", "m1", core.Player1, newIdleCoordinator(), nil, testConfig(), &bell)

	server := chicken.NewOnline(1)
	server.Reset(testConfig())
	for range 90 {
		server.StepMulti(core.NewMultiInputFrame())
	}
	snap := server.Snapshot().(chicken.Snapshot)

	next, _ := m.Update(multiplayer.SnapshotEvent{MatchID: "other", Snapshot: snap})
	m = next.(OnlineMatchModel)
	if bell.Len() != 0 {
		t.Error("snapshots of other matches should be ignored")
	}

	next, _ = m.Update(multiplayer.SnapshotEvent{MatchID: "m1", Snapshot: snap})
	m = next.(OnlineMatchModel)
	if !snap.Released || bell.String() != "\a" {
		t.Errorf("release should ring once, bell %q", bell.String())
	}
	if m.last.Tick != snap.Tick {
		t.Errorf("last tick = %d, expected %d", m.last.Tick, snap.Tick)
	}
}

func TestOnlineMatchEnded(t *testing.T) {
	m := NewOnlineMatchModel("s1", "m1", core.Player1, newIdleCoordinator(), nil, testConfig(), nil)

	next, _ := m.Update(multiplayer.MatchEndedEvent{MatchID: "m1", Reason: multiplayer.MatchEndReasonCompleted})
	m = next.(OnlineMatchModel)
	if !strings.Contains(m.View(), "No winner") {
		t.Error("view should show the result")
	}

	next, _ = m.Update(keyMsg(" "))
	m = next.(OnlineMatchModel)
	if !m.BackToMenu() {
		t.Error("any key after the round should return to the menu")
	}
}

func TestEndedText(t *testing.T) {
	var scores [core.MaxPlayers]int
	scores[core.Player2] = 340

	tests := []struct {
		name  string
		event multiplayer.MatchEndedEvent
		slot  core.PlayerID
		want  string
	}{
		{"winner", multiplayer.MatchEndedEvent{Winner: core.Player2, HasWinner: true, Scores: scores}, core.Player2, "You win! 340 points"},
		{"loser", multiplayer.MatchEndedEvent{Winner: core.Player2, HasWinner: true, Scores: scores}, core.Player1, "P2 wins"},
		{"no winner", multiplayer.MatchEndedEvent{}, core.Player1, "No winner"},
		{"abandoned", multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonAbandoned}, core.Player1, "Everyone left"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := endedText(tc.event, tc.slot)
			if !strings.HasPrefix(got, tc.want) {
				t.Errorf("endedText = %q, expected prefix %q", got, tc.want)
			}
		})
	}
}
