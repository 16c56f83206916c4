package tui

import (
	"testing"

	"github.com/vovakirdan/chicken-arcade/internal/games/chicken"
)

func newTestSession() SessionModel {
	return NewSessionModel(SessionDeps{
		Config:      testConfig(),
		SessionID:   "tester-1",
		Coordinator: newIdleCoordinator(),
		Logger:      quietLogger(),
	})
}

func sessionKey(m SessionModel, k string) SessionModel {
	next, _ := m.Update(keyMsg(k))
	return next.(SessionModel)
}

func TestOnlineGameFactory(t *testing.T) {
	game, err := onlineGameFactory(onlineGameID, 2, testConfig())
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if g, ok := game.(*chicken.Game); !ok || g.Humans() != 2 {
		t.Errorf("factory built %T", game)
	}

	if _, err := onlineGameFactory("pong", 2, testConfig()); err == nil {
		t.Error("unknown game id should fail")
	}
}

func TestSessionLocalRoundAndBack(t *testing.T) {
	m := newTestSession()
	m = sessionKey(m, "left") // easy
	m = sessionKey(m, "enter")
	if m.view != viewLocal {
		t.Fatalf("view = %v, expected the local round", m.view)
	}

	m = sessionKey(m, "p")
	next, _ := m.Update(TickMsg{})
	m = next.(SessionModel)
	m = sessionKey(m, "b")
	if m.view != viewMenu {
		t.Errorf("view = %v, expected the menu after back", m.view)
	}
	if m.quitting {
		t.Error("going back must not end the session")
	}
}

func TestSessionOpensLobbyAndScoreboard(t *testing.T) {
	m := newTestSession()
	for range 4 {
		m = sessionKey(m, "down")
	}
	m = sessionKey(m, "enter")
	if m.view != viewLobby {
		t.Fatalf("view = %v, expected the lobby", m.view)
	}
	m = sessionKey(m, "b")
	if m.view != viewMenu {
		t.Fatalf("view = %v, expected the menu", m.view)
	}

	m = sessionKey(m, "tab")
	if m.view != viewScores {
		t.Errorf("view = %v, expected the scoreboard", m.view)
	}
}

func TestSessionQuit(t *testing.T) {
	m := newTestSession()
	next, cmd := m.Update(keyMsg("q"))
	m = next.(SessionModel)
	if !m.quitting || cmd == nil {
		t.Error("q in the menu should end the session")
	}
	if m.View() != "" {
		t.Error("quitting session should render nothing")
	}
}
