package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/chicken-arcade/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesDirectories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveScore("chicken-1p", 42); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("chicken-1p")
	if err != nil || high != 42 {
		t.Errorf("HighScore() = %d, %v; expected 42", high, err)
	}
}

func TestTopScoresOrdering(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("chicken-1p", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("chicken-2p", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("chicken-1p", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("Expected 2 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 {
		t.Errorf("TopScores() = %d, %d; expected 200, 100", scores[0].Score, scores[1].Score)
	}

	high, err := store.HighScore("chicken-3p")
	if err != nil || high != 0 {
		t.Errorf("HighScore() of an unplayed game = %d, %v; expected 0", high, err)
	}
}

func sampleRound(gameID string, winner, score int) RoundRecord {
	r := RoundRecord{
		GameID:     gameID,
		Humans:     2,
		WinnerSlot: winner,
		Ticks:      480,
		Elapsed:    8,
		Score:      score,
	}
	for slot := range 4 {
		r.Players = append(r.Players, RoundPlayer{
			Slot:     slot,
			Human:    slot < 2,
			Alive:    slot == winner,
			Stopped:  slot == winner,
			Distance: 7.5 + float64(slot),
		})
	}
	return r
}

func TestSaveRoundRoundTrip(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRound(sampleRound("chicken-2p", 1, 325))
	if err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("round ID %q should be a uuid", id)
	}

	got, err := store.Round(id)
	if err != nil || got == nil {
		t.Fatalf("Round() = %v, %v", got, err)
	}
	if got.WinnerSlot != 1 || !got.HasWinner() || got.Score != 325 || got.Ticks != 480 {
		t.Errorf("Round() = %+v", got)
	}
	if len(got.Players) != 4 {
		t.Fatalf("expected 4 players, got %d", len(got.Players))
	}
	p := got.Players[1]
	if !p.Human || !p.Alive || !p.Stopped || p.Distance != 8.5 {
		t.Errorf("player 2 = %+v", p)
	}
	if got.Players[3].Human {
		t.Error("slot 4 should be a computer player")
	}

	// A human win also counts as a high score.
	high, err := store.HighScore("chicken-2p")
	if err != nil || high != 325 {
		t.Errorf("HighScore() = %d, %v; expected 325", high, err)
	}
}

func TestRoundMissing(t *testing.T) {
	store := openTestStore(t)
	got, err := store.Round("nope")
	if err != nil || got != nil {
		t.Errorf("Round(missing) = %v, %v; expected nil, nil", got, err)
	}
}

func TestRecentRoundsFilter(t *testing.T) {
	store := openTestStore(t)

	rounds := []RoundRecord{
		sampleRound("chicken-1p", NoWinner, 0),
		sampleRound("chicken-2p", 0, 100),
		sampleRound("chicken-1p", 3, 0),
	}
	for _, r := range rounds {
		if _, err := store.SaveRound(r); err != nil {
			t.Fatalf("SaveRound() failed: %v", err)
		}
	}

	all, err := store.RecentRounds("", 10)
	if err != nil {
		t.Fatalf("RecentRounds() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(all))
	}
	// Newest first.
	if all[0].WinnerSlot != 3 {
		t.Errorf("newest round winner = %d, expected 3", all[0].WinnerSlot)
	}
	for _, r := range all {
		if len(r.Players) != 4 {
			t.Errorf("round %s has %d players", r.ID, len(r.Players))
		}
	}

	one, err := store.RecentRounds("chicken-1p", 10)
	if err != nil {
		t.Fatalf("RecentRounds() failed: %v", err)
	}
	if len(one) != 2 {
		t.Errorf("expected 2 chicken-1p rounds, got %d", len(one))
	}
	if one[1].HasWinner() {
		t.Error("oldest chicken-1p round had no winner")
	}
}

func TestClearScores(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveRound(sampleRound("chicken-1p", 0, 90)); err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}
	if _, err := store.SaveRound(sampleRound("chicken-2p", 0, 90)); err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}

	if err := store.ClearScores("chicken-1p"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if high, _ := store.HighScore("chicken-1p"); high != 0 {
		t.Errorf("HighScore() after clear = %d", high)
	}
	if rounds, _ := store.RecentRounds("chicken-1p", 10); len(rounds) != 0 {
		t.Errorf("expected no rounds after clear, got %d", len(rounds))
	}
	if rounds, _ := store.RecentRounds("chicken-2p", 10); len(rounds) != 1 {
		t.Error("other variants should be untouched")
	}
}

func TestGameStats(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []RoundRecord{
		sampleRound("chicken-1p", 0, 100),
		sampleRound("chicken-1p", 0, 300),
		sampleRound("chicken-1p", 2, 0),
	} {
		if _, err := store.SaveRound(r); err != nil {
			t.Fatalf("SaveRound() failed: %v", err)
		}
	}

	st, err := store.GetGameStats("chicken-1p")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if st.Rounds != 3 || st.Wins != 2 || st.HighScore != 300 || st.AvgScore != 200 {
		t.Errorf("stats = %+v", st)
	}

	empty, err := store.GetGameStats("chicken-4p")
	if err != nil || empty.Rounds != 0 {
		t.Errorf("stats of an unplayed game = %+v, %v", empty, err)
	}
}

func TestSaveMatchResult(t *testing.T) {
	store := openTestStore(t)

	data := multiplayer.MatchResultData{
		MatchID:      "match-1",
		GameID:       "chicken-2p",
		Sessions:     [multiplayer.MaxPlayers]string{"host", "guest"},
		Scores:       [multiplayer.MaxPlayers]int{0, 150},
		WinnerSlot:   1,
		EndReason:    multiplayer.MatchEndReasonCompleted.String(),
		DurationSecs: 9,
	}
	if err := store.SaveMatchResult(data); err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	got, err := store.OnlineMatchByID("match-1")
	if err != nil || got == nil {
		t.Fatalf("OnlineMatchByID() = %v, %v", got, err)
	}
	if got.WinnerSession() != "guest" || got.Scores[1] != 150 || got.Sessions[2] != "" {
		t.Errorf("stored match = %+v", got)
	}
	if high, _ := store.HighScore("chicken-2p"); high != 150 {
		t.Errorf("online win should count as high score, got %d", high)
	}

	history, err := store.PlayerMatchHistory("guest", 10)
	if err != nil || len(history) != 1 {
		t.Errorf("PlayerMatchHistory(guest) = %d rows, %v", len(history), err)
	}
	if history, _ := store.PlayerMatchHistory("stranger", 10); len(history) != 0 {
		t.Error("stranger should have no history")
	}

	missing, err := store.OnlineMatchByID("match-2")
	if err != nil || missing != nil {
		t.Errorf("OnlineMatchByID(missing) = %v, %v", missing, err)
	}
}

func TestRecentOnlineMatchesAIWinner(t *testing.T) {
	store := openTestStore(t)

	for i, id := range []string{"a", "b"} {
		data := multiplayer.MatchResultData{
			MatchID:    id,
			GameID:     "chicken-1p",
			Sessions:   [multiplayer.MaxPlayers]string{"solo"},
			WinnerSlot: 2 + i,
			EndReason:  multiplayer.MatchEndReasonCompleted.String(),
		}
		if err := store.SaveMatchResult(data); err != nil {
			t.Fatalf("SaveMatchResult() failed: %v", err)
		}
	}

	recent, err := store.RecentOnlineMatches(10)
	if err != nil || len(recent) != 2 {
		t.Fatalf("RecentOnlineMatches() = %d rows, %v", len(recent), err)
	}
	if recent[0].MatchID != "b" {
		t.Errorf("newest match = %q, expected b", recent[0].MatchID)
	}
	if recent[0].WinnerSession() != "" {
		t.Error("a computer winner has no session")
	}
	if high, _ := store.HighScore("chicken-1p"); high != 0 {
		t.Error("computer wins should not create high scores")
	}
}
