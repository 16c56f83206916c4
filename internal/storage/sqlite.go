// Package storage provides SQLite-based persistence for round history,
// high scores and online rounds.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/chicken-arcade/internal/multiplayer"
)

// NoWinner is stored in winner_slot when a round ended without a winner.
const NoWinner = -1

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// RoundPlayer is one agent's final state in a stored round.
type RoundPlayer struct {
	Slot     int
	Human    bool
	Alive    bool
	Stopped  bool
	Distance float64
}

// RoundRecord is one finished local or online round.
type RoundRecord struct {
	ID         string // uuid; generated by SaveRound when empty
	GameID     string
	Humans     int
	WinnerSlot int // NoWinner if nobody won
	Aborted    bool
	Ticks      int
	Elapsed    float64 // seconds
	Score      int     // points earned by a human winner
	Players    []RoundPlayer
	CreatedAt  time.Time
}

// HasWinner reports whether somebody won the round.
func (r RoundRecord) HasWinner() bool {
	return r.WinnerSlot != NoWinner
}

// OnlineMatchResult represents the outcome of an online round.
type OnlineMatchResult struct {
	ID         int64
	MatchID    string
	GameID     string
	Sessions   [multiplayer.MaxPlayers]string // empty for computer players
	Scores     [multiplayer.MaxPlayers]int
	WinnerSlot int    // NoWinner if nobody won
	EndReason  string // multiplayer.MatchEndReason text
	Duration   int    // Duration in seconds
	CreatedAt  time.Time
}

// WinnerSession returns the session of the winner, empty for an AI winner or no winner.
func (r OnlineMatchResult) WinnerSession() string {
	if r.WinnerSlot < 0 || r.WinnerSlot >= len(r.Sessions) {
		return ""
	}
	return r.Sessions[r.WinnerSlot]
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer; the sessions of the SSH server share this handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS rounds (
			round_id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			humans INTEGER NOT NULL,
			winner_slot INTEGER NOT NULL DEFAULT -1,
			aborted INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			elapsed REAL NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_game_id ON rounds(game_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS round_players (
			round_id TEXT NOT NULL REFERENCES rounds(round_id) ON DELETE CASCADE,
			slot INTEGER NOT NULL,
			human INTEGER NOT NULL,
			alive INTEGER NOT NULL,
			stopped INTEGER NOT NULL,
			distance REAL NOT NULL,
			PRIMARY KEY (round_id, slot)
		);

		CREATE TABLE IF NOT EXISTS online_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			session1 TEXT NOT NULL DEFAULT '',
			session2 TEXT NOT NULL DEFAULT '',
			session3 TEXT NOT NULL DEFAULT '',
			session4 TEXT NOT NULL DEFAULT '',
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			score3 INTEGER NOT NULL DEFAULT 0,
			score4 INTEGER NOT NULL DEFAULT 0,
			winner_slot INTEGER NOT NULL DEFAULT -1,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_online_matches_game_id ON online_matches(game_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime reads a DATETIME column; the driver returns either time.Time or text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores and rounds for the given game.
func (s *Store) ClearScores(gameID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	stmts := []string{
		"DELETE FROM round_players WHERE round_id IN (SELECT round_id FROM rounds WHERE game_id = ?)",
		"DELETE FROM rounds WHERE game_id = ?",
		"DELETE FROM scores WHERE game_id = ?",
	}
	for _, q := range stmts {
		if _, err := tx.Exec(q, gameID); err != nil {
			return fmt.Errorf("storage: cannot clear scores: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SaveRound stores a round with its players. A positive Score is also
// recorded as a high score. Returns the round ID.
func (s *Store) SaveRound(r RoundRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	_, err = tx.Exec(
		`INSERT INTO rounds (round_id, game_id, humans, winner_slot, aborted, ticks, elapsed, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.GameID, r.Humans, r.WinnerSlot, r.Aborted, r.Ticks, r.Elapsed, r.Score,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save round: %w", err)
	}

	for _, p := range r.Players {
		_, err = tx.Exec(
			`INSERT INTO round_players (round_id, slot, human, alive, stopped, distance)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, p.Slot, p.Human, p.Alive, p.Stopped, p.Distance,
		)
		if err != nil {
			return "", fmt.Errorf("storage: cannot save round player %d: %w", p.Slot, err)
		}
	}

	if r.Score > 0 {
		if _, err := tx.Exec("INSERT INTO scores (game_id, score) VALUES (?, ?)", r.GameID, r.Score); err != nil {
			return "", fmt.Errorf("storage: cannot save score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit round: %w", err)
	}
	return r.ID, nil
}

// RecentRounds returns the newest rounds with their players. An empty
// gameID matches every variant.
func (s *Store) RecentRounds(gameID string, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT round_id, game_id, humans, winner_slot, aborted, ticks, elapsed, score, created_at
		 FROM rounds
		 WHERE ? = '' OR game_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}

	var rounds []RoundRecord
	for rows.Next() {
		var r RoundRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.GameID, &r.Humans, &r.WinnerSlot, &r.Aborted,
			&r.Ticks, &r.Elapsed, &r.Score, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	// Players are loaded after the round cursor is closed; the pool has one connection.
	for i := range rounds {
		players, err := s.roundPlayers(rounds[i].ID)
		if err != nil {
			return nil, err
		}
		rounds[i].Players = players
	}
	return rounds, nil
}

// Round returns one round by ID, or nil if it does not exist.
func (s *Store) Round(id string) (*RoundRecord, error) {
	var r RoundRecord
	var createdAt any
	err := s.db.QueryRow(
		`SELECT round_id, game_id, humans, winner_slot, aborted, ticks, elapsed, score, created_at
		 FROM rounds WHERE round_id = ?`,
		id,
	).Scan(&r.ID, &r.GameID, &r.Humans, &r.WinnerSlot, &r.Aborted,
		&r.Ticks, &r.Elapsed, &r.Score, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query round: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)

	if r.Players, err = s.roundPlayers(id); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) roundPlayers(roundID string) ([]RoundPlayer, error) {
	rows, err := s.db.Query(
		`SELECT slot, human, alive, stopped, distance
		 FROM round_players WHERE round_id = ? ORDER BY slot`,
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query round players: %w", err)
	}
	defer rows.Close()

	var players []RoundPlayer
	for rows.Next() {
		var p RoundPlayer
		if err := rows.Scan(&p.Slot, &p.Human, &p.Alive, &p.Stopped, &p.Distance); err != nil {
			return nil, fmt.Errorf("storage: cannot scan round player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return players, nil
}

// SaveOnlineMatch records the result of an online round.
// Returns the ID of the inserted record.
func (s *Store) SaveOnlineMatch(result OnlineMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, game_id, session1, session2, session3, session4,
		  score1, score2, score3, score4, winner_slot, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.GameID,
		result.Sessions[0], result.Sessions[1], result.Sessions[2], result.Sessions[3],
		result.Scores[0], result.Scores[1], result.Scores[2], result.Scores[3],
		result.WinnerSlot,
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save online match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const onlineMatchColumns = `id, match_id, game_id, session1, session2, session3, session4,
		        score1, score2, score3, score4, winner_slot, end_reason, duration_secs, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOnlineMatch(row rowScanner) (OnlineMatchResult, error) {
	var r OnlineMatchResult
	var createdAt any
	err := row.Scan(
		&r.ID,
		&r.MatchID,
		&r.GameID,
		&r.Sessions[0], &r.Sessions[1], &r.Sessions[2], &r.Sessions[3],
		&r.Scores[0], &r.Scores[1], &r.Scores[2], &r.Scores[3],
		&r.WinnerSlot,
		&r.EndReason,
		&r.Duration,
		&createdAt,
	)
	r.CreatedAt = parseTime(createdAt)
	return r, err
}

// OnlineMatchByID retrieves an online match by its match ID.
// Returns nil if it does not exist.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	row := s.db.QueryRow(
		`SELECT `+onlineMatchColumns+`
		 FROM online_matches
		 WHERE match_id = ?`,
		matchID,
	)
	result, err := scanOnlineMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online match: %w", err)
	}
	return &result, nil
}

// RecentOnlineMatches retrieves the most recent online matches.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryOnlineMatches(
		`SELECT `+onlineMatchColumns+`
		 FROM online_matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// PlayerMatchHistory retrieves match history for a specific session.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryOnlineMatches(
		`SELECT `+onlineMatchColumns+`
		 FROM online_matches
		 WHERE ? IN (session1, session2, session3, session4)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		sessionID, limit,
	)
}

func (s *Store) queryOnlineMatches(query string, args ...any) ([]OnlineMatchResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := scanOnlineMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
// The online result is kept in online_matches; the human winner's points
// also count as a high score for the variant.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	result := OnlineMatchResult{
		MatchID:    data.MatchID,
		GameID:     data.GameID,
		Sessions:   data.Sessions,
		Scores:     data.Scores,
		WinnerSlot: data.WinnerSlot,
		EndReason:  data.EndReason,
		Duration:   data.DurationSecs,
	}
	if _, err := s.SaveOnlineMatch(result); err != nil {
		return err
	}
	if w := result.WinnerSlot; w >= 0 && w < len(result.Scores) && result.Scores[w] > 0 {
		if _, err := s.SaveScore(data.GameID, result.Scores[w]); err != nil {
			return err
		}
	}
	return nil
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	Rounds     int
	Wins       int // rounds won by a human
	HighScore  int
	AvgScore   float64 // over human wins
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	all, err := s.GetAllGamesStats()
	if err != nil {
		return nil, err
	}
	if st, ok := all[gameID]; ok {
		return st, nil
	}
	return &GameStats{GameID: gameID}, nil
}

// GetAllGamesStats retrieves statistics for all games that have been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*),
		        COALESCE(SUM(CASE WHEN score > 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(score), 0),
		        COALESCE(AVG(CASE WHEN score > 0 THEN score END), 0),
		        MAX(created_at)
		 FROM rounds
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var st GameStats
		var lastPlayed any
		if err := rows.Scan(&st.GameID, &st.Rounds, &st.Wins, &st.HighScore, &st.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.GameID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
