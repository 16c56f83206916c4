package multiplayer

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

// OnlineGame is the interface that games must implement to support online rounds.
type OnlineGame interface {
	// Reset initializes the game state.
	Reset(cfg core.RuntimeConfig)

	// StepMulti advances the game by one tick using input from every slot.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns the current game state for network transmission.
	Snapshot() GameSnapshot

	// IsGameOver returns true if the round has ended.
	IsGameOver() bool

	// Winner returns the winning slot; ok is false while undecided or when nobody won.
	Winner() (id PlayerID, ok bool)

	// Score returns the points earned by a slot.
	Score(id PlayerID) int

	// PlayerLeft tells the game that the session in a slot is gone.
	PlayerLeft(id PlayerID)
}

// SnapshotObserver receives every snapshot of every match, e.g. for spectators.
// Publish is called from the match goroutine and must not block.
type SnapshotObserver interface {
	Publish(id MatchID, tick uint64, snap GameSnapshot)
	MatchClosed(id MatchID)
}

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID   MatchID
	Reason    MatchEndReason
	Winner    PlayerID
	HasWinner bool
	Scores    [MaxPlayers]int
	Ticks     uint64
}

// OnlineMatch runs one authoritative round for up to four sessions.
type OnlineMatch struct {
	id     MatchID
	code   string
	gameID string
	game   OnlineGame
	seats  Seats
	left   [MaxPlayers]bool

	// Input handling
	inputMu   sync.Mutex
	lastInput [MaxPlayers]core.InputFrame
	inputChan chan playerInput

	// Match state
	tick     uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once
	observer SnapshotObserver
	logger   *log.Logger

	// Disconnect handling
	disconnectChan chan SessionID
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// NewOnlineMatch creates a new online match. The game must already be Reset.
func NewOnlineMatch(
	id MatchID,
	code string,
	gameID string,
	game OnlineGame,
	seats Seats,
	tickRate int,
) *OnlineMatch {
	m := &OnlineMatch{
		id:             id,
		code:           code,
		gameID:         gameID,
		game:           game,
		seats:          seats,
		inputChan:      make(chan playerInput, 64),
		tickRate:       max(1, tickRate),
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, MaxPlayers),
		logger:         log.Default(),
	}
	for i := range m.lastInput {
		m.lastInput[i] = core.NewInputFrame()
	}
	return m
}

// SetObserver sets a receiver for every snapshot of this match.
func (m *OnlineMatch) SetObserver(o SnapshotObserver) {
	m.observer = o
}

// SetLogger replaces the default logger.
func (m *OnlineMatch) SetLogger(l *log.Logger) {
	if l != nil {
		m.logger = l
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// GameID returns the game identifier.
func (m *OnlineMatch) GameID() string {
	return m.gameID
}

// Seats returns the sessions per slot.
func (m *OnlineMatch) Seats() Seats {
	return m.seats
}

// SendInput sends player input to the match.
// Non-blocking, uses a buffered channel.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	if !player.Valid() {
		return
	}
	select {
	case m.inputChan <- playerInput{player: player, input: input.Clone()}:
	default:
		// Channel full, drop input (rare under normal conditions)
	}
}

// PlayerDisconnected signals that a player has left.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative match loop and blocks until the round ends.
// The callback is called with the result unless the match was stopped.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer func() {
		m.doneOnce.Do(func() {
			close(m.done)
		})
		if m.observer != nil {
			m.observer.MatchClosed(m.id)
		}
	}()

	tickDuration := time.Second / time.Duration(m.tickRate)
	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	// Monitor session disconnects
	m.monitorSessions()

	for {
		select {
		case <-ticker.C:
			if result, done := m.runTick(); done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			if m.handleDisconnect(sessionID) {
				if onComplete != nil {
					onComplete(m.result(MatchEndReasonAbandoned))
				}
				return
			}

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	// Build the multi-input frame from everything received since the last tick;
	// inputs are consumed once.
	m.drainInputs()
	m.inputMu.Lock()
	multiInput := core.NewMultiInputFrame()
	for i := range m.lastInput {
		if m.seats[i] == nil || m.left[i] {
			continue
		}
		multiInput.SetPlayer(PlayerID(i), m.lastInput[i].Clone())
		m.lastInput[i].Clear()
	}
	m.inputMu.Unlock()

	m.game.StepMulti(multiInput)
	m.tick++

	snapshot := m.game.Snapshot()
	m.seats.Broadcast(SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: snapshot,
	})
	if m.observer != nil {
		m.observer.Publish(m.id, m.tick, snapshot)
	}

	if m.game.IsGameOver() {
		return m.result(MatchEndReasonCompleted), true
	}
	return MatchResult{}, false
}

func (m *OnlineMatch) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			m.lastInput[pi.player].Merge(pi.input)
		default:
			return
		}
	}
}

// handleDisconnect stops the agent of a session that left. It reports
// whether no human is left in the round.
func (m *OnlineMatch) handleDisconnect(sessionID SessionID) bool {
	slot, ok := m.seats.SlotOf(sessionID)
	if !ok || m.left[slot] {
		return false
	}
	m.left[slot] = true
	m.game.PlayerLeft(slot)
	m.logger.Info("player left round", "match", m.id, "slot", slot)

	for i, s := range m.seats {
		if s != nil && !m.left[i] {
			return false
		}
	}
	return true
}

func (m *OnlineMatch) result(reason MatchEndReason) MatchResult {
	r := MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Ticks:   m.tick,
	}
	r.Winner, r.HasWinner = m.game.Winner()
	for i := range r.Scores {
		r.Scores[i] = m.game.Score(PlayerID(i))
	}
	return r
}

// monitorSessions turns closed sessions into disconnects.
func (m *OnlineMatch) monitorSessions() {
	for _, s := range m.seats {
		if s == nil {
			continue
		}
		go func(s SessionHandle) {
			select {
			case <-s.Done():
				m.PlayerDisconnected(s.ID())
			case <-m.done:
			}
		}(s)
	}
}

// Stop gracefully stops the match.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
