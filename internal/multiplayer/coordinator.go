package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

// Lobby represents a waiting room for a round.
type Lobby struct {
	Code      string
	GameID    string
	Host      SessionHandle
	Joiners   []SessionHandle // in join order; at most MaxPlayers-1
	CreatedAt time.Time
}

// Seats returns the lobby seating: host first, then joiners.
func (l *Lobby) Seats() Seats {
	var s Seats
	s[Player1] = l.Host
	for i, j := range l.Joiners {
		s[i+1] = j
	}
	return s
}

// Full reports whether every slot has a human.
func (l *Lobby) Full() bool {
	return len(l.Joiners) >= MaxPlayers-1
}

func (l *Lobby) removeJoiner(id SessionID) bool {
	for i, j := range l.Joiners {
		if j.ID() == id {
			l.Joiners = append(l.Joiners[:i], l.Joiners[i+1:]...)
			return true
		}
	}
	return false
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long before an idle lobby expires
	TickRate      int           // Game tick rate (Hz)
	CleanupPeriod time.Duration // How often to clean up expired lobbies
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  5 * time.Minute,
		TickRate:      60,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory creates a reset game for a round with humans human players.
type GameFactory func(gameID string, humans int, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver is an interface for saving match results.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID      string
	GameID       string
	Sessions     [MaxPlayers]string // empty for computer players
	Scores       [MaxPlayers]int
	WinnerSlot   int // -1 when nobody won
	EndReason    string
	DurationSecs int
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil
	observer    SnapshotObserver // Optional, can be nil
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby        // code -> lobby
	matches map[MatchID]*OnlineMatch // matchID -> match

	// Track which session is in which lobby/match
	sessionLobby map[SessionID]string  // sessionID -> lobby code
	sessionMatch map[SessionID]MatchID // sessionID -> matchID

	// Message channel for async processing
	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	return &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		logger:       log.Default(),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetSnapshotObserver sets the optional receiver of every match snapshot.
func (c *Coordinator) SetSnapshotObserver(o SnapshotObserver) {
	c.observer = o
}

// SetLogger replaces the default logger.
func (c *Coordinator) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator and every running match.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, m := range c.matches {
			m.Stop()
		}
	})
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// processMessages handles incoming messages.
func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case StartLobbyMsg:
		c.handleStartLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if c.busy(msg.SessionID) {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := c.generateUniqueCode()
	lobby := &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.lobbies[code] = lobby
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", code, "game", msg.GameID, "host", msg.SessionID)
	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID})
	c.broadcastLobby(lobby)
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Full() {
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}

	lobby.Joiners = append(lobby.Joiners, session)
	c.sessionLobby[msg.SessionID] = code
	c.logger.Info("player joined lobby", "code", code, "session", msg.SessionID, "players", 1+len(lobby.Joiners))
	c.broadcastLobby(lobby)
}

func (c *Coordinator) handleStartLobby(msg StartLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists {
		return
	}
	if lobby.Host.ID() != msg.SessionID {
		if s, ok := c.sessions.Get(msg.SessionID); ok {
			s.Send(LobbyErrorEvent{Message: "Only the host can start"})
		}
		return
	}
	c.startMatch(lobby)
}

// busy reports whether a session is already in a lobby or match.
// Must be called with lock held.
func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inMatch := c.sessionMatch[id]
	return inLobby || inMatch
}

// broadcastLobby tells every lobby member its slot and the head count.
func (c *Coordinator) broadcastLobby(lobby *Lobby) {
	seats := lobby.Seats()
	players := seats.Humans()
	for i, s := range seats {
		if s == nil {
			continue
		}
		s.Send(LobbyUpdatedEvent{
			Code:    lobby.Code,
			Slot:    PlayerID(i),
			Players: players,
			IsHost:  i == int(Player1),
		})
	}
}

func (c *Coordinator) startMatch(lobby *Lobby) {
	// Must be called with lock held
	seats := lobby.Seats()
	humans := seats.Humans()
	matchID := NewMatchID()

	cfg := core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	game, err := c.gameFactory(lobby.GameID, humans, cfg)
	if err != nil {
		c.logger.Error("failed to create game", "code", lobby.Code, "game", lobby.GameID, "err", err)
		seats.Broadcast(LobbyErrorEvent{Message: "Failed to create game"})
		return
	}

	match := NewOnlineMatch(matchID, lobby.Code, lobby.GameID, game, seats, c.config.TickRate)
	match.SetLogger(c.logger)
	if c.observer != nil {
		match.SetObserver(c.observer)
	}

	c.matches[matchID] = match
	for i, s := range seats {
		if s == nil {
			continue
		}
		delete(c.sessionLobby, s.ID())
		c.sessionMatch[s.ID()] = matchID
		s.Send(MatchStartedEvent{
			MatchID: matchID,
			Slot:    PlayerID(i),
			Code:    lobby.Code,
			Humans:  humans,
		})
	}
	delete(c.lobbies, lobby.Code)

	c.logger.Info("round started", "match", matchID, "code", lobby.Code, "humans", humans)
	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}
	seats := match.Seats()

	winnerSlot := -1
	if result.HasWinner {
		winnerSlot = int(result.Winner)
	}
	c.logger.Info("round ended", "match", matchID, "reason", result.Reason, "winner", winnerSlot, "ticks", result.Ticks)

	if c.resultSaver != nil {
		tickRate := max(1, c.config.TickRate) // Ensure positive tick rate
		resultData := MatchResultData{
			MatchID:      string(matchID),
			GameID:       match.GameID(),
			Sessions:     seats.SessionIDs(),
			Scores:       result.Scores,
			WinnerSlot:   winnerSlot,
			EndReason:    result.Reason.String(),
			DurationSecs: int(result.Ticks / uint64(tickRate)), //nolint:gosec // tickRate is clamped positive
		}
		// Best effort save, don't block on error
		go func() {
			if err := c.resultSaver.SaveMatchResult(resultData); err != nil {
				c.logger.Warn("failed to save round result", "match", resultData.MatchID, "err", err)
			}
		}()
	}

	for _, s := range seats {
		if s != nil {
			delete(c.sessionMatch, s.ID())
		}
	}
	delete(c.matches, matchID)

	seats.Broadcast(MatchEndedEvent{
		MatchID:   matchID,
		Reason:    result.Reason,
		Winner:    result.Winner,
		HasWinner: result.HasWinner,
		Scores:    result.Scores,
	})
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists || lobby.Host.ID() != msg.SessionID {
		// Only host can cancel
		return
	}
	c.closeLobby(lobby)
}

// closeLobby removes a lobby whose host left and tells the joiners.
// Must be called with lock held.
func (c *Coordinator) closeLobby(lobby *Lobby) {
	for _, j := range lobby.Joiners {
		j.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
		delete(c.sessionLobby, j.ID())
	}
	delete(c.sessionLobby, lobby.Host.ID())
	delete(c.lobbies, lobby.Code)
	c.logger.Info("lobby closed", "code", lobby.Code)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}
	c.leaveLobby(lobby, msg.SessionID)
}

// leaveLobby removes one session from a lobby; the host leaving closes it.
// Must be called with lock held.
func (c *Coordinator) leaveLobby(lobby *Lobby, id SessionID) {
	if lobby.Host.ID() == id {
		c.closeLobby(lobby)
		return
	}
	if lobby.removeJoiner(id) {
		delete(c.sessionLobby, id)
		c.broadcastLobby(lobby)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}
	match.PlayerDisconnected(msg.SessionID)
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}
	match.SendInput(msg.Player, msg.Input)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			c.leaveLobby(lobby, msg.SessionID)
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			c.closeLobby(lobby)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	_, err := rand.Read(b)
	if err != nil {
		// Fallback to timestamp-based
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	// Use base32 encoding (A-Z, 2-7), take first 6 chars
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// GetLobby returns a lobby by code (for testing/debug).
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a match by ID (for testing/debug).
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of active lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of active matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
