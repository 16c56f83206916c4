package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/chicken-arcade/internal/config"
	"github.com/vovakirdan/chicken-arcade/internal/core"
	"github.com/vovakirdan/chicken-arcade/internal/games/chicken"
	"github.com/vovakirdan/chicken-arcade/internal/multiplayer"
	"github.com/vovakirdan/chicken-arcade/internal/registry"
	"github.com/vovakirdan/chicken-arcade/internal/spectate"
	"github.com/vovakirdan/chicken-arcade/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.chicken/host_key.
	HostKeyPath string

	// DBPath is the path to the round database.
	DBPath string

	// SpectateAddress serves the websocket spectator feed; empty disables it.
	SpectateAddress string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of local and online rounds.
	TickRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.chicken/rounds.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer serves Chicken over SSH: local rounds per session and online
// rounds between sessions.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
	hub         *spectate.Hub
	web         *http.Server
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "chicken-ssh",
	})
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open round database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		logger:   logger,
		sessions: multiplayer.NewSessionRegistry(),
	}

	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.TickRate = cfg.TickRate
	srv.coordinator = multiplayer.NewCoordinator(coordCfg, onlineGameFactory, srv.sessions)
	srv.coordinator.SetLogger(logger.WithPrefix("coordinator"))
	if store != nil {
		srv.coordinator.SetResultSaver(store)
	}
	if cfg.SpectateAddress != "" {
		srv.hub = spectate.NewHub(logger.WithPrefix("spectate"))
		srv.coordinator.SetSnapshotObserver(srv.hub)
		srv.web = &http.Server{
			Addr:              cfg.SpectateAddress,
			Handler:           srv.hub.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".chicken", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// onlineGameFactory creates the server-side round of an online match.
func onlineGameFactory(gameID string, humans int, cfg core.RuntimeConfig) (multiplayer.OnlineGame, error) {
	if gameID != onlineGameID {
		return nil, fmt.Errorf("unknown online game %q", gameID)
	}
	g := chicken.NewOnline(humans)
	g.Reset(cfg)
	return g, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	id := multiplayer.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
	handle := multiplayer.NewChannelSession(id, 128)
	s.sessions.Register(handle)
	go func() {
		<-sshSession.Context().Done()
		handle.Close()
		s.sessions.Unregister(id)
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		if n := handle.Dropped(); n > 0 {
			s.logger.Debug("session dropped events", "session", id, "count", n)
		}
	}()

	model := NewSessionModel(SessionDeps{
		Store:       s.store,
		Config:      cfg,
		SessionID:   id,
		Events:      handle.Events(),
		Coordinator: s.coordinator,
		Logger:      s.logger.With("session", id),
		Bell:        sshSession,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	if s.web != nil {
		ln, err := net.Listen("tcp", s.web.Addr)
		if err != nil {
			return fmt.Errorf("cannot listen for spectators: %w", err)
		}
		s.logger.Info("spectator feed", "address", ln.Addr().String(), "path", "/spectate")
		go func() {
			if err := s.web.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("spectator server error", "error", err)
			}
		}()
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()
	if s.web != nil {
		if err := s.web.Shutdown(ctx); err != nil {
			s.logger.Warn("spectator server shutdown", "error", err)
		}
	}
	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionDeps is what a session model needs from the server.
type SessionDeps struct {
	Store       *storage.Store
	Config      core.RuntimeConfig
	SessionID   multiplayer.SessionID
	Events      <-chan multiplayer.SessionEvent
	Coordinator *multiplayer.Coordinator
	Logger      *log.Logger
	Bell        io.Writer
}

// sessionView is the screen a session is on.
type sessionView int

const (
	viewMenu sessionView = iota
	viewLocal
	viewScores
	viewLobby
	viewMatch
)

// SessionModel runs one SSH session: menu, local rounds, scoreboard and
// online rounds.
type SessionModel struct {
	deps       SessionDeps
	config     core.RuntimeConfig
	view       sessionView
	difficulty string

	menu   MenuModel
	local  Model
	scores ScoreboardModel
	lobby  OnlineLobbyModel
	match  OnlineMatchModel

	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps SessionDeps) SessionModel {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	return SessionModel{
		deps:   deps,
		config: deps.Config,
		view:   viewMenu,
		menu:   NewMenuModel(deps.Store, deps.Config, deps.Coordinator != nil),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewLocal:
		return m.updateLocal(msg)
	case viewScores:
		return m.updateScores(msg)
	case viewLobby:
		return m.updateLobby(msg)
	case viewMatch:
		return m.updateMatch(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.menu = NewMenuModel(m.deps.Store, m.config, m.deps.Coordinator != nil)
	return m, m.menu.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.view = viewScores
		m.scores = NewScoreboardModel(m.deps.Store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		selected := m.menu.Selected()
		if selected.Mode == multiplayer.MatchModeOnline {
			m.view = viewLobby
			m.lobby = NewOnlineLobbyModel(m.deps.SessionID, m.deps.Coordinator, m.deps.Events,
				m.config.ScreenW, m.config.ScreenH)
			return m, m.lobby.Init()
		}

		game, err := registry.Create(selected.GameID)
		if err != nil {
			m.deps.Logger.Error("cannot create game", "game", selected.GameID, "err", err)
			return m.toMenu()
		}
		if d, ok := game.(interface {
			SetDifficulty(preset config.DifficultyPreset)
		}); ok {
			d.SetDifficulty(m.menu.Difficulty())
		}

		m.config.Seed = time.Now().UnixNano()
		m.view = viewLocal
		m.local = NewModel(game, m.deps.Store, m.config, Options{
			Logger:   m.deps.Logger,
			Bell:     m.deps.Bell,
			Embedded: true,
		})
		return m, m.local.Init()
	}

	return m, cmd
}

func (m SessionModel) updateLocal(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.local.Update(msg)
	if local, ok := next.(Model); ok {
		m.local = local
	}

	if m.local.BackToMenu() {
		return m.toMenu()
	}
	if m.local.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		m.scores = scores
	}

	if m.scores.IsGoingBack() {
		return m.toMenu()
	}
	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.lobby.Update(msg)
	if lobby, ok := next.(OnlineLobbyModel); ok {
		m.lobby = lobby
	}

	switch {
	case m.lobby.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.lobby.BackToMenu():
		return m.toMenu()
	case m.lobby.State() == OnlineStateInMatch:
		m.view = viewMatch
		m.match = NewOnlineMatchModel(m.deps.SessionID, m.lobby.MatchID(), m.lobby.Slot(),
			m.deps.Coordinator, m.deps.Events, m.config, m.deps.Bell)
		m.deps.Logger.Info("joined round", "match", m.lobby.MatchID(), "slot", m.lobby.Slot())
		return m, m.match.Init()
	}
	return m, cmd
}

func (m SessionModel) updateMatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.match.Update(msg)
	if match, ok := next.(OnlineMatchModel); ok {
		m.match = match
	}

	if m.match.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.match.BackToMenu() {
		return m.toMenu()
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewLocal:
		return m.local.View()
	case viewScores:
		return m.scores.View()
	case viewLobby:
		return m.lobby.View()
	case viewMatch:
		return m.match.View()
	default:
		return m.menu.View()
	}
}
