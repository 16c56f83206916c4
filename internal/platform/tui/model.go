package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chicken-arcade/internal/core"
	"github.com/vovakirdan/chicken-arcade/internal/registry"
	"github.com/vovakirdan/chicken-arcade/internal/storage"
)

// Options tune a local play session.
type Options struct {
	Logger *log.Logger // nil means log.Default()
	Bell   io.Writer   // receives "\a" on audible cues; nil is silent
	// Embedded models live inside a session: B returns to the menu and Q
	// ends the whole program through the parent.
	Embedded bool
}

// Model is the Bubble Tea model for a local hot-seat round.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	input     core.MultiInputFrame
	state     core.GameState
	cues      *cueBuffer
	logger    *log.Logger
	bell      io.Writer
	embedded  bool

	quitPending bool // quit is applied on the next tick so the round is recorded
	quitting    bool
	backToMenu  bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	humans := 1
	if s, ok := game.(registry.Seated); ok {
		humans = s.Humans()
	}

	return Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(humans),
		input:     core.NewMultiInputFrame(),
		cues:      attachRound(game, store, logger),
		logger:    logger,
		bell:      opts.Bell,
		embedded:  opts.Embedded,
	}
}

// Init starts the round and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.logger.Info("round started", "game", m.game.ID(), "seed", m.config.Seed)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	slot, action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		if m.state.GameOver {
			m.quitting = true
			return m, tea.Quit
		}
		// Let the round see the quit so it is recorded as abandoned.
		m.input.Press(slot, core.ActionQuit)
		m.quitPending = true
	case action == core.ActionBack:
		if m.embedded && (m.state.GameOver || m.state.Paused) {
			m.backToMenu = true
		}
	case action == core.ActionRestart:
		if m.state.GameOver {
			m.input.Press(slot, action)
		}
	case action != core.ActionNone:
		m.input.Press(slot, action)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	restart := m.input.Any(core.ActionRestart)
	result := m.game.StepMulti(m.input)
	m.state = result.State
	m.input.Clear()

	if m.cues != nil {
		m.cues.drain(m.logger, m.bell)
	}
	if restart && !m.state.GameOver {
		m.logger.Info("round restarted", "game", m.game.ID())
	}

	if m.quitPending {
		m.quitting = true
		return m, tea.Quit
	}
	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to ~/.chicken/screenshots.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".chicken", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state after the last tick.
func (m Model) State() core.GameState {
	return m.state
}

// IsQuitting returns true if the player asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the player asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays the given game until the player quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
