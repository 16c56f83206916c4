package chicken

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/chicken-arcade/internal/config"
	"github.com/vovakirdan/chicken-arcade/internal/core"
	"github.com/vovakirdan/chicken-arcade/internal/multiplayer"
	"github.com/vovakirdan/chicken-arcade/internal/registry"
)

// Menu metadata.
const (
	Name         = "Chicken"
	Description  = "Who is the biggest chicken?"
	Instructions = "Everyone walks to the center. Press your key to stop. " +
		"Two players in the center collide and are out. Closest survivor wins."
)

// Package-level variables for config/difficulty, set by the CLI before games are created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the AI difficulty preset applied on Reset.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// Game adapts a round Controller to the platform: registry.Game for local
// play and multiplayer.OnlineGame for SSH matches.
type Game struct {
	humans int
	online bool
	preset config.DifficultyPreset // overrides the package preset when set

	settings Settings
	ctrl     *Controller
	rng      *rand.Rand
	dt       float64
	tick     uint64

	screenW int
	screenH int
	paused  bool

	cues      CueSink
	onOutcome func(Outcome)
	events    []Event

	// mirror holds the last server snapshot on SSH clients.
	mirror *Snapshot
}

// New creates a local game with humans human players (clamped to [1, 4]).
func New(humans int) *Game {
	return &Game{humans: min(max(humans, 1), core.MaxPlayers)}
}

// NewOnline creates a server-side game for an SSH match. Pause is disabled.
func NewOnline(humans int) *Game {
	g := New(humans)
	g.online = true
	return g
}

// NewMirror creates a client-side game that only renders server snapshots.
func NewMirror() *Game {
	return &Game{humans: 1, online: true, mirror: &Snapshot{Winner: -1}}
}

// VariantID returns the registry id for a hot-seat variant.
func VariantID(humans int) string {
	return fmt.Sprintf("chicken-%dp", humans)
}

func init() {
	for n := 1; n <= core.MaxPlayers; n++ {
		humans := n
		registry.Register(VariantID(humans), func() registry.Game {
			return New(humans)
		})
	}
}

// Ensure Game implements both platform interfaces.
var (
	_ registry.Game          = (*Game)(nil)
	_ multiplayer.OnlineGame = (*Game)(nil)
)

// ID returns the game identifier.
func (g *Game) ID() string {
	return VariantID(g.humans)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.humans == 1 {
		return Name + " (1 player)"
	}
	return fmt.Sprintf("%s (%d players)", Name, g.humans)
}

// Description returns the menu tagline.
func (g *Game) Description() string { return Description }

// Instructions returns how to play.
func (g *Game) Instructions() string { return Instructions }

// Humans returns the number of human players.
func (g *Game) Humans() int { return g.humans }

// SetCueSink sets the receiver of round events. It survives Reset.
func (g *Game) SetCueSink(sink CueSink) {
	g.cues = sink
	if g.ctrl != nil {
		g.ctrl.SetCueSink(sink)
	}
}

// SetOutcomeHandler sets the callback for finished rounds. It survives Reset.
func (g *Game) SetOutcomeHandler(fn func(Outcome)) {
	g.onOutcome = fn
	if g.ctrl != nil {
		g.ctrl.OnOutcome = fn
	}
}

// Reset starts a new round.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.dt = rc.TickSeconds()
	if g.mirror != nil {
		return
	}

	g.rng = rand.New(rand.NewSource(rc.Seed))
	preset := g.preset
	if preset == "" {
		preset = difficultyPreset
	}
	g.settings = loadSettings(g.humans, preset)
	g.start()
}

// SetDifficulty sets the AI preset used by the next Reset.
func (g *Game) SetDifficulty(preset config.DifficultyPreset) {
	g.preset = preset
}

// ResetWithSettings starts a new round with explicit settings. Humans in s
// overrides the game's own count.
func (g *Game) ResetWithSettings(rc core.RuntimeConfig, s Settings) {
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.dt = rc.TickSeconds()
	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.humans = s.Humans
	g.settings = s
	g.start()
}

func (g *Game) start() {
	g.tick = 0
	g.paused = false
	g.events = nil
	g.ctrl = NewController(g.settings, g.rng)
	g.ctrl.SetCueSink(g.cues)
	g.ctrl.OnOutcome = g.onOutcome
}

// loadSettings reads the config file, falling back to defaults when it is
// missing or invalid.
func loadSettings(humans int, preset config.DifficultyPreset) Settings {
	cfg, err := config.LoadChicken(configPath)
	if err != nil {
		cfg = config.DefaultChickenConfig()
	}
	if preset != "" {
		config.ApplyChickenPreset(&cfg, preset)
	}
	cfg.Players.Humans = humans
	if err := cfg.Validate(); err != nil {
		cfg = config.DefaultChickenConfig()
		cfg.Players.Humans = humans
	}
	return SettingsFromConfig(cfg)
}

// Controller returns the running round, nil on clients.
func (g *Game) Controller() *Controller { return g.ctrl }

// Events returns the events raised by the last step.
func (g *Game) Events() []Event { return g.events }

// Step advances the round with input from player 1 only.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	multi := core.NewMultiInputFrame()
	multi.SetPlayer(core.Player1, in)
	return g.StepMulti(multi)
}

// StepMulti advances the round by one tick with input for every slot.
func (g *Game) StepMulti(in core.MultiInputFrame) core.StepResult {
	if g.ctrl == nil {
		return core.StepResult{State: g.State()}
	}
	g.events = nil

	if in.Any(core.ActionRestart) && g.ctrl.Done() {
		g.rng = rand.New(rand.NewSource(g.rng.Int63()))
		g.start()
		return core.StepResult{State: g.State()}
	}

	if !g.online && in.Any(core.ActionPause) && !g.ctrl.Done() {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.events = g.ctrl.Step(g.dt, in)
	g.tick++
	return core.StepResult{State: g.State()}
}

// State returns the current game state. Score is the human winner's score.
func (g *Game) State() core.GameState {
	if g.mirror != nil {
		return core.GameState{GameOver: g.mirror.Done(), Paused: g.mirror.Paused}
	}
	if g.ctrl == nil {
		return core.GameState{}
	}
	state := core.GameState{
		GameOver: g.ctrl.Done(),
		Paused:   g.paused,
	}
	if w, ok := g.Winner(); ok {
		state.Score = g.Score(w)
	}
	return state
}

// Snapshot returns the current round state.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	return g.view()
}

// ApplySnapshot updates a client mirror from a server snapshot.
func (g *Game) ApplySnapshot(snap Snapshot) {
	if g.mirror == nil {
		g.mirror = &Snapshot{}
	}
	*g.mirror = snap
}

// view returns the snapshot to draw from.
func (g *Game) view() Snapshot {
	if g.mirror != nil {
		return *g.mirror
	}
	if g.ctrl == nil {
		return Snapshot{Winner: -1}
	}
	snap := g.ctrl.Snapshot()
	snap.Paused = g.paused
	return snap
}

// IsGameOver returns true once the round finished or was aborted.
func (g *Game) IsGameOver() bool {
	return g.State().GameOver
}

// Winner returns the winning slot once decided.
func (g *Game) Winner() (core.PlayerID, bool) {
	if g.mirror != nil {
		return g.mirror.WinnerSlot()
	}
	if g.ctrl == nil || g.ctrl.Aborted() {
		return 0, false
	}
	return g.ctrl.Round().Winner()
}

// Score returns the points earned by slot id: only a human winner scores.
func (g *Game) Score(id core.PlayerID) int {
	if g.ctrl == nil || !id.Valid() {
		return 0
	}
	w, ok := g.Winner()
	a := g.ctrl.Agent(id)
	if !ok || w != id || !a.Human() {
		return 0
	}
	return ScoreFor(a.Distance(g.settings.Target), g.settings.StartDistance)
}

// PlayerLeft stops the agent of a player who disconnected.
func (g *Game) PlayerLeft(id core.PlayerID) {
	if g.ctrl != nil {
		g.ctrl.ForceStop(id)
	}
}
