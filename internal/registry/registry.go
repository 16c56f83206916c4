// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, so the platform can list
// and create them without importing each one by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/chicken-arcade/internal/core"
)

// Game is what the platform drives locally. Games hold pure logic and
// never touch Bubble Tea; the platform maps keys, keeps time and paints.
type Game interface {
	// ID returns a unique identifier, e.g. "chicken-2p".
	// Used for CLI arguments and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a fresh round.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick with single-player input.
	Step(in core.InputFrame) core.StepResult

	// StepMulti advances one fixed tick with input for every slot.
	StepMulti(in core.MultiInputFrame) core.StepResult

	// Render draws into a pre-cleared screen buffer.
	Render(dst *core.Screen)

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// Describer is implemented by games that carry menu text.
type Describer interface {
	Description() string
	Instructions() string
}

// Seated is implemented by games with a fixed number of human players.
type Seated interface {
	Humans() int
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID           string
	Title        string
	Description  string
	Instructions string
	Humans       int
}

// Factory creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	infos[id] = describe(id, f())
}

func describe(id string, g Game) GameInfo {
	info := GameInfo{ID: id, Title: g.Title(), Humans: 1}
	if d, ok := g.(Describer); ok {
		info.Description = d.Description()
		info.Instructions = d.Instructions()
	}
	if s, ok := g.(Seated); ok {
		info.Humans = s.Humans()
	}
	return info
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Info returns the metadata of one game.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()
	info, ok := infos[id]
	return info, ok
}

// Create instantiates a new game by its ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
