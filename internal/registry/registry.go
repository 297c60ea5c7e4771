// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/sortpack/internal/core"
)

// Game is the interface the platform drives.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, persistence and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "sortpack").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or resets the game state.
	// The RuntimeConfig provides screen dimensions, RNG seed and player.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// RunSummary describes a finished level.
type RunSummary struct {
	LevelID string
	Level   int
	Score   int
	Moves   int
	Matches int
	Won     bool
	Elapsed time.Duration
}

// RunReporter is implemented by games that finish in discrete levels.
// LastRun reports the level that just ended; ok is false while playing.
type RunReporter interface {
	LastRun() (summary RunSummary, ok bool)
}

// InventoryHolder is implemented by games with a persistent item stock.
// SetInventory is applied on the next Reset.
type InventoryHolder interface {
	Inventory() map[string]int
	SetInventory(counts map[string]int)
}

// LevelInfo is a selectable level.
type LevelInfo struct {
	Number int
	Name   string
}

// LevelSelector is implemented by games that can start from a chosen level.
type LevelSelector interface {
	Levels() []LevelInfo
	SetStartLevel(number int)
}

// Resizer is implemented by games that keep their state across terminal
// resizes. Other games are Reset on resize.
type Resizer interface {
	Resize(width, height int)
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
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
	titles[id] = f().Title()
}

// Replace swaps the factory of an already registered game, so callers can
// hand games their runtime configuration after init.
func Replace(id string, f Factory) error {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; !exists {
		return fmt.Errorf("registry: unknown game %q", id)
	}

	factories[id] = f
	titles[id] = f().Title()
	return nil
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
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
