package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sortpack/internal/core"
	"github.com/vovakirdan/sortpack/internal/registry"
	"github.com/vovakirdan/sortpack/internal/storage"
)

// DefaultPlayer names the local player when none is configured.
const DefaultPlayer = "local"

// GameModel is the Bubble Tea model that drives one game: it feeds key
// presses into the next tick, saves finished runs and returns to the menu.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	logger     *log.Logger
	standalone bool // quit the program instead of returning to a menu
	quitting   bool
	backToMenu bool
	runSaved   bool // whether the current game over has been persisted
}

// NewGameModel creates a game model. A stored booster inventory for the
// player is handed to games that keep one.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Player == "" {
		cfg.Player = DefaultPlayer
	}

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		logger:     log.Default().WithPrefix("tui"),
	}
	m.loadInventory()
	return m
}

// WithLogger returns the model logging to l.
func (m GameModel) WithLogger(l *log.Logger) GameModel {
	if l != nil {
		m.logger = l
	}
	return m
}

// Init initializes the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	// Back leaves the game once it is over or paused, otherwise the game gets it
	if m.keyMapper.MapKeyToMenuAction(msg) == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.saveInventory()
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.saveInventory()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize keeps the level when the game supports it.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	switch {
	case m.gameState.GameOver && !m.runSaved:
		m.saveRun()
		m.runSaved = true
	case !m.gameState.GameOver:
		// a restart or the next level arms the save again
		m.runSaved = false
	}

	return m, tickCmd(m.config.TickRate)
}

// saveRun persists the score, the run summary and the inventory.
func (m *GameModel) saveRun() {
	if m.store == nil {
		return
	}
	if m.gameState.Score > 0 {
		if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score); err != nil {
			m.logger.Warn("could not save score", "game", m.game.ID(), "error", err)
		}
	}
	if rr, ok := m.game.(registry.RunReporter); ok {
		if sum, ok := rr.LastRun(); ok {
			id, err := m.store.SaveRun(storage.RunResult{
				Player:   m.config.Player,
				LevelID:  sum.LevelID,
				Level:    sum.Level,
				Score:    sum.Score,
				Moves:    sum.Moves,
				Matches:  sum.Matches,
				Won:      sum.Won,
				Duration: int(sum.Elapsed.Round(time.Second) / time.Second),
			})
			if err != nil {
				m.logger.Warn("could not save run", "player", m.config.Player, "error", err)
			} else {
				m.logger.Debug("run saved", "run", id, "level", sum.Level, "won", sum.Won)
			}
		}
	}
	m.saveInventory()
}

func (m *GameModel) loadInventory() {
	ih, ok := m.game.(registry.InventoryHolder)
	if !ok || m.store == nil {
		return
	}
	counts, err := m.store.LoadBoosters(m.config.Player)
	if err != nil {
		m.logger.Warn("could not load boosters", "player", m.config.Player, "error", err)
		return
	}
	if len(counts) > 0 {
		ih.SetInventory(counts)
	}
}

func (m *GameModel) saveInventory() {
	ih, ok := m.game.(registry.InventoryHolder)
	if !ok || m.store == nil {
		return
	}
	counts := ih.Inventory()
	if len(counts) == 0 {
		return
	}
	if err := m.store.SaveBoosters(m.config.Player, counts); err != nil {
		m.logger.Warn("could not save boosters", "player", m.config.Player, "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".sortpack", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
	}
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// State returns the game state seen on the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// Run plays one game in the terminal until the player quits or goes back.
// It reports whether the player asked for the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model := NewGameModel(game, store, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(GameModel); ok {
		return m.BackToMenu(), nil
	}
	return false, nil
}
