package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sortpack/internal/core"
	"github.com/vovakirdan/sortpack/internal/registry"
	"github.com/vovakirdan/sortpack/internal/storage"
)

// MenuItem represents a selectable game in the menu.
type MenuItem struct {
	GameID string
	Title  string
	Levels []registry.LevelInfo // empty for games without a campaign
}

type menuStage int

const (
	stageGames menuStage = iota
	stageStart
	stageLevels
)

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	menuHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	menuPickStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// MenuModel is the Bubble Tea model for the game picker. Campaign games get
// a second screen to continue, restart or pick a level.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	stage     menuStage
	sub       int // cursor on the start and level screens
	bestLevel int
	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper

	quitting       bool
	openScoreboard bool
	selected       *MenuItem
	startLevel     int
}

// NewMenuModel creates a new menu model. The store, when present, supplies
// the player's best level for the continue option.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		item := MenuItem{GameID: g.ID, Title: g.Title}
		if game, err := registry.Create(g.ID); err == nil {
			if ls, ok := game.(registry.LevelSelector); ok {
				item.Levels = ls.Levels()
			}
		}
		items = append(items, item)
	}

	m := MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	if store != nil {
		player := cfg.Player
		if player == "" {
			player = DefaultPlayer
		}
		if best, err := store.BestLevel(player); err == nil {
			m.bestLevel = best
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.stage {
	case stageStart:
		return m.handleStartKey(action)
	case stageLevels:
		return m.handleLevelKey(action)
	}

	switch action {
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		if len(m.items[m.cursor].Levels) > 0 {
			m.stage = stageStart
			m.sub = 0
			return m, nil
		}
		return m.choose(0)
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// startOptions lists the entries of the start screen.
func (m MenuModel) startOptions() []string {
	opts := []string{"Start from level 1"}
	if next := m.continueLevel(); next > 1 {
		opts = append(opts, fmt.Sprintf("Continue at level %d", next))
	}
	return append(opts, "Select level...")
}

// continueLevel is the first level after the best one won, capped at the
// last level.
func (m MenuModel) continueLevel() int {
	if m.bestLevel <= 0 || len(m.items) == 0 {
		return 0
	}
	levels := m.items[m.cursor].Levels
	next := m.bestLevel + 1
	for _, l := range levels {
		if l.Number == next {
			return next
		}
	}
	return m.bestLevel
}

func (m MenuModel) handleStartKey(action MenuAction) (tea.Model, tea.Cmd) {
	opts := m.startOptions()
	switch action {
	case MenuActionUp:
		if m.sub > 0 {
			m.sub--
		}
	case MenuActionDown:
		if m.sub < len(opts)-1 {
			m.sub++
		}
	case MenuActionBack:
		m.stage = stageGames
	case MenuActionSelect:
		switch {
		case m.sub == 0:
			return m.choose(0)
		case m.sub == len(opts)-1:
			m.stage = stageLevels
			m.sub = 0
		default:
			return m.choose(m.continueLevel())
		}
	}
	return m, nil
}

func (m MenuModel) handleLevelKey(action MenuAction) (tea.Model, tea.Cmd) {
	levels := m.items[m.cursor].Levels
	switch action {
	case MenuActionUp:
		if m.sub > 0 {
			m.sub--
		}
	case MenuActionDown:
		if m.sub < len(levels)-1 {
			m.sub++
		}
	case MenuActionBack:
		m.stage = stageStart
		m.sub = 0
	case MenuActionSelect:
		return m.choose(levels[m.sub].Number)
	}
	return m, nil
}

func (m MenuModel) choose(level int) (tea.Model, tea.Cmd) {
	selected := m.items[m.cursor]
	m.selected = &selected
	m.startLevel = level
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("S O R T P A C K"), m.width))
	b.WriteString("\n\n")

	var lines []string
	hint := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	switch m.stage {
	case stageGames:
		b.WriteString(centerText("Select a game", m.width))
		for _, item := range m.items {
			lines = append(lines, item.Title)
		}
	case stageStart:
		b.WriteString(centerText(m.items[m.cursor].Title, m.width))
		lines = m.startOptions()
		hint = "Enter: Select  |  Esc: Back  |  Q: Quit"
	case stageLevels:
		b.WriteString(centerText("SELECT LEVEL", m.width))
		for _, l := range m.items[m.cursor].Levels {
			mark := " "
			if l.Number <= m.bestLevel {
				mark = "✓"
			}
			lines = append(lines, fmt.Sprintf("%s %2d. %s", mark, l.Number, l.Name))
		}
		hint = "Enter: Select  |  Esc: Back  |  Q: Quit"
	}
	b.WriteString("\n\n")

	active := m.cursor
	if m.stage != stageGames {
		active = m.sub
	}
	for i, line := range lines {
		if i == active {
			line = menuPickStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuHintStyle.Render(hint), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// StartLevel returns the chosen level, 0 for the default start.
func (m MenuModel) StartLevel() int {
	return m.startLevel
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width, measuring styled text by its
// visible cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	StartLevel      int
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// Result converts the final menu state.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting() || m.Selected() == nil:
		result.Quit = true
	default:
		result.GameID = m.Selected().GameID
		result.StartLevel = m.StartLevel()
	}
	return result
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
