package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sortpack/internal/core"
	"github.com/vovakirdan/sortpack/internal/registry"
	"github.com/vovakirdan/sortpack/internal/storage"
)

// testMenu builds a menu over fixed items so tests do not depend on what
// is registered.
func testMenu(best int) MenuModel {
	m := NewMenuModel(nil, core.DefaultConfig())
	m.items = []MenuItem{
		{GameID: "campaign", Title: "Campaign", Levels: []registry.LevelInfo{
			{Number: 1, Name: "One"}, {Number: 2, Name: "Two"}, {Number: 3, Name: "Three"},
		}},
		{GameID: "random", Title: "Random"},
	}
	m.bestLevel = best
	return m
}

func press(t *testing.T, m MenuModel, keys ...string) (MenuModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		mm, ok := next.(MenuModel)
		require.True(t, ok)
		m = mm
	}
	return m, cmd
}

func TestMenuPlainGameStartsDirectly(t *testing.T) {
	m, cmd := press(t, testMenu(0), "s", "enter")
	require.NotNil(t, cmd)

	res := m.Result()
	assert.Equal(t, "random", res.GameID)
	assert.Zero(t, res.StartLevel)
	assert.False(t, res.Quit)
}

func TestMenuCampaignFromStart(t *testing.T) {
	m, _ := press(t, testMenu(0), "enter")
	assert.Equal(t, []string{"Start from level 1", "Select level..."}, m.startOptions())

	m, _ = press(t, m, "enter")
	assert.Equal(t, "campaign", m.Result().GameID)
	assert.Zero(t, m.Result().StartLevel)
}

func TestMenuContinue(t *testing.T) {
	m, _ := press(t, testMenu(1), "enter")
	require.Len(t, m.startOptions(), 3)
	assert.Equal(t, "Continue at level 2", m.startOptions()[1])

	m, _ = press(t, m, "s", "enter")
	assert.Equal(t, 2, m.Result().StartLevel)

	// the last level stays the continue point
	assert.Equal(t, 3, testMenu(3).continueLevel())
}

func TestMenuSelectLevel(t *testing.T) {
	m, _ := press(t, testMenu(0), "enter", "s", "enter", "s", "s", "enter")
	res := m.Result()
	assert.Equal(t, "campaign", res.GameID)
	assert.Equal(t, 3, res.StartLevel)
}

func TestMenuBackAndScoreboard(t *testing.T) {
	m, _ := press(t, testMenu(0), "enter", "esc")
	assert.Equal(t, stageGames, m.stage)

	m, _ = press(t, m, "tab")
	assert.True(t, m.Result().WantsScoreboard)

	m, _ = press(t, testMenu(0), "q")
	assert.True(t, m.Result().Quit)
}

func TestMenuBestLevelFromStore(t *testing.T) {
	store := openStore(t)
	_, err := store.SaveRun(storage.RunResult{Player: DefaultPlayer, Level: 2, Won: true})
	require.NoError(t, err)

	m := NewMenuModel(store, core.DefaultConfig())
	assert.Equal(t, 2, m.bestLevel)
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "   ab", centerText("ab", 8))
	assert.Equal(t, "toolong", centerText("toolong", 3))
	assert.Equal(t, "  "+menuPickStyle.Render("x"), centerText(menuPickStyle.Render("x"), 5))
}
