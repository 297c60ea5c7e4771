package sortpack

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sortpack/internal/config"
	platformcore "github.com/vovakirdan/sortpack/internal/core"
	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
	"github.com/vovakirdan/sortpack/internal/registry"
)

const (
	apple  core.ItemID = 0
	banana core.ItemID = 1
	cherry core.ItemID = 2
)

func pl(row, col, slot int, id core.ItemID) core.Placement {
	return core.Placement{Row: row, Col: col, Slot: slot, ItemID: id}
}

func level(number, rows, cols int, ps ...core.Placement) *core.Level {
	return &core.Level{
		ID:            "test",
		Number:        number,
		Name:          "Test",
		SizeX:         rows,
		SizeY:         cols,
		SlotsPerCell:  3,
		ItemsPerMatch: 3,
		Placements:    ps,
	}
}

// campaign returns options playing the given levels.
func campaign(list ...*core.Level) Options {
	return Options{Config: config.DefaultSortPackConfig(), Levels: list}
}

func newGame(t *testing.T, o Options) *Game {
	t.Helper()
	g := New(o)
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 1})
	require.NotNil(t, g.Session().Board())
	return g
}

func press(g *Game, actions ...platformcore.Action) platformcore.StepResult {
	in := platformcore.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

// idle runs n ticks without input.
func idle(g *Game, n int) {
	for i := 0; i < n; i++ {
		press(g)
	}
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"sortpack", "sortpack_random"} {
		if !registry.Exists(id) {
			t.Errorf("game %q is not registered", id)
		}
	}

	g, err := registry.Create("sortpack_random")
	require.NoError(t, err)
	assert.Equal(t, "SortPack (Random)", g.Title())
}

func TestConfigureReachesNewGamesOnly(t *testing.T) {
	before, err := registry.Create("sortpack")
	require.NoError(t, err)

	Configure(campaign(level(7, 1, 2, pl(0, 0, 0, apple))))
	t.Cleanup(func() { Configure(DefaultOptions()) })

	after, err := registry.Create("sortpack")
	require.NoError(t, err)
	assert.Equal(t, []registry.LevelInfo{{Number: 7, Name: "Test"}}, after.(registry.LevelSelector).Levels())
	assert.NotEqual(t, after.(registry.LevelSelector).Levels(), before.(registry.LevelSelector).Levels(),
		"a running game keeps the options it was created with")
}

func TestResetLoadsFirstBuiltinLevel(t *testing.T) {
	g := New(DefaultOptions())
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})

	require.NotNil(t, g.Session().Level())
	assert.Equal(t, 1, g.State().Level)
	assert.False(t, g.State().GameOver)
	assert.NotEmpty(t, g.Levels())
}

func TestStartLevel(t *testing.T) {
	o := campaign(
		level(1, 1, 2, pl(0, 0, 0, apple)),
		level(2, 1, 2, pl(0, 0, 0, banana)),
	)
	g := New(o)
	g.SetStartLevel(2)
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	assert.Equal(t, 2, g.State().Level)

	// the choice applies to one Reset only
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	assert.Equal(t, 1, g.State().Level)
}

func TestCursorWraps(t *testing.T) {
	o := campaign(level(1, 1, 2, pl(0, 0, 0, apple), pl(0, 1, 0, banana)))
	g := newGame(t, o)

	assert.Equal(t, core.P(0, 0), g.Cursor())
	press(g, platformcore.ActionRight)
	assert.Equal(t, core.P(0, 1), g.Cursor())
	press(g, platformcore.ActionRight)
	assert.Equal(t, core.P(0, 0), g.Cursor())
	press(g, platformcore.ActionLeft)
	assert.Equal(t, core.P(0, 1), g.Cursor())
	press(g, platformcore.ActionUp)
	assert.Equal(t, core.P(0, 1), g.Cursor(), "single row wraps onto itself")
}

func TestPickAndDropCompletesMatch(t *testing.T) {
	o := campaign(level(1, 1, 2,
		pl(0, 0, 0, banana), pl(0, 0, 1, apple),
		pl(0, 1, 0, apple), pl(0, 1, 1, apple),
	))
	g := newGame(t, o)

	press(g, platformcore.ActionConfirm)
	require.NotNil(t, g.Held())
	assert.Equal(t, core.ItemType("apple"), g.Held().Type)

	press(g, platformcore.ActionRight)
	press(g, platformcore.ActionConfirm)
	assert.Nil(t, g.Held())
	assert.Equal(t, 1, g.Session().MoveCount())

	idle(g, 60)
	assert.Equal(t, 100, g.Session().Score())
	assert.Equal(t, 1, g.Session().TotalMatches())
	assert.Nil(t, g.Session().Board().Cell(core.P(0, 1)), "cleared single-layer cell is removed")
	assert.False(t, g.State().GameOver)

	_, ok := g.LastRun()
	assert.False(t, ok, "no run summary while playing")
}

func TestDropOnSameCellCancels(t *testing.T) {
	o := campaign(level(1, 1, 2, pl(0, 0, 0, apple), pl(0, 1, 0, banana)))
	g := newGame(t, o)

	press(g, platformcore.ActionConfirm)
	require.NotNil(t, g.Held())
	press(g, platformcore.ActionConfirm)
	assert.Nil(t, g.Held())
	assert.Equal(t, 0, g.Session().MoveCount())

	press(g, platformcore.ActionConfirm)
	press(g, platformcore.ActionBack)
	assert.Nil(t, g.Held(), "Back releases the held item")
}

func TestDropOnLockedCell(t *testing.T) {
	lvl := level(1, 1, 2, pl(0, 0, 0, apple), pl(0, 0, 1, banana), pl(0, 1, 0, cherry))
	lvl.Locked = []core.Pos{core.P(0, 1)}
	o := campaign(lvl)
	g := newGame(t, o)

	press(g, platformcore.ActionConfirm)
	press(g, platformcore.ActionRight)
	press(g, platformcore.ActionConfirm)
	assert.Equal(t, 0, g.Session().MoveCount())
	assert.Contains(t, g.Message(), "locked")

	press(g, platformcore.ActionUnlock)
	assert.Contains(t, g.Message(), "Unlocked")
}

func TestBoosterHotkeys(t *testing.T) {
	o := campaign(level(1, 1, 3,
		pl(0, 0, 0, apple), pl(0, 0, 1, banana),
		pl(0, 1, 0, apple), pl(0, 1, 1, cherry),
		pl(0, 2, 0, apple), pl(0, 2, 1, banana),
	))
	g := newGame(t, o)
	before := g.Inventory()["auto_merge"]

	press(g, platformcore.ActionBooster3)
	assert.Equal(t, before-1, g.Inventory()["auto_merge"])
	assert.Equal(t, 100, g.Session().Score())

	// nothing left to merge
	press(g, platformcore.ActionBooster3)
	assert.Equal(t, before-1, g.Inventory()["auto_merge"])
	assert.Contains(t, g.Message(), "nothing to merge")
}

func TestSetInventoryAppliedOnReset(t *testing.T) {
	o := campaign(level(1, 1, 2, pl(0, 0, 0, apple), pl(0, 1, 0, banana)))
	g := New(o)
	g.SetInventory(map[string]int{"free_time": 7, "random_swap": 0, "bogus": 4})
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24})

	inv := g.Inventory()
	assert.Equal(t, 7, inv["free_time"])
	assert.Equal(t, 0, inv["random_swap"])
	assert.NotContains(t, inv, "bogus")

	press(g, platformcore.ActionBooster4)
	assert.Contains(t, g.Message(), "none left")
}

func TestPauseFreezesTimer(t *testing.T) {
	o := campaign(level(1, 1, 2, pl(0, 0, 0, apple), pl(0, 1, 0, banana)))
	g := newGame(t, o)
	idle(g, 3)

	res := press(g, platformcore.ActionPause)
	assert.True(t, res.State.Paused)
	remaining := g.Session().Timer().Remaining()

	idle(g, 30)
	assert.Equal(t, remaining, g.Session().Timer().Remaining())

	press(g, platformcore.ActionPause)
	idle(g, 30)
	assert.Less(t, g.Session().Timer().Remaining(), remaining)
}

func TestWinRecordsRunAndAdvances(t *testing.T) {
	o := campaign(
		level(1, 1, 1, pl(0, 0, 0, apple), pl(0, 0, 1, apple), pl(0, 0, 2, apple)),
		level(2, 1, 2, pl(0, 0, 0, banana), pl(0, 1, 0, cherry)),
	)
	g := newGame(t, o)

	idle(g, 60)
	require.True(t, g.State().GameOver)
	require.True(t, g.State().Won)

	run, ok := g.LastRun()
	require.True(t, ok)
	assert.Equal(t, 1, run.Level)
	assert.True(t, run.Won)
	assert.Equal(t, 100, run.Score)
	assert.Equal(t, 1, run.Matches)

	press(g, platformcore.ActionNext)
	assert.Equal(t, 2, g.State().Level)
	assert.False(t, g.State().GameOver)
	_, ok = g.LastRun()
	assert.False(t, ok, "next level clears the summary")
}

func TestRandomModeLoadsGeneratedBoard(t *testing.T) {
	g := NewRandom(DefaultOptions())
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 42})

	require.NotNil(t, g.Session().Board())
	assert.Equal(t, "sortpack_random", g.ID())
	assert.Nil(t, g.Levels())
	assert.Zero(t, g.State().Level)
}

func TestTooSmallScreen(t *testing.T) {
	o := campaign(level(1, 1, 2, pl(0, 0, 0, apple), pl(0, 1, 0, banana)))
	g := New(o)
	g.Reset(platformcore.RuntimeConfig{ScreenW: 20, ScreenH: 5})
	assert.True(t, g.State().Paused)

	screen := platformcore.NewScreen(20, 5)
	g.Render(screen)
	assert.Contains(t, screen.String(), "too small")

	remaining := g.Session().Timer().Remaining()
	idle(g, 10)
	assert.Equal(t, remaining, g.Session().Timer().Remaining(), "no ticks while too small")

	g.Resize(80, 24)
	assert.False(t, g.State().Paused)
}

func TestRenderHUD(t *testing.T) {
	o := campaign(level(1, 1, 2, pl(0, 0, 0, apple), pl(0, 1, 0, banana)))
	g := newGame(t, o)

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)

	assert.Contains(t, screen.Row(0), "S O R T P A C K")
	assert.Contains(t, screen.Row(0), "Level 1: Test")
	assert.Contains(t, screen.Row(1), "Score 0")
	assert.Contains(t, screen.Row(2), "1 Time x3")
	assert.True(t, strings.Contains(screen.String(), "ap"), "apple glyph on the board")
}

func TestRenderLayerMarks(t *testing.T) {
	lvl := level(1, 1, 2, pl(0, 0, 0, apple), pl(0, 1, 0, banana))
	lvl.Placements = append(lvl.Placements, core.Placement{Row: 0, Col: 0, Layer: 1, Slot: 0, ItemID: cherry})
	g := newGame(t, campaign(lvl))

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)

	// two layers under the first cell, one under the second
	assert.Equal(t, 3, strings.Count(screen.String(), "▪"))
	assert.NotContains(t, screen.String(), "▫", "no layer spent yet")
}

func TestClock(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{0, "0:00"},
		{0.2, "0:01"},
		{59, "0:59"},
		{115, "1:55"},
	}
	for _, tt := range tests {
		d := time.Duration(tt.secs * float64(time.Second))
		if got := clock(d); got != tt.want {
			t.Errorf("clock(%v) = %q, expected %q", d, got, tt.want)
		}
	}
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, "ap", glyph("apple"))
	assert.Equal(t, "x ", glyph("x"))
	assert.Equal(t, "??", glyph(""))
	assert.Equal(t, "éc", glyph("éclair"))
}
