package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

// Item ids of the default catalog used throughout the tests.
const (
	apple  core.ItemID = 0
	banana core.ItemID = 1
	cherry core.ItemID = 2
	grape  core.ItemID = 3
	orange core.ItemID = 5
)

// recorder collects session events.
type recorder struct {
	core.NopObserver
	loaded   int
	full     []core.Pos
	sorted   []core.Pos
	empty    []core.Pos
	unlocked []core.Pos
	matches  []core.ItemType
	moves    []int
	scores   []int
	wins     int
	timeUps  int
	used     []core.BoosterType
	failed   []core.BoosterType
	expired  []core.BoosterType
	progress map[core.BoosterType]int
	counts   map[core.BoosterType]int
}

func newRecorder() *recorder {
	return &recorder{
		progress: make(map[core.BoosterType]int),
		counts:   make(map[core.BoosterType]int),
	}
}

func (r *recorder) LevelLoaded(*core.Level) { r.loaded++ }
func (r *recorder) CellFull(c *core.Cell) { r.full = append(r.full, c.Pos()) }
func (r *recorder) CellSorted(c *core.Cell) { r.sorted = append(r.sorted, c.Pos()) }
func (r *recorder) CellEmpty(c *core.Cell) { r.empty = append(r.empty, c.Pos()) }
func (r *recorder) CellUnlocked(c *core.Cell) { r.unlocked = append(r.unlocked, c.Pos()) }
func (r *recorder) MatchFound(_ *core.Cell, t core.ItemType) { r.matches = append(r.matches, t) }
func (r *recorder) MoveCompleted(n int) { r.moves = append(r.moves, n) }
func (r *recorder) ScoreChanged(score int) { r.scores = append(r.scores, score) }
func (r *recorder) GameWin() { r.wins++ }
func (r *recorder) TimeUp() { r.timeUps++ }
func (r *recorder) BoosterUsed(b core.BoosterType) { r.used = append(r.used, b) }
func (r *recorder) BoosterFailed(b core.BoosterType, _ error) {
	r.failed = append(r.failed, b)
}
func (r *recorder) BoosterExpired(b core.BoosterType) { r.expired = append(r.expired, b) }
func (r *recorder) BoosterProgress(b core.BoosterType, _, _ time.Duration) {
	r.progress[b]++
}
func (r *recorder) BoosterCountChanged(b core.BoosterType, n int) { r.counts[b] = n }

func newSession(t *testing.T, mutate ...func(*core.Config)) (*core.Session, *recorder) {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Seed = 7
	for _, m := range mutate {
		m(&cfg)
	}
	s := core.NewSession(cfg)
	rec := newRecorder()
	s.Subscribe(rec)
	return s, rec
}

func pl(row, col, layer, slot int, id core.ItemID) core.Placement {
	return core.Placement{Row: row, Col: col, Layer: layer, Slot: slot, ItemID: id}
}

func grid(rows, cols int, ps ...core.Placement) *core.Level {
	return &core.Level{
		ID:            "test",
		Number:        1,
		SizeX:         rows,
		SizeY:         cols,
		SlotsPerCell:  3,
		ItemsPerMatch: 3,
		Placements:    ps,
	}
}

func mustLoad(t *testing.T, s *core.Session, lvl *core.Level) core.LoadReport {
	t.Helper()
	rep, err := s.Load(lvl)
	require.NoError(t, err)
	return rep
}

func cellAt(t *testing.T, s *core.Session, row, col int) *core.Cell {
	t.Helper()
	c := s.Board().Cell(core.P(row, col))
	require.NotNil(t, c, "no cell at (%d,%d)", row, col)
	return c
}

func itemAt(t *testing.T, s *core.Session, row, col, slot int) *core.Item {
	t.Helper()
	it := cellAt(t, s, row, col).ItemAt(slot)
	require.NotNil(t, it, "no item at (%d,%d) slot %d", row, col, slot)
	return it
}

func itemType(t *testing.T, id core.ItemID) core.ItemType {
	t.Helper()
	typ, ok := core.DefaultCatalog().Type(id)
	require.True(t, ok)
	return typ
}
