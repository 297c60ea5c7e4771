package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

// cellLog records cell signals by name.
type cellLog struct {
	events []string
}

func (l *cellLog) ItemAdded(*core.Cell, *core.Item) { l.events = append(l.events, "added") }
func (l *cellLog) CellFull(*core.Cell) { l.events = append(l.events, "full") }
func (l *cellLog) CellSorted(*core.Cell) { l.events = append(l.events, "sorted") }
func (l *cellLog) CellEmpty(*core.Cell) { l.events = append(l.events, "empty") }
func (l *cellLog) LayerUsed(*core.Cell, int) { l.events = append(l.events, "layer") }
func (l *cellLog) LayerDepleted(*core.Cell) { l.events = append(l.events, "depleted") }

func TestCellSlotSignals(t *testing.T) {
	c := core.NewCell(core.P(0, 0), 2, 1)
	log := &cellLog{}
	unsub := c.Subscribe(log)

	a := &core.Item{ID: apple, Type: "apple"}
	b := &core.Item{ID: apple, Type: "apple"}

	assert.True(t, c.CanAccept(a))
	require.True(t, c.AddToSlot(a, 0))
	assert.False(t, c.AddToSlot(b, 0), "occupied slot")
	assert.False(t, c.AddToSlot(b, 2), "out of range")
	require.True(t, c.AddToSlot(b, 1))
	assert.False(t, c.CanAccept(&core.Item{}))
	assert.Equal(t, []string{"added", "added", "full"}, log.events)

	c.CheckSorted()
	assert.Equal(t, "sorted", log.events[len(log.events)-1])

	log.events = nil
	require.True(t, c.RemoveFromSlot(a))
	require.True(t, c.RemoveFromSlot(b))
	assert.Empty(t, log.events, "removing never signals empty")
	assert.True(t, a.Detached())
	assert.Equal(t, -1, a.Slot())

	c.CheckEmpty()
	assert.Equal(t, []string{"empty"}, log.events)

	unsub()
	c.CheckEmpty()
	assert.Len(t, log.events, 1)
}

func TestCellIsSorted(t *testing.T) {
	tests := []struct {
		name   string
		types  []core.ItemType
		sorted bool
		full   bool
	}{
		{"empty", nil, true, false},
		{"single", []core.ItemType{"apple"}, true, false},
		{"pair same", []core.ItemType{"apple", "apple"}, true, false},
		{"pair mixed", []core.ItemType{"apple", "pear"}, false, false},
		{"full same", []core.ItemType{"apple", "apple", "apple"}, true, true},
		{"full mixed", []core.ItemType{"apple", "apple", "pear"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.NewCell(core.P(0, 0), 3, 1)
			for i, typ := range tt.types {
				require.True(t, c.AddToSlot(&core.Item{Type: typ}, i))
			}
			assert.Equal(t, tt.sorted, c.IsSorted())
			assert.Equal(t, tt.full, c.IsFull())
			assert.Equal(t, tt.sorted && tt.full, c.IsFullAndSorted())
		})
	}
}

func TestCellUseLayer(t *testing.T) {
	c := core.NewCell(core.P(1, 1), 3, 2)
	log := &cellLog{}
	c.Subscribe(log)

	c.UseLayer()
	assert.Equal(t, 1, c.RemainingLayers())
	c.UseLayer()
	assert.Equal(t, 0, c.RemainingLayers())
	assert.False(t, c.HasLayersRemaining())
	c.UseLayer()
	assert.Equal(t, 0, c.RemainingLayers(), "never negative")
	assert.Equal(t, []string{"layer", "layer", "depleted"}, log.events)

	c.ResetLayers()
	assert.Equal(t, 2, c.RemainingLayers())
}

func TestMoveBetweenCellsKeepsSourceUntilChecked(t *testing.T) {
	src := core.NewCell(core.P(0, 0), 3, 1)
	dst := core.NewCell(core.P(0, 1), 3, 1)
	log := &cellLog{}
	src.Subscribe(log)

	it := &core.Item{Type: "apple"}
	require.True(t, src.AddToSlot(it, 1))
	log.events = nil

	require.True(t, dst.AddToSlot(it, 0))
	assert.Same(t, dst, it.Cell())
	assert.Equal(t, 0, src.Count())
	assert.Empty(t, log.events)
}

func TestLockedCell(t *testing.T) {
	s, rec := newSession(t)
	lvl := grid(1, 3,
		pl(0, 1, 0, 0, apple), pl(0, 1, 0, 1, apple), pl(0, 1, 0, 2, banana),
		pl(0, 2, 0, 0, apple),
	)
	lvl.Locked = []core.Pos{core.P(0, 0)}
	mustLoad(t, s, lvl)

	locked := cellAt(t, s, 0, 0)
	gate, ok := locked.Gate().(*core.LockGate)
	require.True(t, ok)
	assert.True(t, gate.Locked())
	assert.ErrorIs(t, s.Move(itemAt(t, s, 0, 1, 0), core.P(0, 0), 0), core.ErrCellLocked)
	assert.ErrorIs(t, s.Unlock(core.P(0, 1)), core.ErrNotLockedCell)

	require.NoError(t, s.Unlock(core.P(0, 0)))
	assert.Equal(t, []core.Pos{core.P(0, 0)}, rec.unlocked)
	assert.ErrorIs(t, s.Unlock(core.P(0, 0)), core.ErrAlreadyUnlocked)

	require.NoError(t, s.Move(itemAt(t, s, 0, 1, 0), core.P(0, 0), 0))
	require.NoError(t, s.Move(itemAt(t, s, 0, 1, 1), core.P(0, 0), 1))
	require.NoError(t, s.Move(itemAt(t, s, 0, 2, 0), core.P(0, 0), 2))

	assert.Equal(t, 0, locked.Count(), "full sorted gate merges its items")
	assert.True(t, gate.Locked(), "gate closes after a merge")
	assert.Equal(t, 100, s.Score())
	assert.Empty(t, rec.matches, "merges bypass the board-wide clear")

	s.Settle()
	assert.Same(t, locked, s.Board().Cell(core.P(0, 0)), "gated cells never cascade")
	assert.Nil(t, s.Board().Cell(core.P(0, 2)))
	assert.Equal(t, 1, s.Board().ItemCount())
}
