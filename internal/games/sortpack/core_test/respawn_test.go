package core_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

func entry(id core.ItemID, t core.ItemType) core.QueueEntry {
	return core.QueueEntry{ID: id, Type: t}
}

func TestPickPrefersCompletingEntry(t *testing.T) {
	q := core.NewRespawnQueue([]core.QueueEntry{
		entry(banana, "banana"),
		entry(apple, "apple"),
		entry(cherry, "cherry"),
	})

	picked := q.Pick(1, map[core.ItemType]int{"apple": 2}, 3, nil, rand.New(rand.NewSource(1)))

	require.Len(t, picked, 1)
	assert.Equal(t, core.ItemType("apple"), picked[0].Type)
	assert.Equal(t, []core.QueueEntry{entry(banana, "banana"), entry(cherry, "cherry")}, q.Entries())
}

func TestPickPrefersTypesOnBoard(t *testing.T) {
	q := core.NewRespawnQueue([]core.QueueEntry{
		entry(cherry, "cherry"),
		entry(banana, "banana"),
		entry(grape, "grape"),
	})

	picked := q.Pick(1, map[core.ItemType]int{"banana": 1}, 3, nil, nil)

	require.Len(t, picked, 1)
	assert.Equal(t, core.ItemType("banana"), picked[0].Type)
	assert.Equal(t, []core.QueueEntry{entry(cherry, "cherry"), entry(grape, "grape")}, q.Entries())
}

func TestPickTakesAtMostOneCompletingEntry(t *testing.T) {
	q := core.NewRespawnQueue([]core.QueueEntry{
		entry(apple, "apple"),
		entry(banana, "banana"),
		entry(cherry, "cherry"),
	})
	counts := map[core.ItemType]int{"apple": 2, "banana": 2}

	picked := q.Pick(2, counts, 3, nil, nil)

	require.Len(t, picked, 2)
	assert.Equal(t, core.ItemType("apple"), picked[0].Type)
	assert.Equal(t, core.ItemType("banana"), picked[1].Type, "second pick comes from types on the board")
	assert.Equal(t, 2, counts["apple"], "board counts are not modified")
}

func TestPickSkipsDisabledTypes(t *testing.T) {
	q := core.NewRespawnQueue([]core.QueueEntry{
		entry(apple, "apple"),
		entry(banana, "banana"),
	})
	disabled := func(t core.ItemType) bool { return t == "apple" }

	picked := q.Pick(2, map[core.ItemType]int{"apple": 2}, 3, disabled, nil)

	require.Len(t, picked, 1)
	assert.Equal(t, core.ItemType("banana"), picked[0].Type)
	assert.Equal(t, 1, q.Len())
}

func TestRefillNeverCompletesAMatch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, ipm := range []int{2, 3, 4, 5} {
		for round := 0; round < 50; round++ {
			var entries []core.QueueEntry
			for i := 0; i < 1+rng.Intn(12); i++ {
				id := core.ItemID(rng.Intn(4))
				entries = append(entries, entry(id, core.ItemType(rune('a'+id))))
			}
			q := core.NewRespawnQueue(entries)
			n := q.SpawnCount(ipm, rng)
			assert.GreaterOrEqual(t, n, 1)
			assert.Less(t, n, ipm)

			picked := q.Pick(n, nil, ipm, nil, rng)
			assert.Len(t, picked, n)
			assert.Equal(t, len(entries)-n, q.Len())
		}
	}
}

func TestSpawnCountOnEmptyQueue(t *testing.T) {
	q := core.NewRespawnQueue(nil)
	assert.Equal(t, 0, q.SpawnCount(3, rand.New(rand.NewSource(1))))
	assert.Nil(t, q.Pick(2, nil, 3, nil, nil))
}

func TestQueueTakeAndCount(t *testing.T) {
	q := core.NewRespawnQueue([]core.QueueEntry{
		entry(apple, "apple"),
		entry(banana, "banana"),
		entry(apple, "apple"),
	})
	assert.Equal(t, 2, q.Count("apple"))
	assert.True(t, q.Take(apple))
	assert.Equal(t, []core.QueueEntry{entry(banana, "banana"), entry(apple, "apple")}, q.Entries())
	assert.False(t, q.Take(cherry))
}
