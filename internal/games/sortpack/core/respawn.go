package core

import "math/rand"

// QueueEntry is one buried item waiting in the respawn queue.
type QueueEntry struct {
	ID   ItemID
	Type ItemType
}

// RespawnQueue is the ordered backlog of buried items used to refill cells
// the player empties.
type RespawnQueue struct {
	entries []QueueEntry
}

// NewRespawnQueue creates a queue holding entries in order.
func NewRespawnQueue(entries []QueueEntry) *RespawnQueue {
	return &RespawnQueue{entries: append([]QueueEntry(nil), entries...)}
}

// Len returns the number of queued entries.
func (q *RespawnQueue) Len() int { return len(q.entries) }

// Entries returns a copy of the queue contents.
func (q *RespawnQueue) Entries() []QueueEntry {
	return append([]QueueEntry(nil), q.entries...)
}

// Push appends an entry.
func (q *RespawnQueue) Push(e QueueEntry) {
	q.entries = append(q.entries, e)
}

// Count returns the number of queued entries of type t.
func (q *RespawnQueue) Count(t ItemType) int {
	n := 0
	for _, e := range q.entries {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Take removes the first entry with the given id. It reports false when no
// such entry is queued.
func (q *RespawnQueue) Take(id ItemID) bool {
	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Purge removes every entry of type t and returns how many were dropped.
func (q *RespawnQueue) Purge(t ItemType) int {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.Type != t {
			kept = append(kept, e)
		}
	}
	n := len(q.entries) - len(kept)
	q.entries = kept
	return n
}

// Clear empties the queue.
func (q *RespawnQueue) Clear() {
	q.entries = nil
}

// SpawnCount draws how many items a refill gets: uniform in
// [1, min(itemsPerMatch-1, Len())]. It returns 0 when nothing can spawn.
func (q *RespawnQueue) SpawnCount(itemsPerMatch int, rng *rand.Rand) int {
	maxSpawn := itemsPerMatch - 1
	if q.Len() < maxSpawn {
		maxSpawn = q.Len()
	}
	if maxSpawn <= 0 {
		return 0
	}
	return 1 + rng.Intn(maxSpawn)
}

// Pick removes up to n entries chosen by refill priority and returns them in
// pick order:
//  1. at most one entry whose type count on the board would become a
//     positive multiple of itemsPerMatch,
//  2. entries whose type is already on the board,
//  3. random entries.
//
// boardCounts is not modified. Entries whose type is disabled are never
// picked. Unpicked entries keep their relative order.
func (q *RespawnQueue) Pick(n int, boardCounts map[ItemType]int, itemsPerMatch int, disabled func(ItemType) bool, rng *rand.Rand) []QueueEntry {
	if n <= 0 || len(q.entries) == 0 {
		return nil
	}
	if n > itemsPerMatch-1 && itemsPerMatch > 1 {
		n = itemsPerMatch - 1
	}

	counts := make(map[ItemType]int, len(boardCounts))
	for t, c := range boardCounts {
		counts[t] = c
	}
	taken := make([]bool, len(q.entries))
	picked := make([]QueueEntry, 0, n)
	eligible := func(i int) bool {
		return !taken[i] && (disabled == nil || !disabled(q.entries[i].Type))
	}
	take := func(i int) {
		taken[i] = true
		e := q.entries[i]
		counts[e.Type]++
		picked = append(picked, e)
	}

	for i := range q.entries {
		if len(picked) >= n {
			break
		}
		if !eligible(i) {
			continue
		}
		after := counts[q.entries[i].Type] + 1
		if itemsPerMatch > 0 && after >= itemsPerMatch && after%itemsPerMatch == 0 {
			take(i)
			break
		}
	}

	for i := range q.entries {
		if len(picked) >= n {
			break
		}
		if eligible(i) && counts[q.entries[i].Type] > 0 {
			take(i)
		}
	}

	for len(picked) < n {
		var candidates []int
		for i := range q.entries {
			if eligible(i) {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			break
		}
		pick := 0
		if rng != nil {
			pick = rng.Intn(len(candidates))
		}
		take(candidates[pick])
	}

	rest := make([]QueueEntry, 0, len(q.entries)-len(picked))
	for i, e := range q.entries {
		if !taken[i] {
			rest = append(rest, e)
		}
	}
	q.entries = rest
	return picked
}
