package core

import (
	"encoding/binary"
	"hash/fnv"
)

// CellView is a read-only picture of one live cell.
type CellView struct {
	Pos       Pos
	Layer     int
	Remaining int
	Items     []ItemID // per slot, -1 when empty
	Animating bool
	Locked    bool
}

// Snapshot is a read-only picture of the board.
type Snapshot struct {
	Rows  int
	Cols  int
	Cells []CellView
	Queue int
	Score int
	Moves int
	Won   bool
	Lost  bool
}

// Snapshot captures the current board in row-major cell order.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Queue: s.queue.Len(),
		Score: s.score,
		Moves: s.moveCount,
		Won:   s.won,
		Lost:  s.lost,
	}
	if s.board == nil {
		return snap
	}
	snap.Rows = s.board.Rows()
	snap.Cols = s.board.Cols()
	for _, c := range s.board.Cells() {
		v := CellView{
			Pos:       c.Pos(),
			Layer:     s.board.Layer(c),
			Remaining: c.RemainingLayers(),
			Items:     make([]ItemID, c.Capacity()),
			Animating: s.board.Animating(c),
		}
		for i := range v.Items {
			v.Items[i] = -1
			if it := c.ItemAt(i); it != nil {
				v.Items[i] = it.ID
			}
		}
		if g, ok := c.Gate().(*LockGate); ok {
			v.Locked = g.Locked()
		}
		snap.Cells = append(snap.Cells, v)
	}
	return snap
}

// Hash returns a stable digest of the board layout, used to compare runs
// with the same seed.
func (snap Snapshot) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		h.Write(buf[:])
	}
	put(snap.Rows)
	put(snap.Cols)
	put(snap.Queue)
	for _, c := range snap.Cells {
		put(c.Pos.Row)
		put(c.Pos.Col)
		put(c.Layer)
		for _, id := range c.Items {
			put(int(id))
		}
	}
	return h.Sum64()
}
