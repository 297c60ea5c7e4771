package core

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Board holds the live cells of a level, the layer each one shows, and the
// set of cells that are mid-transition.
type Board struct {
	rows        int
	cols        int
	slots       int
	cells       map[Pos]*Cell
	cellLayer   map[*Cell]int
	inAnimation mapset.Set[*Cell]
	index       *PlacementIndex
}

// NewBoard creates an empty board for the given grid.
func NewBoard(rows, cols, slots int, index *PlacementIndex) *Board {
	if index == nil {
		index = NewPlacementIndex(nil)
	}
	return &Board{
		rows:        rows,
		cols:        cols,
		slots:       slots,
		cells:       make(map[Pos]*Cell),
		cellLayer:   make(map[*Cell]int),
		inAnimation: mapset.New[*Cell](),
		index:       index,
	}
}

// Rows returns the grid height.
func (b *Board) Rows() int { return b.rows }

// Cols returns the grid width.
func (b *Board) Cols() int { return b.cols }

// SlotsPerCell returns the slot count of every cell.
func (b *Board) SlotsPerCell() int { return b.slots }

// Index returns the placement index.
func (b *Board) Index() *PlacementIndex { return b.index }

// InBounds reports whether p lies on the grid.
func (b *Board) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < b.rows && p.Col >= 0 && p.Col < b.cols
}

// Cell returns the live cell at p, or nil.
func (b *Board) Cell(p Pos) *Cell {
	return b.cells[p]
}

// Contains reports whether c is a live cell of this board.
func (b *Board) Contains(c *Cell) bool {
	if c == nil {
		return false
	}
	return b.cells[c.pos] == c
}

// Len returns the number of live cells.
func (b *Board) Len() int { return len(b.cells) }

// Cells returns the live cells ordered row-major.
func (b *Board) Cells() []*Cell {
	out := make([]*Cell, 0, len(b.cells))
	for _, c := range b.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].pos.Less(out[j].pos) })
	return out
}

// Layer returns the layer shown by c.
func (b *Board) Layer(c *Cell) int {
	return b.cellLayer[c]
}

// Place registers c at its position on the given layer. It fails when the
// position is taken or outside the grid.
func (b *Board) Place(c *Cell, layer int) bool {
	if c == nil || !b.InBounds(c.pos) {
		return false
	}
	if _, taken := b.cells[c.pos]; taken {
		return false
	}
	b.cells[c.pos] = c
	b.cellLayer[c] = layer
	return true
}

// Replace swaps old for next at the same position, showing layer.
func (b *Board) Replace(old, next *Cell, layer int) bool {
	if !b.Contains(old) || next == nil || next.pos != old.pos {
		return false
	}
	delete(b.cellLayer, old)
	b.inAnimation.Remove(old)
	b.cells[next.pos] = next
	b.cellLayer[next] = layer
	return true
}

// Remove deletes c from the board. Its position stays vacant.
func (b *Board) Remove(c *Cell) bool {
	if !b.Contains(c) {
		return false
	}
	delete(b.cells, c.pos)
	delete(b.cellLayer, c)
	b.inAnimation.Remove(c)
	return true
}

// Animating reports whether c is mid-transition.
func (b *Board) Animating(c *Cell) bool {
	return b.inAnimation.Has(c)
}

// SetAnimating adds c to or removes it from the transition set.
func (b *Board) SetAnimating(c *Cell, on bool) {
	if on {
		b.inAnimation.Put(c)
		return
	}
	b.inAnimation.Remove(c)
}

// AnimatingCount returns the number of cells mid-transition.
func (b *Board) AnimatingCount() int {
	return b.inAnimation.Size()
}

// Items returns every item on the board in cell then slot order.
func (b *Board) Items() []*Item {
	var items []*Item
	for _, c := range b.Cells() {
		items = append(items, c.Items()...)
	}
	return items
}

// ItemCount returns the number of items on the board.
func (b *Board) ItemCount() int {
	n := 0
	for _, c := range b.cells {
		n += c.Count()
	}
	return n
}

// TypeCounts returns the number of items of each type on the board.
func (b *Board) TypeCounts() map[ItemType]int {
	counts := make(map[ItemType]int)
	for _, c := range b.cells {
		for _, it := range c.Items() {
			counts[it.Type]++
		}
	}
	return counts
}

// clear destroys every cell.
func (b *Board) clear() {
	for _, c := range b.cells {
		c.destroy()
	}
	b.cells = make(map[Pos]*Cell)
	b.cellLayer = make(map[*Cell]int)
	b.inAnimation = mapset.New[*Cell]()
}
