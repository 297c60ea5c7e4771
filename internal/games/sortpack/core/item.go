package core

// Item is a placed item instance.
type Item struct {
	ID   ItemID
	Type ItemType
	cell *Cell
	slot int
}

// Cell returns the cell holding the item, or nil when detached.
func (it *Item) Cell() *Cell { return it.cell }

// Slot returns the slot index, or -1 when detached.
func (it *Item) Slot() int {
	if it.cell == nil {
		return -1
	}
	return it.slot
}

// Detached reports whether the item is not in any cell.
func (it *Item) Detached() bool { return it.cell == nil }
