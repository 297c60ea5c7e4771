package core

// CellListener receives the signals a Cell fires.
type CellListener interface {
	ItemAdded(c *Cell, it *Item)
	CellFull(c *Cell)
	CellSorted(c *Cell)
	CellEmpty(c *Cell)
	LayerUsed(c *Cell, remaining int)
	LayerDepleted(c *Cell)
}

type cellSub struct {
	id int
	l  CellListener
}

// Cell is a grid position holding a fixed number of item slots.
// A Cell object represents one layer at its position; cascading replaces it
// with a new Cell rather than mutating it.
type Cell struct {
	pos             Pos
	slots           []*Item
	remainingLayers int
	maxLayers       int
	gate            Gate
	subs            []cellSub
	nextSub         int
	destroyed       bool
}

// NewCell creates an empty cell with the given slot count and layer strength.
func NewCell(pos Pos, slotCount, layers int) *Cell {
	if slotCount < 0 {
		slotCount = 0
	}
	if layers < 0 {
		layers = 0
	}
	return &Cell{
		pos:             pos,
		slots:           make([]*Item, slotCount),
		remainingLayers: layers,
		maxLayers:       layers,
	}
}

// Pos returns the grid position.
func (c *Cell) Pos() Pos { return c.pos }

// Capacity returns the number of slots.
func (c *Cell) Capacity() int { return len(c.slots) }

// Count returns the number of occupied slots.
func (c *Cell) Count() int {
	n := 0
	for _, it := range c.slots {
		if it != nil {
			n++
		}
	}
	return n
}

// ItemAt returns the item in a slot, or nil.
func (c *Cell) ItemAt(slot int) *Item {
	if slot < 0 || slot >= len(c.slots) {
		return nil
	}
	return c.slots[slot]
}

// Items returns the occupied slots' items in slot order.
func (c *Cell) Items() []*Item {
	items := make([]*Item, 0, len(c.slots))
	for _, it := range c.slots {
		if it != nil {
			items = append(items, it)
		}
	}
	return items
}

// FirstEmptySlot returns the lowest free slot, or -1 when full.
func (c *Cell) FirstEmptySlot() int {
	for i, it := range c.slots {
		if it == nil {
			return i
		}
	}
	return -1
}

// CanAccept reports whether at least one slot is free.
func (c *Cell) CanAccept(*Item) bool {
	return c.FirstEmptySlot() >= 0
}

// AddToSlot places an item into a free slot. It fires ItemAdded, and
// CellFull when the last free slot was filled.
func (c *Cell) AddToSlot(it *Item, slot int) bool {
	if it == nil || c.destroyed {
		return false
	}
	if slot < 0 || slot >= len(c.slots) || c.slots[slot] != nil {
		return false
	}
	if it.cell != nil {
		it.cell.RemoveFromSlot(it)
	}
	c.slots[slot] = it
	it.cell = c
	it.slot = slot

	c.notify(func(l CellListener) { l.ItemAdded(c, it) })
	if c.IsFull() {
		c.notify(func(l CellListener) { l.CellFull(c) })
	}
	return true
}

// RemoveFromSlot detaches an item. It never fires CellEmpty; callers use
// CheckEmpty once a transfer has completed.
func (c *Cell) RemoveFromSlot(it *Item) bool {
	if it == nil || it.cell != c {
		return false
	}
	if it.slot < 0 || it.slot >= len(c.slots) || c.slots[it.slot] != it {
		return false
	}
	c.slots[it.slot] = nil
	it.cell = nil
	it.slot = -1
	return true
}

// DetachAll empties every slot silently and returns the removed items.
func (c *Cell) DetachAll() []*Item {
	items := c.Items()
	for _, it := range items {
		c.RemoveFromSlot(it)
	}
	return items
}

// CheckEmpty fires CellEmpty when no slot is occupied.
func (c *Cell) CheckEmpty() {
	if c.destroyed || !c.IsEmpty() {
		return
	}
	c.notify(func(l CellListener) { l.CellEmpty(c) })
}

// CheckSorted fires CellSorted when the cell is full of one item type.
func (c *Cell) CheckSorted() {
	if c.destroyed || !c.IsFullAndSorted() {
		return
	}
	c.notify(func(l CellListener) { l.CellSorted(c) })
}

// IsEmpty reports whether no slot is occupied.
func (c *Cell) IsEmpty() bool { return c.Count() == 0 }

// IsFull reports whether every slot is occupied.
func (c *Cell) IsFull() bool {
	return len(c.slots) > 0 && c.Count() == len(c.slots)
}

// IsSorted reports whether all occupied items share one type.
// Fewer than two items are sorted.
func (c *Cell) IsSorted() bool {
	var first ItemType
	n := 0
	for _, it := range c.slots {
		if it == nil {
			continue
		}
		if n == 0 {
			first = it.Type
		} else if it.Type != first {
			return false
		}
		n++
	}
	return true
}

// IsFullAndSorted combines IsFull and IsSorted.
func (c *Cell) IsFullAndSorted() bool {
	return c.IsFull() && c.IsSorted()
}

// RemainingLayers returns the layer strength left.
func (c *Cell) RemainingLayers() int { return c.remainingLayers }

// MaxLayers returns the strength the cell was created with.
func (c *Cell) MaxLayers() int { return c.maxLayers }

// HasLayersRemaining reports whether any layer strength is left.
func (c *Cell) HasLayersRemaining() bool { return c.remainingLayers > 0 }

// UseLayer consumes one layer of strength, firing LayerUsed and, when the
// counter reaches zero, LayerDepleted.
func (c *Cell) UseLayer() {
	if c.remainingLayers <= 0 {
		return
	}
	c.remainingLayers--
	remaining := c.remainingLayers
	c.notify(func(l CellListener) { l.LayerUsed(c, remaining) })
	if remaining == 0 {
		c.notify(func(l CellListener) { l.LayerDepleted(c) })
	}
}

// ResetLayers restores the original layer strength.
func (c *Cell) ResetLayers() {
	c.remainingLayers = c.maxLayers
}

// Gate returns the cell's gate, or nil.
func (c *Cell) Gate() Gate { return c.gate }

// SetGate attaches a gate capability to the cell.
func (c *Cell) SetGate(g Gate) { c.gate = g }

// Destroyed reports whether the cell has left the board.
func (c *Cell) Destroyed() bool { return c.destroyed }

// Subscribe attaches a listener and returns the function that detaches it.
func (c *Cell) Subscribe(l CellListener) (unsubscribe func()) {
	id := c.nextSub
	c.nextSub++
	c.subs = append(c.subs, cellSub{id: id, l: l})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// destroy marks the cell dead, drops listeners and detaches remaining items.
func (c *Cell) destroy() {
	c.destroyed = true
	c.subs = nil
	c.DetachAll()
}

func (c *Cell) notify(fn func(CellListener)) {
	if len(c.subs) == 0 {
		return
	}
	subs := append([]cellSub(nil), c.subs...)
	for _, s := range subs {
		fn(s.l)
	}
}
