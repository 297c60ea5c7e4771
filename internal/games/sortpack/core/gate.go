package core

// Gate is a capability a cell can carry to take over drop acceptance and
// match handling from the engine.
type Gate interface {
	// CanAcceptItem reports whether the player may drop into the cell.
	CanAcceptItem(c *Cell) bool
	// OnMatchCheck is called instead of the normal match check.
	// It returns true when the gate handled the check.
	OnMatchCheck(c *Cell) bool
}

// LockGate is a cell lock. While locked the cell refuses drops and ignores
// match checks. Once unlocked it takes drops; when it becomes full and
// sorted its items are merged away and the lock closes again.
type LockGate struct {
	locked  bool
	merging bool
	onMerge func(c *Cell)
}

// NewLockGate creates a gate. onMerge is called with the cell when an
// unlocked cell fills with a single item type.
func NewLockGate(locked bool, onMerge func(c *Cell)) *LockGate {
	return &LockGate{locked: locked, onMerge: onMerge}
}

// Locked reports whether the gate is closed.
func (g *LockGate) Locked() bool { return g.locked }

// Unlock opens the gate. It returns false if it was already open or a
// merge is running.
func (g *LockGate) Unlock() bool {
	if !g.locked || g.merging {
		return false
	}
	g.locked = false
	return true
}

// Lock closes the gate.
func (g *LockGate) Lock() {
	g.locked = true
}

func (g *LockGate) CanAcceptItem(*Cell) bool {
	return !g.locked && !g.merging
}

func (g *LockGate) OnMatchCheck(c *Cell) bool {
	if g.locked || g.merging {
		return true
	}
	if c.IsFullAndSorted() {
		c.CheckSorted()
		g.merging = true
		if g.onMerge != nil {
			g.onMerge(c)
		}
		g.merging = false
		g.locked = true
	}
	return true
}
