// Package core implements the SortPack board engine.
// It is UI-agnostic and deterministic for a given seed: every deferred step
// runs on a virtual clock owned by the Session, so tests and the terminal
// driver decide when time passes.
package core

import "fmt"

// ItemID identifies an item kind in level data.
type ItemID int

// ItemType is the match grouping key derived from an ItemID through a Catalog.
type ItemType string

// Pos is a grid position. Row and Col are zero-based.
type Pos struct {
	Row int
	Col int
}

// P is shorthand for constructing a Pos.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Less orders positions row-major.
func (p Pos) Less(o Pos) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

// RefillMode selects what happens to a cell the player drains by hand.
type RefillMode string

const (
	// RefillCascade raises the next buried layer, or removes the cell.
	RefillCascade RefillMode = "cascade"
	// RefillRespawn refills the cell from the respawn queue while it still
	// has layer strength left.
	RefillRespawn RefillMode = "respawn"
)

// ParseRefillMode converts a config string to a RefillMode.
func ParseRefillMode(s string) (RefillMode, bool) {
	switch RefillMode(s) {
	case RefillCascade, "":
		return RefillCascade, true
	case RefillRespawn:
		return RefillRespawn, true
	}
	return RefillCascade, false
}
