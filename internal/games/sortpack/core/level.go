package core

import "sort"

// Default level parameters, used when a level leaves them unset.
const (
	DefaultSlotsPerCell  = 3
	DefaultItemsPerMatch = 3
	DefaultTimeLimit     = 115 // seconds
)

// Placement puts one item into a slot of a cell on a given layer.
type Placement struct {
	Row    int
	Col    int
	Layer  int
	Slot   int
	ItemID ItemID
}

// Pos returns the grid position of the placement.
func (p Placement) Pos() Pos {
	return Pos{Row: p.Row, Col: p.Col}
}

// Level is an immutable level definition.
// SizeX is the number of rows, SizeY the number of columns and SizeZ the
// number of layers.
type Level struct {
	ID            string
	Number        int
	Name          string
	SizeX         int
	SizeY         int
	SizeZ         int
	SlotsPerCell  int
	ItemsPerMatch int
	TimeLimit     int // seconds, 0 means DefaultTimeLimit
	Placements    []Placement
	Locked        []Pos
	Items         map[ItemID]ItemType // optional catalog overrides
}

// Clone returns a deep copy.
func (l *Level) Clone() *Level {
	c := *l
	c.Placements = append([]Placement(nil), l.Placements...)
	c.Locked = append([]Pos(nil), l.Locked...)
	if l.Items != nil {
		c.Items = make(map[ItemID]ItemType, len(l.Items))
		for k, v := range l.Items {
			c.Items[k] = v
		}
	}
	return &c
}

// Rows returns the number of grid rows.
func (l *Level) Rows() int { return l.SizeX }

// Cols returns the number of grid columns.
func (l *Level) Cols() int { return l.SizeY }

// Layers returns the number of layers.
func (l *Level) Layers() int { return l.SizeZ }

// Seconds returns the countdown length for this level.
func (l *Level) Seconds() int {
	if l.TimeLimit > 0 {
		return l.TimeLimit
	}
	return DefaultTimeLimit
}

// IsLocked reports whether the cell at p starts behind an unlock gate.
func (l *Level) IsLocked(p Pos) bool {
	for _, lp := range l.Locked {
		if lp == p {
			return true
		}
	}
	return false
}

// ItemCounts returns the total number of placements per item id.
func (l *Level) ItemCounts() map[ItemID]int {
	counts := make(map[ItemID]int)
	for _, p := range l.Placements {
		counts[p.ItemID]++
	}
	return counts
}

// LayerDepth returns, for every position that has placements, one more than
// the deepest layer used there.
func (l *Level) LayerDepth() map[Pos]int {
	depth := make(map[Pos]int)
	for _, p := range l.Placements {
		if p.Layer+1 > depth[p.Pos()] {
			depth[p.Pos()] = p.Layer + 1
		}
	}
	return depth
}

// withDefaults fills unset parameters.
func (l *Level) withDefaults() *Level {
	c := l.Clone()
	if c.SlotsPerCell <= 0 {
		c.SlotsPerCell = DefaultSlotsPerCell
	}
	if c.ItemsPerMatch <= 0 {
		c.ItemsPerMatch = DefaultItemsPerMatch
	}
	if c.SizeZ <= 0 {
		for _, p := range c.Placements {
			if p.Layer+1 > c.SizeZ {
				c.SizeZ = p.Layer + 1
			}
		}
	}
	return c
}

// layerKey indexes placements by (layer, row, col).
type layerKey struct {
	layer int
	pos   Pos
}

// PlacementIndex is the per-level lookup of placements by layer and position.
// It is built once per load.
type PlacementIndex struct {
	byKey map[layerKey][]Placement
}

// NewPlacementIndex builds the index. Placements for the same cell keep
// their level order.
func NewPlacementIndex(placements []Placement) *PlacementIndex {
	idx := &PlacementIndex{byKey: make(map[layerKey][]Placement)}
	for _, p := range placements {
		k := layerKey{layer: p.Layer, pos: p.Pos()}
		idx.byKey[k] = append(idx.byKey[k], p)
	}
	return idx
}

// At returns the placements for a position on a layer.
func (idx *PlacementIndex) At(layer int, pos Pos) []Placement {
	if idx == nil {
		return nil
	}
	return idx.byKey[layerKey{layer: layer, pos: pos}]
}

// Layer returns every placement on a layer, ordered by position and slot.
func (idx *PlacementIndex) Layer(layer int) []Placement {
	var out []Placement
	for k, ps := range idx.byKey {
		if k.layer == layer {
			out = append(out, ps...)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		if out[i].Col != out[j].Col {
			return out[i].Col < out[j].Col
		}
		return out[i].Slot < out[j].Slot
	})
	return out
}
