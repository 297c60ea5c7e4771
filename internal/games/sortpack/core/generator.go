package core

import "math/rand"

// GenParams shapes a random board.
type GenParams struct {
	Rows          int
	Cols          int
	SlotsPerCell  int
	ItemsPerMatch int
	Catalog       *Catalog
}

// DefaultGenParams returns a 3x3 board of three-slot cells.
func DefaultGenParams() GenParams {
	return GenParams{
		Rows:          3,
		Cols:          3,
		SlotsPerCell:  DefaultSlotsPerCell,
		ItemsPerMatch: DefaultItemsPerMatch,
		Catalog:       DefaultCatalog(),
	}
}

// GenerateRandomLevel builds a single-layer level with whole groups of
// itemsPerMatch items per type, shuffled over the grid. One cell's worth of
// slots is kept free so the board is playable.
func GenerateRandomLevel(rng *rand.Rand, p GenParams) *Level {
	def := DefaultGenParams()
	if p.Rows <= 0 {
		p.Rows = def.Rows
	}
	if p.Cols <= 0 {
		p.Cols = def.Cols
	}
	if p.SlotsPerCell <= 0 {
		p.SlotsPerCell = def.SlotsPerCell
	}
	if p.ItemsPerMatch <= 0 {
		p.ItemsPerMatch = def.ItemsPerMatch
	}
	if p.Catalog == nil || p.Catalog.Len() == 0 {
		p.Catalog = def.Catalog
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	lvl := &Level{
		ID:            "random",
		Name:          "Random board",
		SizeX:         p.Rows,
		SizeY:         p.Cols,
		SizeZ:         1,
		SlotsPerCell:  p.SlotsPerCell,
		ItemsPerMatch: p.ItemsPerMatch,
		TimeLimit:     DefaultTimeLimit,
	}

	totalSlots := p.Rows * p.Cols * p.SlotsPerCell
	types := (totalSlots - p.SlotsPerCell) / p.ItemsPerMatch
	if types < 1 && totalSlots >= p.ItemsPerMatch {
		types = 1
	}
	ids := p.Catalog.IDs()
	if types > len(ids) {
		types = len(ids)
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	var items []ItemID
	for _, id := range ids[:types] {
		for i := 0; i < p.ItemsPerMatch; i++ {
			items = append(items, id)
		}
	}

	type spot struct{ row, col, slot int }
	spots := make([]spot, 0, totalSlots)
	for r := 0; r < p.Rows; r++ {
		for c := 0; c < p.Cols; c++ {
			for s := 0; s < p.SlotsPerCell; s++ {
				spots = append(spots, spot{r, c, s})
			}
		}
	}
	rng.Shuffle(len(spots), func(i, j int) { spots[i], spots[j] = spots[j], spots[i] })

	for i, id := range items {
		sp := spots[i]
		lvl.Placements = append(lvl.Placements, Placement{
			Row:    sp.row,
			Col:    sp.col,
			Slot:   sp.slot,
			ItemID: id,
		})
	}
	return lvl
}
