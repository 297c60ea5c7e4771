package core

import (
	"fmt"
	"sort"
)

// ValidationError contains details about a level validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks a level for structural problems. A nil catalog skips the
// item id registration check. The engine still loads levels that fail
// validation; the checks exist for tooling and the level list.
func (l *Level) Validate(catalog *Catalog) []ValidationError {
	var errs []ValidationError
	add := func(code, format string, args ...any) {
		errs = append(errs, ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if l.SizeX <= 0 || l.SizeY <= 0 {
		add("INVALID_SIZE", "grid must be at least 1x1, got %dx%d", l.SizeX, l.SizeY)
	}
	if l.SlotsPerCell <= 0 {
		add("INVALID_SLOTS", "slots per cell must be positive, got %d", l.SlotsPerCell)
	}
	if l.ItemsPerMatch <= 1 {
		add("INVALID_MATCH", "items per match must be at least 2, got %d", l.ItemsPerMatch)
	}
	if l.ItemsPerMatch > l.SlotsPerCell && l.SlotsPerCell > 0 {
		add("INVALID_MATCH", "items per match %d exceeds slots per cell %d", l.ItemsPerMatch, l.SlotsPerCell)
	}

	type slotKey struct {
		layer int
		pos   Pos
		slot  int
	}
	seen := make(map[slotKey]bool)
	for i, p := range l.Placements {
		if p.ItemID < 0 {
			add("INVALID_ITEM", "placement %d has negative item id %d", i, p.ItemID)
		} else if catalog != nil && !catalog.Has(p.ItemID) {
			add("UNKNOWN_ITEM", "placement %d references unregistered item id %d", i, p.ItemID)
		}
		if p.Row < 0 || p.Row >= l.SizeX || p.Col < 0 || p.Col >= l.SizeY {
			add("OUT_OF_GRID", "placement %d at %v is outside %dx%d grid", i, p.Pos(), l.SizeX, l.SizeY)
		}
		if p.Layer < 0 || (l.SizeZ > 0 && p.Layer >= l.SizeZ) {
			add("INVALID_LAYER", "placement %d has layer %d, level has %d", i, p.Layer, l.SizeZ)
		}
		if p.Slot < 0 || p.Slot >= l.SlotsPerCell {
			add("INVALID_SLOT", "placement %d has slot %d, cells have %d", i, p.Slot, l.SlotsPerCell)
		}
		k := slotKey{layer: p.Layer, pos: p.Pos(), slot: p.Slot}
		if seen[k] {
			add("DUPLICATE_SLOT", "placement %d reuses slot %d of %v on layer %d", i, p.Slot, p.Pos(), p.Layer)
		}
		seen[k] = true
	}

	if l.ItemsPerMatch > 0 {
		counts := l.ItemCounts()
		ids := make([]ItemID, 0, len(counts))
		for id := range counts {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if counts[id]%l.ItemsPerMatch != 0 {
				add("UNBALANCED_ITEM", "item %d appears %d times, not a multiple of %d", id, counts[id], l.ItemsPerMatch)
			}
		}
	}

	for _, p := range l.Locked {
		if p.Row < 0 || p.Row >= l.SizeX || p.Col < 0 || p.Col >= l.SizeY {
			add("OUT_OF_GRID", "locked cell %v is outside the grid", p)
		}
	}

	return errs
}
