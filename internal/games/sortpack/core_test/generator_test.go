package core_test

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

func TestGenerateRandomLevel(t *testing.T) {
	tests := []struct {
		name   string
		params core.GenParams
		types  int
	}{
		{"default 3x3", core.DefaultGenParams(), 8},
		{"small 1x2", core.GenParams{Rows: 1, Cols: 2, SlotsPerCell: 3, ItemsPerMatch: 3}, 1},
		{"wide 4x4", core.GenParams{Rows: 4, Cols: 4, SlotsPerCell: 3, ItemsPerMatch: 3}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl := core.GenerateRandomLevel(rand.New(rand.NewSource(3)), tt.params)

			if errs := lvl.Validate(core.DefaultCatalog()); len(errs) > 0 {
				t.Fatalf("generated level is invalid: %v", errs)
			}
			counts := lvl.ItemCounts()
			if len(counts) != tt.types {
				t.Errorf("types = %d, want %d", len(counts), tt.types)
			}
			slots := lvl.SizeX * lvl.SizeY * lvl.SlotsPerCell
			if len(lvl.Placements) > slots-lvl.SlotsPerCell {
				t.Errorf("placements = %d, want at most %d free-space-preserving", len(lvl.Placements), slots-lvl.SlotsPerCell)
			}
		})
	}
}

func TestGenerateRandomLevelIsSeeded(t *testing.T) {
	a := core.GenerateRandomLevel(rand.New(rand.NewSource(9)), core.DefaultGenParams())
	b := core.GenerateRandomLevel(rand.New(rand.NewSource(9)), core.DefaultGenParams())
	if len(a.Placements) != len(b.Placements) {
		t.Fatalf("placement counts differ: %d vs %d", len(a.Placements), len(b.Placements))
	}
	for i := range a.Placements {
		if a.Placements[i] != b.Placements[i] {
			t.Errorf("placement %d differs: %+v vs %+v", i, a.Placements[i], b.Placements[i])
		}
	}
}
