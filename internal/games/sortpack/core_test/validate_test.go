package core_test

import (
	"testing"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

func TestLevelValidate(t *testing.T) {
	base := func() *core.Level {
		return grid(2, 2,
			pl(0, 0, 0, 0, apple), pl(0, 1, 0, 0, apple), pl(1, 0, 1, 0, apple),
		)
	}
	tests := []struct {
		name   string
		mutate func(*core.Level)
		code   string
	}{
		{"valid", func(*core.Level) {}, ""},
		{"zero grid", func(l *core.Level) { l.SizeX = 0 }, "INVALID_SIZE"},
		{"no slots", func(l *core.Level) { l.SlotsPerCell = 0 }, "INVALID_SLOTS"},
		{"match of one", func(l *core.Level) { l.ItemsPerMatch = 1 }, "INVALID_MATCH"},
		{"match above slots", func(l *core.Level) { l.ItemsPerMatch = 4 }, "INVALID_MATCH"},
		{"unknown id", func(l *core.Level) { l.Placements[0].ItemID = 99 }, "UNKNOWN_ITEM"},
		{"negative id", func(l *core.Level) { l.Placements[0].ItemID = -1 }, "INVALID_ITEM"},
		{"outside grid", func(l *core.Level) { l.Placements[0].Row = 5 }, "OUT_OF_GRID"},
		{"bad slot", func(l *core.Level) { l.Placements[0].Slot = 3 }, "INVALID_SLOT"},
		{"bad layer", func(l *core.Level) { l.SizeZ = 1 }, "INVALID_LAYER"},
		{"duplicate slot", func(l *core.Level) { l.Placements[1].Col = 0 }, "DUPLICATE_SLOT"},
		{"unbalanced", func(l *core.Level) { l.Placements = l.Placements[:2] }, "UNBALANCED_ITEM"},
		{"locked outside", func(l *core.Level) { l.Locked = []core.Pos{core.P(9, 9)} }, "OUT_OF_GRID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl := base()
			tt.mutate(lvl)
			errs := lvl.Validate(core.DefaultCatalog())
			if tt.code == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			found := false
			for _, e := range errs {
				if e.Code == tt.code {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s, got %v", tt.code, errs)
			}
		})
	}
}
