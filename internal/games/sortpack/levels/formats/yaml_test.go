package formats

import (
	"testing"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

func TestParseYAMLRejectsMissingSize(t *testing.T) {
	if _, err := ParseYAML([]byte("id: x\n")); err == nil {
		t.Error("expected error for level without size")
	}
	if _, err := ParseYAML([]byte("size: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestMarshalYAMLRoundTripsGeneratedLevel(t *testing.T) {
	lvl := core.GenerateRandomLevel(nil, core.DefaultGenParams())
	lvl.Number = 7
	lvl.Locked = []core.Pos{core.P(2, 2)}

	data, err := MarshalYAML(lvl)
	if err != nil {
		t.Fatalf("MarshalYAML failed: %v", err)
	}
	got, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	if got.Number != 7 || got.Rows() != lvl.Rows() || got.Cols() != lvl.Cols() {
		t.Errorf("header mismatch: got %d %dx%d", got.Number, got.Rows(), got.Cols())
	}
	if !got.IsLocked(core.P(2, 2)) {
		t.Error("locked cell lost")
	}
	want := lvl.ItemCounts()
	have := got.ItemCounts()
	if len(want) != len(have) {
		t.Fatalf("item kinds = %d, want %d", len(have), len(want))
	}
	for id, n := range want {
		if have[id] != n {
			t.Errorf("item %d count = %d, want %d", id, have[id], n)
		}
	}
}
