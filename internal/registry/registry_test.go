package registry

import (
	"strings"
	"testing"

	"github.com/vovakirdan/sortpack/internal/core"
)

type fakeGame struct{ id string }

func (g fakeGame) ID() string { return g.id }
func (g fakeGame) Title() string { return strings.ToUpper(g.id) }
func (fakeGame) Reset(core.RuntimeConfig) {}
func (fakeGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (fakeGame) Render(*core.Screen) {}
func (fakeGame) State() core.GameState { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz_fake", func() Game { return fakeGame{id: "zz_fake"} })

	if !Exists("zz_fake") {
		t.Fatal("Exists(zz_fake) = false, want true")
	}

	g, err := Create("zz_fake")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "zz_fake" {
		t.Errorf("ID() = %q, want zz_fake", g.ID())
	}

	var found bool
	for _, info := range List() {
		if info.ID == "zz_fake" {
			found = true
			if info.Title != "ZZ_FAKE" {
				t.Errorf("Title = %q, want ZZ_FAKE", info.Title)
			}
		}
	}
	if !found {
		t.Error("List() is missing zz_fake")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz_dup", func() Game { return fakeGame{id: "zz_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("second Register did not panic")
		}
	}()
	Register("zz_dup", func() Game { return fakeGame{id: "zz_dup"} })
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no_such_game"); err == nil {
		t.Error("Create(no_such_game) error = nil, want error")
	}
}

func TestListSorted(t *testing.T) {
	Register("zz_b", func() Game { return fakeGame{id: "zz_b"} })
	Register("zz_a", func() Game { return fakeGame{id: "zz_a"} })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}

func TestReplace(t *testing.T) {
	Register("zz_swap", func() Game { return fakeGame{id: "zz_swap"} })

	if err := Replace("zz_swap", func() Game { return fakeGame{id: "zz_swapped"} }); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	g, err := Create("zz_swap")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "zz_swapped" {
		t.Errorf("ID() = %q, want zz_swapped", g.ID())
	}

	if err := Replace("zz_missing", func() Game { return fakeGame{} }); err == nil {
		t.Error("Replace(zz_missing) error = nil, want error")
	}
}
