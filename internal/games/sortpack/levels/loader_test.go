package levels_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
	"github.com/vovakirdan/sortpack/internal/games/sortpack/levels"
)

// testdataPath returns path to testdata/levels.
func testdataPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", "levels")
}

func TestLoaderLoadAll(t *testing.T) {
	lvls, err := levels.NewLoader(testdataPath()).LoadAll()
	require.NoError(t, err)
	require.Len(t, lvls, 2, "broken files are skipped")

	assert.Equal(t, 1, lvls[0].Number)
	assert.Equal(t, 2, lvls[1].Number, "number taken from the file name")
}

func TestLoaderScanReportsBrokenFiles(t *testing.T) {
	entries, err := levels.NewLoader(testdataPath()).Scan()
	require.NoError(t, err)
	require.Len(t, entries, 4)

	var broken []string
	for _, e := range entries {
		if e.Err != nil {
			broken = append(broken, e.Path)
		}
	}
	assert.ElementsMatch(t, []string{"broken.yaml", "nosize.yaml"}, broken)
	assert.Equal(t, "level01.yaml", entries[0].Path)
}

func TestLoaderPlacementsLayout(t *testing.T) {
	lvl, err := levels.NewLoader(testdataPath()).LoadByNumber(1)
	require.NoError(t, err)

	assert.Equal(t, "lvl01", lvl.ID)
	assert.Equal(t, "Intro", lvl.Name)
	assert.Equal(t, 1, lvl.Rows())
	assert.Equal(t, 2, lvl.Cols())
	assert.Equal(t, core.DefaultSlotsPerCell, lvl.SlotsPerCell)
	assert.Equal(t, core.DefaultItemsPerMatch, lvl.ItemsPerMatch)
	assert.Len(t, lvl.Placements, 3)
	assert.Empty(t, lvl.Validate(core.DefaultCatalog()))
}

func TestLoaderLayersLayout(t *testing.T) {
	lvl, err := levels.NewLoader(testdataPath()).LoadByNumber(2)
	require.NoError(t, err)

	assert.Equal(t, 2, lvl.Layers())
	assert.Equal(t, 60, lvl.Seconds())
	assert.True(t, lvl.IsLocked(core.P(1, 1)))
	assert.Equal(t, core.ItemType("star"), lvl.Items[20])
	assert.Equal(t, 3, lvl.ItemCounts()[20])
	assert.Len(t, lvl.Placements, 9)

	catalog := core.DefaultCatalog().Merge(lvl.Items)
	assert.Empty(t, lvl.Validate(catalog))
}

func TestLoaderMissingNumber(t *testing.T) {
	_, err := levels.NewLoader(testdataPath()).LoadByNumber(42)
	assert.ErrorIs(t, err, core.ErrInvalidLevelReference)
}

func TestLoaderMissingDirectory(t *testing.T) {
	_, err := levels.NewLoader(filepath.Join(t.TempDir(), "nope")).LoadAll()
	assert.Error(t, err)

	_, err = levels.NewLoader(t.TempDir()).ListNumbers()
	assert.ErrorIs(t, err, levels.ErrNoLevels)
}

func TestBuiltinLevelsAreValid(t *testing.T) {
	lvls, err := levels.Builtin().LoadAll()
	require.NoError(t, err)
	require.NotEmpty(t, lvls)

	for i, lvl := range lvls {
		t.Run(lvl.ID, func(t *testing.T) {
			assert.Equal(t, i+1, lvl.Number)
			catalog := core.DefaultCatalog().Merge(lvl.Items)
			assert.Empty(t, lvl.Validate(catalog))
		})
	}
}

func TestBuiltinLevelsLoadIntoSession(t *testing.T) {
	lvls, err := levels.Builtin().LoadAll()
	require.NoError(t, err)

	s := core.NewSession(core.DefaultConfig())
	for _, lvl := range lvls {
		rep, err := s.Load(lvl)
		require.NoError(t, err, lvl.ID)
		assert.Zero(t, rep.Skipped, lvl.ID)
		assert.Equal(t, lvl.Rows()*lvl.Cols(), s.Board().Len(), lvl.ID)
	}
}
