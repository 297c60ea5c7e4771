package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

func sortedCellLevel() *core.Level {
	return &core.Level{
		ID:            "m",
		Number:        1,
		SizeX:         1,
		SizeY:         1,
		SizeZ:         1,
		SlotsPerCell:  3,
		ItemsPerMatch: 3,
		Placements: []core.Placement{
			{Row: 0, Col: 0, Layer: 0, Slot: 0, ItemID: 5},
			{Row: 0, Col: 0, Layer: 0, Slot: 1, ItemID: 5},
			{Row: 0, Col: 0, Layer: 0, Slot: 2, ItemID: 5},
		},
	}
}

func TestRecorderCountsSessionEvents(t *testing.T) {
	rec := New()
	s := core.NewSession(core.DefaultConfig())
	detach := rec.Attach(s, "sortpack")

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.sessions))

	_, err := s.Load(sortedCellLevel())
	require.NoError(t, err)
	s.Settle()
	require.True(t, s.Won())

	orange, ok := core.DefaultCatalog().Type(5)
	require.True(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.levelsLoaded.WithLabelValues("sortpack")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.matches.WithLabelValues("sortpack", string(orange))))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.results.WithLabelValues("sortpack", "win")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.finalScore))

	// no group of three is left, so the merge fails
	assert.Error(t, s.Boosters().Use(core.AutoMerge))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.boosters.WithLabelValues("auto_merge", "failed")))

	detach()
	detach()
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.sessions))
}

func TestAttachNilIsNoop(t *testing.T) {
	var rec *Recorder
	detach := rec.Attach(core.NewSession(core.DefaultConfig()), "sortpack")
	detach()

	detach = New().Attach(nil, "sortpack")
	detach()
}

func TestHandlerServesRegistry(t *testing.T) {
	rec := New()
	rec.levelsLoaded.WithLabelValues("sortpack_random").Inc()

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `sortpack_levels_loaded_total{game="sortpack_random"} 1`))
}
