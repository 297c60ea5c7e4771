// Package metrics exports SortPack session events as Prometheus metrics.
//
// Metrics:
//   - sortpack_sessions_active: gauge of sessions currently attached
//   - sortpack_levels_loaded_total{game}: levels started
//   - sortpack_moves_total{game}: accepted player moves
//   - sortpack_matches_total{game,type}: completed matches per item type
//   - sortpack_results_total{game,result}: levels won or lost on time
//   - sortpack_final_score{game}: histogram of scores at level end
//   - sortpack_boosters_total{booster,outcome}: booster activations
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

// Recorder owns the SortPack collectors and the registry they live in.
// Every method is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	sessions     prometheus.Gauge
	levelsLoaded *prometheus.CounterVec
	moves        *prometheus.CounterVec
	matches      *prometheus.CounterVec
	results      *prometheus.CounterVec
	finalScore   *prometheus.HistogramVec
	boosters     *prometheus.CounterVec
}

// New creates a recorder with its own registry so tests and several
// servers in one process do not collide on the global one.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sortpack",
			Name:      "sessions_active",
			Help:      "Sessions currently attached.",
		}),
		levelsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sortpack",
			Name:      "levels_loaded_total",
			Help:      "Levels started.",
		}, []string{"game"}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sortpack",
			Name:      "moves_total",
			Help:      "Accepted player moves.",
		}, []string{"game"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sortpack",
			Name:      "matches_total",
			Help:      "Completed matches by item type.",
		}, []string{"game", "type"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sortpack",
			Name:      "results_total",
			Help:      "Levels finished, by result.",
		}, []string{"game", "result"}),
		finalScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sortpack",
			Name:      "final_score",
			Help:      "Score at the end of a level.",
			Buckets:   []float64{0, 100, 300, 600, 1000, 2000, 5000},
		}, []string{"game"}),
		boosters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sortpack",
			Name:      "boosters_total",
			Help:      "Booster activations by outcome.",
		}, []string{"booster", "outcome"}),
	}
	r.registry.MustRegister(r.sessions, r.levelsLoaded, r.moves, r.matches, r.results, r.finalScore, r.boosters)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler returns the /metrics HTTP handler.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Attach subscribes a per-session observer and counts the session as
// active. The returned function detaches it; calling it twice is harmless.
func (r *Recorder) Attach(s *core.Session, game string) (detach func()) {
	if r == nil || s == nil {
		return func() {}
	}
	r.sessions.Inc()
	unsub := s.Subscribe(&sessionObserver{rec: r, game: game})
	var once sync.Once
	return func() {
		once.Do(func() {
			unsub()
			r.sessions.Dec()
		})
	}
}

// sessionObserver is driven from a single session goroutine, so score needs
// no locking.
type sessionObserver struct {
	core.NopObserver
	rec   *Recorder
	game  string
	score int
}

func (o *sessionObserver) LevelLoaded(*core.Level) {
	o.score = 0
	o.rec.levelsLoaded.WithLabelValues(o.game).Inc()
}

func (o *sessionObserver) MoveCompleted(int) {
	o.rec.moves.WithLabelValues(o.game).Inc()
}

func (o *sessionObserver) MatchFound(_ *core.Cell, t core.ItemType) {
	o.rec.matches.WithLabelValues(o.game, string(t)).Inc()
}

func (o *sessionObserver) ScoreChanged(score int) { o.score = score }

func (o *sessionObserver) GameWin() { o.finish("win") }

func (o *sessionObserver) TimeUp() { o.finish("time_up") }

func (o *sessionObserver) finish(result string) {
	o.rec.results.WithLabelValues(o.game, result).Inc()
	o.rec.finalScore.WithLabelValues(o.game).Observe(float64(o.score))
}

func (o *sessionObserver) BoosterUsed(b core.BoosterType) {
	o.rec.boosters.WithLabelValues(b.String(), "used").Inc()
}

func (o *sessionObserver) BoosterFailed(b core.BoosterType, _ error) {
	o.rec.boosters.WithLabelValues(b.String(), "failed").Inc()
}
