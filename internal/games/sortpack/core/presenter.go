package core

import (
	"sort"
	"time"
)

// Presenter plays the visual side of board transitions. Every method must
// eventually call done exactly once; the engine ignores extra calls.
type Presenter interface {
	PlayClearEffect(c *Cell, items []*Item, done func())
	PlayReplaceEffect(c *Cell, nextLayer int, done func())
	PlayRemoveEffect(c *Cell, done func())
}

// EffectKind names a running presentation effect.
type EffectKind int

const (
	EffectClear EffectKind = iota
	EffectReplace
	EffectRemove
)

func (k EffectKind) String() string {
	switch k {
	case EffectClear:
		return "clear"
	case EffectReplace:
		return "replace"
	case EffectRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Effect is a running effect at a grid position.
type Effect struct {
	Pos      Pos
	Kind     EffectKind
	Started  time.Duration
	Duration time.Duration
}

// Progress returns how far the effect has run, in [0, 1].
func (e Effect) Progress(now time.Duration) float64 {
	if e.Duration <= 0 {
		return 1
	}
	p := float64(now-e.Started) / float64(e.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// EffectDurations configures TimedPresenter.
type EffectDurations struct {
	Clear   time.Duration
	Replace time.Duration
	Remove  time.Duration
}

// DefaultEffectDurations returns the stock effect lengths.
func DefaultEffectDurations() EffectDurations {
	return EffectDurations{
		Clear:   250 * time.Millisecond,
		Replace: 400 * time.Millisecond,
		Remove:  350 * time.Millisecond,
	}
}

// TimedPresenter completes each effect after a fixed virtual delay and keeps
// track of running effects so a renderer can draw them.
type TimedPresenter struct {
	sched     *Scheduler
	durations EffectDurations
	active    map[Pos]Effect
}

// NewTimedPresenter creates a presenter driven by sched.
func NewTimedPresenter(sched *Scheduler, d EffectDurations) *TimedPresenter {
	return &TimedPresenter{
		sched:     sched,
		durations: d,
		active:    make(map[Pos]Effect),
	}
}

func (p *TimedPresenter) PlayClearEffect(c *Cell, _ []*Item, done func()) {
	p.play(c.Pos(), EffectClear, p.durations.Clear, done)
}

func (p *TimedPresenter) PlayReplaceEffect(c *Cell, _ int, done func()) {
	p.play(c.Pos(), EffectReplace, p.durations.Replace, done)
}

func (p *TimedPresenter) PlayRemoveEffect(c *Cell, done func()) {
	p.play(c.Pos(), EffectRemove, p.durations.Remove, done)
}

func (p *TimedPresenter) play(pos Pos, kind EffectKind, d time.Duration, done func()) {
	e := Effect{Pos: pos, Kind: kind, Started: p.sched.Now(), Duration: d}
	p.active[pos] = e
	p.sched.After(d, func() {
		if cur, ok := p.active[pos]; ok && cur == e {
			delete(p.active, pos)
		}
		done()
	})
}

// Active returns the running effects ordered by position.
func (p *TimedPresenter) Active() []Effect {
	out := make([]Effect, 0, len(p.active))
	for _, e := range p.active {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos.Less(out[j].Pos) })
	return out
}

// EffectAt returns the running effect at pos, if any.
func (p *TimedPresenter) EffectAt(pos Pos) (Effect, bool) {
	e, ok := p.active[pos]
	return e, ok
}

// Now returns the presenter's clock time.
func (p *TimedPresenter) Now() time.Duration { return p.sched.Now() }

// Reset forgets running effects.
func (p *TimedPresenter) Reset() {
	p.active = make(map[Pos]Effect)
}
