package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// BoosterType names a player booster.
type BoosterType int

const (
	FreeTime BoosterType = iota
	DoubleStar
	AutoMerge
	RandomSwap
)

var boosterNames = [...]string{
	FreeTime:   "free_time",
	DoubleStar: "double_star",
	AutoMerge:  "auto_merge",
	RandomSwap: "random_swap",
}

func (b BoosterType) String() string {
	if b < 0 || int(b) >= len(boosterNames) {
		return "unknown"
	}
	return boosterNames[b]
}

// AllBoosters returns every booster type in key order.
func AllBoosters() []BoosterType {
	return []BoosterType{FreeTime, DoubleStar, AutoMerge, RandomSwap}
}

// ParseBooster resolves a booster name such as "double_star" or "doublestar".
func ParseBooster(s string) (BoosterType, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range boosterNames {
		if key == name || key == strings.ReplaceAll(name, "_", "") {
			return BoosterType(i), nil
		}
	}
	return 0, fmt.Errorf("booster %q: %w", s, ErrUnknownBooster)
}

// BoosterSettings configures the coordinator.
type BoosterSettings struct {
	InitialCount       int
	FreeTimeDuration   time.Duration
	DoubleStarDuration time.Duration
	StarMultiplier     int
	MergeBaseScore     int
	ProgressInterval   time.Duration
}

// DefaultBoosterSettings returns the stock booster parameters.
func DefaultBoosterSettings() BoosterSettings {
	return BoosterSettings{
		InitialCount:       3,
		FreeTimeDuration:   5 * time.Second,
		DoubleStarDuration: 10 * time.Second,
		StarMultiplier:     2,
		MergeBaseScore:     100,
		ProgressInterval:   100 * time.Millisecond,
	}
}

// timedEffect is one activation of FreeTime or DoubleStar.
type timedEffect struct {
	total     time.Duration
	remaining time.Duration
	onEnd     func()
}

// BoosterCoordinator runs the four boosters against a session's board,
// timer and score.
type BoosterCoordinator struct {
	s        *Session
	settings BoosterSettings
	counts   map[BoosterType]int
	timed    map[BoosterType]*timedEffect
}

func newBoosterCoordinator(s *Session, settings BoosterSettings) *BoosterCoordinator {
	def := DefaultBoosterSettings()
	if settings.StarMultiplier <= 0 {
		settings.StarMultiplier = def.StarMultiplier
	}
	if settings.ProgressInterval <= 0 {
		settings.ProgressInterval = def.ProgressInterval
	}
	if settings.InitialCount < 0 {
		settings.InitialCount = 0
	}
	bc := &BoosterCoordinator{
		s:        s,
		settings: settings,
		counts:   make(map[BoosterType]int),
		timed:    make(map[BoosterType]*timedEffect),
	}
	for _, b := range AllBoosters() {
		bc.counts[b] = settings.InitialCount
	}
	return bc
}

// Count returns the remaining uses of b.
func (bc *BoosterCoordinator) Count(b BoosterType) int { return bc.counts[b] }

// Counts returns a copy of the inventory.
func (bc *BoosterCoordinator) Counts() map[BoosterType]int {
	out := make(map[BoosterType]int, len(bc.counts))
	for b, n := range bc.counts {
		out[b] = n
	}
	return out
}

// SetCounts replaces the inventory for the given types. Negative counts are
// stored as zero.
func (bc *BoosterCoordinator) SetCounts(counts map[BoosterType]int) {
	types := make([]BoosterType, 0, len(counts))
	for b := range counts {
		types = append(types, b)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, b := range types {
		n := counts[b]
		if n < 0 {
			n = 0
		}
		bc.setCount(b, n)
	}
}

// AddBooster grants n more uses of b.
func (bc *BoosterCoordinator) AddBooster(b BoosterType, n int) {
	if n <= 0 {
		return
	}
	bc.setCount(b, bc.counts[b]+n)
}

func (bc *BoosterCoordinator) setCount(b BoosterType, n int) {
	if bc.counts[b] == n {
		return
	}
	bc.counts[b] = n
	bc.s.hub.emit(func(o Observer) { o.BoosterCountChanged(b, n) })
}

// Active reports whether a timed booster is running.
func (bc *BoosterCoordinator) Active(b BoosterType) bool {
	_, ok := bc.timed[b]
	return ok
}

// Remaining returns the time left on a running timed booster.
func (bc *BoosterCoordinator) Remaining(b BoosterType) time.Duration {
	if e, ok := bc.timed[b]; ok {
		return e.remaining
	}
	return 0
}

// ApplyMultiplier returns score, doubled (or multiplied by the configured
// factor) while DoubleStar is active.
func (bc *BoosterCoordinator) ApplyMultiplier(score int) int {
	if bc.Active(DoubleStar) {
		return score * bc.settings.StarMultiplier
	}
	return score
}

// Use fires booster b. On failure the use is not consumed and BoosterFailed
// is emitted.
func (bc *BoosterCoordinator) Use(b BoosterType) error {
	err := bc.use(b)
	if err != nil {
		bc.s.log.Debug("booster failed", "booster", b, "err", err)
		bc.s.hub.emit(func(o Observer) { o.BoosterFailed(b, err) })
		return fmt.Errorf("booster %s: %w", b, err)
	}
	bc.setCount(b, bc.counts[b]-1)
	bc.s.log.Debug("booster used", "booster", b, "left", bc.counts[b])
	bc.s.hub.emit(func(o Observer) { o.BoosterUsed(b) })
	return nil
}

func (bc *BoosterCoordinator) use(b BoosterType) error {
	if b < 0 || int(b) >= len(boosterNames) {
		return ErrUnknownBooster
	}
	if bc.s.board == nil || bc.s.Over() {
		return ErrGameOver
	}
	if bc.counts[b] <= 0 {
		return ErrNoUsesLeft
	}
	switch b {
	case FreeTime:
		if bc.Active(b) {
			return ErrBoosterActive
		}
		timer := bc.s.timer
		timer.Pause()
		bc.start(b, bc.settings.FreeTimeDuration, timer.Resume)
	case DoubleStar:
		if bc.Active(b) {
			return ErrBoosterActive
		}
		bc.start(b, bc.settings.DoubleStarDuration, nil)
	case AutoMerge:
		return bc.autoMerge()
	case RandomSwap:
		return bc.randomSwap()
	}
	return nil
}

// start activates a timed booster and schedules its progress ticks.
func (bc *BoosterCoordinator) start(b BoosterType, total time.Duration, onEnd func()) {
	e := &timedEffect{total: total, remaining: total, onEnd: onEnd}
	bc.timed[b] = e
	bc.s.hub.emit(func(o Observer) { o.BoosterProgress(b, total, total) })
	bc.tick(b, e)
}

func (bc *BoosterCoordinator) tick(b BoosterType, e *timedEffect) {
	step := bc.settings.ProgressInterval
	if e.remaining < step {
		step = e.remaining
	}
	bc.s.sched.After(step, func() {
		if bc.timed[b] != e {
			return
		}
		e.remaining -= step
		if e.remaining <= 0 {
			bc.stop(b, e)
			return
		}
		remaining := e.remaining
		bc.s.hub.emit(func(o Observer) { o.BoosterProgress(b, remaining, e.total) })
		bc.tick(b, e)
	})
}

func (bc *BoosterCoordinator) stop(b BoosterType, e *timedEffect) {
	delete(bc.timed, b)
	e.remaining = 0
	if e.onEnd != nil {
		e.onEnd()
	}
	bc.s.hub.emit(func(o Observer) { o.BoosterProgress(b, 0, e.total) })
	bc.s.hub.emit(func(o Observer) { o.BoosterExpired(b) })
}

// reset drops running effects. Counts are kept across levels.
func (bc *BoosterCoordinator) reset() {
	bc.timed = make(map[BoosterType]*timedEffect)
}

// movable reports whether items of c may be taken by a booster.
func (bc *BoosterCoordinator) movable(c *Cell) bool {
	if bc.s.board.Animating(c) {
		return false
	}
	if g := c.Gate(); g != nil && !g.CanAcceptItem(c) {
		return false
	}
	return true
}

// autoMerge removes three items of one type from the board.
func (bc *BoosterCoordinator) autoMerge() error {
	s := bc.s
	groups := make(map[ItemType][]*Item)
	var order []ItemType
	for _, c := range s.board.Cells() {
		if !bc.movable(c) {
			continue
		}
		for _, it := range c.Items() {
			if _, seen := groups[it.Type]; !seen {
				order = append(order, it.Type)
			}
			groups[it.Type] = append(groups[it.Type], it)
		}
	}

	lowest := func(t ItemType) ItemID {
		id := groups[t][0].ID
		for _, it := range groups[t] {
			if it.ID < id {
				id = it.ID
			}
		}
		return id
	}
	better := func(a, b ItemType) bool {
		na, nb := len(groups[a]), len(groups[b])
		if (na == 3) != (nb == 3) {
			return na == 3
		}
		if na != nb {
			return na > nb
		}
		return lowest(a) < lowest(b)
	}
	var pick ItemType
	found := false
	for _, t := range order {
		if len(groups[t]) < 3 {
			continue
		}
		if !found || better(t, pick) {
			pick = t
			found = true
		}
	}
	if !found {
		return ErrNoMergeCandidate
	}

	var sources []*Cell
	for _, it := range groups[pick][:3] {
		c := it.cell
		c.RemoveFromSlot(it)
		s.forget(it)
		if !containsCell(sources, c) {
			sources = append(sources, c)
		}
	}
	s.log.Debug("auto merge", "type", pick, "cells", len(sources))
	s.addScore(bc.settings.MergeBaseScore)
	s.disableIfExhausted(pick)
	for _, c := range sources {
		c.CheckEmpty()
	}
	s.checkWin()
	return nil
}

// randomSwap exchanges two items of different types.
func (bc *BoosterCoordinator) randomSwap() error {
	s := bc.s
	var items []*Item
	for _, c := range s.board.Cells() {
		if bc.movable(c) {
			items = append(items, c.Items()...)
		}
	}
	if len(items) < 2 {
		return ErrNotEnoughItems
	}
	a := items[s.rng.Intn(len(items))]
	var others []*Item
	for _, it := range items {
		if it.Type != a.Type {
			others = append(others, it)
		}
	}
	if len(others) == 0 {
		return ErrNotEnoughItems
	}
	b := others[s.rng.Intn(len(others))]

	ca, sa := a.cell, a.slot
	cb, sb := b.cell, b.slot
	ca.RemoveFromSlot(a)
	cb.RemoveFromSlot(b)
	ca.AddToSlot(b, sa)
	cb.AddToSlot(a, sb)
	s.log.Debug("random swap", "a", ca.Pos(), "b", cb.Pos())

	s.CheckForMatch(ca)
	if cb != ca {
		s.CheckForMatch(cb)
	}
	return nil
}
