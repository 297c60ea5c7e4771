package core

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"
)

// Config holds session parameters.
type Config struct {
	Catalog      *Catalog
	RefillMode   RefillMode
	SettleDelay  time.Duration
	Effects      EffectDurations
	MatchScore   int
	TimerEnabled bool
	Boosters     BoosterSettings
	Seed         int64
	Logger       *log.Logger
}

// DefaultConfig returns the stock session parameters.
func DefaultConfig() Config {
	return Config{
		Catalog:      DefaultCatalog(),
		RefillMode:   RefillCascade,
		SettleDelay:  300 * time.Millisecond,
		Effects:      DefaultEffectDurations(),
		MatchScore:   100,
		TimerEnabled: true,
		Boosters:     DefaultBoosterSettings(),
	}
}

// LoadReport describes how a level load went.
type LoadReport struct {
	Level    *Level
	Fallback bool // the requested level was missing and a random board was used
	Skipped  int  // placements dropped for unknown item ids or bad slots
	Queued   int  // buried items placed in the respawn queue
}

// Session is the per-session game context. It owns the board, the match and
// cascade logic, the respawn queue, the boosters, the countdown timer and
// the virtual clock. It is not safe for concurrent use.
type Session struct {
	cfg       Config
	log       *log.Logger
	rng       *rand.Rand
	sched     *Scheduler
	presenter Presenter
	hub       Hub

	level    *Level
	catalog  *Catalog
	board    *Board
	queue    *RespawnQueue
	boosters *BoosterCoordinator
	timer    *CountdownTimer

	depth      map[Pos]int
	cellUnsub  map[*Cell]func()
	disabled   mapset.Set[ItemType]
	typeCounts map[ItemType]int

	pendingTypes mapset.Set[ItemType]
	pendingCells mapset.Set[*Cell]
	settles      int

	generation  int
	moveCount   int
	matches     int
	score       int
	won         bool
	lost        bool
	suppressing bool
}

// NewSession creates a session with a TimedPresenter on its own clock.
func NewSession(cfg Config) *Session {
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if mode, ok := ParseRefillMode(string(cfg.RefillMode)); ok {
		cfg.RefillMode = mode
	} else {
		cfg.RefillMode = RefillCascade
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sched := NewScheduler()
	s := &Session{
		cfg:          cfg,
		log:          logger,
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		sched:        sched,
		presenter:    NewTimedPresenter(sched, cfg.Effects),
		queue:        NewRespawnQueue(nil),
		timer:        NewCountdownTimer(DefaultTimeLimit * time.Second),
		cellUnsub:    make(map[*Cell]func()),
		disabled:     mapset.New[ItemType](),
		typeCounts:   make(map[ItemType]int),
		pendingTypes: mapset.New[ItemType](),
		pendingCells: mapset.New[*Cell](),
	}
	s.boosters = newBoosterCoordinator(s, cfg.Boosters)
	s.timer.onTick = func(remaining time.Duration) {
		s.hub.emit(func(o Observer) { o.TimerTick(remaining) })
	}
	s.timer.onEnd = s.handleTimeUp
	return s
}

// Subscribe registers an observer for session events.
func (s *Session) Subscribe(o Observer) (unsubscribe func()) {
	return s.hub.Subscribe(o)
}

// SetPresenter replaces the presentation collaborator.
func (s *Session) SetPresenter(p Presenter) { s.presenter = p }

// Presenter returns the presentation collaborator.
func (s *Session) Presenter() Presenter { return s.presenter }

// Scheduler returns the session clock.
func (s *Session) Scheduler() *Scheduler { return s.sched }

// Board returns the current board, or nil before the first load.
func (s *Session) Board() *Board { return s.board }

// Level returns the loaded level.
func (s *Session) Level() *Level { return s.level }

// Catalog returns the catalog in effect for the loaded level.
func (s *Session) Catalog() *Catalog {
	if s.catalog != nil {
		return s.catalog
	}
	return s.cfg.Catalog
}

// Queue returns the respawn queue.
func (s *Session) Queue() *RespawnQueue { return s.queue }

// Boosters returns the booster coordinator.
func (s *Session) Boosters() *BoosterCoordinator { return s.boosters }

// Timer returns the level countdown.
func (s *Session) Timer() *CountdownTimer { return s.timer }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// MoveCount returns the number of completed player moves.
func (s *Session) MoveCount() int { return s.moveCount }

// TotalMatches returns the number of matches cleared this level.
func (s *Session) TotalMatches() int { return s.matches }

// Won reports whether the level was cleared.
func (s *Session) Won() bool { return s.won }

// Lost reports whether the countdown ran out.
func (s *Session) Lost() bool { return s.lost }

// Over reports whether the level has ended either way.
func (s *Session) Over() bool { return s.won || s.lost }

// Disabled reports whether an item type was exhausted and no longer spawns.
func (s *Session) Disabled(t ItemType) bool { return s.disabled.Has(t) }

// TypeCount returns the tracked board count for an item type.
func (s *Session) TypeCount(t ItemType) int { return s.typeCounts[t] }

// Busy reports whether any deferred work is still pending.
func (s *Session) Busy() bool {
	return s.settles > 0 || (s.board != nil && s.board.AnimatingCount() > 0)
}

// Tick advances the countdown and then the session clock by d.
func (s *Session) Tick(d time.Duration) {
	s.timer.Advance(d)
	s.sched.Advance(d)
}

// Settle runs deferred work until nothing is pending. The countdown is not
// advanced.
func (s *Session) Settle() {
	s.sched.Flush(10000)
}

// Load builds a fresh board for level. It fails with ErrMissingCollaborator
// when no presenter is set or the grid is empty; the previous board then
// stays in place.
func (s *Session) Load(level *Level) (LoadReport, error) {
	if s.presenter == nil || s.sched == nil {
		return LoadReport{}, fmt.Errorf("load level: no presenter: %w", ErrMissingCollaborator)
	}
	if level == nil {
		return LoadReport{}, fmt.Errorf("load level: nil level: %w", ErrMissingCollaborator)
	}
	lvl := level.withDefaults()
	if lvl.SizeX <= 0 || lvl.SizeY <= 0 {
		return LoadReport{}, fmt.Errorf("load level %q: grid %dx%d not constructed: %w",
			lvl.ID, lvl.SizeX, lvl.SizeY, ErrMissingCollaborator)
	}

	catalog := s.cfg.Catalog
	if len(lvl.Items) > 0 {
		catalog = catalog.Merge(lvl.Items)
	}

	s.teardown()
	s.generation++
	s.level = lvl
	s.catalog = catalog
	s.board = NewBoard(lvl.SizeX, lvl.SizeY, lvl.SlotsPerCell, NewPlacementIndex(lvl.Placements))
	report := LoadReport{Level: lvl}

	s.depth = lvl.LayerDepth()
	s.suppressing = true
	for r := 0; r < lvl.SizeX; r++ {
		for c := 0; c < lvl.SizeY; c++ {
			pos := P(r, c)
			layers := s.depth[pos]
			if layers < 1 {
				layers = 1
			}
			cell := NewCell(pos, lvl.SlotsPerCell, layers)
			if lvl.IsLocked(pos) {
				cell.SetGate(NewLockGate(true, s.mergeGated))
			}
			s.attach(cell, 0)
		}
	}
	for _, p := range s.board.Index().Layer(0) {
		cell := s.board.Cell(p.Pos())
		if cell == nil {
			report.Skipped++
			s.log.Warn("placement outside grid", "pos", p.Pos(), "item", p.ItemID)
			continue
		}
		if err := s.spawn(cell, p.ItemID, p.Slot); err != nil {
			report.Skipped++
			s.log.Warn("skipping placement", "pos", p.Pos(), "slot", p.Slot, "item", p.ItemID, "err", err)
		}
	}
	var entries []QueueEntry
	buried := make(map[buriedSlot]bool)
	for _, p := range lvl.Placements {
		if p.Layer <= 0 {
			continue
		}
		t, ok := catalog.Type(p.ItemID)
		if !ok {
			report.Skipped++
			continue
		}
		if reason := s.unreachable(lvl, p, buried); reason != "" {
			report.Skipped++
			s.log.Warn("skipping buried placement", "pos", p.Pos(), "layer", p.Layer, "slot", p.Slot, "item", p.ItemID, "reason", reason)
			continue
		}
		entries = append(entries, QueueEntry{ID: p.ItemID, Type: t})
	}
	s.queue = NewRespawnQueue(entries)
	report.Queued = len(entries)
	s.suppressing = false

	s.timer.Reset(time.Duration(lvl.Seconds()) * time.Second)
	if s.cfg.TimerEnabled {
		s.timer.Start()
	}
	s.boosters.reset()

	s.log.Debug("level loaded", "id", lvl.ID, "number", lvl.Number,
		"cells", s.board.Len(), "items", s.board.ItemCount(), "queued", report.Queued, "skipped", report.Skipped)
	s.hub.emit(func(o Observer) { o.LevelLoaded(lvl) })

	for _, cell := range s.board.Cells() {
		s.CheckForMatch(cell)
	}
	return report, nil
}

type buriedSlot struct {
	layer int
	pos   Pos
	slot  int
}

// unreachable explains why a buried placement can never reach the board, or
// returns "" when it can. A queued item nothing can reveal or draw would
// keep the queue from ever emptying.
func (s *Session) unreachable(lvl *Level, p Placement, seen map[buriedSlot]bool) string {
	pos := p.Pos()
	if pos.Row < 0 || pos.Row >= lvl.SizeX || pos.Col < 0 || pos.Col >= lvl.SizeY {
		return "outside grid"
	}
	if p.Slot < 0 || p.Slot >= lvl.SlotsPerCell {
		return "slot out of range"
	}
	key := buriedSlot{layer: p.Layer, pos: pos, slot: p.Slot}
	if seen[key] {
		return "duplicate slot"
	}
	seen[key] = true
	if s.cfg.RefillMode == RefillRespawn {
		// refills draw from the whole queue
		return ""
	}
	if lvl.IsLocked(pos) {
		return "under a locked cell"
	}
	for l := 1; l < p.Layer; l++ {
		if len(s.board.Index().At(l, pos)) == 0 {
			return "layer gap"
		}
	}
	return ""
}

// LoadNumber loads the level with the given number from list. A missing
// number falls back to a random board of the list's first level shape (or
// the default shape), reports Fallback and returns an error wrapping
// ErrInvalidLevelReference. The session is playable in that case.
func (s *Session) LoadNumber(list []*Level, number int) (LoadReport, error) {
	for _, l := range list {
		if l != nil && l.Number == number {
			return s.Load(l)
		}
	}
	s.log.Warn("level not found, using random board", "number", number, "err", ErrInvalidLevelReference)
	params := DefaultGenParams()
	params.Catalog = s.cfg.Catalog
	if len(list) > 0 && list[0] != nil {
		params.Rows = list[0].SizeX
		params.Cols = list[0].SizeY
		params.SlotsPerCell = list[0].SlotsPerCell
		params.ItemsPerMatch = list[0].ItemsPerMatch
	}
	lvl := GenerateRandomLevel(s.rng, params)
	lvl.Number = number
	report, err := s.Load(lvl)
	if err != nil {
		return report, err
	}
	report.Fallback = true
	return report, fmt.Errorf("level %d: %w", number, ErrInvalidLevelReference)
}

// Restart reloads the current level. Scores, moves and matches reset.
func (s *Session) Restart() (LoadReport, error) {
	if s.level == nil {
		return LoadReport{}, fmt.Errorf("restart: no level loaded: %w", ErrMissingCollaborator)
	}
	return s.Load(s.level)
}

// LoadNext loads the level after the current one in list.
func (s *Session) LoadNext(list []*Level) (LoadReport, error) {
	next := 1
	if s.level != nil {
		next = s.level.Number + 1
	}
	return s.LoadNumber(list, next)
}

// teardown destroys the current board and resets per-level state.
func (s *Session) teardown() {
	s.sched.Reset()
	if tp, ok := s.presenter.(*TimedPresenter); ok {
		tp.Reset()
	}
	for c, unsub := range s.cellUnsub {
		unsub()
		delete(s.cellUnsub, c)
	}
	if s.board != nil {
		s.board.clear()
	}
	s.disabled = mapset.New[ItemType]()
	s.pendingTypes = mapset.New[ItemType]()
	s.pendingCells = mapset.New[*Cell]()
	s.typeCounts = make(map[ItemType]int)
	s.settles = 0
	s.moveCount = 0
	s.matches = 0
	s.score = 0
	s.won = false
	s.lost = false
}

// attach registers a cell on the board and subscribes to its signals.
func (s *Session) attach(c *Cell, layer int) {
	s.board.Place(c, layer)
	s.cellUnsub[c] = c.Subscribe(cellEvents{s: s})
}

// detach unsubscribes from a cell and destroys it.
func (s *Session) detach(c *Cell) {
	if unsub, ok := s.cellUnsub[c]; ok {
		unsub()
		delete(s.cellUnsub, c)
	}
	for _, it := range c.Items() {
		s.forget(it)
	}
	c.destroy()
}

// spawn creates an item of id in slot of cell.
func (s *Session) spawn(c *Cell, id ItemID, slot int) error {
	t, ok := s.Catalog().Type(id)
	if !ok {
		return fmt.Errorf("item %d: %w", id, ErrInvalidItemID)
	}
	it := &Item{ID: id, Type: t, slot: -1}
	if !c.AddToSlot(it, slot) {
		return fmt.Errorf("slot %d of %v: %w", slot, c.Pos(), ErrSlotOccupied)
	}
	s.typeCounts[t]++
	return nil
}

// forget drops a destroyed item from the board counters.
func (s *Session) forget(it *Item) {
	if s.typeCounts[it.Type] > 0 {
		s.typeCounts[it.Type]--
	}
}

// Move is a player drop of it into slot of the cell at target. A negative
// slot picks the first free one. Successful moves count towards MoveCount,
// may empty the source cell, and run a match check on the target.
func (s *Session) Move(it *Item, target Pos, slot int) error {
	if s.Over() {
		return ErrGameOver
	}
	if it == nil || it.cell == nil {
		return ErrItemDetached
	}
	src := it.cell
	if s.board == nil || !s.board.Contains(src) {
		return ErrItemDetached
	}
	if s.board.Animating(src) {
		return ErrCellBusy
	}
	if g := src.Gate(); g != nil && !g.CanAcceptItem(src) {
		return ErrCellLocked
	}
	dst := s.board.Cell(target)
	if dst == nil {
		return fmt.Errorf("move to %v: %w", target, ErrNoSuchCell)
	}
	if s.board.Animating(dst) {
		return ErrCellBusy
	}
	if g := dst.Gate(); g != nil && !g.CanAcceptItem(dst) {
		return ErrCellLocked
	}
	if dst == src && slot == it.slot {
		return nil
	}
	if slot < 0 {
		slot = dst.FirstEmptySlot()
	}
	if slot < 0 || slot >= dst.Capacity() || dst.ItemAt(slot) != nil || !dst.CanAccept(it) {
		return fmt.Errorf("move to %v slot %d: %w", target, slot, ErrSlotOccupied)
	}

	from := it.slot
	src.RemoveFromSlot(it)
	if !dst.AddToSlot(it, slot) {
		src.AddToSlot(it, from)
		return fmt.Errorf("move to %v slot %d: %w", target, slot, ErrSlotOccupied)
	}

	s.moveCount++
	count := s.moveCount
	s.hub.emit(func(o Observer) { o.MoveCompleted(count) })

	if src != dst {
		src.CheckEmpty()
	}
	s.CheckForMatch(dst)
	return nil
}

// Unlock opens the lock on the cell at pos.
func (s *Session) Unlock(pos Pos) error {
	if s.board == nil {
		return ErrNoSuchCell
	}
	c := s.board.Cell(pos)
	if c == nil {
		return fmt.Errorf("unlock %v: %w", pos, ErrNoSuchCell)
	}
	lock, ok := c.Gate().(*LockGate)
	if !ok {
		return fmt.Errorf("unlock %v: %w", pos, ErrNotLockedCell)
	}
	if !lock.Unlock() {
		return fmt.Errorf("unlock %v: %w", pos, ErrAlreadyUnlocked)
	}
	s.hub.emit(func(o Observer) { o.CellUnlocked(c) })
	return nil
}

// mergeGated removes the items of an unlocked gated cell that filled with one
// type. The gate closes again afterwards.
func (s *Session) mergeGated(c *Cell) {
	items := c.DetachAll()
	for _, it := range items {
		s.forget(it)
	}
	s.addScore(s.cfg.MatchScore)
	s.log.Debug("gated cell merged", "pos", c.Pos(), "items", len(items))
	s.checkWin()
}

// addScore adds base points through the score multiplier.
func (s *Session) addScore(base int) {
	if base <= 0 {
		return
	}
	s.score += s.boosters.ApplyMultiplier(base)
	score := s.score
	s.hub.emit(func(o Observer) { o.ScoreChanged(score) })
}

// handleCellEmpty reacts to a cell the player drained.
func (s *Session) handleCellEmpty(c *Cell) {
	if s.suppressing || c.Destroyed() || s.board == nil || !s.board.Contains(c) {
		return
	}
	if s.board.Animating(c) {
		return
	}
	s.hub.emit(func(o Observer) { o.CellEmpty(c) })
	if c.Gate() != nil {
		return
	}

	c.UseLayer()
	switch s.cfg.RefillMode {
	case RefillRespawn:
		if c.HasLayersRemaining() && s.queue.Len() > 0 {
			s.refill(c)
		} else {
			s.retire(c)
		}
	default:
		s.Cascade(c)
	}
	s.checkWin()
}

// refill draws items from the respawn queue into an empty cell.
func (s *Session) refill(c *Cell) {
	n := s.queue.SpawnCount(s.level.ItemsPerMatch, s.rng)
	if n == 0 {
		return
	}
	picked := s.queue.Pick(n, s.board.TypeCounts(), s.level.ItemsPerMatch, s.disabled.Has, s.rng)
	slot := 0
	for _, e := range picked {
		for slot < c.Capacity() && c.ItemAt(slot) != nil {
			slot++
		}
		if slot >= c.Capacity() {
			s.queue.Push(e)
			continue
		}
		if err := s.spawn(c, e.ID, slot); err != nil {
			s.log.Warn("refill spawn failed", "pos", c.Pos(), "item", e.ID, "err", err)
		}
	}
	s.log.Debug("cell refilled", "pos", c.Pos(), "spawned", len(picked), "queue", s.queue.Len())
}

// handleTimeUp ends the level as lost.
func (s *Session) handleTimeUp() {
	if s.won || s.lost {
		return
	}
	s.lost = true
	s.log.Debug("time up", "level", s.level.ID)
	s.hub.emit(func(o Observer) { o.TimeUp() })
}

// checkWin fires GameWin once the board and queue are empty and nothing is
// in flight.
func (s *Session) checkWin() {
	if s.won || s.lost || s.board == nil || s.suppressing {
		return
	}
	if s.Busy() {
		return
	}
	if s.board.ItemCount() != 0 || s.queue.Len() != 0 {
		return
	}
	s.won = true
	s.timer.Stop()
	s.log.Debug("level won", "level", s.level.ID, "moves", s.moveCount, "matches", s.matches)
	s.hub.emit(func(o Observer) { o.GameWin() })
}

// cellEvents forwards cell signals to the session.
type cellEvents struct {
	s *Session
}

func (e cellEvents) ItemAdded(*Cell, *Item) {}

func (e cellEvents) CellFull(c *Cell) {
	if e.s.suppressing {
		return
	}
	e.s.hub.emit(func(o Observer) { o.CellFull(c) })
}

func (e cellEvents) CellSorted(c *Cell) {
	e.s.hub.emit(func(o Observer) { o.CellSorted(c) })
}

func (e cellEvents) CellEmpty(c *Cell) {
	e.s.handleCellEmpty(c)
}

func (e cellEvents) LayerUsed(c *Cell, remaining int) {
	e.s.log.Debug("layer used", "pos", c.Pos(), "remaining", remaining)
}

func (e cellEvents) LayerDepleted(c *Cell) {
	e.s.log.Debug("layer depleted", "pos", c.Pos())
}
