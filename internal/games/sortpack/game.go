// Package sortpack adapts the SortPack board engine to the platform game
// loop: a cursor over the grid, pick and drop of items, booster hotkeys and
// a campaign of levels.
package sortpack

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sortpack/internal/config"
	platformcore "github.com/vovakirdan/sortpack/internal/core"
	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
	"github.com/vovakirdan/sortpack/internal/games/sortpack/levels"
	"github.com/vovakirdan/sortpack/internal/metrics"
	"github.com/vovakirdan/sortpack/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeRandom   Mode = "random"
)

const (
	gameID       = "sortpack"
	randomGameID = "sortpack_random"

	messageTicks = 90
)

// Options configure a game instance. Each instance keeps its own copy.
type Options struct {
	Config  config.SortPackConfig
	Levels  []*core.Level
	Logger  *log.Logger
	Metrics *metrics.Recorder
}

// DefaultOptions returns the stock configuration over the built-in levels.
func DefaultOptions() Options {
	return Options{Config: config.DefaultSortPackConfig()}
}

// withLevels fills in the built-in campaign when no levels are given.
func (o Options) withLevels() Options {
	if len(o.Levels) == 0 {
		o.Levels = builtinLevels()
	}
	return o
}

var builtinLevels = sync.OnceValue(func() []*core.Level {
	list, err := levels.Builtin().LoadAll()
	if err != nil {
		return nil
	}
	return list
})

func init() {
	register(registry.Register, DefaultOptions())
}

// Configure points the registry factories at o. Games created afterwards
// use it; games already running keep their options.
func Configure(o Options) {
	register(func(id string, f registry.Factory) {
		if err := registry.Replace(id, f); err != nil {
			panic(err)
		}
	}, o)
}

func register(add func(string, registry.Factory), o Options) {
	add(gameID, func() registry.Game { return New(o) })
	add(randomGameID, func() registry.Game { return NewRandom(o) })
}

// Game implements the SortPack puzzle for the terminal.
type Game struct {
	mode Mode
	opts Options
	sess *core.Session
	rng  *rand.Rand

	detachMetrics func()
	unsubscribe   func()

	cursor core.Pos
	held   *core.Item

	screenW  int
	screenH  int
	tickDur  time.Duration
	paused   bool
	tooSmall bool

	startLevel int
	inventory  map[string]int

	message      string
	messageColor platformcore.Color
	messageLeft  int

	lastRun *registry.RunSummary
}

// New creates a campaign game.
func New(o Options) *Game {
	return &Game{mode: ModeCampaign, opts: o.withLevels()}
}

// NewRandom creates a game on generated boards.
func NewRandom(o Options) *Game {
	return &Game{mode: ModeRandom, opts: o.withLevels()}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeRandom {
		return randomGameID
	}
	return gameID
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeRandom {
		return "SortPack (Random)"
	}
	return "SortPack"
}

// Session exposes the engine session, mostly for tests.
func (g *Game) Session() *core.Session { return g.sess }

// Cursor returns the cursor position.
func (g *Game) Cursor() core.Pos { return g.cursor }

// Held returns the item picked up, or nil.
func (g *Game) Held() *core.Item { return g.held }

// Message returns the current status line.
func (g *Game) Message() string { return g.message }

// Levels lists the campaign levels.
func (g *Game) Levels() []registry.LevelInfo {
	if g.mode == ModeRandom {
		return nil
	}
	list := g.opts.Levels
	out := make([]registry.LevelInfo, 0, len(list))
	for _, l := range list {
		out = append(out, registry.LevelInfo{Number: l.Number, Name: l.Name})
	}
	return out
}

// SetStartLevel picks the level the next Reset loads. 0 starts at the first.
func (g *Game) SetStartLevel(number int) { g.startLevel = number }

// Inventory returns the current booster counts by name.
func (g *Game) Inventory() map[string]int {
	if g.sess == nil {
		return nil
	}
	out := make(map[string]int)
	for b, n := range g.sess.Boosters().Counts() {
		out[b.String()] = n
	}
	return out
}

// SetInventory stores booster counts to apply on the next Reset. Unknown
// names are ignored.
func (g *Game) SetInventory(counts map[string]int) {
	g.inventory = counts
}

// LastRun reports the level that just ended.
func (g *Game) LastRun() (registry.RunSummary, bool) {
	if g.lastRun == nil {
		return registry.RunSummary{}, false
	}
	return *g.lastRun, true
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
	if g.detachMetrics != nil {
		g.detachMetrics()
	}

	seed := g.opts.Config.Board.Seed
	if seed == 0 {
		seed = cfg.Seed
	}
	g.rng = rand.New(rand.NewSource(seed))

	sc := g.opts.Config.SessionConfig()
	sc.Seed = seed
	sc.Logger = g.opts.Logger
	if sc.Logger == nil {
		sc.Logger = log.New(io.Discard)
	}
	g.sess = core.NewSession(sc)
	g.applyInventory()
	g.unsubscribe = g.sess.Subscribe(&hudObserver{g: g})
	g.detachMetrics = g.opts.Metrics.Attach(g.sess, g.ID())

	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = platformcore.DefaultConfig().TickRate
	}
	g.tickDur = time.Second / time.Duration(tickRate)
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.held = nil
	g.message = ""
	g.messageLeft = 0

	g.loadFirst()
	g.checkScreenSize()
}

func (g *Game) applyInventory() {
	if len(g.inventory) == 0 {
		return
	}
	counts := make(map[core.BoosterType]int)
	for name, n := range g.inventory {
		b, err := core.ParseBooster(name)
		if err != nil {
			continue
		}
		counts[b] = n
	}
	g.sess.Boosters().SetCounts(counts)
}

// loadFirst loads the starting level for the mode.
func (g *Game) loadFirst() {
	if g.mode == ModeRandom {
		g.loadRandom()
		return
	}
	start := g.startLevel
	if start <= 0 && len(g.opts.Levels) > 0 {
		start = g.opts.Levels[0].Number
	}
	g.startLevel = 0
	g.afterLoad(g.sess.LoadNumber(g.campaign(), start))
}

func (g *Game) loadRandom() {
	lvl := core.GenerateRandomLevel(g.rng, g.opts.Config.GenParams(g.sess.Catalog()))
	g.afterLoad(g.sess.Load(g.opts.Config.ApplyTimeLimit(lvl)))
}

// campaign returns the levels with config overrides applied.
func (g *Game) campaign() []*core.Level {
	out := make([]*core.Level, 0, len(g.opts.Levels))
	for _, l := range g.opts.Levels {
		out = append(out, g.opts.Config.ApplyTimeLimit(l))
	}
	return out
}

func (g *Game) afterLoad(rep core.LoadReport, err error) {
	g.held = nil
	g.lastRun = nil
	if err != nil && !errors.Is(err, core.ErrInvalidLevelReference) {
		g.say(err.Error(), platformcore.ColorRed)
		return
	}
	g.cursor = g.firstCell()
	g.checkScreenSize()
	switch {
	case rep.Fallback:
		g.say(fmt.Sprintf("Level %d not found, random board", rep.Level.Number), platformcore.ColorYellow)
	case rep.Skipped > 0:
		g.say(fmt.Sprintf("%d placements skipped", rep.Skipped), platformcore.ColorYellow)
	default:
		g.say(rep.Level.Name, platformcore.ColorBrightCyan)
	}
}

func (g *Game) firstCell() core.Pos {
	b := g.sess.Board()
	if b == nil {
		return core.P(0, 0)
	}
	if cells := b.Cells(); len(cells) > 0 {
		return cells[0].Pos()
	}
	return core.P(0, 0)
}

// Resize adapts to a new terminal size without restarting the level.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough for the board.
func (g *Game) checkScreenSize() {
	w, h := g.layoutSize()
	g.tooSmall = g.screenW < w || g.screenH < h
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if g.sess == nil {
		return platformcore.StepResult{State: g.State()}
	}
	if g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionPause) && !g.sess.Over() {
		g.togglePause()
	}
	if g.paused {
		return platformcore.StepResult{State: g.State()}
	}

	if g.sess.Over() {
		g.stepOver(in)
	} else {
		g.stepPlaying(in)
	}

	g.sess.Tick(g.tickDur)
	g.dropStaleHold()
	g.recordRun()

	if g.messageLeft > 0 {
		g.messageLeft--
		if g.messageLeft == 0 {
			g.message = ""
		}
	}
	return platformcore.StepResult{State: g.State(), Message: g.message}
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.sess.Timer().Pause()
		return
	}
	// a running Free Time keeps the countdown paused
	if !g.sess.Boosters().Active(core.FreeTime) {
		g.sess.Timer().Resume()
	}
}

func (g *Game) stepOver(in platformcore.InputFrame) {
	switch {
	case in.Has(platformcore.ActionRestart):
		if g.mode == ModeRandom {
			g.loadRandom()
			return
		}
		g.afterLoad(g.sess.Restart())
	case in.Has(platformcore.ActionNext) && g.sess.Won():
		if g.mode == ModeRandom {
			g.loadRandom()
			return
		}
		g.afterLoad(g.sess.LoadNext(g.campaign()))
	}
}

func (g *Game) stepPlaying(in platformcore.InputFrame) {
	g.moveCursor(in)

	switch {
	case in.Has(platformcore.ActionConfirm):
		g.pickOrDrop()
	case in.Has(platformcore.ActionBack):
		g.held = nil
	case in.Has(platformcore.ActionUnlock):
		if err := g.sess.Unlock(g.cursor); err != nil {
			g.sayErr(err)
		}
	case in.Has(platformcore.ActionRestart):
		g.afterLoad(g.sess.Restart())
		return
	}

	boosters := core.AllBoosters()
	for i, a := range platformcore.BoosterActions() {
		if in.Has(a) && i < len(boosters) {
			g.held = nil
			// failures reach the HUD through the observer
			_ = g.sess.Boosters().Use(boosters[i])
		}
	}
}

func (g *Game) moveCursor(in platformcore.InputFrame) {
	b := g.sess.Board()
	if b == nil {
		return
	}
	row, col := g.cursor.Row, g.cursor.Col
	switch {
	case in.Has(platformcore.ActionUp):
		row--
	case in.Has(platformcore.ActionDown):
		row++
	case in.Has(platformcore.ActionLeft):
		col--
	case in.Has(platformcore.ActionRight):
		col++
	default:
		return
	}
	g.cursor = core.P(platformcore.Wrap(row, b.Rows()), platformcore.Wrap(col, b.Cols()))
}

// pickOrDrop picks the top item of the cursor cell, or drops the held item
// into the first free slot there.
func (g *Game) pickOrDrop() {
	c := g.sess.Board().Cell(g.cursor)
	if g.held == nil {
		if c == nil {
			return
		}
		if it := topItem(c); it != nil {
			g.held = it
		}
		return
	}

	it := g.held
	g.held = nil
	if it.Cell() == c {
		return
	}
	if err := g.sess.Move(it, g.cursor, -1); err != nil {
		g.sayErr(err)
	}
}

// topItem returns the item in the highest occupied slot.
func topItem(c *core.Cell) *core.Item {
	for slot := c.Capacity() - 1; slot >= 0; slot-- {
		if it := c.ItemAt(slot); it != nil {
			return it
		}
	}
	return nil
}

// dropStaleHold forgets a held item the engine cleared or moved away.
func (g *Game) dropStaleHold() {
	if g.held == nil {
		return
	}
	if g.held.Detached() || g.held.Cell().Destroyed() || g.sess.Board().Animating(g.held.Cell()) {
		g.held = nil
	}
}

// recordRun captures the summary once the level ends.
func (g *Game) recordRun() {
	if !g.sess.Over() || g.lastRun != nil {
		return
	}
	lvl := g.sess.Level()
	t := g.sess.Timer()
	g.lastRun = &registry.RunSummary{
		LevelID: lvl.ID,
		Level:   lvl.Number,
		Score:   g.sess.Score(),
		Moves:   g.sess.MoveCount(),
		Matches: g.sess.TotalMatches(),
		Won:     g.sess.Won(),
		Elapsed: t.Total() - t.Remaining(),
	}
}

func (g *Game) say(msg string, c platformcore.Color) {
	g.message = msg
	g.messageColor = c
	g.messageLeft = messageTicks
}

func (g *Game) sayErr(err error) {
	switch {
	case errors.Is(err, core.ErrCellLocked):
		g.say("Cell is locked (U to unlock)", platformcore.ColorYellow)
	case errors.Is(err, core.ErrCellBusy):
		g.say("Cell is busy", platformcore.ColorGray)
	case errors.Is(err, core.ErrSlotOccupied):
		g.say("No room there", platformcore.ColorGray)
	default:
		g.say(err.Error(), platformcore.ColorRed)
	}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	if g.sess == nil {
		return platformcore.GameState{}
	}
	st := platformcore.GameState{
		Score:    g.sess.Score(),
		GameOver: g.sess.Over(),
		Won:      g.sess.Won(),
		Paused:   g.paused || g.tooSmall,
	}
	if g.mode == ModeCampaign && g.sess.Level() != nil {
		st.Level = g.sess.Level().Number
	}
	return st
}

// hudObserver turns session events into status messages.
type hudObserver struct {
	core.NopObserver
	g *Game
}

func (o *hudObserver) MatchFound(_ *core.Cell, t core.ItemType) {
	o.g.say(fmt.Sprintf("Match: %s!", t), platformcore.ColorBrightGreen)
}

func (o *hudObserver) CellUnlocked(c *core.Cell) {
	o.g.say(fmt.Sprintf("Unlocked %v", c.Pos()), platformcore.ColorBrightYellow)
}

func (o *hudObserver) GameWin() {
	o.g.say("Board cleared!", platformcore.ColorBrightGreen)
}

func (o *hudObserver) TimeUp() {
	o.g.say("Time is up", platformcore.ColorBrightRed)
}

func (o *hudObserver) BoosterUsed(b core.BoosterType) {
	o.g.say(boosterTitle(b)+" used", platformcore.ColorBrightMagenta)
}

func (o *hudObserver) BoosterFailed(b core.BoosterType, err error) {
	reason := err.Error()
	switch {
	case errors.Is(err, core.ErrNoUsesLeft):
		reason = "none left"
	case errors.Is(err, core.ErrBoosterActive):
		reason = "already running"
	case errors.Is(err, core.ErrNoMergeCandidate):
		reason = "nothing to merge"
	case errors.Is(err, core.ErrNotEnoughItems):
		reason = "nothing to swap"
	}
	o.g.say(fmt.Sprintf("%s: %s", boosterTitle(b), reason), platformcore.ColorYellow)
}

func (o *hudObserver) BoosterExpired(b core.BoosterType) {
	o.g.say(boosterTitle(b)+" ended", platformcore.ColorGray)
}

func boosterTitle(b core.BoosterType) string {
	switch b {
	case core.FreeTime:
		return "Free Time"
	case core.DoubleStar:
		return "Double Star"
	case core.AutoMerge:
		return "Auto Merge"
	case core.RandomSwap:
		return "Random Swap"
	default:
		return b.String()
	}
}
