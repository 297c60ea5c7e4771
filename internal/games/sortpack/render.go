package sortpack

import (
	"fmt"
	"strings"
	"time"

	platformcore "github.com/vovakirdan/sortpack/internal/core"
	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

const (
	slotWidth  = 3 // " ap"
	cellHeight = 4 // border, items, layers, border
	cellGap    = 1
	hudHeight  = 4
	footHeight = 2
	minWidth   = 44
)

// cellWidth returns the on-screen width of one cell box.
func cellWidth(slots int) int {
	return slots*slotWidth + 3
}

// boardShape returns rows, columns and slots of the current board, or the
// random board defaults before anything is loaded.
func (g *Game) boardShape() (rows, cols, slots int) {
	if g.sess != nil && g.sess.Board() != nil {
		b := g.sess.Board()
		return b.Rows(), b.Cols(), b.SlotsPerCell()
	}
	p := core.DefaultGenParams()
	return p.Rows, p.Cols, p.SlotsPerCell
}

// layoutSize returns the minimum screen size for the current board.
func (g *Game) layoutSize() (w, h int) {
	rows, cols, slots := g.boardShape()
	w = max(cols*cellWidth(slots)+(cols-1)*cellGap, minWidth)
	h = hudHeight + rows*cellHeight + footHeight
	return w, h
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	if g.sess == nil {
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	rows, cols, slots := g.boardShape()
	boardW := cols*cellWidth(slots) + (cols-1)*cellGap
	boardH := rows * cellHeight
	layoutW, _ := g.layoutSize()
	left := (g.screenW - layoutW) / 2
	boardX := left + (layoutW-boardW)/2
	boardY := hudHeight

	g.renderHUD(dst, left, layoutW)
	g.renderBoard(dst, boardX, boardY, slots)
	g.renderFooter(dst, left, boardY+boardH)
	g.renderOverlays(dst, left+layoutW/2, boardY+boardH/2)
}

func (g *Game) renderTooSmall(dst *platformcore.Screen) {
	w, h := g.layoutSize()
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", platformcore.ColorYellow)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d, have %dx%d", w, h, g.screenW, g.screenH), platformcore.ColorGray)
}

// renderHUD draws title, level, score, timer and boosters.
func (g *Game) renderHUD(dst *platformcore.Screen, x, w int) {
	dst.DrawTextWithColor(x, 0, "S O R T P A C K", platformcore.ColorBrightCyan)
	if lvl := g.sess.Level(); lvl != nil {
		name := lvl.Name
		if g.mode == ModeCampaign {
			name = fmt.Sprintf("Level %d: %s", lvl.Number, lvl.Name)
		}
		drawRight(dst, x+w, 0, name, platformcore.ColorWhite)
	}

	stats := fmt.Sprintf("Score %d  Moves %d  Queue %d", g.sess.Score(), g.sess.MoveCount(), g.sess.Queue().Len())
	dst.DrawText(x, 1, stats)
	g.renderTimer(dst, x+w, 1)

	bx := x
	for i, b := range core.AllBoosters() {
		label, color := g.boosterLabel(i+1, b)
		dst.DrawTextWithColor(bx, 2, label, color)
		bx += len([]rune(label)) + 2
	}
}

func (g *Game) renderTimer(dst *platformcore.Screen, right, y int) {
	t := g.sess.Timer()
	if !t.Running() && !t.Expired() {
		drawRight(dst, right, y, "no timer", platformcore.ColorGray)
		return
	}
	text := "Time " + clock(t.Remaining())
	color := platformcore.ColorWhite
	switch {
	case g.sess.Boosters().Active(core.FreeTime):
		text += " (frozen)"
		color = platformcore.ColorBrightCyan
	case t.Remaining() <= 15*time.Second:
		color = platformcore.ColorBrightRed
	}
	drawRight(dst, right, y, text, color)
}

func (g *Game) boosterLabel(key int, b core.BoosterType) (string, platformcore.Color) {
	bc := g.sess.Boosters()
	label := fmt.Sprintf("%d %s x%d", key, boosterShort(b), bc.Count(b))
	if bc.Active(b) {
		return fmt.Sprintf("%s %.1fs", label, bc.Remaining(b).Seconds()), platformcore.ColorBrightMagenta
	}
	if bc.Count(b) == 0 {
		return label, platformcore.ColorGray
	}
	return label, platformcore.ColorWhite
}

func boosterShort(b core.BoosterType) string {
	switch b {
	case core.FreeTime:
		return "Time"
	case core.DoubleStar:
		return "Star"
	case core.AutoMerge:
		return "Merge"
	case core.RandomSwap:
		return "Swap"
	default:
		return b.String()
	}
}

// renderBoard draws every grid position, live or removed.
func (g *Game) renderBoard(dst *platformcore.Screen, boardX, boardY, slots int) {
	b := g.sess.Board()
	if b == nil {
		return
	}
	cw := cellWidth(slots)
	tp, _ := g.sess.Presenter().(*core.TimedPresenter)

	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < b.Cols(); col++ {
			pos := core.P(row, col)
			r := platformcore.NewRect(boardX+col*(cw+cellGap), boardY+row*cellHeight, cw, cellHeight)
			var effect *core.Effect
			if tp != nil {
				if e, ok := tp.EffectAt(pos); ok {
					effect = &e
				}
			}
			g.renderCell(dst, r, b.Cell(pos), pos == g.cursor, effect)
		}
	}
}

func (g *Game) renderCell(dst *platformcore.Screen, r platformcore.Rect, c *core.Cell, cursor bool, effect *core.Effect) {
	if c == nil {
		// removed cell
		mid := r.Y + r.H/2
		dst.DrawTextWithColor(r.X+r.W/2-1, mid, "· ·", platformcore.ColorGray)
		if cursor {
			dst.DrawBox(r, platformcore.ColorGray)
		}
		return
	}

	locked := false
	if lock, ok := c.Gate().(*core.LockGate); ok {
		locked = lock.Locked()
	}

	border := platformcore.ColorWhite
	switch {
	case cursor:
		border = platformcore.ColorBrightCyan
	case effect != nil && effect.Kind == core.EffectReplace:
		border = platformcore.ColorMagenta
	case effect != nil && effect.Kind == core.EffectRemove:
		border = platformcore.ColorGray
	case locked:
		border = platformcore.ColorYellow
	}
	dst.DrawBox(r, border)

	itemsY := r.Y + 1
	if effect != nil && effect.Kind == core.EffectClear {
		sparkle := strings.Repeat("✦ ", max(0, (r.W-3)/2))
		dst.DrawTextWithColor(r.X+2, itemsY, sparkle, platformcore.ColorBrightYellow)
	} else {
		for slot := 0; slot < c.Capacity(); slot++ {
			x := r.X + 2 + slot*slotWidth
			it := c.ItemAt(slot)
			if it == nil {
				dst.DrawTextWithColor(x, itemsY, "··", platformcore.ColorGray)
				continue
			}
			color := platformcore.PaletteColor(int(it.ID))
			if it == g.held {
				dst.SetWithColor(x-1, itemsY, '›', platformcore.ColorBrightWhite)
				color = platformcore.ColorBrightWhite
			}
			dst.DrawTextWithColor(x, itemsY, glyph(it.Type), color)
		}
	}

	infoY := r.Y + 2
	// spent layers stay visible as hollow marks
	room := max(0, r.W-8)
	left := platformcore.Clamp(c.RemainingLayers(), 0, room)
	spent := platformcore.Clamp(c.MaxLayers()-c.RemainingLayers(), 0, room-left)
	layers := strings.Repeat("▪", left) + strings.Repeat("▫", spent)
	dst.DrawTextWithColor(r.X+2, infoY, layers, platformcore.ColorGray)
	switch {
	case locked:
		drawRight(dst, r.Right()-2, infoY, "LOCK", platformcore.ColorYellow)
	case c.IsFullAndSorted():
		drawRight(dst, r.Right()-2, infoY, "✓", platformcore.ColorBrightGreen)
	}
}

// glyph abbreviates an item type to two characters.
func glyph(t core.ItemType) string {
	r := []rune(string(t))
	switch len(r) {
	case 0:
		return "??"
	case 1:
		return string(r) + " "
	default:
		return string(r[:2])
	}
}

func (g *Game) renderFooter(dst *platformcore.Screen, x, y int) {
	if g.message != "" {
		dst.DrawTextWithColor(x, y, g.message, g.messageColor)
	}
	dst.DrawTextWithColor(x, y+1, g.Controls(), platformcore.ColorGray)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *platformcore.Screen, centerX, centerY int) {
	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, platformcore.ColorBrightCyan, "PAUSED", "Press P to resume")
	case g.sess.Won():
		next := "N: next level  R: replay"
		if g.mode == ModeRandom {
			next = "N: new board"
		}
		drawOverlay(dst, centerX, centerY, platformcore.ColorBrightGreen,
			"BOARD CLEARED", fmt.Sprintf("Score %d in %d moves", g.sess.Score(), g.sess.MoveCount()), next)
	case g.sess.Lost():
		drawOverlay(dst, centerX, centerY, platformcore.ColorBrightRed,
			"TIME UP", fmt.Sprintf("Score %d", g.sess.Score()), "R: retry  Esc: menu")
	}
}

// drawOverlay draws a centered boxed message.
func drawOverlay(dst *platformcore.Screen, centerX, centerY int, color platformcore.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	box := platformcore.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, color)
	for i, line := range lines {
		dst.DrawTextWithColor(centerX-len([]rune(line))/2, box.Y+1+i, line, color)
	}
}

// drawRight draws text ending just before column right.
func drawRight(dst *platformcore.Screen, right, y int, text string, color platformcore.Color) {
	dst.DrawTextWithColor(right-len([]rune(text)), y, text, color)
}

// clock formats a duration as m:ss, rounding up to whole seconds.
func clock(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows move  Space pick/drop  U unlock  1-4 boost  P pause  R restart"
}
