package core

import "time"

// Observer receives session events. Embed NopObserver to implement only
// the methods you need.
type Observer interface {
	LevelLoaded(l *Level)
	CellFull(c *Cell)
	CellSorted(c *Cell)
	CellEmpty(c *Cell)
	CellUnlocked(c *Cell)
	MatchFound(c *Cell, t ItemType)
	MoveCompleted(count int)
	ScoreChanged(score int)
	GameWin()
	TimeUp()
	TimerTick(remaining time.Duration)
	BoosterUsed(b BoosterType)
	BoosterFailed(b BoosterType, err error)
	BoosterProgress(b BoosterType, remaining, total time.Duration)
	BoosterExpired(b BoosterType)
	BoosterCountChanged(b BoosterType, count int)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) LevelLoaded(*Level) {}
func (NopObserver) CellFull(*Cell) {}
func (NopObserver) CellSorted(*Cell) {}
func (NopObserver) CellEmpty(*Cell) {}
func (NopObserver) CellUnlocked(*Cell) {}
func (NopObserver) MatchFound(*Cell, ItemType) {}
func (NopObserver) MoveCompleted(int) {}
func (NopObserver) ScoreChanged(int) {}
func (NopObserver) GameWin() {}
func (NopObserver) TimeUp() {}
func (NopObserver) TimerTick(time.Duration) {}
func (NopObserver) BoosterUsed(BoosterType) {}
func (NopObserver) BoosterFailed(BoosterType, error) {}
func (NopObserver) BoosterProgress(BoosterType, time.Duration, time.Duration) {}
func (NopObserver) BoosterExpired(BoosterType) {}
func (NopObserver) BoosterCountChanged(BoosterType, int) {}

type hubSub struct {
	id int
	o  Observer
}

// Hub fans events out to subscribed observers in subscription order.
type Hub struct {
	subs []hubSub
	next int
}

// Subscribe registers an observer and returns its unsubscribe function.
func (h *Hub) Subscribe(o Observer) (unsubscribe func()) {
	id := h.next
	h.next++
	h.subs = append(h.subs, hubSub{id: id, o: o})
	return func() {
		for i, s := range h.subs {
			if s.id == id {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int { return len(h.subs) }

func (h *Hub) emit(fn func(Observer)) {
	if len(h.subs) == 0 {
		return
	}
	subs := append([]hubSub(nil), h.subs...)
	for _, s := range subs {
		fn(s.o)
	}
}
