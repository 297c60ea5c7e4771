package core

import "time"

// CountdownTimer counts a level's remaining time down on the session clock.
type CountdownTimer struct {
	total     time.Duration
	remaining time.Duration
	running   bool
	paused    bool
	expired   bool

	onTick func(remaining time.Duration)
	onEnd  func()
}

// NewCountdownTimer creates a stopped timer of length d.
func NewCountdownTimer(d time.Duration) *CountdownTimer {
	return &CountdownTimer{total: d, remaining: d}
}

// Reset stops the timer and sets a new length.
func (t *CountdownTimer) Reset(d time.Duration) {
	t.total = d
	t.remaining = d
	t.running = false
	t.paused = false
	t.expired = false
}

// Start begins counting down.
func (t *CountdownTimer) Start() {
	if t.expired {
		return
	}
	t.running = true
}

// Stop halts the timer without firing the end event.
func (t *CountdownTimer) Stop() {
	t.running = false
}

// Pause freezes the countdown.
func (t *CountdownTimer) Pause() {
	t.paused = true
}

// Resume continues a paused countdown.
func (t *CountdownTimer) Resume() {
	t.paused = false
}

// AddTime extends the remaining time.
func (t *CountdownTimer) AddTime(d time.Duration) {
	if t.expired || d <= 0 {
		return
	}
	t.remaining += d
}

// Advance consumes d of remaining time while running and not paused. The end
// callback fires once when the time runs out.
func (t *CountdownTimer) Advance(d time.Duration) {
	if !t.running || t.paused || t.expired || d <= 0 {
		return
	}
	t.remaining -= d
	if t.remaining <= 0 {
		t.remaining = 0
		t.expired = true
		t.running = false
		if t.onTick != nil {
			t.onTick(0)
		}
		if t.onEnd != nil {
			t.onEnd()
		}
		return
	}
	if t.onTick != nil {
		t.onTick(t.remaining)
	}
}

// Remaining returns the time left.
func (t *CountdownTimer) Remaining() time.Duration { return t.remaining }

// Total returns the configured length.
func (t *CountdownTimer) Total() time.Duration { return t.total }

// Running reports whether the timer has been started and not stopped.
func (t *CountdownTimer) Running() bool { return t.running }

// Paused reports whether the countdown is frozen.
func (t *CountdownTimer) Paused() bool { return t.paused }

// Expired reports whether the time ran out.
func (t *CountdownTimer) Expired() bool { return t.expired }
