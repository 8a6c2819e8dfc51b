package main

import "time"

// BellDuration is how long the margin bell stays lit.
const BellDuration = 500 * time.Millisecond

// Bell is the transient margin alert. Ringing is a deadline check against
// the clock, so reading it never races with the timer. The timer only
// exists to tell the host that a repaint is due; ringing again while lit
// pushes the deadline out instead of stacking another timer.
type Bell struct {
	duration time.Duration
	now      func() time.Time
	until    time.Time
	timer    *time.Timer
	expired  func()
}

// NewBell returns a bell lit for d after each Ring. expired, if non-nil, is
// called on the timer goroutine when the bell goes dark; it must only hand
// work back to the event loop.
func NewBell(d time.Duration, now func() time.Time, expired func()) *Bell {
	if now == nil {
		now = time.Now
	}
	return &Bell{duration: d, now: now, expired: expired}
}

func (b *Bell) Ring() {
	b.until = b.now().Add(b.duration)
	if b.expired == nil {
		return
	}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.duration, b.expired)
		return
	}
	b.timer.Reset(b.duration)
}

func (b *Bell) Ringing() bool {
	return b.now().Before(b.until)
}

// Silence turns the bell off and stops any pending timer.
func (b *Bell) Silence() {
	b.until = time.Time{}
	if b.timer != nil {
		b.timer.Stop()
	}
}
