// Package loop provides a simple frame loop.
package loop

import (
	"time"
)

// EventProcessor wraps the ProcessEvents method.
//
// ProcessEvents is called before each frame. Graphical applications should swap
// buffers at the end of their Frame method, not in ProcessEvents.
type EventProcessor interface {
	ProcessEvents() (quit bool)
}

// A Framer renders frames.
type Framer interface {
	EventProcessor
	Frame(now time.Time) error
}

// Simple provides a very simple frame loop.
type Simple struct {
	ticker *time.Ticker
	minFT  time.Duration
	timer  Timer
}

// MinFrameTime sets the minimum frame time.
//
// If the t value is greater than 0, the frame rate will be clamped
// to time.Second/t.
func (l *Simple) MinFrameTime(t time.Duration) {
	l.minFT = t
}

func (l *Simple) now() time.Time {
	if l.ticker != nil {
		return <-l.ticker.C
	}
	return time.Now()
}

func (l *Simple) stopTicker() {
	if l.ticker != nil {
		l.ticker.Stop()
		l.ticker = nil
	}
}

// Run calls a.Frame until a.ProcessEvents reports quit or a.Frame returns an
// error, which Run returns.
func (l *Simple) Run(a Framer) error {
	if l.minFT > 0 {
		l.ticker = time.NewTicker(l.minFT)
	}
	defer l.stopTicker()
	prev := time.Now()
	for !a.ProcessEvents() {
		now := l.now()
		l.timer.Add(now.Sub(prev))
		prev = now
		if err := a.Frame(now); err != nil {
			return err
		}
	}
	return nil
}

// FrameTime returns the average frame time over the last frames.
func (l *Simple) FrameTime() time.Duration {
	return l.timer.Average()
}

const samples = 32

// A Timer computes a moving average of durations.
type Timer struct {
	times [samples]time.Duration
	index int
	n     int
}

// Add adds a sample.
func (t *Timer) Add(dt time.Duration) {
	t.times[t.index] = dt
	t.index = (t.index + 1) & (samples - 1)
	if t.n < samples {
		t.n++
	}
}

// Average returns the average of the last samples added, or 0 if none.
func (t *Timer) Average() time.Duration {
	if t.n == 0 {
		return 0
	}
	var avg time.Duration
	for _, dt := range t.times[:t.n] {
		avg += dt
	}
	return avg / time.Duration(t.n)
}
