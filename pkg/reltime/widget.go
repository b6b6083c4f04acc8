package reltime

import (
	"sync"
	"time"
)

// DefaultInterval is how often a mounted widget redraws.
const DefaultInterval = time.Second

// State is the lifecycle state of a Widget.
type State int

const (
	Mounted State = iota
	Unmounted
)

func (s State) String() string {
	if s == Mounted {
		return "mounted"
	}
	return "unmounted"
}

// Widget is a relative-time label bound to a fixed instant. A widget is
// created mounted and owns one scheduled redraw task until Unmount.
type Widget struct {
	mu       sync.Mutex
	bound    time.Time
	clock    Clock
	sched    Scheduler
	phrases  Phrases
	interval time.Duration
	onDraw   func(string)

	state  State
	handle Handle
	label  string
	draws  int
}

// Option configures a Widget.
type Option func(*Widget)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(w *Widget) { w.clock = c }
}

// WithScheduler replaces the ticker-backed scheduler.
func WithScheduler(s Scheduler) Option {
	return func(w *Widget) { w.sched = s }
}

// WithPhrases sets the label locale.
func WithPhrases(p Phrases) Option {
	return func(w *Widget) { w.phrases = p }
}

// WithInterval overrides the redraw cadence.
func WithInterval(d time.Duration) Option {
	return func(w *Widget) {
		if d > 0 {
			w.interval = d
		}
	}
}

// OnDraw registers fn to be called with the new label after every redraw,
// including the first one during Mount. fn runs on the scheduler's goroutine.
func OnDraw(fn func(label string)) Option {
	return func(w *Widget) { w.onDraw = fn }
}

// Mount creates a widget bound to bound, draws it and schedules redraws. A
// zero bound binds the widget to the current instant.
func Mount(bound time.Time, opts ...Option) *Widget {
	w := &Widget{
		clock:    SystemClock,
		sched:    Tickers,
		interval: DefaultInterval,
		state:    Mounted,
	}
	for _, opt := range opts {
		opt(w)
	}
	if bound.IsZero() {
		bound = w.clock.Now()
	}
	w.bound = bound
	w.draw()

	h := w.sched.Every(w.interval, w.draw)
	w.mu.Lock()
	w.handle = h
	w.mu.Unlock()
	return w
}

func (w *Widget) draw() {
	w.mu.Lock()
	if w.state != Mounted {
		w.mu.Unlock()
		return
	}
	w.label = Label(w.clock.Now(), w.bound, w.phrases)
	w.draws++
	label, fn := w.label, w.onDraw
	w.mu.Unlock()

	if fn != nil {
		fn(label)
	}
}

// Unmount stops the redraw task. Only the first call has an effect.
func (w *Widget) Unmount() {
	w.mu.Lock()
	if w.state == Unmounted {
		w.mu.Unlock()
		return
	}
	w.state = Unmounted
	h := w.handle
	w.handle = nil
	w.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

// Label is the most recently drawn label.
func (w *Widget) Label() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.label
}

// Bound is the instant the widget measures from.
func (w *Widget) Bound() time.Time {
	return w.bound
}

// State reports whether the widget is still mounted.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draws counts redraws since Mount.
func (w *Widget) Draws() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draws
}
