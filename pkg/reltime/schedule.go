package reltime

import (
	"sort"
	"sync"
	"time"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// Handle cancels a scheduled task. Cancel may be called any number of times.
type Handle interface {
	Cancel()
}

// Scheduler runs fn every d until the returned handle is cancelled.
type Scheduler interface {
	Every(d time.Duration, fn func()) Handle
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

type tickerScheduler struct{}

// Tickers schedules tasks on their own time.Ticker goroutine.
var Tickers Scheduler = tickerScheduler{}

func (tickerScheduler) Every(d time.Duration, fn func()) Handle {
	h := &tickerHandle{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-h.ticker.C:
				fn()
			case <-h.done:
				return
			}
		}
	}()
	return h
}

type tickerHandle struct {
	once   sync.Once
	ticker *time.Ticker
	done   chan struct{}
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
}

// Manual is a Clock and Scheduler driven by Advance. Tasks fire
// synchronously inside Advance, in due order.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	m         *Manual
	seq       int
	every     time.Duration
	next      time.Time
	fn        func()
	cancelled bool
}

// NewManual returns a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Every(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{m: m, seq: m.seq, every: d, next: m.now.Add(d), fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Active returns the number of tasks that have not been cancelled.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every task that comes due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		due := m.dueLocked(target)
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next = due.next.Add(due.every)
		fn := due.fn
		m.mu.Unlock()
		fn()
	}
}

func (m *Manual) dueLocked(target time.Time) *manualTask {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.tasks = live
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].next.Equal(live[j].next) {
			return live[i].seq < live[j].seq
		}
		return live[i].next.Before(live[j].next)
	})
	if len(live) == 0 || live[0].next.After(target) {
		return nil
	}
	return live[0]
}

func (t *manualTask) Cancel() {
	t.m.mu.Lock()
	t.cancelled = true
	t.m.mu.Unlock()
}
