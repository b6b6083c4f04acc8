package reltime

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestWidgetRedrawsEverySecond(t *testing.T) {
	start := time.Date(2024, 10, 17, 12, 0, 0, 0, time.UTC)
	m := NewManual(start)
	var labels []string
	w := Mount(start.Add(-58*time.Second),
		WithClock(m), WithScheduler(m),
		OnDraw(func(l string) { labels = append(labels, l) }))
	defer w.Unmount()

	if w.Label() != "58 seconds ago" {
		t.Fatalf("unexpected initial label %q", w.Label())
	}
	m.Advance(3 * time.Second)
	if w.Draws() != 4 {
		t.Fatalf("expected 4 draws, got %d", w.Draws())
	}
	if w.Label() != "1 minute ago" {
		t.Fatalf("unexpected label after advance %q", w.Label())
	}
	if len(labels) != 4 || labels[1] != "59 seconds ago" {
		t.Fatalf("unexpected draw sequence %v", labels)
	}
}

func TestWidgetHourScenario(t *testing.T) {
	now := time.Now()
	m := NewManual(now)
	w := Mount(now.Add(-3661000*time.Millisecond), WithClock(m), WithScheduler(m))
	defer w.Unmount()
	if w.Label() != "1 hour ago" {
		t.Fatalf("expected hours bucket, got %q", w.Label())
	}
}

func TestWidgetUnmountStopsRedraws(t *testing.T) {
	now := time.Now()
	m := NewManual(now)
	w := Mount(now, WithClock(m), WithScheduler(m))
	m.Advance(2 * time.Second)
	before := w.Draws()

	w.Unmount()
	w.Unmount()

	m.Advance(10 * time.Second)
	if w.Draws() != before {
		t.Fatalf("expected no redraw after unmount, got %d -> %d", before, w.Draws())
	}
	if w.State() != Unmounted {
		t.Fatalf("expected unmounted, got %s", w.State())
	}
	if m.Active() != 0 {
		t.Fatalf("expected timer released, %d still active", m.Active())
	}
}

func TestWidgetZeroBoundIsNow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManual(now)
	w := Mount(time.Time{}, WithClock(m), WithScheduler(m))
	defer w.Unmount()
	if !w.Bound().Equal(now) {
		t.Fatalf("expected bound %v, got %v", now, w.Bound())
	}
	if w.Label() != "1 second ago" {
		t.Fatalf("unexpected label %q", w.Label())
	}
}

func TestWidgetTickerReleasesGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex
	draws := 0
	w := Mount(time.Now(), WithInterval(5*time.Millisecond), OnDraw(func(string) {
		mu.Lock()
		draws++
		mu.Unlock()
	}))
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := draws
		mu.Unlock()
		if n >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("widget did not redraw, draws=%d", n)
		}
		time.Sleep(time.Millisecond)
	}
	w.Unmount()
	w.Unmount()
}
