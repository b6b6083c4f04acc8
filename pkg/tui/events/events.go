// Package events turns callbacks fired outside the Bubble Tea loop (widget
// redraws, selection changes) into messages the loop can consume.
package events

import (
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/shelf/pkg/item"
)

// CatalogLoadedMsg carries the result of the catalog fetch.
type CatalogLoadedMsg struct {
	Items []item.Item
	Err   error
}

// RedrawMsg asks the UI to repaint because a relative-time label changed.
type RedrawMsg struct{}

// ChangeMsg reports that the persisted value under Key changed.
type ChangeMsg struct {
	Key string
}

// StatusMsg replaces the footer status line.
type StatusMsg struct {
	Text string
	Err  bool
}

// Bridge buffers events raised on other goroutines. Redraws are coalesced:
// any number of pending redraws become one RedrawMsg. Changes are coalesced
// per key and delivered in the order the keys first changed.
type Bridge struct {
	redraw chan struct{}
	signal chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	pending []string
}

func NewBridge() *Bridge {
	return &Bridge{
		redraw: make(chan struct{}, 1),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Redraw schedules a RedrawMsg. It never blocks.
func (b *Bridge) Redraw() {
	select {
	case b.redraw <- struct{}{}:
	default:
	}
}

// Change schedules a ChangeMsg for key unless one is already pending. It
// never blocks.
func (b *Bridge) Change(key string) {
	b.mu.Lock()
	if !slices.Contains(b.pending, key) {
		b.pending = append(b.pending, key)
	}
	b.mu.Unlock()
	b.notify()
}

func (b *Bridge) notify() {
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

func (b *Bridge) next() (ChangeMsg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return ChangeMsg{}, false
	}
	key := b.pending[0]
	b.pending = b.pending[1:]
	if len(b.pending) > 0 {
		b.notify()
	}
	return ChangeMsg{Key: key}, true
}

// Wait returns a command that blocks until the next event. The UI issues it
// again after handling each event.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case <-b.signal:
				if c, ok := b.next(); ok {
					return c
				}
			case <-b.redraw:
				return RedrawMsg{}
			case <-b.done:
				return nil
			}
		}
	}
}

// Close releases a pending Wait.
func (b *Bridge) Close() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}
