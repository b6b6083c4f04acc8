package selection

import "sync"

// Change announces that the list stored under Key was rewritten. An empty Key
// means the origin of the change is unknown and every list should be reread.
type Change struct {
	Key string
}

// Bus fans change events out to every subscribed component. Subscribers are
// called synchronously, in subscription order, on the publishing goroutine.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Change)
	keys []int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Change))}
}

// Subscribe registers fn and returns the function that removes it again.
// Calling the returned function more than once is a no-op.
func (b *Bus) Subscribe(fn func(Change)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.keys = append(b.keys, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, k := range b.keys {
				if k == id {
					b.keys = append(b.keys[:i], b.keys[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers c to the current subscribers. Subscribers may subscribe or
// unsubscribe from inside their callback.
func (b *Bus) Publish(c Change) {
	b.mu.Lock()
	fns := make([]func(Change), 0, len(b.keys))
	for _, k := range b.keys {
		fns = append(fns, b.subs[k])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Len reports the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.keys)
}
