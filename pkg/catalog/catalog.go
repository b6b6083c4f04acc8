// Package catalog loads the read-only item collection a session browses.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"tableflip.dev/shelf/pkg/item"
)

// State describes where a Store is in its single load.
type State int

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// FetchTimeout bounds a shared catalog fetch once it is detached from the
// caller that started it.
const FetchTimeout = 30 * time.Second

// Store holds the catalog for a session. After a successful Load the item
// slice never changes; callers must treat it as read-only.
type Store struct {
	src   Source
	group singleflight.Group

	mu    sync.RWMutex
	state State
	items []item.Item
	err   error
}

// NewStore returns an empty store that loads from src.
func NewStore(src Source) *Store {
	return &Store{src: src}
}

// Load fetches and parses the catalog once. Later calls return the cached
// slice without touching the source. Concurrent first calls share a single
// fetch that outlives any one caller's ctx; a caller whose ctx ends gets a
// *FetchError wrapping ctx.Err() while the fetch carries on for the others.
// On failure the store stays empty, the error is a *FetchError or
// *ParseError, and a later call retries.
func (s *Store) Load(ctx context.Context) ([]item.Item, error) {
	s.mu.RLock()
	if s.state == Ready {
		items := s.items
		s.mu.RUnlock()
		return items, nil
	}
	s.mu.RUnlock()

	ch := s.group.DoChan("load", func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FetchTimeout)
		defer cancel()
		return s.load(fctx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]item.Item), nil
	case <-ctx.Done():
		return nil, &FetchError{Source: s.source(), Err: ctx.Err()}
	}
}

func (s *Store) source() string {
	if s.src == nil {
		return "<none>"
	}
	return fmt.Sprintf("%T", s.src)
}

func (s *Store) load(ctx context.Context) ([]item.Item, error) {
	s.mu.Lock()
	if s.state == Ready {
		items := s.items
		s.mu.Unlock()
		return items, nil
	}
	s.state = Pending
	s.err = nil
	s.mu.Unlock()

	items, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = Failed
		s.items = nil
		s.err = err
		return nil, err
	}
	s.state = Ready
	s.items = items
	return items, nil
}

func (s *Store) fetch(ctx context.Context) ([]item.Item, error) {
	if s.src == nil {
		return nil, &FetchError{Source: s.source(), Err: errors.New("no catalog source configured")}
	}
	raw, err := s.src.Fetch(ctx)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &FetchError{Source: s.source(), Err: err}
	}
	return Parse(raw)
}

// Parse decodes a JSON item array and normalizes every item. Anything else, including null, an object,
// or two items sharing an id, is a *ParseError.
func Parse(raw []byte) ([]item.Item, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ParseError{Err: errors.New("payload is not a JSON array")}
	}
	var items []item.Item
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &ParseError{Err: err}
	}
	seen := make(map[int]struct{}, len(items))
	for i, it := range items {
		if _, dup := seen[it.ID]; dup {
			return nil, &ParseError{Err: fmt.Errorf("duplicate item id %d", it.ID)}
		}
		seen[it.ID] = struct{}{}
		items[i] = it.Normalize()
	}
	if items == nil {
		items = []item.Item{}
	}
	return items, nil
}

// State reports the load state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Items returns the loaded items, or nil while pending or after a failure.
func (s *Store) Items() []item.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// Err returns the last load failure.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Find looks an item up by id in the loaded catalog.
func (s *Store) Find(id int) (item.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return item.Item{}, false
}
