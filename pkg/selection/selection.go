// Package selection keeps the user's cart and bookmarks: ordered lists of item
// copies persisted as one JSON array per key.
//
// Append and Remove read the stored array, change it, and write it back with a
// single atomic replace. Writers in one process are serialised. Writers in
// different processes are not: two processes appending at the same instant
// may lose one of the entries (last write wins).
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/store"
)

const (
	CartKey      = "cart"
	BookmarksKey = "bookmarks"
)

// Entry is a by-value copy of the catalog item that was selected. The same
// item may appear more than once.
type Entry = item.Item

// DecodeError reports a stored value that is not a JSON array of entries.
// Stores recover from it by treating the list as empty.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("selection: decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Store is one persisted list.
type Store struct {
	kv  store.KV
	key string
	bus *Bus
	log *zap.Logger

	mu sync.Mutex
}

type Option func(*Store)

// WithLogger routes decode warnings to log.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Open returns the list stored under key. A nil bus gets a private one.
func Open(kv store.KV, key string, bus *Bus, opts ...Option) *Store {
	if bus == nil {
		bus = NewBus()
	}
	s := &Store{kv: kv, key: key, bus: bus, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Cart is the append-only cart list.
func Cart(kv store.KV, bus *Bus, opts ...Option) *Store {
	return Open(kv, CartKey, bus, opts...)
}

func (s *Store) Key() string { return s.key }

// List returns the stored entries in append order. A missing or corrupted
// value lists as empty.
func (s *Store) List(ctx context.Context) []Entry {
	entries, err := s.read()
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			s.log.Warn("discarding corrupted selection", zap.String("key", s.key), zap.Error(err))
		} else {
			s.log.Warn("reading selection", zap.String("key", s.key), zap.Error(err))
		}
		return []Entry{}
	}
	return entries
}

// Len is the number of stored entries.
func (s *Store) Len(ctx context.Context) int {
	return len(s.List(ctx))
}

// Append adds a copy of it to the end of the list and notifies subscribers.
func (s *Store) Append(ctx context.Context, it item.Item) error {
	return s.update(ctx, func(entries []Entry) []Entry {
		return append(entries, it.Clone())
	})
}

// Subscribe calls fn whenever this list may have changed.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	return s.bus.Subscribe(func(c Change) {
		if c.Key == "" || c.Key == s.key {
			fn(c)
		}
	})
}

func (s *Store) update(ctx context.Context, fn func([]Entry) []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	entries, err := s.read()
	if err != nil {
		var de *DecodeError
		if !errors.As(err, &de) {
			s.mu.Unlock()
			return err
		}
		s.log.Warn("overwriting corrupted selection", zap.String("key", s.key), zap.Error(err))
		entries = []Entry{}
	}
	next := fn(entries)
	raw, err := json.Marshal(next)
	if err == nil {
		err = s.kv.Write(s.key, raw)
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("selection: write %s: %w", s.key, err)
	}
	s.bus.Publish(Change{Key: s.key})
	return nil
}

func (s *Store) read() ([]Entry, error) {
	raw, err := s.kv.Read(s.key)
	if errors.Is(err, store.ErrNotFound) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(s.key, raw)
}

// Decode parses a stored list. An empty value is an empty list.
func Decode(key string, raw []byte) ([]Entry, error) {
	entries := []Entry{}
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &DecodeError{Key: key, Err: err}
	}
	if entries == nil {
		// A stored "null".
		entries = []Entry{}
	}
	return entries, nil
}

// Bookmarks is a list that also supports removal.
type Bookmarks struct {
	*Store
}

func OpenBookmarks(kv store.KV, bus *Bus, opts ...Option) *Bookmarks {
	return &Bookmarks{Store: Open(kv, BookmarksKey, bus, opts...)}
}

// Remove drops every entry with the given id.
func (b *Bookmarks) Remove(ctx context.Context, id int) error {
	return b.update(ctx, func(entries []Entry) []Entry {
		kept := entries[:0]
		for _, e := range entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		return kept
	})
}

// Contains reports whether an entry with id is bookmarked.
func (b *Bookmarks) Contains(ctx context.Context, id int) bool {
	for _, e := range b.List(ctx) {
		if e.ID == id {
			return true
		}
	}
	return false
}
