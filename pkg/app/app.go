package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/shelf/pkg/catalog"
	"tableflip.dev/shelf/pkg/filter"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/selection"
	"tableflip.dev/shelf/pkg/session"
	"tableflip.dev/shelf/pkg/store"
)

// Service provides high-level operations over the catalog, the selection
// lists, and the session. It wraps persistence so UIs and CLIs can share logic.
type Service struct {
	Catalog   *catalog.Store
	Cart      *selection.Store
	Bookmarks *selection.Bookmarks
	Session   *session.Manager
	Bus       *selection.Bus
	KV        store.KV
	Log       *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

var (
	ErrUnauthorized = errors.New("app: login required")
	ErrNotFound     = errors.New("app: item not found")
)

// New wires a Service over kv, loading the catalog from src.
func New(kv store.KV, src catalog.Source, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	bus := selection.NewBus()
	return &Service{
		Catalog:   catalog.NewStore(src),
		Cart:      selection.Cart(kv, bus, selection.WithLogger(log)),
		Bookmarks: selection.OpenBookmarks(kv, bus, selection.WithLogger(log)),
		Session:   &session.Manager{KV: kv, Log: log},
		Bus:       bus,
		KV:        kv,
		Log:       log,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Load fetches the catalog if it has not been fetched yet.
func (s *Service) Load(ctx context.Context) ([]item.Item, error) {
	if s.Catalog == nil {
		return nil, errors.New("app: no catalog configured")
	}
	items, err := s.Catalog.Load(ctx)
	if err != nil {
		s.Log.Warn("catalog load failed", zap.Error(err))
		return nil, err
	}
	s.Log.Debug("catalog loaded", zap.Int("items", len(items)))
	return items, nil
}

// Search filters the catalog by title and, when window is non-zero, by age.
func (s *Service) Search(ctx context.Context, query string, window time.Duration) ([]item.Item, error) {
	items, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Filter(filter.Within(items, s.now(), window), query), nil
}

// Item returns the catalog item with id.
func (s *Service) Item(ctx context.Context, id int) (item.Item, error) {
	if _, err := s.Load(ctx); err != nil {
		return item.Item{}, err
	}
	it, ok := s.Catalog.Find(id)
	if !ok {
		return item.Item{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return it, nil
}

// AddToCart appends the catalog item with id to the cart.
func (s *Service) AddToCart(ctx context.Context, id int) (item.Item, error) {
	it, err := s.Item(ctx, id)
	if err != nil {
		return item.Item{}, err
	}
	if err := s.Cart.Append(ctx, it); err != nil {
		return item.Item{}, err
	}
	s.Log.Info("added to cart", zap.Int("id", id))
	return it, nil
}

// CartEntries lists the cart.
func (s *Service) CartEntries(ctx context.Context) []selection.Entry {
	return s.Cart.List(ctx)
}

// Bookmark appends the catalog item with id to the bookmarks. It requires a
// logged-in session.
func (s *Service) Bookmark(ctx context.Context, id int) (item.Item, error) {
	if !s.Session.IsAuthorized() {
		return item.Item{}, ErrUnauthorized
	}
	it, err := s.Item(ctx, id)
	if err != nil {
		return item.Item{}, err
	}
	if err := s.Bookmarks.Append(ctx, it); err != nil {
		return item.Item{}, err
	}
	s.Log.Info("bookmarked", zap.Int("id", id))
	return it, nil
}

// Unbookmark removes every bookmark with id.
func (s *Service) Unbookmark(ctx context.Context, id int) error {
	if !s.Session.IsAuthorized() {
		return ErrUnauthorized
	}
	if err := s.Bookmarks.Remove(ctx, id); err != nil {
		return err
	}
	s.Log.Info("removed bookmark", zap.Int("id", id))
	return nil
}

// BookmarkEntries lists the bookmarks of a logged-in session.
func (s *Service) BookmarkEntries(ctx context.Context) ([]selection.Entry, error) {
	if !s.Session.IsAuthorized() {
		return nil, ErrUnauthorized
	}
	return s.Bookmarks.List(ctx), nil
}

func (s *Service) Login(name string) error {
	if err := s.Session.Login(name); err != nil {
		return err
	}
	s.Bus.Publish(selection.Change{Key: session.Key})
	return nil
}

func (s *Service) Logout() error {
	if err := s.Session.Logout(); err != nil {
		return err
	}
	s.Bus.Publish(selection.Change{Key: session.Key})
	return nil
}

// Follow forwards on-disk changes made by other processes to the bus.
func (s *Service) Follow(ctx context.Context) error {
	if s.KV == nil {
		return errors.New("app: no persistence configured")
	}
	return selection.Follow(ctx, s.KV, s.Bus)
}
