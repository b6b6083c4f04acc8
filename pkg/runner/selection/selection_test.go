package selection

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/shelf/pkg/app"
	"tableflip.dev/shelf/pkg/catalog"
	"tableflip.dev/shelf/pkg/selection"
	"tableflip.dev/shelf/pkg/store"
)

type basePath string

func (b basePath) BasePath() string { return string(b) }

func newService(t *testing.T) *app.Service {
	t.Helper()
	kv, err := store.Load(basePath(t.TempDir()))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return app.New(kv, catalog.SourceFor(""), nil)
}

func TestCartAddAndList(t *testing.T) {
	color.NoColor = true
	svc := newService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	add := &Selection{Service: svc, Key: selection.CartKey, Action: Add, IDs: []int{3, 7}, Out: &buf}
	if err := add.Do(ctx); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := strings.Count(buf.String(), "Added to cart: "); got != 2 {
		t.Fatalf("expected 2 status lines, got %d:\n%s", got, buf.String())
	}

	buf.Reset()
	list := &Selection{Service: svc, Key: selection.CartKey, Out: &buf}
	if err := list.Do(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(buf.String(), "Cart - 2 entries") {
		t.Fatalf("unexpected listing:\n%s", buf.String())
	}
}

func TestCartRefusesRemove(t *testing.T) {
	s := &Selection{Service: newService(t), Key: selection.CartKey, Action: Remove, IDs: []int{3}, Out: &bytes.Buffer{}}
	if err := s.Do(context.Background()); err == nil {
		t.Fatal("expected cart removal to be refused")
	}
}

func TestBookmarksNeedSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	s := &Selection{Service: svc, Key: selection.BookmarksKey, Action: Add, IDs: []int{12}, Out: &bytes.Buffer{}}
	if err := s.Do(ctx); !errors.Is(err, app.ErrUnauthorized) {
		t.Fatalf("Do() = %v, want %v", err, app.ErrUnauthorized)
	}

	if err := svc.Login("ada"); err != nil {
		t.Fatal(err)
	}
	if err := s.Do(ctx); err != nil {
		t.Fatalf("Do() = %v", err)
	}
	rm := &Selection{Service: svc, Key: selection.BookmarksKey, Action: Remove, IDs: []int{12}, Out: &bytes.Buffer{}}
	if err := rm.Do(ctx); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n := svc.Bookmarks.Len(ctx); n != 0 {
		t.Fatalf("expected no bookmarks, got %d", n)
	}
}

func TestUnknownKey(t *testing.T) {
	s := &Selection{Service: newService(t), Key: "wishlist", Out: &bytes.Buffer{}}
	if err := s.Do(context.Background()); err == nil {
		t.Fatal("expected an unknown selection to fail")
	}
}
