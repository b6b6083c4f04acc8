package selection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tableflip.dev/shelf/pkg/catalog"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/store"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string { return t.path }

func openKV(t *testing.T, base string) store.KV {
	t.Helper()
	kv, err := store.Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return kv
}

func sampleItem(id int, title string) item.Item {
	return item.Item{
		ID:        id,
		Title:     title,
		Timestamp: item.At(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		Tags:      []string{"news"},
	}
}

func ids(entries []Entry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestEmptyListNeverFails(t *testing.T) {
	cart := Cart(openKV(t, t.TempDir()), nil)
	got := cart.List(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestAppendThenListEndsWithEntry(t *testing.T) {
	ctx := context.Background()
	cart := Cart(openKV(t, t.TempDir()), nil)
	for _, it := range []item.Item{sampleItem(1, "one"), sampleItem(2, "two"), sampleItem(1, "one")} {
		if err := cart.Append(ctx, it); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got := cart.List(ctx)
	if diff := cmp.Diff([]int{1, 2, 1}, ids(got)); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	last := got[len(got)-1]
	if last.Title != "one" || !last.Timestamp.Equal(sampleItem(1, "").Timestamp.Time) {
		t.Fatalf("last entry not a faithful copy: %+v", last)
	}
}

func TestAppendStoresACopy(t *testing.T) {
	ctx := context.Background()
	cart := Cart(openKV(t, t.TempDir()), nil)
	it := sampleItem(4, "original")
	if err := cart.Append(ctx, it); err != nil {
		t.Fatalf("append: %v", err)
	}
	it.Title = "mutated"
	it.Tags[0] = "mutated"
	got := cart.List(ctx)
	if got[0].Title != "original" || got[0].Tags[0] != "news" {
		t.Fatalf("entry aliased caller's item: %+v", got[0])
	}
}

func TestBookmarksRemoveDropsAllMatching(t *testing.T) {
	ctx := context.Background()
	marks := OpenBookmarks(openKV(t, t.TempDir()), nil)
	for _, id := range []int{3, 5, 3, 7} {
		if err := marks.Append(ctx, sampleItem(id, "x")); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := marks.Remove(ctx, 3); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]int{5, 7}, ids(marks.List(ctx))); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	if marks.Contains(ctx, 3) {
		t.Fatalf("expected 3 removed")
	}
	if err := marks.Remove(ctx, 42); err != nil {
		t.Fatalf("removing an absent id should succeed: %v", err)
	}
}

func TestCorruptedValueListsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := openKV(t, t.TempDir())
	if err := kv.Write(CartKey, []byte(`{not json`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	core, logs := observer.New(zapcore.WarnLevel)
	cart := Cart(kv, nil, WithLogger(zap.New(core)))

	if got := cart.List(ctx); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
	if logs.Len() == 0 {
		t.Fatalf("expected decode warning to be logged")
	}
	if err := cart.Append(ctx, sampleItem(9, "fresh")); err != nil {
		t.Fatalf("append over corrupted value: %v", err)
	}
	if diff := cmp.Diff([]int{9}, ids(cart.List(ctx))); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
}

func TestDecode(t *testing.T) {
	if got, err := Decode(CartKey, []byte("null")); err != nil || len(got) != 0 || got == nil {
		t.Fatalf("null should decode empty, got %v %v", got, err)
	}
	_, err := Decode(CartKey, []byte(`{"id":1}`))
	var de *DecodeError
	if !errors.As(err, &de) || de.Key != CartKey {
		t.Fatalf("expected DecodeError for %s, got %v", CartKey, err)
	}
}

func TestTwoReadersObserveAppend(t *testing.T) {
	ctx := context.Background()
	kv := openKV(t, t.TempDir())
	bus := NewBus()
	writer := Cart(kv, bus)
	readerA := Cart(kv, bus)
	readerB := Cart(kv, bus)

	seen := map[string][]int{}
	unsubA := readerA.Subscribe(func(Change) { seen["a"] = ids(readerA.List(ctx)) })
	unsubB := readerB.Subscribe(func(Change) { seen["b"] = ids(readerB.List(ctx)) })
	defer unsubA()
	defer unsubB()

	if err := writer.Append(ctx, sampleItem(11, "eleven")); err != nil {
		t.Fatalf("append: %v", err)
	}
	want := map[string][]int{"a": {11}, "b": {11}}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("readers out of sync (-want +got):\n%s", diff)
	}
}

func TestSubscribeFiltersByKey(t *testing.T) {
	ctx := context.Background()
	kv := openKV(t, t.TempDir())
	bus := NewBus()
	cart := Cart(kv, bus)
	marks := OpenBookmarks(kv, bus)

	var cartChanges int
	unsub := cart.Subscribe(func(Change) { cartChanges++ })
	if err := marks.Append(ctx, sampleItem(1, "x")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if cartChanges != 0 {
		t.Fatalf("cart notified of bookmark change")
	}
	bus.Publish(Change{})
	if cartChanges != 1 {
		t.Fatalf("expected untargeted change to reach cart, got %d", cartChanges)
	}
	unsub()
	unsub()
	if err := cart.Append(ctx, sampleItem(2, "y")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if cartChanges != 1 {
		t.Fatalf("unsubscribed callback still called")
	}
}

func TestSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	if err := Cart(openKV(t, base), nil).Append(ctx, sampleItem(6, "six")); err != nil {
		t.Fatalf("append: %v", err)
	}
	got := Cart(openKV(t, base), nil).List(ctx)
	if diff := cmp.Diff([]int{6}, ids(got)); diff != "" {
		t.Fatalf("unexpected ids after reopen (-want +got):\n%s", diff)
	}
}

func TestEntriesRoundTripVerbatim(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	in := sampleItem(4, "markup")
	in.Description = "use <br> for breaks &amp; more"
	in.Image = " https://example.com/a.jpg "
	writer := Cart(openKV(t, base), nil)
	if err := writer.Append(ctx, in); err != nil {
		t.Fatalf("append: %v", err)
	}
	for name, cart := range map[string]*Store{
		"same store":   writer,
		"reopened":     Cart(openKV(t, base), nil),
	} {
		got := cart.List(ctx)
		if len(got) != 1 {
			t.Fatalf("%s: expected one entry, got %d", name, len(got))
		}
		if diff := cmp.Diff(in, got[0]); diff != "" {
			t.Fatalf("%s: entry changed on the way through the store (-want +got):\n%s", name, diff)
		}
	}
}

func TestCatalogEntryListsBackUnchanged(t *testing.T) {
	ctx := context.Background()
	items, err := catalog.Parse([]byte(`[{"id":1,"title":"a","description":"use &lt;br&gt; for breaks"}]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cart := Cart(openKV(t, t.TempDir()), nil)
	if err := cart.Append(ctx, items[0]); err != nil {
		t.Fatalf("append: %v", err)
	}
	for i := 0; i < 3; i++ {
		got := cart.List(ctx)
		if len(got) != 1 || got[0].Description != "use <br> for breaks" {
			t.Fatalf("read %d: unexpected entries %+v", i, got)
		}
	}
}

func TestAppendHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cart := Cart(openKV(t, t.TempDir()), nil)
	if err := cart.Append(ctx, sampleItem(1, "x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if cart.Len(context.Background()) != 0 {
		t.Fatalf("cancelled append must not write")
	}
}

func TestFollowBridgesOtherProcesses(t *testing.T) {
	base := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	localBus := NewBus()
	changed := make(chan Change, 8)
	reader := Cart(openKV(t, base), localBus)
	reader.Subscribe(func(c Change) {
		select {
		case changed <- c:
		default:
		}
	})
	if err := Follow(ctx, openKV(t, base), localBus); err != nil {
		t.Fatalf("follow: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	// A writer with its own bus stands in for another process.
	other := Cart(openKV(t, base), NewBus())
	if err := other.Append(ctx, sampleItem(8, "eight")); err != nil {
		t.Fatalf("append: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cross-process change")
	}
	if diff := cmp.Diff([]int{8}, ids(reader.List(ctx))); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
}
