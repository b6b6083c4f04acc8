package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestReadWriteErase(t *testing.T) {
	kv, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := kv.Read("cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := kv.Write("cart", []byte(`[]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := kv.Read("cart")
	if err != nil || string(got) != `[]` {
		t.Fatalf("unexpected read %q %v", got, err)
	}
	if !kv.Has("cart") {
		t.Fatalf("expected Has to report the key")
	}
	if err := kv.Erase("cart"); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if err := kv.Erase("cart"); err != nil {
		t.Fatalf("erasing a missing key should be a no-op: %v", err)
	}
	if kv.Has("cart") {
		t.Fatalf("expected key gone")
	}
}

func TestSurvivesReopen(t *testing.T) {
	base := t.TempDir()
	first, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := first.Write("session", []byte(`{"authenticated":true}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	second, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := second.Read("session")
	if err != nil || string(got) != `{"authenticated":true}` {
		t.Fatalf("unexpected value after reopen %q %v", got, err)
	}
}

func TestKeysSkipsTempFiles(t *testing.T) {
	base := t.TempDir()
	kv, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, k := range []string{"bookmarks", "cart"} {
		if err := kv.Write(k, []byte(`[]`)); err != nil {
			t.Fatalf("write %s: %v", k, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(base, tempDirName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, tempDirName, "partial"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	keys := kv.Keys(context.Background())
	if len(keys) != 2 || keys[0] != "bookmarks" || keys[1] != "cart" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestInvalidKeys(t *testing.T) {
	kv, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, k := range []string{"", ".tmp", "a/b"} {
		if err := kv.Write(k, nil); err == nil {
			t.Fatalf("expected error for key %q", k)
		}
	}
}

func TestWatchEmitsKeyChangesFromOtherHandles(t *testing.T) {
	base := t.TempDir()
	reader, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	writer, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load writer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := reader.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	if err := writer.Write("cart", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Key == "" || evt.Key == "cart" {
				return
			}
			t.Fatalf("unexpected key %q", evt.Key)
		case <-deadline:
			t.Fatal("timed out waiting for change event")
		}
	}
}
