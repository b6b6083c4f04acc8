package session

import (
	"errors"
	"testing"

	"tableflip.dev/shelf/pkg/store"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string { return t.path }

func newManager(t *testing.T) *Manager {
	t.Helper()
	kv, err := store.Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return &Manager{KV: kv}
}

func TestLoginLogoutRoundTrip(t *testing.T) {
	m := newManager(t)
	if m.IsAuthorized() {
		t.Fatalf("fresh store should be logged out")
	}
	if err := m.Login("  ada "); err != nil {
		t.Fatalf("login: %v", err)
	}
	cur := m.Current()
	if !cur.Authenticated || cur.Name() != "ada" {
		t.Fatalf("unexpected session %+v", cur)
	}
	raw, err := m.KV.Read(Key)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != `{"authenticated":true,"user":{"name":"ada"}}` {
		t.Fatalf("unexpected stored form %s", raw)
	}
	if err := m.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	raw, _ = m.KV.Read(Key)
	if string(raw) != `{"authenticated":false,"user":null}` {
		t.Fatalf("unexpected stored form %s", raw)
	}
	if m.IsAuthorized() {
		t.Fatalf("expected logged out")
	}
}

func TestLoginRequiresName(t *testing.T) {
	m := newManager(t)
	if err := m.Login(" "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestCorruptedSessionIsLoggedOut(t *testing.T) {
	m := newManager(t)
	for _, raw := range []string{`nope`, `{"authenticated":true,"user":null}`} {
		if err := m.KV.Write(Key, []byte(raw)); err != nil {
			t.Fatalf("write: %v", err)
		}
		if m.IsAuthorized() {
			t.Fatalf("%s should read as logged out", raw)
		}
	}
}
