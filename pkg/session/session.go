// Package session keeps the local, password-less login state that gates the
// bookmarks view.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/shelf/pkg/store"
)

// Key is where the session is persisted.
const Key = "session"

// ErrEmptyName is returned by Login for a blank user name.
var ErrEmptyName = errors.New("session: user name required")

type User struct {
	Name string `json:"name"`
}

type Session struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user"`
}

// Name is the logged-in user's name, or "" when logged out.
func (s Session) Name() string {
	if !s.Authenticated || s.User == nil {
		return ""
	}
	return s.User.Name
}

// Manager reads and writes the session held in KV.
type Manager struct {
	KV  store.KV
	Log *zap.Logger
}

// Current returns the stored session. A missing or corrupted value is the
// logged-out session.
func (m *Manager) Current() Session {
	raw, err := m.KV.Read(Key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.logger().Warn("reading session", zap.Error(err))
		}
		return Session{}
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		m.logger().Warn("discarding corrupted session", zap.Error(err))
		return Session{}
	}
	if s.Authenticated && s.User == nil {
		return Session{}
	}
	return s
}

// IsAuthorized reports whether a user is logged in.
func (m *Manager) IsAuthorized() bool {
	return m.Current().Authenticated
}

func (m *Manager) Login(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return m.write(Session{Authenticated: true, User: &User{Name: name}})
}

func (m *Manager) Logout() error {
	return m.write(Session{})
}

func (m *Manager) write(s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := m.KV.Write(Key, raw); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

func (m *Manager) logger() *zap.Logger {
	if m.Log == nil {
		return zap.NewNop()
	}
	return m.Log
}
