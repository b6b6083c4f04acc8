// Package session signs the local user in and out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/shelf/pkg/app"
	"tableflip.dev/shelf/pkg/i18n"
)

// Session logs in as Name, logs out when Logout is set, or prints the
// current session when neither is given.
type Session struct {
	Service *app.Service
	Name    string
	Logout  bool
	Bundle  *i18n.Bundle
	JSON    bool
	Out     io.Writer
}

func (s *Session) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("can not change session, no service")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch {
	case s.Logout:
		if err := s.Service.Logout(); err != nil {
			return err
		}
		s.say("logout.done")
	case s.Name != "":
		if err := s.Service.Login(s.Name); err != nil {
			return err
		}
		s.say("login.welcome", s.Name)
	}

	cur := s.Service.Session.Current()
	if s.JSON {
		b, err := json.Marshal(cur)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(s.out(), string(b))
		return err
	}
	if !s.Logout && s.Name == "" {
		if cur.Authenticated {
			s.say("login.welcome", cur.Name())
		} else {
			s.say("bookmarks.login")
		}
	}
	return nil
}

func (s *Session) say(key string, args ...any) {
	if s.JSON {
		return
	}
	b := s.Bundle
	if b == nil {
		b = i18n.Default()
	}
	_, _ = color.New(color.Faint).Fprintln(s.out(), b.T(key, args...))
}

func (s *Session) out() io.Writer {
	if s.Out == nil {
		return color.Output
	}
	return s.Out
}
