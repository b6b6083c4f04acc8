// Package selection lists and edits the cart and the bookmarks.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/shelf/pkg/app"
	"tableflip.dev/shelf/pkg/i18n"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/printers"
	"tableflip.dev/shelf/pkg/selection"
)

// Action is what a Selection run does to its list.
type Action int

const (
	List Action = iota
	Add
	Remove
)

// Selection runs Action against the list stored under Key.
type Selection struct {
	Service *app.Service
	Key     string
	Action  Action
	IDs     []int
	Bundle  *i18n.Bundle
	JSON    bool
	Out     io.Writer
}

func (s *Selection) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("can not edit selection, no service")
	}
	switch s.Action {
	case Add:
		return s.add(ctx)
	case Remove:
		return s.remove(ctx)
	default:
		return s.list(ctx)
	}
}

func (s *Selection) list(ctx context.Context) error {
	var entries []selection.Entry
	switch s.Key {
	case selection.CartKey:
		entries = s.Service.CartEntries(ctx)
	case selection.BookmarksKey:
		var err error
		if entries, err = s.Service.BookmarkEntries(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown selection %q", s.Key)
	}

	if s.JSON {
		b, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(s.out(), string(b))
		return err
	}

	pp := printers.PrettyPrint{Out: s.out(), Phrases: s.bundle(), Now: s.Service.Now}
	pp.NewLine()
	pp.TitleWithCount(s.title(), len(entries))
	pp.Items(entries...)
	return nil
}

func (s *Selection) add(ctx context.Context) error {
	for _, id := range s.IDs {
		var (
			it  item.Item
			err error
			msg string
		)
		switch s.Key {
		case selection.CartKey:
			it, err = s.Service.AddToCart(ctx, id)
			msg = "cart.added"
		case selection.BookmarksKey:
			it, err = s.Service.Bookmark(ctx, id)
			msg = "bookmarks.added"
		default:
			return fmt.Errorf("unknown selection %q", s.Key)
		}
		if err != nil {
			return err
		}
		s.status(msg, it.Title)
	}
	return nil
}

func (s *Selection) remove(ctx context.Context) error {
	if s.Key != selection.BookmarksKey {
		return errors.New(s.bundle().T("cart.removed"))
	}
	for _, id := range s.IDs {
		it, err := s.Service.Item(ctx, id)
		if err != nil {
			return err
		}
		if err := s.Service.Unbookmark(ctx, id); err != nil {
			return err
		}
		s.status("bookmarks.removed", it.Title)
	}
	return nil
}

func (s *Selection) status(key string, args ...any) {
	if s.JSON {
		return
	}
	_, _ = color.New(color.Faint).Fprintln(s.out(), s.bundle().T(key, args...))
}

func (s *Selection) title() string {
	if s.Key == selection.BookmarksKey {
		return s.bundle().T("bookmarks.title")
	}
	return s.bundle().T("cart.title")
}

func (s *Selection) bundle() *i18n.Bundle {
	if s.Bundle == nil {
		return i18n.Default()
	}
	return s.Bundle
}

func (s *Selection) out() io.Writer {
	if s.Out == nil {
		return color.Output
	}
	return s.Out
}
