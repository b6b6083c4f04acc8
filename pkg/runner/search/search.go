// Package search prints catalog items through a card template.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/shelf/pkg/app"
	"tableflip.dev/shelf/pkg/i18n"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/reltime"
	"tableflip.dev/shelf/pkg/render"
)

// Search prints the catalog items whose title contains Query. A zero Window
// keeps every item.
type Search struct {
	Service   *app.Service
	Templates *template.Template
	Name      string
	Href      string
	Bundle    *i18n.Bundle
	Widgets   []reltime.Option
	Query     string
	Window    time.Duration
	JSON      bool
	Out       io.Writer
}

func (s *Search) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("can not search, no service")
	}
	items, err := s.Service.Search(ctx, s.Query, s.Window)
	if err != nil {
		return err
	}
	if s.JSON {
		return writeJSON(s.out(), items)
	}
	if len(items) == 0 {
		_, _ = fmt.Fprintln(s.out(), s.bundle().T("search.empty"))
		return nil
	}
	if err := s.render(items); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out())
	_, _ = color.New(color.Faint).Fprintln(s.out(), s.bundle().T("search.results", len(items)))
	return nil
}

// Show prints the item with ID.
type Show struct {
	Search
	ID int
}

func (s *Show) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("can not show, no service")
	}
	it, err := s.Service.Item(ctx, s.ID)
	if err != nil {
		return err
	}
	if s.JSON {
		return writeJSON(s.out(), it)
	}
	return s.render([]item.Item{it})
}

func (s *Search) render(items []item.Item) error {
	tmpl, name := s.Templates, s.Name
	if tmpl == nil {
		tmpl = render.Default()
	}
	if name == "" {
		name = render.DefaultName
	}
	widgets := append([]reltime.Option{reltime.WithPhrases(s.bundle())}, s.Widgets...)
	r := render.New(tmpl, name, render.WithWidgetOptions(widgets...))
	defer r.Close()

	m := &render.WriterMount{W: s.out()}
	if err := r.Render(m, items, render.Binding{Href: s.Href}); err != nil {
		return err
	}
	if m.Err != nil {
		return m.Err
	}
	_, err := fmt.Fprintln(s.out())
	return err
}

func (s *Search) bundle() *i18n.Bundle {
	if s.Bundle == nil {
		return i18n.Default()
	}
	return s.Bundle
}

func (s *Search) out() io.Writer {
	if s.Out == nil {
		return color.Output
	}
	return s.Out
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
