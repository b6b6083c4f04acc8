// Package ui starts the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/shelf/pkg/runner/search"
	tuiapp "tableflip.dev/shelf/pkg/tui/app"
)

type UI struct {
	Options tuiapp.Options
	// Fallback runs instead of the terminal UI when stdout is not a terminal.
	Fallback *search.Search
	// Interactive overrides terminal detection when set.
	Interactive *bool
}

func (u *UI) Do(ctx context.Context) error {
	if u.Options.Service == nil {
		return errors.New("can not start ui, no service")
	}
	if !u.interactive() {
		if u.Fallback == nil {
			return errors.New("ui requires a terminal")
		}
		return u.Fallback.Do(ctx)
	}
	return tuiapp.Run(ctx, u.Options)
}

func (u *UI) interactive() bool {
	if u.Interactive != nil {
		return *u.Interactive
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
