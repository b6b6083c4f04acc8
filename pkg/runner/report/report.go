// Package report prints recently published items grouped by category.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/shelf/pkg/app"
	"tableflip.dev/shelf/pkg/i18n"
	"tableflip.dev/shelf/pkg/printers"
)

// DefaultWindow is used when Window is zero.
const DefaultWindow = 7 * 24 * time.Hour

type Report struct {
	Service *app.Service
	Window  time.Duration
	Bundle  *i18n.Bundle
	JSON    bool
	Out     io.Writer
}

func (r *Report) Do(ctx context.Context) error {
	if r.Service == nil {
		return errors.New("can not report, no service")
	}
	window := r.Window
	if window <= 0 {
		window = DefaultWindow
	}
	res, err := r.Service.Report(ctx, window)
	if err != nil {
		return err
	}

	out := r.Out
	if out == nil {
		out = color.Output
	}
	if r.JSON {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}

	phrases := r.Bundle
	if phrases == nil {
		phrases = i18n.Default()
	}
	pp := printers.PrettyPrint{Out: out, Phrases: phrases, Now: r.Service.Now}
	pp.NewLine()
	pp.Report(res)
	return nil
}
