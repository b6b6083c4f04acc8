package printers

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/shelf/pkg/app"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/reltime"
)

// PrettyPrint writes selection lists and reports as aligned tables.
type PrettyPrint struct {
	Out     io.Writer
	Phrases reltime.Phrases
	Now     func() time.Time
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now == nil {
		return time.Now()
	}
	return pp.Now()
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Items prints one row per item: id, title, category, and publish age.
func (pp *PrettyPrint) Items(items ...item.Item) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Faint)
	f := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	now := pp.now()
	for _, it := range items {
		tbl.AddRow(y.Sprint(strconv.Itoa(it.ID)), it.Title, f.Sprint(it.Category), f.Sprint(pp.age(now, it)))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func (pp *PrettyPrint) age(now time.Time, it item.Item) string {
	if it.Timestamp.IsZero() {
		return ""
	}
	return reltime.Label(now, it.Timestamp.Time, pp.Phrases)
}

// Report prints a report section by section.
func (pp *PrettyPrint) Report(res app.ReportResult) {
	pp.TitleWithCount("Published since "+res.Since.Format("2006-01-02"), res.Total)
	pp.NewLine()
	mark := color.New(color.FgGreen)
	for _, sec := range res.Sections {
		pp.Title(sec.Category)
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 60
		for _, ri := range sec.Items {
			flags := ""
			if ri.InCart {
				flags += "c"
			}
			if ri.Bookmarked {
				flags += "b"
			}
			tbl.AddRow(mark.Sprint(flags), strconv.Itoa(ri.Item.ID), ri.Item.Title)
		}
		tbl.RightAlign(1)
		_, _ = fmt.Fprintln(pp.out(), tbl)
		pp.NewLine()
	}
}
