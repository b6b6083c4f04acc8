// Package key is the reference of the terminal UI's key bindings, printed by
// `shelf keys` and rendered in the help pane.
package key

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

type Binding struct {
	Section string
	Keys    []string
	Action  string
}

var bindings = []Binding{
	{"Navigation", []string{"1"}, "search"},
	{"Navigation", []string{"2"}, "cart"},
	{"Navigation", []string{"3"}, "bookmarks"},
	{"Navigation", []string{"4"}, "login"},
	{"Navigation", []string{"tab"}, "next view"},
	{"Navigation", []string{"?"}, "toggle this help"},
	{"Navigation", []string{"q", "ctrl+c"}, "quit"},
	{"Results", []string{"/"}, "open the search dialog, esc closes it"},
	{"Results", []string{"j", "k"}, "move the selection"},
	{"Results", []string{"enter"}, "show the selected item"},
	{"Results", []string{"a"}, "add the selected item to the cart"},
	{"Results", []string{"b"}, "bookmark the selected item (login required)"},
	{"Results", []string{"x"}, "remove the selected bookmark"},
	{"Session", []string{"enter"}, "log in with the typed name on the login view"},
	{"Session", []string{"ctrl+l"}, "log out"},
}

// Bindings returns the key bindings in display order.
func Bindings() []Binding {
	return append([]Binding(nil), bindings...)
}

// Markdown renders the bindings as a markdown document, one list per section.
func Markdown() string {
	var b strings.Builder
	b.WriteString("# shelf\n")
	section := ""
	for _, k := range bindings {
		if k.Section != section {
			section = k.Section
			fmt.Fprintf(&b, "\n## %s\n\n", section)
		}
		quoted := make([]string, len(k.Keys))
		for i, s := range k.Keys {
			quoted[i] = "`" + s + "`"
		}
		fmt.Fprintf(&b, "- %s %s\n", strings.Join(quoted, " / "), k.Action)
	}
	return b.String()
}

type Key struct {
	Out io.Writer
}

func (k *Key) Do(ctx context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	bold := color.New(color.Bold)
	title := color.New(color.Bold, color.Underline)

	section := ""
	var tbl *uitable.Table
	flush := func() {
		if tbl != nil {
			_, _ = fmt.Fprintln(out, tbl)
		}
	}
	for _, b := range bindings {
		if b.Section != section {
			flush()
			section = b.Section
			_, _ = title.Fprintln(out, "\n"+section)
			tbl = uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("Key"), bold.Sprint("Action"))
		}
		tbl.AddRow(strings.Join(b.Keys, ", "), b.Action)
	}
	flush()
	return nil
}
