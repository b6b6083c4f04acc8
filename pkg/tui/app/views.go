package app

import (
	"strings"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/mount"
	"tableflip.dev/shelf/pkg/render"
)

// Route names.
const (
	RouteSearch    = "search"
	RouteCart      = "cart"
	RouteBookmarks = "bookmarks"
	RouteLogin     = "login"
)

var routeOrder = []string{RouteSearch, RouteCart, RouteBookmarks, RouteLogin}

// listView is a mounted results pane: a renderer drawing into a buffer, the
// items it was fed, and the highlighted row.
type listView struct {
	route    string
	key      string
	ctrl     *mount.Controller
	renderer *render.Renderer
	buf      *render.Buffer
	source   func() []item.Item
	binding  render.Binding
	cursor   int
}

// refresh re-reads the source and re-renders every fragment.
func (v *listView) refresh() error {
	if err := v.renderer.Render(v.buf, v.source(), v.binding); err != nil {
		return err
	}
	v.clamp()
	return nil
}

func (v *listView) clamp() {
	n := v.buf.Len()
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *listView) move(delta int) {
	v.cursor += delta
	v.clamp()
}

func (v *listView) selected() (item.Item, bool) {
	frags := v.buf.Fragments()
	if len(frags) == 0 || v.cursor >= len(frags) {
		return item.Item{}, false
	}
	return frags[v.cursor].Item, true
}

// lines renders the fragments, styling the highlighted one with sel.
func (v *listView) lines(row, sel func(...string) string) []string {
	frags := v.buf.Fragments()
	out := make([]string, 0, len(frags))
	for i, f := range frags {
		s := strings.TrimRight(f.String(), "\n")
		if i == v.cursor {
			out = append(out, sel(s))
			continue
		}
		out = append(out, row(s))
	}
	return out
}
