// Package render instantiates card templates for a sequence of items and
// mounts the fragments on a Mount.
package render

import (
	"strconv"
	"strings"
	"sync"
	"text/template"
	"text/template/parse"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/reltime"
)

// Slots every card template must reference.
var Slots = []string{"Image", "Title", "Description", "Time", "Href"}

// DefaultHref is the link pattern used when a Binding leaves Href empty.
const DefaultHref = "/items/{id}"

// Binding parameterises a render. Href is the navigational target of each
// card; "{id}" is replaced by the item id.
type Binding struct {
	Href string
}

func (b Binding) resolve(id int) string {
	href := b.Href
	if href == "" {
		href = DefaultHref
	}
	return strings.ReplaceAll(href, "{id}", strconv.Itoa(id))
}

// Renderer owns the fragments of its most recent Render. Each Render tears
// the previous fragments down, unmounting their time widgets, and rebuilds
// the mount from scratch.
type Renderer struct {
	tmpl    *template.Template
	name    string
	widgets []reltime.Option

	mu   sync.Mutex
	live []*reltime.Widget
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidgetOptions applies opts to every time widget the renderer mounts.
func WithWidgetOptions(opts ...reltime.Option) Option {
	return func(r *Renderer) { r.widgets = append(r.widgets, opts...) }
}

// New returns a renderer that instantiates the template called name from
// tmpl.
func New(tmpl *template.Template, name string, opts ...Option) *Renderer {
	r := &Renderer{tmpl: tmpl, name: name}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check verifies the template exists and references every slot.
func (r *Renderer) Check() error {
	_, err := r.lookup()
	return err
}

func (r *Renderer) lookup() (*template.Template, error) {
	if r.tmpl == nil {
		return nil, &TemplateMissingError{Name: r.name}
	}
	t := r.tmpl.Lookup(r.name)
	if t == nil || t.Tree == nil {
		return nil, &TemplateMissingError{Name: r.name}
	}
	fields := make(map[string]bool)
	collectFields(r.tmpl, t.Tree.Root, scope{dot: true, dollar: true}, fields, map[string]bool{r.name: true})
	for _, slot := range Slots {
		if !fields[slot] {
			return nil, &TemplateMissingError{Name: r.name, Slot: slot}
		}
	}
	return t, nil
}

// Render replaces the content of m with one fragment per item, in order. A
// missing or incomplete template is reported before m is touched.
func (r *Renderer) Render(m Mount, items []item.Item, b Binding) error {
	t, err := r.lookup()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
	m.Reset()
	for _, it := range items {
		w := reltime.Mount(it.Timestamp.Time, r.widgets...)
		r.live = append(r.live, w)
		m.Append(&Fragment{
			Item: it.Clone(),
			Href: b.resolve(it.ID),
			tmpl: t,
			time: w,
		})
	}
	return nil
}

// Live is the number of mounted fragments from the last Render.
func (r *Renderer) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Close unmounts the fragments of the last Render.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
}

func (r *Renderer) releaseLocked() {
	for _, w := range r.live {
		w.Unmount()
	}
	r.live = nil
}

// scope tells whether dot and $ currently hold the fragment.
type scope struct {
	dot, dollar bool
}

// collectFields records the fragment field names (".Title", "$.Title")
// referenced by node, following {{template}} calls into the same set. Fields
// read while dot has been rebound by with or range do not count.
func collectFields(set *template.Template, node parse.Node, sc scope, out map[string]bool, seen map[string]bool) {
	switch n := node.(type) {
	case nil:
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			collectFields(set, c, sc, out, seen)
		}
	case *parse.ActionNode:
		collectFields(set, n.Pipe, sc, out, seen)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, c := range n.Cmds {
			collectFields(set, c, sc, out, seen)
		}
	case *parse.CommandNode:
		for _, a := range n.Args {
			collectFields(set, a, sc, out, seen)
		}
	case *parse.FieldNode:
		if sc.dot && len(n.Ident) > 0 {
			out[n.Ident[0]] = true
		}
	case *parse.VariableNode:
		if sc.dollar && len(n.Ident) > 1 && n.Ident[0] == "$" {
			out[n.Ident[1]] = true
		}
	case *parse.ChainNode:
		collectFields(set, n.Node, sc, out, seen)
	case *parse.IfNode:
		collectBranch(set, &n.BranchNode, sc, sc, out, seen)
	case *parse.RangeNode:
		collectBranch(set, &n.BranchNode, sc, scope{dollar: sc.dollar}, out, seen)
	case *parse.WithNode:
		collectBranch(set, &n.BranchNode, sc, scope{dollar: sc.dollar}, out, seen)
	case *parse.TemplateNode:
		collectFields(set, n.Pipe, sc, out, seen)
		if !passesFragment(n.Pipe, sc) || seen[n.Name] {
			return
		}
		seen[n.Name] = true
		if t := set.Lookup(n.Name); t != nil && t.Tree != nil {
			collectFields(set, t.Tree.Root, scope{dot: true, dollar: true}, out, seen)
		}
	}
}

// collectBranch walks a control structure. body is the scope inside the
// first branch; the pipeline and any else branch keep the outer scope.
func collectBranch(set *template.Template, b *parse.BranchNode, sc, body scope, out map[string]bool, seen map[string]bool) {
	collectFields(set, b.Pipe, sc, out, seen)
	collectFields(set, b.List, body, out, seen)
	collectFields(set, b.ElseList, sc, out, seen)
}

// passesFragment reports whether a {{template}} call hands the fragment
// itself ("." or "$") to the called template.
func passesFragment(pipe *parse.PipeNode, sc scope) bool {
	if pipe == nil || len(pipe.Decl) > 0 || len(pipe.Cmds) != 1 || len(pipe.Cmds[0].Args) != 1 {
		return false
	}
	switch a := pipe.Cmds[0].Args[0].(type) {
	case *parse.DotNode:
		return sc.dot
	case *parse.VariableNode:
		return sc.dollar && len(a.Ident) == 1 && a.Ident[0] == "$"
	}
	return false
}
