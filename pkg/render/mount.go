package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/template"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/reltime"
)

// Mount is where fragments land. Reset clears everything a previous render
// appended.
type Mount interface {
	Reset()
	Append(f *Fragment)
}

// Fragment is one instantiated card: an item, its resolved link, and the
// time widget bound to the item's timestamp.
type Fragment struct {
	Item item.Item
	Href string

	tmpl *template.Template
	time *reltime.Widget
}

// view is the data a card template sees.
type view struct {
	ID          int
	Image       string
	Title       string
	Description string
	Time        string
	Href        string
	Tags        []string
	Category    string
}

// Time is the current relative-time label of the fragment.
func (f *Fragment) Time() string {
	if f.time == nil {
		return ""
	}
	return f.time.Label()
}

// Widget exposes the fragment's time widget.
func (f *Fragment) Widget() *reltime.Widget {
	return f.time
}

// String executes the card template with the latest time label, so calling
// it again after a widget redraw yields the refreshed card.
func (f *Fragment) String() string {
	var b strings.Builder
	if err := f.Execute(&b); err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return b.String()
}

// Execute renders the card into w.
func (f *Fragment) Execute(w io.Writer) error {
	return f.tmpl.Execute(w, view{
		ID:          f.Item.ID,
		Image:       f.Item.Image,
		Title:       f.Item.Title,
		Description: f.Item.Description,
		Time:        f.Time(),
		Href:        f.Href,
		Tags:        f.Item.Tags,
		Category:    f.Item.Category,
	})
}

// Buffer keeps fragments in memory for views that redraw them on demand.
type Buffer struct {
	mu    sync.RWMutex
	frags []*Fragment
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	b.frags = nil
	b.mu.Unlock()
}

func (b *Buffer) Append(f *Fragment) {
	b.mu.Lock()
	b.frags = append(b.frags, f)
	b.mu.Unlock()
}

// Fragments returns the mounted fragments in render order.
func (b *Buffer) Fragments() []*Fragment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*Fragment(nil), b.frags...)
}

// Len is the number of mounted fragments.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.frags)
}

// String renders every fragment, separated by blank lines.
func (b *Buffer) String() string {
	frags := b.Fragments()
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "\n\n")
}

// WriterMount streams each fragment to W as it is appended. Output already
// written cannot be taken back, so Reset only restarts the separator logic.
// The first write error is kept in Err and later fragments are skipped.
type WriterMount struct {
	W   io.Writer
	Err error
	n   int
}

func (m *WriterMount) Reset() { m.n = 0 }

func (m *WriterMount) Append(f *Fragment) {
	if m.Err != nil {
		return
	}
	if m.n > 0 {
		if _, err := io.WriteString(m.W, "\n\n"); err != nil {
			m.Err = err
			return
		}
	}
	m.n++
	if err := f.Execute(m.W); err != nil {
		m.Err = err
	}
}
