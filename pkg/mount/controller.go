// Package mount ties the resources a view acquires to the view's lifetime
// and decides, per navigation, whether a guarded view may mount.
package mount

import (
	"context"
	"sync"
)

type resource struct {
	name    string
	release func()
}

// Controller owns the resources of one mounted view. Resources are released
// in reverse order of acquisition, exactly once.
type Controller struct {
	name string

	mu        sync.Mutex
	resources []resource
	unmounted bool
}

func New(name string) *Controller {
	return &Controller{name: name}
}

func (c *Controller) Name() string { return c.name }

// Acquire records release to be called on Unmount. Acquiring on an already
// unmounted controller releases immediately.
func (c *Controller) Acquire(name string, release func()) {
	if release == nil {
		return
	}
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		release()
		return
	}
	c.resources = append(c.resources, resource{name: name, release: release})
	c.mu.Unlock()
}

// Unmount releases every acquired resource. Later calls do nothing.
func (c *Controller) Unmount() {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return
	}
	c.unmounted = true
	res := c.resources
	c.resources = nil
	c.mu.Unlock()

	for i := len(res) - 1; i >= 0; i-- {
		res[i].release()
	}
}

func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.unmounted
}

// Resources lists the names of the resources still held.
func (c *Controller) Resources() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.resources))
	for _, r := range c.resources {
		out = append(out, r.name)
	}
	return out
}

// Guard decides whether a protected view may mount.
type Guard struct {
	// Allow is consulted once per navigation. A nil Allow denies.
	Allow func() bool
	// Redirect receives the fallback path when Allow says no.
	Redirect func(path string)
}

// Enter reports whether navigation to `to` may proceed. When it may not,
// Redirect is called with fallback.
func (g Guard) Enter(to, fallback string) bool {
	if g.Allow != nil && g.Allow() {
		return true
	}
	if g.Redirect != nil {
		g.Redirect(fallback)
	}
	return false
}

// Counter is anything with a length, such as a selection list.
type Counter interface {
	Len(ctx context.Context) int
}

// HasEntries is the predicate "the list holds at least one entry".
func HasEntries(ctx context.Context, c Counter) func() bool {
	return func() bool {
		return c.Len(ctx) > 0
	}
}
