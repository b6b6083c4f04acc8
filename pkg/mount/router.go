package mount

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRoute = errors.New("mount: unknown route")
	ErrRedirectLoop = errors.New("mount: redirect loop")
)

// Route is one navigable view.
type Route struct {
	Path string
	// Allow guards the route; nil leaves it open.
	Allow func() bool
	// Fallback is where a denied navigation goes.
	Fallback string
	// Mount builds the view and returns the controller that owns it.
	Mount func() *Controller
}

// Router mounts at most one route at a time. Navigating away unmounts the
// current route before the next one mounts.
type Router struct {
	routes  map[string]Route
	current string
	ctrl    *Controller
}

func NewRouter(routes ...Route) *Router {
	r := &Router{routes: make(map[string]Route, len(routes))}
	for _, rt := range routes {
		r.routes[rt.Path] = rt
	}
	return r
}

// Navigate mounts path, following guard redirects, and returns the path that
// ended up mounted.
func (r *Router) Navigate(path string) (string, error) {
	seen := map[string]bool{}
	for {
		rt, ok := r.routes[path]
		if !ok {
			return r.current, fmt.Errorf("%w: %q", ErrUnknownRoute, path)
		}
		if seen[path] {
			return r.current, fmt.Errorf("%w at %q", ErrRedirectLoop, path)
		}
		seen[path] = true

		if rt.Allow != nil {
			next := ""
			g := Guard{Allow: rt.Allow, Redirect: func(p string) { next = p }}
			if !g.Enter(path, rt.Fallback) {
				path = next
				continue
			}
		}

		if r.ctrl != nil {
			r.ctrl.Unmount()
			r.ctrl = nil
		}
		r.current = path
		if rt.Mount != nil {
			r.ctrl = rt.Mount()
		}
		return path, nil
	}
}

// Current is the mounted path, or "" before the first navigation.
func (r *Router) Current() string { return r.current }

// Controller is the mounted route's controller.
func (r *Router) Controller() *Controller { return r.ctrl }

// Close unmounts the current route.
func (r *Router) Close() {
	if r.ctrl != nil {
		r.ctrl.Unmount()
		r.ctrl = nil
	}
	r.current = ""
}
