package session

import (
	"context"
	"sync"
)

// Paths of the views the session layer navigates to.
const (
	LoginPath   = "/login"
	DefaultPath = "/alerts"
)

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(path string)
}

// Redirects records the most recent navigation request until the
// presentation layer takes it. Later requests overwrite earlier ones.
type Redirects struct {
	mu      sync.Mutex
	pending string
}

// NewRedirects creates an empty navigation recorder.
func NewRedirects() *Redirects {
	return &Redirects{}
}

func (r *Redirects) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = path
}

// Take returns and clears the pending navigation target.
func (r *Redirects) Take() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path := r.pending
	r.pending = ""
	return path, path != ""
}

type navigatorKey struct{}

// WithNavigator scopes navigation requests made while handling ctx to nav.
func WithNavigator(ctx context.Context, nav Navigator) context.Context {
	return context.WithValue(ctx, navigatorKey{}, nav)
}

// NavigatorFrom returns the navigator scoped to ctx, or fallback when none is.
func NavigatorFrom(ctx context.Context, fallback Navigator) Navigator {
	if nav, ok := ctx.Value(navigatorKey{}).(Navigator); ok {
		return nav
	}
	return fallback
}
