// Package dashboard holds the page view-models: each page fetches one
// resource, falls back to sample data on failure and derives the aggregates
// its view displays.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/water-monitor-dashboard/internal/adapter/api"
	"github.com/couchcryptid/water-monitor-dashboard/internal/observability"
)

// State is the lifecycle position of a page.
type State string

const (
	StateIdle    State = "idle" // never loaded, or reset after a forced logout
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error" // only reachable with FallbackError
)

// FallbackMode selects what a page shows when its fetch fails.
type FallbackMode string

const (
	FallbackDemo  FallbackMode = "demo"
	FallbackError FallbackMode = "error"
)

// Options carries the collaborators shared by every page.
type Options struct {
	Mode          FallbackMode
	Notifications *Notifications
	Metrics       *observability.Metrics
	Logger        *slog.Logger
}

// Fetcher loads every record of one resource.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Snapshot is a consistent view of a page's state.
type Snapshot[T any] struct {
	State    State
	Records  []T
	Fallback bool  // Records is the sample dataset
	Err      error // last fetch error, if any
	Seq      uint64
}

// Page runs the fetch → fallback-on-error cycle for one resource. Every
// fetch takes a sequence number; a result that arrives after a newer fetch
// was issued is discarded.
type Page[T any] struct {
	name     string
	fetch    Fetcher[T]
	fallback func() []T
	opts     Options

	mu     sync.Mutex
	issued uint64
	snap   Snapshot[T]
}

// NewPage creates a page named name (used in messages and metric labels).
func NewPage[T any](name string, fetch Fetcher[T], fallback func() []T, opts Options) *Page[T] {
	if opts.Mode == "" {
		opts.Mode = FallbackDemo
	}
	return &Page[T]{
		name:     name,
		fetch:    fetch,
		fallback: fallback,
		opts:     opts,
		snap:     Snapshot[T]{State: StateIdle},
	}
}

// Refresh issues a fetch and applies its result unless a newer fetch was
// issued in the meantime. It returns the page state after the call.
func (p *Page[T]) Refresh(ctx context.Context) Snapshot[T] {
	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.snap.State = StateLoading
	p.snap.Seq = seq
	p.mu.Unlock()

	records, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.issued {
		p.opts.Metrics.PageStaleResponses.WithLabelValues(p.name).Inc()
		p.opts.Logger.Debug("discarding stale response", "page", p.name, "seq", seq, "latest", p.issued)
		return p.snap
	}

	if err != nil {
		p.applyFailure(seq, err)
		return p.snap
	}

	p.snap = Snapshot[T]{State: StateReady, Records: records, Seq: seq}
	p.opts.Logger.Debug("page loaded", "page", p.name, "records", len(records), "seq", seq)
	return p.snap
}

// applyFailure must be called with p.mu held.
func (p *Page[T]) applyFailure(seq uint64, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		// The client has already cleared the session and requested login.
		p.snap = Snapshot[T]{State: StateIdle, Err: err, Seq: seq}
		p.opts.Notifications.Push(LevelWarning, "Your session has expired. Please sign in again.")
		return
	}

	p.opts.Logger.Warn("fetch failed", "page", p.name, "mode", p.opts.Mode, "error", err)

	if p.opts.Mode == FallbackError {
		p.snap = Snapshot[T]{State: StateError, Err: err, Seq: seq}
		p.opts.Notifications.Push(LevelError, fmt.Sprintf("Could not load %s.", p.name))
		return
	}

	p.opts.Metrics.PageFallbacks.WithLabelValues(p.name).Inc()
	p.snap = Snapshot[T]{State: StateReady, Records: p.fallback(), Fallback: true, Err: err, Seq: seq}
	p.opts.Notifications.Push(LevelWarning, fmt.Sprintf("Could not load %s. Showing sample data.", p.name))
}

// Snapshot returns the current state without fetching.
func (p *Page[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}
