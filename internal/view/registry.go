package view

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTimeout is how long an untouched view survives.
const DefaultIdleTimeout = 30 * time.Minute

// Registry tracks mounted views by ID.
type Registry struct {
	opts Options
	idle time.Duration

	mu    sync.Mutex
	views map[string]*View
}

func NewRegistry(opts Options, idle time.Duration) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{
		opts:  opts.withDefaults(),
		idle:  idle,
		views: make(map[string]*View),
	}
}

// Mount creates and registers a new view.
func (r *Registry) Mount() *View {
	v := Mount(uuid.NewString(), r.opts)
	r.mu.Lock()
	r.views[v.id] = v
	r.mu.Unlock()
	return v
}

// Get returns the view with id and marks it as recently used.
func (r *Registry) Get(id string) (*View, bool) {
	r.mu.Lock()
	v, ok := r.views[id]
	r.mu.Unlock()
	if ok {
		v.touch()
	}
	return v, ok
}

// Teardown removes and tears down the view with id.
func (r *Registry) Teardown(id string) bool {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if ok {
		v.Teardown()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep tears down every view idle for longer than the idle timeout, and
// every view left unused past the mount grace period.
func (r *Registry) Sweep() int {
	now := r.opts.Now()
	var stale []*View
	r.mu.Lock()
	for id, v := range r.views {
		if v.expired(now, r.idle, r.opts.MountGrace) {
			stale = append(stale, v)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()
	for _, v := range stale {
		v.Teardown()
	}
	return len(stale)
}

// Run sweeps idle views every interval until ctx is done, then closes the
// registry.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("Tore down %d idle views", n)
			}
		}
	}
}

// Close tears down every view.
func (r *Registry) Close() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()
	for _, v := range views {
		v.Teardown()
	}
}
