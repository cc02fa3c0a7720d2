package view

import (
	"sync"
	"time"
)

// DefaultLoadingDelay is how long the loading overlay stays up after mount.
const DefaultLoadingDelay = 2 * time.Second

// LoadingGate is a one-shot timer that flips a view from loading to loaded.
type LoadingGate struct {
	timer *time.Timer
	once  sync.Once
	done  chan struct{}
}

// StartLoadingGate calls onDone once, after delay, unless stopped first.
func StartLoadingGate(delay time.Duration, onDone func()) *LoadingGate {
	g := &LoadingGate{done: make(chan struct{})}
	g.timer = time.AfterFunc(delay, func() {
		g.once.Do(func() {
			if onDone != nil {
				onDone()
			}
			close(g.done)
		})
	})
	return g
}

// Done is closed when the gate has opened.
func (g *LoadingGate) Done() <-chan struct{} { return g.done }

// Loading reports whether the gate is still closed.
func (g *LoadingGate) Loading() bool {
	select {
	case <-g.done:
		return false
	default:
		return true
	}
}

// Stop cancels a pending gate. It has no effect once the gate has opened.
func (g *LoadingGate) Stop() {
	g.timer.Stop()
}
