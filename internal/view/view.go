package view

import (
	"sync"
	"time"
)

// DefaultMountGrace is how long a view survives when nothing but the page
// load that mounted it ever referred to it.
const DefaultMountGrace = time.Minute

// Options configures newly mounted views.
type Options struct {
	LoadingDelay  time.Duration
	ClockInterval time.Duration
	// MountGrace is how long a view that no request has come back for
	// survives. Views in use fall under the registry's idle timeout.
	MountGrace time.Duration
	Skills     map[string]int
	// Location is applied to clock readings; nil means time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.LoadingDelay <= 0 {
		o.LoadingDelay = DefaultLoadingDelay
	}
	if o.ClockInterval <= 0 {
		o.ClockInterval = DefaultClockInterval
	}
	if o.MountGrace <= 0 {
		o.MountGrace = DefaultMountGrace
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// View is one mounted page: its state plus the loading gate and clock that
// mutate it. All methods are safe for concurrent use.
type View struct {
	id  string
	now func() time.Time
	loc *time.Location

	mu       sync.Mutex
	state    State
	lastSeen time.Time
	subs     map[chan time.Time]struct{}
	attached int
	engaged  bool
	torn     bool

	gate  *LoadingGate
	clock *Clock
	done  chan struct{}
}

// Mount creates a view with default state and starts its timers.
func Mount(id string, opts Options) *View {
	opts = opts.withDefaults()
	now := opts.Now()
	v := &View{
		id:       id,
		now:      opts.Now,
		loc:      opts.Location,
		state:    NewState(now.In(opts.Location), opts.Skills),
		lastSeen: now,
		subs:     make(map[chan time.Time]struct{}),
		done:     make(chan struct{}),
	}
	v.gate = StartLoadingGate(opts.LoadingDelay, v.finishLoading)
	v.clock = StartClock(opts.ClockInterval, opts.Now, v.tick)
	return v
}

func (v *View) ID() string { return v.id }

// State returns a snapshot of the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// SetActiveSection switches the visible section.
func (v *View) SetActiveSection(sec Section) State {
	return v.update(func(s State) State { return s.WithSection(sec) })
}

func (v *View) ToggleTheme() State {
	return v.update(State.ToggleTheme)
}

// Loading reports whether the loading overlay is still up.
func (v *View) Loading() bool {
	return v.gate.Loading()
}

// Subscribe returns a channel that receives every clock reading until cancel
// is called or the view is torn down. Slow readers miss readings.
func (v *View) Subscribe() (<-chan time.Time, func()) {
	ch := make(chan time.Time, 1)
	v.mu.Lock()
	if v.torn {
		v.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	v.subs[ch] = struct{}{}
	v.engaged = true
	v.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			if _, ok := v.subs[ch]; ok {
				delete(v.subs, ch)
				close(ch)
			}
			v.lastSeen = v.now()
			v.mu.Unlock()
		})
	}
}

// Attach marks the view as held open by a long-lived connection, such as the
// background stream. The view is not idle until release is called.
func (v *View) Attach() (release func()) {
	v.mu.Lock()
	v.attached++
	v.engaged = true
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			v.attached--
			v.lastSeen = v.now()
			v.mu.Unlock()
		})
	}
}

// Done is closed when the view is torn down.
func (v *View) Done() <-chan struct{} { return v.done }

// Teardown stops the loading timer and the clock and releases subscribers.
func (v *View) Teardown() {
	v.mu.Lock()
	if v.torn {
		v.mu.Unlock()
		return
	}
	v.torn = true
	v.mu.Unlock()

	v.gate.Stop()
	v.clock.Stop()

	v.mu.Lock()
	for ch := range v.subs {
		delete(v.subs, ch)
		close(ch)
	}
	v.mu.Unlock()
	close(v.done)
}

func (v *View) update(fn func(State) State) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = fn(v.state)
	v.lastSeen = v.now()
	return v.state
}

func (v *View) touch() {
	v.mu.Lock()
	v.lastSeen = v.now()
	v.engaged = true
	v.mu.Unlock()
}

// expired reports whether the view has gone unused for longer than idle, or
// for longer than grace if nothing came back for it after mounting. Views
// with clock subscribers or attached connections never expire.
func (v *View) expired(now time.Time, idle, grace time.Duration) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.subs) > 0 || v.attached > 0 {
		return false
	}
	limit := idle
	if !v.engaged {
		limit = grace
	}
	return now.Sub(v.lastSeen) > limit
}

func (v *View) finishLoading() {
	v.mu.Lock()
	v.state = v.state.Loaded()
	v.mu.Unlock()
}

func (v *View) tick(t time.Time) {
	t = t.In(v.loc)
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.torn {
		return
	}
	v.state = v.state.WithTime(t)
	for ch := range v.subs {
		select {
		case ch <- t:
		default:
		}
	}
}
