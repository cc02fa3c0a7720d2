package particles

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// FrameSource delivers display-refresh signals to a running animator.
type FrameSource interface {
	C() <-chan time.Time
	Stop()
}

type ticker struct{ t *time.Ticker }

func (t ticker) C() <-chan time.Time { return t.t.C }
func (t ticker) Stop()               { t.t.Stop() }

// Ticker returns a FrameSource firing every interval.
func Ticker(interval time.Duration) FrameSource {
	return ticker{t: time.NewTicker(interval)}
}

// Option configures an Animator.
type Option func(*Animator)

// WithCount overrides the particle count.
func WithCount(n int) Option {
	return func(a *Animator) { a.count = n }
}

// WithRand sets the random source used to seed particles.
func WithRand(rng *rand.Rand) Option {
	return func(a *Animator) { a.rng = rng }
}

// Animator owns a particle field and paints it onto a surface once per frame.
// Frame and Resize are not safe for concurrent use; Start serialises them on
// one goroutine.
type Animator struct {
	surface Surface
	field   *Field
	count   int
	rng     *rand.Rand
	frames  atomic.Int64
}

// New sizes the field from the surface and seeds its particles. It returns
// nil when there is no surface to draw on.
func New(surface Surface, opts ...Option) *Animator {
	if surface == nil {
		return nil
	}
	a := &Animator{surface: surface, count: DefaultCount}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	w, h := surface.Size()
	a.field = NewField(a.rng, a.count, w, h)
	return a
}

// Field exposes the particle field. Callers must not touch it while a loop
// started with Start is running.
func (a *Animator) Field() *Field { return a.field }

// Frames reports how many frames have been painted.
func (a *Animator) Frames() int64 {
	if a == nil {
		return 0
	}
	return a.frames.Load()
}

// Frame clears the surface, advances every particle and paints it. A surface
// without a drawing context skips the frame.
func (a *Animator) Frame() error {
	if a == nil {
		return nil
	}
	ctx := a.surface.Context()
	if ctx == nil {
		return nil
	}
	w, h := a.field.Bounds()
	ctx.Clear(w, h)
	for i := range a.field.particles {
		p := &a.field.particles[i]
		p.Update(w, h)
		ctx.FillCircle(p.X, p.Y, p.Size, p.Color)
	}
	a.frames.Add(1)
	if pr, ok := ctx.(Presenter); ok {
		return pr.Present()
	}
	return nil
}

// Resize resynchronises the field bounds with the surface.
func (a *Animator) Resize() {
	if a == nil {
		return
	}
	a.field.Resize(a.surface.Size())
}

// Loop is the stop handle of a running animation.
type Loop struct {
	stop   chan struct{}
	exited chan struct{}
	once   sync.Once
	err    error
}

// Stop ends the loop and waits for it to exit. No frame is painted after
// Stop returns. Safe to call more than once.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
	<-l.exited
}

// Done is closed once the loop has exited.
func (l *Loop) Done() <-chan struct{} { return l.exited }

// Err reports the presenter error that ended the loop, if any. Only valid
// after Done is closed.
func (l *Loop) Err() error { return l.err }

// Start paints a frame on every tick of frames and resynchronises bounds on
// every resize signal, until stopped or until presenting a frame fails. The
// frame source is stopped and the resize channel abandoned when the loop exits.
func (a *Animator) Start(frames FrameSource, resize <-chan struct{}) *Loop {
	l := &Loop{stop: make(chan struct{}), exited: make(chan struct{})}
	if a == nil || frames == nil {
		if frames != nil {
			frames.Stop()
		}
		close(l.exited)
		return l
	}
	go func() {
		defer close(l.exited)
		defer frames.Stop()
		for {
			select {
			case <-l.stop:
				return
			case <-resize:
				a.Resize()
			case <-frames.C():
				select {
				case <-l.stop:
					return
				default:
				}
				if err := a.Frame(); err != nil {
					l.err = err
					return
				}
			}
		}
	}()
	return l
}
