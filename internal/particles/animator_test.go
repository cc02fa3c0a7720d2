package particles

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"
)

// countingSurface counts draw calls and can withhold its context.
type countingSurface struct {
	mu      sync.Mutex
	w, h    float64
	noCtx   bool
	clears  int
	circles int
}

func (s *countingSurface) Size() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

func (s *countingSurface) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.noCtx {
		return nil
	}
	return s
}

func (s *countingSurface) Clear(w, h float64) {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
}

func (s *countingSurface) FillCircle(x, y, r float64, color string) {
	s.mu.Lock()
	s.circles++
	s.mu.Unlock()
}

func (s *countingSurface) draws() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears, s.circles
}

// manualFrames is a FrameSource driven by the test.
type manualFrames struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func newManualFrames() *manualFrames {
	return &manualFrames{c: make(chan time.Time), stopped: make(chan struct{})}
}

func (m *manualFrames) C() <-chan time.Time { return m.c }
func (m *manualFrames) Stop()               { m.once.Do(func() { close(m.stopped) }) }

func (m *manualFrames) tick(t *testing.T) {
	t.Helper()
	select {
	case m.c <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("animator did not accept frame")
	}
}

func TestNewWithoutSurface(t *testing.T) {
	a := New(nil)
	if a != nil {
		t.Fatal("expected nil animator for nil surface")
	}
	if err := a.Frame(); err != nil {
		t.Fatalf("frame on nil animator: %v", err)
	}
	frames := newManualFrames()
	loop := a.Start(frames, nil)
	select {
	case <-loop.Done():
	default:
		t.Fatal("loop on nil animator should already be done")
	}
	select {
	case <-frames.stopped:
	default:
		t.Fatal("frame source not released")
	}
	loop.Stop()
}

func TestFrameDrawsEveryParticle(t *testing.T) {
	s := &countingSurface{w: 200, h: 100}
	a := New(s, WithRand(rand.New(rand.NewSource(1))))
	if got := a.Field().Len(); got != DefaultCount {
		t.Fatalf("got %d particles, want %d", got, DefaultCount)
	}
	if err := a.Frame(); err != nil {
		t.Fatalf("frame: %v", err)
	}
	clears, circles := s.draws()
	if clears != 1 || circles != DefaultCount {
		t.Fatalf("clears=%d circles=%d, want 1 and %d", clears, circles, DefaultCount)
	}
}

func TestFrameSkipsWithoutContext(t *testing.T) {
	s := &countingSurface{w: 200, h: 100, noCtx: true}
	a := New(s)
	if err := a.Frame(); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if clears, circles := s.draws(); clears != 0 || circles != 0 {
		t.Fatalf("expected no draws, got clears=%d circles=%d", clears, circles)
	}
	if a.Frames() != 0 {
		t.Fatalf("skipped frame counted")
	}
}

func TestResizeResyncsBounds(t *testing.T) {
	s := &countingSurface{w: 800, h: 600}
	a := New(s)
	s.mu.Lock()
	s.w, s.h = 100, 50
	s.mu.Unlock()
	a.Resize()
	w, h := a.Field().Bounds()
	if w != 100 || h != 50 {
		t.Fatalf("bounds = %vx%v, want 100x50", w, h)
	}
}

func TestStopHaltsDrawing(t *testing.T) {
	s := &countingSurface{w: 200, h: 100}
	a := New(s)
	frames := newManualFrames()
	loop := a.Start(frames, nil)

	for i := 0; i < 3; i++ {
		frames.tick(t)
	}
	loop.Stop()

	clears, circles := s.draws()
	if clears < 2 {
		t.Fatalf("expected frames before stop, got %d", clears)
	}
	select {
	case <-frames.stopped:
	default:
		t.Fatal("frame source still registered after stop")
	}

	select {
	case frames.c <- time.Now():
		t.Fatal("loop accepted a frame after stop")
	case <-time.After(50 * time.Millisecond):
	}
	if c2, ci2 := s.draws(); c2 != clears || ci2 != circles {
		t.Fatalf("draws after stop: clears %d->%d circles %d->%d", clears, c2, circles, ci2)
	}
	loop.Stop()
}

func TestStartHandlesResize(t *testing.T) {
	s := &countingSurface{w: 400, h: 400}
	a := New(s)
	frames := newManualFrames()
	resize := make(chan struct{})
	loop := a.Start(frames, resize)
	defer loop.Stop()

	s.mu.Lock()
	s.w, s.h = 20, 10
	s.mu.Unlock()
	resize <- struct{}{}
	frames.tick(t)
	loop.Stop()

	for _, p := range a.Field().Particles() {
		if p.X >= 20 || p.Y >= 10 {
			t.Fatalf("particle at (%v, %v) outside resized bounds", p.X, p.Y)
		}
	}
}

func TestPresentErrorEndsLoop(t *testing.T) {
	boom := errors.New("client gone")
	rec := NewRecorder(100, 100, func(Frame) error { return boom })
	a := New(rec)
	frames := newManualFrames()
	loop := a.Start(frames, nil)
	frames.tick(t)

	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop kept running after present failed")
	}
	if !errors.Is(loop.Err(), boom) {
		t.Fatalf("err = %v, want %v", loop.Err(), boom)
	}
}

func TestRecorderAndSVG(t *testing.T) {
	var presented []Frame
	rec := NewRecorder(120, 80, func(f Frame) error {
		presented = append(presented, f)
		return nil
	})
	a := New(rec, WithCount(5))
	for i := 0; i < 2; i++ {
		if err := a.Frame(); err != nil {
			t.Fatalf("frame: %v", err)
		}
	}
	if len(presented) != 2 || len(presented[1].Dots) != 5 {
		t.Fatalf("presented %d frames, last with %d dots", len(presented), len(presented[len(presented)-1].Dots))
	}

	var buf bytes.Buffer
	if err := WriteSVG(&buf, rec.Frame()); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") || strings.Count(out, "<circle") != 5 {
		t.Fatalf("unexpected svg: %s", out)
	}

	rec.SetSize(0, 80)
	if rec.Context() != nil {
		t.Fatal("zero-width recorder should have no context")
	}
}
