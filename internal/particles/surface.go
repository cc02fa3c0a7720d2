package particles

import (
	"fmt"
	"io"
	"sync"
)

// Context is what a frame is painted with.
type Context interface {
	Clear(w, h float64)
	FillCircle(x, y, r float64, color string)
}

// Presenter is implemented by contexts that flush a finished frame somewhere.
type Presenter interface {
	Present() error
}

// Surface is the region the animation is painted on.
type Surface interface {
	// Size reports the displayed dimensions of the surface.
	Size() (w, h float64)
	// Context returns nil when drawing is not currently possible.
	Context() Context
}

// Dot is one painted circle.
type Dot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
	Color string  `json:"c"`
}

// Frame is a complete painted frame.
type Frame struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
	Dots   []Dot   `json:"dots"`
}

// Recorder is a Surface that keeps the circles of the current frame in memory
// and hands each finished frame to present.
type Recorder struct {
	mu      sync.Mutex
	w, h    float64
	frame   Frame
	present func(Frame) error
}

// NewRecorder returns a w×h recorder. present may be nil.
func NewRecorder(w, h float64, present func(Frame) error) *Recorder {
	return &Recorder{w: w, h: h, present: present}
}

// SetSize changes the displayed dimensions. The animator picks them up on its
// next resize event.
func (r *Recorder) SetSize(w, h float64) {
	r.mu.Lock()
	r.w, r.h = w, h
	r.mu.Unlock()
}

func (r *Recorder) Size() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w, r.h
}

// Context is unavailable while the surface has no area.
func (r *Recorder) Context() Context {
	w, h := r.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	return r
}

func (r *Recorder) Clear(w, h float64) {
	r.frame = Frame{Width: w, Height: h, Dots: r.frame.Dots[:0]}
}

func (r *Recorder) FillCircle(x, y, radius float64, color string) {
	r.frame.Dots = append(r.frame.Dots, Dot{X: x, Y: y, R: radius, Color: color})
}

func (r *Recorder) Present() error {
	if r.present == nil {
		return nil
	}
	return r.present(r.Frame())
}

// Frame returns a copy of the last painted frame.
func (r *Recorder) Frame() Frame {
	out := r.frame
	out.Dots = append([]Dot(nil), r.frame.Dots...)
	return out
}

// WriteSVG renders a frame as a standalone SVG document.
func WriteSVG(w io.Writer, f Frame) error {
	if _, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`,
		f.Width, f.Height, f.Width, f.Height); err != nil {
		return fmt.Errorf("write svg header: %w", err)
	}
	for _, d := range f.Dots {
		if _, err := fmt.Fprintf(w, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`, d.X, d.Y, d.R, d.Color); err != nil {
			return fmt.Errorf("write svg circle: %w", err)
		}
	}
	if _, err := io.WriteString(w, "</svg>"); err != nil {
		return fmt.Errorf("write svg footer: %w", err)
	}
	return nil
}
