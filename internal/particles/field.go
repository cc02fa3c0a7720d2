package particles

import "math/rand"

// Field is a fixed-size set of particles sharing one set of bounds.
type Field struct {
	particles []Particle
	w, h      float64
}

// NewField allocates exactly n particles spread over a w×h area.
func NewField(rng *rand.Rand, n int, w, h float64) *Field {
	if n < 0 {
		n = 0
	}
	f := &Field{particles: make([]Particle, n), w: w, h: h}
	for i := range f.particles {
		f.particles[i] = NewParticle(rng, w, h)
	}
	return f
}

// Len reports the particle count.
func (f *Field) Len() int { return len(f.particles) }

// Bounds returns the current width and height.
func (f *Field) Bounds() (w, h float64) { return f.w, f.h }

// Resize changes the bounds without rescaling positions. Particles outside
// the new area are folded back in on their next update.
func (f *Field) Resize(w, h float64) {
	f.w, f.h = w, h
}

// Step advances every particle by one frame.
func (f *Field) Step() {
	for i := range f.particles {
		f.particles[i].Update(f.w, f.h)
	}
}

// Particles returns a copy of the current particle states.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}
