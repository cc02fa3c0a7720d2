// Package particles simulates the drifting dot field painted behind the
// portfolio and draws it onto any Surface.
package particles

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultCount is the number of particles in a field.
const DefaultCount = 100

const (
	minSize   = 1.0
	sizeRange = 3.0
	maxSpeed  = 0.25
	minAlpha  = 0.2
	alphaBand = 0.5
)

// Particle is one decorative dot. Size, velocity and color are fixed at
// creation; only the position changes.
type Particle struct {
	X, Y   float64
	Size   float64
	VX, VY float64
	Color  string
}

// NewParticle places a particle uniformly over [0,w)×[0,h).
func NewParticle(rng *rand.Rand, w, h float64) Particle {
	return Particle{
		X:     rng.Float64() * w,
		Y:     rng.Float64() * h,
		Size:  rng.Float64()*sizeRange + minSize,
		VX:    (rng.Float64() - 0.5) * 2 * maxSpeed,
		VY:    (rng.Float64() - 0.5) * 2 * maxSpeed,
		Color: randomColor(rng),
	}
}

// randomColor returns a cool-toned rgba string with jittered channels.
func randomColor(rng *rand.Rand) string {
	r := rng.Intn(100) + 100
	g := rng.Intn(100) + 150
	b := rng.Intn(55) + 200
	a := rng.Float64()*alphaBand + minAlpha
	return fmt.Sprintf("rgba(%d, %d, %d, %.3f)", r, g, b, a)
}

// Update advances the particle by its velocity and wraps it back into
// [0,w)×[0,h).
func (p *Particle) Update(w, h float64) {
	p.X = wrap(p.X+p.VX, w)
	p.Y = wrap(p.Y+p.VY, h)
}

// wrap folds v into [0,limit). A coordinate leaving one edge reappears at the
// opposite one. Positions left far outside by a resize are folded in one step.
func wrap(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	if v >= 0 && v < limit {
		return v
	}
	v = math.Mod(v, limit)
	if v < 0 {
		v += limit
	}
	// -1e-18 + limit rounds to limit
	if v >= limit {
		v = 0
	}
	return v
}
