package montecarlo

import "math/rand/v2"

// Sample is a point drawn uniformly from the unit square [0,1) x [0,1).
type Sample struct {
	X, Y float64
}

// Region is the geometric predicate samples are classified against.
type Region interface {
	// Contains reports whether the point (x, y) lies inside the region.
	Contains(x, y float64) bool
}

// UnitCircle is the quarter disc x² + y² <= 1 inside the unit square.
// The matched fraction converges to π/4.
type UnitCircle struct{}

// Contains implements Region.
func (UnitCircle) Contains(x, y float64) bool {
	return x*x+y*y <= 1.0
}

// RegionFunc adapts a plain function to the Region interface.
type RegionFunc func(x, y float64) bool

// Contains implements Region.
func (f RegionFunc) Contains(x, y float64) bool { return f(x, y) }

// Sampler draws and classifies samples from a private PCG stream.
// A Sampler must only be used by the goroutine that owns it.
type Sampler struct {
	rng    *rand.Rand
	region Region
}

// NewSampler creates a sampler whose stream is initialized from seed.
// A nil region selects UnitCircle.
func NewSampler(seed Seed, region Region) *Sampler {
	if region == nil {
		region = UnitCircle{}
	}
	return &Sampler{
		rng:    rand.New(rand.NewPCG(seed.Hi, seed.Lo)),
		region: region,
	}
}

// NextSample draws the next point, advancing the sampler's stream.
func (s *Sampler) NextSample() Sample {
	return Sample{X: s.rng.Float64(), Y: s.rng.Float64()}
}

// Classify reports whether the sample lies inside the sampler's region.
func (s *Sampler) Classify(p Sample) bool {
	return s.region.Contains(p.X, p.Y)
}
