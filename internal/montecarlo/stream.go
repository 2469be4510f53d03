package montecarlo

import "iter"

// EstimateStream is a lazy, unbounded sequence of running estimates: every
// pull draws one more sample and yields the estimate over all samples drawn
// so far. A stream cannot be rewound; start over with a new stream.
type EstimateStream struct {
	sampler *Sampler
	acc     Accumulator
	scale   float64
}

// NewEstimateStream creates a stream drawing from a PCG stream seeded with
// seed. A nil region selects UnitCircle; a non-positive scale selects
// DefaultScale.
func NewEstimateStream(seed Seed, region Region, scale float64) *EstimateStream {
	return &EstimateStream{sampler: NewSampler(seed, region), scale: normalizeScale(scale)}
}

// Next draws one sample and returns the updated running estimate.
func (s *EstimateStream) Next() Estimate {
	s.acc = s.acc.Record(s.sampler.Classify(s.sampler.NextSample()))
	return NewEstimate(s.acc, s.scale)
}

// Accumulator returns the counters accumulated so far.
func (s *EstimateStream) Accumulator() Accumulator { return s.acc }

// All returns an iterator pulling from the stream until the consumer stops.
func (s *EstimateStream) All() iter.Seq[Estimate] {
	return func(yield func(Estimate) bool) {
		for {
			if !yield(s.Next()) {
				return
			}
		}
	}
}

// Take pulls n estimates and returns the last one. Take(0) returns the
// current estimate without drawing.
func (s *EstimateStream) Take(n int) Estimate {
	last := NewEstimate(s.acc, s.scale)
	for range n {
		last = s.Next()
	}
	return last
}
