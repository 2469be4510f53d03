//go:generate mockgen -source=seed.go -destination=mocks/mock_seed.go -package=mocks

package montecarlo

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

// Seed initializes one 128-bit PCG stream.
type Seed struct {
	Hi, Lo uint64
}

// String renders the seed as 32 hex digits.
func (s Seed) String() string {
	return fmt.Sprintf("%016x%016x", s.Hi, s.Lo)
}

// SeedSource hands out stream seeds. Implementations must never return the
// same seed twice and must be safe for concurrent use.
type SeedSource interface {
	// Next returns a seed distinct from every seed previously returned.
	Next() (Seed, error)
}

// CounterSeedSource derives seeds from a fixed base and an atomic counter.
// The low word is a bijective mix of the counter, so seeds stay distinct for
// 2^64 draws; the base and the family select the high word.
type CounterSeedSource struct {
	base    uint64
	family  uint64
	counter atomic.Uint64
}

// NewFixedSeedSource returns a reproducible source: two sources created with
// the same base hand out the same seed sequence.
func NewFixedSeedSource(base uint64) *CounterSeedSource {
	return &CounterSeedSource{base: base}
}

// NewEntropySeedSource returns a source whose base is read from the
// operating system's entropy pool.
func NewEntropySeedSource() (*CounterSeedSource, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("reading seed entropy: %w", err)
	}
	return NewFixedSeedSource(binary.LittleEndian.Uint64(buf[:])), nil
}

// Base returns the base the source was created with.
func (s *CounterSeedSource) Base() uint64 { return s.base }

// Fork returns the source of the given family for s's base, with its own
// counter. Family 0 is the family of NewFixedSeedSource; distinct families
// never share a high word. The result depends only on the base and the
// family, not on how many seeds were drawn from s.
func (s *CounterSeedSource) Fork(family uint64) *CounterSeedSource {
	return &CounterSeedSource{base: s.base, family: family * familyStride}
}

// familyStride is odd, so multiplying by it is a bijection on uint64.
const familyStride = 0x9e3779b97f4a7c15

// Next implements SeedSource.
func (s *CounterSeedSource) Next() (Seed, error) {
	n := s.counter.Add(1)
	return Seed{Hi: s.base ^ s.family, Lo: splitmix64(n ^ s.base)}, nil
}

// splitmix64 is the SplitMix64 finalizer, a bijection on uint64.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
