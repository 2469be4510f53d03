package montecarlo

import (
	"errors"
	"sync/atomic"
)

// errorsAs is a local shorthand for errors.As.
func errorsAs(err error, target any) bool {
	return errors.As(err, target)
}

// countingSeedSource wraps a SeedSource and counts draws.
type countingSeedSource struct {
	inner SeedSource
	calls atomic.Int64
}

func newCountingSeedSource(base uint64) *countingSeedSource {
	return &countingSeedSource{inner: NewFixedSeedSource(base)}
}

func (c *countingSeedSource) Next() (Seed, error) {
	c.calls.Add(1)
	return c.inner.Next()
}
