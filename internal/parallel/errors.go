// Package parallel holds small synchronization helpers shared by the
// fan-out code paths.
package parallel

import "sync"

// ErrorCollector records the first non-nil error reported by a group of
// goroutines. Later errors are dropped. The zero value is ready to use.
type ErrorCollector struct {
	once sync.Once
	mu   sync.Mutex
	err  error
}

// SetError records err if it is the first non-nil error seen.
// It reports whether err was recorded.
func (c *ErrorCollector) SetError(err error) bool {
	if err == nil {
		return false
	}
	recorded := false
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		recorded = true
	})
	return recorded
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
