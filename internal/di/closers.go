package di

import (
	"errors"
	"io"
	"sync"
)

// Closers tracks resources built by the container that hold connections
type Closers struct {
	mu    sync.Mutex
	items []io.Closer
}

// Track records v for Close if it implements io.Closer
func (c *Closers) Track(v any) {
	cl, ok := v.(io.Closer)
	if !ok {
		return
	}
	c.mu.Lock()
	c.items = append(c.items, cl)
	c.mu.Unlock()
}

// Close releases tracked resources in reverse order and joins their errors
func (c *Closers) Close() error {
	c.mu.Lock()
	items := c.items
	c.items = nil
	c.mu.Unlock()

	var errs []error
	for i := len(items) - 1; i >= 0; i-- {
		if err := items[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
