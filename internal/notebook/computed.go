package notebook

import "sync"

// Source is a value tagged with a revision that advances on every write.
type Source[S any] interface {
	Value() (S, uint64)
}

// Computed is a pull-based derivation of a Source. The derived value is
// memoized per source revision and recomputed on the first Get after the
// source changes. Failed computations are not cached.
type Computed[S, T any] struct {
	src Source[S]
	fn  func(S) (T, error)

	mu    sync.Mutex
	valid bool
	rev   uint64
	val   T
}

// NewComputed derives a value from src using fn. fn must be pure.
func NewComputed[S, T any](src Source[S], fn func(S) (T, error)) *Computed[S, T] {
	return &Computed[S, T]{src: src, fn: fn}
}

// Get returns the derivation of the current source value.
func (c *Computed[S, T]) Get() (T, error) {
	v, _, _, err := c.get()
	return v, err
}

// get also reports the source value and revision the result belongs to.
func (c *Computed[S, T]) get() (T, S, uint64, error) {
	in, rev := c.src.Value()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.rev == rev {
		return c.val, in, rev, nil
	}
	out, err := c.fn(in)
	if err != nil {
		var zero T
		return zero, in, rev, err
	}
	c.val, c.rev, c.valid = out, rev, true
	return out, in, rev, nil
}
