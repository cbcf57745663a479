package notebook

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	n   int
	rev uint64
}

func (c *counter) Value() (int, uint64) { return c.n, c.rev }

func (c *counter) set(n int) {
	c.n = n
	c.rev++
}

func TestComputedTracksSourceRevision(t *testing.T) {
	src := &counter{n: 1}
	calls := 0
	c := NewComputed[int, string](src, func(n int) (string, error) {
		calls++
		return strconv.Itoa(n * 2), nil
	})

	v, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	_, _ = c.Get()
	assert.Equal(t, 1, calls)

	src.set(21)
	v, err = c.Get()
	require.NoError(t, err)
	assert.Equal(t, "42", v)
	assert.Equal(t, 2, calls)
}

func TestComputedOverNotebook(t *testing.T) {
	nb, _ := newMarkdownNotebook(t)
	length := NewComputed[string, int](nb, func(s string) (int, error) { return len(s), nil })

	n, err := length.Get()
	require.NoError(t, err)
	assert.Equal(t, len(DefaultContent), n)

	nb.SetContent("abc")
	n, err = length.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
