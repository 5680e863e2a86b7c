package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-compositor/render"
)

// typedRenderer accepts only nodes of its string prefix.
type typedRenderer struct {
	prefix string
	order  int
}

func (r *typedRenderer) CanRender(node render.Node, _ *render.Context) bool {
	s, ok := node.(string)
	return ok && len(s) >= len(r.prefix) && s[:len(r.prefix)] == r.prefix
}

func (r *typedRenderer) Render([]render.Node, *render.Context, int) error { return nil }

func (r *typedRenderer) Order() int { return r.order }

func TestRegistryResolvesFirstMatch(t *testing.T) {
	reg := render.NewRegistry()

	broad := &typedRenderer{prefix: "a", order: 10}
	narrow := &typedRenderer{prefix: "ab", order: 0}
	_, err := reg.Register(broad)
	require.NoError(t, err)
	narrowID, err := reg.Register(narrow)
	require.NoError(t, err)

	// Both accept "abc"; the lower order wins despite later registration.
	r, id, ok := reg.Resolve("abc", nil)
	require.True(t, ok)
	assert.Same(t, narrow, r)
	assert.Equal(t, narrowID, id)

	// Only the broad one accepts "ax".
	r, _, ok = reg.Resolve("ax", nil)
	require.True(t, ok)
	assert.Same(t, broad, r)
}

func TestRegistryResolveMiss(t *testing.T) {
	reg := render.NewRegistry()
	_, err := reg.Register(&typedRenderer{prefix: "a"})
	require.NoError(t, err)

	_, _, ok := reg.Resolve(123, nil)
	assert.False(t, ok)
}

func TestRegistryEqualOrderKeepsRegistration(t *testing.T) {
	reg := render.NewRegistry()

	first := &typedRenderer{prefix: "x", order: 5}
	second := &typedRenderer{prefix: "x", order: 5}
	firstID, err := reg.Register(first)
	require.NoError(t, err)
	_, err = reg.Register(second)
	require.NoError(t, err)

	_, id, ok := reg.Resolve("x", nil)
	require.True(t, ok)
	assert.Equal(t, firstID, id)
}

func TestRegistryIDSpace(t *testing.T) {
	reg := render.NewRegistry()
	for i := 0; i < 256; i++ {
		_, err := reg.Register(&typedRenderer{prefix: "x"})
		require.NoError(t, err)
	}
	_, err := reg.Register(&typedRenderer{prefix: "x"})
	assert.Error(t, err, "257th renderer must be rejected")
	assert.Equal(t, 256, reg.Len())
}
