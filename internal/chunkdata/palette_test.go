package chunkdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPalettedContainerVariantPromotion(t *testing.T) {
	c := NewPalettedContainer[int](8, 4, 0)
	assert.False(t, c.IsDirect())

	// Writing the fill value back keeps it Single.
	c.Set(0, 0)
	for i := 0; i < c.Size(); i++ {
		require.Equal(t, 0, c.Get(i))
	}

	// First distinct value promotes Single -> Indirect.
	c.Set(1, 5)
	assert.False(t, c.IsDirect())
	assert.Equal(t, 5, c.Get(1))
	assert.Equal(t, 0, c.Get(2))

	// Growing the palette past maxPalette promotes Indirect -> Direct.
	c.Set(2, 6)
	c.Set(3, 7)
	c.Set(4, 8) // 5th distinct value (0,5,6,7,8) exceeds maxPalette=4
	assert.True(t, c.IsDirect())
	assert.Equal(t, 8, c.Get(4))
	assert.Equal(t, 7, c.Get(3))
}

func TestPalettedContainerPreservesValuesAcrossPromotion(t *testing.T) {
	c := NewPalettedContainer[int](64, 4, 1)
	want := make([]int, c.Size())
	for i := range want {
		want[i] = i % 6 // forces Direct promotion
		c.Set(i, want[i])
	}
	for i, v := range want {
		require.Equal(t, v, c.Get(i), "cell %d", i)
	}
}

func TestPalettedContainerFillCollapsesToSingle(t *testing.T) {
	c := NewPalettedContainer[int](16, 4, 0)
	for i := 0; i < 16; i++ {
		c.Set(i, i%3)
	}
	c.Fill(9)
	assert.False(t, c.IsDirect())
	for i := 0; i < 16; i++ {
		require.Equal(t, 9, c.Get(i))
	}
}

func TestPalettedContainerOptimizeCollapsesUniform(t *testing.T) {
	c := NewPalettedContainer[int](16, 4, 0)
	c.Set(0, 2)
	c.Set(1, 2)
	// Overwrite back to the single value everywhere.
	c.Set(0, 0)
	c.Set(1, 0)
	c.Optimize()
	for i := 0; i < 16; i++ {
		require.Equal(t, 0, c.Get(i))
	}
}

func TestPalettedContainerOptimizeDropsUnreferenced(t *testing.T) {
	c := NewPalettedContainer[int](4, 4, 0)
	c.Set(0, 1)
	c.Set(1, 2)
	c.Set(1, 1) // cell 1 now also holds 1; nothing references 2 anymore
	before := []int{c.Get(0), c.Get(1), c.Get(2), c.Get(3)}
	c.Optimize()
	after := []int{c.Get(0), c.Get(1), c.Get(2), c.Get(3)}
	require.Equal(t, before, after)
	require.Equal(t, []int{1, 1, 0, 0}, after)
}
