package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlocks() *BlockRegistry {
	items := NewItemRegistry(DefaultItemNames)
	return NewBlockRegistry(DefaultBlockKinds(items))
}

func TestBlockRegistryAirAndStoneResolved(t *testing.T) {
	r := testBlocks()
	assert.Equal(t, "air", r.Kind(r.Air()).Name)
	assert.True(t, r.IsAir(r.Air()))

	stone, ok := r.DefaultState("stone")
	require.True(t, ok)
	assert.False(t, r.IsAir(stone))
	assert.Equal(t, uint8(15), r.Opacity(stone))
}

// Property get/set round-trip: setting a property to its own
// current value must return the identical state.
func TestBlockStateSetOwnValueIsIdentity(t *testing.T) {
	r := testBlocks()
	door, ok := r.DefaultState("oak_door")
	require.True(t, ok)

	for _, prop := range r.Kind(door).Properties {
		v, ok := r.Get(door, prop.Name)
		require.True(t, ok)
		assert.Equal(t, door, r.Set(door, prop.Name, v))
	}
}

func TestBlockStateSetChangesOnlyNamedProperty(t *testing.T) {
	r := testBlocks()
	door, _ := r.DefaultState("oak_door")

	opened := r.Set(door, "open", "true")
	assert.NotEqual(t, door, opened)

	v, ok := r.Get(opened, "open")
	require.True(t, ok)
	assert.Equal(t, "true", v)

	// Every other property is unchanged.
	for _, prop := range r.Kind(door).Properties {
		if prop.Name == "open" {
			continue
		}
		before, _ := r.Get(door, prop.Name)
		after, _ := r.Get(opened, prop.Name)
		assert.Equal(t, before, after, "property %s changed", prop.Name)
	}
}

func TestBlockStateGetUnknownPropertyReturnsFalse(t *testing.T) {
	r := testBlocks()
	stone, _ := r.DefaultState("stone")
	_, ok := r.Get(stone, "nonexistent")
	assert.False(t, ok)
}

func TestBlockStateSetUnknownValueReturnsUnchanged(t *testing.T) {
	r := testBlocks()
	door, _ := r.DefaultState("oak_door")
	same := r.Set(door, "open", "sideways")
	assert.Equal(t, door, same)
}

func TestBlockStateEveryPermutationDecodesToSameKind(t *testing.T) {
	r := testBlocks()
	base, _ := r.DefaultState("repeater")
	kind := r.Kind(base)
	count := kind.stateCount()
	for local := 0; local < count; local++ {
		state := BlockStateID(int(base) - kind.defaultIndex() + local)
		assert.Same(t, kind, r.Kind(state))
	}
}
