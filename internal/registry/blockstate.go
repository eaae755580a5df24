// Package registry holds the static, compile-time-built game-data
// tables: block states, items, entity kinds, biomes, and sounds.
// All tables are immutable once New has built them: every reader
// after that point shares them without locking.
package registry

import "sort"

// BlockStateID indexes one of the precomputed block-state permutations.
// It is 16 bits on the wire but widened to int32 wherever it meets the
// codec's VarInt-width ids.
type BlockStateID uint16

// Property is one named, enumerated axis of a block's state (e.g. "age" ∈
// {0..7}, "facing" ∈ {north,south,east,west}, "waterlogged" ∈ {true,false}).
type Property struct {
	Name   string
	Values []string
}

func (p Property) indexOf(value string) int {
	for i, v := range p.Values {
		if v == value {
			return i
		}
	}
	return -1
}

// BlockKind is one block type (e.g. "oak_log", "redstone_wire"). Its full
// state space is the Cartesian product of its Properties, permuted in
// Properties order — the same construction vanilla Minecraft's data
// generator uses, just built at Go init time instead of via codegen,
// over a representative catalog rather than the full
// ~796-kind/~25,000-state vanilla table.
type BlockKind struct {
	Name          string
	Properties    []Property
	DefaultValues []string // one default value per Properties entry
	Opacity       uint8    // 0 = fully transparent, 15 = fully opaque
	Luminance     uint8    // 0..15
	Liquid        bool
	Replaceable   bool
	Item          ItemKind
}

func (k BlockKind) stateCount() int {
	n := 1
	for _, p := range k.Properties {
		n *= len(p.Values)
	}
	return n
}

// kindRange is one BlockKind's contiguous slice of the global state space.
type kindRange struct {
	base int
	kind *BlockKind
}

// BlockRegistry is the immutable, fully built block-state table.
type BlockRegistry struct {
	kinds   []BlockKind
	ranges  []kindRange // sorted by base, ascending
	airID   BlockStateID
	stoneID BlockStateID
}

// Air returns the air block's default state id.
func (r *BlockRegistry) Air() BlockStateID { return r.airID }

// NewBlockRegistry builds the state table from kinds, in order: each kind
// is assigned the next contiguous range of state ids. kinds must include an
// entry named "air" and one named "stone" (used by chunk defaults and
// tests).
func NewBlockRegistry(kinds []BlockKind) *BlockRegistry {
	r := &BlockRegistry{kinds: kinds}
	base := 0
	for i := range r.kinds {
		k := &r.kinds[i]
		r.ranges = append(r.ranges, kindRange{base: base, kind: k})
		if k.Name == "air" {
			r.airID = BlockStateID(base + k.defaultIndex())
		}
		if k.Name == "stone" {
			r.stoneID = BlockStateID(base + k.defaultIndex())
		}
		base += k.stateCount()
	}
	return r
}

func (k BlockKind) defaultIndex() int {
	idx := 0
	mul := 1
	for i := len(k.Properties) - 1; i >= 0; i-- {
		p := k.Properties[i]
		v := p.indexOf(k.DefaultValues[i])
		if v < 0 {
			v = 0
		}
		idx += v * mul
		mul *= len(p.Values)
	}
	return idx
}

// rangeFor locates the kindRange owning a state id via binary search over
// sorted bases.
func (r *BlockRegistry) rangeFor(state BlockStateID) (kindRange, int) {
	i := sort.Search(len(r.ranges), func(i int) bool {
		return r.ranges[i].base > int(state)
	}) - 1
	if i < 0 {
		i = 0
	}
	return r.ranges[i], i
}

// Kind returns the BlockKind a state belongs to.
func (r *BlockRegistry) Kind(state BlockStateID) *BlockKind {
	kr, _ := r.rangeFor(state)
	return kr.kind
}

// DefaultState returns a BlockKind's default state id, looked up by name.
func (r *BlockRegistry) DefaultState(name string) (BlockStateID, bool) {
	for _, kr := range r.ranges {
		if kr.kind.Name == name {
			return BlockStateID(kr.base + kr.kind.defaultIndex()), true
		}
	}
	return 0, false
}

// digits decomposes a state's local index into one value-index per
// property, in Properties order — a mixed-radix decode.
func (k BlockKind) digits(localIndex int) []int {
	digits := make([]int, len(k.Properties))
	for i := len(k.Properties) - 1; i >= 0; i-- {
		n := len(k.Properties[i].Values)
		digits[i] = localIndex % n
		localIndex /= n
	}
	return digits
}

func (k BlockKind) compose(digits []int) int {
	idx := 0
	for i, p := range k.Properties {
		idx = idx*len(p.Values) + digits[i]
	}
	return idx
}

// Get returns a state's value for a named property, or "", false if the
// state's kind has no such property.
func (r *BlockRegistry) Get(state BlockStateID, propName string) (string, bool) {
	kr, _ := r.rangeFor(state)
	local := int(state) - kr.base
	digits := kr.kind.digits(local)
	for i, p := range kr.kind.Properties {
		if p.Name == propName {
			return p.Values[digits[i]], true
		}
	}
	return "", false
}

// Set returns the state reached by replacing one property's value, leaving
// all other properties and the block kind unchanged. Setting an unknown
// property or an out-of-domain value returns the input state unchanged.
// Invariant: state.Set(p, state.Get(p)) == state for every
// property p of state's kind, since Set reconstructs identical digits when
// value already equals the current one.
func (r *BlockRegistry) Set(state BlockStateID, propName, value string) BlockStateID {
	kr, _ := r.rangeFor(state)
	local := int(state) - kr.base
	digits := kr.kind.digits(local)
	for i, p := range kr.kind.Properties {
		if p.Name == propName {
			vi := p.indexOf(value)
			if vi < 0 {
				return state
			}
			digits[i] = vi
			return BlockStateID(kr.base + kr.kind.compose(digits))
		}
	}
	return state
}

// Opacity, Luminance, IsLiquid, IsReplaceable, and Item project the
// remaining per-state accessors; they depend only on
// the state's BlockKind, not its property values.
func (r *BlockRegistry) Opacity(state BlockStateID) uint8      { return r.Kind(state).Opacity }
func (r *BlockRegistry) Luminance(state BlockStateID) uint8    { return r.Kind(state).Luminance }
func (r *BlockRegistry) IsLiquid(state BlockStateID) bool      { return r.Kind(state).Liquid }
func (r *BlockRegistry) IsReplaceable(state BlockStateID) bool { return r.Kind(state).Replaceable }
func (r *BlockRegistry) Item(state BlockStateID) ItemKind      { return r.Kind(state).Item }

// IsAir reports whether a state is the air block, used to maintain each
// ChunkSection's non-air count.
func (r *BlockRegistry) IsAir(state BlockStateID) bool { return state == r.airID }

// StateCount returns the total number of distinct states in the registry.
func (r *BlockRegistry) StateCount() int {
	if len(r.ranges) == 0 {
		return 0
	}
	last := r.ranges[len(r.ranges)-1]
	return last.base + last.kind.stateCount()
}
