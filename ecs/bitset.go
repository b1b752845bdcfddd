package ecs

import (
	"math/bits"
	"strconv"
	"strings"
)

const wordBits = 32

// BitSet is a growable bit vector stored as 32-bit words. It is the canonical
// representation of a component mask: bit v lives in word v>>5 at position v&31.
type BitSet struct {
	words []uint32
}

// NewBitSet creates an empty bit set with room for size words.
func NewBitSet(size int) *BitSet {
	return &BitSet{words: make([]uint32, size)}
}

// Mask builds a bit set with exactly the given bits set.
func Mask(values ...uint32) *BitSet {
	if len(values) == 0 {
		return NewBitSet(0)
	}

	highest := values[0]
	for _, v := range values[1:] {
		highest = max(highest, v)
	}

	b := NewBitSet(int(highest>>5) + 1)
	for _, v := range values {
		b.Or(v)
	}
	return b
}

// ComponentMask builds a mask from component IDs.
func ComponentMask(ids ...ComponentID) *BitSet {
	values := make([]uint32, len(ids))
	for i, id := range ids {
		values[i] = uint32(id)
	}
	return Mask(values...)
}

// grow reallocates so that word index fits, copying the old contents.
func (b *BitSet) grow(index int) {
	if index < len(b.words) {
		return
	}

	words := make([]uint32, index+1)
	copy(words, b.words)
	b.words = words
}

// Size returns the number of words currently allocated.
func (b *BitSet) Size() int {
	return len(b.words)
}

// Len returns the number of set bits.
func (b *BitSet) Len() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount32(w)
	}
	return n
}

// Has reports whether bit v is set. Reads past capacity return false.
func (b *BitSet) Has(v uint32) bool {
	index := int(v >> 5)
	if index >= len(b.words) {
		return false
	}
	return b.words[index]&(1<<(v&31)) != 0
}

// Or sets bit v, growing the set if needed.
func (b *BitSet) Or(v uint32) *BitSet {
	index := int(v >> 5)
	b.grow(index)
	b.words[index] |= 1 << (v & 31)
	return b
}

// Xor toggles bit v, growing the set if needed.
func (b *BitSet) Xor(v uint32) *BitSet {
	index := int(v >> 5)
	b.grow(index)
	b.words[index] ^= 1 << (v & 31)
	return b
}

// Contains reports whether every bit set in other is also set in b.
func (b *BitSet) Contains(other *BitSet) bool {
	if b == other {
		return true
	}

	n := min(len(b.words), len(other.words))
	for i := 0; i < n; i++ {
		if b.words[i]&other.words[i] != other.words[i] {
			return false
		}
	}

	// Words beyond b's capacity must be empty in other.
	for i := n; i < len(other.words); i++ {
		if other.words[i] != 0 {
			return false
		}
	}
	return true
}

// Intersects reports whether b and other share at least one set bit.
func (b *BitSet) Intersects(other *BitSet) bool {
	if b == other {
		return true
	}

	n := min(len(b.words), len(other.words))
	for i := 0; i < n; i++ {
		if b.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// Equal reports whether both sets have exactly the same bits set.
func (b *BitSet) Equal(other *BitSet) bool {
	return b.Contains(other) && other.Contains(b)
}

// Clone returns an independent copy.
func (b *BitSet) Clone() *BitSet {
	c := NewBitSet(len(b.words))
	copy(c.words, b.words)
	return c
}

// Values returns the set bit positions in ascending order.
func (b *BitSet) Values() []uint32 {
	values := make([]uint32, 0, b.Len())
	for i, w := range b.words {
		for w != 0 {
			shift := bits.TrailingZeros32(w)
			values = append(values, uint32(i)<<5|uint32(shift))
			w &^= 1 << shift
		}
	}
	return values
}

// Key returns the canonical identity string of the set. Sets with the same bits
// produce the same key regardless of their allocated size.
func (b *BitSet) Key() string {
	last := len(b.words) - 1
	for last >= 0 && b.words[last] == 0 {
		last--
	}
	if last < 0 {
		return "0"
	}

	var sb strings.Builder
	sb.Grow((last + 1) * 8)
	for i := last; i >= 0; i-- {
		word := strconv.FormatUint(uint64(b.words[i]), 16)
		if i != last {
			sb.WriteString(strings.Repeat("0", 8-len(word)))
		}
		sb.WriteString(word)
	}
	return sb.String()
}

func (b *BitSet) String() string {
	return b.Key()
}
