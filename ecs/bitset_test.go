package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/seele/ecs"
)

func TestBitSet(t *testing.T) {
	t.Run("or and xor", func(t *testing.T) {
		b := ecs.NewBitSet(1)
		for _, v := range []uint32{0, 1, 31, 32, 100} {
			assert.False(t, b.Has(v))
			b.Or(v)
			assert.True(t, b.Has(v))
		}

		before := b.Key()
		b.Xor(77).Xor(77)
		assert.Equal(t, before, b.Key())

		b.Xor(31)
		assert.False(t, b.Has(31))
	})

	t.Run("grows on write", func(t *testing.T) {
		b := ecs.NewBitSet(0)
		assert.False(t, b.Has(1000))
		b.Or(1000)
		assert.Equal(t, 32, b.Size())
		assert.Equal(t, 1, b.Len())
	})

	t.Run("values", func(t *testing.T) {
		assert.Equal(t, []uint32{1, 2, 35}, ecs.Mask(35, 1, 2).Values())
		assert.Equal(t, 0, ecs.Mask().Size())
		assert.Empty(t, ecs.Mask().Values())
	})

	t.Run("contains and intersects", func(t *testing.T) {
		a := ecs.Mask(1, 2, 35)
		b := ecs.Mask(2, 35)
		c := ecs.Mask(3)
		empty := ecs.Mask()

		assert.True(t, a.Contains(b))
		assert.False(t, b.Contains(a))
		assert.True(t, a.Contains(empty))
		assert.False(t, empty.Contains(b))

		assert.True(t, a.Intersects(b))
		assert.Equal(t, a.Intersects(b), b.Intersects(a))
		assert.False(t, a.Intersects(c))
		assert.False(t, c.Intersects(a))
		assert.False(t, a.Intersects(empty))
	})

	t.Run("key ignores capacity", func(t *testing.T) {
		assert.Equal(t, ecs.Mask(1).Key(), ecs.NewBitSet(4).Or(1).Key())
		assert.Equal(t, "0", ecs.NewBitSet(3).Key())
		assert.Equal(t, "800000000", ecs.Mask(35).Key())
		assert.Equal(t, "800000002", ecs.Mask(1, 35).Key())
		assert.NotEqual(t, ecs.Mask(35).Key(), ecs.Mask(3).Key())

		grown := ecs.Mask(64)
		grown.Xor(64)
		assert.Equal(t, ecs.Mask().Key(), grown.Key())
		assert.True(t, grown.Equal(ecs.Mask()))
	})

	t.Run("clone is independent", func(t *testing.T) {
		a := ecs.Mask(4)
		b := a.Clone()
		b.Or(5)
		assert.False(t, a.Has(5))
	})
}

func TestSparseSet(t *testing.T) {
	s := ecs.NewSparseSet()

	assert.Equal(t, 0, s.Add(1))
	assert.Equal(t, 1, s.Add(2))
	assert.Equal(t, 2, s.Add(3))
	assert.Equal(t, -1, s.Add(2), "duplicate add")
	assert.True(t, s.Has(2))

	assert.Equal(t, 0, s.Remove(1))
	assert.False(t, s.Has(1))
	assert.Equal(t, []uint32{3, 2}, s.Values(), "last value swapped into the hole")
	assert.Equal(t, 0, s.Position(3))

	assert.Equal(t, -1, s.Remove(1))
	assert.Equal(t, -1, s.Remove(500))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, -1, s.Position(500))
}

func TestIDGenerator(t *testing.T) {
	ids := ecs.NewIDGenerator[ecs.EntityID](1)

	assert.Equal(t, ecs.EntityID(1), ids.Next())
	assert.Equal(t, ecs.EntityID(2), ids.Next())
	assert.Equal(t, ecs.EntityID(3), ids.Next())

	ids.Recycle(2)
	assert.Equal(t, ecs.EntityID(2), ids.Next())
	assert.Equal(t, ecs.EntityID(4), ids.Next())
	assert.Equal(t, ecs.EntityID(5), ids.Peek())

	ids.Recycle(1)
	ids.Reset(1)
	assert.Equal(t, ecs.EntityID(1), ids.Next())
	assert.Equal(t, ecs.EntityID(2), ids.Next())
}
