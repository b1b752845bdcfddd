package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/seele/ecs"
)

func TestArchetype(t *testing.T) {
	registry := ecs.NewInstanceRegistry(nil, false)
	registry.Register(1, func() *Position { return &Position{X: 1} })
	registry.Register(2, 7)

	mask := ecs.Mask(1, 2)
	a := ecs.NewArchetype(0, mask.Key(), mask, registry.Creator(mask))

	first := a.AddEntity(10, nil)
	assert.Equal(t, ecs.EntityID(10), first.ID())
	assert.Equal(t, &Position{X: 1}, ecs.Get[*Position](first, 1))
	assert.Equal(t, 7, ecs.Get[int](first, 2))
	assert.Same(t, first, a.AddEntity(10, nil), "adding twice returns the stored row")

	a.AddEntity(11, nil)
	a.AddEntity(12, nil)
	require.Equal(t, 3, a.Len())

	removed := a.RemoveEntity(10)
	assert.Same(t, first, removed)
	assert.False(t, a.HasEntity(10))
	assert.Equal(t, ecs.EntityID(12), a.Entities()[0].ID(), "last row fills the gap")
	assert.Same(t, a.Entities()[0], a.Row(12))
	assert.Nil(t, a.RemoveEntity(10))
	assert.Nil(t, a.Row(10))

	t.Run("traverse tolerates removal", func(t *testing.T) {
		var seen []ecs.EntityID
		a.Traverse(func(row *ecs.Row) {
			seen = append(seen, row.ID())
			a.RemoveEntity(row.ID())
		})
		assert.Equal(t, []ecs.EntityID{11, 12}, seen)
		assert.Zero(t, a.Len())
	})

	t.Run("reinserted rows keep their values", func(t *testing.T) {
		ecs.Get[*Position](removed, 1).Y = 9
		a.AddEntity(20, removed)
		assert.Equal(t, &Position{X: 1, Y: 9}, ecs.Get[*Position](a.Row(20), 1))
	})
}

func TestArchetypeGraph(t *testing.T) {
	registry := ecs.NewInstanceRegistry(nil, false)
	for id := ecs.ComponentID(1); id <= 40; id++ {
		registry.Register(id, nil)
	}
	graph := ecs.NewArchetypeGraph(registry)

	mask := ecs.Mask(1, 2)
	a, created := graph.Create(mask)
	require.True(t, created)

	b, created := graph.Create(ecs.NewBitSet(3).Or(2).Or(1))
	assert.False(t, created)
	assert.Same(t, a, b, "equal masks share an archetype regardless of capacity")

	mask.Or(3)
	assert.False(t, a.HasComponent(3), "the graph keeps its own copy of the mask")

	t.Run("transform caches both directions", func(t *testing.T) {
		c, created := graph.Transform(a, 35)
		require.True(t, created)
		assert.Equal(t, []ecs.ComponentID{1, 2, 35}, c.Components())
		assert.Equal(t, []uint32{1, 2}, a.Mask().Values(), "source mask is restored")

		again, created := graph.Transform(a, 35)
		assert.False(t, created)
		assert.Same(t, c, again)

		back, _ := graph.Transform(c, 35)
		assert.Same(t, a, back)

		index, ok := c.Adjacent(35)
		require.True(t, ok)
		assert.Equal(t, a.Index(), index)
	})

	t.Run("failed transform leaves the source mask alone", func(t *testing.T) {
		archetypes := graph.Len()
		assert.Panics(t, func() { graph.Transform(a, 99) })

		assert.Equal(t, []uint32{1, 2}, a.Mask().Values())
		assert.False(t, a.HasComponent(99))
		assert.Equal(t, archetypes, graph.Len())
		_, cached := a.Adjacent(99)
		assert.False(t, cached)
	})

	t.Run("lookup", func(t *testing.T) {
		got, ok := graph.Get(a.ID())
		require.True(t, ok)
		assert.Same(t, a, got)
		assert.Same(t, a, graph.At(a.Index()))

		_, ok = graph.Get("missing")
		assert.False(t, ok)

		keyed, created := graph.Create(ecs.Mask(4), "custom")
		assert.True(t, created)
		assert.Equal(t, "custom", keyed.ID())
		assert.Equal(t, 3, graph.Len())
	})

	t.Run("serialize", func(t *testing.T) {
		a.AddEntity(1, nil)
		data := graph.OnSerialize(a)
		assert.Equal(t, []uint32{1, 2}, data.Mask)
		require.Len(t, data.Entities, 1)

		builder, rows := graph.OnDeserialize(data)
		assert.True(t, builder.Mask().Equal(a.Mask()))
		assert.Same(t, data.Entities[0], rows[0])
	})
}

func TestArchetypeBuilder(t *testing.T) {
	w := newPetWorld()

	b := ecs.NewArchetypeBuilder().AddEntity(w.Cat).AddComponent(w.Name).RemoveComponent(w.Walk).RemoveComponent(w.Swim)
	assert.Equal(t, []uint32{uint32(w.Position), uint32(w.Pet), uint32(w.Name)}, b.Mask().Values())
}

func TestInstanceRegistry(t *testing.T) {
	registry := ecs.NewInstanceRegistry(nil, false)
	registry.Register(1, ecs.Factory(func() any { return "factory" }))
	registry.Register(2, func() any { return 2 })
	registry.Register(3, "constant")
	registry.Register(4, nil)

	assert.Equal(t, "factory", registry.Factory(1)())
	assert.Equal(t, 2, registry.Factory(2)())
	assert.Equal(t, "constant", registry.Factory(3)())
	assert.Nil(t, registry.Factory(4)())
	assert.True(t, registry.Has(4))
	assert.False(t, registry.Has(5))
	assert.Nil(t, registry.Factory(5))

	creator := registry.Creator(ecs.Mask(1, 3))
	row := creator()
	assert.Equal(t, "factory", row.Get(1))
	assert.Nil(t, row.Get(2))
	assert.Equal(t, "constant", row.Get(3))

	assert.Panics(t, func() { registry.Creator(ecs.Mask(5)) })
}
