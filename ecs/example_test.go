package ecs_test

import (
	"fmt"

	"github.com/plus3/seele/ecs"
)

// ExampleWorld moves walking and swimming pets with one system each and
// counts them with a third.
func ExampleWorld() {
	world := ecs.NewWorld()

	position := world.DefineComponent(func() *Position { return &Position{} })
	walk := world.DefineComponent(func() *WalkVector { return &WalkVector{} })
	swim := world.DefineComponent(func() *SwimVector { return &SwimVector{} })
	pet := world.DefineComponent()

	cat := world.DefineEntity(func(b *ecs.ArchetypeBuilder) {
		b.AddComponent(position).AddComponent(walk).AddComponent(pet)
	})
	fish := world.DefineEntity(func(b *ecs.ArchetypeBuilder) {
		b.AddComponent(position).AddComponent(swim).AddComponent(pet)
	})

	world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
		Name:  "walk",
		Query: func(q *ecs.QueryBuilder) *ecs.QueryBuilder { return q.Every(position, walk) },
		Entities: func(_ *ecs.UpdateFrame, entities []*ecs.Row) {
			for i := len(entities) - 1; i >= 0; i-- {
				p, v := ecs.Get[*Position](entities[i], position), ecs.Get[*WalkVector](entities[i], walk)
				p.X, p.Y = p.X+v.X, p.Y+v.Y
			}
		},
	}))
	world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
		Name:  "swim",
		Query: func(q *ecs.QueryBuilder) *ecs.QueryBuilder { return q.Every(position, swim) },
		Entities: func(_ *ecs.UpdateFrame, entities []*ecs.Row) {
			for i := len(entities) - 1; i >= 0; i-- {
				p, v := ecs.Get[*Position](entities[i], position), ecs.Get[*SwimVector](entities[i], swim)
				p.X, p.Y = p.X+v.X, p.Y+v.Y
			}
		},
	}))
	world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
		Name:  "count",
		Query: func(q *ecs.QueryBuilder) *ecs.QueryBuilder { return q.Every(pet) },
		Archetypes: func(_ *ecs.UpdateFrame, archetypes []*ecs.Archetype) {
			n := 0
			for _, a := range archetypes {
				n += a.Len()
			}
			fmt.Println("pets:", n)
		},
	}))

	tom := world.CreateEntity(cat, func(row *ecs.Row) {
		*ecs.Get[*WalkVector](row, walk) = WalkVector{X: 10, Y: 10}
	})
	nemo := world.CreateEntity(fish, func(row *ecs.Row) {
		*ecs.Get[*SwimVector](row, swim) = SwimVector{X: 5, Y: 5}
	})

	world.Init()
	world.Update(1)

	fmt.Println(*ecs.Get[*Position](world.Row(tom), position))
	fmt.Println(*ecs.Get[*Position](world.Row(nemo), position))
	// Output:
	// pets: 2
	// {10 10}
	// {5 5}
}

// ExampleCommands defers structural changes until every system has run.
func ExampleCommands() {
	world := ecs.NewWorld()
	health := world.DefineComponent(3)
	dead := world.DefineComponent()

	mortal := world.DefineEntity(func(b *ecs.ArchetypeBuilder) { b.AddComponent(health) })
	alive := world.DefineQuery(func(q *ecs.QueryBuilder) *ecs.QueryBuilder { return q.Every(health).Not(dead) })

	world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
		Name:     "decay",
		Resolved: alive,
		Entities: func(frame *ecs.UpdateFrame, entities []*ecs.Row) {
			for i := len(entities) - 1; i >= 0; i-- {
				hp := ecs.Get[int](entities[i], health) - 1
				entities[i].Set(health, hp)
				if hp == 0 {
					frame.Commands.AddComponent(entities[i].ID(), dead)
				}
			}
		},
	}))

	world.CreateEntity(mortal)
	world.CreateEntity(mortal, func(row *ecs.Row) { row.Set(health, 1) })
	world.Init()

	for tick := 1; tick <= 3; tick++ {
		world.Update(1)
		fmt.Printf("tick %d: %d alive\n", tick, alive.Count())
	}
	// Output:
	// tick 1: 1 alive
	// tick 2: 1 alive
	// tick 3: 0 alive
}

// ExampleQueryBuilder_Or matches archetypes that either walk or swim but are
// not pets.
func ExampleQueryBuilder_Or() {
	world := ecs.NewWorld()
	walk := world.DefineComponent()
	swim := world.DefineComponent()
	pet := world.DefineComponent()

	world.DefineEntity(func(b *ecs.ArchetypeBuilder) { b.AddComponent(walk) })
	world.DefineEntity(func(b *ecs.ArchetypeBuilder) { b.AddComponent(swim) })
	world.DefineEntity(func(b *ecs.ArchetypeBuilder) { b.AddComponent(swim).AddComponent(pet) })
	world.Init()

	wild := world.DefineQuery(func(q *ecs.QueryBuilder) *ecs.QueryBuilder {
		return q.Every(walk).Or(func(q *ecs.QueryBuilder) *ecs.QueryBuilder {
			return q.Every(swim)
		}).Not(pet)
	})

	for _, a := range wild.Archetypes() {
		fmt.Println(a.Components())
	}
	// Output:
	// [1]
	// [2]
}
