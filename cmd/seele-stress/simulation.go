package main

import (
	"fmt"
	"math/rand"

	"github.com/plus3/seele/ecs"
)

// Counter is the value of every generated component.
type Counter struct {
	Value int64 `yaml:"value"`
}

type simulation struct {
	world      *ecs.World
	components []ecs.ComponentID
	live       []ecs.EntityID
	rng        *rand.Rand
	churn      int
}

func defineComponents(world *ecs.World, n int) []ecs.ComponentID {
	components := make([]ecs.ComponentID, n)
	for i := range components {
		components[i] = world.DefineComponent(func() *Counter { return &Counter{} })
	}
	return components
}

func newSimulation(cfg Config, logger ecs.Logger) *simulation {
	world := ecs.NewWorld(ecs.WithLogger(logger))

	sim := &simulation{
		world:      world,
		components: defineComponents(world, cfg.Components),
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		churn:      cfg.Churn,
	}

	for i := 0; i < cfg.Systems; i++ {
		world.RegisterSystem(world.DefineSystem(sim.countingSystem(i)))
	}
	world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
		Name:       "churn",
		Query:      ecs.QueryNone,
		Archetypes: sim.mutate,
	}))

	for i := 0; i < cfg.Entities; i++ {
		sim.live = append(sim.live, sim.spawn(sim.rng.Intn(5)+1))
	}

	world.Init()
	return sim
}

// countingSystem increments every counter of one to three random components.
// Every fourth system is throttled.
func (s *simulation) countingSystem(i int) ecs.SystemDef {
	picked := s.pick(s.rng.Intn(3) + 1)

	def := ecs.SystemDef{
		Name: fmt.Sprintf("count-%02d", i),
		Query: func(q *ecs.QueryBuilder) *ecs.QueryBuilder {
			return q.Every(picked...)
		},
		Entities: func(_ *ecs.UpdateFrame, rows []*ecs.Row) {
			for j := len(rows) - 1; j >= 0; j-- {
				for _, c := range picked {
					ecs.Get[*Counter](rows[j], c).Value++
				}
			}
		},
	}
	if i%4 == 3 {
		def.Interval = 100
		def.Immediate = true
	}
	return def
}

// mutate queues random structural changes: component toggles and entity
// replacement.
func (s *simulation) mutate(frame *ecs.UpdateFrame, _ []*ecs.Archetype) {
	if len(s.live) == 0 {
		return
	}

	replaced := make(map[int]bool)
	for i := 0; i < s.churn; i++ {
		slot := s.rng.Intn(len(s.live))
		if replaced[slot] {
			continue
		}
		id := s.live[slot]
		c := s.components[s.rng.Intn(len(s.components))]

		switch roll := s.rng.Intn(10); {
		case roll < 4:
			frame.Commands.AddComponent(id, c)
		case roll < 8:
			frame.Commands.RemoveComponent(id, c)
		default:
			size := s.rng.Intn(5) + 1
			replaced[slot] = true
			frame.Commands.RemoveEntity(id)
			frame.Commands.Defer(func() {
				s.live[slot] = s.spawn(size)
			})
		}
	}
}

func (s *simulation) spawn(size int) ecs.EntityID {
	builder := ecs.NewArchetypeBuilder()
	for _, c := range s.pick(size) {
		builder.AddComponent(c)
	}
	return s.world.CreateEntity(builder)
}

func (s *simulation) pick(n int) []ecs.ComponentID {
	n = min(n, len(s.components))
	picked := make([]ecs.ComponentID, 0, n)
	for _, i := range s.rng.Perm(len(s.components))[:n] {
		picked = append(picked, s.components[i])
	}
	return picked
}
