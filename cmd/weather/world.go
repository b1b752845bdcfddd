package main

import (
	"math"
	"math/rand"

	"github.com/plus3/seele/ecs"
)

// Area bounds creature movement.
type Area struct {
	Left, Right, Top, Bottom float64
}

type Vec2 struct {
	X, Y float64
}

type Temperature struct {
	Degrees float64
}

type Components struct {
	Freeze      ecs.ComponentID
	Hot         ecs.ComponentID
	Position    ecs.ComponentID // *Vec2
	Direction   ecs.ComponentID // *Vec2
	Temperature ecs.ComponentID // *Temperature
	HP          ecs.ComponentID // int
	Name        ecs.ComponentID // string
}

// Weather is a world of creatures wandering an area while their temperature
// drifts. Creatures freeze in place below -50 degrees and overheat above 100.
type Weather struct {
	World      *ecs.World
	Components Components
	Creature   *ecs.Archetype
	Area       Area

	// Visible is the row snapshot taken by the render system.
	Visible []*ecs.Row

	rng *rand.Rand
}

func NewWeather(world *ecs.World, area Area, rng *rand.Rand) *Weather {
	w := &Weather{World: world, Area: area, rng: rng}

	w.Components = Components{
		Freeze:      world.DefineComponent(),
		Hot:         world.DefineComponent(),
		Position:    world.DefineComponent(func() *Vec2 { return &Vec2{} }),
		Temperature: world.DefineComponent(func() *Temperature { return &Temperature{} }),
		HP:          world.DefineComponent(100),
		Name:        world.DefineComponent(""),
		Direction:   world.DefineComponent(func() *Vec2 { return &Vec2{X: 1, Y: 1} }),
	}

	c := w.Components
	w.Creature = world.DefineEntity(func(b *ecs.ArchetypeBuilder) {
		b.AddComponent(c.Position).
			AddComponent(c.Direction).
			AddComponent(c.Temperature).
			AddComponent(c.HP).
			AddComponent(c.Name)
	})

	world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
		Name:       "weather",
		Kind:       ecs.ArchetypeSystem,
		Query:      func(q *ecs.QueryBuilder) *ecs.QueryBuilder { return q.Some(c.Temperature) },
		Archetypes: w.weather,
	}))
	world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
		Name:     "movement",
		Query:    func(q *ecs.QueryBuilder) *ecs.QueryBuilder { return q.Some(c.Position, c.Direction).Not(c.Freeze) },
		Entities: w.move,
	}))
	world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
		Name:     "collision",
		Query:    func(q *ecs.QueryBuilder) *ecs.QueryBuilder { return q.Some(c.Position, c.Direction) },
		Entities: w.collide,
	}))
	world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
		Name:       "render",
		Kind:       ecs.ArchetypeSystem,
		Query:      func(q *ecs.QueryBuilder) *ecs.QueryBuilder { return q.Some(c.Position) },
		Interval:   41.7,
		Immediate:  true,
		Archetypes: w.collect,
	}))

	return w
}

// Spawn creates n creatures at random positions.
func (w *Weather) Spawn(n int) {
	for range n {
		w.World.CreateEntity(w.Creature, func(row *ecs.Row) {
			p := ecs.Get[*Vec2](row, w.Components.Position)
			p.X = w.Area.Left + w.rng.Float64()*(w.Area.Right-w.Area.Left)
			p.Y = w.Area.Top + w.rng.Float64()*(w.Area.Bottom-w.Area.Top)

			d := ecs.Get[*Vec2](row, w.Components.Direction)
			if w.rng.Intn(2) == 0 {
				d.X = -1
			}
			if w.rng.Intn(2) == 0 {
				d.Y = -1
			}
		})
	}
}

// weather drifts every temperature. Crossing a threshold tags the creature
// and resets its temperature; tagged creatures recover over time and lose the
// tag once back in range.
func (w *Weather) weather(frame *ecs.UpdateFrame, archetypes []*ecs.Archetype) {
	c := w.Components
	delta := frame.DeltaTime

	for _, a := range archetypes {
		frozen := a.HasComponent(c.Freeze)
		hot := a.HasComponent(c.Hot)
		entities := a.Entities()

		for i := len(entities) - 1; i >= 0; i-- {
			row := entities[i]
			t := ecs.Get[*Temperature](row, c.Temperature)

			switch {
			case t.Degrees < -50:
				if frozen {
					t.Degrees += delta / 180
				} else {
					t.Degrees = 0
					frame.Commands.AddComponent(row.ID(), c.Freeze)
				}
			case t.Degrees > 100:
				if hot {
					t.Degrees -= delta / 180
				} else {
					t.Degrees = 0
					frame.Commands.AddComponent(row.ID(), c.Hot)
				}
			case frozen:
				frame.Commands.RemoveComponent(row.ID(), c.Freeze)
				t.Degrees = 0
			case hot:
				frame.Commands.RemoveComponent(row.ID(), c.Hot)
				t.Degrees = 0
			default:
				drift := math.Round(delta * (w.rng.Float64()*2 - 1) * 2)
				t.Degrees = max(-100, min(100, t.Degrees+drift))
			}
		}
	}
}

func (w *Weather) move(frame *ecs.UpdateFrame, entities []*ecs.Row) {
	c := w.Components
	for i := len(entities) - 1; i >= 0; i-- {
		p := ecs.Get[*Vec2](entities[i], c.Position)
		d := ecs.Get[*Vec2](entities[i], c.Direction)

		p.X += d.X * math.Round(w.rng.Float64()*frame.DeltaTime)
		p.Y += d.Y * math.Round(w.rng.Float64()*frame.DeltaTime)
	}
}

func (w *Weather) collide(_ *ecs.UpdateFrame, entities []*ecs.Row) {
	c := w.Components
	for i := len(entities) - 1; i >= 0; i-- {
		p := ecs.Get[*Vec2](entities[i], c.Position)
		d := ecs.Get[*Vec2](entities[i], c.Direction)

		if p.X > w.Area.Right {
			d.X *= -1
			p.X = w.Area.Right
		} else if p.X < w.Area.Left {
			d.X *= -1
			p.X = w.Area.Left
		}

		if p.Y > w.Area.Bottom {
			d.Y *= -1
			p.Y = w.Area.Bottom
		} else if p.Y < w.Area.Top {
			d.Y *= -1
			p.Y = w.Area.Top
		}
	}
}

func (w *Weather) collect(_ *ecs.UpdateFrame, archetypes []*ecs.Archetype) {
	w.Visible = w.Visible[:0]
	for i := len(archetypes) - 1; i >= 0; i-- {
		w.Visible = append(w.Visible, archetypes[i].Entities()...)
	}
}

// State classifies a creature for drawing.
func (w *Weather) State(row *ecs.Row) string {
	switch {
	case w.World.HasComponent(row.ID(), w.Components.Freeze):
		return "frozen"
	case w.World.HasComponent(row.ID(), w.Components.Hot):
		return "hot"
	default:
		return "normal"
	}
}
