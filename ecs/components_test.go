package ecs_test

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/plus3/seele/ecs"
)

type Position struct {
	X, Y float64
}

type WalkVector struct {
	X, Y float64
}

type SwimVector struct {
	X, Y float64
}

// petWorld is the fixture most tests share: cats walk, fish swim, both are
// pets.
type petWorld struct {
	*ecs.World

	Position ecs.ComponentID
	Walk     ecs.ComponentID
	Swim     ecs.ComponentID
	Pet      ecs.ComponentID
	Name     ecs.ComponentID

	Cat  *ecs.Archetype
	Fish *ecs.Archetype
}

func newPetWorld(opts ...ecs.Option) *petWorld {
	w := &petWorld{World: ecs.NewWorld(opts...)}

	w.Position = w.DefineComponent(func() *Position { return &Position{} })
	w.Walk = w.DefineComponent(func() *WalkVector { return &WalkVector{} })
	w.Swim = w.DefineComponent(func() *SwimVector { return &SwimVector{} })
	w.Pet = w.DefineComponent()
	w.Name = w.DefineComponent("anonymous")

	w.Cat = w.DefineEntity(func(b *ecs.ArchetypeBuilder) {
		b.AddComponent(w.Position).AddComponent(w.Walk).AddComponent(w.Pet)
	})
	w.Fish = w.DefineEntity(func(b *ecs.ArchetypeBuilder) {
		b.AddComponent(w.Position).AddComponent(w.Swim).AddComponent(w.Pet)
	})
	return w
}

func (w *petWorld) spawnCat(x, y float64) ecs.EntityID {
	return w.CreateEntity(w.Cat, func(row *ecs.Row) {
		*ecs.Get[*WalkVector](row, w.Walk) = WalkVector{X: x, Y: y}
	})
}

func (w *petWorld) spawnFish(x, y float64) ecs.EntityID {
	return w.CreateEntity(w.Fish, func(row *ecs.Row) {
		*ecs.Get[*SwimVector](row, w.Swim) = SwimVector{X: x, Y: y}
	})
}

// observedLogger returns a world logger whose output can be inspected.
func observedLogger() (ecs.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return ecs.NewZapLogger(zap.New(core)), logs
}
