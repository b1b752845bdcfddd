package debugui_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/seele/ecs"
	"github.com/plus3/seele/ecs/debugui"
)

type Position struct{ X, Y float64 }

type Health struct{ Current int }

func TestDebugger(t *testing.T) {
	world := ecs.NewWorld()
	debugger := debugui.Install(world)

	position := world.DefineComponent(func() *Position { return &Position{} })
	health := world.DefineComponent(func() *Health { return &Health{Current: 10} })
	tag := world.DefineComponent()

	moving := world.DefineEntity(func(b *ecs.ArchetypeBuilder) { b.AddComponent(position) })
	living := world.DefineEntity(func(b *ecs.ArchetypeBuilder) {
		b.AddComponent(position).AddComponent(health)
	})

	world.Init()

	t.Run("render functions run after the systems", func(t *testing.T) {
		var order []string
		world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
			Name:  "probe",
			Query: ecs.QueryNone,
			Archetypes: func(*ecs.UpdateFrame, []*ecs.Archetype) {
				order = append(order, "system")
			},
		}))
		id := debugger.Spawn(func() { order = append(order, "render") })

		world.Update(1)
		assert.Equal(t, []string{"system", "render"}, order)

		world.RemoveEntity(id)
		order = nil
		world.Update(1)
		assert.Equal(t, []string{"system"}, order)
	})

	t.Run("component names", func(t *testing.T) {
		assert.Equal(t, "ImguiItem", debugger.ComponentName(debugger.Item))
		assert.Equal(t, "Position", debugger.ComponentName(position))
		assert.Equal(t, "Health", debugger.ComponentName(health))
		assert.Equal(t, "#4", debugger.ComponentName(tag))

		debugger.SetComponentName(tag, "Tag")
		assert.Equal(t, "Tag", debugger.ComponentName(tag))
		assert.Equal(t, []string{"Position", "Health"}, debugger.ComponentNames(living))
	})

	t.Run("query debugger matches without registering", func(t *testing.T) {
		queries := len(world.Queries())

		qd := debugui.NewQueryDebuggerComponent()
		qd.Select(position, true)
		assert.ElementsMatch(t, []*ecs.Archetype{moving, living}, qd.Match(world))

		qd.Select(health, true)
		assert.Equal(t, []*ecs.Archetype{living}, qd.Match(world))

		qd.Select(position, false)
		assert.Equal(t, []*ecs.Archetype{living}, qd.Match(world))

		assert.Len(t, world.Queries(), queries)
	})

	t.Run("entity browser filters", func(t *testing.T) {
		a := world.CreateEntity(moving)
		b := world.CreateEntity(living)

		eb := debugui.NewEntityBrowserComponent(10)
		eb.Refresh(debugger)

		ids := func() []ecs.EntityID {
			var out []ecs.EntityID
			for _, e := range eb.Filtered() {
				if e.ID == a || e.ID == b {
					out = append(out, e.ID)
				}
			}
			return out
		}
		assert.Equal(t, []ecs.EntityID{a, b}, ids())

		index := living.Index()
		eb.FilterArchetype(&index)
		assert.Equal(t, []ecs.EntityID{b}, ids())

		eb.FilterArchetype(nil)
		eb.SetFilterText("health")
		assert.Equal(t, []ecs.EntityID{b}, ids())

		world.RemoveEntity(b)
		eb.Refresh(debugger)
		assert.Empty(t, ids())
	})
}

func TestInspectorFields(t *testing.T) {
	type sample struct {
		Name   string
		Parent *sample
		hidden int
	}

	fields := debugui.InspectorFields(reflect.TypeFor[sample]())
	require.Len(t, fields, 2)
	assert.Equal(t, debugui.InspectorField{Name: "Name", Index: 0}, fields[0])
	assert.Equal(t, debugui.InspectorField{Name: "Parent", Index: 1, Pointer: true}, fields[1])
	assert.Equal(t, fields, debugui.InspectorFields(reflect.TypeFor[sample]()))

	assert.Empty(t, debugui.InspectorFields(reflect.TypeFor[int]()))
}

func TestDebuggerRender(t *testing.T) {
	world := ecs.NewWorld()
	debugger := debugui.New(world)
	world.Init()

	calls := 0
	debugger.Spawn(func() { calls++ })
	debugger.Spawn(nil)

	world.Update(1)
	assert.Equal(t, 0, calls, "New registers no system")
	assert.Empty(t, world.Systems())

	debugger.Render()
	debugger.Render()
	assert.Equal(t, 2, calls)
}

func TestPerformanceStatsLatency(t *testing.T) {
	ps := debugui.NewPerformanceStatsComponent(3)
	assert.Nil(t, ps.Latency("move"))

	for _, avg := range []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 4 * time.Millisecond} {
		ps.Record(&ecs.WorldStats{Systems: []ecs.SystemStats{{Name: "move", AvgDuration: avg}}})
	}

	assert.Equal(t, []float32{2, 3, 4}, ps.Latency("move"), "oldest sample first")
}
