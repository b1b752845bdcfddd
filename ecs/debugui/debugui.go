// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// Render functions live on entities as ImguiItem components and are drawn after every system has run.
package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/seele/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks whether Dear ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Debugger owns the debug UI's components and system within one world.
type Debugger struct {
	world *ecs.World

	// Item is the component holding an *ImguiItem.
	Item ecs.ComponentID
	// Input is refreshed by RefreshInput.
	Input ImguiInputState

	item  *ecs.Archetype
	items *ecs.Query
	names map[ecs.ComponentID]string
}

// New defines the ImguiItem component and a query over it without
// registering a system. Call Render once per host frame to draw every item.
func New(world *ecs.World) *Debugger {
	d := &Debugger{
		world: world,
		names: make(map[ecs.ComponentID]string),
	}

	d.Item = world.DefineComponent(func() *ImguiItem { return &ImguiItem{} })
	d.names[d.Item] = "ImguiItem"

	d.item = world.DefineEntity(func(b *ecs.ArchetypeBuilder) {
		b.AddComponent(d.Item)
	})
	d.items = world.DefineQuery(func(q *ecs.QueryBuilder) *ecs.QueryBuilder {
		return q.Every(d.Item)
	})

	return d
}

// Install is New plus a system that defers every item's render function to
// the end of each tick. Use it when the world updates once per host frame.
// Call it before the world is initialized so the system sees every archetype.
func Install(world *ecs.World) *Debugger {
	d := New(world)

	world.RegisterSystem(world.DefineSystem(ecs.SystemDef{
		Name:       "debugui",
		Kind:       ecs.ArchetypeSystem,
		Resolved:   d.items,
		Archetypes: d.execute,
	}))

	return d
}

func (d *Debugger) execute(frame *ecs.UpdateFrame, _ []*ecs.Archetype) {
	d.each(func(item *ImguiItem) {
		frame.Commands.Defer(item.Render)
	})
}

// Render calls every item's render function now.
func (d *Debugger) Render() {
	d.each(func(item *ImguiItem) {
		item.Render()
	})
}

func (d *Debugger) each(fn func(item *ImguiItem)) {
	for _, row := range d.items.Entities() {
		item, ok := ecs.Lookup[*ImguiItem](row, d.Item)
		if !ok || item.Render == nil {
			continue
		}
		fn(item)
	}
}

// RefreshInput copies ImGui's input capture flags into Input. It needs a
// live ImGui context, so the backend calls it once the frame has begun.
func (d *Debugger) RefreshInput() {
	io := imgui.CurrentIO()
	d.Input.WantCaptureMouse = io.WantCaptureMouse()
	d.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()
}

// Spawn creates an entity rendering render every frame.
func (d *Debugger) Spawn(render func()) ecs.EntityID {
	return d.world.CreateEntity(d.item, func(row *ecs.Row) {
		row.Set(d.Item, &ImguiItem{Render: render})
	})
}

// SetComponentName labels component c in every window.
func (d *Debugger) SetComponentName(c ecs.ComponentID, name string) {
	d.names[c] = name
}

// ComponentName returns the label of component c. Unnamed components are
// labelled by the type of their default value.
func (d *Debugger) ComponentName(c ecs.ComponentID) string {
	if name, ok := d.names[c]; ok {
		return name
	}

	name := fmt.Sprintf("#%d", c)
	if factory := d.world.Registry().Factory(c); factory != nil {
		if v := factory(); v != nil {
			t := reflect.TypeOf(v)
			for t.Kind() == reflect.Pointer {
				t = t.Elem()
			}
			if t.Name() != "" {
				name = t.Name()
			} else {
				name = t.String()
			}
		}
	}

	d.names[c] = name
	return name
}

// ComponentNames labels every component of a.
func (d *Debugger) ComponentNames(a *ecs.Archetype) []string {
	components := a.Components()
	names := make([]string, len(components))
	for i, c := range components {
		names[i] = d.ComponentName(c)
	}
	return names
}
