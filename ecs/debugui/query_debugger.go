package debugui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/seele/ecs"
)

type QueryDebuggerCache struct {
	components         []ecs.ComponentID
	lastArchetypeCount int
}

func NewQueryDebuggerComponent() QueryDebuggerComponent {
	return QueryDebuggerComponent{
		selected: make(map[ecs.ComponentID]bool),
		cache: &QueryDebuggerCache{
			lastArchetypeCount: -1,
		},
	}
}

func (qd *QueryDebuggerComponent) Render(d *Debugger) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(d)

	if imgui.TreeNodeStr("Registered Queries") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("RegisteredQueryTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Query")
			imgui.TableSetupColumn("Archetypes")
			imgui.TableSetupColumn("Entities")
			imgui.TableHeadersRow()

			for i, q := range d.world.Queries() {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("#%d", i))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", len(q.Archetypes())))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", q.Count()))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.Separator()
	imgui.Text("Select Components:")

	if imgui.Button("Clear All") {
		qd.selected = make(map[ecs.ComponentID]bool)
	}

	for _, c := range qd.cache.components {
		selected := qd.selected[c]
		if imgui.Checkbox(d.ComponentName(c), &selected) {
			if selected {
				qd.selected[c] = true
			} else {
				delete(qd.selected, c)
			}
		}
	}

	imgui.Separator()

	if len(qd.selected) == 0 {
		imgui.Text("No components selected")
		imgui.End()
		return
	}

	matching := qd.Match(d.world)
	totalEntities := 0
	for _, a := range matching {
		totalEntities += a.Len()
	}

	imgui.Text(fmt.Sprintf("Matching Archetypes: %d", len(matching)))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", totalEntities))

	if imgui.TreeNodeStr("Archetype Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryArchTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Mask")
			imgui.TableSetupColumn("All Components")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, a := range matching {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text("0x" + a.ID())

				imgui.TableSetColumnIndex(1)
				imgui.Text(strings.Join(d.ComponentNames(a), ", "))

				imgui.TableSetColumnIndex(2)
				imgui.Text(fmt.Sprintf("%d", a.Len()))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// Select toggles component c in the ad hoc query.
func (qd *QueryDebuggerComponent) Select(c ecs.ComponentID, selected bool) {
	if selected {
		qd.selected[c] = true
	} else {
		delete(qd.selected, c)
	}
}

// Match evaluates an every() query over the selected components against
// every archetype without registering it with the world.
func (qd *QueryDebuggerComponent) Match(world *ecs.World) []*ecs.Archetype {
	ids := make([]ecs.ComponentID, 0, len(qd.selected))
	for c := range qd.selected {
		ids = append(ids, c)
	}

	query := ecs.NewQuery(ecs.NewQueryBuilder().Every(ids...))
	world.Graph().Traverse(func(a *ecs.Archetype) {
		query.TryAdd(a)
	})
	return query.Archetypes()
}

func (qd *QueryDebuggerComponent) rebuildCacheIfNeeded(d *Debugger) {
	currentArchetypeCount := d.world.Graph().Len()
	if qd.cache.lastArchetypeCount != currentArchetypeCount {
		qd.cache.components = nil
		qd.cache.lastArchetypeCount = currentArchetypeCount
	}

	if qd.cache.components == nil {
		qd.rebuildCache(d)
	}
}

func (qd *QueryDebuggerComponent) rebuildCache(d *Debugger) {
	seen := make(map[ecs.ComponentID]bool)
	d.world.Graph().Traverse(func(a *ecs.Archetype) {
		for _, c := range a.Components() {
			seen[c] = true
		}
	})

	qd.cache.components = make([]ecs.ComponentID, 0, len(seen))
	for c := range seen {
		qd.cache.components = append(qd.cache.components, c)
	}

	slices.Sort(qd.cache.components)
}
