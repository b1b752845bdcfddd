package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/seele/ecs"
)

type ArchetypeInfo struct {
	Index          uint32
	Key            string
	Components     []string
	EntityCount    int
	ComponentCount int
}

type ArchetypeViewerCache struct {
	archetypes         []ArchetypeInfo
	lastArchetypeCount int
	sortColumn         int
	sortAscending      bool
}

func NewArchetypeViewerComponent() ArchetypeViewerComponent {
	return ArchetypeViewerComponent{
		cache: &ArchetypeViewerCache{
			sortColumn:    3,
			sortAscending: false,
		},
		sortColumn:    3,
		sortAscending: false,
	}
}

// Render draws the archetype table and returns the index of the archetype
// clicked this frame, if any.
func (av *ArchetypeViewerComponent) Render(d *Debugger) *uint32 {
	if !imgui.BeginV("Archetype Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	av.rebuildCacheIfNeeded(d)

	maxEntityCount := 0
	for _, arch := range av.cache.archetypes {
		if arch.EntityCount > maxEntityCount {
			maxEntityCount = arch.EntityCount
		}
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ArchetypeTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Mask")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Comp Count")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			av.cache.sortColumn = int(spec.ColumnIndex())
			av.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			av.sortColumn = av.cache.sortColumn
			av.sortAscending = av.cache.sortAscending
			av.sortArchetypes()
			sortSpecs.SetSpecsDirty(false)
		}

		var clicked *uint32

		for _, arch := range av.cache.archetypes {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := av.selectedArchetype != nil && *av.selectedArchetype == arch.Index
			if imgui.SelectableBoolV(fmt.Sprintf("0x%s##%d", arch.Key, arch.Index), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				index := arch.Index
				clicked = &index
				av.selectedArchetype = &index
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(arch.Components, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", arch.ComponentCount))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", arch.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(arch.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()

		imgui.End()
		return clicked
	}

	imgui.End()
	return nil
}

// Selected returns the index of the last clicked archetype.
func (av *ArchetypeViewerComponent) Selected() *uint32 {
	return av.selectedArchetype
}

func (av *ArchetypeViewerComponent) rebuildCacheIfNeeded(d *Debugger) {
	currentArchetypeCount := d.world.Graph().Len()
	if av.cache.lastArchetypeCount != currentArchetypeCount {
		av.cache.archetypes = nil
		av.cache.lastArchetypeCount = currentArchetypeCount
	}

	if av.cache.archetypes == nil {
		av.rebuildCache(d)
	} else {
		av.updateEntityCounts(d)
	}
}

func (av *ArchetypeViewerComponent) rebuildCache(d *Debugger) {
	graph := d.world.Graph()
	av.cache.archetypes = make([]ArchetypeInfo, 0, graph.Len())

	graph.Traverse(func(a *ecs.Archetype) {
		names := d.ComponentNames(a)
		av.cache.archetypes = append(av.cache.archetypes, ArchetypeInfo{
			Index:          a.Index(),
			Key:            a.ID(),
			Components:     names,
			EntityCount:    a.Len(),
			ComponentCount: len(names),
		})
	})

	av.sortArchetypes()
}

func (av *ArchetypeViewerComponent) updateEntityCounts(d *Debugger) {
	graph := d.world.Graph()
	for i := range av.cache.archetypes {
		av.cache.archetypes[i].EntityCount = graph.At(av.cache.archetypes[i].Index).Len()
	}

	if av.sortColumn == 3 {
		av.sortArchetypes()
	}
}

func (av *ArchetypeViewerComponent) sortArchetypes() {
	sort.Slice(av.cache.archetypes, func(i, j int) bool {
		a, b := av.cache.archetypes[i], av.cache.archetypes[j]
		var less bool

		switch av.cache.sortColumn {
		case 0:
			less = a.Index < b.Index
		case 1:
			less = strings.Join(a.Components, ",") < strings.Join(b.Components, ",")
		case 2:
			less = a.ComponentCount < b.ComponentCount
		case 3:
			less = a.EntityCount < b.EntityCount
		default:
			less = a.EntityCount < b.EntityCount
		}

		if !av.cache.sortAscending {
			return !less
		}
		return less
	})
}
