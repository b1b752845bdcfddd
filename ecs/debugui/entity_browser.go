package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/seele/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityID
	Archetype      uint32
	Components     []string
	ComponentCount int
}

type EntityBrowserCache struct {
	entities           []EntityInfo
	lastArchetypeCount int
	lastEntityCount    int
	sortColumn         int
	sortAscending      bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Render(d *Debugger) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(d)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterArchetype = nil
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Archetype")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		filteredEntities := eb.Filtered()

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.Archetype))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.Components, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	filteredEntities := eb.Filtered()

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// FilterArchetype restricts the list to one archetype. Nil shows all.
func (eb *EntityBrowserComponent) FilterArchetype(index *uint32) {
	eb.filterArchetype = index
	eb.currentPage = 0
}

// SetFilterText sets the search text.
func (eb *EntityBrowserComponent) SetFilterText(text string) {
	eb.filterText = text
	eb.currentPage = 0
}

// Refresh rebuilds the entity list when the world's shape changed.
func (eb *EntityBrowserComponent) Refresh(d *Debugger) {
	eb.rebuildCacheIfNeeded(d)
}

func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(d *Debugger) {
	stats := d.world.Stats()
	if eb.cache.lastArchetypeCount != stats.ArchetypeCount || eb.cache.lastEntityCount != stats.TotalEntityCount {
		eb.cache.entities = nil
		eb.cache.lastArchetypeCount = stats.ArchetypeCount
		eb.cache.lastEntityCount = stats.TotalEntityCount
	}

	if eb.cache.entities == nil {
		eb.rebuildCache(d)
	}
}

func (eb *EntityBrowserComponent) rebuildCache(d *Debugger) {
	eb.cache.entities = make([]EntityInfo, 0, 1024)

	d.world.Graph().Traverse(func(a *ecs.Archetype) {
		names := d.ComponentNames(a)
		for _, row := range a.Entities() {
			eb.cache.entities = append(eb.cache.entities, EntityInfo{
				ID:             row.ID(),
				Archetype:      a.Index(),
				Components:     names,
				ComponentCount: len(names),
			})
		}
	})

	eb.sortEntities()
}

func (eb *EntityBrowserComponent) sortEntities() {
	sort.Slice(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 0:
			less = a.ID < b.ID
		case 1:
			less = a.Archetype < b.Archetype
		case 2:
			less = strings.Join(a.Components, ",") < strings.Join(b.Components, ",")
		case 3:
			less = a.ComponentCount < b.ComponentCount
		default:
			less = a.ID < b.ID
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

// Filtered returns the cached entities matching the archetype filter and the
// search text.
func (eb *EntityBrowserComponent) Filtered() []EntityInfo {
	if eb.filterText == "" && eb.filterArchetype == nil {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterArchetype != nil && entity.Archetype != *eb.filterArchetype {
			continue
		}

		if eb.filterText != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			componentsStr := strings.ToLower(strings.Join(entity.Components, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowserComponent) GetSelectedEntity() ecs.EntityID {
	return eb.selectedEntityId
}
