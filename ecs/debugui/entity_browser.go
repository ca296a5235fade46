package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/grasp/ecs"
)

type entityRow struct {
	id        ecs.EntityId
	archId    uint32
	typeNames []string
}

type entityBrowserCache struct {
	rows           []entityRow
	archetypeCount int
	sortColumn     int
	sortAscending  bool
}

// NewEntityBrowserComponent creates an entity browser paginated at pageSize
// rows per page.
func NewEntityBrowserComponent(pageSize int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache:    &entityBrowserCache{sortAscending: true},
		pageSize: pageSize,
	}
}

// SelectedEntity returns the entity last clicked in the browser table, or 0.
func (eb *EntityBrowserComponent) SelectedEntity() ecs.EntityId {
	return eb.selectedEntity
}

// SetArchetypeFilter restricts the table to entities of one archetype. Pass
// nil to clear.
func (eb *EntityBrowserComponent) SetArchetypeFilter(id *uint32) {
	eb.filterArchetype = id
	eb.page = 0
}

func (eb *EntityBrowserComponent) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.refreshCache(storage)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterArchetype = nil
	}

	rows := eb.filteredRows()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Archetype")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortRows()
			sortSpecs.SetSpecsDirty(false)
			rows = eb.filteredRows()
		}

		start := eb.page * eb.pageSize
		end := min(start+eb.pageSize, len(rows))

		for i := start; i < end; i++ {
			row := rows[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntity == row.id
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.id), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntity = row.id
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", row.archId))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.typeNames, ", "))
		}

		imgui.EndTable()
	}

	if len(rows) > eb.pageSize {
		totalPages := (len(rows) + eb.pageSize - 1) / eb.pageSize
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.page+1, totalPages, len(rows)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.page > 0 {
			eb.page--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.page < totalPages-1 {
			eb.page++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(rows)))
	}

	imgui.End()
}

// refreshCache rebuilds the row list when the archetype set has changed.
func (eb *EntityBrowserComponent) refreshCache(storage *ecs.Storage) {
	archetypes := storage.GetArchetypes()
	if eb.cache.archetypeCount != len(archetypes) {
		eb.cache.rows = nil
		eb.cache.archetypeCount = len(archetypes)
	}
	if eb.cache.rows != nil {
		return
	}

	for _, archetype := range archetypes {
		typeNames := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			typeNames[i] = t.String()
		}
		for id := range archetype.Iter() {
			eb.cache.rows = append(eb.cache.rows, entityRow{
				id:        id,
				archId:    archetype.ID(),
				typeNames: typeNames,
			})
		}
	}

	eb.sortRows()
}

func (eb *EntityBrowserComponent) sortRows() {
	c := eb.cache
	sort.SliceStable(c.rows, func(i, j int) bool {
		a, b := c.rows[i], c.rows[j]
		var less bool
		switch c.sortColumn {
		case 1:
			less = a.archId < b.archId
		case 2:
			less = strings.Join(a.typeNames, ",") < strings.Join(b.typeNames, ",")
		default:
			less = a.id < b.id
		}
		if !c.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowserComponent) filteredRows() []entityRow {
	if eb.filterText == "" && eb.filterArchetype == nil {
		return eb.cache.rows
	}

	needle := strings.ToLower(eb.filterText)
	filtered := make([]entityRow, 0, len(eb.cache.rows))
	for _, row := range eb.cache.rows {
		if eb.filterArchetype != nil && row.archId != *eb.filterArchetype {
			continue
		}
		if needle != "" {
			haystack := fmt.Sprintf("%d 0x%x %s", row.id, row.archId, strings.ToLower(strings.Join(row.typeNames, " ")))
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		filtered = append(filtered, row)
	}
	return filtered
}
