package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/grasp/ecs"
)

type archetypeRow struct {
	id          uint32
	typeNames   []string
	entityCount int
}

type archetypeViewerCache struct {
	rows          []archetypeRow
	selectedArch  *uint32
	sortColumn    int
	sortAscending bool
}

// NewArchetypeViewerComponent creates an archetype viewer sorted by entity
// count, largest first.
func NewArchetypeViewerComponent() ArchetypeViewerComponent {
	return ArchetypeViewerComponent{
		cache: &archetypeViewerCache{sortColumn: 3},
	}
}

// Render draws the archetype table and returns the archetype id clicked this
// frame, or nil.
func (av *ArchetypeViewerComponent) Render(storage *ecs.Storage) *uint32 {
	if !imgui.BeginV("Archetype Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	av.rebuildRows(storage)

	maxEntityCount := 0
	for _, row := range av.cache.rows {
		if row.entityCount > maxEntityCount {
			maxEntityCount = row.entityCount
		}
	}

	var clicked *uint32

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ArchetypeTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Comp Count")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			av.cache.sortColumn = int(spec.ColumnIndex())
			av.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			av.sortRows()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, row := range av.cache.rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := av.cache.selectedArch != nil && *av.cache.selectedArch == row.id
			if imgui.SelectableBoolV(fmt.Sprintf("0x%X", row.id), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				idCopy := row.id
				clicked = &idCopy
				av.cache.selectedArch = &idCopy
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.typeNames, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(row.typeNames)))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.entityCount))

			if maxEntityCount > 0 {
				barWidth := float32(row.entityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked
}

// rebuildRows refreshes from a storage snapshot every frame; entity counts
// move constantly, so there is nothing worth caching across frames.
func (av *ArchetypeViewerComponent) rebuildRows(storage *ecs.Storage) {
	stats := storage.CollectStats()

	av.cache.rows = av.cache.rows[:0]
	for _, arch := range stats.ArchetypeBreakdown {
		typeNames := make([]string, len(arch.ComponentTypes))
		for i, t := range arch.ComponentTypes {
			typeNames[i] = t.String()
		}
		av.cache.rows = append(av.cache.rows, archetypeRow{
			id:          arch.ID,
			typeNames:   typeNames,
			entityCount: arch.EntityCount,
		})
	}

	av.sortRows()
}

func (av *ArchetypeViewerComponent) sortRows() {
	c := av.cache
	sort.SliceStable(c.rows, func(i, j int) bool {
		a, b := c.rows[i], c.rows[j]
		var less bool
		switch c.sortColumn {
		case 0:
			less = a.id < b.id
		case 1:
			less = strings.Join(a.typeNames, ",") < strings.Join(b.typeNames, ",")
		case 2:
			less = len(a.typeNames) < len(b.typeNames)
		default:
			less = a.entityCount < b.entityCount
		}
		if !c.sortAscending {
			return !less
		}
		return less
	})
}
