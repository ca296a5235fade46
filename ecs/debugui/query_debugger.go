package debugui

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/grasp/ecs"
)

type queryDebuggerCache struct {
	typeNames      []string
	typesByName    map[string]reflect.Type
	archetypeCount int
}

// NewQueryDebuggerComponent creates a query debugger with no types selected.
func NewQueryDebuggerComponent() QueryDebuggerComponent {
	return QueryDebuggerComponent{
		selectedTypes: make(map[string]bool),
		cache:         &queryDebuggerCache{archetypeCount: -1},
	}
}

func (qd *QueryDebuggerComponent) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.refreshTypeList(storage)

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		clear(qd.selectedTypes)
	}

	for _, name := range qd.cache.typeNames {
		selected := qd.selectedTypes[name]
		if imgui.Checkbox(name, &selected) {
			if selected {
				qd.selectedTypes[name] = true
			} else {
				delete(qd.selectedTypes, name)
			}
		}
	}

	imgui.Separator()

	required := make([]reflect.Type, 0, len(qd.selectedTypes))
	for name := range qd.selectedTypes {
		if t, ok := qd.cache.typesByName[name]; ok {
			required = append(required, t)
		}
	}

	if len(required) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matching := matchingArchetypes(storage, required)
	totalEntities := 0
	for _, arch := range matching {
		for range arch.Iter() {
			totalEntities++
		}
	}

	imgui.Text(fmt.Sprintf("Matching Archetypes: %d", len(matching)))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", totalEntities))

	if imgui.TreeNodeStr("Archetype Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryArchTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Archetype ID")
			imgui.TableSetupColumn("All Components")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, arch := range matching {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("0x%X", arch.ID()))

				imgui.TableSetColumnIndex(1)
				names := make([]string, len(arch.Types()))
				for i, t := range arch.Types() {
					names[i] = t.String()
				}
				imgui.Text(strings.Join(names, ", "))

				imgui.TableSetColumnIndex(2)
				count := 0
				for range arch.Iter() {
					count++
				}
				imgui.Text(fmt.Sprintf("%d", count))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebuggerComponent) refreshTypeList(storage *ecs.Storage) {
	archetypes := storage.GetArchetypes()
	if qd.cache.archetypeCount == len(archetypes) {
		return
	}
	qd.cache.archetypeCount = len(archetypes)

	qd.cache.typesByName = make(map[string]reflect.Type)
	for _, archetype := range archetypes {
		for _, t := range archetype.Types() {
			qd.cache.typesByName[t.String()] = t
		}
	}

	qd.cache.typeNames = qd.cache.typeNames[:0]
	for name := range qd.cache.typesByName {
		qd.cache.typeNames = append(qd.cache.typeNames, name)
	}
	sort.Strings(qd.cache.typeNames)
}

// matchingArchetypes returns the archetypes whose component set is a
// superset of required.
func matchingArchetypes(storage *ecs.Storage, required []reflect.Type) []*ecs.Archetype {
	var matching []*ecs.Archetype
	for _, archetype := range storage.GetArchetypes() {
		hasAll := true
		for _, t := range required {
			if !archetype.HasComponent(t) {
				hasAll = false
				break
			}
		}
		if hasAll {
			matching = append(matching, archetype)
		}
	}
	return matching
}
