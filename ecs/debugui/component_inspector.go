package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/seele/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

// Render shows every component value of the selected entity. Fields of
// pointer values are editable in place.
func (ci *ComponentInspectorComponent) Render(d *Debugger, selectedEntityId ecs.EntityID) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntityId = selectedEntityId

	if ci.selectedEntityId == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	archetype, ok := d.world.Archetype(ci.selectedEntityId)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d no longer exists", ci.selectedEntityId))
		imgui.End()
		return
	}
	row := archetype.Row(ci.selectedEntityId)

	imgui.Text(fmt.Sprintf("Entity ID: %d", ci.selectedEntityId))
	imgui.Text(fmt.Sprintf("Archetype: 0x%s", archetype.ID()))
	imgui.Separator()

	for _, c := range archetype.Components() {
		component := row.Get(c)
		if component == nil {
			imgui.BulletText(fmt.Sprintf("%s: nil", d.ComponentName(c)))
			continue
		}

		if imgui.TreeNodeStr(d.ComponentName(c)) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspectorComponent) renderComponent(component any) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		imgui.Text(fmt.Sprintf("%v", val.Interface()))
		return
	}

	for _, field := range InspectorFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.Pointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}

		ci.renderField(field.Name, fieldVal, field)
	}
}

func (ci *ComponentInspectorComponent) renderField(name string, val reflect.Value, field InspectorField) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.Pointer && val.Kind() == reflect.Ptr && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range InspectorFields(val.Type()) {
				nestedVal := val.Field(nf.Index)
				if nf.Pointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderField(nf.Name, nestedVal, nf)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

// InspectorField is an exported struct field the inspector can edit.
type InspectorField struct {
	Name    string
	Index   int
	Pointer bool
}

// inspectorFields is only touched from the UI goroutine.
var inspectorFields = map[reflect.Type][]InspectorField{}

// InspectorFields returns the exported fields of struct type t, or nil for any
// other kind.
func InspectorFields(t reflect.Type) []InspectorField {
	if fields, ok := inspectorFields[t]; ok {
		return fields
	}

	var fields []InspectorField
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() {
				fields = append(fields, InspectorField{Name: f.Name, Index: i, Pointer: f.Type.Kind() == reflect.Pointer})
			}
		}
	}
	inspectorFields[t] = fields
	return fields
}
