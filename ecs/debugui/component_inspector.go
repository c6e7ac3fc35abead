package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/obelisk/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

// Render shows the selected entity's components. Edits are written straight
// through the component pointers.
func (ci *ComponentInspectorComponent) Render(world *ecs.World, selectedEntityId ecs.EntityId) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntityId = selectedEntityId

	if ci.selectedEntityId.IsZero() {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	if !world.EntityExists(ci.selectedEntityId) {
		imgui.Text(fmt.Sprintf("Entity %s no longer exists", ci.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %s", ci.selectedEntityId))
	imgui.Text(fmt.Sprintf("Index: %d  Generation: %d", ci.selectedEntityId.Index(), ci.selectedEntityId.Generation()))
	imgui.Separator()

	for _, component := range world.Components(ci.selectedEntityId) {
		val := reflect.ValueOf(component).Elem()
		compType := val.Type()

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderComponent(val, compType.String())
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspectorComponent) renderComponent(val reflect.Value, path string) {
	if val.Kind() != reflect.Struct {
		ci.renderField("value", path, val, false)
		return
	}

	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		ci.renderField(field.Name, path+"."+field.Name, fieldVal, true)
	}
}

// renderField draws an editor for val. path keeps widget ids unique across
// nested structs.
func (ci *ComponentInspectorComponent) renderField(name, path string, val reflect.Value, labelled bool) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	id := "##" + path
	if labelled {
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &v) {
			assignField(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &v) && v >= 0 {
			assignField(val, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(id, &v) {
			assignField(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(id, &v) {
			assignField(val, v)
		}

	case reflect.String:
		v := val.String()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(id, "", &v, imgui.InputTextFlagsNone, nil) {
			assignField(val, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name + id) {
			ci.renderComponent(val, path)
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("[%d items]", val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("map[%d items]", val.Len()))

	default:
		imgui.Text(describeValue(val))
	}
}

// assignField stores input into val when val is settable and input has a
// matching kind. Returns whether the value changed.
func assignField(val reflect.Value, input any) bool {
	if !val.CanSet() {
		return false
	}

	switch v := input.(type) {
	case int64:
		switch val.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if val.OverflowInt(v) {
				return false
			}
			val.SetInt(v)
			return true
		}
	case uint64:
		switch val.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if val.OverflowUint(v) {
				return false
			}
			val.SetUint(v)
			return true
		}
	case float64:
		switch val.Kind() {
		case reflect.Float32, reflect.Float64:
			val.SetFloat(v)
			return true
		}
	case bool:
		if val.Kind() == reflect.Bool {
			val.SetBool(v)
			return true
		}
	case string:
		if val.Kind() == reflect.String {
			val.SetString(v)
			return true
		}
	}
	return false
}

func describeValue(val reflect.Value) string {
	if !val.CanInterface() {
		return fmt.Sprintf("<%s>", val.Type())
	}
	return fmt.Sprintf("%v", val.Interface())
}
