package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo locates one exported field the component inspector can edit.
type FieldInfo struct {
	Name      string
	Index     int
	IsPointer bool
}

// ReflectionCache memoises the editable fields of component types.
type ReflectionCache struct {
	fields sync.Map // reflect.Type -> []FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{}
}

// GetFields returns the exported fields of t. Non-struct components have none
// and are edited as a single value.
func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	if cached, ok := rc.fields.Load(t); ok {
		return cached.([]FieldInfo)
	}
	actual, _ := rc.fields.LoadOrStore(t, exportedFields(t))
	return actual.([]FieldInfo)
}

func exportedFields(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []FieldInfo
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fields = append(fields, FieldInfo{
			Name:      field.Name,
			Index:     i,
			IsPointer: field.Type.Kind() == reflect.Ptr,
		})
	}
	return fields
}

var globalReflectionCache = NewReflectionCache()
