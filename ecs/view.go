package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View represents a query for entities with a specific combination of components
// The type T should be a struct with embedded pointer fields for each component type
// Named fields can be marked as optional using the `ecs:"optional"` struct tag
type View[T any] struct {
	world       *World
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	storages    []iComponentStorage
}

// NewView creates a new view for the given struct type
// The struct T should have embedded or named fields that are pointers to component types
// Embedded fields are always required
// Named fields can be marked as optional using the `ecs:"optional"` struct tag
func NewView[T any](world *World) *View[T] {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	types := make([]reflect.Type, 0, structType.NumField())
	optional := make([]bool, 0, structType.NumField())
	fieldOffset := make([]uintptr, 0, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		componentType := fieldType.Elem()
		types = append(types, componentType)
		fieldOffset = append(fieldOffset, field.Offset)

		// Embedded fields are always required
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}
		optional = append(optional, isOptional)
	}

	return &View[T]{
		world:       world,
		types:       types,
		optional:    optional,
		fieldOffset: fieldOffset,
		storages:    make([]iComponentStorage, len(types)),
	}
}

// resolveStorages looks up stores that did not exist when the view was built.
func (v *View[T]) resolveStorages() {
	for i, storage := range v.storages {
		if storage == nil {
			if found, ok := v.world.registry.lookup(v.types[i]); ok {
				v.storages[i] = found
			}
		}
	}
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is dead or missing any required components
// Optional components are set to nil if not present
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	if !v.world.pool.isAlive(id) {
		return false
	}
	v.resolveStorages()
	return v.populateResult(unsafe.Pointer(ptr), id)
}

func (v *View[T]) populateResult(resultPtr unsafe.Pointer, id EntityId) bool {
	for i, storage := range v.storages {
		fieldPtr := unsafe.Pointer(uintptr(resultPtr) + v.fieldOffset[i])

		var component any
		if storage != nil {
			component = storage.Get(id)
		}

		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		// stores always hand out *T
		*(*unsafe.Pointer)(fieldPtr) = reflect.ValueOf(component).UnsafePointer()
	}
	return true
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// candidates snapshots the entities worth checking: the owners of the
// smallest required store, or every live entity when all fields are optional.
func (v *View[T]) candidates() ([]EntityId, bool) {
	smallest := -1
	for i, storage := range v.storages {
		if v.optional[i] {
			continue
		}
		if storage == nil {
			return nil, false
		}
		if smallest == -1 || storage.Len() < v.storages[smallest].Len() {
			smallest = i
		}
	}

	if smallest == -1 {
		return v.world.pool.liveEntities(), true
	}
	return v.storages[smallest].Entities(), true
}

// Iter returns an iterator over all entities that have all the required components for this view
// The iterator yields (EntityId, T) pairs where T is the populated view struct
// Optional components are set to nil if not present
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		v.resolveStorages()
		ids, ok := v.candidates()
		if !ok {
			return
		}

		var result T
		resultPtr := unsafe.Pointer(&result)

		for _, id := range ids {
			if !v.world.pool.isAlive(id) {
				continue
			}
			if !v.populateResult(resultPtr, id) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates a new entity with components copied from the view struct
func (v *View[T]) Spawn(data T) EntityId {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.types))
	for i := 0; i < len(v.types); i++ {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])
		componentPtr := *(*unsafe.Pointer)(fieldPtr)

		if componentPtr == nil {
			if !v.optional[i] {
				panic("required component is nil in View.Spawn")
			}
			continue
		}

		component := reflect.NewAt(v.types[i], componentPtr).Elem().Interface()
		components = append(components, component)
	}

	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	return v.world.CreateEntity(components...)
}
