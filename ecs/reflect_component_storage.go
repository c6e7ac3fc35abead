package ecs

import (
	"reflect"
)

// reflectComponentStorage backs component types first seen through the
// untyped API (AddComponent, Spawn), where no type parameter is available.
// Each value lives in its own allocation so Get can hand out stable pointers.
type reflectComponentStorage struct {
	typ    reflect.Type
	index  slotIndex
	values []reflect.Value
}

func newReflectComponentStorage(t reflect.Type) *reflectComponentStorage {
	return &reflectComponentStorage{
		typ:   t,
		index: newSlotIndex(),
	}
}

func (rs *reflectComponentStorage) Type() reflect.Type {
	return rs.typ
}

func (rs *reflectComponentStorage) Set(id EntityId, item any) bool {
	val := reflect.ValueOf(item)
	if !val.IsValid() {
		return false
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return false
		}
		val = val.Elem()
	}
	if val.Type() != rs.typ {
		return false
	}

	slot, _ := rs.index.acquire(id)
	for slot >= len(rs.values) {
		rs.values = append(rs.values, reflect.Value{})
	}
	if !rs.values[slot].IsValid() {
		rs.values[slot] = reflect.New(rs.typ)
	}
	rs.values[slot].Elem().Set(val)
	return true
}

func (rs *reflectComponentStorage) Get(id EntityId) any {
	slot, ok := rs.index.lookup(id)
	if !ok {
		return nil
	}
	return rs.values[slot].Interface()
}

func (rs *reflectComponentStorage) Has(id EntityId) bool {
	_, ok := rs.index.lookup(id)
	return ok
}

func (rs *reflectComponentStorage) Delete(id EntityId) bool {
	slot, ok := rs.index.release(id)
	if !ok {
		return false
	}
	// drop the allocation so pointers held by callers are never reused
	rs.values[slot] = reflect.Value{}
	return true
}

func (rs *reflectComponentStorage) Len() int {
	return rs.index.len()
}

func (rs *reflectComponentStorage) Entities() []EntityId {
	return rs.index.entities()
}
