package ecs

import (
	"reflect"
)

// ComponentRegistry owns one store per component type for a World.
// Stores are created on first use; RegisterComponent only pre-creates the
// typed store for T so the untyped API never has to fall back to reflection.
type ComponentRegistry struct {
	storages map[reflect.Type]iComponentStorage
	order    []iComponentStorage
}

// NewComponentRegistry creates a new, empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		storages: make(map[reflect.Type]iComponentStorage),
	}
}

// RegisterComponent creates typed storage for T in the world's registry.
// Calling it is optional; registering an already known type is a no-op.
func RegisterComponent[T any](w *World) {
	storageOf[T](w.registry)
}

// storageOf returns the store for T, creating a typed one if none exists.
func storageOf[T any](r *ComponentRegistry) iComponentStorage {
	t := reflect.TypeFor[T]()
	if storage, ok := r.storages[t]; ok {
		return storage
	}
	storage := newGenericComponentStorage[T]()
	r.add(t, storage)
	return storage
}

// storageFor returns the store for t, creating a reflection-backed one if none exists.
func (r *ComponentRegistry) storageFor(t reflect.Type) iComponentStorage {
	if storage, ok := r.storages[t]; ok {
		return storage
	}
	storage := newReflectComponentStorage(t)
	r.add(t, storage)
	return storage
}

func (r *ComponentRegistry) lookup(t reflect.Type) (iComponentStorage, bool) {
	storage, ok := r.storages[t]
	return storage, ok
}

func (r *ComponentRegistry) add(t reflect.Type, storage iComponentStorage) {
	r.storages[t] = storage
	r.order = append(r.order, storage)
}

// all returns every store in creation order.
func (r *ComponentRegistry) all() []iComponentStorage {
	return r.order
}

// Types lists every component type with a store, in creation order.
func (r *ComponentRegistry) Types() []reflect.Type {
	types := make([]reflect.Type, len(r.order))
	for i, storage := range r.order {
		types[i] = storage.Type()
	}
	return types
}

const (
	genericBlockSize = 64
)

// genericComponentStorage stores components of type T in separately allocated
// fixed-size blocks. Growing appends block pointers only, so a *T handed out
// by Get stays valid until its slot is deleted.
type genericComponentStorage[T any] struct {
	index  slotIndex
	blocks []*[genericBlockSize]T
}

func newGenericComponentStorage[T any]() *genericComponentStorage[T] {
	return &genericComponentStorage[T]{
		index: newSlotIndex(),
	}
}

func (cs *genericComponentStorage[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

// Set stores item (a T or *T) for id, overwriting any previous value.
func (cs *genericComponentStorage[T]) Set(id EntityId, item any) bool {
	var concreteItem T
	if ptr, ok := item.(*T); ok {
		if ptr == nil {
			return false
		}
		concreteItem = *ptr
	} else if val, ok := item.(T); ok {
		concreteItem = val
	} else {
		return false
	}

	slot, _ := cs.index.acquire(id)
	blockIdx := slot / genericBlockSize
	slotIdx := slot % genericBlockSize

	for blockIdx >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
	}

	cs.blocks[blockIdx][slotIdx] = concreteItem
	return true
}

// Get returns a *T for id, or nil.
func (cs *genericComponentStorage[T]) Get(id EntityId) any {
	slot, ok := cs.index.lookup(id)
	if !ok {
		return nil
	}
	return &cs.blocks[slot/genericBlockSize][slot%genericBlockSize]
}

func (cs *genericComponentStorage[T]) Has(id EntityId) bool {
	_, ok := cs.index.lookup(id)
	return ok
}

// Delete zeroes and frees the slot for id.
func (cs *genericComponentStorage[T]) Delete(id EntityId) bool {
	slot, ok := cs.index.release(id)
	if !ok {
		return false
	}
	var zero T
	cs.blocks[slot/genericBlockSize][slot%genericBlockSize] = zero
	return true
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.index.len()
}

func (cs *genericComponentStorage[T]) Entities() []EntityId {
	return cs.index.entities()
}
