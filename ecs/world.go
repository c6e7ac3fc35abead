package ecs

import (
	"context"
	"iter"
	"reflect"
	"time"
	"unsafe"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// World owns every entity, component store, singleton and the processor
// pipeline. It is not safe for concurrent use; all mutation happens on the
// goroutine driving Tick.
type World struct {
	pool       *entityPool
	registry   *ComponentRegistry
	singletons map[reflect.Type]*singletonEntry
	scheduler  *Scheduler
	logger     *zap.Logger
}

type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// NewWorld creates an empty world with an empty pipeline.
func NewWorld(opts ...Option) *World {
	w := &World{
		pool:       newEntityPool(),
		registry:   NewComponentRegistry(),
		singletons: make(map[reflect.Type]*singletonEntry),
		logger:     zap.NewNop(),
	}
	w.scheduler = newScheduler(w)

	for _, opt := range opts {
		opt(w)
	}

	w.AddSingleton(FrameClock{})
	return w
}

// Logger returns the world logger.
func (w *World) Logger() *zap.Logger {
	return w.logger
}

// Registry returns the component registry backing this world.
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// CreateEntity allocates a new entity and attaches the given components.
// Panics if any component is invalid, matching View.Spawn.
func (w *World) CreateEntity(components ...any) EntityId {
	id := w.pool.create()
	for _, component := range components {
		if err := w.AddComponent(id, component); err != nil {
			panic(err.Error())
		}
	}
	return id
}

// DeleteEntity removes the entity and all of its components.
// Returns false if the entity does not exist.
func (w *World) DeleteEntity(id EntityId) bool {
	if !w.pool.destroy(id) {
		return false
	}
	for _, storage := range w.registry.all() {
		storage.Delete(id)
	}
	return true
}

// EntityExists reports whether id refers to a live entity.
func (w *World) EntityExists(id EntityId) bool {
	return w.pool.isAlive(id)
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.pool.count()
}

// Entities returns a snapshot of all live entity ids.
func (w *World) Entities() []EntityId {
	return w.pool.liveEntities()
}

// Clear deletes every entity. Singletons and the pipeline are kept.
func (w *World) Clear() {
	for _, id := range w.pool.liveEntities() {
		w.DeleteEntity(id)
	}
}

// componentOf validates a component value and returns its storage type and
// the value to store. A non-nil *T is stored as T.
func componentOf(component any) (reflect.Type, any, error) {
	if component == nil {
		return nil, nil, eris.Wrap(ErrInvalidComponent, "component is nil")
	}

	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Ptr {
		v := reflect.ValueOf(component)
		if v.IsNil() {
			return nil, nil, eris.Wrapf(ErrInvalidComponent, "nil %s", t)
		}
		t = t.Elem()
		component = v.Elem().Interface()
	}

	if !isComponentType(t) {
		return nil, nil, eris.Wrapf(ErrInvalidComponent, "unsupported component kind %s (%s)", t.Kind(), t)
	}
	return t, component, nil
}

func isComponentType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return false
	}
	return true
}

// AddComponent attaches component to the entity, replacing any existing
// component of the same type.
func (w *World) AddComponent(id EntityId, component any) error {
	if !w.pool.isAlive(id) {
		return eris.Wrapf(ErrEntityNotAlive, "add component to %s", id)
	}

	t, value, err := componentOf(component)
	if err != nil {
		return err
	}

	if !w.registry.storageFor(t).Set(id, value) {
		return eris.Wrapf(ErrInvalidComponent, "store %s", t)
	}
	return nil
}

// RemoveComponent detaches the component of type t. Returns false if the
// entity is gone or had no such component.
func (w *World) RemoveComponent(id EntityId, t reflect.Type) bool {
	if !w.pool.isAlive(id) {
		return false
	}
	storage, ok := w.registry.lookup(t)
	if !ok {
		return false
	}
	return storage.Delete(id)
}

// GetComponent returns a pointer to the entity's component of type t, or nil.
func (w *World) GetComponent(id EntityId, t reflect.Type) any {
	if !w.pool.isAlive(id) {
		return nil
	}
	storage, ok := w.registry.lookup(t)
	if !ok {
		return nil
	}
	return storage.Get(id)
}

// HasComponent reports whether the entity has a component of type t.
func (w *World) HasComponent(id EntityId, t reflect.Type) bool {
	if !w.pool.isAlive(id) {
		return false
	}
	storage, ok := w.registry.lookup(t)
	return ok && storage.Has(id)
}

// Components returns pointers to every component the entity holds, in store
// creation order.
func (w *World) Components(id EntityId) []any {
	if !w.pool.isAlive(id) {
		return nil
	}
	var components []any
	for _, storage := range w.registry.all() {
		if c := storage.Get(id); c != nil {
			components = append(components, c)
		}
	}
	return components
}

// Query yields every live entity holding all of the given component types,
// with pointers to those components in argument order. The candidate set is
// snapshotted up front and liveness is re-checked per entity, so processors may
// delete entities while iterating.
func (w *World) Query(types ...reflect.Type) iter.Seq2[EntityId, []any] {
	return func(yield func(EntityId, []any) bool) {
		if len(types) == 0 {
			return
		}

		storages := make([]iComponentStorage, len(types))
		smallest := -1
		for i, t := range types {
			storage, ok := w.registry.lookup(t)
			if !ok {
				return
			}
			storages[i] = storage
			if smallest == -1 || storage.Len() < storages[smallest].Len() {
				smallest = i
			}
		}

		for _, id := range storages[smallest].Entities() {
			if !w.pool.isAlive(id) {
				continue
			}

			components := make([]any, len(storages))
			matched := true
			for i, storage := range storages {
				c := storage.Get(id)
				if c == nil {
					matched = false
					break
				}
				components[i] = c
			}
			if !matched {
				continue
			}

			if !yield(id, components) {
				return
			}
		}
	}
}

// Add attaches a typed component, using typed storage when T is first seen here.
func Add[T any](w *World, id EntityId, component T) error {
	if !w.pool.isAlive(id) {
		return eris.Wrapf(ErrEntityNotAlive, "add %s to %s", reflect.TypeFor[T](), id)
	}
	if t := reflect.TypeFor[T](); !isComponentType(t) {
		return eris.Wrapf(ErrInvalidComponent, "unsupported component kind %s (%s)", t.Kind(), t)
	}
	if !storageOf[T](w.registry).Set(id, component) {
		return eris.Wrapf(ErrInvalidComponent, "store %s", reflect.TypeFor[T]())
	}
	return nil
}

// Get returns a pointer to the entity's T component, or nil.
func Get[T any](w *World, id EntityId) *T {
	if !w.pool.isAlive(id) {
		return nil
	}
	storage, ok := w.registry.lookup(reflect.TypeFor[T]())
	if !ok {
		return nil
	}
	ptr, _ := storage.Get(id).(*T)
	return ptr
}

// TryGet is Get with an explicit presence flag.
func TryGet[T any](w *World, id EntityId) (*T, bool) {
	ptr := Get[T](w, id)
	return ptr, ptr != nil
}

func Has[T any](w *World, id EntityId) bool {
	return w.HasComponent(id, reflect.TypeFor[T]())
}

func Remove[T any](w *World, id EntityId) bool {
	return w.RemoveComponent(id, reflect.TypeFor[T]())
}

// AddSingleton stores value as the singleton for its type. An existing
// singleton is overwritten in place so outstanding pointers stay valid.
func (w *World) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		panic("cannot add nil singleton")
	}
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	t := v.Type()
	if entry, ok := w.singletons[t]; ok {
		entry.value.Elem().Set(v)
		return
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	w.singletons[t] = &singletonEntry{
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
}

// ReadSingleton fills a **T with the singleton of type T.
//
//	var clock *ecs.FrameClock
//	if w.ReadSingleton(&clock) { ... }
func (w *World) ReadSingleton(target any) bool {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton requires a pointer to a pointer")
	}

	entry := w.getSingletonEntry(targetValue.Elem().Type().Elem())
	if entry == nil {
		return false
	}
	targetValue.Elem().Set(entry.value)
	return true
}

func (w *World) getSingletonEntry(t reflect.Type) *singletonEntry {
	return w.singletons[t]
}

// AddProcessor appends p to the pipeline. Processors with equal priority run
// in the order they were added; lower priorities run first.
func (w *World) AddProcessor(p Processor, priority int) error {
	return w.scheduler.add(p, priority)
}

// Tick runs every processor once with the given delta time in seconds.
func (w *World) Tick(dt float64) error {
	return w.scheduler.Tick(dt)
}

// Run ticks the pipeline every interval until ctx is cancelled or the fault
// handler gives up on a failed tick.
func (w *World) Run(ctx context.Context, interval time.Duration) error {
	return w.scheduler.Run(ctx, interval)
}

// Processors lists the pipeline in execution order.
func (w *World) Processors() []ProcessorInfo {
	return w.scheduler.Processors()
}

// Stats returns execution statistics for the pipeline.
func (w *World) Stats() *SchedulerStats {
	return w.scheduler.GetStats()
}
