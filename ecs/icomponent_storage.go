package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
)

// iComponentStorage is an interface for a type-erased per-type component store.
// Get returns a pointer to the stored value (as `any`) or nil.
type iComponentStorage interface {
	Type() reflect.Type
	Set(id EntityId, item any) bool
	Get(id EntityId) any
	Has(id EntityId) bool
	Delete(id EntityId) bool
	Len() int
	Entities() []EntityId
}

// slotIndex maps entity ids to stable storage slots. Slots are reused through a
// free list so component pointers stay valid for as long as the entity holds
// the component. Once the store drains completely, allocation restarts at slot
// zero so slot order follows insertion order again.
type slotIndex struct {
	slots     *intmap.Map[EntityId, int]
	owners    []EntityId
	freeSlots []int
}

func newSlotIndex() slotIndex {
	return slotIndex{
		slots: intmap.New[EntityId, int](64),
	}
}

func (s *slotIndex) lookup(id EntityId) (int, bool) {
	return s.slots.Get(id)
}

// acquire returns the slot for id, allocating one if needed.
func (s *slotIndex) acquire(id EntityId) (slot int, existed bool) {
	if slot, ok := s.slots.Get(id); ok {
		return slot, true
	}

	if len(s.freeSlots) > 0 {
		slot = s.freeSlots[len(s.freeSlots)-1]
		s.freeSlots = s.freeSlots[:len(s.freeSlots)-1]
		s.owners[slot] = id
	} else {
		slot = len(s.owners)
		s.owners = append(s.owners, id)
	}

	s.slots.Put(id, slot)
	return slot, false
}

// release frees the slot held by id.
func (s *slotIndex) release(id EntityId) (int, bool) {
	slot, ok := s.slots.Get(id)
	if !ok {
		return -1, false
	}

	s.slots.Del(id)
	s.owners[slot] = 0

	if s.slots.Len() == 0 {
		s.owners = s.owners[:0]
		s.freeSlots = s.freeSlots[:0]
	} else {
		s.freeSlots = append(s.freeSlots, slot)
	}
	return slot, true
}

func (s *slotIndex) len() int {
	return s.slots.Len()
}

// entities returns a snapshot of owning entities in slot order.
func (s *slotIndex) entities() []EntityId {
	ids := make([]EntityId, 0, s.slots.Len())
	for _, owner := range s.owners {
		if owner != 0 {
			ids = append(ids, owner)
		}
	}
	return ids
}
