package ecs

import "strconv"

// EntityId encodes the entity index (lower 32 bits) and its generation (upper 32 bits).
// Generations start at 1, so the zero EntityId never refers to a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from an entity index and generation
func NewEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Index extracts the recyclable entity index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the generation counter from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// IsZero reports whether the id is the zero value.
func (e EntityId) IsZero() bool {
	return e == 0
}

func (e EntityId) String() string {
	return strconv.FormatUint(uint64(e.Index()), 10) + "v" + strconv.FormatUint(uint64(e.Generation()), 10)
}

// entityPool allocates entity ids with generational indices and a free list.
// Destroying an id bumps the generation of its index, so stale ids never
// alias a recycled entity.
type entityPool struct {
	generations []uint32
	alive       []bool
	freeList    []uint32
	live        int
}

func newEntityPool() *entityPool {
	return &entityPool{
		generations: make([]uint32, 0, 1024),
		alive:       make([]bool, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

func (p *entityPool) create() EntityId {
	p.live++
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		p.alive[idx] = true
		return NewEntityId(idx, p.generations[idx])
	}

	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 1)
	p.alive = append(p.alive, true)
	return NewEntityId(idx, 1)
}

func (p *entityPool) isAlive(id EntityId) bool {
	idx := id.Index()
	if int(idx) >= len(p.generations) {
		return false
	}
	return p.alive[idx] && p.generations[idx] == id.Generation()
}

// destroy releases the id. Returns false if the id was already destroyed or never issued.
func (p *entityPool) destroy(id EntityId) bool {
	if !p.isAlive(id) {
		return false
	}

	idx := id.Index()
	p.alive[idx] = false
	p.generations[idx]++
	if p.generations[idx] == 0 {
		// wrapped around; skip the reserved zero generation
		p.generations[idx] = 1
	}
	p.freeList = append(p.freeList, idx)
	p.live--
	return true
}

// liveEntities returns a snapshot of all live entity ids in index order.
func (p *entityPool) liveEntities() []EntityId {
	ids := make([]EntityId, 0, p.live)
	for idx, alive := range p.alive {
		if alive {
			ids = append(ids, NewEntityId(uint32(idx), p.generations[idx]))
		}
	}
	return ids
}

func (p *entityPool) count() int {
	return p.live
}
