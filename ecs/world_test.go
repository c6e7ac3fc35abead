package ecs_test

import (
	"iter"
	"reflect"
	"testing"

	"github.com/plus3/obelisk/ecs"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	positionType = reflect.TypeFor[Position]()
	velocityType = reflect.TypeFor[Velocity]()
	healthType   = reflect.TypeFor[Health]()
	nameType     = reflect.TypeFor[Name]()
)

func collectIds(seq iter.Seq2[ecs.EntityId, []any]) []ecs.EntityId {
	var ids []ecs.EntityId
	for id := range seq {
		ids = append(ids, id)
	}
	return ids
}

func TestCreateEntity(t *testing.T) {
	world := newTestWorld()

	id := world.CreateEntity(&Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5}, Score(32))
	assert.False(t, id.IsZero())
	assert.True(t, world.EntityExists(id))
	assert.Equal(t, 1, world.EntityCount())

	pos := ecs.Get[Position](world, id)
	require.NotNil(t, pos)
	assert.Equal(t, Position{X: 1, Y: 2}, *pos)
	assert.Equal(t, Score(32), *ecs.Get[Score](world, id))
}

func TestCreateEntityPanicsOnInvalidComponent(t *testing.T) {
	world := newTestWorld()
	assert.Panics(t, func() {
		world.CreateEntity(map[string]int{})
	})
}

func TestGetComponent(t *testing.T) {
	world := newTestWorld()

	id := world.CreateEntity(&Position{X: 3.0, Y: 4.0}, Name{Value: "Test Entity"})

	posComp := world.GetComponent(id, positionType)
	require.NotNil(t, posComp)
	pos := posComp.(*Position)
	assert.Equal(t, float32(3.0), pos.X)
	assert.Equal(t, float32(4.0), pos.Y)

	nameComp := world.GetComponent(id, nameType)
	require.NotNil(t, nameComp)
	assert.Equal(t, "Test Entity", nameComp.(*Name).Value)

	assert.Nil(t, world.GetComponent(id, velocityType))
	assert.Nil(t, world.GetComponent(id, reflect.TypeFor[Inventory]()), "unknown type")
}

func TestGetComponentReturnsLivePointer(t *testing.T) {
	world := newTestWorld()
	id := world.CreateEntity(Position{X: 1, Y: 1})

	ecs.Get[Position](world, id).X = 99
	assert.Equal(t, float32(99), ecs.Get[Position](world, id).X)
}

func TestAddComponent(t *testing.T) {
	t.Run("attach and replace", func(t *testing.T) {
		world := newTestWorld()
		id := world.CreateEntity()

		require.NoError(t, world.AddComponent(id, Health{Current: 10, Max: 100}))
		require.NoError(t, world.AddComponent(id, &Health{Current: 20, Max: 100}))

		health := ecs.Get[Health](world, id)
		require.NotNil(t, health)
		assert.Equal(t, 20, health.Current, "second add replaces the first")
	})

	t.Run("dead entity", func(t *testing.T) {
		world := newTestWorld()
		id := world.CreateEntity()
		world.DeleteEntity(id)

		err := world.AddComponent(id, Position{})
		assert.True(t, eris.Is(err, ecs.ErrEntityNotAlive))

		err = ecs.Add(world, id, Position{})
		assert.True(t, eris.Is(err, ecs.ErrEntityNotAlive))
	})

	t.Run("never issued entity", func(t *testing.T) {
		world := newTestWorld()
		err := world.AddComponent(ecs.NewEntityId(100, 1), Position{})
		assert.True(t, eris.Is(err, ecs.ErrEntityNotAlive))
	})

	t.Run("invalid components", func(t *testing.T) {
		world := newTestWorld()
		id := world.CreateEntity()
		var nilPos *Position
		pos := &Position{}

		invalid := map[string]any{
			"nil":                nil,
			"nil pointer":        nilPos,
			"pointer to pointer": &pos,
			"map":                map[string]int{"a": 1},
			"chan":               make(chan int),
			"func":               func() {},
		}
		for name, component := range invalid {
			t.Run(name, func(t *testing.T) {
				err := world.AddComponent(id, component)
				assert.True(t, eris.Is(err, ecs.ErrInvalidComponent), "got %v", err)
			})
		}
		assert.Empty(t, world.Components(id))
	})

	t.Run("typed add rejects pointer types", func(t *testing.T) {
		world := newTestWorld()
		id := world.CreateEntity()
		err := ecs.Add(world, id, &Position{})
		assert.True(t, eris.Is(err, ecs.ErrInvalidComponent))
	})
}

func TestUnregisteredComponentTypes(t *testing.T) {
	world := newTestWorld()

	id := world.CreateEntity(Temperature(21.5), Inventory{Items: []string{"sword"}})

	temp := ecs.Get[Temperature](world, id)
	require.NotNil(t, temp)
	assert.Equal(t, Temperature(21.5), *temp)

	inv, ok := ecs.TryGet[Inventory](world, id)
	require.True(t, ok)
	assert.Equal(t, []string{"sword"}, inv.Items)

	// typed add into a store created through the untyped path
	require.NoError(t, ecs.Add(world, id, Temperature(30)))
	assert.Equal(t, Temperature(30), *ecs.Get[Temperature](world, id))

	// untyped add into a store created through the typed path
	other := world.CreateEntity()
	require.NoError(t, ecs.Add(world, other, Link{}))
	require.NoError(t, world.AddComponent(other, Link{Next: &Position{X: 5}}))
	assert.Equal(t, float32(5), ecs.Get[Link](world, other).Next.X)
}

func TestRegistryTypes(t *testing.T) {
	world := ecs.NewWorld()
	assert.Empty(t, world.Registry().Types(), "singletons have no store")

	ecs.RegisterComponent[Position](world)
	world.CreateEntity(Temperature(1))
	assert.Equal(t, []reflect.Type{positionType, reflect.TypeFor[Temperature]()}, world.Registry().Types())
}

func TestRemoveComponent(t *testing.T) {
	world := newTestWorld()
	id := world.CreateEntity(Position{X: 1}, Velocity{DX: 1})

	assert.True(t, world.RemoveComponent(id, velocityType))
	assert.False(t, world.RemoveComponent(id, velocityType), "already removed")
	assert.False(t, ecs.Has[Velocity](world, id))
	assert.True(t, ecs.Has[Position](world, id))

	assert.True(t, ecs.Remove[Position](world, id))
	assert.True(t, world.EntityExists(id), "removing components keeps the entity")
	assert.Empty(t, world.Components(id))

	assert.False(t, world.RemoveComponent(id, reflect.TypeFor[Inventory]()), "unknown type")

	world.DeleteEntity(id)
	assert.False(t, world.RemoveComponent(id, positionType), "dead entity")
}

func TestDeleteEntity(t *testing.T) {
	world := newTestWorld()
	e1 := world.CreateEntity(Position{X: 1}, Velocity{DX: 1}, Temperature(5))
	e2 := world.CreateEntity(Position{X: 2})

	assert.True(t, world.DeleteEntity(e1))
	assert.False(t, world.EntityExists(e1))
	assert.Nil(t, world.GetComponent(e1, positionType))
	assert.Nil(t, ecs.Get[Temperature](world, e1))
	assert.Equal(t, []ecs.EntityId{e2}, collectIds(world.Query(positionType)))
	assert.Empty(t, collectIds(world.Query(velocityType)), "cascade removes every component")

	assert.False(t, world.DeleteEntity(e1), "double delete is a no-op")
	assert.False(t, world.DeleteEntity(ecs.NewEntityId(1000, 1)), "never issued")
	assert.Equal(t, 1, world.EntityCount())
}

func TestDeletedIdIsNotReused(t *testing.T) {
	world := newTestWorld()
	old := world.CreateEntity(Position{X: 1})
	world.DeleteEntity(old)

	recycled := world.CreateEntity(Position{X: 2})
	assert.Equal(t, old.Index(), recycled.Index())
	assert.NotEqual(t, old, recycled)
	assert.Nil(t, ecs.Get[Position](world, old))
	assert.Equal(t, float32(2), ecs.Get[Position](world, recycled).X)
}

func TestComponents(t *testing.T) {
	world := newTestWorld()
	id := world.CreateEntity(Velocity{DX: 1}, Position{X: 2})

	components := world.Components(id)
	require.Len(t, components, 2)
	// registry order: Position is registered before Velocity
	assert.Equal(t, &Position{X: 2}, components[0])
	assert.Equal(t, &Velocity{DX: 1}, components[1])

	assert.Nil(t, world.Components(ecs.NewEntityId(99, 1)))
}

func TestClear(t *testing.T) {
	world := newTestWorld()
	a := world.CreateEntity(Position{})
	b := world.CreateEntity(Velocity{})

	world.Clear()
	assert.Equal(t, 0, world.EntityCount())
	assert.False(t, world.EntityExists(a))
	assert.False(t, world.EntityExists(b))
	assert.Empty(t, collectIds(world.Query(positionType)))

	c := world.CreateEntity(Position{})
	assert.NotEqual(t, a, c)
}

func TestQuery(t *testing.T) {
	t.Run("add then query round trip", func(t *testing.T) {
		world := newTestWorld()
		id := world.CreateEntity()
		require.NoError(t, world.AddComponent(id, Position{X: 1, Y: 2}))

		count := 0
		for got, components := range world.Query(positionType) {
			count++
			assert.Equal(t, id, got)
			require.Len(t, components, 1)
			assert.Equal(t, &Position{X: 1, Y: 2}, components[0])
		}
		assert.Equal(t, 1, count)
	})

	t.Run("components in argument order", func(t *testing.T) {
		world := newTestWorld()
		world.CreateEntity(Position{X: 1}, Velocity{DX: 2})

		for _, components := range world.Query(velocityType, positionType) {
			assert.IsType(t, &Velocity{}, components[0])
			assert.IsType(t, &Position{}, components[1])
		}
	})

	t.Run("only entities with every type", func(t *testing.T) {
		world := newTestWorld()
		both := world.CreateEntity(Position{}, Velocity{})
		world.CreateEntity(Position{})
		world.CreateEntity(Velocity{})

		assert.Equal(t, []ecs.EntityId{both}, collectIds(world.Query(positionType, velocityType)))
	})

	t.Run("empty cases", func(t *testing.T) {
		world := newTestWorld()
		world.CreateEntity(Position{})

		assert.Empty(t, collectIds(world.Query()))
		assert.Empty(t, collectIds(world.Query(healthType)))
		assert.Empty(t, collectIds(world.Query(reflect.TypeFor[Inventory]())))
	})

	t.Run("restartable", func(t *testing.T) {
		world := newTestWorld()
		world.CreateEntity(Position{})
		world.CreateEntity(Position{})

		seq := world.Query(positionType)
		assert.Len(t, collectIds(seq), 2)
		assert.Len(t, collectIds(seq), 2)
	})

	t.Run("early break", func(t *testing.T) {
		world := newTestWorld()
		for i := 0; i < 5; i++ {
			world.CreateEntity(Position{})
		}

		count := 0
		for range world.Query(positionType) {
			count++
			if count == 2 {
				break
			}
		}
		assert.Equal(t, 2, count)
	})

	t.Run("deletion during iteration", func(t *testing.T) {
		world := newTestWorld()
		ids := make([]ecs.EntityId, 6)
		for i := range ids {
			ids[i] = world.CreateEntity(Position{X: float32(i)})
		}

		visited := 0
		for id := range world.Query(positionType) {
			visited++
			assert.True(t, world.DeleteEntity(id))
		}
		assert.Equal(t, 6, visited, "no entity is skipped")
		assert.Equal(t, 0, world.EntityCount())
	})

	t.Run("deleting a later entity while iterating", func(t *testing.T) {
		world := newTestWorld()
		a := world.CreateEntity(Position{X: 1})
		b := world.CreateEntity(Position{X: 2})
		c := world.CreateEntity(Position{X: 3})

		var visited []ecs.EntityId
		for id := range world.Query(positionType) {
			visited = append(visited, id)
			if id == a {
				world.DeleteEntity(b)
			}
		}
		assert.Equal(t, []ecs.EntityId{a, c}, visited)
	})

	t.Run("entities created during iteration are not visited", func(t *testing.T) {
		world := newTestWorld()
		world.CreateEntity(Position{})

		visited := 0
		for range world.Query(positionType) {
			visited++
			world.CreateEntity(Position{})
		}
		assert.Equal(t, 1, visited)
		assert.Equal(t, 2, world.EntityCount())
	})

	t.Run("insertion order after the store drains", func(t *testing.T) {
		world := newTestWorld()
		first := world.CreateEntity(Tag("a"))
		world.DeleteEntity(first)

		var want []ecs.EntityId
		for i := 0; i < 3; i++ {
			want = append(want, world.CreateEntity(Tag("b")))
		}
		assert.Equal(t, want, collectIds(world.Query(reflect.TypeFor[Tag]())))
	})
}

func TestZeroSizedComponents(t *testing.T) {
	world := newTestWorld()
	a := world.CreateEntity(PlayerController{})
	world.CreateEntity(Position{})

	assert.True(t, ecs.Has[PlayerController](world, a))
	assert.NotNil(t, ecs.Get[PlayerController](world, a))
	assert.Equal(t, []ecs.EntityId{a}, collectIds(world.Query(reflect.TypeFor[PlayerController]())))
}

func TestComponentPointersStayValid(t *testing.T) {
	world := newTestWorld()
	first := world.CreateEntity(Position{X: 1})
	ptr := ecs.Get[Position](world, first)

	for i := 0; i < 500; i++ {
		world.CreateEntity(Position{X: float32(i)})
	}

	assert.Same(t, ptr, ecs.Get[Position](world, first))
	assert.Equal(t, float32(1), ptr.X)

	ptr.X = 42
	assert.Equal(t, float32(42), ecs.Get[Position](world, first).X, "writes through an old pointer land in the store")
}

func TestSpawnDuringViewIter(t *testing.T) {
	world := newTestWorld()
	var ids []ecs.EntityId
	for i := 0; i < 64; i++ {
		ids = append(ids, world.CreateEntity(Position{}))
	}

	view := ecs.NewView[struct{ *Position }](world)
	for _, item := range view.Iter() {
		world.CreateEntity(Position{X: -1})
		item.Position.X = 7
	}

	for _, id := range ids {
		assert.Equal(t, float32(7), ecs.Get[Position](world, id).X)
	}
	assert.Equal(t, 128, world.EntityCount())
}

func TestSingletons(t *testing.T) {
	world := newTestWorld()

	var clock *ecs.FrameClock
	assert.True(t, world.ReadSingleton(&clock), "FrameClock is always present")

	var score *Score
	assert.False(t, world.ReadSingleton(&score))

	world.AddSingleton(Score(10))
	require.True(t, world.ReadSingleton(&score))
	assert.Equal(t, Score(10), *score)

	world.AddSingleton(Score(20))
	assert.Equal(t, Score(20), *score, "overwrite keeps the same storage")

	assert.Panics(t, func() { world.ReadSingleton(score) })
}
