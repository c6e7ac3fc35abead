package render_test

import (
	"testing"

	"github.com/plus3/obelisk/ecs"
	"github.com/plus3/obelisk/ecs/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderWorld(t *testing.T) (*ecs.World, *render.DrawList) {
	t.Helper()
	world := ecs.NewWorld()
	canvas := render.NewDrawList()
	require.NoError(t, world.AddProcessor(render.NewProcessor(canvas), render.Priority))
	return world, canvas
}

func TestRenderDrawsRenderables(t *testing.T) {
	world, canvas := newRenderWorld(t)

	world.CreateEntity(render.Position{X: 10, Y: 20}, render.Size{Width: 32, Height: 16}, render.Image{Source: "hero.png"})
	world.CreateEntity(render.Position{X: 1, Y: 1}, render.Size{Width: 8, Height: 8}, render.Image{Source: "coin.png"})
	world.CreateEntity(render.Position{X: 5, Y: 5}, render.Size{Width: 1, Height: 1})
	world.CreateEntity(render.Image{Source: "orphan.png"})

	require.NoError(t, world.Tick(0.016))

	assert.Equal(t, []render.DrawCommand{
		{Position: render.Position{X: 10, Y: 20}, Size: render.Size{Width: 32, Height: 16}, Source: "hero.png"},
		{Position: render.Position{X: 1, Y: 1}, Size: render.Size{Width: 8, Height: 8}, Source: "coin.png"},
	}, canvas.Commands())
	assert.Equal(t, 1, canvas.Clears())
}

func TestRenderIsIdempotent(t *testing.T) {
	world, canvas := newRenderWorld(t)
	world.CreateEntity(render.Position{X: 1, Y: 2}, render.Size{Width: 3, Height: 4}, render.Image{Source: "a.png"})

	require.NoError(t, world.Tick(0.016))
	first := canvas.Commands()
	require.NoError(t, world.Tick(0.016))

	assert.Equal(t, first, canvas.Commands(), "unchanged state draws the same frame")
	assert.Equal(t, 2, canvas.Clears())
}

func TestRenderFollowsState(t *testing.T) {
	world, canvas := newRenderWorld(t)
	id := world.CreateEntity(render.Position{}, render.Size{Width: 1, Height: 1}, render.Image{Source: "a.png"})

	require.NoError(t, world.Tick(0.016))
	ecs.Get[render.Position](world, id).X = 50
	require.NoError(t, world.Tick(0.016))
	require.Len(t, canvas.Commands(), 1)
	assert.Equal(t, 50.0, canvas.Commands()[0].Position.X)

	world.DeleteEntity(id)
	require.NoError(t, world.Tick(0.016))
	assert.Equal(t, 0, canvas.Len())
}

func TestRenderPassesSourceThrough(t *testing.T) {
	world, canvas := newRenderWorld(t)
	world.CreateEntity(render.Position{}, render.Size{}, render.Image{Source: "does/not/exist.png"})

	require.NoError(t, world.Tick(0.016))
	require.Len(t, canvas.Commands(), 1)
	assert.Equal(t, "does/not/exist.png", canvas.Commands()[0].Source)
}

// move-right runs at the default priority, so the render processor sees its
// changes in the same tick.
func TestRenderRunsAfterDefaultProcessors(t *testing.T) {
	world, canvas := newRenderWorld(t)
	id := world.CreateEntity(render.Position{}, render.Size{Width: 1, Height: 1}, render.Image{Source: "a.png"})

	require.NoError(t, world.AddProcessor(ecs.NamedProcessor("move-right", func(frame *ecs.UpdateFrame) error {
		ecs.Get[render.Position](frame.World, id).X += 10
		return nil
	}), ecs.PriorityDefault))

	require.NoError(t, world.Tick(0.016))
	assert.Equal(t, 10.0, canvas.Commands()[0].Position.X)
}
