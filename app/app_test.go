package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plus3/obelisk/config"
	"github.com/plus3/obelisk/ecs"
	"github.com/plus3/obelisk/ecs/input"
	"github.com/plus3/obelisk/ecs/render"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestApp(t *testing.T, opts ...Option) (*App, *render.DrawList) {
	t.Helper()
	canvas := render.NewDrawList()
	a, err := New(config.Default(), append([]Option{WithCanvas(canvas), WithLogger(zap.NewNop())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, canvas
}

// keyReader records the keys of the KeyDown entities it sees.
type keyReader struct {
	Downs ecs.Query[struct{ *input.KeyDown }]
	keys  []string
}

func (r *keyReader) Process(*ecs.UpdateFrame) error {
	for item := range r.Downs.Values() {
		r.keys = append(r.keys, item.Key)
	}
	return nil
}

func TestNewWiresCoreProcessors(t *testing.T) {
	a, canvas := newTestApp(t)

	require.NoError(t, a.AddProcessor(ecs.NamedProcessor("game", func(*ecs.UpdateFrame) error {
		return nil
	}), ecs.PriorityDefault))

	var names []string
	for _, info := range a.World().Processors() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"input-capture", "game", "render", "input-cleanup"}, names)
	assert.Same(t, canvas, a.Surface())
	assert.Nil(t, a.screen)
}

func TestDefaultSurfaceIsEbitenCanvas(t *testing.T) {
	a, err := New(nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	require.NotNil(t, a.screen)
	assert.Same(t, a.screen, a.Surface())
	assert.Equal(t, 60, a.Config().Game.RefreshRate)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Game.RefreshRate = 0

	_, err := New(cfg)
	assert.ErrorContains(t, err, "invalid config")
}

func TestFrame(t *testing.T) {
	a, canvas := newTestApp(t)
	reader := &keyReader{}
	require.NoError(t, a.AddProcessor(reader, ecs.PriorityDefault))

	world := a.World()
	world.CreateEntity(render.Position{X: 1, Y: 2}, render.Size{Width: 3, Height: 4}, render.Image{Source: "hero.png"})

	a.Input().OnKeyDown("left", 80, "", nil)
	a.Input().OnKeyUp("left", 80)
	require.NoError(t, a.tick(1.0/60))

	assert.Equal(t, []string{"left"}, reader.keys)
	assert.Equal(t, 1, world.EntityCount(), "input events are gone by the end of the tick")
	assert.Equal(t, []render.DrawCommand{{
		Position: render.Position{X: 1, Y: 2},
		Size:     render.Size{Width: 3, Height: 4},
		Source:   "hero.png",
	}}, canvas.Commands())

	require.NoError(t, a.tick(1.0/60))
	assert.Equal(t, []string{"left"}, reader.keys, "events are seen once")
	assert.Equal(t, 2, canvas.Clears())
}

func TestTickFaultHandling(t *testing.T) {
	boom := errors.New("boom")
	failing := ecs.NamedProcessor("failing", func(*ecs.UpdateFrame) error {
		return boom
	})

	t.Run("stop on fault", func(t *testing.T) {
		a, _ := newTestApp(t)
		require.NoError(t, a.AddProcessor(failing, 0))

		err := a.tick(0.1)
		require.Error(t, err)
		assert.True(t, eris.Is(err, boom))
	})

	t.Run("skip faults", func(t *testing.T) {
		var ticks []uint64
		a, _ := newTestApp(t, WithFaultHandler(func(tick uint64, err error) error {
			ticks = append(ticks, tick)
			return ecs.SkipFaults(tick, err)
		}))
		require.NoError(t, a.AddProcessor(failing, 0))

		assert.NoError(t, a.tick(0.1))
		assert.NoError(t, a.tick(0.1))
		assert.Equal(t, []uint64{1, 2}, ticks)
	})
}

func TestRunHeadless(t *testing.T) {
	cfg := config.Default()
	cfg.Game.RefreshRate = 200

	core, logs := observer.New(zapcore.InfoLevel)
	a, err := New(cfg, WithCanvas(render.NewDrawList()), WithLogger(zap.New(core)))
	require.NoError(t, err)

	ticks := 0
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.AddProcessor(ecs.ProcessorFunc(func(*ecs.UpdateFrame) error {
		ticks++
		if ticks == 3 {
			cancel()
		}
		return nil
	}), 0))

	done := make(chan error, 1)
	go func() { done <- a.RunHeadless(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunHeadless did not stop")
	}
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 1, logs.FilterMessage("pipeline started").Len())
}

func TestStatsdObserver(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.StatsdAddress = "127.0.0.1:8125"

	a, err := New(cfg, WithCanvas(render.NewDrawList()), WithLogger(zap.NewNop()))
	require.NoError(t, err)
	require.NotNil(t, a.observer)
	require.NoError(t, a.tick(0.1))
	assert.NoError(t, a.Close())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(config.LoggingConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger(config.LoggingConfig{Level: "loud"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel), "unknown levels fall back to info")
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
