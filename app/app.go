// Package app assembles a world with the core input and render processors and
// drives it from Ebitengine or a headless ticker.
package app

import (
	"context"

	"github.com/plus3/obelisk/config"
	"github.com/plus3/obelisk/ecs"
	"github.com/plus3/obelisk/ecs/input"
	"github.com/plus3/obelisk/ecs/render"
	renderebiten "github.com/plus3/obelisk/ecs/render/ebiten"
	"github.com/plus3/obelisk/ecs/statsd"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type options struct {
	logger       *zap.Logger
	canvas       render.Canvas
	faultHandler ecs.FaultHandler
	imageRoots   []string
}

type Option func(*options)

// WithLogger replaces the logger built from config.Logging.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCanvas renders into canvas instead of the Ebitengine window.
func WithCanvas(canvas render.Canvas) Option {
	return func(o *options) {
		o.canvas = canvas
	}
}

func WithFaultHandler(handler ecs.FaultHandler) Option {
	return func(o *options) {
		o.faultHandler = handler
	}
}

// WithImageRoots sets the directories searched for Image sources.
func WithImageRoots(roots ...string) Option {
	return func(o *options) {
		o.imageRoots = roots
	}
}

// App owns a world wired with input capture first, rendering near the end and
// input cleanup last. Add game processors between them with AddProcessor.
type App struct {
	cfg          *config.Config
	logger       *zap.Logger
	world        *ecs.World
	capture      *input.CaptureProcessor
	canvas       render.Canvas
	screen       *renderebiten.Canvas
	observer     *statsd.Observer
	faultHandler ecs.FaultHandler
}

// New validates cfg and builds the world. A nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid config")
	}

	o := options{faultHandler: ecs.StopOnFault}
	for _, opt := range opts {
		opt(&o)
	}
	if o.faultHandler == nil {
		o.faultHandler = ecs.StopOnFault
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = NewLogger(cfg.Logging)
		if err != nil {
			return nil, eris.Wrap(err, "init logger")
		}
	}

	a := &App{
		cfg:          cfg,
		logger:       logger,
		capture:      input.NewCaptureProcessor(),
		faultHandler: o.faultHandler,
	}

	worldOpts := []ecs.Option{
		ecs.WithLogger(logger),
		ecs.WithFaultHandler(o.faultHandler),
	}
	if cfg.Metrics.StatsdAddress != "" {
		observer, err := statsd.New(cfg.Metrics.StatsdAddress, cfg.Metrics.Namespace, cfg.Metrics.Tags, logger)
		if err != nil {
			return nil, eris.Wrapf(err, "connect statsd %s", cfg.Metrics.StatsdAddress)
		}
		a.observer = observer
		worldOpts = append(worldOpts, ecs.WithTickObserver(observer))
	}
	a.world = ecs.NewWorld(worldOpts...)

	a.canvas = o.canvas
	if a.canvas == nil {
		a.screen = renderebiten.NewCanvas(renderebiten.NewImageCache(o.imageRoots...), logger)
		a.canvas = a.screen
	}

	ecs.RegisterComponent[input.InputEvent](a.world)
	ecs.RegisterComponent[input.KeyDown](a.world)
	ecs.RegisterComponent[input.KeyUp](a.world)
	ecs.RegisterComponent[render.Position](a.world)
	ecs.RegisterComponent[render.Size](a.world)
	ecs.RegisterComponent[render.Image](a.world)

	core := []struct {
		processor ecs.Processor
		priority  int
	}{
		{a.capture, input.CapturePriority},
		{render.NewProcessor(a.canvas), render.Priority},
		{input.NewCleanupProcessor(), input.CleanupPriority},
	}
	for _, c := range core {
		if err := a.world.AddProcessor(c.processor, c.priority); err != nil {
			return nil, eris.Wrap(err, "add core processor")
		}
	}

	logger.Debug("app created",
		zap.Int("refresh_rate", cfg.Game.RefreshRate),
		zap.Bool("statsd", a.observer != nil),
	)
	return a, nil
}

func (a *App) World() *ecs.World {
	return a.world
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Surface is the canvas the render processor draws into.
func (a *App) Surface() render.Canvas {
	return a.canvas
}

// Input is the capture processor. Feed key notifications to it from any
// goroutine.
func (a *App) Input() *input.CaptureProcessor {
	return a.capture
}

func (a *App) AddProcessor(p ecs.Processor, priority int) error {
	return a.world.AddProcessor(p, priority)
}

// RunHeadless ticks the world at the configured refresh rate until ctx is
// cancelled or the fault handler stops the loop.
func (a *App) RunHeadless(ctx context.Context) error {
	return a.world.Run(ctx, a.cfg.TickInterval())
}

// tick runs one frame and consults the fault handler on failure, the same
// way World.Run does.
func (a *App) tick(dt float64) error {
	err := a.world.Tick(dt)
	if err == nil {
		return nil
	}

	var tick uint64
	var clock *ecs.FrameClock
	if a.world.ReadSingleton(&clock) {
		tick = clock.Tick
	}
	return a.faultHandler(tick, err)
}

// Close flushes metrics and logs.
func (a *App) Close() error {
	var err error
	if a.observer != nil {
		err = a.observer.Close()
	}
	_ = a.logger.Sync()
	return err
}
