// Command ecs-stress drives the full pipeline headlessly (input capture,
// movement, rendering into a draw list, input cleanup) and prints a Markdown
// report of tick timings.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/plus3/obelisk/app"
	"github.com/plus3/obelisk/config"
	"github.com/plus3/obelisk/ecs"
	"github.com/plus3/obelisk/ecs/input"
	"github.com/plus3/obelisk/ecs/render"
	"go.uber.org/zap"
)

var stressKeys = []string{"left", "right", "up", "down", "spacebar"}

// Velocity moves a renderable every tick.
type Velocity struct {
	DX, DY float64
}

type movementProcessor struct {
	Movers ecs.Query[struct {
		*render.Position
		*Velocity
	}]
}

func (p *movementProcessor) Name() string {
	return "movement"
}

func (p *movementProcessor) Process(frame *ecs.UpdateFrame) error {
	for item := range p.Movers.Values() {
		item.Position.X += item.Velocity.DX * frame.DeltaTime
		item.Position.Y += item.Velocity.DY * frame.DeltaTime
	}
	return nil
}

// inputCounter counts the input entities seen during ticks.
type inputCounter struct {
	Events ecs.Query[struct{ *input.InputEvent }]
	seen   int64
}

func (p *inputCounter) Name() string {
	return "input-counter"
}

func (p *inputCounter) Process(*ecs.UpdateFrame) error {
	p.seen += int64(p.Events.Count())
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Optional TOML config file.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The number of renderable entities to create.")
	keyRate := flag.Duration("key-interval", time.Millisecond, "Interval between synthetic key notifications. Zero disables input.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, err := app.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	canvas := render.NewDrawList()
	a, err := app.New(cfg, app.WithCanvas(canvas), app.WithLogger(logger))
	if err != nil {
		return err
	}
	defer a.Close()

	counter := &inputCounter{}
	if err := a.AddProcessor(&movementProcessor{}, ecs.PriorityDefault); err != nil {
		return err
	}
	if err := a.AddProcessor(counter, ecs.PriorityDefault); err != nil {
		return err
	}

	logger.Info("populating world", zap.Int("entities", *entityCount))
	world := a.World()
	for i := 0; i < *entityCount; i++ {
		world.CreateEntity(
			render.Position{X: rand.Float64() * 1280, Y: rand.Float64() * 720},
			render.Size{Width: 16, Height: 16},
			render.Image{Source: fmt.Sprintf("sprite-%d.png", i%8)},
			Velocity{DX: rand.Float64()*2 - 1, DY: rand.Float64()*2 - 1},
		)
	}

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		KeyInterval:    *keyRate,
		GCPauseMetrics: *gcPauseMetrics,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var sent atomic.Int64
	if *keyRate > 0 {
		go feedKeys(ctx, a.Input(), *keyRate, &sent)
	}

	runtime.ReadMemStats(&report.MemStatsStart)
	logger.Info("running pipeline", zap.Duration("duration", *duration))

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := world.Tick(deltaTime.Seconds()); err != nil {
				return err
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = int64(len(report.UpdateTime.Samples))
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.KeysSent = sent.Load()
	report.InputEventsSeen = counter.seen
	report.PendingInput = a.Input().Pending()
	report.DrawCommands = canvas.Len()
	report.Pipeline = world.Stats()

	logger.Info("pipeline finished", zap.Int64("ticks", report.TotalUpdates))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return err
	}
	fmt.Println("--- End of Report ---")
	return nil
}

// feedKeys sends alternating key presses and releases from its own goroutine
// until ctx is done.
func feedKeys(ctx context.Context, capture *input.CaptureProcessor, interval time.Duration, sent *atomic.Int64) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			key := stressKeys[i%len(stressKeys)]
			if i%2 == 0 {
				capture.OnKeyDown(key, i, "", []string{"shift"})
			} else {
				capture.OnKeyUp(key, i)
			}
			sent.Add(1)
		}
	}
}
