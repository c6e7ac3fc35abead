// Command obelisk-demo opens a window with a square that follows the arrow
// keys. Escape quits.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plus3/obelisk/app"
	"github.com/plus3/obelisk/config"
	"github.com/plus3/obelisk/ecs"
	"github.com/plus3/obelisk/ecs/render"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Optional TOML config file.")
	assets := flag.String("assets", "assets", "Directory searched for image sources.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, app.WithImageRoots(*assets))
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.AddProcessor(newControlProcessor(240), ecs.PriorityDefault); err != nil {
		return err
	}

	world := a.World()
	world.CreateEntity(
		Player{},
		render.Position{X: float64(cfg.Window.Width) / 2, Y: float64(cfg.Window.Height) / 2},
		render.Size{Width: 32, Height: 32},
		render.Image{},
	)
	for i := 0; i < 4; i++ {
		world.CreateEntity(
			render.Position{X: 100 + float64(i)*250, Y: 100},
			render.Size{Width: 64, Height: 64},
			render.Image{Source: "crate.png"},
		)
	}

	err = a.Run()
	if eris.Is(err, errQuit) {
		a.Logger().Info("quit requested", zap.Uint64("ticks", world.Stats().TickCount))
		return nil
	}
	return err
}
