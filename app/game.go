package app

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/obelisk/ecs/debugui"
	debuguiebiten "github.com/plus3/obelisk/ecs/debugui/ebiten"
	inputebiten "github.com/plus3/obelisk/ecs/input/ebiten"
	"go.uber.org/zap"
)

// game adapts the App to ebiten.Game. Ebitengine calls Update at the
// configured TPS, so each Update is one world tick.
type game struct {
	app      *App
	keyboard *inputebiten.KeyboardSource
	backend  *debuguiebiten.ImguiBackend
	last     time.Time
}

func (g *game) Update() error {
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	if !g.keyboardCaptured() {
		g.keyboard.Poll(g.app.capture)
	}

	tick := func() error {
		return g.app.tick(dt)
	}
	if g.backend != nil {
		return g.backend.Frame(tick)
	}
	return tick()
}

// keyboardCaptured reports whether the debug overlay has keyboard focus.
func (g *game) keyboardCaptured() bool {
	var state *debugui.ImguiInputState
	return g.app.world.ReadSingleton(&state) && state.WantCaptureKeyboard
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.app.screen != nil {
		g.app.screen.Draw(screen)
	}
	if g.backend != nil {
		g.backend.DrawOverlay(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed or a tick fault stops
// the game. With debug.overlay set, the ImGui debug windows are added first.
func (a *App) Run() error {
	g := &game{
		app:      a,
		keyboard: inputebiten.NewKeyboardSource(),
	}

	window := a.cfg.Window
	if a.cfg.Debug.Overlay {
		g.backend = debuguiebiten.NewImguiBackend(window.Title, window.Width, window.Height)
		debugui.RegisterDebugUIComponents(a.world)
		debugui.SpawnDebugUI(a.world, a.cfg.Debug.StatsHistory)
		if err := a.world.AddProcessor(debugui.NewOverlayProcessor(), debugui.OverlayPriority); err != nil {
			return err
		}
	} else {
		ebiten.SetWindowTitle(window.Title)
		ebiten.SetWindowSize(window.Width, window.Height)
	}
	ebiten.SetTPS(a.cfg.Game.RefreshRate)

	a.logger.Info("window opened",
		zap.String("title", window.Title),
		zap.Int("width", window.Width),
		zap.Int("height", window.Height),
		zap.Bool("overlay", g.backend != nil),
	)

	err := ebiten.RunGame(g)
	a.logger.Info("window closed", zap.Uint64("ticks", a.world.Stats().TickCount))
	return err
}
