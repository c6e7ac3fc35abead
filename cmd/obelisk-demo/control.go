package main

import (
	"github.com/plus3/obelisk/ecs"
	"github.com/plus3/obelisk/ecs/input"
	"github.com/plus3/obelisk/ecs/render"
	"github.com/rotisserie/eris"
)

var errQuit = eris.New("quit requested")

// Player marks the entity moved by the arrow keys.
type Player struct{}

var directions = map[string][2]float64{
	"left":  {-1, 0},
	"right": {1, 0},
	"up":    {0, -1},
	"down":  {0, 1},
}

// controlProcessor tracks held arrow keys from KeyDown/KeyUp entities and
// moves the player by speed pixels per second.
type controlProcessor struct {
	Downs   ecs.Query[struct{ *input.KeyDown }]
	Ups     ecs.Query[struct{ *input.KeyUp }]
	Players ecs.Query[struct {
		*Player
		*render.Position
	}]

	speed float64
	held  map[string]bool
}

func newControlProcessor(speed float64) *controlProcessor {
	return &controlProcessor{
		speed: speed,
		held:  make(map[string]bool),
	}
}

func (p *controlProcessor) Name() string {
	return "control"
}

func (p *controlProcessor) Process(frame *ecs.UpdateFrame) error {
	for item := range p.Downs.Values() {
		if item.Key == "escape" {
			return errQuit
		}
		p.held[item.Key] = true
	}
	for item := range p.Ups.Values() {
		delete(p.held, item.Key)
	}

	var dx, dy float64
	for key := range p.held {
		if d, ok := directions[key]; ok {
			dx += d[0]
			dy += d[1]
		}
	}
	if dx == 0 && dy == 0 {
		return nil
	}

	step := p.speed * frame.DeltaTime
	for item := range p.Players.Values() {
		item.Position.X += dx * step
		item.Position.Y += dy * step
	}
	return nil
}
