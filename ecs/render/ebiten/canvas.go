package ebiten

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/obelisk/ecs/render"
	"go.uber.org/zap"
)

// Canvas is a render.Canvas that records draw commands during a tick and
// replays them onto the screen from Ebitengine's Draw callback.
//
// Positions are in screen pixels with the origin at the top-left corner.
// A command with an empty source is drawn as a solid white rectangle.
type Canvas struct {
	*render.DrawList

	images *ImageCache
	logger *zap.Logger

	mu     sync.Mutex
	warned map[string]bool
	blank  *ebiten.Image
}

func NewCanvas(images *ImageCache, logger *zap.Logger) *Canvas {
	if images == nil {
		images = NewImageCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Canvas{
		DrawList: render.NewDrawList(),
		images:   images,
		logger:   logger,
		warned:   make(map[string]bool),
	}
}

// Draw renders the most recent frame onto screen.
func (c *Canvas) Draw(screen *ebiten.Image) {
	for _, cmd := range c.Commands() {
		img, ok := c.resolve(cmd.Source)
		if !ok {
			continue
		}

		bounds := img.Bounds()
		screen.DrawImage(img, &ebiten.DrawImageOptions{
			GeoM: drawGeoM(cmd, bounds.Dx(), bounds.Dy()),
		})
	}
}

// resolve returns the image for source, logging each unloadable source once.
func (c *Canvas) resolve(source string) (*ebiten.Image, bool) {
	if source == "" {
		return c.blankImage(), true
	}

	img, err := c.images.Load(source)
	if err == nil {
		return img, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.warned[source] {
		c.warned[source] = true
		c.logger.Warn("skipping unloadable image",
			zap.String("source", source),
			zap.Error(err),
		)
	}
	return nil, false
}

func (c *Canvas) blankImage() *ebiten.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.blank == nil {
		c.blank = ebiten.NewImage(1, 1)
		c.blank.Fill(color.White)
	}
	return c.blank
}

// drawGeoM scales an image of the given pixel size to the command's size and
// moves it to the command's position.
func drawGeoM(cmd render.DrawCommand, width, height int) ebiten.GeoM {
	var geoM ebiten.GeoM
	if width > 0 && height > 0 {
		geoM.Scale(cmd.Size.Width/float64(width), cmd.Size.Height/float64(height))
	}
	geoM.Translate(cmd.Position.X, cmd.Position.Y)
	return geoM
}
