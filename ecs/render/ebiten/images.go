// Package ebiten draws render.DrawList frames with Ebitengine.
package ebiten

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rotisserie/eris"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageCache loads image files by source name and keeps them for reuse.
// Failed loads are remembered too, so a missing file is only looked up once.
type ImageCache struct {
	mu       sync.Mutex
	roots    []string
	images   map[string]*ebiten.Image
	failures map[string]error
}

// NewImageCache creates a cache that resolves sources against the working
// directory, then each root, then the source's base name.
func NewImageCache(roots ...string) *ImageCache {
	if len(roots) == 0 {
		roots = []string{"assets"}
	}
	return &ImageCache{
		roots:    roots,
		images:   make(map[string]*ebiten.Image),
		failures: make(map[string]error),
	}
}

// Load returns the image for source.
func (c *ImageCache) Load(source string) (*ebiten.Image, error) {
	if source == "" {
		return nil, eris.New("empty image source")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if img, ok := c.images[source]; ok {
		return img, nil
	}
	if err, ok := c.failures[source]; ok {
		return nil, err
	}

	decoded, err := c.decode(source)
	if err != nil {
		c.failures[source] = err
		return nil, err
	}

	img := ebiten.NewImageFromImage(decoded)
	c.images[source] = img
	return img, nil
}

// Len returns the number of loaded images.
func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

func (c *ImageCache) decode(source string) (image.Image, error) {
	for _, path := range c.candidates(source) {
		if img, err := decodeFile(path); err == nil {
			return img, nil
		}
	}
	return nil, eris.Errorf("failed to load image %s", source)
}

func (c *ImageCache) candidates(source string) []string {
	paths := []string{source}
	for _, root := range c.roots {
		paths = append(paths, filepath.Join(root, source))
	}
	if base := filepath.Base(source); base != source {
		paths = append(paths, base)
	}
	return paths
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "decode %s", path)
	}
	return img, nil
}
