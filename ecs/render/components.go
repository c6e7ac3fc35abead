// Package render draws entities that carry a Position, a Size and an Image
// onto a Canvas, once per tick.
package render

// Position places a drawable, in canvas units. Axis orientation is up to the Canvas.
type Position struct {
	X, Y float64
}

type Size struct {
	Width, Height float64
}

// Image names the texture drawn for an entity. Source is passed to the canvas
// untouched.
type Image struct {
	Source string
}
