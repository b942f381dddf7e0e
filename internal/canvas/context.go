// Package canvas defines the 2D drawing contract used by the renderer and the
// players, with an in-memory RGBA implementation.
//
// The contract mirrors a browser 2D context closely enough that the rendering
// math can be expressed unchanged: text is positioned by its baseline, fill
// color and font size are sticky state, and images are composited with
// source-over.
package canvas

import (
	"image"
	"image/color"
)

type Align int

const (
	AlignStart Align = iota
	AlignEnd
)

// Context is the set of drawing operations the core needs from a surface.
type Context interface {
	Width() int
	Height() int
	ClearRect(x, y, w, h int)
	DrawImage(img image.Image, x, y int)
	FillRect(x, y, w, h int)
	FillText(text string, x, y float64)
	MeasureText(text string) float64
	SetFillColor(c color.Color)
	SetFontSize(px float64)
	SetTextAlign(a Align)
}

// Display is a live, visible surface. Drawing is buffered until Present.
type Display interface {
	Context
	Resize(w, h int)
	Present() error
}

// Clear wipes the whole surface.
func Clear(c Context) {
	c.ClearRect(0, 0, c.Width(), c.Height())
}
