package canvas

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize matches the initial font of a fresh browser canvas.
const DefaultFontSize = 10.0

// Image is a Context backed by an *image.RGBA, drawing text with Go Mono.
// It is not safe for concurrent use.
type Image struct {
	rgba     *image.RGBA
	fill     *image.Uniform
	align    Align
	fontSize float64
	face     font.Face
	faceSize float64
}

func NewImage(w, h int) *Image {
	return &Image{
		rgba:     image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))),
		fill:     image.NewUniform(color.RGBA{0, 0, 0, 0xff}),
		fontSize: DefaultFontSize,
	}
}

// RGBA exposes the backing pixels. Callers that keep the result must stop
// drawing on this Image.
func (c *Image) RGBA() *image.RGBA { return c.rgba }

func (c *Image) Width() int  { return c.rgba.Rect.Dx() }
func (c *Image) Height() int { return c.rgba.Rect.Dy() }

// Resize replaces the backing store with a cleared one, like assigning a
// canvas width. Drawing state is kept.
func (c *Image) Resize(w, h int) {
	c.rgba = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
}

func (c *Image) ClearRect(x, y, w, h int) {
	r := image.Rect(x, y, x+w, y+h).Intersect(c.rgba.Rect)
	draw.Draw(c.rgba, r, image.Transparent, image.Point{}, draw.Src)
}

func (c *Image) DrawImage(img image.Image, x, y int) {
	b := img.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(c.rgba, r, img, b.Min, draw.Over)
}

func (c *Image) FillRect(x, y, w, h int) {
	r := image.Rect(x, y, x+w, y+h)
	draw.Draw(c.rgba, r, c.fill, image.Point{}, draw.Over)
}

func (c *Image) SetFillColor(col color.Color) {
	c.fill = image.NewUniform(col)
}

func (c *Image) SetFontSize(px float64) {
	c.fontSize = px
}

func (c *Image) SetTextAlign(a Align) {
	c.align = a
}

// FillText draws text with its baseline at y. With AlignEnd, x is the right edge.
func (c *Image) FillText(text string, x, y float64) {
	face := c.currentFace()
	if face == nil {
		return
	}
	if c.align == AlignEnd {
		x -= c.MeasureText(text)
	}
	d := &font.Drawer{
		Dst:  c.rgba,
		Src:  c.fill,
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y)},
	}
	d.DrawString(text)
}

func (c *Image) MeasureText(text string) float64 {
	face := c.currentFace()
	if face == nil {
		return 0
	}
	return float64(font.MeasureString(face, text)) / 64
}

// currentFace lazily builds a face for the active font size. Sizes that
// cannot produce a face (zero, negative, or a font parse failure) draw nothing.
func (c *Image) currentFace() font.Face {
	if c.fontSize <= 0 {
		return nil
	}
	if c.face != nil && c.faceSize == c.fontSize {
		return c.face
	}
	face, err := newFace(c.fontSize)
	if err != nil {
		return nil
	}
	if c.face != nil {
		c.face.Close()
	}
	c.face, c.faceSize = face, c.fontSize
	return face
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
