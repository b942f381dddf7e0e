// Package export writes pre-rendered frames to image files.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/asciiplay/internal/palette"
)

type GIFOptions struct {
	Delay      time.Duration
	Background color.RGBA
	LoopCount  int
}

func DefaultGIFOptions() GIFOptions {
	return GIFOptions{
		Delay:      40 * time.Millisecond,
		Background: color.RGBA{0, 0, 0, 0xff},
	}
}

// Paletted flattens img onto bg and maps every pixel to the 256-color
// palette the sources are authored in.
func Paletted(img *image.RGBA, bg color.RGBA) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Palette())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			out.Pix[y*out.Stride+x] = palette.Quantize(over(c, bg))
		}
	}
	return out
}

// over composites premultiplied c onto an opaque background.
func over(c, bg color.RGBA) color.RGBA {
	inv := 255 - uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) + uint32(bg.R)*inv/255),
		G: uint8(uint32(c.G) + uint32(bg.G)*inv/255),
		B: uint8(uint32(c.B) + uint32(bg.B)*inv/255),
		A: 0xff,
	}
}

// GIF encodes frames as a looping animation.
func GIF(w io.Writer, frames []*image.RGBA, opts GIFOptions) error {
	if len(frames) == 0 {
		return fmt.Errorf("export: no frames")
	}
	delay := int(opts.Delay / (10 * time.Millisecond))
	if delay < 1 {
		delay = 1
	}

	g := gif.GIF{LoopCount: opts.LoopCount}
	for _, frame := range frames {
		g.Image = append(g.Image, Paletted(frame, opts.Background))
		g.Delay = append(g.Delay, delay)
	}
	return gif.EncodeAll(w, &g)
}

func SaveGIF(path string, frames []*image.RGBA, opts GIFOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := GIF(f, frames, opts); err != nil {
		return err
	}
	return f.Close()
}

// SavePNGs writes frame_0000.png, frame_0001.png, ... into dir and returns
// the paths in frame order.
func SavePNGs(dir string, frames []*image.RGBA) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(frames))
	for i, frame := range frames {
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		if err := savePNG(path, frame); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	return f.Close()
}
