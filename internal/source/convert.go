package source

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/palette"
)

// Ramp maps luminance to glyphs, darkest first. A gray level g picks Ramp[g/25].
const Ramp = "@#S%?*+;:,."

var ErrNoImages = errors.New("source: no images to convert")

type ConvertOptions struct {
	Width     int
	MaxFrames int // -1 converts every frame
	Skip      int // keep every Skip-th frame
	Progress  func(done, total int)
}

func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{Width: 100, MaxFrames: -1, Skip: 1}
}

// Convert turns images into an animation source, one frame per kept image.
// MaxFrames counts input images, not kept frames.
func Convert(images []image.Image, opts ConvertOptions) (anim.Source, error) {
	if opts.Width <= 0 {
		opts.Width = 100
	}
	if opts.Skip <= 0 {
		opts.Skip = 1
	}

	total := len(images)
	if opts.MaxFrames >= 0 && opts.MaxFrames < total {
		total = opts.MaxFrames
	}
	if total == 0 {
		return nil, ErrNoImages
	}

	var src anim.Source
	for i := 0; i < total; i++ {
		if i%opts.Skip == 0 {
			src = append(src, ConvertFrame(images[i], opts.Width))
		}
		if opts.Progress != nil {
			opts.Progress(i+1, total)
		}
	}
	return src, nil
}

// ConvertFrame scales img to width cells, keeping its aspect ratio, and
// encodes every pixel as a glyph plus a packed color.
func ConvertFrame(img image.Image, width int) anim.Frame {
	b := img.Bounds()
	height := 1
	if b.Dx() > 0 {
		height = int(float64(width) * float64(b.Dy()) / float64(b.Dx()))
	}
	if height < 1 {
		height = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)

	frame := make(anim.Frame, height)
	var row strings.Builder
	for y := 0; y < height; y++ {
		row.Reset()
		row.Grow(width * anim.CellRunes)
		for x := 0; x < width; x++ {
			c := scaled.RGBAAt(x, y)
			row.WriteByte(Glyph(c))
			row.WriteString(palette.Encode(c))
		}
		frame[y] = anim.Row(row.String())
	}
	return frame
}

// Glyph picks the ramp character for a color's luminance.
func Glyph(c color.Color) byte {
	g := color.GrayModel.Convert(c).(color.Gray).Y
	i := int(g) / 25
	if i >= len(Ramp) {
		i = len(Ramp) - 1
	}
	return Ramp[i]
}

// ConvertFile reads an animated GIF or a single still image and converts it.
func ConvertFile(path string, opts ConvertOptions) (anim.Source, error) {
	images, err := ReadImages(path)
	if err != nil {
		return nil, err
	}
	return Convert(images, opts)
}

// ReadImages decodes every frame of a GIF, composited the way a viewer would
// show them, or the single frame of any other registered format.
func ReadImages(path string) ([]image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".gif") {
		g, err := gif.DecodeAll(f)
		if err != nil {
			return nil, fmt.Errorf("source: %s: %w", path, err)
		}
		return composite(g), nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	return []image.Image{img}, nil
}

func composite(g *gif.GIF) []image.Image {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Bounds()
	}

	acc := image.NewRGBA(bounds)
	out := make([]image.Image, 0, len(g.Image))
	for i, frame := range g.Image {
		var prev *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			prev = image.NewRGBA(bounds)
			draw.Copy(prev, bounds.Min, acc, bounds, draw.Src, nil)
		}

		draw.Draw(acc, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		snap := image.NewRGBA(bounds)
		draw.Copy(snap, bounds.Min, acc, bounds, draw.Src, nil)
		out = append(out, snap)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(acc, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			acc = prev
		}
	}
	return out
}
