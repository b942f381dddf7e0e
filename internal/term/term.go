// Package term encodes images as truecolor half-block text.
//
// Each terminal cell shows two vertically stacked pixels: the upper half
// block takes the top pixel as foreground and the bottom pixel as background.
package term

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

const (
	halfBlock = "▀"
	reset     = "\033[0m"

	ClearScreen = "\033[2J\033[H"
	Home        = "\033[H"
	HideCursor  = "\033[?25l"
	ShowCursor  = "\033[?25h"
	ClearToEnd  = "\033[J"
)

// DefaultSupersample is the pixel width of one terminal cell on the render
// surface. A cell is twice as tall as it is wide.
const DefaultSupersample = 8

type Encoder struct {
	Scaler     draw.Scaler
	Background color.RGBA

	buf *image.RGBA
	sb  strings.Builder
}

func NewEncoder() *Encoder {
	return &Encoder{
		Scaler:     draw.BiLinear,
		Background: color.RGBA{0, 0, 0, 0xff},
	}
}

// Cells returns the cell grid that covers a w x h pixel surface when every
// cell is supersample pixels wide and 2*supersample pixels tall.
func Cells(w, h, supersample int) (cols, rows int) {
	if supersample <= 0 {
		supersample = DefaultSupersample
	}
	cols = (w + supersample - 1) / supersample
	rows = (h + 2*supersample - 1) / (2 * supersample)
	return cols, rows
}

// Encode scales img onto cols x rows cells and returns the escape sequence
// text, one line per row with no trailing newline.
func (e *Encoder) Encode(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	r := image.Rect(0, 0, cols, rows*2)
	if e.buf == nil || e.buf.Bounds() != r {
		e.buf = image.NewRGBA(r)
	}
	draw.Draw(e.buf, r, image.NewUniform(e.Background), image.Point{}, draw.Src)
	if img != nil && !img.Bounds().Empty() {
		scaler := e.Scaler
		if scaler == nil {
			scaler = draw.BiLinear
		}
		scaler.Scale(e.buf, r, img, img.Bounds(), draw.Over, nil)
	}

	e.sb.Reset()
	e.sb.Grow(cols * rows * 40)

	for row := 0; row < rows; row++ {
		var lastFg, lastBg color.RGBA
		first := true
		for col := 0; col < cols; col++ {
			top := e.buf.RGBAAt(col, row*2)
			bot := e.buf.RGBAAt(col, row*2+1)
			if first || top != lastFg {
				fmt.Fprintf(&e.sb, "\033[38;2;%d;%d;%dm", top.R, top.G, top.B)
				lastFg = top
			}
			if first || bot != lastBg {
				fmt.Fprintf(&e.sb, "\033[48;2;%d;%d;%dm", bot.R, bot.G, bot.B)
				lastBg = bot
			}
			first = false
			e.sb.WriteString(halfBlock)
		}
		e.sb.WriteString(reset)
		if row < rows-1 {
			e.sb.WriteByte('\n')
		}
	}
	return e.sb.String()
}
