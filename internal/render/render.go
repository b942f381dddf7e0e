// Package render draws character-grid frames onto a canvas.
package render

import (
	"fmt"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/canvas"
	"github.com/san-kum/asciiplay/internal/layout"
	"github.com/san-kum/asciiplay/internal/palette"
)

// DefaultLeftPad is the fixed x offset of the first column.
const DefaultLeftPad = 2.0

// CellError locates a cell that could not be drawn.
type CellError struct {
	Row, Col int
	Wrapped  error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d col %d: %v", e.Row, e.Col, e.Wrapped)
}

func (e *CellError) Unwrap() error { return e.Wrapped }

// Frame draws one glyph per cell. Glyph origins sit on a grid whose columns
// are squished by p.Squishiness and whose baselines start one cell down.
func Frame(dst canvas.Context, frame anim.Frame, p layout.Params, leftPad float64) error {
	dst.SetTextAlign(canvas.AlignStart)
	dst.SetFontSize(p.CellSize)

	advance := p.Advance()
	for y, row := range frame {
		if y >= p.GridHeight {
			break
		}
		baseline := p.CellSize + float64(y)*p.CellSize

		cells := row.Cells()
		for x, cell := range cells {
			if x >= p.GridWidth {
				break
			}
			c, err := palette.Decode(cell.Token)
			if err != nil {
				return &CellError{Row: y, Col: x, Wrapped: err}
			}
			dst.SetFillColor(c)
			dst.FillText(string(cell.Glyph), float64(x)*advance+leftPad, baseline)
		}
	}
	return nil
}

// Origin returns where Frame places the glyph of the given cell.
func Origin(p layout.Params, row, col int, leftPad float64) (x, y float64) {
	return float64(col)*p.Advance() + leftPad, p.CellSize + float64(row)*p.CellSize
}
