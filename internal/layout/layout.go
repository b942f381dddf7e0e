// Package layout fits a character grid into a pixel viewport.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/asciiplay/internal/anim"
)

const (
	DefaultSquishiness = 2.0
	DefaultMargin      = 5
)

var (
	ErrDegenerateGrid     = errors.New("layout: grid has a zero dimension")
	ErrDegenerateViewport = errors.New("layout: viewport has no usable area")
)

// Params is the derived geometry of one rendering session.
type Params struct {
	CellSize    float64
	Width       int
	Height      int
	GridWidth   int
	GridHeight  int
	Frames      int
	Squishiness float64
}

// Advance is the horizontal distance between glyph origins.
func (p Params) Advance() float64 {
	return p.CellSize - p.Squishiness
}

func (p Params) String() string {
	return fmt.Sprintf("%dx%d cells @ %.2fpx -> %dx%dpx", p.GridWidth, p.GridHeight, p.CellSize, p.Width, p.Height)
}

// Available subtracts the fixed margin from a viewport size.
func Available(viewW, viewH, margin int) (int, int) {
	return viewW - margin, viewH - margin
}

// Compute picks a cell size that fills the dominant axis of the available area
// and sizes the surface accordingly. Landscape areas are height-constrained
// unless the squished grid would overflow the width; portrait areas are
// width-constrained unless the grid would overflow the height.
func Compute(grid anim.Dims, availW, availH int, squish float64) (Params, error) {
	if grid.Width <= 0 || grid.Height <= 0 {
		return Params{}, fmt.Errorf("%w: %dx%d", ErrDegenerateGrid, grid.Width, grid.Height)
	}
	if availW <= 0 || availH <= 0 {
		return Params{}, fmt.Errorf("%w: %dx%d", ErrDegenerateViewport, availW, availH)
	}

	gw, gh := float64(grid.Width), float64(grid.Height)
	aw, ah := float64(availW), float64(availH)

	var cell, w, h float64

	heightConstrained := func() {
		cell = ah / gh
		w = cell*gw - squish*gw
		h = ah
	}

	if aw >= ah {
		heightConstrained()
		if cell*gw-squish*gw > aw {
			cell = aw / gw
			w = aw - squish*gw
			h = ah - squish*gh
		}
	} else {
		cell = aw / gw
		w = aw - squish*gw
		h = cell * gh
		if h > ah {
			heightConstrained()
		}
	}

	return Params{
		CellSize:    cell,
		Width:       clamp(w, availW),
		Height:      clamp(h, availH),
		GridWidth:   grid.Width,
		GridHeight:  grid.Height,
		Frames:      grid.Frames,
		Squishiness: squish,
	}, nil
}

func clamp(v float64, max int) int {
	n := int(math.Floor(v))
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}
