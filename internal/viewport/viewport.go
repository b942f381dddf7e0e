// Package viewport reports the pixel size available to a live display.
//
// Sizes are polled, never pushed. Event-driven front ends store the latest
// size in an [Atomic]; terminals are queried on demand with [Terminal].
package viewport

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/term"
)

type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

type Source interface {
	Size() Size
}

// Fixed is a viewport that never changes size.
type Fixed Size

func (f Fixed) Size() Size { return Size(f) }

// Func adapts a function to a Source.
type Func func() Size

func (f Func) Size() Size { return f() }

// Atomic holds a size written by one goroutine and polled by another.
type Atomic struct {
	v atomic.Uint64
}

func NewAtomic(s Size) *Atomic {
	a := &Atomic{}
	a.Set(s)
	return a
}

func (a *Atomic) Set(s Size) {
	a.v.Store(uint64(uint32(s.Width))<<32 | uint64(uint32(s.Height)))
}

func (a *Atomic) Size() Size {
	v := a.v.Load()
	return Size{Width: int(int32(v >> 32)), Height: int(int32(v))}
}

// Terminal polls the size of a terminal file descriptor and converts cells to
// pixels: each cell is CellWidth pixels wide and CellHeight pixels tall.
// Rows are reduced by Reserve to leave room for status lines.
type Terminal struct {
	FD         int
	CellWidth  int
	CellHeight int
	Reserve    int
}

func (t Terminal) Size() Size {
	cols, rows, err := term.GetSize(t.FD)
	if err != nil {
		return Size{}
	}
	return CellsToPixels(cols, rows-t.Reserve, t.CellWidth, t.CellHeight)
}

// CellsToPixels scales a cell grid to pixels. Non-positive inputs give an empty size.
func CellsToPixels(cols, rows, cellW, cellH int) Size {
	if cols <= 0 || rows <= 0 || cellW <= 0 || cellH <= 0 {
		return Size{}
	}
	return Size{Width: cols * cellW, Height: rows * cellH}
}

// Changed returns a poll function that reports whether src has moved away
// from the size captured now.
func Changed(src Source) (Size, func() bool) {
	start := src.Size()
	return start, func() bool {
		return src.Size() != start
	}
}
