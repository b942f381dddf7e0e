package anim

import "unicode/utf8"

// CellRunes is the number of runes encoding one cell: glyph + 2 color chars.
const CellRunes = 3

type Source []Frame

type Frame []Row

type Row string

type Cell struct {
	Glyph rune
	Token string
}

// Dims is the character-grid size shared by every frame of a source.
type Dims struct {
	Width  int
	Height int
	Frames int
}

func (d Dims) Cells() int {
	return d.Width * d.Height
}

// Len returns the row length in runes.
func (r Row) Len() int {
	return utf8.RuneCountInString(string(r))
}

// Width returns the number of whole cells in the row.
func (r Row) Width() int {
	return r.Len() / CellRunes
}

// Cells splits the row into cells. A trailing partial cell is ignored.
func (r Row) Cells() []Cell {
	runes := []rune(string(r))
	n := len(runes) / CellRunes
	cells := make([]Cell, n)
	for i := 0; i < n; i++ {
		start := i * CellRunes
		cells[i] = Cell{
			Glyph: runes[start],
			Token: string(runes[start+1 : start+CellRunes]),
		}
	}
	return cells
}

// Dims derives the grid dimensions from the first row of the first frame.
// An empty source yields the zero Dims.
func (s Source) Dims() Dims {
	if len(s) == 0 || len(s[0]) == 0 {
		return Dims{Frames: len(s)}
	}
	return Dims{
		Width:  s[0][0].Width(),
		Height: len(s[0]),
		Frames: len(s),
	}
}

// Validate checks that every frame shares the row count and row length of the
// first frame and that rows encode whole cells.
func (s Source) Validate() error {
	if len(s) == 0 {
		return ErrEmptySource
	}
	if len(s[0]) == 0 {
		return &PositionError{Frame: 0, Row: 0, Wrapped: ErrEmptySource}
	}

	rowLen := s[0][0].Len()
	height := len(s[0])

	for fi, frame := range s {
		if len(frame) != height {
			return &PositionError{Frame: fi, Row: len(frame), Wrapped: ErrRaggedFrame}
		}
		for ri, row := range frame {
			n := row.Len()
			if n == 0 || n%CellRunes != 0 {
				return &PositionError{Frame: fi, Row: ri, Wrapped: ErrMalformedRow}
			}
			if n != rowLen {
				return &PositionError{Frame: fi, Row: ri, Wrapped: ErrRaggedFrame}
			}
		}
	}
	return nil
}

// Clone returns a deep copy. Strings are immutable, so only slices are copied.
func (s Source) Clone() Source {
	c := make(Source, len(s))
	for i, f := range s {
		c[i] = f.Clone()
	}
	return c
}

func (f Frame) Clone() Frame {
	c := make(Frame, len(f))
	copy(c, f)
	return c
}
