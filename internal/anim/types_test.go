package anim

import (
	"errors"
	"testing"
)

func TestRowCells(t *testing.T) {
	row := Row("A00Bff c3")
	cells := row.Cells()
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}
	if cells[0].Glyph != 'A' || cells[0].Token != "00" {
		t.Errorf("unexpected first cell %+v", cells[0])
	}
	if cells[1].Glyph != 'B' || cells[1].Token != "ff" {
		t.Errorf("unexpected second cell %+v", cells[1])
	}
	if cells[2].Glyph != ' ' || cells[2].Token != "c3" {
		t.Errorf("unexpected third cell %+v", cells[2])
	}
}

func TestRowCells_Unicode(t *testing.T) {
	row := Row("█e0░1c")
	if row.Width() != 2 {
		t.Fatalf("expected width 2, got %d", row.Width())
	}
	cells := row.Cells()
	if cells[0].Glyph != '█' || cells[1].Glyph != '░' {
		t.Errorf("unexpected glyphs %q %q", cells[0].Glyph, cells[1].Glyph)
	}
}

func TestDims(t *testing.T) {
	src := Source{
		{"A00B00", "C00D00", "E00F00"},
		{"a00b00", "c00d00", "e00f00"},
	}
	d := src.Dims()
	if d.Width != 2 || d.Height != 3 || d.Frames != 2 {
		t.Errorf("unexpected dims %+v", d)
	}
	if d.Cells() != 6 {
		t.Errorf("expected 6 cells, got %d", d.Cells())
	}

	if (Source{}).Dims() != (Dims{}) {
		t.Error("expected zero dims for empty source")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		want error
	}{
		{"valid", Source{{"A00"}, {"BFF"}}, nil},
		{"empty", Source{}, ErrEmptySource},
		{"no rows", Source{{}}, ErrEmptySource},
		{"short row", Source{{"A0"}}, ErrMalformedRow},
		{"blank row", Source{{"A00", ""}}, ErrMalformedRow},
		{"ragged rows", Source{{"A00", "A00B00"}}, ErrRaggedFrame},
		{"ragged frames", Source{{"A00", "A00"}, {"A00"}}, ErrRaggedFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.src.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_Position(t *testing.T) {
	src := Source{{"A00", "B00"}, {"A00", "B0"}}
	err := src.Validate()

	var pe *PositionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PositionError, got %v", err)
	}
	if pe.Frame != 1 || pe.Row != 1 {
		t.Errorf("expected frame 1 row 1, got frame %d row %d", pe.Frame, pe.Row)
	}
}

func TestClone(t *testing.T) {
	src := Source{{"A00"}, {"B00"}}
	c := src.Clone()
	c[0][0] = "Z00"
	if src[0][0] != "A00" {
		t.Error("clone shares frame storage with the original")
	}
}
