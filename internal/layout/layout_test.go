package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/asciiplay/internal/anim"
)

func TestCompute_SingleCell(t *testing.T) {
	p, err := Compute(anim.Dims{Width: 1, Height: 1, Frames: 2}, 100, 100, 2)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if p.GridWidth != 1 || p.GridHeight != 1 || p.Frames != 2 {
		t.Errorf("unexpected grid %+v", p)
	}
	if math.Abs(p.CellSize-100) > 1e-9 {
		t.Errorf("expected cell size 100, got %f", p.CellSize)
	}
	if p.Width != 98 || p.Height != 100 {
		t.Errorf("expected 98x100 surface, got %dx%d", p.Width, p.Height)
	}
	if p.Advance() != 98 {
		t.Errorf("expected advance 98, got %f", p.Advance())
	}
}

func TestCompute_Branches(t *testing.T) {
	tests := []struct {
		name   string
		grid   anim.Dims
		availW int
		availH int
		cell   float64
		width  int
		height int
	}{
		// 100/50 = 2px cells, (2-2)*100 = 0 fits in 400.
		{"landscape height-constrained", anim.Dims{Width: 100, Height: 50}, 400, 100, 2, 0, 100},
		// 300/30 = 10px, (10-2)*80 = 640 > 400 -> width fallback at 5px.
		{"landscape width fallback", anim.Dims{Width: 80, Height: 30}, 400, 300, 5, 240, 240},
		// 200/40 = 5px, 5*20 = 100 tall.
		{"portrait", anim.Dims{Width: 40, Height: 20}, 200, 400, 5, 120, 100},
		// 200/10 = 20px, 20*100 = 2000 > 400 -> height constrained at 4px.
		{"portrait overflow", anim.Dims{Width: 10, Height: 100}, 200, 400, 4, 20, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compute(tt.grid, tt.availW, tt.availH, 2)
			if err != nil {
				t.Fatalf("compute failed: %v", err)
			}
			if math.Abs(p.CellSize-tt.cell) > 1e-9 {
				t.Errorf("expected cell %f, got %f", tt.cell, p.CellSize)
			}
			if p.Width != tt.width || p.Height != tt.height {
				t.Errorf("expected %dx%d, got %dx%d", tt.width, tt.height, p.Width, p.Height)
			}
		})
	}
}

func TestCompute_Bounds(t *testing.T) {
	sizes := []int{1, 3, 7, 16, 50, 99, 100, 321, 1024}
	for _, gw := range sizes {
		for _, gh := range sizes {
			for _, aw := range sizes {
				for _, ah := range sizes {
					p, err := Compute(anim.Dims{Width: gw, Height: gh}, aw, ah, DefaultSquishiness)
					if err != nil {
						t.Fatalf("grid %dx%d avail %dx%d: %v", gw, gh, aw, ah, err)
					}
					if p.CellSize <= 0 {
						t.Fatalf("grid %dx%d avail %dx%d: cell size %f", gw, gh, aw, ah, p.CellSize)
					}
					if p.Width < 0 || p.Height < 0 || p.Width > aw || p.Height > ah {
						t.Fatalf("grid %dx%d avail %dx%d: surface %dx%d out of bounds", gw, gh, aw, ah, p.Width, p.Height)
					}
				}
			}
		}
	}
}

func TestCompute_Degenerate(t *testing.T) {
	if _, err := Compute(anim.Dims{Width: 0, Height: 3}, 100, 100, 2); !errors.Is(err, ErrDegenerateGrid) {
		t.Errorf("expected ErrDegenerateGrid, got %v", err)
	}
	if _, err := Compute(anim.Dims{Width: 3, Height: 0}, 100, 100, 2); !errors.Is(err, ErrDegenerateGrid) {
		t.Errorf("expected ErrDegenerateGrid, got %v", err)
	}
	if _, err := Compute(anim.Dims{Width: 3, Height: 3}, 0, 100, 2); !errors.Is(err, ErrDegenerateViewport) {
		t.Errorf("expected ErrDegenerateViewport, got %v", err)
	}
	if _, err := Compute(anim.Dims{Width: 3, Height: 3}, 100, -5, 2); !errors.Is(err, ErrDegenerateViewport) {
		t.Errorf("expected ErrDegenerateViewport, got %v", err)
	}
}

func TestAvailable(t *testing.T) {
	w, h := Available(800, 600, DefaultMargin)
	if w != 795 || h != 595 {
		t.Errorf("expected 795x595, got %dx%d", w, h)
	}
}
