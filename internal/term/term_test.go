package term

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"golang.org/x/image/draw"
)

func TestCells(t *testing.T) {
	tests := []struct {
		w, h, ss   int
		cols, rows int
	}{
		{80, 160, 8, 10, 10},
		{81, 161, 8, 11, 11},
		{98, 100, 8, 13, 7},
		{0, 0, 8, 0, 0},
		{16, 16, 0, 2, 1},
	}
	for _, tt := range tests {
		cols, rows := Cells(tt.w, tt.h, tt.ss)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("Cells(%d, %d, %d) = %d, %d; want %d, %d", tt.w, tt.h, tt.ss, cols, rows, tt.cols, tt.rows)
		}
	}
}

func TestEncode_TopAndBottom(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	img.SetRGBA(0, 0, red)
	img.SetRGBA(1, 0, red)
	img.SetRGBA(0, 1, blue)
	img.SetRGBA(1, 1, blue)

	e := NewEncoder()
	e.Scaler = draw.NearestNeighbor
	out := e.Encode(img, 2, 1)

	if strings.Count(out, halfBlock) != 2 {
		t.Fatalf("expected 2 cells, got %q", out)
	}
	if strings.Count(out, "\033[38;2;255;0;0m") != 1 {
		t.Errorf("foreground should be set once for a run: %q", out)
	}
	if !strings.Contains(out, "\033[48;2;0;0;255m") {
		t.Errorf("missing blue background: %q", out)
	}
	if !strings.HasSuffix(out, reset) {
		t.Errorf("row not reset: %q", out)
	}
}

func TestEncode_TransparentUsesBackground(t *testing.T) {
	e := NewEncoder()
	e.Background = color.RGBA{10, 20, 30, 255}
	out := e.Encode(image.NewRGBA(image.Rect(0, 0, 4, 4)), 1, 1)
	if !strings.Contains(out, "\033[38;2;10;20;30m") || !strings.Contains(out, "\033[48;2;10;20;30m") {
		t.Errorf("expected background color, got %q", out)
	}
}

func TestEncode_Rows(t *testing.T) {
	e := NewEncoder()
	out := e.Encode(image.NewRGBA(image.Rect(0, 0, 10, 10)), 3, 4)
	if lines := strings.Split(out, "\n"); len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(lines))
	}
	if e.Encode(nil, 0, 4) != "" {
		t.Error("expected empty output for zero columns")
	}
}
