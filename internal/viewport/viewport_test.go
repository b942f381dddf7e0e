package viewport

import (
	"sync"
	"testing"
)

func TestAtomic(t *testing.T) {
	a := NewAtomic(Size{Width: 640, Height: 480})
	if got := a.Size(); got != (Size{640, 480}) {
		t.Fatalf("expected 640x480, got %v", got)
	}

	a.Set(Size{Width: 0, Height: 70000})
	if got := a.Size(); got != (Size{0, 70000}) {
		t.Errorf("expected 0x70000, got %v", got)
	}
}

func TestAtomic_Concurrent(t *testing.T) {
	a := NewAtomic(Size{1, 1})
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				a.Set(Size{n, n})
				s := a.Size()
				if s.Width != s.Height {
					t.Errorf("torn read %v", s)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestChanged(t *testing.T) {
	a := NewAtomic(Size{100, 100})
	start, changed := Changed(a)
	if start != (Size{100, 100}) {
		t.Errorf("unexpected start %v", start)
	}
	if changed() {
		t.Error("reported a change before any resize")
	}
	a.Set(Size{100, 101})
	if !changed() {
		t.Error("missed a resize")
	}
}

func TestCellsToPixels(t *testing.T) {
	if got := CellsToPixels(80, 24, 8, 16); got != (Size{640, 384}) {
		t.Errorf("expected 640x384, got %v", got)
	}
	if !CellsToPixels(80, 0, 8, 16).Empty() {
		t.Error("expected empty size for zero rows")
	}
}

func TestFixedAndFunc(t *testing.T) {
	if (Fixed{3, 4}).Size() != (Size{3, 4}) {
		t.Error("fixed size mismatch")
	}
	calls := 0
	f := Func(func() Size { calls++; return Size{calls, calls} })
	f.Size()
	if f.Size() != (Size{2, 2}) {
		t.Error("func source not polled")
	}
}

func TestTerminal_NotATerminal(t *testing.T) {
	if s := (Terminal{FD: -1, CellWidth: 8, CellHeight: 16}).Size(); !s.Empty() {
		t.Errorf("expected empty size for a bad fd, got %v", s)
	}
}
