package prerender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"testing"
	"time"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/canvas"
	"github.com/san-kum/asciiplay/internal/layout"
	"github.com/san-kum/asciiplay/internal/palette"
)

func makeSource(frames int) anim.Source {
	src := make(anim.Source, frames)
	for i := range src {
		token := fmt.Sprintf("%02x", (i*37+1)%256)
		src[i] = anim.Frame{anim.Row("#" + token + "@" + token)}
	}
	return src
}

func mustLayout(t *testing.T, src anim.Source, w, h int) layout.Params {
	t.Helper()
	p, err := layout.Compute(src.Dims(), w, h, layout.DefaultSquishiness)
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	return p
}

type countingObserver struct {
	indices []int
	total   int
}

func (o *countingObserver) OnFrame(index, total int, took time.Duration) {
	o.indices = append(o.indices, index)
	o.total = total
}

func TestRun_LengthAndOrder(t *testing.T) {
	src := makeSource(8)
	params := mustLayout(t, src, 120, 60)
	obs := &countingObserver{}

	p := New()
	p.Observer = obs
	res, err := p.Run(context.Background(), src, params, nil, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Frames) != len(src) {
		t.Fatalf("expected %d frames, got %d", len(src), len(res.Frames))
	}
	if res.Shown != 0 {
		t.Errorf("expected nothing shown without a display, got %d", res.Shown)
	}
	if len(res.FrameTimes) != len(src) {
		t.Errorf("expected %d frame times, got %d", len(src), len(res.FrameTimes))
	}

	for i, frame := range src {
		want, err := p.RenderFrame(frame, params)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		got := res.Frames[i]
		if got.Rect.Dx() != params.Width || got.Rect.Dy() != params.Height {
			t.Errorf("frame %d: expected %dx%d, got %v", i, params.Width, params.Height, got.Rect)
		}
		if !bytes.Equal(got.Pix, want.Pix) {
			t.Errorf("frame %d: buffer out of order", i)
		}
	}

	if len(obs.indices) != len(src) || obs.total != len(src) {
		t.Fatalf("observer saw %v of %d", obs.indices, obs.total)
	}
	for i, idx := range obs.indices {
		if idx != i {
			t.Errorf("observer index %d: got %d", i, idx)
		}
	}
}

func TestRun_ProgressDisplay(t *testing.T) {
	src := makeSource(3)
	params := mustLayout(t, src, 60, 30)

	p := New()
	p.FrameDelay = 0
	live := canvas.NewRecorder(params.Width, params.Height)

	res, err := p.Run(context.Background(), src, params, live, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Shown != 3 {
		t.Fatalf("expected 3 frames shown, got %d", res.Shown)
	}

	draws := live.Filter(canvas.OpDrawImage)
	if len(draws) != 3 {
		t.Fatalf("expected 3 draws, got %d", len(draws))
	}
	for i, op := range draws {
		if img, ok := op.Image.(*image.RGBA); !ok || img != res.Frames[i] {
			t.Errorf("draw %d: expected buffer %d", i, i)
		}
	}

	texts := live.Filter(canvas.OpFillText)
	want := []string{"0%", "33%", "66%"}
	if len(texts) != len(want) {
		t.Fatalf("expected %d overlays, got %d", len(want), len(texts))
	}
	for i, op := range texts {
		if op.Text != want[i] {
			t.Errorf("overlay %d: expected %s, got %s", i, want[i], op.Text)
		}
		if op.Align != canvas.AlignEnd || op.X != float64(params.Width) || op.Y != 20 {
			t.Errorf("overlay %d: unexpected placement %+v", i, op)
		}
		if op.FontSize != DefaultProgressFontSize {
			t.Errorf("overlay %d: expected 20px, got %g", i, op.FontSize)
		}
		if op.Color != progressColor {
			t.Errorf("overlay %d: expected white, got %v", i, op.Color)
		}
	}

	if n := len(live.Filter(canvas.OpPresent)); n != 3 {
		t.Errorf("expected 3 presents, got %d", n)
	}
}

func TestRun_Throttled(t *testing.T) {
	src := makeSource(5)
	params := mustLayout(t, src, 60, 30)

	p := New()
	p.FrameDelay = time.Hour
	live := canvas.NewRecorder(params.Width, params.Height)

	res, err := p.Run(context.Background(), src, params, live, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Shown != 0 || len(live.Ops) != 0 {
		t.Errorf("expected no progress output, got shown=%d ops=%d", res.Shown, len(live.Ops))
	}
}

func TestRun_AbortOnResize(t *testing.T) {
	src := makeSource(1000)
	params := mustLayout(t, src, 60, 30)

	polls := 0
	changed := func() bool {
		polls++
		return polls > 10
	}

	res, err := New().Run(context.Background(), src, params, canvas.NewRecorder(60, 30), changed)
	if err != nil {
		t.Fatalf("expected no error on abort, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result, got %d frames", len(res.Frames))
	}
	if polls != 11 {
		t.Errorf("expected the abort to be seen on poll 11, got %d", polls)
	}
}

func TestRun_Canceled(t *testing.T) {
	src := makeSource(4)
	params := mustLayout(t, src, 60, 30)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().Run(ctx, src, params, nil, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRun_InvalidToken(t *testing.T) {
	src := anim.Source{{"A00"}, {"Bxx"}}
	params := mustLayout(t, src, 50, 50)

	_, err := New().Run(context.Background(), src, params, nil, nil)
	if !errors.Is(err, palette.ErrInvalidColorToken) {
		t.Errorf("expected ErrInvalidColorToken, got %v", err)
	}
}

func TestRenderAll(t *testing.T) {
	src := makeSource(4)
	params := mustLayout(t, src, 60, 30)

	frames, err := New().RenderAll(context.Background(), src, params)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(frames) != 4 {
		t.Errorf("expected 4 frames, got %d", len(frames))
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		index, total int
		want         string
	}{
		{0, 10, "0%"},
		{5, 10, "50%"},
		{2, 3, "66%"},
		{999, 1000, "99%"},
		{1, 0, "0%"},
	}
	for _, tt := range tests {
		if got := Percent(tt.index, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %s, want %s", tt.index, tt.total, got, tt.want)
		}
	}
}
