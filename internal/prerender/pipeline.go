// Package prerender renders every frame of a source to an offscreen buffer,
// showing partial progress on a live display while it works.
package prerender

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/canvas"
	"github.com/san-kum/asciiplay/internal/layout"
	"github.com/san-kum/asciiplay/internal/pace"
	"github.com/san-kum/asciiplay/internal/render"
)

const (
	DefaultProgressFontSize = 20.0
	progressBaseline        = 20.0
)

var progressColor = color.RGBA{0xff, 0xff, 0xff, 0xff}

// Observer is notified after each frame is rendered. index counts the frames
// finished before this one, so it rises by one per call even when frames are
// rendered in parallel.
type Observer interface {
	OnFrame(index, total int, took time.Duration)
}

type Pipeline struct {
	FrameDelay       time.Duration
	Yield            time.Duration
	LeftPad          float64
	ProgressFontSize float64
	Observer         Observer
}

func New() *Pipeline {
	return &Pipeline{
		FrameDelay:       pace.FrameDelay,
		Yield:            pace.MinYield,
		LeftPad:          render.DefaultLeftPad,
		ProgressFontSize: DefaultProgressFontSize,
	}
}

// Result holds the rendered buffers in source order. Shown counts the buffers
// already drawn to the live display, so playback can continue from there.
type Result struct {
	Frames     []*image.RGBA
	Shown      int
	Elapsed    time.Duration
	FrameTimes []time.Duration
}

// Run renders src frame by frame. When live is non-nil, at most once per
// FrameDelay it draws the oldest unshown buffer plus a percentage overlay and
// yields briefly. changed is polled before every frame; if it reports true the
// work is abandoned and Run returns a nil Result with a nil error.
func (p *Pipeline) Run(ctx context.Context, src anim.Source, params layout.Params, live canvas.Display, changed func() bool) (*Result, error) {
	total := len(src)
	res := &Result{
		Frames:     make([]*image.RGBA, 0, total),
		FrameTimes: make([]time.Duration, 0, total),
	}

	start := time.Now()
	last := start

	for i, frame := range src {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if changed != nil && changed() {
			return nil, nil
		}

		t0 := time.Now()
		buf, err := p.RenderFrame(frame, params)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		took := time.Since(t0)

		res.Frames = append(res.Frames, buf)
		res.FrameTimes = append(res.FrameTimes, took)
		if p.Observer != nil {
			p.Observer.OnFrame(i, total, took)
		}

		if live == nil {
			continue
		}

		now := time.Now()
		if now.Sub(last) < p.FrameDelay || res.Shown >= len(res.Frames) {
			continue
		}

		p.drawProgress(live, res.Frames[res.Shown], i, total)
		res.Shown++
		last = now

		if err := live.Present(); err != nil {
			return nil, err
		}
		if err := pace.Sleep(ctx, p.yield()); err != nil {
			return nil, err
		}
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// RenderAll renders every frame without a display and without abort checks
// other than ctx.
func (p *Pipeline) RenderAll(ctx context.Context, src anim.Source, params layout.Params) ([]*image.RGBA, error) {
	res, err := p.Run(ctx, src, params, nil, nil)
	if err != nil {
		return nil, err
	}
	return res.Frames, nil
}

// RenderFrame draws one frame onto a fresh buffer sized to the layout surface.
func (p *Pipeline) RenderFrame(frame anim.Frame, params layout.Params) (*image.RGBA, error) {
	img := canvas.NewImage(params.Width, params.Height)
	if err := render.Frame(img, frame, params, p.LeftPad); err != nil {
		return nil, err
	}
	return img.RGBA(), nil
}

func (p *Pipeline) drawProgress(live canvas.Display, buf *image.RGBA, index, total int) {
	canvas.Clear(live)
	live.DrawImage(buf, 0, 0)

	live.SetFillColor(progressColor)
	live.SetFontSize(p.progressFontSize())
	live.SetTextAlign(canvas.AlignEnd)
	live.FillText(Percent(index, total), float64(live.Width()), progressBaseline)
}

func (p *Pipeline) yield() time.Duration {
	if p.Yield < pace.MinYield {
		return pace.MinYield
	}
	return p.Yield
}

func (p *Pipeline) progressFontSize() float64 {
	if p.ProgressFontSize <= 0 {
		return DefaultProgressFontSize
	}
	return p.ProgressFontSize
}

// Percent formats floor(100*index/total) as an overlay label.
func Percent(index, total int) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", 100*index/total)
}
