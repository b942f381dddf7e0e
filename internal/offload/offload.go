// Package offload pre-renders an animation on a separate goroutine.
//
// A request carries its own copy of the source and the target surface size.
// The worker owns every buffer it draws until the single response is
// delivered; after that the receiver owns them. Nothing else is shared.
package offload

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/layout"
	"github.com/san-kum/asciiplay/internal/prerender"
)

var ErrWorkerUsed = errors.New("offload: worker already dispatched")

type Request struct {
	Source anim.Source
	Width  int
	Height int
	Params layout.Params
}

type Response struct {
	Frames  []*image.RGBA
	Elapsed time.Duration
	Err     error
}

// Worker serves exactly one request. Workers above 1 render frames in
// parallel; output stays in source order and the pipeline observer is
// still called once per frame, never concurrently.
type Worker struct {
	Pipeline *prerender.Pipeline
	Workers  int

	used bool
}

func NewWorker(workers int) *Worker {
	return &Worker{Pipeline: prerender.New(), Workers: workers}
}

// Dispatch copies req and starts rendering. The returned channel yields one
// Response and is then closed.
func (w *Worker) Dispatch(ctx context.Context, req Request) <-chan Response {
	out := make(chan Response, 1)
	if w.used {
		out <- Response{Err: ErrWorkerUsed}
		close(out)
		return out
	}
	w.used = true

	src := req.Source.Clone()
	params := req.Params
	if req.Width > 0 {
		params.Width = req.Width
	}
	if req.Height > 0 {
		params.Height = req.Height
	}

	pipe := w.Pipeline
	if pipe == nil {
		pipe = prerender.New()
	}
	n := w.Workers

	go func() {
		defer close(out)
		start := time.Now()
		frames, err := render(ctx, pipe, src, params, n)
		out <- Response{Frames: frames, Elapsed: time.Since(start), Err: err}
	}()
	return out
}

// Dispatch runs req on a fresh single-goroutine worker.
func Dispatch(ctx context.Context, req Request) <-chan Response {
	return NewWorker(1).Dispatch(ctx, req)
}

func render(ctx context.Context, pipe *prerender.Pipeline, src anim.Source, params layout.Params, workers int) ([]*image.RGBA, error) {
	if workers <= 1 {
		return pipe.RenderAll(ctx, src, params)
	}

	frames := make([]*image.RGBA, len(src))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	// Observer calls are serialized; frames finish out of order, so the index
	// reported is the number of frames finished before this one.
	var mu sync.Mutex
	done := 0

	for i, frame := range src {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			buf, err := pipe.RenderFrame(frame, params)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			took := time.Since(t0)
			frames[i] = buf

			if pipe.Observer != nil {
				mu.Lock()
				pipe.Observer.OnFrame(done, len(src), took)
				done++
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
