// Package reflow drives the top-level loop of a player: lay out for the
// current viewport, pre-render, play until the viewport changes, repeat.
//
// Every pass builds a fresh Session. Nothing from an earlier pass survives a
// viewport change; there is no incremental reflow.
package reflow

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/canvas"
	"github.com/san-kum/asciiplay/internal/layout"
	"github.com/san-kum/asciiplay/internal/offload"
	"github.com/san-kum/asciiplay/internal/pace"
	"github.com/san-kum/asciiplay/internal/playback"
	"github.com/san-kum/asciiplay/internal/prerender"
	"github.com/san-kum/asciiplay/internal/viewport"
)

const DefaultPoll = 100 * time.Millisecond

// Session is the state of one layout/pre-render/playback pass.
type Session struct {
	ID       int
	Source   anim.Source
	Viewport viewport.Size
	Params   layout.Params
	Frames   []*image.RGBA
	Index    int
}

// Info summarizes a session once pre-rendering has finished or been abandoned.
type Info struct {
	ID        int
	Viewport  viewport.Size
	Params    layout.Params
	Aborted   bool
	Offloaded bool
	Elapsed   time.Duration
}

type Supervisor struct {
	Source   anim.Source
	Viewport viewport.Source
	Display  canvas.Display
	Pipeline *prerender.Pipeline
	Player   *playback.Player

	// Offload pre-renders on a worker goroutine with Workers goroutines
	// instead of showing progress on Display.
	Offload bool
	Workers int

	Margin      int
	Squishiness float64
	Poll        time.Duration
	OnSession   func(Info)

	// Idle is called every Poll while the supervisor waits without drawing:
	// for a usable viewport, or for an offloaded pre-render. Front ends that
	// must pump events on the drawing thread do it here. An error stops Run.
	Idle func() error
}

func New(src anim.Source, vp viewport.Source, display canvas.Display) *Supervisor {
	return &Supervisor{
		Source:      src,
		Viewport:    vp,
		Display:     display,
		Pipeline:    prerender.New(),
		Player:      playback.New(),
		Workers:     1,
		Margin:      layout.DefaultMargin,
		Squishiness: layout.DefaultSquishiness,
		Poll:        DefaultPoll,
	}
}

// Run loops until ctx is done or a stage fails. An invalid source is
// reported before anything is drawn.
func (s *Supervisor) Run(ctx context.Context) error {
	if err := s.Source.Validate(); err != nil {
		return err
	}
	if s.Pipeline == nil {
		s.Pipeline = prerender.New()
	}
	if s.Player == nil {
		s.Player = playback.New()
	}

	id := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		size, changed := viewport.Changed(s.Viewport)
		w, h := layout.Available(size.Width, size.Height, s.Margin)
		params, err := layout.Compute(s.Source.Dims(), w, h, s.Squishiness)
		if errors.Is(err, layout.ErrDegenerateViewport) {
			if err := pace.Sleep(ctx, s.poll()); err != nil {
				return err
			}
			if err := s.idle(); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		id++
		sess := &Session{ID: id, Source: s.Source, Viewport: size, Params: params}
		if err := s.runSession(ctx, sess, changed); err != nil {
			return err
		}
	}
}

func (s *Supervisor) runSession(ctx context.Context, sess *Session, changed func() bool) error {
	s.Display.Resize(sess.Params.Width, sess.Params.Height)

	start := time.Now()
	var err error
	if s.Offload {
		err = s.offload(ctx, sess)
	} else {
		err = s.prerender(ctx, sess, changed)
	}
	if err != nil {
		return fmt.Errorf("session %d: %w", sess.ID, err)
	}

	aborted := sess.Frames == nil
	if s.OnSession != nil {
		s.OnSession(Info{
			ID:        sess.ID,
			Viewport:  sess.Viewport,
			Params:    sess.Params,
			Aborted:   aborted,
			Offloaded: s.Offload,
			Elapsed:   time.Since(start),
		})
	}
	if aborted {
		return nil
	}

	return s.Player.Play(ctx, sess.Frames, sess.Index, s.Display, changed)
}

func (s *Supervisor) prerender(ctx context.Context, sess *Session, changed func() bool) error {
	res, err := s.Pipeline.Run(ctx, sess.Source, sess.Params, s.Display, changed)
	if err != nil || res == nil {
		return err
	}
	sess.Frames = res.Frames
	sess.Index = res.Shown
	return nil
}

func (s *Supervisor) offload(ctx context.Context, sess *Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tick <-chan time.Time
	if s.Idle != nil {
		t := time.NewTicker(s.poll())
		defer t.Stop()
		tick = t.C
	}

	w := offload.NewWorker(s.Workers)
	w.Pipeline = s.Pipeline

	ch := w.Dispatch(ctx, offload.Request{
		Source: sess.Source,
		Width:  sess.Params.Width,
		Height: sess.Params.Height,
		Params: sess.Params,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			if err := s.idle(); err != nil {
				return err
			}
		case resp := <-ch:
			if resp.Err != nil {
				return resp.Err
			}
			sess.Frames = resp.Frames
			return nil
		}
	}
}

func (s *Supervisor) idle() error {
	if s.Idle == nil {
		return nil
	}
	return s.Idle()
}

func (s *Supervisor) poll() time.Duration {
	if s.Poll <= 0 {
		return DefaultPoll
	}
	return s.Poll
}
