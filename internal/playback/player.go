// Package playback loops pre-rendered frames on a live display.
package playback

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/san-kum/asciiplay/internal/canvas"
	"github.com/san-kum/asciiplay/internal/pace"
)

var ErrNoFrames = errors.New("playback: no frames to play")

// Observer is notified after each frame is presented.
type Observer interface {
	OnPresent(index int)
}

type Player struct {
	Delay    time.Duration
	Observer Observer
}

func New() *Player {
	return &Player{Delay: pace.FrameDelay}
}

// Play draws frames[start], frames[start+1], ... wrapping to 0 past the end,
// sleeping Delay after each one. It runs until changed reports true, which is
// checked once per frame, or ctx is done. A start outside the slice begins at 0.
func (p *Player) Play(ctx context.Context, frames []*image.RGBA, start int, live canvas.Display, changed func() bool) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}

	i := start
	if i < 0 || i >= len(frames) {
		i = 0
	}

	for {
		if changed != nil && changed() {
			return nil
		}

		canvas.Clear(live)
		live.DrawImage(frames[i], 0, 0)
		if err := live.Present(); err != nil {
			return err
		}
		if p.Observer != nil {
			p.Observer.OnPresent(i)
		}

		if err := pace.Sleep(ctx, p.Delay); err != nil {
			return err
		}

		i++
		if i >= len(frames) {
			i = 0
		}
	}
}
