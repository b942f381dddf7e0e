package viz

import (
	"context"
	"image"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/canvas"
	"github.com/san-kum/asciiplay/internal/export"
	"github.com/san-kum/asciiplay/internal/reflow"
	"github.com/san-kum/asciiplay/internal/term"
	"github.com/san-kum/asciiplay/internal/viewport"
)

// Recorder keeps copies of presented surfaces while recording is on.
type Recorder struct {
	mu     sync.Mutex
	on     bool
	frames []*image.RGBA
	Delay  time.Duration
}

func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.on = true
	r.frames = nil
}

func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.on
}

func (r *Recorder) Capture(img *image.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.on {
		return
	}
	cp := image.NewRGBA(img.Bounds())
	copy(cp.Pix, img.Pix)
	r.frames = append(r.frames, cp)
}

// Stop ends recording and writes what was captured to path as a GIF.
// Frames of different sizes, recorded across a reflow, keep only the last size.
func (r *Recorder) Stop(path string) (int, error) {
	r.mu.Lock()
	frames := r.frames
	r.on = false
	r.frames = nil
	r.mu.Unlock()

	frames = lastSize(frames)
	if len(frames) == 0 {
		return 0, nil
	}

	opts := export.DefaultGIFOptions()
	if r.Delay > 0 {
		opts.Delay = r.Delay
	}
	return len(frames), export.SaveGIF(path, frames, opts)
}

func lastSize(frames []*image.RGBA) []*image.RGBA {
	if len(frames) == 0 {
		return nil
	}
	b := frames[len(frames)-1].Bounds()
	i := len(frames) - 1
	for i > 0 && frames[i-1].Bounds() == b {
		i--
	}
	return frames[i:]
}

type progressObserver struct {
	send func(tea.Msg)
}

func (o progressObserver) OnFrame(index, total int, took time.Duration) {
	o.send(ProgressMsg{Index: index, Total: total, Took: took})
}

type Options struct {
	Title       string
	Supersample int
	Theme       string
}

// Run plays src full screen until the user quits. configure may adjust the
// supervisor before it starts.
func Run(ctx context.Context, src anim.Source, opts Options, configure func(*reflow.Supervisor)) error {
	SetTheme(opts.Theme)
	ss := opts.Supersample
	if ss <= 0 {
		ss = term.DefaultSupersample
	}

	vp := viewport.NewAtomic(viewport.Size{})
	rec := &Recorder{}
	p := tea.NewProgram(NewModel(opts.Title, vp, ss, rec), tea.WithAltScreen())

	enc := term.NewEncoder()
	screen := canvas.NewScreen(0, 0, func(img *image.RGBA) error {
		cols, rows := term.Cells(img.Rect.Dx(), img.Rect.Dy(), ss)
		rec.Capture(img)
		p.Send(FrameMsg{View: enc.Encode(img, cols, rows)})
		return nil
	})

	s := reflow.New(src, vp, screen)
	if configure != nil {
		configure(s)
	}
	rec.Delay = s.Player.Delay
	s.Pipeline.Observer = progressObserver{send: p.Send}
	next := s.OnSession
	s.OnSession = func(info reflow.Info) {
		p.Send(SessionMsg(info))
		if next != nil {
			next(info)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := s.Run(ctx)
		if ctx.Err() == nil {
			p.Send(DoneMsg{Err: err})
		}
	}()

	final, err := p.Run()
	cancel()
	<-done
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
