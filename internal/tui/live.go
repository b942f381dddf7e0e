// Package tui plays an animation by writing escape sequences straight to a
// terminal, without a UI framework. Interrupt the process to stop it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	xterm "golang.org/x/term"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/canvas"
	"github.com/san-kum/asciiplay/internal/logs"
	"github.com/san-kum/asciiplay/internal/metrics"
	"github.com/san-kum/asciiplay/internal/reflow"
	"github.com/san-kum/asciiplay/internal/term"
	"github.com/san-kum/asciiplay/internal/viewport"
)

var ErrNotTerminal = errors.New("tui: output is not a terminal")

// LiveRenderer is a canvas sink that redraws the whole frame plus a status
// line in place on every present.
type LiveRenderer struct {
	out         io.Writer
	enc         *term.Encoder
	title       string
	supersample int

	rate *metrics.PresentRate

	mu         sync.Mutex
	status     string
	cols, rows int
	b          strings.Builder
}

func NewLiveRenderer(out io.Writer, title string, supersample int) *LiveRenderer {
	if supersample <= 0 {
		supersample = term.DefaultSupersample
	}
	return &LiveRenderer{
		out:         out,
		enc:         term.NewEncoder(),
		title:       title,
		supersample: supersample,
	}
}

// SetStatus replaces the text shown after the title.
func (r *LiveRenderer) SetStatus(s string) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// Present encodes img and writes it over the previous frame. The screen is
// cleared only when the cell grid changes size.
func (r *LiveRenderer) Present(img *image.RGBA) error {
	cols, rows := term.Cells(img.Rect.Dx(), img.Rect.Dy(), r.supersample)

	r.mu.Lock()
	status := r.status
	r.mu.Unlock()

	r.b.Reset()
	if cols != r.cols || rows != r.rows {
		r.b.WriteString(term.ClearScreen)
		r.cols, r.rows = cols, rows
	} else {
		r.b.WriteString(term.Home)
	}
	r.b.WriteString(r.enc.Encode(img, cols, rows))
	r.b.WriteString("\n")
	r.b.WriteString(fmt.Sprintf("  %s  %s", r.title, status))
	if r.rate != nil {
		r.b.WriteString(fmt.Sprintf("  %.1f fps", r.rate.Value()))
	}
	r.b.WriteString(term.ClearToEnd)

	_, err := io.WriteString(r.out, r.b.String())
	return err
}

type Options struct {
	Title       string
	Supersample int
}

// Run plays src on stdout until ctx is done.
func Run(ctx context.Context, src anim.Source, opts Options, configure func(*reflow.Supervisor)) error {
	fd := int(os.Stdout.Fd())
	if !xterm.IsTerminal(fd) {
		return ErrNotTerminal
	}

	ss := opts.Supersample
	if ss <= 0 {
		ss = term.DefaultSupersample
	}
	r := NewLiveRenderer(os.Stdout, opts.Title, ss)
	vp := viewport.Terminal{FD: fd, CellWidth: ss, CellHeight: 2 * ss, Reserve: 1}

	s := reflow.New(src, vp, canvas.NewScreen(0, 0, r.Present))
	if configure != nil {
		configure(s)
	}
	r.rate = metrics.NewPresentRate(time.Second)
	s.Player.Observer = r.rate
	next := s.OnSession
	s.OnSession = func(info reflow.Info) {
		if info.Aborted {
			r.SetStatus(fmt.Sprintf("#%d resized, laying out again", info.ID))
		} else {
			r.SetStatus(fmt.Sprintf("#%d %s  rendered in %s", info.ID, info.Params, info.Elapsed.Round(time.Millisecond)))
		}
		if next != nil {
			next(info)
		}
	}

	fmt.Fprint(os.Stdout, term.HideCursor+term.ClearScreen)
	defer fmt.Fprint(os.Stdout, term.ShowCursor+"\n")

	err := s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logs.LogV("tui: stopped")
		return nil
	}
	return err
}
