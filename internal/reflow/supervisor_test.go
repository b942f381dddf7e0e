package reflow_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/canvas"
	"github.com/san-kum/asciiplay/internal/palette"
	"github.com/san-kum/asciiplay/internal/reflow"
	"github.com/san-kum/asciiplay/internal/viewport"
)

type frameFunc func(index, total int, took time.Duration)

func (f frameFunc) OnFrame(index, total int, took time.Duration) { f(index, total, took) }

type presentFunc func(index int)

func (f presentFunc) OnPresent(index int) { f(index) }

func repeated(n int, row anim.Row) anim.Source {
	src := make(anim.Source, n)
	for i := range src {
		src[i] = anim.Frame{row}
	}
	return src
}

// grid builds n frames of w x h cells.
func grid(n, w, h int) anim.Source {
	row := anim.Row(strings.Repeat("A00", w))
	src := make(anim.Source, n)
	for i := range src {
		frame := make(anim.Frame, h)
		for j := range frame {
			frame[j] = row
		}
		src[i] = frame
	}
	return src
}

var _ = Describe("Supervisor", func() {
	var (
		ctx     context.Context
		cancel  context.CancelFunc
		display *canvas.Recorder
		vp      *viewport.Atomic
		infos   []reflow.Info
		events  []string
	)

	newSupervisor := func(src anim.Source) *reflow.Supervisor {
		s := reflow.New(src, vp, display)
		s.Pipeline.FrameDelay = time.Hour
		s.Player.Delay = time.Millisecond
		s.Poll = time.Millisecond
		s.OnSession = func(info reflow.Info) {
			infos = append(infos, info)
			events = append(events, "session")
		}
		return s
	}

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		display = canvas.NewRecorder(0, 0)
		vp = viewport.NewAtomic(viewport.Size{Width: 105, Height: 105})
		infos = nil
		events = nil
	})

	AfterEach(func() {
		cancel()
	})

	It("lays out and loops a two-frame source", func() {
		s := newSupervisor(anim.Source{{"A00"}, {"BFF"}})

		var played []int
		s.Player.Observer = presentFunc(func(i int) {
			played = append(played, i)
			if len(played) == 5 {
				cancel()
			}
		})

		err := s.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))

		Expect(infos).To(HaveLen(1))
		Expect(infos[0].ID).To(Equal(1))
		Expect(infos[0].Aborted).To(BeFalse())
		Expect(infos[0].Offloaded).To(BeFalse())
		Expect(infos[0].Params.GridWidth).To(Equal(1))
		Expect(infos[0].Params.GridHeight).To(Equal(1))
		Expect(infos[0].Params.CellSize).To(BeNumerically("~", 100, 0.001))

		resizes := display.Filter(canvas.OpResize)
		Expect(resizes).To(HaveLen(1))
		Expect(resizes[0].W).To(Equal(98))
		Expect(resizes[0].H).To(Equal(100))

		Expect(played).To(Equal([]int{0, 1, 0, 1, 0}))
	})

	It("abandons a pre-render when the viewport changes and lays out again", func() {
		vp.Set(viewport.Size{Width: 25, Height: 25})
		s := newSupervisor(repeated(1000, "A00"))

		resized := false
		s.Pipeline.Observer = frameFunc(func(index, total int, _ time.Duration) {
			if !resized && index == 10 {
				resized = true
				vp.Set(viewport.Size{Width: 35, Height: 35})
			}
		})
		s.Player.Observer = presentFunc(func(int) {
			events = append(events, "present")
			cancel()
		})

		err := s.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))

		Expect(infos).To(HaveLen(2))
		Expect(infos[0].Aborted).To(BeTrue())
		Expect(infos[0].Viewport).To(Equal(viewport.Size{Width: 25, Height: 25}))
		Expect(infos[1].Aborted).To(BeFalse())
		Expect(infos[1].ID).To(Equal(2))
		Expect(infos[1].Viewport).To(Equal(viewport.Size{Width: 35, Height: 35}))
		Expect(infos[1].Params.Width).To(Equal(28))
		Expect(infos[1].Params.Height).To(Equal(30))

		Expect(events).To(Equal([]string{"session", "session", "present"}))

		resizes := display.Filter(canvas.OpResize)
		Expect(resizes).To(HaveLen(2))
		Expect(resizes[0].W).To(Equal(18))
		Expect(resizes[1].W).To(Equal(28))
	})

	It("stops playback on a resize and starts a new session", func() {
		s := newSupervisor(anim.Source{{"A00"}, {"BFF"}})

		presents := 0
		s.Player.Observer = presentFunc(func(int) {
			presents++
			switch presents {
			case 3:
				vp.Set(viewport.Size{Width: 55, Height: 55})
			case 6:
				cancel()
			}
		})

		Expect(s.Run(ctx)).To(MatchError(context.Canceled))
		Expect(infos).To(HaveLen(2))
		Expect(infos[1].Params.CellSize).To(BeNumerically("~", 50, 0.001))
	})

	It("pre-renders on a worker when offloading", func() {
		s := newSupervisor(anim.Source{{"A00"}, {"BFF"}, {"C1c"}})
		s.Offload = true
		s.Workers = 2

		var played []int
		s.Player.Observer = presentFunc(func(i int) {
			played = append(played, i)
			if len(played) == 4 {
				cancel()
			}
		})

		Expect(s.Run(ctx)).To(MatchError(context.Canceled))
		Expect(infos).To(HaveLen(1))
		Expect(infos[0].Offloaded).To(BeTrue())
		Expect(played).To(Equal([]int{0, 1, 2, 0}))
		Expect(display.Filter(canvas.OpFillText)).To(BeEmpty())
	})

	It("waits for a usable viewport", func() {
		vp.Set(viewport.Size{Width: 3, Height: 3})
		s := reflow.New(anim.Source{{"A00"}}, vp, display)
		s.Pipeline.FrameDelay = time.Hour
		s.Player.Delay = time.Millisecond
		s.Poll = time.Millisecond

		sessions := make(chan reflow.Info, 4)
		s.OnSession = func(info reflow.Info) { sessions <- info }

		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		Consistently(sessions, 20*time.Millisecond).ShouldNot(Receive())
		vp.Set(viewport.Size{Width: 105, Height: 105})

		var info reflow.Info
		Eventually(sessions).Should(Receive(&info))
		Expect(info.ID).To(Equal(1))

		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})

	It("stays idle-responsive while waiting for a usable viewport", func() {
		vp.Set(viewport.Size{Width: 3, Height: 3})
		s := newSupervisor(anim.Source{{"A00"}})

		idles := 0
		s.Idle = func() error {
			idles++
			if idles == 3 {
				vp.Set(viewport.Size{Width: 105, Height: 105})
			}
			return nil
		}
		s.Player.Observer = presentFunc(func(int) { cancel() })

		Expect(s.Run(ctx)).To(MatchError(context.Canceled))
		Expect(idles).To(Equal(3))
		Expect(infos).To(HaveLen(1))
	})

	It("calls the idle hook while an offloaded pre-render runs", func() {
		s := newSupervisor(grid(2000, 10, 10))
		s.Offload = true

		errStop := errors.New("window closed")
		idles := 0
		s.Idle = func() error {
			idles++
			return errStop
		}

		Expect(s.Run(ctx)).To(MatchError(errStop))
		Expect(idles).To(Equal(1))
		Expect(infos).To(BeEmpty())
		Expect(display.Filter(canvas.OpPresent)).To(BeEmpty())
	})

	It("rejects a ragged source before drawing", func() {
		s := newSupervisor(anim.Source{{"A00", "B00"}, {"A00"}})

		Expect(s.Run(ctx)).To(MatchError(anim.ErrRaggedFrame))
		Expect(display.Ops).To(BeEmpty())
	})

	It("fails on an undecodable color token", func() {
		s := newSupervisor(anim.Source{{"Azz"}})

		Expect(s.Run(ctx)).To(MatchError(palette.ErrInvalidColorToken))
		Expect(infos).To(BeEmpty())
	})
})
