// Package gui plays an animation in a resizable raylib window.
//
// raylib must be driven from the main OS thread, so the whole reflow
// supervisor runs there: every present uploads the surface to a texture and
// draws one window frame, which also pumps window events.
package gui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/canvas"
	"github.com/san-kum/asciiplay/internal/logs"
	"github.com/san-kum/asciiplay/internal/reflow"
	"github.com/san-kum/asciiplay/internal/viewport"
)

var ErrWindowClosed = errors.New("gui: window closed")

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

type Options struct {
	Width  int
	Height int
	Title  string
	FPS    int
	HUD    bool
}

// App owns the window texture and the status text drawn over it.
type App struct {
	opts   Options
	tex    rl.Texture2D
	loaded bool
	pixels []color.RGBA
	status string
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(rl.KeyQ)
}

func (a *App) windowSize() viewport.Size {
	return viewport.Size{Width: rl.GetScreenWidth(), Height: rl.GetScreenHeight()}
}

// Present is the canvas sink: it uploads img and draws it centered.
func (a *App) Present(img *image.RGBA) error {
	if rl.WindowShouldClose() {
		return ErrWindowClosed
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w > 0 && h > 0 {
		a.upload(img)
	}
	a.draw()
	return nil
}

// Idle redraws the last texture. Ending a frame is where raylib polls window
// events, so the supervisor calls this while it has nothing to present.
func (a *App) Idle() error {
	if rl.WindowShouldClose() {
		return ErrWindowClosed
	}
	a.draw()
	return nil
}

func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	if a.loaded {
		x, y := center(int(a.tex.Width), int(a.tex.Height), rl.GetScreenWidth(), rl.GetScreenHeight())
		rl.DrawTexture(a.tex, int32(x), int32(y), rl.White)
	}
	if a.opts.HUD {
		a.drawHUD()
	}
	rl.EndDrawing()
}

func (a *App) upload(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if !a.loaded || int(a.tex.Width) != w || int(a.tex.Height) != h {
		if a.loaded {
			rl.UnloadTexture(a.tex)
		}
		rimg := rl.NewImageFromImage(img)
		a.tex = rl.LoadTextureFromImage(rimg)
		rl.UnloadImage(rimg)
		rl.SetTextureFilter(a.tex, rl.FilterBilinear)
		a.loaded = true
		return
	}
	a.pixels = toColors(img, a.pixels)
	rl.UpdateTexture(a.tex, a.pixels)
}

func (a *App) drawHUD() {
	rl.DrawText(a.status, 10, int32(rl.GetScreenHeight())-20, 14, ColText)
	rl.DrawText(fmt.Sprintf("%d FPS  [Q] QUIT", rl.GetFPS()), int32(rl.GetScreenWidth())-130, 10, 14, ColTextDim)
}

// center returns the offset that centers a w x h texture in a W x H window.
func center(w, h, W, H int) (int, int) {
	return (W - w) / 2, (H - h) / 2
}

// toColors copies the pixels of img into dst, reusing its storage.
func toColors(img *image.RGBA, dst []color.RGBA) []color.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if cap(dst) < w*h {
		dst = make([]color.RGBA, w*h)
	}
	dst = dst[:w*h]
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4 : x*4+4]
			dst[y*w+x] = color.RGBA{p[0], p[1], p[2], p[3]}
		}
	}
	return dst
}

// Run opens the window and plays src until the window is closed or ctx is
// done. It must be called from the main goroutine.
func Run(ctx context.Context, src anim.Source, opts Options, configure func(*reflow.Supervisor)) error {
	initWindow(opts)
	defer rl.CloseWindow()

	a := &App{opts: opts, status: "laying out"}
	defer func() {
		if a.loaded {
			rl.UnloadTexture(a.tex)
		}
	}()

	s := reflow.New(src, viewport.Func(a.windowSize), canvas.NewScreen(0, 0, a.Present))
	if configure != nil {
		configure(s)
	}
	s.Idle = a.Idle
	if s.Offload {
		a.status = "rendering on workers"
	}
	next := s.OnSession
	s.OnSession = func(info reflow.Info) {
		a.status = fmt.Sprintf("#%d %s", info.ID, info.Params)
		if next != nil {
			next(info)
		}
	}

	err := s.Run(ctx)
	if errors.Is(err, ErrWindowClosed) || errors.Is(err, context.Canceled) {
		logs.LogV("gui: %v", err)
		return nil
	}
	return err
}
