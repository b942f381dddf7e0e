package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/canvas"
	"github.com/san-kum/asciiplay/internal/config"
	"github.com/san-kum/asciiplay/internal/export"
	"github.com/san-kum/asciiplay/internal/layout"
	"github.com/san-kum/asciiplay/internal/metrics"
	"github.com/san-kum/asciiplay/internal/offload"
	"github.com/san-kum/asciiplay/internal/prerender"
	"github.com/san-kum/asciiplay/internal/render"
	"github.com/san-kum/asciiplay/internal/source"
)

func fixedLayout(src anim.Source, cfg *config.Config, w, h int) (layout.Params, error) {
	aw, ah := layout.Available(w, h, cfg.Margin)
	return layout.Compute(src.Dims(), aw, ah, cfg.Squishiness)
}

func newPipeline(cfg *config.Config) *prerender.Pipeline {
	p := prerender.New()
	p.FrameDelay = cfg.FrameDelay()
	p.Yield = cfg.Yield()
	p.LeftPad = cfg.LeftPad
	p.ProgressFontSize = cfg.ProgressFontSize
	return p
}

// renderFrames pre-renders every frame without a live display, on workers
// when offloading is enabled.
func renderFrames(ctx context.Context, cfg *config.Config, src anim.Source, params layout.Params) ([]*image.RGBA, error) {
	pipe := newPipeline(cfg)
	if !cfg.Offload {
		return pipe.RenderAll(ctx, src, params)
	}

	w := offload.NewWorker(cfg.Workers)
	w.Pipeline = pipe
	resp := <-w.Dispatch(ctx, offload.Request{Source: src, Width: params.Width, Height: params.Height, Params: params})
	return resp.Frames, resp.Err
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := loadSource(args[0])
	if err != nil {
		return err
	}
	params, err := fixedLayout(src, cfg, outWidth, outHeight)
	if err != nil {
		return err
	}
	fmt.Printf("layout: %s\n", params)

	if strings.EqualFold(filepath.Ext(output), ".svg") {
		if frameIdx < 0 || frameIdx >= len(src) {
			return fmt.Errorf("frame %d out of range [0, %d)", frameIdx, len(src))
		}
		svg, err := export.FrameToSVG(src[frameIdx], params, cfg.LeftPad)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote frame %d to %s\n", frameIdx, output)
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	frames, err := renderFrames(ctx, cfg, src, params)
	if err != nil {
		return err
	}
	fmt.Printf("rendered %d frames in %s\n", len(frames), elapsedSince(start))

	if strings.EqualFold(filepath.Ext(output), ".gif") {
		opts := export.DefaultGIFOptions()
		opts.Delay = cfg.FrameDelay()
		if err := export.SaveGIF(output, frames, opts); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", output)
		return nil
	}

	paths, err := export.SavePNGs(output, frames)
	if err != nil {
		return err
	}
	fmt.Printf("saved %d frames to %s\n", len(paths), output)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	toPrint := []string{
		fmt.Sprintf("%-11s%s", "Input:", in),
		fmt.Sprintf("%-11s%s", "Output:", out),
		fmt.Sprintf("%-11s%s", "List:", listName),
		fmt.Sprintf("%-11s%d", "Width:", convWidth),
		fmt.Sprintf("%-11s%d", "# frames:", convFrames),
		fmt.Sprintf("%-11s%d", "Skip:", convSkip),
	}
	longest := 0
	for _, line := range toPrint {
		longest = max(longest, len(line))
	}
	fmt.Println("Image to ASCII")
	fmt.Println(strings.Repeat("-", longest))
	for _, line := range toPrint {
		fmt.Println(line)
	}
	fmt.Println(strings.Repeat("-", longest) + "\n")

	opts := source.ConvertOptions{
		Width:     convWidth,
		MaxFrames: convFrames,
		Skip:      convSkip,
		Progress: func(done, total int) {
			const barWidth = 30
			filled := done * barWidth / total
			fmt.Printf("\rConverting frame %*d/%d [%-*s] %d%%",
				len(fmt.Sprint(total)), done, total, barWidth, strings.Repeat("=", filled), 100*done/total)
		},
	}

	src, err := source.ConvertFile(in, opts)
	if err != nil {
		return err
	}
	if err := source.Save(out, listName, src); err != nil {
		return err
	}
	fmt.Println("\nDone.")
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := loadSource(args[0])
	if err != nil {
		return err
	}

	d := src.Dims()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FILE\t%s\n", args[0])
	fmt.Fprintf(w, "FRAMES\t%d\n", d.Frames)
	fmt.Fprintf(w, "GRID\t%dx%d cells\n", d.Width, d.Height)
	fmt.Fprintf(w, "VIEWPORT\t%dx%d px (margin %d)\n", outWidth, outHeight, cfg.Margin)

	params, err := fixedLayout(src, cfg, outWidth, outHeight)
	if err != nil {
		fmt.Fprintf(w, "LAYOUT\t%v\n", err)
		return w.Flush()
	}
	fmt.Fprintf(w, "CELL\t%.3f px (advance %.3f px)\n", params.CellSize, params.Advance())
	fmt.Fprintf(w, "SURFACE\t%dx%d px\n", params.Width, params.Height)
	fmt.Fprintf(w, "MEMORY\t%.1f MiB pre-rendered\n", float64(params.Width*params.Height*4*d.Frames)/(1<<20))
	if err := w.Flush(); err != nil {
		return err
	}

	if !trace {
		return nil
	}
	rec := canvas.NewRecorder(params.Width, params.Height)
	if err := render.Frame(rec, src[0], params, cfg.LeftPad); err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(rec.String())
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := loadSource(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	sizes := [][2]int{{320, 240}, {800, 600}, {1920, 1080}}
	workerCounts := []int{1, 2, 4, 8}

	fmt.Printf("benchmarking %s (%d frames)\n\n", args[0], len(src))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VIEWPORT\tSURFACE\tWORKERS\tTIME\tFRAMES/SEC")

	var frameTimes []float64
	rt := metrics.NewRenderTime()
	for _, size := range sizes {
		params, err := fixedLayout(src, cfg, size[0], size[1])
		if err != nil {
			return err
		}
		for _, n := range workerCounts {
			c := *cfg
			c.Offload = n > 1
			c.Workers = n

			start := time.Now()
			if _, err := renderFrames(ctx, &c, src, params); err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%dx%d\t%dx%d\t%d\t%v\t%.1f\n",
				size[0], size[1], params.Width, params.Height, n, elapsed.Round(time.Millisecond),
				float64(len(src))/elapsed.Seconds())
		}

		if frameTimes == nil {
			pipe := newPipeline(cfg)
			pipe.Observer = rt
			res, err := pipe.Run(ctx, src, params, nil, nil)
			if err != nil {
				return err
			}
			for _, d := range res.FrameTimes {
				frameTimes = append(frameTimes, float64(d.Microseconds())/1000)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%s: mean %.2fms  p95 %.2fms  max %.2fms over %d frames\n",
		rt.Name(), rt.Value(), rt.Percentile(95), rt.Percentile(100), rt.Count())

	if len(frameTimes) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(frameTimes,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("per-frame render time (ms), smallest viewport")))
	}
	return nil
}
