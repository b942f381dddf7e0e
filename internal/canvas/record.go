package canvas

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"unicode/utf8"
)

type OpKind int

const (
	OpClear OpKind = iota
	OpDrawImage
	OpFillRect
	OpFillText
	OpResize
	OpPresent
)

func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpDrawImage:
		return "drawImage"
	case OpFillRect:
		return "fillRect"
	case OpFillText:
		return "fillText"
	case OpResize:
		return "resize"
	case OpPresent:
		return "present"
	}
	return "unknown"
}

// Op is one recorded drawing call with the state it was drawn with.
type Op struct {
	Kind     OpKind
	X, Y     float64
	W, H     int
	Text     string
	Color    color.RGBA
	FontSize float64
	Align    Align
	Image    image.Image
}

func (o Op) String() string {
	switch o.Kind {
	case OpFillText:
		return fmt.Sprintf("%s %q at (%g,%g) %gpx rgb(%d,%d,%d)", o.Kind, o.Text, o.X, o.Y, o.FontSize, o.Color.R, o.Color.G, o.Color.B)
	case OpDrawImage:
		return fmt.Sprintf("%s at (%g,%g)", o.Kind, o.X, o.Y)
	case OpPresent:
		return o.Kind.String()
	}
	return fmt.Sprintf("%s (%g,%g) %dx%d", o.Kind, o.X, o.Y, o.W, o.H)
}

// Recorder is a Display that draws nothing and logs every call.
type Recorder struct {
	Ops []Op

	w, h     int
	fill     color.RGBA
	fontSize float64
	align    Align
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{w: w, h: h, fill: color.RGBA{0, 0, 0, 0xff}, fontSize: DefaultFontSize}
}

func (r *Recorder) Width() int  { return r.w }
func (r *Recorder) Height() int { return r.h }

func (r *Recorder) Resize(w, h int) {
	r.w, r.h = w, h
	r.Ops = append(r.Ops, Op{Kind: OpResize, W: w, H: h})
}

func (r *Recorder) Present() error {
	r.Ops = append(r.Ops, Op{Kind: OpPresent})
	return nil
}

func (r *Recorder) ClearRect(x, y, w, h int) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, X: float64(x), Y: float64(y), W: w, H: h})
}

func (r *Recorder) DrawImage(img image.Image, x, y int) {
	r.Ops = append(r.Ops, Op{Kind: OpDrawImage, X: float64(x), Y: float64(y), Image: img})
}

func (r *Recorder) FillRect(x, y, w, h int) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, X: float64(x), Y: float64(y), W: w, H: h, Color: r.fill})
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.Ops = append(r.Ops, Op{
		Kind:     OpFillText,
		X:        x,
		Y:        y,
		Text:     text,
		Color:    r.fill,
		FontSize: r.fontSize,
		Align:    r.align,
	})
}

// MeasureText approximates a monospace advance of 0.6em per rune.
func (r *Recorder) MeasureText(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * r.fontSize * 0.6
}

func (r *Recorder) SetFillColor(c color.Color) {
	r.fill = color.RGBAModel.Convert(c).(color.RGBA)
}

func (r *Recorder) SetFontSize(px float64) { r.fontSize = px }
func (r *Recorder) SetTextAlign(a Align)   { r.align = a }

// Filter returns the recorded ops of the given kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

func (r *Recorder) String() string {
	var b strings.Builder
	for _, op := range r.Ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}
