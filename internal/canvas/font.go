package canvas

import (
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

// mono returns the parsed Go Mono font. The parsed font is read-only and is
// shared; faces are not and belong to a single canvas.
func mono() (*truetype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = freetype.ParseFont(gomono.TTF)
	})
	return monoFont, monoErr
}

func newFace(px float64) (font.Face, error) {
	f, err := mono()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
