// Package palette converts between the packed 8-bit cell colors used by
// animation sources and RGB colors.
//
// A token is two hex characters holding one byte laid out as RRRGGGBB. Red and
// green index an 8-level table, blue a 4-level table.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
)

var ErrInvalidColorToken = errors.New("palette: invalid color token")

var (
	redLevels   = [8]uint8{0, 36, 72, 109, 145, 182, 218, 255}
	greenLevels = [8]uint8{0, 36, 72, 109, 145, 182, 218, 255}
	blueLevels  = [4]uint8{0, 85, 170, 255}
)

const (
	redMask   = 0xe0
	greenMask = 0x1c
	blueMask  = 0x03
)

// Decode parses a 2-character hex token into its quantized color.
func Decode(token string) (color.RGBA, error) {
	if len(token) != 2 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColorToken, token)
	}
	v, err := strconv.ParseUint(token, 16, 8)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColorToken, token)
	}
	return DecodeByte(byte(v)), nil
}

// DecodeByte expands a packed color byte.
func DecodeByte(b byte) color.RGBA {
	return color.RGBA{
		R: redLevels[(b&redMask)>>5],
		G: greenLevels[(b&greenMask)>>2],
		B: blueLevels[b&blueMask],
		A: 0xff,
	}
}

// Quantize packs a color into a byte, choosing the nearest level per channel.
func Quantize(c color.Color) byte {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	r := nearest(redLevels[:], rgba.R)
	g := nearest(greenLevels[:], rgba.G)
	b := nearest(blueLevels[:], rgba.B)
	return byte(r<<5 | g<<2 | b)
}

// Encode returns the 2-character lowercase token for c.
func Encode(c color.Color) string {
	return fmt.Sprintf("%02x", Quantize(c))
}

// CSS formats c the way a canvas fill style would name it.
func CSS(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Palette returns all 256 decodable colors indexed by their packed byte.
func Palette() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = DecodeByte(byte(i))
	}
	return p
}

// nearest returns the index of the level closest to v. Ties go to the lower
// level, matching the converter that produced existing sources.
func nearest(levels []uint8, v uint8) int {
	best := 0
	bestDist := 256
	for i, l := range levels {
		d := int(v) - int(l)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
