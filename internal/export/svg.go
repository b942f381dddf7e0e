package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/layout"
	"github.com/san-kum/asciiplay/internal/palette"
)

// FrameToSVG lays a frame out as one <text> element per cell, using the same
// origins the raster renderer draws at.
func FrameToSVG(frame anim.Frame, p layout.Params, leftPad float64) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
<g font-family="monospace" font-size="%.2f">
`, p.Width, p.Height, p.Width, p.Height, p.CellSize))

	for row, r := range frame {
		y := p.CellSize + float64(row)*p.CellSize
		for col, cell := range r.Cells() {
			c, err := palette.Decode(cell.Token)
			if err != nil {
				return "", fmt.Errorf("row %d col %d: %w", row, col, err)
			}
			if cell.Glyph == ' ' {
				continue
			}
			x := float64(col)*p.Advance() + leftPad
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s">%s</text>
`, x, y, palette.CSS(c), html.EscapeString(string(cell.Glyph))))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String(), nil
}
