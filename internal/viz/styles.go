package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	barFull  = "█"
	barEmpty = "░"
)

var recStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#ff4444")).
	Blink(true)

func hintStyle(th Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(th.Muted).Italic(true)
}

// renderBar draws pre-render progress (0..1) over width cells. The filled part
// takes the theme's secondary color until the last frame is near, then its
// success color.
func renderBar(th Theme, done float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(done * float64(width))
	filled = max(0, min(filled, width))

	fg := th.Secondary
	if done >= 0.9 {
		fg = th.Success
	}
	full := lipgloss.NewStyle().Foreground(fg).Render(strings.Repeat(barFull, filled))
	empty := lipgloss.NewStyle().Foreground(th.Muted).Render(strings.Repeat(barEmpty, width-filled))
	return full + empty
}
