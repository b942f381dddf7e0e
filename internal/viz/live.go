package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/asciiplay/internal/reflow"
	"github.com/san-kum/asciiplay/internal/term"
	"github.com/san-kum/asciiplay/internal/viewport"
)

const (
	renderHistory = 120
	statusRows    = 1
	statsRows     = 8
)

// FrameMsg carries one presented surface, already encoded for the terminal.
type FrameMsg struct {
	View string
}

// ProgressMsg reports a pre-rendered frame.
type ProgressMsg struct {
	Index int
	Total int
	Took  time.Duration
}

type SessionMsg reflow.Info

// DoneMsg ends the program with the supervisor's error.
type DoneMsg struct {
	Err error
}

// Model shows the animation above a one-line status bar. It owns the
// viewport: every window size message is converted to pixels for the
// supervisor to poll.
type Model struct {
	title       string
	view        string
	vp          *viewport.Atomic
	supersample int
	cols, rows  int

	session     reflow.Info
	hasSession  bool
	progress    ProgressMsg
	rendering   bool
	renderTimes []float64
	presents    int
	since       time.Time

	rec       *Recorder
	gifPath   string
	saved     string
	showStats bool
	showHelp  bool
	err       error
}

func NewModel(title string, vp *viewport.Atomic, supersample int, rec *Recorder) Model {
	if supersample <= 0 {
		supersample = term.DefaultSupersample
	}
	return Model{
		title:       title,
		vp:          vp,
		supersample: supersample,
		renderTimes: make([]float64, 0, renderHistory),
		rec:         rec,
		gifPath:     "asciiplay.gif",
		since:       time.Now(),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		case "s":
			m.showStats = !m.showStats
			m.resize()
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "g":
			m.toggleRecording()
		}
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.resize()
	case FrameMsg:
		m.view = msg.View
		m.presents++
		m.rendering = false
	case ProgressMsg:
		m.progress = msg
		m.rendering = msg.Index+1 < msg.Total
		m.renderTimes = append(m.renderTimes, float64(msg.Took.Microseconds())/1000)
		if len(m.renderTimes) > renderHistory {
			m.renderTimes = m.renderTimes[len(m.renderTimes)-renderHistory:]
		}
	case SessionMsg:
		m.session = reflow.Info(msg)
		m.hasSession = true
		m.presents = 0
		m.since = time.Now()
	case DoneMsg:
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// resize publishes the pixel area left for the animation.
func (m *Model) resize() {
	rows := m.rows - m.reservedRows()
	m.vp.Set(viewport.CellsToPixels(m.cols, rows, m.supersample, 2*m.supersample))
}

func (m Model) reservedRows() int {
	if m.showStats {
		return statusRows + statsRows
	}
	return statusRows
}

func (m *Model) toggleRecording() {
	if m.rec == nil {
		return
	}
	if !m.rec.Recording() {
		m.rec.Start()
		m.saved = ""
		return
	}
	n, err := m.rec.Stop(m.gifPath)
	switch {
	case err != nil:
		m.saved = "gif: " + err.Error()
	case n > 0:
		m.saved = fmt.Sprintf("saved %d frames to %s", n, m.gifPath)
	}
}

// Err returns the error the supervisor stopped with, if any.
func (m Model) Err() error { return m.err }

func (m Model) fps() float64 {
	elapsed := time.Since(m.since).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.presents) / elapsed
}

func (m Model) View() string {
	th := CurrentTheme
	var s strings.Builder

	if m.showHelp {
		s.WriteString(helpView())
		return s.String()
	}

	s.WriteString(m.view)
	s.WriteString("\n")
	s.WriteString(m.statusLine(th))

	if m.showStats {
		s.WriteString("\n")
		s.WriteString(m.statsView(th))
	}
	return s.String()
}

func (m Model) statusLine(th Theme) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(th.Primary).Render(m.title)
	muted := lipgloss.NewStyle().Foreground(th.Muted)
	value := lipgloss.NewStyle().Foreground(th.Text)

	parts := []string{title}
	switch {
	case !m.hasSession && m.vp.Size().Empty():
		parts = append(parts, muted.Render("waiting for a usable window size"))
	case m.rendering:
		pct := 0.0
		if m.progress.Total > 0 {
			pct = float64(m.progress.Index+1) / float64(m.progress.Total)
		}
		parts = append(parts, renderBar(th, pct, 20), value.Render(fmt.Sprintf("%d/%d", m.progress.Index+1, m.progress.Total)))
	case m.hasSession:
		parts = append(parts,
			value.Render(m.session.Params.String()),
			muted.Render(fmt.Sprintf("#%d %.1f fps", m.session.ID, m.fps())))
		if m.session.Offloaded {
			parts = append(parts, muted.Render("offload"))
		}
	}

	if m.rec != nil && m.rec.Recording() {
		parts = append(parts, recStyle.Render("● REC"))
	} else if m.saved != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(th.Success).Render(m.saved))
	}
	parts = append(parts, hintStyle(th).Render("q:quit ?:help"))
	return strings.Join(parts, "  ")
}

func (m Model) statsView(th Theme) string {
	if len(m.renderTimes) < 2 {
		return lipgloss.NewStyle().Foreground(th.Muted).Render("no render timings yet")
	}
	width := m.cols - 10
	if width < 10 {
		width = 10
	}
	chart := asciigraph.Plot(m.renderTimes,
		asciigraph.Height(statsRows-2),
		asciigraph.Width(width),
		asciigraph.Caption("frame render time (ms)"))
	return lipgloss.NewStyle().Foreground(th.Secondary).Render(chart)
}

func helpView() string {
	return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Q / Esc  - Quit                     ║
║  S        - Toggle render-time graph ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
`
}
