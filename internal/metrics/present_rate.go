package metrics

import (
	"sync"
	"time"
)

// PresentRate measures presented frames per second over a sliding window.
// It satisfies playback.Observer and is safe to read from another goroutine.
type PresentRate struct {
	name   string
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	times []time.Time
}

func NewPresentRate(window time.Duration) *PresentRate {
	return &PresentRate{name: "present_rate", window: window, now: time.Now}
}

func (p *PresentRate) Name() string { return p.name }

func (p *PresentRate) OnPresent(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.now()
	p.times = append(p.times, t)
	p.trim(t)
}

func (p *PresentRate) trim(now time.Time) {
	cut := 0
	for cut < len(p.times) && now.Sub(p.times[cut]) > p.window {
		cut++
	}
	p.times = p.times[cut:]
}

// Value is the number of presents per second inside the window.
func (p *PresentRate) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trim(p.now())
	if len(p.times) < 2 {
		return 0
	}
	span := p.times[len(p.times)-1].Sub(p.times[0])
	if span <= 0 {
		return 0
	}
	return float64(len(p.times)-1) / span.Seconds()
}

func (p *PresentRate) Reset() {
	p.mu.Lock()
	p.times = nil
	p.mu.Unlock()
}
