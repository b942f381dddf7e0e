package metrics

import (
	"math"
	"sort"
	"time"
)

// RenderTime collects per-frame pre-render durations. It satisfies
// prerender.Observer.
type RenderTime struct {
	name    string
	samples []time.Duration
	total   time.Duration
}

func NewRenderTime() *RenderTime {
	return &RenderTime{name: "render_time"}
}

func (r *RenderTime) Name() string { return r.name }

func (r *RenderTime) OnFrame(index, total int, took time.Duration) {
	r.samples = append(r.samples, took)
	r.total += took
}

// Value is the mean frame time in milliseconds.
func (r *RenderTime) Value() float64 {
	if len(r.samples) == 0 {
		return 0
	}
	return ms(r.total) / float64(len(r.samples))
}

// Percentile returns the p-th percentile (0..100) frame time in milliseconds
// using the nearest-rank method.
func (r *RenderTime) Percentile(p float64) float64 {
	if len(r.samples) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(r.samples))
	copy(sorted, r.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return ms(sorted[rank-1])
}

func (r *RenderTime) Count() int { return len(r.samples) }

func (r *RenderTime) Reset() {
	r.samples = r.samples[:0]
	r.total = 0
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
