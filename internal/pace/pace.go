// Package pace holds the suspension points shared by the pre-render and
// playback loops.
package pace

import (
	"context"
	"time"
)

const (
	// FrameDelay is the playback cadence and the progress throttle interval.
	FrameDelay = 40 * time.Millisecond

	// MinYield is the shortest pause that still lets a display catch up.
	MinYield = time.Millisecond
)

// Sleep blocks for d or until ctx is done. A non-positive d only checks ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
