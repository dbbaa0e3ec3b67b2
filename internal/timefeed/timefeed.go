// Package timefeed writes the current wall-clock time as server-sent events.
package timefeed

import (
	"bufio"
	"context"
	"fmt"
	"time"
)

// DefaultLayout renders times the way an en-US locale time string does.
const DefaultLayout = "3:04:05 PM"

// Feed emits one event per Interval.
type Feed struct {
	Interval time.Duration
	Layout   string
	Now      func() time.Time
}

// Frame formats t as a single SSE data frame.
func (f Feed) Frame(t time.Time) string {
	layout := f.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	return fmt.Sprintf("data: %s\n\n", t.Format(layout))
}

// Stream flushes w once (pushing response headers to the client) and then
// writes a frame on every tick until ctx is done or a write fails. A write
// failure means the client went away. The ticker is owned by Stream and is
// always stopped on return.
func (f Feed) Stream(ctx context.Context, w *bufio.Writer) error {
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush headers: %w", err)
	}

	now := f.Now
	if now == nil {
		now = time.Now
	}

	ticker := time.NewTicker(f.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.WriteString(f.Frame(now())); err != nil {
				return fmt.Errorf("write event: %w", err)
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("flush event: %w", err)
			}
		}
	}
}
