package hwc

import (
	"context"
	"time"
)

// VsyncSink receives vertical sync timestamps.
type VsyncSink interface {
	OnVsync(display int, timestamp time.Time)
}

// VsyncFunc adapts a function to VsyncSink.
type VsyncFunc func(display int, timestamp time.Time)

// OnVsync calls f.
func (f VsyncFunc) OnVsync(display int, timestamp time.Time) { f(display, timestamp) }

// RegisterVsync sets the sink that receives vsync events, replacing any
// previous one. Vsync delivery is independent of frame planning.
func (c *Compositor) RegisterVsync(s VsyncSink) {
	c.vsyncMu.Lock()
	c.vsync = s
	c.vsyncMu.Unlock()
}

// UnregisterVsync stops vsync delivery.
func (c *Compositor) UnregisterVsync() {
	c.RegisterVsync(nil)
}

// DeliverVsync passes one vsync event to the registered sink. It reports
// whether a sink received it.
func (c *Compositor) DeliverVsync(display int, ts time.Time) bool {
	c.vsyncMu.RLock()
	s := c.vsync
	c.vsyncMu.RUnlock()
	if s == nil {
		return false
	}
	s.OnVsync(display, ts)
	return true
}

// RunVsync generates vsync events for display every period until ctx is
// done. It stands in for a hardware vsync interrupt when none is wired.
func (c *Compositor) RunVsync(ctx context.Context, display int, period time.Duration) error {
	if period <= 0 {
		return ErrInvalidArgument
	}
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-t.C:
			c.DeliverVsync(display, ts)
		}
	}
}
