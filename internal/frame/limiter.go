package frame

import (
	"time"

	"mini2d/internal/config"
)

// Limiter provides high-precision frame rate limiting
type Limiter struct {
	next  time.Time
	limit func() int
}

// NewLimiter creates a limiter following the runtime FPS limit in config.
func NewLimiter() *Limiter {
	return &Limiter{limit: config.GetFPSLimit}
}

// NewFixedLimiter creates a limiter with a constant FPS cap; 0 disables it.
func NewFixedLimiter(fps int) *Limiter {
	return &Limiter{limit: func() int { return fps }}
}

// Interval returns the target frame duration, or 0 when unlimited.
func (f *Limiter) Interval() time.Duration {
	fps := f.limit()
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// Wait blocks until the next frame should be rendered based on the FPS limit.
// Uses a hybrid sleep/spin approach for better precision on high FPS caps.
func (f *Limiter) Wait() {
	target := f.Interval()
	if target == 0 {
		f.next = time.Time{}
		return
	}

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// busy-wait for the final few microseconds
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// If we're significantly late (e.g., hitch), resync to avoid drift
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}

// Counter counts frames and reports the rate once per interval.
type Counter struct {
	interval time.Duration
	start    time.Time
	frames   int
}

func NewCounter(interval time.Duration) *Counter {
	if interval <= 0 {
		interval = time.Second
	}
	return &Counter{interval: interval}
}

// Tick records one frame at now. When an interval has elapsed it returns the
// frames per second over that interval and true.
func (c *Counter) Tick(now time.Time) (float64, bool) {
	if c.start.IsZero() {
		c.start = now
	}
	c.frames++
	elapsed := now.Sub(c.start)
	if elapsed < c.interval {
		return 0, false
	}
	fps := float64(c.frames) / elapsed.Seconds()
	c.frames = 0
	c.start = now
	return fps, true
}
