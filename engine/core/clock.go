package core

import "time"

// FrameClock measures the wall time between consecutive Tick calls.
type FrameClock struct {
	now     func() time.Time
	prev    time.Time
	elapsed float32
	total   float64

	frames   int
	fpsTimer float32
	fps      float32
}

func NewFrameClock() *FrameClock { return newFrameClock(time.Now) }

func newFrameClock(now func() time.Time) *FrameClock {
	return &FrameClock{now: now, prev: now()}
}

// Tick advances the clock and returns the seconds elapsed since the previous Tick.
func (c *FrameClock) Tick() float32 {
	t := c.now()
	c.elapsed = float32(t.Sub(c.prev).Seconds())
	c.prev = t
	c.total += float64(c.elapsed)

	c.frames++
	c.fpsTimer += c.elapsed
	if c.fpsTimer >= 1 {
		c.fps = float32(c.frames) / c.fpsTimer
		c.frames = 0
		c.fpsTimer = 0
		Logger().Debug("frame clock", "fps", c.fps)
	}
	return c.elapsed
}

func (c *FrameClock) Elapsed() float32 { return c.elapsed }
func (c *FrameClock) Total() float64   { return c.total }

// FPS is the average frame rate over the last full second.
func (c *FrameClock) FPS() float32 { return c.fps }
