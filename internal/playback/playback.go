// Package playback models a cancellable frame-driven time cursor.
package playback

import "time"

// Cursor replays a trial's time axis. Each frame advances it by the elapsed
// wall-clock delta, clamped to [0, duration]. Cancellation is cooperative: a
// stale frame carries an old generation and is dropped, so no host timer has
// to be torn down synchronously.
type Cursor struct {
	durationS  float64
	timeS      float64
	playing    bool
	lastFrame  time.Time
	generation int
}

// NewCursor returns a paused cursor at t=0.
func NewCursor(durationS float64) *Cursor {
	return &Cursor{durationS: durationS}
}

// Reset rebinds the cursor to a new duration and pauses it at t=0.
func (c *Cursor) Reset(durationS float64) {
	c.durationS = durationS
	c.timeS = 0
	c.playing = false
	c.generation++
}

// Play starts playback from the current position, restarting from zero when
// the cursor already sits at the end. It returns the generation a frame loop
// must echo back through Advance.
func (c *Cursor) Play(now time.Time) int {
	if c.timeS >= c.durationS {
		c.timeS = 0
	}
	c.playing = true
	c.lastFrame = now
	c.generation++
	return c.generation
}

// Pause stops playback, invalidating in-flight frames.
func (c *Cursor) Pause() {
	c.playing = false
	c.generation++
}

// Advance moves the cursor by the wall-clock delta since the previous frame.
// It reports whether the frame loop should schedule another frame: stale
// generations and reaching the end both stop the loop.
func (c *Cursor) Advance(now time.Time, generation int) bool {
	if !c.playing || generation != c.generation {
		return false
	}
	delta := now.Sub(c.lastFrame).Seconds()
	if delta < 0 {
		delta = 0
	}
	c.lastFrame = now
	c.timeS += delta
	if c.timeS >= c.durationS {
		c.timeS = c.durationS
		c.playing = false
		return false
	}
	return true
}

// TimeS returns the cursor position.
func (c *Cursor) TimeS() float64 { return c.timeS }

// Playing reports whether playback is active.
func (c *Cursor) Playing() bool { return c.playing }
