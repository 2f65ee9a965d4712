package playback

import (
	"testing"
	"time"
)

func TestAdvanceClampsAndStops(t *testing.T) {
	c := NewCursor(1.0)
	start := time.Now()
	gen := c.Play(start)

	if !c.Advance(start.Add(400*time.Millisecond), gen) {
		t.Fatal("expected playback to continue mid-trial")
	}
	if got := c.TimeS(); got < 0.39 || got > 0.41 {
		t.Fatalf("cursor at %v, want about 0.4", got)
	}

	if c.Advance(start.Add(5*time.Second), gen) {
		t.Fatal("expected playback to stop at the end")
	}
	if c.TimeS() != 1.0 {
		t.Fatalf("cursor must clamp to the duration, got %v", c.TimeS())
	}
	if c.Playing() {
		t.Fatal("cursor must pause itself at the end")
	}
}

func TestStaleGenerationDropped(t *testing.T) {
	c := NewCursor(2.0)
	start := time.Now()
	oldGen := c.Play(start)
	c.Pause()
	if c.Advance(start.Add(time.Second), oldGen) {
		t.Fatal("stale frame must not advance a paused cursor")
	}
	if c.TimeS() != 0 {
		t.Fatalf("stale frame moved the cursor to %v", c.TimeS())
	}
}

func TestPlayAtEndRestarts(t *testing.T) {
	c := NewCursor(1.0)
	start := time.Now()
	gen := c.Play(start)
	c.Advance(start.Add(2*time.Second), gen)
	if c.TimeS() != 1.0 {
		t.Fatalf("cursor should sit at the end, got %v", c.TimeS())
	}
	c.Play(start.Add(3 * time.Second))
	if c.TimeS() != 0 {
		t.Fatalf("replay must restart from zero, got %v", c.TimeS())
	}
}

func TestResetPausesAndInvalidates(t *testing.T) {
	c := NewCursor(1.0)
	start := time.Now()
	gen := c.Play(start)
	c.Reset(3.0)
	if c.Playing() {
		t.Fatal("reset must pause the cursor")
	}
	if c.Advance(start.Add(time.Second), gen) {
		t.Fatal("frames from before a reset must be dropped")
	}
}
