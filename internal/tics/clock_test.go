package tics

import (
	"testing"
	"time"
)

func TestAdvanceWholeTics(t *testing.T) {
	c := NewClock("test")

	if got := c.Advance(time.Second); got != TicRate {
		t.Errorf("Advance(1s) = %d tics, want %d", got, TicRate)
	}
	if c.Tics() != TicRate {
		t.Errorf("Tics() = %d, want %d", c.Tics(), TicRate)
	}
}

func TestAdvanceZeroIsNoop(t *testing.T) {
	c := NewClock("test")
	c.Advance(time.Second / 2)
	before := c.SaveState()

	if got := c.Advance(0); got != 0 {
		t.Errorf("Advance(0) = %d tics, want 0", got)
	}
	if c.SaveState() != before {
		t.Error("Advance(0) mutated clock state")
	}
}

func TestRemainderNeverDrifts(t *testing.T) {
	// Feeding N frames of 16.67ms must land on exactly the tic count
	// the total wall time covers, regardless of how it was sliced.
	c := NewClock("test")
	frame := 16670 * time.Microsecond
	const frames = 4200 // ~70 seconds

	total := 0
	for i := 0; i < frames; i++ {
		total += c.Advance(frame)
	}

	want := Tics(time.Duration(frames) * frame)
	if total != want {
		t.Errorf("accumulated %d tics over %d frames, want %d", total, frames, want)
	}
}

func TestNegativeDtClamped(t *testing.T) {
	c := NewClock("test")
	if got := c.Advance(-time.Second); got != 0 {
		t.Errorf("Advance(-1s) = %d tics, want 0", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := NewClock("e1m1")
	c.Advance(time.Second + 3*time.Millisecond)

	snap := c.SaveState()

	restored := NewClock("other")
	restored.LoadState(snap)

	if restored.Tics() != c.Tics() {
		t.Errorf("restored tics %d, want %d", restored.Tics(), c.Tics())
	}
	if restored.Epoch() != "e1m1" {
		t.Errorf("restored epoch %q, want %q", restored.Epoch(), "e1m1")
	}

	// Both clocks must agree on every future boundary.
	for i := 0; i < 100; i++ {
		d := time.Duration(i) * 7 * time.Millisecond
		if a, b := c.Advance(d), restored.Advance(d); a != b {
			t.Fatalf("step %d: original advanced %d tics, restored %d", i, a, b)
		}
	}
}

func TestSingleTicFramesAdvanceOneTicEach(t *testing.T) {
	c := NewClock("test")
	for i := 1; i <= 500; i++ {
		if got := c.Advance(Duration(1)); got != 1 {
			t.Fatalf("frame %d: Advance(Duration(1)) = %d tics, want 1", i, got)
		}
	}
}

func TestConversions(t *testing.T) {
	if d := Duration(TicRate); d != time.Second {
		t.Errorf("Duration(70) = %v, want 1s", d)
	}
	if n := Tics(2 * time.Second); n != 2*TicRate {
		t.Errorf("Tics(2s) = %d, want %d", n, 2*TicRate)
	}
	if s := Seconds(35); s != 0.5 {
		t.Errorf("Seconds(35) = %v, want 0.5", s)
	}
}
