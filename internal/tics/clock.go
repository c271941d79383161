// Package tics provides the simulation clock. One tic is 1/70 of a
// second; all gameplay durations are whole tics, and the clock is the
// only source of "now" for the rest of the core.
package tics

import "time"

// TicRate is the number of simulation tics per second.
const TicRate = 70

// Clock is a monotonically increasing tic counter. Fractional frame
// time is carried forward so tic boundaries stay exact over any frame
// rate; the clock never drifts relative to accumulated wall time.
//
// One tic is not a whole number of nanoseconds, so the remainder is
// kept in nanoseconds scaled by TicRate: one time.Second of scaled
// units is exactly one tic.
type Clock struct {
	tics      uint64
	remainder int64 // nanoseconds * TicRate
	epoch     string
}

// Snapshot captures the complete clock state for a save game.
type Snapshot struct {
	Tics      uint64 `json:"tics"`
	Remainder int64  `json:"remainder"`
	Epoch     string `json:"epoch"`
}

// NewClock creates a clock at tic zero. The epoch labels the session
// the counter belongs to (typically the level id) and travels with
// snapshots.
func NewClock(epoch string) *Clock {
	return &Clock{epoch: epoch}
}

// Advance accumulates dt and returns the number of whole tics that
// elapsed. A dt of zero (or one smaller than the carried remainder's
// complement) returns zero and changes nothing observable.
func (c *Clock) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	c.remainder += int64(dt) * TicRate
	elapsed := int(c.remainder / int64(time.Second))
	c.remainder %= int64(time.Second)
	c.tics += uint64(elapsed)
	return elapsed
}

// Tics returns the current tic count.
func (c *Clock) Tics() uint64 {
	return c.tics
}

// Epoch returns the session label the clock was created with.
func (c *Clock) Epoch() string {
	return c.epoch
}

// SaveState captures the clock for a save game.
func (c *Clock) SaveState() Snapshot {
	return Snapshot{Tics: c.tics, Remainder: c.remainder, Epoch: c.epoch}
}

// LoadState restores the clock from a snapshot.
func (c *Clock) LoadState(snap Snapshot) {
	c.tics = snap.Tics
	c.remainder = snap.Remainder
	c.epoch = snap.Epoch
}

// Duration converts a tic count to wall time, rounding up so the
// result always covers the requested tics when fed back to Advance.
func Duration(tics int) time.Duration {
	return (time.Duration(tics)*time.Second + TicRate - 1) / TicRate
}

// Tics converts a wall duration to whole tics, truncating.
func Tics(d time.Duration) int {
	return int(d * TicRate / time.Second)
}

// Seconds converts a tic count to seconds.
func Seconds(tics int) float64 {
	return float64(tics) / TicRate
}
