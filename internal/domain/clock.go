package domain

import "time"

// Clock bounds one simulation run to a wall-clock window. It is computed
// once at run start and shared read-only by the ingestion loop and the
// strategy runners, so both stop against the same deadline.
type Clock struct {
	StartedAt time.Time
	Deadline  time.Time

	now func() time.Time
}

// NewClock returns a clock spanning runtime from start.
func NewClock(start time.Time, runtime time.Duration) Clock {
	return Clock{StartedAt: start, Deadline: start.Add(runtime), now: time.Now}
}

// WithNow returns a copy of the clock using a custom time source.
func (c Clock) WithNow(now func() time.Time) Clock {
	c.now = now
	return c
}

// Now returns the current time from the clock's time source.
func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Expired reports whether the deadline has been reached.
func (c Clock) Expired() bool {
	return !c.Now().Before(c.Deadline)
}

// Remaining returns the time left before the deadline, or zero once
// expired.
func (c Clock) Remaining() time.Duration {
	if rem := c.Deadline.Sub(c.Now()); rem > 0 {
		return rem
	}
	return 0
}
