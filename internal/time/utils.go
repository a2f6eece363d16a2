package timeutils

import "time"

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// SystemClock is the wall clock.
var SystemClock Clock = time.Now

// Millis converts t to epoch milliseconds, the unit used by the tracking server
// for start times and metric timestamps.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// NowMillis returns the clock's current time in epoch milliseconds.
func (c Clock) NowMillis() int64 {
	if c == nil {
		return Millis(time.Now())
	}
	return Millis(c())
}

// FromMillis converts epoch milliseconds back to a time.Time. Zero maps to the
// zero time so unset server fields stay recognizable.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// FromMillisPtr is FromMillis for optional fields such as a run's end time.
func FromMillisPtr(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms)
	return &t
}
