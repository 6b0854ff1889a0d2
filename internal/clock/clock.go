package clock

import "time"

// Clock supplies the current instant. Services take it as a dependency so
// temporal queries can be pinned to a known time in tests.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant. Intended for tests.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
