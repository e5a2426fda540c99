package engine

import "time"

// Clock supplies the wall time used for timestamps and expiry checks.
// Implemented by SystemClock (production) and testutil.Clock (tests).
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system wall clock in UTC.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
