// Package clock abstracts the time source so components that stamp job and
// workspace lifecycles can be driven by a fake clock in tests.
package clock

import "time"

// Clock supplies timestamps. Production code takes a Clock instead of calling
// time.Now directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock is the system-time Clock used outside of tests.
type RealClock struct{}

// Now returns the system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Ensure RealClock implements Clock.
var _ Clock = RealClock{}
