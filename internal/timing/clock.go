// Package timing provides the monotonic time source the loop engine schedules
// against. Production uses the system clock; tests inject a fake and advance
// it by hand.
package timing

import (
	"time"

	"k8s.io/utils/clock"
)

// Clock reports elapsed time since an arbitrary epoch. Implementations must
// be non-blocking and monotonically non-decreasing. Safe for use from the
// engine's owning goroutine only.
type Clock interface {
	Now() time.Duration
}

type monotonic struct {
	src   clock.PassiveClock
	epoch time.Time
	last  time.Duration
}

// New returns a Clock backed by the real system clock, with its epoch at the
// moment of the call.
func New() Clock {
	return FromPassive(clock.RealClock{})
}

// FromPassive wraps any clock.PassiveClock (including the testing fakes in
// k8s.io/utils/clock/testing) as a Clock with its epoch at the current
// source time.
func FromPassive(src clock.PassiveClock) Clock {
	return &monotonic{src: src, epoch: src.Now()}
}

// Now returns the elapsed duration since construction. A source that steps
// backwards is reported as no elapsed progress rather than a negative value.
func (m *monotonic) Now() time.Duration {
	d := m.src.Since(m.epoch)
	if d < m.last {
		return m.last
	}
	m.last = d
	return d
}
