// Package clock abstracts the current instant so temporal logic stays
// deterministic under test.
package clock

import "time"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant. Tests pin behavior with it.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}

// At returns a Fixed clock pinned to t.
func At(t time.Time) Fixed {
	return Fixed{Instant: t}
}
