package timer

import "time"

// Clock supplies the current instant. Sessions never read the wall clock
// directly, which keeps all time accounting testable with a fake clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
