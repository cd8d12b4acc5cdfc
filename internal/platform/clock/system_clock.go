package clock

import "time"

// SystemClock reads the wall clock in UTC. It is the production
// implementation of the clock port.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
