package service

import "time"

// Clock supplies "now" to every time-dependent decision.
type Clock func() time.Time

func NewClock() Clock {
	return func() time.Time { return time.Now().UTC() }
}
