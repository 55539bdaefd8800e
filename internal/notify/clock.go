package notify

import "time"

// Timer is a pending expiry.
type Timer interface {
	Stop() bool
}

// Clock schedules expiry callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock schedules with time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}
