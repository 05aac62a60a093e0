package utils

import "time"

// Timer measures wall-clock time from construction (or the last Start) to Stop.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer returns a running Timer.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Start restarts the measurement.
func (t *Timer) Start() {
	t.startTime = time.Now()
}

// Stop captures the elapsed time and returns it.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.startTime)
	return t.duration
}

// GetDuration returns what the last Stop captured, or zero.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}
