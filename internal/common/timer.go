// Package common provides small shared utilities, currently stage timing.
package common

import (
	"fmt"
	"time"
)

// Timer measures elapsed wall time for a pipeline stage.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewNamedTimer starts a timer with the given stage name.
func NewNamedTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop freezes the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration; valid only after Stop.
func (t *Timer) Duration() time.Duration { return t.duration }

// String formats the timer as "name: duration".
func (t *Timer) String() string {
	if t.name == "" {
		return t.duration.String()
	}
	return fmt.Sprintf("%s: %v", t.name, t.duration)
}
