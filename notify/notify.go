// Package notify is the boundary between the engine and whatever channel
// delivers alerts. The engine only produces threshold-crossing events;
// delivery, throttling and dedupe policy belong to the Dispatcher
// implementation.
package notify

import (
	"fmt"
	"io"
	"time"
)

// EventType names a threshold crossing.
type EventType string

const (
	EventWarningEntered EventType = "warning_entered"
	EventBlockedEntered EventType = "blocked_entered"
	EventRecovered      EventType = "recovered"
	EventLockoutStarted EventType = "lockout_started"
	EventLockoutElapsed EventType = "lockout_elapsed"
)

// Event is one state transition worth telling the trader about.
type Event struct {
	Type    EventType
	Message string
	At      time.Time
}

// Dispatcher delivers events through a channel it owns.
type Dispatcher interface {
	Dispatch(Event) error
}

// WriterDispatcher prints events line by line, one per event. It backs the
// CLI surface and tests.
type WriterDispatcher struct {
	w io.Writer
}

func NewWriter(w io.Writer) *WriterDispatcher {
	return &WriterDispatcher{w: w}
}

func (d *WriterDispatcher) Dispatch(e Event) error {
	_, err := fmt.Fprintf(d.w, "[%s] %s: %s\n", e.At.Format(time.RFC3339), e.Type, e.Message)
	return err
}
