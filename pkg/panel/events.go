package panel

import (
	"context"
	"time"

	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/robot"
)

// Event is posted by the Worker in the order data arrives.
type Event interface {
	EventTime() time.Time
}

// LineEvent is a received text line.
type LineEvent struct {
	At  time.Time
	Raw []byte
	// Text is Raw decoded as Latin-1.
	Text string
	// Display is the line to be shown, with the value
	// transformed for tagged lines.
	Display string
	// Update is set when the line carried a known tag.
	Update *robot.Update
	// Echo is false for tagged lines when debug echo is off.
	Echo bool
}

// StateEvent is posted after the LineEvent which changed the run state.
type StateEvent struct {
	At      time.Time
	State   robot.RunState
	Running bool
}

// SensorEvent is a decoded sensor frame.
type SensorEvent struct {
	At    time.Time
	Frame protocol.Frame
}

// ModeEvent is posted when the framing mode changes.
type ModeEvent struct {
	At   time.Time
	Mode protocol.Mode
}

// LinkEvent is posted when the link is connected or disconnected.
type LinkEvent struct {
	At        time.Time
	Port      string
	Session   uint64
	Connected bool
	// Err is the transport fault which closed the link.
	Err error
}

// EventTime implements Event.
func (e *LineEvent) EventTime() time.Time { return e.At }

// EventTime implements Event.
func (e *StateEvent) EventTime() time.Time { return e.At }

// EventTime implements Event.
func (e *SensorEvent) EventTime() time.Time { return e.At }

// EventTime implements Event.
func (e *ModeEvent) EventTime() time.Time { return e.At }

// EventTime implements Event.
func (e *LinkEvent) EventTime() time.Time { return e.At }

// EventHandler consumes events.
type EventHandler interface {
	HandleEvent(context.Context, Event)
}

// HandleEventFunc is func form of EventHandler.
type HandleEventFunc func(context.Context, Event)

// HandleEvent implements EventHandler.
func (f HandleEventFunc) HandleEvent(ctx context.Context, ev Event) {
	f(ctx, ev)
}
