package telemetry

import (
	"time"

	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/telemetry/msgs"
)

// Topics of telemetry messages, relative to the panel.
const (
	TopicSensor = "sensor"
	TopicConfig = "config"
	TopicState  = "state"
	TopicLink   = "link"
	TopicText   = "text"
)

// Topics lists all topics.
var Topics = []string{TopicSensor, TopicConfig, TopicState, TopicLink, TopicText}

// Message converts an event to a telemetry message.
// It returns false for events not published.
func Message(ev panel.Event) (string, msgs.Message, bool) {
	ts := millis(ev.EventTime())
	switch e := ev.(type) {
	case *panel.SensorEvent:
		return TopicSensor, &msgs.SensorFrame{
			Raw:         append([]byte(nil), e.Frame.Raw[:]...),
			Bits:        PackBits(e.Frame.Bits),
			ElapsedMs:   e.Frame.Millis(),
			TimestampMs: ts,
		}, true
	case *panel.LineEvent:
		if u := e.Update; u != nil {
			return TopicConfig, &msgs.ConfigUpdate{
				Key:         u.Key.String(),
				Raw:         uint32(u.Raw),
				Value:       int32(u.Value),
				Display:     u.Display,
				TimestampMs: ts,
			}, true
		}
		return TopicText, &msgs.TextLine{Text: e.Text, TimestampMs: ts}, true
	case *panel.StateEvent:
		return TopicState, &msgs.RunState{
			State:       uint32(e.State),
			Name:        e.State.String(),
			Running:     e.Running,
			TimestampMs: ts,
		}, true
	case *panel.LinkEvent:
		m := &msgs.LinkStatus{Port: e.Port, Connected: e.Connected, TimestampMs: ts}
		if e.Err != nil {
			m.Error = e.Err.Error()
		}
		return TopicLink, m, true
	}
	return "", nil, false
}

// Encode converts an event to an encoded Typed envelope.
func Encode(ev panel.Event) (string, []byte, error) {
	topic, msg, ok := Message(ev)
	if !ok {
		return "", nil, nil
	}
	data, err := msgs.EncodeMessage(msg)
	return topic, data, err
}

// PackBits packs the sensor vector, bit n for sensor n.
func PackBits(bits protocol.Bits) (v uint32) {
	for n, b := range bits {
		if b != 0 {
			v |= 1 << uint(n)
		}
	}
	return
}

// UnpackBits is the reverse of PackBits.
func UnpackBits(v uint32) (bits protocol.Bits) {
	for n := range bits {
		bits[n] = byte(v>>uint(n)) & 1
	}
	return
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano() / int64(time.Millisecond)
}
