package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/robot"
	"github.com/robotalks/linebot/pkg/telemetry/msgs"
)

func TestEncodeEvents(t *testing.T) {
	at := time.Unix(1700000000, 5000000)
	bits := protocol.Bits{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1}
	testCases := []struct {
		ev     panel.Event
		topic  string
		expect msgs.Message
	}{
		{
			ev: &panel.SensorEvent{At: at, Frame: protocol.Frame{
				Raw: [2]byte{0x00, 0x07}, Bits: bits, Elapsed: 20 * time.Millisecond,
			}},
			topic: TopicSensor,
			expect: &msgs.SensorFrame{
				Raw: []byte{0x00, 0x07}, Bits: 0x821, ElapsedMs: 20, TimestampMs: 1700000000005,
			},
		},
		{
			ev: &panel.LineEvent{At: at, Text: "KD:ÿ", Update: &robot.Update{
				Key: protocol.KeyKD, Raw: 255, Value: 1000, Display: "1000",
			}},
			topic: TopicConfig,
			expect: &msgs.ConfigUpdate{
				Key: "kd", Raw: 255, Value: 1000, Display: "1000", TimestampMs: 1700000000005,
			},
		},
		{
			ev:     &panel.LineEvent{At: at, Text: "hello"},
			topic:  TopicText,
			expect: &msgs.TextLine{Text: "hello", TimestampMs: 1700000000005},
		},
		{
			ev:     &panel.StateEvent{At: at, State: robot.StateRunning, Running: true},
			topic:  TopicState,
			expect: &msgs.RunState{State: 2, Name: "RUNNING", Running: true, TimestampMs: 1700000000005},
		},
		{
			ev:    &panel.LinkEvent{At: at, Port: "COM3", Err: errors.New("gone")},
			topic: TopicLink,
			expect: &msgs.LinkStatus{
				Port: "COM3", Error: "gone", TimestampMs: 1700000000005,
			},
		},
	}
	for _, tc := range testCases {
		topic, data, err := Encode(tc.ev)
		require.NoError(t, err)
		require.Equal(t, tc.topic, topic)
		msg, err := msgs.DecodeMessage(data)
		require.NoError(t, err)
		require.Equal(t, tc.expect, msg)
	}

	topic, data, err := Encode(&panel.ModeEvent{Mode: protocol.ModeBinary})
	require.NoError(t, err)
	require.Empty(t, topic)
	require.Nil(t, data)
}

func TestPackBits(t *testing.T) {
	bits := protocol.Bits{0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	require.Equal(t, uint32(0x806), PackBits(bits))
	require.Equal(t, bits, UnpackBits(0x806))
}
