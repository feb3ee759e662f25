package sh

import (
	"fmt"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/linebot/pkg/link"
	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/robot"
)

func TestFormatEvent(t *testing.T) {
	color.NoColor = true
	bits, err := protocol.DefaultBitMap.Decode([]byte{0x00, 0x03})
	require.NoError(t, err)
	testCases := []struct {
		ev   panel.Event
		line string
		show bool
	}{
		{&panel.LineEvent{Display: "hello", Echo: true}, "hello", true},
		{&panel.LineEvent{Display: "KP:12", Echo: false}, "KP:12", false},
		{&panel.SensorEvent{Frame: protocol.Frame{Bits: bits, Elapsed: 25 * time.Millisecond}},
			"25 ms:  " + bits.Render(), true},
		{&panel.StateEvent{State: robot.StateRunning, Running: true}, "state: RUNNING (running)", true},
		{&panel.StateEvent{State: robot.StateIdle}, "state: IDLE", true},
		{&panel.LinkEvent{Port: "/dev/rfcomm0", Connected: true}, "connected /dev/rfcomm0", true},
		{&panel.LinkEvent{Port: "/dev/rfcomm0"}, "disconnected /dev/rfcomm0", true},
		{&panel.LinkEvent{Port: "/dev/rfcomm0", Err: fmt.Errorf("%w: eof", link.ErrTransportFault)},
			"disconnected /dev/rfcomm0: " + link.ErrTransportFault.Error() + ": eof", true},
		{&panel.ModeEvent{Mode: protocol.ModeBinary}, "", false},
	}
	for _, tc := range testCases {
		line, show := FormatEvent(tc.ev)
		require.Equal(t, tc.show, show, "%#v", tc.ev)
		if tc.show {
			require.Equal(t, tc.line, line)
		}
	}
}
