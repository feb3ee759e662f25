package robot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linebot/pkg/protocol"
)

func TestNames(t *testing.T) {
	require.Equal(t, "RUNNING", StateRunning.String())
	require.Equal(t, "SENSOR_TEST", RunningModeSensorTest.String())
	require.Equal(t, "TIME", StopModeTime.String())
	require.Equal(t, "ON", LogDataOn.String())

	_, err := RunState(7).Name()
	require.ErrorIs(t, err, ErrUnrecognizedMode)
	require.Equal(t, "7", RunState(7).String())
	_, err = StopMode(3).Name()
	require.ErrorIs(t, err, ErrUnrecognizedMode)

	require.Equal(t, []string{"OFF", "ON"}, Names(protocol.KeyLogData))
	require.Nil(t, Names(protocol.KeyKP))
}

func TestParseValue(t *testing.T) {
	testCases := []struct {
		key   protocol.Key
		in    string
		value byte
		err   bool
	}{
		{key: protocol.KeyKP, in: "42", value: 42},
		{key: protocol.KeyKP, in: "0x2a", value: 42},
		{key: protocol.KeyKP, in: "256", err: true},
		{key: protocol.KeyKP, in: "fast", err: true},
		{key: protocol.KeyRunningMode, in: "base_pid", value: 1},
		{key: protocol.KeyRunningMode, in: "2", value: 2},
		{key: protocol.KeyStopMode, in: "LAPS", value: 2},
		{key: protocol.KeyLogData, in: "on", value: 1},
		{key: protocol.KeyLogData, in: "maybe", err: true},
	}
	for _, tc := range testCases {
		v, err := ParseValue(tc.key, tc.in)
		if tc.err {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.value, v, tc.in)
	}
	_, err := ParseValue(protocol.KeyKP, "300")
	require.ErrorIs(t, err, ErrValueOutOfRange)
}
