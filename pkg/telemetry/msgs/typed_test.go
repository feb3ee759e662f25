package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTyped(t *testing.T) {
	typed, err := TypedFrom(&RunState{State: 1, Name: "IDLE"})
	require.NoError(t, err)
	require.Equal(t, RunStateTypeID, typed.TypeId)
	require.True(t, typed.IsEvent())

	data, err := typed.Encode()
	require.NoError(t, err)
	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	msg, err := decoded.Decode()
	require.NoError(t, err)
	require.Equal(t, &RunState{State: 1, Name: "IDLE"}, msg)
}

func TestUnknownType(t *testing.T) {
	data, err := (&Typed{TypeId: 0x1234, Message: []byte{}}).Encode()
	require.NoError(t, err)
	_, err = DecodeMessage(data)
	var unknown *ErrUnknownType
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, uint32(0x1234), unknown.TypeID)
}
