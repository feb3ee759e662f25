package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		word   []byte
		expect Bits
	}{
		{[]byte{0x00, 0x03}, Bits{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0}},
		{[]byte{0x01, 0x00}, Bits{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{[]byte{0x00, 0x0c}, Bits{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1}},
		{[]byte{0xf0, 0x00}, Bits{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0}},
		{[]byte{0xff, 0xff}, Bits{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{[]byte{0x00, 0xf0}, Bits{}},
		{[]byte{0x00, 0x03, 0xff}, Bits{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0}},
	}
	for _, tc := range testCases {
		bits, err := DefaultBitMap.Decode(tc.word)
		require.NoError(t, err)
		require.Equal(t, tc.expect, bits, "%x", tc.word)
		again, _ := DefaultBitMap.Decode(tc.word)
		require.Equal(t, bits, again)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := DefaultBitMap.Decode([]byte{0x01})
	require.ErrorIs(t, err, ErrMalformedFrame)
	_, err = DefaultBitMap.Decode(nil)
	require.ErrorIs(t, err, ErrMalformedFrame)
}

func TestBitMap(t *testing.T) {
	require.NoError(t, DefaultBitMap.Validate())

	m, err := ParseBitMap([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	require.NoError(t, err)
	bits, err := m.Decode([]byte{0x08, 0x01})
	require.NoError(t, err)
	require.Equal(t, Bits{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, bits)

	_, err = ParseBitMap([]int{0, 1, 2})
	require.Error(t, err)
	_, err = ParseBitMap([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 16})
	require.Error(t, err)
	_, err = ParseBitMap([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10})
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	bits := Bits{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1}
	require.Equal(t,
		"1   |                   1                   |        ||  1",
		bits.Render())
	require.Equal(t, "100001000001", bits.String())
	require.Equal(t, 3, bits.Active())
}
