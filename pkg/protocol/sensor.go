package protocol

import (
	"fmt"
	"strings"
	"time"
)

// NumSensors is the number of IR sensors on the bar.
const NumSensors = 12

// FrameSize is the size of a binary sensor frame.
const FrameSize = 2

// BitMap maps a sensor position to the bit of the 16-bit sensor word.
type BitMap [NumSensors]uint8

// DefaultBitMap is the bit layout of the current firmware.
var DefaultBitMap = BitMap{0, 8, 9, 10, 11, 1, 12, 13, 14, 15, 3, 2}

// ParseBitMap builds a BitMap from a list of bit indices.
func ParseBitMap(indices []int) (m BitMap, err error) {
	if len(indices) != NumSensors {
		return m, fmt.Errorf("bit map needs %d positions, got %d", NumSensors, len(indices))
	}
	for n, i := range indices {
		if i < 0 || i > 15 {
			return m, fmt.Errorf("bit map position %d: bit %d out of range", n, i)
		}
		m[n] = uint8(i)
	}
	return m, m.Validate()
}

// Validate checks all bits are in the 16-bit word and distinct.
func (m BitMap) Validate() error {
	var seen uint16
	for n, bit := range m {
		if bit > 15 {
			return fmt.Errorf("bit map position %d: bit %d out of range", n, bit)
		}
		if seen&(1<<bit) != 0 {
			return fmt.Errorf("bit map position %d: bit %d used twice", n, bit)
		}
		seen |= 1 << bit
	}
	return nil
}

// Decode extracts the sensor bits from a big-endian word.
// Only the first FrameSize bytes are used.
func (m BitMap) Decode(b []byte) (bits Bits, err error) {
	if len(b) < FrameSize {
		return bits, fmt.Errorf("%w: %d bytes", ErrMalformedFrame, len(b))
	}
	word := uint16(b[0])<<8 | uint16(b[1])
	for n, bit := range m {
		bits[n] = byte(word>>bit) & 1
	}
	return
}

// Bits is the decoded sensor vector, 1 for an active sensor.
type Bits [NumSensors]byte

// Active returns the number of active sensors.
func (b Bits) Active() (n int) {
	for _, v := range b {
		n += int(v)
	}
	return
}

// Render draws the sensor bar: the left edge sensor, the 9 central
// sensors, the right edge sensor and the side marker.
func (b Bits) Render() string {
	cell := func(v byte) string {
		if v != 0 {
			return "1"
		}
		return "  "
	}
	center := make([]string, 0, 9)
	for _, v := range b[1:10] {
		center = append(center, cell(v))
	}
	return strings.Join([]string{
		cell(b[0]),
		"|",
		strings.Join(center, "  "),
		"|",
		cell(b[10]),
		"||  " + cell(b[11]),
	}, "   ")
}

// String implements fmt.Stringer.
func (b Bits) String() string {
	var sb strings.Builder
	for _, v := range b {
		sb.WriteByte('0' + v)
	}
	return sb.String()
}

// Frame is a decoded sensor frame.
type Frame struct {
	Raw  [FrameSize]byte
	Bits Bits
	// Elapsed is the time since binary mode was entered.
	Elapsed time.Duration
}

// Millis returns Elapsed in milliseconds.
func (f *Frame) Millis() int64 {
	return int64(f.Elapsed / time.Millisecond)
}
