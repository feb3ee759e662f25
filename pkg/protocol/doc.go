// Package protocol provides the line follower serial telemetry protocol.
package protocol

// The robot talks to the panel over a half-duplex serial stream (usually a
// Bluetooth SPP link) using two framings on the same channel:
//
// Text mode (initial): newline terminated records of the form
// "<TAG><payload byte>", e.g. "KP:*" reports Kp=42. Lines without a known
// tag are opaque text for display. The line "START" switches the stream
// into binary mode.
//
// Binary mode: fixed 2-byte big-endian sensor words with no framing other
// than the length. The 4 bytes "STOP" switch the stream back to text mode.
//
// Outbound commands are always 2 bytes: "<code><value>".
//
// Producer: line follower firmware
// Consumer: panel
