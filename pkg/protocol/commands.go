package protocol

import (
	"fmt"
	"strings"
)

// Command is the code byte of an outbound command.
type Command byte

// Commands understood by the firmware.
const (
	CmdStart          Command = '$'
	CmdStop           Command = '%'
	CmdSetKP          Command = 'P'
	CmdSetKI          Command = 'I'
	CmdSetKD          Command = 'D'
	CmdSetKFF         Command = 'F'
	CmdSetKB          Command = 'K'
	CmdSetBasePWM     Command = 'B'
	CmdSetMaxPWM      Command = 'M'
	CmdSetRunningMode Command = 'R'
	CmdSetStopMode    Command = 'S'
	CmdSetLaps        Command = 'L'
	CmdSetStopTime    Command = 'T'
	CmdSetLogData     Command = 'G'
)

// CommandSize is the size of every outbound command.
const CommandSize = 2

// DefaultValue is the payload of commands without a meaningful value.
const DefaultValue byte = 0

var setCommands = map[Key]Command{
	KeyKP:          CmdSetKP,
	KeyKI:          CmdSetKI,
	KeyKD:          CmdSetKD,
	KeyKFF:         CmdSetKFF,
	KeyKB:          CmdSetKB,
	KeyBasePWM:     CmdSetBasePWM,
	KeyMaxPWM:      CmdSetMaxPWM,
	KeyRunningMode: CmdSetRunningMode,
	KeyStopMode:    CmdSetStopMode,
	KeyLaps:        CmdSetLaps,
	KeyStopTime:    CmdSetStopTime,
	KeyLogData:     CmdSetLogData,
}

// CommandFor returns the command setting the key.
// Battery and state are read-only.
func CommandFor(k Key) (Command, bool) {
	cmd, ok := setCommands[k]
	return cmd, ok
}

// ParseCommandName parses a command by name, which is either "start", "stop"
// or the name of a settable key.
func ParseCommandName(name string) (Command, error) {
	switch strings.ToLower(name) {
	case "start":
		return CmdStart, nil
	case "stop":
		return CmdStop, nil
	}
	key, err := ParseKey(name)
	if err == nil {
		if cmd, ok := CommandFor(key); ok {
			return cmd, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// String implements fmt.Stringer.
func (c Command) String() string {
	switch c {
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	}
	for key, cmd := range setCommands {
		if cmd == c {
			return "set_" + key.String()
		}
	}
	return fmt.Sprintf("cmd(%q)", byte(c))
}

// Encode builds the frame of a command. The protocol only carries
// single byte values.
func Encode(code Command, value []byte) ([]byte, error) {
	if len(value) != 1 {
		return nil, ErrInvalidCommandValue
	}
	return []byte{byte(code), value[0]}, nil
}

// EncodeByte builds the frame of a command with a byte value.
func EncodeByte(code Command, value byte) []byte {
	return []byte{byte(code), value}
}

// StartSignal returns the frame starting the robot.
func StartSignal() []byte {
	return EncodeByte(CmdStart, DefaultValue)
}

// StopSignal returns the frame stopping the robot.
func StopSignal() []byte {
	return EncodeByte(CmdStop, DefaultValue)
}
