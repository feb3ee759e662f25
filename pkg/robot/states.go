package robot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/linebot/pkg/protocol"
)

// RunState is the run state reported by the robot.
type RunState byte

// Run states.
const (
	StateInit RunState = iota
	StateIdle
	StateRunning
	StateStopped
	StateError
)

// RunningMode selects what the robot does when started.
type RunningMode byte

// Running modes.
const (
	RunningModeInit RunningMode = iota
	RunningModeBasePID
	RunningModeSensorTest
)

// StopMode selects when the robot stops by itself.
type StopMode byte

// Stop modes.
const (
	StopModeNone StopMode = iota
	StopModeTime
	StopModeLaps
)

// LogData switches sensor logging on the robot.
type LogData byte

// Log data switch.
const (
	LogDataOff LogData = iota
	LogDataOn
)

// nameTable is a fixed byte to name mapping.
type nameTable []string

func (t nameTable) name(v byte) (string, error) {
	if int(v) < len(t) {
		return t[v], nil
	}
	return "", fmt.Errorf("%w: %d", ErrUnrecognizedMode, v)
}

func (t nameTable) value(name string) (byte, bool) {
	name = strings.ToUpper(name)
	for n, s := range t {
		if s == name {
			return byte(n), true
		}
	}
	return 0, false
}

// display shows the name, or the raw number when unknown.
func (t nameTable) display(v byte) string {
	if s, err := t.name(v); err == nil {
		return s
	}
	return strconv.Itoa(int(v))
}

var (
	runStateNames    = nameTable{"INIT", "IDLE", "RUNNING", "STOPPED", "ERROR"}
	runningModeNames = nameTable{"INIT", "BASE_PID", "SENSOR_TEST"}
	stopModeNames    = nameTable{"NONE", "TIME", "LAPS"}
	logDataNames     = nameTable{"OFF", "ON"}
)

var namesByKey = map[protocol.Key]nameTable{
	protocol.KeyState:       runStateNames,
	protocol.KeyRunningMode: runningModeNames,
	protocol.KeyStopMode:    stopModeNames,
	protocol.KeyLogData:     logDataNames,
}

// Name returns the name of the state.
func (s RunState) Name() (string, error) { return runStateNames.name(byte(s)) }

// String implements fmt.Stringer.
func (s RunState) String() string { return runStateNames.display(byte(s)) }

// Name returns the name of the mode.
func (m RunningMode) Name() (string, error) { return runningModeNames.name(byte(m)) }

// String implements fmt.Stringer.
func (m RunningMode) String() string { return runningModeNames.display(byte(m)) }

// Name returns the name of the mode.
func (m StopMode) Name() (string, error) { return stopModeNames.name(byte(m)) }

// String implements fmt.Stringer.
func (m StopMode) String() string { return stopModeNames.display(byte(m)) }

// Name returns the name of the switch.
func (l LogData) Name() (string, error) { return logDataNames.name(byte(l)) }

// String implements fmt.Stringer.
func (l LogData) String() string { return logDataNames.display(byte(l)) }

// Names lists the value names of a key, nil if the key is numeric.
func Names(key protocol.Key) []string {
	return namesByKey[key]
}

// ParseValue parses a value to be sent for a key. It's either a number
// in 0-255 or a name for keys with named values.
func ParseValue(key protocol.Key, s string) (byte, error) {
	if names, ok := namesByKey[key]; ok {
		if v, ok := names.value(s); ok {
			return v, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for %s", s, key)
	}
	if n > 255 {
		return 0, fmt.Errorf("%w: %s=%d", ErrValueOutOfRange, key, n)
	}
	return byte(n), nil
}
