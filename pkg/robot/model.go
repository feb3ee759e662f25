package robot

import (
	"strconv"
	"sync/atomic"

	"github.com/robotalks/linebot/pkg/protocol"
)

// KDUnlimited is the value of the KD byte 255.
const KDUnlimited = 1000

// Value is the last known value of a key.
type Value struct {
	Raw   byte
	Value int
	Set   bool
}

// Snapshot is an immutable view of the robot configuration and state.
type Snapshot struct {
	values [protocol.NumKeys]Value
}

// Get returns the value of a key, false if never received.
func (s *Snapshot) Get(k protocol.Key) (Value, bool) {
	if !k.IsValid() {
		return Value{}, false
	}
	v := s.values[k]
	return v, v.Set
}

// State returns the run state.
func (s *Snapshot) State() (RunState, bool) {
	v := s.values[protocol.KeyState]
	return RunState(v.Raw), v.Set
}

// Running is true iff the robot reported RUNNING.
func (s *Snapshot) Running() bool {
	st, ok := s.State()
	return ok && st == StateRunning
}

// BatteryVoltage returns the battery voltage.
func (s *Snapshot) BatteryVoltage() (float64, bool) {
	v := s.values[protocol.KeyBattery]
	return BatteryVoltage(v.Raw), v.Set
}

// Display formats the value of a key, empty if never received.
func (s *Snapshot) Display(k protocol.Key) string {
	v, ok := s.Get(k)
	if !ok {
		return ""
	}
	return updaters[k](v.Raw).display
}

// ToggleCommand selects the command flipping the run state:
// START when idle, STOP when running.
func (s *Snapshot) ToggleCommand() (protocol.Command, error) {
	st, ok := s.State()
	switch {
	case ok && st == StateIdle:
		return protocol.CmdStart, nil
	case ok && st == StateRunning:
		return protocol.CmdStop, nil
	}
	return 0, ErrToggleUnavailable
}

// Update describes an applied value.
type Update struct {
	Key     protocol.Key
	Raw     byte
	Value   int
	Display string
	// StateChanged is set for every STATE record, repeated values included.
	StateChanged bool
	Running      bool
}

type transformed struct {
	value   int
	display string
}

type updater func(raw byte) transformed

func numeric(raw byte) transformed {
	return transformed{value: int(raw), display: strconv.Itoa(int(raw))}
}

func named(names nameTable) updater {
	return func(raw byte) transformed {
		return transformed{value: int(raw), display: names.display(raw)}
	}
}

var updaters = map[protocol.Key]updater{
	protocol.KeyBattery: func(raw byte) transformed {
		return transformed{value: int(raw), display: FormatVoltage(BatteryVoltage(raw))}
	},
	protocol.KeyKP: numeric,
	protocol.KeyKI: numeric,
	protocol.KeyKD: func(raw byte) transformed {
		if raw == 255 {
			return transformed{value: KDUnlimited, display: strconv.Itoa(KDUnlimited)}
		}
		return numeric(raw)
	},
	protocol.KeyKFF:         numeric,
	protocol.KeyKB:          numeric,
	protocol.KeyBasePWM:     numeric,
	protocol.KeyMaxPWM:      numeric,
	protocol.KeyLaps:        numeric,
	protocol.KeyStopTime:    numeric,
	protocol.KeyRunningMode: named(runningModeNames),
	protocol.KeyStopMode:    named(stopModeNames),
	protocol.KeyLogData:     named(logDataNames),
	protocol.KeyState:       named(runStateNames),
}

// Model holds the latest robot configuration and state.
// Apply must only be called from a single goroutine,
// Snapshot can be called from anywhere.
type Model struct {
	snapshot atomic.Value
}

// NewModel creates a Model with nothing received.
func NewModel() *Model {
	m := &Model{}
	m.snapshot.Store(&Snapshot{})
	return m
}

// Snapshot returns the current snapshot.
func (m *Model) Snapshot() *Snapshot {
	return m.snapshot.Load().(*Snapshot)
}

// Apply records a value received for a key.
// Unknown keys are ignored and false is returned.
func (m *Model) Apply(key protocol.Key, raw byte) (u Update, ok bool) {
	fn := updaters[key]
	if fn == nil {
		return u, false
	}
	t := fn(raw)
	cur := m.Snapshot()
	next := *cur
	next.values[key] = Value{Raw: raw, Value: t.value, Set: true}
	u = Update{Key: key, Raw: raw, Value: t.value, Display: t.display}
	if key == protocol.KeyState {
		u.StateChanged = true
		u.Running = RunState(raw) == StateRunning
	} else {
		u.Running = cur.Running()
	}
	m.snapshot.Store(&next)
	return u, true
}

// Reset forgets all values, same as Apply it must be called from
// the goroutine applying values.
func (m *Model) Reset() {
	m.snapshot.Store(&Snapshot{})
}
