package protocol

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Key identifies a configuration parameter reported by the robot.
type Key int

// Keys in display order.
const (
	KeyBattery Key = iota
	KeyKP
	KeyKI
	KeyKD
	KeyKFF
	KeyKB
	KeyBasePWM
	KeyMaxPWM
	KeyLaps
	KeyStopTime
	KeyRunningMode
	KeyStopMode
	KeyLogData
	KeyState

	// NumKeys is the number of known keys.
	NumKeys int = iota
)

var keyNames = [NumKeys]string{
	"battery",
	"kp",
	"ki",
	"kd",
	"kff",
	"kb",
	"base_pwm",
	"max_pwm",
	"laps",
	"stop_time",
	"r_mode",
	"s_mode",
	"log",
	"state",
}

// String implements fmt.Stringer.
func (k Key) String() string {
	if k.IsValid() {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// IsValid checks if it's a known key.
func (k Key) IsValid() bool {
	return k >= 0 && int(k) < NumKeys
}

// ParseKey parses a key name, case insensitive.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(name)
	for n, s := range keyNames {
		if s == name {
			return Key(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// DefaultTags is the tag vocabulary of the current firmware.
var DefaultTags = map[string]Key{
	"BATTERY:":   KeyBattery,
	"KP:":        KeyKP,
	"KI:":        KeyKI,
	"KD:":        KeyKD,
	"KFF:":       KeyKFF,
	"KB:":        KeyKB,
	"BASE_PWM:":  KeyBasePWM,
	"MAX_PWM:":   KeyMaxPWM,
	"LAPS:":      KeyLaps,
	"STOP_TIME:": KeyStopTime,
	"STATE:":     KeyState,
	"R_MODE:":    KeyRunningMode,
	"S_MODE:":    KeyStopMode,
	"L_DATA:":    KeyLogData,
}

type tagEntry struct {
	tag []byte
	key Key
}

// Vocabulary maps wire tags to keys.
type Vocabulary struct {
	entries []tagEntry
	tags    [NumKeys]string
}

// NewVocabulary creates a Vocabulary. A tag must not be a prefix of
// another tag, otherwise the longer one could never be matched reliably.
func NewVocabulary(tags map[string]Key) (*Vocabulary, error) {
	v := &Vocabulary{entries: make([]tagEntry, 0, len(tags))}
	for tag, key := range tags {
		if tag == "" {
			return nil, fmt.Errorf("empty tag for key %s", key)
		}
		if !key.IsValid() {
			return nil, fmt.Errorf("tag %q: %w: %d", tag, ErrUnknownKey, int(key))
		}
		v.entries = append(v.entries, tagEntry{tag: []byte(tag), key: key})
		if v.tags[key] == "" || len(tag) < len(v.tags[key]) {
			v.tags[key] = tag
		}
	}
	sort.Slice(v.entries, func(i, j int) bool {
		return bytes.Compare(v.entries[i].tag, v.entries[j].tag) < 0
	})
	// in sorted order a prefix always directly precedes a tag it shadows.
	for i := 1; i < len(v.entries); i++ {
		if bytes.HasPrefix(v.entries[i].tag, v.entries[i-1].tag) {
			return nil, &TagConflictError{
				Tag:    string(v.entries[i].tag),
				Prefix: string(v.entries[i-1].tag),
			}
		}
	}
	return v, nil
}

// DefaultVocabulary creates the Vocabulary from DefaultTags.
func DefaultVocabulary() *Vocabulary {
	v, err := NewVocabulary(DefaultTags)
	if err != nil {
		panic(err)
	}
	return v
}

// Match finds the tag which prefixes the line.
// It returns the key and the length of the tag.
func (v *Vocabulary) Match(line []byte) (Key, int, bool) {
	for _, e := range v.entries {
		if bytes.HasPrefix(line, e.tag) {
			return e.key, len(e.tag), true
		}
	}
	return 0, 0, false
}

// Tag returns the wire tag of a key, empty if the key has no tag.
func (v *Vocabulary) Tag(k Key) string {
	if !k.IsValid() {
		return ""
	}
	return v.tags[k]
}
