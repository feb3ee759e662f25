package protocol

import (
	"bytes"
	"time"
)

// Mode is the framing mode of the inbound stream.
type Mode int

// Framing modes.
const (
	ModeText Mode = iota
	ModeBinary
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeBinary {
		return "binary"
	}
	return "text"
}

var (
	// StartToken is the text line switching to binary mode.
	StartToken = []byte("START")
	// StopToken is the binary sequence switching back to text mode.
	StopToken = []byte("STOP")
)

// Text is a received text line.
type Text struct {
	// Line is the line without the line terminator.
	Line []byte
	// Tagged is true when Line starts with a known tag,
	// Tag, Key and Value are only meaningful in that case.
	Tagged bool
	Tag    string
	Key    Key
	Value  byte
}

// Result is the outcome of feeding the Demux.
type Result struct {
	// Switched is true when the mode changed.
	Switched bool
	// Mode is the mode after parsing.
	Mode   Mode
	Text   *Text
	Frames []Frame
	// Rest is the data received after the STOP sequence
	// which must be parsed in text mode.
	Rest []byte
}

// Demux splits the inbound stream into text lines and binary sensor frames.
// It doesn't do any I/O, the caller reads lines in text mode and
// chunks of at most Want bytes in binary mode.
type Demux struct {
	vocab  *Vocabulary
	bitmap BitMap
	mode   Mode
	buf    []byte
	start  time.Time
}

// NewDemux creates a Demux in text mode.
func NewDemux(vocab *Vocabulary, bitmap BitMap) *Demux {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Demux{vocab: vocab, bitmap: bitmap}
}

// Mode returns the current mode.
func (d *Demux) Mode() Mode {
	return d.mode
}

// Vocabulary returns the tag vocabulary in use.
func (d *Demux) Vocabulary() *Vocabulary {
	return d.vocab
}

// ParseLine parses a line received in text mode.
// Lines are ignored in binary mode.
// A trailing '\r' after a tag is stripped only when at least two bytes
// follow the tag, so "KP:\r\n" carries the value 13.
func (d *Demux) ParseLine(line []byte, now time.Time) (r Result) {
	r.Mode = d.mode
	if d.mode != ModeText {
		return
	}
	line = bytes.TrimSuffix(line, []byte{'\n'})
	if key, n, ok := d.vocab.Match(line); ok {
		rest := line[n:]
		// CRLF terminated, unless the payload itself is '\r'.
		if len(rest) >= 2 && rest[len(rest)-1] == '\r' {
			rest = rest[:len(rest)-1]
			line = line[:n+len(rest)]
		}
		if len(rest) > 0 {
			r.Text = &Text{
				Line:   line,
				Tagged: true,
				Tag:    string(line[:n]),
				Key:    key,
				Value:  rest[len(rest)-1],
			}
			return
		}
	}
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if bytes.Equal(bytes.TrimSpace(line), StartToken) {
		d.mode, d.start, d.buf = ModeBinary, now, d.buf[:0]
		r.Switched, r.Mode = true, d.mode
		return
	}
	r.Text = &Text{Line: line}
	return
}

// ParseBinary parses bytes received in binary mode.
// All complete frames are decoded, a partial frame or
// a partial STOP sequence is kept for the next call.
func (d *Demux) ParseBinary(chunk []byte, now time.Time) (r Result) {
	if d.mode != ModeBinary {
		r.Mode = d.mode
		return
	}
	d.buf = append(d.buf, chunk...)
	for len(d.buf) > 0 {
		if bytes.HasPrefix(d.buf, StopToken) {
			if rest := d.buf[len(StopToken):]; len(rest) > 0 {
				r.Rest = append([]byte(nil), rest...)
			}
			d.mode, d.buf = ModeText, d.buf[:0]
			r.Switched = true
			break
		}
		if bytes.HasPrefix(StopToken, d.buf) || len(d.buf) < FrameSize {
			break
		}
		f := Frame{Elapsed: now.Sub(d.start)}
		copy(f.Raw[:], d.buf[:FrameSize])
		// can't fail, the buffer has a full frame.
		f.Bits, _ = d.bitmap.Decode(f.Raw[:])
		r.Frames = append(r.Frames, f)
		d.buf = d.buf[FrameSize:]
	}
	r.Mode = d.mode
	return
}

// Want returns the number of bytes the next binary read should request,
// so a read never goes past a frame or the STOP sequence.
func (d *Demux) Want() int {
	if n := len(d.buf); n > 0 && bytes.HasPrefix(StopToken, d.buf) {
		return len(StopToken) - n
	}
	return FrameSize - len(d.buf)%FrameSize
}

// Pending returns the number of buffered bytes.
func (d *Demux) Pending() int {
	return len(d.buf)
}

// Reset switches back to text mode and returns the dropped partial frame.
func (d *Demux) Reset() []byte {
	var dropped []byte
	if len(d.buf) > 0 {
		dropped = append(dropped, d.buf...)
	}
	d.mode, d.buf = ModeText, nil
	return dropped
}
