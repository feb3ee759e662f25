package capture

import (
	"context"
	"os"
	"strconv"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/protocol"
)

// Recorder appends received data to the capture files.
// Sensor frames and timestamps are written in pairs so both
// files stay index aligned.
type Recorder struct {
	files      Files
	text       *os.File
	binary     *os.File
	timestamps *os.File
	lock       sync.Mutex
}

// NewRecorder opens the capture files for appending.
func NewRecorder(files Files) (*Recorder, error) {
	files = files.WithDefaults()
	if files.Dir != "" {
		if err := os.MkdirAll(files.Dir, 0755); err != nil {
			return nil, err
		}
	}
	r := &Recorder{files: files}
	var err error
	if r.text, err = openAppend(files.Path(files.Text)); err != nil {
		return nil, err
	}
	if r.binary, err = openAppend(files.Path(files.Binary)); err != nil {
		r.Close()
		return nil, err
	}
	if r.timestamps, err = openAppend(files.Path(files.Timestamps)); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// Files returns the capture files.
func (r *Recorder) Files() Files {
	return r.files
}

// HandleEvent implements panel.EventHandler.
func (r *Recorder) HandleEvent(ctx context.Context, ev panel.Event) {
	var err error
	switch e := ev.(type) {
	case *panel.LineEvent:
		err = r.WriteLine(e.Text)
	case *panel.SensorEvent:
		err = r.WriteFrame(&e.Frame)
	}
	if err != nil {
		glog.Errorf("capture: %v", err)
	}
}

// WriteLine appends a received text line.
func (r *Recorder) WriteLine(line string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.text == nil {
		return os.ErrClosed
	}
	_, err := r.text.Write(protocol.EncodeText(line + "\n"))
	return err
}

// WriteFrame appends a sensor frame and its timestamp.
func (r *Recorder) WriteFrame(f *protocol.Frame) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.binary == nil || r.timestamps == nil {
		return os.ErrClosed
	}
	if _, err := r.timestamps.WriteString(strconv.FormatInt(f.Millis(), 10) + "\n"); err != nil {
		return err
	}
	_, err := r.binary.Write(f.Raw[:])
	return err
}

// Close closes all files.
func (r *Recorder) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	var firstErr error
	for _, f := range []**os.File{&r.text, &r.binary, &r.timestamps} {
		if *f == nil {
			continue
		}
		if err := (*f).Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		*f = nil
	}
	return firstErr
}

// Clear truncates the logs while keeping them open.
func (r *Recorder) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, f := range []*os.File{r.text, r.binary, r.timestamps} {
		if f == nil {
			return os.ErrClosed
		}
		if err := f.Truncate(0); err != nil {
			return err
		}
	}
	return nil
}
