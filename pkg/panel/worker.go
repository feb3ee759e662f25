package panel

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/robot"
)

// DefaultIdleWait is the wait between checks when the link is closed.
const DefaultIdleWait = 50 * time.Millisecond

const linkQueueSize = 16

// Source is where the Worker reads from.
// Reads wait for a bounded time and return false when nothing is received.
type Source interface {
	Connected() bool
	ReadLine() ([]byte, bool)
	ReadUpTo(n int) ([]byte, bool)
	Unread([]byte)
	// ReadSession identifies the connection of the last read.
	ReadSession() uint64
}

// Worker reads the inbound stream, drives the Model and posts events.
type Worker struct {
	Source   Source
	Demux    *protocol.Demux
	Model    *robot.Model
	Events   chan<- Event
	IdleWait time.Duration
	Clock    func() time.Time

	echo    atomic.Bool
	linkCh  chan *LinkEvent
	session uint64
	closed  uint64
}

// NewWorker creates a Worker.
func NewWorker(src Source, demux *protocol.Demux, model *robot.Model, events chan<- Event) *Worker {
	return &Worker{
		Source:   src,
		Demux:    demux,
		Model:    model,
		Events:   events,
		IdleWait: DefaultIdleWait,
		Clock:    time.Now,
		linkCh:   make(chan *LinkEvent, linkQueueSize),
	}
}

// SetEcho switches debug echo, when on, tagged lines are displayed too.
func (w *Worker) SetEcho(on bool) {
	w.echo.Store(on)
}

// Echo returns the debug echo switch.
func (w *Worker) Echo() bool {
	return w.echo.Load()
}

// ConnectionChanged implements link.ConnectionNotifier.
// The change is picked up by the next iteration of Run.
func (w *Worker) ConnectionChanged(port string, session uint64, connected bool, err error) {
	ev := &LinkEvent{At: w.now(), Port: port, Session: session, Connected: connected, Err: err}
	select {
	case w.linkCh <- ev:
	default:
		glog.Warningf("link event dropped: %s connected=%v", port, connected)
	}
}

// Run reads until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.drainLink(ctx); err != nil {
			return err
		}
		if !w.Source.Connected() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev := <-w.linkCh:
				if err := w.linkChanged(ctx, ev); err != nil {
					return err
				}
			case <-time.After(w.idleWait()):
			}
			continue
		}
		if err := w.Step(ctx); err != nil {
			return err
		}
	}
}

// Step performs one bounded read in the current mode.
// Link changes queued during the read are handled before the data,
// and data read from a connection already closed is dropped.
func (w *Worker) Step(ctx context.Context) error {
	binary := w.Demux.Mode() == protocol.ModeBinary
	var data []byte
	var ok bool
	if binary {
		data, ok = w.Source.ReadUpTo(w.Demux.Want())
	} else {
		data, ok = w.Source.ReadLine()
	}
	if !ok {
		return nil
	}
	if err := w.drainLink(ctx); err != nil {
		return err
	}
	if session := w.Source.ReadSession(); !w.current(session) {
		glog.V(2).Infof("%d bytes from closed session %d dropped", len(data), session)
		return nil
	}
	if !binary {
		return w.apply(ctx, w.Demux.ParseLine(data, w.now()))
	}
	if w.Demux.Mode() != protocol.ModeBinary {
		// read for the previous connection, the new one starts in text mode.
		w.Source.Unread(data)
		return nil
	}
	return w.apply(ctx, w.Demux.ParseBinary(data, w.now()))
}

// current checks whether data of session belongs to the connection
// the demux is tracking.
func (w *Worker) current(session uint64) bool {
	switch {
	case session == w.session:
		return true
	case session <= w.closed || session < w.session:
		return false
	}
	glog.Warningf("link events of session %d missed", session)
	w.session = session
	if dropped := w.Demux.Reset(); len(dropped) > 0 {
		glog.V(2).Infof("%v: %x dropped", protocol.ErrMalformedFrame, dropped)
	}
	return true
}

func (w *Worker) drainLink(ctx context.Context) error {
	for {
		select {
		case ev := <-w.linkCh:
			if err := w.linkChanged(ctx, ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (w *Worker) apply(ctx context.Context, r protocol.Result) error {
	now := w.now()
	if t := r.Text; t != nil {
		ev := &LineEvent{At: now, Raw: t.Line, Text: protocol.DecodeText(t.Line), Echo: true}
		ev.Display = ev.Text
		var stateEv *StateEvent
		if t.Tagged {
			if u, ok := w.Model.Apply(t.Key, t.Value); ok {
				ev.Update, ev.Echo = &u, w.Echo()
				ev.Display = protocol.DecodeText([]byte(t.Tag)) + u.Display
				if u.StateChanged {
					stateEv = &StateEvent{At: now, State: robot.RunState(u.Raw), Running: u.Running}
				}
			}
		}
		if err := w.post(ctx, ev); err != nil {
			return err
		}
		if stateEv != nil {
			if err := w.post(ctx, stateEv); err != nil {
				return err
			}
		}
	}
	for _, f := range r.Frames {
		glog.V(4).Infof("frame %02x%02x %s", f.Raw[0], f.Raw[1], f.Bits)
		if err := w.post(ctx, &SensorEvent{At: now, Frame: f}); err != nil {
			return err
		}
	}
	if r.Switched {
		glog.V(2).Infof("%s mode", r.Mode)
		if err := w.post(ctx, &ModeEvent{At: now, Mode: r.Mode}); err != nil {
			return err
		}
	}
	w.Source.Unread(r.Rest)
	return nil
}

func (w *Worker) linkChanged(ctx context.Context, ev *LinkEvent) error {
	if ev.Connected {
		w.session = ev.Session
	} else {
		if ev.Session > w.closed {
			w.closed = ev.Session
		}
		if ev.Session == w.session {
			w.session = 0
		}
	}
	mode := w.Demux.Mode()
	if dropped := w.Demux.Reset(); len(dropped) > 0 {
		glog.V(2).Infof("%v: %x dropped", protocol.ErrMalformedFrame, dropped)
	}
	if err := w.post(ctx, ev); err != nil {
		return err
	}
	if mode != protocol.ModeText {
		return w.post(ctx, &ModeEvent{At: ev.At, Mode: protocol.ModeText})
	}
	return nil
}

func (w *Worker) post(ctx context.Context, ev Event) error {
	select {
	case w.Events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) now() time.Time {
	if w.Clock != nil {
		return w.Clock()
	}
	return time.Now()
}

func (w *Worker) idleWait() time.Duration {
	if w.IdleWait > 0 {
		return w.IdleWait
	}
	return DefaultIdleWait
}
