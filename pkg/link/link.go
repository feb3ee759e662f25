package link

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

const (
	// DefaultReadTimeout bounds every read.
	DefaultReadTimeout = 50 * time.Millisecond
	// MaxLineLength flushes a line without newline when exceeded.
	MaxLineLength = 1024

	readChunkSize = 256
)

// ConnectionNotifier is notified when the link is connected or disconnected.
// session identifies the connection, see Link.ReadSession.
// err is the fault when disconnected by an I/O error.
// It must not block or call back into the Link.
type ConnectionNotifier interface {
	ConnectionChanged(port string, session uint64, connected bool, err error)
}

// ConnectionNotifierFunc is func form of ConnectionNotifier.
type ConnectionNotifierFunc func(port string, session uint64, connected bool, err error)

// ConnectionChanged implements ConnectionNotifier.
func (f ConnectionNotifierFunc) ConnectionChanged(port string, session uint64, connected bool, err error) {
	f(port, session, connected, err)
}

type conn struct {
	name    string
	port    Port
	session uint64
	// pending is only accessed by the reader.
	pending []byte
	wmu     sync.Mutex
}

// Link owns at most one open port.
// ReadLine, ReadUpTo and Unread must be called from a single reader
// goroutine, Connect, Disconnect and Write can be called from anywhere.
// I/O errors close the port.
type Link struct {
	BaudRate    int
	ReadTimeout time.Duration
	Open        Opener
	Enumerate   Enumerator
	Notifier    ConnectionNotifier

	conn     atomic.Pointer[conn]
	mu       sync.Mutex
	sessions atomic.Uint64
	// session of the last read, owned by the reader.
	readSession uint64
}

// New creates a Link on serial ports.
func New(baudRate int) *Link {
	return &Link{
		BaudRate:    baudRate,
		ReadTimeout: DefaultReadTimeout,
		Open:        OpenSerial,
		Enumerate:   ListSerialPorts,
	}
}

// Ports lists available ports.
func (l *Link) Ports() ([]string, error) {
	if l.Enumerate == nil {
		return nil, nil
	}
	return l.Enumerate()
}

// Connect opens the port, closing the current one if any.
// It returns false if the port can't be opened, the reason is logged.
func (l *Link) Connect(name string) bool {
	if err := l.TryConnect(name); err != nil {
		glog.Warningf("connect %s failed: %v", name, err)
		return false
	}
	return true
}

// TryConnect is Connect returning the reason of failure.
func (l *Link) TryConnect(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if old := l.conn.Swap(nil); old != nil {
		old.port.Close()
		l.notify(old, false, nil)
	}
	c, err := l.open(name)
	if err != nil {
		return err
	}
	glog.Infof("connected %s at %d baud", name, l.BaudRate)
	// the connection event must precede any data read from the port.
	l.notify(c, true, nil)
	l.conn.Store(c)
	return nil
}

func (l *Link) open(name string) (*conn, error) {
	if l.Enumerate != nil {
		ports, err := l.Enumerate()
		if err != nil {
			glog.Warningf("enumerate ports: %v", err)
		} else if !contains(ports, name) {
			return nil, fmt.Errorf("%s: %w", name, ErrPortUnavailable)
		}
	}
	port, err := l.Open(name, l.BaudRate)
	if err != nil {
		return nil, err
	}
	timeout := l.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	if err = port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("%s: %w: %v", name, ErrPortUnavailable, err)
	}
	return &conn{name: name, port: port, session: l.sessions.Add(1)}, nil
}

// Disconnect closes the port, it's a no-op when not connected.
func (l *Link) Disconnect() {
	l.mu.Lock()
	c := l.conn.Swap(nil)
	l.mu.Unlock()
	if c == nil {
		return
	}
	c.port.Close()
	glog.Infof("disconnected %s", c.name)
	l.notify(c, false, nil)
}

// Connected checks if a port is open.
func (l *Link) Connected() bool {
	return l.conn.Load() != nil
}

// Port returns the name of the open port, empty when not connected.
func (l *Link) Port() string {
	if c := l.conn.Load(); c != nil {
		return c.name
	}
	return ""
}

// ReadLine returns a line without the trailing newline.
// It waits at most one read timeout and returns false when no
// complete line is available.
func (l *Link) ReadLine() ([]byte, bool) {
	c := l.conn.Load()
	if c == nil {
		return nil, false
	}
	l.readSession = c.session
	if line, ok := c.cutLine(); ok {
		return line, true
	}
	if !l.fill(c, readChunkSize) {
		return nil, false
	}
	return c.cutLine()
}

// ReadSession identifies the connection the last ReadLine or ReadUpTo
// read from. Sessions start from 1 and are never reused.
func (l *Link) ReadSession() uint64 {
	return l.readSession
}

// ReadUpTo returns at most n bytes.
// It waits at most one read timeout and returns false when nothing is received.
func (l *Link) ReadUpTo(n int) ([]byte, bool) {
	c := l.conn.Load()
	if c == nil || n <= 0 {
		return nil, false
	}
	l.readSession = c.session
	if len(c.pending) == 0 && !l.fill(c, n) {
		return nil, false
	}
	if n > len(c.pending) {
		n = len(c.pending)
	}
	out := append([]byte(nil), c.pending[:n]...)
	c.pending = c.pending[n:]
	return out, true
}

// Unread puts data back to be read first by the next read.
func (l *Link) Unread(data []byte) {
	if len(data) == 0 {
		return
	}
	if c := l.conn.Load(); c != nil {
		c.pending = append(append([]byte(nil), data...), c.pending...)
	}
}

// Write writes all data to the port.
func (l *Link) Write(data []byte) error {
	c := l.conn.Load()
	if c == nil {
		return ErrNotConnected
	}
	c.wmu.Lock()
	_, err := c.port.Write(data)
	c.wmu.Unlock()
	if err != nil {
		l.fault(c, err)
		return fmt.Errorf("%w: %v", ErrTransportFault, err)
	}
	return nil
}

func (l *Link) fill(c *conn, n int) bool {
	buf := make([]byte, n)
	cnt, err := c.port.Read(buf)
	if cnt > 0 {
		c.pending = append(c.pending, buf[:cnt]...)
	}
	if err != nil {
		l.fault(c, err)
		return false
	}
	return cnt > 0
}

func (l *Link) fault(c *conn, err error) {
	if !l.conn.CompareAndSwap(c, nil) {
		return
	}
	c.port.Close()
	glog.Errorf("%s: %v, disconnected", c.name, err)
	l.notify(c, false, fmt.Errorf("%w: %v", ErrTransportFault, err))
}

func (l *Link) notify(c *conn, connected bool, err error) {
	if l.Notifier != nil {
		l.Notifier.ConnectionChanged(c.name, c.session, connected, err)
	}
}

func (c *conn) cutLine() ([]byte, bool) {
	if idx := bytes.IndexByte(c.pending, '\n'); idx >= 0 {
		line := append([]byte(nil), c.pending[:idx]...)
		c.pending = c.pending[idx+1:]
		return line, true
	}
	if len(c.pending) >= MaxLineLength {
		line := append([]byte(nil), c.pending...)
		c.pending = nil
		return line, true
	}
	return nil, false
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
