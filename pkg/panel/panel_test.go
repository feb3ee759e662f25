package panel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linebot/pkg/link"
	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/robot"
)

type testPort struct {
	lock    sync.Mutex
	data    []byte
	written []byte
	closed  bool
}

func (p *testPort) Read(b []byte) (int, error) {
	p.lock.Lock()
	n := copy(b, p.data)
	p.data = p.data[n:]
	p.lock.Unlock()
	if n == 0 {
		time.Sleep(time.Millisecond)
	}
	return n, nil
}

func (p *testPort) Write(b []byte) (int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.written = append(p.written, b...)
	return len(b), nil
}

func (p *testPort) Close() error {
	p.lock.Lock()
	p.closed = true
	p.lock.Unlock()
	return nil
}

func (p *testPort) SetReadTimeout(time.Duration) error { return nil }

func (p *testPort) feed(s string) {
	p.lock.Lock()
	p.data = append(p.data, s...)
	p.lock.Unlock()
}

func (p *testPort) sent() []byte {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]byte(nil), p.written...)
}

func newTestPanel() (*Panel, *testPort) {
	port := &testPort{}
	l := link.New(link.DefaultBaudRate)
	l.Open = func(string, int) (link.Port, error) { return port, nil }
	l.Enumerate = func() ([]string, error) { return []string{"/dev/rfcomm0"}, nil }
	return New(l, protocol.NewDemux(nil, protocol.DefaultBitMap)), port
}

func TestPanelCommands(t *testing.T) {
	p, port := newTestPanel()
	require.ErrorIs(t, p.Start(), link.ErrNotConnected)
	require.NoError(t, p.Connect("/dev/rfcomm0"))

	require.NoError(t, p.Set(protocol.KeyKP, 42))
	require.ErrorIs(t, p.Set(protocol.KeyBattery, 1), protocol.ErrUnknownCommand)
	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())
	require.Equal(t, []byte{'P', 42, '$', 0, '%', 0}, port.sent())

	_, err := p.Toggle()
	require.ErrorIs(t, err, robot.ErrToggleUnavailable)
	p.Model.Apply(protocol.KeyState, byte(robot.StateIdle))
	cmd, err := p.Toggle()
	require.NoError(t, err)
	require.Equal(t, protocol.CmdStart, cmd)

	port.written = nil
	require.NoError(t, p.SendAll(map[protocol.Key]byte{
		protocol.KeyLogData: 1,
		protocol.KeyKI:      3,
		protocol.KeyKP:      2,
	}))
	require.Equal(t, []byte{'P', 2, 'I', 3, 'G', 1}, port.sent())
	require.Error(t, p.SendAll(map[protocol.Key]byte{protocol.KeyState: 1}))

	p.Disconnect()
	p.Disconnect()
	require.True(t, port.closed)
}

func TestPanelRun(t *testing.T) {
	p, port := newTestPanel()
	var lock sync.Mutex
	var evs []Event
	p.AddHandler(HandleEventFunc(func(ctx context.Context, ev Event) {
		lock.Lock()
		evs = append(evs, ev)
		lock.Unlock()
	}))
	count := func() int {
		lock.Lock()
		defer lock.Unlock()
		return len(evs)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.NoError(t, p.Connect("/dev/rfcomm0"))
	port.feed("BATTERY:\xff\nSTART\n\x00\x03STOP")
	require.Eventually(t, func() bool { return count() >= 5 }, 2*time.Second, time.Millisecond)
	p.Disconnect()
	require.Eventually(t, func() bool { return count() >= 6 }, 2*time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	lock.Lock()
	defer lock.Unlock()
	require.True(t, evs[0].(*LinkEvent).Connected)
	require.Equal(t, "BATTERY:10.0 V", evs[1].(*LineEvent).Display)
	require.Equal(t, protocol.ModeBinary, evs[2].(*ModeEvent).Mode)
	require.Equal(t, protocol.Bits{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0}, evs[3].(*SensorEvent).Frame.Bits)
	require.Equal(t, protocol.ModeText, evs[4].(*ModeEvent).Mode)
	require.False(t, evs[5].(*LinkEvent).Connected)
	v, ok := p.Snapshot().BatteryVoltage()
	require.True(t, ok)
	require.Equal(t, 10.0, v)
}
