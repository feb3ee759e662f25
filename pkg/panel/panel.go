package panel

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/linebot/pkg/framework"
	"github.com/robotalks/linebot/pkg/link"
	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/robot"
)

// EventQueueSize is the capacity of the event channel.
const EventQueueSize = 256

// Panel wires the link, the inbound worker and the robot model.
type Panel struct {
	Link       *link.Link
	Model      *robot.Model
	Worker     *Worker
	Dispatcher *Dispatcher
}

// New creates a Panel. The link notifier is taken over by the Panel.
func New(l *link.Link, demux *protocol.Demux) *Panel {
	events := make(chan Event, EventQueueSize)
	p := &Panel{
		Link:       l,
		Model:      robot.NewModel(),
		Dispatcher: NewDispatcher(events),
	}
	p.Worker = NewWorker(l, demux, p.Model, events)
	l.Notifier = p.Worker
	return p
}

// AddHandler registers event handlers, must be called before Run.
func (p *Panel) AddHandler(handlers ...EventHandler) *Panel {
	p.Dispatcher.AddHandler(handlers...)
	return p
}

// Run runs the worker and dispatches events until the context is canceled.
func (p *Panel) Run(ctx context.Context) error {
	return framework.NewRunnerWith(ctx).
		Go(framework.NamedRun("worker", p.Worker),
			framework.NamedRun("dispatcher", p.Dispatcher)).
		Wait()
}

// Ports lists available ports.
func (p *Panel) Ports() ([]string, error) {
	return p.Link.Ports()
}

// Connect opens a port, replacing the current one.
func (p *Panel) Connect(port string) error {
	return p.Link.TryConnect(port)
}

// Disconnect closes the port.
func (p *Panel) Disconnect() {
	p.Link.Disconnect()
}

// Snapshot returns the latest robot configuration and state.
func (p *Panel) Snapshot() *robot.Snapshot {
	return p.Model.Snapshot()
}

// SetEcho switches debug echo.
func (p *Panel) SetEcho(on bool) {
	p.Worker.SetEcho(on)
}

// Send writes a command.
func (p *Panel) Send(cmd protocol.Command, value byte) error {
	glog.V(2).Infof("send %s %d", cmd, value)
	return p.Link.Write(protocol.EncodeByte(cmd, value))
}

// Set sends a new value for a parameter.
func (p *Panel) Set(key protocol.Key, value byte) error {
	cmd, ok := protocol.CommandFor(key)
	if !ok {
		return fmt.Errorf("%w: %s is read-only", protocol.ErrUnknownCommand, key)
	}
	return p.Send(cmd, value)
}

// Start starts the robot.
func (p *Panel) Start() error {
	return p.Send(protocol.CmdStart, protocol.DefaultValue)
}

// Stop stops the robot.
func (p *Panel) Stop() error {
	return p.Send(protocol.CmdStop, protocol.DefaultValue)
}

// Toggle starts an idle robot or stops a running one.
func (p *Panel) Toggle() (protocol.Command, error) {
	cmd, err := p.Snapshot().ToggleCommand()
	if err != nil {
		return cmd, err
	}
	return cmd, p.Send(cmd, protocol.DefaultValue)
}

// SendAll sends values in key order and stops at the first failure.
func (p *Panel) SendAll(values map[protocol.Key]byte) error {
	for n := 0; n < protocol.NumKeys; n++ {
		key := protocol.Key(n)
		if v, ok := values[key]; ok {
			if err := p.Set(key, v); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	return nil
}
