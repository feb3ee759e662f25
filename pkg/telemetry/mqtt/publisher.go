package mqtt

import (
	"context"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/telemetry"
	"github.com/robotalks/linebot/pkg/telemetry/msgs"
)

// Publisher publishes panel events to <prefix><panel-id>/<topic>.
type Publisher struct {
	Queue   *Queue
	PanelID string
}

// NewPublisher creates a Publisher.
func NewPublisher(q *Queue, panelID string) *Publisher {
	return &Publisher{Queue: q, PanelID: panelID}
}

// HandleEvent implements panel.EventHandler.
func (p *Publisher) HandleEvent(ctx context.Context, ev panel.Event) {
	topic, data, err := telemetry.Encode(ev)
	if err != nil {
		glog.Errorf("encode %T: %v", ev, err)
		return
	}
	if topic == "" || !p.Queue.Client.IsConnected() {
		return
	}
	// run state and link status are retained for late monitors.
	retain := topic == telemetry.TopicState || topic == telemetry.TopicLink
	p.Queue.PubWith(p.PanelID+"/"+topic, data, 0, retain)
}

// Telemetry is a decoded telemetry message.
type Telemetry struct {
	PanelID string
	Topic   string
	Message msgs.Message
}

// Subscribe receives telemetry of the panel, all panels if panelID is empty.
func Subscribe(q *Queue, panelID string, handler func(*Telemetry)) *Subscription {
	if panelID == "" {
		panelID = "+"
	}
	return q.Sub(panelID+"/+", func(topic string, payload []byte) {
		parts := strings.SplitN(topic, "/", 2)
		if len(parts) != 2 {
			return
		}
		msg, err := msgs.DecodeMessage(payload)
		if err != nil {
			glog.Warningf("%s: %v", topic, err)
			return
		}
		handler(&Telemetry{PanelID: parts[0], Topic: parts[1], Message: msg})
	})
}
