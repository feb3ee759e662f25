package config

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/linebot/pkg/capture"
	"github.com/robotalks/linebot/pkg/link"
	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/telemetry/mqtt"
	"github.com/robotalks/linebot/pkg/telemetry/websocket"
)

const appID = "linebot"

// Identity returns PanelID, or an ID derived from the machine ID.
func (c *Config) Identity() string {
	if c.PanelID != "" {
		return c.PanelID
	}
	if id, err := machineid.ProtectedID(appID); err == nil {
		return id[:12]
	}
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return appID
}

// NewLink creates the serial link.
func (c *Config) NewLink() *link.Link {
	l := link.New(c.BaudRate)
	l.ReadTimeout = c.PollInterval
	return l
}

// NewPanel creates the Panel using the config.
func (c *Config) NewPanel() (*panel.Panel, error) {
	vocab, err := c.Vocabulary()
	if err != nil {
		return nil, err
	}
	bitmap, err := c.BitMap()
	if err != nil {
		return nil, err
	}
	p := panel.New(c.NewLink(), protocol.NewDemux(vocab, bitmap))
	p.Worker.IdleWait = c.PollInterval
	p.SetEcho(c.Echo)
	return p, nil
}

// NewRecorder creates the capture Recorder, nil if capture is disabled.
func (c *Config) NewRecorder() (*capture.Recorder, error) {
	if !c.Capture.Enabled {
		return nil, nil
	}
	return capture.NewRecorder(c.Capture.Files)
}

// NewQueue connects the MQTT broker, nil if not configured.
func (c *Config) NewQueue() (*mqtt.Queue, error) {
	if c.Telemetry.MQTT == "" {
		return nil, nil
	}
	q, err := mqtt.NewQueueFromURL(c.Telemetry.MQTT)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	glog.Infof("telemetry to %s as %s", c.Telemetry.MQTT, c.Identity())
	return q, nil
}

// NewHub creates the telemetry websocket Hub, nil if not configured.
func (c *Config) NewHub() *websocket.Hub {
	if c.Telemetry.Websocket == "" {
		return nil
	}
	return websocket.NewHub(c.Telemetry.Websocket)
}
