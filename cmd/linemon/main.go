package main

import (
	"context"
	"flag"
	"log"
	"os"
	"reflect"

	fx "github.com/robotalks/linebot/pkg/framework"
	"github.com/robotalks/linebot/pkg/telemetry/mqtt"
	"github.com/robotalks/linebot/pkg/telemetry/msgs"
	"github.com/robotalks/linebot/pkg/telemetry/websocket"
)

var (
	mqttURL = "mqtt://localhost:1883/linebot/"
	wsURL   string
	panelID string
)

func init() {
	if val := os.Getenv("LINEBOT_MQTT"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&wsURL, "ws", wsURL, "Telemetry websocket URL, e.g. ws://host:8080/telemetry, instead of MQTT.")
	flag.StringVar(&panelID, "panel-id", panelID, "Only show telemetry of this panel.")
}

func typeName(msg msgs.Message) string {
	return reflect.Indirect(reflect.ValueOf(msg)).Type().Name()
}

func monitorMQTT(ctx context.Context) error {
	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		return err
	}
	if err = q.Connect(); err != nil {
		return err
	}
	defer q.Close()
	sub := mqtt.Subscribe(q, panelID, func(t *mqtt.Telemetry) {
		log.Printf("%s/%s: [%s] %s", t.PanelID, t.Topic, typeName(t.Message), t.Message.String())
	})
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}

func monitorWebsocket(ctx context.Context) error {
	return websocket.Receive(ctx, wsURL, func(msg msgs.Message) {
		log.Printf("[%s] %s", typeName(msg), msg.String())
	})
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	monitor := monitorMQTT
	if wsURL != "" {
		monitor = monitorWebsocket
	}
	err := fx.NewRunner().HandleSignals().GoFunc("monitor", monitor).Wait()
	if err != nil {
		log.Fatalln(err)
	}
}
