package websocket

import (
	"context"
	"net/url"

	"golang.org/x/net/websocket"

	"github.com/robotalks/linebot/pkg/framework"
	"github.com/robotalks/linebot/pkg/telemetry/msgs"
)

// Receive connects to a Hub and calls handler for every message
// until the context is canceled or the connection is closed.
func Receive(ctx context.Context, serverURL string, handler func(msgs.Message)) error {
	u, err := url.Parse(serverURL)
	if err != nil {
		return err
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = Path
	}
	origin := &url.URL{Scheme: "http", Host: u.Host}
	conn, err := websocket.Dial(u.String(), "", origin.String())
	if err != nil {
		return err
	}
	return framework.RunWithContextCloser(ctx, conn, func() error {
		for {
			var data []byte
			if err := websocket.Message.Receive(conn, &data); err != nil {
				return err
			}
			msg, err := msgs.DecodeMessage(data)
			if err != nil {
				continue
			}
			handler(msg)
		}
	})
}
