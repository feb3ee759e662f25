package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/telemetry/msgs"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub("")
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan msgs.Message, 4)
	done := make(chan error, 1)
	go func() {
		done <- Receive(ctx, "ws"+strings.TrimPrefix(server.URL, "http")+Path, func(msg msgs.Message) {
			received <- msg
		})
	}()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	hub.HandleEvent(ctx, &panel.ModeEvent{Mode: protocol.ModeBinary})
	hub.HandleEvent(ctx, &panel.SensorEvent{Frame: protocol.Frame{
		Raw:  [2]byte{0x00, 0x03},
		Bits: protocol.Bits{1, 0, 0, 0, 0, 1},
	}})
	select {
	case msg := <-received:
		frame, ok := msg.(*msgs.SensorFrame)
		require.True(t, ok)
		require.Equal(t, []byte{0x00, 0x03}, frame.Raw)
		require.Equal(t, uint32(0x21), frame.Bits)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}

	cancel()
	require.Error(t, <-done)
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
}
