package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/linebot/pkg/framework"
	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/telemetry"
)

// Path is the endpoint streaming telemetry.
const Path = "/telemetry"

const clientQueueSize = 64

// Hub broadcasts encoded telemetry envelopes to websocket clients
// as binary messages. Slow clients miss messages.
type Hub struct {
	Addr string

	clients map[*client]struct{}
	lock    sync.RWMutex
}

type client struct {
	conn *websocket.Conn
	ch   chan []byte
}

// NewHub creates a Hub serving on addr.
func NewHub(addr string) *Hub {
	return &Hub{Addr: addr, clients: make(map[*client]struct{})}
}

// Handler returns the websocket handler.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}

// HandleEvent implements panel.EventHandler.
func (h *Hub) HandleEvent(ctx context.Context, ev panel.Event) {
	topic, data, err := telemetry.Encode(ev)
	if err != nil {
		glog.Errorf("encode %T: %v", ev, err)
		return
	}
	if topic != "" {
		h.Broadcast(data)
	}
}

// Broadcast queues a message for all clients.
func (h *Hub) Broadcast(data []byte) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	for c := range h.clients {
		select {
		case c.ch <- data:
		default:
			glog.V(2).Infof("websocket %s: message dropped", c.conn.Request().RemoteAddr)
		}
	}
}

// Run implements framework.Runnable.
func (h *Hub) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(Path, h.Handler())
	server := &http.Server{Addr: h.Addr, Handler: mux}
	glog.Infof("telemetry websocket on %s%s", h.Addr, Path)
	return framework.RunWithContextCloser(ctx, server, func() error {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func (h *Hub) serve(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	c := &client{conn: conn, ch: make(chan []byte, clientQueueSize)}
	h.lock.Lock()
	h.clients[c] = struct{}{}
	h.lock.Unlock()
	glog.Infof("websocket %s connected", conn.Request().RemoteAddr)

	done := make(chan struct{})
	go func() {
		// clients don't send anything, reading detects the close.
		var discard []byte
		for websocket.Message.Receive(conn, &discard) == nil {
		}
		close(done)
	}()

	for {
		select {
		case data := <-c.ch:
			if err := websocket.Message.Send(conn, data); err != nil {
				glog.V(2).Infof("websocket %s: %v", conn.Request().RemoteAddr, err)
				h.remove(c)
				return
			}
		case <-done:
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.lock.Lock()
	delete(h.clients, c)
	h.lock.Unlock()
	c.conn.Close()
	glog.Infof("websocket %s disconnected", c.conn.Request().RemoteAddr)
}
