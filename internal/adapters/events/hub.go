package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Hub serves the broker's events to websocket clients.
type Hub struct {
	broker   *Broker
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewHub(broker *Broker, log logrus.FieldLogger) *Hub {
	return &Hub{
		broker: broker,
		log:    log,
		upgrader: websocket.Upgrader{
			// The dashboard may be served from another origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// ServeHTTP upgrades the request and streams change events until the
// client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn}
	events, cancel := h.broker.Subscribe()
	defer cancel()
	defer conn.Close()

	h.log.WithField("clients", h.broker.Subscribers()).Info("websocket client connected")

	// Reader: only control frames are expected; a read error means the
	// client went away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			h.log.Info("websocket client disconnected")
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := client.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case evt, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(evt)
			if err != nil {
				h.log.WithError(err).Error("marshal change event")
				continue
			}
			if err := client.write(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
