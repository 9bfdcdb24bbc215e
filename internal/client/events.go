package client

import (
	"context"
	"fleet-dashboard/internal/domain"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

const eventsPath = "/api/events"

// Events connects to the backend change feed and delivers events until ctx
// is cancelled or the connection drops. The channel is closed on return.
func (c *Client) Events(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	url := c.baseURL + eventsPath
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, &Error{Kind: KindStatus, Method: http.MethodGet, Path: eventsPath, Status: resp.StatusCode, Err: err}
		}
		return nil, &Error{Kind: KindNetwork, Method: http.MethodGet, Path: eventsPath, Err: err}
	}

	out := make(chan domain.ChangeEvent, 16)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	go func() {
		defer close(out)
		defer close(done)
		for {
			var evt domain.ChangeEvent
			if err := conn.ReadJSON(&evt); err != nil {
				if ctx.Err() == nil {
					c.log.WithError(err).Debug("event feed closed")
				}
				return
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
