package foundations

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// Subscribe opens a websocket to the realtime endpoint and delivers
// change notifications for the collection to fn. Events arrive on a
// dedicated goroutine; fn must be safe to call concurrently with other
// client work. The returned UnsubscribeFunc closes the connection and
// stops delivery.
func (g *RemoteGateway) Subscribe(ctx context.Context, collection string, fn func(Event)) (UnsubscribeFunc, error) {
	wsURL := websocketURL(g.baseURL) + "/api/realtime?collection=" + collection

	header := http.Header{}
	if g.authToken != "" {
		header.Set("Authorization", g.authToken)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, &GatewayError{Operation: "subscribe", Err: err}
	}

	var once sync.Once
	done := make(chan struct{})

	unsubscribe := func() {
		once.Do(func() {
			close(done)
			conn.Close()
		})
	}

	go func() {
		defer unsubscribe()
		for {
			var event Event
			if err := conn.ReadJSON(&event); err != nil {
				select {
				case <-done:
					// Closed by unsubscribe.
				default:
					g.log.LogError("subscribe", fmt.Errorf("read event: %w", err))
				}
				return
			}
			if event.Action == "" || event.Record == nil {
				continue
			}
			fn(event)
		}
	}()

	return unsubscribe, nil
}

// websocketURL rewrites an http(s) base URL to its ws(s) counterpart.
func websocketURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
