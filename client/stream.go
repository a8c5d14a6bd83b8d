package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mnemos-ai/mnemos-go-sdk/wire"
)

// StreamMessage sends a user message over the server's websocket endpoint
// and delivers each emitted frame to fn as it arrives. The server closes
// the connection normally when the agent finishes its turn.
func (c *RemoteClient) StreamMessage(ctx context.Context, agentID uuid.UUID, message string, fn StreamFunc) error {
	const op = "stream message"

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + fmt.Sprintf("/api/agents/%s/messages/stream", agentID)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: resp.Status}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	defer conn.Close()

	req := wire.SendMessageRequest{Message: message, Role: "user", Stream: true}
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%s: send: %w", op, err)
	}

	for {
		var frame map[string]any
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("%s: read: %w", op, err)
		}
		fn(frame)
	}
}
