// Package ws provides a WebSocket client for the taskgraph change feed.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/coder/websocket"

	"github.com/dohr-michael/taskgraph/internal/events"
	wsprotocol "github.com/dohr-michael/taskgraph/internal/gateway/ws"
)

// Client is a WebSocket client for the gateway's /api/ws endpoint.
type Client struct {
	conn   *websocket.Conn
	reqSeq uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// URLFromBase turns a gateway base URL (http or https) into its WebSocket URL.
func URLFromBase(base string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/api/ws"
}

// Dial connects to the gateway WebSocket endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ws dial: %w", err)
	}

	clientCtx, cancel := context.WithCancel(ctx)

	return &Client{
		conn:   conn,
		ctx:    clientCtx,
		cancel: cancel,
	}, nil
}

func (c *Client) send(method wsprotocol.Method, params any) (string, error) {
	seq := atomic.AddUint64(&c.reqSeq, 1)
	id := fmt.Sprintf("req-%d", seq)

	frame, err := wsprotocol.NewRequestFrame(id, method, params)
	if err != nil {
		return "", err
	}
	data, err := wsprotocol.MarshalFrame(frame)
	if err != nil {
		return "", err
	}
	return id, c.conn.Write(c.ctx, websocket.MessageText, data)
}

// Ping sends a ping request. The pong arrives as a response frame.
func (c *Client) Ping() error {
	_, err := c.send(wsprotocol.MethodPing, nil)
	return err
}

// History requests the last limit events and waits for the response.
// Event frames received while waiting are returned in pending so callers
// do not lose them.
func (c *Client) History(limit int) (history []events.Event, pending []wsprotocol.Frame, err error) {
	id, err := c.send(wsprotocol.MethodHistory, wsprotocol.HistoryParams{Limit: limit})
	if err != nil {
		return nil, nil, err
	}

	for {
		frame, err := c.ReadFrame()
		if err != nil {
			return nil, pending, err
		}
		if frame.Type != wsprotocol.FrameTypeResponse || frame.ID != id {
			pending = append(pending, frame)
			continue
		}
		if frame.OK == nil || !*frame.OK {
			return nil, pending, fmt.Errorf("history: %s", frame.Error)
		}
		if err := json.Unmarshal(frame.Payload, &history); err != nil {
			return nil, pending, fmt.Errorf("decode history: %w", err)
		}
		return history, pending, nil
	}
}

// ReadFrame reads the next frame from the connection.
func (c *Client) ReadFrame() (wsprotocol.Frame, error) {
	_, data, err := c.conn.Read(c.ctx)
	if err != nil {
		return wsprotocol.Frame{}, err
	}
	return wsprotocol.UnmarshalFrame(data)
}

// ReadEvent reads frames until the next event frame and decodes its event.
func (c *Client) ReadEvent() (events.Event, error) {
	for {
		frame, err := c.ReadFrame()
		if err != nil {
			return events.Event{}, err
		}
		if frame.Type != wsprotocol.FrameTypeEvent {
			continue
		}
		return DecodeEvent(frame)
	}
}

// DecodeEvent decodes the event carried by an event frame.
func DecodeEvent(frame wsprotocol.Frame) (events.Event, error) {
	var evt events.Event
	if err := json.Unmarshal(frame.Payload, &evt); err != nil {
		return events.Event{}, fmt.Errorf("decode event: %w", err)
	}
	return evt, nil
}

// Close gracefully closes the connection.
func (c *Client) Close() error {
	c.cancel()
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}
