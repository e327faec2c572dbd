package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSConfig holds connection settings for the WebSocket transport.
type WSConfig struct {
	URL              string
	HandshakeTimeout time.Duration
}

// DefaultWSConfig returns the default WebSocket transport configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		URL:              "ws://localhost:8081/ws",
		HandshakeTimeout: 10 * time.Second,
	}
}

// wsFrame is the single frame shape on the gateway socket. Outbound frames
// carry an op (subscribe, unsubscribe, send); inbound frames carry the topic
// the body was published on.
type wsFrame struct {
	Op          string          `json:"op,omitempty"`
	Topic       string          `json:"topic,omitempty"`
	Destination string          `json:"destination,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
}

const (
	wsOpSubscribe   = "subscribe"
	wsOpUnsubscribe = "unsubscribe"
	wsOpSend        = "send"
)

// WSTransport implements Transport over a single gateway WebSocket. The one
// read loop dispatches inbound frames to handlers, so per-topic delivery is
// ordered and non-overlapping.
type WSTransport struct {
	cfg WSConfig

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string]Handler
	writeMu  sync.Mutex
}

func NewWSTransport(cfg WSConfig) *WSTransport {
	return &WSTransport{
		cfg:      cfg,
		handlers: make(map[string]Handler),
	}
}

func (t *WSTransport) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: t.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, t.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial gateway %s: %w", t.cfg.URL, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	go t.readLoop(conn)

	log.Info().Str("url", t.cfg.URL).Msg("WebSocket transport connected")
	return nil
}

func (t *WSTransport) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Warn().Err(err).Msg("WebSocket read loop ended")
			return
		}

		var frame wsFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Warn().Err(err).Msg("dropping malformed gateway frame")
			continue
		}

		t.mu.Lock()
		h := t.handlers[frame.Topic]
		t.mu.Unlock()

		if h == nil {
			log.Debug().Str("topic", frame.Topic).Msg("frame for inactive topic")
			continue
		}
		h(frame.Body)
	}
}

func (t *WSTransport) Subscribe(topic string, h Handler) error {
	t.mu.Lock()
	if t.conn == nil {
		t.mu.Unlock()
		return ErrNotConnected
	}
	if _, ok := t.handlers[topic]; ok {
		t.mu.Unlock()
		return nil
	}
	t.handlers[topic] = h
	t.mu.Unlock()

	if err := t.writeFrame(wsFrame{Op: wsOpSubscribe, Topic: topic}); err != nil {
		t.mu.Lock()
		delete(t.handlers, topic)
		t.mu.Unlock()
		return err
	}
	log.Debug().Str("topic", topic).Msg("subscribed")
	return nil
}

func (t *WSTransport) Unsubscribe(topic string) error {
	t.mu.Lock()
	if _, ok := t.handlers[topic]; !ok {
		t.mu.Unlock()
		return nil
	}
	delete(t.handlers, topic)
	t.mu.Unlock()

	if err := t.writeFrame(wsFrame{Op: wsOpUnsubscribe, Topic: topic}); err != nil {
		return err
	}
	log.Debug().Str("topic", topic).Msg("unsubscribed")
	return nil
}

func (t *WSTransport) Send(destination string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", destination, err)
	}
	return t.writeFrame(wsFrame{Op: wsOpSend, Destination: destination, Body: data})
}

func (t *WSTransport) writeFrame(frame wsFrame) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("write %s frame: %w", frame.Op, err)
	}
	return nil
}

func (t *WSTransport) Close() error {
	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.handlers = make(map[string]Handler)
	t.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}
