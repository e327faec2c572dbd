package transport

import (
	"context"
	"errors"
)

// ErrNotConnected is returned by Subscribe/Send before Connect succeeds.
var ErrNotConnected = errors.New("transport: not connected")

// Handler receives the raw bytes of one message. For a given topic, handler
// invocations are in arrival order and never overlap.
type Handler func(data []byte)

// Transport is the publish-subscribe port the sync engine talks through.
// Sends are fire-and-forget; no delivery confirmation is assumed.
type Transport interface {
	Connect(ctx context.Context) error
	Subscribe(topic string, h Handler) error
	Unsubscribe(topic string) error
	Send(destination string, body any) error
	Close() error
}
