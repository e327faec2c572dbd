package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig holds connection settings for the NATS transport.
type NATSConfig struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns the default NATS transport configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// NATSTransport implements Transport over core NATS subjects. NATS dispatches
// callbacks for a subscription serially, which gives the ordered,
// non-overlapping per-topic delivery the engine relies on.
type NATSTransport struct {
	cfg NATSConfig

	mu   sync.Mutex
	nc   *nats.Conn
	subs map[string]*nats.Subscription
}

func NewNATSTransport(cfg NATSConfig) *NATSTransport {
	return &NATSTransport{
		cfg:  cfg,
		subs: make(map[string]*nats.Subscription),
	}
}

func (t *NATSTransport) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := []nats.Option{
		nats.MaxReconnects(t.cfg.MaxReconnects),
		nats.ReconnectWait(t.cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(t.cfg.URL, opts...)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}

	t.mu.Lock()
	t.nc = nc
	t.mu.Unlock()

	log.Info().Str("url", t.cfg.URL).Msg("NATS transport connected")
	return nil
}

func (t *NATSTransport) Subscribe(topic string, h Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.nc == nil {
		return ErrNotConnected
	}
	if _, ok := t.subs[topic]; ok {
		return nil
	}

	sub, err := t.nc.Subscribe(topic, func(msg *nats.Msg) {
		h(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	t.subs[topic] = sub
	log.Debug().Str("topic", topic).Msg("subscribed")
	return nil
}

func (t *NATSTransport) Unsubscribe(topic string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	sub, ok := t.subs[topic]
	if !ok {
		return nil
	}
	delete(t.subs, topic)

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Msg("unsubscribed")
	return nil
}

func (t *NATSTransport) Send(destination string, body any) error {
	t.mu.Lock()
	nc := t.nc
	t.mu.Unlock()

	if nc == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", destination, err)
	}
	if err := nc.Publish(destination, data); err != nil {
		return fmt.Errorf("publish %s: %w", destination, err)
	}
	return nil
}

func (t *NATSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for topic, sub := range t.subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("unsubscribe on close failed")
		}
	}
	t.subs = make(map[string]*nats.Subscription)

	if t.nc != nil {
		t.nc.Close()
		t.nc = nil
	}
	return nil
}
