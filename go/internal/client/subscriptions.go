package client

import (
	"sort"
	"sync"

	"github.com/mcdev12/rangebomb/go/internal/transport"
	"github.com/rs/zerolog/log"
)

// subscriptionSet tracks which topics this session is actively subscribed to
// and keeps the subscribe/unsubscribe pairing idempotent across room
// lifecycle events (create, join, kick, quit, restart).
type subscriptionSet struct {
	tp transport.Transport

	mu     sync.Mutex
	topics map[string]struct{}
}

func newSubscriptionSet(tp transport.Transport) *subscriptionSet {
	return &subscriptionSet{
		tp:     tp,
		topics: make(map[string]struct{}),
	}
}

// ensure subscribes the topic if it is not already active. Calling it again
// for an active topic is a no-op, so no handler is ever registered twice.
func (s *subscriptionSet) ensure(topic string, h transport.Handler) error {
	s.mu.Lock()
	if _, ok := s.topics[topic]; ok {
		s.mu.Unlock()
		return nil
	}
	s.topics[topic] = struct{}{}
	s.mu.Unlock()

	if err := s.tp.Subscribe(topic, h); err != nil {
		s.mu.Lock()
		delete(s.topics, topic)
		s.mu.Unlock()
		return err
	}
	return nil
}

// drop unsubscribes the topic. A topic that was never subscribed is a no-op,
// not an error.
func (s *subscriptionSet) drop(topic string) {
	s.mu.Lock()
	if _, ok := s.topics[topic]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.topics, topic)
	s.mu.Unlock()

	if err := s.tp.Unsubscribe(topic); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("unsubscribe failed")
	}
}

// activeTopics returns the sorted set of currently subscribed topics.
func (s *subscriptionSet) activeTopics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics := make([]string, 0, len(s.topics))
	for t := range s.topics {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}
