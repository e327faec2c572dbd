package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureIsIdempotent(t *testing.T) {
	ft := newFakeTransport()
	subs := newSubscriptionSet(ft)

	h := func(data []byte) {}
	require.NoError(t, subs.ensure("game.rooms.R1", h))
	require.NoError(t, subs.ensure("game.rooms.R1", h))

	require.Equal(t, []string{"game.rooms.R1"}, subs.activeTopics())
}

func TestDropUnknownTopicIsNoOp(t *testing.T) {
	subs := newSubscriptionSet(newFakeTransport())
	subs.drop("game.rooms.never-subscribed")
	require.Empty(t, subs.activeTopics())
}

func TestDropRemovesTopic(t *testing.T) {
	ft := newFakeTransport()
	subs := newSubscriptionSet(ft)

	require.NoError(t, subs.ensure("game.users.P1", func([]byte) {}))
	require.True(t, ft.subscribed("game.users.P1"))

	subs.drop("game.users.P1")
	require.False(t, ft.subscribed("game.users.P1"))
	require.Empty(t, subs.activeTopics())
}
