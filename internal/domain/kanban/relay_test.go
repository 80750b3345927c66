package kanban

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imobcrm/internal/domain/lead"
)

func setupRelay(t *testing.T) (*Relay, *redis.Client, *connection) {
	t.Helper()
	srv := miniredis.RunT(t)

	client, err := NewRedisClient("redis://" + srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	hub := NewHub()
	t.Cleanup(hub.Close)
	c := &connection{send: make(chan []byte, 4)}
	hub.register(c)

	return NewRelay(client, hub), client, c
}

func runRelay(t *testing.T, relay *Relay, client *redis.Client) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	// wait for the subscription before publishing
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, relay.channel).Result()
		return err == nil && n[relay.channel] > 0
	}, 2*time.Second, 10*time.Millisecond)
	return ctx
}

func TestRelayRoundTrip(t *testing.T) {
	relay, client, c := setupRelay(t)
	ctx := runRelay(t, relay, client)

	id := uuid.New()
	require.NoError(t, relay.Publish(ctx, lead.Event{Kind: lead.EventDeleted, LeadID: id, At: time.Now()}))

	select {
	case msg := <-c.send:
		assert.Contains(t, string(msg), id.String())
		assert.Contains(t, string(msg), `"type":"lead.deleted"`)
	case <-time.After(2 * time.Second):
		t.Fatal("event not relayed")
	}
}

func TestRelayDropsMalformedPayload(t *testing.T) {
	relay, client, c := setupRelay(t)
	ctx := runRelay(t, relay, client)

	require.NoError(t, client.Publish(ctx, DefaultChannel, "{not json").Err())
	id := uuid.New()
	require.NoError(t, relay.Publish(ctx, lead.Event{Kind: lead.EventDeleted, LeadID: id, At: time.Now()}))

	// messages arrive in order, so the first one delivered must be the valid event
	select {
	case msg := <-c.send:
		assert.Contains(t, string(msg), id.String())
	case <-time.After(2 * time.Second):
		t.Fatal("event not relayed")
	}
	assert.Empty(t, c.send)
}

func TestRelayPublishFailsWhenRedisIsDown(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := NewRedisClient("redis://" + srv.Addr())
	require.NoError(t, err)
	defer client.Close()
	srv.Close()

	relay := NewRelay(client, NewHub())
	err = relay.Publish(context.Background(), lead.Event{Kind: lead.EventCreated, LeadID: uuid.New(), At: time.Now()})
	assert.Error(t, err)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient("http://nope")
	assert.Error(t, err)
}
