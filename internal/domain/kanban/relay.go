package kanban

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"imobcrm/internal/domain/lead"
	"imobcrm/internal/pkg/logger"
)

// DefaultChannel carries board events between API instances.
const DefaultChannel = "crm:kanban:events"

// Relay publishes board events to Redis and feeds events from every
// instance, its own included, into the local hub.
type Relay struct {
	client  *redis.Client
	hub     *Hub
	channel string
}

func NewRelay(client *redis.Client, hub *Hub) *Relay {
	return &Relay{client: client, hub: hub, channel: DefaultChannel}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("kanban: parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Publish implements lead.EventPublisher.
func (r *Relay) Publish(ctx context.Context, ev lead.Event) error {
	data, err := json.Marshal(NewBoardEvent(ev))
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

// Run subscribes and forwards events until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("kanban: subscribe %s: %w", r.channel, err)
	}
	logger.LogEvent("kanban_relay_subscribed", map[string]interface{}{"channel": r.channel})

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.deliver(msg.Payload)
		}
	}
}

func (r *Relay) deliver(payload string) {
	var ev BoardEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		logrus.WithError(err).Warn("kanban relay: dropping malformed event")
		return
	}
	r.hub.broadcast([]byte(payload))
}
