package realtime

import (
	"context"
	"encoding/json"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// one pub/sub channel per order id
func statusChannel(orderID string) string {
	return "order:status:" + orderID
}

// RedisFeed carries order status events over redis pub/sub. The order
// engine publishes after every authoritative write; watchers subscribe
// per order.
type RedisFeed struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisFeed creates new RedisFeed instance
func NewRedisFeed(addr string, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
	}
}

// PublishStatus pushes one confirmed status change onto the order's channel
func (f *RedisFeed) PublishStatus(ctx context.Context, event models.StatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, statusChannel(event.OrderID), payload).Err()
}

// Subscribe opens a delivery channel for one order's status events
func (f *RedisFeed) Subscribe(ctx context.Context, orderID string) (<-chan models.StatusEvent, func(), error) {
	sub := f.client.Subscribe(ctx, statusChannel(orderID))

	// confirm the subscription before events can be missed
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, err
	}

	out := make(chan models.StatusEvent)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event models.StatusEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				f.logger.Error("malformed status event",
					zap.String("order", orderID),
					zap.Error(err))
				continue
			}
			out <- event
		}
	}()

	return out, func() { sub.Close() }, nil
}

// Close releases the underlying redis client
func (f *RedisFeed) Close() error {
	return f.client.Close()
}
