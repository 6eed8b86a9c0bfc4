// internal/inventory/feed.go
package inventory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

// RedisFeed carries inventory change notifications over Redis pub/sub.
// Channels are keyed per inventory row and per product movement log, so a
// subscriber receives exactly the rows it watches.
type RedisFeed struct {
	client *redis.Client
	log    *logrus.Entry
}

func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{
		client: client,
		log:    logrus.WithField("component", "inventory_feed"),
	}
}

func inventoryChannel(productID, warehouseID uuid.UUID) string {
	return fmt.Sprintf("inventory:%s:%s", productID, warehouseID)
}

func movementChannel(productID uuid.UUID) string {
	return fmt.Sprintf("stock_movements:%s", productID)
}

func (f *RedisFeed) PublishInventory(ctx context.Context, event InventoryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode inventory event: %w", err)
	}
	channel := inventoryChannel(event.ProductID, event.WarehouseID)
	if err := f.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

func (f *RedisFeed) PublishMovement(ctx context.Context, movement models.StockMovement) error {
	payload, err := json.Marshal(movement)
	if err != nil {
		return fmt.Errorf("failed to encode stock movement: %w", err)
	}
	channel := movementChannel(movement.ProductID)
	if err := f.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

func (f *RedisFeed) SubscribeInventory(productID, warehouseID uuid.UUID, handler func(InventoryEvent)) (Unsubscribe, error) {
	channel := inventoryChannel(productID, warehouseID)
	sub := f.client.Subscribe(context.Background(), channel)

	// Force the subscription to be established before returning, so callers
	// do not miss events pushed right after subscribing.
	if _, err := sub.Receive(context.Background()); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	go func() {
		for msg := range sub.Channel() {
			var event InventoryEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				f.log.WithError(err).WithField("channel", channel).Warn("dropping malformed inventory event")
				continue
			}
			handler(event)
		}
	}()

	return func() { sub.Close() }, nil
}

func (f *RedisFeed) SubscribeMovements(productID uuid.UUID, handler func(models.StockMovement)) (Unsubscribe, error) {
	channel := movementChannel(productID)
	sub := f.client.Subscribe(context.Background(), channel)

	if _, err := sub.Receive(context.Background()); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	go func() {
		for msg := range sub.Channel() {
			var movement models.StockMovement
			if err := json.Unmarshal([]byte(msg.Payload), &movement); err != nil {
				f.log.WithError(err).WithField("channel", channel).Warn("dropping malformed movement event")
				continue
			}
			handler(movement)
		}
	}()

	return func() { sub.Close() }, nil
}
