package events

import (
	"context"
	"time"

	"github.com/shopadm/admin-gateway/internal/domain"
)

// OrderPlaced is emitted once a checkout completes, for downstream consumers
// (reporting, fulfillment sync). The remote platform already owns the order;
// this is a notification, not a source of truth.
type OrderPlaced struct {
	IdempotencyKey string             `json:"idempotency_key"`
	CustomerID     string             `json:"customer_id,omitempty"`
	Lines          []domain.OrderLine `json:"lines"`
	PlacedAt       time.Time          `json:"placed_at"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error
	Close() error
}

// NopPublisher drops events, used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
func (NopPublisher) Close() error                                          { return nil }
