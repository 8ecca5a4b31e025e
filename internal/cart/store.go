package cart

import (
	"context"
	"errors"

	"github.com/shopadm/admin-gateway/internal/domain"
)

// Store holds the working cart for each admin session. Carts are ephemeral:
// a TTL bounds their life and nothing survives a successful checkout.
type Store interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrCartNotFound = errors.New("cart not found")
