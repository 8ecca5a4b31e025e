package cart

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/shopadm/admin-gateway/internal/domain"
)

// Service applies cart mutations for one admin session: load the working
// cart, mutate it in memory, write it back. A session with no stored cart
// reads as an empty cart.
type Service struct {
	store  Store
	logger *zap.Logger
	sfg    singleflight.Group // collapses concurrent loads of the same session
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		cart, err := s.store.Get(ctx, sessionID)
		if errors.Is(err, ErrCartNotFound) {
			now := time.Now()
			return &domain.Cart{SessionID: sessionID, CreatedAt: now, UpdatedAt: now}, nil
		}
		if err != nil {
			return nil, err
		}
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	// Coalesced callers share one store read but never one cart: each gets
	// its own copy, so concurrent mutations cannot write through a shared
	// pointer or double up a variant line.
	return v.(*domain.Cart).Clone(), nil
}

// AddLine merges the selected variant into the session cart and returns the
// updated cart.
func (s *Service) AddLine(ctx context.Context, sessionID string, line domain.CartLine) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.AddLine(line)
	})
}

// SetQuantity updates a line from raw form input, clamping to a minimum of 1.
func (s *Service) SetQuantity(ctx context.Context, sessionID, variantID, raw string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.SetQuantity(variantID, raw)
	})
}

func (s *Service) RemoveLine(ctx context.Context, sessionID, variantID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.RemoveLine(variantID)
	})
}

// Clear discards the session cart entirely, the caller's move after a
// successful checkout.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Error("clear cart failed", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*domain.Cart)) (*domain.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("load cart failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	fn(cart)
	cart.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, cart); err != nil {
		s.logger.Error("save cart failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return cart, nil
}
