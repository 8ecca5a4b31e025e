// Package checkout drives the two remote calls that turn a cart into a real
// order: create a draft order, then complete it. The two-phase sequence is
// collapsed into a single outcome the caller branches on.
package checkout

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/shopadm/admin-gateway/internal/commerce"
	"github.com/shopadm/admin-gateway/internal/domain"
	"github.com/shopadm/admin-gateway/internal/events"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// genericFailureMessage hides transport faults behind one retriable message;
// field-level errors always come verbatim from the platform instead.
const genericFailureMessage = "Failed to create order. Please try again."

const publishTimeout = 5 * time.Second

type Sequencer struct {
	api       commerce.DraftOrderAPI
	drafts    DraftStore
	publisher events.Publisher
	logger    *zap.Logger
	sfg       singleflight.Group // one in-flight submit per idempotency key
}

func NewSequencer(api commerce.DraftOrderAPI, drafts DraftStore, publisher events.Publisher, logger *zap.Logger) *Sequencer {
	return &Sequencer{
		api:       api,
		drafts:    drafts,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit runs the draft-create / draft-complete sequence for one finalized
// cart. An empty line list is rejected locally before any remote call.
// Concurrent submits sharing an idempotency key coalesce onto one remote
// sequence and all receive its outcome, so a double-clicked save button
// cannot place two orders.
func (s *Sequencer) Submit(ctx context.Context, sub domain.OrderSubmission) (domain.SubmissionOutcome, error) {
	if len(sub.Lines) == 0 {
		return domain.SubmissionOutcome{}, ErrEmptyCart
	}

	v, err, shared := s.sfg.Do(sub.IdempotencyKey, func() (interface{}, error) {
		return s.submit(ctx, sub), nil
	})
	if err != nil {
		return domain.SubmissionOutcome{}, err
	}
	if shared {
		s.logger.Info("submit coalesced with in-flight attempt",
			zap.String("idempotency_key", sub.IdempotencyKey))
	}
	return v.(domain.SubmissionOutcome), nil
}

func (s *Sequencer) submit(ctx context.Context, sub domain.OrderSubmission) domain.SubmissionOutcome {
	draftID, err := s.drafts.Get(ctx, sub.IdempotencyKey)
	if err != nil && !errors.Is(err, ErrDraftNotFound) {
		// Bookkeeping is best-effort; a broken store must not block checkout.
		s.logger.Warn("draft lookup failed", zap.Error(err))
	}

	if draftID != "" {
		s.logger.Info("reusing existing draft order",
			zap.String("idempotency_key", sub.IdempotencyKey),
			zap.String("draft_id", draftID))
	} else {
		id, userErrs, err := s.api.CreateDraftOrder(ctx, sub)
		if err != nil {
			s.logger.Error("draft order create failed", zap.Error(err))
			return s.transportFailure()
		}
		if len(userErrs) > 0 {
			return domain.SubmissionFailed(userErrs)
		}
		draftID = id
		if err := s.drafts.Put(ctx, sub.IdempotencyKey, draftID); err != nil {
			s.logger.Warn("draft record failed", zap.Error(err))
		}
	}

	userErrs, err := s.api.CompleteDraftOrder(ctx, draftID)
	if err != nil {
		s.logger.Error("draft order complete failed",
			zap.String("draft_id", draftID), zap.Error(err))
		return s.transportFailure()
	}
	if len(userErrs) > 0 {
		// The draft exists but was not finalized. It stays recorded so a
		// retry with the same key completes it instead of creating another.
		return domain.SubmissionFailed(userErrs)
	}

	if err := s.drafts.Delete(ctx, sub.IdempotencyKey); err != nil {
		s.logger.Warn("draft cleanup failed", zap.Error(err))
	}
	s.publishPlaced(sub)
	return domain.SubmissionSucceeded()
}

func (s *Sequencer) transportFailure() domain.SubmissionOutcome {
	return domain.SubmissionFailed([]domain.UserError{{Message: genericFailureMessage}})
}

func (s *Sequencer) publishPlaced(sub domain.OrderSubmission) {
	if s.publisher == nil {
		return
	}
	evt := events.OrderPlaced{
		IdempotencyKey: sub.IdempotencyKey,
		CustomerID:     sub.CustomerID,
		Lines:          sub.Lines,
		PlacedAt:       time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.publisher.PublishOrderPlaced(ctx, evt); err != nil {
			s.logger.Warn("order placed event publish failed", zap.Error(err))
		}
	}()
}
