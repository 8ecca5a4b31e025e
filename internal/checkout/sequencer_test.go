package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopadm/admin-gateway/internal/domain"
	"github.com/shopadm/admin-gateway/internal/events"
)

// stubDraftAPI implements commerce.DraftOrderAPI and records every call.
type stubDraftAPI struct {
	mu               sync.Mutex
	createCalls      int
	completeCalls    int
	completedDrafts  []string
	draftID          string
	createUserErrs   []domain.UserError
	createErr        error
	completeUserErrs []domain.UserError
	completeErr      error
	createGate       chan struct{} // when set, CreateDraftOrder blocks until closed
	createEntered    chan struct{}
}

func (s *stubDraftAPI) CreateDraftOrder(_ context.Context, _ domain.OrderSubmission) (string, []domain.UserError, error) {
	s.mu.Lock()
	s.createCalls++
	entered := s.createEntered
	gate := s.createGate
	s.mu.Unlock()

	if entered != nil {
		close(entered)
		s.mu.Lock()
		s.createEntered = nil
		s.mu.Unlock()
	}
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", nil, s.createErr
	}
	if len(s.createUserErrs) > 0 {
		return "", s.createUserErrs, nil
	}
	return s.draftID, nil, nil
}

func (s *stubDraftAPI) CompleteDraftOrder(_ context.Context, draftID string) ([]domain.UserError, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completeCalls++
	s.completedDrafts = append(s.completedDrafts, draftID)
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	if len(s.completeUserErrs) > 0 {
		return s.completeUserErrs, nil
	}
	return nil, nil
}

func (s *stubDraftAPI) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCalls, s.completeCalls
}

func newTestSequencer(api *stubDraftAPI) (*Sequencer, *MemoryDraftStore) {
	drafts := NewMemoryDraftStore()
	return NewSequencer(api, drafts, events.NopPublisher{}, zap.NewNop()), drafts
}

func submission(key string) domain.OrderSubmission {
	return domain.OrderSubmission{
		Lines:          []domain.OrderLine{{VariantID: "V1", Quantity: 2}},
		IdempotencyKey: key,
	}
}

func TestSubmit_EmptyCartRejectedLocally(t *testing.T) {
	api := &stubDraftAPI{draftID: "D1"}
	seq, _ := newTestSequencer(api)

	_, err := seq.Submit(context.Background(), domain.OrderSubmission{IdempotencyKey: "k"})

	assert.ErrorIs(t, err, ErrEmptyCart)
	creates, completes := api.calls()
	assert.Zero(t, creates, "remote layer must not be invoked for an empty cart")
	assert.Zero(t, completes)
}

func TestSubmit_Success(t *testing.T) {
	api := &stubDraftAPI{draftID: "gid://shopify/DraftOrder/1"}
	seq, _ := newTestSequencer(api)

	outcome, err := seq.Submit(context.Background(), submission("k1"))

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Empty(t, outcome.Errors)
	creates, completes := api.calls()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, completes)
	assert.Equal(t, []string{"gid://shopify/DraftOrder/1"}, api.completedDrafts)
}

func TestSubmit_CreateValidationErrorsStopSequence(t *testing.T) {
	wantErrs := []domain.UserError{{Field: []string{"lineItems"}, Message: "Invalid variant"}}
	api := &stubDraftAPI{createUserErrs: wantErrs}
	seq, _ := newTestSequencer(api)

	outcome, err := seq.Submit(context.Background(), submission("k1"))

	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, wantErrs, outcome.Errors)
	_, completes := api.calls()
	assert.Zero(t, completes, "completion must not run after a failed create")
}

func TestSubmit_CompleteValidationErrors(t *testing.T) {
	wantErrs := []domain.UserError{{Field: []string{"id"}, Message: "Draft order is invalid"}}
	api := &stubDraftAPI{draftID: "D1", completeUserErrs: wantErrs}
	seq, drafts := newTestSequencer(api)

	outcome, err := seq.Submit(context.Background(), submission("k1"))

	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, wantErrs, outcome.Errors)

	// The dangling draft stays recorded so a retry can pick it up.
	draftID, err := drafts.Get(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "D1", draftID)
}

func TestSubmit_CreateTransportFault(t *testing.T) {
	api := &stubDraftAPI{createErr: errors.New("connection refused")}
	seq, _ := newTestSequencer(api)

	outcome, err := seq.Submit(context.Background(), submission("k1"))

	require.NoError(t, err)
	assert.False(t, outcome.Success)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, genericFailureMessage, outcome.Errors[0].Message)
	assert.Empty(t, outcome.Errors[0].Field)
}

func TestSubmit_CompleteTransportFault(t *testing.T) {
	api := &stubDraftAPI{draftID: "D1", completeErr: errors.New("read timeout")}
	seq, _ := newTestSequencer(api)

	outcome, err := seq.Submit(context.Background(), submission("k1"))

	require.NoError(t, err)
	assert.False(t, outcome.Success)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, genericFailureMessage, outcome.Errors[0].Message)
}

func TestSubmit_RetryReusesExistingDraft(t *testing.T) {
	api := &stubDraftAPI{
		draftID:          "D1",
		completeUserErrs: []domain.UserError{{Message: "Payment terms missing"}},
	}
	seq, _ := newTestSequencer(api)

	outcome, err := seq.Submit(context.Background(), submission("k1"))
	require.NoError(t, err)
	require.False(t, outcome.Success)

	// Completion now works; the retry must not create a second draft.
	api.mu.Lock()
	api.completeUserErrs = nil
	api.mu.Unlock()

	outcome, err = seq.Submit(context.Background(), submission("k1"))
	require.NoError(t, err)
	assert.True(t, outcome.Success)

	creates, completes := api.calls()
	assert.Equal(t, 1, creates, "retry created a duplicate draft")
	assert.Equal(t, 2, completes)
	assert.Equal(t, []string{"D1", "D1"}, api.completedDrafts)
}

func TestSubmit_SuccessClearsDraftRecord(t *testing.T) {
	api := &stubDraftAPI{draftID: "D1"}
	seq, drafts := newTestSequencer(api)

	_, err := seq.Submit(context.Background(), submission("k1"))
	require.NoError(t, err)

	_, err = drafts.Get(context.Background(), "k1")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSubmit_ConcurrentSubmitsCoalesce(t *testing.T) {
	api := &stubDraftAPI{
		draftID:       "D1",
		createGate:    make(chan struct{}),
		createEntered: make(chan struct{}),
	}
	seq, _ := newTestSequencer(api)

	results := make(chan domain.SubmissionOutcome, 2)
	go func() {
		outcome, err := seq.Submit(context.Background(), submission("k1"))
		assert.NoError(t, err)
		results <- outcome
	}()

	// Wait until the first submit is inside the remote create, then race a
	// second one against it.
	<-api.createEntered
	go func() {
		outcome, err := seq.Submit(context.Background(), submission("k1"))
		assert.NoError(t, err)
		results <- outcome
	}()

	time.Sleep(50 * time.Millisecond)
	close(api.createGate)

	for i := 0; i < 2; i++ {
		outcome := <-results
		assert.True(t, outcome.Success)
	}

	creates, completes := api.calls()
	assert.Equal(t, 1, creates, "coalesced submits must share one remote sequence")
	assert.Equal(t, 1, completes)
}

type recordingPublisher struct {
	events chan events.OrderPlaced
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, evt events.OrderPlaced) error {
	p.events <- evt
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestSubmit_PublishesOrderPlacedOnSuccess(t *testing.T) {
	api := &stubDraftAPI{draftID: "D1"}
	pub := &recordingPublisher{events: make(chan events.OrderPlaced, 1)}
	seq := NewSequencer(api, NewMemoryDraftStore(), pub, zap.NewNop())

	outcome, err := seq.Submit(context.Background(), submission("k1"))
	require.NoError(t, err)
	require.True(t, outcome.Success)

	select {
	case evt := <-pub.events:
		assert.Equal(t, "k1", evt.IdempotencyKey)
		assert.Equal(t, []domain.OrderLine{{VariantID: "V1", Quantity: 2}}, evt.Lines)
	case <-time.After(time.Second):
		t.Fatal("order placed event was not published")
	}
}

func TestSubmit_FailureDoesNotPublish(t *testing.T) {
	api := &stubDraftAPI{createUserErrs: []domain.UserError{{Message: "bad"}}}
	pub := &recordingPublisher{events: make(chan events.OrderPlaced, 1)}
	seq := NewSequencer(api, NewMemoryDraftStore(), pub, zap.NewNop())

	_, err := seq.Submit(context.Background(), submission("k1"))
	require.NoError(t, err)

	select {
	case <-pub.events:
		t.Fatal("no event expected for a failed submission")
	case <-time.After(100 * time.Millisecond):
	}
}
