package bidding

import (
	"context"
	"time"

	model "bid-lifecycle/internal/models"
	"bid-lifecycle/internal/notification"
	"bid-lifecycle/internal/repository"
	"bid-lifecycle/utils"
)

// settings are shared by the manager and the controller
type settings struct {
	now    func() time.Time
	policy utils.RetryPolicy
	fanOut int
}

type Option func(*settings)

// WithClock replaces time.Now; tests use it to pin timestamps
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRetryPolicy bounds retries of service request writes and sibling rejections
func WithRetryPolicy(p utils.RetryPolicy) Option {
	return func(s *settings) {
		s.policy = p
	}
}

// WithFanOutConcurrency limits concurrent sibling rejections
func WithFanOutConcurrency(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.fanOut = n
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		now:    time.Now,
		policy: utils.DefaultRetryPolicy,
		fanOut: defaultFanOutConcurrency,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// BiddingService is the entry point used by the HTTP layer and the CLI
type BiddingService struct {
	bids      *BidManager
	lifecycle *LifecycleController
	now       func() time.Time
}

// NewBiddingService creates a new BiddingService instance. dispatcher may
// be nil, in which case no notifications are sent.
func NewBiddingService(repo repository.MarketplaceDB, dispatcher notification.Dispatcher, opts ...Option) *BiddingService {
	s := newSettings(opts)
	notifier := NewNotifier(repo, dispatcher)
	return &BiddingService{
		bids:      NewBidManager(repo, notifier, s.now),
		lifecycle: NewLifecycleController(repo, notifier, opts...),
		now:       s.now,
	}
}

// CreateBid validates and records a contractor's bid on a service request
func (s *BiddingService) CreateBid(ctx context.Context, in model.CreateBidInput) (model.Bid, error) {
	return s.bids.CreateBid(ctx, in)
}

// GetBid returns a single bid
func (s *BiddingService) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	return s.bids.GetBid(ctx, bidID)
}

// WithdrawBid withdraws a pending bid on behalf of its contractor
func (s *BiddingService) WithdrawBid(ctx context.Context, bidID, contractorID string) (model.Bid, error) {
	return s.bids.WithdrawBid(ctx, bidID, contractorID)
}

// ListBidsForRequest returns the bids on a service request; status may be empty
func (s *BiddingService) ListBidsForRequest(ctx context.Context, requestID string, status model.BidStatus) ([]model.Bid, error) {
	return s.bids.ListBidsForRequest(ctx, requestID, status)
}

// ListBidsByContractor returns every bid a contractor has placed
func (s *BiddingService) ListBidsByContractor(ctx context.Context, contractorID string) ([]model.Bid, error) {
	return s.bids.ListBidsByContractor(ctx, contractorID)
}

// DecideBid accepts or rejects a bid on behalf of the request's customer
func (s *BiddingService) DecideBid(ctx context.Context, bidID string, decision model.Decision, decidingPartyID string) (model.DecisionResult, error) {
	return s.lifecycle.Decide(ctx, bidID, decision, decidingPartyID)
}

// ExpireBid expires a single lapsed bid
func (s *BiddingService) ExpireBid(ctx context.Context, bidID string) (model.Bid, error) {
	return s.lifecycle.Expire(ctx, bidID, s.now())
}

// ExpireStale expires every lapsed pending bid
func (s *BiddingService) ExpireStale(ctx context.Context) ([]string, error) {
	return s.lifecycle.ExpireStale(ctx, s.now())
}

// Reconcile repairs one service request
func (s *BiddingService) Reconcile(ctx context.Context, requestID string) (model.ReconcileResult, error) {
	return s.lifecycle.Reconcile(ctx, requestID)
}

// ReconcileAll repairs every service request holding a claim
func (s *BiddingService) ReconcileAll(ctx context.Context) ([]model.ReconcileResult, error) {
	return s.lifecycle.ReconcileAll(ctx)
}
