package bidding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bid-lifecycle/internal/biddingerrors"
	model "bid-lifecycle/internal/models"
	"bid-lifecycle/internal/repository"
	"bid-lifecycle/utils"
)

const defaultFanOutConcurrency = 8

// LifecycleController drives bid status transitions and their side effects
// on the service request and rival bids.
//
// Accepting a bid claims the service request first, then flips the bid.
// The claim is a conditional write in the store, so of two concurrent
// accepts on one request only one can ever reach the bid write. Everything
// after the bid write is repaired forward by retrying the decision or by
// Reconcile; nothing is rolled back.
type LifecycleController struct {
	repo     repository.MarketplaceDB
	requests *ServiceRequestRef
	notifier *Notifier
	now      func() time.Time
	policy   utils.RetryPolicy
	fanOut   int
}

func NewLifecycleController(repo repository.MarketplaceDB, notifier *Notifier, opts ...Option) *LifecycleController {
	s := newSettings(opts)
	return &LifecycleController{
		repo:     repo,
		requests: NewServiceRequestRef(repo, s.policy),
		notifier: notifier,
		now:      s.now,
		policy:   s.policy,
		fanOut:   s.fanOut,
	}
}

// Decide applies a customer's accept or reject decision to a bid
func (c *LifecycleController) Decide(ctx context.Context, bidID string, decision model.Decision, decidingPartyID string) (model.DecisionResult, error) {
	if bidID == "" || decidingPartyID == "" {
		return model.DecisionResult{}, validationErr("missing bidID or deciding party")
	}
	if !decision.Valid() {
		return model.DecisionResult{}, validationErr("unknown decision %q", decision)
	}

	bid, err := c.repo.GetBid(ctx, bidID)
	if err != nil {
		return model.DecisionResult{}, storeErr("load bid "+bidID, err)
	}
	req, err := c.requests.Get(ctx, bid.ServiceRequestID)
	if err != nil {
		return model.DecisionResult{Bid: bid}, storeErr("load service request "+bid.ServiceRequestID, err)
	}
	if req.CustomerID != decidingPartyID {
		return model.DecisionResult{Bid: bid}, fmt.Errorf("service: %w - %s is not the customer of service request %s",
			biddingerrors.ErrAuthorization, decidingPartyID, req.RequestID)
	}

	if decision == model.DecisionAccept {
		return c.accept(ctx, bid, req)
	}
	return c.reject(ctx, bid, req)
}

func (c *LifecycleController) accept(ctx context.Context, bid model.Bid, req model.ServiceRequest) (model.DecisionResult, error) {
	switch bid.Status {
	case model.BidPending:
	case model.BidAccepted:
		return c.resumeAccept(ctx, bid, req)
	default:
		if req.Claimed() && req.AcceptedBidID != bid.BidID {
			return model.DecisionResult{Bid: bid}, conflictErr("service request %s already assigned to contractor %s", req.RequestID, req.AssignedContractorID)
		}
		return model.DecisionResult{Bid: bid}, invalidStateErr("bid %s is %s", bid.BidID, bid.Status)
	}

	if req.Status.Closed() {
		return model.DecisionResult{Bid: bid}, invalidStateErr("service request %s is %s", req.RequestID, req.Status)
	}

	claimed, err := c.requests.Assign(ctx, req.RequestID, bid.ContractorID, bid.BidID, c.now())
	if err != nil {
		return model.DecisionResult{Bid: bid}, storeErr("claim service request "+req.RequestID, err)
	}

	accepted, err := c.repo.TransitionBid(ctx, bid.BidID, model.BidPending, model.BidAccepted, c.now())
	if errors.Is(err, biddingerrors.ErrStatusMismatch) {
		return c.lostBidWrite(ctx, bid, claimed)
	} else if err != nil {
		return c.failedBidWrite(ctx, bid, claimed, err)
	}

	utils.Info("bid accepted", map[string]any{
		"bid_id":             accepted.BidID,
		"service_request_id": accepted.ServiceRequestID,
		"contractor_id":      accepted.ContractorID,
	})
	return c.completeAccept(ctx, accepted, claimed, true)
}

// lostBidWrite handles a bid that left pending between the claim and the
// bid write.
func (c *LifecycleController) lostBidWrite(ctx context.Context, bid model.Bid, claimed model.ServiceRequest) (model.DecisionResult, error) {
	current, err := c.repo.GetBid(ctx, bid.BidID)
	if err != nil {
		return model.DecisionResult{Bid: bid}, storeErr("reload bid "+bid.BidID, err)
	}
	if current.Status == model.BidAccepted {
		// a concurrent accept of the same bid got there first
		return c.resumeAccept(ctx, current, claimed)
	}

	if _, err := c.requests.Release(ctx, claimed.RequestID, bid.BidID); err != nil {
		utils.Error("accept: failed to release claim of abandoned bid", map[string]any{
			"bid_id":             bid.BidID,
			"service_request_id": claimed.RequestID,
			"error":              err.Error(),
		})
	}
	return model.DecisionResult{Bid: current}, invalidStateErr("bid %s became %s during acceptance", bid.BidID, current.Status)
}

// failedBidWrite settles a claim whose bid write returned an error. The
// write may still have landed, so the bid is reloaded: an accepted bid is
// completed, a pending one gives its claim back.
func (c *LifecycleController) failedBidWrite(ctx context.Context, bid model.Bid, claimed model.ServiceRequest, writeErr error) (model.DecisionResult, error) {
	fields := map[string]any{
		"bid_id":             bid.BidID,
		"service_request_id": claimed.RequestID,
		"error":              writeErr.Error(),
	}

	var current model.Bid
	err := utils.Retry(ctx, c.policy, isTransient, func(ctx context.Context) error {
		var err error
		current, err = c.repo.GetBid(ctx, bid.BidID)
		return err
	})
	if err != nil {
		perr := &biddingerrors.PartialFailureError{
			BidID:            bid.BidID,
			ServiceRequestID: claimed.RequestID,
			Step:             biddingerrors.StepWriteBid,
			InFlight:         ctx.Err() != nil,
			Err:              errors.Join(writeErr, err),
		}
		fields["in_flight"] = perr.InFlight
		utils.Error("accept: bid write outcome unknown, claim left for reconciliation", fields)
		return model.DecisionResult{Bid: bid}, perr
	}

	switch current.Status {
	case model.BidAccepted:
		utils.Warn("accept: bid write reported an error but landed", fields)
		return c.completeAccept(ctx, current, claimed, true)
	case model.BidPending:
	default:
		return c.lostBidWrite(ctx, bid, claimed)
	}

	if _, err := c.requests.Release(ctx, claimed.RequestID, bid.BidID); err != nil {
		fields["release_error"] = err.Error()
		utils.Error("accept: bid write failed and claim could not be released", fields)
		return model.DecisionResult{Bid: current}, &biddingerrors.PartialFailureError{
			BidID:            bid.BidID,
			ServiceRequestID: claimed.RequestID,
			Step:             biddingerrors.StepReleaseRequest,
			InFlight:         ctx.Err() != nil,
			Err:              errors.Join(writeErr, err),
		}
	}
	utils.Warn("accept: bid write failed, claim released", fields)
	return model.DecisionResult{Bid: current}, storeErr("accept bid "+bid.BidID, writeErr)
}

// resumeAccept finishes the side effects of an already accepted bid
func (c *LifecycleController) resumeAccept(ctx context.Context, bid model.Bid, req model.ServiceRequest) (model.DecisionResult, error) {
	switch {
	case req.AcceptedBidID == bid.BidID:
	case !req.Claimed():
		claimed, err := c.requests.Assign(ctx, req.RequestID, bid.ContractorID, bid.BidID, c.now())
		if err != nil {
			return model.DecisionResult{Bid: bid}, storeErr("claim service request "+req.RequestID, err)
		}
		req = claimed
	default:
		return model.DecisionResult{Bid: bid}, conflictErr("bid %s is accepted but service request %s is held by bid %s",
			bid.BidID, req.RequestID, req.AcceptedBidID)
	}
	return c.completeAccept(ctx, bid, req, false)
}

// completeAccept runs every step after the bid write: assigning the
// request, rejecting pending siblings and notifying. fresh is true when
// this call performed the bid write.
func (c *LifecycleController) completeAccept(ctx context.Context, bid model.Bid, req model.ServiceRequest, fresh bool) (model.DecisionResult, error) {
	result := model.DecisionResult{Bid: bid, AutoRejectedBidIDs: []string{}}

	assignedNow := false
	if req.Status == model.RequestPending {
		marked, moved, err := c.requests.MarkAssigned(ctx, req.RequestID, bid.BidID)
		if err != nil {
			perr := &biddingerrors.PartialFailureError{
				BidID:            bid.BidID,
				ServiceRequestID: req.RequestID,
				Step:             biddingerrors.StepMarkAssigned,
				InFlight:         ctx.Err() != nil,
				Err:              err,
			}
			utils.Error("accept: service request assignment failed", map[string]any{
				"bid_id":             bid.BidID,
				"service_request_id": req.RequestID,
				"in_flight":          perr.InFlight,
				"error":              err.Error(),
			})
			return result, perr
		}
		req, assignedNow = marked, moved
	}
	result.AssignedServiceRequest = &req

	rejected, pending := c.rejectSiblings(ctx, bid)
	for _, r := range rejected {
		result.AutoRejectedBidIDs = append(result.AutoRejectedBidIDs, r.BidID)
	}
	result.PendingRejections = pending

	if assignedNow {
		c.notifier.QuoteAccepted(ctx, bid, req)
	}
	for _, r := range rejected {
		c.notifier.QuoteRejected(ctx, r, req, true)
	}

	result.Noop = !fresh && !assignedNow && len(rejected) == 0
	if !result.Noop {
		utils.Info("acceptance side effects applied", map[string]any{
			"bid_id":             bid.BidID,
			"service_request_id": req.RequestID,
			"auto_rejected":      len(rejected),
			"pending_rejections": len(pending),
		})
	}
	return result, nil
}

// rejectSiblings rejects every other pending bid on the winner's request.
// Each rejection is independent; failures are logged and returned by id
// for a later reconciliation pass.
func (c *LifecycleController) rejectSiblings(ctx context.Context, winner model.Bid) ([]model.Bid, []string) {
	filter := model.BidFilter{
		ServiceRequestID: winner.ServiceRequestID,
		Statuses:         []model.BidStatus{model.BidPending},
		ExcludeBidID:     winner.BidID,
	}

	var siblings []model.Bid
	err := utils.Retry(ctx, c.policy, isTransient, func(ctx context.Context) error {
		var err error
		siblings, err = c.repo.FindBids(ctx, filter)
		return err
	})
	if err != nil {
		utils.Error("accept: failed to list sibling bids", map[string]any{
			"bid_id":             winner.BidID,
			"service_request_id": winner.ServiceRequestID,
			"error":              err.Error(),
		})
		return nil, nil
	}
	if len(siblings) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		outcomes = make([]*model.Bid, len(siblings))
		failed   []string
	)

	g := new(errgroup.Group)
	g.SetLimit(c.fanOut)
	for i, sibling := range siblings {
		i, sibling := i, sibling
		g.Go(func() error {
			var updated model.Bid
			err := utils.Retry(ctx, c.policy, isTransient, func(ctx context.Context) error {
				var err error
				updated, err = c.repo.TransitionBid(ctx, sibling.BidID, model.BidPending, model.BidRejected, c.now())
				return err
			})

			switch {
			case err == nil:
				outcomes[i] = &updated
			case errors.Is(err, biddingerrors.ErrStatusMismatch):
				// withdrawn, expired or rejected by someone else meanwhile
			default:
				utils.Error("accept: failed to reject sibling bid", map[string]any{
					"bid_id":             sibling.BidID,
					"winning_bid_id":     winner.BidID,
					"service_request_id": winner.ServiceRequestID,
					"error":              err.Error(),
				})
				mu.Lock()
				failed = append(failed, sibling.BidID)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	rejected := make([]model.Bid, 0, len(siblings))
	for _, b := range outcomes {
		if b != nil {
			rejected = append(rejected, *b)
		}
	}
	return rejected, failed
}

func (c *LifecycleController) reject(ctx context.Context, bid model.Bid, req model.ServiceRequest) (model.DecisionResult, error) {
	switch bid.Status {
	case model.BidPending:
	case model.BidRejected:
		return model.DecisionResult{Bid: bid, AutoRejectedBidIDs: []string{}, Noop: true}, nil
	default:
		return model.DecisionResult{Bid: bid}, invalidStateErr("bid %s is %s", bid.BidID, bid.Status)
	}
	if req.AcceptedBidID == bid.BidID {
		return model.DecisionResult{Bid: bid}, conflictErr("bid %s is being accepted", bid.BidID)
	}

	rejected, err := c.repo.TransitionBid(ctx, bid.BidID, model.BidPending, model.BidRejected, c.now())
	if errors.Is(err, biddingerrors.ErrStatusMismatch) {
		if rejected.Status == model.BidRejected {
			return model.DecisionResult{Bid: rejected, AutoRejectedBidIDs: []string{}, Noop: true}, nil
		}
		return model.DecisionResult{Bid: rejected}, invalidStateErr("bid %s changed to %s before it could be rejected", bid.BidID, rejected.Status)
	} else if err != nil {
		return model.DecisionResult{Bid: bid}, storeErr("reject bid "+bid.BidID, err)
	}

	utils.Info("bid rejected", map[string]any{
		"bid_id":             rejected.BidID,
		"service_request_id": rejected.ServiceRequestID,
	})
	c.notifier.QuoteRejected(ctx, rejected, req, false)
	return model.DecisionResult{Bid: rejected, AutoRejectedBidIDs: []string{}}, nil
}
