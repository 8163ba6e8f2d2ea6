package bidding

import (
	"context"
	"errors"
	"time"

	"bid-lifecycle/internal/biddingerrors"
	model "bid-lifecycle/internal/models"
	"bid-lifecycle/utils"
)

// Expire moves a pending bid whose validity window has passed to expired.
// Expiring an already expired bid succeeds without change.
func (c *LifecycleController) Expire(ctx context.Context, bidID string, now time.Time) (model.Bid, error) {
	if bidID == "" {
		return model.Bid{}, validationErr("empty bid ID")
	}

	bid, err := c.repo.GetBid(ctx, bidID)
	if err != nil {
		return model.Bid{}, storeErr("load bid "+bidID, err)
	}
	switch {
	case bid.Status == model.BidExpired:
		return bid, nil
	case bid.Status != model.BidPending:
		return bid, invalidStateErr("bid %s is %s", bidID, bid.Status)
	case bid.ValidUntil == nil:
		return bid, invalidStateErr("bid %s has no expiry", bidID)
	case !bid.Expired(now):
		return bid, invalidStateErr("bid %s is valid until %s", bidID, bid.ValidUntil.Format(time.RFC3339))
	}

	expired, err := c.repo.TransitionBid(ctx, bidID, model.BidPending, model.BidExpired, now)
	if errors.Is(err, biddingerrors.ErrStatusMismatch) {
		if expired.Status == model.BidExpired {
			return expired, nil
		}
		return expired, invalidStateErr("bid %s changed to %s before it could expire", bidID, expired.Status)
	} else if err != nil {
		return bid, storeErr("expire bid "+bidID, err)
	}

	utils.Info("bid expired", map[string]any{
		"bid_id":             bidID,
		"service_request_id": expired.ServiceRequestID,
	})

	req, err := c.requests.Get(ctx, expired.ServiceRequestID)
	if err != nil {
		// the notification only needs the title; fall back to a generic one
		req = model.ServiceRequest{RequestID: expired.ServiceRequestID}
	}
	c.notifier.QuoteExpired(ctx, expired, req)
	return expired, nil
}

// ExpireStale expires every pending bid whose validity window passed
// before now and returns the ids it expired.
func (c *LifecycleController) ExpireStale(ctx context.Context, now time.Time) ([]string, error) {
	stale, err := c.repo.FindBids(ctx, model.BidFilter{
		Statuses:    []model.BidStatus{model.BidPending},
		ValidBefore: &now,
	})
	if err != nil {
		return nil, storeErr("list stale bids", err)
	}

	expired := make([]string, 0, len(stale))
	var errs []error
	for _, bid := range stale {
		got, err := c.Expire(ctx, bid.BidID, now)
		switch {
		case err == nil && got.Status == model.BidExpired:
			expired = append(expired, bid.BidID)
		case errors.Is(err, biddingerrors.ErrInvalidState):
			// decided or withdrawn since the listing
		case err != nil:
			errs = append(errs, err)
		}
	}

	if len(stale) > 0 {
		utils.Info("stale bids expired", map[string]any{
			"candidates": len(stale),
			"expired":    len(expired),
			"failed":     len(errs),
		})
	}
	return expired, errors.Join(errs...)
}

// Reconcile repairs a service request left half-way through an acceptance.
// A claim whose bid is still pending or already accepted is completed; a
// claim whose bid was withdrawn, rejected or expired is released.
func (c *LifecycleController) Reconcile(ctx context.Context, requestID string) (model.ReconcileResult, error) {
	if requestID == "" {
		return model.ReconcileResult{}, validationErr("empty service request ID")
	}

	req, err := c.requests.Get(ctx, requestID)
	if err != nil {
		return model.ReconcileResult{}, storeErr("load service request "+requestID, err)
	}
	result := model.ReconcileResult{
		ServiceRequestID: requestID,
		BidID:            req.AcceptedBidID,
		Action:           model.ReconcileVerified,
	}
	if !req.Claimed() {
		return result, nil
	}

	bid, err := c.repo.GetBid(ctx, req.AcceptedBidID)
	if err != nil {
		return result, storeErr("load claimed bid "+req.AcceptedBidID, err)
	}

	var decision model.DecisionResult
	switch bid.Status {
	case model.BidAccepted:
		decision, err = c.completeAccept(ctx, bid, req, false)

	case model.BidPending:
		accepted, terr := c.repo.TransitionBid(ctx, bid.BidID, model.BidPending, model.BidAccepted, c.now())
		if errors.Is(terr, biddingerrors.ErrStatusMismatch) {
			return result, invalidStateErr("bid %s changed to %s during reconciliation", bid.BidID, accepted.Status)
		} else if terr != nil {
			return result, storeErr("accept claimed bid "+bid.BidID, terr)
		}
		decision, err = c.completeAccept(ctx, accepted, req, true)

	default:
		if req.Status != model.RequestPending {
			return result, conflictErr("service request %s is %s but its bid %s is %s", requestID, req.Status, bid.BidID, bid.Status)
		}
		if _, err := c.requests.Release(ctx, requestID, bid.BidID); err != nil {
			return result, storeErr("release service request "+requestID, err)
		}
		result.Action = model.ReconcileReleased
		utils.Warn("reconcile: released orphaned claim", map[string]any{
			"service_request_id": requestID,
			"bid_id":             bid.BidID,
			"bid_status":         bid.Status,
		})
		return result, nil
	}
	if err != nil {
		return result, err
	}

	if !decision.Noop {
		result.Action = model.ReconcileCompleted
		result.AutoRejectedBidIDs = decision.AutoRejectedBidIDs
		utils.Warn("reconcile: completed interrupted acceptance", map[string]any{
			"service_request_id": requestID,
			"bid_id":             bid.BidID,
			"auto_rejected":      len(decision.AutoRejectedBidIDs),
		})
	}
	return result, nil
}

// ReconcileAll reconciles every claimed service request that is still
// pending or assigned.
func (c *LifecycleController) ReconcileAll(ctx context.Context) ([]model.ReconcileResult, error) {
	claimed, err := c.repo.FindServiceRequests(ctx, model.ServiceRequestFilter{
		ClaimedOnly: true,
		Statuses:    []model.ServiceRequestStatus{model.RequestPending, model.RequestAssigned},
	})
	if err != nil {
		return nil, storeErr("list claimed service requests", err)
	}

	results := make([]model.ReconcileResult, 0, len(claimed))
	var errs []error
	for _, req := range claimed {
		res, err := c.Reconcile(ctx, req.RequestID)
		if err != nil {
			utils.Error("reconcile: service request repair failed", map[string]any{
				"service_request_id": req.RequestID,
				"error":              err.Error(),
			})
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
