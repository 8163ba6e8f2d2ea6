package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bid-lifecycle/internal/biddingerrors"
	model "bid-lifecycle/internal/models"
)

// MarketplaceDB is the record store behind the bid lifecycle. Every write
// is an atomic single-record update; there are no multi-record transactions.
type MarketplaceDB interface {
	// CreateBid inserts a bid only while its request is pending and
	// unclaimed; otherwise it fails with ErrRequestClosed.
	CreateBid(ctx context.Context, bid model.Bid) error
	GetBid(ctx context.Context, bidID string) (model.Bid, error)
	FindBids(ctx context.Context, filter model.BidFilter) ([]model.Bid, error)
	// TransitionBid moves a bid from status `from` to `to` only if it is
	// still in `from`; otherwise it fails with ErrStatusMismatch.
	TransitionBid(ctx context.Context, bidID string, from, to model.BidStatus, at time.Time) (model.Bid, error)

	GetServiceRequest(ctx context.Context, requestID string) (model.ServiceRequest, error)
	FindServiceRequests(ctx context.Context, filter model.ServiceRequestFilter) ([]model.ServiceRequest, error)
	// AssignServiceRequest claims an unclaimed, open request for a bid.
	// Re-claiming with the same contractor and bid is a no-op.
	AssignServiceRequest(ctx context.Context, requestID, contractorID, bidID string, at time.Time) (model.ServiceRequest, error)
	// MarkServiceRequestAssigned moves a request claimed by bidID from
	// pending to assigned. The bool reports whether this call moved it.
	MarkServiceRequestAssigned(ctx context.Context, requestID, bidID string) (model.ServiceRequest, bool, error)
	// ReleaseServiceRequest drops a claim held by bidID on a pending request.
	ReleaseServiceRequest(ctx context.Context, requestID, bidID string) (model.ServiceRequest, error)

	GetContractor(ctx context.Context, contractorID string) (model.Contractor, error)
	CreateNotification(ctx context.Context, n model.Notification) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of MarketplaceDB
type MemoryRepo struct {
	mu            sync.RWMutex
	bids          map[string]model.Bid            // key: bidID
	requestBids   map[string][]string             // key: requestID -> bidIDs in submission order
	requests      map[string]model.ServiceRequest // key: requestID
	contractors   map[string]model.Contractor     // key: contractorID
	notifications []model.Notification
}

var _ MarketplaceDB = (*MemoryRepo)(nil)

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		bids:        make(map[string]model.Bid),
		requestBids: make(map[string][]string),
		requests:    make(map[string]model.ServiceRequest),
		contractors: make(map[string]model.Contractor),
	}
}

// CreateBid stores a new bid on an open, unclaimed request
func (r *MemoryRepo) CreateBid(_ context.Context, bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[bid.ServiceRequestID]
	if !ok {
		return fmt.Errorf("create bid for request %s: %w", bid.ServiceRequestID, biddingerrors.ErrServiceRequestNotFound)
	}
	if req.Status != model.RequestPending || req.Claimed() {
		return fmt.Errorf("create bid for request %s: status %s, claimed by %q: %w",
			req.RequestID, req.Status, req.AcceptedBidID, biddingerrors.ErrRequestClosed)
	}
	if _, ok := r.bids[bid.BidID]; ok {
		return fmt.Errorf("create bid %s: %w", bid.BidID, biddingerrors.ErrBidExists)
	}

	r.bids[bid.BidID] = cloneBid(bid)
	r.requestBids[bid.ServiceRequestID] = append(r.requestBids[bid.ServiceRequestID], bid.BidID)
	return nil
}

// GetBid returns a single bid by id
func (r *MemoryRepo) GetBid(_ context.Context, bidID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, biddingerrors.ErrBidNotFound)
	}
	return cloneBid(bid), nil
}

// FindBids returns the bids matching filter ordered by submission time
func (r *MemoryRepo) FindBids(_ context.Context, filter model.BidFilter) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []string
	if filter.ServiceRequestID != "" {
		candidates = r.requestBids[filter.ServiceRequestID]
	} else {
		candidates = make([]string, 0, len(r.bids))
		for id := range r.bids {
			candidates = append(candidates, id)
		}
	}

	bids := make([]model.Bid, 0, len(candidates))
	for _, id := range candidates {
		if bid := r.bids[id]; filter.Matches(bid) {
			bids = append(bids, cloneBid(bid))
		}
	}

	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].SubmittedAt.Before(bids[j].SubmittedAt)
	})
	return bids, nil
}

// TransitionBid performs a compare-and-set on the bid's status
func (r *MemoryRepo) TransitionBid(_ context.Context, bidID string, from, to model.BidStatus, at time.Time) (model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return model.Bid{}, fmt.Errorf("transition bid %s: %w", bidID, biddingerrors.ErrBidNotFound)
	}
	if bid.Status != from {
		return cloneBid(bid), fmt.Errorf("transition bid %s from %s: is %s: %w", bidID, from, bid.Status, biddingerrors.ErrStatusMismatch)
	}
	if err := bid.ApplyTransition(to, at); err != nil {
		return cloneBid(bid), fmt.Errorf("transition bid %s: %w", bidID, err)
	}

	r.bids[bidID] = bid
	return cloneBid(bid), nil
}

// GetServiceRequest returns a single service request by id
func (r *MemoryRepo) GetServiceRequest(_ context.Context, requestID string) (model.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[requestID]
	if !ok {
		return model.ServiceRequest{}, fmt.Errorf("get service request %s: %w", requestID, biddingerrors.ErrServiceRequestNotFound)
	}
	return req, nil
}

// FindServiceRequests returns the service requests matching filter
func (r *MemoryRepo) FindServiceRequests(_ context.Context, filter model.ServiceRequestFilter) ([]model.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]model.ServiceRequest, 0)
	for _, req := range r.requests {
		if filter.Matches(req) {
			requests = append(requests, req)
		}
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].RequestID < requests[j].RequestID
	})
	return requests, nil
}

// AssignServiceRequest claims the request for the given contractor and bid
func (r *MemoryRepo) AssignServiceRequest(_ context.Context, requestID, contractorID, bidID string, at time.Time) (model.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[requestID]
	if !ok {
		return model.ServiceRequest{}, fmt.Errorf("assign service request %s: %w", requestID, biddingerrors.ErrServiceRequestNotFound)
	}

	switch {
	case req.AcceptedBidID == bidID && req.AssignedContractorID == contractorID:
		return req, nil
	case req.Claimed():
		return req, fmt.Errorf("assign service request %s: held by contractor %s: %w", requestID, req.AssignedContractorID, biddingerrors.ErrAlreadyAssigned)
	case req.Status != model.RequestPending:
		return req, fmt.Errorf("assign service request %s: status %s: %w", requestID, req.Status, biddingerrors.ErrRequestClosed)
	}

	stamp := at.UTC()
	req.AssignedContractorID = contractorID
	req.AcceptedBidID = bidID
	req.AssignedAt = &stamp
	r.requests[requestID] = req
	return req, nil
}

// MarkServiceRequestAssigned flips a claimed request to assigned
func (r *MemoryRepo) MarkServiceRequestAssigned(_ context.Context, requestID, bidID string) (model.ServiceRequest, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[requestID]
	if !ok {
		return model.ServiceRequest{}, false, fmt.Errorf("mark service request %s assigned: %w", requestID, biddingerrors.ErrServiceRequestNotFound)
	}
	if req.AcceptedBidID != bidID {
		return req, false, fmt.Errorf("mark service request %s assigned: claimed by %q: %w", requestID, req.AcceptedBidID, biddingerrors.ErrAlreadyAssigned)
	}
	if req.Status != model.RequestPending {
		return req, false, nil
	}

	req.Status = model.RequestAssigned
	r.requests[requestID] = req
	return req, true, nil
}

// ReleaseServiceRequest drops a claim that never became an assignment
func (r *MemoryRepo) ReleaseServiceRequest(_ context.Context, requestID, bidID string) (model.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[requestID]
	if !ok {
		return model.ServiceRequest{}, fmt.Errorf("release service request %s: %w", requestID, biddingerrors.ErrServiceRequestNotFound)
	}
	if req.AcceptedBidID != bidID || req.Status != model.RequestPending {
		return req, nil
	}

	req.AssignedContractorID = ""
	req.AcceptedBidID = ""
	req.AssignedAt = nil
	r.requests[requestID] = req
	return req, nil
}

// GetContractor returns a contractor by id
func (r *MemoryRepo) GetContractor(_ context.Context, contractorID string) (model.Contractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contractor, ok := r.contractors[contractorID]
	if !ok {
		return model.Contractor{}, fmt.Errorf("get contractor %s: %w", contractorID, biddingerrors.ErrContractorNotFound)
	}
	return contractor, nil
}

// CreateNotification stores an in-app notification record
func (r *MemoryRepo) CreateNotification(_ context.Context, n model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, n)
	return nil
}

// Notifications returns the stored notifications for a recipient, or all of
// them when recipient is empty.
func (r *MemoryRepo) Notifications(recipient string) []model.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Notification, 0, len(r.notifications))
	for _, n := range r.notifications {
		if recipient == "" || n.RecipientUserID == recipient {
			out = append(out, n)
		}
	}
	return out
}

// AddServiceRequest seeds a service request. Intended for tests and demo data.
func (r *MemoryRepo) AddServiceRequest(req model.ServiceRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.Status == "" {
		req.Status = model.RequestPending
	}
	r.requests[req.RequestID] = req
}

// AddContractor seeds a contractor. Intended for tests and demo data.
func (r *MemoryRepo) AddContractor(c model.Contractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contractors[c.ContractorID] = c
}

// SetServiceRequestStatus overrides a request's status. Intended for tests.
func (r *MemoryRepo) SetServiceRequestStatus(requestID string, status model.ServiceRequestStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req, ok := r.requests[requestID]; ok {
		req.Status = status
		r.requests[requestID] = req
	}
}

func cloneBid(b model.Bid) model.Bid {
	if b.Materials != nil {
		b.Materials = append([]string(nil), b.Materials...)
	}
	return b
}
