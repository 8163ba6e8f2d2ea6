package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contractor represents a tradesperson who submits bids
type Contractor struct {
	ContractorID string `json:"contractor_id"`
	UserID       string `json:"user_id"`
	BusinessName string `json:"business_name"`
}

// ServiceRequest represents a customer's posted job that contractors bid on
type ServiceRequest struct {
	RequestID            string               `json:"request_id"`
	CustomerID           string               `json:"customer_id"`
	Title                string               `json:"title"`
	Status               ServiceRequestStatus `json:"status"`
	AssignedContractorID string               `json:"assigned_contractor_id,omitempty"`
	AcceptedBidID        string               `json:"accepted_bid_id,omitempty"`
	AssignedAt           *time.Time           `json:"assigned_at,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
}

// Claimed reports whether an acceptance has reserved this request.
func (r ServiceRequest) Claimed() bool {
	return r.AcceptedBidID != ""
}

// Bid represents a contractor's priced proposal against a service request
type Bid struct {
	BidID             string          `json:"bid_id"`
	ServiceRequestID  string          `json:"service_request_id"`
	ContractorID      string          `json:"contractor_id"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Title             string          `json:"title"`
	Status            BidStatus       `json:"status"`
	EstimatedDuration string          `json:"estimated_duration,omitempty"`
	Materials         []string        `json:"materials,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	SubmittedAt       time.Time       `json:"submitted_at"`
	ValidUntil        *time.Time      `json:"valid_until,omitempty"`
	AcceptedAt        *time.Time      `json:"accepted_at,omitempty"`
	RejectedAt        *time.Time      `json:"rejected_at,omitempty"`
	WithdrawnAt       *time.Time      `json:"withdrawn_at,omitempty"`
	ExpiredAt         *time.Time      `json:"expired_at,omitempty"`
}

// ApplyTransition moves the bid into status `to` and stamps the matching
// timestamp. It fails when the transition table forbids the move.
func (b *Bid) ApplyTransition(to BidStatus, at time.Time) error {
	if !b.Status.CanTransitionTo(to) {
		return &TransitionError{From: b.Status, To: to}
	}

	stamp := at.UTC()
	switch to {
	case BidAccepted:
		b.AcceptedAt = &stamp
	case BidRejected:
		b.RejectedAt = &stamp
	case BidWithdrawn:
		b.WithdrawnAt = &stamp
	case BidExpired:
		b.ExpiredAt = &stamp
	}
	b.Status = to
	return nil
}

// Expired reports whether the bid's validity window has passed at now.
func (b Bid) Expired(now time.Time) bool {
	return b.ValidUntil != nil && !now.Before(*b.ValidUntil)
}

// CreateBidInput carries the contractor-supplied fields for a new bid
type CreateBidInput struct {
	ServiceRequestID  string          `validate:"required"`
	ContractorID      string          `validate:"required"`
	Amount            decimal.Decimal `validate:"-"`
	Description       string          `validate:"required"`
	EstimatedDuration string          `validate:"omitempty,max=64"`
	Materials         []string        `validate:"omitempty,dive,required"`
	Notes             string          `validate:"omitempty,max=2000"`
	ValidUntil        *time.Time      `validate:"-"`
}

// DecisionResult is what a customer decision produced
type DecisionResult struct {
	Bid                    Bid             `json:"bid"`
	AssignedServiceRequest *ServiceRequest `json:"assigned_service_request,omitempty"`
	AutoRejectedBidIDs     []string        `json:"auto_rejected_bid_ids"`
	// PendingRejections lists siblings that could not be rejected; a
	// reconciliation pass picks them up.
	PendingRejections []string `json:"pending_rejections,omitempty"`
	Noop              bool     `json:"noop"`
}

// ReconcileAction names what a reconciliation pass did to a request
type ReconcileAction string

const (
	ReconcileVerified  ReconcileAction = "verified"
	ReconcileCompleted ReconcileAction = "completed"
	ReconcileReleased  ReconcileAction = "released"
)

// ReconcileResult summarises the repair of a single service request
type ReconcileResult struct {
	ServiceRequestID   string          `json:"service_request_id"`
	BidID              string          `json:"bid_id"`
	Action             ReconcileAction `json:"action"`
	AutoRejectedBidIDs []string        `json:"auto_rejected_bid_ids,omitempty"`
}
