package models

import (
	"fmt"

	"bid-lifecycle/internal/biddingerrors"
)

type BidStatus string

const (
	BidPending   BidStatus = "pending"
	BidAccepted  BidStatus = "accepted"
	BidRejected  BidStatus = "rejected"
	BidWithdrawn BidStatus = "withdrawn"
	BidExpired   BidStatus = "expired"
)

// bidTransitions is the bid state machine. Statuses absent from the map
// are terminal.
var bidTransitions = map[BidStatus][]BidStatus{
	BidPending: {BidAccepted, BidRejected, BidWithdrawn, BidExpired},
}

// ParseBidStatus converts a raw string into a known status
func ParseBidStatus(s string) (BidStatus, bool) {
	status := BidStatus(s)
	return status, status.Valid()
}

func (s BidStatus) Valid() bool {
	switch s {
	case BidPending, BidAccepted, BidRejected, BidWithdrawn, BidExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s
func (s BidStatus) IsTerminal() bool {
	return len(bidTransitions[s]) == 0
}

// CanTransitionTo reports whether the state machine allows s -> to
func (s BidStatus) CanTransitionTo(to BidStatus) bool {
	for _, allowed := range bidTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionError is returned when a bid is asked to make a move the
// state machine does not allow.
type TransitionError struct {
	From BidStatus
	To   BidStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move bid from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == biddingerrors.ErrInvalidState
}

type ServiceRequestStatus string

const (
	RequestPending    ServiceRequestStatus = "pending"
	RequestAssigned   ServiceRequestStatus = "assigned"
	RequestInProgress ServiceRequestStatus = "in-progress"
	RequestCompleted  ServiceRequestStatus = "completed"
	RequestCancelled  ServiceRequestStatus = "cancelled"
)

func (s ServiceRequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestAssigned, RequestInProgress, RequestCompleted, RequestCancelled:
		return true
	default:
		return false
	}
}

// Closed reports whether the request no longer takes bids or decisions
func (s ServiceRequestStatus) Closed() bool {
	return s == RequestCompleted || s == RequestCancelled
}

// AssignedOrLater reports whether the request has reached the assigned stage
func (s ServiceRequestStatus) AssignedOrLater() bool {
	return s == RequestAssigned || s == RequestInProgress || s == RequestCompleted
}

// Decision is a customer's verdict on a bid
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == DecisionAccept || d == DecisionReject
}
