package biddingerrors

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrAuthorization  = errors.New("not authorized")
	ErrInvalidState   = errors.New("invalid state transition")
	ErrConflict       = errors.New("conflicting decision")
	ErrPersistence    = errors.New("persistence failure")
	ErrPartialFailure = errors.New("partial failure")
)

// Repository-level errors
var (
	ErrBidNotFound            = fmt.Errorf("bid %w", ErrNotFound)
	ErrServiceRequestNotFound = fmt.Errorf("service request %w", ErrNotFound)
	ErrContractorNotFound     = fmt.Errorf("contractor %w", ErrNotFound)
	ErrBidExists              = errors.New("bid already exists")
	// ErrStatusMismatch means a conditional update found a different
	// current status than the caller expected.
	ErrStatusMismatch = errors.New("status changed concurrently")
	// ErrAlreadyAssigned means a different bid already holds the request.
	ErrAlreadyAssigned = fmt.Errorf("service request already assigned: %w", ErrConflict)
	// ErrRequestClosed means the request no longer accepts assignments.
	ErrRequestClosed = fmt.Errorf("service request closed: %w", ErrInvalidState)
)

// Step names a stage of the accept operation
type Step string

const (
	StepWriteBid       Step = "write-bid"
	StepMarkAssigned   Step = "assign-service-request"
	StepReleaseRequest Step = "release-service-request"
)

// PartialFailureError reports a multi-step operation that committed some
// steps but not all. The service request named by ServiceRequestID is
// still claimed for BidID.
type PartialFailureError struct {
	BidID            string
	ServiceRequestID string
	Step             Step
	// InFlight is set when the caller's deadline expired before the step
	// could finish; retrying the same decision completes it.
	InFlight bool
	Err      error
}

func (e *PartialFailureError) Error() string {
	state := "failed"
	if e.InFlight {
		state = "in flight"
	}
	return fmt.Sprintf("partial failure: bid %s on service request %s, step %s %s: %v",
		e.BidID, e.ServiceRequestID, e.Step, state, e.Err)
}

func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}
