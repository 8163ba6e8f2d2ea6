package bidding

import (
	"context"
	"time"

	model "bid-lifecycle/internal/models"
	"bid-lifecycle/internal/repository"
	"bid-lifecycle/utils"
)

// ServiceRequestRef is the lifecycle's narrow view of a service request.
// Writes are conditional in the store and retried here on transient failure.
type ServiceRequestRef struct {
	repo   repository.MarketplaceDB
	policy utils.RetryPolicy
}

func NewServiceRequestRef(repo repository.MarketplaceDB, policy utils.RetryPolicy) *ServiceRequestRef {
	return &ServiceRequestRef{repo: repo, policy: policy}
}

func (r *ServiceRequestRef) Get(ctx context.Context, requestID string) (model.ServiceRequest, error) {
	return r.repo.GetServiceRequest(ctx, requestID)
}

func (r *ServiceRequestRef) GetStatus(ctx context.Context, requestID string) (model.ServiceRequestStatus, error) {
	req, err := r.repo.GetServiceRequest(ctx, requestID)
	if err != nil {
		return "", err
	}
	return req.Status, nil
}

// GetAssignedContractor returns the assigned contractor, or "" while the
// request is pending. A claim alone does not count as an assignment.
func (r *ServiceRequestRef) GetAssignedContractor(ctx context.Context, requestID string) (string, error) {
	req, err := r.repo.GetServiceRequest(ctx, requestID)
	if err != nil {
		return "", err
	}
	if !req.Status.AssignedOrLater() {
		return "", nil
	}
	return req.AssignedContractorID, nil
}

// Assign claims the request for bidID. Claiming again with the same
// contractor and bid succeeds without change.
//
// The claim is keyed on the bid, not the contractor: a second bid from the
// contractor already holding the claim conflicts, so at most one bid per
// request can ever be accepted.
func (r *ServiceRequestRef) Assign(ctx context.Context, requestID, contractorID, bidID string, at time.Time) (model.ServiceRequest, error) {
	var req model.ServiceRequest
	err := utils.Retry(ctx, r.policy, isTransient, func(ctx context.Context) error {
		var err error
		req, err = r.repo.AssignServiceRequest(ctx, requestID, contractorID, bidID, at)
		return err
	})
	return req, err
}

// MarkAssigned flips a request claimed by bidID to assigned. moved is true
// only for the call that performed the flip.
func (r *ServiceRequestRef) MarkAssigned(ctx context.Context, requestID, bidID string) (req model.ServiceRequest, moved bool, err error) {
	err = utils.Retry(ctx, r.policy, isTransient, func(ctx context.Context) error {
		var err error
		req, moved, err = r.repo.MarkServiceRequestAssigned(ctx, requestID, bidID)
		return err
	})
	return req, moved, err
}

// Release drops a claim held by bidID on a request that never got assigned
func (r *ServiceRequestRef) Release(ctx context.Context, requestID, bidID string) (model.ServiceRequest, error) {
	var req model.ServiceRequest
	err := utils.Retry(ctx, r.policy, isTransient, func(ctx context.Context) error {
		var err error
		req, err = r.repo.ReleaseServiceRequest(ctx, requestID, bidID)
		return err
	})
	return req, err
}
