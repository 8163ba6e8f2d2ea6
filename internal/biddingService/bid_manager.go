package bidding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"bid-lifecycle/internal/biddingerrors"
	model "bid-lifecycle/internal/models"
	"bid-lifecycle/internal/repository"
	"bid-lifecycle/utils"
)

const genericBidTitle = "Quote for service request"

var validate = validator.New()

// BidManager creates, withdraws and reads bids. Accept/reject/expire live
// in LifecycleController.
type BidManager struct {
	repo     repository.MarketplaceDB
	notifier *Notifier
	now      func() time.Time
}

func NewBidManager(repo repository.MarketplaceDB, notifier *Notifier, now func() time.Time) *BidManager {
	if now == nil {
		now = time.Now
	}
	return &BidManager{repo: repo, notifier: notifier, now: now}
}

// CreateBid validates the input and persists a new pending bid
func (m *BidManager) CreateBid(ctx context.Context, in model.CreateBidInput) (model.Bid, error) {
	in.ServiceRequestID = strings.TrimSpace(in.ServiceRequestID)
	in.ContractorID = strings.TrimSpace(in.ContractorID)
	in.Description = strings.TrimSpace(in.Description)

	now := m.now().UTC()
	if err := validateCreateInput(in, now); err != nil {
		return model.Bid{}, err
	}

	req, err := m.repo.GetServiceRequest(ctx, in.ServiceRequestID)
	if err != nil {
		return model.Bid{}, storeErr("load service request "+in.ServiceRequestID, err)
	}
	if req.Status != model.RequestPending {
		return model.Bid{}, invalidStateErr("service request %s is %s and no longer takes bids", req.RequestID, req.Status)
	}
	if req.Claimed() {
		return model.Bid{}, invalidStateErr("service request %s is being awarded to bid %s", req.RequestID, req.AcceptedBidID)
	}

	contractor, err := m.repo.GetContractor(ctx, in.ContractorID)
	if err != nil {
		return model.Bid{}, storeErr("load contractor "+in.ContractorID, err)
	}

	bid := model.Bid{
		BidID:             utils.GenerateID(),
		ServiceRequestID:  req.RequestID,
		ContractorID:      contractor.ContractorID,
		Amount:            in.Amount,
		Description:       in.Description,
		Title:             bidTitle(contractor, req),
		Status:            model.BidPending,
		EstimatedDuration: in.EstimatedDuration,
		Materials:         in.Materials,
		Notes:             in.Notes,
		SubmittedAt:       now,
	}
	if in.ValidUntil != nil {
		validUntil := in.ValidUntil.UTC()
		bid.ValidUntil = &validUntil
	}

	if err := m.repo.CreateBid(ctx, bid); err != nil {
		return model.Bid{}, storeErr(fmt.Sprintf("record bid for service request %s by contractor %s", req.RequestID, contractor.ContractorID), err)
	}

	utils.Info("bid created", map[string]any{
		"bid_id":             bid.BidID,
		"service_request_id": bid.ServiceRequestID,
		"contractor_id":      bid.ContractorID,
		"amount":             bid.Amount.String(),
	})
	m.notifier.QuoteReceived(ctx, bid, req)
	return bid, nil
}

// validateCreateInput checks field rules and business rules for a new bid
func validateCreateInput(in model.CreateBidInput, now time.Time) error {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return validationErr("field %s failed on %q", fe.Field(), fe.Tag())
		}
		return validationErr("%v", err)
	}
	if !in.Amount.IsPositive() {
		return validationErr("non-positive bid amount")
	}
	if in.ValidUntil != nil && !in.ValidUntil.After(now) {
		return validationErr("valid_until must be in the future")
	}
	return nil
}

// bidTitle labels a bid for display; missing names fall back to a generic label
func bidTitle(contractor model.Contractor, req model.ServiceRequest) string {
	business := strings.TrimSpace(contractor.BusinessName)
	title := strings.TrimSpace(req.Title)
	if business == "" || title == "" {
		utils.Debug("bid label fell back to generic title", map[string]any{
			"contractor_id":      contractor.ContractorID,
			"service_request_id": req.RequestID,
		})
		return genericBidTitle
	}
	return business + " - " + title
}

// WithdrawBid lets the owning contractor pull a pending bid
func (m *BidManager) WithdrawBid(ctx context.Context, bidID, contractorID string) (model.Bid, error) {
	if bidID == "" || contractorID == "" {
		return model.Bid{}, validationErr("missing bidID or contractorID")
	}

	bid, err := m.repo.GetBid(ctx, bidID)
	if err != nil {
		return model.Bid{}, storeErr("load bid "+bidID, err)
	}
	if bid.ContractorID != contractorID {
		return model.Bid{}, fmt.Errorf("service: %w - contractor %s does not own bid %s", biddingerrors.ErrAuthorization, contractorID, bidID)
	}
	if bid.Status != model.BidPending {
		return bid, invalidStateErr("bid %s is %s", bidID, bid.Status)
	}

	withdrawn, err := m.repo.TransitionBid(ctx, bidID, model.BidPending, model.BidWithdrawn, m.now())
	if errors.Is(err, biddingerrors.ErrStatusMismatch) {
		return withdrawn, invalidStateErr("bid %s changed to %s before it could be withdrawn", bidID, withdrawn.Status)
	} else if err != nil {
		return bid, storeErr("withdraw bid "+bidID, err)
	}

	utils.Info("bid withdrawn", map[string]any{
		"bid_id":             bidID,
		"service_request_id": withdrawn.ServiceRequestID,
		"contractor_id":      contractorID,
	})

	req, err := m.repo.GetServiceRequest(ctx, withdrawn.ServiceRequestID)
	if err != nil {
		utils.Warn("withdraw notification skipped: service request lookup failed", map[string]any{
			"bid_id": bidID,
			"error":  err.Error(),
		})
		return withdrawn, nil
	}
	m.notifier.QuoteWithdrawn(ctx, withdrawn, req)
	return withdrawn, nil
}

// GetBid returns a single bid
func (m *BidManager) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	if bidID == "" {
		return model.Bid{}, validationErr("empty bid ID")
	}

	bid, err := m.repo.GetBid(ctx, bidID)
	if err != nil {
		return model.Bid{}, storeErr("get bid "+bidID, err)
	}
	return bid, nil
}

// ListBidsForRequest returns the bids on a service request, optionally
// narrowed to one status, in submission order
func (m *BidManager) ListBidsForRequest(ctx context.Context, requestID string, status model.BidStatus) ([]model.Bid, error) {
	if requestID == "" {
		return nil, validationErr("empty service request ID")
	}
	if status != "" && !status.Valid() {
		return nil, validationErr("unknown bid status %q", status)
	}

	if _, err := m.repo.GetServiceRequest(ctx, requestID); err != nil {
		return nil, storeErr("load service request "+requestID, err)
	}

	filter := model.BidFilter{ServiceRequestID: requestID}
	if status != "" {
		filter.Statuses = []model.BidStatus{status}
	}
	bids, err := m.repo.FindBids(ctx, filter)
	if err != nil {
		return nil, storeErr("get bids for service request "+requestID, err)
	}
	return bids, nil
}

// ListBidsByContractor returns every bid a contractor has submitted
func (m *BidManager) ListBidsByContractor(ctx context.Context, contractorID string) ([]model.Bid, error) {
	if contractorID == "" {
		return nil, validationErr("empty contractor ID")
	}

	if _, err := m.repo.GetContractor(ctx, contractorID); err != nil {
		return nil, storeErr("load contractor "+contractorID, err)
	}

	bids, err := m.repo.FindBids(ctx, model.BidFilter{ContractorID: contractorID})
	if err != nil {
		return nil, storeErr("get bids for contractor "+contractorID, err)
	}
	return bids, nil
}
