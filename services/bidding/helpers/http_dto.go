package helpers

import (
	"time"

	"github.com/shopspring/decimal"

	model "bid-lifecycle/internal/models"
)

// Request/Response DTOs
type CreateBidRequest struct {
	ServiceRequestID  string     `json:"service_request_id" binding:"required"`
	ContractorID      string     `json:"contractor_id" binding:"required"`
	Amount            float64    `json:"amount" binding:"required,gt=0"`
	Description       string     `json:"description" binding:"required"`
	EstimatedDuration string     `json:"estimated_duration"`
	Materials         []string   `json:"materials"`
	Notes             string     `json:"notes"`
	ValidUntil        *time.Time `json:"valid_until"`
}

// ToInput converts the payload into service input; amounts keep cents precision
func (r CreateBidRequest) ToInput() model.CreateBidInput {
	return model.CreateBidInput{
		ServiceRequestID:  r.ServiceRequestID,
		ContractorID:      r.ContractorID,
		Amount:            decimal.NewFromFloat(r.Amount).Round(2),
		Description:       r.Description,
		EstimatedDuration: r.EstimatedDuration,
		Materials:         r.Materials,
		Notes:             r.Notes,
		ValidUntil:        r.ValidUntil,
	}
}

type DecisionRequest struct {
	Decision        string `json:"decision" binding:"required,oneof=accept reject"`
	DecidingPartyID string `json:"deciding_party_id" binding:"required"`
}

type WithdrawBidRequest struct {
	ContractorID string `json:"contractor_id" binding:"required"`
}

type BidResponse struct {
	BidID             string   `json:"bid_id"`
	ServiceRequestID  string   `json:"service_request_id"`
	ContractorID      string   `json:"contractor_id"`
	Title             string   `json:"title"`
	Amount            string   `json:"amount"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	EstimatedDuration string   `json:"estimated_duration,omitempty"`
	Materials         []string `json:"materials,omitempty"`
	Notes             string   `json:"notes,omitempty"`
	SubmittedAt       string   `json:"submitted_at"`
	ValidUntil        string   `json:"valid_until,omitempty"`
	AcceptedAt        string   `json:"accepted_at,omitempty"`
	RejectedAt        string   `json:"rejected_at,omitempty"`
	WithdrawnAt       string   `json:"withdrawn_at,omitempty"`
	ExpiredAt         string   `json:"expired_at,omitempty"`
}

type ServiceRequestResponse struct {
	RequestID            string `json:"request_id"`
	CustomerID           string `json:"customer_id"`
	Title                string `json:"title"`
	Status               string `json:"status"`
	AssignedContractorID string `json:"assigned_contractor_id,omitempty"`
	AcceptedBidID        string `json:"accepted_bid_id,omitempty"`
	AssignedAt           string `json:"assigned_at,omitempty"`
}

type DecisionResponse struct {
	Bid                    BidResponse             `json:"bid"`
	AssignedServiceRequest *ServiceRequestResponse `json:"assigned_service_request,omitempty"`
	AutoRejectedBidIDs     []string                `json:"auto_rejected_bid_ids"`
	PendingRejections      []string                `json:"pending_rejections,omitempty"`
	Noop                   bool                    `json:"noop"`
}

func ToBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:             bid.BidID,
		ServiceRequestID:  bid.ServiceRequestID,
		ContractorID:      bid.ContractorID,
		Title:             bid.Title,
		Amount:            bid.Amount.StringFixed(2),
		Description:       bid.Description,
		Status:            string(bid.Status),
		EstimatedDuration: bid.EstimatedDuration,
		Materials:         bid.Materials,
		Notes:             bid.Notes,
		SubmittedAt:       bid.SubmittedAt.UTC().Format(time.RFC3339),
		ValidUntil:        formatTime(bid.ValidUntil),
		AcceptedAt:        formatTime(bid.AcceptedAt),
		RejectedAt:        formatTime(bid.RejectedAt),
		WithdrawnAt:       formatTime(bid.WithdrawnAt),
		ExpiredAt:         formatTime(bid.ExpiredAt),
	}
}

func ToBidResponses(bids []model.Bid) []BidResponse {
	resp := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, ToBidResponse(b))
	}
	return resp
}

func ToDecisionResponse(result model.DecisionResult) DecisionResponse {
	resp := DecisionResponse{
		Bid:                ToBidResponse(result.Bid),
		AutoRejectedBidIDs: result.AutoRejectedBidIDs,
		PendingRejections:  result.PendingRejections,
		Noop:               result.Noop,
	}
	if resp.AutoRejectedBidIDs == nil {
		resp.AutoRejectedBidIDs = []string{}
	}
	if req := result.AssignedServiceRequest; req != nil {
		sr := ToServiceRequestResponse(*req)
		resp.AssignedServiceRequest = &sr
	}
	return resp
}

// ToServiceRequestResponse hides the contractor of a claim that has not
// become an assignment yet.
func ToServiceRequestResponse(req model.ServiceRequest) ServiceRequestResponse {
	resp := ServiceRequestResponse{
		RequestID:  req.RequestID,
		CustomerID: req.CustomerID,
		Title:      req.Title,
		Status:     string(req.Status),
	}
	if req.Status.AssignedOrLater() {
		resp.AssignedContractorID = req.AssignedContractorID
		resp.AcceptedBidID = req.AcceptedBidID
		resp.AssignedAt = formatTime(req.AssignedAt)
	}
	return resp
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
