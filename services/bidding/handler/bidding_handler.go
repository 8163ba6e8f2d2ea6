package handler

import (
	"context"
	"net/http"
	"time"

	model "bid-lifecycle/internal/models"
	"bid-lifecycle/services/bidding/helpers"
	"bid-lifecycle/utils"

	"github.com/gin-gonic/gin"
)

type BiddingServiceInterface interface {
	CreateBid(ctx context.Context, in model.CreateBidInput) (model.Bid, error)
	GetBid(ctx context.Context, bidID string) (model.Bid, error)
	WithdrawBid(ctx context.Context, bidID, contractorID string) (model.Bid, error)
	DecideBid(ctx context.Context, bidID string, decision model.Decision, decidingPartyID string) (model.DecisionResult, error)
	ExpireBid(ctx context.Context, bidID string) (model.Bid, error)
	ListBidsForRequest(ctx context.Context, requestID string, status model.BidStatus) ([]model.Bid, error)
	ListBidsByContractor(ctx context.Context, contractorID string) ([]model.Bid, error)
	ReconcileAll(ctx context.Context) ([]model.ReconcileResult, error)
	ExpireStale(ctx context.Context) ([]string, error)
}

type BiddingHandler struct {
	service       BiddingServiceInterface
	decideTimeout time.Duration
}

// NewBiddingHandler creates a handler; decideTimeout bounds each decision,
// zero means no extra bound beyond the request context.
func NewBiddingHandler(service BiddingServiceInterface, decideTimeout time.Duration) *BiddingHandler {
	return &BiddingHandler{service: service, decideTimeout: decideTimeout}
}

// CreateBidHandler handles POST /bids
func (h *BiddingHandler) CreateBidHandler(c *gin.Context) {
	var req helpers.CreateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateBidHandler", err)
		return
	}

	bid, err := h.service.CreateBid(c.Request.Context(), req.ToInput())
	if err != nil {
		helpers.RespondError(c, "CreateBidHandler", err, map[string]any{
			"service_request_id": req.ServiceRequestID,
			"contractor_id":      req.ContractorID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("CreateBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":             bid.BidID,
		"service_request_id": bid.ServiceRequestID,
		"contractor_id":      bid.ContractorID,
		"amount":             bid.Amount.String(),
	})
}

// GetBidHandler handles GET /bids/:bid_id
func (h *BiddingHandler) GetBidHandler(c *gin.Context) {
	bidID := c.Param("bid_id")
	bid, err := h.service.GetBid(c.Request.Context(), bidID)
	if err != nil {
		helpers.RespondError(c, "GetBidHandler", err, map[string]any{"bid_id": bidID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "bid retrieved successfully")
}

// DecideBidHandler handles POST /bids/:bid_id/decision
func (h *BiddingHandler) DecideBidHandler(c *gin.Context) {
	bidID := c.Param("bid_id")
	var req helpers.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "DecideBidHandler", err)
		return
	}

	ctx := c.Request.Context()
	if h.decideTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.decideTimeout)
		defer cancel()
	}

	result, err := h.service.DecideBid(ctx, bidID, model.Decision(req.Decision), req.DecidingPartyID)
	if err != nil {
		helpers.RespondError(c, "DecideBidHandler", err, map[string]any{
			"bid_id":            bidID,
			"decision":          req.Decision,
			"deciding_party_id": req.DecidingPartyID,
		})
		return
	}

	message := "bid " + string(result.Bid.Status)
	if result.Noop {
		message = "decision already applied"
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToDecisionResponse(result), message)
	helpers.LogSuccess("DecideBidHandler", message, map[string]any{
		"bid_id":        bidID,
		"decision":      req.Decision,
		"auto_rejected": len(result.AutoRejectedBidIDs),
		"noop":          result.Noop,
	})
}

// WithdrawBidHandler handles POST /bids/:bid_id/withdraw
func (h *BiddingHandler) WithdrawBidHandler(c *gin.Context) {
	bidID := c.Param("bid_id")
	var req helpers.WithdrawBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "WithdrawBidHandler", err)
		return
	}

	bid, err := h.service.WithdrawBid(c.Request.Context(), bidID, req.ContractorID)
	if err != nil {
		helpers.RespondError(c, "WithdrawBidHandler", err, map[string]any{
			"bid_id":        bidID,
			"contractor_id": req.ContractorID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "bid withdrawn")
	helpers.LogSuccess("WithdrawBidHandler", "bid withdrawn", map[string]any{"bid_id": bidID})
}

// ExpireBidHandler handles POST /bids/:bid_id/expire
func (h *BiddingHandler) ExpireBidHandler(c *gin.Context) {
	bidID := c.Param("bid_id")
	bid, err := h.service.ExpireBid(c.Request.Context(), bidID)
	if err != nil {
		helpers.RespondError(c, "ExpireBidHandler", err, map[string]any{"bid_id": bidID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "bid expired")
}

// GetBidsByRequestHandler handles GET /service-requests/:request_id/bids
func (h *BiddingHandler) GetBidsByRequestHandler(c *gin.Context) {
	requestID := c.Param("request_id")
	status := model.BidStatus(c.Query("status"))

	bids, err := h.service.ListBidsForRequest(c.Request.Context(), requestID, status)
	if err != nil {
		helpers.RespondError(c, "GetBidsByRequestHandler", err, map[string]any{
			"service_request_id": requestID,
			"status":             string(status),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByRequestHandler", "bids retrieved successfully", map[string]any{
		"service_request_id": requestID,
		"count":              len(bids),
	})
}

// GetBidsByContractorHandler handles GET /contractors/:contractor_id/bids
func (h *BiddingHandler) GetBidsByContractorHandler(c *gin.Context) {
	contractorID := c.Param("contractor_id")
	bids, err := h.service.ListBidsByContractor(c.Request.Context(), contractorID)
	if err != nil {
		helpers.RespondError(c, "GetBidsByContractorHandler", err, map[string]any{"contractor_id": contractorID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByContractorHandler", "bids retrieved successfully", map[string]any{
		"contractor_id": contractorID,
		"count":         len(bids),
	})
}

// ReconcileHandler handles POST /admin/reconcile
func (h *BiddingHandler) ReconcileHandler(c *gin.Context) {
	results, err := h.service.ReconcileAll(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ReconcileHandler", err, map[string]any{"repaired": len(results)})
		return
	}
	if results == nil {
		results = []model.ReconcileResult{}
	}

	utils.JSONResponse(c, http.StatusOK, results, "reconciliation finished")
	helpers.LogSuccess("ReconcileHandler", "reconciliation finished", map[string]any{"requests": len(results)})
}

// ExpireStaleHandler handles POST /admin/expire-stale
func (h *BiddingHandler) ExpireStaleHandler(c *gin.Context) {
	expired, err := h.service.ExpireStale(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ExpireStaleHandler", err, map[string]any{"expired": len(expired)})
		return
	}
	if expired == nil {
		expired = []string{}
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"expired_bid_ids": expired}, "stale bids expired")
	helpers.LogSuccess("ExpireStaleHandler", "stale bids expired", map[string]any{"expired": len(expired)})
}
