package bidding

import (
	"context"
	"fmt"

	model "bid-lifecycle/internal/models"
	"bid-lifecycle/internal/notification"
	"bid-lifecycle/internal/repository"
	"bid-lifecycle/utils"
)

// Notifier turns committed bid transitions into notification descriptors.
// It runs after the state change and never reports failure to the caller.
type Notifier struct {
	repo       repository.MarketplaceDB
	dispatcher notification.Dispatcher
}

func NewNotifier(repo repository.MarketplaceDB, dispatcher notification.Dispatcher) *Notifier {
	return &Notifier{repo: repo, dispatcher: dispatcher}
}

// QuoteReceived tells the customer a new bid arrived
func (n *Notifier) QuoteReceived(ctx context.Context, bid model.Bid, req model.ServiceRequest) {
	n.send(ctx, model.Notification{
		Type:            model.NotificationQuoteReceived,
		Title:           "New quote received",
		Message:         fmt.Sprintf("A contractor quoted %s for %s.", bid.Amount.StringFixed(2), requestTitle(req)),
		Priority:        model.PriorityNormal,
		RecipientUserID: req.CustomerID,
		Payload:         bidPayload(bid),
		ActionURL:       fmt.Sprintf("/service-requests/%s/bids", req.RequestID),
		ActionLabel:     "Compare quotes",
	})
}

// QuoteAccepted tells the winning contractor the job is theirs
func (n *Notifier) QuoteAccepted(ctx context.Context, bid model.Bid, req model.ServiceRequest) {
	n.toContractor(ctx, bid, model.Notification{
		Type:        model.NotificationQuoteAccepted,
		Title:       "Quote accepted",
		Message:     fmt.Sprintf("Your quote for %s was accepted. You have been assigned to the job.", requestTitle(req)),
		Priority:    model.PriorityHigh,
		Payload:     bidPayload(bid),
		ActionURL:   fmt.Sprintf("/service-requests/%s", req.RequestID),
		ActionLabel: "View job",
	})
}

// QuoteRejected tells a contractor their bid lost. auto marks rejections
// caused by another bid being accepted.
func (n *Notifier) QuoteRejected(ctx context.Context, bid model.Bid, req model.ServiceRequest, auto bool) {
	message := fmt.Sprintf("Your quote for %s was declined by the customer.", requestTitle(req))
	if auto {
		message = fmt.Sprintf("The customer chose another quote for %s.", requestTitle(req))
	}

	payload := bidPayload(bid)
	payload["auto_rejected"] = auto
	n.toContractor(ctx, bid, model.Notification{
		Type:     model.NotificationQuoteRejected,
		Title:    "Quote not selected",
		Message:  message,
		Priority: model.PriorityNormal,
		Payload:  payload,
	})
}

// QuoteWithdrawn tells the customer a contractor pulled their bid
func (n *Notifier) QuoteWithdrawn(ctx context.Context, bid model.Bid, req model.ServiceRequest) {
	n.send(ctx, model.Notification{
		Type:            model.NotificationQuoteWithdrawn,
		Title:           "Quote withdrawn",
		Message:         fmt.Sprintf("A contractor withdrew their quote for %s.", requestTitle(req)),
		Priority:        model.PriorityLow,
		RecipientUserID: req.CustomerID,
		Payload:         bidPayload(bid),
		ActionURL:       fmt.Sprintf("/service-requests/%s/bids", req.RequestID),
		ActionLabel:     "Compare quotes",
	})
}

// QuoteExpired tells the contractor their bid lapsed
func (n *Notifier) QuoteExpired(ctx context.Context, bid model.Bid, req model.ServiceRequest) {
	n.toContractor(ctx, bid, model.Notification{
		Type:     model.NotificationQuoteExpired,
		Title:    "Quote expired",
		Message:  fmt.Sprintf("Your quote for %s expired before the customer decided.", requestTitle(req)),
		Priority: model.PriorityLow,
		Payload:  bidPayload(bid),
	})
}

// toContractor resolves the contractor's user account and sends
func (n *Notifier) toContractor(ctx context.Context, bid model.Bid, notif model.Notification) {
	if n.dispatcher == nil {
		return
	}

	contractor, err := n.repo.GetContractor(context.WithoutCancel(ctx), bid.ContractorID)
	if err != nil {
		utils.Warn("notification dropped: contractor lookup failed", map[string]any{
			"type":          notif.Type,
			"bid_id":        bid.BidID,
			"contractor_id": bid.ContractorID,
			"error":         err.Error(),
		})
		return
	}

	notif.RecipientUserID = contractor.UserID
	n.send(ctx, notif)
}

func (n *Notifier) send(ctx context.Context, notif model.Notification) {
	if n.dispatcher == nil {
		return
	}

	// the transition is already committed; a cancelled caller must not drop it
	if err := n.dispatcher.Dispatch(context.WithoutCancel(ctx), notif); err != nil {
		utils.Warn("notification dispatch failed", map[string]any{
			"type":      notif.Type,
			"recipient": notif.RecipientUserID,
			"error":     err.Error(),
		})
		return
	}

	utils.Debug("notification dispatched", map[string]any{
		"type":      notif.Type,
		"recipient": notif.RecipientUserID,
	})
}

func bidPayload(bid model.Bid) map[string]any {
	return map[string]any{
		"bid_id":             bid.BidID,
		"service_request_id": bid.ServiceRequestID,
		"contractor_id":      bid.ContractorID,
		"amount":             bid.Amount.StringFixed(2),
		"status":             string(bid.Status),
	}
}

func requestTitle(req model.ServiceRequest) string {
	if req.Title == "" {
		return "your service request"
	}
	return req.Title
}
