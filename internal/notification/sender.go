package notification

import (
	"context"

	model "bid-lifecycle/internal/models"
	"bid-lifecycle/utils"
)

// LogSender records deliveries in the structured log. It stands in for the
// push and email gateways, which live outside this service.
type LogSender struct {
	channel model.Channel
}

func NewLogSender(channel model.Channel) *LogSender {
	return &LogSender{channel: channel}
}

func (s *LogSender) Channel() model.Channel {
	return s.channel
}

func (s *LogSender) Send(_ context.Context, n model.Notification) error {
	utils.Info("notification sent", map[string]any{
		"channel":         s.channel,
		"notification_id": n.ID,
		"type":            n.Type,
		"recipient":       n.RecipientUserID,
		"priority":        n.Priority,
	})
	return nil
}
