package models

import "time"

type NotificationType string

const (
	NotificationQuoteReceived  NotificationType = "quote_received"
	NotificationQuoteAccepted  NotificationType = "quote_accepted"
	NotificationQuoteRejected  NotificationType = "quote_rejected"
	NotificationQuoteWithdrawn NotificationType = "quote_withdrawn"
	NotificationQuoteExpired   NotificationType = "quote_expired"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

type Channel string

const (
	ChannelInApp Channel = "in-app"
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
)

// Notification is the descriptor handed to the dispatcher
type Notification struct {
	ID              string               `json:"id"`
	Type            NotificationType     `json:"type"`
	Title           string               `json:"title"`
	Message         string               `json:"message"`
	Priority        NotificationPriority `json:"priority"`
	RecipientUserID string               `json:"recipient_user_id"`
	Payload         map[string]any       `json:"payload,omitempty"`
	ActionURL       string               `json:"action_url,omitempty"`
	ActionLabel     string               `json:"action_label,omitempty"`
	Channels        []Channel            `json:"channels"`
	CreatedAt       time.Time            `json:"created_at"`
}
