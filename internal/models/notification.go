package models

// NotificationChannel names a delivery channel.
type NotificationChannel string

const (
	ChannelEmail     NotificationChannel = "email"
	ChannelMessaging NotificationChannel = "messaging"
)

// NotificationRequest is one best-effort message. Send outcomes are logged
// only and never block session progress.
type NotificationRequest struct {
	Channel   NotificationChannel `json:"channel"`
	Recipient string              `json:"recipient"`
	Subject   string              `json:"subject,omitempty"`
	Body      string              `json:"body"`
	// HTML marks Body as html for channels that render it (email).
	HTML bool `json:"html,omitempty"`
}
