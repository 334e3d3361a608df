package interfaces

import "context"

// Severity classifies admin notifications.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notification is the toast surfaced to the admin after an action.
type Notification struct {
	Title    string   `json:"title"`
	Body     string   `json:"body,omitempty"`
	Severity Severity `json:"severity"`
}

// Notifier receives admin notifications. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}
