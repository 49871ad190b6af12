package models

// NotificationType represents the delivery channel of a notification
type NotificationType string

const (
	NotificationTypeEmail NotificationType = "email"
	NotificationTypeSMS   NotificationType = "sms"
)

// DeliveryStatus is the outcome of one delivery attempt.
type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliverySkipped DeliveryStatus = "skipped"
	DeliveryFailed  DeliveryStatus = "failed"
)

type NotificationOutcome struct {
	Type   NotificationType `json:"type"`
	Status DeliveryStatus   `json:"status"`
	Detail string           `json:"detail,omitempty"`
}

// NotificationReport collects per-channel outcomes. Err aggregates failures and
// is informational: it never undoes the state change that triggered the send.
type NotificationReport struct {
	Outcomes []NotificationOutcome `json:"outcomes"`
	Err      error                 `json:"-"`
}

func (r *NotificationReport) Outcome(t NotificationType) (NotificationOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Type == t {
			return o, true
		}
	}
	return NotificationOutcome{}, false
}
