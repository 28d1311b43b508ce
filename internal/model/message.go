// internal/model/message.go
package model

import "time"

// Message statuses. Status only moves forward along
// pending -> sent -> delivered -> read; "failed" is terminal and is only
// reachable from pending (a send attempt that never went out).
const (
	MessageStatusPending   = "pending"
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
	MessageStatusFailed    = "failed"
)

// messageStatusRank orders statuses for the forward-only transition check.
var messageStatusRank = map[string]int{
	MessageStatusPending:   0,
	MessageStatusSent:      1,
	MessageStatusDelivered: 2,
	MessageStatusRead:      3,
}

// StatusAdvances reports whether moving from to the given status is forward
// progress. Anything out of "failed" is never an advance.
func StatusAdvances(from, to string) bool {
	if from == MessageStatusFailed {
		return false
	}
	fromRank, ok := messageStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := messageStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

type Message struct {
	ID            int        `db:"id" json:"id"`
	CampaignID    *int       `db:"campaign_id" json:"campaign_id,omitempty"`
	PhoneNumber   string     `db:"phone_number" json:"phone_number"`
	Message       *string    `db:"message" json:"message,omitempty"`
	Status        string     `db:"status" json:"status"`
	WahaMessageID *string    `db:"waha_message_id" json:"waha_message_id,omitempty"`
	ErrorMessage  *string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	SentAt        *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	DeliveredAt   *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`
	ReadAt        *time.Time `db:"read_at" json:"read_at,omitempty"`

	// CampaignName is populated on joined reads only.
	CampaignName *string `db:"campaign_name" json:"campaign_name,omitempty"`
}
