// internal/model/reply.go
package model

import "time"

type Reply struct {
	ID          int       `db:"id" json:"id"`
	MessageID   *int      `db:"message_id" json:"message_id,omitempty"`
	CampaignID  *int      `db:"campaign_id" json:"campaign_id,omitempty"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	ReplyText   *string   `db:"reply_text" json:"reply_text,omitempty"`
	ReplyType   string    `db:"reply_type" json:"reply_type"`
	MediaURL    *string   `db:"media_url" json:"media_url,omitempty"`
	WahaReplyID *string   `db:"waha_reply_id" json:"waha_reply_id,omitempty"`
	ReceivedAt  time.Time `db:"received_at" json:"received_at"`
	IsRead      bool      `db:"is_read" json:"is_read"`

	// CampaignName is populated on joined reads only.
	CampaignName *string `db:"campaign_name" json:"campaign_name,omitempty"`
}
