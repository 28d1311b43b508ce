// internal/model/contact.go
package model

import "time"

type Contact struct {
	ID                int        `db:"id" json:"id"`
	PhoneNumber       string     `db:"phone_number" json:"phone_number"`
	Name              *string    `db:"name" json:"name,omitempty"`
	LastMessageAt     *time.Time `db:"last_message_at" json:"last_message_at,omitempty"`
	TotalMessagesSent int        `db:"total_messages_sent" json:"total_messages_sent"`
	TotalReplies      int        `db:"total_replies" json:"total_replies"`
	IsBlocked         bool       `db:"is_blocked" json:"is_blocked"`
	Notes             *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
