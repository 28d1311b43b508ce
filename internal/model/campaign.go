// internal/model/campaign.go
package model

import "time"

// Campaign statuses. A campaign moves pending -> running -> one of
// completed/stopped/failed. "failed" is reserved for campaign-level fatal
// conditions; individual message failures never fail the campaign.
const (
	CampaignStatusPending   = "pending"
	CampaignStatusRunning   = "running"
	CampaignStatusCompleted = "completed"
	CampaignStatusStopped   = "stopped"
	CampaignStatusFailed    = "failed"
)

const (
	CampaignTypeText  = "text"
	CampaignTypeImage = "image"
)

type Campaign struct {
	ID                   int        `db:"id" json:"id"`
	Name                 string     `db:"name" json:"name"`
	Message              *string    `db:"message" json:"message,omitempty"`
	ImageURL             *string    `db:"image_url" json:"image_url,omitempty"`
	Caption              *string    `db:"caption" json:"caption,omitempty"`
	Type                 string     `db:"type" json:"type"`
	TotalTargets         int        `db:"total_targets" json:"total_targets"`
	SentCount            int        `db:"sent_count" json:"sent_count"`
	DeliveredCount       int        `db:"delivered_count" json:"delivered_count"`
	FailedCount          int        `db:"failed_count" json:"failed_count"`
	ReplyCount           int        `db:"reply_count" json:"reply_count"`
	Status               string     `db:"status" json:"status"`
	TypingDuration       int        `db:"typing_duration" json:"typing_duration"`
	DelayBetweenMessages int        `db:"delay_between_messages" json:"delay_between_messages"`
	SessionName          string     `db:"session_name" json:"session_name"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	StartedAt            *time.Time `db:"started_at" json:"started_at,omitempty"`
	CompletedAt          *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
