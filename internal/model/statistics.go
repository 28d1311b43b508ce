// internal/model/statistics.go
package model

// Statistics is the dashboard snapshot across all campaigns.
type Statistics struct {
	TotalCampaigns  int `json:"total_campaigns"`
	ActiveCampaigns int `json:"active_campaigns"`
	TotalMessages   int `json:"total_messages"`
	SentMessages    int `json:"sent_messages"`
	FailedMessages  int `json:"failed_messages"`
	TotalReplies    int `json:"total_replies"`
	UnreadReplies   int `json:"unread_replies"`
	TotalContacts   int `json:"total_contacts"`
}
