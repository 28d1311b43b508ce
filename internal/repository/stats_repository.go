package repository

import (
	"database/sql"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/model"
)

type StatsRepositoryInterface interface {
	Overview() (*model.Statistics, error)
}

type StatsRepository struct {
	DB *sql.DB
}

// Overview returns the dashboard counters in a single round trip.
func (r *StatsRepository) Overview() (*model.Statistics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM campaigns),
			(SELECT COUNT(*) FROM campaigns WHERE status = 'running'),
			(SELECT COUNT(*) FROM messages),
			(SELECT COUNT(*) FROM messages WHERE status IN ('sent', 'delivered', 'read')),
			(SELECT COUNT(*) FROM messages WHERE status = 'failed'),
			(SELECT COUNT(*) FROM replies),
			(SELECT COUNT(*) FROM replies WHERE is_read = FALSE),
			(SELECT COUNT(*) FROM contacts WHERE is_blocked = FALSE)
	`
	var s model.Statistics
	err := r.DB.QueryRow(query).Scan(
		&s.TotalCampaigns, &s.ActiveCampaigns, &s.TotalMessages, &s.SentMessages,
		&s.FailedMessages, &s.TotalReplies, &s.UnreadReplies, &s.TotalContacts,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

var _ StatsRepositoryInterface = (*StatsRepository)(nil)
