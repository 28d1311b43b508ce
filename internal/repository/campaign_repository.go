package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/errors"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	List(limit int) ([]model.Campaign, error)
	UpdateStatus(campaignID int, status string) error
	RecomputeStats(campaignID int) error
	Delete(campaignID int) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, name, message, image_url, caption, type, total_targets,
	sent_count, delivered_count, failed_count, reply_count, status,
	typing_duration, delay_between_messages, session_name,
	created_at, started_at, completed_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID, &c.Name, &c.Message, &c.ImageURL, &c.Caption, &c.Type, &c.TotalTargets,
		&c.SentCount, &c.DeliveredCount, &c.FailedCount, &c.ReplyCount, &c.Status,
		&c.TypingDuration, &c.DelayBetweenMessages, &c.SessionName,
		&c.CreatedAt, &c.StartedAt, &c.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignStatusPending
	}
	if c.Type == "" {
		c.Type = model.CampaignTypeText
	}
	query := `
		INSERT INTO campaigns (name, message, image_url, caption, type, total_targets,
			typing_duration, delay_between_messages, session_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRow(query,
		c.Name, c.Message, c.ImageURL, c.Caption, c.Type, c.TotalTargets,
		c.TypingDuration, c.DelayBetweenMessages, c.SessionName, c.Status, c.CreatedAt,
	).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) List(limit int) ([]model.Campaign, error) {
	if limit < 1 {
		limit = 50
	}
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at DESC LIMIT $1`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// UpdateStatus transitions the campaign and stamps started_at/completed_at on
// the matching transitions without ever clearing an earlier stamp.
func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
	query := `
		UPDATE campaigns
		SET status = $1,
			started_at = CASE WHEN $1 = 'running' THEN COALESCE(started_at, NOW()) ELSE started_at END,
			completed_at = CASE WHEN $1 IN ('completed', 'failed') THEN COALESCE(completed_at, NOW()) ELSE completed_at END
		WHERE id = $2
	`
	_, err := r.DB.Exec(query, status, campaignID)
	return err
}

// RecomputeStats rebuilds the four campaign counters from the message and
// reply rows. Recomputation, not increments: concurrent writers (dispatch
// loop and webhook reconciler) stay consistent without locks.
func (r *CampaignRepository) RecomputeStats(campaignID int) error {
	query := `
		UPDATE campaigns
		SET
			sent_count = (SELECT COUNT(*) FROM messages WHERE campaign_id = $1 AND status IN ('sent', 'delivered', 'read')),
			delivered_count = (SELECT COUNT(*) FROM messages WHERE campaign_id = $1 AND status IN ('delivered', 'read')),
			failed_count = (SELECT COUNT(*) FROM messages WHERE campaign_id = $1 AND status = 'failed'),
			reply_count = (SELECT COUNT(*) FROM replies WHERE campaign_id = $1)
		WHERE id = $1
	`
	_, err := r.DB.Exec(query, campaignID)
	return err
}

// Delete removes a campaign along with its messages and replies.
func (r *CampaignRepository) Delete(campaignID int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM replies WHERE campaign_id = $1`, campaignID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM messages WHERE campaign_id = $1`, campaignID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM campaigns WHERE id = $1`, campaignID); err != nil {
		return err
	}
	return tx.Commit()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
