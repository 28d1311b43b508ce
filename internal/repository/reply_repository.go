package repository

import (
	"database/sql"
	"time"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/model"
)

type ReplyRepositoryInterface interface {
	Create(rep *model.Reply) error
	ListByCampaign(campaignID int) ([]model.Reply, error)
	ListByPhone(phone string) ([]model.Reply, error)
	ListUnread() ([]model.Reply, error)
	MarkRead(id int) error
}

type ReplyRepository struct {
	DB *sql.DB
}

func (r *ReplyRepository) Create(rep *model.Reply) error {
	rep.ReceivedAt = time.Now()
	if rep.ReplyType == "" {
		rep.ReplyType = "text"
	}
	query := `
		INSERT INTO replies (message_id, campaign_id, phone_number, reply_text, reply_type, media_url, waha_reply_id, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRow(query,
		rep.MessageID, rep.CampaignID, rep.PhoneNumber, rep.ReplyText,
		rep.ReplyType, rep.MediaURL, rep.WahaReplyID, rep.ReceivedAt,
	).Scan(&rep.ID)
}

func (r *ReplyRepository) ListByCampaign(campaignID int) ([]model.Reply, error) {
	query := `
		SELECT id, message_id, campaign_id, phone_number, reply_text, reply_type,
			media_url, waha_reply_id, received_at, is_read, NULL AS campaign_name
		FROM replies WHERE campaign_id = $1 ORDER BY received_at DESC
	`
	return r.queryReplies(query, campaignID)
}

func (r *ReplyRepository) ListByPhone(phone string) ([]model.Reply, error) {
	query := `
		SELECT r.id, r.message_id, r.campaign_id, r.phone_number, r.reply_text, r.reply_type,
			r.media_url, r.waha_reply_id, r.received_at, r.is_read, c.name AS campaign_name
		FROM replies r
		LEFT JOIN campaigns c ON r.campaign_id = c.id
		WHERE r.phone_number = $1 ORDER BY r.received_at DESC
	`
	return r.queryReplies(query, phone)
}

func (r *ReplyRepository) ListUnread() ([]model.Reply, error) {
	query := `
		SELECT r.id, r.message_id, r.campaign_id, r.phone_number, r.reply_text, r.reply_type,
			r.media_url, r.waha_reply_id, r.received_at, r.is_read, c.name AS campaign_name
		FROM replies r
		LEFT JOIN campaigns c ON r.campaign_id = c.id
		WHERE r.is_read = FALSE ORDER BY r.received_at DESC
	`
	return r.queryReplies(query)
}

func (r *ReplyRepository) MarkRead(id int) error {
	_, err := r.DB.Exec(`UPDATE replies SET is_read = TRUE WHERE id = $1`, id)
	return err
}

func (r *ReplyRepository) queryReplies(query string, args ...any) ([]model.Reply, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := []model.Reply{}
	for rows.Next() {
		var rep model.Reply
		if err := rows.Scan(
			&rep.ID, &rep.MessageID, &rep.CampaignID, &rep.PhoneNumber, &rep.ReplyText,
			&rep.ReplyType, &rep.MediaURL, &rep.WahaReplyID, &rep.ReceivedAt, &rep.IsRead,
			&rep.CampaignName,
		); err != nil {
			return nil, err
		}
		replies = append(replies, rep)
	}
	return replies, rows.Err()
}

var _ ReplyRepositoryInterface = (*ReplyRepository)(nil)
