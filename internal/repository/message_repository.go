package repository

import (
	"database/sql"
	"time"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/model"
)

type MessageRepositoryInterface interface {
	Create(m *model.Message) error
	GetByWahaID(wahaMessageID string) (*model.Message, error)
	UpdateStatus(id int, status string, wahaMessageID, errorMessage *string) error
	ListPending(campaignID int) ([]model.Message, error)
	ListByCampaign(campaignID int) ([]model.Message, error)
	ListByPhone(phone string) ([]model.Message, error)
}

type MessageRepository struct {
	DB *sql.DB
}

const messageColumns = `id, campaign_id, phone_number, message, status,
	waha_message_id, error_message, created_at, sent_at, delivered_at, read_at`

func scanMessage(row interface{ Scan(...any) error }) (*model.Message, error) {
	var m model.Message
	err := row.Scan(
		&m.ID, &m.CampaignID, &m.PhoneNumber, &m.Message, &m.Status,
		&m.WahaMessageID, &m.ErrorMessage, &m.CreatedAt, &m.SentAt, &m.DeliveredAt, &m.ReadAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) Create(m *model.Message) error {
	m.CreatedAt = time.Now()
	if m.Status == "" {
		m.Status = model.MessageStatusPending
	}
	query := `
		INSERT INTO messages (campaign_id, phone_number, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRow(query, m.CampaignID, m.PhoneNumber, m.Message, m.Status, m.CreatedAt).Scan(&m.ID)
}

func (r *MessageRepository) GetByWahaID(wahaMessageID string) (*model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE waha_message_id = $1`
	m, err := scanMessage(r.DB.QueryRow(query, wahaMessageID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// UpdateStatus sets the status and stamps sent_at/delivered_at/read_at as the
// status crosses each level, keeping earlier stamps. A nil wahaMessageID or
// errorMessage leaves the stored value alone, so an ack never wipes the
// gateway id recorded at send time.
func (r *MessageRepository) UpdateStatus(id int, status string, wahaMessageID, errorMessage *string) error {
	query := `
		UPDATE messages
		SET status = $1,
			waha_message_id = COALESCE($2, waha_message_id),
			error_message = COALESCE($3, error_message),
			sent_at = CASE WHEN $1 IN ('sent', 'delivered', 'read') THEN COALESCE(sent_at, NOW()) ELSE sent_at END,
			delivered_at = CASE WHEN $1 IN ('delivered', 'read') THEN COALESCE(delivered_at, NOW()) ELSE delivered_at END,
			read_at = CASE WHEN $1 = 'read' THEN COALESCE(read_at, NOW()) ELSE read_at END
		WHERE id = $4
	`
	_, err := r.DB.Exec(query, status, wahaMessageID, errorMessage, id)
	return err
}

// ListPending returns a campaign's unsent queue in creation order. Insertion
// order is send order.
func (r *MessageRepository) ListPending(campaignID int) ([]model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE campaign_id = $1 AND status = 'pending' ORDER BY id ASC`
	return r.queryMessages(query, campaignID)
}

func (r *MessageRepository) ListByCampaign(campaignID int) ([]model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE campaign_id = $1 ORDER BY created_at DESC, id DESC`
	return r.queryMessages(query, campaignID)
}

// ListByPhone returns all messages ever sent to a phone number, newest first,
// with the owning campaign's name joined in.
func (r *MessageRepository) ListByPhone(phone string) ([]model.Message, error) {
	query := `
		SELECT m.id, m.campaign_id, m.phone_number, m.message, m.status,
			m.waha_message_id, m.error_message, m.created_at, m.sent_at, m.delivered_at, m.read_at,
			c.name AS campaign_name
		FROM messages m
		LEFT JOIN campaigns c ON m.campaign_id = c.id
		WHERE m.phone_number = $1
		ORDER BY m.created_at DESC, m.id DESC
	`
	rows, err := r.DB.Query(query, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(
			&m.ID, &m.CampaignID, &m.PhoneNumber, &m.Message, &m.Status,
			&m.WahaMessageID, &m.ErrorMessage, &m.CreatedAt, &m.SentAt, &m.DeliveredAt, &m.ReadAt,
			&m.CampaignName,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) queryMessages(query string, args ...any) ([]model.Message, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
