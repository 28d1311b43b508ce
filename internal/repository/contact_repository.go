package repository

import (
	"database/sql"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/model"
)

type ContactRepositoryInterface interface {
	Upsert(phone string, name *string) error
	RecomputeStats(phone string) error
	List(excludeBlocked bool) ([]model.Contact, error)
	Block(phone string) error
}

type ContactRepository struct {
	DB *sql.DB
}

// Upsert creates the contact row if missing. An existing name is kept when
// no new one is provided.
func (r *ContactRepository) Upsert(phone string, name *string) error {
	query := `
		INSERT INTO contacts (phone_number, name, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (phone_number)
		DO UPDATE SET name = COALESCE($2, contacts.name), updated_at = NOW()
	`
	_, err := r.DB.Exec(query, phone, name)
	return err
}

// RecomputeStats rebuilds per-contact aggregates from the message and reply
// rows, same recomputation discipline as the campaign counters.
func (r *ContactRepository) RecomputeStats(phone string) error {
	query := `
		UPDATE contacts
		SET
			last_message_at = (SELECT MAX(sent_at) FROM messages WHERE phone_number = $1),
			total_messages_sent = (SELECT COUNT(*) FROM messages WHERE phone_number = $1),
			total_replies = (SELECT COUNT(*) FROM replies WHERE phone_number = $1),
			updated_at = NOW()
		WHERE phone_number = $1
	`
	_, err := r.DB.Exec(query, phone)
	return err
}

func (r *ContactRepository) List(excludeBlocked bool) ([]model.Contact, error) {
	query := `
		SELECT id, phone_number, name, last_message_at, total_messages_sent,
			total_replies, is_blocked, notes, created_at, updated_at
		FROM contacts
	`
	if excludeBlocked {
		query += ` WHERE is_blocked = FALSE`
	}
	query += ` ORDER BY last_message_at DESC NULLS LAST`

	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(
			&c.ID, &c.PhoneNumber, &c.Name, &c.LastMessageAt, &c.TotalMessagesSent,
			&c.TotalReplies, &c.IsBlocked, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) Block(phone string) error {
	_, err := r.DB.Exec(`UPDATE contacts SET is_blocked = TRUE, updated_at = NOW() WHERE phone_number = $1`, phone)
	return err
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
