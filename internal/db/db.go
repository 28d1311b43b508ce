// internal/db/db.go
package db

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

var DB *sql.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := os.Getenv("DB_USER")
		pass := os.Getenv("DB_PASSWORD")
		host := os.Getenv("DB_HOST")
		port := os.Getenv("DB_PORT")
		name := os.Getenv("DB_NAME")
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			user, pass, host, port, name,
		)
	}

	var err error
	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}

	if err = DB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping DB")
	}

	if err = createTables(DB); err != nil {
		log.Fatal().Err(err).Msg("failed to create tables")
	}

	log.Info().Msg("✅ Connected to database")
}

// createTables bootstraps the schema on startup so a fresh database is
// usable without a separate migration step.
func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS campaigns (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			message TEXT,
			image_url TEXT,
			caption TEXT,
			type TEXT NOT NULL DEFAULT 'text',
			total_targets INTEGER NOT NULL DEFAULT 0,
			sent_count INTEGER NOT NULL DEFAULT 0,
			delivered_count INTEGER NOT NULL DEFAULT 0,
			failed_count INTEGER NOT NULL DEFAULT 0,
			reply_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			typing_duration INTEGER NOT NULL DEFAULT 3000,
			delay_between_messages INTEGER NOT NULL DEFAULT 5000,
			session_name TEXT NOT NULL DEFAULT 'default',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			started_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id SERIAL PRIMARY KEY,
			campaign_id INTEGER REFERENCES campaigns(id),
			phone_number TEXT NOT NULL,
			message TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			waha_message_id TEXT,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			sent_at TIMESTAMPTZ,
			delivered_at TIMESTAMPTZ,
			read_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS replies (
			id SERIAL PRIMARY KEY,
			message_id INTEGER REFERENCES messages(id),
			campaign_id INTEGER REFERENCES campaigns(id),
			phone_number TEXT NOT NULL,
			reply_text TEXT,
			reply_type TEXT NOT NULL DEFAULT 'text',
			media_url TEXT,
			waha_reply_id TEXT,
			received_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_read BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id SERIAL PRIMARY KEY,
			phone_number TEXT UNIQUE NOT NULL,
			name TEXT,
			last_message_at TIMESTAMPTZ,
			total_messages_sent INTEGER NOT NULL DEFAULT 0,
			total_replies INTEGER NOT NULL DEFAULT 0,
			is_blocked BOOLEAN NOT NULL DEFAULT FALSE,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_campaign_status ON messages (campaign_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_waha_id ON messages (waha_message_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_phone ON messages (phone_number)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
