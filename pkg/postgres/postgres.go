package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{"host": cfg.Host, "db": cfg.DBName}).Info("Successfully connected to PostgreSQL")
	return db, nil
}

// Migrations is the schema applied by RunMigrations, in order.
var Migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role VARCHAR(10) NOT NULL DEFAULT 'USER',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_login TIMESTAMPTZ,
		last_visited_page TEXT NOT NULL DEFAULT '/',
		bio TEXT NOT NULL DEFAULT '',
		skills TEXT[] NOT NULL DEFAULT '{}',
		github TEXT NOT NULL DEFAULT '',
		linkedin TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id VARCHAR(36) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		short_description TEXT NOT NULL DEFAULT '',
		date TIMESTAMPTZ NOT NULL,
		time VARCHAR(50) NOT NULL DEFAULT '',
		location VARCHAR(255) NOT NULL,
		image_urls TEXT[] NOT NULL DEFAULT '{}',
		form_url TEXT NOT NULL DEFAULT '',
		category VARCHAR(100) NOT NULL,
		max_attendees INTEGER CHECK (max_attendees IS NULL OR max_attendees >= 1),
		tags TEXT[] NOT NULL DEFAULT '{}',
		speaker JSONB,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_by VARCHAR(255) NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS rsvps (
		id VARCHAR(36) PRIMARY KEY,
		event_id VARCHAR(36) NOT NULL REFERENCES events(id),
		user_email VARCHAR(255) NOT NULL,
		user_name VARCHAR(100) NOT NULL,
		status VARCHAR(10) NOT NULL DEFAULT 'PENDING',
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		notes VARCHAR(500) NOT NULL DEFAULT ''
	)`,

	// Indexes
	`CREATE INDEX IF NOT EXISTS idx_events_active_date ON events(is_active, date)`,
	`CREATE INDEX IF NOT EXISTS idx_rsvps_event_status ON rsvps(event_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_rsvps_user_email ON rsvps(user_email)`,
	// at most one non-cancelled RSVP per (event, email)
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_rsvps_event_user_active
		ON rsvps(event_id, user_email) WHERE status <> 'CANCELLED'`,
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	for i, migration := range Migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", i, err)
		}
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}
