package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to the identity store. Postgres holds account rows
// (the status the session layer enforces) and moderator credentials; all
// moderation entities live in MongoDB.
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	return InitPostgresTables()
}

// InitPostgresTables creates the identity tables if they don't exist.
func InitPostgresTables() error {
	queries := []string{
		// Accounts: one row per platform user the engine can act against.
		// status is the engine's instruction to the identity/session layer;
		// suspended_until bounds a temporary suspension, NULL for a ban.
		`CREATE TABLE IF NOT EXISTS accounts (
			user_id VARCHAR(32) PRIMARY KEY,
			status VARCHAR(16) NOT NULL DEFAULT 'active',
			suspended_until TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Moderators: reviewer/admin accounts that sign in to the engine.
		`CREATE TABLE IF NOT EXISTS moderators (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(20) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'reviewer',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_accounts_status ON accounts(status)`,
	}

	for _, q := range queries {
		if _, err := PostgresDB.Exec(q); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
