package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// ConnectPostgres opens and pings a PostgreSQL pool.
func ConnectPostgres(postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Println("✅ Connected to PostgreSQL")
	return db, nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(ctx context.Context, db *sql.DB) error {
	queries := []string{
		// Users table (PRIVACY-FIRST: username only)
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(20) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		// Goals: one target per (user, activity type). user_id is not a foreign
		// key because activity owners are not required to have an account.
		`CREATE TABLE IF NOT EXISTS goals (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id VARCHAR(255) NOT NULL,
			type VARCHAR(100) NOT NULL,
			title VARCHAR(255) NOT NULL DEFAULT '',
			target_minutes DOUBLE PRECISION NOT NULL CHECK (target_minutes > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(user_id, type)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users(LOWER(username))`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user_id ON goals(user_id)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}
