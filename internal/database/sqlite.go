package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/AnshRaj112/serenify-companion/internal/models"
)

// sqliteTimeLayout is fixed width so that text order equals time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS activities (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		type       TEXT NOT NULL,
		name       TEXT NOT NULL,
		duration   REAL NOT NULL DEFAULT 0,
		date       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_user_date ON activities(user_id, date DESC)`,
}

// OpenSQLite opens or creates the SQLite database at path, creating the
// parent directory if needed, and applies the schema. ":memory:" opens a
// private in-memory database.
func OpenSQLite(path string) (*sql.DB, error) {
	if isInMemoryPath(path) {
		return OpenSQLiteInMemory()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL for concurrent readers alongside the single writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrateSQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLiteInMemory opens a private in-memory database, useful for testing.
func OpenSQLiteInMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	if err := migrateSQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func isInMemoryPath(path string) bool {
	path = strings.TrimSpace(path)
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

func migrateSQLite(db *sql.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// SQLiteActivityStore is the local-development activity store.
type SQLiteActivityStore struct {
	db *sql.DB
}

func NewSQLiteActivityStore(db *sql.DB) *SQLiteActivityStore {
	return &SQLiteActivityStore{db: db}
}

// Insert stores rec, assigning an ID when it has none.
func (s *SQLiteActivityStore) Insert(ctx context.Context, rec models.ActivityRecord) (models.ActivityRecord, error) {
	if err := rec.Validate(); err != nil {
		return models.ActivityRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (id, user_id, type, name, duration, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.UserID, rec.Type, rec.Name, rec.Duration,
		formatSQLiteTime(rec.Date), formatSQLiteTime(rec.CreatedAt), formatSQLiteTime(rec.UpdatedAt))
	if err != nil {
		return models.ActivityRecord{}, fmt.Errorf("insert activity: %w", err)
	}
	return rec, nil
}

// FindByUser returns every record for userID, newest first.
func (s *SQLiteActivityStore) FindByUser(ctx context.Context, userID string) ([]models.ActivityRecord, error) {
	return s.ListByUser(ctx, userID, 0)
}

// ListByUser returns at most limit records for userID, newest first.
func (s *SQLiteActivityStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.ActivityRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, name, duration, date, created_at, updated_at
		FROM activities
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("find activities: %w", err)
	}
	defer rows.Close()

	records := []models.ActivityRecord{}
	for rows.Next() {
		var rec models.ActivityRecord
		var date, createdAt, updatedAt string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Name, &rec.Duration, &date, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if rec.Date, err = time.Parse(sqliteTimeLayout, date); err != nil {
			return nil, fmt.Errorf("parse activity date: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse activity created_at: %w", err)
		}
		if rec.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
			return nil, fmt.Errorf("parse activity updated_at: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}
