package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/AnshRaj112/serenify-companion/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// PostgresUserStore reads and writes the users table.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// Create inserts a user. username must already be normalised.
func (s *PostgresUserStore) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u := models.User{Username: username, PasswordHash: passwordHash, IsActive: true}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, username, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// FindByUsername matches case-insensitively and only returns active users.
func (s *PostgresUserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findOne(ctx, `
		SELECT id, username, password_hash, created_at, is_active
		FROM users WHERE LOWER(username) = LOWER($1) AND is_active = TRUE
	`, username)
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.findOne(ctx, `
		SELECT id, username, password_hash, created_at, is_active
		FROM users WHERE id = $1 AND is_active = TRUE
	`, id)
}

func (s *PostgresUserStore) findOne(ctx context.Context, query string, arg string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// PostgresGoalStore reads and writes the goals table.
type PostgresGoalStore struct {
	db *sql.DB
}

func NewPostgresGoalStore(db *sql.DB) *PostgresGoalStore {
	return &PostgresGoalStore{db: db}
}

// Upsert creates the user's goal for g.Type or replaces its target and title.
func (s *PostgresGoalStore) Upsert(ctx context.Context, g models.Goal) (models.Goal, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO goals (user_id, type, title, target_minutes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, type) DO UPDATE
		SET title = EXCLUDED.title, target_minutes = EXCLUDED.target_minutes, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, g.UserID, g.Type, g.Title, g.TargetMinutes).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return models.Goal{}, fmt.Errorf("upsert goal: %w", err)
	}
	return g, nil
}

// ListByUser returns the user's goals ordered by type.
func (s *PostgresGoalStore) ListByUser(ctx context.Context, userID string) ([]models.Goal, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, title, target_minutes, created_at, updated_at
		FROM goals WHERE user_id = $1
		ORDER BY type
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Type, &g.Title, &g.TargetMinutes, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
