package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/AnshRaj112/serenify-companion/internal/database"
	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/pkg/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthenticated    = errors.New("not signed in")
)

type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

type SessionManager interface {
	Create(ctx context.Context, userID string) (string, error)
	Validate(ctx context.Context, token string) (string, bool, error)
	Invalidate(ctx context.Context, token string) error
}

// AuthResult is a signed-in user and their bearer token.
type AuthResult struct {
	User  models.User
	Token string
}

// AuthService handles anonymous username/password accounts.
type AuthService struct {
	users    UserStore
	sessions SessionManager
}

func NewAuthService(users UserStore, sessions SessionManager) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

func (s *AuthService) Signup(ctx context.Context, username, password string) (AuthResult, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return AuthResult{}, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return AuthResult{}, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, utils.NormalizeUsername(username), hash)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return AuthResult{}, ErrUsernameTaken
		}
		return AuthResult{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	log.Printf("[Auth] user created: %s", user.ID)

	return s.startSession(ctx, user)
}

func (s *AuthService) Signin(ctx context.Context, username, password string) (AuthResult, error) {
	if username == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, utils.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) startSession(ctx context.Context, user models.User) (AuthResult, error) {
	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

// UserFromToken resolves a bearer token to a user ID. An unknown or expired
// token returns ErrUnauthenticated.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}
	userID, ok, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return "", fmt.Errorf("validate session: %w", err)
	}
	if !ok {
		return "", ErrUnauthenticated
	}
	return userID, nil
}

// Me returns the user owning token.
func (s *AuthService) Me(ctx context.Context, token string) (models.User, error) {
	userID, err := s.UserFromToken(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return user, nil
}

func (s *AuthService) Signout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}
