package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/pkg/utils"
)

const DefaultMeditationName = "Meditation"

type MeditationStore interface {
	Insert(ctx context.Context, m models.MeditationSession) (models.MeditationSession, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.MeditationSession, error)
}

type MeditationService struct {
	store      MeditationStore
	activities *ActivityService
}

func NewMeditationService(store MeditationStore, activities *ActivityService) *MeditationService {
	return &MeditationService{store: store, activities: activities}
}

// Complete records a finished meditation. The session is stored first and
// its Meditation activity second, so a failed session insert leaves no
// activity behind and the request can be retried. A failed activity write is
// logged and the session is still returned.
func (s *MeditationService) Complete(ctx context.Context, in models.MeditationInput) (models.MeditationSession, error) {
	if _, err := requireUserID(in.UserID); err != nil {
		return models.MeditationSession{}, err
	}
	if in.Duration == nil {
		return models.MeditationSession{}, &utils.ValidationError{Field: "duration", Message: "duration is required"}
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = DefaultMeditationName
	}

	rec, err := s.activities.Prepare(models.ActivityInput{
		UserID:   in.UserID,
		Type:     models.ActivityMeditation,
		Name:     name,
		Duration: in.Duration,
		Date:     in.Date,
		Time:     in.Time,
	})
	if err != nil {
		return models.MeditationSession{}, err
	}

	session, err := s.store.Insert(ctx, models.MeditationSession{
		UserID:     rec.UserID,
		Name:       rec.Name,
		Technique:  strings.TrimSpace(in.Technique),
		Duration:   rec.Duration,
		Date:       rec.Date,
		ActivityID: rec.ID,
		CreatedAt:  rec.CreatedAt,
	})
	if err != nil {
		return models.MeditationSession{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if _, err := s.activities.Commit(ctx, rec); err != nil {
		log.Printf("[Meditation] failed to record activity for session %s: %v", session.ID, err)
	}
	return session, nil
}

func (s *MeditationService) List(ctx context.Context, userID string, limit int) ([]models.MeditationSession, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.ListByUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return sessions, nil
}
