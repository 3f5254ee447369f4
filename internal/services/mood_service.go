package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/pkg/utils"
)

const MaxMoodNoteLength = 2000

type MoodStore interface {
	Insert(ctx context.Context, m models.MoodEntry) (models.MoodEntry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error)
}

// MoodResult is a saved mood entry plus any support resources its note triggered.
type MoodResult struct {
	Entry     models.MoodEntry
	Resources []SupportResource
}

type MoodService struct {
	store      MoodStore
	classifier EmotionClassifier
	messages   MessageGenerator
	now        func() time.Time
}

func NewMoodService(store MoodStore, classifier EmotionClassifier, messages MessageGenerator) *MoodService {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}
	if messages == nil {
		messages = StaticMessages{}
	}
	return &MoodService{store: store, classifier: classifier, messages: messages, now: time.Now}
}

// Log stores a mood check-in. A missing mood is classified from the note.
func (s *MoodService) Log(ctx context.Context, in models.MoodInput) (MoodResult, error) {
	userID, err := requireUserID(in.UserID)
	if err != nil {
		return MoodResult{}, err
	}
	mood := strings.TrimSpace(in.Mood)
	note := strings.TrimSpace(in.Note)
	if mood == "" && note == "" {
		return MoodResult{}, &utils.ValidationError{Field: "mood", Message: "mood or note is required"}
	}
	if utf8.RuneCountInString(note) > MaxMoodNoteLength {
		return MoodResult{}, &utils.ValidationError{Field: "note", Message: fmt.Sprintf("note must be at most %d characters", MaxMoodNoteLength)}
	}

	source := models.MoodSourceUser
	if mood != "" {
		if !models.IsKnownMood(mood) {
			return MoodResult{}, &utils.ValidationError{Field: "mood", Message: "mood must be one of happy, sad, angry, anxious, neutral"}
		}
		mood = models.NormalizeMood(mood)
	} else {
		source = models.MoodSourceClassifier
		mood, err = s.classifier.Classify(ctx, note)
		if err != nil {
			log.Printf("[Mood] emotion classification failed: %v", err)
			mood = models.MoodNeutral
		}
	}

	message, err := s.messages.Generate(ctx, mood, note)
	if err != nil {
		log.Printf("[Mood] message generation failed: %v", err)
		message, _ = StaticMessages{}.Generate(ctx, mood, note)
	}

	entry, err := s.store.Insert(ctx, models.MoodEntry{
		UserID:    userID,
		Mood:      mood,
		Note:      note,
		Source:    source,
		Message:   message,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return MoodResult{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return MoodResult{Entry: entry, Resources: ScreenForCrisis(note).Resources}, nil
}

func (s *MoodService) List(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListByUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return entries, nil
}
