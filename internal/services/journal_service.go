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

const (
	DefaultJournalName = "Journal Entry"
	MaxJournalLength   = 20000
)

type JournalStore interface {
	Insert(ctx context.Context, j models.Journal) (models.Journal, error)
	ListByUser(ctx context.Context, userID string, limit, skip int) ([]models.Journal, int64, error)
}

// JournalResult is a saved entry plus any support resources it triggered.
type JournalResult struct {
	Journal   models.Journal
	Resources []SupportResource
}

// JournalService saves journal entries. Each entry is classified, answered
// with a supportive message, screened for crisis language and logged as a
// Journal activity.
type JournalService struct {
	store      JournalStore
	activities *ActivityService
	classifier EmotionClassifier
	messages   MessageGenerator
	cipher     *utils.Cipher
	now        func() time.Time
}

// NewJournalService wires the service. A nil cipher stores content in
// plaintext. Nil AI collaborators fall back to the offline implementations.
func NewJournalService(store JournalStore, activities *ActivityService, classifier EmotionClassifier, messages MessageGenerator, cipher *utils.Cipher) *JournalService {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}
	if messages == nil {
		messages = StaticMessages{}
	}
	return &JournalService{
		store:      store,
		activities: activities,
		classifier: classifier,
		messages:   messages,
		cipher:     cipher,
		now:        time.Now,
	}
}

func (s *JournalService) Save(ctx context.Context, in models.JournalInput) (JournalResult, error) {
	userID, err := requireUserID(in.UserID)
	if err != nil {
		return JournalResult{}, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return JournalResult{}, &utils.ValidationError{Field: "content", Message: "content is required"}
	}
	if utf8.RuneCountInString(content) > MaxJournalLength {
		return JournalResult{}, &utils.ValidationError{Field: "content", Message: fmt.Sprintf("content must be at most %d characters", MaxJournalLength)}
	}
	var duration float64
	if in.Duration != nil {
		if *in.Duration < 0 {
			return JournalResult{}, &utils.ValidationError{Field: "duration", Message: "duration must not be negative"}
		}
		duration = *in.Duration
	}
	title := strings.TrimSpace(in.Title)

	mood, err := s.classifier.Classify(ctx, content)
	if err != nil {
		log.Printf("[Journal] emotion classification failed: %v", err)
		mood = models.MoodNeutral
	}
	message, err := s.messages.Generate(ctx, mood, content)
	if err != nil {
		log.Printf("[Journal] message generation failed: %v", err)
		message, _ = StaticMessages{}.Generate(ctx, mood, content)
	}
	screen := ScreenForCrisis(title + "\n" + content)

	now := s.now().UTC()
	j := models.Journal{
		CreatedAt:      now,
		UpdatedAt:      now,
		UserID:         userID,
		Title:          title,
		Content:        content,
		Duration:       duration,
		AttachmentURL:  strings.TrimSpace(in.AttachmentURL),
		Mood:           mood,
		SupportMessage: message,
		NeedsSupport:   screen.NeedsSupport,
	}
	if s.cipher != nil {
		encrypted, err := s.cipher.Encrypt(content)
		if err != nil {
			return JournalResult{}, fmt.Errorf("encrypt journal: %w", err)
		}
		j.Content = encrypted
		j.Encrypted = true
	}

	stored, err := s.store.Insert(ctx, j)
	if err != nil {
		return JournalResult{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	stored.Content = content

	name := title
	if name == "" {
		name = DefaultJournalName
	}
	if _, err := s.activities.Save(ctx, models.ActivityInput{
		UserID:   userID,
		Type:     models.ActivityJournal,
		Name:     name,
		Duration: &duration,
		At:       now,
	}); err != nil {
		log.Printf("[Journal] failed to record activity for journal %s: %v", stored.ID, err)
	}

	if screen.NeedsSupport {
		log.Printf("[Journal] entry %s flagged for support", stored.ID)
	}
	return JournalResult{Journal: stored, Resources: screen.Resources}, nil
}

// List returns a page of the user's journals with content decrypted, and the
// user's total journal count.
func (s *JournalService) List(ctx context.Context, userID string, limit, skip int) ([]models.Journal, int64, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	if skip < 0 {
		skip = 0
	}
	journals, total, err := s.store.ListByUser(ctx, userID, clampLimit(limit), skip)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	for i := range journals {
		if !journals[i].Encrypted {
			continue
		}
		if s.cipher == nil {
			log.Printf("[Journal] journal %s is encrypted but no key is configured", journals[i].ID)
			journals[i].Content = ""
			continue
		}
		plain, err := s.cipher.Decrypt(journals[i].Content)
		if err != nil {
			log.Printf("[Journal] failed to decrypt journal %s: %v", journals[i].ID, err)
			journals[i].Content = ""
			continue
		}
		journals[i].Content = plain
	}
	return journals, total, nil
}
