package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/serenify-companion/internal/events"
	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/internal/observability"
	"github.com/AnshRaj112/serenify-companion/pkg/utils"
)

// ErrStoreUnavailable wraps any failure of a backing store. Callers report it
// as a generic server error and do not retry.
var ErrStoreUnavailable = errors.New("store unavailable")

const (
	DefaultListLimit = 50
	MaxListLimit     = 200

	publishTimeout = 3 * time.Second
)

// ActivityStore persists activity records.
type ActivityStore interface {
	Insert(ctx context.Context, rec models.ActivityRecord) (models.ActivityRecord, error)
	// FindByUser returns the complete record set for a user, newest first.
	FindByUser(ctx context.Context, userID string) ([]models.ActivityRecord, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ActivityRecord, error)
}

// DashboardCache holds computed summaries between writes.
type DashboardCache interface {
	GetDashboard(ctx context.Context, userID string) (DashboardSummary, bool, error)
	// DashboardVersion changes on every invalidation. SetDashboard ignores a
	// summary whose version is no longer current.
	DashboardVersion(ctx context.Context, userID string) (int64, error)
	SetDashboard(ctx context.Context, userID string, version int64, summary DashboardSummary) error
	InvalidateDashboard(ctx context.Context, userID string) error
}

// ActivityService owns the activity write path and the dashboard read path.
type ActivityService struct {
	store     ActivityStore
	cache     DashboardCache
	publisher events.Publisher
	now       func() time.Time
}

// NewActivityService wires the service. cache and publisher may be nil.
func NewActivityService(store ActivityStore, cache DashboardCache, publisher events.Publisher) *ActivityService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ActivityService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

// Record logs an activity sent directly by a client. Unlike Save, the
// duration must be present.
func (s *ActivityService) Record(ctx context.Context, in models.ActivityInput) (models.ActivityRecord, error) {
	rec, err := s.Prepare(in)
	if err != nil {
		return models.ActivityRecord{}, err
	}
	return s.persist(ctx, rec)
}

// Prepare builds and validates a client-sent activity without storing it.
// The record gets its ID up front so other documents can point at it before
// Commit runs.
func (s *ActivityService) Prepare(in models.ActivityInput) (models.ActivityRecord, error) {
	rec, err := models.NewActivityRecord(in, s.now())
	if err != nil {
		return models.ActivityRecord{}, err
	}
	if in.Duration == nil {
		return models.ActivityRecord{}, &utils.ValidationError{Field: "duration", Message: "duration is required"}
	}
	rec.ID = uuid.NewString()
	return rec, nil
}

// Commit stores a record built by Prepare.
func (s *ActivityService) Commit(ctx context.Context, rec models.ActivityRecord) (models.ActivityRecord, error) {
	return s.persist(ctx, rec)
}

// Save records an activity produced by another feature (journal).
// A missing duration defaults to 0.
func (s *ActivityService) Save(ctx context.Context, in models.ActivityInput) (models.ActivityRecord, error) {
	rec, err := models.NewActivityRecord(in, s.now())
	if err != nil {
		return models.ActivityRecord{}, err
	}
	return s.persist(ctx, rec)
}

func (s *ActivityService) persist(ctx context.Context, rec models.ActivityRecord) (models.ActivityRecord, error) {
	stored, err := s.store.Insert(ctx, rec)
	if err != nil {
		var vErr *utils.ValidationError
		if errors.As(err, &vErr) {
			return models.ActivityRecord{}, err
		}
		return models.ActivityRecord{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateDashboard(ctx, stored.UserID); err != nil {
			log.Printf("[Activity] failed to invalidate dashboard cache for %s: %v", stored.UserID, err)
		}
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.PublishActivity(pubCtx, events.NewActivityRecorded(stored)); err != nil {
		observability.RecordEventPublishFailure()
		log.Printf("[Activity] failed to publish activity %s: %v", stored.ID, err)
	}

	observability.RecordActivity(stored.Type)
	return stored, nil
}

// List returns the user's most recent records. limit is clamped to
// [1, MaxListLimit]; zero or negative means DefaultListLimit.
func (s *ActivityService) List(ctx context.Context, userID string, limit int) ([]models.ActivityRecord, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListByUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return records, nil
}

// Dashboard returns the user's summary, from cache when possible. A user
// without records gets the zero summary.
func (s *ActivityService) Dashboard(ctx context.Context, userID string) (DashboardSummary, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return DashboardSummary{}, err
	}

	var version int64
	cacheable := s.cache != nil
	if cacheable {
		summary, ok, err := s.cache.GetDashboard(ctx, userID)
		switch {
		case err != nil:
			observability.RecordDashboardCache("error")
			log.Printf("[Dashboard] cache read failed for %s: %v", userID, err)
		case ok:
			observability.RecordDashboardCache("hit")
			return summary, nil
		default:
			observability.RecordDashboardCache("miss")
		}

		// Read before the store so a write racing this request wins.
		if version, err = s.cache.DashboardVersion(ctx, userID); err != nil {
			log.Printf("[Dashboard] cache version read failed for %s: %v", userID, err)
			cacheable = false
		}
	}

	records, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	summary := ComputeDashboard(records)

	if cacheable {
		if err := s.cache.SetDashboard(ctx, userID, version, summary); err != nil {
			log.Printf("[Dashboard] cache write failed for %s: %v", userID, err)
		}
	}
	return summary, nil
}

// Reward derives the user's xp and badge from their lifetime minutes.
func (s *ActivityService) Reward(ctx context.Context, userID string) (Reward, error) {
	summary, err := s.Dashboard(ctx, userID)
	if err != nil {
		return Reward{}, err
	}
	return CalculateReward(summary.TotalMinutes), nil
}

func requireUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", &utils.ValidationError{Field: "userId", Message: "userId is required"}
	}
	return userID, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
