package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/pkg/utils"
)

var serviceNow = time.Date(2024, 7, 20, 18, 0, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }

func newActivityService(store ActivityStore, cache DashboardCache, pub *recordingPublisher) *ActivityService {
	svc := NewActivityService(store, cache, nil)
	if pub != nil {
		svc.publisher = pub
	}
	svc.now = func() time.Time { return serviceNow }
	return svc
}

func TestActivityService_RecordRequiresFields(t *testing.T) {
	svc := newActivityService(&memActivityStore{}, nil, nil)

	tests := []struct {
		in    models.ActivityInput
		field string
	}{
		{models.ActivityInput{Name: "Run", Duration: f64(10)}, "userId"},
		{models.ActivityInput{UserID: "u1", Duration: f64(10)}, "name"},
		{models.ActivityInput{UserID: "u1", Name: "Run"}, "duration"},
	}
	for _, tt := range tests {
		_, err := svc.Record(context.Background(), tt.in)
		var vErr *utils.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, tt.field, vErr.Field)
	}
}

func TestActivityService_RecordPersistsInvalidatesAndPublishes(t *testing.T) {
	store := &memActivityStore{}
	cache := newMemDashboardCache()
	pub := &recordingPublisher{}
	svc := newActivityService(store, cache, pub)
	ctx := context.Background()

	cache.entries["u1"] = DashboardSummary{TotalSessions: 99}

	rec, err := svc.Record(ctx, models.ActivityInput{UserID: "u1", Name: "Evening walk", Type: "exercise", Duration: f64(25)})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.ActivityExercise, rec.Type)
	assert.True(t, rec.Date.Equal(serviceNow))
	assert.Equal(t, []string{"u1"}, cache.invalidated)
	require.Len(t, pub.events, 1)
	assert.Equal(t, rec.ID, pub.events[0].ActivityID)

	summary, err := svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalSessions, "stale cache entry must be gone")
}

func TestActivityService_PublishFailureDoesNotFailRecord(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newActivityService(&memActivityStore{}, nil, pub)

	_, err := svc.Record(context.Background(), models.ActivityInput{UserID: "u1", Name: "Stretch", Duration: f64(5)})
	assert.NoError(t, err)
}

func TestActivityService_SaveDefaultsDuration(t *testing.T) {
	store := &memActivityStore{}
	svc := newActivityService(store, nil, nil)

	rec, err := svc.Save(context.Background(), models.ActivityInput{UserID: "u1", Name: "Journal Entry", Type: models.ActivityJournal})
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.Duration)
	assert.Len(t, store.records, 1)
}

func TestActivityService_StoreFailureIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	svc := newActivityService(&memActivityStore{err: boom}, nil, nil)
	ctx := context.Background()

	_, err := svc.Record(ctx, models.ActivityInput{UserID: "u1", Name: "Run", Duration: f64(5)})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, boom)

	_, err = svc.Dashboard(ctx, "u1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = svc.List(ctx, "u1", 10)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestActivityService_DashboardUnknownUserIsZero(t *testing.T) {
	svc := newActivityService(&memActivityStore{}, nil, nil)

	summary, err := svc.Dashboard(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Streak)
	assert.Equal(t, NoActivityPlaceholder, summary.LastActivity)
	assert.NotNil(t, summary.ByType)
}

func TestActivityService_DashboardBlankUser(t *testing.T) {
	svc := newActivityService(&memActivityStore{}, nil, nil)

	_, err := svc.Dashboard(context.Background(), "   ")
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "userId", vErr.Field)
}

func TestActivityService_DashboardUsesCache(t *testing.T) {
	store := &memActivityStore{}
	cache := newMemDashboardCache()
	svc := newActivityService(store, cache, nil)
	ctx := context.Background()

	_, err := svc.Record(ctx, models.ActivityInput{UserID: "u1", Name: "Run", Duration: f64(30)})
	require.NoError(t, err)

	first, err := svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	second, err := svc.Dashboard(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.finds, "second read should be served from cache")
}

func TestActivityService_DashboardCacheErrorFallsBackToStore(t *testing.T) {
	store := &memActivityStore{}
	cache := newMemDashboardCache()
	cache.getErr = errors.New("redis timeout")
	svc := newActivityService(store, cache, nil)
	ctx := context.Background()

	_, err := svc.Record(ctx, models.ActivityInput{UserID: "u1", Name: "Run", Duration: f64(30)})
	require.NoError(t, err)

	summary, err := svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 30.0, summary.TotalMinutes)
}

func TestActivityService_ListClampsLimit(t *testing.T) {
	store := &memActivityStore{}
	svc := newActivityService(store, nil, nil)
	ctx := context.Background()

	for i := 0; i < DefaultListLimit+5; i++ {
		_, err := svc.Save(ctx, models.ActivityInput{UserID: "u1", Name: "Breath", At: serviceNow.Add(-time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultListLimit)

	got, err = svc.List(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.True(t, got[0].Date.Equal(serviceNow))
}

func TestActivityService_Reward(t *testing.T) {
	svc := newActivityService(&memActivityStore{}, nil, nil)
	ctx := context.Background()

	for _, m := range []float64{120, 90, 15} {
		_, err := svc.Record(ctx, models.ActivityInput{UserID: "u1", Name: "Session", Duration: f64(m)})
		require.NoError(t, err)
	}

	reward, err := svc.Reward(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, Reward{XP: 225, Badge: BadgeSilver, NextBadge: BadgeGold, XPToNextBadge: 276}, reward)
}

func TestCacheService_DashboardRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCacheService(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.GetDashboard(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2024, 7, 20, 8, 0, 0, 0, time.UTC)
	want := DashboardSummary{
		TotalMinutes:   42.5,
		TotalSessions:  3,
		Streak:         2,
		LastActivity:   "Jul 20, 2024",
		LastActivityAt: &at,
		ByType: map[string]TypeBreakdown{
			models.ActivityExercise: {Minutes: 42.5, Sessions: 3, Progress: 100},
		},
	}
	require.NoError(t, cache.SetDashboard(ctx, "u1", 0, want))
	assert.True(t, mr.Exists(CacheKeyPrefix+"dashboard:u1"))
	assert.Equal(t, time.Minute, mr.TTL(CacheKeyPrefix+"dashboard:u1"))

	got, ok, err := cache.GetDashboard(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.TotalMinutes, got.TotalMinutes)
	assert.Equal(t, want.ByType, got.ByType)
	require.NotNil(t, got.LastActivityAt)
	assert.True(t, got.LastActivityAt.Equal(at))

	require.NoError(t, cache.InvalidateDashboard(ctx, "u1"))
	_, ok, err = cache.GetDashboard(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheService_SkipsSetAfterInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCacheService(client, time.Minute)
	ctx := context.Background()

	version, err := cache.DashboardVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	// A write lands between the reader's version check and its cache set.
	require.NoError(t, cache.InvalidateDashboard(ctx, "u1"))
	require.NoError(t, cache.SetDashboard(ctx, "u1", version, DashboardSummary{TotalSessions: 1}))

	_, ok, err := cache.GetDashboard(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "stale summary must not be cached")

	current, err := cache.DashboardVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), current)
	require.NoError(t, cache.SetDashboard(ctx, "u1", current, DashboardSummary{TotalSessions: 2}))

	got, ok, err := cache.GetDashboard(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, got.TotalSessions)
	assert.Equal(t, time.Minute, mr.TTL(CacheKeyPrefix+"dashboard:u1"))
}

// writeAfterReadStore simulates a write that commits after the dashboard read
// has loaded its records but before it caches the summary.
type writeAfterReadStore struct {
	*memActivityStore
	afterFind func()
}

func (s *writeAfterReadStore) FindByUser(ctx context.Context, userID string) ([]models.ActivityRecord, error) {
	records, err := s.memActivityStore.FindByUser(ctx, userID)
	if hook := s.afterFind; hook != nil {
		s.afterFind = nil
		hook()
	}
	return records, err
}

func TestActivityService_DashboardNotCachedStaleAfterConcurrentWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &writeAfterReadStore{memActivityStore: &memActivityStore{}}
	svc := newActivityService(store, NewCacheService(client, time.Minute), nil)
	ctx := context.Background()

	_, err := svc.Record(ctx, models.ActivityInput{UserID: "u1", Name: "Run", Duration: f64(10)})
	require.NoError(t, err)

	store.afterFind = func() {
		_, err := svc.Record(ctx, models.ActivityInput{UserID: "u1", Name: "Walk", Duration: f64(5)})
		require.NoError(t, err)
	}
	first, err := svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalSessions)

	second, err := svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, second.TotalSessions)
	assert.Equal(t, 15.0, second.TotalMinutes)
}

func TestCacheService_ExpiresAfterTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCacheService(client, 0)
	ctx := context.Background()

	require.NoError(t, cache.SetDashboard(ctx, "u1", 0, DashboardSummary{TotalSessions: 1}))
	mr.FastForward(DefaultCacheTTL + time.Second)

	_, ok, err := cache.GetDashboard(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := NewSessionStore(client)
	ctx := context.Background()

	first, err := sessions.Create(ctx, "user-1")
	require.NoError(t, err)
	userID, ok, err := sessions.Validate(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)

	second, err := sessions.Create(ctx, "user-1")
	require.NoError(t, err)
	_, ok, err = sessions.Validate(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok, "signing in again revokes the previous session")

	require.NoError(t, sessions.Invalidate(ctx, second))
	_, ok, err = sessions.Validate(ctx, second)
	require.NoError(t, err)
	assert.False(t, ok)

	third, err := sessions.Create(ctx, "user-1")
	require.NoError(t, err)
	mr.FastForward(SessionDuration + time.Second)
	_, ok, err = sessions.Validate(ctx, third)
	require.NoError(t, err)
	assert.False(t, ok, "sessions expire")
}
